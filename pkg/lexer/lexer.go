// Copyright 2024 The YangCore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package lexer implements the TokenChain (spec §4.2): a replayable,
// random-access stream of classified tokens produced from a
// source.CharSource. It is grounded on yuma123's ncx/tk.c, which this
// module reimplements as a single in-memory tokenising pass rather
// than tk.c's incremental dlq-linked-list fills, since Go slices give
// the same random-access/backup semantics without manual list
// splicing.
package lexer

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/openconfig/yangcore/pkg/diag"
	"github.com/openconfig/yangcore/pkg/source"
	"github.com/openconfig/yangcore/pkg/token"
)

// Per-token and per-concatenation size caps (spec §7 length-exceeded,
// §8 boundary behaviours). Chosen generously above any legitimate YANG
// statement while still bounding a pathological input's memory use.
const (
	MaxTokenLen  = 16 * 1024
	MaxConcatLen = 256 * 1024
)

// Chain is the TokenChain: an ordered token sequence with a cursor,
// produced from one CharSource under one Sublang.
type Chain struct {
	sub    token.Sublang
	file   string
	src    *source.CharSource
	buf    []byte
	pos    int // byte offset into buf, read cursor during Tokenise
	line   int
	column int

	tokens []token.Token
	cursor int // index into tokens; -1 is the before-first sentinel

	fatal *diag.Diagnostic
}

// New creates an empty Chain for the given sublanguage.
func New(sub token.Sublang) *Chain {
	return &Chain{sub: sub, cursor: -1}
}

// AttachFile opens path through fs and buffers its full contents for
// lexing; fs is an afero.Fs so tests can substitute an in-memory
// filesystem for the module search path.
func (c *Chain) AttachFile(fs afero.Fs, path string) error {
	cs, err := source.NewFile(fs, path)
	if err != nil {
		return err
	}
	c.src = cs
	c.file = path
	var all []byte
	for {
		line, err := cs.NextLine()
		if err != nil {
			if err == source.ErrEOF {
				break
			}
			return err
		}
		all = append(all, line...)
	}
	c.buf = all
	return nil
}

// AttachBuffer lexes an in-memory byte slice with no associated file
// name.
func (c *Chain) AttachBuffer(b []byte) {
	c.src = source.NewBuffer(b)
	c.buf = b
}

// Sublang reports the chain's active sublanguage.
func (c *Chain) Sublang() token.Sublang { return c.sub }

// FileName returns the file this chain was lexed from, or "" if buffer-backed.
func (c *Chain) FileName() string { return c.file }

func (c *Chain) pushToken(k token.Kind, value, prefix []byte, line, col int) {
	c.tokens = append(c.tokens, token.Token{
		Kind:   k,
		Value:  value,
		Prefix: prefix,
		Pos:    token.Position{File: c.file, Line: line, Column: col},
	})
}

func (c *Chain) errPos(line, col int) token.Position {
	return token.Position{File: c.file, Line: line, Column: col}
}

// Tokenise runs the lexical pass to completion, producing every token
// (spec §4.2). On a fatal condition (unterminated string/comment,
// length-exceeded) it stops early and returns that diagnostic; the
// tokens produced so far remain available to the caller.
func (c *Chain) Tokenise() *diag.Diagnostic {
	if c.line == 0 {
		c.line, c.column = 1, 1
	}
	for c.pos < len(c.buf) {
		if d := c.step(); d != nil {
			c.fatal = d
			return d
		}
	}
	if c.sub != token.XPath {
		if d := c.concatenate(); d != nil {
			c.fatal = d
			return d
		}
	}
	return nil
}

// Fatal returns the diagnostic that stopped Tokenise early, if any.
func (c *Chain) Fatal() *diag.Diagnostic { return c.fatal }

func (c *Chain) peek(off int) (byte, bool) {
	if c.pos+off >= len(c.buf) {
		return 0, false
	}
	return c.buf[c.pos+off], true
}

func (c *Chain) cur() (byte, bool) { return c.peek(0) }

func (c *Chain) advanceByte() {
	b := c.buf[c.pos]
	c.pos++
	if b == '\n' {
		c.line++
		c.column = 1
	} else if b == '\t' {
		c.column += source.TabSize
	} else {
		c.column++
	}
}

// step lexes exactly one token (or skips whitespace/comments) starting
// at c.pos, per the recognition order of spec §4.2.
func (c *Chain) step() *diag.Diagnostic {
	b, ok := c.cur()
	if !ok {
		return nil
	}

	// 1. Skip spaces/tabs.
	if b == ' ' || b == '\t' {
		c.advanceByte()
		return nil
	}

	// 2. Newline.
	if b == '\n' {
		line, col := c.line, c.column
		c.advanceByte()
		if c.sub == token.Config {
			c.pushToken(token.Newline, nil, nil, line, col)
		}
		return nil
	}
	if b == '\r' {
		c.advanceByte()
		return nil
	}

	// 3. Comments.
	if c.sub == token.Config && b == '#' {
		for {
			b, ok := c.cur()
			if !ok || b == '\n' {
				break
			}
			c.advanceByte()
		}
		return nil
	}
	if c.sub != token.Config && c.sub != token.XPath {
		if b == '/' {
			if n, ok := c.peek(1); ok && n == '/' {
				for {
					b, ok := c.cur()
					if !ok || b == '\n' {
						break
					}
					c.advanceByte()
				}
				return nil
			}
			if n, ok := c.peek(1); ok && n == '*' {
				line, col := c.line, c.column
				c.advanceByte()
				c.advanceByte()
				for {
					b, ok := c.cur()
					if !ok {
						d := diag.New(diag.Error, diag.UnterminatedComment, c.errPos(line, col), "unterminated comment starting here")
						return &d
					}
					if b == '*' {
						if n, ok := c.peek(1); ok && n == '/' {
							c.advanceByte()
							c.advanceByte()
							return nil
						}
					}
					c.advanceByte()
				}
			}
		}
	}

	// 4/5. Quoted strings.
	if b == '"' || b == '\'' {
		return c.lexQuoted(b == '"')
	}

	// 6. XPath variable binding.
	if c.sub == token.XPath && b == '$' {
		return c.lexVarBind()
	}

	// 7. Identifiers.
	if isIdentStart(b) {
		return c.lexIdent()
	}

	// 8. Numeric literals.
	if isDigit(b) || ((b == '+' || b == '-') && c.sub != token.Module && c.sub != token.XPath) {
		if n, ok := c.peek(1); b == '+' || b == '-' {
			if !ok || !isDigit(n) {
				// falls through to delimiter handling below
			} else {
				return c.lexNumber()
			}
		} else {
			return c.lexNumber()
		}
	}

	// 9. Two-char, then one-char, then unquoted-string fallback.
	return c.lexSymbolOrString()
}

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isIdentCont(b byte, sub token.Sublang) bool {
	if (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_' {
		return true
	}
	if b == '-' || b == '.' {
		return sub != token.Retokenise
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func (c *Chain) lexQuoted(double bool) *diag.Diagnostic {
	line, col := c.line, c.column
	openCol := col
	c.advanceByte() // consume opening quote
	var out []byte
	for {
		b, ok := c.cur()
		if !ok {
			d := diag.New(diag.Error, diag.UnterminatedString, c.errPos(line, col), "unterminated string starting here")
			return &d
		}
		if double && b == '"' {
			c.advanceByte()
			break
		}
		if !double && b == '\'' {
			c.advanceByte()
			break
		}
		if double && b == '\\' {
			n, ok := c.peek(1)
			if ok {
				switch n {
				case 'n':
					out = append(out, '\n')
					c.advanceByte()
					c.advanceByte()
					continue
				case 't':
					out = append(out, '\t')
					c.advanceByte()
					c.advanceByte()
					continue
				case '"':
					out = append(out, '"')
					c.advanceByte()
					c.advanceByte()
					continue
				case '\\':
					out = append(out, '\\')
					c.advanceByte()
					c.advanceByte()
					continue
				default:
					// pass other \x through unchanged.
					out = append(out, '\\')
					c.advanceByte()
					continue
				}
			}
		}
		if b == '\n' && double && c.sub != token.XPath {
			// Trim trailing whitespace on the line just ended,
			// then dedent the next line relative to the column
			// the opening quote sat at (spec §4.2 step 4).
			out = trimTrailingSpace(out)
			out = append(out, '\n')
			c.advanceByte()
			skip := openCol - 1
			for skip > 0 {
				nb, ok := c.cur()
				if !ok || (nb != ' ' && nb != '\t') {
					break
				}
				c.advanceByte()
				skip--
			}
			continue
		}
		out = append(out, b)
		c.advanceByte()
		if len(out) > MaxTokenLen {
			d := diag.New(diag.Error, diag.LengthExceeded, c.errPos(line, col), "quoted string exceeds maximum length %d", MaxTokenLen)
			return &d
		}
	}
	kind := token.SingleQuoted
	if double {
		kind = token.DoubleQuoted
	}
	c.pushToken(kind, out, nil, line, col)
	return nil
}

func trimTrailingSpace(b []byte) []byte {
	i := len(b)
	for i > 0 && (b[i-1] == ' ' || b[i-1] == '\t') {
		i--
	}
	return b[:i]
}

func (c *Chain) lexVarBind() *diag.Diagnostic {
	line, col := c.line, c.column
	c.advanceByte() // $
	start := c.pos
	for {
		b, ok := c.cur()
		if !ok || !isIdentCont(b, c.sub) {
			break
		}
		c.advanceByte()
	}
	name := string(c.buf[start:c.pos])
	if i := indexByte(name, ':'); i >= 0 {
		c.pushToken(token.QVarBind, []byte(name[i+1:]), []byte(name[:i]), line, col)
	} else {
		c.pushToken(token.VarBind, []byte(name), nil, line, col)
	}
	return nil
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// lexIdent implements spec §4.2 step 7: identifier, optional
// prefix:name, and module-syntax scoped-identifier (a::b), which is
// demoted immediately to a plain unquoted string.
func (c *Chain) lexIdent() *diag.Diagnostic {
	line, col := c.line, c.column
	start := c.pos
	for {
		b, ok := c.cur()
		if !ok || !isIdentCont(b, c.sub) {
			break
		}
		c.advanceByte()
	}
	first := c.buf[start:c.pos]

	// prefix:name (but not "::")
	if b, ok := c.cur(); ok && b == ':' {
		if n, ok2 := c.peek(1); !(ok2 && n == ':') {
			c.advanceByte() // consume ':'
			nstart := c.pos
			if c.sub == token.XPath {
				if b2, ok3 := c.cur(); ok3 && b2 == '*' {
					c.advanceByte()
					c.pushToken(token.NCNameStar, []byte("*"), append([]byte(nil), first...), line, col)
					return nil
				}
			}
			for {
				b2, ok2 := c.cur()
				if !ok2 || !isIdentCont(b2, c.sub) {
					break
				}
				c.advanceByte()
			}
			name := c.buf[nstart:c.pos]
			c.pushToken(token.PrefixedIdentifier, append([]byte(nil), name...), append([]byte(nil), first...), line, col)
			return nil
		}
	}

	// module-syntax scoped identifier a::b::c, demoted to plain string.
	if c.sub == token.Module {
		if b, ok := c.cur(); ok && b == ':' {
			if n, ok2 := c.peek(1); ok2 && n == ':' {
				all := append([]byte(nil), first...)
				for {
					b, ok := c.cur()
					if ok && b == ':' {
						if n, ok2 := c.peek(1); ok2 && n == ':' {
							c.advanceByte()
							c.advanceByte()
							all = append(all, ':', ':')
							segStart := c.pos
							for {
								b2, ok2 := c.cur()
								if !ok2 || !isIdentCont(b2, c.sub) {
									break
								}
								c.advanceByte()
							}
							all = append(all, c.buf[segStart:c.pos]...)
							continue
						}
					}
					break
				}
				c.pushToken(token.UnquotedString, all, nil, line, col)
				return nil
			}
		}
	}

	// Ground truth (ncx/tk.c's tokenize_id_string falling through to
	// finish_string): an identifier scan that stops on a byte other
	// than whitespace or a structural delimiter doesn't end the token
	// there, it continues as plain string text using the identifier's
	// own start, so "a+b" with no surrounding space lexes as the one
	// string "a+b" rather than splitting into "a" and "+b".
	if c.sub == token.Module {
		if b, ok := c.cur(); ok && !isIdentDelim(b) {
			return c.scanUnquotedString(start, line, col)
		}
	}

	c.pushToken(token.TokenString, append([]byte(nil), first...), nil, line, col)
	return nil
}

// isIdentDelim reports whether b legitimately ends an identifier scan
// outright: whitespace, or one of the structural bytes tokenize_id_string
// stops on ('{', '}', ';', '/', ':'). Anything else is glued onto the
// identifier as unquoted-string text instead of starting a new token.
func isIdentDelim(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', ';', '{', '}', '/', ':':
		return true
	}
	return false
}

func (c *Chain) lexNumber() *diag.Diagnostic {
	line, col := c.line, c.column
	start := c.pos
	neg := false
	if b, _ := c.cur(); b == '+' || b == '-' {
		neg = b == '-'
		c.advanceByte()
	}
	_ = neg

	if b, ok := c.cur(); ok && b == '0' {
		if n, ok2 := c.peek(1); ok2 && (n == 'x' || n == 'X') {
			c.advanceByte()
			c.advanceByte()
			hstart := c.pos
			for {
				b, ok := c.cur()
				if !ok || !isHexDigit(b) {
					break
				}
				c.advanceByte()
			}
			if c.pos == hstart {
				d := diag.New(diag.Error, diag.InvalidHexNumber, c.errPos(line, col), "malformed hexadecimal number")
				return &d
			}
			c.pushToken(token.HexNumber, append([]byte(nil), c.buf[start:c.pos]...), nil, line, col)
			return nil
		}
	}

	for {
		b, ok := c.cur()
		if !ok || !isDigit(b) {
			break
		}
		c.advanceByte()
	}
	// real number: digits.digits, excluding ".." so ranges parse.
	if b, ok := c.cur(); ok && b == '.' {
		if n, ok2 := c.peek(1); ok2 && isDigit(n) {
			c.advanceByte() // '.'
			for {
				b, ok := c.cur()
				if !ok || !isDigit(b) {
					break
				}
				c.advanceByte()
			}
			c.pushToken(token.RealNumber, append([]byte(nil), c.buf[start:c.pos]...), nil, line, col)
			return nil
		}
	}
	if c.pos == start || (c.pos == start+1 && (c.buf[start] == '+' || c.buf[start] == '-')) {
		d := diag.New(diag.Error, diag.InvalidDecimalNumber, c.errPos(line, col), "malformed decimal number")
		return &d
	}
	// In module syntax a digit run glued onto more non-delimiter text
	// (a revision date such as 2024-01-01) is one unquoted string, the
	// same fallback lexIdent applies; ".." still ends the number so
	// ranges split.
	if c.sub == token.Module {
		if b, ok := c.cur(); ok && !isIdentDelim(b) {
			if n, ok2 := c.peek(1); !(b == '.' && ok2 && n == '.') {
				return c.scanUnquotedString(start, line, col)
			}
		}
	}
	c.pushToken(token.DecimalNumber, append([]byte(nil), c.buf[start:c.pos]...), nil, line, col)
	return nil
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// yangHackChar reports whether b is one of the characters that the
// original lexer treats as a "hack" neighbour for +/| delimiter
// detection inside an otherwise-unquoted string (spec §9 open
// question, grounded on yuma123's yang_hack_char_test: whitespace or
// another structural delimiter on both sides breaks the string).
func yangHackChar(b byte, ok bool) bool {
	if !ok {
		return true
	}
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	}
	_, isOne := token.LookupOneChar(b)
	return isOne
}

func (c *Chain) lexSymbolOrString() *diag.Diagnostic {
	line, col := c.line, c.column
	if b, ok := c.cur(); ok {
		if n, ok2 := c.peek(1); ok2 {
			two := string([]byte{b, n})
			if k, ok3 := token.LookupTwoChar(two); ok3 && k.ActiveIn(c.sub) {
				c.advanceByte()
				c.advanceByte()
				c.pushToken(k, []byte(two), nil, line, col)
				return nil
			}
		}
		// module-syntax '+' / '|' surrounded by whitespace is a delimiter.
		if c.sub == token.Module && (b == '|' || b == '+') {
			prevWS := c.pos == 0 || yangHackChar(c.buf[c.pos-1], true)
			nb, nok := c.peek(1)
			nextWS := yangHackChar(nb, nok)
			if prevWS && nextWS {
				k, _ := token.LookupOneChar(b)
				c.advanceByte()
				c.pushToken(k, []byte{b}, nil, line, col)
				return nil
			}
		} else if k, ok3 := token.LookupOneChar(b); ok3 && k.ActiveIn(c.sub) {
			c.advanceByte()
			c.pushToken(k, []byte{b}, nil, line, col)
			return nil
		}
	}
	return c.lexUnquotedString()
}

func (c *Chain) lexUnquotedString() *diag.Diagnostic {
	return c.scanUnquotedString(c.pos, c.line, c.column)
}

// scanUnquotedString scans plain string text starting at start (which
// may be behind c.pos, when lexIdent falls back into this after an
// identifier run turns out to be glued onto more text) until a real
// delimiter, pushing the result as one UnquotedString token.
func (c *Chain) scanUnquotedString(start, line, col int) *diag.Diagnostic {
	for {
		b, ok := c.cur()
		if !ok {
			break
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			break
		}
		if b == ';' || b == '{' || b == '}' {
			break
		}
		if c.sub == token.Module && (b == '|' || b == '+') {
			prevWS := c.pos == 0 || yangHackChar(c.buf[c.pos-1], true)
			nb, nok := c.peek(1)
			nextWS := yangHackChar(nb, nok)
			if prevWS && nextWS {
				break
			}
		}
		c.advanceByte()
		if c.pos-start > MaxTokenLen {
			d := diag.New(diag.Error, diag.LengthExceeded, c.errPos(line, col), "unquoted string exceeds maximum length %d", MaxTokenLen)
			return &d
		}
	}
	if c.pos == start {
		// Single unrecognised byte; consume it to guarantee progress.
		c.advanceByte()
	}
	c.pushToken(token.UnquotedString, append([]byte(nil), c.buf[start:c.pos]...), nil, line, col)
	return nil
}

// concatenate runs the string-concatenation pass (spec §4.2): each
// run Q1 + Q2 + ... + Qn of quoted strings joined by '+' collapses
// into one token whose value is the byte concatenation.
func (c *Chain) concatenate() *diag.Diagnostic {
	out := make([]token.Token, 0, len(c.tokens))
	i := 0
	for i < len(c.tokens) {
		t := c.tokens[i]
		if !t.IsQuoted() {
			out = append(out, t)
			i++
			continue
		}
		merged := append([]byte(nil), t.Value...)
		j := i + 1
		for j+1 < len(c.tokens) && c.tokens[j].Kind == token.Plus {
			next := c.tokens[j+1]
			if !next.IsQuoted() {
				d := diag.New(diag.Error, diag.BadConcat, next.Pos, "'+' must be followed by a quoted string")
				return &d
			}
			merged = append(merged, next.Value...)
			if len(merged) > MaxConcatLen {
				d := diag.New(diag.Error, diag.LengthExceeded, next.Pos, "concatenated string exceeds maximum length %d", MaxConcatLen)
				return &d
			}
			j += 2
		}
		t.Value = merged
		out = append(out, t)
		i = j
	}
	c.tokens = out
	return nil
}

// Advance moves the cursor forward and returns the new current kind.
func (c *Chain) Advance() token.Kind {
	if c.cursor < len(c.tokens)-1 {
		c.cursor++
	}
	return c.Current().Kind
}

// Backup moves the cursor back one slot, never past the sentinel.
func (c *Chain) Backup() {
	if c.cursor > -1 {
		c.cursor--
	}
}

// Reset parks the cursor at the before-first sentinel.
func (c *Chain) Reset() { c.cursor = -1 }

// sentinel is returned by Current/Next/NextNext when the requested
// slot does not exist.
var sentinel = token.Token{Kind: token.None}

// Current reads the cursor without moving it.
func (c *Chain) Current() token.Token {
	if c.cursor < 0 || c.cursor >= len(c.tokens) {
		return sentinel
	}
	return c.tokens[c.cursor]
}

// Next looks one token ahead of the cursor.
func (c *Chain) Next() token.Token {
	i := c.cursor + 1
	if i < 0 || i >= len(c.tokens) {
		return sentinel
	}
	return c.tokens[i]
}

// NextNext looks two tokens ahead of the cursor.
func (c *Chain) NextNext() token.Token {
	i := c.cursor + 2
	if i < 0 || i >= len(c.tokens) {
		return sentinel
	}
	return c.tokens[i]
}

// Len returns the number of tokens currently in the chain.
func (c *Chain) Len() int { return len(c.tokens) }

// Tokens returns the full token slice for inspection (e.g. by
// TokeniseXPath/TokeniseMetadata callers, or tests asserting the §8
// replay invariant).
func (c *Chain) Tokens() []token.Token { return c.tokens }

// RetokeniseCurrent replaces the current string token with however
// many tokens its content would produce under the Retokenise
// sublanguage, splicing them in at the current cursor position.
func (c *Chain) RetokeniseCurrent() *diag.Diagnostic {
	cur := c.Current()
	if !cur.IsString() {
		return nil
	}
	sub := New(token.Retokenise)
	sub.AttachBuffer(cur.Value)
	// Reposition sub's internal line/col to the original token's
	// position so diagnostics and new tokens point at the real source.
	sub.file = c.file
	sub.line, sub.column = cur.Pos.Line, cur.Pos.Column
	if d := sub.Tokenise(); d != nil {
		return d
	}
	replacement := sub.tokens
	before := append([]token.Token(nil), c.tokens[:c.cursor]...)
	after := append([]token.Token(nil), c.tokens[c.cursor+1:]...)
	c.tokens = append(before, append(replacement, after...)...)
	if len(replacement) == 0 {
		c.cursor--
	}
	return nil
}

// TokeniseXPath lexes an embedded XPath expression found at the given
// starting position (e.g. the text of a must/when/leafref value) and
// returns an independently populated Chain. Errors inside are
// returned alongside the chain; the caller may still inspect whatever
// tokens were produced before the error.
func TokeniseXPath(b []byte, line, col int) (*Chain, *diag.Diagnostic) {
	c := New(token.XPath)
	c.AttachBuffer(b)
	c.line, c.column = line, col
	d := c.Tokenise()
	return c, d
}

// TokeniseMetadata lexes attribute text found in NETCONF XML (e.g. a
// leafref or identityref attribute value) using the configuration
// sublanguage's token set, producing an independent Chain.
func TokeniseMetadata(b []byte) (*Chain, *diag.Diagnostic) {
	c := New(token.Config)
	c.AttachBuffer(b)
	d := c.Tokenise()
	return c, d
}

// DebugDump renders the chain's tokens for troubleshooting.
func (c *Chain) DebugDump() string {
	s := ""
	for _, t := range c.tokens {
		s += fmt.Sprintf("%-28s %-20q (%s)\n", t.Kind, t.Value, t.Pos)
	}
	return s
}
