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

// Package stmt implements the generic YANG statement handlers (spec
// §4.3): string/identifier/keyword/boolean/int32/uint32/status
// consumption, error-stmts, must, and the terminator/resync
// machinery the grammar layer drives. Grounded on yuma123's
// ncx/yang.c yang_consume_* family (see yang.h for the C signatures
// this package's methods mirror one-for-one).
package stmt

import (
	"strconv"
	"strings"

	"github.com/openconfig/yangcore/pkg/diag"
	"github.com/openconfig/yangcore/pkg/lexer"
	"github.com/openconfig/yangcore/pkg/schema"
	"github.com/openconfig/yangcore/pkg/token"
)

// Parser wraps a lexer.Chain with the diagnostic accumulator every
// consume-* method reports into, and exposes the TokenAccessors
// (current/next/skip) the grammar layer uses directly.
type Parser struct {
	Chain *lexer.Chain
	Diags diag.List
}

// New returns a Parser driving c.
func New(c *lexer.Chain) *Parser {
	return &Parser{Chain: c}
}

func (p *Parser) report(sev diag.Severity, code diag.Code, format string, args ...interface{}) {
	p.Diags = p.Diags.Append(diag.New(sev, code, p.Chain.Current().Pos, format, args...))
}

// --- TokenAccessors -------------------------------------------------

// CurrentKind returns the kind of the token under the cursor.
func (p *Parser) CurrentKind() token.Kind { return p.Chain.Current().Kind }

// CurrentValue returns the string value of the token under the cursor.
func (p *Parser) CurrentValue() string { return string(p.Chain.Current().Value) }

// CurrentPrefix returns the module-prefix of the token under the
// cursor, if it is a prefixed form.
func (p *Parser) CurrentPrefix() string { return string(p.Chain.Current().Prefix) }

// SkipStatement resynchronises after an error: it advances tokens,
// tracking brace depth, until it returns to depth zero and sees ';'
// or '}', stopping early on EOF (spec §4.3 cursor-resync).
func (p *Parser) SkipStatement() {
	depth := 0
	for {
		k := p.Chain.Current().Kind
		switch k {
		case token.None:
			return
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				p.Chain.Advance()
				return
			}
			depth--
		case token.Semi:
			if depth == 0 {
				p.Chain.Advance()
				return
			}
		}
		if p.Chain.Advance() == token.None {
			return
		}
	}
}

// --- terminators and strings -----------------------------------------

// ConsumeTerminator expects ';' (accept), or '{' (accept, consume
// zero-or-more appinfo substatements, then expect '}'). Collected
// appinfo is appended to appinfoQ.
func (p *Parser) ConsumeTerminator(appinfoQ *[]*schema.Appinfo) bool {
	switch p.Chain.Current().Kind {
	case token.Semi:
		p.Chain.Advance()
		return true
	case token.LBrace:
		p.Chain.Advance()
		for {
			k := p.Chain.Current().Kind
			if k == token.RBrace {
				p.Chain.Advance()
				return true
			}
			if k == token.None {
				p.report(diag.Error, diag.WrongTokenKind, "unexpected end of input inside block")
				return false
			}
			ai, ok := p.consumeAppinfo()
			if !ok {
				p.SkipStatement()
				continue
			}
			if appinfoQ != nil {
				*appinfoQ = append(*appinfoQ, ai)
			}
		}
	default:
		p.report(diag.Error, diag.WrongTokenKind, "expected ';' or '{', found %s", p.Chain.Current().Kind)
		return false
	}
}

// consumeAppinfo consumes one vendor-extension substatement: a
// prefixed keyword, an optional argument string, then a terminator
// whose nested appinfo becomes the node's children.
func (p *Parser) consumeAppinfo() (*schema.Appinfo, bool) {
	cur := p.Chain.Current()
	if cur.Kind != token.PrefixedIdentifier {
		p.report(diag.Error, diag.ExpectedKeyword, "expected a prefixed extension keyword, found %s", cur.Kind)
		return nil, false
	}
	ai := &schema.Appinfo{Prefix: string(cur.Prefix), Name: string(cur.Value), Pos: cur.Pos}
	p.Chain.Advance()
	if p.Chain.Current().IsString() {
		ai.Argument = p.consumeStringValue()
		ai.HasArg = true
		p.Chain.Advance()
	}
	if !p.ConsumeTerminator(&ai.Children) {
		return ai, false
	}
	return ai, true
}

func (p *Parser) consumeStringValue() string {
	t := p.Chain.Current()
	if t.Kind == token.PrefixedIdentifier {
		return t.QName()
	}
	return string(t.Value)
}

// ConsumeString accepts any of the three string forms (composing
// prefix:name for a prefixed identifier) and advances past it.
func (p *Parser) ConsumeString() (string, bool) {
	t := p.Chain.Current()
	switch t.Kind {
	case token.LBrace, token.RBrace, token.Semi, token.None:
		p.report(diag.Error, diag.ExpectedString, "expected a string, found %s", t.Kind)
		return "", false
	}
	if !t.IsString() && t.Kind != token.PrefixedIdentifier {
		p.report(diag.Error, diag.ExpectedString, "expected a string, found %s", t.Kind)
		return "", false
	}
	v := p.consumeStringValue()
	p.Chain.Advance()
	return v, true
}

// isIdentChar reports whether r is legal in a YANG identifier body.
func isIdentChar(r byte) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.'
}

func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if !((s[0] >= 'a' && s[0] <= 'z') || (s[0] >= 'A' && s[0] <= 'Z') || s[0] == '_') {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
	}
	return true
}

// ConsumeKeyword disallows quoted strings; accepts a plain or
// prefixed identifier and validates both parts as YANG identifiers.
func (p *Parser) ConsumeKeyword() (prefix, name string, ok bool) {
	t := p.Chain.Current()
	if t.IsQuoted() {
		p.report(diag.Error, diag.ExpectedKeyword, "expected a keyword, found a quoted string")
		return "", "", false
	}
	switch t.Kind {
	case token.TokenString, token.UnquotedString, token.PrefixedIdentifier:
	default:
		p.report(diag.Error, diag.ExpectedKeyword, "expected a keyword, found %s", t.Kind)
		return "", "", false
	}
	prefix, name = string(t.Prefix), string(t.Value)
	if !validIdentifier(name) || (prefix != "" && !validIdentifier(prefix)) {
		p.report(diag.Error, diag.InvalidName, "%q is not a valid YANG identifier", t.QName())
		return "", "", false
	}
	p.Chain.Advance()
	return prefix, name, true
}

// ConsumeNowspString is ConsumeString, rejecting a value containing
// whitespace or newlines.
func (p *Parser) ConsumeNowspString() (string, bool) {
	v, ok := p.ConsumeString()
	if !ok {
		return "", false
	}
	if strings.ContainsAny(v, " \t\n\r") {
		p.report(diag.Error, diag.InvalidValue, "value %q must not contain whitespace", v)
		return "", false
	}
	return v, true
}

// ConsumeIDString requires an identifier syntactically and rejects a prefix.
func (p *Parser) ConsumeIDString() (string, bool) {
	t := p.Chain.Current()
	if t.Kind == token.PrefixedIdentifier || len(t.Prefix) > 0 {
		p.report(diag.Error, diag.InvalidName, "expected an unprefixed identifier, found %q", t.QName())
		return "", false
	}
	v, ok := p.ConsumeString()
	if !ok {
		return "", false
	}
	if !validIdentifier(v) {
		p.report(diag.Error, diag.InvalidName, "%q is not a valid YANG identifier", v)
		return "", false
	}
	return v, true
}

// ConsumePIDString is ConsumeIDString, additionally accepting a
// prefixed form; a quoted "prefix:name" is split on the first ':'.
func (p *Parser) ConsumePIDString() (prefix, name string, ok bool) {
	t := p.Chain.Current()
	if t.Kind == token.PrefixedIdentifier {
		prefix, name = string(t.Prefix), string(t.Value)
		p.Chain.Advance()
	} else {
		v, ok2 := p.ConsumeString()
		if !ok2 {
			return "", "", false
		}
		if i := strings.IndexByte(v, ':'); i >= 0 {
			prefix, name = v[:i], v[i+1:]
		} else {
			name = v
		}
	}
	if !validIdentifier(name) || (prefix != "" && !validIdentifier(prefix)) {
		p.report(diag.Error, diag.InvalidName, "%q is not a valid YANG identifier", name)
		return "", "", false
	}
	return prefix, name, true
}

// ConsumeBoolean expects a string, requires lexical "true"/"false",
// then a terminator.
func (p *Parser) ConsumeBoolean(appinfoQ *[]*schema.Appinfo) (bool, bool) {
	v, ok := p.ConsumeString()
	if !ok {
		return false, false
	}
	var b bool
	switch v {
	case "true":
		b = true
	case "false":
		b = false
	default:
		p.report(diag.Error, diag.WrongTokenValue, "expected 'true' or 'false', found %q", v)
		return false, false
	}
	if !p.ConsumeTerminator(appinfoQ) {
		return b, false
	}
	return b, true
}

// ConsumeInt32 expects a number, converts it as a signed 32-bit
// integer, then a terminator.
func (p *Parser) ConsumeInt32(appinfoQ *[]*schema.Appinfo) (int32, bool) {
	t := p.Chain.Current()
	if t.Kind != token.DecimalNumber {
		p.report(diag.Error, diag.WrongTokenKind, "expected an integer, found %s", t.Kind)
		return 0, false
	}
	n, err := strconv.ParseInt(string(t.Value), 10, 32)
	if err != nil {
		p.report(diag.Error, diag.InvalidValue, "%q is not a valid int32: %v", t.Value, err)
		return 0, false
	}
	p.Chain.Advance()
	if !p.ConsumeTerminator(appinfoQ) {
		return int32(n), false
	}
	return int32(n), true
}

// ConsumeUint32 expects a number, converts it as an unsigned 32-bit
// integer, then a terminator.
func (p *Parser) ConsumeUint32(appinfoQ *[]*schema.Appinfo) (uint32, bool) {
	t := p.Chain.Current()
	if t.Kind != token.DecimalNumber {
		p.report(diag.Error, diag.WrongTokenKind, "expected an integer, found %s", t.Kind)
		return 0, false
	}
	n, err := strconv.ParseUint(string(t.Value), 10, 32)
	if err != nil {
		p.report(diag.Error, diag.InvalidValue, "%q is not a valid uint32: %v", t.Value, err)
		return 0, false
	}
	p.Chain.Advance()
	if !p.ConsumeTerminator(appinfoQ) {
		return uint32(n), false
	}
	return uint32(n), true
}

// ConsumeStatus expects a string whose value is exactly current,
// deprecated, or obsolete.
func (p *Parser) ConsumeStatus() (schema.Status, bool) {
	v, ok := p.ConsumeString()
	if !ok {
		return "", false
	}
	switch schema.Status(v) {
	case schema.StatusCurrent, schema.StatusDeprecated, schema.StatusObsolete:
		return schema.Status(v), true
	}
	p.report(diag.Error, diag.WrongTokenValue, "invalid status value %q", v)
	return "", false
}

// ConsumeDescr is ConsumeStrclause specialised for the description
// substatement's duplicate-entry tracking.
func (p *Parser) ConsumeDescr(dst *string, seen *bool, appinfoQ *[]*schema.Appinfo) bool {
	return p.consumeDupString("description", dst, seen, appinfoQ)
}

// ConsumeStrclause is the generic version of ConsumeDescr for other
// string-valued substatements (reference, error-message, ...).
func (p *Parser) ConsumeStrclause(label string, dst *string, seen *bool, appinfoQ *[]*schema.Appinfo) bool {
	return p.consumeDupString(label, dst, seen, appinfoQ)
}

func (p *Parser) consumeDupString(label string, dst *string, seen *bool, appinfoQ *[]*schema.Appinfo) bool {
	v, ok := p.ConsumeString()
	if !ok {
		return false
	}
	if !p.ConsumeTerminator(appinfoQ) {
		return false
	}
	if seen != nil && *seen {
		p.report(diag.Warning, diag.DuplicateEntry, "duplicate %s statement ignored", label)
		return true
	}
	*dst = v
	if seen != nil {
		*seen = true
	}
	return true
}

// ConsumeErrorStmts consumes a '{'-delimited block of description /
// reference / error-app-tag / error-message substatements, each at
// most once, routing unknown prefixed keywords to appinfoQ.
func (p *Parser) ConsumeErrorStmts(ei *schema.ErrorInfo, appinfoQ *[]*schema.Appinfo) bool {
	if p.Chain.Current().Kind != token.LBrace {
		p.report(diag.Error, diag.WrongTokenKind, "expected '{', found %s", p.Chain.Current().Kind)
		return false
	}
	p.Chain.Advance()
	var seenDescr, seenRef, seenTag, seenMsg bool
	for {
		k := p.Chain.Current().Kind
		if k == token.RBrace {
			p.Chain.Advance()
			return true
		}
		if k == token.None {
			p.report(diag.Error, diag.WrongTokenKind, "unexpected end of input in error-stmts block")
			return false
		}
		prefix, name, ok := p.ConsumeKeyword()
		if !ok {
			p.SkipStatement()
			continue
		}
		switch {
		case prefix == "" && name == "description":
			if !p.consumeDupString("description", &ei.Description, &seenDescr, nil) {
				p.SkipStatement()
			}
		case prefix == "" && name == "reference":
			if !p.consumeDupString("reference", &ei.Reference, &seenRef, nil) {
				p.SkipStatement()
			}
		case prefix == "" && name == "error-app-tag":
			if !p.consumeDupString("error-app-tag", &ei.ErrorAppTag, &seenTag, nil) {
				p.SkipStatement()
			}
		case prefix == "" && name == "error-message":
			if !p.consumeDupString("error-message", &ei.ErrorMessage, &seenMsg, nil) {
				p.SkipStatement()
			}
		default:
			ai := &schema.Appinfo{Prefix: prefix, Name: name, Pos: p.Chain.Current().Pos}
			if p.Chain.Current().IsString() {
				ai.Argument = p.consumeStringValue()
				ai.HasArg = true
				p.Chain.Advance()
			}
			if p.ConsumeTerminator(&ai.Children) && appinfoQ != nil {
				*appinfoQ = append(*appinfoQ, ai)
			}
		}
	}
}

// ConsumeMust consumes an XPath-expression string, then either ';' or
// a '{...}' block of error-info clauses plus vendor extensions,
// producing an ErrorInfo appended to mustQ.
func (p *Parser) ConsumeMust(mustQ *[]*schema.ErrorInfo, appinfoQ *[]*schema.Appinfo) bool {
	expr, ok := p.ConsumeString()
	if !ok {
		return false
	}
	ei := &schema.ErrorInfo{XPath: expr}
	switch p.Chain.Current().Kind {
	case token.Semi:
		p.Chain.Advance()
	case token.LBrace:
		if !p.ConsumeErrorStmts(ei, appinfoQ) {
			return false
		}
	default:
		p.report(diag.Error, diag.WrongTokenKind, "expected ';' or '{', found %s", p.Chain.Current().Kind)
		return false
	}
	*mustQ = append(*mustQ, ei)
	return true
}
