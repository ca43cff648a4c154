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

// Package source abstracts file- vs. buffer-backed byte input for the
// lexer (spec §4.1), tracking the (line, column) the lexer is
// currently positioned at.
package source

import (
	"bufio"
	"errors"
	"io"

	"github.com/spf13/afero"
)

// TabSize is the fixed column width a tab advances the cursor by,
// matching yuma123's NCX_TABSIZE.
const TabSize = 8

// lineCap is the size of a file-backed source's read buffer. It does
// not cap what one NextLine call returns: a line longer than lineCap
// is still handed back whole.
const lineCap = 4096

// ErrEOF is returned by NextLine once the source is exhausted.
var ErrEOF = errors.New("charsource: eof")

// CharSource is a forward-only line-at-a-time byte source with
// line/column tracking. The lexer is the only caller.
type CharSource struct {
	file   string
	line   int
	column int

	// file-backed
	r *bufio.Reader

	// buffer-backed
	buf      []byte
	consumed bool
}

// NewFile opens path through fs (an afero.Fs, so tests can substitute
// an in-memory filesystem for the module search path) and returns a
// file-backed CharSource.
func NewFile(fs afero.Fs, path string) (*CharSource, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	return &CharSource{
		file:   path,
		line:   1,
		column: 1,
		r:      bufio.NewReaderSize(f, lineCap),
	}, nil
}

// NewBuffer wraps an in-memory byte slice as a buffer-backed CharSource.
// The file name is absent, matching the spec's "may be absent" field.
func NewBuffer(b []byte) *CharSource {
	return &CharSource{
		line:   1,
		column: 1,
		buf:    b,
	}
}

// File returns the source's file name, or "" if buffer-backed.
func (c *CharSource) File() string { return c.file }

// Line returns the current 1-based line number.
func (c *CharSource) Line() int { return c.line }

// Column returns the current 1-based column number.
func (c *CharSource) Column() int { return c.column }

// Pos returns the current position as a value the token package can embed.
func (c *CharSource) Pos() (file string, line, column int) {
	return c.file, c.line, c.column
}

// NextLine returns the next line of input, including its trailing
// newline if present (file-backed), or the full buffer on its first
// call (buffer-backed, which then reports EOF on any subsequent call).
// It returns ErrEOF once the source is exhausted.
func (c *CharSource) NextLine() ([]byte, error) {
	if c.buf != nil {
		if c.consumed {
			return nil, ErrEOF
		}
		c.consumed = true
		return c.buf, nil
	}
	line, err := c.r.ReadBytes('\n')
	if len(line) == 0 && err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEOF
		}
		return nil, err
	}
	return line, nil
}

// Advance updates (line, column) bookkeeping for a single consumed
// byte b, expanding tabs to TabSize columns and resetting the column
// to 1 on a newline.
func (c *CharSource) Advance(b byte) {
	switch b {
	case '\n':
		c.line++
		c.column = 1
	case '\t':
		c.column += TabSize
	default:
		c.column++
	}
}
