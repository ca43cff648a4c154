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

// Package diag implements the stable diagnostics taxonomy and
// accumulator described in spec §7. It is grounded on the teacher's
// util.Errors (github.com/openconfig/ygot util/errs.go): a slice of
// error with a joined String/Error form and Append helpers, extended
// here with severities and a stable "<severity>: <message>
// (<file>:<line>.<column>)" rendering, and mirrored to glog at a
// matching level so the accumulator and the process log agree.
package diag

import (
	"fmt"
	"strings"

	log "github.com/golang/glog"
	"github.com/kr/pretty"

	"github.com/openconfig/yangcore/pkg/token"
)

// Severity classifies a Diagnostic. Only Error and fatal errors
// (reported the same way, distinguished by the caller aborting the
// load) stop a load from succeeding; Warning/Info/Debug never do.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
	Debug
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Debug:
		return "debug"
	}
	return "unknown"
}

// Code names the semantic diagnostic taxonomy of spec §7. Codes are
// descriptive, not exhaustive type identifiers: new ones may be added
// without breaking the stable text format.
type Code string

const (
	// Lex errors.
	UnterminatedString  Code = "unterminated-string"
	UnterminatedComment Code = "unterminated-comment"
	InvalidHexNumber    Code = "invalid-hex-number"
	InvalidRealNumber   Code = "invalid-real-number"
	InvalidDecimalNumber Code = "invalid-decimal-number"
	LengthExceeded      Code = "length-exceeded"
	BadConcat           Code = "bad-concat"

	// Parse errors.
	ExpectedString  Code = "expected-string"
	ExpectedKeyword Code = "expected-keyword"
	WrongTokenKind  Code = "wrong-token-kind"
	WrongTokenValue Code = "wrong-token-value"
	InvalidName     Code = "invalid-name"
	InvalidValue    Code = "invalid-value"

	// Structural errors.
	DuplicateEntry Code = "duplicate-entry"
	EntryExists    Code = "entry-exists"
	DefNotFound    Code = "def-not-found"
	PrefixNotFound Code = "prefix-not-found"
	ImportLoop     Code = "import-loop"
	IncludeLoop    Code = "include-loop"
	IdentityLoop   Code = "identity-loop"
	ModuleNotFound Code = "module-not-found"
	AlreadyFailed  Code = "already-failed"

	// Semantic warnings.
	TypedefNotUsed Code = "typedef-not-used"
	GroupingNotUsed Code = "grouping-not-used"
	ImportNotUsed  Code = "import-not-used"
	DatePast       Code = "date-past"
	DateFuture     Code = "date-future"

	// Resource/IO.
	OutOfMemory Code = "out-of-memory"
	ReadFailed  Code = "read-failed"
	EOF         Code = "eof"
)

// Diagnostic is one reported fact about a load, pinned to a source
// position (spec §7's stable format).
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Pos      token.Position
}

// New builds a Diagnostic and mirrors it to glog at the matching level.
func New(sev Severity, code Code, pos token.Position, format string, args ...interface{}) Diagnostic {
	d := Diagnostic{Severity: sev, Code: code, Message: fmt.Sprintf(format, args...), Pos: pos}
	switch sev {
	case Error:
		log.Errorf("%s", d.String())
	case Warning:
		log.Warningf("%s", d.String())
	default:
		log.V(1).Infof("%s", d.String())
	}
	return d
}

// String renders the stable "<severity>: <message> (<file>:<line>.<column>)" form.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s)", d.Severity, d.Message, d.Pos)
}

func (d Diagnostic) Error() string { return d.String() }

// List is an ordered accumulator of Diagnostics produced across a
// single load pass, adapted from the teacher's util.Errors.
type List []Diagnostic

// Append adds d to l.
func (l List) Append(d Diagnostic) List {
	return append(l, d)
}

// HasErrors reports whether l contains any Error-severity diagnostic.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// String joins every diagnostic onto its own line, the teacher's
// util.Errors.String() convention.
func (l List) String() string {
	var sb strings.Builder
	for i, d := range l {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(d.String())
	}
	return sb.String()
}

// Error implements the error interface so a non-empty List can be
// returned directly from a failed load.
func (l List) Error() string { return l.String() }

// DumpTree pretty-prints v (typically a resolved schema.Module graph)
// for debugging, using kr/pretty the way the teacher's generator debug
// paths do.
func DumpTree(v interface{}) string {
	return pretty.Sprintf("%# v", v)
}
