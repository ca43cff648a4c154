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

package diag

import (
	"strings"
	"testing"

	"github.com/openconfig/yangcore/pkg/token"
)

func TestDiagnosticStringFormat(t *testing.T) {
	d := New(Error, ModuleNotFound, token.Position{File: "foo.yang", Line: 4, Column: 2}, "module %q not found", "bar")
	want := `error: module "bar" not found (foo.yang:4.2)`
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestListHasErrors(t *testing.T) {
	var l List
	l = l.Append(New(Warning, ImportNotUsed, token.Position{}, "unused"))
	if l.HasErrors() {
		t.Errorf("HasErrors() = true with only a warning present")
	}
	l = l.Append(New(Error, DefNotFound, token.Position{}, "missing"))
	if !l.HasErrors() {
		t.Errorf("HasErrors() = false with an error present")
	}
}

func TestListString(t *testing.T) {
	var l List
	l = l.Append(New(Error, ModuleNotFound, token.Position{Line: 1, Column: 1}, "a"))
	l = l.Append(New(Error, ModuleNotFound, token.Position{Line: 2, Column: 1}, "b"))
	got := l.String()
	if !strings.Contains(got, "a (") || !strings.Contains(got, "b (") {
		t.Errorf("String() = %q, want both diagnostics rendered", got)
	}
	if strings.Count(got, "\n") != 1 {
		t.Errorf("String() should join with exactly one newline, got %q", got)
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		s    Severity
		want string
	}{
		{Error, "error"},
		{Warning, "warning"},
		{Info, "info"},
		{Debug, "debug"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
