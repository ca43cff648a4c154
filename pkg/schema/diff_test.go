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

package schema

import (
	"strings"
	"testing"
)

func TestDiffReportsChangedField(t *testing.T) {
	a := &Module{Name: "foo", Prefix: "f"}
	b := &Module{Name: "foo", Prefix: "g"}
	got := Diff(a, b)
	if got == "" {
		t.Fatal("Diff() returned empty string for modules that differ")
	}
	if !strings.Contains(got, "f") || !strings.Contains(got, "g") {
		t.Errorf("Diff() = %q, want it to mention both prefix values", got)
	}
}

func TestDiffEmptyForIdenticalModules(t *testing.T) {
	a := &Module{Name: "foo", Prefix: "f"}
	b := &Module{Name: "foo", Prefix: "f"}
	if got := Diff(a, b); got != "" {
		t.Errorf("Diff() = %q, want empty for identical modules", got)
	}
}

func TestFindHelpers(t *testing.T) {
	m := &Module{
		Imports:   []*Import{{ModuleName: "bar", Prefix: "b"}},
		Typedefs:  []*Typedef{{Name: "my-type"}},
		Groupings: []*Grouping{{Name: "my-group"}},
	}
	if imp := m.FindImport("b"); imp == nil || imp.ModuleName != "bar" {
		t.Errorf("FindImport(b) = %v, want import of bar", imp)
	}
	if m.FindImport("missing") != nil {
		t.Errorf("FindImport(missing) should be nil")
	}
	if td := m.FindTypedef("my-type"); td == nil {
		t.Errorf("FindTypedef(my-type) = nil, want a match")
	}
	if gr := m.FindGrouping("my-group"); gr == nil {
		t.Errorf("FindGrouping(my-group) = nil, want a match")
	}
}

func TestLatestRevision(t *testing.T) {
	m := &Module{Revisions: []Revision{{Date: "2020-01-01"}, {Date: "2022-06-01"}, {Date: "2021-01-01"}}}
	if got, want := m.LatestRevision(), "2022-06-01"; got != want {
		t.Errorf("LatestRevision() = %q, want %q", got, want)
	}
	if got := (&Module{}).LatestRevision(); got != "" {
		t.Errorf("LatestRevision() on no revisions = %q, want empty", got)
	}
}
