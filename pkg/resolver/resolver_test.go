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

package resolver

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/openconfig/yangcore/pkg/diag"
	"github.com/openconfig/yangcore/pkg/registry"
	"github.com/openconfig/yangcore/pkg/schema"
)

func writeFile(t *testing.T, fs afero.Fs, name, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, name, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", name, err)
	}
}

func TestLoadMinimalModule(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/mods/foo.yang", `
module foo {
  namespace "urn:foo";
  prefix f;
  revision 2024-01-01;
}
`)
	r := New(fs, []string{"/mods"}, registry.New())
	m, diags, err := r.Load("foo", "", nil)
	if err != nil {
		t.Fatalf("Load: %v (%s)", err, diags.String())
	}
	if m.Name != "foo" || m.Prefix != "f" || m.Namespace != "urn:foo" {
		t.Errorf("module = %+v, want name=foo prefix=f namespace=urn:foo", m)
	}
	if diags.HasErrors() {
		t.Errorf("unexpected errors: %s", diags.String())
	}
}

func TestLoadImportLoopDetected(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/mods/a.yang", `
module a {
  namespace "urn:a";
  prefix a;
  import b { prefix b; }
}
`)
	writeFile(t, fs, "/mods/b.yang", `
module b {
  namespace "urn:b";
  prefix b;
  import a { prefix a; }
}
`)
	r := New(fs, []string{"/mods"}, registry.New())
	_, diags, err := r.Load("a", "", nil)
	if err != nil {
		t.Fatalf("Load: %v (%s)", err, diags.String())
	}
	found := false
	for _, d := range diags {
		if d.Code == diag.ImportLoop {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an import-loop diagnostic, got: %s", diags.String())
	}
}

func TestLoadStringConcatenationInDescription(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/mods/foo.yang", `
module foo {
  namespace "urn:foo";
  prefix f;
  description "part one " + "part two";
}
`)
	r := New(fs, []string{"/mods"}, registry.New())
	m, diags, err := r.Load("foo", "", nil)
	if err != nil {
		t.Fatalf("Load: %v (%s)", err, diags.String())
	}
	if got, want := m.Description, "part one part two"; got != want {
		t.Errorf("Description = %q, want %q", got, want)
	}
}

func TestLoadMustWithErrorInfo(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/mods/foo.yang", `
module foo {
  namespace "urn:foo";
  prefix f;
  container c {
    leaf x {
      type string;
      must "../y" {
        error-message "x requires y";
      }
    }
  }
}
`)
	r := New(fs, []string{"/mods"}, registry.New())
	m, diags, err := r.Load("foo", "", nil)
	if err != nil {
		t.Fatalf("Load: %v (%s)", err, diags.String())
	}
	if len(m.Datadefs) != 1 || len(m.Datadefs[0].Children) != 1 {
		t.Fatalf("unexpected datadef tree: %+v", m.Datadefs)
	}
	leaf := m.Datadefs[0].Children[0]
	if len(leaf.Must) != 1 {
		t.Fatalf("leaf.Must = %v, want 1 entry", leaf.Must)
	}
	if got, want := leaf.Must[0].XPath, "../y"; got != want {
		t.Errorf("Must[0].XPath = %q, want %q", got, want)
	}
	if got, want := leaf.Must[0].ErrorMessage, "x requires y"; got != want {
		t.Errorf("Must[0].ErrorMessage = %q, want %q", got, want)
	}
}

func TestUnusedTypedefWarning(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/mods/foo.yang", `
module foo {
  namespace "urn:foo";
  prefix f;
  typedef unused-type {
    type string;
  }
}
`)
	r := New(fs, []string{"/mods"}, registry.New())
	_, diags, err := r.Load("foo", "", nil)
	if err != nil {
		t.Fatalf("Load: %v (%s)", err, diags.String())
	}
	found := false
	for _, d := range diags {
		if d.Code == diag.TypedefNotUsed {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a typedef-not-used warning, got: %s", diags.String())
	}
}

func TestUsesResolvesGrouping(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/mods/foo.yang", `
module foo {
  namespace "urn:foo";
  prefix f;
  grouping g {
    leaf a { type string; }
  }
  container c {
    uses g;
  }
}
`)
	r := New(fs, []string{"/mods"}, registry.New())
	m, diags, err := r.Load("foo", "", nil)
	if err != nil {
		t.Fatalf("Load: %v (%s)", err, diags.String())
	}
	if len(m.Datadefs) != 1 {
		t.Fatalf("Datadefs = %v, want 1 container", m.Datadefs)
	}
	uses := m.Datadefs[0].Children[0]
	if uses.ResolvedUse == nil {
		t.Fatalf("uses.ResolvedUse is nil, want the grouping resolved")
	}
	if uses.ResolvedUse.Name != "g" || !uses.ResolvedUse.Used {
		t.Errorf("ResolvedUse = %+v, want grouping g marked used", uses.ResolvedUse)
	}
}

func TestModuleNotFound(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := New(fs, []string{"/mods"}, registry.New())
	_, diags, err := r.Load("nope", "", nil)
	if err == nil {
		t.Fatal("expected an error loading a nonexistent module")
	}
	if !strings.Contains(diags.String(), "not found") {
		t.Errorf("diags = %q, want a not-found diagnostic", diags.String())
	}
}

func TestIdentityBaseResolvesLocally(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/mods/foo.yang", `
module foo {
  namespace "urn:foo";
  prefix f;
  identity base-id;
  identity derived-id {
    base base-id;
  }
}
`)
	r := New(fs, []string{"/mods"}, registry.New())
	m, diags, err := r.Load("foo", "", nil)
	if err != nil {
		t.Fatalf("Load: %v (%s)", err, diags.String())
	}
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.String())
	}
	derived := m.FindIdentity("derived-id")
	if derived == nil {
		t.Fatalf("identity %q not found", "derived-id")
	}
	if len(derived.Bases) != 1 || derived.Bases[0].Name != "base-id" {
		t.Errorf("derived.Bases = %+v, want [base-id]", derived.Bases)
	}
}

func TestIdentityBaseResolvesAcrossImport(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/mods/base.yang", `
module base {
  namespace "urn:base";
  prefix b;
  identity root-id;
}
`)
	writeFile(t, fs, "/mods/foo.yang", `
module foo {
  namespace "urn:foo";
  prefix f;
  import base { prefix b; }
  identity derived-id {
    base b:root-id;
  }
}
`)
	r := New(fs, []string{"/mods"}, registry.New())
	m, diags, err := r.Load("foo", "", nil)
	if err != nil {
		t.Fatalf("Load: %v (%s)", err, diags.String())
	}
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.String())
	}
	derived := m.FindIdentity("derived-id")
	if derived == nil || len(derived.Bases) != 1 || derived.Bases[0].Name != "root-id" {
		t.Fatalf("derived = %+v, want one base named root-id", derived)
	}
}

func TestIdentityLoopDetected(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/mods/foo.yang", `
module foo {
  namespace "urn:foo";
  prefix f;
  identity a {
    base b;
  }
  identity b {
    base a;
  }
}
`)
	r := New(fs, []string{"/mods"}, registry.New())
	_, diags, err := r.Load("foo", "", nil)
	if err != nil {
		t.Fatalf("Load: %v (%s)", err, diags.String())
	}
	found := false
	for _, d := range diags {
		if d.Code == diag.IdentityLoop {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an identity-loop diagnostic, got: %s", diags.String())
	}
}

func TestAugmentTargetResolves(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/mods/foo.yang", `
module foo {
  namespace "urn:foo";
  prefix f;
  container c {
    leaf x { type string; }
  }
  augment "/c" {
    leaf y { type string; }
  }
}
`)
	r := New(fs, []string{"/mods"}, registry.New())
	m, diags, err := r.Load("foo", "", nil)
	if err != nil {
		t.Fatalf("Load: %v (%s)", err, diags.String())
	}
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.String())
	}
	var aug *schema.Datadef
	for i := range m.Datadefs {
		if m.Datadefs[i].Kind == schema.AugmentNode {
			aug = &m.Datadefs[i]
		}
	}
	if aug == nil {
		t.Fatal("no augment datadef found")
	}
	if aug.ResolvedTarget == nil || aug.ResolvedTarget.Name != "c" {
		t.Errorf("ResolvedTarget = %+v, want container c", aug.ResolvedTarget)
	}
}

func TestAugmentTargetDanglingSegmentFails(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/mods/foo.yang", `
module foo {
  namespace "urn:foo";
  prefix f;
  augment "/nowhere" {
    leaf y { type string; }
  }
}
`)
	r := New(fs, []string{"/mods"}, registry.New())
	_, diags, err := r.Load("foo", "", nil)
	if err != nil {
		t.Fatalf("Load: %v (%s)", err, diags.String())
	}
	found := false
	for _, d := range diags {
		if d.Code == diag.DefNotFound {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a def-not-found diagnostic for dangling augment target, got: %s", diags.String())
	}
}

func TestDiffModeResolvesImportFromSnapshot(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/mods/base.yang", `
module base {
  namespace "urn:base";
  prefix b;
  typedef bt { type string; }
}
`)
	writeFile(t, fs, "/mods/foo.yang", `
module foo {
  namespace "urn:foo";
  prefix f;
  import base { prefix b; }
  typedef ft { type b:bt; }
}
`)
	reg := registry.New()
	r := New(fs, []string{"/mods"}, reg)
	base, diags, err := r.Load("base", "", nil)
	if err != nil {
		t.Fatalf("Load(base): %v (%s)", err, diags.String())
	}

	// Remove base's file from the search path entirely; a diff-mode load
	// of foo must still resolve the import from the registry snapshot
	// rather than trying to relocate and reparse it from disk.
	if err := fs.Remove("/mods/base.yang"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	r2 := New(fs, []string{"/mods"}, reg)
	r2.DiffMode = true
	m, diags, err := r2.Load("foo", "", nil)
	if err != nil {
		t.Fatalf("Load(foo, diff-mode): %v (%s)", err, diags.String())
	}
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.String())
	}
	if len(m.Typedefs) != 1 || m.Typedefs[0].Type == nil || m.Typedefs[0].Type.Typedef != base.Typedefs[0] {
		t.Errorf("ft's type did not resolve to base's bt typedef via the registry snapshot")
	}
}

func TestSubmoduleModeRequiresBelongsTo(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/mods/foo-sub.yang", `
submodule foo-sub {
  revision 2024-01-01;
}
`)
	r := New(fs, []string{"/mods"}, registry.New())
	_, diags, err := r.Load("foo-sub", "", nil)
	if err != nil {
		t.Fatalf("Load: %v (%s)", err, diags.String())
	}
	found := false
	for _, d := range diags {
		if d.Code == diag.InvalidValue && strings.Contains(d.String(), "belongs-to") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a missing-belongs-to diagnostic, got: %s", diags.String())
	}
}

func TestIncludeSubmodsMergesAndStripsDescriptions(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/mods/foo.yang", `
module foo {
  namespace "urn:foo";
  prefix f;
  include foo-sub;
}
`)
	writeFile(t, fs, "/mods/foo-sub.yang", `
submodule foo-sub {
  belongs-to foo { prefix f; }
  typedef sub-type {
    type string;
    description "from the submodule";
  }
}
`)
	r := New(fs, []string{"/mods"}, registry.New())
	r.IncludeSubmods = true
	m, diags, err := r.Load("foo", "", nil)
	if err != nil {
		t.Fatalf("Load: %v (%s)", err, diags.String())
	}
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.String())
	}
	if len(m.Typedefs) != 1 || m.Typedefs[0].Name != "sub-type" {
		t.Fatalf("m.Typedefs = %+v, want the submodule's typedef merged in", m.Typedefs)
	}
	if m.Typedefs[0].Description != "" {
		t.Errorf("Description = %q, want stripped since SaveDescriptions is false", m.Typedefs[0].Description)
	}

	r2 := New(fs, []string{"/mods"}, registry.New())
	r2.IncludeSubmods = true
	r2.SaveDescriptions = true
	m2, diags, err := r2.Load("foo", "", nil)
	if err != nil {
		t.Fatalf("Load: %v (%s)", err, diags.String())
	}
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.String())
	}
	if got, want := m2.Typedefs[0].Description, "from the submodule"; got != want {
		t.Errorf("Description = %q, want %q with SaveDescriptions set", got, want)
	}
}

func TestModuleLevelAppinfoRetained(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/mods/foo.yang", `
module foo {
  namespace "urn:foo";
  prefix f;
  import vendor-ext { prefix v; }
  v:widget "gizmo";
}
`)
	writeFile(t, fs, "/mods/vendor-ext.yang", `
module vendor-ext {
  namespace "urn:vendor-ext";
  prefix v;
  extension widget {
    argument name;
  }
}
`)
	r := New(fs, []string{"/mods"}, registry.New())
	m, diags, err := r.Load("foo", "", nil)
	if err != nil {
		t.Fatalf("Load: %v (%s)", err, diags.String())
	}
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.String())
	}
	if len(m.Appinfo) != 1 {
		t.Fatalf("m.Appinfo = %+v, want one vendor-extension substatement retained", m.Appinfo)
	}
	if got, want := m.Appinfo[0].Name, "widget"; got != want {
		t.Errorf("Appinfo[0].Name = %q, want %q", got, want)
	}
	if got, want := m.Appinfo[0].Argument, "gizmo"; got != want {
		t.Errorf("Appinfo[0].Argument = %q, want %q", got, want)
	}
}
