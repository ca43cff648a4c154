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
	"github.com/openconfig/yangcore/pkg/diag"
	"github.com/openconfig/yangcore/pkg/registry"
	"github.com/openconfig/yangcore/pkg/schema"
	"github.com/openconfig/yangcore/pkg/token"
)

// ExternalLookup resolves prefix:name references (typedef, grouping,
// extension) into concrete schema entities (spec §4.5). Each failure
// is reported against an explicit error-token position supplied by
// the caller, so the diagnostic points at the referring site rather
// than wherever the lexer currently sits.

// FindImpTypedef resolves prefix via m's own imports and searches the
// imported module's top-level typedefs.
func FindImpTypedef(m *schema.Module, reg *registry.Registry, prefix, name string, errTok token.Position) (*schema.Typedef, *diag.Diagnostic) {
	imp := m.FindImport(prefix)
	if imp == nil {
		d := diag.New(diag.Error, diag.PrefixNotFound, errTok, "prefix %q is not imported by module %q", prefix, m.Name)
		return nil, &d
	}
	target := reg.FindModule(imp.ModuleName, imp.Revision)
	if target == nil {
		d := diag.New(diag.Error, diag.ModuleNotFound, errTok, "imported module %q is not loaded", imp.ModuleName)
		return nil, &d
	}
	imp.Used = true
	td := target.FindTypedef(name)
	if td == nil {
		d := diag.New(diag.Error, diag.DefNotFound, errTok, "typedef %q not found in module %q", name, imp.ModuleName)
		return nil, &d
	}
	return td, nil
}

// FindImpGrouping resolves prefix via m's own imports and searches the
// imported module's top-level groupings.
func FindImpGrouping(m *schema.Module, reg *registry.Registry, prefix, name string, errTok token.Position) (*schema.Grouping, *diag.Diagnostic) {
	imp := m.FindImport(prefix)
	if imp == nil {
		d := diag.New(diag.Error, diag.PrefixNotFound, errTok, "prefix %q is not imported by module %q", prefix, m.Name)
		return nil, &d
	}
	target := reg.FindModule(imp.ModuleName, imp.Revision)
	if target == nil {
		d := diag.New(diag.Error, diag.ModuleNotFound, errTok, "imported module %q is not loaded", imp.ModuleName)
		return nil, &d
	}
	imp.Used = true
	gr := target.FindGrouping(name)
	if gr == nil {
		d := diag.New(diag.Error, diag.DefNotFound, errTok, "grouping %q not found in module %q", name, imp.ModuleName)
		return nil, &d
	}
	return gr, nil
}

// FindImpExtension resolves prefix via m's own imports and searches
// the imported module's top-level extensions.
func FindImpExtension(m *schema.Module, reg *registry.Registry, prefix, name string, errTok token.Position) (*schema.Extension, *diag.Diagnostic) {
	imp := m.FindImport(prefix)
	if imp == nil {
		d := diag.New(diag.Error, diag.PrefixNotFound, errTok, "prefix %q is not imported by module %q", prefix, m.Name)
		return nil, &d
	}
	target := reg.FindModule(imp.ModuleName, imp.Revision)
	if target == nil {
		d := diag.New(diag.Error, diag.ModuleNotFound, errTok, "imported module %q is not loaded", imp.ModuleName)
		return nil, &d
	}
	imp.Used = true
	ext := target.FindExtension(name)
	if ext == nil {
		d := diag.New(diag.Error, diag.DefNotFound, errTok, "extension %q not found in module %q", name, imp.ModuleName)
		return nil, &d
	}
	return ext, nil
}

// FindImpIdentity resolves prefix via m's own imports and searches the
// imported module's top-level identities.
func FindImpIdentity(m *schema.Module, reg *registry.Registry, prefix, name string, errTok token.Position) (*schema.Identity, *diag.Diagnostic) {
	imp := m.FindImport(prefix)
	if imp == nil {
		d := diag.New(diag.Error, diag.PrefixNotFound, errTok, "prefix %q is not imported by module %q", prefix, m.Name)
		return nil, &d
	}
	target := reg.FindModule(imp.ModuleName, imp.Revision)
	if target == nil {
		d := diag.New(diag.Error, diag.ModuleNotFound, errTok, "imported module %q is not loaded", imp.ModuleName)
		return nil, &d
	}
	imp.Used = true
	id := target.FindIdentity(name)
	if id == nil {
		d := diag.New(diag.Error, diag.DefNotFound, errTok, "identity %q not found in module %q", name, imp.ModuleName)
		return nil, &d
	}
	return id, nil
}
