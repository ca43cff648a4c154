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

// Package resolver implements the ModuleResolver (spec §4.4): the
// parse-control-block state machine that drives locate/parse/
// resolve-imports/resolve-includes/resolve-refs/post-checks for a
// single load_module invocation, plus ExternalLookup (spec §4.5).
// Grounded on yuma123's ncx/yang.c yang_pcb_t and its
// yang_find_imp_* family.
package resolver

import (
	"github.com/openconfig/yangcore/pkg/diag"
	"github.com/openconfig/yangcore/pkg/registry"
	"github.com/openconfig/yangcore/pkg/schema"
	"github.com/openconfig/yangcore/pkg/token"
)

// chainEntry tracks one name currently being processed, for cycle
// detection on the import_chain / include_chain stacks.
type chainEntry struct {
	name string
	pos  token.Position
}

// PCB is the per-load parse-control-block (spec §3).
type PCB struct {
	Top *schema.Module // root module/submodule currently being parsed
	Mod *schema.Module // when Top is a submodule, the module it belongs to

	AllImports []*schema.Import  // de-duplicated resolved dependencies
	AllIncludes []*schema.Include

	importChain   []chainEntry
	includeChain  []chainEntry
	identityChain []chainEntry

	Failed map[string]bool // names of modules already loaded and rejected

	// Snapshot is the registry view diff-mode resolves imports
	// against, taken once at the start of the load (spec §4.5: "load
	// if not, in diff-mode via the registry snapshot"), so a load run
	// for comparison purposes never mutates or re-parses against a
	// Registry another load is concurrently registering into.
	Snapshot *registry.Registry

	// Flags (spec §3).
	SubmoduleMode        bool
	IncludeSubmods       bool
	RecordStatementOrder bool
	DiffMode             bool
	SaveDescriptions     bool
}

// NewPCB returns an empty PCB ready for one top-level load_module call.
func NewPCB() *PCB {
	return &PCB{Failed: map[string]bool{}}
}

// pushImport pushes name onto the import chain, returning false (an
// import-loop) if it is already present.
func (pcb *PCB) pushImport(name string, pos token.Position) (ok bool, loopDiag diag.Diagnostic) {
	for _, e := range pcb.importChain {
		if e.name == name {
			return false, diag.New(diag.Error, diag.ImportLoop, pos, "import loop detected: %q is already being imported", name)
		}
	}
	pcb.importChain = append(pcb.importChain, chainEntry{name: name, pos: pos})
	return true, diag.Diagnostic{}
}

func (pcb *PCB) popImport() {
	if len(pcb.importChain) > 0 {
		pcb.importChain = pcb.importChain[:len(pcb.importChain)-1]
	}
}

func (pcb *PCB) pushInclude(name string, pos token.Position) (ok bool, loopDiag diag.Diagnostic) {
	for _, e := range pcb.includeChain {
		if e.name == name {
			return false, diag.New(diag.Error, diag.IncludeLoop, pos, "include loop detected: %q is already being included", name)
		}
	}
	pcb.includeChain = append(pcb.includeChain, chainEntry{name: name, pos: pos})
	return true, diag.Diagnostic{}
}

func (pcb *PCB) popInclude() {
	if len(pcb.includeChain) > 0 {
		pcb.includeChain = pcb.includeChain[:len(pcb.includeChain)-1]
	}
}

// pushIdentity pushes name onto the identity-base chain, returning
// false (an identity loop) if it is already present. Same shape as
// pushImport/pushInclude, applied to identity base resolution instead
// of module loads.
func (pcb *PCB) pushIdentity(name string, pos token.Position) (ok bool, loopDiag diag.Diagnostic) {
	for _, e := range pcb.identityChain {
		if e.name == name {
			return false, diag.New(diag.Error, diag.IdentityLoop, pos, "identity loop detected: %q bases back on itself", name)
		}
	}
	pcb.identityChain = append(pcb.identityChain, chainEntry{name: name, pos: pos})
	return true, diag.Diagnostic{}
}

func (pcb *PCB) popIdentity() {
	if len(pcb.identityChain) > 0 {
		pcb.identityChain = pcb.identityChain[:len(pcb.identityChain)-1]
	}
}

// alreadyIncluded reports whether submodule name has already been
// merged into the top module during this PCB's lifetime (spec §4.4:
// "repeat include of the same submodule ... is a no-op").
func (pcb *PCB) alreadyIncluded(name string) bool {
	for _, inc := range pcb.AllIncludes {
		if inc.SubmoduleName == name {
			return true
		}
	}
	return false
}
