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
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	log "github.com/golang/glog"
	"github.com/spf13/afero"

	"github.com/openconfig/yangcore/pkg/diag"
	"github.com/openconfig/yangcore/pkg/lexer"
	"github.com/openconfig/yangcore/pkg/registry"
	"github.com/openconfig/yangcore/pkg/schema"
	"github.com/openconfig/yangcore/pkg/token"
	"github.com/openconfig/yangcore/util"
)

// Resolver drives load_module invocations against a search path and a
// shared Registry (spec §4.4, §6 Load/Registry). One Resolver may be
// reused across many independent top-level loads; each load gets its
// own PCB.
type Resolver struct {
	Fs         afero.Fs
	SearchPath []string // colon-split directory list, spec §6
	Registry   *registry.Registry

	RecordStatementOrder bool
	DiffMode             bool
	SaveDescriptions     bool
	IncludeSubmods       bool
}

// New returns a Resolver backed by fs, searching dirs in order.
func New(fs afero.Fs, dirs []string, reg *registry.Registry) *Resolver {
	return &Resolver{Fs: fs, SearchPath: dirs, Registry: reg}
}

// locate finds the file implementing name[@revision] on the search
// path (spec §4.4 Locate): "<module>.yang" or "<module>@<revision>.yang".
func (r *Resolver) locate(name, revision string) (string, bool) {
	candidates := []string{name + ".yang"}
	if revision != "" {
		candidates = []string{name + "@" + revision + ".yang", name + ".yang"}
	}
	for _, dir := range r.SearchPath {
		for _, fn := range candidates {
			full := filepath.Join(dir, fn)
			if ok, _ := afero.Exists(r.Fs, full); ok {
				return full, true
			}
		}
	}
	return "", false
}

// Load runs the full load_module state machine (spec §4.4) for a
// top-level parse: Locate -> Parse -> Resolve-imports ->
// Resolve-includes -> Resolve-refs -> Post-checks -> Registered.
// Each module named in deviations is located and parsed, in order,
// before the main parse; its deviation statements are recorded on that
// module but are not applied to the main module's schema.
func (r *Resolver) Load(name, revision string, deviations []string) (*schema.Module, diag.List, error) {
	pcb := NewPCB()
	pcb.RecordStatementOrder = r.RecordStatementOrder
	pcb.DiffMode = r.DiffMode
	pcb.SaveDescriptions = r.SaveDescriptions
	pcb.IncludeSubmods = r.IncludeSubmods
	if pcb.DiffMode {
		pcb.Snapshot = r.Registry.Snapshot()
	}

	// Deviation failures are reported but do not block the main module
	// (spec §7); they are collected with the teacher's util.Errors
	// rather than threaded through diag.List, since they are a
	// best-effort side channel logged once at the end of the load
	// instead of a diagnostic pinned to the main module's source. Each
	// failure is prefixed with the deviation module that caused it and
	// the set deduplicated, since the same --deviation list is often
	// retried verbatim across a batch of otherwise-independent loads.
	var devErrs util.Errors
	for _, dn := range deviations {
		if _, _, derr := r.loadInto(pcb, dn, "", false); derr != nil {
			devErrs = util.AppendErrs(devErrs, util.PrefixErrors(util.NewErrs(derr), fmt.Sprintf("deviation module %q", dn)))
		}
	}
	devErrs = util.UniqueErrors(devErrs)
	if len(devErrs) > 0 {
		log.Warningf("deviation modules failed to load: %s", devErrs.String())
	}

	m, diags, err := r.loadInto(pcb, name, revision, true)
	if err != nil {
		return nil, diags, err
	}
	r.Registry.Register(m)
	return m, diags, nil
}

// loadInto is the recursive worker shared by top-level loads and
// import/include resolution; top marks the initial call, whose module
// becomes pcb.Top and alone runs Resolve-refs and Post-checks.
func (r *Resolver) loadInto(pcb *PCB, name, revision string, top bool) (*schema.Module, diag.List, error) {
	if pcb.Failed[name] {
		d := diag.New(diag.Info, diag.AlreadyFailed, token.Position{}, "module %q already failed in this load; not retrying", name)
		return nil, diag.List{d}, fmt.Errorf("%s", d.String())
	}

	path, ok := r.locate(name, revision)
	if !ok {
		d := diag.New(diag.Error, diag.ModuleNotFound, token.Position{}, "module %q not found on search path", name)
		pcb.Failed[name] = true
		return nil, diag.List{d}, fmt.Errorf("%s", d.String())
	}

	chain := lexer.New(token.Module)
	if err := chain.AttachFile(r.Fs, path); err != nil {
		d := diag.New(diag.Error, diag.ReadFailed, token.Position{File: path}, "reading %q: %v", path, err)
		pcb.Failed[name] = true
		return nil, diag.List{d}, fmt.Errorf("%s", d.String())
	}
	if fatal := chain.Tokenise(); fatal != nil {
		pcb.Failed[name] = true
		return nil, diag.List{*fatal}, fmt.Errorf("%s", fatal.String())
	}

	g := newGrammar(chain, pcb)
	m, fatal := g.parseTop()
	diags := g.p.Diags
	if fatal != nil {
		pcb.Failed[name] = true
		return nil, append(diags, *fatal), fmt.Errorf("%s", fatal.String())
	}
	if m == nil {
		pcb.Failed[name] = true
		err := fmt.Errorf("failed to parse module %q", name)
		return nil, diags, err
	}

	if top {
		pcb.Top = m
		if m.IsSubmodule {
			pcb.SubmoduleMode = true
		}
	}

	// Resolve-imports. In diff-mode, an import already present in the
	// frozen snapshot is accepted as-is instead of being re-located and
	// re-parsed (spec §4.5: "load if not, in diff-mode via the
	// registry snapshot"), so a diff run never mutates or refetches
	// what a concurrent load is registering.
	for _, imp := range m.Imports {
		if pcb.DiffMode && pcb.Snapshot != nil {
			if target := pcb.Snapshot.FindModule(imp.ModuleName, imp.Revision); target != nil {
				pcb.AllImports = append(pcb.AllImports, imp)
				continue
			}
		}
		ok, loopDiag := pcb.pushImport(imp.ModuleName, imp.Pos)
		if !ok {
			diags = diags.Append(loopDiag)
			continue
		}
		sub, subDiags, err := r.loadInto(pcb, imp.ModuleName, imp.Revision, false)
		pcb.popImport()
		diags = append(diags, subDiags...)
		if err != nil {
			diags = diags.Append(diag.New(diag.Error, diag.ModuleNotFound, imp.Pos, "import of %q failed: %v", imp.ModuleName, err))
			continue
		}
		// Register the imported module so Resolve-refs lookups find it;
		// a diff-mode load registers it only into its own snapshot.
		if pcb.DiffMode && pcb.Snapshot != nil {
			pcb.Snapshot.Register(sub)
		} else {
			r.Registry.Register(sub)
		}
		pcb.AllImports = append(pcb.AllImports, imp)
	}

	// Resolve-includes. Submodules are always located, parsed, and
	// loop-checked so a dangling or circular include is still
	// diagnosed; IncludeSubmods controls only whether the submodule's
	// entity lists are flattened into the owning module (off by
	// default, so tooling that wants to inspect a submodule on its own
	// terms can do so via inc.Submodule without every include silently
	// reshaping the top module's namespace).
	for _, inc := range m.Includes {
		if pcb.alreadyIncluded(inc.SubmoduleName) {
			continue
		}
		ok, loopDiag := pcb.pushInclude(inc.SubmoduleName, inc.Pos)
		if !ok {
			diags = diags.Append(loopDiag)
			continue
		}
		sub, subDiags, err := r.loadInto(pcb, inc.SubmoduleName, inc.Revision, false)
		pcb.popInclude()
		diags = append(diags, subDiags...)
		if err != nil {
			diags = diags.Append(diag.New(diag.Error, diag.ModuleNotFound, inc.Pos, "include of %q failed: %v", inc.SubmoduleName, err))
			continue
		}
		inc.Submodule = sub
		pcb.AllIncludes = append(pcb.AllIncludes, inc)
		if pcb.IncludeSubmods {
			mergeSubmodule(m, sub, pcb.SaveDescriptions)
		}
	}

	if top {
		lookupReg := r.Registry
		if pcb.DiffMode && pcb.Snapshot != nil {
			lookupReg = pcb.Snapshot
		}
		resolveRefs(m, pcb, lookupReg, &diags)
		postChecks(m, pcb, &diags)
	}

	return m, diags, nil
}

// mergeSubmodule attaches an included submodule's entity lists onto
// the owning module (spec §4.4 Resolve-includes: "reads submodule
// contents into the top module's entity lists"). When saveDescriptions
// is false, the merged-in entities have their description/reference
// text cleared first, since a flattened-in submodule's prose is rarely
// what a caller merging for structural purposes wants to carry.
func mergeSubmodule(m, sub *schema.Module, saveDescriptions bool) {
	if !saveDescriptions {
		stripDescriptions(sub)
	}
	m.Typedefs = append(m.Typedefs, sub.Typedefs...)
	m.Groupings = append(m.Groupings, sub.Groupings...)
	m.Extensions = append(m.Extensions, sub.Extensions...)
	m.Features = append(m.Features, sub.Features...)
	m.Identities = append(m.Identities, sub.Identities...)
	m.Datadefs = append(m.Datadefs, sub.Datadefs...)
	m.Rpcs = append(m.Rpcs, sub.Rpcs...)
	m.Notifications = append(m.Notifications, sub.Notifications...)
	m.Deviations = append(m.Deviations, sub.Deviations...)
	m.Appinfo = append(m.Appinfo, sub.Appinfo...)
}

// stripDescriptions clears description/reference text across every
// entity a submodule can contribute, in place.
func stripDescriptions(sub *schema.Module) {
	for _, td := range sub.Typedefs {
		td.Description, td.Reference = "", ""
	}
	for _, gr := range sub.Groupings {
		gr.Description, gr.Reference = "", ""
		stripDatadefDescriptions(gr.Children)
	}
	for _, id := range sub.Identities {
		id.Description, id.Reference = "", ""
	}
	for _, rpc := range sub.Rpcs {
		rpc.Description, rpc.Reference = "", ""
		stripDatadefDescriptions(rpc.Input)
		stripDatadefDescriptions(rpc.Output)
	}
	for _, n := range sub.Notifications {
		n.Description, n.Reference = "", ""
		stripDatadefDescriptions(n.Children)
	}
	stripDatadefDescriptions(sub.Datadefs)
}

func stripDatadefDescriptions(dds []schema.Datadef) {
	for i := range dds {
		dds[i].Description, dds[i].Reference = "", ""
		stripDatadefDescriptions(dds[i].Children)
		stripDatadefDescriptions(dds[i].ShortCases)
	}
}

// resolveRefs walks every prefix:name reference (typedefs, groupings,
// uses, identity bases, augment targets) and binds it to a concrete
// entity, local or via an import (spec §4.4 Resolve-refs).
func resolveRefs(m *schema.Module, pcb *PCB, reg *registry.Registry, diags *diag.List) {
	for _, td := range m.Typedefs {
		resolveType(m, td.Type, reg, diags)
	}
	for _, gr := range m.Groupings {
		resolveGroupingRefs(m, gr, reg, diags)
	}
	resolveDatadefs(m, m.Datadefs, reg, diags)
	for _, rpc := range m.Rpcs {
		resolveDatadefs(m, rpc.Input, reg, diags)
		resolveDatadefs(m, rpc.Output, reg, diags)
	}
	for _, n := range m.Notifications {
		resolveDatadefs(m, n.Children, reg, diags)
	}
	resolveIdentities(m, pcb, reg, diags)
	resolveAugments(m, reg, diags)
}

// resolveIdentities binds each identity's base-identity names to the
// concrete Identity they name, local or via an import, detecting
// cycles with the same push/pop chain PCB uses for import and include
// loops (spec §4.4 Resolve-refs, SPEC_FULL's identity/identityref
// addition).
func resolveIdentities(m *schema.Module, pcb *PCB, reg *registry.Registry, diags *diag.List) {
	visited := map[*schema.Identity]bool{}
	var visit func(id *schema.Identity)
	visit = func(id *schema.Identity) {
		if visited[id] {
			return
		}
		owner := id.Module
		if owner == nil {
			owner = m
		}
		qname := id.Name
		if owner != m {
			qname = owner.Name + ":" + id.Name
		}
		ok, loopDiag := pcb.pushIdentity(qname, id.Pos)
		if !ok {
			*diags = diags.Append(loopDiag)
			return
		}
		for _, baseName := range id.BaseNames {
			var base *schema.Identity
			if strings.Contains(baseName, ":") {
				parts := strings.SplitN(baseName, ":", 2)
				var d *diag.Diagnostic
				base, d = FindImpIdentity(owner, reg, parts[0], parts[1], id.Pos)
				if d != nil {
					*diags = diags.Append(*d)
					continue
				}
			} else {
				base = owner.FindIdentity(baseName)
				if base == nil {
					*diags = diags.Append(diag.New(diag.Error, diag.DefNotFound, id.Pos, "identity %q: base %q not found", id.Name, baseName))
					continue
				}
			}
			id.Bases = append(id.Bases, base)
			visit(base)
		}
		pcb.popIdentity()
		visited[id] = true
	}
	for _, id := range m.Identities {
		visit(id)
	}
}

// resolveAugments binds each augment's TargetPath against the
// already-parsed datadef tree, local or via an import, failing with
// DefNotFound on a dangling segment (spec §4.4 Resolve-refs, SPEC_FULL's
// augment-binding addition).
func resolveAugments(m *schema.Module, reg *registry.Registry, diags *diag.List) {
	resolveAugmentsIn(m, m.Datadefs, reg, diags)
	for _, rpc := range m.Rpcs {
		resolveAugmentsIn(m, rpc.Input, reg, diags)
		resolveAugmentsIn(m, rpc.Output, reg, diags)
	}
	for _, n := range m.Notifications {
		resolveAugmentsIn(m, n.Children, reg, diags)
	}
}

func resolveAugmentsIn(m *schema.Module, dds []schema.Datadef, reg *registry.Registry, diags *diag.List) {
	for i := range dds {
		dd := &dds[i]
		if dd.Kind == schema.AugmentNode {
			bindAugmentTarget(m, dd, reg, diags)
		}
		resolveAugmentsIn(m, dd.Children, reg, diags)
	}
}

// bindAugmentTarget walks dd.TargetPath ("/a/b/c", or
// "/prefix:a/b/c" when anchored in an imported module) against the
// target tree, recording the bound node on success or emitting
// DefNotFound at the first segment with no matching child.
func bindAugmentTarget(m *schema.Module, dd *schema.Datadef, reg *registry.Registry, diags *diag.List) {
	path := strings.TrimPrefix(dd.TargetPath, "/")
	if path == "" {
		*diags = diags.Append(diag.New(diag.Error, diag.InvalidValue, dd.Pos, "augment target path %q is empty", dd.TargetPath))
		return
	}
	steps := strings.Split(path, "/")

	target := m
	if idx := strings.Index(steps[0], ":"); idx >= 0 {
		prefix := steps[0][:idx]
		steps[0] = steps[0][idx+1:]
		if prefix != m.Prefix {
			imp := m.FindImport(prefix)
			if imp == nil {
				*diags = diags.Append(diag.New(diag.Error, diag.PrefixNotFound, dd.Pos, "prefix %q is not imported by module %q", prefix, m.Name))
				return
			}
			imported := reg.FindModule(imp.ModuleName, imp.Revision)
			if imported == nil {
				*diags = diags.Append(diag.New(diag.Error, diag.ModuleNotFound, dd.Pos, "imported module %q is not loaded", imp.ModuleName))
				return
			}
			imp.Used = true
			target = imported
		}
	}

	cur := target.Datadefs
	var found *schema.Datadef
	for _, step := range steps {
		name := step
		if idx := strings.Index(name, ":"); idx >= 0 {
			name = name[idx+1:]
		}
		found = findChildByName(cur, name)
		if found == nil {
			*diags = diags.Append(diag.New(diag.Error, diag.DefNotFound, dd.Pos, "augment target path %q: no such node %q", dd.TargetPath, step))
			return
		}
		cur = found.Children
	}
	dd.ResolvedTarget = found
}

// findChildByName searches dds, including choice's implicit case
// wrappers, for a node named name.
func findChildByName(dds []schema.Datadef, name string) *schema.Datadef {
	for i := range dds {
		if dds[i].Name == name {
			return &dds[i]
		}
	}
	for i := range dds {
		if len(dds[i].ShortCases) > 0 {
			if found := findChildByName(dds[i].ShortCases, name); found != nil {
				return found
			}
		}
	}
	return nil
}

func resolveGroupingRefs(m *schema.Module, gr *schema.Grouping, reg *registry.Registry, diags *diag.List) {
	for _, td := range gr.Typedefs {
		resolveType(m, td.Type, reg, diags)
	}
	resolveDatadefs(m, gr.Children, reg, diags)
}

func resolveType(m *schema.Module, ts *schema.TypeSpec, reg *registry.Registry, diags *diag.List) {
	if ts == nil {
		return
	}
	if strings.Contains(ts.Name, ":") {
		parts := strings.SplitN(ts.Name, ":", 2)
		td, _ := FindImpTypedef(m, reg, parts[0], parts[1], token.Position{})
		if td != nil {
			ts.Typedef = td
			td.Used = true
		}
	} else if td := m.FindTypedef(ts.Name); td != nil {
		ts.Typedef = td
		td.Used = true
	}
	for _, u := range ts.UnionMembers {
		resolveType(m, u, reg, diags)
	}
}

func resolveDatadefs(m *schema.Module, dds []schema.Datadef, reg *registry.Registry, diags *diag.List) {
	for i := range dds {
		dd := &dds[i]
		if dd.Type != nil {
			resolveType(m, dd.Type, reg, diags)
		}
		if dd.Kind == schema.Uses {
			var gr *schema.Grouping
			if strings.Contains(dd.Grouping, ":") {
				parts := strings.SplitN(dd.Grouping, ":", 2)
				gr, _ = FindImpGrouping(m, reg, parts[0], parts[1], dd.Pos)
			} else {
				gr = m.FindGrouping(dd.Grouping)
			}
			if gr == nil {
				*diags = diags.Append(diag.New(diag.Error, diag.DefNotFound, dd.Pos, "grouping %q not found", dd.Grouping))
			} else {
				dd.ResolvedUse = gr
				gr.Used = true
			}
		}
		resolveDatadefs(m, dd.Children, reg, diags)
	}
}

// postChecks emits unused-definition/import warnings, validates
// revision-date strings, and (spec §4.4 Post-checks, submodule-mode
// addition) checks that a submodule declares belongs-to and that a
// module declares namespace, since the grammar accepts either
// statement as optional syntax but a module loaded standalone needs
// one or the other to be well-formed.
func postChecks(m *schema.Module, pcb *PCB, diags *diag.List) {
	if pcb.SubmoduleMode || m.IsSubmodule {
		if m.BelongsTo == "" {
			*diags = diags.Append(diag.New(diag.Error, diag.InvalidValue, m.Pos, "submodule %q has no belongs-to statement", m.Name))
		}
	} else if m.Namespace == "" {
		*diags = diags.Append(diag.New(diag.Error, diag.InvalidValue, m.Pos, "module %q has no namespace statement", m.Name))
	}
	for _, imp := range m.Imports {
		if !imp.Used {
			*diags = diags.Append(diag.New(diag.Warning, diag.ImportNotUsed, imp.Pos, "import %q (prefix %s) is not used", imp.ModuleName, imp.Prefix))
		}
	}
	for _, td := range m.Typedefs {
		if !td.Used {
			*diags = diags.Append(diag.New(diag.Warning, diag.TypedefNotUsed, td.Pos, "typedef %q is not used", td.Name))
		}
	}
	for _, gr := range m.Groupings {
		if !gr.Used {
			*diags = diags.Append(diag.New(diag.Warning, diag.GroupingNotUsed, gr.Pos, "grouping %q is not used", gr.Name))
		}
	}
	for _, rev := range m.Revisions {
		validateRevisionDate(rev.Date, m.Pos, diags)
	}
}

// validateRevisionDate checks a YYYY-MM-DD string against the numeric
// ranges spec §4.4/§8 require, warning (not failing) on a date
// outside [1970-01-01, today].
func validateRevisionDate(date string, pos token.Position, diags *diag.List) {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		*diags = diags.Append(diag.New(diag.Error, diag.InvalidValue, pos, "revision date %q is not YYYY-MM-DD", date))
		return
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		*diags = diags.Append(diag.New(diag.Error, diag.InvalidValue, pos, "revision date %q is not YYYY-MM-DD", date))
		return
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		*diags = diags.Append(diag.New(diag.Error, diag.InvalidValue, pos, "revision date %q has an out-of-range month or day", date))
		return
	}
	if year < 1970 {
		*diags = diags.Append(diag.New(diag.Warning, diag.DatePast, pos, "revision date %q is before 1970", date))
	}
	today := time.Now().Format("2006-01-02")
	if date > today {
		*diags = diags.Append(diag.New(diag.Warning, diag.DateFuture, pos, "revision date %q is in the future", date))
	}
}
