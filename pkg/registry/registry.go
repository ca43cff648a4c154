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

// Package registry implements the process-wide module registry (spec
// §5, §9 "Global mutable registries"): a context object rather than a
// package-level global, so tests can instantiate isolated registries.
// The canonical index is a hash from (name, revision) to module (spec
// §9); a derekparker/trie secondary index serves prefix-based
// module-name lookup for the CLI's list subcommand (--prefix).
package registry

import (
	"sort"
	"sync"

	"github.com/derekparker/trie"
	"golang.org/x/exp/maps"

	"github.com/openconfig/yangcore/pkg/schema"
)

type key struct {
	name     string
	revision string
}

// Registry holds every successfully loaded module, keyed by (name,
// revision). Mutation happens only at "module successfully loaded"
// moments (spec §5); reads during a single load see a consistent
// snapshot because no other load is in flight within one process.
type Registry struct {
	mu      sync.Mutex
	modules map[key]*schema.Module
	names   *trie.Trie
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		modules: map[key]*schema.Module{},
		names:   trie.New(),
	}
}

// Register adds m, keyed by its name and latest revision. A second
// Register for the same (name, revision) replaces the prior entry;
// callers are expected to check FindModule first if replace-avoidance
// matters (e.g. diff-mode snapshotting).
func (r *Registry) Register(m *schema.Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{name: m.Name, revision: m.LatestRevision()}
	r.modules[k] = m
	if _, found := r.names.Find(m.Name); !found {
		r.names.Add(m.Name, nil)
	}
}

// FindModule returns the handle for (name, revision), or nil. An
// empty revision matches the registered module of name with the
// highest revision date.
func (r *Registry) FindModule(name, revision string) *schema.Module {
	r.mu.Lock()
	defer r.mu.Unlock()
	if revision != "" {
		return r.modules[key{name: name, revision: revision}]
	}
	var best *schema.Module
	for k, m := range r.modules {
		if k.name != name {
			continue
		}
		if best == nil || k.revision > best.LatestRevision() {
			best = m
		}
	}
	return best
}

// AllModules returns every registered module, ordered deterministically
// by (name, revision) so FirstModule/NextModule iteration is stable.
func (r *Registry) AllModules() []*schema.Module {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := maps.Keys(r.modules)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].name != keys[j].name {
			return keys[i].name < keys[j].name
		}
		return keys[i].revision < keys[j].revision
	})
	out := make([]*schema.Module, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.modules[k])
	}
	return out
}

// FirstModule returns the first module in AllModules' (name, revision)
// order, or nil if the registry is empty.
func (r *Registry) FirstModule() *schema.Module {
	all := r.AllModules()
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// NextModule returns the module that follows cur in AllModules'
// (name, revision) order, or nil if cur is the last.
func (r *Registry) NextModule(cur *schema.Module) *schema.Module {
	all := r.AllModules()
	for i, m := range all {
		if m == cur && i+1 < len(all) {
			return all[i+1]
		}
	}
	return nil
}

// NamesWithPrefix lists every distinct registered module name starting
// with prefix, for the CLI's list --prefix filter.
func (r *Registry) NamesWithPrefix(prefix string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.names.PrefixSearch(prefix)
}

// Snapshot returns a shallow copy of the registry's current module set,
// used by diff-mode loads that must resolve imports against a frozen
// view (spec §4.5: "ensure the imported module is loaded ... in
// diff-mode via the registry snapshot").
func (r *Registry) Snapshot() *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := New()
	for k, v := range r.modules {
		cp.modules[k] = v
	}
	return cp
}
