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

// Package schema defines the in-memory schema entities produced by
// the parser (spec §3): Module, Import, Include, Typedef, Grouping,
// Extension, the datadef tree, Rpc, Notification, and the supporting
// ErrorInfo/Feature/Identity/Deviation records SPEC_FULL adds (an
// augment is a Datadef of kind AugmentNode, not a record of its own).
// Ownership is tree-shaped per spec §5: a Module owns its typedef,
// grouping, and datadef subtrees outright; cross-module references are
// weak back-references re-looked-up through a registry, never owned
// pointers.
package schema

import "github.com/openconfig/yangcore/pkg/token"

// ErrorInfo is the uniform five-tuple attached to must, range, length,
// pattern, and bare error-stmts blocks (spec §3).
type ErrorInfo struct {
	XPath        string // must/when expression, or range/length/pattern argument
	ErrorMessage string
	ErrorAppTag  string
	Description  string
	Reference    string
}

// Status is the status substatement's closed value set.
type Status string

const (
	StatusCurrent    Status = "current"
	StatusDeprecated Status = "deprecated"
	StatusObsolete   Status = "obsolete"
)

// Appinfo is a captured vendor-extension substatement: a prefix:name
// keyword whose semantics are defined by the prefix's module, kept
// verbatim for downstream consumers.
type Appinfo struct {
	Prefix   string
	Name     string
	Argument string
	HasArg   bool
	Children []*Appinfo
	Pos      token.Position
}

// Revision is one revision-date substatement.
type Revision struct {
	Date        string
	Description string
	Reference   string
}

// Import is a (module-name, prefix, optional revision) record bound
// to the source token it was declared at, with a Used flag the
// resolver's unused-import check flips on first successful reference.
type Import struct {
	ModuleName string
	Prefix     string
	Revision   string // optional, "" if absent
	Pos        token.Position
	Used       bool
}

// Include is a (submodule-name, optional revision) record; Submodule
// is filled once the resolver has parsed the dependency.
type Include struct {
	SubmoduleName string
	Revision      string
	Submodule     *Module
	Pos           token.Position
}

// Feature is a module-scoped feature declaration (SPEC_FULL addition).
type Feature struct {
	Name        string
	Description string
	Reference   string
	Status      Status
	IfFeatures  []string
}

// Identity is a module-scoped identity declaration with base-identity
// cycle detection performed by the resolver (SPEC_FULL addition).
type Identity struct {
	Name        string
	Module      *Module // back-pointer to the defining module
	Description string
	Reference   string
	BaseNames   []string // raw prefix:name text, pre-resolution
	Bases       []*Identity
	Pos         token.Position
}

// TypeSpec is the type substatement's resolved content: either a
// built-in type name with its restrictions, or a reference to a
// typedef (local or imported).
type TypeSpec struct {
	Name         string // built-in name, or the raw typedef reference text
	Typedef      *Typedef
	Range        *ErrorInfo
	Length       *ErrorInfo
	Patterns     []*ErrorInfo
	EnumValues   []EnumValue
	Bits         []BitValue
	UnionMembers []*TypeSpec
	Base         string // leafref path / identityref base, raw text
	PathTokens   []token.Token
}

// EnumValue is one enum substatement under a type enumeration.
type EnumValue struct {
	Name  string
	Value int32
	HasValue bool
	Status Status
	Description string
}

// BitValue is one bit substatement under a type bits.
type BitValue struct {
	Name     string
	Position uint32
	HasPosition bool
}

// Typedef carries the full type-definition tree plus a Used flag for
// the unused-definition warning (spec §4.4 Post-checks).
type Typedef struct {
	Name        string
	Module      *Module // back-pointer to the defining module
	Type        *TypeSpec
	Default     string
	Units       string
	Description string
	Reference   string
	Status      Status
	Pos         token.Position
	Used        bool
}

// Grouping carries its full data-def child queue.
type Grouping struct {
	Name        string
	Module      *Module
	Children    []Datadef
	Typedefs    []*Typedef
	Groupings   []*Grouping
	Description string
	Reference   string
	Status      Status
	Pos         token.Position
	Used        bool
}

// Extension carries its argument spec (if any) and whether the
// argument, if present, is itself yin-element.
type Extension struct {
	Name        string
	Module      *Module
	ArgumentName string
	HasArgument bool
	YinElement  bool
	Description string
	Reference   string
	Status      Status
	Pos         token.Position
	Used        bool
}

// Kind is the closed set of datadef node kinds.
type Kind int

const (
	Container Kind = iota
	Leaf
	LeafList
	List
	Choice
	Case
	Anyxml
	Uses
	AugmentNode
)

// Datadef is one object-tree node: container, leaf, leaf-list, list,
// choice, case, anyxml, uses, or augment (spec §3 "object").
type Datadef struct {
	Kind        Kind
	Name        string
	Type        *TypeSpec // Leaf/LeafList only
	Config      *bool     // nil means inherited
	Mandatory   bool
	MinElements uint32
	MaxElements uint32
	Unbounded   bool
	Key         []string // List only, ordered leaf names
	Unique      [][]string
	Presence    string
	Default     string
	Description string
	Reference   string
	Status      Status
	Must        []*ErrorInfo
	When        *ErrorInfo
	IfFeatures  []string
	Children    []Datadef // Container/List/Case/AugmentNode
	ShortCases  []Datadef // Choice's implicit case wrapping, if any
	Grouping    string    // Uses: raw prefix:name reference text
	ResolvedUse *Grouping
	TargetPath     string // Augment: raw target path text
	ResolvedTarget *Datadef
	Appinfo     []*Appinfo
	Pos         token.Position
}

// Rpc is an rpc statement's input/output data trees.
type Rpc struct {
	Name        string
	Input       []Datadef
	Output      []Datadef
	Typedefs    []*Typedef
	Groupings   []*Grouping
	Description string
	Reference   string
	Status      Status
	Pos         token.Position
}

// Notification is a notification statement's data tree.
type Notification struct {
	Name        string
	Children    []Datadef
	Typedefs    []*Typedef
	Groupings   []*Grouping
	Description string
	Reference   string
	Status      Status
	Pos         token.Position
}

// Deviation records a deviation statement: local departures from
// another module's schema (SPEC_FULL addition, GLOSSARY "Deviation
// module"). The resolver parses and stores it; it does not apply it
// to the target module.
type Deviation struct {
	TargetPath string
	Kind       string // add | replace | delete | not-supported
	Pos        token.Position
}

// StmtKind tags the statement-order record's payload (spec §3
// auxiliary "statement-order" used by downstream doc/XSD emitters).
type StmtKind int

const (
	StmtTypedef StmtKind = iota
	StmtGrouping
	StmtExtension
	StmtObject
)

// StmtOrder is one entry in a Module's declaration-order list.
type StmtOrder struct {
	Kind  StmtKind
	Index int // index into the corresponding slice on Module
}

// Module is a parsed YANG module or submodule (spec §3).
type Module struct {
	Name         string
	IsSubmodule  bool
	BelongsTo    string // submodule only: the module name from belongs-to
	Namespace    string
	Prefix       string
	YangVersion  string
	Organization string
	Contact      string
	Description  string
	Reference    string

	Revisions []Revision
	Imports   []*Import
	Includes  []*Include
	Typedefs  []*Typedef
	Groupings []*Grouping
	Extensions []*Extension
	Features  []*Feature
	Identities []*Identity
	Deviations []*Deviation
	Datadefs  []Datadef
	Rpcs      []*Rpc
	Notifications []*Notification

	// Appinfo holds module-scope vendor extension substatements,
	// captured verbatim the same way datadef/error-info appinfo is.
	Appinfo []*Appinfo

	// StatementOrder preserves top-level declaration order for the
	// documentation/XSD emitters (spec §3), populated only when the
	// PCB's RecordStatementOrder flag is set.
	StatementOrder []StmtOrder

	Pos token.Position
}

// LatestRevision returns the latest (highest) declared revision date, or
// "" if the module declares none.
func (m *Module) LatestRevision() string {
	if len(m.Revisions) == 0 {
		return ""
	}
	latest := m.Revisions[0].Date
	for _, r := range m.Revisions[1:] {
		if r.Date > latest {
			latest = r.Date
		}
	}
	return latest
}

// FindImport returns the import declaring prefix, or nil.
func (m *Module) FindImport(prefix string) *Import {
	for _, imp := range m.Imports {
		if imp.Prefix == prefix {
			return imp
		}
	}
	return nil
}

// FindTypedef returns the local typedef named name, or nil.
func (m *Module) FindTypedef(name string) *Typedef {
	for _, t := range m.Typedefs {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// FindGrouping returns the local grouping named name, or nil.
func (m *Module) FindGrouping(name string) *Grouping {
	for _, g := range m.Groupings {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// FindExtension returns the local extension named name, or nil.
func (m *Module) FindExtension(name string) *Extension {
	for _, e := range m.Extensions {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// FindIdentity returns the local identity named name, or nil.
func (m *Module) FindIdentity(name string) *Identity {
	for _, id := range m.Identities {
		if id.Name == name {
			return id
		}
	}
	return nil
}
