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
	"github.com/openconfig/yangcore/pkg/lexer"
	"github.com/openconfig/yangcore/pkg/schema"
	"github.com/openconfig/yangcore/pkg/stmt"
	"github.com/openconfig/yangcore/pkg/token"
)

// grammar drives a stmt.Parser through the top-level keyword-bodied
// statement stream, producing a schema.Module (spec §2 "Recursive-
// descent YANG parser"). One grammar is used per parsed file.
type grammar struct {
	p   *stmt.Parser
	pcb *PCB
	mod *schema.Module
}

func newGrammar(c *lexer.Chain, pcb *PCB) *grammar {
	return &grammar{p: stmt.New(c), pcb: pcb}
}

// topKeywords lists the keywords that can open a top-level module
// substatement (spec §4.3 "top-level keyword"). Nothing consults it:
// SkipStatement resynchronises on braces and ';' alone.
var topKeywords = map[string]bool{
	"typedef": true, "grouping": true, "extension": true, "container": true,
	"leaf": true, "leaf-list": true, "list": true, "choice": true, "anyxml": true,
	"uses": true, "augment": true, "rpc": true, "notification": true,
	"import": true, "include": true, "revision": true, "feature": true,
	"identity": true, "deviation": true,
}

// parseTop parses a module or submodule statement from the beginning
// of the chain, returning the schema.Module and whether parsing
// reached the end without a fatal error (diagnostics, fatal or not,
// are appended to p.p.Diags / returned as fatal).
func (g *grammar) parseTop() (*schema.Module, *diag.Diagnostic) {
	c := g.p.Chain
	c.Reset()
	c.Advance()
	prefix, name, ok := g.p.ConsumeKeyword()
	if !ok || prefix != "" || (name != "module" && name != "submodule") {
		d := diag.New(diag.Error, diag.ExpectedKeyword, c.Current().Pos, "expected 'module' or 'submodule'")
		return nil, &d
	}
	m := &schema.Module{IsSubmodule: name == "submodule", Pos: c.Current().Pos}
	modName, ok := g.p.ConsumeIDString()
	if !ok {
		g.p.SkipStatement()
		return nil, nil
	}
	m.Name = modName
	g.mod = m
	if c.Current().Kind != token.LBrace {
		d := diag.New(diag.Error, diag.WrongTokenKind, c.Current().Pos, "expected '{' after module name")
		return nil, &d
	}
	c.Advance()

	for {
		k := c.Current().Kind
		if k == token.RBrace {
			c.Advance()
			break
		}
		if k == token.None {
			d := diag.New(diag.Error, diag.EOF, c.Current().Pos, "unexpected end of input parsing module %q", m.Name)
			return m, &d
		}
		g.parseModuleSubstmt(m)
	}
	return m, nil
}

func (g *grammar) order(m *schema.Module, kind schema.StmtKind, index int) {
	if g.pcb.RecordStatementOrder {
		m.StatementOrder = append(m.StatementOrder, schema.StmtOrder{Kind: kind, Index: index})
	}
}

func (g *grammar) parseModuleSubstmt(m *schema.Module) {
	c := g.p.Chain
	prefix, name, ok := g.p.ConsumeKeyword()
	if !ok {
		g.p.SkipStatement()
		return
	}
	if prefix != "" {
		// Vendor extension at module scope: capture verbatim, same as
		// datadef/error-info appinfo.
		ai := &schema.Appinfo{Prefix: prefix, Name: name, Pos: c.Current().Pos}
		if c.Current().IsString() {
			ai.Argument = string(c.Current().Value)
			ai.HasArg = true
			c.Advance()
		}
		g.p.ConsumeTerminator(&ai.Children)
		m.Appinfo = append(m.Appinfo, ai)
		return
	}
	switch name {
	case "namespace":
		v, ok := g.p.ConsumeString()
		if ok {
			m.Namespace = v
			g.p.ConsumeTerminator(nil)
		} else {
			g.p.SkipStatement()
		}
	case "prefix":
		v, ok := g.p.ConsumeIDString()
		if ok {
			m.Prefix = v
			g.p.ConsumeTerminator(nil)
		} else {
			g.p.SkipStatement()
		}
	case "yang-version":
		v, ok := g.p.ConsumeString()
		if ok {
			m.YangVersion = v
			g.p.ConsumeTerminator(nil)
		} else {
			g.p.SkipStatement()
		}
	case "belongs-to":
		v, ok := g.p.ConsumeIDString()
		if !ok {
			g.p.SkipStatement()
			return
		}
		m.BelongsTo = v
		if c.Current().Kind == token.LBrace {
			c.Advance()
			for c.Current().Kind != token.RBrace && c.Current().Kind != token.None {
				p2, n2, ok := g.p.ConsumeKeyword()
				if ok && p2 == "" && n2 == "prefix" {
					pv, _ := g.p.ConsumeIDString()
					m.Prefix = pv
					g.p.ConsumeTerminator(nil)
				} else {
					g.p.SkipStatement()
				}
			}
			c.Advance()
		} else {
			g.p.ConsumeTerminator(nil)
		}
	case "organization":
		g.p.ConsumeStrclause("organization", &m.Organization, nil, nil)
	case "contact":
		g.p.ConsumeStrclause("contact", &m.Contact, nil, nil)
	case "description":
		var seen bool
		g.p.ConsumeDescr(&m.Description, &seen, nil)
	case "reference":
		var seen bool
		g.p.ConsumeStrclause("reference", &m.Reference, &seen, nil)
	case "revision":
		g.parseRevision(m)
	case "import":
		g.parseImport(m)
	case "include":
		g.parseInclude(m)
	case "feature":
		g.parseFeature(m)
	case "identity":
		g.parseIdentity(m)
	case "typedef":
		g.order(m, schema.StmtTypedef, len(m.Typedefs))
		if td := g.parseTypedef(m); td != nil {
			m.Typedefs = append(m.Typedefs, td)
		}
	case "grouping":
		g.order(m, schema.StmtGrouping, len(m.Groupings))
		if gr := g.parseGrouping(m); gr != nil {
			m.Groupings = append(m.Groupings, gr)
		}
	case "extension":
		g.order(m, schema.StmtExtension, len(m.Extensions))
		if ext := g.parseExtension(m); ext != nil {
			m.Extensions = append(m.Extensions, ext)
		}
	case "deviation":
		g.parseDeviation(m)
	case "rpc":
		if r := g.parseRpc(); r != nil {
			m.Rpcs = append(m.Rpcs, r)
		}
	case "notification":
		if n := g.parseNotification(); n != nil {
			m.Notifications = append(m.Notifications, n)
		}
	case "container", "leaf", "leaf-list", "list", "choice", "anyxml",
		"uses", "augment":
		g.order(m, schema.StmtObject, len(m.Datadefs))
		if dd, ok := g.parseDatadef(name); ok {
			m.Datadefs = append(m.Datadefs, dd)
		}
	default:
		g.p.Diags = g.p.Diags.Append(diag.New(diag.Warning, diag.WrongTokenValue, c.Current().Pos, "unrecognised module substatement %q", name))
		g.p.SkipStatement()
	}
}

func (g *grammar) parseRevision(m *schema.Module) {
	date, ok := g.p.ConsumeNowspString()
	if !ok {
		g.p.SkipStatement()
		return
	}
	rev := schema.Revision{Date: date}
	c := g.p.Chain
	if c.Current().Kind == token.LBrace {
		c.Advance()
		for c.Current().Kind != token.RBrace && c.Current().Kind != token.None {
			p2, n2, ok := g.p.ConsumeKeyword()
			if !ok {
				g.p.SkipStatement()
				continue
			}
			switch {
			case p2 == "" && n2 == "description":
				var seen bool
				g.p.ConsumeDescr(&rev.Description, &seen, nil)
			case p2 == "" && n2 == "reference":
				var seen bool
				g.p.ConsumeStrclause("reference", &rev.Reference, &seen, nil)
			default:
				g.p.SkipStatement()
			}
		}
		c.Advance()
	} else {
		g.p.ConsumeTerminator(nil)
	}
	m.Revisions = append(m.Revisions, rev)
}

func (g *grammar) parseImport(m *schema.Module) {
	name, ok := g.p.ConsumeIDString()
	if !ok {
		g.p.SkipStatement()
		return
	}
	imp := &schema.Import{ModuleName: name, Pos: g.p.Chain.Current().Pos}
	c := g.p.Chain
	if c.Current().Kind != token.LBrace {
		g.p.SkipStatement()
		return
	}
	c.Advance()
	for c.Current().Kind != token.RBrace && c.Current().Kind != token.None {
		p2, n2, ok := g.p.ConsumeKeyword()
		if !ok {
			g.p.SkipStatement()
			continue
		}
		switch {
		case p2 == "" && n2 == "prefix":
			v, _ := g.p.ConsumeIDString()
			imp.Prefix = v
			g.p.ConsumeTerminator(nil)
		case p2 == "" && n2 == "revision-date":
			v, _ := g.p.ConsumeNowspString()
			imp.Revision = v
			g.p.ConsumeTerminator(nil)
		default:
			g.p.SkipStatement()
		}
	}
	c.Advance()
	m.Imports = append(m.Imports, imp)
}

func (g *grammar) parseInclude(m *schema.Module) {
	name, ok := g.p.ConsumeIDString()
	if !ok {
		g.p.SkipStatement()
		return
	}
	inc := &schema.Include{SubmoduleName: name, Pos: g.p.Chain.Current().Pos}
	c := g.p.Chain
	if c.Current().Kind == token.LBrace {
		c.Advance()
		for c.Current().Kind != token.RBrace && c.Current().Kind != token.None {
			p2, n2, ok := g.p.ConsumeKeyword()
			if ok && p2 == "" && n2 == "revision-date" {
				v, _ := g.p.ConsumeNowspString()
				inc.Revision = v
				g.p.ConsumeTerminator(nil)
			} else {
				g.p.SkipStatement()
			}
		}
		c.Advance()
	} else {
		g.p.ConsumeTerminator(nil)
	}
	m.Includes = append(m.Includes, inc)
}

func (g *grammar) parseFeature(m *schema.Module) {
	name, ok := g.p.ConsumeIDString()
	if !ok {
		g.p.SkipStatement()
		return
	}
	f := &schema.Feature{Name: name, Status: schema.StatusCurrent}
	c := g.p.Chain
	if c.Current().Kind == token.LBrace {
		c.Advance()
		for c.Current().Kind != token.RBrace && c.Current().Kind != token.None {
			p2, n2, ok := g.p.ConsumeKeyword()
			if !ok {
				g.p.SkipStatement()
				continue
			}
			switch {
			case p2 == "" && n2 == "description":
				var seen bool
				g.p.ConsumeDescr(&f.Description, &seen, nil)
			case p2 == "" && n2 == "reference":
				var seen bool
				g.p.ConsumeStrclause("reference", &f.Reference, &seen, nil)
			case p2 == "" && n2 == "status":
				s, ok := g.p.ConsumeStatus()
				if ok {
					f.Status = s
				}
				g.p.ConsumeTerminator(nil)
			case p2 == "" && n2 == "if-feature":
				v, _ := g.p.ConsumeString()
				f.IfFeatures = append(f.IfFeatures, v)
				g.p.ConsumeTerminator(nil)
			default:
				g.p.SkipStatement()
			}
		}
		c.Advance()
	} else {
		g.p.ConsumeTerminator(nil)
	}
	m.Features = append(m.Features, f)
}

func (g *grammar) parseIdentity(m *schema.Module) {
	name, ok := g.p.ConsumeIDString()
	if !ok {
		g.p.SkipStatement()
		return
	}
	c := g.p.Chain
	id := &schema.Identity{Name: name, Module: m, Pos: c.Current().Pos}
	if c.Current().Kind == token.LBrace {
		c.Advance()
		for c.Current().Kind != token.RBrace && c.Current().Kind != token.None {
			p2, n2, ok := g.p.ConsumeKeyword()
			if !ok {
				g.p.SkipStatement()
				continue
			}
			switch {
			case p2 == "" && n2 == "base":
				v, _ := g.p.ConsumeString()
				id.BaseNames = append(id.BaseNames, v)
				g.p.ConsumeTerminator(nil)
			case p2 == "" && n2 == "description":
				var seen bool
				g.p.ConsumeDescr(&id.Description, &seen, nil)
			case p2 == "" && n2 == "reference":
				var seen bool
				g.p.ConsumeStrclause("reference", &id.Reference, &seen, nil)
			default:
				g.p.SkipStatement()
			}
		}
		c.Advance()
	} else {
		g.p.ConsumeTerminator(nil)
	}
	m.Identities = append(m.Identities, id)
}

func (g *grammar) parseDeviation(m *schema.Module) {
	path, ok := g.p.ConsumeString()
	if !ok {
		g.p.SkipStatement()
		return
	}
	dev := &schema.Deviation{TargetPath: path, Pos: g.p.Chain.Current().Pos}
	c := g.p.Chain
	if c.Current().Kind == token.LBrace {
		c.Advance()
		depth := 1
		for depth > 0 {
			switch c.Current().Kind {
			case token.LBrace:
				depth++
			case token.RBrace:
				depth--
			case token.None:
				depth = 0
				continue
			case token.PrefixedIdentifier, token.TokenString, token.UnquotedString:
				if depth == 1 && string(c.Current().Value) == "deviate" {
					c.Advance()
					if c.Current().IsString() {
						dev.Kind = string(c.Current().Value)
					}
				}
			}
			c.Advance()
		}
	} else {
		g.p.ConsumeTerminator(nil)
	}
	m.Deviations = append(m.Deviations, dev)
}

// parseTypedef parses a typedef statement into *schema.Typedef.
func (g *grammar) parseTypedef(m *schema.Module) *schema.Typedef {
	name, ok := g.p.ConsumeIDString()
	if !ok {
		g.p.SkipStatement()
		return nil
	}
	td := &schema.Typedef{Name: name, Module: m, Status: schema.StatusCurrent, Pos: g.p.Chain.Current().Pos}
	c := g.p.Chain
	if c.Current().Kind != token.LBrace {
		g.p.SkipStatement()
		return td
	}
	c.Advance()
	var seenDescr, seenRef bool
	for c.Current().Kind != token.RBrace && c.Current().Kind != token.None {
		p2, n2, ok := g.p.ConsumeKeyword()
		if !ok {
			g.p.SkipStatement()
			continue
		}
		switch {
		case p2 == "" && n2 == "type":
			td.Type = g.parseType()
		case p2 == "" && n2 == "default":
			v, _ := g.p.ConsumeString()
			td.Default = v
			g.p.ConsumeTerminator(nil)
		case p2 == "" && n2 == "units":
			v, _ := g.p.ConsumeString()
			td.Units = v
			g.p.ConsumeTerminator(nil)
		case p2 == "" && n2 == "description":
			g.p.ConsumeDescr(&td.Description, &seenDescr, nil)
		case p2 == "" && n2 == "reference":
			g.p.ConsumeStrclause("reference", &td.Reference, &seenRef, nil)
		case p2 == "" && n2 == "status":
			s, ok := g.p.ConsumeStatus()
			if ok {
				td.Status = s
			}
			g.p.ConsumeTerminator(nil)
		default:
			g.p.SkipStatement()
		}
	}
	c.Advance()
	return td
}

// parseType parses a type substatement's full restriction tree.
func (g *grammar) parseType() *schema.TypeSpec {
	prefix, name, ok := g.p.ConsumeKeyword()
	c := g.p.Chain
	if !ok {
		g.p.SkipStatement()
		return nil
	}
	ts := &schema.TypeSpec{Name: name}
	if prefix != "" {
		ts.Name = prefix + ":" + name
	}
	if c.Current().Kind == token.Semi {
		c.Advance()
		return ts
	}
	if c.Current().Kind != token.LBrace {
		g.p.SkipStatement()
		return ts
	}
	c.Advance()
	for c.Current().Kind != token.RBrace && c.Current().Kind != token.None {
		p2, n2, ok := g.p.ConsumeKeyword()
		if !ok {
			g.p.SkipStatement()
			continue
		}
		switch {
		case p2 == "" && n2 == "range":
			ts.Range = g.parseRestriction()
		case p2 == "" && n2 == "length":
			ts.Length = g.parseRestriction()
		case p2 == "" && n2 == "pattern":
			ts.Patterns = append(ts.Patterns, g.parseRestriction())
		case p2 == "" && n2 == "path":
			v, _ := g.p.ConsumeString()
			ts.Base = v
			g.p.ConsumeTerminator(nil)
		case p2 == "" && n2 == "base":
			v, _ := g.p.ConsumeString()
			ts.Base = v
			g.p.ConsumeTerminator(nil)
		case p2 == "" && n2 == "type":
			ts.UnionMembers = append(ts.UnionMembers, g.parseType())
		case p2 == "" && n2 == "enum":
			ts.EnumValues = append(ts.EnumValues, g.parseEnum())
		case p2 == "" && n2 == "bit":
			ts.Bits = append(ts.Bits, g.parseBit())
		default:
			g.p.SkipStatement()
		}
	}
	c.Advance()
	return ts
}

func (g *grammar) parseRestriction() *schema.ErrorInfo {
	v, ok := g.p.ConsumeString()
	if !ok {
		g.p.SkipStatement()
		return nil
	}
	ei := &schema.ErrorInfo{XPath: v}
	c := g.p.Chain
	if c.Current().Kind == token.LBrace {
		g.p.ConsumeErrorStmts(ei, nil)
	} else {
		g.p.ConsumeTerminator(nil)
	}
	return ei
}

func (g *grammar) parseEnum() schema.EnumValue {
	name, _ := g.p.ConsumeString()
	ev := schema.EnumValue{Name: name, Status: schema.StatusCurrent}
	c := g.p.Chain
	if c.Current().Kind == token.LBrace {
		c.Advance()
		for c.Current().Kind != token.RBrace && c.Current().Kind != token.None {
			p2, n2, ok := g.p.ConsumeKeyword()
			if !ok {
				g.p.SkipStatement()
				continue
			}
			switch {
			case p2 == "" && n2 == "value":
				n, ok := g.p.ConsumeInt32(nil)
				if ok {
					ev.Value = n
					ev.HasValue = true
				}
			case p2 == "" && n2 == "description":
				var seen bool
				g.p.ConsumeDescr(&ev.Description, &seen, nil)
			case p2 == "" && n2 == "status":
				s, ok := g.p.ConsumeStatus()
				if ok {
					ev.Status = s
				}
				g.p.ConsumeTerminator(nil)
			default:
				g.p.SkipStatement()
			}
		}
		c.Advance()
	} else {
		g.p.ConsumeTerminator(nil)
	}
	return ev
}

func (g *grammar) parseBit() schema.BitValue {
	name, _ := g.p.ConsumeString()
	bv := schema.BitValue{Name: name}
	c := g.p.Chain
	if c.Current().Kind == token.LBrace {
		c.Advance()
		for c.Current().Kind != token.RBrace && c.Current().Kind != token.None {
			p2, n2, ok := g.p.ConsumeKeyword()
			if ok && p2 == "" && n2 == "position" {
				n, ok := g.p.ConsumeUint32(nil)
				if ok {
					bv.Position = n
					bv.HasPosition = true
				}
			} else {
				g.p.SkipStatement()
			}
		}
		c.Advance()
	} else {
		g.p.ConsumeTerminator(nil)
	}
	return bv
}

func (g *grammar) parseGrouping(m *schema.Module) *schema.Grouping {
	name, ok := g.p.ConsumeIDString()
	if !ok {
		g.p.SkipStatement()
		return nil
	}
	gr := &schema.Grouping{Name: name, Module: m, Status: schema.StatusCurrent, Pos: g.p.Chain.Current().Pos}
	c := g.p.Chain
	if c.Current().Kind != token.LBrace {
		g.p.SkipStatement()
		return gr
	}
	c.Advance()
	var seenDescr, seenRef bool
	for c.Current().Kind != token.RBrace && c.Current().Kind != token.None {
		p2, n2, ok := g.p.ConsumeKeyword()
		if !ok {
			g.p.SkipStatement()
			continue
		}
		switch {
		case p2 == "" && n2 == "description":
			g.p.ConsumeDescr(&gr.Description, &seenDescr, nil)
		case p2 == "" && n2 == "reference":
			g.p.ConsumeStrclause("reference", &gr.Reference, &seenRef, nil)
		case p2 == "" && n2 == "status":
			s, ok := g.p.ConsumeStatus()
			if ok {
				gr.Status = s
			}
			g.p.ConsumeTerminator(nil)
		case p2 == "" && n2 == "typedef":
			if td := g.parseTypedef(m); td != nil {
				gr.Typedefs = append(gr.Typedefs, td)
			}
		case p2 == "" && n2 == "grouping":
			if g2 := g.parseGrouping(m); g2 != nil {
				gr.Groupings = append(gr.Groupings, g2)
			}
		case p2 == "" && (n2 == "container" || n2 == "leaf" || n2 == "leaf-list" ||
			n2 == "list" || n2 == "choice" || n2 == "anyxml" || n2 == "uses"):
			if dd, ok := g.parseDatadef(n2); ok {
				gr.Children = append(gr.Children, dd)
			}
		default:
			g.p.SkipStatement()
		}
	}
	c.Advance()
	return gr
}

func (g *grammar) parseExtension(m *schema.Module) *schema.Extension {
	name, ok := g.p.ConsumeIDString()
	if !ok {
		g.p.SkipStatement()
		return nil
	}
	ext := &schema.Extension{Name: name, Module: m, Status: schema.StatusCurrent, Pos: g.p.Chain.Current().Pos}
	c := g.p.Chain
	if c.Current().Kind != token.LBrace {
		g.p.ConsumeTerminator(nil)
		return ext
	}
	c.Advance()
	var seenDescr, seenRef bool
	for c.Current().Kind != token.RBrace && c.Current().Kind != token.None {
		p2, n2, ok := g.p.ConsumeKeyword()
		if !ok {
			g.p.SkipStatement()
			continue
		}
		switch {
		case p2 == "" && n2 == "argument":
			v, _ := g.p.ConsumeIDString()
			ext.ArgumentName = v
			ext.HasArgument = true
			if c.Current().Kind == token.LBrace {
				c.Advance()
				for c.Current().Kind != token.RBrace && c.Current().Kind != token.None {
					p3, n3, ok := g.p.ConsumeKeyword()
					if ok && p3 == "" && n3 == "yin-element" {
						b, _ := g.p.ConsumeBoolean(nil)
						ext.YinElement = b
					} else {
						g.p.SkipStatement()
					}
				}
				c.Advance()
			} else {
				g.p.ConsumeTerminator(nil)
			}
		case p2 == "" && n2 == "description":
			g.p.ConsumeDescr(&ext.Description, &seenDescr, nil)
		case p2 == "" && n2 == "reference":
			g.p.ConsumeStrclause("reference", &ext.Reference, &seenRef, nil)
		case p2 == "" && n2 == "status":
			s, ok := g.p.ConsumeStatus()
			if ok {
				ext.Status = s
			}
			g.p.ConsumeTerminator(nil)
		default:
			g.p.SkipStatement()
		}
	}
	c.Advance()
	return ext
}

// parseDatadef parses one object-tree node of the given keyword into
// a schema.Datadef (spec §2 "object (container/leaf/list/choice/
// etc.)").
func (g *grammar) parseDatadef(keyword string) (schema.Datadef, bool) {
	c := g.p.Chain
	dd := schema.Datadef{Status: schema.StatusCurrent, Pos: c.Current().Pos}
	switch keyword {
	case "container":
		dd.Kind = schema.Container
	case "leaf":
		dd.Kind = schema.Leaf
	case "leaf-list":
		dd.Kind = schema.LeafList
	case "list":
		dd.Kind = schema.List
	case "choice":
		dd.Kind = schema.Choice
	case "case":
		dd.Kind = schema.Case
	case "anyxml":
		dd.Kind = schema.Anyxml
	case "uses":
		dd.Kind = schema.Uses
	case "augment":
		dd.Kind = schema.AugmentNode
	}

	if dd.Kind == schema.Uses {
		prefix, name, ok := g.p.ConsumePIDString()
		if !ok {
			g.p.SkipStatement()
			return dd, false
		}
		dd.Grouping = name
		if prefix != "" {
			dd.Grouping = prefix + ":" + name
		}
		dd.Name = name
	} else if dd.Kind == schema.AugmentNode {
		v, ok := g.p.ConsumeString()
		if !ok {
			g.p.SkipStatement()
			return dd, false
		}
		dd.TargetPath = v
		dd.Name = v
	} else {
		name, ok := g.p.ConsumeIDString()
		if !ok {
			g.p.SkipStatement()
			return dd, false
		}
		dd.Name = name
	}

	if c.Current().Kind != token.LBrace {
		if !g.p.ConsumeTerminator(&dd.Appinfo) {
			return dd, false
		}
		return dd, true
	}
	c.Advance()
	var seenDescr, seenRef bool
	for c.Current().Kind != token.RBrace && c.Current().Kind != token.None {
		p2, n2, ok := g.p.ConsumeKeyword()
		if !ok {
			g.p.SkipStatement()
			continue
		}
		switch {
		case p2 == "" && n2 == "type" && (dd.Kind == schema.Leaf || dd.Kind == schema.LeafList):
			dd.Type = g.parseType()
		case p2 == "" && n2 == "config":
			b, ok := g.p.ConsumeBoolean(nil)
			if ok {
				dd.Config = &b
			}
		case p2 == "" && n2 == "mandatory":
			b, _ := g.p.ConsumeBoolean(nil)
			dd.Mandatory = b
		case p2 == "" && n2 == "presence":
			v, _ := g.p.ConsumeString()
			dd.Presence = v
			g.p.ConsumeTerminator(nil)
		case p2 == "" && n2 == "default":
			v, _ := g.p.ConsumeString()
			dd.Default = v
			g.p.ConsumeTerminator(nil)
		case p2 == "" && n2 == "key":
			v, _ := g.p.ConsumeString()
			dd.Key = splitWhitespace(v)
			g.p.ConsumeTerminator(nil)
		case p2 == "" && n2 == "unique":
			v, _ := g.p.ConsumeString()
			dd.Unique = append(dd.Unique, splitWhitespace(v))
			g.p.ConsumeTerminator(nil)
		case p2 == "" && n2 == "min-elements":
			n, ok := g.p.ConsumeUint32(nil)
			if ok {
				dd.MinElements = n
			}
		case p2 == "" && n2 == "max-elements":
			if c.Current().IsString() && string(c.Current().Value) == "unbounded" {
				c.Advance()
				dd.Unbounded = true
				g.p.ConsumeTerminator(nil)
			} else {
				n, ok := g.p.ConsumeUint32(nil)
				if ok {
					dd.MaxElements = n
				}
			}
		case p2 == "" && n2 == "description":
			g.p.ConsumeDescr(&dd.Description, &seenDescr, nil)
		case p2 == "" && n2 == "reference":
			g.p.ConsumeStrclause("reference", &dd.Reference, &seenRef, nil)
		case p2 == "" && n2 == "status":
			s, ok := g.p.ConsumeStatus()
			if ok {
				dd.Status = s
			}
			g.p.ConsumeTerminator(nil)
		case p2 == "" && n2 == "if-feature":
			v, _ := g.p.ConsumeString()
			dd.IfFeatures = append(dd.IfFeatures, v)
			g.p.ConsumeTerminator(nil)
		case p2 == "" && n2 == "must":
			g.p.ConsumeMust(&dd.Must, &dd.Appinfo)
		case p2 == "" && n2 == "when":
			dd.When = g.parseRestriction()
		case p2 == "" && n2 == "refine":
			v, _ := g.p.ConsumeString()
			_ = v
			if c.Current().Kind == token.LBrace {
				skipBlock(c)
			} else {
				g.p.ConsumeTerminator(nil)
			}
		case p2 == "" && n2 == "augment" && dd.Kind == schema.Uses:
			if sub, ok := g.parseDatadef("augment"); ok {
				dd.Children = append(dd.Children, sub)
			}
		case p2 == "" && (n2 == "container" || n2 == "leaf" || n2 == "leaf-list" ||
			n2 == "list" || n2 == "choice" || n2 == "case" || n2 == "anyxml" || n2 == "uses"):
			if sub, ok := g.parseDatadef(n2); ok {
				dd.Children = append(dd.Children, sub)
			}
		case p2 == "" && n2 == "typedef":
			// typedef nested in container/list: tracked on the module for
			// simplicity of this core's scope; downstream consumers resolve
			// it via the enclosing module's Typedefs slice.
			if g.mod != nil {
				if td := g.parseTypedef(g.mod); td != nil {
					g.mod.Typedefs = append(g.mod.Typedefs, td)
				}
			} else {
				g.p.SkipStatement()
			}
		case p2 == "" && n2 == "grouping":
			if g.mod != nil {
				if gr := g.parseGrouping(g.mod); gr != nil {
					g.mod.Groupings = append(g.mod.Groupings, gr)
				}
			} else {
				g.p.SkipStatement()
			}
		default:
			g.p.SkipStatement()
		}
	}
	c.Advance()
	return dd, true
}

func (g *grammar) parseRpc() *schema.Rpc {
	name, ok := g.p.ConsumeIDString()
	if !ok {
		g.p.SkipStatement()
		return nil
	}
	r := &schema.Rpc{Name: name, Status: schema.StatusCurrent, Pos: g.p.Chain.Current().Pos}
	c := g.p.Chain
	if c.Current().Kind != token.LBrace {
		g.p.ConsumeTerminator(nil)
		return r
	}
	c.Advance()
	var seenDescr, seenRef bool
	for c.Current().Kind != token.RBrace && c.Current().Kind != token.None {
		p2, n2, ok := g.p.ConsumeKeyword()
		if !ok {
			g.p.SkipStatement()
			continue
		}
		switch {
		case p2 == "" && n2 == "description":
			g.p.ConsumeDescr(&r.Description, &seenDescr, nil)
		case p2 == "" && n2 == "reference":
			g.p.ConsumeStrclause("reference", &r.Reference, &seenRef, nil)
		case p2 == "" && n2 == "status":
			s, ok := g.p.ConsumeStatus()
			if ok {
				r.Status = s
			}
			g.p.ConsumeTerminator(nil)
		case p2 == "" && n2 == "typedef":
			if g.mod != nil {
				if td := g.parseTypedef(g.mod); td != nil {
					r.Typedefs = append(r.Typedefs, td)
				}
			}
		case p2 == "" && n2 == "grouping":
			if g.mod != nil {
				if gr := g.parseGrouping(g.mod); gr != nil {
					r.Groupings = append(r.Groupings, gr)
				}
			}
		case p2 == "" && (n2 == "input" || n2 == "output"):
			children := g.parseInputOutput()
			if n2 == "input" {
				r.Input = children
			} else {
				r.Output = children
			}
		default:
			g.p.SkipStatement()
		}
	}
	c.Advance()
	return r
}

func (g *grammar) parseInputOutput() []schema.Datadef {
	c := g.p.Chain
	var out []schema.Datadef
	if c.Current().Kind != token.LBrace {
		g.p.SkipStatement()
		return out
	}
	c.Advance()
	for c.Current().Kind != token.RBrace && c.Current().Kind != token.None {
		p2, n2, ok := g.p.ConsumeKeyword()
		if !ok {
			g.p.SkipStatement()
			continue
		}
		if p2 == "" && (n2 == "container" || n2 == "leaf" || n2 == "leaf-list" ||
			n2 == "list" || n2 == "choice" || n2 == "anyxml" || n2 == "uses") {
			if dd, ok := g.parseDatadef(n2); ok {
				out = append(out, dd)
			}
		} else {
			g.p.SkipStatement()
		}
	}
	c.Advance()
	return out
}

func (g *grammar) parseNotification() *schema.Notification {
	name, ok := g.p.ConsumeIDString()
	if !ok {
		g.p.SkipStatement()
		return nil
	}
	n := &schema.Notification{Name: name, Status: schema.StatusCurrent, Pos: g.p.Chain.Current().Pos}
	c := g.p.Chain
	if c.Current().Kind != token.LBrace {
		g.p.ConsumeTerminator(nil)
		return n
	}
	c.Advance()
	var seenDescr, seenRef bool
	for c.Current().Kind != token.RBrace && c.Current().Kind != token.None {
		p2, n2, ok := g.p.ConsumeKeyword()
		if !ok {
			g.p.SkipStatement()
			continue
		}
		switch {
		case p2 == "" && n2 == "description":
			g.p.ConsumeDescr(&n.Description, &seenDescr, nil)
		case p2 == "" && n2 == "reference":
			g.p.ConsumeStrclause("reference", &n.Reference, &seenRef, nil)
		case p2 == "" && n2 == "status":
			s, ok := g.p.ConsumeStatus()
			if ok {
				n.Status = s
			}
			g.p.ConsumeTerminator(nil)
		case p2 == "" && n2 == "typedef":
			if g.mod != nil {
				if td := g.parseTypedef(g.mod); td != nil {
					n.Typedefs = append(n.Typedefs, td)
				}
			}
		case p2 == "" && n2 == "grouping":
			if g.mod != nil {
				if gr := g.parseGrouping(g.mod); gr != nil {
					n.Groupings = append(n.Groupings, gr)
				}
			}
		case p2 == "" && (n2 == "container" || n2 == "leaf" || n2 == "leaf-list" ||
			n2 == "list" || n2 == "choice" || n2 == "anyxml" || n2 == "uses"):
			if dd, ok := g.parseDatadef(n2); ok {
				n.Children = append(n.Children, dd)
			}
		default:
			g.p.SkipStatement()
		}
	}
	c.Advance()
	return n
}

func splitWhitespace(s string) []string {
	var out []string
	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' || s[i] == '\t' {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

func skipBlock(c *lexer.Chain) {
	c.Advance() // consume '{'
	depth := 1
	for depth > 0 {
		switch c.Current().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		case token.None:
			return
		}
		c.Advance()
	}
}
