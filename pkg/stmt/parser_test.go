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

package stmt

import (
	"testing"

	"github.com/openconfig/yangcore/pkg/diag"
	"github.com/openconfig/yangcore/pkg/lexer"
	"github.com/openconfig/yangcore/pkg/schema"
	"github.com/openconfig/yangcore/pkg/token"
)

func newParser(t *testing.T, src string) *Parser {
	t.Helper()
	c := lexer.New(token.Module)
	c.AttachBuffer([]byte(src))
	if d := c.Tokenise(); d != nil {
		t.Fatalf("Tokenise(%q): %v", src, d)
	}
	c.Advance()
	return New(c)
}

func TestConsumeKeywordRejectsQuotedString(t *testing.T) {
	p := newParser(t, `"not a keyword"`)
	_, _, ok := p.ConsumeKeyword()
	if ok {
		t.Fatal("ConsumeKeyword() succeeded on a quoted string, want failure")
	}
	if len(p.Diags) != 1 || p.Diags[0].Code != diag.ExpectedKeyword {
		t.Errorf("Diags = %v, want a single expected-keyword diagnostic", p.Diags)
	}
}

func TestConsumeKeywordPrefixed(t *testing.T) {
	p := newParser(t, `oc-if:foo`)
	prefix, name, ok := p.ConsumeKeyword()
	if !ok || prefix != "oc-if" || name != "foo" {
		t.Errorf("ConsumeKeyword() = %q, %q, %v, want oc-if, foo, true", prefix, name, ok)
	}
}

func TestConsumeIDStringRejectsPrefix(t *testing.T) {
	p := newParser(t, `oc-if:foo`)
	_, ok := p.ConsumeIDString()
	if ok {
		t.Fatal("ConsumeIDString() succeeded on a prefixed token, want failure")
	}
}

func TestConsumeBoolean(t *testing.T) {
	p := newParser(t, `true;`)
	b, ok := p.ConsumeBoolean(nil)
	if !ok || !b {
		t.Errorf("ConsumeBoolean() = %v, %v, want true, true", b, ok)
	}

	p2 := newParser(t, `maybe;`)
	if _, ok := p2.ConsumeBoolean(nil); ok {
		t.Error("ConsumeBoolean() succeeded on an invalid value, want failure")
	}
}

func TestConsumeUint32(t *testing.T) {
	p := newParser(t, `42;`)
	n, ok := p.ConsumeUint32(nil)
	if !ok || n != 42 {
		t.Errorf("ConsumeUint32() = %d, %v, want 42, true", n, ok)
	}
}

func TestConsumeTerminatorSemicolon(t *testing.T) {
	p := newParser(t, `;`)
	if !p.ConsumeTerminator(nil) {
		t.Fatalf("ConsumeTerminator() failed: %v", p.Diags)
	}
}

func TestConsumeTerminatorBraceWithAppinfo(t *testing.T) {
	p := newParser(t, `{ oc-ext:flag "on"; }`)
	var appinfo []*schema.Appinfo
	if !p.ConsumeTerminator(&appinfo) {
		t.Fatalf("ConsumeTerminator() failed: %v", p.Diags)
	}
	if len(appinfo) != 1 || appinfo[0].Name != "flag" || appinfo[0].Argument != "on" {
		t.Errorf("appinfo = %+v, want one entry named flag with argument on", appinfo)
	}
}

func TestDuplicateDescriptionWarns(t *testing.T) {
	p := newParser(t, `"first"; "second";`)
	var dst string
	var seen bool
	if !p.ConsumeDescr(&dst, &seen, nil) {
		t.Fatalf("first ConsumeDescr failed: %v", p.Diags)
	}
	if !p.ConsumeDescr(&dst, &seen, nil) {
		t.Fatalf("second ConsumeDescr failed: %v", p.Diags)
	}
	if dst != "first" {
		t.Errorf("dst = %q, want %q (duplicate ignored)", dst, "first")
	}
	found := false
	for _, d := range p.Diags {
		if d.Code == diag.DuplicateEntry {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a duplicate-entry warning, got: %s", p.Diags.String())
	}
}
