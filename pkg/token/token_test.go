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

package token

import "testing"

func TestKindActiveIn(t *testing.T) {
	tests := []struct {
		k    Kind
		sub  Sublang
		want bool
	}{
		{Semi, Module, true},
		{Semi, XPath, false},
		{LParen, XPath, true},
		{LParen, Module, false},
		{Newline, Config, true},
		{Newline, Module, false},
	}
	for _, tt := range tests {
		if got := tt.k.ActiveIn(tt.sub); got != tt.want {
			t.Errorf("%v.ActiveIn(%v) = %v, want %v", tt.k, tt.sub, got, tt.want)
		}
	}
}

func TestPositionString(t *testing.T) {
	p := Position{File: "foo.yang", Line: 3, Column: 7}
	if got, want := p.String(), "foo.yang:3.7"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	p2 := Position{Line: 1, Column: 1}
	if got, want := p2.String(), "<buffer>:1.1"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestQName(t *testing.T) {
	tok := Token{Kind: PrefixedIdentifier, Value: []byte("bar"), Prefix: []byte("foo")}
	if got, want := tok.QName(), "foo:bar"; got != want {
		t.Errorf("QName() = %q, want %q", got, want)
	}
	bare := Token{Kind: TokenString, Value: []byte("bar")}
	if got, want := bare.QName(), "bar"; got != want {
		t.Errorf("QName() = %q, want %q", got, want)
	}
}

func TestLookupTables(t *testing.T) {
	if k, ok := LookupOneChar('{'); !ok || k != LBrace {
		t.Errorf("LookupOneChar('{') = %v, %v, want LBrace, true", k, ok)
	}
	if k, ok := LookupTwoChar(".."); !ok || k != RangeSep {
		t.Errorf(`LookupTwoChar("..") = %v, %v, want RangeSep, true`, k, ok)
	}
	if _, ok := LookupOneChar('q'); ok {
		t.Errorf("LookupOneChar('q') unexpectedly found")
	}
}

func TestIsStringAndIsQuoted(t *testing.T) {
	dq := Token{Kind: DoubleQuoted}
	if !dq.IsString() || !dq.IsQuoted() {
		t.Errorf("DoubleQuoted token should be both a string and quoted")
	}
	us := Token{Kind: UnquotedString}
	if !us.IsString() || us.IsQuoted() {
		t.Errorf("UnquotedString token should be a string but not quoted")
	}
	br := Token{Kind: LBrace}
	if br.IsString() {
		t.Errorf("LBrace should not be a string")
	}
}
