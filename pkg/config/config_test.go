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

package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a:b:c", []string{"a", "b", "c"}},
		{"a::b", []string{"a", "b"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, SplitPath(tt.in)); diff != "" {
			t.Errorf("SplitPath(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestLoadOverridesSearchPathFromFlag(t *testing.T) {
	v := viper.New()
	v.Set("path", "/a:/b")
	v.Set("record_statement_order", true)

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff([]string{"/a", "/b"}, cfg.SearchPath); diff != "" {
		t.Errorf("SearchPath mismatch (-want +got):\n%s", diff)
	}
	if !cfg.RecordStatementOrder {
		t.Errorf("RecordStatementOrder = false, want true")
	}
}
