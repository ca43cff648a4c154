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

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestModuleNameFromFile(t *testing.T) {
	tests := []struct {
		fn   string
		want string
	}{
		{"foo.yang", "foo"},
		{"foo@2024-01-01.yang", "foo"},
	}
	for _, tt := range tests {
		if got := moduleNameFromFile(tt.fn); got != tt.want {
			t.Errorf("moduleNameFromFile(%q) = %q, want %q", tt.fn, got, tt.want)
		}
	}
}

func writeModule(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestListCmdListsModules(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "foo.yang", `
module foo {
  namespace "urn:foo";
  prefix f;
  revision 2024-01-01;
}
`)
	writeModule(t, dir, "bar.yang", `
module bar {
  namespace "urn:bar";
  prefix b;
  revision 2023-05-05;
}
`)

	viper.Reset()
	root := RootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"list", "--path", dir})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute(): %v (stderr: %s)", err, errOut.String())
	}
	got := out.String()
	if !strings.Contains(got, "foo@2024-01-01") || !strings.Contains(got, "bar@2023-05-05") {
		t.Errorf("output = %q, want both foo@2024-01-01 and bar@2023-05-05", got)
	}
}

func TestListCmdPrefixFilter(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "foo.yang", `
module foo {
  namespace "urn:foo";
  prefix f;
  revision 2024-01-01;
}
`)
	writeModule(t, dir, "bar.yang", `
module bar {
  namespace "urn:bar";
  prefix b;
  revision 2023-05-05;
}
`)

	viper.Reset()
	root := RootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"list", "--path", dir, "--prefix", "fo"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute(): %v (stderr: %s)", err, errOut.String())
	}
	got := out.String()
	if !strings.Contains(got, "foo@2024-01-01") {
		t.Errorf("output = %q, want foo@2024-01-01", got)
	}
	if strings.Contains(got, "bar@") {
		t.Errorf("output = %q, want bar filtered out by --prefix fo", got)
	}
}
