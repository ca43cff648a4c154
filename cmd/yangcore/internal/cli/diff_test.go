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
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestDiffCmdReportsChangedPrefix(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "foo.yang", `
module foo {
  namespace "urn:foo";
  prefix f;
  revision 2024-01-01;
}
`)
	writeModule(t, dir, "foo2.yang", `
module foo2 {
  namespace "urn:foo";
  prefix g;
  revision 2024-01-01;
}
`)

	viper.Reset()
	root := RootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"diff", "foo", "foo2", "--path", dir})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute(): %v (stderr: %s)", err, errOut.String())
	}
	got := out.String()
	if !strings.Contains(got, "f") || !strings.Contains(got, "g") {
		t.Errorf("output = %q, want it to mention both prefix values", got)
	}
	if !strings.Contains(got, "---") && !strings.Contains(got, "+++") {
		t.Errorf("output = %q, want a unified-diff header", got)
	}
}

func TestDiffCmdErrorsOnMissingModule(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "foo.yang", `
module foo {
  namespace "urn:foo";
  prefix f;
  revision 2024-01-01;
}
`)

	viper.Reset()
	root := RootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"diff", "foo", "nope", "--path", dir})

	if err := root.Execute(); err == nil {
		t.Fatal("Execute() succeeded diffing against a nonexistent module, want error")
	}
}
