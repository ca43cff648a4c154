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
	"testing"

	"github.com/spf13/viper"
)

func TestRootCmdRegistersSubcommands(t *testing.T) {
	viper.Reset()
	root := RootCmd()

	want := map[string]bool{"load": false, "list": false, "diff": false}
	for _, c := range root.Commands() {
		name := c.Name()
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("RootCmd() is missing subcommand %q", name)
		}
	}
}

func TestRootCmdHasPathAndConfigFlags(t *testing.T) {
	viper.Reset()
	root := RootCmd()

	if f := root.PersistentFlags().Lookup("path"); f == nil {
		t.Error(`RootCmd() has no persistent "path" flag`)
	} else if f.Shorthand != "p" {
		t.Errorf(`"path" flag shorthand = %q, want "p"`, f.Shorthand)
	}
	if f := root.PersistentFlags().Lookup("config_file"); f == nil {
		t.Error(`RootCmd() has no persistent "config_file" flag`)
	}
}
