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
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openconfig/yangcore/pkg/config"
	"github.com/openconfig/yangcore/pkg/diag"
	"github.com/openconfig/yangcore/pkg/registry"
	"github.com/openconfig/yangcore/pkg/resolver"
	"github.com/openconfig/yangcore/pkg/schema"
)

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <moduleA>[@revision] <moduleB>[@revision]",
		Short: "Diff two loaded module trees",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			fs := afero.NewOsFs()

			load := func(arg string) (*schema.Module, error) {
				reg := registry.New()
				r := resolver.New(fs, cfg.SearchPath, reg)
				r.RecordStatementOrder = cfg.RecordStatementOrder
				r.DiffMode = true
				r.SaveDescriptions = cfg.SaveDescriptions
				r.IncludeSubmods = cfg.IncludeSubmods
				name, revision := splitModuleArg(arg)
				m, diags, err := r.Load(name, revision, nil)
				for _, d := range diags {
					fmt.Fprintln(cmd.ErrOrStderr(), d.String())
				}
				return m, err
			}

			a, err := load(args[0])
			if err != nil {
				return fmt.Errorf("loading %s: %w", args[0], err)
			}
			b, err := load(args[1])
			if err != nil {
				return fmt.Errorf("loading %s: %w", args[1], err)
			}

			// schema.Diff gives a semantic summary of what changed;
			// the unified diff below lets a reviewer see it in context
			// against the full resolved tree of each module.
			fmt.Fprintln(cmd.OutOrStdout(), schema.Diff(a, b))

			unified := difflib.UnifiedDiff{
				A:        difflib.SplitLines(diag.DumpTree(a)),
				B:        difflib.SplitLines(diag.DumpTree(b)),
				FromFile: args[0],
				ToFile:   args[1],
				Context:  3,
			}
			text, err := difflib.GetUnifiedDiffString(unified)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
	return cmd
}
