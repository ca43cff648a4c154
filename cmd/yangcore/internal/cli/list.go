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
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openconfig/yangcore/pkg/config"
	"github.com/openconfig/yangcore/pkg/registry"
	"github.com/openconfig/yangcore/pkg/resolver"
)

// moduleNameFromFile strips the ".yang" suffix and an optional
// "@revision" tag from a file name found on the search path, the
// inverse of the resolver's own locate naming convention (spec §6).
func moduleNameFromFile(fn string) string {
	fn = strings.TrimSuffix(fn, filepath.Ext(fn))
	if i := strings.IndexByte(fn, '@'); i >= 0 {
		fn = fn[:i]
	}
	return fn
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the YANG modules available on the search path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			fs := afero.NewOsFs()
			reg := registry.New()
			r := resolver.New(fs, cfg.SearchPath, reg)
			r.RecordStatementOrder = cfg.RecordStatementOrder
			r.SaveDescriptions = cfg.SaveDescriptions
			r.IncludeSubmods = cfg.IncludeSubmods

			seen := map[string]bool{}
			for _, dir := range cfg.SearchPath {
				entries, err := afero.ReadDir(fs, dir)
				if err != nil {
					continue
				}
				for _, e := range entries {
					if e.IsDir() || filepath.Ext(e.Name()) != ".yang" {
						continue
					}
					name := moduleNameFromFile(e.Name())
					if seen[name] {
						continue
					}
					seen[name] = true
					if _, diags, err := r.Load(name, "", nil); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", name, err)
						for _, d := range diags {
							fmt.Fprintln(cmd.ErrOrStderr(), d.String())
						}
					}
				}
			}

			prefix, _ := cmd.Flags().GetString("prefix")
			if prefix == "" {
				for _, m := range reg.AllModules() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s@%s\n", m.Name, m.LatestRevision())
				}
				return nil
			}
			for _, name := range reg.NamesWithPrefix(prefix) {
				m := reg.FindModule(name, "")
				fmt.Fprintf(cmd.OutOrStdout(), "%s@%s\n", m.Name, m.LatestRevision())
			}
			return nil
		},
	}
	cmd.Flags().String("prefix", "", "Only list module names starting with this prefix.")
	return cmd
}
