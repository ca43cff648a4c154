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
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openconfig/yangcore/pkg/config"
	"github.com/openconfig/yangcore/pkg/registry"
	"github.com/openconfig/yangcore/pkg/resolver"
)

// splitModuleArg splits a "module[@revision]" argument the way the
// resolver's own locate step does (spec §6).
func splitModuleArg(arg string) (name, revision string) {
	if i := strings.IndexByte(arg, '@'); i >= 0 {
		return arg[:i], arg[i+1:]
	}
	return arg, ""
}

func newLoadCmd() *cobra.Command {
	var deviations []string
	cmd := &cobra.Command{
		Use:   "load <module>[@revision]",
		Short: "Load a YANG module and report its diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			name, revision := splitModuleArg(args[0])

			reg := registry.New()
			r := resolver.New(afero.NewOsFs(), cfg.SearchPath, reg)
			r.RecordStatementOrder = cfg.RecordStatementOrder
			r.DiffMode = cfg.DiffMode
			r.SaveDescriptions = cfg.SaveDescriptions
			r.IncludeSubmods = cfg.IncludeSubmods

			m, diags, err := r.Load(name, revision, deviations)
			for _, d := range diags {
				fmt.Fprintln(cmd.ErrOrStderr(), d.String())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %s@%s: %d typedefs, %d groupings, %d top-level data nodes\n",
				m.Name, m.LatestRevision(), len(m.Typedefs), len(m.Groupings), len(m.Datadefs))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&deviations, "deviation", nil, "Deviation module name to load before the main load (repeatable).")
	return cmd
}
