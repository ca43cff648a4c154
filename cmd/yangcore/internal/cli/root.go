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

// Package cli wires the yangcore binary's cobra commands to viper
// configuration, following the teacher's gnmidiff/cmd/root.go
// --config_file pattern.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCmd assembles the yangcore root command and its subcommands.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "yangcore",
		Short: "yangcore loads and inspects YANG modules",
	}

	cfgFile := root.PersistentFlags().String("config_file", "", "Path to a YAML configuration file.")
	root.PersistentFlags().StringP("path", "p", "", "Colon-separated YANG module search path.")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *cfgFile != "" {
			viper.SetConfigFile(*cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				return err
			}
		}
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		if err := viper.BindPFlags(root.PersistentFlags()); err != nil {
			return err
		}
		viper.AutomaticEnv()
		return nil
	}

	root.AddCommand(newLoadCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newDiffCmd())
	return root
}
