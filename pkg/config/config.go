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

// Package config binds the resolver's load-path and PCB-flag
// configuration to cobra flags through viper, the way the teacher's
// gnmidiff/cmd/root.go wires a --config_file flag through
// viper.SetConfigFile/BindPFlags/AutomaticEnv.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the resolver's external configuration surface (spec §6
// "module search path is a colon-separated list of directories", §3
// PCB flags).
type Config struct {
	SearchPath           []string `mapstructure:"search_path"`
	RecordStatementOrder bool     `mapstructure:"record_statement_order"`
	DiffMode             bool     `mapstructure:"diff_mode"`
	SaveDescriptions     bool     `mapstructure:"save_descriptions"`
	IncludeSubmods       bool     `mapstructure:"include_submods"`
}

// Load builds a Config from v, which cmd/yangcore has already bound
// to its cobra flags and the environment (and, if --config_file was
// given, to a YAML file).
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	if raw := v.GetString("path"); raw != "" {
		c.SearchPath = SplitPath(raw)
	}
	return &c, nil
}

// SplitPath splits a colon-separated module search path into its
// directory components, matching yuma123's NCX module search path
// convention (spec §6).
func SplitPath(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ":") {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
