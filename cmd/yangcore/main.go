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

// Binary yangcore loads YANG modules from a configured search path
// and reports their diagnostics: a schema inspection and diagnostic
// front end for the yangcore lexer/parser/resolver core, not a
// NETCONF server (spec §1's non-goals remain out of scope).
package main

import (
	"fmt"
	"os"

	"github.com/openconfig/yangcore/cmd/yangcore/internal/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
