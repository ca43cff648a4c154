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

package schema

import "github.com/kylelemons/godebug/pretty"

// Diff renders a human-readable difference between two module trees,
// used by cmd/yangcore's diff subcommand. Grounded on the teacher's
// use of kylelemons/godebug for struct-tree diffs.
func Diff(a, b *Module) string {
	return pretty.Compare(a, b)
}
