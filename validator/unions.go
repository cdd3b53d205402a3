// Copyright (C) 2017 Google Inc.
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

package validator

import "github.com/JPMMaia/H-sub000/ast"

// validateUnions checks member names are unique within a union (spec.md
// §4.5 "Union").
func validateUnions(c *context) {
	for i := range c.module.Export.Unions {
		validateOneUnion(c, &c.module.Export.Unions[i])
	}
	for i := range c.module.Internal.Unions {
		validateOneUnion(c, &c.module.Internal.Unions[i])
	}
}

func validateOneUnion(c *context, d *ast.UnionDeclaration) {
	seen := map[string]bool{}
	for _, m := range d.Members {
		if seen[m.Name] {
			c.errorf(nil, "union %q: member %q declared more than once", d.Name, m.Name)
		}
		seen[m.Name] = true
	}
}
