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

// validateStructs checks member names are unique, and that a packed struct
// declares no type-constructor parameters (generic packed layouts are not
// supported -- the sizeof of a Parameter_type is unknown until
// instantiation, spec.md §4.5 "Struct").
func validateStructs(c *context) {
	for i := range c.module.Export.Structs {
		validateOneStruct(c, &c.module.Export.Structs[i])
	}
	for i := range c.module.Internal.Structs {
		validateOneStruct(c, &c.module.Internal.Structs[i])
	}
}

func validateOneStruct(c *context, d *ast.StructDeclaration) {
	seen := map[string]bool{}
	for _, m := range d.Members {
		if seen[m.Name] {
			c.errorf(nil, "struct %q: member %q declared more than once", d.Name, m.Name)
		}
		seen[m.Name] = true
	}
	if d.IsPacked && len(d.TypeConstructorParameters) > 0 {
		c.errorf(nil, "struct %q: a packed struct cannot be a type constructor", d.Name)
	}
}
