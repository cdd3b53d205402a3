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

// validateEnums checks every entry name is unique and every entry value is
// unique within its enum (spec.md §4.5 "Enum").
func validateEnums(c *context) {
	for i := range c.module.Export.Enums {
		validateOneEnum(c, &c.module.Export.Enums[i])
	}
	for i := range c.module.Internal.Enums {
		validateOneEnum(c, &c.module.Internal.Enums[i])
	}
}

func validateOneEnum(c *context, d *ast.EnumDeclaration) {
	names := map[string]bool{}
	values := map[int32]string{}
	for _, e := range d.Entries {
		if names[e.Name] {
			c.errorf(nil, "enum %q: entry %q declared more than once", d.Name, e.Name)
		}
		names[e.Name] = true
		if prev, ok := values[e.Value]; ok {
			c.errorf(nil, "enum %q: entries %q and %q share value %d", d.Name, prev, e.Name, e.Value)
		}
		values[e.Value] = e.Name
	}
}
