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

// validateImports checks every dependency resolves to a module already
// present in the database, and that aliases are unique within the module
// (spec.md §4.5 "Import").
func validateImports(c *context) {
	seen := map[string]bool{}
	for _, dep := range c.module.Dependencies {
		if _, ok := c.db.Module(dep.ModuleName); !ok {
			c.errorf(nil, "import %q: module not found", dep.ModuleName)
			continue
		}
		if seen[dep.Alias] {
			c.errorf(nil, "import alias %q used more than once", dep.Alias)
		}
		seen[dep.Alias] = true
	}
}

// validateDeclarationNames checks every top-level declaration name is
// non-empty, not a reserved keyword, and unique within its bank (spec.md
// §4.5 "Declaration names").
func validateDeclarationNames(c *context) {
	validateBankNames(c, "export")
	validateBankNames(c, "internal")
}

func validateBankNames(c *context, which string) {
	bank := c.module.Export
	if which == "internal" {
		bank = c.module.Internal
	}
	seen := map[string]bool{}
	check := func(name string) {
		if name == "" {
			c.errorf(nil, "%s declaration: name must not be empty", which)
			return
		}
		if reservedNames[name] {
			c.errorf(nil, "%s declaration %q: name is reserved", which, name)
		}
		if seen[name] {
			c.errorf(nil, "%s declaration %q: name already used in this module", which, name)
		}
		seen[name] = true
	}
	for _, d := range bank.Aliases {
		check(d.Name)
	}
	for _, d := range bank.Enums {
		check(d.Name)
	}
	for _, d := range bank.Structs {
		check(d.Name)
	}
	for _, d := range bank.Unions {
		check(d.Name)
	}
	for _, d := range bank.Functions {
		check(d.Name)
	}
	for _, d := range bank.Globals {
		check(d.Name)
	}
}
