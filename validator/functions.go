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

// validateFunctionContracts checks every precondition/postcondition
// expression deduces to Bool, and that input parameter names are unique
// (spec.md §4.5 "Function contracts"). Does not short-circuit on a nil
// deduced type for a contract expression -- a missing type there is itself
// the diagnostic ("contract must be bool"), not a reason to stay silent.
func validateFunctionContracts(c *context, decl *ast.FunctionDeclaration, def *ast.FunctionDefinition) {
	seen := map[string]bool{}
	for _, p := range decl.Inputs {
		if seen[p.Name] {
			c.errorf(nil, "function %q: parameter %q declared more than once", decl.Name, p.Name)
		}
		seen[p.Name] = true
	}

	checkContract := func(kind string, s *ast.Statement) {
		e, ok := s.Expr(s.Root)
		if !ok {
			return
		}
		t, ok := c.typeOf(s, s.Root)
		if !ok {
			c.errorf(e.Range, "function %q: %s could not be type-checked", decl.Name, kind)
			return
		}
		if !ast.IsBool(t) {
			c.errorf(e.Range, "function %q: %s must have type bool", decl.Name, kind)
		}
	}
	for i := range def.Preconditions {
		checkContract("precondition", &def.Preconditions[i])
	}
	for i := range def.Postconditions {
		checkContract("postcondition", &def.Postconditions[i])
	}
}
