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

package ast

// Variable is one (name, type) binding live in a Scope. Variables own
// neither the type reference nor the name -- they are copies, keyed by
// value equality (spec.md §3 "Ownership").
type Variable struct {
	Name string
	Type TypeReference
}

// Scope is an append-only, truncate-on-block-exit stack of variable
// bindings, valid for the lifetime of one function call (spec.md §3/§4.4).
type Scope struct {
	variables []Variable
}

// NewScope returns an empty scope.
func NewScope() *Scope { return &Scope{} }

// Mark returns the current variable count, to be passed to Truncate when
// the enclosing block exits.
func (s *Scope) Mark() int { return len(s.variables) }

// Truncate removes every variable declared since mark.
func (s *Scope) Truncate(mark int) {
	s.variables = s.variables[:mark]
}

// Declare appends a new variable binding.
func (s *Scope) Declare(name string, t TypeReference) {
	s.variables = append(s.variables, Variable{Name: name, Type: t})
}

// Lookup searches from the innermost (most recently declared) binding
// outward, returning the first variable named name.
func (s *Scope) Lookup(name string) (Variable, bool) {
	for i := len(s.variables) - 1; i >= 0; i-- {
		if s.variables[i].Name == name {
			return s.variables[i], true
		}
	}
	return Variable{}, false
}

// Contains reports whether name is already bound in the current scope
// (used by the variable-decl validation rule -- "name not already in
// scope").
func (s *Scope) Contains(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}
