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

// Statement owns an ordered sequence of Expression records. Root is the
// index of the outermost expression; every other expression is reachable
// from Root by following child indices (spec.md §3).
type Statement struct {
	Expressions []Expression
	Root        int
}

// Expr returns the expression at index i, or the zero value if out of
// bounds (callers that rely on invariants validated elsewhere may index
// directly; this accessor is for defensive traversal code).
func (s *Statement) Expr(i int) (Expression, bool) {
	if i < 0 || i >= len(s.Expressions) {
		return Expression{}, false
	}
	return s.Expressions[i], true
}

// Equal reports whether two statements are structurally identical --
// same expression kinds, same tree shape, same literal content. It backs
// the canonicalization of Type_instance argument lists before insertion
// into the declaration database's call_instances map (spec.md §9).
func (s Statement) Equal(o Statement) bool {
	if len(s.Expressions) != len(o.Expressions) || s.Root != o.Root {
		return false
	}
	for i := range s.Expressions {
		if !s.Expressions[i].Equal(o.Expressions[i]) {
			return false
		}
	}
	return true
}

// NewTypeStatement wraps a single TypeReference as a one-expression
// Statement, the representation used for generic-instantiation argument
// lists (spec.md §4.4 step 4, "Instance_call_expression").
func NewTypeStatement(t TypeReference) Statement {
	return Statement{
		Expressions: []Expression{{Kind: TypeExpr, TypeExpr: &TypeExprData{Type: t}}},
		Root:        0,
	}
}
