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

// Package ast holds the shared data model of the compiler: the Module,
// its Type_reference variant, the Statement/Expression tree with
// sibling indices, the append-only Scope, and the Diagnostic record.
//
// Everything here is a value type produced by the surface-syntax parser,
// which is an external collaborator (see spec.md §1/§6) and is not
// implemented by this module. Parse, when it exists, fills in exactly
// these structures.
package ast

import "fmt"

// Position is a single line/column location within a source file.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SourceRange is an inclusive span of source text, used by every
// diagnostic to pinpoint the offending token or sub-expression.
type SourceRange struct {
	Start Position
	End   Position
}

// CreateSubSourceRange narrows range so that the underlined region starts
// start runes into the original range and spans count runes. It is used
// by validation rules that want to highlight one token inside a larger
// expression (e.g. a single misused identifier within a binary expression).
func CreateSubSourceRange(r SourceRange, start, count int) SourceRange {
	sub := r
	sub.Start.Column += start
	sub.End = sub.Start
	sub.End.Column += count
	return sub
}
