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

package ast_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JPMMaia/H-sub000/ast"
)

var i32 = ast.CreateIntegerType(32, true)

// TestModuleRoundTrip is spec.md §8's round-trip invariant: parse (here,
// unmarshal) after serialize (marshal) yields a structurally equal
// module, covering a pointer type reference (the trickiest TypeReference
// variant to round-trip given its custom (Un)MarshalJSON).
func TestModuleRoundTrip(t *testing.T) {
	ptrToI32 := ast.CreatePointerType([]ast.TypeReference{i32}, true)

	decl := ast.FunctionDeclaration{
		Name:    "add",
		Inputs:  []ast.Parameter{{Name: "a", Type: i32}, {Name: "b", Type: ptrToI32}},
		Outputs: []ast.TypeReference{i32},
		Linkage: ast.LinkageExternal,
	}
	exprs := []ast.Expression{
		{Kind: ast.VariableExpr, Variable: &ast.VariableData{Name: "a"}, LHS: -1, RHS: -1},
		{Kind: ast.ReturnExpr, LHS: 0, RHS: -1},
		{Kind: ast.BlockExpr, Children: []int{1}, LHS: -1, RHS: -1},
	}
	def := ast.FunctionDefinition{Name: "add", Body: ast.Statement{Expressions: exprs, Root: 2}}

	want := &ast.Module{
		Name:         "libmath",
		Dependencies: []ast.Dependency{{ModuleName: "C.stdio", Alias: "stdio"}},
		Export:       ast.DeclarationBank{Functions: []ast.FunctionDeclaration{decl}},
		Definitions:  []ast.FunctionDefinition{def},
	}

	data, err := json.Marshal(want)
	require.NoError(t, err)

	var got ast.Module
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, want, &got)
}

// TestTypeReferencePointerRoundTrip isolates the custom TypeReference
// (Un)MarshalJSON path for the Pointer variant from the rest of Module.
func TestTypeReferencePointerRoundTrip(t *testing.T) {
	want := ast.CreatePointerType([]ast.TypeReference{i32}, false)

	data, err := json.Marshal(want)
	require.NoError(t, err)

	var got ast.TypeReference
	require.NoError(t, json.Unmarshal(data, &got))
	require.True(t, want.Equal(got))
}

// TestDiagnosticString matches spec.md §6's `file:line:col: severity:
// message` stderr form.
func TestDiagnosticString(t *testing.T) {
	d := ast.Diagnostic{
		FilePath: "main.hl",
		Range:    ast.SourceRange{Start: ast.Position{Line: 3, Column: 5}},
		Severity: ast.SeverityError,
		Message:  "Variable 'd' does not exist.",
	}
	require.Contains(t, d.String(), "main.hl:")
	require.Contains(t, d.String(), "error:")
	require.Contains(t, d.String(), "Variable 'd' does not exist.")
}
