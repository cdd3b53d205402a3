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

package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JPMMaia/H-sub000/analyzer"
	"github.com/JPMMaia/H-sub000/ast"
	"github.com/JPMMaia/H-sub000/types"
)

var i32 = ast.CreateIntegerType(32, true)

// TestUndefinedVariableReferencedBeforeDeclaration is spec.md §8 scenario
// 5: `var c = d + 1; var d = 0;` produces a single "does not exist"
// diagnostic at d's own reference, not at c's declaration.
func TestUndefinedVariableReferencedBeforeDeclaration(t *testing.T) {
	dRange := &ast.SourceRange{Start: ast.Position{Line: 1, Column: 9}, End: ast.Position{Line: 1, Column: 10}}

	exprs := []ast.Expression{
		{Kind: ast.VariableExpr, Range: dRange, Variable: &ast.VariableData{Name: "d"}, LHS: -1, RHS: -1},
		{Kind: ast.ConstantExpr, Constant: &ast.ConstantData{Kind: ast.ConstantInteger, Type: i32, Integer: 1}, LHS: -1, RHS: -1},
		{Kind: ast.BinaryExpr, Binary: &ast.BinaryData{Op: ast.OpAdd, LHS: 0, RHS: 1}, LHS: -1, RHS: -1},
		{Kind: ast.VariableDeclExpr, VariableDecl: &ast.VariableDeclData{Name: "c", RHS: 2}, LHS: -1, RHS: -1},
		{Kind: ast.ConstantExpr, Constant: &ast.ConstantData{Kind: ast.ConstantInteger, Type: i32, Integer: 0}, LHS: -1, RHS: -1},
		{Kind: ast.VariableDeclExpr, VariableDecl: &ast.VariableDeclData{Name: "d", RHS: 4}, LHS: -1, RHS: -1},
		{Kind: ast.BlockExpr, Children: []int{3, 5}, LHS: -1, RHS: -1},
	}

	decl := ast.FunctionDeclaration{Name: "f", Linkage: ast.LinkageExternal}
	def := ast.FunctionDefinition{Name: "f", Body: ast.Statement{Expressions: exprs, Root: 6}}
	module := &ast.Module{
		Name:        "m",
		Export:      ast.DeclarationBank{Functions: []ast.FunctionDeclaration{decl}},
		Definitions: []ast.FunctionDefinition{def},
	}

	db := types.NewDatabase(module)
	res, err := analyzer.ProcessModule(module, db, analyzer.Options{})
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, "Variable 'd' does not exist.", res.Diagnostics[0].Message)
	require.Equal(t, *dRange, res.Diagnostics[0].Range)
}

// TestGenericInstantiationRewritesCallToInstanceCall is spec.md §8
// scenario 7: a function constructor add<T>(a:T,b:T)->T invoked as
// add(1i32, 2i32) becomes an Instance_call_expression after analysis,
// with a new db.call_instances entry keyed on the deduced Int32 argument.
func TestGenericInstantiationRewritesCallToInstanceCall(t *testing.T) {
	ctorDecl := ast.FunctionDeclaration{
		Name:                      "add",
		TypeConstructorParameters: []string{"T"},
		Inputs: []ast.Parameter{
			{Name: "a", Type: ast.TypeReference{Kind: ast.ParameterReference, Parameter: &ast.ParameterData{Name: "T"}}},
			{Name: "b", Type: ast.TypeReference{Kind: ast.ParameterReference, Parameter: &ast.ParameterData{Name: "T"}}},
		},
		Outputs: []ast.TypeReference{{Kind: ast.ParameterReference, Parameter: &ast.ParameterData{Name: "T"}}},
		Linkage: ast.LinkageExternal,
	}

	exprs := []ast.Expression{
		{Kind: ast.VariableExpr, Variable: &ast.VariableData{Name: "add"}, LHS: -1, RHS: -1},
		{Kind: ast.ConstantExpr, Constant: &ast.ConstantData{Kind: ast.ConstantInteger, Type: i32, Integer: 1}, LHS: -1, RHS: -1},
		{Kind: ast.ConstantExpr, Constant: &ast.ConstantData{Kind: ast.ConstantInteger, Type: i32, Integer: 2}, LHS: -1, RHS: -1},
		{Kind: ast.CallExpr, Call: &ast.CallData{Callee: 0, Arguments: []int{1, 2}}, LHS: -1, RHS: -1},
		{Kind: ast.ReturnExpr, LHS: 3, RHS: -1},
		{Kind: ast.BlockExpr, Children: []int{4}, LHS: -1, RHS: -1},
	}

	callerDecl := ast.FunctionDeclaration{Name: "caller", Outputs: []ast.TypeReference{i32}, Linkage: ast.LinkageExternal}
	callerDef := ast.FunctionDefinition{Name: "caller", Body: ast.Statement{Expressions: exprs, Root: 5}}

	module := &ast.Module{
		Name: "m",
		Export: ast.DeclarationBank{
			Functions: []ast.FunctionDeclaration{ctorDecl, callerDecl},
		},
		Definitions: []ast.FunctionDefinition{callerDef},
	}

	db := types.NewDatabase(module)
	res, err := analyzer.ProcessModule(module, db, analyzer.Options{})
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)

	rewritten := callerDef.Body.Expressions[3]
	require.Equal(t, ast.InstanceCallExpr, rewritten.Kind)
	require.NotNil(t, rewritten.InstanceCall)
}
