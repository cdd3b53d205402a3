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

// Package validator implements the diagnostics bank of spec.md §4.5: for
// every statement, children are visited before parents (deepest first),
// dispatching to one rule function per expression/declaration kind.
package validator

import (
	"fmt"
	"sort"

	"github.com/JPMMaia/H-sub000/analyzer"
	"github.com/JPMMaia/H-sub000/ast"
	"github.com/JPMMaia/H-sub000/types"
)

// reservedNames mirrors the "fundamental types + true/false/null/..."
// keyword list declaration names may never clash with (spec.md §4.5
// "Declaration names").
var reservedNames = map[string]bool{
	"bool": true, "byte": true, "float16": true, "float32": true, "float64": true,
	"true": true, "false": true, "null": true, "void": true,
}

// context carries everything a rule function needs: the module and
// database being validated, the deduced expression types from the
// analyzer, and the loop-nesting stack used by break/continue.
type context struct {
	module *ast.Module
	db     *types.Database
	types  analyzer.ExpressionTypes
	diags  []ast.Diagnostic
}

func (c *context) errorf(rng *ast.SourceRange, format string, args ...interface{}) {
	c.emit(ast.SeverityError, rng, format, args...)
}

func (c *context) warnf(rng *ast.SourceRange, format string, args ...interface{}) {
	c.emit(ast.SeverityWarning, rng, format, args...)
}

func (c *context) emit(sev ast.Severity, rng *ast.SourceRange, format string, args ...interface{}) {
	d := ast.Diagnostic{Severity: sev, Source: ast.SourceAnalyzer, Message: fmt.Sprintf(format, args...)}
	if rng != nil {
		d.Range = *rng
	}
	c.diags = append(c.diags, d)
}

func (c *context) typeOf(s *ast.Statement, idx int) (ast.TypeReference, bool) {
	t, ok := c.types[analyzer.ExprKey{Statement: s, Index: idx}]
	return t, ok
}

// Validate walks module's declarations and definitions, producing
// diagnostics (spec.md §4.5). exprTypes comes from a prior
// analyzer.ProcessModule call over the same module.
func Validate(module *ast.Module, db *types.Database, exprTypes analyzer.ExpressionTypes) []ast.Diagnostic {
	c := &context{module: module, db: db, types: exprTypes}

	validateImports(c)
	validateDeclarationNames(c)
	validateEnums(c)
	validateStructs(c)
	validateUnions(c)
	validateGlobals(c)

	for i := range module.Definitions {
		def := &module.Definitions[i]
		decl, ok := db.FindFunctionDeclaration(module.Name, def.Name)
		if !ok {
			continue
		}
		validateFunctionContracts(c, decl, def)
		for j := range def.Preconditions {
			validateStatement(c, &def.Preconditions[j])
		}
		for j := range def.Postconditions {
			validateStatement(c, &def.Postconditions[j])
		}
		validateStatement(c, &def.Body)
	}

	sort.SliceStable(c.diags, func(i, j int) bool {
		return rangeLess(c.diags[i].Range, c.diags[j].Range)
	})
	return c.diags
}

func rangeLess(a, b ast.SourceRange) bool {
	if a.Start.Line != b.Start.Line {
		return a.Start.Line < b.Start.Line
	}
	return a.Start.Column < b.Start.Column
}

// validateStatement visits every expression in s children-before-parents
// (spec.md §4.5): it walks the tree depth-first starting at Root and
// dispatches the per-kind rule on the way back up.
func validateStatement(c *context, s *ast.Statement) {
	visited := make([]bool, len(s.Expressions))
	var visit func(i int)
	visit = func(i int) {
		if i < 0 || i >= len(s.Expressions) || visited[i] {
			return
		}
		visited[i] = true
		for _, child := range childIndices(s.Expressions[i]) {
			visit(child)
		}
		validateExpression(c, s, i)
	}
	visit(s.Root)
}

func childIndices(e ast.Expression) []int {
	var out []int
	switch e.Kind {
	case ast.AccessExpr:
		if e.Access.Receiver >= 0 {
			out = append(out, e.Access.Receiver)
		}
	case ast.AssignmentExpr:
		out = append(out, e.Assignment.LHS, e.Assignment.RHS)
	case ast.BinaryExpr:
		out = append(out, e.Binary.LHS, e.Binary.RHS)
	case ast.UnaryExpr:
		out = append(out, e.Unary.Operand)
	case ast.CastExpr:
		out = append(out, e.Cast.Operand)
	case ast.CallExpr:
		out = append(out, e.Call.Callee)
		out = append(out, e.Call.Arguments...)
	case ast.InstanceCallExpr:
		out = append(out, e.InstanceCall.Arguments...)
	case ast.IfExpr:
		out = append(out, e.If.Condition, e.If.ThenBlock)
		if e.If.ElseBlock >= 0 {
			out = append(out, e.If.ElseBlock)
		}
	case ast.TernaryExpr:
		out = append(out, e.Ternary.Condition, e.Ternary.Then, e.Ternary.Else)
	case ast.ForLoopExpr:
		out = append(out, e.ForLoop.RangeBegin, e.ForLoop.RangeEnd)
		if e.ForLoop.StepBy >= 0 {
			out = append(out, e.ForLoop.StepBy)
		}
		out = append(out, e.ForLoop.Body)
	case ast.WhileLoopExpr:
		out = append(out, e.WhileLoop.Condition, e.WhileLoop.Body)
	case ast.SwitchExpr:
		out = append(out, e.Switch.Value)
		for _, cs := range e.Switch.Cases {
			out = append(out, cs.Value, cs.Body)
		}
		if e.Switch.Default >= 0 {
			out = append(out, e.Switch.Default)
		}
	case ast.BlockExpr:
		out = append(out, e.Children...)
	case ast.VariableDeclExpr, ast.VariableDeclWithTypeExpr:
		if e.VariableDecl.RHS >= 0 {
			out = append(out, e.VariableDecl.RHS)
		}
	case ast.ReturnExpr:
		if e.LHS >= 0 {
			out = append(out, e.LHS)
		}
	case ast.DeferExpr:
		out = append(out, e.Defer.Expression)
	case ast.ConstantArrayExpr:
		out = append(out, e.ConstantArray.Elements...)
	case ast.InstantiateExpr:
		for _, m := range e.Instantiate.Members {
			out = append(out, m.Value)
		}
	}
	return out
}
