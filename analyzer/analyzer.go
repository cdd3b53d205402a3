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

// Package analyzer implements semantic analysis (spec.md §4.4): per-
// function scope walking, expression-type deduction, and expansion of
// function-constructor calls into concrete instance calls. It mirrors the
// resolve-in-place shape of gapil/resolver, but -- per spec.md §3 -- it
// enriches the Module's own Statement/Expression tree rather than
// building a second, pointer-based semantic graph.
package analyzer

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/JPMMaia/H-sub000/ast"
	"github.com/JPMMaia/H-sub000/types"
)

// Options configures a single process_module invocation.
type Options struct {
	// StopOnUnrecoverable is not read by ProcessModule: whatever its
	// value, the analyzer keeps going best-effort after an error so the
	// validator can still report what it can.
	StopOnUnrecoverable bool
}

// ExpressionTypes maps every analyzed expression to its deduced type.
// Entries are addressed by (statement pointer, expression index); a
// missing entry means the type could not be deduced (spec.md §7 tier 1 --
// "analyzer cannot produce a type needed by further rules").
type ExpressionTypes map[ExprKey]ast.TypeReference

// ExprKey addresses one expression inside one statement.
type ExprKey struct {
	Statement *ast.Statement
	Index     int
}

// Result is the AnalysisResult of spec.md §4.4/§7: diagnostics accumulate
// here and are returned up the call stack rather than thrown.
type Result struct {
	Types       ExpressionTypes
	Diagnostics []ast.Diagnostic
}

func (r *Result) errorf(rng *ast.SourceRange, format string, args ...interface{}) {
	d := ast.Diagnostic{
		Severity: ast.SeverityError,
		Source:   ast.SourceAnalyzer,
		Message:  fmt.Sprintf(format, args...),
	}
	if rng != nil {
		d.Range = *rng
	}
	r.Diagnostics = append(r.Diagnostics, d)
}

// CompilationFailure is spec.md §7 tier 2: an invariant the analyzer (and
// later the emitter) relies on was broken. It aborts the current module;
// other modules in the same artifact still attempt to build.
type CompilationFailure struct {
	Module string
	Err    error
}

func (e *CompilationFailure) Error() string {
	return fmt.Sprintf("compilation failure in module %q: %v", e.Module, e.Err)
}

func (e *CompilationFailure) Unwrap() error { return e.Err }

func fail(module, format string, args ...interface{}) error {
	return &CompilationFailure{Module: module, Err: errors.Errorf(format, args...)}
}

// analysis carries the mutable state threaded through one process_module
// call -- the database, the result being built, and the module being
// analyzed.
type analysis struct {
	module *ast.Module
	db     *types.Database
	opts   Options
	result *Result
}

// ProcessModule is the analyzer's entry point (spec.md §4.4): it
// traverses each function's preconditions, postconditions and body,
// deducing expression types and rewriting function-constructor calls
// into instance calls in place.
func ProcessModule(module *ast.Module, db *types.Database, opts Options) (res *Result, err error) {
	a := &analysis{
		module: module,
		db:     db,
		opts:   opts,
		result: &Result{Types: ExpressionTypes{}},
	}

	defer func() {
		if r := recover(); r != nil {
			if cf, ok := r.(*CompilationFailure); ok {
				err = cf
				return
			}
			panic(r)
		}
	}()

	for i := range module.Definitions {
		def := &module.Definitions[i]
		decl, ok := db.FindFunctionDeclaration(module.Name, def.Name)
		if !ok {
			continue
		}
		a.processFunction(decl, def)
	}

	return a.result, nil
}

func (a *analysis) processFunction(decl *ast.FunctionDeclaration, def *ast.FunctionDefinition) {
	scope := ast.NewScope()
	for _, p := range decl.Inputs {
		scope.Declare(p.Name, p.Type)
	}

	for i := range def.Preconditions {
		a.processStatement(scope, &def.Preconditions[i])
	}
	for _, o := range decl.Outputs {
		scope.Declare("result", o) // postconditions may reference function outputs
	}
	for i := range def.Postconditions {
		a.processStatement(scope, &def.Postconditions[i])
	}
	a.processStatement(scope, &def.Body)
}

// processStatement walks a statement starting from its Root expression,
// descending recursively into every sub-expression kind that carries nested
// statements (blocks, if-series, loop bodies, switch cases, ternary arms,
// variable-decl RHS, function-expression bodies, constant-array elements,
// instantiate member values -- spec.md §4.4), so each expression is
// visited once, in source order.
func (a *analysis) processStatement(scope *ast.Scope, s *ast.Statement) {
	mark := scope.Mark()
	defer scope.Truncate(mark)

	if s.Root < 0 || s.Root >= len(s.Expressions) {
		return
	}
	a.processExpression(scope, s, s.Root)
}

func (a *analysis) processExpression(scope *ast.Scope, s *ast.Statement, i int) {
	e := &s.Expressions[i]
	switch e.Kind {
	case ast.VariableExpr:
		if !a.variableResolves(scope, e.Variable.Name) {
			a.result.errorf(e.Range, "Variable '%s' does not exist.", e.Variable.Name)
		}
	case ast.BlockExpr:
		// A block's children are processed as a fresh nested scope.
		mark := scope.Mark()
		for _, idx := range e.Children {
			a.processExpression(scope, s, idx)
		}
		scope.Truncate(mark)
	case ast.ParenthesisExpr, ast.DereferenceAndAccessExpr:
		if e.LHS >= 0 {
			a.processExpression(scope, s, e.LHS)
		}
	case ast.InstanceCallExpr:
		for _, idx := range e.InstanceCall.Arguments {
			a.processExpression(scope, s, idx)
		}
	case ast.VariableDeclExpr, ast.VariableDeclWithTypeExpr:
		if e.VariableDecl != nil && e.VariableDecl.RHS >= 0 {
			a.processExpression(scope, s, e.VariableDecl.RHS)
		}
		t := a.deduceOrNil(scope, s, e.VariableDecl.RHS)
		if e.VariableDecl.DeclaredType != nil {
			t = *e.VariableDecl.DeclaredType
		}
		if t != nil {
			scope.Declare(e.VariableDecl.Name, *t)
		}
	case ast.IfExpr:
		a.processExpression(scope, s, e.If.Condition)
		a.processExpression(scope, s, e.If.ThenBlock)
		if e.If.ElseBlock >= 0 {
			a.processExpression(scope, s, e.If.ElseBlock)
		}
	case ast.TernaryExpr:
		a.processExpression(scope, s, e.Ternary.Condition)
		a.processExpression(scope, s, e.Ternary.Then)
		a.processExpression(scope, s, e.Ternary.Else)
	case ast.ForLoopExpr:
		a.processExpression(scope, s, e.ForLoop.RangeBegin)
		a.processExpression(scope, s, e.ForLoop.RangeEnd)
		if e.ForLoop.StepBy >= 0 {
			a.processExpression(scope, s, e.ForLoop.StepBy)
		}
		mark := scope.Mark()
		t := a.deduceOrNil(scope, s, e.ForLoop.RangeBegin)
		if t != nil {
			scope.Declare(e.ForLoop.VariableName, *t)
		}
		a.processExpression(scope, s, e.ForLoop.Body)
		scope.Truncate(mark)
	case ast.WhileLoopExpr:
		a.processExpression(scope, s, e.WhileLoop.Condition)
		a.processExpression(scope, s, e.WhileLoop.Body)
	case ast.SwitchExpr:
		a.processExpression(scope, s, e.Switch.Value)
		for _, c := range e.Switch.Cases {
			a.processExpression(scope, s, c.Value)
			a.processExpression(scope, s, c.Body)
		}
		if e.Switch.Default >= 0 {
			a.processExpression(scope, s, e.Switch.Default)
		}
	case ast.FunctionExpr:
		inner := ast.NewScope()
		for _, p := range e.Function.Inputs {
			inner.Declare(p.Name, p.Type)
		}
		for _, idx := range e.Function.Preconditions {
			a.processExpression(inner, s, idx)
		}
		for _, idx := range e.Function.Postconditions {
			a.processExpression(inner, s, idx)
		}
		if e.Function.Body >= 0 {
			a.processExpression(inner, s, e.Function.Body)
		}
	case ast.ConstantArrayExpr:
		for _, idx := range e.ConstantArray.Elements {
			a.processExpression(scope, s, idx)
		}
	case ast.InstantiateExpr:
		for _, m := range e.Instantiate.Members {
			a.processExpression(scope, s, m.Value)
		}
	case ast.CallExpr:
		a.processExpression(scope, s, e.Call.Callee)
		for _, idx := range e.Call.Arguments {
			a.processExpression(scope, s, idx)
		}
		a.maybeInstantiate(scope, s, i)
	case ast.AccessExpr:
		if e.Access.Receiver >= 0 {
			a.processExpression(scope, s, e.Access.Receiver)
		}
	case ast.AssignmentExpr:
		a.processExpression(scope, s, e.Assignment.LHS)
		a.processExpression(scope, s, e.Assignment.RHS)
	case ast.BinaryExpr:
		a.processExpression(scope, s, e.Binary.LHS)
		a.processExpression(scope, s, e.Binary.RHS)
	case ast.UnaryExpr:
		a.processExpression(scope, s, e.Unary.Operand)
	case ast.CastExpr:
		a.processExpression(scope, s, e.Cast.Operand)
	case ast.ReturnExpr:
		if e.LHS >= 0 {
			a.processExpression(scope, s, e.LHS)
		}
	case ast.DeferExpr:
		a.processExpression(scope, s, e.Defer.Expression)
	}

	// Cache the deduced type for every expression kind that yields one;
	// the validator consults this map rather than re-deducing.
	if t := GetExpressionType(a.module, scope, s, *e, a.db); t != nil {
		a.result.Types[ExprKey{s, i}] = *t
	}
}

func (a *analysis) deduceOrNil(scope *ast.Scope, s *ast.Statement, idx int) *ast.TypeReference {
	if idx < 0 || idx >= len(s.Expressions) {
		return nil
	}
	return GetExpressionType(a.module, scope, s, s.Expressions[idx], a.db)
}

// variableResolves reports whether name is a declared local, a function
// in this module, or a dependency alias -- the three things a bare
// Variable expression may legitimately name (spec.md §4.4 "Variable").
// A module alias itself has no type, so it deliberately doesn't go
// through GetExpressionType: it only ever appears as an Access receiver,
// which validator's isModuleAliasReceiver recognizes separately.
func (a *analysis) variableResolves(scope *ast.Scope, name string) bool {
	if scope.Contains(name) {
		return true
	}
	if _, ok := a.db.FindFunctionDeclaration(a.module.Name, name); ok {
		return true
	}
	for _, dep := range a.module.Dependencies {
		if dep.Alias == name {
			return true
		}
	}
	return false
}
