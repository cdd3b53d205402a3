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

package analyzer

import (
	"github.com/JPMMaia/H-sub000/ast"
	"github.com/JPMMaia/H-sub000/types"
)

// GetExpressionType deduces the type of a single expression within
// statement, given scope and the declaration database (spec.md §4.4). It
// returns nil when the type cannot be deduced -- this is tolerated (see
// spec.md §9 "Open question -- error continuation after missing type");
// callers decide per rule whether to short-circuit on nil.
//
// GetExpressionType is deterministic given a fixed database and scope
// (spec.md §8 invariant).
func GetExpressionType(module *ast.Module, scope *ast.Scope, statement *ast.Statement, expr ast.Expression, db *types.Database) *ast.TypeReference {
	switch expr.Kind {
	case ast.VariableExpr:
		if v, ok := scope.Lookup(expr.Variable.Name); ok {
			t := v.Type
			return &t
		}
		// Not a local: maybe a function in this module.
		if fn, ok := db.FindFunctionDeclaration(module.Name, expr.Variable.Name); ok {
			t := ast.TypeReference{Kind: ast.FunctionReference, Function: &ast.FunctionData{
				InputParameterTypes:  paramTypes(fn.Inputs),
				OutputParameterTypes: fn.Outputs,
				IsVariadic:           fn.IsVariadic,
			}}
			return &t
		}
		return nil

	case ast.AccessExpr:
		return accessType(module, scope, statement, expr, db)

	case ast.BinaryExpr:
		return childType(statement, expr.Binary.LHS, func(e ast.Expression) *ast.TypeReference {
			return GetExpressionType(module, scope, statement, e, db)
		})

	case ast.CallExpr:
		calleeType := exprTypeAt(module, scope, statement, expr.Call.Callee, db)
		if calleeType == nil {
			return nil
		}
		return ast.GetFunctionOutputType(*calleeType)

	case ast.InstanceCallExpr:
		fn, ok := db.FindCallInstance(types.CallInstanceKey(expr.InstanceCall.Module, expr.InstanceCall.ConstructorName, expr.InstanceCall.ArgumentTypes))
		if !ok || fn.Function == nil {
			return nil
		}
		if len(fn.Function.Outputs) == 0 {
			return nil
		}
		return &fn.Function.Outputs[0]

	case ast.CastExpr:
		t := expr.Cast.DestinationType
		return &t

	case ast.ConstantExpr:
		t := expr.Constant.Type
		return &t

	case ast.UnaryExpr:
		return unaryType(module, scope, statement, expr, db)

	case ast.TernaryExpr:
		return exprTypeAt(module, scope, statement, expr.Ternary.Then, db)

	case ast.ParenthesisExpr:
		return exprTypeAt(module, scope, statement, expr.LHS, db)

	case ast.NullPointerExpr:
		t := ast.CreateNullPointerType()
		return &t

	case ast.TypeExpr:
		t := expr.TypeExpr.Type
		return &t

	default:
		return nil
	}
}

func paramTypes(ps []ast.Parameter) []ast.TypeReference {
	out := make([]ast.TypeReference, len(ps))
	for i, p := range ps {
		out[i] = p.Type
	}
	return out
}

func exprTypeAt(module *ast.Module, scope *ast.Scope, statement *ast.Statement, idx int, db *types.Database) *ast.TypeReference {
	e, ok := statement.Expr(idx)
	if !ok {
		return nil
	}
	return GetExpressionType(module, scope, statement, e, db)
}

func childType(statement *ast.Statement, idx int, deduce func(ast.Expression) *ast.TypeReference) *ast.TypeReference {
	e, ok := statement.Expr(idx)
	if !ok {
		return nil
	}
	return deduce(e)
}

func unaryType(module *ast.Module, scope *ast.Scope, statement *ast.Statement, expr ast.Expression, db *types.Database) *ast.TypeReference {
	operandType := exprTypeAt(module, scope, statement, expr.Unary.Operand, db)
	switch expr.Unary.Op {
	case ast.OpAddressOf:
		if operandType == nil {
			return nil
		}
		t := ast.CreatePointerType([]ast.TypeReference{*operandType}, true)
		return &t
	case ast.OpIndirection:
		if operandType == nil || !ast.IsNonVoidPointer(*operandType) {
			return nil
		}
		t := ast.RemovePointer(*operandType)
		return &t
	case ast.OpNot:
		t := ast.CreateFundamentalType(ast.Bool)
		return &t
	default: // Minus, BitwiseNot, Pre/Post inc/dec: operand type unchanged.
		return operandType
	}
}

// accessType implements the Access row of spec.md §4.4's table: if the
// LHS resolves to a struct, the matching member's type; if it resolves to
// a module alias, look the member up as a declaration in the imported
// module: a function yields its function reference type, any other
// declaration a custom reference.
func accessType(module *ast.Module, scope *ast.Scope, statement *ast.Statement, expr ast.Expression, db *types.Database) *ast.TypeReference {
	if expr.Access.Receiver < 0 {
		return nil
	}
	receiver, ok := statement.Expr(expr.Access.Receiver)
	if !ok {
		return nil
	}

	// Bare name that is actually an import alias: "module.Symbol".
	if receiver.Kind == ast.VariableExpr {
		for _, dep := range module.Dependencies {
			if dep.Alias == receiver.Variable.Name {
				d, ok := db.FindDeclaration(dep.ModuleName, expr.Access.Member)
				if !ok {
					return nil
				}
				// A cross-module function reference deduces the same
				// Function_reference a same-module call does (see the
				// VariableExpr case above) -- Call's validation only
				// understands that shape, not a bare custom reference to
				// a function declaration.
				if d.Kind == ast.DeclFunction {
					t := ast.TypeReference{Kind: ast.FunctionReference, Function: &ast.FunctionData{
						InputParameterTypes:  paramTypes(d.Function.Inputs),
						OutputParameterTypes: d.Function.Outputs,
						IsVariadic:           d.Function.IsVariadic,
					}}
					return &t
				}
				t := ast.CreateCustomTypeReference(dep.ModuleName, d.Name())
				return &t
			}
		}
	}

	receiverType := GetExpressionType(module, scope, statement, receiver, db)
	if receiverType == nil {
		return nil
	}
	underlying := types.GetUnderlyingType(db, *receiverType)
	if underlying.Kind != ast.CustomReference {
		return nil
	}
	decl, ok := db.FindDeclaration(underlying.Custom.ModuleReference, underlying.Custom.Name)
	if !ok {
		return nil
	}
	switch decl.Kind {
	case ast.DeclStruct:
		for _, m := range decl.Struct.Members {
			if m.Name == expr.Access.Member {
				t := m.Type
				return &t
			}
		}
	case ast.DeclUnion:
		for _, m := range decl.Union.Members {
			if m.Name == expr.Access.Member {
				t := m.Type
				return &t
			}
		}
	case ast.DeclEnum:
		for _, e := range decl.Enum.Entries {
			if e.Name == expr.Access.Member {
				t := underlying
				return &t
			}
		}
	}
	return nil
}
