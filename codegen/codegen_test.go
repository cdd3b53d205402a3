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

package codegen_test

import (
	"strings"
	"testing"
	"unsafe"

	"github.com/JPMMaia/H-sub000/ast"
	hcg "github.com/JPMMaia/H-sub000/codegen"
	"github.com/JPMMaia/H-sub000/core/assert"
	llcg "github.com/JPMMaia/H-sub000/core/codegen"
	"github.com/JPMMaia/H-sub000/core/codegen/call"
	"github.com/JPMMaia/H-sub000/core/log"
	"github.com/JPMMaia/H-sub000/core/os/device"
	"github.com/JPMMaia/H-sub000/types"
)

var i32 = ast.CreateIntegerType(32, true)

func oneFunctionModule(fn ast.FunctionDeclaration, def ast.FunctionDefinition) *ast.Module {
	fn.Linkage = ast.LinkageExternal
	return &ast.Module{
		Name:        "main",
		Export:      ast.DeclarationBank{Functions: []ast.FunctionDeclaration{fn}},
		Definitions: []ast.FunctionDefinition{def},
	}
}

func emitAndExecute(t *testing.T, mod *ast.Module) (*llcg.Executor, *hcg.Emitter) {
	ctx := log.Testing(t)

	db := types.NewDatabase(mod)
	e := hcg.NewEmitter(mod.Name, device.HostABI(), db, nil)
	if !assert.For(ctx, "EmitModule").ThatError(e.EmitModule(mod)).Succeeded() {
		t.FailNow()
	}

	exe, err := e.Module().Executor(false)
	if !assert.For(ctx, "Executor").ThatError(err).Succeeded() {
		t.FailNow()
	}
	return exe, e
}

// findFunction resolves module.name's executable address through the
// emitter's function table and the just-built executor.
func findFunction(exe *llcg.Executor, e *hcg.Emitter, module, name string) (unsafe.Pointer, bool) {
	fn, ok := e.Function(module, name)
	if !ok {
		return nil, false
	}
	return exe.FunctionAddress(fn), true
}

// appendReturn wraps operand (an index into exprs) in a Return expression
// and appends it, returning the new index.
func appendReturn(exprs []ast.Expression, operand int) ([]ast.Expression, int) {
	exprs = append(exprs, ast.Expression{Kind: ast.ReturnExpr, LHS: operand})
	return exprs, len(exprs) - 1
}

func appendBlock(exprs []ast.Expression, children ...int) ([]ast.Expression, int) {
	exprs = append(exprs, ast.Expression{Kind: ast.BlockExpr, Children: children, LHS: -1, RHS: -1})
	return exprs, len(exprs) - 1
}

func appendVar(exprs []ast.Expression, name string) ([]ast.Expression, int) {
	exprs = append(exprs, ast.Expression{Kind: ast.VariableExpr, Variable: &ast.VariableData{Name: name}, LHS: -1, RHS: -1})
	return exprs, len(exprs) - 1
}

func appendConstInt(exprs []ast.Expression, v int64) ([]ast.Expression, int) {
	exprs = append(exprs, ast.Expression{
		Kind:     ast.ConstantExpr,
		Constant: &ast.ConstantData{Kind: ast.ConstantInteger, Type: i32, Integer: v},
		LHS:      -1, RHS: -1,
	})
	return exprs, len(exprs) - 1
}

func appendBinary(exprs []ast.Expression, op ast.BinaryOperator, lhs, rhs int) ([]ast.Expression, int) {
	exprs = append(exprs, ast.Expression{
		Kind:   ast.BinaryExpr,
		Binary: &ast.BinaryData{Op: op, LHS: lhs, RHS: rhs},
		LHS:    -1, RHS: -1,
	})
	return exprs, len(exprs) - 1
}

// TestAddFunction covers the seed "hello world"-adjacent case: a function
// with two integer parameters and a single arithmetic return.
func TestAddFunction(t *testing.T) {
	var exprs []ast.Expression
	var a, b, sum, ret int
	exprs, a = appendVar(exprs, "a")
	exprs, b = appendVar(exprs, "b")
	exprs, sum = appendBinary(exprs, ast.OpAdd, a, b)
	exprs, ret = appendReturn(exprs, sum)
	exprs, block := appendBlock(exprs, ret)

	decl := ast.FunctionDeclaration{
		Name:   "add",
		Inputs: []ast.Parameter{{Name: "a", Type: i32}, {Name: "b", Type: i32}},
		Outputs: []ast.TypeReference{i32},
	}
	def := ast.FunctionDefinition{Name: "add", Body: ast.Statement{Expressions: exprs, Root: block}}

	exe, e := emitAndExecute(t, oneFunctionModule(decl, def))

	ctx := log.Testing(t)
	fn, ok := findFunction(exe, e, "main", "add")
	if !assert.For(ctx, "function found").That(ok).Equals(true) {
		return
	}
	got := call.III(fn, 2, 3)
	assert.For(ctx, "add(2, 3)").ThatInteger(got).Equals(5)
}

// TestBinaryPrecedenceShapedTree exercises a tree shaped the way the
// parser would build it for `a + b * b`: Mul binds tighter than Add, so
// the Mul node is nested as Add's right child rather than the reverse.
func TestBinaryPrecedenceShapedTree(t *testing.T) {
	var exprs []ast.Expression
	var a, b, mul, add, ret int
	exprs, a = appendVar(exprs, "a")
	exprs, b = appendVar(exprs, "b")
	var b2 int
	exprs, b2 = appendVar(exprs, "b")
	exprs, mul = appendBinary(exprs, ast.OpMul, b, b2)
	exprs, add = appendBinary(exprs, ast.OpAdd, a, mul)
	exprs, ret = appendReturn(exprs, add)
	exprs, block := appendBlock(exprs, ret)

	decl := ast.FunctionDeclaration{
		Name:    "compute",
		Inputs:  []ast.Parameter{{Name: "a", Type: i32}, {Name: "b", Type: i32}},
		Outputs: []ast.TypeReference{i32},
	}
	def := ast.FunctionDefinition{Name: "compute", Body: ast.Statement{Expressions: exprs, Root: block}}

	exe, e := emitAndExecute(t, oneFunctionModule(decl, def))

	ctx := log.Testing(t)
	fn, ok := findFunction(exe, e, "main", "compute")
	if !assert.For(ctx, "function found").That(ok).Equals(true) {
		return
	}
	got := call.III(fn, 4, 3)
	assert.For(ctx, "compute(4, 3) == 4 + 3*3").ThatInteger(got).Equals(13)
}

// TestIfElseBranching covers a two-way branch where each arm returns
// directly, the shape emitIf/Builder.IfElse must support.
func TestIfElseBranching(t *testing.T) {
	var exprs []ast.Expression
	var a, b, cond int
	exprs, a = appendVar(exprs, "a")
	exprs, b = appendVar(exprs, "b")
	exprs, cond = appendBinary(exprs, ast.OpGreater, a, b)

	var aRet int
	exprs, a2 := appendVar(exprs, "a")
	exprs, aRet = appendReturn(exprs, a2)
	exprs, thenBlock := appendBlock(exprs, aRet)

	var bRet int
	exprs, b2 := appendVar(exprs, "b")
	exprs, bRet = appendReturn(exprs, b2)
	exprs, elseBlock := appendBlock(exprs, bRet)

	exprs = append(exprs, ast.Expression{
		Kind: ast.IfExpr,
		If:   &ast.IfData{Condition: cond, ThenBlock: thenBlock, ElseBlock: elseBlock},
		LHS:  -1, RHS: -1,
	})
	ifIdx := len(exprs) - 1
	exprs, block := appendBlock(exprs, ifIdx)

	decl := ast.FunctionDeclaration{
		Name:    "max",
		Inputs:  []ast.Parameter{{Name: "a", Type: i32}, {Name: "b", Type: i32}},
		Outputs: []ast.TypeReference{i32},
	}
	def := ast.FunctionDefinition{Name: "max", Body: ast.Statement{Expressions: exprs, Root: block}}

	exe, e := emitAndExecute(t, oneFunctionModule(decl, def))

	ctx := log.Testing(t)
	fn, ok := findFunction(exe, e, "main", "max")
	if !assert.For(ctx, "function found").That(ok).Equals(true) {
		return
	}
	assert.For(ctx, "max(7, 2)").ThatInteger(call.III(fn, 7, 2)).Equals(7)
	assert.For(ctx, "max(2, 9)").ThatInteger(call.III(fn, 2, 9)).Equals(9)
}

// TestWhileLoopSum sums 0..9 with a while loop that runs until its
// condition fails (the body has no break), exercising the raw-block loop
// wiring.
func TestWhileLoopSum(t *testing.T) {
	var exprs []ast.Expression

	// var i int32 = 0
	exprs, zero := appendConstInt(exprs, 0)
	exprs = append(exprs, ast.Expression{
		Kind:         ast.VariableDeclExpr,
		VariableDecl: &ast.VariableDeclData{Name: "i", RHS: zero},
		LHS:          -1, RHS: -1,
	})
	declI := len(exprs) - 1

	// var total int32 = 0
	exprs, zero2 := appendConstInt(exprs, 0)
	exprs = append(exprs, ast.Expression{
		Kind:         ast.VariableDeclExpr,
		VariableDecl: &ast.VariableDeclData{Name: "total", RHS: zero2},
		LHS:          -1, RHS: -1,
	})
	declTotal := len(exprs) - 1

	// while i < 10 { total = total + i; i = i + 1 }
	exprs, iRef := appendVar(exprs, "i")
	exprs, ten := appendConstInt(exprs, 10)
	exprs, cond := appendBinary(exprs, ast.OpLess, iRef, ten)

	exprs, totalRef1 := appendVar(exprs, "total")
	exprs, iRef2 := appendVar(exprs, "i")
	exprs, sum := appendBinary(exprs, ast.OpAdd, totalRef1, iRef2)
	lhsTotal := appendLHSVar(&exprs, "total")
	exprs = append(exprs, ast.Expression{
		Kind:       ast.AssignmentExpr,
		Assignment: &ast.AssignmentData{LHS: lhsTotal, RHS: sum, Op: ast.AssignPlain},
		LHS:        -1, RHS: -1,
	})
	assignTotal := len(exprs) - 1

	exprs, one := appendConstInt(exprs, 1)
	exprs, iRef3 := appendVar(exprs, "i")
	exprs, inc := appendBinary(exprs, ast.OpAdd, iRef3, one)
	lhsI := appendLHSVar(&exprs, "i")
	exprs = append(exprs, ast.Expression{
		Kind:       ast.AssignmentExpr,
		Assignment: &ast.AssignmentData{LHS: lhsI, RHS: inc, Op: ast.AssignPlain},
		LHS:        -1, RHS: -1,
	})
	assignI := len(exprs) - 1

	exprs, loopBody := appendBlock(exprs, assignTotal, assignI)
	exprs = append(exprs, ast.Expression{
		Kind:      ast.WhileLoopExpr,
		WhileLoop: &ast.WhileLoopData{Condition: cond, Body: loopBody},
		LHS:       -1, RHS: -1,
	})
	whileIdx := len(exprs) - 1

	exprs, totalRet := appendVar(exprs, "total")
	exprs, ret := appendReturn(exprs, totalRet)

	exprs, block := appendBlock(exprs, declI, declTotal, whileIdx, ret)

	decl := ast.FunctionDeclaration{Name: "sumToTen", Outputs: []ast.TypeReference{i32}}
	def := ast.FunctionDefinition{Name: "sumToTen", Body: ast.Statement{Expressions: exprs, Root: block}}

	exe, e := emitAndExecute(t, oneFunctionModule(decl, def))

	ctx := log.Testing(t)
	fn, ok := findFunction(exe, e, "main", "sumToTen")
	if !assert.For(ctx, "function found").That(ok).Equals(true) {
		return
	}
	assert.For(ctx, "sumToTen()").ThatInteger(call.I(fn)).Equals(45)
}

// appendLHSVar appends a fresh VariableExpr naming name to *exprs (an
// lvalue operand for an AssignmentData must be its own node, distinct
// from any VariableExpr used to read the same name) and returns its index.
func appendLHSVar(exprs *[]ast.Expression, name string) int {
	*exprs = append(*exprs, ast.Expression{Kind: ast.VariableExpr, Variable: &ast.VariableData{Name: name}, LHS: -1, RHS: -1})
	return len(*exprs) - 1
}

// TestSwitchWithDefault exercises the raw-block switch emission, cases
// tested in order against a scrutinee that matches the second case.
func TestSwitchWithDefault(t *testing.T) {
	var exprs []ast.Expression
	exprs, scrutinee := appendConstInt(exprs, 2)

	exprs, c1 := appendConstInt(exprs, 1)
	exprs, r1 := appendConstInt(exprs, 10)
	exprs, ret1 := appendReturn(exprs, r1)
	exprs, body1 := appendBlock(exprs, ret1)

	exprs, c2 := appendConstInt(exprs, 2)
	exprs, r2 := appendConstInt(exprs, 20)
	exprs, ret2 := appendReturn(exprs, r2)
	exprs, body2 := appendBlock(exprs, ret2)

	exprs, rDefault := appendConstInt(exprs, -1)
	exprs, retDefault := appendReturn(exprs, rDefault)
	exprs, defaultBody := appendBlock(exprs, retDefault)

	exprs = append(exprs, ast.Expression{
		Kind: ast.SwitchExpr,
		Switch: &ast.SwitchData{
			Value: scrutinee,
			Cases: []ast.SwitchCase{
				{Value: c1, Body: body1},
				{Value: c2, Body: body2},
			},
			Default: defaultBody,
		},
		LHS: -1, RHS: -1,
	})
	switchIdx := len(exprs) - 1
	exprs, block := appendBlock(exprs, switchIdx)

	decl := ast.FunctionDeclaration{Name: "classify", Outputs: []ast.TypeReference{i32}}
	def := ast.FunctionDefinition{Name: "classify", Body: ast.Statement{Expressions: exprs, Root: block}}

	exe, e := emitAndExecute(t, oneFunctionModule(decl, def))

	ctx := log.Testing(t)
	fn, ok := findFunction(exe, e, "main", "classify")
	if !assert.For(ctx, "function found").That(ok).Equals(true) {
		return
	}
	assert.For(ctx, "classify()").ThatInteger(call.I(fn)).Equals(20)
}

// TestHelloWorldCallsPutsThroughCABI is spec.md §8's seed scenario 1: a
// module that imports C.stdio and calls puts("Hello world!") must emit a
// direct call to the C symbol puts, not an indirect call through some
// synthesized cross-module thunk. The exact global name the string
// constant is assigned isn't part of the contract (LLVM's own name
// mangling owns that); what's checked is the string's bytes and the call
// target.
func TestHelloWorldCallsPutsThroughCABI(t *testing.T) {
	charPtr := ast.CreatePointerType([]ast.TypeReference{ast.CreateFundamentalType(ast.Byte)}, false)

	stdio := &ast.Module{
		Name: "C.stdio",
		Export: ast.DeclarationBank{
			Functions: []ast.FunctionDeclaration{{
				Name:       "puts",
				UniqueName: "puts",
				Inputs:     []ast.Parameter{{Name: "s", Type: charPtr}},
				Outputs:    []ast.TypeReference{i32},
				Linkage:    ast.LinkageExternal,
			}},
		},
	}

	var exprs []ast.Expression
	exprs = append(exprs, ast.Expression{Kind: ast.VariableExpr, Variable: &ast.VariableData{Name: "stdio"}, LHS: -1, RHS: -1})
	stdioVar := len(exprs) - 1
	exprs = append(exprs, ast.Expression{Kind: ast.AccessExpr, Access: &ast.AccessData{Receiver: stdioVar, Member: "puts"}, LHS: -1, RHS: -1})
	putsAccess := len(exprs) - 1
	exprs = append(exprs, ast.Expression{
		Kind:     ast.ConstantExpr,
		Constant: &ast.ConstantData{Kind: ast.ConstantString, Type: charPtr, String: "Hello world!"},
		LHS:      -1, RHS: -1,
	})
	greeting := len(exprs) - 1
	exprs = append(exprs, ast.Expression{Kind: ast.CallExpr, Call: &ast.CallData{Callee: putsAccess, Arguments: []int{greeting}}, LHS: -1, RHS: -1})
	callIdx := len(exprs) - 1
	exprs, zero := appendConstInt(exprs, 0)
	exprs, ret := appendReturn(exprs, zero)
	exprs, block := appendBlock(exprs, callIdx, ret)

	decl := ast.FunctionDeclaration{Name: "main", Outputs: []ast.TypeReference{i32}, Linkage: ast.LinkageExternal}
	def := ast.FunctionDefinition{Name: "main", Body: ast.Statement{Expressions: exprs, Root: block}}

	module := &ast.Module{
		Name:         "main",
		Dependencies: []ast.Dependency{{ModuleName: "C.stdio", Alias: "stdio"}},
		Export:       ast.DeclarationBank{Functions: []ast.FunctionDeclaration{decl}},
		Definitions:  []ast.FunctionDefinition{def},
	}

	ctx := log.Testing(t)
	db := types.NewDatabase(stdio, module)
	e := hcg.NewEmitter(module.Name, device.HostABI(), db, nil)
	if !assert.For(ctx, "EmitModule").ThatError(e.EmitModule(module)).Succeeded() {
		t.FailNow()
	}

	ir := e.Module().String()
	assert.For(ctx, "calls puts").That(strings.Contains(ir, "@puts")).Equals(true)
	assert.For(ctx, "greeting text").That(strings.Contains(ir, "Hello world!")).Equals(true)
}
