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

package codegen

import (
	"fmt"

	"github.com/JPMMaia/H-sub000/abi"
	"github.com/JPMMaia/H-sub000/ast"
	llcg "github.com/JPMMaia/H-sub000/core/codegen"
)

// emitExpr lowers one expression of s, recursively emitting its children.
// Container and control-flow kinds (Block, If, loops, Switch) must emit
// their children themselves rather than have them pre-evaluated bottom-up,
// since a condition decides whether a child even runs. The return value is
// nil for expressions that produce no value (statements used for effect).
func (f *Frame) emitExpr(s *ast.Statement, idx int) *llcg.Value {
	e := &s.Expressions[idx]
	switch e.Kind {
	case ast.BlockExpr:
		// Locals declared inside the block go out of scope when it ends.
		saved := make(map[string]*llcg.Value, len(f.locals))
		for k, v := range f.locals {
			saved[k] = v
		}
		for _, c := range e.Children {
			f.emitExpr(s, c)
			if f.b.IsBlockTerminated() {
				break
			}
		}
		f.locals = saved
		return nil

	case ast.ConstantExpr:
		return f.emitConstant(e.Constant)

	case ast.ConstantArrayExpr:
		return f.emitConstantArray(s, e.ConstantArray)

	case ast.VariableExpr:
		return f.emitAddress(s, idx).Load()

	case ast.ParenthesisExpr:
		return f.emitExpr(s, e.LHS)

	case ast.VariableDeclExpr, ast.VariableDeclWithTypeExpr:
		f.emitVariableDecl(s, e.VariableDecl)
		return nil

	case ast.AssignmentExpr:
		f.emitAssignment(s, e.Assignment)
		return nil

	case ast.BinaryExpr:
		return f.emitBinary(s, e.Binary)

	case ast.UnaryExpr:
		return f.emitUnary(s, e.Unary)

	case ast.AccessExpr, ast.DereferenceAndAccessExpr:
		return f.emitAddress(s, idx).Load()

	case ast.CastExpr:
		return f.emitCast(s, e.Cast)

	case ast.CallExpr:
		return f.emitCall(s, e.Call)

	case ast.InstanceCallExpr:
		return f.emitInstanceCall(s, e.InstanceCall)

	case ast.IfExpr:
		f.emitIf(s, e.If)
		return nil

	case ast.TernaryExpr:
		return f.emitTernary(s, e.Ternary)

	case ast.WhileLoopExpr:
		f.emitWhile(s, e.WhileLoop)
		return nil

	case ast.ForLoopExpr:
		f.emitForLoop(s, e.ForLoop)
		return nil

	case ast.SwitchExpr:
		f.emitSwitch(s, e.Switch)
		return nil

	case ast.BreakExpr:
		f.emitBreak(e.Break.LoopCount)
		return nil

	case ast.ContinueExpr:
		f.emitContinue()
		return nil

	case ast.ReturnExpr:
		if e.LHS >= 0 {
			f.b.Return(f.emitExpr(s, e.LHS))
		} else {
			f.b.Return(nil)
		}
		return nil

	case ast.DeferExpr:
		fail("defer is not supported by this code generator")
		return nil

	case ast.NullPointerExpr:
		return f.b.Zero(f.e.lowerType(ast.CreateNullPointerType()))

	case ast.InstantiateExpr:
		return f.emitInstantiate(s, e.Instantiate)

	case ast.TypeExpr, ast.FunctionExpr:
		// Neither produces a runtime value on its own: a TypeExpr only
		// ever appears as an operand of Cast/Instantiate (handled there),
		// and a nested FunctionExpr names a closure this backend does not
		// support emitting directly.
		return nil

	default:
		fail("codegen: unhandled expression kind %v", e.Kind)
		return nil
	}
}

// emitAddress computes the pointer to an lvalue: a variable, a struct
// field access, or a pointer dereference-and-access. Everything else has
// no address and emitAddress must not be called on it.
func (f *Frame) emitAddress(s *ast.Statement, idx int) *llcg.Value {
	e := &s.Expressions[idx]
	switch e.Kind {
	case ast.VariableExpr:
		if local, ok := f.locals[e.Variable.Name]; ok {
			return local
		}
		return f.e.lowerGlobal(f.module, e.Variable.Name).Value(f.b)

	case ast.AccessExpr:
		if e.Access.Receiver < 0 {
			// Bare-identifier shorthand: resolves the same as a plain
			// variable reference.
			if local, ok := f.locals[e.Access.Member]; ok {
				return local
			}
			return f.e.lowerGlobal(f.module, e.Access.Member).Value(f.b)
		}
		receiver := f.emitAddress(s, e.Access.Receiver)
		return receiver.Index(e.Access.Member)

	case ast.DereferenceAndAccessExpr:
		ptr := f.emitExpr(s, e.LHS)
		return ptr.Index(e.Access.Member)

	case ast.UnaryExpr:
		if e.Unary.Op == ast.OpIndirection {
			return f.emitExpr(s, e.Unary.Operand)
		}
	case ast.ParenthesisExpr:
		return f.emitAddress(s, e.LHS)
	}
	fail("expression of kind %v is not an lvalue", e.Kind)
	return nil
}

func (f *Frame) emitVariableDecl(s *ast.Statement, d *ast.VariableDeclData) {
	var alloca *llcg.Value
	if d.RHS >= 0 {
		v := f.emitExpr(s, d.RHS)
		alloca = f.b.LocalInit(d.Name, v)
	} else {
		ty := f.e.lowerType(*d.DeclaredType)
		alloca = f.b.Local(d.Name, ty)
	}
	f.locals[d.Name] = alloca
}

func (f *Frame) emitAssignment(s *ast.Statement, d *ast.AssignmentData) {
	addr := f.emitAddress(s, d.LHS)
	rhs := f.emitExpr(s, d.RHS)
	if d.Op == ast.AssignPlain {
		addr.Store(rhs)
		return
	}
	cur := addr.Load()
	addr.Store(f.applyBinary(compoundOp(d.Op), cur, rhs))
}

func compoundOp(op ast.AssignmentOperator) ast.BinaryOperator {
	switch op {
	case ast.AssignAdd:
		return ast.OpAdd
	case ast.AssignSub:
		return ast.OpSub
	case ast.AssignMul:
		return ast.OpMul
	case ast.AssignDiv:
		return ast.OpDiv
	case ast.AssignMod:
		return ast.OpMod
	case ast.AssignBitwiseAnd:
		return ast.OpBitwiseAnd
	case ast.AssignBitwiseOr:
		return ast.OpBitwiseOr
	case ast.AssignBitwiseXor:
		return ast.OpBitwiseXor
	case ast.AssignShiftLeft:
		return ast.OpShiftLeft
	case ast.AssignShiftRight:
		return ast.OpShiftRight
	default:
		fail("unhandled compound assignment operator %v", op)
		return 0
	}
}

func (f *Frame) emitBinary(s *ast.Statement, d *ast.BinaryData) *llcg.Value {
	// Logical and/or short-circuit: the right operand must not be
	// evaluated unless it can affect the result.
	if d.Op == ast.OpLogicalAnd || d.Op == ast.OpLogicalOr {
		return f.emitShortCircuit(s, d)
	}
	lhs := f.emitExpr(s, d.LHS)
	rhs := f.emitExpr(s, d.RHS)
	return f.applyBinary(d.Op, lhs, rhs)
}

func (f *Frame) emitShortCircuit(s *ast.Statement, d *ast.BinaryData) *llcg.Value {
	lhs := f.emitExpr(s, d.LHS)
	alloca := f.b.LocalInit("logical", lhs)
	if d.Op == ast.OpLogicalAnd {
		f.b.If(lhs, func() {
			alloca.Store(f.emitExpr(s, d.RHS))
		})
	} else {
		f.b.If(f.b.Not(lhs), func() {
			alloca.Store(f.emitExpr(s, d.RHS))
		})
	}
	return alloca.Load()
}

func (f *Frame) applyBinary(op ast.BinaryOperator, lhs, rhs *llcg.Value) *llcg.Value {
	b := f.b
	switch op {
	case ast.OpAdd:
		return b.Add(lhs, rhs)
	case ast.OpSub:
		return b.Sub(lhs, rhs)
	case ast.OpMul:
		return b.Mul(lhs, rhs)
	case ast.OpDiv:
		return b.Div(lhs, rhs)
	case ast.OpMod:
		return b.Rem(lhs, rhs)
	case ast.OpEqual:
		return b.Equal(lhs, rhs)
	case ast.OpNotEqual:
		return b.NotEqual(lhs, rhs)
	case ast.OpLess:
		return b.LessThan(lhs, rhs)
	case ast.OpLessEqual:
		return b.LessOrEqualTo(lhs, rhs)
	case ast.OpGreater:
		return b.GreaterThan(lhs, rhs)
	case ast.OpGreaterEqual:
		return b.GreaterOrEqualTo(lhs, rhs)
	case ast.OpBitwiseAnd:
		return b.And(lhs, rhs)
	case ast.OpBitwiseOr:
		return b.Or(lhs, rhs)
	case ast.OpBitwiseXor:
		return b.Xor(lhs, rhs)
	case ast.OpShiftLeft:
		return b.ShiftLeft(lhs, rhs)
	case ast.OpShiftRight:
		return b.ShiftRight(lhs, rhs)
	default:
		fail("unhandled binary operator %v", op)
		return nil
	}
}

func (f *Frame) emitUnary(s *ast.Statement, d *ast.UnaryData) *llcg.Value {
	switch d.Op {
	case ast.OpNot:
		return f.b.Not(f.emitExpr(s, d.Operand))
	case ast.OpMinus:
		return f.b.Negate(f.emitExpr(s, d.Operand))
	case ast.OpBitwiseNot:
		return f.b.Invert(f.emitExpr(s, d.Operand))
	case ast.OpAddressOf:
		return f.emitAddress(s, d.Operand)
	case ast.OpIndirection:
		return f.emitExpr(s, d.Operand).Load()
	case ast.OpPreIncrement, ast.OpPreDecrement:
		addr := f.emitAddress(s, d.Operand)
		nv := f.stepBy(addr.Load(), d.Op == ast.OpPreIncrement)
		addr.Store(nv)
		return nv
	case ast.OpPostIncrement, ast.OpPostDecrement:
		addr := f.emitAddress(s, d.Operand)
		old := addr.Load()
		addr.Store(f.stepBy(old, d.Op == ast.OpPostIncrement))
		return old
	default:
		fail("unhandled unary operator %v", d.Op)
		return nil
	}
}

func (f *Frame) stepBy(v *llcg.Value, inc bool) *llcg.Value {
	one := f.b.One(v.Type())
	if inc {
		return f.b.Add(v, one)
	}
	return f.b.Sub(v, one)
}

func (f *Frame) emitCast(s *ast.Statement, d *ast.CastData) *llcg.Value {
	v := f.emitExpr(s, d.Operand)
	ty := f.e.lowerType(d.DestinationType)
	return v.Cast(ty)
}

func (f *Frame) emitIf(s *ast.Statement, d *ast.IfData) {
	cond := f.emitExpr(s, d.Condition)
	if d.ElseBlock >= 0 {
		f.b.IfElse(cond,
			func() { f.emitExpr(s, d.ThenBlock) },
			func() { f.emitExpr(s, d.ElseBlock) })
	} else {
		f.b.If(cond, func() { f.emitExpr(s, d.ThenBlock) })
	}
}

func (f *Frame) emitTernary(s *ast.Statement, d *ast.TernaryData) *llcg.Value {
	cond := f.emitExpr(s, d.Condition)
	var result *llcg.Value
	f.b.IfElse(cond,
		func() {
			v := f.emitExpr(s, d.Then)
			if result == nil {
				result = f.b.Local("ternary_result", v.Type())
			}
			result.Store(v)
		},
		func() {
			v := f.emitExpr(s, d.Else)
			if result == nil {
				result = f.b.Local("ternary_result", v.Type())
			}
			result.Store(v)
		})
	return result.Load()
}

func (f *Frame) emitWhile(s *ast.Statement, d *ast.WhileLoopData) {
	test := f.b.NewBlock("while_test")
	body := f.b.NewBlock("while_body")
	after := f.b.NewBlock("while_after")

	f.b.Branch(test)

	f.b.SetBlock(test)
	cond := f.emitExpr(s, d.Condition)
	f.b.CondBranch(cond, body, after)

	f.b.SetBlock(body)
	f.pushLoop(test, after)
	f.emitExpr(s, d.Body)
	f.pop()
	f.b.Branch(test)

	f.b.SetBlock(after)
}

func (f *Frame) emitForLoop(s *ast.Statement, d *ast.ForLoopData) {
	begin := f.emitExpr(s, d.RangeBegin)
	end := f.emitExpr(s, d.RangeEnd)
	var step *llcg.Value
	if d.StepBy >= 0 {
		step = f.emitExpr(s, d.StepBy)
	} else {
		step = f.b.One(begin.Type())
	}

	it := f.b.LocalInit(d.VariableName, begin)
	restore := f.declareLocal(d.VariableName, it)
	defer restore()

	test := f.b.NewBlock("for_test")
	body := f.b.NewBlock("for_body")
	stepBlock := f.b.NewBlock("for_step")
	after := f.b.NewBlock("for_after")

	f.b.Branch(test)

	f.b.SetBlock(test)
	f.b.CondBranch(f.b.LessThan(it.Load(), end), body, after)

	f.b.SetBlock(body)
	f.pushLoop(stepBlock, after)
	f.emitExpr(s, d.Body)
	f.pop()
	f.b.Branch(stepBlock)

	f.b.SetBlock(stepBlock)
	it.Store(f.b.Add(it.Load(), step))
	f.b.Branch(test)

	f.b.SetBlock(after)
}

func (f *Frame) emitSwitch(s *ast.Statement, d *ast.SwitchData) {
	val := f.emitExpr(s, d.Value)

	after := f.b.NewBlock("switch_after")
	tests := make([]llcg.Block, len(d.Cases))
	bodies := make([]llcg.Block, len(d.Cases))
	for i := range d.Cases {
		tests[i] = f.b.NewBlock(fmt.Sprintf("switch_case_%d_test", i))
		bodies[i] = f.b.NewBlock(fmt.Sprintf("switch_case_%d_body", i))
	}
	defaultBody := after
	if d.Default >= 0 {
		defaultBody = f.b.NewBlock("switch_default")
	}

	if len(tests) > 0 {
		f.b.Branch(tests[0])
	} else {
		f.b.Branch(defaultBody)
	}

	for i, c := range d.Cases {
		f.b.SetBlock(tests[i])
		caseVal := f.emitExpr(s, c.Value)
		next := defaultBody
		if i+1 < len(tests) {
			next = tests[i+1]
		}
		f.b.CondBranch(f.b.Equal(val, caseVal), bodies[i], next)
	}

	f.pushSwitch(after)
	for i, c := range d.Cases {
		f.b.SetBlock(bodies[i])
		f.emitExpr(s, c.Body)
		f.b.Branch(after)
	}
	if d.Default >= 0 {
		f.b.SetBlock(defaultBody)
		f.emitExpr(s, d.Default)
		f.b.Branch(after)
	}
	f.pop()

	f.b.SetBlock(after)
}

func (f *Frame) emitConstant(d *ast.ConstantData) *llcg.Value {
	ty := f.e.lowerType(d.Type)
	if d.Kind == ast.ConstantNull {
		return f.b.Zero(ty)
	}
	return f.e.constScalar(*d, ty).Value(f.b)
}

// constScalar builds the compile-time constant for d as an instance of
// ty. Used both for in-body constant literals and for a global's static
// initializer.
func (e *Emitter) constScalar(d ast.ConstantData, ty llcg.Type) llcg.Const {
	switch d.Kind {
	case ast.ConstantBool:
		return e.m.ScalarOfType(d.Bool, ty)
	case ast.ConstantInteger:
		return e.m.ScalarOfType(d.Integer, ty)
	case ast.ConstantFloat:
		return e.m.ScalarOfType(d.Float, ty)
	case ast.ConstantString:
		return e.m.ScalarOfType(d.String, ty)
	default:
		fail("unhandled constant kind %v", d.Kind)
		return llcg.Const{}
	}
}

func (f *Frame) emitConstantArray(s *ast.Statement, d *ast.ConstantArrayExprData) *llcg.Value {
	elTy := f.e.lowerType(d.ElementType)
	arrTy := f.e.m.Types.Array(elTy, len(d.Elements))
	arr := f.b.Undef(arrTy)
	for i, idx := range d.Elements {
		arr = arr.Insert(i, f.emitExpr(s, idx))
	}
	return arr
}

func (f *Frame) emitInstantiate(s *ast.Statement, d *ast.InstantiateData) *llcg.Value {
	if d.TargetType == nil {
		fail("instantiate expression has no resolved target type")
	}
	ty := f.e.lowerType(*d.TargetType)
	st, ok := ty.(*llcg.Struct)
	if !ok {
		fail("instantiate target %v is not a struct", ty.TypeName())
	}
	v := f.b.Undef(st)
	for _, m := range d.Members {
		v = v.Insert(m.Name, f.emitExpr(s, m.Value))
	}
	return v
}

// resolveDirectCallee reports whether callee names a function
// declaration directly -- either in this module or, through a
// "module.Symbol" access, an imported one (the C-ABI bridge's calling
// convention for something like the standard library's puts) -- rather
// than a function-pointer value. Anything else (a parameter, a local, a
// struct member) is emitted as a value and called indirectly.
func (f *Frame) resolveDirectCallee(s *ast.Statement, idx int) (module, name string, ok bool) {
	e := &s.Expressions[idx]
	switch e.Kind {
	case ast.VariableExpr:
		if _, isLocal := f.locals[e.Variable.Name]; isLocal {
			return "", "", false
		}
		if _, ok := f.e.db.FindFunctionDeclaration(f.module, e.Variable.Name); ok {
			return f.module, e.Variable.Name, true
		}
		return "", "", false

	case ast.AccessExpr:
		if e.Access.Receiver < 0 {
			return "", "", false
		}
		recv, ok := s.Expr(e.Access.Receiver)
		if !ok || recv.Kind != ast.VariableExpr {
			return "", "", false
		}
		mod, ok := f.e.moduleForAlias(recv.Variable.Name)
		if !ok {
			return "", "", false
		}
		if _, ok := f.e.db.FindFunctionDeclaration(mod, e.Access.Member); ok {
			return mod, e.Access.Member, true
		}
		return "", "", false

	default:
		return "", "", false
	}
}

func (f *Frame) emitCall(s *ast.Statement, d *ast.CallData) *llcg.Value {
	if module, name, ok := f.resolveDirectCallee(s, d.Callee); ok {
		fn := f.e.declareFunction(module, mustFunctionDecl(f.e, module, name))
		info := f.e.functionABIs[functionKey(module, name)]
		args := f.prepareArguments(s, d.Arguments, info)
		return f.b.Call(fn, args...)
	}

	callee := f.emitExpr(s, d.Callee)
	ptrTy, ok := llcg.Underlying(callee.Type()).(llcg.Pointer)
	if !ok {
		fail("call target is not a function pointer")
	}
	fty, ok := llcg.Underlying(ptrTy.Element).(*llcg.FunctionType)
	if !ok {
		fail("call target is not a function pointer")
	}
	info := f.e.classifier.ClassifyFunction(fty.Signature)
	args := f.prepareArguments(s, d.Arguments, info)
	return f.b.CallIndirect(callee, args...)
}

func (f *Frame) emitInstanceCall(s *ast.Statement, d *ast.InstanceCallData) *llcg.Value {
	decl, ok := f.e.db.FindFunctionDeclaration(d.Module, d.ConstructorName)
	if !ok {
		fail("undeclared function-constructor instance %s.%s", d.Module, d.ConstructorName)
	}
	fn := f.e.declareFunction(d.Module, decl)
	info := f.e.functionABIs[functionKey(d.Module, decl.Name)]
	args := f.prepareArguments(s, d.Arguments, info)
	return f.b.Call(fn, args...)
}

func (f *Frame) prepareArguments(s *ast.Statement, argExprs []int, info *abi.FunctionABI) []*llcg.Value {
	args := make([]*llcg.Value, 0, len(argExprs))
	for i, idx := range argExprs {
		v := f.emitExpr(s, idx)
		var pinfo abi.ArgInfo
		if info != nil && i < len(info.Parameters) {
			pinfo = info.Parameters[i]
		}
		alloca := f.b.LocalInit("arg", v)
		prepared := f.e.classifier.PrepareArgument(pinfo, alloca)
		if prepared != nil {
			args = append(args, prepared)
		}
	}
	return args
}

func mustFunctionDecl(e *Emitter, module, name string) *ast.FunctionDeclaration {
	decl, ok := e.db.FindFunctionDeclaration(module, name)
	if !ok {
		fail("undeclared function %s.%s", module, name)
	}
	return decl
}
