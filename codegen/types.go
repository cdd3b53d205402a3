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

	"github.com/JPMMaia/H-sub000/ast"
	llcg "github.com/JPMMaia/H-sub000/core/codegen"
)

// lowerType maps a source type reference to its LLVM representation,
// declaring any struct/enum/union it transitively names; each name is
// registered before its body is set so that recursive and
// mutually-referencing declarations resolve.
func (e *Emitter) lowerType(t ast.TypeReference) llcg.Type {
	switch t.Kind {
	case ast.BuiltinReference:
		return e.lowerBuiltin(t.Builtin)
	case ast.FundamentalReference:
		return e.lowerFundamental(t.Fundamental)
	case ast.IntegerReference:
		return e.lowerInteger(t.Integer)
	case ast.PointerReference:
		if t.Pointer.IsVoid() {
			return e.m.Types.Pointer(e.m.Types.Uint8)
		}
		return e.m.Types.Pointer(e.lowerType(t.Pointer.Elements[0]))
	case ast.ConstantArrayReference:
		return e.m.Types.Array(e.lowerType(t.ConstantArray.ValueType), int(t.ConstantArray.Size))
	case ast.FunctionPointerReference:
		fd := t.FunctionPointer.Type
		params := make([]llcg.Type, len(fd.InputParameterTypes))
		for i, p := range fd.InputParameterTypes {
			params[i] = e.lowerType(p)
		}
		return e.m.Types.Pointer(e.m.Types.Function(e.lowerOutputs(fd.OutputParameterTypes), params...))
	case ast.CustomReference:
		return e.lowerCustom(t.Custom.ModuleReference, t.Custom.Name)
	case ast.NullPointerReference:
		return e.m.Types.Pointer(e.m.Types.Uint8)
	default:
		fail("cannot lower type reference of kind %v", t.Kind)
		return nil
	}
}

func (e *Emitter) lowerOutputs(outputs []ast.TypeReference) llcg.Type {
	if len(outputs) == 0 {
		return e.m.Types.Void
	}
	return e.lowerType(outputs[0])
}

func (e *Emitter) lowerBuiltin(name string) llcg.Type {
	if ty, ok := e.builtins[name]; ok {
		return ty
	}
	fail("reference to unknown builtin type %q", name)
	return nil
}

func (e *Emitter) lowerFundamental(f ast.Fundamental) llcg.Type {
	switch f {
	case ast.Bool, ast.CBool:
		return e.m.Types.Bool
	case ast.Byte:
		return e.m.Types.Uint8
	case ast.Float16, ast.Float32:
		return e.m.Types.Float32
	case ast.Float64:
		return e.m.Types.Float64
	case ast.CChar:
		return e.m.Types.Int8
	case ast.CShort:
		return e.m.Types.Int16
	case ast.CUShort:
		return e.m.Types.Uint16
	case ast.CInt:
		return e.m.Types.Int32
	case ast.CUInt:
		return e.m.Types.Uint32
	case ast.CLong, ast.CLongLong:
		return e.m.Types.Int64
	case ast.CULong, ast.CULongLong:
		return e.m.Types.Uint64
	default:
		fail("unhandled fundamental type %v", f)
		return nil
	}
}

func (e *Emitter) lowerInteger(d ast.IntegerData) llcg.Type {
	switch {
	case d.NumberOfBits <= 8:
		if d.IsSigned {
			return e.m.Types.Int8
		}
		return e.m.Types.Uint8
	case d.NumberOfBits <= 16:
		if d.IsSigned {
			return e.m.Types.Int16
		}
		return e.m.Types.Uint16
	case d.NumberOfBits <= 32:
		if d.IsSigned {
			return e.m.Types.Int32
		}
		return e.m.Types.Uint32
	default:
		if d.IsSigned {
			return e.m.Types.Int64
		}
		return e.m.Types.Uint64
	}
}

// lowerCustom resolves a custom type reference through the declaration
// database, returning the matching struct/enum/union/alias codegen type,
// declaring its body the first time it is seen.
func (e *Emitter) lowerCustom(module, name string) llcg.Type {
	key := module + "." + name
	if ty, ok := e.named[key]; ok {
		return ty
	}

	d, ok := e.db.FindDeclaration(module, name)
	if !ok {
		fail("undeclared type %s.%s", module, name)
		return nil
	}

	switch d.Kind {
	case ast.DeclAlias:
		a := e.m.Types.Alias(key, e.lowerType(d.Alias.Type))
		e.named[key] = a
		return a
	case ast.DeclEnum:
		en := e.m.Types.Enum(key)
		e.named[key] = en
		return en
	case ast.DeclStruct:
		s := e.m.Types.DeclareStruct(key)
		e.named[key] = s // registered before SetBody so recursive pointers resolve
		fields := make([]llcg.Field, len(d.Struct.Members))
		for i, m := range d.Struct.Members {
			fields[i] = llcg.Field{Name: m.Name, Type: e.lowerType(m.Type)}
		}
		s.SetBody(d.Struct.IsPacked, fields...)
		return s
	case ast.DeclUnion:
		return e.lowerUnion(key, d.Union)
	default:
		fail("type reference to %s.%s does not name a type", module, name)
		return nil
	}
}

// lowerUnion represents a union as a single storage array sized to its
// widest member and aligned to its most-aligned member (up to 8 bytes),
// the same representation a C compiler gives a
// union with no language-level discriminant (spec.md has no union-layout
// contract beyond "the members overlap").
func (e *Emitter) lowerUnion(key string, u *ast.UnionDeclaration) llcg.Type {
	s := e.m.Types.DeclareStruct(key)
	e.named[key] = s

	widest, align := 0, 8
	for _, m := range u.Members {
		mt := e.lowerType(m.Type)
		if b := mt.SizeInBits(); b > widest {
			widest = b
		}
		if a := mt.AlignInBits(); a > align {
			align = a
		}
	}
	elem, unit := e.m.Types.Uint8, 8
	switch {
	case align >= 64:
		elem, unit = e.m.Types.Uint64, 64
	case align >= 32:
		elem, unit = e.m.Types.Uint32, 32
	case align >= 16:
		elem, unit = e.m.Types.Uint16, 16
	}
	count := (widest + unit - 1) / unit
	if count == 0 {
		count = 1
	}
	s.SetBody(false, llcg.Field{Name: "storage", Type: e.m.Types.Array(elem, count)})
	return s
}

func fail(format string, args ...interface{}) {
	panic(fmt.Errorf(format, args...))
}
