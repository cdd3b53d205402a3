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

// Package abi replicates the platform C calling convention so that
// language-defined functions can freely call, and be called by, C code.
//
// There is no clang-AST binding available to build a real FunctionInfo
// the way a C++ frontend would, so this package is a from-scratch System
// V AMD64 classifier: it walks a function's parameter and result types
// and assigns each one an ABIArgInfo-style Kind plus (where the kind
// changes the LLVM-level representation) a coerce-to type.
package abi

import (
	"github.com/JPMMaia/H-sub000/core/codegen"
	"github.com/JPMMaia/H-sub000/core/os/device"
)

// Kind is the classification of a single argument or result, mirroring
// clang's ABIArgInfo::Kind.
type Kind int

const (
	// Direct passes the value unchanged, or coerced to CoerceType if set.
	Direct Kind = iota
	// Extend is Direct for an integer type smaller than a register that
	// must be sign- or zero-extended by the caller.
	Extend
	// Indirect passes the value via a hidden pointer to a caller-owned
	// copy; the callee receives a pointer parameter instead.
	Indirect
	// IndirectAliased is Indirect, but the callee may only read through
	// the pointer (the copy may alias caller state). Not produced by
	// this classifier; x86-64 SysV has no argument class that needs it.
	IndirectAliased
	// Ignore drops the argument entirely (a void parameter or result).
	Ignore
	// Expand recursively decomposes a struct/array into its leaf scalar
	// fields, each passed as its own argument. Not produced by this
	// classifier: x86-64 SysV never requires it (CoerceAndExpand or
	// Indirect always apply instead); kept so callers can exhaustively
	// switch over every kind spec.md §4.7 names.
	Expand
	// CoerceAndExpand passes an aggregate as a sequence of register-sized
	// pieces described by CoerceType (a struct of the per-eightbyte
	// classes), reassembled by the callee's prologue. Not produced by
	// this classifier: two-eightbyte aggregates are classified Direct
	// with CoerceType set directly, which has the same effect without a
	// separate expand step.
	CoerceAndExpand
	// InAlloca is the Windows x64 varargs/large-struct convention. Not
	// applicable to the System V target this classifier implements.
	InAlloca
)

func (k Kind) String() string {
	switch k {
	case Direct:
		return "direct"
	case Extend:
		return "extend"
	case Indirect:
		return "indirect"
	case IndirectAliased:
		return "indirect-aliased"
	case Ignore:
		return "ignore"
	case Expand:
		return "expand"
	case CoerceAndExpand:
		return "coerce-and-expand"
	case InAlloca:
		return "inalloca"
	default:
		return "unknown"
	}
}

// ArgInfo is the classification of a single parameter or result.
type ArgInfo struct {
	Kind Kind
	// CoerceType is the LLVM-level type the value is represented as at
	// the call boundary when it differs from its source type (a struct
	// split into integer/SSE eightbytes). Nil when the source type is
	// passed as-is.
	CoerceType codegen.Type
}

// FunctionABI is the classification of every parameter and the result of
// one function signature.
type FunctionABI struct {
	Result     ArgInfo
	Parameters []ArgInfo
}

// eightbyte classes. merge combines the classes found in one eightbyte the
// way the SysV ABI does: NONE yields to any other class, MEMORY wins over
// everything, and INTEGER wins over SSE.
type class int

const (
	classNone class = iota
	classInteger
	classSSE
	classMemory
)

func merge(a, b class) class {
	switch {
	case a == classNone:
		return b
	case b == classNone:
		return a
	case a == b:
		return a
	case a == classMemory || b == classMemory:
		return classMemory
	case a == classInteger || b == classInteger:
		return classInteger
	default:
		return classSSE
	}
}

// Classifier classifies argument and result types for one target ABI.
type Classifier struct {
	target *device.ABI
	types  *codegen.Types
}

// NewClassifier returns a Classifier for the given target. Only the x86-64
// System V rules are implemented, and they are applied whatever the
// target's architecture: the target is stored but classification does not
// consult it.
func NewClassifier(target *device.ABI, types *codegen.Types) *Classifier {
	return &Classifier{target: target, types: types}
}

// ClassifyFunction classifies every parameter and the result of sig.
func (c *Classifier) ClassifyFunction(sig codegen.Signature) *FunctionABI {
	out := &FunctionABI{
		Result:     c.classify(sig.Result),
		Parameters: make([]ArgInfo, len(sig.Parameters)),
	}
	for i, p := range sig.Parameters {
		out.Parameters[i] = c.classify(p)
	}
	return out
}

func (c *Classifier) classify(ty codegen.Type) ArgInfo {
	if ty == nil || ty == c.types.Void {
		return ArgInfo{Kind: Ignore}
	}

	switch {
	case codegen.IsPointer(ty):
		return ArgInfo{Kind: Direct}
	case codegen.IsBool(ty), codegen.IsIntegerOrEnum(ty):
		if ty.SizeInBits() < 32 {
			return ArgInfo{Kind: Extend}
		}
		return ArgInfo{Kind: Direct}
	case codegen.IsFloat(ty):
		return ArgInfo{Kind: Direct}
	case codegen.IsStruct(ty):
		return c.classifyAggregate(ty.(*codegen.Struct))
	case codegen.IsVector(ty):
		return ArgInfo{Kind: Direct}
	default:
		if arr, ok := ty.(*codegen.Array); ok {
			return c.classifyAggregateBits(arr, arr.SizeInBits())
		}
		return ArgInfo{Kind: Direct}
	}
}

// classifyAggregate implements SysV ABI §3.2.3 classification for structs:
// larger than two eightbytes, or aligned to more than 8 bytes, goes to
// MEMORY (Indirect); packed structs with unaligned fields are not singled
// out. Otherwise each eightbyte is classified by merging
// the classes of every field (recursively, for nested structs) that
// overlaps it, and the whole aggregate is coerced to a small struct of
// the resulting per-eightbyte machine types.
func (c *Classifier) classifyAggregate(s *codegen.Struct) ArgInfo {
	if s.AlignInBits() > 64 {
		// An aggregate with an 16-byte-or-wider aligned member cannot be
		// classified into 8-byte eightbytes without violating that
		// member's own alignment; SysV assigns it to MEMORY.
		return ArgInfo{Kind: Indirect}
	}
	return c.classifyAggregateBits(s, s.SizeInBits())
}

func (c *Classifier) classifyAggregateBits(ty codegen.Type, sizeBits int) ArgInfo {
	const eightbyteBits = 64
	if sizeBits == 0 || sizeBits > 2*eightbyteBits {
		return ArgInfo{Kind: Indirect}
	}

	n := (sizeBits + eightbyteBits - 1) / eightbyteBits
	classes := make([]class, n)
	classifyFields(ty, 0, classes)

	fields := make([]codegen.Field, 0, n)
	for i, cl := range classes {
		if cl == classMemory {
			return ArgInfo{Kind: Indirect}
		}
		ebTy := c.types.Int64
		if cl == classSSE {
			ebTy = c.types.Float64
		}
		fields = append(fields, codegen.Field{Name: eightbyteFieldName(i), Type: ebTy})
	}

	return ArgInfo{Kind: Direct, CoerceType: c.types.Struct(coerceStructName(ty), fields...)}
}

// classifyFields walks ty's leaf scalar fields (recursing into nested
// structs and arrays) and merges each one's class into the eightbyte(s)
// of classes it overlaps, given ty starts at bit offset base within the
// enclosing aggregate.
func classifyFields(ty codegen.Type, base int, classes []class) {
	switch t := ty.(type) {
	case *codegen.Struct:
		for i, f := range t.Fields() {
			classifyFields(f.Type, base+t.FieldOffsetInBits(i), classes)
		}
	case *codegen.Array:
		elBits := t.Element.SizeInBits()
		for i := 0; i < t.Size; i++ {
			classifyFields(t.Element, base+i*elBits, classes)
		}
	default:
		cl := classInteger
		if codegen.IsFloat(ty) {
			cl = classSSE
		}
		lo := base / 64
		hi := (base + ty.SizeInBits() - 1) / 64
		for i := lo; i <= hi && i < len(classes); i++ {
			classes[i] = merge(classes[i], cl)
		}
	}
}

func eightbyteFieldName(i int) string {
	names := [...]string{"lo", "hi"}
	if i < len(names) {
		return names[i]
	}
	return "eightbyte"
}

func coerceStructName(ty codegen.Type) string {
	return ty.TypeName() + ".coerce"
}
