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

// Package hash implements the declaration fingerprint engine of
// spec.md §4.3: one stable 64-bit hash per declaration, seeded at 0,
// covering only its structural interface -- never a function body. Two
// fingerprints are equal iff a dependent module can safely keep using its
// cached compilation.
package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/JPMMaia/H-sub000/ast"
)

// Module returns symbol_name -> fingerprint for every exported and
// internal declaration in m (spec.md §4.3).
func Module(m *ast.Module) map[string]uint64 {
	out := map[string]uint64{}
	hashBank(out, m.Export)
	hashBank(out, m.Internal)
	return out
}

func hashBank(out map[string]uint64, bank ast.DeclarationBank) {
	for i := range bank.Aliases {
		out[bank.Aliases[i].Name] = hashAlias(&bank.Aliases[i])
	}
	for i := range bank.Enums {
		out[bank.Enums[i].Name] = hashEnum(&bank.Enums[i])
	}
	for i := range bank.Structs {
		out[bank.Structs[i].Name] = hashStruct(&bank.Structs[i])
	}
	for i := range bank.Unions {
		out[bank.Unions[i].Name] = hashUnion(&bank.Unions[i])
	}
	for i := range bank.Functions {
		out[bank.Functions[i].Name] = hashFunction(&bank.Functions[i])
	}
	for i := range bank.Globals {
		out[bank.Globals[i].Name] = hashGlobal(&bank.Globals[i])
	}
}

// digest accumulates an XXH64 stream with seed 0, mirroring the C++
// XXH64_state_t usage in Hash.cpp: every structural field is fed through
// update(), nothing is ever read back until Sum() at the end.
type digest struct {
	d *xxhash.Digest
}

func newDigest() digest {
	return digest{d: xxhash.New()}
}

func (h digest) bytes(b []byte) { h.d.Write(b) }

func (h digest) string(s string) { h.d.Write([]byte(s)) }

func (h digest) uint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	h.bytes(b[:])
}

func (h digest) int(v int) { h.uint64(uint64(int64(v))) }

func (h digest) bool(v bool) {
	if v {
		h.bytes([]byte{1})
	} else {
		h.bytes([]byte{0})
	}
}

func (h digest) sum() uint64 { return h.d.Sum64() }

// hashTypeReference hashes a type reference by traversal: index of the
// variant, followed by structural content (spec.md §4.3).
func hashTypeReference(h digest, t ast.TypeReference) {
	h.int(int(t.Kind))
	switch t.Kind {
	case ast.BuiltinReference:
		h.string(t.Builtin)
	case ast.FundamentalReference:
		h.int(int(t.Fundamental))
	case ast.IntegerReference:
		h.int(t.Integer.NumberOfBits)
		h.bool(t.Integer.IsSigned)
	case ast.PointerReference:
		for _, e := range t.Pointer.Elements {
			hashTypeReference(h, e)
		}
		h.bool(t.Pointer.IsMutable)
	case ast.ConstantArrayReference:
		hashTypeReference(h, t.ConstantArray.ValueType)
		h.uint64(t.ConstantArray.Size)
	case ast.FunctionReference:
		hashFunctionType(h, *t.Function)
	case ast.FunctionPointerReference:
		hashFunctionType(h, t.FunctionPointer.Type)
	case ast.CustomReference:
		h.string(t.Custom.ModuleReference)
		h.string(t.Custom.Name)
	case ast.TypeInstanceReference:
		h.string(t.Instance.TypeConstructor.ModuleReference)
		h.string(t.Instance.TypeConstructor.Name)
		for _, arg := range t.Instance.Arguments {
			hashStatement(h, arg)
		}
	case ast.ParameterReference:
		h.string(t.Parameter.Name)
	case ast.NullPointerReference:
		// tag alone identifies this variant.
	}
}

func hashFunctionType(h digest, f ast.FunctionData) {
	for _, p := range f.InputParameterTypes {
		hashTypeReference(h, p)
	}
	for _, p := range f.OutputParameterTypes {
		hashTypeReference(h, p)
	}
	h.bool(f.IsVariadic)
}

// hashStatement hashes every expression in a statement in storage order
// (the default-value / type-argument content that must be structurally
// hashed, per spec.md §4.3).
func hashStatement(h digest, s ast.Statement) {
	for _, e := range s.Expressions {
		hashExpression(h, e)
	}
}

func hashExpression(h digest, e ast.Expression) {
	h.int(int(e.Kind))
	switch e.Kind {
	case ast.TypeExpr:
		hashTypeReference(h, e.TypeExpr.Type)
	case ast.ConstantExpr:
		hashTypeReference(h, e.Constant.Type)
		h.int(int(e.Constant.Kind))
		h.string(e.Constant.String)
		h.int(int(e.Constant.Integer))
		h.bool(e.Constant.Bool)
	case ast.BinaryExpr:
		h.int(int(e.Binary.Op))
	case ast.UnaryExpr:
		h.int(int(e.Unary.Op))
	case ast.CastExpr:
		hashTypeReference(h, e.Cast.DestinationType)
	case ast.AccessExpr:
		h.string(e.Access.Member)
	case ast.VariableExpr:
		h.string(e.Variable.Name)
	case ast.NullPointerExpr:
		h.bytes([]byte{0})
	case ast.InstantiateExpr:
		for _, m := range e.Instantiate.Members {
			h.string(m.Name)
		}
	}
}

func hashAlias(d *ast.AliasDeclaration) uint64 {
	h := newDigest()
	h.string(d.Name)
	hashTypeReference(h, d.Type)
	for _, p := range d.TypeConstructorParameters {
		h.string(p)
	}
	return h.sum()
}

func hashEnum(d *ast.EnumDeclaration) uint64 {
	h := newDigest()
	h.string(d.Name)
	for _, e := range d.Entries {
		h.string(e.Name)
		h.string(e.ValueLiteral)
	}
	return h.sum()
}

func hashStruct(d *ast.StructDeclaration) uint64 {
	h := newDigest()
	h.string(d.Name)
	for _, m := range d.Members {
		h.string(m.Name)
		hashTypeReference(h, m.Type)
		if m.Default != nil {
			hashStatement(h, *m.Default)
		}
	}
	for _, p := range d.TypeConstructorParameters {
		h.string(p)
	}
	h.bool(d.IsPacked)
	h.bool(d.IsLiteral)
	return h.sum()
}

func hashUnion(d *ast.UnionDeclaration) uint64 {
	h := newDigest()
	h.string(d.Name)
	for _, m := range d.Members {
		h.string(m.Name)
		hashTypeReference(h, m.Type)
	}
	for _, p := range d.TypeConstructorParameters {
		h.string(p)
	}
	return h.sum()
}

// hashFunction hashes only the signature -- parameters by type & name,
// return types, variadic flag, linkage, unique name -- never the body.
// This is the cornerstone of incremental rebuilds (spec.md §4.3): editing
// a function body can never change its fingerprint.
func hashFunction(d *ast.FunctionDeclaration) uint64 {
	h := newDigest()
	h.string(d.Name)
	h.string(d.UniqueName)
	for _, p := range d.Inputs {
		h.string(p.Name)
		hashTypeReference(h, p.Type)
	}
	for _, o := range d.Outputs {
		hashTypeReference(h, o)
	}
	h.bool(d.IsVariadic)
	h.int(int(d.Linkage))
	for _, p := range d.TypeConstructorParameters {
		h.string(p)
	}
	return h.sum()
}

func hashGlobal(d *ast.GlobalDeclaration) uint64 {
	h := newDigest()
	h.string(d.Name)
	hashTypeReference(h, d.Type)
	h.bool(d.IsMutable)
	hashStatement(h, d.Value)
	return h.sum()
}
