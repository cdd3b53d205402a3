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

package ast

import "fmt"

// TypeReferenceKind discriminates the TypeReference tagged variant
// described in spec.md §3 "Type reference".
type TypeReferenceKind int

const (
	BuiltinReference TypeReferenceKind = iota
	FundamentalReference
	IntegerReference
	PointerReference
	ConstantArrayReference
	FunctionReference
	FunctionPointerReference
	CustomReference
	TypeInstanceReference
	ParameterReference
	NullPointerReference
)

func (k TypeReferenceKind) String() string {
	switch k {
	case BuiltinReference:
		return "Builtin"
	case FundamentalReference:
		return "Fundamental"
	case IntegerReference:
		return "Integer"
	case PointerReference:
		return "Pointer"
	case ConstantArrayReference:
		return "ConstantArray"
	case FunctionReference:
		return "Function"
	case FunctionPointerReference:
		return "FunctionPointer"
	case CustomReference:
		return "Custom"
	case TypeInstanceReference:
		return "TypeInstance"
	case ParameterReference:
		return "Parameter"
	case NullPointerReference:
		return "NullPointer"
	default:
		return "Unknown"
	}
}

// Fundamental is the closed set of builtin value types that are not
// parameterized by width/signedness (those are IntegerReference instead).
type Fundamental int

const (
	Bool Fundamental = iota
	Byte
	Float16
	Float32
	Float64
	CBool
	CChar
	CShort
	CUShort
	CInt
	CUInt
	CLong
	CULong
	CLongLong
	CULongLong
)

func (f Fundamental) String() string {
	switch f {
	case Bool:
		return "Bool"
	case Byte:
		return "Byte"
	case Float16:
		return "Float16"
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	case CBool:
		return "c_bool"
	case CChar:
		return "c_char"
	case CShort:
		return "c_short"
	case CUShort:
		return "c_ushort"
	case CInt:
		return "c_int"
	case CUInt:
		return "c_uint"
	case CLong:
		return "c_long"
	case CULong:
		return "c_ulong"
	case CLongLong:
		return "c_longlong"
	case CULongLong:
		return "c_ulonglong"
	default:
		return "Unknown"
	}
}

// IntegerData describes a sized, signed-or-unsigned integer (N <= 64).
type IntegerData struct {
	NumberOfBits int
	IsSigned     bool
}

// PointerData is a pointer type: Elements has 0 or 1 entries (0 = void*).
type PointerData struct {
	Elements    []TypeReference
	IsMutable   bool
}

func (p *PointerData) IsVoid() bool { return len(p.Elements) == 0 }

// ConstantArrayData is a fixed-size array type.
type ConstantArrayData struct {
	ValueType TypeReference
	Size      uint64
}

// FunctionData is the shape of a function type: ordered inputs/outputs.
type FunctionData struct {
	InputParameterTypes  []TypeReference
	OutputParameterTypes []TypeReference
	IsVariadic           bool
}

// FunctionPointerData wraps a function type together with parameter names,
// kept only for documentation / diagnostics (they do not affect equality).
type FunctionPointerData struct {
	Type           FunctionData
	InputParameterNames []string
}

// CustomData is a late-bound reference to a declaration, resolved through
// the declaration database rather than held as a live pointer.
type CustomData struct {
	ModuleReference string
	Name            string
}

// TypeInstanceData represents a generic type constructor applied to a list
// of argument statements (see ParameterReference / §4.4 instantiation).
type TypeInstanceData struct {
	TypeConstructor CustomData
	Arguments       []Statement
}

// ParameterData names a bound type-constructor parameter, e.g. the `T` in
// `struct Box<T> { value: T }`.
type ParameterData struct {
	Name string
}

// TypeReference is the tagged variant over every kind of type the language
// can reference. Equality is structural and recursive; a TypeReference owns
// its subcomponents (spec.md §3).
type TypeReference struct {
	Kind TypeReferenceKind

	Builtin         string
	Fundamental     Fundamental
	Integer         IntegerData
	Pointer         *PointerData
	ConstantArray   *ConstantArrayData
	Function        *FunctionData
	FunctionPointer *FunctionPointerData
	Custom          *CustomData
	Instance        *TypeInstanceData
	Parameter       *ParameterData
}

// DisplayName renders t the way diagnostics name a type (spec.md §8
// scenario 6: "Argument 0 type is 'Int32' but 'Float32' was provided.").
// Sized integers print as {U}Int{bits}, fundamentals, builtins and custom
// types by name, pointers as "*" plus the pointee ("*void" for a void
// pointer), and the null pointer type as "null_pointer_type"; every other
// kind falls back to its Kind tag.
func (t TypeReference) DisplayName() string {
	switch t.Kind {
	case IntegerReference:
		sign := "Int"
		if !t.Integer.IsSigned {
			sign = "UInt"
		}
		return fmt.Sprintf("%s%d", sign, t.Integer.NumberOfBits)
	case FundamentalReference:
		return t.Fundamental.String()
	case BuiltinReference:
		return t.Builtin
	case CustomReference:
		return t.Custom.Name
	case PointerReference:
		if t.Pointer.IsVoid() {
			return "*void"
		}
		return "*" + t.Pointer.Elements[0].DisplayName()
	case NullPointerReference:
		return "null_pointer_type"
	default:
		return t.Kind.String()
	}
}

// --- Constructors (spec.md §4.1) ---

func CreatePointerType(elements []TypeReference, isMutable bool) TypeReference {
	return TypeReference{Kind: PointerReference, Pointer: &PointerData{Elements: elements, IsMutable: isMutable}}
}

func CreateIntegerType(bits int, signed bool) TypeReference {
	return TypeReference{Kind: IntegerReference, Integer: IntegerData{NumberOfBits: bits, IsSigned: signed}}
}

func CreateCustomTypeReference(module, name string) TypeReference {
	return TypeReference{Kind: CustomReference, Custom: &CustomData{ModuleReference: module, Name: name}}
}

func CreateFundamentalType(f Fundamental) TypeReference {
	return TypeReference{Kind: FundamentalReference, Fundamental: f}
}

func CreateNullPointerType() TypeReference {
	return TypeReference{Kind: NullPointerReference}
}

func CreateParameterType(name string) TypeReference {
	return TypeReference{Kind: ParameterReference, Parameter: &ParameterData{Name: name}}
}

// --- Predicates (spec.md §4.1) ---

func IsInteger(t TypeReference) bool {
	return t.Kind == IntegerReference || t.Kind == FundamentalReference && isCIntegerFundamental(t.Fundamental)
}

func isCIntegerFundamental(f Fundamental) bool {
	switch f {
	case CBool, CChar, CShort, CUShort, CInt, CUInt, CLong, CULong, CLongLong, CULongLong:
		return true
	}
	return false
}

func IsSignedInteger(t TypeReference) bool {
	if t.Kind == IntegerReference {
		return t.Integer.IsSigned
	}
	switch t.Fundamental {
	case CChar, CShort, CInt, CLong, CLongLong:
		return t.Kind == FundamentalReference
	}
	return false
}

func IsFloatingPoint(t TypeReference) bool {
	return t.Kind == FundamentalReference && (t.Fundamental == Float16 || t.Fundamental == Float32 || t.Fundamental == Float64)
}

func IsBool(t TypeReference) bool {
	return t.Kind == FundamentalReference && (t.Fundamental == Bool || t.Fundamental == CBool)
}

func IsPointer(t TypeReference) bool {
	return t.Kind == PointerReference
}

func IsNonVoidPointer(t TypeReference) bool {
	return t.Kind == PointerReference && t.Pointer != nil && !t.Pointer.IsVoid()
}

func IsFunctionPointer(t TypeReference) bool {
	return t.Kind == FunctionPointerReference
}

// IsCString reports whether t is a pointer to a C char, the type `puts`
// and friends expect. A pointer to Byte does not qualify.
func IsCString(t TypeReference) bool {
	if t.Kind != PointerReference || t.Pointer == nil || t.Pointer.IsVoid() {
		return false
	}
	elem := t.Pointer.Elements[0]
	return elem.Kind == FundamentalReference && elem.Fundamental == CChar
}

// RemovePointer returns the pointee type, or the type unchanged if it is
// not a non-void pointer.
func RemovePointer(t TypeReference) TypeReference {
	if IsNonVoidPointer(t) {
		return t.Pointer.Elements[0]
	}
	return t
}

// GetFunctionOutputType returns the first output type of a function type,
// or nil if the function returns void / has no outputs.
func GetFunctionOutputType(t TypeReference) *TypeReference {
	var fn *FunctionData
	switch t.Kind {
	case FunctionReference:
		fn = t.Function
	case FunctionPointerReference:
		fn = &t.FunctionPointer.Type
	default:
		return nil
	}
	if len(fn.OutputParameterTypes) == 0 {
		return nil
	}
	return &fn.OutputParameterTypes[0]
}

// Equal reports structural equality between two type references.
func (t TypeReference) Equal(o TypeReference) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case BuiltinReference:
		return t.Builtin == o.Builtin
	case FundamentalReference:
		return t.Fundamental == o.Fundamental
	case IntegerReference:
		return t.Integer == o.Integer
	case PointerReference:
		if t.Pointer.IsMutable != o.Pointer.IsMutable {
			return false
		}
		return equalTypeSlices(t.Pointer.Elements, o.Pointer.Elements)
	case ConstantArrayReference:
		return t.ConstantArray.Size == o.ConstantArray.Size &&
			t.ConstantArray.ValueType.Equal(o.ConstantArray.ValueType)
	case FunctionReference:
		return equalFunctionData(*t.Function, *o.Function)
	case FunctionPointerReference:
		return equalFunctionData(t.FunctionPointer.Type, o.FunctionPointer.Type)
	case CustomReference:
		return *t.Custom == *o.Custom
	case TypeInstanceReference:
		if t.Instance.TypeConstructor != o.Instance.TypeConstructor {
			return false
		}
		if len(t.Instance.Arguments) != len(o.Instance.Arguments) {
			return false
		}
		for i := range t.Instance.Arguments {
			if !t.Instance.Arguments[i].Equal(o.Instance.Arguments[i]) {
				return false
			}
		}
		return true
	case ParameterReference:
		return t.Parameter.Name == o.Parameter.Name
	case NullPointerReference:
		return true
	default:
		return false
	}
}

func equalTypeSlices(a, b []TypeReference) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func equalFunctionData(a, b FunctionData) bool {
	if a.IsVariadic != b.IsVariadic {
		return false
	}
	return equalTypeSlices(a.InputParameterTypes, b.InputParameterTypes) &&
		equalTypeSlices(a.OutputParameterTypes, b.OutputParameterTypes)
}
