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

// Package device describes the handful of compilation targets the build
// package hands to the codegen package: an Architecture, an OS, and the
// memory layout LLVM needs to pick a data layout string (spec.md §4.8).
package device

// Architecture identifies an instruction set.
type Architecture int

const (
	UnknownArchitecture Architecture = iota
	ARMv7a
	ARMv8a
	X86
	X86_64
)

// Endian identifies a target's byte order.
type Endian int

const (
	UnknownEndian Endian = iota
	BigEndian
	LittleEndian
)

// OSKind identifies a target operating system.
type OSKind int

const (
	UnknownOS OSKind = iota
	Windows
	OSX
	Linux
	Android
)

// DataTypeLayout is the size and alignment, in bytes, of one machine type.
type DataTypeLayout struct {
	Size      int32
	Alignment int32
}

// MemoryLayout is the subset of a target's ABI that codegen's module
// construction needs: the natural size/alignment of every primitive
// machine type, plus byte order.
type MemoryLayout struct {
	Endian  Endian
	Pointer *DataTypeLayout
	Integer *DataTypeLayout
	Size    *DataTypeLayout
	I8      *DataTypeLayout
	I16     *DataTypeLayout
	I32     *DataTypeLayout
	I64     *DataTypeLayout
	F32     *DataTypeLayout
	F64     *DataTypeLayout
}

func dtl(size, align int32) *DataTypeLayout { return &DataTypeLayout{Size: size, Alignment: align} }

var (
	Little64 = &MemoryLayout{
		Endian:  LittleEndian,
		Pointer: dtl(8, 8),
		Integer: dtl(4, 4),
		Size:    dtl(8, 8),
		I8:      dtl(1, 1),
		I16:     dtl(2, 2),
		I32:     dtl(4, 4),
		I64:     dtl(8, 8),
		F32:     dtl(4, 4),
		F64:     dtl(8, 8),
	}
	Little32 = &MemoryLayout{
		Endian:  LittleEndian,
		Pointer: dtl(4, 4),
		Integer: dtl(4, 4),
		Size:    dtl(4, 4),
		I8:      dtl(1, 1),
		I16:     dtl(2, 2),
		I32:     dtl(4, 4),
		I64:     dtl(8, 8),
		F32:     dtl(4, 4),
		F64:     dtl(8, 8),
	}

	ARMv7aLayout   = Little32
	ARM64v8aLayout = Little64
	X86IA32Layout  = Little32
	X86_64Layout   = Little64
)

// Clone returns a new MemoryLayout copied from m.
func (m *MemoryLayout) Clone() *MemoryLayout {
	c := *m
	return &c
}

// SameAs returns true if the MemoryLayouts are equal.
func (m *MemoryLayout) SameAs(o *MemoryLayout) bool {
	if m == o {
		return true
	}
	if m == nil || o == nil {
		return false
	}
	return m.Endian == o.Endian &&
		*m.Pointer == *o.Pointer && *m.Integer == *o.Integer && *m.Size == *o.Size &&
		*m.I8 == *o.I8 && *m.I16 == *o.I16 && *m.I32 == *o.I32 && *m.I64 == *o.I64 &&
		*m.F32 == *o.F32 && *m.F64 == *o.F64
}
