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

package abi

import "github.com/JPMMaia/H-sub000/core/codegen"

// ReassembleParameter implements the function-prologue rewrite: info
// describes how a parameter actually arrived (incoming is the ABI-shaped
// value the callee received, e.g. a {i64,i64} coerce struct), and alloca
// is the caller-visible local the rest of the function body reads the
// parameter from. For a struct-Direct parameter whose CoerceType differs
// from the parameter's declared type, the incoming value is stored
// through a pointer cast so the alloca holds the declared type's natural
// layout.
func (c *Classifier) ReassembleParameter(info ArgInfo, incoming, alloca *codegen.Value) {
	if info.CoerceType == nil {
		alloca.Store(incoming)
		return
	}
	alloca.Cast(c.types.Pointer(info.CoerceType)).Store(incoming)
}

// PrepareArgument implements the call-site rewrite: given the pointer to
// the caller-owned value for one argument (argAlloca, of pointer-to-the-
// argument's-declared-type), returns the value that must actually be
// passed as the LLVM call operand for that argument per info.
//
// Indirect arguments are passed as the pointer itself (the callee treats
// it as by-reference, matching the platform convention). Direct
// arguments with a CoerceType are loaded back out through a pointer
// cast, reinterpreting the caller's natural-layout alloca as the coerced
// eightbyte representation the callee expects. Ignore arguments
// contribute no call operand at all.
func (c *Classifier) PrepareArgument(info ArgInfo, argAlloca *codegen.Value) *codegen.Value {
	switch info.Kind {
	case Indirect:
		return argAlloca
	case Ignore:
		return nil
	default:
		if info.CoerceType == nil {
			return argAlloca.Load()
		}
		return argAlloca.Cast(c.types.Pointer(info.CoerceType)).Load()
	}
}
