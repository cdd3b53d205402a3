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
	"github.com/JPMMaia/H-sub000/abi"
	"github.com/JPMMaia/H-sub000/ast"
	llcg "github.com/JPMMaia/H-sub000/core/codegen"
)

// buildFunction builds the body of decl/def. A function frame begins with
// allocas for every parameter; parameter bytes are stored into their
// allocas at entry. Parameters whose ABI requires struct-splitting are
// reassembled through the C-ABI bridge rather than stored verbatim.
func (e *Emitter) buildFunction(module string, decl *ast.FunctionDeclaration, def *ast.FunctionDefinition) {
	key := functionKey(module, decl.Name)
	fn, ok := e.functions[key]
	if !ok {
		fail("function %s was never declared", key)
	}
	info := e.functionABIs[key]

	err := fn.Build(func(b *llcg.Builder) {
		f := newFrame(e, b, module)

		for i, p := range decl.Inputs {
			pinfo := info.Parameters[i]
			if pinfo.Kind == abi.Indirect {
				// The incoming value already is the address of a caller-
				// owned copy; use it directly rather than copying it into
				// a second local.
				f.locals[p.Name] = b.Parameter(i)
				continue
			}
			paramTy := e.lowerType(p.Type)
			alloca := b.Local(p.Name, paramTy)
			e.classifier.ReassembleParameter(pinfo, b.Parameter(i), alloca)
			f.locals[p.Name] = alloca
		}

		f.emitStatement(&def.Body)
	})
	if err != nil {
		fail("building %s: %v", key, err)
	}
}

// emitStatement emits s by lowering its root expression, which emits its
// children recursively. Only the function body is emitted this way; the
// preconditions and postconditions of the containing function are not
// emitted.
func (f *Frame) emitStatement(s *ast.Statement) {
	if s.Root < 0 || s.Root >= len(s.Expressions) {
		return
	}
	f.emitExpr(s, s.Root)
}
