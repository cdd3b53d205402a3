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
	"github.com/JPMMaia/H-sub000/ast"
	llcg "github.com/JPMMaia/H-sub000/core/codegen"
)

// lowerGlobal declares (once) and returns the module-scope variable
// module.name. A global whose initializer is a single compile-time
// constant gets that constant as its LLVM initializer; anything more
// involved (a call, a reference to another global) is zero-initialized
// instead -- running arbitrary initializer code before main is not a
// contract this compiler makes.
func (e *Emitter) lowerGlobal(module, name string) llcg.Global {
	key := functionKey(module, name)
	if g, ok := e.globals[key]; ok {
		return g
	}

	d, ok := e.db.FindDeclaration(module, name)
	if !ok || d.Kind != ast.DeclGlobal {
		fail("undeclared global %s.%s", module, name)
	}
	decl := d.Global
	ty := e.lowerType(decl.Type)

	var g llcg.Global
	if root, ok := constantRoot(decl.Value); ok {
		g = e.m.Global(key, e.constScalar(*root, ty))
	} else {
		g = e.m.ZeroGlobal(key, ty)
	}
	if !decl.IsMutable {
		g = g.SetConstant(true)
	}
	e.globals[key] = g
	return g
}

// constantRoot returns the root expression of s when it is a bare
// ConstantExpr, the only initializer shape lowerGlobal evaluates at
// compile time.
func constantRoot(s ast.Statement) (*ast.ConstantData, bool) {
	if s.Root < 0 || s.Root >= len(s.Expressions) {
		return nil, false
	}
	e := s.Expressions[s.Root]
	if e.Kind != ast.ConstantExpr || e.Constant == nil {
		return nil, false
	}
	return e.Constant, true
}
