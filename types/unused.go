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

package types

import "github.com/JPMMaia/H-sub000/ast"

type usageKey struct{ module, name string }

// RemoveUnusedDeclarations computes the transitive usage set reachable
// from entryModule's exported and internal functions, then removes from
// every module in deps anything not transitively reachable (spec.md
// §4.2). This is what shrinks the JIT's per-symbol definition generator
// (spec.md §4.9) down to only what an entry point actually needs.
func (db *Database) RemoveUnusedDeclarations(entryModule string, deps []string) {
	db.mu.Lock()
	defer db.mu.Unlock()

	used := map[usageKey]bool{}
	var markFn func(module, name string)
	var markType func(module string, t ast.TypeReference)

	markType = func(module string, t ast.TypeReference) {
		switch t.Kind {
		case ast.CustomReference:
			k := usageKey{t.Custom.ModuleReference, t.Custom.Name}
			if used[k] {
				return
			}
			used[k] = true
			if d, ok := db.declarations[key(t.Custom.ModuleReference, t.Custom.Name)]; ok {
				switch d.Kind {
				case ast.DeclAlias:
					markType(t.Custom.ModuleReference, d.Alias.Type)
				case ast.DeclStruct:
					for _, m := range d.Struct.Members {
						markType(t.Custom.ModuleReference, m.Type)
					}
				case ast.DeclUnion:
					for _, m := range d.Union.Members {
						markType(t.Custom.ModuleReference, m.Type)
					}
				case ast.DeclFunction:
					markFn(t.Custom.ModuleReference, d.Function.Name)
				}
			}
		case ast.PointerReference:
			for _, e := range t.Pointer.Elements {
				markType(module, e)
			}
		case ast.ConstantArrayReference:
			markType(module, t.ConstantArray.ValueType)
		case ast.FunctionReference:
			for _, p := range t.Function.InputParameterTypes {
				markType(module, p)
			}
			for _, p := range t.Function.OutputParameterTypes {
				markType(module, p)
			}
		case ast.FunctionPointerReference:
			markType(module, ast.TypeReference{Kind: ast.FunctionReference, Function: &t.FunctionPointer.Type})
		case ast.TypeInstanceReference:
			k := usageKey{t.Instance.TypeConstructor.ModuleReference, t.Instance.TypeConstructor.Name}
			used[k] = true
		}
	}

	markFn = func(module, name string) {
		k := usageKey{module, name}
		if used[k] {
			return
		}
		used[k] = true
		fn, ok := db.declarations[key(module, name)]
		if !ok || fn.Kind != ast.DeclFunction {
			return
		}
		for _, p := range fn.Function.Inputs {
			markType(module, p.Type)
		}
		for _, o := range fn.Function.Outputs {
			markType(module, o)
		}
	}

	if m, ok := db.modules[entryModule]; ok {
		for _, f := range m.Export.Functions {
			markFn(entryModule, f.Name)
		}
		for _, f := range m.Internal.Functions {
			markFn(entryModule, f.Name)
		}
	}

	for _, dep := range deps {
		m, ok := db.modules[dep]
		if !ok {
			continue
		}
		m.Export = filterBank(m.Export, dep, used)
		m.Internal = filterBank(m.Internal, dep, used)
		// Re-index: the bank slices were replaced wholesale.
		db.reindexLocked(m)
	}
}

func filterBank(bank ast.DeclarationBank, module string, used map[usageKey]bool) ast.DeclarationBank {
	isUsed := func(name string) bool { return used[usageKey{module, name}] }

	out := ast.DeclarationBank{}
	for _, d := range bank.Aliases {
		if isUsed(d.Name) {
			out.Aliases = append(out.Aliases, d)
		}
	}
	for _, d := range bank.Enums {
		if isUsed(d.Name) {
			out.Enums = append(out.Enums, d)
		}
	}
	for _, d := range bank.Structs {
		if isUsed(d.Name) {
			out.Structs = append(out.Structs, d)
		}
	}
	for _, d := range bank.Unions {
		if isUsed(d.Name) {
			out.Unions = append(out.Unions, d)
		}
	}
	for _, d := range bank.Functions {
		if isUsed(d.Name) {
			out.Functions = append(out.Functions, d)
		}
	}
	for _, d := range bank.Globals {
		if isUsed(d.Name) {
			out.Globals = append(out.Globals, d)
		}
	}
	return out
}

// reindexLocked rebuilds the flat declaration index for m after its banks
// were filtered in place. Caller must hold db.mu.
func (db *Database) reindexLocked(m *ast.Module) {
	for k, d := range db.declarations {
		if d.Module == m.Name {
			delete(db.declarations, k)
		}
	}
	rebuild := func(bank ast.DeclarationBank) {
		for i := range bank.Aliases {
			d := &bank.Aliases[i]
			db.declarations[key(m.Name, d.Name)] = ast.Declaration{Kind: ast.DeclAlias, Module: m.Name, Alias: d}
		}
		for i := range bank.Enums {
			d := &bank.Enums[i]
			db.declarations[key(m.Name, d.Name)] = ast.Declaration{Kind: ast.DeclEnum, Module: m.Name, Enum: d}
		}
		for i := range bank.Structs {
			d := &bank.Structs[i]
			db.declarations[key(m.Name, d.Name)] = ast.Declaration{Kind: ast.DeclStruct, Module: m.Name, Struct: d}
		}
		for i := range bank.Unions {
			d := &bank.Unions[i]
			db.declarations[key(m.Name, d.Name)] = ast.Declaration{Kind: ast.DeclUnion, Module: m.Name, Union: d}
		}
		for i := range bank.Functions {
			d := &bank.Functions[i]
			db.declarations[key(m.Name, d.Name)] = ast.Declaration{Kind: ast.DeclFunction, Module: m.Name, Function: d}
		}
		for i := range bank.Globals {
			d := &bank.Globals[i]
			db.declarations[key(m.Name, d.Name)] = ast.Declaration{Kind: ast.DeclGlobal, Module: m.Name, Global: d}
		}
	}
	rebuild(m.Export)
	rebuild(m.Internal)
}
