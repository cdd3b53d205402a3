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

// Package types implements the declaration database (spec.md §4.2): an
// indexed store of every declaration reachable from a compilation (the
// module being built plus every transitively-imported module), along with
// the type-model operations that need that store to resolve custom
// references (get_underlying_type, find_underlying_declaration,
// is_enum_type -- spec.md §4.1).
package types

import (
	"sort"
	"sync"

	"github.com/JPMMaia/H-sub000/ast"
	"github.com/JPMMaia/H-sub000/hash"
)

type moduleKey string

// Database is the indexed store described in spec.md §4.2. Lookup is by
// (module, name); it never throws, callers handle "not found".
type Database struct {
	mu sync.RWMutex

	modules map[string]*ast.Module

	// declarations indexes every declaration, export and internal, across
	// every module currently added.
	declarations map[moduleKey]ast.Declaration

	// callInstances is db.call_instances: synthesized concrete functions
	// keyed by (module, constructor name, canonicalized argument statements).
	callInstances map[string]*ast.Expression

	// instances is db.instances: Type_instance -> the concrete declaration
	// it resolves to.
	instances map[string]ast.Declaration

	fingerprints map[string]map[string]uint64 // module -> symbol -> hash, lazily computed
}

// NewDatabase builds a database by indexing the declarations of every
// module passed in (spec.md §4.2 "Construction").
func NewDatabase(modules ...*ast.Module) *Database {
	db := &Database{
		modules:       map[string]*ast.Module{},
		declarations:  map[moduleKey]ast.Declaration{},
		callInstances: map[string]*ast.Expression{},
		instances:     map[string]ast.Declaration{},
		fingerprints:  map[string]map[string]uint64{},
	}
	for _, m := range modules {
		db.AddDeclarations(m)
	}
	return db
}

func key(module, name string) moduleKey {
	return moduleKey(module + "\x00" + name)
}

// AddDeclarations indexes every declaration in m. It is idempotent: a
// later call for the same (module, name) overwrites the prior entry, the
// semantics the JIT driver relies on for hot redefinition (spec.md §4.2,
// §9 "Declaration database freshness").
func (db *Database) AddDeclarations(m *ast.Module) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.modules[m.Name] = m
	delete(db.fingerprints, m.Name)

	add := func(bank ast.DeclarationBank) {
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
	add(m.Export)
	add(m.Internal)
}

// FindDeclaration looks up (module, name); ok is false if absent.
func (db *Database) FindDeclaration(module, name string) (ast.Declaration, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	d, ok := db.declarations[key(module, name)]
	return d, ok
}

func (db *Database) FindFunctionDeclaration(module, name string) (*ast.FunctionDeclaration, bool) {
	d, ok := db.FindDeclaration(module, name)
	if !ok || d.Kind != ast.DeclFunction {
		return nil, false
	}
	return d.Function, true
}

func (db *Database) FindStructDeclaration(module, name string) (*ast.StructDeclaration, bool) {
	d, ok := db.FindDeclaration(module, name)
	if !ok || d.Kind != ast.DeclStruct {
		return nil, false
	}
	return d.Struct, true
}

func (db *Database) FindEnumDeclaration(module, name string) (*ast.EnumDeclaration, bool) {
	d, ok := db.FindDeclaration(module, name)
	if !ok || d.Kind != ast.DeclEnum {
		return nil, false
	}
	return d.Enum, true
}

func (db *Database) FindUnionDeclaration(module, name string) (*ast.UnionDeclaration, bool) {
	d, ok := db.FindDeclaration(module, name)
	if !ok || d.Kind != ast.DeclUnion {
		return nil, false
	}
	return d.Union, true
}

func (db *Database) FindAliasTypeDeclaration(module, name string) (*ast.AliasDeclaration, bool) {
	d, ok := db.FindDeclaration(module, name)
	if !ok || d.Kind != ast.DeclAlias {
		return nil, false
	}
	return d.Alias, true
}

// Module returns the module registered under name, if any.
func (db *Database) Module(name string) (*ast.Module, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	m, ok := db.modules[name]
	return m, ok
}

// Fingerprints returns (and lazily computes/caches) the symbol->hash map
// for module, per spec.md §4.3. The cache is invalidated by AddDeclarations.
func (db *Database) Fingerprints(module string) map[string]uint64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	if fp, ok := db.fingerprints[module]; ok {
		return fp
	}
	m, ok := db.modules[module]
	if !ok {
		return nil
	}
	fp := hash.Module(m)
	db.fingerprints[module] = fp
	return fp
}

// Dependent is one registered module that directly imports another,
// together with the subset of symbols it actually references (empty
// means the import pulls in everything the target module exports).
type Dependent struct {
	Module      string
	UsedSymbols []string
}

// ImportersOf returns every registered module that directly depends on
// module, ordered by name for deterministic recompile-set traversal
// (spec.md §4.9's reverse_dependency_map).
func (db *Database) ImportersOf(module string) []Dependent {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []Dependent
	for _, m := range db.modules {
		for _, dep := range m.Dependencies {
			if dep.ModuleName == module {
				out = append(out, Dependent{Module: m.Name, UsedSymbols: dep.UsedSymbols})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Module < out[j].Module })
	return out
}

// ExportedNames returns the symbol names in module's export bank, the
// set a reverse-dependency traversal propagates through after deciding
// module itself will be recompiled.
func (db *Database) ExportedNames(module string) []string {
	m, ok := db.Module(module)
	if !ok {
		return nil
	}
	b := m.Export
	names := make([]string, 0, len(b.Aliases)+len(b.Enums)+len(b.Structs)+len(b.Unions)+len(b.Functions)+len(b.Globals))
	for _, d := range b.Aliases {
		names = append(names, d.Name)
	}
	for _, d := range b.Enums {
		names = append(names, d.Name)
	}
	for _, d := range b.Structs {
		names = append(names, d.Name)
	}
	for _, d := range b.Unions {
		names = append(names, d.Name)
	}
	for _, d := range b.Functions {
		names = append(names, d.Name)
	}
	for _, d := range b.Globals {
		names = append(names, d.Name)
	}
	return names
}

// CallInstanceKey canonicalizes (module, constructor name, argument
// statements) into a stable string key for db.call_instances, per the
// spec.md §9 "Generic instantiation keys" design note: each argument
// statement is reduced to a canonical string before insertion, so two
// structurally equal argument lists collapse to the same instance.
func CallInstanceKey(module, constructor string, args []ast.Statement) string {
	k := module + "\x00" + constructor
	for _, a := range args {
		k += "\x00" + canonicalStatement(a)
	}
	return k
}

// FindCallInstance looks up a previously synthesized instance.
func (db *Database) FindCallInstance(k string) (*ast.Expression, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	e, ok := db.callInstances[k]
	return e, ok
}

// AddCallInstance registers a newly synthesized Function_expression under k.
func (db *Database) AddCallInstance(k string, fn *ast.Expression) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.callInstances[k] = fn
}

// FindTypeInstance / AddTypeInstance implement db.instances.
func (db *Database) FindTypeInstance(t ast.TypeReference) (ast.Declaration, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	d, ok := db.instances[typeInstanceKey(t)]
	return d, ok
}

func (db *Database) AddTypeInstance(t ast.TypeReference, d ast.Declaration) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.instances[typeInstanceKey(t)] = d
}

func typeInstanceKey(t ast.TypeReference) string {
	if t.Instance == nil {
		return ""
	}
	k := t.Instance.TypeConstructor.ModuleReference + "\x00" + t.Instance.TypeConstructor.Name
	for _, a := range t.Instance.Arguments {
		k += "\x00" + canonicalStatement(a)
	}
	return k
}

func canonicalStatement(s ast.Statement) string {
	// Two statements that are ast.Statement.Equal must canonicalize to the
	// same string. Only the expression at Root is encoded; instance keys are
	// built from single-expression type statements (ast.NewTypeStatement).
	var b []byte
	var visit func(i int)
	visit = func(i int) {
		e, ok := s.Expr(i)
		if !ok {
			b = append(b, '?')
			return
		}
		switch e.Kind {
		case ast.TypeExpr:
			b = append(b, e.TypeExpr.Type.DisplayName()...)
			if e.TypeExpr.Type.Custom != nil {
				b = append(b, e.TypeExpr.Type.Custom.ModuleReference+"."+e.TypeExpr.Type.Custom.Name...)
			}
		case ast.ConstantExpr:
			b = append(b, []byte("const")...)
		default:
			b = append(b, []byte(e.Kind.String())...)
		}
	}
	visit(s.Root)
	return string(b)
}

