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

package jit_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JPMMaia/H-sub000/ast"
	"github.com/JPMMaia/H-sub000/core/log"
	"github.com/JPMMaia/H-sub000/jit"
)

var i32 = ast.CreateIntegerType(32, true)

// constModule returns a module exporting a single nullary function
// returning k, letting tests recognize a JIT-compiled and a recompiled
// build of the "same" module by their return value.
func constModule(name string, k int64) *ast.Module {
	exprs := []ast.Expression{
		{Kind: ast.ConstantExpr, Constant: &ast.ConstantData{Kind: ast.ConstantInteger, Type: i32, Integer: k}, LHS: -1, RHS: -1},
		{Kind: ast.ReturnExpr, LHS: 0, RHS: -1},
		{Kind: ast.BlockExpr, Children: []int{1}, LHS: -1, RHS: -1},
	}
	decl := ast.FunctionDeclaration{
		Name:    "value",
		Outputs: []ast.TypeReference{i32},
		Linkage: ast.LinkageExternal,
	}
	def := ast.FunctionDefinition{Name: "value", Body: ast.Statement{Expressions: exprs, Root: 2}}
	return &ast.Module{
		Name:        name,
		Export:      ast.DeclarationBank{Functions: []ast.FunctionDeclaration{decl}},
		Definitions: []ast.FunctionDefinition{def},
	}
}

func writeModule(t *testing.T, dir, name string, m *ast.Module) string {
	t.Helper()
	data, err := json.Marshal(m)
	require.NoError(t, err)
	path := filepath.Join(dir, name+".hl")
	require.NoError(t, os.WriteFile(path, data, 0666))
	return path
}

func TestDriverAddModuleResolvesFunction(t *testing.T) {
	ctx := log.Wrap(log.Testing(t))
	dir := t.TempDir()
	path := writeModule(t, dir, "consts", constModule("consts", 41))

	d := jit.NewDriver(jit.Config{})
	require.NoError(t, d.AddModule(ctx, path))

	addr, ok := d.Lookup("consts", "value")
	require.True(t, ok)
	require.NotNil(t, addr)

	module, ok := d.ModuleOf("value")
	require.True(t, ok)
	require.Equal(t, "consts", module)
}

func TestDriverRecompileKeepsDependentsResolvable(t *testing.T) {
	ctx := log.Wrap(log.Testing(t))
	dir := t.TempDir()

	basePath := writeModule(t, dir, "base", constModule("base", 1))
	appMod := constModule("app", 2)
	appMod.Dependencies = []ast.Dependency{{ModuleName: "base", UsedSymbols: []string{"value"}}}
	appPath := writeModule(t, dir, "app", appMod)

	d := jit.NewDriver(jit.Config{})
	require.NoError(t, d.AddModule(ctx, basePath))
	require.NoError(t, d.AddModule(ctx, appPath))

	_, ok := d.Lookup("app", "value")
	require.True(t, ok)

	writeModule(t, dir, "base", constModule("base", 99))
	require.NoError(t, d.Recompile(ctx, "base"))

	addr, ok := d.Lookup("app", "value")
	require.True(t, ok)
	require.NotNil(t, addr)
}

func TestDriverLookupUnknownModuleFails(t *testing.T) {
	d := jit.NewDriver(jit.Config{})
	_, ok := d.Lookup("nowhere", "value")
	require.False(t, ok)
}
