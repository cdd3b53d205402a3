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

package incremental_test

import (
	"testing"

	"github.com/JPMMaia/H-sub000/ast"
	"github.com/JPMMaia/H-sub000/core/assert"
	"github.com/JPMMaia/H-sub000/core/log"
	"github.com/JPMMaia/H-sub000/hash"
	"github.com/JPMMaia/H-sub000/incremental"
	"github.com/JPMMaia/H-sub000/types"
)

var i32 = ast.CreateIntegerType(32, true)

func constStatement(v int64) *ast.Statement {
	return &ast.Statement{
		Root: 0,
		Expressions: []ast.Expression{
			{
				Kind:     ast.ConstantExpr,
				LHS:      -1,
				RHS:      -1,
				Constant: &ast.ConstantData{Kind: ast.ConstantInteger, Type: i32, Integer: v},
			},
		},
	}
}

// moduleC exports two structs, Bar and Other, each with a single default-
// valued member. Changing barDefault or otherDefault changes exactly one
// symbol's fingerprint, letting the two scenarios below isolate which
// importer edge actually reacts to the edit.
func moduleC(barDefault, otherDefault int64) *ast.Module {
	return &ast.Module{
		Name: "C",
		Export: ast.DeclarationBank{
			Structs: []ast.StructDeclaration{
				{Name: "Bar", Members: []ast.StructMember{{Name: "x", Type: i32, Default: constStatement(barDefault)}}},
				{Name: "Other", Members: []ast.StructMember{{Name: "y", Type: i32, Default: constStatement(otherDefault)}}},
			},
		},
	}
}

// moduleB imports only C.Bar, so it reacts to a Bar edit but not an Other
// edit. It exports a struct of its own so A has something to import.
func moduleB() *ast.Module {
	return &ast.Module{
		Name:         "B",
		Dependencies: []ast.Dependency{{ModuleName: "C", UsedSymbols: []string{"Bar"}}},
		Export: ast.DeclarationBank{
			Structs: []ast.StructDeclaration{{Name: "Baz"}},
		},
	}
}

// moduleA imports all of B (empty UsedSymbols), so once B is enqueued for
// recompilation A always follows.
func moduleA() *ast.Module {
	return &ast.Module{
		Name:         "A",
		Dependencies: []ast.Dependency{{ModuleName: "B"}},
	}
}

func TestRecompilePropagation(t *testing.T) {
	ctx := log.Testing(t)

	oldC := moduleC(1, 100)
	old := hash.Module(oldC)

	db := types.NewDatabase(oldC, moduleB(), moduleA())

	newC := moduleC(2, 100) // Bar's default changes, Other's does not
	db.AddDeclarations(newC)

	got := incremental.PlanRecompile(db, "C", old)
	assert.For(ctx, "recompile set").ThatSlice(got).Equals([]string{"B", "A"})
}

func TestDoNotRecompile(t *testing.T) {
	ctx := log.Testing(t)

	oldC := moduleC(1, 100)
	old := hash.Module(oldC)

	db := types.NewDatabase(oldC, moduleB(), moduleA())

	newC := moduleC(1, 200) // Other's default changes, Bar's does not
	db.AddDeclarations(newC)

	got := incremental.PlanRecompile(db, "C", old)
	assert.For(ctx, "recompile set").ThatSlice(got).IsEmpty()
}

func TestNoChangeNoRecompile(t *testing.T) {
	ctx := log.Testing(t)

	c := moduleC(1, 100)
	old := hash.Module(c)

	db := types.NewDatabase(c, moduleB(), moduleA())
	db.AddDeclarations(moduleC(1, 100)) // re-indexed, nothing actually changed

	got := incremental.PlanRecompile(db, "C", old)
	assert.For(ctx, "recompile set").ThatSlice(got).IsEmpty()
}
