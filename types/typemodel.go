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

// GetUnderlyingType unwraps aliases until a non-alias type is reached
// (spec.md §4.1). If t is not a custom reference to an alias, t itself is
// returned unchanged.
func GetUnderlyingType(db *Database, t ast.TypeReference) ast.TypeReference {
	seen := map[string]bool{}
	for {
		if t.Kind != ast.CustomReference {
			return t
		}
		alias, ok := db.FindAliasTypeDeclaration(t.Custom.ModuleReference, t.Custom.Name)
		if !ok {
			return t
		}
		k := t.Custom.ModuleReference + "." + t.Custom.Name
		if seen[k] {
			// cyclic alias chain: not a valid program, but never loop forever.
			return t
		}
		seen[k] = true
		t = alias.Type
	}
}

// FindUnderlyingDeclaration resolves t to its enum/struct/union
// declaration, or ok=false if t does not ultimately name one of those
// (spec.md §4.1).
func FindUnderlyingDeclaration(db *Database, t ast.TypeReference) (ast.Declaration, bool) {
	u := GetUnderlyingType(db, t)
	if u.Kind != ast.CustomReference {
		return ast.Declaration{}, false
	}
	d, ok := db.FindDeclaration(u.Custom.ModuleReference, u.Custom.Name)
	if !ok {
		return ast.Declaration{}, false
	}
	switch d.Kind {
	case ast.DeclEnum, ast.DeclStruct, ast.DeclUnion:
		return d, true
	default:
		return ast.Declaration{}, false
	}
}

// IsEnumType reports whether t is a custom reference (through any chain
// of aliases) to an enum declaration.
func IsEnumType(db *Database, t ast.TypeReference) bool {
	d, ok := FindUnderlyingDeclaration(db, t)
	return ok && d.Kind == ast.DeclEnum
}

// IsStructType reports whether t resolves to a struct declaration.
func IsStructType(db *Database, t ast.TypeReference) bool {
	d, ok := FindUnderlyingDeclaration(db, t)
	return ok && d.Kind == ast.DeclStruct
}

// IsUnionType reports whether t resolves to a union declaration.
func IsUnionType(db *Database, t ast.TypeReference) bool {
	d, ok := FindUnderlyingDeclaration(db, t)
	return ok && d.Kind == ast.DeclUnion
}
