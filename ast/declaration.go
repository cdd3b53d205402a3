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

// Linkage controls whether a function/global is visible to other
// translation units (affects name mangling and the ABI bridge).
type Linkage int

const (
	LinkageInternal Linkage = iota
	LinkageExternal
)

// AliasDeclaration renames an existing type, or parameterizes one as a
// type constructor when TypeConstructorParameters is non-empty.
type AliasDeclaration struct {
	Name                      string
	Type                      TypeReference
	TypeConstructorParameters []string
	Docs                      []string
}

// EnumDeclaration is an ordered (name, value) list plus the textual form
// of each value expression (kept for fingerprinting -- spec.md §4.3).
type EnumDeclaration struct {
	Name    string
	Entries []EnumEntry
	Docs    []string
}

type EnumEntry struct {
	Name           string
	Value          int32
	ValueLiteral   string // source text of the value expression
	ValueStatement Statement
}

// StructMember is one field of a StructDeclaration.
type StructMember struct {
	Name    string
	Type    TypeReference
	Default *Statement // default-value expression, hashed structurally
}

type StructDeclaration struct {
	Name                      string
	Members                   []StructMember
	TypeConstructorParameters []string
	IsPacked                  bool
	IsLiteral                 bool
	Docs                      []string
}

type UnionMember struct {
	Name string
	Type TypeReference
}

type UnionDeclaration struct {
	Name                      string
	Members                   []UnionMember
	TypeConstructorParameters []string
	Docs                      []string
}

// FunctionDeclaration is a function signature plus, in the definitions
// bank, its body. Only the signature participates in fingerprinting.
type FunctionDeclaration struct {
	Name                      string
	UniqueName                string
	Inputs                    []Parameter
	Outputs                   []TypeReference
	IsVariadic                bool
	Linkage                   Linkage
	TypeConstructorParameters []string // non-empty => this is a function constructor
	Docs                      []string
}

// IsFunctionConstructor reports whether this declaration is a generic
// function template rather than a concrete function.
func (f *FunctionDeclaration) IsFunctionConstructor() bool {
	return len(f.TypeConstructorParameters) > 0
}

// GlobalDeclaration is a module-scope variable.
type GlobalDeclaration struct {
	Name        string
	Type        TypeReference
	Value       Statement
	IsMutable   bool
	Docs        []string
}

// FunctionDefinition is the body that corresponds 1:1 with a
// FunctionDeclaration of the same name, kept in a separate bank so that
// re-hashing a signature never touches the body (spec.md §4.3).
type FunctionDefinition struct {
	Name            string
	Preconditions   []Statement
	Postconditions  []Statement
	Body            Statement
}

// DeclarationBank is one of a module's two declaration sets ("export" or
// "internal"); names within a bank are unique (spec.md §3).
type DeclarationBank struct {
	Aliases   []AliasDeclaration
	Enums     []EnumDeclaration
	Structs   []StructDeclaration
	Unions    []UnionDeclaration
	Functions []FunctionDeclaration
	Globals   []GlobalDeclaration
}

// DeclarationKind identifies which field of a Declaration handle is set.
type DeclarationKind int

const (
	DeclAlias DeclarationKind = iota
	DeclEnum
	DeclStruct
	DeclUnion
	DeclFunction
	DeclGlobal
)

// Declaration is a stable, non-owning handle into a module's declaration
// banks, as returned by the declaration database's Find* functions
// (spec.md §4.2). It borrows the owning module's storage.
type Declaration struct {
	Kind   DeclarationKind
	Module string

	Alias    *AliasDeclaration
	Enum     *EnumDeclaration
	Struct   *StructDeclaration
	Union    *UnionDeclaration
	Function *FunctionDeclaration
	Global   *GlobalDeclaration
}

// Name returns the declared identifier regardless of Kind.
func (d Declaration) Name() string {
	switch d.Kind {
	case DeclAlias:
		return d.Alias.Name
	case DeclEnum:
		return d.Enum.Name
	case DeclStruct:
		return d.Struct.Name
	case DeclUnion:
		return d.Union.Name
	case DeclFunction:
		return d.Function.Name
	case DeclGlobal:
		return d.Global.Name
	default:
		return ""
	}
}

// Dependency records one import in a module's dependency set.
type Dependency struct {
	ModuleName  string
	Alias       string
	UsedSymbols []string // empty = import everything
}

// Version is a module's major/minor/patch language version.
type Version struct {
	Major, Minor, Patch int
}

// Module is a named translation unit (spec.md §3). Field tags match the
// on-disk JSON form described in spec.md §6, the contract for `.hl` cache
// files and for module exchange with the language server.
type Module struct {
	Name            string       `json:"name"`
	LanguageVersion Version      `json:"language_version"`
	SourceFilePath  string       `json:"source_file_path"`
	Comment         string       `json:"comment,omitempty"`

	Dependencies []Dependency `json:"dependencies"`

	Export   DeclarationBank `json:"export_declarations"`
	Internal DeclarationBank `json:"internal_declarations"`

	Definitions []FunctionDefinition `json:"definitions"`
}

// FindDefinition returns the body bank entry matching name, if any.
func (m *Module) FindDefinition(name string) (*FunctionDefinition, bool) {
	for i := range m.Definitions {
		if m.Definitions[i].Name == name {
			return &m.Definitions[i], true
		}
	}
	return nil, false
}

// AllFunctions returns every function declaration across both banks.
func (m *Module) AllFunctions() []*FunctionDeclaration {
	out := make([]*FunctionDeclaration, 0, len(m.Export.Functions)+len(m.Internal.Functions))
	for i := range m.Export.Functions {
		out = append(out, &m.Export.Functions[i])
	}
	for i := range m.Internal.Functions {
		out = append(out, &m.Internal.Functions[i])
	}
	return out
}
