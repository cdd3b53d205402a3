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

package build

import (
	"encoding/json"
	"os"

	"github.com/JPMMaia/H-sub000/ast"
)

// SourceParser turns one source file into a Module. The real surface-
// syntax parser is an external collaborator per spec.md §1; Builder only
// depends on this interface so a real parser can be substituted without
// touching the rest of the pipeline.
type SourceParser interface {
	Parse(path string) (*ast.Module, error)
}

// HeaderImporter turns a C header into a Module by way of a clang AST,
// spec.md §4.8 step 2's external collaborator. Builder only depends on
// this interface for the same reason as SourceParser.
type HeaderImporter interface {
	Import(path string, searchPaths []string) (*ast.Module, error)
}

// JSONModuleParser reads a module already in the on-disk JSON form
// spec.md §6 specifies for `.hl` cache files. It is the reference
// SourceParser: with no surface-syntax grammar in scope, a source file
// for this pipeline *is* its own serialized Module.
type JSONModuleParser struct{}

func (JSONModuleParser) Parse(path string) (*ast.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m ast.Module
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// NopHeaderImporter rejects every import: without a real clang-AST
// bridge there is no way to honor spec.md §4.8 step 2, so an artifact
// that lists c_headers needs a HeaderImporter supplied explicitly.
type NopHeaderImporter struct{}

func (NopHeaderImporter) Import(path string, searchPaths []string) (*ast.Module, error) {
	return nil, &ToolFailure{Stage: "header import", Err: errUnsupportedHeaderImport(path)}
}

type errUnsupportedHeaderImport string

func (e errUnsupportedHeaderImport) Error() string {
	return "no header importer configured for " + string(e)
}
