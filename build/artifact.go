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

// Package build implements the module compiler and builder of spec.md
// §4.8: it resolves an artifact descriptor and its transitive
// dependencies, parses and caches each source module, emits an LLVM
// module per source file through analyzer/validator/codegen, and links
// the result into a static archive or an executable.
package build

// ArtifactDescriptor is the on-disk JSON form named in spec.md §6: a
// buildable unit's name, its library/executable info, and the other
// artifacts it depends on.
type ArtifactDescriptor struct {
	Name string `json:"name"`

	Library    *LibraryInfo    `json:"library_info,omitempty"`
	Executable *ExecutableInfo `json:"executable_info,omitempty"`

	// SourceFiles are the module source paths belonging to this artifact,
	// resolved relative to the descriptor's own directory.
	SourceFiles []string `json:"source_files"`

	// CHeaders names C header files to run through the header importer
	// collaborator (spec.md §4.8 step 2); each becomes one cached module.
	CHeaders []string `json:"c_headers,omitempty"`

	ExternalLibraries []ExternalLibrary `json:"external_libraries,omitempty"`

	// Dependencies names other artifacts by name, resolved by searching
	// the repository paths in the Builder's Options.Repositories.
	Dependencies []string `json:"dependencies,omitempty"`
}

// LibraryInfo marks an artifact as a static library.
type LibraryInfo struct{}

// ExecutableInfo marks an artifact as an executable, naming its entry
// point module.
type ExecutableInfo struct {
	EntryModule string `json:"entry_module"`
}

// ExternalLibrary is one system library an executable artifact must link
// against, keyed by the target it applies to (spec.md §4.8 step 6: "keyed
// by target OS + debug flag + dynamic preference").
type ExternalLibrary struct {
	Name    string `json:"name"`
	OS      string `json:"os,omitempty"` // empty matches every OS
	Debug   bool   `json:"debug,omitempty"`
	Dynamic bool   `json:"dynamic,omitempty"`
}

// appliesTo reports whether lib should be linked for a build targeting os
// with the given debug flag.
func (lib ExternalLibrary) appliesTo(os string, debug bool) bool {
	if lib.OS != "" && lib.OS != os {
		return false
	}
	return lib.Debug == debug
}

func (a *ArtifactDescriptor) isExecutable() bool { return a.Executable != nil }
