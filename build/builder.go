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
	"path/filepath"
	"sort"

	"github.com/JPMMaia/H-sub000/analyzer"
	"github.com/JPMMaia/H-sub000/ast"
	"github.com/JPMMaia/H-sub000/codegen"
	"github.com/JPMMaia/H-sub000/core/log"
	"github.com/JPMMaia/H-sub000/core/os/device"
	"github.com/JPMMaia/H-sub000/types"
	"github.com/JPMMaia/H-sub000/validator"
)

// Options configures one Builder.Build invocation, the flags named in
// spec.md §6's CLI surface.
type Options struct {
	// BuildDir holds the artifacts/ cache and the final bin/ output.
	BuildDir string

	// HeaderSearchPaths is --header-search-path, repeated.
	HeaderSearchPaths []string

	// Repositories is --repository, repeated: directories searched for
	// a dependency artifact's descriptor.json by artifact name.
	Repositories []string

	// Target is the ABI to build for; nil means the host (a JIT-only
	// build, spec.md §4.8).
	Target *device.ABI

	// Debug forces .obj object output even off Windows (spec.md §4.8
	// step 5's "or .obj for Windows/debug").
	Debug bool

	// Optimize is passed straight through to codegen's object emission.
	Optimize bool

	// BuiltinModulePath is the per-target builtin module (types, helpers)
	// spec.md §6 names as <BUILTIN_SOURCE_FILE_PATH>; its declarations are
	// added to the database before any artifact module, so they resolve
	// the same way a dependency's would. Left empty, no builtin module is
	// loaded.
	BuiltinModulePath string

	Parser         SourceParser
	HeaderImporter HeaderImporter
	Linker         Linker
}

func (o *Options) abi() *device.ABI {
	if o.Target != nil {
		return o.Target
	}
	return device.HostABI()
}

// Builder runs the pipeline of spec.md §4.8 for one artifact.
type Builder struct {
	opts  Options
	cache *cache
}

// NewBuilder validates opts and prepares the build directory's cache.
func NewBuilder(opts Options) (*Builder, error) {
	if opts.Parser == nil {
		opts.Parser = JSONModuleParser{}
	}
	if opts.HeaderImporter == nil {
		opts.HeaderImporter = NopHeaderImporter{}
	}
	if opts.Linker == nil {
		opts.Linker = execLinker{}
	}
	c, err := newCache(opts.BuildDir)
	if err != nil {
		return nil, toolFailure("prepare build directory", err)
	}
	return &Builder{opts: opts, cache: c}, nil
}

// resolved is one artifact after dependency resolution: its descriptor
// plus the directory its relative paths resolve against.
type resolved struct {
	desc *ArtifactDescriptor
	dir  string
}

// Build runs every step of spec.md §4.8 for the artifact described by
// descriptorPath, and returns the path to the linked output plus every
// per-module CompilationError encountered (a module failing does not
// stop the rest of the artifact from attempting to build).
func (b *Builder) Build(ctx log.Context, descriptorPath string) (string, []*CompilationError, error) {
	order, err := b.resolveArtifacts(descriptorPath)
	if err != nil {
		return "", nil, toolFailure("resolve artifacts", err)
	}

	db := types.NewDatabase()
	if b.opts.BuiltinModulePath != "" {
		builtin, err := b.opts.Parser.Parse(b.opts.BuiltinModulePath)
		if err != nil {
			return "", nil, toolFailure("parse builtin module", err)
		}
		db.AddDeclarations(builtin)
	}

	var allFailures []*CompilationError
	objectsByArtifact := map[string][]string{}

	for _, art := range order {
		modules, err := b.loadModules(ctx, art)
		if err != nil {
			return "", nil, toolFailure("load modules for "+art.desc.Name, err)
		}
		for _, m := range modules {
			db.AddDeclarations(m)
		}

		for _, m := range modules {
			obj, failure := b.emitModule(ctx, db, m)
			if failure != nil {
				allFailures = append(allFailures, failure)
				continue
			}
			if obj != "" {
				objectsByArtifact[art.desc.Name] = append(objectsByArtifact[art.desc.Name], obj)
			}
		}
	}

	target := order[len(order)-1]
	output, err := b.link(ctx, target, order, objectsByArtifact)
	if err != nil {
		return "", allFailures, toolFailure("link "+target.desc.Name, err)
	}

	return output, allFailures, nil
}

// resolveArtifacts loads descriptorPath and every transitive dependency,
// returning them topologically sorted (dependencies first) per spec.md
// §4.8 step 1.
func (b *Builder) resolveArtifacts(descriptorPath string) ([]resolved, error) {
	root, err := loadDescriptor(descriptorPath)
	if err != nil {
		return nil, err
	}

	byName := map[string]resolved{root.desc.Name: root}
	var visit func(r resolved) error
	var order []resolved
	visiting := map[string]bool{}
	visited := map[string]bool{}

	visit = func(r resolved) error {
		if visited[r.desc.Name] {
			return nil
		}
		if visiting[r.desc.Name] {
			return toolFailure("resolve artifacts", errCycle(r.desc.Name))
		}
		visiting[r.desc.Name] = true

		for _, depName := range r.desc.Dependencies {
			dep, ok := byName[depName]
			if !ok {
				dep, err = b.findArtifact(depName)
				if err != nil {
					return err
				}
				byName[depName] = dep
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		visiting[r.desc.Name] = false
		visited[r.desc.Name] = true
		order = append(order, r)
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}

type errCycle string

func (e errCycle) Error() string { return "dependency cycle involving artifact " + string(e) }

// findArtifact searches b.opts.Repositories for name/descriptor.json.
func (b *Builder) findArtifact(name string) (resolved, error) {
	for _, repo := range b.opts.Repositories {
		path := filepath.Join(repo, name, "descriptor.json")
		if _, err := os.Stat(path); err == nil {
			return loadDescriptor(path)
		}
	}
	return resolved{}, errArtifactNotFound(name)
}

type errArtifactNotFound string

func (e errArtifactNotFound) Error() string {
	return "artifact " + string(e) + " not found in any --repository"
}

func loadDescriptor(path string) (resolved, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return resolved{}, err
	}
	var desc ArtifactDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return resolved{}, err
	}
	return resolved{desc: &desc, dir: filepath.Dir(path)}, nil
}

// loadModules runs spec.md §4.8 steps 2-3 for one artifact: header
// import and source parse, each cached under artifacts/ by mtime.
func (b *Builder) loadModules(ctx log.Context, art resolved) ([]*ast.Module, error) {
	var modules []*ast.Module

	for _, header := range art.desc.CHeaders {
		headerPath := filepath.Join(art.dir, header)
		cached := b.cache.modulePath(moduleNameFor(header))
		if fresherThan(cached, headerPath) {
			m, err := loadModule(cached)
			if err != nil {
				return nil, err
			}
			modules = append(modules, m)
			continue
		}
		m, err := b.opts.HeaderImporter.Import(headerPath, b.opts.HeaderSearchPaths)
		if err != nil {
			return nil, err
		}
		if err := storeModule(cached, m); err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}

	for _, src := range art.desc.SourceFiles {
		srcPath := filepath.Join(art.dir, src)
		cached := b.cache.modulePath(moduleNameFor(src))
		if fresherThan(cached, srcPath) {
			m, err := loadModule(cached)
			if err != nil {
				return nil, err
			}
			modules = append(modules, m)
			continue
		}
		m, err := b.opts.Parser.Parse(srcPath)
		if err != nil {
			return nil, err
		}
		if err := storeModule(cached, m); err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}

	return modules, nil
}

func moduleNameFor(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return base[:len(base)-len(filepath.Ext(base))]
}

// emitModule runs spec.md §4.8 steps 4-5 for one module: analyze,
// validate, and (if clean) emit LLVM IR, reusing the cached object file
// if it is newer than the module's `.hl` input. Returns the object file
// path, or a CompilationError describing why the module did not build.
// Every diagnostic is logged; any error-severity diagnostic, an analyzer
// failure, or an emitter invariant violation aborts the module.
func (b *Builder) emitModule(ctx log.Context, db *types.Database, m *ast.Module) (string, *CompilationError) {
	objPath := b.cache.objectPath(m.Name, b.opts.abi().OS == device.Windows, b.opts.Debug)
	hlPath := b.cache.modulePath(m.Name)
	if fresherThan(objPath, hlPath) {
		return objPath, nil
	}

	res, err := analyzer.ProcessModule(m, db, analyzer.Options{})
	if err != nil {
		return "", &CompilationError{Module: m.Name, Err: err}
	}

	diags := validator.Validate(m, db, res.Types)
	for _, d := range diags {
		ctx.Info().Logf("%s", d.String())
	}
	if ast.AnyErrors(diags) {
		return "", &CompilationError{Module: m.Name, Err: errValidationFailed}
	}

	e := codegen.NewEmitter(m.Name, b.opts.abi(), db, nil)
	if err := e.EmitModule(m); err != nil {
		return "", &CompilationError{Module: m.Name, Err: err}
	}

	obj, err := e.Module().Object(b.opts.Optimize)
	if err != nil {
		return "", &CompilationError{Module: m.Name, Err: err}
	}
	if err := os.WriteFile(objPath, obj, 0666); err != nil {
		return "", &CompilationError{Module: m.Name, Err: err}
	}
	return objPath, nil
}

var errValidationFailed = validationFailedErr{}

type validationFailedErr struct{}

func (validationFailedErr) Error() string { return "one or more validation diagnostics were errors" }

// sortedObjects returns an artifact's object files in a deterministic
// order, independent of map iteration, for a reproducible archive/link
// command line.
func sortedObjects(objs []string) []string {
	out := append([]string(nil), objs...)
	sort.Strings(out)
	return out
}
