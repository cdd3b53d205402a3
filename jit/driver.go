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

package jit

import (
	"sync"
	"unsafe"

	"github.com/JPMMaia/H-sub000/ast"
	hcg "github.com/JPMMaia/H-sub000/codegen"
	llcg "github.com/JPMMaia/H-sub000/core/codegen"
	"github.com/JPMMaia/H-sub000/core/app/status"
	"github.com/JPMMaia/H-sub000/core/log"
	"github.com/JPMMaia/H-sub000/incremental"
	"github.com/JPMMaia/H-sub000/types"
)

// compiled is one module's live JIT state: the emitter that owns its LLVM
// module (needed to resolve a function by name) and the MCJIT executor
// built from it.
type compiled struct {
	emitter  *hcg.Emitter
	executor *llcg.Executor
}

// Driver is the JIT execution engine of spec.md §4.9. Zero value is not
// usable; construct with NewDriver.
//
// Module_name_to_file_path (spec.md §5) is this Driver's moduleToPath,
// guarded by mu: the file-watcher callback and any caller resolving a
// symbol both take the read lock, and a recompile takes the write lock
// for the whole reparse+reemit+swap, matching spec.md §5's "coarse-
// grained exclusion via a single write lock" discipline.
type Driver struct {
	cfg Config
	db  *types.Database

	mu             sync.RWMutex
	moduleToPath   map[string]string
	compiledByName map[string]*compiled
	symbolToModule map[string]string
}

// NewDriver returns a Driver with an empty database; call AddModule for
// each root module before resolving any symbol.
func NewDriver(cfg Config) *Driver {
	return &Driver{
		cfg:            cfg,
		db:             types.NewDatabase(),
		moduleToPath:   map[string]string{},
		compiledByName: map[string]*compiled{},
		symbolToModule: map[string]string{},
	}
}

// AddModule parses path, indexes it into the database, and JIT-compiles
// it, registering it under the name its Module declares.
func (d *Driver) AddModule(ctx log.Context, path string) error {
	ctx = log.Wrap(status.Start(ctx.Unwrap(), "jit.AddModule %s", path))
	defer status.Finish(ctx.Unwrap())

	m, err := d.cfg.parser().Parse(path)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.compileLocked(ctx, path, m)
}

// compileLocked emits and JIT-compiles m, replacing any previous executor
// registered under the same module name -- the "symbol redefinition"
// spec.md §4.9 describes for a watched file's reparse. Callers must hold
// mu for writing.
func (d *Driver) compileLocked(ctx log.Context, path string, m *ast.Module) error {
	d.db.AddDeclarations(m)
	d.moduleToPath[m.Name] = path
	for _, name := range d.db.ExportedNames(m.Name) {
		d.symbolToModule[name] = m.Name
	}

	e := hcg.NewEmitter(m.Name, d.cfg.abi(), d.db, nil)
	if err := e.EmitModule(m); err != nil {
		return err
	}
	exec, err := e.Module().Executor(d.cfg.Optimize)
	if err != nil {
		return err
	}

	d.compiledByName[m.Name] = &compiled{emitter: e, executor: exec}
	return nil
}

// Recompile reparses the file already registered for module, recompiles
// it, and recompiles every module spec.md §4.9's reverse-dependency
// propagation finds downstream of it, in the order PlanRecompile returns.
func (d *Driver) Recompile(ctx log.Context, module string) error {
	ctx = log.Wrap(status.Start(ctx.Unwrap(), "jit.Recompile %s", module))
	defer status.Finish(ctx.Unwrap())

	d.mu.Lock()
	defer d.mu.Unlock()

	path, ok := d.moduleToPath[module]
	if !ok {
		return errUnknownModule(module)
	}

	old := d.db.Fingerprints(module)

	m, err := d.cfg.parser().Parse(path)
	if err != nil {
		return err
	}
	if err := d.compileLocked(ctx, path, m); err != nil {
		return err
	}

	for _, dependent := range incremental.PlanRecompile(d.db, module, old) {
		depPath, ok := d.moduleToPath[dependent]
		if !ok {
			continue // a dependent whose own source isn't watched needs no rebuild here
		}
		depModule, err := d.cfg.parser().Parse(depPath)
		if err != nil {
			return err
		}
		if err := d.compileLocked(ctx, depPath, depModule); err != nil {
			return err
		}
	}
	return nil
}

type errUnknownModule string

func (e errUnknownModule) Error() string { return "jit: no module named " + string(e) + " is registered" }

// Lookup resolves a function's address, compiling its owning module on
// demand if it has not been built yet -- the custom definition generator
// spec.md §4.9 describes for ORC's unresolved-symbol callback, approximated
// here since this module's executor is MCJIT-backed (per core/codegen),
// not an ORC JITDylib: synthesizing the missing module means running this
// Driver's own compile path for it rather than registering a lazy stub.
func (d *Driver) Lookup(module, symbol string) (unsafe.Pointer, bool) {
	d.mu.RLock()
	c, ok := d.compiledByName[module]
	d.mu.RUnlock()
	if !ok {
		if !d.synthesize(module) {
			return nil, false
		}
		d.mu.RLock()
		c, ok = d.compiledByName[module]
		d.mu.RUnlock()
		if !ok {
			return nil, false
		}
	}

	fn, ok := c.emitter.Function(module, symbol)
	if !ok {
		return nil, false
	}
	return c.executor.FunctionAddress(fn), true
}

// ModuleOf returns the module a previously-compiled symbol belongs to, the
// symbol→module map spec.md §4.9 names.
func (d *Driver) ModuleOf(symbol string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.symbolToModule[symbol]
	return m, ok
}

// synthesize compiles module on demand if its source path is already
// registered but it has not yet been built (e.g. added via AddModule's
// dependency resolution without its own direct compile call).
func (d *Driver) synthesize(module string) bool {
	d.mu.Lock()
	path, ok := d.moduleToPath[module]
	d.mu.Unlock()
	if !ok {
		return false
	}
	m, err := d.cfg.parser().Parse(path)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.compileLocked(log.TODO(), path, m) == nil
}
