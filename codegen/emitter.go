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

// Package codegen lowers an analyzed, validated module to LLVM IR. It uses
// the core/codegen Builder's high-level If/IfElse constructs for
// conditionals and raw basic blocks for loops and switches, and routes
// aggregate call arguments through the abi package's System V classifier.
package codegen

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/JPMMaia/H-sub000/abi"
	"github.com/JPMMaia/H-sub000/ast"
	llcg "github.com/JPMMaia/H-sub000/core/codegen"
	"github.com/JPMMaia/H-sub000/core/os/device"
	"github.com/JPMMaia/H-sub000/types"
)

// Emitter lowers every function definition of one module into a single
// LLVM module. One Emitter is good for exactly one ast.Module; cross-
// module calls are resolved through the shared declaration database.
type Emitter struct {
	m          *llcg.Module
	mod        *ast.Module
	db         *types.Database
	classifier *abi.Classifier

	builtins map[string]llcg.Type
	named    map[string]llcg.Type // "module.Name" -> lowered struct/enum/alias

	functions    map[string]*llcg.Function
	functionABIs map[string]*abi.FunctionABI
	globals      map[string]llcg.Global
}

// NewEmitter creates an Emitter targeting target, backed by db for
// cross-module declaration lookups. builtins maps the language's builtin
// type names (as referenced by ast.BuiltinReference) to their codegen
// representation; the builtin module itself is expected to have already
// been lowered once per process, per spec.md §6's
// "<BUILTIN_SOURCE_FILE_PATH>" contract.
func NewEmitter(moduleName string, target *device.ABI, db *types.Database, builtins map[string]llcg.Type) *Emitter {
	m := llcg.NewModule(moduleName, target)
	if builtins == nil {
		builtins = map[string]llcg.Type{}
	}
	return &Emitter{
		m:            m,
		db:           db,
		classifier:   abi.NewClassifier(target, &m.Types),
		builtins:     builtins,
		named:        map[string]llcg.Type{},
		functions:    map[string]*llcg.Function{},
		functionABIs: map[string]*abi.FunctionABI{},
		globals:      map[string]llcg.Global{},
	}
}

// Module returns the LLVM module being built.
func (e *Emitter) Module() *llcg.Module { return e.m }

// Function returns the declared LLVM function for module.name, if any.
func (e *Emitter) Function(module, name string) (*llcg.Function, bool) {
	fn, ok := e.functions[functionKey(module, name)]
	return fn, ok
}

// EmitModule lowers every exported and internal function declaration of
// mod, then builds the body of every function with a matching entry in
// mod.Definitions. An invariant violation the validator should already
// have ruled out panics inside the emitter; EmitModule recovers it and
// returns it as a *CompilationFailure (spec.md §7 tier 2).
func (e *Emitter) EmitModule(mod *ast.Module) (err error) {
	e.mod = mod
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = &CompilationFailure{Module: mod.Name, Err: rerr}
				return
			}
			err = &CompilationFailure{Module: mod.Name, Err: errors.Errorf("%v", r)}
		}
	}()

	for _, fn := range mod.AllFunctions() {
		if fn.IsFunctionConstructor() {
			continue // function constructors have no direct IR; only instances do
		}
		e.declareFunction(mod.Name, fn)
	}

	for i := range mod.Definitions {
		def := &mod.Definitions[i]
		decl := findFunctionDecl(mod, def.Name)
		if decl == nil {
			continue
		}
		e.buildFunction(mod.Name, decl, def)
	}

	return nil
}

func findFunctionDecl(mod *ast.Module, name string) *ast.FunctionDeclaration {
	for _, fn := range mod.AllFunctions() {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// CompilationFailure mirrors analyzer.CompilationFailure for the emission
// phase (spec.md §7 tier 2): an invariant the validator should have
// caught was broken instead, aborting this module only.
type CompilationFailure struct {
	Module string
	Err    error
}

func (e *CompilationFailure) Error() string {
	return fmt.Sprintf("code generation failure in module %q: %v", e.Module, e.Err)
}

func (e *CompilationFailure) Unwrap() error { return e.Err }

func functionKey(module, name string) string { return module + "." + name }

// moduleForAlias resolves a dependency alias to the module name it
// stands for, the same lookup accessType uses to deduce a cross-module
// Access expression's type.
func (e *Emitter) moduleForAlias(alias string) (string, bool) {
	for _, dep := range e.mod.Dependencies {
		if dep.Alias == alias {
			return dep.ModuleName, true
		}
	}
	return "", false
}

// declareFunction lowers decl's signature, classifies it through the ABI
// bridge, and declares the resulting LLVM function -- the declared
// parameter types are the ABI-coerced ones, never the source types,
// exactly as a C compiler would emit them for this target triple.
func (e *Emitter) declareFunction(module string, decl *ast.FunctionDeclaration) *llcg.Function {
	key := functionKey(module, decl.Name)
	if fn, ok := e.functions[key]; ok {
		return fn
	}

	paramTypes := make([]llcg.Type, len(decl.Inputs))
	for i, p := range decl.Inputs {
		paramTypes[i] = e.lowerType(p.Type)
	}
	resultTy := e.lowerOutputs(decl.Outputs)

	sig := e.m.Types.Function(resultTy, appendVariadic(paramTypes, decl.IsVariadic)...)
	info := e.classifier.ClassifyFunction(sig.Signature)

	abiParamTypes := make([]llcg.Type, len(paramTypes))
	for i, pt := range paramTypes {
		switch info.Parameters[i].Kind {
		case abi.Indirect:
			abiParamTypes[i] = e.m.Types.Pointer(pt)
		default:
			if info.Parameters[i].CoerceType != nil {
				abiParamTypes[i] = info.Parameters[i].CoerceType
			} else {
				abiParamTypes[i] = pt
			}
		}
	}

	abiResultTy := resultTy
	if info.Result.Kind == abi.Direct && info.Result.CoerceType != nil {
		abiResultTy = info.Result.CoerceType
	}
	// A result classified Indirect (an aggregate over two eightbytes) is
	// acknowledged but not implemented: the SysV hidden-sret-pointer
	// convention needs a prepended pointer parameter AND callee-side
	// "return the pointer back" handling that core/codegen's Function.Build
	// does not expose a hook for. Large struct returns are rejected here
	// rather than miscompiled.
	if info.Result.Kind == abi.Indirect {
		fail("function %s returns an aggregate larger than 16 bytes by value, which requires the sret calling convention (not implemented)", decl.Name)
	}

	name := decl.UniqueName
	if name == "" {
		name = key
	}
	fn := e.m.Function(abiResultTy, name, appendVariadic(abiParamTypes, decl.IsVariadic)...)
	if len(decl.Inputs) > 0 {
		names := make([]string, len(decl.Inputs))
		for i, p := range decl.Inputs {
			names[i] = p.Name
		}
		fn.SetParameterNames(names...)
	}
	if decl.Linkage == ast.LinkageInternal {
		fn.LinkInternal()
	}

	e.functions[key] = fn
	e.functionABIs[key] = info
	return fn
}

func appendVariadic(tys []llcg.Type, variadic bool) []llcg.Type {
	if !variadic {
		return tys
	}
	return append(append([]llcg.Type{}, tys...), llcg.Variadic)
}
