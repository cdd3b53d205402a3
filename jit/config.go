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

// Package jit drives the incremental, in-process execution engine of
// spec.md §4.9: it keeps one MCJIT executor per module alive, recompiles
// and swaps a module's executor in place when its source file changes,
// and resolves symbols across module boundaries on demand.
package jit

import (
	"github.com/JPMMaia/H-sub000/build"
	"github.com/JPMMaia/H-sub000/core/os/device"
)

// Config selects the compilation target for every module a Driver builds.
// It is the JIT analogue of build.Options, trimmed to what recompiling a
// single module in place needs.
type Config struct {
	// Target is the ABI to JIT for; nil means the host.
	Target *device.ABI

	// Optimize is passed through to MCJIT compilation.
	Optimize bool

	// Parser turns a module's source file into an ast.Module. With no
	// concrete-syntax grammar in scope, build.JSONModuleParser{} (the
	// on-disk JSON form) is used if Parser is nil.
	Parser build.SourceParser
}

func (c Config) abi() *device.ABI {
	if c.Target != nil {
		return c.Target
	}
	return device.HostABI()
}

func (c Config) parser() build.SourceParser {
	if c.Parser != nil {
		return c.Parser
	}
	return build.JSONModuleParser{}
}
