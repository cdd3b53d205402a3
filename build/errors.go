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
	"fmt"
	"os"

	"github.com/JPMMaia/H-sub000/core/fault/severity"
	"github.com/JPMMaia/H-sub000/core/log"
)

// CompilationError is spec.md §7 tier 2 at the artifact boundary: one
// module in the artifact failed to analyze, validate, or emit. The
// module that failed is skipped; Builder.Build keeps going on the rest
// of the artifact so the caller sees every failure in one run rather
// than stopping at the first.
type CompilationError struct {
	Module string
	Err    error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("module %q failed to build: %v", e.Module, e.Err)
}

func (e *CompilationError) Unwrap() error { return e.Err }

// ToolFailure is spec.md §7 tier 3: the build process itself cannot
// continue -- a missing artifact descriptor, an unreadable builtin
// module, a linker that exited non-zero. Unlike CompilationError this
// always aborts the whole build.
type ToolFailure struct {
	Stage string
	Err   error
}

func (e *ToolFailure) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *ToolFailure) Unwrap() error { return e.Err }

func toolFailure(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &ToolFailure{Stage: stage, Err: err}
}

// Fatal logs err at critical severity and terminates the process with a
// non-zero exit code, the tier-3 handling spec.md §7 calls for at the CLI
// boundary (cmd/hlangc), matching the teacher's core/fault + core/log
// convention of logging before an os.Exit rather than letting a panic
// print a bare Go stack trace.
func Fatal(ctx log.Context, err error) {
	if err == nil {
		return
	}
	ctx.At(severity.Critical).Logf("%v", err)
	os.Exit(1)
}
