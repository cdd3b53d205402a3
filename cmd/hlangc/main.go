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

// Command hlangc drives the module builder of spec.md §4.8: it resolves
// an artifact descriptor and its dependencies, compiles every module, and
// links the result.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JPMMaia/H-sub000/core/app/crash"
	"github.com/JPMMaia/H-sub000/core/fault/stacktrace"
	"github.com/JPMMaia/H-sub000/core/log"
)

// builtinEnvVar names the environment variable spec.md §6 calls
// <BUILTIN_SOURCE_FILE_PATH>.
const builtinEnvVar = "HLANGC_BUILTIN_SOURCE_FILE_PATH"

func init() {
	crash.Register(func(e interface{}, s stacktrace.Callstack) {
		fmt.Fprintf(os.Stderr, "hlangc: fatal: %v\n%s\n", e, s.String())
	})
}

func main() {
	defer func() {
		if e := recover(); e != nil {
			crash.Crash(e)
		}
	}()

	root := &cobra.Command{Use: "hlangc"}
	root.AddCommand(newBuildCommand())
	if err := root.Execute(); err != nil {
		// cobra has already printed the usage/error to stderr.
		os.Exit(1)
	}
}

// diagnosticWriter streams log.Raw-styled text to stderr, so a
// Diagnostic's own String() -- already exactly "file:line:col: severity:
// message" -- reaches the user unmodified, per spec.md §6.
func diagnosticWriter() log.Writer {
	return func(text string, severity log.Severity) {
		fmt.Fprintln(os.Stderr, text)
	}
}
