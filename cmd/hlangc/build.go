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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JPMMaia/H-sub000/build"
	"github.com/JPMMaia/H-sub000/core/fault/severity"
	"github.com/JPMMaia/H-sub000/core/log"
	"github.com/JPMMaia/H-sub000/core/os/device"
)

// namedABIs are the cross-compilation targets --target accepts; hlangc
// does not discover a device the way gapid's device/bind package does,
// since this pipeline has no notion of an attached device to query.
var namedABIs = map[string]*device.ABI{
	device.LinuxX86_64.Name:   device.LinuxX86_64,
	device.OSXX86_64.Name:     device.OSXX86_64,
	device.WindowsX86_64.Name: device.WindowsX86_64,
	device.LinuxARMv8a.Name:   device.LinuxARMv8a,
	device.LinuxARMv7a.Name:   device.LinuxARMv7a,
}

func newBuildCommand() *cobra.Command {
	var (
		headerSearchPaths []string
		repositories      []string
		target            string
		debug             bool
		optimize          bool
	)

	cmd := &cobra.Command{
		Use:   "build <artifact.json>",
		Short: "Compile and link an artifact and its dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			abi, err := resolveTarget(target)
			if err != nil {
				return err
			}

			builtinPath := os.Getenv(builtinEnvVar)
			if builtinPath == "" {
				return fmt.Errorf("%s is not set", builtinEnvVar)
			}

			base := log.PutHandler(context.Background(), log.Raw.Handler(diagnosticWriter()))
			ctx := log.Wrap(base).PreFilter(log.Limit(severity.Info))

			b, err := build.NewBuilder(build.Options{
				BuildDir:          "build",
				HeaderSearchPaths: headerSearchPaths,
				Repositories:      repositories,
				Target:            abi,
				Debug:             debug,
				Optimize:          optimize,
				BuiltinModulePath: builtinPath,
			})
			if err != nil {
				build.Fatal(ctx, err)
			}

			output, failures, err := b.Build(ctx, args[0])
			if err != nil {
				build.Fatal(ctx, err)
			}
			for _, f := range failures {
				ctx.Error().Logf("%v", f)
			}
			if len(failures) > 0 {
				return fmt.Errorf("%d module(s) failed to build", len(failures))
			}

			fmt.Fprintln(os.Stdout, output)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&headerSearchPaths, "header-search-path", nil, "directory to search for imported C headers")
	flags.StringArrayVar(&repositories, "repository", nil, "directory to search for dependency artifacts")
	flags.StringVar(&target, "target", "", "target device ABI (default: host)")
	flags.BoolVar(&debug, "debug", false, "emit .obj object files instead of LLVM bitcode")
	flags.BoolVar(&optimize, "optimize", false, "optimize generated code")
	return cmd
}

func resolveTarget(name string) (*device.ABI, error) {
	if name == "" {
		return nil, nil
	}
	abi, ok := namedABIs[name]
	if !ok {
		return nil, fmt.Errorf("unknown target ABI %q", name)
	}
	return abi, nil
}
