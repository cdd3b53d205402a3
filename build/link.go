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
	"os"
	"os/exec"
	"path/filepath"

	"github.com/JPMMaia/H-sub000/core/log"
	"github.com/JPMMaia/H-sub000/core/os/device"
)

// Linker produces the final artifact output from a set of per-module
// object files, spec.md §4.8 step 6. The real linker driver is an
// external collaborator per spec.md §1; Builder depends only on this
// interface.
type Linker interface {
	// Archive links objects into a static library at outputPath.
	Archive(ctx log.Context, outputPath string, objects []string) error
	// LinkExecutable links objects (plus every dependency artifact's
	// archive) into an executable at outputPath, against libs.
	LinkExecutable(ctx log.Context, outputPath string, objects []string, archives []string, libs []ExternalLibrary, target *device.ABI, debug bool) error
}

// execLinker shells out to the system's native archiver/linker (`ar`,
// `cc`), the same collaborator-via-subprocess shape spec.md §1 assigns
// to "the linker driver": this package resolves what to link, not how
// the platform linker does its job.
type execLinker struct{}

func (execLinker) Archive(ctx log.Context, outputPath string, objects []string) error {
	args := append([]string{"rcs", outputPath}, sortedObjects(objects)...)
	return runTool(ctx, "ar", args...)
}

func (execLinker) LinkExecutable(ctx log.Context, outputPath string, objects []string, archives []string, libs []ExternalLibrary, target *device.ABI, debug bool) error {
	osName := "linux"
	switch target.OS {
	case device.Windows:
		osName = "windows"
	case device.OSX:
		osName = "darwin"
	}

	args := []string{"-o", outputPath}
	args = append(args, sortedObjects(objects)...)
	args = append(args, archives...)
	for _, lib := range libs {
		if !lib.appliesTo(osName, debug) {
			continue
		}
		if lib.Dynamic {
			args = append(args, "-l"+lib.Name)
		} else {
			args = append(args, "-Wl,-Bstatic", "-l"+lib.Name, "-Wl,-Bdynamic")
		}
	}
	return runTool(ctx, "cc", args...)
}

func runTool(ctx log.Context, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	ctx.Info().Logf("%s %v", name, args)
	return cmd.Run()
}

// link runs spec.md §4.8 steps 6-7 for target: libraries become a static
// archive, executables link against every dependency's archive and the
// descriptor's external_libraries, and on Windows dependent DLLs are
// copied alongside the output.
func (b *Builder) link(ctx log.Context, target resolved, order []resolved, objectsByArtifact map[string][]string) (string, error) {
	binDir := filepath.Join(b.opts.BuildDir, "bin")
	if err := os.MkdirAll(binDir, 0777); err != nil {
		return "", err
	}

	if !target.desc.isExecutable() {
		outputPath := filepath.Join(binDir, "lib"+target.desc.Name+".a")
		if err := b.opts.Linker.Archive(ctx, outputPath, objectsByArtifact[target.desc.Name]); err != nil {
			return "", err
		}
		return outputPath, nil
	}

	var archives []string
	for _, dep := range order {
		if dep.desc.Name == target.desc.Name || dep.desc.isExecutable() {
			continue
		}
		archivePath := filepath.Join(binDir, "lib"+dep.desc.Name+".a")
		if err := b.opts.Linker.Archive(ctx, archivePath, objectsByArtifact[dep.desc.Name]); err != nil {
			return "", err
		}
		archives = append(archives, archivePath)
	}

	outputPath := filepath.Join(binDir, target.desc.Name)
	abi := b.opts.abi()
	if abi.OS == device.Windows {
		outputPath += ".exe"
	}
	if err := b.opts.Linker.LinkExecutable(ctx, outputPath, objectsByArtifact[target.desc.Name], archives, target.desc.ExternalLibraries, abi, b.opts.Debug); err != nil {
		return "", err
	}

	if abi.OS == device.Windows {
		if err := copyDependentDLLs(order, binDir); err != nil {
			return "", err
		}
	}
	return outputPath, nil
}

// copyDependentDLLs implements spec.md §4.8 step 7: every dynamic
// external library a dependency requested is copied next to the
// executable so it can find them without relying on PATH.
func copyDependentDLLs(order []resolved, binDir string) error {
	for _, r := range order {
		for _, lib := range r.desc.ExternalLibraries {
			if !lib.Dynamic {
				continue
			}
			src := lib.Name + ".dll"
			if _, err := os.Stat(src); err != nil {
				continue // not found alongside the build; nothing to copy
			}
			data, err := os.ReadFile(src)
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(binDir, src), data, 0666); err != nil {
				return err
			}
		}
	}
	return nil
}
