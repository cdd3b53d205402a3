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

	"github.com/JPMMaia/H-sub000/ast"
)

// cache is the build directory's artifacts/ folder (spec.md §4.8 steps
// 2, 3, 5): every `.hl` module and `.bc`/`.obj` object file this build
// produces is content-addressed by module name and reused across runs
// when still fresh relative to its input.
type cache struct {
	dir string
}

func newCache(buildDir string) (*cache, error) {
	dir := filepath.Join(buildDir, "artifacts")
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, err
	}
	return &cache{dir: dir}, nil
}

func (c *cache) modulePath(name string) string {
	return filepath.Join(c.dir, name+".hl")
}

func (c *cache) objectPath(name string, isWindows, debug bool) string {
	ext := ".bc"
	if isWindows || debug {
		ext = ".obj"
	}
	return filepath.Join(c.dir, name+ext)
}

// fresherThan reports whether out exists and was modified no earlier
// than in -- the mtime-based reuse rule spec.md §4.8 states for both the
// header-importer cache and the per-module object cache.
func fresherThan(out, in string) bool {
	outInfo, err := os.Stat(out)
	if err != nil {
		return false
	}
	inInfo, err := os.Stat(in)
	if err != nil {
		return false
	}
	return !outInfo.ModTime().Before(inInfo.ModTime())
}

// loadModule reads a cached `.hl` file back into a Module.
func loadModule(path string) (*ast.Module, error) {
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

// storeModule writes m to path in the on-disk JSON form (spec.md §6).
func storeModule(path string, m *ast.Module) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0666)
}
