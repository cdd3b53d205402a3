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
	"github.com/fsnotify/fsnotify"

	"github.com/JPMMaia/H-sub000/core/log"
)

// Watch starts watching every module's registered source file for writes,
// recompiling the owning module (and its dependents) on each one. It blocks
// until ctx is cancelled, the way spec.md §4.9 describes a watch loop
// driving add_module_for_compilation on every change event. The returned
// error is whatever stopped the loop; a cancelled context is not reported
// as an error.
func (d *Driver) Watch(ctx log.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := d.addWatches(w); err != nil {
		return err
	}

	done := ctx.Unwrap().Done()
	for {
		select {
		case <-done:
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			d.onFileChanged(ctx, ev.Name)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			ctx.Error().Logf("watch: %v", err)
		}
	}
}

// addWatches registers every currently-known module source file with w.
func (d *Driver) addWatches(w *fsnotify.Watcher) error {
	d.mu.RLock()
	paths := make([]string, 0, len(d.moduleToPath))
	for _, p := range d.moduleToPath {
		paths = append(paths, p)
	}
	d.mu.RUnlock()

	for _, p := range paths {
		if err := w.Add(p); err != nil {
			return err
		}
	}
	return nil
}

// onFileChanged finds which module owns path and recompiles it, logging
// (rather than propagating) any error: one bad edit should not take the
// watch loop down.
func (d *Driver) onFileChanged(ctx log.Context, path string) {
	d.mu.RLock()
	var module string
	for name, p := range d.moduleToPath {
		if p == path {
			module = name
			break
		}
	}
	d.mu.RUnlock()

	if module == "" {
		return
	}
	if err := d.Recompile(ctx, module); err != nil {
		ctx.Error().Logf("recompile %s: %v", module, err)
	}
}
