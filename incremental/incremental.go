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

// Package incremental computes the minimal set of modules a source change
// forces back through the compiler, by diffing declaration fingerprints
// and walking the reverse-dependency graph (spec.md §4.9).
package incremental

import "github.com/JPMMaia/H-sub000/types"

// PlanRecompile returns the modules that must rebuild after module has
// been re-parsed and re-indexed into db, given the fingerprint map it had
// before the edit. The result is ordered by discovery (breadth-first from
// module outward), so a dependent is never listed before something it
// depends on that also needs rebuilding.
//
// The algorithm: a module freshly enqueued for recompilation is assumed,
// conservatively, to have its entire export interface available to change
// call sites in its own importers -- db has no cheaper way to tell which
// of its symbols a transitively-propagated edit actually touched, since
// only the originally-edited module's fingerprints were ever diffed
// against a prior snapshot.
func PlanRecompile(db *types.Database, module string, old map[string]uint64) []string {
	changed := diffFingerprints(old, db.Fingerprints(module))
	if len(changed) == 0 {
		return nil
	}

	enqueued := map[string]bool{module: true}
	var order []string
	queue := []frontierModule{{name: module, changedSymbols: changed}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, dep := range db.ImportersOf(cur.name) {
			if enqueued[dep.Module] || !usesAnyOf(dep.UsedSymbols, cur.changedSymbols) {
				continue
			}
			enqueued[dep.Module] = true
			order = append(order, dep.Module)
			queue = append(queue, frontierModule{name: dep.Module, changedSymbols: db.ExportedNames(dep.Module)})
		}
	}
	return order
}

type frontierModule struct {
	name           string
	changedSymbols []string
}

// diffFingerprints returns the symbol names present in, or differing
// between, old and new -- spec.md §4.9 step 2's "changed" set.
func diffFingerprints(old, new map[string]uint64) []string {
	var changed []string
	seen := make(map[string]bool, len(new))
	for name, h := range new {
		seen[name] = true
		if oh, ok := old[name]; !ok || oh != h {
			changed = append(changed, name)
		}
	}
	for name := range old {
		if !seen[name] {
			changed = append(changed, name)
		}
	}
	return changed
}

// usesAnyOf reports whether an importer that lists used (empty meaning
// "imports everything") references any symbol in changed.
func usesAnyOf(used, changed []string) bool {
	if len(changed) == 0 {
		return false
	}
	if len(used) == 0 {
		return true
	}
	changedSet := make(map[string]bool, len(changed))
	for _, c := range changed {
		changedSet[c] = true
	}
	for _, u := range used {
		if changedSet[u] {
			return true
		}
	}
	return false
}
