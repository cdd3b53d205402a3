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

package codegen

import (
	llcg "github.com/JPMMaia/H-sub000/core/codegen"
)

// frameKind distinguishes the two block-info shapes that break can target:
// a loop's repeat/after pair, or a switch's after-only exit. continue only
// ever targets the nearest loop frame, skipping over switch frames.
type frameKind int

const (
	loopFrame frameKind = iota
	switchFrame
)

type blockInfo struct {
	kind   frameKind
	repeat llcg.Block // continue target; zero value for switchFrame
	after  llcg.Block // break target
}

// Frame holds the per-function emission state: the enclosing loop/switch
// stack break and continue resolve against, and the local-variable
// bindings (parameter and variable-declaration allocas) currently in
// scope. Locals shadow by save/restore around the block that introduces
// them, mirroring the way the analyzer's ast.Scope is marked and
// truncated at block boundaries.
type Frame struct {
	e      *Emitter
	b      *llcg.Builder
	module string

	locals map[string]*llcg.Value
	blocks []blockInfo
}

func newFrame(e *Emitter, b *llcg.Builder, module string) *Frame {
	return &Frame{e: e, b: b, module: module, locals: map[string]*llcg.Value{}}
}

// declareLocal binds name to alloca for the remainder of the current
// scope, returning the function to call on scope exit to restore
// whatever name previously resolved to (nil if it was unbound).
func (f *Frame) declareLocal(name string, alloca *llcg.Value) (restore func()) {
	prev, had := f.locals[name]
	f.locals[name] = alloca
	return func() {
		if had {
			f.locals[name] = prev
		} else {
			delete(f.locals, name)
		}
	}
}

func (f *Frame) pushLoop(repeat, after llcg.Block) {
	f.blocks = append(f.blocks, blockInfo{kind: loopFrame, repeat: repeat, after: after})
}

func (f *Frame) pushSwitch(after llcg.Block) {
	f.blocks = append(f.blocks, blockInfo{kind: switchFrame, after: after})
}

func (f *Frame) pop() {
	f.blocks = f.blocks[:len(f.blocks)-1]
}

// emitBreak jumps to the after-block of the loopCount'th enclosing
// loop/switch frame, counting from the innermost (loopCount == 1).
func (f *Frame) emitBreak(loopCount int) {
	idx := len(f.blocks) - loopCount
	if idx < 0 || idx >= len(f.blocks) {
		fail("break %d has no matching enclosing loop or switch", loopCount)
	}
	f.b.Branch(f.blocks[idx].after)
}

// emitContinue jumps to the repeat-block of the nearest enclosing loop
// frame, skipping any switch frame in between.
func (f *Frame) emitContinue() {
	for i := len(f.blocks) - 1; i >= 0; i-- {
		if f.blocks[i].kind == loopFrame {
			f.b.Branch(f.blocks[i].repeat)
			return
		}
	}
	fail("continue outside of a loop")
}
