// Copyright (C) 2018 Google Inc.
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

// Package status tracks nested long-running tasks by attaching them to a
// context, the way the JIT driver traces a compile/recompile step. This is
// a trimmed-down Start/Finish pair adapted from a task tree that elsewhere
// also drives progress listeners and tracers; this system has no UI to
// report progress to, so only the tree itself and its debug logging stay.
package status

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JPMMaia/H-sub000/core/context/keys"
	"github.com/JPMMaia/H-sub000/core/log"
)

type taskKeyTy string

const taskKey = taskKeyTy("task")

// PutTask attaches a task to a Context.
func PutTask(ctx context.Context, t *Task) context.Context {
	return keys.WithValue(ctx, taskKey, t)
}

// GetTask retrieves the task from a context previously annotated by PutTask.
func GetTask(ctx context.Context) *Task {
	val := ctx.Value(taskKey)
	if val == nil {
		return nil
	}
	return val.(*Task)
}

var app = Task{begun: time.Now(), children: map[*Task]struct{}{}}
var nextID = uint64(1)

// Task represents a long-running job reported as part of the JIT driver's
// compile tracing.
type Task struct {
	id       uint64
	name     string
	begun    time.Time
	parent   *Task
	children map[*Task]struct{}
	mutex    sync.RWMutex
}

func (t *Task) add(c *Task) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.children[c] = struct{}{}
}

func (t *Task) remove(c *Task) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	delete(t.children, c)
}

func (t *Task) String() string {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.parent != nil && t.parent.name != "" {
		return fmt.Sprintf("%v → %v", t.parent, t.name)
	}
	return t.name
}

// ID returns the task's unique identifier.
func (t *Task) ID() uint64 { t.mutex.RLock(); defer t.mutex.RUnlock(); return t.id }

// Name returns the task's name.
func (t *Task) Name() string { t.mutex.RLock(); defer t.mutex.RUnlock(); return t.name }

// TimeSinceStart returns how long the task has been running.
func (t *Task) TimeSinceStart() time.Duration {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return time.Since(t.begun)
}

// SubTasks returns the task's children, oldest first.
func (t *Task) SubTasks() []*Task {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	l := make([]*Task, 0, len(t.children))
	for c := range t.children {
		l = append(l, c)
	}
	sort.Slice(l, func(i, j int) bool { return l[i].begun.Before(l[j].begun) })
	return l
}

// Start returns a new context for a long running task; Finish must be
// called with the returned context once the task completes.
func Start(ctx context.Context, name string, args ...interface{}) context.Context {
	parent := GetTask(ctx)
	if parent == nil {
		parent = &app
	}
	t := &Task{
		id:       atomic.AddUint64(&nextID, 1),
		name:     fmt.Sprintf(name, args...),
		begun:    time.Now(),
		parent:   parent,
		children: map[*Task]struct{}{},
	}
	log.Wrap(ctx).Debug().Logf("starting task: %s", t.name)
	parent.add(t)
	return PutTask(ctx, t)
}

// Finish marks the task started with Start as finished.
func Finish(ctx context.Context) {
	t := GetTask(ctx)
	if t == nil {
		panic("status.Finish called with no corresponding status.Start")
	}
	log.Wrap(ctx).Debug().Logf("finished task: %s (%s)", t.name, t.TimeSinceStart())
	t.parent.remove(t)
}

// Do calls block between Start and Finish.
func Do(ctx context.Context, name string, block func(context.Context)) {
	ctx = Start(ctx, name)
	defer Finish(ctx)
	block(ctx)
}
