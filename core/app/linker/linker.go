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

// Package linker resolves extern symbols against the running process's own
// address space, the way a platform's dynamic linker would for a shared
// library being loaded into it. core/codegen's MCJIT executor uses this to
// reject a module up front if one of its declared externs has nowhere to
// resolve to, rather than failing deep inside LLVM at call time.
//
// ProcAddress is implemented per-platform; see linker_unix.go and
// linker_windows.go.
package linker
