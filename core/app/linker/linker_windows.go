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

//go:build windows

package linker

import "syscall"

// modules is the set of images ProcAddress searches. The process's own
// executable and the C runtime cover every extern a generated module is
// expected to declare; callers needing more can extend this list.
var modules = []string{"", "msvcrt.dll", "kernel32.dll"}

// ProcAddress resolves name against the modules already loaded into this
// process, mirroring linker_unix.go's RTLD_DEFAULT lookup.
func ProcAddress(name string) uintptr {
	for _, mod := range modules {
		var handle syscall.Handle
		var err error
		if mod == "" {
			handle, err = syscall.GetModuleHandle("")
		} else {
			handle, err = syscall.LoadLibrary(mod)
		}
		if err != nil {
			continue
		}
		if addr, err := syscall.GetProcAddress(handle, name); err == nil {
			return uintptr(addr)
		}
	}
	return 0
}
