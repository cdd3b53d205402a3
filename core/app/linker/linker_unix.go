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

//go:build linux || darwin

package linker

/*
#include <dlfcn.h>
#include <stdlib.h>
*/
import "C"
import "unsafe"

// ProcAddress resolves name against every image already loaded into this
// process (RTLD_DEFAULT), matching what the dynamic linker would do for an
// undefined symbol referenced by a freshly loaded shared object.
func ProcAddress(name string) uintptr {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return uintptr(C.dlsym(C.RTLD_DEFAULT, cname))
}
