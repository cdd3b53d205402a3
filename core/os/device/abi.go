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

package device

// ABI names a compilation target: the triple codegen resolves to an LLVM
// target triple, plus the memory layout its module construction needs.
type ABI struct {
	Name         string
	OS           OSKind
	Architecture Architecture
	MemoryLayout *MemoryLayout
}

var (
	UnknownABI = abi("unknown", UnknownOS, UnknownArchitecture, &MemoryLayout{})

	LinuxX86_64   = abi("linux_x64", Linux, X86_64, X86_64Layout)
	OSXX86_64     = abi("osx_x64", OSX, X86_64, X86_64Layout)
	WindowsX86_64 = abi("windows_x64", Windows, X86_64, X86_64Layout)
	LinuxARMv8a   = abi("linux_arm64", Linux, ARMv8a, ARM64v8aLayout)
	LinuxARMv7a   = abi("linux_arm", Linux, ARMv7a, ARMv7aLayout)
)

func abi(name string, os OSKind, arch Architecture, ml *MemoryLayout) *ABI {
	return &ABI{Name: name, OS: os, Architecture: arch, MemoryLayout: ml}
}

// SameAs returns true if the two abi objects are a match. Name and memory
// layout are not considered, only the (os, architecture) pair -- this is
// intended for matching a just-built artifact against the host it will run
// on, per spec.md §4.8 "artifact/target resolution".
func (a *ABI) SameAs(o *ABI) bool {
	if a == nil {
		a = UnknownABI
	}
	if o == nil {
		o = UnknownABI
	}
	return a.OS == o.OS && a.Architecture == o.Architecture
}

// HostABI returns the ABI of the machine compiling (spec.md §4.8, the
// target used for a JIT-only build when no cross-compilation is requested).
func HostABI() *ABI {
	return hostABI
}
