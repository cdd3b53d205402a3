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

import "runtime"

var hostABI = func() *ABI {
	arch := ArchitectureByName(runtime.GOARCH)
	os := OSByName(runtime.GOOS)
	layout := Little64
	if arch.Bitness() == 32 {
		layout = Little32
	}
	return abi(runtime.GOOS+"_"+runtime.GOARCH, os, arch, layout)
}()
