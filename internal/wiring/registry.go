// Copyright 2017 Aaron Jacobs. All Rights Reserved.
// Author: aaronjjacobs@gmail.com (Aaron Jacobs)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wiring

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jacobsa/crate/internal/registry"
)

// Create a registry persisted at the supplied path, creating the containing
// directory if needed. Typically the path comes from the config file's
// registry_path setting and sits alongside the archives.
func MakeRegistry(path string) (r registry.Registry, err error) {
	if err = os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		err = fmt.Errorf("MkdirAll: %v", err)
		return
	}

	r, err = registry.NewFileRegistry(path)
	if err != nil {
		err = fmt.Errorf("NewFileRegistry: %v", err)
		return
	}

	return
}
