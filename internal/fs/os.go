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

package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type osFileSystem struct {
}

func (f *osFileSystem) ReadDir(path string) (
	entries []*DirectoryEntry,
	err error) {
	// os.ReadDir returns entries sorted by name, each carrying the type bits
	// from the directory read itself.
	osEntries, err := os.ReadDir(path)
	if err != nil {
		return
	}

	for _, osEntry := range osEntries {
		entry := &DirectoryEntry{
			Name: osEntry.Name(),
			Type: TypeUnsupported,
		}

		mode := osEntry.Type()
		switch {
		case mode.IsDir():
			entry.Type = TypeDirectory

		case mode.IsRegular():
			entry.Type = TypeFile

		case mode&os.ModeSymlink != 0:
			entry.Type = classifyTarget(filepath.Join(path, osEntry.Name()))
		}

		entries = append(entries, entry)
	}

	return
}

// Classify a symlink by what it points at. Links whose targets cannot be
// resolved are unsupported.
func classifyTarget(path string) (t EntryType) {
	t = TypeUnsupported

	fi, err := os.Stat(path)
	if err != nil {
		return
	}

	switch {
	case fi.IsDir():
		t = TypeDirectory

	case fi.Mode().IsRegular():
		t = TypeFile
	}

	return
}

func (f *osFileSystem) RealPath(path string) (resolved string, err error) {
	resolved, err = filepath.Abs(path)
	if err != nil {
		err = fmt.Errorf("Abs: %v", err)
		return
	}

	resolved, err = filepath.EvalSymlinks(resolved)
	return
}

func (f *osFileSystem) Stat(path string) (fi os.FileInfo, err error) {
	fi, err = os.Stat(path)
	return
}

func (f *osFileSystem) OpenForReading(path string) (
	rc io.ReadCloser,
	err error) {
	rc, err = os.Open(path)
	return
}

func (f *osFileSystem) MkdirAll(path string, perms os.FileMode) (err error) {
	err = os.MkdirAll(path, perms)
	return
}

func (f *osFileSystem) CreateFile(path string, perms os.FileMode) (
	wc io.WriteCloser,
	err error) {
	wc, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perms)
	return
}
