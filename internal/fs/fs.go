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

// Package fs exposes the narrow slice of the file system that crate consumes,
// behind an interface that tests can replace with a mock.
package fs

import (
	"io"
	"os"
)

// EntryType represents the classification of a directory entry after
// resolving symlinks.
type EntryType int

const (
	TypeFile EntryType = iota
	TypeDirectory
	TypeUnsupported
)

// DirectoryEntry gives the name and classification of a single entry within
// a directory.
type DirectoryEntry struct {
	Name string
	Type EntryType
}

type FileSystem interface {
	// Read the directory with the given path, returning a list of its entries
	// sorted by name.
	//
	// Each entry is classified using the metadata delivered by the listing
	// itself, without a separate existence check. Symlinks are classified by
	// the object they resolve to, at the cost of one extra inspection for
	// symlink entries only; a symlink pointing at a directory therefore comes
	// back as TypeDirectory. Entries that resolve to anything other than a
	// regular file or a directory (named pipes, sockets, devices, dangling
	// symlinks) come back as TypeUnsupported.
	ReadDir(path string) (entries []*DirectoryEntry, err error)

	// Return an absolute version of the given path with all symlinks resolved.
	RealPath(path string) (resolved string, err error)

	// Return information about the object at the given path, following
	// symlinks.
	Stat(path string) (fi os.FileInfo, err error)

	// Open the file with the given path for reading.
	OpenForReading(path string) (rc io.ReadCloser, err error)

	// Create a directory with the given path and permissions, along with any
	// missing parents.
	MkdirAll(path string, perms os.FileMode) (err error)

	// Create or truncate a file with the given path and permissions, open for
	// writing.
	CreateFile(path string, perms os.FileMode) (wc io.WriteCloser, err error)
}

// NewFileSystem returns a FileSystem that wraps the real file system.
func NewFileSystem() (fileSystem FileSystem) {
	fileSystem = &osFileSystem{}
	return
}
