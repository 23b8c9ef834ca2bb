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

// Package tree models the contents of a set of backup roots as nested trees
// of files, directories, and diagnostic markers, and contains the walker
// that builds such trees from the file system.
package tree

import (
	"fmt"
)

// DiagnosticKind distinguishes the reasons a directory's contents may be
// missing from a tree.
type DiagnosticKind int

const (
	// LoopDetected: the directory's resolved real path already appears on the
	// lineage leading to it, so descending would recurse forever.
	LoopDetected DiagnosticKind = iota

	// PermissionDenied: the directory could not be listed for lack of
	// permission.
	PermissionDenied

	// AccessError: the directory could not be listed or resolved for some
	// other reason.
	AccessError
)

func (k DiagnosticKind) String() string {
	switch k {
	case LoopDetected:
		return "loop_detected"

	case PermissionDenied:
		return "permission_denied"

	case AccessError:
		return "access_error"
	}

	return fmt.Sprintf("unknown_kind_%d", int(k))
}

// Node is a single vertex of a walked tree: a File, a Directory, or a
// Diagnostic. The set of implementations is closed; consumers dispatch with
// an exhaustive type switch rather than reflection.
type Node interface {
	isNode()
}

// File represents a regular file (or a symlink resolving to one).
//
// INVARIANT: Path is absolute and in forward-slash form.
type File struct {
	Path string
}

// Directory represents a directory and its immediate contents, in by-name
// listing order. A directory that could not be descended into holds exactly
// one Diagnostic child in place of its contents.
//
// INVARIANT: Path is absolute and in forward-slash form.
//
// INVARIANT: No two Directory nodes on one root-to-leaf lineage share a
// resolved real path.
type Directory struct {
	Path     string
	Children []Node
}

// Diagnostic is a terminal marker standing in for the children of a
// directory that could not be descended into. Path names the affected
// directory. Message carries the underlying error text for PermissionDenied
// and AccessError, and is empty for LoopDetected.
type Diagnostic struct {
	Kind    DiagnosticKind
	Path    string
	Message string
}

func (f File) isNode()       {}
func (d Directory) isNode()  {}
func (d Diagnostic) isNode() {}

// Root pairs one walked root directory with its top-level nodes.
type Root struct {
	Path     string
	Children []Node
}

// Tree is the complete result of one walk: one entry per root, in the order
// the roots were supplied.
type Tree []Root
