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

package tree

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jacobsa/crate/internal/fs"
)

// InvalidRootError is returned by Walk when one of the supplied roots does
// not exist, is not a directory, or cannot be resolved.
type InvalidRootError struct {
	Root   string
	Reason string
}

func (e *InvalidRootError) Error() string {
	return fmt.Sprintf("invalid root %q: %s", e.Root, e.Reason)
}

////////////////////////////////////////////////////////////////////////
// Public
////////////////////////////////////////////////////////////////////////

// Walk enumerates each of the supplied root directories into a tree of
// files, directories, and diagnostics.
//
// All roots are checked up front; a root that does not exist, is not a
// directory, or cannot be resolved yields an *InvalidRootError before any
// traversal starts. Afterwards the walk always runs to completion: a
// directory that cannot be listed is kept in the tree with a single
// Diagnostic child describing the failure, and traversal moves on. Only
// cancellation of ctx stops a walk early.
//
// Roots are made absolute, and every path placed in the tree is absolute and
// forward-slash normalized. Within a directory, entries appear in by-name
// order, so two walks over unchanged input produce identical trees. Entries
// that are neither regular files nor directories after symlink resolution
// are skipped.
//
// A symlink chain leading back to a directory already on the current lineage
// is cut with a LoopDetected diagnostic; the directory node itself remains.
// The visited set backing this check is copied on every descent, so a real
// path suppressed on one lineage may still appear on a sibling lineage.
//
// Entries whose path relative to their root matches any of exclusions are
// skipped entirely, without so much as a node. A nil or empty exclusions
// list excludes nothing.
//
// The walker only reads; it does not modify the file system.
func Walk(
	ctx context.Context,
	fileSystem fs.FileSystem,
	roots []string,
	exclusions []*regexp.Regexp) (t Tree, err error) {
	// Resolve and validate every root before traversing any of them.
	absRoots := make([]string, 0, len(roots))
	realRoots := make([]string, 0, len(roots))

	for _, root := range roots {
		var abs, real string
		abs, real, err = resolveRoot(fileSystem, root)
		if err != nil {
			return
		}

		absRoots = append(absRoots, abs)
		realRoots = append(realRoots, real)
	}

	for i, root := range absRoots {
		w := &walker{
			fileSystem: fileSystem,
			root:       root,
			exclusions: exclusions,
		}

		// The root's own real path seeds the lineage.
		visited := map[string]bool{
			realRoots[i]: true,
		}

		var children []Node
		children, err = w.walkDir(ctx, root, visited)
		if err != nil {
			return
		}

		t = append(t, Root{
			Path:     root,
			Children: children,
		})
	}

	return
}

////////////////////////////////////////////////////////////////////////
// Helpers
////////////////////////////////////////////////////////////////////////

// Turn the supplied root into an absolute forward-slash path and its
// resolved real path, rejecting roots that don't name a directory.
func resolveRoot(
	fileSystem fs.FileSystem,
	root string) (abs string, real string, err error) {
	fi, statErr := fileSystem.Stat(root)
	switch {
	case statErr != nil:
		err = &InvalidRootError{Root: root, Reason: statErr.Error()}
		return

	case !fi.IsDir():
		err = &InvalidRootError{Root: root, Reason: "not a directory"}
		return
	}

	abs, absErr := filepath.Abs(root)
	if absErr != nil {
		err = &InvalidRootError{Root: root, Reason: absErr.Error()}
		return
	}

	abs = filepath.ToSlash(abs)

	real, realErr := fileSystem.RealPath(abs)
	if realErr != nil {
		err = &InvalidRootError{Root: root, Reason: realErr.Error()}
		return
	}

	return
}

type walker struct {
	fileSystem fs.FileSystem
	root       string
	exclusions []*regexp.Regexp
}

// Walk the directory with the given path, whose own real path is already
// recorded in visited, returning its child nodes. visited must not be
// retained or modified by the caller afterwards.
func (w *walker) walkDir(
	ctx context.Context,
	dir string,
	visited map[string]bool) (nodes []Node, err error) {
	if err = ctx.Err(); err != nil {
		return
	}

	entries, listErr := w.fileSystem.ReadDir(dir)
	if listErr != nil {
		nodes = []Node{diagnose(dir, listErr)}
		return
	}

	for _, entry := range entries {
		childPath := path.Join(dir, entry.Name)
		if w.excluded(childPath) {
			continue
		}

		switch entry.Type {
		case fs.TypeFile:
			nodes = append(nodes, File{Path: childPath})

		case fs.TypeDirectory:
			var child Node
			child, err = w.walkSubdir(ctx, childPath, visited)
			if err != nil {
				return
			}

			nodes = append(nodes, child)

		default:
			// Pipes, sockets, devices, dangling symlinks: nothing we can
			// archive. Skip.
		}
	}

	return
}

// Build the node for a single subdirectory, descending unless its real path
// shows that doing so would revisit an ancestor on this lineage.
func (w *walker) walkSubdir(
	ctx context.Context,
	dir string,
	visited map[string]bool) (node Node, err error) {
	realPath, realErr := w.fileSystem.RealPath(dir)
	if realErr != nil {
		node = Directory{
			Path:     dir,
			Children: []Node{diagnose(dir, realErr)},
		}

		return
	}

	if visited[realPath] {
		node = Directory{
			Path:     dir,
			Children: []Node{Diagnostic{Kind: LoopDetected, Path: dir}},
		}

		return
	}

	// The descent gets its own copy of the lineage's visited set. Sharing one
	// set across siblings would wrongly suppress a second, perfectly legal
	// appearance of the same target elsewhere in the tree.
	childVisited := make(map[string]bool, len(visited)+1)
	for p := range visited {
		childVisited[p] = true
	}

	childVisited[realPath] = true

	children, err := w.walkDir(ctx, dir, childVisited)
	if err != nil {
		return
	}

	node = Directory{
		Path:     dir,
		Children: children,
	}

	return
}

func (w *walker) excluded(childPath string) bool {
	if len(w.exclusions) == 0 {
		return false
	}

	relPath := strings.TrimPrefix(childPath, w.root+"/")
	for _, re := range w.exclusions {
		if re.MatchString(relPath) {
			return true
		}
	}

	return false
}

// Turn a failure to list or resolve the given directory into the
// appropriate diagnostic.
func diagnose(dir string, probeErr error) (d Diagnostic) {
	d = Diagnostic{
		Kind:    AccessError,
		Path:    dir,
		Message: probeErr.Error(),
	}

	if os.IsPermission(probeErr) {
		d.Kind = PermissionDenied
	}

	return
}
