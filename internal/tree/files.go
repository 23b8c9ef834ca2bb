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

// RootFile identifies one regular file found by a walk, paired with the root
// it was found under.
type RootFile struct {
	Root string
	Path string
}

// Files returns every file in the tree in depth-first walk order.
// Diagnostics and empty directories contribute nothing.
func (t Tree) Files() (files []RootFile) {
	for _, root := range t {
		for _, n := range root.Children {
			files = appendFiles(files, root.Path, n)
		}
	}

	return
}

// Diagnostics returns every diagnostic node in the tree, in depth-first walk
// order.
func (t Tree) Diagnostics() (diags []Diagnostic) {
	for _, root := range t {
		for _, n := range root.Children {
			diags = appendDiagnostics(diags, n)
		}
	}

	return
}

////////////////////////////////////////////////////////////////////////
// Helpers
////////////////////////////////////////////////////////////////////////

func appendFiles(files []RootFile, root string, n Node) []RootFile {
	switch typed := n.(type) {
	case File:
		files = append(files, RootFile{Root: root, Path: typed.Path})

	case Directory:
		for _, child := range typed.Children {
			files = appendFiles(files, root, child)
		}

	case Diagnostic:
		// Nothing to archive.
	}

	return files
}

func appendDiagnostics(diags []Diagnostic, n Node) []Diagnostic {
	switch typed := n.(type) {
	case Directory:
		for _, child := range typed.Children {
			diags = appendDiagnostics(diags, child)
		}

	case Diagnostic:
		diags = append(diags, typed)
	}

	return diags
}
