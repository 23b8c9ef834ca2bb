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

package tree_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jacobsa/crate/internal/fs"
	mock_fs "github.com/jacobsa/crate/internal/fs/mock"
	"github.com/jacobsa/crate/internal/tree"
	. "github.com/jacobsa/oglematchers"
	"github.com/jacobsa/oglemock"
	. "github.com/jacobsa/ogletest"
)

func TestDiagnostics(t *testing.T) { RunTests(t) }

////////////////////////////////////////////////////////////////////////
// Helpers
////////////////////////////////////////////////////////////////////////

// An os.FileInfo for a directory, just enough for root validation.
type dirInfo struct {
	name string
}

func (d *dirInfo) Name() string       { return d.name }
func (d *dirInfo) Size() int64        { return 0 }
func (d *dirInfo) Mode() os.FileMode  { return os.ModeDir | 0700 }
func (d *dirInfo) ModTime() time.Time { return time.Time{} }
func (d *dirInfo) IsDir() bool        { return true }
func (d *dirInfo) Sys() interface{}   { return nil }

type DiagnosticsTest struct {
	ctx        context.Context
	fileSystem mock_fs.MockFileSystem
}

var _ SetUpInterface = &DiagnosticsTest{}

func init() { RegisterTestSuite(&DiagnosticsTest{}) }

func (t *DiagnosticsTest) SetUp(ti *TestInfo) {
	t.ctx = ti.Ctx
	t.fileSystem = mock_fs.NewMockFileSystem(ti.MockController, "fileSystem")
}

// Expect the validation calls made for a well-formed root.
func (t *DiagnosticsTest) expectValidRoot(root string) {
	ExpectCall(t.fileSystem, "Stat")(root).
		WillOnce(oglemock.Return(&dirInfo{name: "root"}, nil))

	ExpectCall(t.fileSystem, "RealPath")(root).
		WillOnce(oglemock.Return(root, nil))
}

////////////////////////////////////////////////////////////////////////
// Tests
////////////////////////////////////////////////////////////////////////

func (t *DiagnosticsTest) PermissionDeniedListingRoot() {
	t.expectValidRoot("/taco")

	listErr := &os.PathError{
		Op:   "open",
		Path: "/taco",
		Err:  os.ErrPermission,
	}

	ExpectCall(t.fileSystem, "ReadDir")("/taco").
		WillOnce(oglemock.Return(nil, listErr))

	result, err := tree.Walk(t.ctx, t.fileSystem, []string{"/taco"}, nil)
	AssertEq(nil, err)

	expected := tree.Tree{
		{
			Path: "/taco",
			Children: []tree.Node{
				tree.Diagnostic{
					Kind:    tree.PermissionDenied,
					Path:    "/taco",
					Message: listErr.Error(),
				},
			},
		},
	}

	ExpectThat(result, DeepEquals(expected))
}

func (t *DiagnosticsTest) GenericListingErrorBecomesAccessError() {
	t.expectValidRoot("/taco")

	ExpectCall(t.fileSystem, "ReadDir")("/taco").
		WillOnce(oglemock.Return(nil, errors.New("disk on fire")))

	result, err := tree.Walk(t.ctx, t.fileSystem, []string{"/taco"}, nil)
	AssertEq(nil, err)

	AssertEq(1, len(result))
	AssertEq(1, len(result[0].Children))

	diag, ok := result[0].Children[0].(tree.Diagnostic)
	AssertTrue(ok)

	ExpectEq(tree.AccessError, diag.Kind)
	ExpectEq("/taco", diag.Path)
	ExpectThat(diag.Message, HasSubstr("disk on fire"))
}

func (t *DiagnosticsTest) SubdirFailureDoesNotAbortWalk() {
	t.expectValidRoot("/taco")

	ExpectCall(t.fileSystem, "ReadDir")("/taco").
		WillOnce(oglemock.Return(
			[]*fs.DirectoryEntry{
				{Name: "burrito", Type: fs.TypeDirectory},
				{Name: "enchilada", Type: fs.TypeFile},
			},
			nil))

	ExpectCall(t.fileSystem, "RealPath")("/taco/burrito").
		WillOnce(oglemock.Return("/taco/burrito", nil))

	ExpectCall(t.fileSystem, "ReadDir")("/taco/burrito").
		WillOnce(oglemock.Return(nil, errors.New("no bueno")))

	result, err := tree.Walk(t.ctx, t.fileSystem, []string{"/taco"}, nil)
	AssertEq(nil, err)

	// The sibling file must still be present after the failed directory.
	AssertEq(1, len(result))
	AssertEq(2, len(result[0].Children))

	dir, ok := result[0].Children[0].(tree.Directory)
	AssertTrue(ok)
	AssertEq(1, len(dir.Children))

	diag, ok := dir.Children[0].(tree.Diagnostic)
	AssertTrue(ok)
	ExpectEq(tree.AccessError, diag.Kind)
	ExpectEq("/taco/burrito", diag.Path)

	ExpectThat(
		result[0].Children[1],
		DeepEquals(tree.File{Path: "/taco/enchilada"}))
}

func (t *DiagnosticsTest) RealPathFailureOnSubdir() {
	t.expectValidRoot("/taco")

	ExpectCall(t.fileSystem, "ReadDir")("/taco").
		WillOnce(oglemock.Return(
			[]*fs.DirectoryEntry{
				{Name: "burrito", Type: fs.TypeDirectory},
			},
			nil))

	// Note: no ReadDir expectation for the subdirectory; resolution fails
	// before any listing attempt.
	ExpectCall(t.fileSystem, "RealPath")("/taco/burrito").
		WillOnce(oglemock.Return("", errors.New("resolution failed")))

	result, err := tree.Walk(t.ctx, t.fileSystem, []string{"/taco"}, nil)
	AssertEq(nil, err)

	expected := tree.Tree{
		{
			Path: "/taco",
			Children: []tree.Node{
				tree.Directory{
					Path: "/taco/burrito",
					Children: []tree.Node{
						tree.Diagnostic{
							Kind:    tree.AccessError,
							Path:    "/taco/burrito",
							Message: "resolution failed",
						},
					},
				},
			},
		},
	}

	ExpectThat(result, DeepEquals(expected))
}

func (t *DiagnosticsTest) UnsupportedEntriesSkipped() {
	t.expectValidRoot("/taco")

	ExpectCall(t.fileSystem, "ReadDir")("/taco").
		WillOnce(oglemock.Return(
			[]*fs.DirectoryEntry{
				{Name: "burrito", Type: fs.TypeUnsupported},
				{Name: "enchilada", Type: fs.TypeFile},
				{Name: "queso", Type: fs.TypeUnsupported},
			},
			nil))

	result, err := tree.Walk(t.ctx, t.fileSystem, []string{"/taco"}, nil)
	AssertEq(nil, err)

	AssertEq(1, len(result))
	ExpectThat(
		result[0].Children,
		ElementsAre(DeepEquals(tree.File{Path: "/taco/enchilada"})))
}

func (t *DiagnosticsTest) InvalidRootStopsBeforeAnyTraversal() {
	// The first root validates fine; the second doesn't. No ReadDir call may
	// happen for either.
	t.expectValidRoot("/taco")

	ExpectCall(t.fileSystem, "Stat")("/burrito").
		WillOnce(oglemock.Return(nil, errors.New("no such file or directory")))

	result, err := tree.Walk(
		t.ctx,
		t.fileSystem,
		[]string{"/taco", "/burrito"},
		nil)

	invalidErr, ok := err.(*tree.InvalidRootError)
	AssertTrue(ok)
	ExpectEq("/burrito", invalidErr.Root)
	ExpectEq(0, len(result))
}

func (t *DiagnosticsTest) CancelledBeforeListing() {
	t.expectValidRoot("/taco")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tree.Walk(ctx, t.fileSystem, []string{"/taco"}, nil)
	ExpectEq(context.Canceled, err)
}
