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

package archive_test

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/jacobsa/crate/internal/archive"
	"github.com/jacobsa/crate/internal/fs"
	"github.com/jacobsa/crate/internal/tree"
	. "github.com/jacobsa/oglematchers"
	. "github.com/jacobsa/ogletest"
)

func TestRoundTrip(t *testing.T) { RunTests(t) }

////////////////////////////////////////////////////////////////////////
// Helpers
////////////////////////////////////////////////////////////////////////

type RoundTripTest struct {
	ctx        context.Context
	fileSystem fs.FileSystem
	dir        string
	srcDir     string
	dstDir     string
	logger     *log.Logger
}

var _ SetUpInterface = &RoundTripTest{}
var _ TearDownInterface = &RoundTripTest{}

func init() { RegisterTestSuite(&RoundTripTest{}) }

func (t *RoundTripTest) SetUp(ti *TestInfo) {
	var err error

	t.ctx = ti.Ctx
	t.fileSystem = fs.NewFileSystem()
	t.logger = log.New(ioutil.Discard, "", 0)

	t.dir, err = ioutil.TempDir("", "roundtrip_test")
	AssertEq(nil, err)

	t.srcDir = path.Join(t.dir, "src")
	t.dstDir = path.Join(t.dir, "dst")
	AssertEq(nil, os.MkdirAll(t.srcDir, 0700))
}

func (t *RoundTripTest) TearDown() {
	os.RemoveAll(t.dir)
}

func (t *RoundTripTest) create(rel string, contents []byte) {
	p := path.Join(t.srcDir, rel)
	AssertEq(nil, os.MkdirAll(path.Dir(p), 0700))
	AssertEq(nil, ioutil.WriteFile(p, contents, 0600))
}

// Walk srcDir, encode the result, and decode it strictly into dstDir.
// Returns the walked root path and the archive text.
func (t *RoundTripTest) roundTrip() (root string, text string) {
	tr, err := tree.Walk(t.ctx, t.fileSystem, []string{t.srcDir}, nil)
	AssertEq(nil, err)
	AssertEq(1, len(tr))

	root = tr[0].Path

	var buf bytes.Buffer
	err = archive.Encode(t.ctx, &buf, tr, t.fileSystem, t.logger, nil)
	AssertEq(nil, err)

	text = buf.String()

	err = archive.Decode(
		t.ctx,
		strings.NewReader(text),
		t.fileSystem,
		t.dstDir,
		false,
		t.logger,
		nil)

	AssertEq(nil, err)
	return
}

func (t *RoundTripTest) restoredPath(root string, rel string) string {
	return path.Join(t.dstDir, strings.TrimLeft(root, "/"), rel)
}

func (t *RoundTripTest) restored(root string, rel string) []byte {
	contents, err := ioutil.ReadFile(t.restoredPath(root, rel))
	AssertEq(nil, err, "rel: %s", rel)
	return contents
}

////////////////////////////////////////////////////////////////////////
// Tests
////////////////////////////////////////////////////////////////////////

func (t *RoundTripTest) SmallTree() {
	t.create("a.txt", []byte("hello"))
	t.create("d/b.bin", []byte{0xde, 0xad, 0xbe, 0xef})

	root, text := t.roundTrip()

	ExpectEq("hello", string(t.restored(root, "a.txt")))
	ExpectThat(t.restored(root, "d/b.bin"), DeepEquals([]byte{0xde, 0xad, 0xbe, 0xef}))

	// Spot-check the wire form of the text file's record.
	ExpectThat(text, HasSubstr("»[PAYLOAD]« aGVsbG8="))
	ExpectThat(text, HasSubstr(
		"»[HEADER]« size=5 sha256=2cf24dba5fb0a30e"+
			"26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"))
}

func (t *RoundTripTest) SizesAroundEncodingGroupBoundaries() {
	// Sizes straddling the base64 three-byte group size, including zero.
	for i := 0; i <= 5; i++ {
		t.create(fmt.Sprintf("f%d", i), []byte("abcdef")[:i])
	}

	root, _ := t.roundTrip()

	for i := 0; i <= 5; i++ {
		rel := fmt.Sprintf("f%d", i)
		ExpectThat(
			t.restored(root, rel),
			DeepEquals([]byte("abcdef")[:i]),
			"rel: %s",
			rel)
	}
}

func (t *RoundTripTest) LargeFileSpanningManyChunks() {
	// Three one-MiB read chunks plus one byte. One MiB is not a multiple of
	// three, so each chunk boundary leaves carried bytes behind.
	contents := make([]byte, 3*(1<<20)+1)
	for i := range contents {
		contents[i] = byte(i % 251)
	}

	t.create("big.bin", contents)

	root, _ := t.roundTrip()

	restored := t.restored(root, "big.bin")
	AssertEq(len(contents), len(restored))
	ExpectTrue(bytes.Equal(contents, restored))
}

func (t *RoundTripTest) NestedDirectories() {
	t.create("a/b/c/deep.txt", []byte("deep"))
	t.create("a/b/shallow.txt", []byte("shallow"))
	t.create("top.txt", []byte("top"))

	root, _ := t.roundTrip()

	ExpectEq("deep", string(t.restored(root, "a/b/c/deep.txt")))
	ExpectEq("shallow", string(t.restored(root, "a/b/shallow.txt")))
	ExpectEq("top", string(t.restored(root, "top.txt")))
}

func (t *RoundTripTest) EmptyDirectoriesLeaveNoTrace() {
	t.create("kept.txt", []byte("kept"))
	AssertEq(nil, os.MkdirAll(path.Join(t.srcDir, "empty/nested"), 0700))

	root, _ := t.roundTrip()

	ExpectEq("kept", string(t.restored(root, "kept.txt")))

	_, err := os.Stat(t.restoredPath(root, "empty"))
	ExpectTrue(os.IsNotExist(err))
}

func (t *RoundTripTest) MultipleRoots() {
	otherSrc := path.Join(t.dir, "other")
	AssertEq(nil, os.MkdirAll(otherSrc, 0700))
	AssertEq(
		nil,
		ioutil.WriteFile(path.Join(otherSrc, "o.txt"), []byte("other"), 0600))

	t.create("a.txt", []byte("hello"))

	tr, err := tree.Walk(
		t.ctx,
		t.fileSystem,
		[]string{t.srcDir, otherSrc},
		nil)

	AssertEq(nil, err)
	AssertEq(2, len(tr))

	var buf bytes.Buffer
	AssertEq(
		nil,
		archive.Encode(t.ctx, &buf, tr, t.fileSystem, t.logger, nil))

	AssertEq(
		nil,
		archive.Decode(
			t.ctx,
			strings.NewReader(buf.String()),
			t.fileSystem,
			t.dstDir,
			false,
			t.logger,
			nil))

	ExpectEq("hello", string(t.restored(tr[0].Path, "a.txt")))
	ExpectEq("other", string(t.restored(tr[1].Path, "o.txt")))
}

func (t *RoundTripTest) EncodingIsDeterministic() {
	t.create("a.txt", []byte("hello"))
	t.create("d/b.bin", []byte{0xde, 0xad, 0xbe, 0xef})

	tr, err := tree.Walk(t.ctx, t.fileSystem, []string{t.srcDir}, nil)
	AssertEq(nil, err)

	var first, second bytes.Buffer
	AssertEq(
		nil,
		archive.Encode(t.ctx, &first, tr, t.fileSystem, t.logger, nil))
	AssertEq(
		nil,
		archive.Encode(t.ctx, &second, tr, t.fileSystem, t.logger, nil))

	ExpectEq(first.String(), second.String())
}

func (t *RoundTripTest) VerifyAcceptsOwnOutput() {
	t.create("a.txt", []byte("hello"))
	t.create("big.bin", bytes.Repeat([]byte("xyzzy"), 40000))

	_, text := t.roundTrip()

	ExpectEq(
		nil,
		archive.Verify(t.ctx, strings.NewReader(text), t.logger, nil))
}
