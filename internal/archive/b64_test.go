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

package archive

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	. "github.com/jacobsa/ogletest"
)

func TestPayloadWriter(t *testing.T) { RunTests(t) }

////////////////////////////////////////////////////////////////////////
// Helpers
////////////////////////////////////////////////////////////////////////

type PayloadWriterTest struct {
	buf bytes.Buffer
	bw  *bufio.Writer
	pw  *payloadWriter
}

var _ SetUpInterface = &PayloadWriterTest{}

func init() { RegisterTestSuite(&PayloadWriterTest{}) }

func (t *PayloadWriterTest) SetUp(ti *TestInfo) {
	t.bw = bufio.NewWriter(&t.buf)
	t.pw = newPayloadWriter(t.bw)
}

func (t *PayloadWriterTest) output() string {
	AssertEq(nil, t.bw.Flush())
	return t.buf.String()
}

// Strip the line prefix from each line of output, checking that every line
// carries it.
func (t *PayloadWriterTest) contentLines() (contents []string) {
	out := t.output()
	if out == "" {
		return
	}

	AssertTrue(strings.HasSuffix(out, "\n"), "Output: %q", out)
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		AssertTrue(
			strings.HasPrefix(line, "»[PAYLOAD]« "),
			"Line: %q",
			line)

		contents = append(contents, strings.TrimPrefix(line, "»[PAYLOAD]« "))
	}

	return
}

////////////////////////////////////////////////////////////////////////
// Tests
////////////////////////////////////////////////////////////////////////

func (t *PayloadWriterTest) NoInput() {
	AssertEq(nil, t.pw.Close())
	ExpectEq("", t.output())
}

func (t *PayloadWriterTest) OneByte() {
	n, err := t.pw.Write([]byte("a"))
	AssertEq(nil, err)
	AssertEq(1, n)

	AssertEq(nil, t.pw.Close())
	ExpectEq("»[PAYLOAD]« YQ==\n", t.output())
}

func (t *PayloadWriterTest) TwoBytes() {
	_, err := t.pw.Write([]byte("ab"))
	AssertEq(nil, err)

	AssertEq(nil, t.pw.Close())
	ExpectEq("»[PAYLOAD]« YWI=\n", t.output())
}

func (t *PayloadWriterTest) ThreeBytes() {
	_, err := t.pw.Write([]byte("abc"))
	AssertEq(nil, err)

	AssertEq(nil, t.pw.Close())
	ExpectEq("»[PAYLOAD]« YWJj\n", t.output())
}

func (t *PayloadWriterTest) FourBytes() {
	_, err := t.pw.Write([]byte("abcd"))
	AssertEq(nil, err)

	AssertEq(nil, t.pw.Close())
	ExpectEq("»[PAYLOAD]« YWJjZA==\n", t.output())
}

func (t *PayloadWriterTest) CarriedBytesCompletedByLaterWrites() {
	// No write boundary may leak into the encoding: three single-byte writes
	// encode as one three-byte group, without padding.
	for _, b := range []byte("abc") {
		_, err := t.pw.Write([]byte{b})
		AssertEq(nil, err)
	}

	AssertEq(nil, t.pw.Close())
	ExpectEq("»[PAYLOAD]« YWJj\n", t.output())
}

func (t *PayloadWriterTest) WrapsAtSeventySixColumns() {
	_, err := t.pw.Write(bytes.Repeat([]byte("x"), 100))
	AssertEq(nil, err)
	AssertEq(nil, t.pw.Close())

	lines := t.contentLines()
	AssertEq(2, len(lines))

	ExpectEq(
		"eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4",
		lines[0])

	ExpectEq(
		"eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eA==",
		lines[1])
}

func (t *PayloadWriterTest) ExactlyOneFullLine() {
	// 57 bytes encode to exactly 76 characters.
	data := make([]byte, 57)
	for i := range data {
		data[i] = byte(i)
	}

	_, err := t.pw.Write(data)
	AssertEq(nil, err)
	AssertEq(nil, t.pw.Close())

	lines := t.contentLines()
	AssertEq(1, len(lines))
	ExpectEq(
		"AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8gISIjJCUmJygpKissLS4vMDEyMzQ1Njc4",
		lines[0])
}

func (t *PayloadWriterTest) EveryLineDecodesIndependently() {
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i * 7)
	}

	_, err := t.pw.Write(data)
	AssertEq(nil, err)
	AssertEq(nil, t.pw.Close())

	for _, line := range t.contentLines() {
		ExpectEq(0, len(line)%4, "Line: %q", line)
		ExpectLt(len(line), 77)
	}
}

func (t *PayloadWriterTest) SplitWritesMatchSingleWrite() {
	data := make([]byte, 500)
	for i := range data {
		data[i] = byte(i * 13)
	}

	var whole bytes.Buffer
	bw := bufio.NewWriter(&whole)
	pw := newPayloadWriter(bw)

	_, err := pw.Write(data)
	AssertEq(nil, err)
	AssertEq(nil, pw.Close())
	AssertEq(nil, bw.Flush())

	// Feed the same bytes in awkward pieces.
	for i := 0; i < len(data); {
		end := i + 1 + (i % 7)
		if end > len(data) {
			end = len(data)
		}

		_, err = t.pw.Write(data[i:end])
		AssertEq(nil, err)
		i = end
	}

	AssertEq(nil, t.pw.Close())
	ExpectEq(whole.String(), t.output())
}
