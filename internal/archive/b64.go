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
	"encoding/base64"
)

// A payloadWriter turns a stream of raw bytes into wrapped base64 payload
// lines. Write accepts chunks of any size; only complete three-byte groups
// are encoded as they arrive, with one or two leftover bytes carried into
// the next write, so padding characters appear only in the tail emitted by
// Close. Emitted lines are payloadWrap columns wide except for the last.
//
// INVARIANT: len(carry) < 3
//
// INVARIANT: len(line) < payloadWrap and len(line) is a multiple of four
type payloadWriter struct {
	w     *bufio.Writer
	carry []byte
	line  []byte
}

func newPayloadWriter(w *bufio.Writer) *payloadWriter {
	return &payloadWriter{
		w:     w,
		carry: make([]byte, 0, 3),
	}
}

func (pw *payloadWriter) Write(p []byte) (n int, err error) {
	n = len(p)

	// Complete a carried group if we can.
	if len(pw.carry) > 0 {
		need := 3 - len(pw.carry)
		if len(p) < need {
			pw.carry = append(pw.carry, p...)
			return
		}

		var group [3]byte
		copy(group[:], pw.carry)
		copy(group[len(pw.carry):], p[:need])

		pw.carry = pw.carry[:0]
		p = p[need:]

		if err = pw.encode(group[:]); err != nil {
			return
		}
	}

	// Encode whole groups; carry the remainder.
	take := (len(p) / 3) * 3
	if err = pw.encode(p[:take]); err != nil {
		return
	}

	pw.carry = append(pw.carry, p[take:]...)
	return
}

// Close flushes the carried tail, padded as base64 requires, and the final
// partial line. The underlying bufio.Writer is not flushed.
func (pw *payloadWriter) Close() (err error) {
	if len(pw.carry) > 0 {
		if err = pw.encode(pw.carry); err != nil {
			return
		}

		pw.carry = pw.carry[:0]
	}

	if len(pw.line) > 0 {
		if err = pw.writeLine(pw.line); err != nil {
			return
		}

		pw.line = pw.line[:0]
	}

	return
}

////////////////////////////////////////////////////////////////////////
// Helpers
////////////////////////////////////////////////////////////////////////

// Append the base64 encoding of raw to the pending line, emitting every full
// line as it forms. raw must be a multiple of three bytes long except at
// Close time.
func (pw *payloadWriter) encode(raw []byte) (err error) {
	if len(raw) == 0 {
		return
	}

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(encoded, raw)
	pw.line = append(pw.line, encoded...)

	for len(pw.line) >= payloadWrap {
		if err = pw.writeLine(pw.line[:payloadWrap]); err != nil {
			return
		}

		pw.line = pw.line[payloadWrap:]
	}

	return
}

func (pw *payloadWriter) writeLine(line []byte) (err error) {
	if _, err = pw.w.WriteString(payloadPrefix); err != nil {
		return
	}

	if err = pw.w.WriteByte(' '); err != nil {
		return
	}

	if _, err = pw.w.Write(line); err != nil {
		return
	}

	err = pw.w.WriteByte('\n')
	return
}
