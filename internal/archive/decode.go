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
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"log"
	"path"
	"path/filepath"
	"strings"

	"github.com/jacobsa/crate/internal/fs"
)

// Decode reads an archive from r and materializes its files under destDir
// in a single forward pass.
//
// Each record lands at destDir/<sanitized root>/<rel>, where sanitizing
// strips the root's leading slashes and any drive-letter colon, so an
// archive captured on one machine can be replanted anywhere on another.
// Parent directories are created as needed; file contents are written as
// the payload streams in, then checked against the record's declared size
// and SHA-256.
//
// In strict mode (lenient == false) the first bad record aborts the decode.
// In lenient mode a record with an integrity mismatch or an undeclared root
// is logged, reported on records, and skipped, leaving whatever was written
// for it on disk as-is; decoding then continues with the next record.
// Malformed archive text and I/O failures abort in both modes.
//
// If records is non-nil, one Record is sent on it as each record closes,
// carrying the observed size and checksum and a non-nil Err for failed
// records. The channel is not closed.
func Decode(
	ctx context.Context,
	r io.Reader,
	fileSystem fs.FileSystem,
	destDir string,
	lenient bool,
	logger *log.Logger,
	records chan<- Record) (err error) {
	d := &decoder{
		fileSystem: fileSystem,
		destDir:    destDir,
		lenient:    lenient,
		logger:     logger,
		records:    records,
		roots:      make(map[string]string),
	}

	err = d.run(ctx, r)
	return
}

// Verify makes the same pass over the archive as Decode, verifying every
// record's payload against its declared size and SHA-256, but writes
// nothing to the file system. All records are examined regardless of earlier
// failures; if any failed, Verify returns an error after the pass. Per-record
// outcomes are reported on records if it is non-nil.
func Verify(
	ctx context.Context,
	r io.Reader,
	logger *log.Logger,
	records chan<- Record) (err error) {
	d := &decoder{
		scanOnly: true,
		lenient:  true,
		logger:   logger,
		records:  records,
		roots:    make(map[string]string),
	}

	err = d.run(ctx, r)
	if err != nil {
		return
	}

	if d.recordFailures > 0 {
		err = fmt.Errorf("verification failed for %d record(s)", d.recordFailures)
		return
	}

	return
}

////////////////////////////////////////////////////////////////////////
// Implementation
////////////////////////////////////////////////////////////////////////

type decodeState int

const (
	// Between records: meta lines, delimiters, and noise.
	stateSeeking decodeState = iota

	// A begin marker has been consumed; the opening header is expected.
	stateInHeader

	// The opening header has been consumed; payload, the closing header, and
	// the end marker are expected.
	stateInPayload
)

type decoder struct {
	fileSystem fs.FileSystem
	destDir    string
	lenient    bool
	scanOnly   bool
	logger     *log.Logger
	records    chan<- Record

	state decodeState

	// The root registry accumulated from meta lines: 16-hex id to POSIX root
	// path.
	roots map[string]string

	// The record currently being decoded, or nil.
	//
	// INVARIANT: cur != nil iff state == stateInPayload
	cur *openRecord

	recordFailures int
}

// The streaming state of one record between its begin and end markers.
type openRecord struct {
	rec Record

	// Declared by the closing header, once seen.
	declaredSize     int64
	declaredChecksum string
	haveDeclared     bool

	// Observed while consuming payload.
	sum  hash.Hash
	size int64

	// The output file, nil when scanning or when the record was condemned
	// before opening one.
	out io.WriteCloser

	// The first failure charged to this record. Payload may still be
	// consumed afterwards so that the pass can continue, but discard tells
	// whether its bytes still mean anything.
	failure error
	discard bool
}

func (d *decoder) run(ctx context.Context, r io.Reader) (err error) {
	scanner := bufio.NewScanner(r)

	// Our own payload lines are 76 columns, but be tolerant of foreign
	// archives with much longer ones.
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		if err = ctx.Err(); err != nil {
			d.abandonCurrent()
			return
		}

		if err = d.processLine(scanner.Text()); err != nil {
			d.abandonCurrent()
			return
		}
	}

	if scanErr := scanner.Err(); scanErr != nil {
		d.abandonCurrent()
		err = fmt.Errorf("reading archive: %v", scanErr)
		return
	}

	// An archive ending with a record still open was truncated; close and
	// verify whatever arrived.
	err = d.closeCurrent()
	return
}

func (d *decoder) processLine(raw string) (err error) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return
	}

	switch {
	case line == recordBegin:
		// A begin marker while a record is open means the previous record was
		// truncated; close and verify it before starting over.
		if err = d.closeCurrent(); err != nil {
			return
		}

		d.state = stateInHeader
		return

	case line == recordEnd:
		err = d.closeCurrent()
		return

	case strings.HasPrefix(line, metaPrefix):
		d.processMeta(strings.TrimPrefix(line, metaPrefix))
		return

	case strings.HasPrefix(line, headerPrefix):
		err = d.processHeader(strings.TrimPrefix(line, headerPrefix))
		return

	case strings.HasPrefix(line, payloadPrefix):
		err = d.processPayload(
			strings.TrimSpace(strings.TrimPrefix(line, payloadPrefix)))
		return
	}

	// Anything else is tolerated between records -- the archive delimiters
	// land here -- and malformed within one.
	if d.state != stateSeeking {
		err = &FormatError{
			Reason: fmt.Sprintf("unrecognized line inside record: %q", clip(line)),
		}
	}

	return
}

// Record root declarations. Any other meta line, such as the version
// declaration, is informational.
func (d *decoder) processMeta(body string) {
	if id, rootPosix, ok := parseMetaRoot(body); ok {
		d.roots[id] = rootPosix
	}
}

func (d *decoder) processHeader(body string) (err error) {
	// Try the opening shape first: a path could legitimately contain the
	// text "sha256=".
	if h, ok := parseOpeningHeader(body); ok {
		err = d.openNewRecord(h)
		return
	}

	if size, checksum, ok := parseClosingHeader(body); ok {
		if d.cur != nil {
			d.cur.declaredSize = size
			d.cur.declaredChecksum = checksum
			d.cur.haveDeclared = true
		}

		return
	}

	err = &FormatError{
		Reason: fmt.Sprintf("malformed header line: %q", clip(body)),
	}

	return
}

// Start a record for the supplied opening header, creating its output file
// unless scanning or the record is condemned on arrival.
func (d *decoder) openNewRecord(h openingHeader) (err error) {
	// An opening header while a record is open gets the same truncation
	// treatment as a begin marker.
	if err = d.closeCurrent(); err != nil {
		return
	}

	cur := &openRecord{
		rec: Record{
			RootID: h.RootID,
			Rel:    h.Rel,
			Src:    h.Src,
		},
		sum: sha256.New(),
	}

	d.cur = cur
	d.state = stateInPayload

	// Resolve the root. A record referencing a root never declared decodes
	// under a placeholder name and is failed when it closes, so a lenient
	// caller still recovers its contents.
	rootPosix, known := d.roots[h.RootID]
	if !known {
		rootPosix = "unknown_" + h.RootID
		cur.failure = &FormatError{
			Reason: fmt.Sprintf("record references undeclared root %q", h.RootID),
		}
	}

	if d.scanOnly {
		return
	}

	outPath, pathErr := d.outputPath(rootPosix, h.Rel)
	if pathErr != nil {
		// Nowhere safe to write this record; consume its payload blind.
		cur.failure = pathErr
		cur.discard = true
		return
	}

	if err = d.fileSystem.MkdirAll(path.Dir(outPath), 0777); err != nil {
		err = fmt.Errorf("MkdirAll: %v", err)
		return
	}

	out, createErr := d.fileSystem.CreateFile(outPath, 0666)
	if createErr != nil {
		err = fmt.Errorf("CreateFile: %v", createErr)
		return
	}

	cur.out = out
	return
}

func (d *decoder) processPayload(b64 string) (err error) {
	cur := d.cur
	if cur == nil {
		if d.state != stateSeeking {
			err = &FormatError{Reason: "payload before record header"}
		}

		// Payload with no record open is noise; the encoder never writes it.
		return
	}

	if cur.discard {
		return
	}

	raw, decodeErr := base64.StdEncoding.DecodeString(b64)
	if decodeErr != nil {
		integrityErr := &IntegrityError{
			Rel:    cur.rec.Rel,
			Reason: fmt.Sprintf("undecodable payload line: %v", decodeErr),
		}

		if !d.lenient {
			err = integrityErr
			return
		}

		// The byte stream is broken from here on; stop interpreting it but
		// keep consuming so the next record can be decoded.
		cur.failure = integrityErr
		cur.discard = true
		return
	}

	cur.size += int64(len(raw))
	cur.sum.Write(raw)

	if cur.out != nil {
		if _, werr := cur.out.Write(raw); werr != nil {
			err = fmt.Errorf("writing %q: %v", cur.rec.Rel, werr)
			return
		}
	}

	return
}

// Close and verify the currently open record, if any. In lenient mode a
// per-record failure is logged and reported, not returned; I/O failures are
// returned in both modes.
func (d *decoder) closeCurrent() (err error) {
	cur := d.cur
	if cur == nil {
		return
	}

	d.cur = nil
	d.state = stateSeeking

	if cur.out != nil {
		if closeErr := cur.out.Close(); closeErr != nil {
			err = fmt.Errorf("closing %q: %v", cur.rec.Rel, closeErr)
			return
		}
	}

	failure := cur.failure
	if failure == nil {
		failure = verifyClosedRecord(cur)
	}

	cur.rec.Size = cur.size
	cur.rec.Checksum = hex.EncodeToString(cur.sum.Sum(nil))
	cur.rec.Err = failure

	if d.records != nil {
		d.records <- cur.rec
	}

	if failure == nil {
		return
	}

	d.recordFailures++

	if d.lenient {
		d.logger.Printf("Skipping record %q: %v", cur.rec.Rel, failure)
		return
	}

	err = failure
	return
}

// Check a record's observed payload against its declarations.
func verifyClosedRecord(cur *openRecord) (err error) {
	if !cur.haveDeclared {
		err = &IntegrityError{
			Rel:    cur.rec.Rel,
			Reason: "record closed without a declared size and checksum",
		}

		return
	}

	actual := hex.EncodeToString(cur.sum.Sum(nil))
	if actual != cur.declaredChecksum {
		err = &IntegrityError{
			Rel: cur.rec.Rel,
			Reason: fmt.Sprintf(
				"sha256 mismatch: declared %s, computed %s",
				cur.declaredChecksum,
				actual),
		}

		return
	}

	if cur.size != cur.declaredSize {
		err = &IntegrityError{
			Rel: cur.rec.Rel,
			Reason: fmt.Sprintf(
				"size mismatch: declared %d, decoded %d",
				cur.declaredSize,
				cur.size),
		}

		return
	}

	return
}

// Compute where a record lands under destDir, refusing paths that would
// escape it.
func (d *decoder) outputPath(rootPosix string, rel string) (
	outPath string,
	err error) {
	joined := path.Join(sanitizeRoot(rootPosix), rel)

	if !filepath.IsLocal(filepath.FromSlash(joined)) {
		err = &FormatError{
			Reason: fmt.Sprintf("record escapes the destination: %q", clip(joined)),
		}

		return
	}

	outPath = path.Join(d.destDir, joined)
	return
}

// Strip the pieces of a root path that must not survive replanting under
// the destination: leading slashes and a drive-letter colon.
func sanitizeRoot(rootPosix string) string {
	s := strings.TrimLeft(rootPosix, "/")
	if len(s) >= 2 && s[1] == ':' {
		s = s[:1] + s[2:]
	}

	return s
}

// Drop the open record without verification, closing its file. For abort
// paths where an error is already on its way to the caller.
func (d *decoder) abandonCurrent() {
	if d.cur != nil && d.cur.out != nil {
		d.cur.out.Close()
	}

	d.cur = nil
	d.state = stateSeeking
}
