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
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jacobsa/crate/internal/fs"
	"github.com/jacobsa/crate/internal/tree"
)

// Encode writes one complete archive containing every file in t to w.
//
// Files are flattened out of the tree in walk order; diagnostics never reach
// the archive. Each file is re-checked at encode time, and one that is no
// longer a regular file by then is skipped with a warning on logger. Beyond
// that, any I/O failure aborts the whole encode with an error: a partial
// archive is never passed off as complete.
//
// Contents are read in fixed-size chunks and base64-encoded in the same
// streaming pass that computes each record's size and SHA-256, so peak
// memory is bounded by the chunk size no matter how large the files are.
//
// If records is non-nil, one Record is sent on it per file written; the
// channel is not closed. Encode itself is strictly sequential. ctx is
// consulted between records only, so cancellation does not tear a record in
// half.
func Encode(
	ctx context.Context,
	w io.Writer,
	t tree.Tree,
	fileSystem fs.FileSystem,
	logger *log.Logger,
	records chan<- Record) (err error) {
	bw := bufio.NewWriter(w)

	if err = writeLine(bw, openDelimiter); err != nil {
		err = fmt.Errorf("writing archive prologue: %v", err)
		return
	}

	if err = writeMeta(bw, t); err != nil {
		err = fmt.Errorf("writing archive prologue: %v", err)
		return
	}

	for _, rf := range t.Files() {
		if err = ctx.Err(); err != nil {
			return
		}

		var rec Record
		var skipped bool
		rec, skipped, err = encodeFile(bw, fileSystem, rf, logger)
		if err != nil {
			err = fmt.Errorf("encoding %q: %v", rf.Path, err)
			return
		}

		if skipped {
			continue
		}

		if records != nil {
			records <- rec
		}
	}

	if err = writeLine(bw, closeDelimiter); err != nil {
		err = fmt.Errorf("writing archive epilogue: %v", err)
		return
	}

	if err = bw.Flush(); err != nil {
		err = fmt.Errorf("flushing archive: %v", err)
		return
	}

	return
}

////////////////////////////////////////////////////////////////////////
// Helpers
////////////////////////////////////////////////////////////////////////

func writeLine(w *bufio.Writer, line string) (err error) {
	if _, err = w.WriteString(line); err != nil {
		return
	}

	err = w.WriteByte('\n')
	return
}

// Write the version line and one root declaration per distinct root, sorted
// by id for deterministic output.
func writeMeta(w *bufio.Writer, t tree.Tree) (err error) {
	if err = writeLine(w, formatVersionLine()); err != nil {
		return
	}

	rootsByID := make(map[RootID]string)
	for _, root := range t {
		posix := filepath.ToSlash(root.Path)
		rootsByID[ComputeRootID(posix)] = posix
	}

	ids := make([]RootID, 0, len(rootsByID))
	for id := range rootsByID {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		return ids[i].Hex() < ids[j].Hex()
	})

	for _, id := range ids {
		if err = writeLine(w, formatRootLine(id, rootsByID[id])); err != nil {
			return
		}
	}

	return
}

// Encode a single file as one record. Returns skipped == true, with nothing
// written, if the path no longer names a regular file.
func encodeFile(
	w *bufio.Writer,
	fileSystem fs.FileSystem,
	rf tree.RootFile,
	logger *log.Logger) (rec Record, skipped bool, err error) {
	srcPosix := filepath.ToSlash(rf.Path)
	rootPosix := filepath.ToSlash(rf.Root)

	// The walk happened earlier; the world may have moved on since. Re-check
	// rather than trusting stale metadata.
	fi, statErr := fileSystem.Stat(rf.Path)
	if statErr != nil || !fi.Mode().IsRegular() {
		logger.Printf("Skipping %q: no longer a regular file.", rf.Path)
		skipped = true
		return
	}

	f, err := fileSystem.OpenForReading(rf.Path)
	if err != nil {
		err = fmt.Errorf("OpenForReading: %v", err)
		return
	}

	defer f.Close()

	rootID := ComputeRootID(rootPosix).Hex()
	rel := relativeUnderRoot(srcPosix, rootPosix, logger)

	if err = writeLine(w, recordBegin); err != nil {
		return
	}

	if err = writeLine(w, formatOpeningHeader(rootID, rel, srcPosix)); err != nil {
		return
	}

	// Stream the contents through the payload writer, accumulating the size
	// and checksum declared by the closing header.
	pw := newPayloadWriter(w)
	sum := sha256.New()
	var size int64

	buf := make([]byte, encodeChunkSize)
	for {
		var n int
		n, err = f.Read(buf)

		if n > 0 {
			size += int64(n)
			sum.Write(buf[:n])

			if _, werr := pw.Write(buf[:n]); werr != nil {
				err = werr
				return
			}
		}

		if err == io.EOF {
			err = nil
			break
		}

		if err != nil {
			err = fmt.Errorf("reading: %v", err)
			return
		}
	}

	if err = pw.Close(); err != nil {
		return
	}

	checksum := hex.EncodeToString(sum.Sum(nil))

	if err = writeLine(w, formatClosingHeader(size, checksum)); err != nil {
		return
	}

	if err = writeLine(w, recordEnd); err != nil {
		return
	}

	rec = Record{
		RootID:   rootID,
		Rel:      rel,
		Src:      srcPosix,
		Size:     size,
		Checksum: checksum,
	}

	return
}

// Compute a file's archive-relative path. The walker only hands out paths
// prefixed by their root, so the fallback is a safety net rather than an
// expected case.
func relativeUnderRoot(
	srcPosix string,
	rootPosix string,
	logger *log.Logger) (rel string) {
	if strings.HasPrefix(srcPosix, rootPosix+"/") {
		rel = srcPosix[len(rootPosix)+1:]
		return
	}

	logger.Printf(
		"Could not make %q relative to %q; falling back to its base name.",
		srcPosix,
		rootPosix)

	rel = path.Base(srcPosix)
	return
}
