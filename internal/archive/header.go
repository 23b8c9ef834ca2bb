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
	"fmt"
	"strconv"
	"strings"
)

// The two header shapes inside a record: an opening header naming the file,
// and a closing header declaring its size and checksum. Fields are located
// by their literal " key=" boundaries rather than by splitting on
// whitespace, so paths containing spaces survive a round trip.

type openingHeader struct {
	RootID   string
	Rel      string
	Src      string
	Encoding string
}

////////////////////////////////////////////////////////////////////////
// Formatting
////////////////////////////////////////////////////////////////////////

func formatVersionLine() string {
	return fmt.Sprintf("%s version=%d", metaPrefix, formatVersion)
}

func formatRootLine(id RootID, rootPosix string) string {
	return fmt.Sprintf("%s root_id=%s root_posix=%s", metaPrefix, id.Hex(), rootPosix)
}

func formatOpeningHeader(rootID string, rel string, src string) string {
	return fmt.Sprintf(
		"%s root_id=%s rel=%s src_full_posix=%s encoding=b64",
		headerPrefix,
		rootID,
		rel,
		src)
}

func formatClosingHeader(size int64, checksum string) string {
	return fmt.Sprintf("%s size=%d sha256=%s", headerPrefix, size, checksum)
}

////////////////////////////////////////////////////////////////////////
// Parsing
////////////////////////////////////////////////////////////////////////

// Parse the body of a meta line declaring a root. Returns !ok for other meta
// lines, such as the version declaration.
func parseMetaRoot(body string) (id string, rootPosix string, ok bool) {
	boundary := strings.Index(body, " root_posix=")
	if boundary < 0 {
		return
	}

	left := body[:boundary]
	rootPosix = strings.TrimSpace(body[boundary+len(" root_posix="):])

	idStart := strings.Index(left, "root_id=")
	if idStart < 0 {
		return
	}

	id = strings.TrimSpace(left[idStart+len("root_id="):])
	ok = id != ""
	return
}

// Parse the body of an opening header line. Returns !ok if the body doesn't
// have the opening shape.
func parseOpeningHeader(body string) (h openingHeader, ok bool) {
	idStart := strings.Index(body, "root_id=")
	relStart := strings.Index(body, " rel=")
	srcStart := strings.Index(body, " src_full_posix=")
	encStart := strings.Index(body, " encoding=")

	ok = idStart >= 0 &&
		relStart > idStart &&
		srcStart > relStart &&
		encStart > srcStart

	if !ok {
		return
	}

	h.RootID = strings.TrimSpace(body[idStart+len("root_id="):relStart])
	h.Rel = body[relStart+len(" rel="):srcStart]
	h.Src = body[srcStart+len(" src_full_posix="):encStart]
	h.Encoding = strings.TrimSpace(body[encStart+len(" encoding="):])
	return
}

// Parse the body of a closing header line. Returns !ok if the body doesn't
// have the closing shape or the size doesn't parse.
func parseClosingHeader(body string) (size int64, checksum string, ok bool) {
	sizeStart := strings.Index(body, "size=")
	sumStart := strings.Index(body, " sha256=")

	if sizeStart < 0 || sumStart < sizeStart {
		return
	}

	sizeText := strings.TrimSpace(body[sizeStart+len("size=") : sumStart])
	checksum = strings.TrimSpace(body[sumStart+len(" sha256="):])

	size, err := strconv.ParseInt(sizeText, 10, 64)
	if err != nil || size < 0 {
		return
	}

	ok = checksum != ""
	return
}
