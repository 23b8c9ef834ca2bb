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

// Package archive implements the crate archive format: a line-oriented,
// self-describing text container holding the files of one or more walked
// roots, each with a declared size and SHA-256 checksum.
//
// An archive looks like this:
//
//	╒════[BACKUP_START]═══╕
//	»[META]« version=2
//	»[META]« root_id=612b6fc44e3094a3 root_posix=/home/alice
//	»[RECORD_BEGIN]«
//	»[HEADER]« root_id=612b6fc44e3094a3 rel=notes.txt src_full_posix=/home/alice/notes.txt encoding=b64
//	»[PAYLOAD]« aGVsbG8=
//	»[HEADER]« size=5 sha256=2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824
//	»[RECORD_END]«
//	╘════[BACKUP_END]═══╛
//
// Each record's size and checksum trail its payload so that encoding is a
// single streaming pass over the source file. Blank lines are ignored by the
// decoder. The format carries file contents only; permissions, owners, and
// modification times do not survive a round trip.
package archive

// Format tokens. These are a wire contract shared with other implementations
// of the format and must not change.
const (
	openDelimiter  = "╒════[BACKUP_START]═══╕"
	closeDelimiter = "╘════[BACKUP_END]═══╛"

	recordBegin = "»[RECORD_BEGIN]«"
	recordEnd   = "»[RECORD_END]«"

	headerPrefix  = "»[HEADER]«"
	payloadPrefix = "»[PAYLOAD]«"
	metaPrefix    = "»[META]«"
)

const (
	// The format version declared in every archive we write. Decoding treats
	// the declaration as informational.
	formatVersion = 2

	// Column width for wrapped base64 payload. A multiple of four, so every
	// payload line decodes independently of its neighbors.
	payloadWrap = 76

	// Size of the read buffer used while encoding a file, bounding peak
	// memory per record no matter how large the file is.
	encodeChunkSize = 1 << 20
)
