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

// A Record describes one file framed within an archive. Encode sends one on
// its records channel per file written; Decode and Verify send one per
// record consumed.
type Record struct {
	// The 16-character hex id of the root this file belongs to.
	RootID string

	// The file's path relative to its root, in forward-slash form.
	Rel string

	// The absolute path the file was read from at backup time. Informational
	// only; restore never consults it.
	Src string

	// The byte count and hex SHA-256 of the record's raw contents. On the
	// decode side these are the values actually observed, which match the
	// declared ones whenever Err is nil.
	Size     int64
	Checksum string

	// Set by Decode and Verify when the record failed: an integrity mismatch,
	// an undeclared root, or an output path that cannot be used. Nil for
	// records that were consumed successfully, and always nil from Encode.
	Err error
}
