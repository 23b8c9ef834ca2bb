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
)

// An IntegrityError means a record's decoded contents don't match what the
// record declared: a size or checksum mismatch, an undecodable payload line,
// or a record that never declared its size and checksum at all. In lenient
// mode these fail only the affected record.
type IntegrityError struct {
	// The record's root-relative path.
	Rel string

	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity failure for %q: %s", e.Rel, e.Reason)
}

// A FormatError means the archive text itself is malformed: a header line
// that doesn't parse, an unrecognized line inside a record, a reference to a
// root never declared in the meta lines, or an output path that would land
// outside the destination.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("archive format error: %s", e.Reason)
}

// Trim a line for inclusion in an error message.
func clip(line string) string {
	const max = 80
	if len(line) <= max {
		return line
	}

	return line[:max] + "..."
}
