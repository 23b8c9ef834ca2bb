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
	"crypto/sha256"
	"encoding/hex"
)

// A RootID identifies one backup root within an archive. It consists of the
// first eight bytes of the SHA-256 digest of the root's POSIX path, written
// on the wire as sixteen hex characters. Two distinct roots whose ids
// collide are not defended against; with eight bytes of digest the
// probability is ignored rather than handled.
type RootID [8]byte

// ComputeRootID returns the id for the root with the supplied POSIX path.
func ComputeRootID(rootPosix string) (id RootID) {
	sum := sha256.Sum256([]byte(rootPosix))
	copy(id[:], sum[:])
	return
}

// Hex returns the fixed-width hex form of the id, as written on the wire.
func (id RootID) Hex() string {
	return hex.EncodeToString(id[:])
}
