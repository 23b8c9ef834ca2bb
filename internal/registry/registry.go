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

// Package registry keeps track of the backups that have been completed, so
// that later invocations can list and restore them.
package registry

import (
	"context"
	"time"
)

type Registry interface {
	// Record that the named backup job has completed.
	RecordBackup(ctx context.Context, j CompletedJob) (err error)

	// Return a list of all completed backups, ordered by start time with the
	// oldest first.
	ListBackups(ctx context.Context) (jobs []CompletedJob, err error)

	// Find a particular completed job by start time.
	FindBackup(
		ctx context.Context,
		startTime time.Time) (job CompletedJob, err error)
}

// A record in the backup registry describing a successful backup job.
type CompletedJob struct {
	// The time at which the backup was started.
	StartTime time.Time

	// The name of the backup job.
	Name string

	// The path of the archive file holding the backup's contents.
	Archive string

	// The number of files archived, and the total size of their contents in
	// bytes.
	FileCount int64
	ByteCount int64
}
