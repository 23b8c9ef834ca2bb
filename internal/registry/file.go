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

package registry

import (
	"context"
	"encoding/gob"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jacobsa/syncutil"
)

// NewFileRegistry opens the registry persisted at the supplied path,
// creating an empty one if no file exists there yet. Records are held in
// memory and the whole file is rewritten on each update, so the registry is
// suited to the tens or hundreds of jobs a backup history accumulates, not
// to anything bigger.
func NewFileRegistry(path string) (r Registry, err error) {
	fr := &fileRegistry{
		path: path,
	}

	fr.mu = syncutil.NewInvariantMutex(fr.checkInvariants)

	fr.jobs, err = loadJobs(path)
	if err != nil {
		err = fmt.Errorf("loading registry %q: %v", path, err)
		return
	}

	r = fr
	return
}

////////////////////////////////////////////////////////////////////////
// Implementation
////////////////////////////////////////////////////////////////////////

// The on-disk representation, a gob stream of a single struct. Wrapping the
// slice leaves room to grow the format without invalidating old files.
type savedRegistry struct {
	Jobs []CompletedJob
}

type fileRegistry struct {
	path string

	mu syncutil.InvariantMutex

	// All recorded jobs.
	//
	// INVARIANT: Start times are strictly increasing.
	//
	// GUARDED_BY(mu)
	jobs []CompletedJob
}

// LOCKS_REQUIRED(r.mu)
func (r *fileRegistry) checkInvariants() {
	for i := 1; i < len(r.jobs); i++ {
		if !r.jobs[i-1].StartTime.Before(r.jobs[i].StartTime) {
			log.Fatalf(
				"Registry jobs out of order: %v precedes %v",
				r.jobs[i-1].StartTime,
				r.jobs[i].StartTime)
		}
	}
}

// LOCKS_EXCLUDED(r.mu)
func (r *fileRegistry) RecordBackup(
	ctx context.Context,
	j CompletedJob) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.jobs {
		if existing.StartTime.Equal(j.StartTime) {
			err = fmt.Errorf(
				"a backup with start time %v is already recorded",
				j.StartTime)

			return
		}
	}

	// Build the updated list, then persist it before adopting it, so that
	// memory and disk cannot disagree after a write failure.
	updated := make([]CompletedJob, 0, len(r.jobs)+1)
	updated = append(updated, r.jobs...)
	updated = append(updated, j)

	sort.Slice(updated, func(i, k int) bool {
		return updated[i].StartTime.Before(updated[k].StartTime)
	})

	if err = saveJobs(r.path, updated); err != nil {
		err = fmt.Errorf("saving registry %q: %v", r.path, err)
		return
	}

	r.jobs = updated
	return
}

// LOCKS_EXCLUDED(r.mu)
func (r *fileRegistry) ListBackups(
	ctx context.Context) (jobs []CompletedJob, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	jobs = make([]CompletedJob, len(r.jobs))
	copy(jobs, r.jobs)

	return
}

// LOCKS_EXCLUDED(r.mu)
func (r *fileRegistry) FindBackup(
	ctx context.Context,
	startTime time.Time) (job CompletedJob, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, j := range r.jobs {
		if j.StartTime.Equal(startTime) {
			job = j
			return
		}
	}

	err = fmt.Errorf("no backup with start time %v", startTime)
	return
}

func loadJobs(path string) (jobs []CompletedJob, err error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		err = nil
		return
	}

	if err != nil {
		return
	}

	defer f.Close()

	var saved savedRegistry
	if err = gob.NewDecoder(f).Decode(&saved); err != nil {
		err = fmt.Errorf("gob.Decode: %v", err)
		return
	}

	jobs = saved.Jobs
	return
}

// Write the jobs to a temporary file next to the target, then rename it
// into place. Renaming within the directory keeps the replacement atomic.
func saveJobs(path string, jobs []CompletedJob) (err error) {
	f, err := ioutil.TempFile(filepath.Dir(path), ".registry")
	if err != nil {
		err = fmt.Errorf("TempFile: %v", err)
		return
	}

	tempPath := f.Name()
	defer os.Remove(tempPath)

	if err = gob.NewEncoder(f).Encode(savedRegistry{Jobs: jobs}); err != nil {
		f.Close()
		err = fmt.Errorf("gob.Encode: %v", err)
		return
	}

	if err = f.Close(); err != nil {
		err = fmt.Errorf("Close: %v", err)
		return
	}

	if err = os.Rename(tempPath, path); err != nil {
		err = fmt.Errorf("Rename: %v", err)
		return
	}

	return
}
