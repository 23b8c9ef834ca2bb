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

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jacobsa/crate/internal/archive"
	"github.com/jacobsa/crate/internal/config"
	"github.com/jacobsa/crate/internal/fs"
	"github.com/jacobsa/crate/internal/registry"
	"github.com/jacobsa/crate/internal/tree"
	"github.com/jacobsa/crate/internal/wiring"
	"github.com/jacobsa/timeutil"
)

var cmdSave = &Command{
	Name: "save",
}

var fListOnly = cmdSave.Flags.Bool(
	"list_only",
	false,
	"If set, list the files that would be backed up but do nothing further.")

func init() {
	cmdSave.Run = runSave // Break flag-related dependency loop.
}

// Walk the job's base paths, logging anything the walker couldn't traverse.
func walkJob(
	ctx context.Context,
	job *config.Job) (t tree.Tree, err error) {
	fileSystem := wiring.MakeFileSystem()

	t, err = tree.Walk(ctx, fileSystem, job.BasePaths, job.Excludes)
	if err != nil {
		err = fmt.Errorf("tree.Walk: %v", err)
		return
	}

	for _, d := range t.Diagnostics() {
		log.Printf("Not descending into %s: %v %s", d.Path, d.Kind, d.Message)
	}

	return
}

func doList(ctx context.Context, job *config.Job) (err error) {
	t, err := walkJob(ctx, job)
	if err != nil {
		err = fmt.Errorf("walkJob: %v", err)
		return
	}

	for _, f := range t.Files() {
		fmt.Println(f.Path)
	}

	return
}

// Encode the tree into w, returning the number of files written and the
// total of their sizes.
func encodeTree(
	ctx context.Context,
	w io.Writer,
	t tree.Tree,
	fileSystem fs.FileSystem) (fileCount int64, byteCount int64, err error) {
	eg, ctx := errgroup.WithContext(ctx)

	// Encode into w, sending a record on a channel per file archived.
	records := make(chan archive.Record, 100)
	eg.Go(func() (err error) {
		defer close(records)
		err = archive.Encode(
			ctx,
			w,
			t,
			fileSystem,
			log.New(os.Stderr, "Save progress: ", 0),
			records)

		if err != nil {
			err = fmt.Errorf("archive.Encode: %v", err)
			return
		}

		return
	})

	// Count what goes in as we go.
	eg.Go(func() (err error) {
		for r := range records {
			fileCount++
			byteCount += r.Size
		}

		return
	})

	err = eg.Wait()
	return
}

func runSave(ctx context.Context, args []string) (err error) {
	cfg, err := getConfig()
	if err != nil {
		return
	}

	// Extract arguments.
	if len(args) != 1 {
		err = fmt.Errorf("Usage: %s save job_name", os.Args[0])
		return
	}

	jobName := args[0]

	// Look for the specified job.
	job, ok := cfg.Jobs[jobName]
	if !ok {
		err = fmt.Errorf("Unknown job: %q", jobName)
		return
	}

	// Special case: visit the file system only if -list_only is set.
	if *fListOnly {
		err = doList(ctx, job)
		if err != nil {
			err = fmt.Errorf("doList: %v", err)
			return
		}

		return
	}

	// Grab dependencies.
	fileSystem := wiring.MakeFileSystem()
	clock := timeutil.RealClock()

	reg, err := wiring.MakeRegistry(cfg.RegistryPath)
	if err != nil {
		err = fmt.Errorf("MakeRegistry: %v", err)
		return
	}

	// Choose a start time for the job.
	startTime := clock.Now()

	// Walk the base paths.
	t, err := walkJob(ctx, job)
	if err != nil {
		err = fmt.Errorf("walkJob: %v", err)
		return
	}

	// Create the archive file.
	err = os.MkdirAll(cfg.ArchiveDir, 0700)
	if err != nil {
		err = fmt.Errorf("MkdirAll: %v", err)
		return
	}

	archivePath := path.Join(
		cfg.ArchiveDir,
		fmt.Sprintf("%s_%s.crate", jobName, startTime.UTC().Format(time.RFC3339)))

	f, err := os.Create(archivePath)
	if err != nil {
		err = fmt.Errorf("os.Create: %v", err)
		return
	}

	// Encode into it.
	fileCount, byteCount, err := encodeTree(ctx, f, t, fileSystem)
	if err != nil {
		// Don't leave a half-written archive behind.
		f.Close()
		os.Remove(archivePath)
		return
	}

	err = f.Close()
	if err != nil {
		err = fmt.Errorf("Close: %v", err)
		return
	}

	// Register the successful backup.
	completedJob := registry.CompletedJob{
		StartTime: startTime,
		Name:      jobName,
		Archive:   archivePath,
		FileCount: fileCount,
		ByteCount: byteCount,
	}

	err = reg.RecordBackup(ctx, completedJob)
	if err != nil {
		err = fmt.Errorf("RecordBackup: %v", err)
		return
	}

	log.Printf(
		"Successfully backed up %d files (%d bytes) to %s. Start time: %v\n",
		fileCount,
		byteCount,
		archivePath,
		startTime.UTC())

	return
}
