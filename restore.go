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
	"log"
	"os"
	"time"

	"github.com/jacobsa/crate/internal/archive"
	"github.com/jacobsa/crate/internal/wiring"
	"github.com/jacobsa/syncutil"
)

var cmdRestore = &Command{
	Name: "restore",
}

var fJobTime = cmdRestore.Flags.String(
	"job_time",
	"",
	"Start time of a recorded backup to restore, instead of naming an "+
		"archive file. Requires -config.")

var fSkipErrors = cmdRestore.Flags.Bool(
	"skip_errors",
	false,
	"If set, skip damaged records and restore the rest instead of aborting.")

func init() {
	cmdRestore.Run = runRestore // Break flag-related dependency loop.
}

// Look up the archive recorded for the backup with the given start time.
func findArchive(ctx context.Context, jobTime string) (
	archivePath string,
	err error) {
	startTime, err := time.Parse(time.RFC3339Nano, jobTime)
	if err != nil {
		err = fmt.Errorf("Parsing -job_time: %v", err)
		return
	}

	cfg, err := getConfig()
	if err != nil {
		return
	}

	reg, err := wiring.MakeRegistry(cfg.RegistryPath)
	if err != nil {
		err = fmt.Errorf("MakeRegistry: %v", err)
		return
	}

	job, err := reg.FindBackup(ctx, startTime)
	if err != nil {
		err = fmt.Errorf("FindBackup: %v", err)
		return
	}

	archivePath = job.Archive
	return
}

func runRestore(ctx context.Context, args []string) (err error) {
	// Work out which archive to read and where to put its contents.
	var archivePath string
	var target string

	if *fJobTime != "" {
		if len(args) != 1 {
			err = fmt.Errorf(
				"Usage: %s restore -job_time TIME target_dir",
				os.Args[0])

			return
		}

		target = args[0]
		archivePath, err = findArchive(ctx, *fJobTime)
		if err != nil {
			return
		}
	} else {
		if len(args) != 2 {
			err = fmt.Errorf(
				"Usage: %s restore archive_file target_dir",
				os.Args[0])

			return
		}

		archivePath = args[0]
		target = args[1]
	}

	// Create the target. Refuse to write into a directory that already
	// exists; a restore should start from a clean slate.
	err = os.Mkdir(target, 0700)
	if err != nil {
		err = fmt.Errorf("os.Mkdir: %v", err)
		return
	}

	// Open the archive.
	f, err := os.Open(archivePath)
	if err != nil {
		err = fmt.Errorf("os.Open: %v", err)
		return
	}

	defer f.Close()

	// Grab dependencies.
	fileSystem := wiring.MakeFileSystem()

	// Decode, tallying the outcome of each record as it closes.
	b := syncutil.NewBundle(ctx)

	records := make(chan archive.Record, 100)
	b.Add(func(ctx context.Context) (err error) {
		defer close(records)
		err = archive.Decode(
			ctx,
			f,
			fileSystem,
			target,
			*fSkipErrors,
			log.New(os.Stderr, "Restore progress: ", 0),
			records)

		if err != nil {
			err = fmt.Errorf("archive.Decode: %v", err)
			return
		}

		return
	})

	var restored, skipped int64
	b.Add(func(ctx context.Context) (err error) {
		for r := range records {
			if r.Err != nil {
				skipped++
				continue
			}

			restored++
		}

		return
	})

	err = b.Join()
	if err != nil {
		return
	}

	if skipped > 0 {
		log.Printf("Skipped %d damaged records.", skipped)
	}

	log.Printf("Successfully restored %d files to %s.", restored, target)
	return
}
