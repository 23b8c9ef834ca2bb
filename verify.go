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

// A command that reads an entire archive, checking that every record's
// payload decodes cleanly and matches its declared size and SHA-256 checksum,
// without writing anything to the file system. All records are examined even
// when an early one fails, so one run reports every problem the archive has.

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jacobsa/crate/internal/archive"
	"github.com/jacobsa/syncutil"
)

var cmdVerify = &Command{
	Name: "verify",
	Run:  runVerify,
}

func runVerify(ctx context.Context, args []string) (err error) {
	// Extract arguments.
	if len(args) != 1 {
		err = fmt.Errorf("Usage: %s verify archive_file", os.Args[0])
		return
	}

	archivePath := args[0]

	// Open the archive.
	f, err := os.Open(archivePath)
	if err != nil {
		err = fmt.Errorf("os.Open: %v", err)
		return
	}

	defer f.Close()

	// Scan it, printing each record's outcome as it closes.
	b := syncutil.NewBundle(ctx)

	records := make(chan archive.Record, 100)
	b.Add(func(ctx context.Context) (err error) {
		defer close(records)
		err = archive.Verify(
			ctx,
			f,
			log.New(os.Stderr, "Verify progress: ", 0),
			records)

		if err != nil {
			err = fmt.Errorf("archive.Verify: %v", err)
			return
		}

		return
	})

	var good int64
	b.Add(func(ctx context.Context) (err error) {
		for r := range records {
			if r.Err != nil {
				log.Printf("Bad record %q: %v", r.Rel, r.Err)
				continue
			}

			good++
			log.Printf("OK  %s (%d bytes, sha256 %s)", r.Rel, r.Size, r.Checksum)
		}

		return
	})

	err = b.Join()
	if err != nil {
		return
	}

	log.Printf("Verified %d records; all intact.", good)
	return
}
