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
	"time"

	"github.com/jacobsa/crate/internal/wiring"
)

var cmdList = &Command{
	Name: "list",
	Run:  runList,
}

func runList(ctx context.Context, args []string) (err error) {
	cfg, err := getConfig()
	if err != nil {
		return
	}

	// Ask the registry for a list.
	reg, err := wiring.MakeRegistry(cfg.RegistryPath)
	if err != nil {
		err = fmt.Errorf("MakeRegistry: %v", err)
		return
	}

	jobs, err := reg.ListBackups(ctx)
	if err != nil {
		err = fmt.Errorf("ListBackups: %v", err)
		return
	}

	// Print each.
	log.Println("")
	log.Println("")
	log.Println("Previous backups:")
	log.Println("")
	log.Printf(
		"  %-38s   %-20s   %10s   %14s   %s\n",
		"START TIME",
		"JOB NAME",
		"FILES",
		"BYTES",
		"ARCHIVE",
	)

	for _, job := range jobs {
		log.Printf(
			"  %-38s   %-20s   %10d   %14d   %s\n",
			job.StartTime.Format(time.RFC3339Nano),
			job.Name,
			job.FileCount,
			job.ByteCount,
			job.Archive,
		)
	}

	return
}
