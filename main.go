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

// crate makes plain-text backups of directory trees.
//
// Each backup job walks a set of base paths, following symlinks but refusing
// to retrace a directory already on the lineage being explored, and encodes
// every regular file into a single line-oriented text archive annotated with
// sizes and SHA-256 checksums. Archives restore on any machine with nothing
// but this tool, and survive being pasted through channels that only carry
// text.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
)

////////////////////////////////////////////////////////////////////////
// Commands
////////////////////////////////////////////////////////////////////////

// The set of commands supported by the tool.
var commands = []*Command{
	cmdList,
	cmdRestore,
	cmdSave,
	cmdVerify,
}

func runCmd(
	ctx context.Context,
	cmdName string,
	cmdArgs []string) (err error) {
	// Find and run the appropriate command.
	for _, cmd := range commands {
		if cmd.Name == cmdName {
			if err = cmd.Flags.Parse(cmdArgs); err != nil {
				return
			}

			err = cmd.Run(ctx, cmd.Flags.Args())
			return
		}
	}

	err = fmt.Errorf("Unknown command: %q", cmdName)
	return
}

////////////////////////////////////////////////////////////////////////
// main
////////////////////////////////////////////////////////////////////////

func main() {
	flag.Parse()

	// Set up bare logging output.
	log.SetFlags(log.Lmicroseconds | log.Lshortfile)

	// Find the command name.
	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Missing command name. Choices are:")
		for _, cmd := range commands {
			fmt.Fprintf(os.Stderr, "  %s\n", cmd.Name)
		}

		os.Exit(1)
	}

	cmdName := args[0]
	cmdArgs := args[1:]

	// Call through.
	err := runCmd(context.Background(), cmdName, cmdArgs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
