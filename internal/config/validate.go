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

package config

import (
	"fmt"
	"path"
	"unicode/utf8"
)

func validateJob(j *Job) error {
	// There must be something to back up.
	if len(j.BasePaths) == 0 {
		return fmt.Errorf("Jobs must name at least one base path.")
	}

	// Base paths must be non-empty, absolute, valid UTF-8.
	for _, p := range j.BasePaths {
		if p == "" || !utf8.Valid([]byte(p)) {
			return fmt.Errorf("Base paths must be non-empty valid UTF-8.")
		}

		if !path.IsAbs(p) {
			return fmt.Errorf("Base path %q is not absolute.", p)
		}
	}

	return nil
}

// Return an error if the supplied config data is invalid in some way.
func Validate(c *Config) error {
	// Check each job.
	for name, job := range c.Jobs {
		// Names must be valid UTF-8.
		if !utf8.Valid([]byte(name)) {
			return fmt.Errorf("Job names must be valid UTF-8.")
		}

		// Check the job itself.
		if err := validateJob(job); err != nil {
			return fmt.Errorf("Job %s: %v", name, err)
		}
	}

	// The outputs must have somewhere to go.
	if c.ArchiveDir == "" {
		return fmt.Errorf("Config must specify archive_dir.")
	}

	if c.RegistryPath == "" {
		return fmt.Errorf("Config must specify registry_path.")
	}

	return nil
}
