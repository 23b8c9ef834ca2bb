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
	"errors"
	"flag"
	"fmt"
	"io/ioutil"

	"github.com/jacobsa/crate/internal/config"
)

var fConfigFile = flag.String("config", "", "Path to config file.")

// Load, parse, and validate the config file named by the -config flag. Each
// command that needs the config loads it afresh; nothing is cached between
// runs.
func getConfig() (cfg *config.Config, err error) {
	// Check the flag.
	if *fConfigFile == "" {
		err = errors.New("You must set the -config flag.")
		return
	}

	// Read the file.
	configData, err := ioutil.ReadFile(*fConfigFile)
	if err != nil {
		err = fmt.Errorf("Reading config file: %v", err)
		return
	}

	// Parse it.
	cfg, err = config.Parse(configData)
	if err != nil {
		err = fmt.Errorf("Parsing config file: %v", err)
		return
	}

	// Validate.
	err = config.Validate(cfg)
	if err != nil {
		err = fmt.Errorf("Invalid config: %v", err)
		return
	}

	return
}
