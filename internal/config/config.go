// Copyright 2020 CUE Authors
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

// Package config loads the optional `vellum.yaml` options file, the way
// `cue/load` and `internal/mod/modfile` load module-level YAML/CUE config
// outside the evaluator core. Per the original YSCL-style options format
// this was distilled from (a flat key/value document, no nesting beyond one
// level), the file is deliberately shallow: it never nests past the
// top-level keys below.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vellum-lang/vellum/internal/pipeline"
)

// File is the on-disk shape of vellum.yaml. Keys are the snake_case names in
// the yaml tags; every key is optional and defaults to its value in
// pipeline.DefaultConfig (false, 0, and fail_fast true).
type File struct {
	ShowIndices bool `yaml:"show_indices"`
	MaxWarnings int  `yaml:"max_warnings"`
	FailFast    bool `yaml:"fail_fast"`
}

// Load reads and parses the YAML options file at path into a
// pipeline.Config. A missing file is not an error: Load returns
// pipeline.DefaultConfig() unchanged, since vellum.yaml is optional.
func Load(path string) (pipeline.Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return pipeline.DefaultConfig(), nil
	}
	if err != nil {
		return pipeline.Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var f File
	// FailFast's zero value (false) would silently override the documented
	// default (true) for any file that omits the key, so start from the
	// default and let YAML fields overwrite it in place.
	f.FailFast = true
	if err := yaml.Unmarshal(data, &f); err != nil {
		return pipeline.Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return pipeline.Config{
		ShowIndices: f.ShowIndices,
		MaxWarnings: f.MaxWarnings,
		FailFast:    f.FailFast,
	}, nil
}
