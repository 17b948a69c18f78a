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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/vellum-lang/vellum/internal/pipeline"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "vellum.yaml"))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(cfg, pipeline.DefaultConfig()))
}

func TestLoadParsesKeysAndDefaultsFailFastTrue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vellum.yaml")
	writeFile(t, path, "show_indices: true\nmax_warnings: 5\n")

	cfg, err := Load(path)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(cfg, pipeline.Config{ShowIndices: true, MaxWarnings: 5, FailFast: true}))
}

func TestLoadCanDisableFailFast(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vellum.yaml")
	writeFile(t, path, "fail_fast: false\n")

	cfg, err := Load(path)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsFalse(cfg.FailFast))
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vellum.yaml")
	writeFile(t, path, "show_indices: [this is not a bool\n")

	_, err := Load(path)
	qt.Assert(t, qt.IsNotNil(err))
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}
