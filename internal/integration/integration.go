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

// Package integration is the golden, multi-file test harness: one txtar
// archive holds a whole module tree (one JSON-encoded syntax.File per
// module, under in/) plus the expected rendered output (out), the same
// "one archive, one fixture" shape the teacher's internal/cuetxtar wraps
// around cue/parser and internal/core's golden tests. Since no text parser
// is in scope here (§1, §6), the "source" each archive carries is the
// already-parsed tree, JSON-encoded instead of written in concrete syntax.
package integration

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rogpeppe/go-internal/txtar"

	"github.com/vellum-lang/vellum/internal/filetree"
	"github.com/vellum-lang/vellum/internal/ident"
	"github.com/vellum-lang/vellum/internal/syntax"
)

// Archive is one loaded fixture.
type Archive struct {
	files  map[string]*syntax.File // dotted module path -> its tree ("" is the root)
	Golden string                  // the out file's contents, trimmed
}

// Load parses the txtar archive at data into an Archive. Every in/<path>.json
// file becomes one module's parsed tree, addressed by its dotted path
// (in/foo/bar.json -> "foo.bar"); in/root.json is the package root.
func Load(data []byte) (*Archive, error) {
	arc := txtar.Parse(data)
	a := &Archive{files: map[string]*syntax.File{}}
	for _, f := range arc.Files {
		switch {
		case f.Name == "out":
			a.Golden = strings.TrimSpace(string(f.Data))
		case strings.HasPrefix(f.Name, "in/") && strings.HasSuffix(f.Name, ".json"):
			key := strings.TrimSuffix(strings.TrimPrefix(f.Name, "in/"), ".json")
			key = strings.ReplaceAll(key, "/", ".")
			if key == "root" {
				key = ""
			}
			var sf syntax.File
			if err := json.Unmarshal(f.Data, &sf); err != nil {
				return nil, fmt.Errorf("integration: decoding %s: %w", f.Name, err)
			}
			a.files[key] = &sf
		}
	}
	if _, ok := a.files[""]; !ok {
		return nil, fmt.Errorf("integration: archive has no in/root.json")
	}
	return a, nil
}

// Root returns the package root's parsed tree.
func (a *Archive) Root() *syntax.File { return a.files[""] }

// Loader adapts an Archive to filetree.Loader, resolving each `mod` child by
// reconstructing its dotted path from the file tree's own parent chain (the
// same path convention Load uses to key a.files).
type Loader struct {
	Tree *filetree.Tree
	arc  *Archive
}

// NewLoader builds a Loader over tree (which must be the same *filetree.Tree
// the caller passes to pipeline.Run) and arc.
func NewLoader(tree *filetree.Tree, arc *Archive) *Loader {
	return &Loader{Tree: tree, arc: arc}
}

func (l *Loader) pathOf(id filetree.FileID) string {
	var parts []string
	for id != filetree.Root {
		parts = append([]string{l.Tree.Name(id).Text()}, parts...)
		parent, ok := l.Tree.Parent(id)
		if !ok {
			break
		}
		id = parent
	}
	return strings.Join(parts, ".")
}

// LoadChild implements filetree.Loader.
func (l *Loader) LoadChild(parent filetree.FileID, name ident.Name) (*syntax.File, error) {
	base := l.pathOf(parent)
	key := name.Text()
	if base != "" {
		key = base + "." + key
	}
	f, ok := l.arc.files[key]
	if !ok {
		return nil, fmt.Errorf("integration: no module %q in archive", key)
	}
	return f, nil
}

// RenderWarnings renders warnings deterministically (sorted by position,
// then message) for golden comparison: map iteration elsewhere in the
// checker is never used for Warnings (it's a plain append-only slice), but
// sorting here still protects a fixture from reordering if that ever
// changes.
func RenderWarnings(ws []string) string {
	sorted := append([]string(nil), ws...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\n")
}
