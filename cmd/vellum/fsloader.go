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

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vellum-lang/vellum/internal/filetree"
	"github.com/vellum-lang/vellum/internal/ident"
	"github.com/vellum-lang/vellum/internal/syntax"
)

// fsLoader resolves `mod` children from <dir>/<name>/<name>.json on disk,
// one JSON-encoded syntax.File per module (§6: the core consumes an
// already-parsed, desugared tree; this is where a real build would instead
// shell out to the external parser). The package root is <dir>/root.json.
type fsLoader struct {
	dir   string
	tree  *filetree.Tree
	paths map[filetree.FileID]string
}

func newFSLoader(dir string, tree *filetree.Tree) *fsLoader {
	return &fsLoader{dir: dir, tree: tree, paths: map[filetree.FileID]string{filetree.Root: dir}}
}

func (l *fsLoader) loadRoot() (*syntax.File, error) {
	return l.readFile(filepath.Join(l.dir, "root.json"))
}

// LoadChild implements filetree.Loader.
func (l *fsLoader) LoadChild(parent filetree.FileID, name ident.Name) (*syntax.File, error) {
	base, ok := l.paths[parent]
	if !ok {
		return nil, fmt.Errorf("vellum: no known path for parent module")
	}
	childDir := filepath.Join(base, name.Text())
	f, err := l.readFile(filepath.Join(childDir, name.Text()+".json"))
	if err != nil {
		return nil, err
	}
	// The binder has already called tree.AddChild(parent, name) before
	// invoking LoadChild, so the child's FileID is the tree's current
	// last-allocated one; recompute it the same way filetree does.
	child, _ := l.tree.Child(parent, name)
	l.paths[child] = childDir
	return f, nil
}

func (l *fsLoader) readFile(path string) (*syntax.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vellum: reading %s: %w", path, err)
	}
	var f syntax.File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("vellum: decoding %s: %w", path, err)
	}
	return &f, nil
}
