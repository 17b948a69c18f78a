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

// Package filetree implements the module tree (§3.2): a finite rooted tree
// of file IDs, with child lookup, parent lookup, and ancestor reachability.
// It also carries the Loader boundary (§6) through which the core asks the
// external parsing collaborator for a child module's parsed file.
package filetree

import (
	"github.com/google/uuid"

	"github.com/vellum-lang/vellum/internal/ident"
	"github.com/vellum-lang/vellum/internal/syntax"
)

// FileID identifies one node in the file tree. The root (the package) is
// always FileID(0).
type FileID int

// Root is the package root's FileID.
const Root FileID = 0

// node is one file tree entry.
type node struct {
	parent   FileID
	hasParent bool
	name     ident.Name // the name the parent assigned this child; empty at the root
	children map[ident.Name]FileID
}

// Tree is a file tree (§3.2). The zero value is not usable; use New.
type Tree struct {
	// BuildID uniquely identifies this compilation's package, grounded on
	// the teacher's build.Instance.ID concept but made concrete with a
	// real UUID rather than an import-path string, since the core has no
	// notion of import paths (those belong to the external module
	// discovery collaborator, out of scope per §1).
	BuildID uuid.UUID

	nodes []node
}

// New creates a Tree containing only its root (the package).
func New() *Tree {
	t := &Tree{BuildID: uuid.New()}
	t.nodes = append(t.nodes, node{children: map[ident.Name]FileID{}})
	return t
}

// AddChild registers a child of parent under the given name, returning its
// new FileID. It is the loader's responsibility to call this once per
// discovered child; the core itself never performs file-system discovery.
func (t *Tree) AddChild(parent FileID, name ident.Name) FileID {
	id := FileID(len(t.nodes))
	t.nodes = append(t.nodes, node{parent: parent, hasParent: true, name: name, children: map[ident.Name]FileID{}})
	t.nodes[parent].children[name] = id
	return id
}

// Child looks up a direct child of id by name.
func (t *Tree) Child(id FileID, name ident.Name) (FileID, bool) {
	c, ok := t.nodes[id].children[name]
	return c, ok
}

// Parent returns id's parent and true, or (0, false) at the root.
func (t *Tree) Parent(id FileID) (FileID, bool) {
	n := t.nodes[id]
	if !n.hasParent {
		return 0, false
	}
	return n.parent, true
}

// Name returns the name id's parent assigned it; empty at the root.
func (t *Tree) Name(id FileID) ident.Name {
	return t.nodes[id].name
}

// Depth returns the number of super* keywords needed to reach id's parent
// chain: Depth(Root) == 0.
func (t *Tree) Depth(id FileID) int {
	d := 0
	for cur := id; ; {
		p, ok := t.Parent(cur)
		if !ok {
			return d
		}
		d++
		cur = p
	}
}

// AncestorAtDepth walks depth parent-links up from id, the way `super`
// (depth 1) .. `super8` (depth 8) resolve (§3.1).
func (t *Tree) AncestorAtDepth(id FileID, depth int) (FileID, bool) {
	cur := id
	for i := 0; i < depth; i++ {
		p, ok := t.Parent(cur)
		if !ok {
			return 0, false
		}
		cur = p
	}
	return cur, true
}

// IsAncestor reports whether a is a non-strict ancestor of b (§3.2): every
// node is its own ancestor, and a is an ancestor of each of its descendants.
func (t *Tree) IsAncestor(a, b FileID) bool {
	for cur := b; ; {
		if cur == a {
			return true
		}
		p, ok := t.Parent(cur)
		if !ok {
			return false
		}
		cur = p
	}
}

// Loader is the external parsing collaborator's boundary (§6): given a file
// ID, it returns the already-desugared parsed file for a `mod` statement's
// child, loading it (from disk, memory, etc.) however the driver prefers.
// The core never performs the load itself; it only calls back through this
// interface at the single suspension point in the pipeline (§5).
type Loader interface {
	LoadChild(parent FileID, name ident.Name) (*syntax.File, error)
}
