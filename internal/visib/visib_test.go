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

package visib

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/vellum-lang/vellum/internal/filetree"
	"github.com/vellum-lang/vellum/internal/ident"
)

// testTree is root -> child -> grandchild.
type testTree struct {
	*filetree.Tree
	root, child, grandchild filetree.FileID
}

func newTestTree() *testTree {
	tree := filetree.New()
	child := tree.AddChild(filetree.Root, ident.New("child"))
	grandchild := tree.AddChild(child, ident.New("grandchild"))
	return &testTree{Tree: tree, root: filetree.Root, child: child, grandchild: grandchild}
}

func TestGlobalIsAlwaysAtLeastAsPermissive(t *testing.T) {
	tree := newTestTree()
	g := Global()
	scoped := ScopedAt(tree.child)
	qt.Assert(t, qt.IsTrue(g.IsGlobal()))
	qt.Assert(t, qt.IsTrue(AtLeastAsPermissiveAs(tree.Tree, g, scoped)))
	qt.Assert(t, qt.IsFalse(AtLeastAsPermissiveAs(tree.Tree, scoped, g)))
}

func TestAncestorScopeIsAtLeastAsPermissiveAsDescendant(t *testing.T) {
	tree := newTestTree()
	root := ScopedAt(tree.root)
	child := ScopedAt(tree.child)
	grandchild := ScopedAt(tree.grandchild)
	qt.Assert(t, qt.IsTrue(AtLeastAsPermissiveAs(tree.Tree, root, grandchild)))
	qt.Assert(t, qt.IsTrue(AtLeastAsPermissiveAs(tree.Tree, child, grandchild)))
	qt.Assert(t, qt.IsFalse(AtLeastAsPermissiveAs(tree.Tree, grandchild, child)))
}

func TestMoreStrictlyPermissiveThanIsIrreflexive(t *testing.T) {
	tree := newTestTree()
	root := ScopedAt(tree.root)
	child := ScopedAt(tree.child)
	qt.Assert(t, qt.IsFalse(MoreStrictlyPermissiveThan(tree.Tree, root, root)))
	qt.Assert(t, qt.IsTrue(MoreStrictlyPermissiveThan(tree.Tree, root, child)))
	qt.Assert(t, qt.IsFalse(MoreStrictlyPermissiveThan(tree.Tree, child, root)))
}

func TestMinPicksMoreRestrictive(t *testing.T) {
	tree := newTestTree()
	root := ScopedAt(tree.root)
	child := ScopedAt(tree.child)
	qt.Assert(t, qt.Equals(Min(tree.Tree, root, child), child))
	qt.Assert(t, qt.Equals(Min(tree.Tree, child, root), child))
	qt.Assert(t, qt.Equals(Min(tree.Tree, Global(), child), child))
}
