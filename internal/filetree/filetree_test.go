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

package filetree

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/vellum-lang/vellum/internal/ident"
)

func TestRootHasNoParent(t *testing.T) {
	tree := New()
	_, ok := tree.Parent(Root)
	qt.Assert(t, qt.IsFalse(ok))
	qt.Assert(t, qt.Equals(tree.Depth(Root), 0))
}

func TestAddChildIsFindableByName(t *testing.T) {
	tree := New()
	child := tree.AddChild(Root, ident.New("a"))
	got, ok := tree.Child(Root, ident.New("a"))
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(got, child))

	parent, ok := tree.Parent(child)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(parent, Root))
	qt.Assert(t, qt.Equals(tree.Name(child), ident.New("a")))
}

func TestDepthAndAncestorAtDepth(t *testing.T) {
	tree := New()
	a := tree.AddChild(Root, ident.New("a"))
	b := tree.AddChild(a, ident.New("b"))
	c := tree.AddChild(b, ident.New("c"))

	qt.Assert(t, qt.Equals(tree.Depth(c), 3))

	got, ok := tree.AncestorAtDepth(c, 1)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(got, b))

	got, ok = tree.AncestorAtDepth(c, 3)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(got, Root))

	_, ok = tree.AncestorAtDepth(c, 4)
	qt.Assert(t, qt.IsFalse(ok))
}

func TestIsAncestorIsReflexiveAndTransitive(t *testing.T) {
	tree := New()
	a := tree.AddChild(Root, ident.New("a"))
	b := tree.AddChild(a, ident.New("b"))

	qt.Assert(t, qt.IsTrue(tree.IsAncestor(Root, Root)))
	qt.Assert(t, qt.IsTrue(tree.IsAncestor(Root, b)))
	qt.Assert(t, qt.IsTrue(tree.IsAncestor(a, b)))
	qt.Assert(t, qt.IsFalse(tree.IsAncestor(b, a)))
}

func TestDistinctTreesGetDistinctBuildIDs(t *testing.T) {
	qt.Assert(t, qt.Not(qt.Equals(New().BuildID, New().BuildID)))
}
