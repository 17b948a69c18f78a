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

package dotgraph

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/vellum-lang/vellum/internal/filetree"
	"github.com/vellum-lang/vellum/internal/ident"
	"github.com/vellum-lang/vellum/internal/visib"
)

func TestAddEdgeOnUnusedLabelAdds(t *testing.T) {
	tree := filetree.New()
	g := New()
	start := ModuleRef(filetree.Root)
	e := Edge{Target: LeafRef(0), Source: ident.New("foo"), Declared: visib.Global()}
	qt.Assert(t, qt.Equals(g.AddEdge(tree, start, ident.New("foo"), e), Added))

	got, ok := g.Lookup(start, ident.New("foo"))
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(got.Target, e.Target))
}

func TestAddEdgeSameTargetWidensOrNoOps(t *testing.T) {
	tree := filetree.New()
	child := tree.AddChild(filetree.Root, ident.New("child"))
	g := New()
	start := ModuleRef(filetree.Root)
	label := ident.New("foo")
	target := LeafRef(0)

	narrow := Edge{Target: target, Declared: visib.ScopedAt(child)}
	qt.Assert(t, qt.Equals(g.AddEdge(tree, start, label, narrow), Added))

	// Re-adding with the same (narrower-or-equal) visibility is a no-op.
	qt.Assert(t, qt.Equals(g.AddEdge(tree, start, label, narrow), NoOp))

	wide := Edge{Target: target, Declared: visib.Global()}
	qt.Assert(t, qt.Equals(g.AddEdge(tree, start, label, wide), Widened))

	got, _ := g.Lookup(start, label)
	qt.Assert(t, qt.Equals(got.Declared, visib.Global()))
}

func TestAddEdgeDifferentTargetClashes(t *testing.T) {
	tree := filetree.New()
	g := New()
	start := ModuleRef(filetree.Root)
	label := ident.New("foo")

	qt.Assert(t, qt.Equals(g.AddEdge(tree, start, label, Edge{Target: LeafRef(0)}), Added))
	qt.Assert(t, qt.Equals(g.AddEdge(tree, start, label, Edge{Target: LeafRef(1)}), Clash))
}

func TestSortedEdgesOrdersByLabelText(t *testing.T) {
	tree := filetree.New()
	g := New()
	start := ModuleRef(filetree.Root)
	g.AddEdge(tree, start, ident.New("zebra"), Edge{Target: LeafRef(0)})
	g.AddEdge(tree, start, ident.New("apple"), Edge{Target: LeafRef(1)})
	g.AddEdge(tree, start, ident.New("mango"), Edge{Target: LeafRef(2)})

	edges := g.SortedEdges(start)
	qt.Assert(t, qt.Equals(len(edges), 3))
	qt.Assert(t, qt.Equals(edges[0].Label, ident.New("apple")))
	qt.Assert(t, qt.Equals(edges[1].Label, ident.New("mango")))
	qt.Assert(t, qt.Equals(edges[2].Label, ident.New("zebra")))
}

func TestLookupOnUnknownStartOrLabelMisses(t *testing.T) {
	g := New()
	_, ok := g.Lookup(ModuleRef(filetree.Root), ident.New("nope"))
	qt.Assert(t, qt.IsFalse(ok))
}
