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

// Package dotgraph implements the dot graph of named exports (§3.4): a
// graph whose nodes are either a module (file ID) or a leaf item (a De
// Bruijn level into the context stack), with edges labeled by identifier
// name.
package dotgraph

import (
	"sort"

	"github.com/vellum-lang/vellum/internal/filetree"
	"github.com/vellum-lang/vellum/internal/ident"
	"github.com/vellum-lang/vellum/internal/visib"
)

// NodeRef names one dot-graph node: either a module or a leaf item.
type NodeRef struct {
	IsModule bool
	Module   filetree.FileID
	Level    int // valid iff !IsModule; a De Bruijn level into the context stack (§3.5)
}

// ModuleRef builds a module node reference.
func ModuleRef(id filetree.FileID) NodeRef { return NodeRef{IsModule: true, Module: id} }

// LeafRef builds a leaf-item node reference at the given context level.
func LeafRef(level int) NodeRef { return NodeRef{Level: level} }

// Edge is one labeled edge out of a dot-graph node (§3.4).
type Edge struct {
	Target   NodeRef
	Source   ident.Name // the identifier under which the target was originally declared
	Declared visib.Visibility
	Original visib.Visibility
}

// AddOutcome classifies what AddEdge did.
type AddOutcome int

const (
	Added AddOutcome = iota
	Widened
	NoOp
	Clash
)

// Graph is the dot graph. At most one edge exists per (start, label) pair
// (§3.4, §8 invariant).
type Graph struct {
	edges map[NodeRef]map[ident.Name]Edge
}

// New returns an empty dot graph.
func New() *Graph {
	return &Graph{edges: map[NodeRef]map[ident.Name]Edge{}}
}

// AddEdge adds (or idempotently re-adds, or widens, or rejects) an edge
// start --label--> e.Target, per §4.1 rule 2:
//   - unused label: add it.
//   - same target, strictly more permissive declared visibility: widen
//     (overwrite) the existing edge in place.
//   - same target, not more permissive: silent no-op.
//   - different target: Clash.
func (g *Graph) AddEdge(t *filetree.Tree, start NodeRef, label ident.Name, e Edge) AddOutcome {
	out, ok := g.edges[start]
	if !ok {
		out = map[ident.Name]Edge{}
		g.edges[start] = out
	}
	existing, ok := out[label]
	if !ok {
		out[label] = e
		return Added
	}
	if existing.Target != e.Target {
		return Clash
	}
	if visib.MoreStrictlyPermissiveThan(t, e.Declared, existing.Declared) {
		out[label] = e
		return Widened
	}
	return NoOp
}

// Lookup finds the edge leaving start labeled label.
func (g *Graph) Lookup(start NodeRef, label ident.Name) (Edge, bool) {
	out, ok := g.edges[start]
	if !ok {
		return Edge{}, false
	}
	e, ok := out[label]
	return e, ok
}

// LabeledEdge pairs a label with the edge it names, for sorted iteration.
type LabeledEdge struct {
	Label ident.Name
	Edge  Edge
}

// SortedEdges returns every edge leaving start, sorted by label text, for
// the deterministic wildcard-import iteration order §5 requires.
func (g *Graph) SortedEdges(start NodeRef) []LabeledEdge {
	out := g.edges[start]
	a := make([]LabeledEdge, 0, len(out))
	for label, e := range out {
		a = append(a, LabeledEdge{Label: label, Edge: e})
	}
	sort.Slice(a, func(i, j int) bool { return a[i].Label.Text() < a[j].Label.Text() })
	return a
}
