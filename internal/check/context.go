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

// Package check implements the type checker (§4.6-4.8): the typing context,
// the small-step evaluator, capture-avoiding substitution, definitional
// equality, bidirectional inference/checking, match elaboration, `check`
// assertion evaluation, and the visibility-of-type check.
package check

import (
	"github.com/vellum-lang/vellum/internal/bind"
	"github.com/vellum-lang/vellum/internal/diag"
	"github.com/vellum-lang/vellum/internal/filetree"
	"github.com/vellum-lang/vellum/internal/ident"
	"github.com/vellum-lang/vellum/internal/regx"
	"github.com/vellum-lang/vellum/internal/visib"
)

// EntryKind tags what a context entry represents.
type EntryKind int

const (
	EntryUninterpreted EntryKind = iota // the two universes, and function self-bindings mid-check
	EntryAlias                          // a `let`, or a function bound for recursive self-reference
	EntryADT                            // a `type` declaration
	EntryVariant                        // one ADT constructor
)

// Entry is one context slot (§3.6). Type is a normal form relative to a
// context of size equal to this entry's own level (§8's stated invariant);
// callers needing it at another site must upshift it themselves (Name
// inference does this by upshifting by index+1, §4.6.1).
type Entry struct {
	Kind EntryKind
	Name ident.Name
	Type regx.ExprId

	HasValue     bool
	Value        regx.ExprId // for EntryAlias: the let's value, or a function's body while checking it recursively
	Transparency visib.Visibility

	ADT        *regx.TypeItem // EntryADT: the declaration; EntryVariant: its enclosing declaration
	Variant    *regx.Variant  // EntryVariant only
	VariantIdx int            // EntryVariant only: this variant's position within ADT.Variants
	DeclVis    visib.Visibility
}

// Context is the single program-wide typing context (§3.6), built on the
// same registry every earlier pass wrote into.
type Context struct {
	Reg  *regx.Registry
	Tree *filetree.Tree

	entries           []Entry
	transparencyFloor visib.Visibility
	equalCache        map[equalKey]bool

	// Warnings accumulates every `check` assertion warning encountered
	// while type-checking (§4.6.5); never affects error status.
	Warnings []diag.Warning
}

// NewContext creates a Context seeded with the two builtin universes:
// level 0 is Type1 (no accessible type of its own, here), level 1 is Type0,
// whose local type is a reference to level 0.
func NewContext(reg *regx.Registry, tree *filetree.Tree) *Context {
	c := &Context{Reg: reg, Tree: tree, transparencyFloor: visib.Global()}
	c.entries = append(c.entries, Entry{Kind: EntryUninterpreted, Name: ident.New("Type1")})
	type0Type := reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Name: &bind.Name{Index: 0}})
	c.entries = append(c.entries, Entry{Kind: EntryUninterpreted, Name: ident.New("Type"), Type: type0Type})
	return c
}

// WithTransparencyFloor runs fn with the transparency floor temporarily
// tightened to v, restoring the previous floor afterward (§4.6.2).
func (c *Context) WithTransparencyFloor(v visib.Visibility, fn func()) {
	prev := c.transparencyFloor
	c.transparencyFloor = v
	defer func() { c.transparencyFloor = prev }()
	fn()
}

// Len is the current context size.
func (c *Context) Len() int { return len(c.entries) }

// Level of index I as seen from the current context.
func (c *Context) LevelOf(index int) int { return c.Len() - index - 1 }

// IndexOf converts a level recorded earlier into the index a reference at
// the current context size must use (§3.5).
func (c *Context) IndexOf(level int) int { return c.Len() - level - 1 }

// Entry returns the entry recorded at level.
func (c *Context) Entry(level int) Entry { return c.entries[level] }

// EntryAt returns the entry a reference with index carries.
func (c *Context) EntryAt(index int) Entry { return c.entries[c.LevelOf(index)] }

// Push permanently grows the context by one entry and returns its level.
func (c *Context) Push(e Entry) (level int) {
	level = len(c.entries)
	c.entries = append(c.entries, e)
	return level
}

// Mark is a saved context length, for untainting (§4.6, §5).
type Mark int

func (c *Context) Snapshot() Mark { return Mark(len(c.entries)) }

func (c *Context) Restore(m Mark) { c.entries = c.entries[:m] }

// TypeOf returns the normal-form type of a reference with the given index,
// upshifted out of its entry's own local frame into the current context
// (§4.6.1 Name rule: "upshift by index + 1").
func (c *Context) TypeOf(index int) regx.ExprId {
	e := c.EntryAt(index)
	return Upshift(c.Reg, e.Type, index+1)
}
