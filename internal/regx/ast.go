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

package regx

import (
	"github.com/vellum-lang/vellum/internal/bind"
	"github.com/vellum-lang/vellum/internal/ident"
	"github.com/vellum-lang/vellum/internal/syntax/token"
	"github.com/vellum-lang/vellum/internal/visib"
)

// ExprId addresses one interned expression.
type ExprId = NodeId[Expr]

// Expr is the interned form of bind.Expr: children are handles into the
// same arena instead of embedded values, so evaluation/substitution can
// allocate a handful of fresh nodes without copying whole subtrees, and so
// two occurrences of "the same" subterm can be told apart by handle even
// when structurally identical (needed by the equality cache, §4.6.3).
type Expr struct {
	Kind   bind.ExprKind
	Pos    token.Pos
	Name   *bind.Name
	Call   *CallExpr
	Fun    *FunExpr
	Match  *MatchExpr
	Forall *ForallExpr
	Check  *CheckExpr
}

type CallExpr struct {
	Callee ExprId
	Args   ArgList
}

type Param struct {
	Label       *ident.Name
	DisplayName ident.Name
	Dashed      bool
	Type        ExprId
	Pos         token.Pos
}

type ParamList struct {
	Labeled bool
	Params  []Param
}

type Arg struct {
	Label *ident.Name
	Value ExprId
	Pos   token.Pos
}

// ArgList's Args is non-empty per §3.7.
type ArgList struct {
	Labeled bool
	Args    NonEmpty[Arg]
}

type FunExpr struct {
	IsRecursive bool
	SelfName    ident.Name
	Params      ParamList
	ReturnType  ExprId
	Body        ExprId
}

type MatchCase struct {
	VariantName ident.Name
	Labeled     bool
	Params      []bind.CaseParam
	TripleDot   bool
	OutputKind  bind.MatchCaseOutputKind
	Output      ExprId
	Pos         token.Pos
}

type MatchExpr struct {
	Matchee ExprId
	Cases   []MatchCase
}

type ForallExpr struct {
	Params ParamList
	Output ExprId
}

type Assertion struct {
	Kind  bind.AssertionKind
	Left  ExprId
	Right ExprId
	Pos   token.Pos
}

type CheckExpr struct {
	Assertions []Assertion
	Output     ExprId
}

// Variant is one interned ADT constructor.
type Variant struct {
	Name         ident.Name
	Params       ParamList
	ReturnType   ExprId
	SelfIndex    int
	ParamIndices []int
	Pos          token.Pos
}

// TypeItem is an interned ADT declaration.
type TypeItem struct {
	Name     ident.Name
	Vis      visib.Visibility
	Params   ParamList
	Variants []Variant
	Pos      token.Pos
}

// LetItem is an interned let-binding.
type LetItem struct {
	Name         ident.Name
	Vis          visib.Visibility
	Transparency visib.Visibility
	Value        ExprId
	Pos          token.Pos
}

// ItemKind tags a top-level item.
type ItemKind int

const (
	ItemType ItemKind = iota
	ItemLet
)

// Item is one interned top-level declaration.
type Item struct {
	Kind ItemKind
	Type *TypeItem
	Let  *LetItem
}

// Registry is the node registry for one compilation (§4.2): an Expr arena
// plus the program's top-level items, in source/context order (the same
// order the binder pushed their context entries, §2).
type Registry struct {
	exprs arena[Expr]
	Items []Item
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{}
}

// AllocExpr interns e and returns its handle.
func (r *Registry) AllocExpr(e Expr) ExprId { return r.exprs.Alloc(e) }

// ReserveExpr allocates a slot to be Patch-ed later.
func (r *Registry) ReserveExpr() ExprId { return r.exprs.Reserve() }

// PatchExpr back-fills a reserved slot.
func (r *Registry) PatchExpr(id ExprId, e Expr) { r.exprs.Patch(id, e) }

// Expr dereferences an expression handle.
func (r *Registry) Expr(id ExprId) Expr { return r.exprs.Get(id) }

// NumExprs reports how many expressions have been interned so far.
func (r *Registry) NumExprs() int { return r.exprs.Len() }
