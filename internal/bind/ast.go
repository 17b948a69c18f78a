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

package bind

import (
	"github.com/vellum-lang/vellum/internal/ident"
	"github.com/vellum-lang/vellum/internal/syntax/token"
	"github.com/vellum-lang/vellum/internal/visib"
)

// Name is a resolved identifier reference: a De Bruijn index, plus the
// original dotted spelling, kept only for diagnostics (§3.5).
type Name struct {
	Index  int
	Dotted []ident.Name
	Pos    token.Pos
}

// ExprKind mirrors syntax.ExprKind; kept as its own enum so the bound tree
// does not import the unresolved syntax shapes it replaces name-by-name.
type ExprKind int

const (
	ExprName ExprKind = iota
	ExprPlaceholder
	ExprCall
	ExprFun
	ExprMatch
	ExprForall
	ExprCheck
)

// Expr is the bound form of syntax.Expr: every identifier is now a Name
// carrying a resolved index.
type Expr struct {
	Kind   ExprKind
	Pos    token.Pos
	Name   *Name
	Call   *CallExpr
	Fun    *FunExpr
	Match  *MatchExpr
	Forall *ForallExpr
	Check  *CheckExpr
}

type CallExpr struct {
	Callee Expr
	Args   ArgList
}

type Param struct {
	// Label is the parameter's label name for a labeled list (explicit or
	// the parser-normalized implicit spelling); nil when the enclosing
	// ParamList is unlabeled. DisplayName is kept only so pretty-printers
	// and diagnostics can name a parameter; resolution never uses it.
	Label       *ident.Name
	DisplayName ident.Name
	Dashed      bool
	Type        Expr
	Pos         token.Pos
}

type ParamList struct {
	Labeled bool
	Params  []Param
}

type Arg struct {
	Label *ident.Name
	Value Expr
	Pos   token.Pos
}

type ArgList struct {
	Labeled bool
	Args    []Arg
}

// FunExpr is a (possibly recursive) function literal. IsRecursive is true
// iff the source gave it a self-name; only then may it be referenced by
// that name inside its own body (§4.4).
type FunExpr struct {
	IsRecursive bool
	SelfName    ident.Name
	Params      ParamList
	ReturnType  Expr
	Body        Expr
}

type MatchCaseOutputKind int

const (
	OutputExpr MatchCaseOutputKind = iota
	OutputImpossible
)

// CaseParam is one pattern-bound name in a match case. Unlike Param, it
// carries no type annotation: a case's bound names are typed later by the
// checker, from the matched variant's own parameter types (§4.6.1), not from
// anything the source writes.
type CaseParam struct {
	Label       *ident.Name
	DisplayName ident.Name
	Pos         token.Pos
}

type MatchCase struct {
	VariantName ident.Name
	Labeled     bool
	Params      []CaseParam
	TripleDot   bool
	OutputKind  MatchCaseOutputKind
	Output      Expr
	Pos         token.Pos
}

type MatchExpr struct {
	Matchee Expr
	Cases   []MatchCase
}

type ForallExpr struct {
	Params ParamList
	Output Expr
}

type AssertionKind int

const (
	AssertType AssertionKind = iota
	AssertNormalForm
)

type Assertion struct {
	Kind  AssertionKind
	Left  Expr
	Right Expr
	Pos   token.Pos
}

type CheckExpr struct {
	Assertions []Assertion
	Output     Expr
}

// Variant is one bound ADT constructor. SelfIndex and ParamIndices record,
// at bind time, the De Bruijn index a reference to the enclosing type (and
// to each of its own parameters, in order) would have from within this
// variant's return-type expression — exactly the indices an
// occurrence-correct reference must carry (§4.3) — so the variant
// return-type validator can check shape without re-deriving scope
// arithmetic.
type Variant struct {
	Name         ident.Name
	Params       ParamList
	ReturnType   Expr
	SelfIndex    int
	ParamIndices []int
	Pos          token.Pos
}

// TypeItem is a bound ADT declaration.
type TypeItem struct {
	Name     ident.Name
	Vis      visib.Visibility
	Params   ParamList
	Variants []Variant
	Pos      token.Pos
}

// LetItem is a bound let-binding.
type LetItem struct {
	Name         ident.Name
	Vis          visib.Visibility
	Transparency visib.Visibility
	Value        Expr
	Pos          token.Pos
}

// ItemKind tags a bound top-level item.
type ItemKind int

const (
	ItemType ItemKind = iota
	ItemLet
)

// Item is one bound top-level declaration. `use` and `mod` items are fully
// consumed into the dot graph and file tree during binding (§4.1 rules 3-4)
// and do not themselves carry further semantic content downstream, so only
// Type and Let items survive into the bound File (§4.1 Output: "the same
// items ... resolved" — for use/mod that resolution *is* the dot-graph
// edges they produce).
type Item struct {
	Kind ItemKind
	Type *TypeItem
	Let  *LetItem
}

// File is a fully bound file: its type/let items, in source order.
type File struct {
	Items []Item
}
