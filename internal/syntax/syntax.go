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

// Package syntax declares the shape of a parsed, desugared file as the
// external parsing collaborator hands it to the core (§6): trailing commas
// already elided, optional label clauses already normalized to explicit
// labels. No identifier is resolved yet; that is the binder's job
// (internal/bind).
//
// Node kinds are closed enums dispatched by exhaustive switch, not open
// interfaces, per the system's "avoid open polymorphism" design note: the
// set of expression/item/list shapes is fixed by the language, so a type
// switch over an interface would let a forgotten case compile silently
// where a switch over a Kind does not.
package syntax

import (
	"github.com/vellum-lang/vellum/internal/ident"
	"github.com/vellum-lang/vellum/internal/syntax/token"
)

// NameComponent is one dot-separated piece of a dotted identifier, still
// holding its source text/reserved tag (ident.Name) and its position.
type NameComponent struct {
	Name ident.Name
	Pos  token.Pos
}

// DottedName is a non-empty, left-to-right list of NameComponents, e.g.
// `foo.Bar.baz`. The binder resolves Components[0] first, then walks the
// dot graph for the rest (§4.1 rule 1).
type DottedName []NameComponent

func (d DottedName) Pos() token.Pos { return d[0].Pos }

// VisibilityKind tags a raw, unresolved visibility annotation as written
// in source.
type VisibilityKind int

const (
	// VisDefault means no annotation was written; it defaults to the
	// containing module's own scope (§4.1: "declared visibility
	// (default = the current module's scope)").
	VisDefault VisibilityKind = iota
	VisGlobal
	VisPath // rooted at the file reached by walking Path from the current module
)

// VisibilityMod is the raw syntax of a visibility or transparency
// annotation, e.g. `(mod)`, `(pack)`, `(super2)`, or a dotted path.
type VisibilityMod struct {
	Kind VisibilityKind
	Path DottedName // meaningful only when Kind == VisPath
	Pos  token.Pos
}

// ItemKind tags a top-level file item (§4.1 Input: "use, mod, type, let").
type ItemKind int

const (
	ItemUse ItemKind = iota
	ItemMod
	ItemType
	ItemLet
)

// Item is one top-level declaration, in source order.
type Item struct {
	Kind ItemKind
	Use  *UseItem
	Mod  *ModItem
	Type *TypeItem
	Let  *LetItem
}

func (it Item) Pos() token.Pos {
	switch it.Kind {
	case ItemUse:
		return it.Use.Pos
	case ItemMod:
		return it.Mod.Pos
	case ItemType:
		return it.Type.Pos
	case ItemLet:
		return it.Let.Pos
	}
	return token.NoPos
}

// UseItem imports one name, or every visible child of a path (wildcard),
// under an optional declared visibility (§4.1 rule 3).
type UseItem struct {
	Vis      VisibilityMod
	Path     DottedName // anchor (mod/super*/pack/identifier) plus dotted components
	Wildcard bool
	Alias    *NameComponent // only meaningful when !Wildcard; nil means Path's last component
	Pos      token.Pos
}

// ModItem declares a child module (§4.1 rule 4).
type ModItem struct {
	Vis  VisibilityMod
	Name NameComponent
	Pos  token.Pos
}

// TypeItem declares an ADT and its variants (§4.1 rule 5, §3.6 "ADT").
type TypeItem struct {
	Vis      VisibilityMod
	Name     NameComponent
	Params   ParamList
	Variants []Variant // nil means a type declared with no variants (an "extern"/opaque ADT placeholder)
	Pos      token.Pos
}

// Variant is one constructor of a TypeItem.
type Variant struct {
	Name       NameComponent // unqualified, e.g. "O", "S"
	Params     ParamList
	ReturnType Expr
	Pos        token.Pos
}

// LetItem binds a name to a value (§4.1 rule 6).
type LetItem struct {
	Vis          VisibilityMod
	Transparency *VisibilityMod // nil means "default to Vis" (§3.9, the kanc-dialect default per SPEC_FULL open question)
	Name         NameComponent
	Value        Expr
	Pos          token.Pos
}

// ParamList is a parameter list for a variant, a `fun`, or a `forall`.
// Labeledness is uniform across the whole list (§3.7).
type ParamList struct {
	Labeled bool
	Params  []Param
}

// Param is one parameter. Label is non-nil iff the enclosing ParamList is
// labeled (already normalized by the parser to an explicit label, even when
// the source used the implicit shorthand, per §6).
type Param struct {
	Label  *NameComponent
	Name   NameComponent
	Dashed bool // at most one per ParamList (§3.7); enforced by the parser/binder
	Type   Expr
	Pos    token.Pos
}

// ArgList is a call's argument list. Labeledness is uniform (§3.7).
type ArgList struct {
	Labeled bool
	Args    []Arg // non-empty (§3.7: "call (callee + non-empty arg list)")
}

// Arg is one call argument.
type Arg struct {
	Label *NameComponent
	Value Expr
	Pos   token.Pos
}

// ExprKind tags an expression shape (§3.7).
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

// Expr is a closed-enum expression node.
type Expr struct {
	Kind        ExprKind
	Pos         token.Pos
	Name        DottedName  // ExprName
	Call        *CallExpr   // ExprCall
	Fun         *FunExpr    // ExprFun
	Match       *MatchExpr  // ExprMatch
	Forall      *ForallExpr // ExprForall
	Check       *CheckExpr  // ExprCheck
}

// CallExpr is a call of a callee against a non-empty argument list.
type CallExpr struct {
	Callee Expr
	Args   ArgList
}

// FunExpr is a (possibly recursive) function literal (§3.7).
type FunExpr struct {
	SelfName   *NameComponent // nil for an anonymous (non-recursive) fun
	Params     ParamList
	ReturnType Expr
	Body       Expr
}

// MatchCaseOutputKind tags whether a case's output is a value or an
// impossibility claim (§3.8).
type MatchCaseOutputKind int

const (
	OutputExpr MatchCaseOutputKind = iota
	OutputImpossible
)

// MatchCase is one arm of a `match` (§3.8).
type MatchCase struct {
	VariantName  NameComponent
	Params       ParamList // empty Params with TripleDot means "no params were written"
	TripleDot    bool
	OutputKind   MatchCaseOutputKind
	Output       Expr // meaningful iff OutputKind == OutputExpr
	Pos          token.Pos
}

// MatchExpr pattern-matches a matchee against one case per ADT variant.
type MatchExpr struct {
	Matchee Expr
	Cases   []MatchCase
}

// ForallExpr is a dependent function type `forall(params) { output }`.
type ForallExpr struct {
	Params ParamList
	Output Expr
}

// CheckExpr is a diagnostic-only `check` wrapper (§3.7, §4.6.5).
type CheckExpr struct {
	Assertions []Assertion
	Output     Expr // the expression whose type/value is otherwise checked
}

// AssertionKind distinguishes the two check-assertion forms (§3.7, §4.6.5).
type AssertionKind int

const (
	AssertType       AssertionKind = iota // `e : T`
	AssertNormalForm                      // `e = E`
)

// Assertion is one `check` clause.
type Assertion struct {
	Kind  AssertionKind
	Left  Expr
	Right Expr // the type T, or the expected normal form E
	Pos   token.Pos
}

// File is one source file's items, in source order (§4.1 Input).
type File struct {
	Items []Item
}
