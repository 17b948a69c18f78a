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
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/vellum-lang/vellum/internal/filetree"
	"github.com/vellum-lang/vellum/internal/ident"
	"github.com/vellum-lang/vellum/internal/syntax"
)

func comp(s string) syntax.NameComponent { return syntax.NameComponent{Name: ident.New(s)} }

func dottedName(s string) syntax.DottedName { return syntax.DottedName{comp(s)} }

func nameExpr(s string) syntax.Expr {
	return syntax.Expr{Kind: syntax.ExprName, Name: dottedName(s)}
}

func dottedExpr(parts ...string) syntax.Expr {
	d := make(syntax.DottedName, len(parts))
	for i, p := range parts {
		d[i] = comp(p)
	}
	return syntax.Expr{Kind: syntax.ExprName, Name: d}
}

type panicLoader struct{}

func (panicLoader) LoadChild(filetree.FileID, ident.Name) (*syntax.File, error) {
	panic("no mod statements in this test's file")
}

// TestBuiltinTypeReferenceUsesReservedLevelOne binds `let t = Type` and
// checks the resolved index resolves level 1, the builtin Type's reserved
// level (check.NewContext seeds Type1 at level 0 and Type at level 1 before
// any real declaration, so the binder must start counting from level 2).
func TestBuiltinTypeReferenceUsesReservedLevelOne(t *testing.T) {
	file := &syntax.File{Items: []syntax.Item{
		{Kind: syntax.ItemLet, Let: &syntax.LetItem{Name: comp("t"), Value: nameExpr("Type")}},
	}}

	b := NewBinder(filetree.New(), panicLoader{})
	bound, errs := b.BindPackage(file)
	qt.Assert(t, qt.Equals(len(errs), 0))
	qt.Assert(t, qt.Equals(len(bound.Items), 1))

	let := bound.Items[0].Let
	qt.Assert(t, qt.Equals(let.Value.Kind, ExprName))
	// globalLen is 2 (reserved) at the point `t`'s value is bound, so
	// indexOf(1) = 2 - 1 - 1 = 0.
	qt.Assert(t, qt.Equals(let.Value.Name.Index, 0))
}

// TestFirstDeclarationLandsOnReservedLevelTwo checks that the first real
// type declaration is referenceable afterward with the index that a
// program-wide context of size 2 (the two builtins) plus one produces.
func TestFirstDeclarationLandsOnReservedLevelTwo(t *testing.T) {
	unitType := &syntax.TypeItem{
		Name:     comp("Unit"),
		Variants: []syntax.Variant{{Name: comp("Unit"), ReturnType: nameExpr("Unit")}},
	}
	idLet := &syntax.LetItem{
		Name: comp("id"),
		Value: syntax.Expr{Kind: syntax.ExprFun, Fun: &syntax.FunExpr{
			Params:     syntax.ParamList{Params: []syntax.Param{{Name: comp("x"), Type: nameExpr("Unit")}}},
			ReturnType: nameExpr("Unit"),
			Body:       nameExpr("x"),
		}},
	}
	file := &syntax.File{Items: []syntax.Item{
		{Kind: syntax.ItemType, Type: unitType},
		{Kind: syntax.ItemLet, Let: idLet},
	}}

	b := NewBinder(filetree.New(), panicLoader{})
	bound, errs := b.BindPackage(file)
	qt.Assert(t, qt.Equals(len(errs), 0))
	qt.Assert(t, qt.Equals(len(bound.Items), 2))

	unit := bound.Items[0].Type
	// Unit itself is pushed at level 2 (after the 2 reserved builtin
	// levels). Its sole variant is nullary, so no variant params grow
	// globalLen before its return type is bound: SelfIndex = indexOf(2)
	// computed at globalLen 3 = 3-2-1 = 0.
	qt.Assert(t, qt.Equals(unit.Variants[0].SelfIndex, 0))

	id := bound.Items[1].Let
	// id's own body (`x`) refers to its own parameter, the innermost
	// binding, so index 0.
	qt.Assert(t, qt.Equals(id.Value.Fun.Body.Name.Index, 0))
}

// TestUndeclaredNameFails checks that referencing an unbound name produces a
// diagnostic rather than a panic or a bogus index.
func TestUndeclaredNameFails(t *testing.T) {
	file := &syntax.File{Items: []syntax.Item{
		{Kind: syntax.ItemLet, Let: &syntax.LetItem{Name: comp("bad"), Value: nameExpr("Nope")}},
	}}

	b := NewBinder(filetree.New(), panicLoader{})
	_, errs := b.BindPackage(file)
	qt.Assert(t, qt.Not(qt.Equals(len(errs), 0)))
}

// TestDottedVariantAccessResolvesAfterTypeDeclaration builds
// `type Nat { .O: Nat  .S(n: Nat): Nat }` followed by `let z = Nat.O;` and
// `let w = Nat.S;`, checking that a later reference to a variant via the
// type's own dotted path (rather than from within the type's own variant
// loop) resolves to that variant's permanently assigned level, not some
// stale or reused one.
func TestDottedVariantAccessResolvesAfterTypeDeclaration(t *testing.T) {
	natType := &syntax.TypeItem{
		Name: comp("Nat"),
		Variants: []syntax.Variant{
			{Name: comp("O"), ReturnType: nameExpr("Nat")},
			{
				Name:       comp("S"),
				Params:     syntax.ParamList{Params: []syntax.Param{{Name: comp("n"), Type: nameExpr("Nat")}}},
				ReturnType: nameExpr("Nat"),
			},
		},
	}
	file := &syntax.File{Items: []syntax.Item{
		{Kind: syntax.ItemType, Type: natType},
		{Kind: syntax.ItemLet, Let: &syntax.LetItem{Name: comp("z"), Value: dottedExpr("Nat", "O")}},
		{Kind: syntax.ItemLet, Let: &syntax.LetItem{Name: comp("w"), Value: dottedExpr("Nat", "S")}},
	}}

	b := NewBinder(filetree.New(), panicLoader{})
	bound, errs := b.BindPackage(file)
	qt.Assert(t, qt.Equals(len(errs), 0))
	qt.Assert(t, qt.Equals(len(bound.Items), 3))

	// Nat is pushed at level 2 (after the 2 reserved builtin levels), O at
	// level 3, S at level 4; when z is bound, globalLen is 5 (Nat + O + S,
	// all permanent), so Nat.O is indexOf(3) = 5-3-1 = 1. z itself is then
	// pushed at level 5, so when w is bound globalLen is 6 and Nat.S is
	// indexOf(4) = 6-4-1 = 1.
	z := bound.Items[1].Let
	qt.Assert(t, qt.Equals(z.Value.Kind, ExprName))
	qt.Assert(t, qt.Equals(z.Value.Name.Index, 1))

	w := bound.Items[2].Let
	qt.Assert(t, qt.Equals(w.Value.Kind, ExprName))
	qt.Assert(t, qt.Equals(w.Value.Name.Index, 1))
}

// TestLaterDeclarationCanReferenceEarlierOne checks that a second let can
// reference the first by name and resolves to index 0 (the innermost
// binding at that point).
func TestLaterDeclarationCanReferenceEarlierOne(t *testing.T) {
	file := &syntax.File{Items: []syntax.Item{
		{Kind: syntax.ItemLet, Let: &syntax.LetItem{Name: comp("a"), Value: nameExpr("Type")}},
		{Kind: syntax.ItemLet, Let: &syntax.LetItem{Name: comp("b"), Value: nameExpr("a")}},
	}}

	b := NewBinder(filetree.New(), panicLoader{})
	bound, errs := b.BindPackage(file)
	qt.Assert(t, qt.Equals(len(errs), 0))
	qt.Assert(t, qt.Equals(bound.Items[1].Let.Value.Name.Index, 0))
}
