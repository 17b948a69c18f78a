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

package posit

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/vellum-lang/vellum/internal/bind"
	"github.com/vellum-lang/vellum/internal/diag"
	"github.com/vellum-lang/vellum/internal/ident"
	"github.com/vellum-lang/vellum/internal/regx"
)

func posIdx(i int) *bind.Name { return &bind.Name{Index: i} }

func call(reg *regx.Registry, calleeIdx int, argIdxs ...int) regx.ExprId {
	args := make([]regx.Arg, len(argIdxs))
	for i, a := range argIdxs {
		args[i] = regx.Arg{Value: reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Name: posIdx(a)})}
	}
	return reg.AllocExpr(regx.Expr{Kind: bind.ExprCall, Call: &regx.CallExpr{
		Callee: reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Name: posIdx(calleeIdx)}),
		Args:   regx.ArgList{Args: regx.NonEmptyFromSlice(args)},
	}})
}

// listType builds `type List(t) { .Nil: List(t)  .Cons(-hd: t, -tl: List(t)): List(t) }`
// to exercise the valid saturated-self-application permitted occurrence.
// Its indices place Cons's parameters directly after t; a real binder pass
// also puts Nil's own level in between, which raises every Cons index by
// one and leaves the outcome of the check the same.
func listType(reg *regx.Registry) *regx.TypeItem {
	return &regx.TypeItem{
		Name:   ident.New("List"),
		Params: regx.ParamList{Params: []regx.Param{{DisplayName: ident.New("t")}}},
		Variants: []regx.Variant{
			{
				Name:         ident.New("Nil"),
				ReturnType:   call(reg, 1, 0),
				SelfIndex:    1,
				ParamIndices: []int{0},
			},
			{
				Name: ident.New("Cons"),
				Params: regx.ParamList{Params: []regx.Param{
					{DisplayName: ident.New("hd"), Dashed: true, Type: reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Name: posIdx(0)})},
					{DisplayName: ident.New("tl"), Dashed: true, Type: call(reg, 2, 1)},
				}},
				ReturnType:   call(reg, 3, 2),
				SelfIndex:    3,
				ParamIndices: []int{2},
			},
		},
	}
}

func TestCheckAcceptsSaturatedSelfOccurrence(t *testing.T) {
	reg := regx.New()
	reg.Items = append(reg.Items, regx.Item{Kind: regx.ItemType, Type: listType(reg)})

	errs := Check(reg)
	qt.Assert(t, qt.Equals(len(errs), 0))
}

// negType builds `type Neg(t) { .Bad(-f: Forall(_: Neg(t)) ?): Neg(t) }`, where
// f's type uses Neg in the forall's own parameter type — a negative
// occurrence, which must be rejected regardless of what the forall's output
// does with it.
func negType(reg *regx.Registry) *regx.TypeItem {
	forallParamType := call(reg, 1, 0) // Neg(t), referring to self and t from f's binding position
	fType := reg.AllocExpr(regx.Expr{Kind: bind.ExprForall, Forall: &regx.ForallExpr{
		Params: regx.ParamList{Params: []regx.Param{{DisplayName: ident.New("_"), Type: forallParamType}}},
		Output: reg.AllocExpr(regx.Expr{Kind: bind.ExprPlaceholder}),
	}})
	return &regx.TypeItem{
		Name:   ident.New("Neg"),
		Params: regx.ParamList{Params: []regx.Param{{DisplayName: ident.New("t")}}},
		Variants: []regx.Variant{{
			Name: ident.New("Bad"),
			Params: regx.ParamList{Params: []regx.Param{
				{DisplayName: ident.New("f"), Dashed: true, Type: fType},
			}},
			ReturnType:   call(reg, 2, 1),
			SelfIndex:    2,
			ParamIndices: []int{1},
		}},
	}
}

func TestCheckRejectsNegativeOccurrenceInForallParam(t *testing.T) {
	reg := regx.New()
	reg.Items = append(reg.Items, regx.Item{Kind: regx.ItemType, Type: negType(reg)})

	errs := Check(reg)
	qt.Assert(t, qt.Equals(len(errs), 1))
	qt.Assert(t, qt.Equals(errs[0].Kind(), diag.IllegalVariableAppearance))
}

// badArityType builds a 2-param type whose variant return type is a bare
// name instead of a saturated call, which checkReturnType must reject
// independently of internal/retcheck.
func badArityType(reg *regx.Registry) *regx.TypeItem {
	bareSelf := reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Name: posIdx(2)})
	return &regx.TypeItem{
		Name:   ident.New("Pair"),
		Params: regx.ParamList{Params: []regx.Param{{DisplayName: ident.New("a")}, {DisplayName: ident.New("b")}}},
		Variants: []regx.Variant{{
			Name:       ident.New("Pair"),
			ReturnType: bareSelf,
			SelfIndex:  2,
		}},
	}
}

func TestCheckRejectsBareReturnTypeWhenTypeHasParams(t *testing.T) {
	reg := regx.New()
	ty := badArityType(reg)
	reg.Items = append(reg.Items, regx.Item{Kind: regx.ItemType, Type: ty})

	errs := Check(reg)
	qt.Assert(t, qt.Not(qt.Equals(len(errs), 0)))
	qt.Assert(t, qt.Equals(errs[0].Kind(), diag.VariantReturnTypeArgArityMismatch))
}
