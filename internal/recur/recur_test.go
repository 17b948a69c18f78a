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

package recur

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/vellum-lang/vellum/internal/bind"
	"github.com/vellum-lang/vellum/internal/diag"
	"github.com/vellum-lang/vellum/internal/ident"
	"github.com/vellum-lang/vellum/internal/regx"
)

func nameIdx(i int) *bind.Name { return &bind.Name{Index: i} }

// recFun builds `fun rec(-n: Nat) Nat { match n { Succ(m) => rec(argIdx) } }`,
// letting the caller vary the recursive call's argument to flip between a
// genuinely decreasing call and one that isn't.
func recFun(reg *regx.Registry, argIdx int) *regx.LetItem {
	matchee := reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Name: nameIdx(0)})
	callArg := reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Name: nameIdx(argIdx)})
	call := reg.AllocExpr(regx.Expr{Kind: bind.ExprCall, Call: &regx.CallExpr{
		Callee: reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Name: nameIdx(2)}),
		Args:   regx.ArgList{Args: regx.One(regx.Arg{Value: callArg})},
	}})
	body := reg.AllocExpr(regx.Expr{Kind: bind.ExprMatch, Match: &regx.MatchExpr{
		Matchee: matchee,
		Cases: []regx.MatchCase{{
			VariantName: ident.New("Succ"),
			Params:      []bind.CaseParam{{DisplayName: ident.New("m")}},
			OutputKind:  bind.OutputExpr,
			Output:      call,
		}},
	}})
	fe := &regx.FunExpr{
		IsRecursive: true,
		SelfName:    ident.New("rec"),
		Params:      regx.ParamList{Params: []regx.Param{{DisplayName: ident.New("n"), Dashed: true}}},
		ReturnType:  reg.AllocExpr(regx.Expr{Kind: bind.ExprName}),
		Body:        body,
	}
	return &regx.LetItem{Name: ident.New("rec"), Value: reg.AllocExpr(regx.Expr{Kind: bind.ExprFun, Fun: fe})}
}

func TestCheckAcceptsCallOnMatchedSmallerArg(t *testing.T) {
	reg := regx.New()
	reg.Items = append(reg.Items, regx.Item{Kind: regx.ItemLet, Let: recFun(reg, 0)}) // m, the pattern-bound smaller name

	errs := Check(reg)
	qt.Assert(t, qt.Equals(len(errs), 0))
}

func TestCheckRejectsCallOnNonSmallerArg(t *testing.T) {
	reg := regx.New()
	reg.Items = append(reg.Items, regx.Item{Kind: regx.ItemLet, Let: recFun(reg, 1)}) // the original n, not m

	errs := Check(reg)
	qt.Assert(t, qt.Not(qt.Equals(len(errs), 0)))
	qt.Assert(t, qt.Equals(errs[0].Kind(), diag.NonSubstructPassedToDecreasingParam))
}

func TestCheckRejectsRecursiveCallWithNoDecreasingParam(t *testing.T) {
	reg := regx.New()
	call := reg.AllocExpr(regx.Expr{Kind: bind.ExprCall, Call: &regx.CallExpr{
		Callee: reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Name: nameIdx(0)}),
	}})
	fe := &regx.FunExpr{
		IsRecursive: true,
		SelfName:    ident.New("loop"),
		ReturnType:  reg.AllocExpr(regx.Expr{Kind: bind.ExprName}),
		Body:        call,
	}
	reg.Items = append(reg.Items, regx.Item{Kind: regx.ItemLet, Let: &regx.LetItem{
		Name: ident.New("loop"), Value: reg.AllocExpr(regx.Expr{Kind: bind.ExprFun, Fun: fe}),
	}})

	errs := Check(reg)
	qt.Assert(t, qt.Not(qt.Equals(len(errs), 0)))
	qt.Assert(t, qt.Equals(errs[0].Kind(), diag.RecursivelyCalledFunctionWithoutDecreasingParam))
}

func TestCheckAllowsNonRecursiveFunctions(t *testing.T) {
	reg := regx.New()
	fe := &regx.FunExpr{
		Params:     regx.ParamList{Params: []regx.Param{{DisplayName: ident.New("x")}}},
		ReturnType: reg.AllocExpr(regx.Expr{Kind: bind.ExprName}),
		Body:       reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Name: nameIdx(0)}),
	}
	reg.Items = append(reg.Items, regx.Item{Kind: regx.ItemLet, Let: &regx.LetItem{
		Name: ident.New("id"), Value: reg.AllocExpr(regx.Expr{Kind: bind.ExprFun, Fun: fe}),
	}})

	errs := Check(reg)
	qt.Assert(t, qt.Equals(len(errs), 0))
}
