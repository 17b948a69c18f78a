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

package check

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/vellum-lang/vellum/internal/bind"
	"github.com/vellum-lang/vellum/internal/filetree"
	"github.com/vellum-lang/vellum/internal/ident"
	"github.com/vellum-lang/vellum/internal/regx"
)

func name(index int) *bind.Name { return &bind.Name{Index: index} }

// buildIdentity allocates `fun(x: Type0) Type0 { x }` into reg, at the
// context state NewContext leaves (size 2: Type1, Type0), following the
// "param types see only earlier params, the return type and body see all
// of them" convention §4.6.1 relies on throughout.
func buildIdentity(reg *regx.Registry) regx.ExprId {
	type0AtParam := reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Name: name(0)})  // ctx size 2 -> Type0
	type0AtReturn := reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Name: name(1)}) // ctx size 3 -> Type0
	body := reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Name: name(0)})          // ctx size 3 -> x

	return reg.AllocExpr(regx.Expr{Kind: bind.ExprFun, Fun: &regx.FunExpr{
		Params: regx.ParamList{Params: []regx.Param{
			{DisplayName: ident.New("x"), Type: type0AtParam},
		}},
		ReturnType: type0AtReturn,
		Body:       body,
	}})
}

func TestInferIdentityFunctionType(t *testing.T) {
	reg := regx.New()
	fn := buildIdentity(reg)
	ctx := NewContext(reg, filetree.New())

	typeID, err := ctx.Infer(fn)
	qt.Assert(t, qt.IsNil(err))

	wantForall := reg.AllocExpr(regx.Expr{Kind: bind.ExprForall, Forall: &regx.ForallExpr{
		Params: regx.ParamList{Params: []regx.Param{
			{DisplayName: ident.New("x"), Type: reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Name: name(0)})},
		}},
		Output: reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Name: name(1)}),
	}})
	qt.Assert(t, qt.IsTrue(ctx.Equal(typeID, wantForall)))
}

func TestApplyIdentityFunctionReducesToArgument(t *testing.T) {
	reg := regx.New()
	fn := buildIdentity(reg)
	ctx := NewContext(reg, filetree.New())

	// Use Type0 itself (index 0, at this context size 2) as the argument.
	arg := reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Name: name(0)})
	call := reg.AllocExpr(regx.Expr{Kind: bind.ExprCall, Call: &regx.CallExpr{
		Callee: fn,
		Args:   regx.ArgList{Args: regx.One(regx.Arg{Value: arg})},
	}})

	result := ctx.Eval(call)
	qt.Assert(t, qt.IsTrue(ctx.Equal(result.ID, arg)))
}

func TestCheckRejectsTypeMismatch(t *testing.T) {
	reg := regx.New()
	ctx := NewContext(reg, filetree.New())

	type1Ref := reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Name: name(1)}) // ctx size 2 -> Type1
	type0Val := reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Name: name(0)}) // ctx size 2 -> Type0

	// Type0 : Type1 holds (Type0's own recorded type).
	qt.Assert(t, qt.IsNil(ctx.Check(type0Val, type1Ref)))

	// Type0 : Type0 does not.
	err := ctx.Check(type0Val, type0Val)
	qt.Assert(t, qt.IsNotNil(err))
}
