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

// Package posit implements the positivity validator (§4.5): every ADT
// variant parameter type must use the enclosing type strictly positively —
// not at all, or as the head of a saturated self-application, or (strictly
// positively, recursively) inside a forall's output with the enclosing type
// absent from its parameter types. It also re-checks, independently of
// internal/retcheck, that every variant return type is a name-headed,
// fully-saturated call once the enclosing type's arity is known.
package posit

import (
	"github.com/vellum-lang/vellum/internal/bind"
	"github.com/vellum-lang/vellum/internal/diag"
	"github.com/vellum-lang/vellum/internal/regx"
)

// tctx is the enclosing type's identity as seen from the current position in
// the tree being walked: the De Bruijn index a reference to the type itself
// would carry here, and the indices its own parameters would carry, both
// shifting together as the walk descends through further locals.
type tctx struct {
	params regx.ParamList
	idx    int
	pIdx   []int
}

func (c tctx) shift(n int) tctx {
	out := tctx{params: c.params, idx: c.idx + n}
	if len(c.pIdx) > 0 {
		out.pIdx = make([]int, len(c.pIdx))
		for i, p := range c.pIdx {
			out.pIdx[i] = p + n
		}
	}
	return out
}

// Check validates every ADT's variant parameter types and return types in reg.
func Check(reg *regx.Registry) diag.List {
	var errs diag.List
	for _, item := range reg.Items {
		if item.Kind != regx.ItemType {
			continue
		}
		t := item.Type
		for _, v := range t.Variants {
			errs = checkReturnType(reg, t, v, errs)
			errs = checkVariantParams(reg, t, v, errs)
		}
	}
	return errs
}

// checkReturnType re-validates return-type shape (§4.5's closing note),
// independently of internal/retcheck's own pass.
func checkReturnType(reg *regx.Registry, t *regx.TypeItem, v regx.Variant, errs diag.List) diag.List {
	nParams := len(t.Params.Params)
	ret := reg.Expr(v.ReturnType)

	if ret.Kind == bind.ExprName {
		if nParams != 0 {
			return diag.Append(errs, diag.Newf(diag.VariantReturnTypeArgArityMismatch, ret.Pos, nil,
				"variant %s: return type applies %s to 0 arguments, want %d", v.Name, t.Name, nParams))
		}
		return errs
	}
	if ret.Kind != bind.ExprCall {
		return diag.Append(errs, diag.Newf(diag.NonADTCalleeInReturnType, ret.Pos, nil,
			"variant %s: return type is not a call to %s", v.Name, t.Name))
	}
	callee := reg.Expr(ret.Call.Callee)
	if callee.Kind == bind.ExprFun {
		return diag.Append(errs, diag.Newf(diag.ExpectedTypeGotFun, callee.Pos, nil,
			"variant %s: return type's callee is a function literal, not a type", v.Name))
	}
	if callee.Kind != bind.ExprName || callee.Name.Index != v.SelfIndex {
		return diag.Append(errs, diag.Newf(diag.NonADTCalleeInReturnType, ret.Pos, nil,
			"variant %s: return type's callee does not refer to %s", v.Name, t.Name))
	}
	args := ret.Call.Args.Args.Slice()
	if len(args) != nParams {
		return diag.Append(errs, diag.Newf(diag.VariantReturnTypeArgArityMismatch, ret.Pos, nil,
			"variant %s: return type applies %s to %d arguments, want %d", v.Name, t.Name, len(args), nParams))
	}
	for _, a := range args {
		if reg.Expr(a.Value).Kind == bind.ExprFun {
			errs = diag.Append(errs, diag.Newf(diag.ExpectedTypeGotFun, a.Pos, nil,
				"variant %s: return type argument is a function literal, not a type", v.Name))
		}
	}
	return errs
}

// checkVariantParams walks each of v's own parameter types, checking strict
// positivity of t's own name in each.
func checkVariantParams(reg *regx.Registry, t *regx.TypeItem, v regx.Variant, errs diag.List) diag.List {
	m := len(v.Params.Params)
	for j, p := range v.Params.Params {
		// posAfter=j: this parameter's type is bound with only the
		// preceding j parameters of this variant already in scope (§4.1
		// rule 5's bindParamList binds a param's type before pushing it).
		ctx := tctx{params: t.Params, idx: v.SelfIndex - (m - j), pIdx: shiftIndices(v.ParamIndices, -(m - j))}
		errs = checkPositive(reg, p.Type, ctx, errs)
	}
	return errs
}

func shiftIndices(idx []int, n int) []int {
	if len(idx) == 0 {
		return nil
	}
	out := make([]int, len(idx))
	for i, v := range idx {
		out[i] = v + n
	}
	return out
}

// checkPositive enforces the top-level disjunction of §4.5 on one parameter
// type (or, recursively, a forall/check body nested within one).
func checkPositive(reg *regx.Registry, id regx.ExprId, ctx tctx, errs diag.List) diag.List {
	e := reg.Expr(id)
	if isPermittedOccurrence(reg, e, ctx) {
		return errs
	}
	switch e.Kind {
	case bind.ExprForall:
		for _, p := range e.Forall.Params.Params {
			errs = occursForbidden(reg, p.Type, ctx, errs)
		}
		inner := ctx.shift(len(e.Forall.Params.Params))
		return checkPositive(reg, e.Forall.Output, inner, errs)

	case bind.ExprCheck:
		for _, a := range e.Check.Assertions {
			errs = occursForbidden(reg, a.Left, ctx, errs)
			errs = occursForbidden(reg, a.Right, ctx, errs)
		}
		return checkPositive(reg, e.Check.Output, ctx, errs)
	}
	return occursForbidden(reg, id, ctx, errs)
}

// isPermittedOccurrence reports whether e is exactly a bare reference to the
// enclosing type (only valid when it takes no parameters) or a saturated
// call applying it to its own parameters, positionally or fully labeled —
// the one shape in which the enclosing type's own name may appear at all.
func isPermittedOccurrence(reg *regx.Registry, e regx.Expr, ctx tctx) bool {
	if e.Kind == bind.ExprName {
		return e.Name.Index == ctx.idx && len(ctx.pIdx) == 0
	}
	if e.Kind != bind.ExprCall {
		return false
	}
	callee := reg.Expr(e.Call.Callee)
	if callee.Kind != bind.ExprName || callee.Name.Index != ctx.idx {
		return false
	}
	args := e.Call.Args.Args.Slice()
	if len(args) != len(ctx.pIdx) {
		return false
	}
	if e.Call.Args.Labeled != ctx.params.Labeled {
		return false
	}
	if !ctx.params.Labeled {
		for j, a := range args {
			ae := reg.Expr(a.Value)
			if ae.Kind != bind.ExprName || ae.Name.Index != ctx.pIdx[j] {
				return false
			}
		}
		return true
	}
	seen := make([]bool, len(ctx.pIdx))
	for _, a := range args {
		if a.Label == nil {
			return false
		}
		idx := -1
		for j, p := range ctx.params.Params {
			if p.Label != nil && *p.Label == *a.Label {
				idx = j
				break
			}
		}
		if idx == -1 || seen[idx] {
			return false
		}
		seen[idx] = true
		ae := reg.Expr(a.Value)
		if ae.Kind != bind.ExprName || ae.Name.Index != ctx.pIdx[idx] {
			return false
		}
	}
	for _, ok := range seen {
		if !ok {
			return false
		}
	}
	return true
}

// occursForbidden reports every occurrence of the enclosing type anywhere in
// id — used both for a forall's parameter types (never allowed to mention
// it) and for any expression shape not covered by the permitted forms above
// (match, fun, or a call headed by something other than the type itself).
func occursForbidden(reg *regx.Registry, id regx.ExprId, ctx tctx, errs diag.List) diag.List {
	e := reg.Expr(id)
	switch e.Kind {
	case bind.ExprName:
		if e.Name.Index == ctx.idx {
			errs = diag.Append(errs, diag.Newf(diag.IllegalVariableAppearance, e.Pos, nil,
				"illegal variable appearance"))
		}
		return errs

	case bind.ExprPlaceholder:
		return errs

	case bind.ExprCall:
		errs = occursForbidden(reg, e.Call.Callee, ctx, errs)
		for _, a := range e.Call.Args.Args.Slice() {
			errs = occursForbidden(reg, a.Value, ctx, errs)
		}
		return errs

	case bind.ExprFun:
		selfPush := 0
		if e.Fun.IsRecursive {
			selfPush = 1
		}
		for j, p := range e.Fun.Params.Params {
			errs = occursForbidden(reg, p.Type, ctx.shift(selfPush+j), errs)
		}
		inner := ctx.shift(selfPush + len(e.Fun.Params.Params))
		errs = occursForbidden(reg, e.Fun.ReturnType, inner, errs)
		return occursForbidden(reg, e.Fun.Body, inner, errs)

	case bind.ExprMatch:
		errs = occursForbidden(reg, e.Match.Matchee, ctx, errs)
		for _, c := range e.Match.Cases {
			if c.OutputKind != bind.OutputExpr {
				continue
			}
			errs = occursForbidden(reg, c.Output, ctx.shift(len(c.Params)), errs)
		}
		return errs

	case bind.ExprForall:
		for j, p := range e.Forall.Params.Params {
			errs = occursForbidden(reg, p.Type, ctx.shift(j), errs)
		}
		return occursForbidden(reg, e.Forall.Output, ctx.shift(len(e.Forall.Params.Params)), errs)

	case bind.ExprCheck:
		for _, a := range e.Check.Assertions {
			errs = occursForbidden(reg, a.Left, ctx, errs)
			errs = occursForbidden(reg, a.Right, ctx, errs)
		}
		return occursForbidden(reg, e.Check.Output, ctx, errs)
	}
	return errs
}
