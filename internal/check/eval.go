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
	"github.com/vellum-lang/vellum/internal/bind"
	"github.com/vellum-lang/vellum/internal/ident"
	"github.com/vellum-lang/vellum/internal/regx"
	"github.com/vellum-lang/vellum/internal/visib"
)

// Norm marks id as already evaluated to normal form relative to c's current
// context, so later operations can thread it around without re-normalizing.
type Norm struct{ ID regx.ExprId }

// Eval reduces id to normal form by small-step β/δ/ι reduction (§4.6.2).
func (c *Context) Eval(id regx.ExprId) Norm {
	return Norm{ID: c.eval(id)}
}

func (c *Context) eval(id regx.ExprId) regx.ExprId {
	e := c.Reg.Expr(id)
	switch e.Kind {
	case bind.ExprName:
		entry := c.EntryAt(e.Name.Index)
		if entry.Kind == EntryAlias && entry.HasValue && visib.AtLeastAsPermissiveAs(c.Tree, c.transparencyFloor, entry.Transparency) {
			return c.eval(Upshift(c.Reg, entry.Value, e.Name.Index+1))
		}
		return id

	case bind.ExprCall:
		callee := c.eval(e.Call.Callee)
		calleeExpr := c.Reg.Expr(callee)
		if calleeExpr.Kind != bind.ExprFun {
			return c.rebuildCall(id, e, callee)
		}
		fe := calleeExpr.Fun
		args := e.Call.Args.Args
		if fe.IsRecursive {
			if idx, ok := dashedParamIndex(fe.Params); ok && idx < args.Len() {
				argVal := c.eval(args.At(idx).Value)
				if !c.isVariantHeaded(argVal) {
					return c.rebuildCall(id, e, callee)
				}
			}
		}
		return c.eval(c.applyFun(fe, args))

	case bind.ExprMatch:
		matchee := c.eval(e.Match.Matchee)
		variantName, matchArgs, ok := c.headVariant(matchee)
		if !ok {
			if matchee == e.Match.Matchee {
				return id
			}
			me := &regx.MatchExpr{Matchee: matchee, Cases: e.Match.Cases}
			return c.Reg.AllocExpr(regx.Expr{Kind: bind.ExprMatch, Pos: e.Pos, Match: me})
		}
		for _, cs := range e.Match.Cases {
			if cs.VariantName != variantName || cs.OutputKind != bind.OutputExpr {
				continue
			}
			out := cs.Output
			// substitute case params (innermost first: last param is index 0);
			// param i's argument is upshifted past the i params still bound
			// outside it once the later ones are gone
			for i := len(cs.Params) - 1; i >= 0; i-- {
				var argID regx.ExprId
				if i < matchArgs.Len() {
					argID = Upshift(c.Reg, matchArgs.At(i).Value, i)
				}
				out = Subst(c.Reg, out, argID)
			}
			return c.eval(out)
		}
		return id

	case bind.ExprCheck:
		return c.eval(e.Check.Output)

	case bind.ExprFun:
		return c.evalFunShape(id, e)

	case bind.ExprForall:
		return c.evalForallShape(id, e)
	}
	return id
}

func (c *Context) rebuildCall(id regx.ExprId, e regx.Expr, callee regx.ExprId) regx.ExprId {
	args := make([]regx.Arg, e.Call.Args.Args.Len())
	changed := callee != e.Call.Callee
	for i := 0; i < e.Call.Args.Args.Len(); i++ {
		a := e.Call.Args.Args.At(i)
		v := c.eval(a.Value)
		if v != a.Value {
			changed = true
		}
		args[i] = regx.Arg{Label: a.Label, Value: v, Pos: a.Pos}
	}
	if !changed {
		return id
	}
	return c.Reg.AllocExpr(regx.Expr{Kind: bind.ExprCall, Pos: e.Pos, Call: &regx.CallExpr{
		Callee: callee,
		Args:   regx.ArgList{Labeled: e.Call.Args.Labeled, Args: regx.NonEmptyFromSlice(args)},
	}})
}

// applyFun beta-reduces a saturated call to fe with the given (already
// reordered) arguments: the self-name (if recursive) and each parameter are
// substituted in turn, innermost (last pushed, i.e. last parameter) first.
// Argument i is upshifted past the self-binding and the i parameters still
// bound outside it when it is substituted.
func (c *Context) applyFun(fe *regx.FunExpr, args regx.NonEmpty[regx.Arg]) regx.ExprId {
	body := fe.Body
	n := args.Len()
	selfPush := 0
	if fe.IsRecursive {
		selfPush = 1
	}
	for i := n - 1; i >= 0; i-- {
		body = Subst(c.Reg, body, Upshift(c.Reg, args.At(i).Value, selfPush+i))
	}
	if fe.IsRecursive {
		self := c.Reg.AllocExpr(regx.Expr{Kind: bind.ExprFun, Fun: fe})
		body = Subst(c.Reg, body, self)
	}
	return body
}

func (c *Context) evalFunShape(id regx.ExprId, e regx.Expr) regx.ExprId {
	params := c.evalParamList(e.Fun.Params)
	retType := c.eval(e.Fun.ReturnType)
	if paramsEqualShape(params, e.Fun.Params) && retType == e.Fun.ReturnType {
		return id
	}
	return c.Reg.AllocExpr(regx.Expr{Kind: bind.ExprFun, Pos: e.Pos, Fun: &regx.FunExpr{
		IsRecursive: e.Fun.IsRecursive,
		SelfName:    e.Fun.SelfName,
		Params:      params,
		ReturnType:  retType,
		Body:        e.Fun.Body,
	}})
}

func (c *Context) evalForallShape(id regx.ExprId, e regx.Expr) regx.ExprId {
	params := c.evalParamList(e.Forall.Params)
	output := c.eval(e.Forall.Output)
	if paramsEqualShape(params, e.Forall.Params) && output == e.Forall.Output {
		return id
	}
	return c.Reg.AllocExpr(regx.Expr{Kind: bind.ExprForall, Pos: e.Pos, Forall: &regx.ForallExpr{Params: params, Output: output}})
}

func (c *Context) evalParamList(pl regx.ParamList) regx.ParamList {
	out := regx.ParamList{Labeled: pl.Labeled}
	for _, p := range pl.Params {
		out.Params = append(out.Params, regx.Param{
			Label: p.Label, DisplayName: p.DisplayName, Dashed: p.Dashed,
			Type: c.eval(p.Type), Pos: p.Pos,
		})
	}
	return out
}

func paramsEqualShape(a, b regx.ParamList) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i].Type != b.Params[i].Type {
			return false
		}
	}
	return true
}

func dashedParamIndex(pl regx.ParamList) (int, bool) {
	for i, p := range pl.Params {
		if p.Dashed {
			return i, true
		}
	}
	return 0, false
}

// isVariantHeaded reports whether id (already in normal form) is headed by a
// reference to a variant entry — the "variant-saturation check" (§4.6.2)
// gating recursive calls.
func (c *Context) isVariantHeaded(id regx.ExprId) bool {
	_, _, ok := c.headVariant(id)
	return ok
}

// headVariant reports the variant name and arguments a normal form reduces
// to, when it is headed by a reference to a context entry of EntryVariant.
func (c *Context) headVariant(id regx.ExprId) (name ident.Name, args regx.NonEmpty[regx.Arg], ok bool) {
	e := c.Reg.Expr(id)
	var calleeName *bind.Name
	var callArgs regx.NonEmpty[regx.Arg]
	switch e.Kind {
	case bind.ExprName:
		calleeName = e.Name
	case bind.ExprCall:
		callee := c.Reg.Expr(e.Call.Callee)
		if callee.Kind != bind.ExprName {
			return name, args, false
		}
		calleeName = callee.Name
		callArgs = e.Call.Args.Args
	default:
		return name, args, false
	}
	entry := c.EntryAt(calleeName.Index)
	if entry.Kind != EntryVariant {
		return name, args, false
	}
	return entry.Name, callArgs, true
}
