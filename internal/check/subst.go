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
	"github.com/vellum-lang/vellum/internal/regx"
)

// Upshift adds n to every free index in the tree rooted at id — the indices
// that refer out past the binders id was itself bound under — leaving
// indices bound locally within id untouched. cutoff tracks how many binders
// the walk has crossed so far; an index at or above it is free relative to
// id's own root and gets shifted.
func Upshift(reg *regx.Registry, id regx.ExprId, n int) regx.ExprId {
	if n == 0 {
		return id
	}
	return upshift(reg, id, n, 0)
}

func upshift(reg *regx.Registry, id regx.ExprId, n, cutoff int) regx.ExprId {
	e := reg.Expr(id)
	switch e.Kind {
	case bind.ExprName:
		if e.Name.Index < cutoff {
			return id
		}
		name := *e.Name
		name.Index += n
		return reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Pos: e.Pos, Name: &name})

	case bind.ExprPlaceholder:
		return id

	case bind.ExprCall:
		callee := upshift(reg, e.Call.Callee, n, cutoff)
		args := upshiftArgList(reg, e.Call.Args, n, cutoff)
		if callee == e.Call.Callee && sameArgs(args, e.Call.Args) {
			return id
		}
		return reg.AllocExpr(regx.Expr{Kind: bind.ExprCall, Pos: e.Pos, Call: &regx.CallExpr{Callee: callee, Args: args}})

	case bind.ExprFun:
		selfPush := 0
		if e.Fun.IsRecursive {
			selfPush = 1
		}
		params, pCutoff := upshiftParamList(reg, e.Fun.Params, n, cutoff+selfPush)
		retType := upshift(reg, e.Fun.ReturnType, n, pCutoff)
		body := upshift(reg, e.Fun.Body, n, pCutoff)
		return reg.AllocExpr(regx.Expr{Kind: bind.ExprFun, Pos: e.Pos, Fun: &regx.FunExpr{
			IsRecursive: e.Fun.IsRecursive,
			SelfName:    e.Fun.SelfName,
			Params:      params,
			ReturnType:  retType,
			Body:        body,
		}})

	case bind.ExprMatch:
		matchee := upshift(reg, e.Match.Matchee, n, cutoff)
		me := &regx.MatchExpr{Matchee: matchee}
		for _, c := range e.Match.Cases {
			mc := c
			if c.OutputKind == bind.OutputExpr {
				mc.Output = upshift(reg, c.Output, n, cutoff+len(c.Params))
			}
			me.Cases = append(me.Cases, mc)
		}
		return reg.AllocExpr(regx.Expr{Kind: bind.ExprMatch, Pos: e.Pos, Match: me})

	case bind.ExprForall:
		params, pCutoff := upshiftParamList(reg, e.Forall.Params, n, cutoff)
		output := upshift(reg, e.Forall.Output, n, pCutoff)
		return reg.AllocExpr(regx.Expr{Kind: bind.ExprForall, Pos: e.Pos, Forall: &regx.ForallExpr{Params: params, Output: output}})

	case bind.ExprCheck:
		ce := &regx.CheckExpr{}
		for _, a := range e.Check.Assertions {
			ce.Assertions = append(ce.Assertions, regx.Assertion{
				Kind:  a.Kind,
				Left:  upshift(reg, a.Left, n, cutoff),
				Right: upshift(reg, a.Right, n, cutoff),
				Pos:   a.Pos,
			})
		}
		ce.Output = upshift(reg, e.Check.Output, n, cutoff)
		return reg.AllocExpr(regx.Expr{Kind: bind.ExprCheck, Pos: e.Pos, Check: ce})
	}
	return id
}

// upshiftParamList shifts each parameter's type by the running cutoff of
// only the params preceding it (§4.1 rule 5's binding order), returning the
// cutoff as it stands after all of pl's params, for the caller's own body.
func upshiftParamList(reg *regx.Registry, pl regx.ParamList, n, cutoff int) (regx.ParamList, int) {
	out := regx.ParamList{Labeled: pl.Labeled}
	for j, p := range pl.Params {
		out.Params = append(out.Params, regx.Param{
			Label:       p.Label,
			DisplayName: p.DisplayName,
			Dashed:      p.Dashed,
			Type:        upshift(reg, p.Type, n, cutoff+j),
			Pos:         p.Pos,
		})
	}
	return out, cutoff + len(pl.Params)
}

func upshiftArgList(reg *regx.Registry, al regx.ArgList, n, cutoff int) regx.ArgList {
	args := make([]regx.Arg, al.Args.Len())
	for i := 0; i < al.Args.Len(); i++ {
		a := al.Args.At(i)
		args[i] = regx.Arg{Label: a.Label, Value: upshift(reg, a.Value, n, cutoff), Pos: a.Pos}
	}
	return regx.ArgList{Labeled: al.Labeled, Args: regx.NonEmptyFromSlice(args)}
}

func sameArgs(a, b regx.ArgList) bool {
	if a.Args.Len() != b.Args.Len() {
		return false
	}
	for i := 0; i < a.Args.Len(); i++ {
		if a.Args.At(i).Value != b.Args.At(i).Value {
			return false
		}
	}
	return true
}

// Downshift is Upshift's inverse: it subtracts n from every free index at or
// above the cutoff, reporting ok=false if doing so would remove a reference
// to one of the n binders being dropped (indices in [cutoff, cutoff+n) are
// not free relative to the result).
func Downshift(reg *regx.Registry, id regx.ExprId, n int) (regx.ExprId, bool) {
	if n == 0 {
		return id, true
	}
	return downshift(reg, id, n, 0)
}

func downshift(reg *regx.Registry, id regx.ExprId, n, cutoff int) (regx.ExprId, bool) {
	e := reg.Expr(id)
	switch e.Kind {
	case bind.ExprName:
		idx := e.Name.Index
		switch {
		case idx < cutoff:
			return id, true
		case idx < cutoff+n:
			return id, false
		default:
			name := *e.Name
			name.Index -= n
			return reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Pos: e.Pos, Name: &name}), true
		}

	case bind.ExprPlaceholder:
		return id, true

	case bind.ExprCall:
		callee, ok := downshift(reg, e.Call.Callee, n, cutoff)
		if !ok {
			return id, false
		}
		args := make([]regx.Arg, e.Call.Args.Args.Len())
		for i := 0; i < e.Call.Args.Args.Len(); i++ {
			a := e.Call.Args.Args.At(i)
			v, ok := downshift(reg, a.Value, n, cutoff)
			if !ok {
				return id, false
			}
			args[i] = regx.Arg{Label: a.Label, Value: v, Pos: a.Pos}
		}
		return reg.AllocExpr(regx.Expr{Kind: bind.ExprCall, Pos: e.Pos, Call: &regx.CallExpr{
			Callee: callee,
			Args:   regx.ArgList{Labeled: e.Call.Args.Labeled, Args: regx.NonEmptyFromSlice(args)},
		}}), true

	case bind.ExprFun:
		selfPush := 0
		if e.Fun.IsRecursive {
			selfPush = 1
		}
		params, d, ok := downshiftParamList(reg, e.Fun.Params, n, cutoff+selfPush)
		if !ok {
			return id, false
		}
		retType, ok := downshift(reg, e.Fun.ReturnType, n, d)
		if !ok {
			return id, false
		}
		body, ok := downshift(reg, e.Fun.Body, n, d)
		if !ok {
			return id, false
		}
		return reg.AllocExpr(regx.Expr{Kind: bind.ExprFun, Pos: e.Pos, Fun: &regx.FunExpr{
			IsRecursive: e.Fun.IsRecursive, SelfName: e.Fun.SelfName, Params: params, ReturnType: retType, Body: body,
		}}), true

	case bind.ExprMatch:
		matchee, ok := downshift(reg, e.Match.Matchee, n, cutoff)
		if !ok {
			return id, false
		}
		me := &regx.MatchExpr{Matchee: matchee}
		for _, cs := range e.Match.Cases {
			mc := cs
			if cs.OutputKind == bind.OutputExpr {
				v, ok := downshift(reg, cs.Output, n, cutoff+len(cs.Params))
				if !ok {
					return id, false
				}
				mc.Output = v
			}
			me.Cases = append(me.Cases, mc)
		}
		return reg.AllocExpr(regx.Expr{Kind: bind.ExprMatch, Pos: e.Pos, Match: me}), true

	case bind.ExprForall:
		params, d, ok := downshiftParamList(reg, e.Forall.Params, n, cutoff)
		if !ok {
			return id, false
		}
		output, ok := downshift(reg, e.Forall.Output, n, d)
		if !ok {
			return id, false
		}
		return reg.AllocExpr(regx.Expr{Kind: bind.ExprForall, Pos: e.Pos, Forall: &regx.ForallExpr{Params: params, Output: output}}), true

	case bind.ExprCheck:
		ce := &regx.CheckExpr{}
		for _, a := range e.Check.Assertions {
			l, ok := downshift(reg, a.Left, n, cutoff)
			if !ok {
				return id, false
			}
			r, ok := downshift(reg, a.Right, n, cutoff)
			if !ok {
				return id, false
			}
			ce.Assertions = append(ce.Assertions, regx.Assertion{Kind: a.Kind, Left: l, Right: r, Pos: a.Pos})
		}
		out, ok := downshift(reg, e.Check.Output, n, cutoff)
		if !ok {
			return id, false
		}
		ce.Output = out
		return reg.AllocExpr(regx.Expr{Kind: bind.ExprCheck, Pos: e.Pos, Check: ce}), true
	}
	return id, true
}

func downshiftParamList(reg *regx.Registry, pl regx.ParamList, n, cutoff int) (regx.ParamList, int, bool) {
	out := regx.ParamList{Labeled: pl.Labeled}
	for j, p := range pl.Params {
		t, ok := downshift(reg, p.Type, n, cutoff+j)
		if !ok {
			return out, cutoff, false
		}
		out.Params = append(out.Params, regx.Param{Label: p.Label, DisplayName: p.DisplayName, Dashed: p.Dashed, Type: t, Pos: p.Pos})
	}
	return out, cutoff + len(pl.Params), true
}

// Subst replaces every free occurrence of the variable at index 0 (relative
// to id's own root) with replacement, and downshifts every other free index
// by one — the operation a beta-reduction performs on a function body once
// its parameter is bound to an argument (§4.7). replacement must already be
// expressed relative to the context id's index-0 variable was bound in minus
// one (i.e. the context the result lives in); it is upshifted as the walk
// descends under further binders.
func Subst(reg *regx.Registry, id regx.ExprId, replacement regx.ExprId) regx.ExprId {
	return subst(reg, id, replacement, 0)
}

func subst(reg *regx.Registry, id regx.ExprId, replacement regx.ExprId, depth int) regx.ExprId {
	e := reg.Expr(id)
	switch e.Kind {
	case bind.ExprName:
		switch {
		case e.Name.Index == depth:
			return Upshift(reg, replacement, depth)
		case e.Name.Index > depth:
			name := *e.Name
			name.Index--
			return reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Pos: e.Pos, Name: &name})
		default:
			return id
		}

	case bind.ExprPlaceholder:
		return id

	case bind.ExprCall:
		callee := subst(reg, e.Call.Callee, replacement, depth)
		args := make([]regx.Arg, e.Call.Args.Args.Len())
		for i := 0; i < e.Call.Args.Args.Len(); i++ {
			a := e.Call.Args.Args.At(i)
			args[i] = regx.Arg{Label: a.Label, Value: subst(reg, a.Value, replacement, depth), Pos: a.Pos}
		}
		return reg.AllocExpr(regx.Expr{Kind: bind.ExprCall, Pos: e.Pos, Call: &regx.CallExpr{
			Callee: callee,
			Args:   regx.ArgList{Labeled: e.Call.Args.Labeled, Args: regx.NonEmptyFromSlice(args)},
		}})

	case bind.ExprFun:
		selfPush := 0
		if e.Fun.IsRecursive {
			selfPush = 1
		}
		params, d := substParamList(reg, e.Fun.Params, replacement, depth+selfPush)
		retType := subst(reg, e.Fun.ReturnType, replacement, d)
		body := subst(reg, e.Fun.Body, replacement, d)
		return reg.AllocExpr(regx.Expr{Kind: bind.ExprFun, Pos: e.Pos, Fun: &regx.FunExpr{
			IsRecursive: e.Fun.IsRecursive,
			SelfName:    e.Fun.SelfName,
			Params:      params,
			ReturnType:  retType,
			Body:        body,
		}})

	case bind.ExprMatch:
		matchee := subst(reg, e.Match.Matchee, replacement, depth)
		me := &regx.MatchExpr{Matchee: matchee}
		for _, c := range e.Match.Cases {
			mc := c
			if c.OutputKind == bind.OutputExpr {
				mc.Output = subst(reg, c.Output, replacement, depth+len(c.Params))
			}
			me.Cases = append(me.Cases, mc)
		}
		return reg.AllocExpr(regx.Expr{Kind: bind.ExprMatch, Pos: e.Pos, Match: me})

	case bind.ExprForall:
		params, d := substParamList(reg, e.Forall.Params, replacement, depth)
		output := subst(reg, e.Forall.Output, replacement, d)
		return reg.AllocExpr(regx.Expr{Kind: bind.ExprForall, Pos: e.Pos, Forall: &regx.ForallExpr{Params: params, Output: output}})

	case bind.ExprCheck:
		ce := &regx.CheckExpr{}
		for _, a := range e.Check.Assertions {
			ce.Assertions = append(ce.Assertions, regx.Assertion{
				Kind:  a.Kind,
				Left:  subst(reg, a.Left, replacement, depth),
				Right: subst(reg, a.Right, replacement, depth),
				Pos:   a.Pos,
			})
		}
		ce.Output = subst(reg, e.Check.Output, replacement, depth)
		return reg.AllocExpr(regx.Expr{Kind: bind.ExprCheck, Pos: e.Pos, Check: ce})
	}
	return id
}

func substParamList(reg *regx.Registry, pl regx.ParamList, replacement regx.ExprId, depth int) (regx.ParamList, int) {
	out := regx.ParamList{Labeled: pl.Labeled}
	for j, p := range pl.Params {
		out.Params = append(out.Params, regx.Param{
			Label:       p.Label,
			DisplayName: p.DisplayName,
			Dashed:      p.Dashed,
			Type:        subst(reg, p.Type, replacement, depth+j),
			Pos:         p.Pos,
		})
	}
	return out, depth + len(pl.Params)
}
