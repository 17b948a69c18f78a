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

// Package recur implements the recursion validator (§4.4): every recursive
// self-call must decrease on a designated dashed parameter, whose argument
// must be a name known to be a strict structural sub-term of the original —
// a fact seeded wherever a `match` destructures an ADT.
package recur

import (
	"github.com/vellum-lang/vellum/internal/bind"
	"github.com/vellum-lang/vellum/internal/diag"
	"github.com/vellum-lang/vellum/internal/ident"
	"github.com/vellum-lang/vellum/internal/regx"
)

// frame tracks one lexically enclosing recursive function: the De Bruijn
// index its self-name currently resolves to (shifting as the walk descends
// through further locals), its designated decreasing parameter (if any, by
// both position/label and current index), and the set of indices currently
// known to be strict sub-terms of that parameter's original argument.
type frame struct {
	name            ident.Name
	selfIndex       int
	hasDecreasing   bool
	decreasingIndex int
	decreasingPos   int
	paramsLabeled   bool
	decreasingLabel ident.Name
	smaller         map[int]bool
}

func (f frame) shifted(n int) frame {
	out := f
	out.selfIndex += n
	out.decreasingIndex += n
	out.smaller = nil
	if len(f.smaller) > 0 {
		out.smaller = make(map[int]bool, len(f.smaller))
		for k := range f.smaller {
			out.smaller[k+n] = true
		}
	}
	return out
}

func shiftAll(frames []frame, n int) []frame {
	if n == 0 {
		return frames
	}
	out := make([]frame, len(frames))
	for i, f := range frames {
		out[i] = f.shifted(n)
	}
	return out
}

// Check validates every function body and let-bound value in reg.
func Check(reg *regx.Registry) diag.List {
	var errs diag.List
	for _, item := range reg.Items {
		switch item.Kind {
		case regx.ItemLet:
			errs = walkExpr(reg, item.Let.Value, nil, errs)
		case regx.ItemType:
			for _, p := range item.Type.Params.Params {
				errs = walkExpr(reg, p.Type, nil, errs)
			}
			for _, v := range item.Type.Variants {
				for _, p := range v.Params.Params {
					errs = walkExpr(reg, p.Type, nil, errs)
				}
				errs = walkExpr(reg, v.ReturnType, nil, errs)
			}
		}
	}
	return errs
}

func walkExpr(reg *regx.Registry, id regx.ExprId, frames []frame, errs diag.List) diag.List {
	e := reg.Expr(id)
	switch e.Kind {
	case bind.ExprName, bind.ExprPlaceholder:
		return errs

	case bind.ExprCall:
		errs = checkCall(reg, e.Call, frames, errs)
		errs = walkExpr(reg, e.Call.Callee, frames, errs)
		for _, a := range e.Call.Args.Args.Slice() {
			errs = walkExpr(reg, a.Value, frames, errs)
		}
		return errs

	case bind.ExprFun:
		return walkFun(reg, e.Fun, frames, errs)

	case bind.ExprMatch:
		return walkMatch(reg, e.Match, frames, errs)

	case bind.ExprForall:
		for j, p := range e.Forall.Params.Params {
			errs = walkExpr(reg, p.Type, shiftAll(frames, j), errs)
		}
		inner := shiftAll(frames, len(e.Forall.Params.Params))
		return walkExpr(reg, e.Forall.Output, inner, errs)

	case bind.ExprCheck:
		for _, a := range e.Check.Assertions {
			errs = walkExpr(reg, a.Left, frames, errs)
			errs = walkExpr(reg, a.Right, frames, errs)
		}
		return walkExpr(reg, e.Check.Output, frames, errs)
	}
	return errs
}

func walkFun(reg *regx.Registry, fe *regx.FunExpr, frames []frame, errs diag.List) diag.List {
	selfPush := 0
	if fe.IsRecursive {
		selfPush = 1
	}
	for j, p := range fe.Params.Params {
		errs = walkExpr(reg, p.Type, shiftAll(frames, selfPush+j), errs)
	}
	bodyShift := selfPush + len(fe.Params.Params)
	bodyFrames := shiftAll(frames, bodyShift)

	if fe.IsRecursive {
		nf := frame{name: fe.SelfName, selfIndex: len(fe.Params.Params)}
		n := len(fe.Params.Params)
		for pi, p := range fe.Params.Params {
			if p.Dashed {
				nf.hasDecreasing = true
				nf.decreasingPos = pi
				nf.decreasingIndex = n - 1 - pi
				nf.paramsLabeled = fe.Params.Labeled
				if p.Label != nil {
					nf.decreasingLabel = *p.Label
				}
				break
			}
		}
		bodyFrames = append(bodyFrames, nf)
	}

	errs = walkExpr(reg, fe.ReturnType, bodyFrames, errs)
	return walkExpr(reg, fe.Body, bodyFrames, errs)
}

func walkMatch(reg *regx.Registry, me *regx.MatchExpr, frames []frame, errs diag.List) diag.List {
	errs = walkExpr(reg, me.Matchee, frames, errs)
	matcheeExpr := reg.Expr(me.Matchee)
	hasMatcheeIdx := matcheeExpr.Kind == bind.ExprName
	var matcheeIdx int
	if hasMatcheeIdx {
		matcheeIdx = matcheeExpr.Name.Index
	}

	for _, c := range me.Cases {
		npar := len(c.Params)
		caseFrames := shiftAll(frames, npar)
		if hasMatcheeIdx {
			for fi, f := range frames {
				isSmaller := f.hasDecreasing && f.decreasingIndex == matcheeIdx
				if !isSmaller && f.smaller != nil && f.smaller[matcheeIdx] {
					isSmaller = true
				}
				if !isSmaller {
					continue
				}
				if caseFrames[fi].smaller == nil {
					caseFrames[fi].smaller = map[int]bool{}
				}
				for q := 0; q < npar; q++ {
					caseFrames[fi].smaller[npar-1-q] = true
				}
			}
		}
		if c.OutputKind == bind.OutputExpr {
			errs = walkExpr(reg, c.Output, caseFrames, errs)
		}
	}
	return errs
}

func checkCall(reg *regx.Registry, call *regx.CallExpr, frames []frame, errs diag.List) diag.List {
	calleeExpr := reg.Expr(call.Callee)
	if calleeExpr.Kind != bind.ExprName {
		return errs
	}
	calleeIdx := calleeExpr.Name.Index
	for _, f := range frames {
		if f.selfIndex != calleeIdx {
			continue
		}
		if !f.hasDecreasing {
			return diag.Append(errs, diag.Newf(diag.RecursivelyCalledFunctionWithoutDecreasingParam, calleeExpr.Pos, nil,
				"function %s is recursively called but has no decreasing parameter", f.name))
		}
		args := call.Args.Args.Slice()
		var argVal regx.ExprId
		found := false
		if call.Args.Labeled {
			for _, a := range args {
				if a.Label != nil && f.paramsLabeled && *a.Label == f.decreasingLabel {
					argVal, found = a.Value, true
					break
				}
			}
		} else if f.decreasingPos < len(args) {
			argVal, found = args[f.decreasingPos].Value, true
		}
		if !found {
			return errs
		}
		argExpr := reg.Expr(argVal)
		if argExpr.Kind != bind.ExprName || !f.smaller[argExpr.Name.Index] {
			return diag.Append(errs, diag.Newf(diag.NonSubstructPassedToDecreasingParam, argExpr.Pos, nil,
				"call to %s: argument in the decreasing parameter's position is not a known strict sub-term", f.name))
		}
		return errs
	}
	return errs
}
