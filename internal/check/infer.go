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
	"github.com/vellum-lang/vellum/internal/diag"
	"github.com/vellum-lang/vellum/internal/ident"
	"github.com/vellum-lang/vellum/internal/regx"
	"github.com/vellum-lang/vellum/internal/syntax/token"
)

// Infer computes the normal-form type of id (§4.6.1), pushing and popping
// any local context entries the inference needs (function self-bindings,
// forall/match case parameters) before it returns.
func (c *Context) Infer(id regx.ExprId) (regx.ExprId, *diag.Bottom) {
	e := c.Reg.Expr(id)
	switch e.Kind {
	case bind.ExprName:
		return c.TypeOf(e.Name.Index), nil

	case bind.ExprPlaceholder:
		return 0, diag.Wrap(diag.Newf(diag.CannotInferTypeOfPlaceholder, e.Pos, nil,
			"cannot infer the type of a placeholder without a surrounding expected type"))

	case bind.ExprCall:
		return c.inferCall(e)

	case bind.ExprFun:
		return c.inferFun(e)

	case bind.ExprMatch:
		return c.inferMatch(e)

	case bind.ExprForall:
		return c.inferForall(e)

	case bind.ExprCheck:
		c.evalAssertions(e.Check)
		return c.Infer(e.Check.Output)
	}
	return 0, diag.Wrap(diag.Newf(diag.IllegalTypeExpression, e.Pos, nil, "illegal expression"))
}

// Check verifies id against expected (already a normal form), inferring and
// comparing by definitional equality, except for expressions that need the
// expected type to make sense at all (placeholders, bare foralls-as-values
// are not special-cased beyond that; match cases refine via inference).
func (c *Context) Check(id regx.ExprId, expected regx.ExprId) *diag.Bottom {
	e := c.Reg.Expr(id)
	if e.Kind == bind.ExprPlaceholder {
		return nil
	}
	got, err := c.Infer(id)
	if err != nil {
		return err
	}
	if !c.Equal(got, expected) {
		return diag.Wrap(diag.Newf(diag.TypeMismatch, e.Pos, nil,
			"type mismatch: expected %s, got %s", c.sprint(expected), c.sprint(got)))
	}
	return nil
}

func (c *Context) inferForall(e regx.Expr) (regx.ExprId, *diag.Bottom) {
	mark := c.Snapshot()
	worstLevel := 1 // default Type0 if there are no params/output to widen it
	cutoff := 0
	for _, p := range e.Forall.Params.Params {
		sort, err := c.Infer(p.Type)
		if err != nil {
			c.Restore(mark)
			return 0, err
		}
		lvl, ok := c.universeLevel(sort)
		if !ok {
			c.Restore(mark)
			return 0, diag.Wrap(diag.Newf(diag.IllegalTypeExpression, p.Pos, nil,
				"parameter type is not a type"))
		}
		if lvl < worstLevel {
			worstLevel = lvl
		}
		c.Push(Entry{Kind: EntryUninterpreted, Name: p.DisplayName, Type: p.Type})
		cutoff++
	}
	outSort, err := c.Infer(e.Forall.Output)
	if err != nil {
		c.Restore(mark)
		return 0, err
	}
	lvl, ok := c.universeLevel(outSort)
	if !ok {
		c.Restore(mark)
		return 0, diag.Wrap(diag.Newf(diag.IllegalTypeExpression, e.Pos, nil, "output is not a type"))
	}
	if lvl < worstLevel {
		worstLevel = lvl
	}
	c.Restore(mark)
	return c.universeRef(worstLevel), nil
}

// universeLevel reports which builtin universe id (a normal form) denotes:
// 0 for Type1, 1 for Type0.
func (c *Context) universeLevel(id regx.ExprId) (int, bool) {
	e := c.Reg.Expr(id)
	if e.Kind != bind.ExprName {
		return 0, false
	}
	lvl := c.LevelOf(e.Name.Index)
	if lvl == 0 || lvl == 1 {
		return lvl, true
	}
	return 0, false
}

// universeRef builds a Name node referencing the builtin universe at lvl,
// valid in the current context.
func (c *Context) universeRef(lvl int) regx.ExprId {
	return c.Reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Name: &bind.Name{Index: c.IndexOf(lvl)}})
}

func (c *Context) inferFun(e regx.Expr) (regx.ExprId, *diag.Bottom) {
	mark := c.Snapshot()
	for _, p := range e.Fun.Params.Params {
		sort, err := c.Infer(p.Type)
		if err != nil {
			c.Restore(mark)
			return 0, err
		}
		if _, ok := c.universeLevel(sort); !ok {
			c.Restore(mark)
			return 0, diag.Wrap(diag.Newf(diag.IllegalTypeExpression, p.Pos, nil, "parameter type is not a type"))
		}
		c.Push(Entry{Kind: EntryUninterpreted, Name: p.DisplayName, Type: p.Type})
	}
	retSort, err := c.Infer(e.Fun.ReturnType)
	if err != nil {
		c.Restore(mark)
		return 0, err
	}
	if _, ok := c.universeLevel(retSort); !ok {
		c.Restore(mark)
		return 0, diag.Wrap(diag.Newf(diag.IllegalTypeExpression, e.Pos, nil, "return type is not a type"))
	}
	c.Restore(mark)

	forallID := c.Reg.AllocExpr(regx.Expr{Kind: bind.ExprForall, Pos: e.Pos, Forall: &regx.ForallExpr{
		Params: e.Fun.Params, Output: e.Fun.ReturnType,
	}})

	mark2 := c.Snapshot()
	if e.Fun.IsRecursive {
		c.Push(Entry{Kind: EntryAlias, Name: e.Fun.SelfName, Type: forallID})
	}
	for _, p := range e.Fun.Params.Params {
		c.Push(Entry{Kind: EntryUninterpreted, Name: p.DisplayName, Type: p.Type})
	}
	// ReturnType was bound by the binder after both the self-name (if any)
	// and every param were already in scope, so re-pushing them here
	// reproduces exactly the frame ReturnType's indices already assume: no
	// shift is needed before using it as the body's expected type.
	bodyExpected := c.eval(e.Fun.ReturnType)
	if err := c.Check(e.Fun.Body, bodyExpected); err != nil {
		c.Restore(mark2)
		return 0, err
	}
	c.Restore(mark2)

	return forallID, nil
}

func (c *Context) inferCall(e regx.Expr) (regx.ExprId, *diag.Bottom) {
	calleeType, err := c.Infer(e.Call.Callee)
	if err != nil {
		return 0, err
	}
	ct := c.Reg.Expr(calleeType)
	if ct.Kind != bind.ExprForall {
		return 0, diag.Wrap(diag.Newf(diag.IllegalCallee, e.Pos, nil, "callee is not callable"))
	}
	params := ct.Forall.Params
	args, diagErr := c.reorderArgs(e.Pos, params, e.Call.Args)
	if diagErr != nil {
		return 0, diagErr
	}
	if len(args) != len(params.Params) {
		// reorderArgs already validated labeled call shapes; this remains
		// for the unlabeled/positional case, where arity alone decides.
		return 0, diag.Wrap(diag.Newf(diag.WrongNumberOfArguments, e.Pos, nil,
			"wrong number of arguments: got %d, want %d", len(args), len(params.Params)))
	}

	remainingParams := params.Params
	output := ct.Forall.Output
	for _, argID := range args {
		expected := c.eval(remainingParams[0].Type)
		if err := c.Check(argID, expected); err != nil {
			return 0, err
		}
		rest := remainingParams[1:]
		newRest := make([]regx.Param, len(rest))
		for j, p := range rest {
			np := p
			np.Type = Subst(c.Reg, p.Type, argID)
			newRest[j] = np
		}
		remainingParams = newRest
		output = Subst(c.Reg, output, argID)
	}
	return c.eval(output), nil
}

// reorderArgs applies argument-order correction (§4.6.4): when both the
// callee's parameters and the call's arguments are labeled, arguments are
// permuted into parameter order; otherwise they are taken positionally.
func (c *Context) reorderArgs(pos token.Pos, params regx.ParamList, args regx.ArgList) ([]regx.ExprId, *diag.Bottom) {
	n := args.Args.Len()
	if !params.Labeled || !args.Labeled {
		if params.Labeled != args.Labeled {
			return nil, diag.Wrap(diag.Newf(diag.CallLabeldnessMismatch, pos, nil,
				"call's argument labeledness does not match the callee's parameters"))
		}
		out := make([]regx.ExprId, n)
		for i := 0; i < n; i++ {
			out[i] = args.Args.At(i).Value
		}
		return out, nil
	}

	out := make([]regx.ExprId, len(params.Params))
	filled := make([]bool, len(params.Params))
	for i := 0; i < n; i++ {
		a := args.Args.At(i)
		if a.Label == nil {
			return nil, diag.Wrap(diag.Newf(diag.CallLabeldnessMismatch, a.Pos, nil, "argument is missing a label"))
		}
		idx := -1
		for j, p := range params.Params {
			if p.Label != nil && *p.Label == *a.Label {
				idx = j
				break
			}
		}
		if idx == -1 {
			return nil, diag.Wrap(diag.Newf(diag.ExtraneousLabeledCallArg, a.Pos, nil,
				"argument labeled %s does not match any parameter", *a.Label))
		}
		if filled[idx] {
			return nil, diag.Wrap(diag.Newf(diag.ExtraneousLabeledCallArg, a.Pos, nil,
				"argument labeled %s given more than once", *a.Label))
		}
		filled[idx] = true
		out[idx] = a.Value
	}
	for j, ok := range filled {
		if !ok {
			return nil, diag.Wrap(diag.Newf(diag.MissingLabeledCallArg, pos, nil,
				"missing labeled argument %s", *params.Params[j].Label))
		}
	}
	return out, nil
}

func (c *Context) inferMatch(e regx.Expr) (regx.ExprId, *diag.Bottom) {
	matcheeType, err := c.Infer(e.Match.Matchee)
	if err != nil {
		return 0, err
	}
	matcheeType = c.eval(matcheeType)
	entry, typeArgs, ok := c.adtCallee(matcheeType)
	if !ok {
		return 0, diag.Wrap(diag.Newf(diag.NonADTMatchee, e.Pos, nil, "matchee's type is not an ADT"))
	}
	t := entry.ADT

	seen := make([]bool, len(t.Variants))
	var resultType regx.ExprId
	haveResult := false

	for _, cs := range e.Match.Cases {
		vi := -1
		for j, v := range t.Variants {
			if v.Name == cs.VariantName {
				vi = j
				break
			}
		}
		if vi == -1 {
			return 0, diag.Wrap(diag.Newf(diag.ExtraneousMatchCase, cs.Pos, nil,
				"case %s does not name a variant of this type", cs.VariantName))
		}
		if seen[vi] {
			return 0, diag.Wrap(diag.Newf(diag.DuplicateMatchCase, cs.Pos, nil,
				"duplicate case for variant %s", cs.VariantName))
		}
		seen[vi] = true
		v := t.Variants[vi]

		if !cs.TripleDot {
			if len(cs.Params) != len(v.Params.Params) {
				return 0, diag.Wrap(diag.Newf(diag.WrongNumberOfMatchCaseParams, cs.Pos, nil,
					"case %s binds %d parameters, variant has %d", cs.VariantName, len(cs.Params), len(v.Params.Params)))
			}
			if cs.Labeled != v.Params.Labeled {
				return 0, diag.Wrap(diag.Newf(diag.MatchCaseParamLabeldnessMismatch, cs.Pos, nil,
					"case %s's parameter labeledness does not match the variant's", cs.VariantName))
			}
		}

		if cs.OutputKind == bind.OutputImpossible {
			if !c.variantUninhabited(entry, v, typeArgs, map[*regx.TypeItem]bool{}) {
				return 0, diag.Wrap(diag.Newf(diag.MatchCaseIncorrectlyMarkedImpossible, cs.Pos, nil,
					"case %s is marked impossible, but %s is constructible here", cs.VariantName, cs.VariantName))
			}
			continue
		}

		names, derr := caseParamNames(v.Params, cs)
		if derr != nil {
			return 0, derr
		}

		mark := c.Snapshot()
		caseParams := c.instantiateVariantParams(entry, v, typeArgs)
		for i, p := range caseParams {
			c.Push(Entry{Kind: EntryUninterpreted, Name: names[i].DisplayName, Type: p})
		}
		inferred, err := c.Infer(cs.Output)
		if err != nil {
			c.Restore(mark)
			return 0, err
		}
		outType, ok := Downshift(c.Reg, inferred, len(caseParams))
		c.Restore(mark)
		if !ok {
			return 0, diag.Wrap(diag.Newf(diag.AmbiguousMatchCaseOutputType, cs.Pos, nil,
				"case %s's output type depends on its bound parameters; an explicit annotation is required", cs.VariantName))
		}

		if !haveResult {
			resultType = outType
			haveResult = true
		} else if !c.Equal(resultType, outType) {
			return 0, diag.Wrap(diag.Newf(diag.AmbiguousMatchCaseOutputType, cs.Pos, nil,
				"case %s's output type does not match earlier cases", cs.VariantName))
		}
	}

	for j, v := range t.Variants {
		if !seen[j] {
			return 0, diag.Wrap(diag.Newf(diag.MissingMatchCase, e.Pos, nil, "missing case for variant %s", v.Name))
		}
	}
	if !haveResult {
		return 0, diag.Wrap(diag.Newf(diag.CannotInferTypeOfEmptyMatch, e.Pos, nil,
			"cannot infer the type of a match with no value-producing cases"))
	}
	return resultType, nil
}

// caseParamNames computes the display name bound to each of v's parameters,
// in v's own declaration order, for one match case:
//   - unlabeled (and `...`) cases bind positionally, already in that order;
//     a `...` case's names beyond what the source wrote are synthesized as
//     "_" (§4.1's bindMatchCase defers this derivation to the checker, once
//     the variant's arity is known),
//   - labeled cases are permuted into variant order, mirroring argument-
//     order correction for calls (§4.6.4).
func caseParamNames(params regx.ParamList, cs regx.MatchCase) ([]bind.CaseParam, *diag.Bottom) {
	if cs.TripleDot {
		out := append([]bind.CaseParam(nil), cs.Params...)
		for len(out) < len(params.Params) {
			out = append(out, bind.CaseParam{DisplayName: ident.New("_"), Pos: cs.Pos})
		}
		return out, nil
	}
	if !cs.Labeled {
		return cs.Params, nil
	}
	return reorderCaseParams(params, cs.Params, cs.Pos)
}

// reorderCaseParams permutes a labeled match case's bound names into the
// variant's own parameter order, mirroring reorderArgs's handling of
// labeled call arguments.
func reorderCaseParams(params regx.ParamList, caseParams []bind.CaseParam, pos token.Pos) ([]bind.CaseParam, *diag.Bottom) {
	out := make([]bind.CaseParam, len(params.Params))
	filled := make([]bool, len(params.Params))
	for _, cp := range caseParams {
		if cp.Label == nil {
			return nil, diag.Wrap(diag.Newf(diag.MissingOrUndefinedLabeledMatchCaseParam, cp.Pos, nil,
				"match-case parameter is missing a label"))
		}
		idx := -1
		for j, p := range params.Params {
			if p.Label != nil && *p.Label == *cp.Label {
				idx = j
				break
			}
		}
		if idx == -1 {
			return nil, diag.Wrap(diag.Newf(diag.MissingOrUndefinedLabeledMatchCaseParam, cp.Pos, nil,
				"match-case parameter labeled %s does not match any parameter of this variant", *cp.Label))
		}
		if filled[idx] {
			return nil, diag.Wrap(diag.Newf(diag.MissingOrUndefinedLabeledMatchCaseParam, cp.Pos, nil,
				"match-case parameter labeled %s given more than once", *cp.Label))
		}
		filled[idx] = true
		out[idx] = cp
	}
	for j, ok := range filled {
		if !ok {
			return nil, diag.Wrap(diag.Newf(diag.MissingOrUndefinedLabeledMatchCaseParam, pos, nil,
				"missing labeled match-case parameter %s", *params.Params[j].Label))
		}
	}
	return out, nil
}

// adtCallee resolves a normal-form type id to the ADT entry it denotes and
// the concrete type arguments applied to it, if any. id must be either a
// bare name (a nullary ADT) or a saturated call headed by one.
func (c *Context) adtCallee(id regx.ExprId) (Entry, regx.NonEmpty[regx.Arg], bool) {
	e := c.Reg.Expr(id)
	var calleeName *bind.Name
	var typeArgs regx.NonEmpty[regx.Arg]
	switch e.Kind {
	case bind.ExprName:
		calleeName = e.Name
	case bind.ExprCall:
		calleeE := c.Reg.Expr(e.Call.Callee)
		if calleeE.Kind != bind.ExprName {
			return Entry{}, typeArgs, false
		}
		calleeName = calleeE.Name
		typeArgs = e.Call.Args.Args
	default:
		return Entry{}, typeArgs, false
	}
	entry := c.EntryAt(calleeName.Index)
	if entry.Kind != EntryADT {
		return Entry{}, typeArgs, false
	}
	return entry, typeArgs, true
}

// variantUninhabited reports whether v, instantiated under typeArgs, can
// never be constructed: at least one of its parameter types is itself an
// uninhabited ADT. A nullary variant is always reachable.
func (c *Context) variantUninhabited(entry Entry, v regx.Variant, typeArgs regx.NonEmpty[regx.Arg], visiting map[*regx.TypeItem]bool) bool {
	for _, paramType := range c.instantiateVariantParams(entry, v, typeArgs) {
		sub, args, ok := c.adtCallee(paramType)
		if !ok {
			continue
		}
		if c.adtUninhabited(sub, args, visiting) {
			return true
		}
	}
	return false
}

// adtUninhabited reports whether every variant of the ADT in entry,
// instantiated under typeArgs, is itself uninhabited, i.e. the type has no
// constructible value at all. A type already being evaluated on the current
// call stack (visiting) is treated as not-yet-proven-inhabited rather than
// recursing forever; this correctly empties out a type whose only variants
// require itself (e.g. `type Bad { .Only(x: Bad): Bad }`) while still
// letting any earlier, non-recursive variant (a nullary case, typically)
// prove the type inhabited before the cycle is ever reached.
func (c *Context) adtUninhabited(entry Entry, typeArgs regx.NonEmpty[regx.Arg], visiting map[*regx.TypeItem]bool) bool {
	if visiting[entry.ADT] {
		return true
	}
	visiting[entry.ADT] = true
	defer delete(visiting, entry.ADT)

	for _, v := range entry.ADT.Variants {
		if !c.variantUninhabited(entry, v, typeArgs, visiting) {
			return false
		}
	}
	return true
}

// instantiateVariantParams computes variant v's own parameter types,
// specialized by substituting the ADT's parameters (bound together with v's
// own params inside the variant's constructor forall, §4.6) with the
// concrete type arguments carried by the matchee's type.
func (c *Context) instantiateVariantParams(adtEntry Entry, v regx.Variant, typeArgs regx.NonEmpty[regx.Arg]) []regx.ExprId {
	params := append([]regx.Param(nil), adtEntry.ADT.Params.Params...)
	params = append(params, v.Params.Params...)
	rest := params
	// Bound by the ADT's own arity, not typeArgs.Len(): typeArgs is the
	// zero-value NonEmpty when the matchee's type is a bare (nullary) name,
	// and NonEmpty.Len() is never 0, so using it here would wrongly consume
	// one of the variant's own parameters for a nullary ADT.
	for i := 0; i < len(adtEntry.ADT.Params.Params); i++ {
		arg := typeArgs.At(i)
		rest = substParamTypesHead(c.Reg, rest, arg.Value)
	}
	out := make([]regx.ExprId, len(rest))
	for i, p := range rest {
		out[i] = c.eval(p.Type)
	}
	return out
}

// substParamTypesHead substitutes replacement for the first remaining
// parameter's position and drops it. Per the incremental-cutoff binding
// convention, that position is index i in the type of the i'th (0-based)
// later parameter, since the i parameters between them are bound closer.
func substParamTypesHead(reg *regx.Registry, params []regx.Param, replacement regx.ExprId) []regx.Param {
	if len(params) == 0 {
		return params
	}
	rest := params[1:]
	out := make([]regx.Param, len(rest))
	for i, p := range rest {
		np := p
		np.Type = subst(reg, p.Type, replacement, i)
		out[i] = np
	}
	return out
}
