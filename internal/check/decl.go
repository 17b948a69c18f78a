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
	"github.com/vellum-lang/vellum/internal/filetree"
	"github.com/vellum-lang/vellum/internal/regx"
)

// Run type-checks every item of reg, in source order, pushing one context
// entry per type/variant/let exactly as the binder numbered them, so that
// the De Bruijn indices already baked into reg's expressions resolve
// against this Context without any renumbering. It stops at the first
// item-level error (§5), but collects every warning `check` assertions
// produce along the way.
func Run(reg *regx.Registry, tree *filetree.Tree) (*Context, diag.List) {
	c := NewContext(reg, tree)
	for _, item := range reg.Items {
		switch item.Kind {
		case regx.ItemType:
			if errs := c.PushType(item.Type); len(errs) > 0 {
				return c, errs
			}
		case regx.ItemLet:
			if errs := c.PushLet(item.Let); len(errs) > 0 {
				return c, errs
			}
		}
	}
	return c, nil
}

// PushType registers one ADT declaration's context entries (the type itself,
// then each of its variants in source order) and checks that every
// parameter type and the implicit return "type of a type" live in a proper
// universe.
func (c *Context) PushType(t *regx.TypeItem) diag.List {
	var errs diag.List
	tLevel := c.Len()

	nParams := len(t.Params.Params)
	type0Ref := c.universeRefAt(tLevel+nParams, 1)
	// A nullary type is typed Type0 itself, not a parameterless forall.
	tForall := type0Ref
	if nParams > 0 {
		tForall = c.Reg.AllocExpr(regx.Expr{Kind: bind.ExprForall, Pos: t.Pos, Forall: &regx.ForallExpr{
			Params: t.Params, Output: type0Ref,
		}})
	}
	c.Push(Entry{Kind: EntryADT, Name: t.Name, Type: tForall, ADT: t, DeclVis: t.Vis})

	if err := c.checkParamListSorts(t.Params); err != nil {
		errs = diag.Append(errs, err.Err)
	}

	for i := range t.Variants {
		v := &t.Variants[i]
		// For a type without parameters, the binder bound v's parameter and
		// return types with the earlier variants already pushed, i.e.
		// relative to a context of v's own level, so they are used here
		// without any shift. A variant with no parameters at all (of a type
		// with none either) is typed by its return type directly.
		vType := v.ReturnType
		if nParams+len(v.Params.Params) > 0 {
			vType = c.Reg.AllocExpr(regx.Expr{Kind: bind.ExprForall, Pos: v.Pos, Forall: &regx.ForallExpr{
				Params: concatParams(t.Params, v.Params), Output: v.ReturnType,
			}})
		}
		c.Push(Entry{Kind: EntryVariant, Name: v.Name, Type: vType, ADT: t, Variant: v, VariantIdx: i, DeclVis: t.Vis})
	}
	return errs
}

// universeRefAt builds a Name referencing the builtin universe at lvl, valid
// in a context of size contextSize (rather than c's current size — used
// while constructing a forall whose output sits deeper than c's own level).
func (c *Context) universeRefAt(contextSize, lvl int) regx.ExprId {
	return c.Reg.AllocExpr(regx.Expr{Kind: bind.ExprName, Name: &bind.Name{Index: contextSize - lvl - 1}})
}

func concatParams(a, b regx.ParamList) regx.ParamList {
	out := regx.ParamList{Labeled: a.Labeled}
	out.Params = append(out.Params, a.Params...)
	out.Params = append(out.Params, b.Params...)
	return out
}

// checkParamListSorts verifies each parameter's type lives in Type0/Type1
// (§4.6.1's Forall/Function well-formedness side condition), pushing and
// popping its own locals.
func (c *Context) checkParamListSorts(pl regx.ParamList) *diag.Bottom {
	mark := c.Snapshot()
	defer c.Restore(mark)
	for _, p := range pl.Params {
		sort, err := c.Infer(p.Type)
		if err != nil {
			return err
		}
		if _, ok := c.universeLevel(c.eval(sort)); !ok {
			return diag.Wrap(diag.Newf(diag.IllegalTypeExpression, p.Pos, nil, "parameter type is not a type"))
		}
		c.Push(Entry{Kind: EntryUninterpreted, Name: p.DisplayName, Type: p.Type})
	}
	return nil
}

// PushLet infers l's value type, registers it as an alias entry, and runs
// the visibility-of-type check (§4.8).
func (c *Context) PushLet(l *regx.LetItem) diag.List {
	var errs diag.List
	typeID, err := c.Infer(l.Value)
	if err != nil {
		return diag.Append(errs, err.Err)
	}
	typeID = c.eval(typeID)
	if verr := c.checkVisibilityOfType(l, typeID); verr != nil {
		errs = diag.Append(errs, verr)
	}
	c.Push(Entry{
		Kind: EntryAlias, Name: l.Name, Type: typeID,
		HasValue: true, Value: l.Value, Transparency: l.Transparency, DeclVis: l.Vis,
	})
	return errs
}
