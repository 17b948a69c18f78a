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
	"github.com/vellum-lang/vellum/internal/regx"
	"github.com/vellum-lang/vellum/internal/visib"
)

// checkVisibilityOfType implements §4.8: every free name in l's inferred
// value type must be visible from l's own declared visibility scope, or the
// let statement leaks a name to an audience that cannot see it.
func (c *Context) checkVisibilityOfType(l *regx.LetItem, typeID regx.ExprId) diag.Error {
	return c.walkVisibility(typeID, 0, l.Vis)
}

func (c *Context) walkVisibility(id regx.ExprId, offset int, letVis visib.Visibility) diag.Error {
	e := c.Reg.Expr(id)
	switch e.Kind {
	case bind.ExprName:
		if e.Name.Index < offset {
			return nil // refers to a binder local to the type itself
		}
		trueIndex := e.Name.Index - offset
		entry := c.EntryAt(trueIndex)
		if entry.Kind == EntryUninterpreted {
			return nil // the builtin universes are always visible
		}
		if !visib.AtLeastAsPermissiveAs(c.Tree, entry.DeclVis, letVis) {
			return diag.Newf(diag.LetStatementTypeContainsPrivateName, e.Pos, nil,
				"let statement's type refers to %s, which is not visible everywhere this let is", entry.Name)
		}
		return nil

	case bind.ExprPlaceholder:
		return nil

	case bind.ExprCall:
		if err := c.walkVisibility(e.Call.Callee, offset, letVis); err != nil {
			return err
		}
		for i := 0; i < e.Call.Args.Args.Len(); i++ {
			if err := c.walkVisibility(e.Call.Args.Args.At(i).Value, offset, letVis); err != nil {
				return err
			}
		}
		return nil

	case bind.ExprFun:
		selfPush := 0
		if e.Fun.IsRecursive {
			selfPush = 1
		}
		inner := offset + selfPush
		for _, p := range e.Fun.Params.Params {
			if err := c.walkVisibility(p.Type, inner, letVis); err != nil {
				return err
			}
			inner++
		}
		if err := c.walkVisibility(e.Fun.ReturnType, inner, letVis); err != nil {
			return err
		}
		return c.walkVisibility(e.Fun.Body, inner, letVis)

	case bind.ExprMatch:
		if err := c.walkVisibility(e.Match.Matchee, offset, letVis); err != nil {
			return err
		}
		for _, cs := range e.Match.Cases {
			if cs.OutputKind != bind.OutputExpr {
				continue
			}
			if err := c.walkVisibility(cs.Output, offset+len(cs.Params), letVis); err != nil {
				return err
			}
		}
		return nil

	case bind.ExprForall:
		inner := offset
		for _, p := range e.Forall.Params.Params {
			if err := c.walkVisibility(p.Type, inner, letVis); err != nil {
				return err
			}
			inner++
		}
		return c.walkVisibility(e.Forall.Output, inner, letVis)

	case bind.ExprCheck:
		for _, a := range e.Check.Assertions {
			if err := c.walkVisibility(a.Left, offset, letVis); err != nil {
				return err
			}
			if err := c.walkVisibility(a.Right, offset, letVis); err != nil {
				return err
			}
		}
		return c.walkVisibility(e.Check.Output, offset, letVis)
	}
	return nil
}
