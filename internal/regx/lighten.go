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

package regx

import "github.com/vellum-lang/vellum/internal/bind"

// Lighten runs the "Registry Lightening" stage (§4.2, §2): it interns every
// node of a bound file into a fresh Registry, replacing the bound tree's
// recursive value structure with ExprId handles.
func Lighten(f *bind.File) *Registry {
	r := New()
	for _, it := range f.Items {
		switch it.Kind {
		case bind.ItemType:
			r.Items = append(r.Items, Item{Kind: ItemType, Type: lightenType(r, it.Type)})
		case bind.ItemLet:
			r.Items = append(r.Items, Item{Kind: ItemLet, Let: lightenLet(r, it.Let)})
		}
	}
	return r
}

func lightenType(r *Registry, t *bind.TypeItem) *TypeItem {
	out := &TypeItem{
		Name:   t.Name,
		Vis:    t.Vis,
		Params: lightenParamList(r, t.Params),
		Pos:    t.Pos,
	}
	for _, v := range t.Variants {
		out.Variants = append(out.Variants, Variant{
			Name:         v.Name,
			Params:       lightenParamList(r, v.Params),
			ReturnType:   lightenExpr(r, v.ReturnType),
			SelfIndex:    v.SelfIndex,
			ParamIndices: append([]int(nil), v.ParamIndices...),
			Pos:          v.Pos,
		})
	}
	return out
}

func lightenLet(r *Registry, l *bind.LetItem) *LetItem {
	return &LetItem{
		Name:         l.Name,
		Vis:          l.Vis,
		Transparency: l.Transparency,
		Value:        lightenExpr(r, l.Value),
		Pos:          l.Pos,
	}
}

func lightenParamList(r *Registry, pl bind.ParamList) ParamList {
	out := ParamList{Labeled: pl.Labeled}
	for _, p := range pl.Params {
		out.Params = append(out.Params, Param{
			Label:       p.Label,
			DisplayName: p.DisplayName,
			Dashed:      p.Dashed,
			Type:        lightenExpr(r, p.Type),
			Pos:         p.Pos,
		})
	}
	return out
}

func lightenArgList(r *Registry, al bind.ArgList) ArgList {
	args := make([]Arg, 0, len(al.Args))
	for _, a := range al.Args {
		args = append(args, Arg{Label: a.Label, Value: lightenExpr(r, a.Value), Pos: a.Pos})
	}
	return ArgList{Labeled: al.Labeled, Args: NonEmptyFromSlice(args)}
}

func lightenExpr(r *Registry, e bind.Expr) ExprId {
	out := Expr{Kind: e.Kind, Pos: e.Pos}
	switch e.Kind {
	case bind.ExprName:
		name := *e.Name
		out.Name = &name
	case bind.ExprPlaceholder:
		// no payload
	case bind.ExprCall:
		out.Call = &CallExpr{
			Callee: lightenExpr(r, e.Call.Callee),
			Args:   lightenArgList(r, e.Call.Args),
		}
	case bind.ExprFun:
		out.Fun = &FunExpr{
			IsRecursive: e.Fun.IsRecursive,
			SelfName:    e.Fun.SelfName,
			Params:      lightenParamList(r, e.Fun.Params),
			ReturnType:  lightenExpr(r, e.Fun.ReturnType),
			Body:        lightenExpr(r, e.Fun.Body),
		}
	case bind.ExprMatch:
		me := &MatchExpr{Matchee: lightenExpr(r, e.Match.Matchee)}
		for _, c := range e.Match.Cases {
			mc := MatchCase{
				VariantName: c.VariantName,
				Labeled:     c.Labeled,
				Params:      append([]bind.CaseParam(nil), c.Params...),
				TripleDot:   c.TripleDot,
				OutputKind:  c.OutputKind,
				Pos:         c.Pos,
			}
			if c.OutputKind == bind.OutputExpr {
				mc.Output = lightenExpr(r, c.Output)
			}
			me.Cases = append(me.Cases, mc)
		}
		out.Match = me
	case bind.ExprForall:
		out.Forall = &ForallExpr{
			Params: lightenParamList(r, e.Forall.Params),
			Output: lightenExpr(r, e.Forall.Output),
		}
	case bind.ExprCheck:
		ce := &CheckExpr{Output: lightenExpr(r, e.Check.Output)}
		for _, a := range e.Check.Assertions {
			ce.Assertions = append(ce.Assertions, Assertion{
				Kind:  a.Kind,
				Left:  lightenExpr(r, a.Left),
				Right: lightenExpr(r, a.Right),
				Pos:   a.Pos,
			})
		}
		out.Check = ce
	}
	return r.AllocExpr(out)
}
