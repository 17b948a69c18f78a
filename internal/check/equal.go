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

// equalKey pair-keys the equality cache (§4.6.3): equality is only ever
// asked of two normal forms, so a handle pair fully determines the question.
type equalKey struct{ a, b regx.ExprId }

// Equal reports whether a and b, both already normal forms, are
// definitionally equal: structurally equal ignoring spans and node
// identities, with uniquely-labeled parameter lists compared modulo
// label-permutation.
func (c *Context) Equal(a, b regx.ExprId) bool {
	if a == b {
		return true
	}
	key := equalKey{a, b}
	if v, ok := c.equalCache[key]; ok {
		return v
	}
	if c.equalCache == nil {
		c.equalCache = map[equalKey]bool{}
	}
	// Mark optimistically true to break cycles through recursive ADT
	// references; a mismatch anywhere downstream still flips the final
	// answer via the ordinary structural comparison below.
	c.equalCache[key] = true
	result := c.equalStruct(a, b)
	c.equalCache[key] = result
	return result
}

func (c *Context) equalStruct(a, b regx.ExprId) bool {
	ea, eb := c.Reg.Expr(a), c.Reg.Expr(b)
	if ea.Kind != eb.Kind {
		return false
	}
	switch ea.Kind {
	case bind.ExprName:
		return ea.Name.Index == eb.Name.Index

	case bind.ExprPlaceholder:
		return true

	case bind.ExprCall:
		if !c.Equal(ea.Call.Callee, eb.Call.Callee) {
			return false
		}
		return c.equalArgs(ea.Call.Args, eb.Call.Args)

	case bind.ExprFun:
		if ea.Fun.IsRecursive != eb.Fun.IsRecursive {
			return false
		}
		if !c.equalParamList(ea.Fun.Params, eb.Fun.Params) {
			return false
		}
		if !c.Equal(ea.Fun.ReturnType, eb.Fun.ReturnType) {
			return false
		}
		return c.Equal(ea.Fun.Body, eb.Fun.Body)

	case bind.ExprForall:
		if !c.equalParamList(ea.Forall.Params, eb.Forall.Params) {
			return false
		}
		return c.Equal(ea.Forall.Output, eb.Forall.Output)

	case bind.ExprMatch:
		if !c.Equal(ea.Match.Matchee, eb.Match.Matchee) {
			return false
		}
		if len(ea.Match.Cases) != len(eb.Match.Cases) {
			return false
		}
		bm := make(map[string]regx.MatchCase, len(eb.Match.Cases))
		for _, cs := range eb.Match.Cases {
			bm[cs.VariantName.Text()] = cs
		}
		for _, ca := range ea.Match.Cases {
			cb, ok := bm[ca.VariantName.Text()]
			if !ok || ca.OutputKind != cb.OutputKind {
				return false
			}
			if ca.OutputKind == bind.OutputExpr && !c.Equal(ca.Output, cb.Output) {
				return false
			}
		}
		return true

	case bind.ExprCheck:
		return c.Equal(ea.Check.Output, eb.Check.Output)
	}
	return false
}

// equalParamList compares two parameter lists per §4.6.3: if both are
// uniquely labeled, comparison is modulo permutation (matching each b-param
// to the a-param with the same label); otherwise positional. Either way,
// dashedness and the parameter's position-relative type must agree.
func (c *Context) equalParamList(a, b regx.ParamList) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	if a.Labeled != b.Labeled {
		return false
	}
	if !a.Labeled {
		for i := range a.Params {
			if a.Params[i].Dashed != b.Params[i].Dashed {
				return false
			}
			if !c.Equal(a.Params[i].Type, b.Params[i].Type) {
				return false
			}
		}
		return true
	}
	used := make([]bool, len(b.Params))
	for _, pa := range a.Params {
		if pa.Label == nil {
			return false
		}
		idx := -1
		for j, pb := range b.Params {
			if !used[j] && pb.Label != nil && *pb.Label == *pa.Label {
				idx = j
				break
			}
		}
		if idx == -1 {
			return false
		}
		used[idx] = true
		pb := b.Params[idx]
		if pa.Dashed != pb.Dashed {
			return false
		}
		if !c.Equal(pa.Type, pb.Type) {
			return false
		}
	}
	return true
}

func (c *Context) equalArgs(a, b regx.ArgList) bool {
	if a.Args.Len() != b.Args.Len() {
		return false
	}
	if a.Labeled != b.Labeled {
		return false
	}
	if !a.Labeled {
		for i := 0; i < a.Args.Len(); i++ {
			if !c.Equal(a.Args.At(i).Value, b.Args.At(i).Value) {
				return false
			}
		}
		return true
	}
	used := make([]bool, b.Args.Len())
	for i := 0; i < a.Args.Len(); i++ {
		aa := a.Args.At(i)
		if aa.Label == nil {
			return false
		}
		idx := -1
		for j := 0; j < b.Args.Len(); j++ {
			bb := b.Args.At(j)
			if !used[j] && bb.Label != nil && *bb.Label == *aa.Label {
				idx = j
				break
			}
		}
		if idx == -1 {
			return false
		}
		used[idx] = true
		if !c.Equal(aa.Value, b.Args.At(idx).Value) {
			return false
		}
	}
	return true
}
