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

// Package retcheck implements the variant return-type validator (§4.3): for
// every `type T(p1..pN) { .V(q1..qM): R }`, R must be, after ignoring spans,
// a call to T applied to T's own parameters — either positionally, in
// declaration order, or uniquely labeled with every parameter label present
// exactly once. A nullary T may be named bare, with no call at all.
package retcheck

import (
	"github.com/vellum-lang/vellum/internal/bind"
	"github.com/vellum-lang/vellum/internal/diag"
	"github.com/vellum-lang/vellum/internal/regx"
)

// Check validates every ADT's variant return types in reg, returning every
// violation found (it does not stop at the first one, so a single bad file
// is reported in full rather than one error at a time).
func Check(reg *regx.Registry) diag.List {
	var errs diag.List
	for _, item := range reg.Items {
		if item.Kind != regx.ItemType {
			continue
		}
		t := item.Type
		for _, v := range t.Variants {
			errs = checkVariant(reg, t, v, errs)
		}
	}
	return errs
}

func checkVariant(reg *regx.Registry, t *regx.TypeItem, v regx.Variant, errs diag.List) diag.List {
	nParams := len(t.Params.Params)
	ret := reg.Expr(v.ReturnType)

	if ret.Kind == bind.ExprName {
		// A bare name referring to T is always an acceptable shape here; the
		// positivity validator's own re-check (§4.5) is what enforces that a
		// non-nullary T's return type must actually be a saturated call.
		if ret.Name.Index != v.SelfIndex {
			return diag.Append(errs, diag.Newf(diag.IllegalVariantReturnType, ret.Pos, nil,
				"variant %s: return type does not refer to enclosing type %s", v.Name, t.Name))
		}
		return errs
	}

	if ret.Kind != bind.ExprCall {
		return diag.Append(errs, diag.Newf(diag.IllegalVariantReturnType, ret.Pos, nil,
			"variant %s: illegal variant return type", v.Name))
	}
	call := ret.Call
	callee := reg.Expr(call.Callee)
	if callee.Kind != bind.ExprName || callee.Name.Index != v.SelfIndex {
		return diag.Append(errs, diag.Newf(diag.IllegalVariantReturnType, ret.Pos, nil,
			"variant %s: return type's callee does not refer to enclosing type %s", v.Name, t.Name))
	}

	args := call.Args.Args.Slice()
	if len(args) != nParams {
		return diag.Append(errs, diag.Newf(diag.VariantReturnTypeArityMismatch, ret.Pos, nil,
			"variant %s: return type applies %s to %d arguments, want %d", v.Name, t.Name, len(args), nParams))
	}

	if !call.Args.Labeled {
		if t.Params.Labeled {
			return diag.Append(errs, diag.Newf(diag.IllegalVariantReturnType, ret.Pos, nil,
				"variant %s: return type arguments must be labeled, matching %s's labeled parameters", v.Name, t.Name))
		}
		for j, a := range args {
			argExpr := reg.Expr(a.Value)
			if argExpr.Kind != bind.ExprName {
				return diag.Append(errs, diag.Newf(diag.VariantReturnTypeNonNameArg, a.Pos, nil,
					"variant %s: return type argument %d is not a name", v.Name, j+1))
			}
			if argExpr.Name.Index != v.ParamIndices[j] {
				return diag.Append(errs, diag.Newf(diag.IllegalVariantReturnType, a.Pos, nil,
					"variant %s: return type argument %d does not refer to %s's parameter %d", v.Name, j+1, t.Name, j+1))
			}
		}
		return errs
	}

	if !t.Params.Labeled {
		return diag.Append(errs, diag.Newf(diag.IllegalVariantReturnType, ret.Pos, nil,
			"variant %s: return type arguments are labeled but %s's parameters are not", v.Name, t.Name))
	}
	seen := make([]bool, nParams)
	for _, a := range args {
		if a.Label == nil {
			return diag.Append(errs, diag.Newf(diag.IllegalVariantReturnType, a.Pos, nil,
				"variant %s: return type argument is missing a label", v.Name))
		}
		idx := -1
		for j, p := range t.Params.Params {
			if p.Label != nil && *p.Label == *a.Label {
				idx = j
				break
			}
		}
		if idx == -1 {
			errs = diag.Append(errs, diag.Newf(diag.IllegalVariantReturnType, a.Pos, nil,
				"variant %s: return type argument labeled %s does not match any parameter of %s", v.Name, *a.Label, t.Name))
			continue
		}
		if seen[idx] {
			errs = diag.Append(errs, diag.Newf(diag.IllegalVariantReturnType, a.Pos, nil,
				"variant %s: return type argument labeled %s given more than once", v.Name, *a.Label))
			continue
		}
		seen[idx] = true
		argExpr := reg.Expr(a.Value)
		if argExpr.Kind != bind.ExprName {
			errs = diag.Append(errs, diag.Newf(diag.VariantReturnTypeNonNameArg, a.Pos, nil,
				"variant %s: return type argument labeled %s is not a name", v.Name, *a.Label))
			continue
		}
		if argExpr.Name.Index != v.ParamIndices[idx] {
			errs = diag.Append(errs, diag.Newf(diag.IllegalVariantReturnType, a.Pos, nil,
				"variant %s: return type argument labeled %s does not refer to the corresponding parameter", v.Name, *a.Label))
		}
	}
	for j, ok := range seen {
		if !ok {
			errs = diag.Append(errs, diag.Newf(diag.VariantReturnTypeArityMismatch, ret.Pos, nil,
				"variant %s: return type is missing label %s", v.Name, *t.Params.Params[j].Label))
		}
	}
	return errs
}
