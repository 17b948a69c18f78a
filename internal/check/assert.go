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
)

// evalAssertions implements §4.6.5: every assertion in ce is evaluated for
// its diagnostic value only. Nothing here can fail the surrounding Check
// expression; mismatches and `?` holes become warnings appended to
// c.Warnings.
func (c *Context) evalAssertions(ce *regx.CheckExpr) {
	for _, a := range ce.Assertions {
		switch a.Kind {
		case bind.AssertType:
			c.evalTypeAssertion(a)
		case bind.AssertNormalForm:
			c.evalNormalFormAssertion(a)
		}
	}
}

func (c *Context) evalTypeAssertion(a regx.Assertion) {
	if c.Reg.Expr(a.Left).Kind == bind.ExprPlaceholder {
		expected := c.eval(a.Right)
		c.Warnings = append(c.Warnings, diag.Warning{
			Kind: diag.TypeAssertion, Pos: a.Pos,
			Rewritten: c.sprint(expected),
			Message:   "hole: expected type is " + c.sprint(expected),
		})
		return
	}

	actual, err := c.Infer(a.Left)
	if err != nil {
		c.Warnings = append(c.Warnings, diag.Warning{
			Kind: diag.TypeAssertion, Pos: a.Pos,
			Message: "could not infer a type for this expression: " + err.Error(),
		})
		return
	}
	actual = c.eval(actual)
	expected := c.eval(a.Right)
	if !c.Equal(actual, expected) {
		c.Warnings = append(c.Warnings, diag.Warning{
			Kind: diag.TypeAssertion, Pos: a.Pos,
			Original:  c.sprint(actual),
			Rewritten: c.sprint(expected),
			Message:   "asserted type does not match the inferred type",
		})
	}
}

func (c *Context) evalNormalFormAssertion(a regx.Assertion) {
	if c.Reg.Expr(a.Right).Kind == bind.ExprPlaceholder {
		actual := c.eval(a.Left)
		c.Warnings = append(c.Warnings, diag.Warning{
			Kind: diag.NormalFormAssertion, Pos: a.Pos,
			Rewritten: c.sprint(actual),
			Message:   "hole: normal form is " + c.sprint(actual),
		})
		return
	}

	lhs := c.eval(a.Left)
	rhs := c.eval(a.Right)
	if !c.Equal(lhs, rhs) {
		c.Warnings = append(c.Warnings, diag.Warning{
			Kind: diag.NormalFormAssertion, Pos: a.Pos,
			Original:  c.sprint(lhs),
			Rewritten: c.sprint(rhs),
			Message:   "asserted normal form does not match",
		})
	}
}
