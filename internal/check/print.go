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
	"fmt"
	"strings"

	"github.com/vellum-lang/vellum/internal/bind"
	"github.com/vellum-lang/vellum/internal/regx"
)

// sprint renders id for a diagnostic's Original/Rewritten fields. It is
// deliberately minimal (no precedence-aware parenthesization beyond calls):
// these strings are a human hint alongside the source position, not a
// format any caller re-parses.
func (c *Context) sprint(id regx.ExprId) string {
	var b strings.Builder
	c.sprintTo(&b, id)
	return b.String()
}

func (c *Context) sprintTo(b *strings.Builder, id regx.ExprId) {
	e := c.Reg.Expr(id)
	switch e.Kind {
	case bind.ExprName:
		entry := c.EntryAt(e.Name.Index)
		if entry.Name.Text() != "" {
			b.WriteString(entry.Name.Text())
		} else {
			fmt.Fprintf(b, "#%d", e.Name.Index)
		}

	case bind.ExprPlaceholder:
		b.WriteString("?")

	case bind.ExprCall:
		c.sprintTo(b, e.Call.Callee)
		b.WriteString("(")
		for i := 0; i < e.Call.Args.Args.Len(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			a := e.Call.Args.Args.At(i)
			if a.Label != nil {
				b.WriteString(a.Label.Text())
				b.WriteString(": ")
			}
			c.sprintTo(b, a.Value)
		}
		b.WriteString(")")

	case bind.ExprFun:
		if e.Fun.IsRecursive {
			b.WriteString(e.Fun.SelfName.Text())
		}
		b.WriteString("fun(")
		c.sprintParams(b, e.Fun.Params)
		b.WriteString(") ")
		c.sprintTo(b, e.Fun.ReturnType)
		b.WriteString(" { ")
		c.sprintTo(b, e.Fun.Body)
		b.WriteString(" }")

	case bind.ExprForall:
		b.WriteString("forall(")
		c.sprintParams(b, e.Forall.Params)
		b.WriteString(") ")
		c.sprintTo(b, e.Forall.Output)

	case bind.ExprMatch:
		b.WriteString("match ")
		c.sprintTo(b, e.Match.Matchee)
		b.WriteString(" { ... }")

	case bind.ExprCheck:
		b.WriteString("check { ... } ")
		c.sprintTo(b, e.Check.Output)
	}
}

func (c *Context) sprintParams(b *strings.Builder, pl regx.ParamList) {
	for i, p := range pl.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.Dashed {
			b.WriteString("-")
		}
		if p.Label != nil {
			b.WriteString(p.Label.Text())
			b.WriteString(": ")
		}
		c.sprintTo(b, p.Type)
	}
}
