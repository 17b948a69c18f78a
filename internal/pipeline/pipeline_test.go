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

package pipeline

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/vellum-lang/vellum/internal/filetree"
	"github.com/vellum-lang/vellum/internal/ident"
	"github.com/vellum-lang/vellum/internal/syntax"
)

type noopLoader struct{}

func (noopLoader) LoadChild(filetree.FileID, ident.Name) (*syntax.File, error) {
	panic("no mod statements in this test's file")
}

func name(s string) syntax.NameComponent { return syntax.NameComponent{Name: ident.New(s)} }

func dotted(s string) syntax.DottedName { return syntax.DottedName{name(s)} }

func nameExpr(s string) syntax.Expr {
	return syntax.Expr{Kind: syntax.ExprName, Name: dotted(s)}
}

// boolFile declares a nullary two-variant ADT and a non-recursive identity
// function over it:
//
//	type Bool { .True: Bool  .False: Bool }
//	let idBool = fun(x: Bool) Bool { x }
func boolFile() *syntax.File {
	boolType := &syntax.TypeItem{
		Name: name("Bool"),
		Variants: []syntax.Variant{
			{Name: name("True"), ReturnType: nameExpr("Bool")},
			{Name: name("False"), ReturnType: nameExpr("Bool")},
		},
	}
	idLet := &syntax.LetItem{
		Name: name("idBool"),
		Value: syntax.Expr{Kind: syntax.ExprFun, Fun: &syntax.FunExpr{
			Params:     syntax.ParamList{Params: []syntax.Param{{Name: name("x"), Type: nameExpr("Bool")}}},
			ReturnType: nameExpr("Bool"),
			Body:       nameExpr("x"),
		}},
	}
	return &syntax.File{Items: []syntax.Item{
		{Kind: syntax.ItemType, Type: boolType},
		{Kind: syntax.ItemLet, Let: idLet},
	}}
}

func TestRunAcceptsAWellFormedProgram(t *testing.T) {
	result := Run(filetree.New(), noopLoader{}, boolFile(), DefaultConfig())
	qt.Assert(t, qt.Equals(len(result.Errors), 0))
	qt.Assert(t, qt.IsNotNil(result.Registry))
	qt.Assert(t, qt.Equals(len(result.Warnings), 0))
}

// badFile's variant return type refers to an unrelated type, not the
// enclosing ADT, which retcheck must reject.
func badFile() *syntax.File {
	boolType := &syntax.TypeItem{
		Name:     name("Bool"),
		Variants: []syntax.Variant{{Name: name("True"), ReturnType: nameExpr("NotBool")}},
	}
	otherType := &syntax.TypeItem{Name: name("NotBool")}
	return &syntax.File{Items: []syntax.Item{
		{Kind: syntax.ItemType, Type: otherType},
		{Kind: syntax.ItemType, Type: boolType},
	}}
}

func TestRunRejectsBadVariantReturnType(t *testing.T) {
	result := Run(filetree.New(), noopLoader{}, badFile(), DefaultConfig())
	qt.Assert(t, qt.IsNotNil(result.Errors))
	qt.Assert(t, qt.IsNil(result.Registry))
}
