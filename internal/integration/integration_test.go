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

package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/rogpeppe/go-internal/txtar"

	"github.com/vellum-lang/vellum/internal/filetree"
	"github.com/vellum-lang/vellum/internal/ident"
	"github.com/vellum-lang/vellum/internal/pipeline"
	"github.com/vellum-lang/vellum/internal/syntax"
)

func name(s string) syntax.NameComponent { return syntax.NameComponent{Name: ident.New(s)} }

func dotted(parts ...string) syntax.DottedName {
	d := make(syntax.DottedName, len(parts))
	for i, p := range parts {
		d[i] = name(p)
	}
	return d
}

func nameExpr(parts ...string) syntax.Expr {
	return syntax.Expr{Kind: syntax.ExprName, Name: dotted(parts...)}
}

// render mirrors cmd/vellum check's own rendering of a pipeline.Result, so a
// fixture's `out` file is exactly what the CLI would print.
func render(result pipeline.Result) string {
	if len(result.Errors) > 0 {
		return result.Errors.Error()
	}
	out := ""
	for _, w := range result.Warnings {
		out += w.String() + "\n"
	}
	return out + "ok"
}

// buildArchive JSON-encodes each module's tree and formats a txtar archive
// the same shape Load expects: in/root.json plus one in/<path>.json per
// child module, and a golden `out` file.
func buildArchive(t *testing.T, files map[string]*syntax.File, golden string) []byte {
	t.Helper()
	arc := &txtar.Archive{}
	for path, f := range files {
		data, err := json.Marshal(f)
		qt.Assert(t, qt.IsNil(err))
		base := "root"
		if path != "" {
			base = path
		}
		arc.Files = append(arc.Files, txtar.File{Name: fmt.Sprintf("in/%s.json", base), Data: append(data, '\n')})
	}
	arc.Files = append(arc.Files, txtar.File{Name: "out", Data: append([]byte(golden), '\n')})
	return txtar.Format(arc)
}

// greetModuleFixture builds a two-module tree: the root declares a child
// module `greet` and a type referencing one of greet's variants across the
// module boundary, the scenario this harness exists to exercise end to end
// (Load -> Loader.LoadChild -> pipeline.Run) that a single-file fixture like
// internal/pipeline's own tests can't reach.
func greetModuleFixture() map[string]*syntax.File {
	msgType := &syntax.TypeItem{
		Vis:      syntax.VisibilityMod{Kind: syntax.VisGlobal},
		Name:     name("Msg"),
		Variants: []syntax.Variant{{Name: name("Hello"), ReturnType: nameExpr("Msg")}},
	}
	greetFile := &syntax.File{Items: []syntax.Item{
		{Kind: syntax.ItemType, Type: msgType},
	}}

	wrapperType := &syntax.TypeItem{
		Name: name("Wrapper"),
		Variants: []syntax.Variant{{
			Name:       name("V"),
			Params:     syntax.ParamList{Params: []syntax.Param{{Name: name("x"), Type: nameExpr("greet", "Msg")}}},
			ReturnType: nameExpr("Wrapper"),
		}},
	}
	rootFile := &syntax.File{Items: []syntax.Item{
		{Kind: syntax.ItemMod, Mod: &syntax.ModItem{Name: name("greet")}},
		{Kind: syntax.ItemType, Type: wrapperType},
	}}

	return map[string]*syntax.File{"": rootFile, "greet": greetFile}
}

func TestIntegrationAcceptsCrossModuleReference(t *testing.T) {
	data := buildArchive(t, greetModuleFixture(), "ok")

	arc, err := Load(data)
	qt.Assert(t, qt.IsNil(err))

	tree := filetree.New()
	loader := NewLoader(tree, arc)
	result := pipeline.Run(tree, loader, arc.Root(), pipeline.DefaultConfig())

	qt.Assert(t, qt.Equals(len(result.Errors), 0))
	qt.Assert(t, qt.Equals(render(result), arc.Golden))
}

// badGreetModuleFixture is greetModuleFixture with Msg left at its default
// (module-scoped) visibility, which is not visible from the parent module
// that references it, so binding must fail.
func badGreetModuleFixture() map[string]*syntax.File {
	fixture := greetModuleFixture()
	fixture["greet"].Items[0].Type.Vis = syntax.VisibilityMod{}
	return fixture
}

func TestIntegrationRejectsPrivateCrossModuleReference(t *testing.T) {
	data := buildArchive(t, badGreetModuleFixture(), "")

	arc, err := Load(data)
	qt.Assert(t, qt.IsNil(err))

	tree := filetree.New()
	loader := NewLoader(tree, arc)
	result := pipeline.Run(tree, loader, arc.Root(), pipeline.DefaultConfig())

	qt.Assert(t, qt.Not(qt.Equals(len(result.Errors), 0)))
}
