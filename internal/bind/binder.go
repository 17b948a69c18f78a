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

// Package bind implements the binder (§4.1): name resolution to De Bruijn
// indices via the dot graph and a stack of locals, with visibility
// enforcement.
package bind

import (
	"fmt"

	"github.com/vellum-lang/vellum/internal/diag"
	"github.com/vellum-lang/vellum/internal/dotgraph"
	"github.com/vellum-lang/vellum/internal/filetree"
	"github.com/vellum-lang/vellum/internal/ident"
	"github.com/vellum-lang/vellum/internal/syntax"
	"github.com/vellum-lang/vellum/internal/syntax/token"
	"github.com/vellum-lang/vellum/internal/visib"
)

// Binder runs the full binder pass over a file tree, threading one
// program-wide scope (§3.6) through a depth-first descent into `mod`
// children (§5: "binder's recursive descent into sub-modules is depth-first
// and deterministic").
type Binder struct {
	tree   *filetree.Tree
	loader filetree.Loader
	graph  *dotgraph.Graph
	scope  scope
	errs   diag.List
}

// NewBinder creates a Binder over an existing file tree and loader. The
// scope starts at globalLen 2: levels 0 and 1 are reserved for the builtin
// universes Type1 and Type0, exactly as check.NewContext seeds them, so the
// first real type/let the binder pushes lands on level 2 in both places.
func NewBinder(tree *filetree.Tree, loader filetree.Loader) *Binder {
	return &Binder{tree: tree, loader: loader, graph: dotgraph.New(), scope: scope{globalLen: 2}}
}

// Graph exposes the dot graph built so far, for diagnostics/tests.
func (b *Binder) Graph() *dotgraph.Graph { return b.graph }

// BindPackage binds the package root and, depth-first, every `mod` child it
// (transitively) declares, returning the whole program's bound items in
// encounter order (which is exactly context order, since every module-level
// item permanently grows the one shared stack).
func (b *Binder) BindPackage(root *syntax.File) (*File, diag.List) {
	var items []Item
	b.bindFile(filetree.Root, root, &items)
	if len(b.errs) > 0 {
		return nil, b.errs
	}
	return &File{Items: items}, nil
}

func (b *Binder) fail(kind diag.Kind, pos token.Pos, path []string, format string, args ...interface{}) {
	b.errs = diag.Append(b.errs, diag.Newf(kind, pos, path, format, args...))
}

// bindFile binds one file's items in source order, appending bound items to
// out. This is where the untainting discipline of §4.1 rule 7 lives: each
// item is bound against a mark taken on entry, and any failure truncates
// the scope back before moving to the next item so that one bad item does
// not corrupt indices for the rest of the file.
func (b *Binder) bindFile(mod filetree.FileID, f *syntax.File, out *[]Item) {
	for _, it := range f.Items {
		m := b.scope.snapshot()
		before := len(b.errs)
		switch it.Kind {
		case syntax.ItemUse:
			b.bindUse(mod, it.Use)
		case syntax.ItemMod:
			b.bindMod(mod, it.Mod, out)
		case syntax.ItemType:
			if ti, ok := b.bindType(mod, it.Type); ok {
				*out = append(*out, Item{Kind: ItemType, Type: ti})
			}
		case syntax.ItemLet:
			if li, ok := b.bindLet(mod, it.Let); ok {
				*out = append(*out, Item{Kind: ItemLet, Let: li})
			}
		}
		if len(b.errs) > before {
			b.scope.restore(m)
		}
	}
}

// resolveVis turns a raw syntax.VisibilityMod into a visib.Visibility,
// defaulting to the containing module's own scope (§4.1: "default = the
// current module's scope").
func (b *Binder) resolveVis(mod filetree.FileID, v syntax.VisibilityMod) (visib.Visibility, bool) {
	switch v.Kind {
	case syntax.VisDefault:
		return visib.ScopedAt(mod), true
	case syntax.VisGlobal:
		return visib.Global(), true
	case syntax.VisPath:
		target, ok := b.resolveModulePath(mod, v.Path)
		if !ok {
			return visib.Visibility{}, false
		}
		return visib.ScopedAt(target), true
	}
	return visib.Visibility{}, false
}

// resolveModulePath resolves a dotted path that must denote a module (used
// for visibility annotations like `(some.mod.path)`), following the same
// anchor rules as term lookup's first component.
func (b *Binder) resolveModulePath(mod filetree.FileID, path syntax.DottedName) (filetree.FileID, bool) {
	cur, rest, ok := b.resolveAnchorAsModule(mod, path[0])
	if !ok {
		return 0, false
	}
	for _, comp := range rest {
		edge, ok := b.graph.Lookup(dotgraph.ModuleRef(cur), comp.Name)
		if !ok {
			b.fail(diag.NameNotFound, comp.Pos, nil, "name not found: %s", comp.Name)
			return 0, false
		}
		if !edge.Target.IsModule {
			b.fail(diag.ExpectedModGotTerm, comp.Pos, nil, "expected mod but name %s refers to term", comp.Name)
			return 0, false
		}
		cur = edge.Target.Module
	}
	_ = path
	return cur, true
}

func (b *Binder) resolveAnchorAsModule(mod filetree.FileID, anchor syntax.NameComponent) (filetree.FileID, []syntax.NameComponent, bool) {
	switch anchor.Name.Reserved() {
	case ident.Mod:
		return mod, nil, true
	case ident.Pack:
		return filetree.Root, nil, true
	}
	if depth := anchor.Name.Reserved().SuperDepth(); depth > 0 {
		a, ok := b.tree.AncestorAtDepth(mod, depth)
		if !ok {
			b.fail(diag.VisibilityNotAncestorlike, anchor.Pos, nil, "visibility was not ancestorlike: %s has no ancestor at depth %d", anchor.Name, depth)
			return 0, nil, false
		}
		return a, nil, true
	}
	// A standard identifier names a visible child module exported from mod.
	edge, ok := b.graph.Lookup(dotgraph.ModuleRef(mod), anchor.Name)
	if !ok {
		b.fail(diag.NameNotFound, anchor.Pos, nil, "name not found: %s", anchor.Name)
		return 0, nil, false
	}
	if !edge.Target.IsModule {
		b.fail(diag.ExpectedModGotTerm, anchor.Pos, nil, "expected mod but name %s refers to term", anchor.Name)
		return 0, nil, false
	}
	return edge.Target.Module, nil, true
}

// lookup resolves a dotted name to a bound Name, implementing §4.1 rule 1
// in full: builtins, then locals, then the dot graph, then reserved
// mod/super*/pack anchors; each dot-graph traversal step re-checks
// visibility against the accessing module mod.
func (b *Binder) lookup(mod filetree.FileID, dotted syntax.DottedName) (*Name, bool) {
	first := dotted[0]
	rest := dotted[1:]

	// (a) builtins: only `Type`.
	if first.Name.Reserved() == ident.TypeZero {
		if len(rest) > 0 {
			b.fail(diag.ExpectedModGotTerm, rest[0].Pos, nil, "expected mod but name Type refers to term")
			return nil, false
		}
		return &Name{Index: b.scope.indexOf(1), Dotted: dottedNames(dotted), Pos: first.Pos}, true
	}

	// (b) locals.
	if !first.Name.IsReserved() {
		if level, ok := b.scope.lookupLocal(first.Name); ok {
			if len(rest) > 0 {
				b.fail(diag.ExpectedModGotTerm, rest[0].Pos, nil, "expected mod but name %s refers to term", first.Name)
				return nil, false
			}
			return &Name{Index: b.scope.indexOf(level), Dotted: dottedNames(dotted), Pos: first.Pos}, true
		}
	}

	// (c) module exports via the dot graph starting at the current file,
	// or (d) reserved mod/super*/pack anchors into the file tree.
	var cur dotgraph.NodeRef
	switch {
	case first.Name.Reserved() == ident.Mod:
		cur = dotgraph.ModuleRef(mod)
	case first.Name.Reserved() == ident.Pack:
		cur = dotgraph.ModuleRef(filetree.Root)
	case first.Name.Reserved().SuperDepth() > 0:
		a, ok := b.tree.AncestorAtDepth(mod, first.Name.Reserved().SuperDepth())
		if !ok {
			b.fail(diag.VisibilityNotAncestorlike, first.Pos, nil, "visibility was not ancestorlike: no ancestor at that depth")
			return nil, false
		}
		cur = dotgraph.ModuleRef(a)
	default:
		edge, ok := b.graph.Lookup(dotgraph.ModuleRef(mod), first.Name)
		if !ok {
			b.fail(diag.NameNotFound, first.Pos, nil, "name not found: %s", first.Name)
			return nil, false
		}
		if !b.visibleFrom(mod, edge.Declared) {
			b.fail(diag.NameIsPrivate, first.Pos, nil, "name is private: %s", first.Name)
			return nil, false
		}
		cur = edge.Target
	}

	if len(rest) == 0 {
		if cur.IsModule {
			b.fail(diag.ExpectedTermGotMod, first.Pos, nil, "expected term but name %s refers to mod", first.Name)
			return nil, false
		}
		return &Name{Index: b.scope.indexOf(cur.Level), Dotted: dottedNames(dotted), Pos: first.Pos}, true
	}

	// A leaf node (a bound type) may itself carry outgoing edges to its own
	// variants (§3.4), so a non-final component resolving to a leaf keeps
	// traversing from it rather than failing — this is how `Nat.S`,
	// `Unit.unit`, and `foo.Private.P` resolve.
	for i, comp := range rest {
		edge, ok := b.graph.Lookup(cur, comp.Name)
		if !ok {
			b.fail(diag.NameNotFound, comp.Pos, nil, "name not found: %s", comp.Name)
			return nil, false
		}
		if !b.visibleFrom(mod, edge.Declared) {
			b.fail(diag.NameIsPrivate, comp.Pos, nil, "name is private: %s", comp.Name)
			return nil, false
		}
		isLast := i == len(rest)-1
		if edge.Target.IsModule && isLast {
			b.fail(diag.ExpectedTermGotMod, comp.Pos, nil, "expected term but name %s refers to mod", comp.Name)
			return nil, false
		}
		if isLast {
			return &Name{Index: b.scope.indexOf(edge.Target.Level), Dotted: dottedNames(dotted), Pos: first.Pos}, true
		}
		cur = edge.Target
	}
	panic("unreachable: empty rest handled above")
}

func (b *Binder) visibleFrom(mod filetree.FileID, declared visib.Visibility) bool {
	return visib.AtLeastAsPermissiveAs(b.tree, declared, visib.ScopedAt(mod))
}

func dottedNames(d syntax.DottedName) []ident.Name {
	out := make([]ident.Name, len(d))
	for i, c := range d {
		out[i] = c.Name
	}
	return out
}

// addEdge adds label->target from start, reporting a NameClash if the
// label already points elsewhere, and enforcing that a new edge's Original
// visibility cannot be widened beyond the source's own original visibility
// (§4.1 rule 2, and the "cannot leak private name" failure of rule 1, which
// also governs edge creation during re-export per §3.3).
func (b *Binder) addEdge(start dotgraph.NodeRef, label ident.Name, e dotgraph.Edge, pos token.Pos) bool {
	if !visib.AtLeastAsPermissiveAs(b.tree, e.Original, e.Declared) {
		b.fail(diag.CannotLeakPrivateName, pos, nil, "cannot leak private name: %s", label)
		return false
	}
	switch b.graph.AddEdge(b.tree, start, label, e) {
	case dotgraph.Clash:
		b.fail(diag.NameClash, pos, nil, "name clash: %s already bound to a different target", label)
		return false
	}
	return true
}

// --- use statements (§4.1 rule 3) -------------------------------------------

func (b *Binder) bindUse(mod filetree.FileID, u *syntax.UseItem) {
	vis, ok := b.resolveVis(mod, u.Vis)
	if !ok {
		return
	}
	anchor := u.Path[0]
	rest := u.Path[1:]

	curModule, remaining, ok := b.resolveAnchorAsModule(mod, anchor)
	if !ok {
		return
	}
	// Walk every component except the final one (which is either imported
	// directly, or expanded as a wildcard).
	walk := append(append([]syntax.NameComponent(nil), remaining...), rest...)
	if len(walk) == 0 {
		if !u.Wildcard {
			b.fail(diag.UselessModImport, u.Pos, nil, "cannot uselessly import mod/super/pack as-is")
			return
		}
	}
	for i := 0; i < len(walk)-boolToInt(!u.Wildcard); i++ {
		comp := walk[i]
		edge, ok := b.graph.Lookup(dotgraph.ModuleRef(curModule), comp.Name)
		if !ok {
			b.fail(diag.NameNotFound, comp.Pos, nil, "name not found: %s", comp.Name)
			return
		}
		if !b.visibleFrom(mod, edge.Declared) {
			b.fail(diag.NameIsPrivate, comp.Pos, nil, "name is private: %s", comp.Name)
			return
		}
		if !edge.Target.IsModule {
			b.fail(diag.ExpectedModGotTerm, comp.Pos, nil, "expected mod but name %s refers to term", comp.Name)
			return
		}
		curModule = edge.Target.Module
	}

	if u.Wildcard {
		for _, le := range b.graph.SortedEdges(dotgraph.ModuleRef(curModule)) {
			if !b.visibleFrom(mod, le.Edge.Declared) {
				continue // invisible children are simply not re-exported
			}
			eff := dotgraph.Edge{
				Target:   le.Edge.Target,
				Source:   le.Edge.Source,
				Declared: visib.Min(b.tree, le.Edge.Declared, vis),
				Original: le.Edge.Original,
			}
			b.addEdge(dotgraph.ModuleRef(mod), le.Label, eff, u.Pos)
		}
		return
	}

	final := walk[len(walk)-1]
	edge, ok := b.graph.Lookup(dotgraph.ModuleRef(curModule), final.Name)
	if !ok {
		b.fail(diag.NameNotFound, final.Pos, nil, "name not found: %s", final.Name)
		return
	}
	if !b.visibleFrom(mod, edge.Declared) {
		b.fail(diag.NameIsPrivate, final.Pos, nil, "name is private: %s", final.Name)
		return
	}
	label := final.Name
	if u.Alias != nil {
		label = u.Alias.Name
	}
	b.addEdge(dotgraph.ModuleRef(mod), label, dotgraph.Edge{
		Target:   edge.Target,
		Source:   final.Name,
		Declared: vis,
		Original: edge.Original,
	}, u.Pos)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// --- mod statements (§4.1 rule 4) -------------------------------------------

func (b *Binder) bindMod(mod filetree.FileID, m *syntax.ModItem, out *[]Item) {
	vis, ok := b.resolveVis(mod, m.Vis)
	if !ok {
		return
	}
	child := b.tree.AddChild(mod, m.Name.Name)
	file, err := b.loader.LoadChild(mod, m.Name.Name)
	if err != nil {
		b.fail(diag.ModFileNotFound, m.Pos, nil, "mod file not found: %s: %v", m.Name.Name, err)
		return
	}
	b.addEdge(dotgraph.ModuleRef(mod), m.Name.Name, dotgraph.Edge{
		Target:   dotgraph.ModuleRef(child),
		Source:   m.Name.Name,
		Declared: vis,
		Original: vis,
	}, m.Pos)
	b.bindFile(child, file, out)
}

// --- type declarations (§4.1 rule 5) ----------------------------------------

func (b *Binder) bindType(mod filetree.FileID, t *syntax.TypeItem) (*TypeItem, bool) {
	vis, ok := b.resolveVis(mod, t.Vis)
	if !ok {
		return nil, false
	}
	level := b.scope.pushGlobal()
	if !b.addEdge(dotgraph.ModuleRef(mod), t.Name.Name, dotgraph.Edge{
		Target:   dotgraph.LeafRef(level),
		Source:   t.Name.Name,
		Declared: vis,
		Original: vis,
	}, t.Pos) {
		return nil, false
	}

	// T's own parameters stay in scope across every variant (a variant's
	// params and return type may refer to them, §4.1 rule 5), but must not
	// leak past the whole type declaration: mark before, restore after.
	m := b.scope.snapshot()
	params, ok := b.bindParamList(mod, t.Params)
	if !ok {
		b.scope.restore(m)
		return nil, false
	}
	tParamLevels := make([]int, len(params.Params))
	for j := range tParamLevels {
		tParamLevels[j] = m.globalLen + j
	}

	variants := make([]Variant, 0, len(t.Variants))
	for _, v := range t.Variants {
		// Each variant's own params are a nested, strictly transient scope:
		// visible while binding this variant's param types and return type,
		// popped again before the next variant is processed so sibling
		// variants never see each other's pattern names.
		vm := b.scope.snapshot()
		vParams, ok := b.bindParamList(mod, v.Params)
		if !ok {
			b.scope.restore(vm)
			b.scope.restore(m)
			return nil, false
		}
		selfIndex := b.scope.indexOf(level)
		paramIndices := make([]int, len(tParamLevels))
		for j, lvl := range tParamLevels {
			paramIndices[j] = b.scope.indexOf(lvl)
		}
		retType, ok := b.bindExpr(mod, v.ReturnType)
		if !ok {
			b.scope.restore(vm)
			b.scope.restore(m)
			return nil, false
		}
		b.scope.restore(vm)

		vLevel := b.scope.pushGlobal()
		// The edge is added out of T's own leaf node, not T's module, so
		// `T.V_i` resolves by following T's leaf then its V_i edge (§3.4: a
		// leaf node may carry outgoing edges); this is how constructors like
		// `Nat.S` or `Unit.unit` are written (§4.1 rule 5).
		if !b.addEdge(dotgraph.LeafRef(level), v.Name.Name, dotgraph.Edge{
			Target:   dotgraph.LeafRef(vLevel),
			Source:   v.Name.Name,
			Declared: vis,
			Original: vis,
		}, v.Pos) {
			b.scope.restore(m)
			return nil, false
		}
		variants = append(variants, Variant{
			Name:         v.Name.Name,
			Params:       vParams,
			ReturnType:   retType,
			SelfIndex:    selfIndex,
			ParamIndices: paramIndices,
			Pos:          v.Pos,
		})
	}
	// Unlike the error paths above, this is the success path: each variant's
	// vLevel was pushed with pushGlobal and must stay live (it's what a later
	// `T.V_i` resolves to), so only T's own param names drop out of
	// unqualified lookup here, not the levels variants were assigned.
	b.scope.popLocals(m.numLocals)

	return &TypeItem{Name: t.Name.Name, Vis: vis, Params: params, Variants: variants, Pos: t.Pos}, true
}

// --- let declarations (§4.1 rule 6) -----------------------------------------

func (b *Binder) bindLet(mod filetree.FileID, l *syntax.LetItem) (*LetItem, bool) {
	vis, ok := b.resolveVis(mod, l.Vis)
	if !ok {
		return nil, false
	}
	transparency := vis // kanc dialect default (§3.9, SPEC_FULL open question)
	if l.Transparency != nil {
		t, ok := b.resolveVis(mod, *l.Transparency)
		if !ok {
			return nil, false
		}
		transparency = t
	}
	if !visib.AtLeastAsPermissiveAs(b.tree, transparency, vis) {
		b.fail(diag.VisibilityNotAncestorlike, l.Pos, nil, "transparency must be at least as restrictive as visibility")
		return nil, false
	}

	// The let's own name is not yet in scope while binding its value.
	value, ok := b.bindExpr(mod, l.Value)
	if !ok {
		return nil, false
	}

	level := b.scope.pushGlobal()
	if !b.addEdge(dotgraph.ModuleRef(mod), l.Name.Name, dotgraph.Edge{
		Target:   dotgraph.LeafRef(level),
		Source:   l.Name.Name,
		Declared: vis,
		Original: vis,
	}, l.Pos) {
		return nil, false
	}
	return &LetItem{Name: l.Name.Name, Vis: vis, Transparency: transparency, Value: value, Pos: l.Pos}, true
}

// --- expressions -------------------------------------------------------------

func (b *Binder) bindParamList(mod filetree.FileID, pl syntax.ParamList) (ParamList, bool) {
	out := ParamList{Labeled: pl.Labeled}
	m := b.scope.snapshot()
	dashedSeen := false
	for _, p := range pl.Params {
		typ, ok := b.bindExpr(mod, p.Type)
		if !ok {
			b.scope.restore(m)
			return ParamList{}, false
		}
		if p.Dashed {
			if dashedSeen {
				b.fail(diag.IllegalTypeExpression, p.Pos, nil, "at most one dashed parameter is allowed")
				b.scope.restore(m)
				return ParamList{}, false
			}
			dashedSeen = true
		}
		var label *ident.Name
		if pl.Labeled {
			l := p.Label.Name
			label = &l
		}
		b.scope.pushLocal(p.Name.Name)
		out.Params = append(out.Params, Param{Label: label, DisplayName: p.Name.Name, Dashed: p.Dashed, Type: typ, Pos: p.Pos})
	}
	return out, true
}

func (b *Binder) bindArgList(mod filetree.FileID, al syntax.ArgList) (ArgList, bool) {
	out := ArgList{Labeled: al.Labeled}
	for _, a := range al.Args {
		v, ok := b.bindExpr(mod, a.Value)
		if !ok {
			return ArgList{}, false
		}
		var label *ident.Name
		if al.Labeled {
			l := a.Label.Name
			label = &l
		}
		out.Args = append(out.Args, Arg{Label: label, Value: v, Pos: a.Pos})
	}
	return out, true
}

func (b *Binder) bindExpr(mod filetree.FileID, e syntax.Expr) (Expr, bool) {
	switch e.Kind {
	case syntax.ExprName:
		n, ok := b.lookup(mod, e.Name)
		if !ok {
			return Expr{}, false
		}
		return Expr{Kind: ExprName, Pos: e.Pos, Name: n}, true

	case syntax.ExprPlaceholder:
		return Expr{Kind: ExprPlaceholder, Pos: e.Pos}, true

	case syntax.ExprCall:
		callee, ok := b.bindExpr(mod, e.Call.Callee)
		if !ok {
			return Expr{}, false
		}
		args, ok := b.bindArgList(mod, e.Call.Args)
		if !ok {
			return Expr{}, false
		}
		return Expr{Kind: ExprCall, Pos: e.Pos, Call: &CallExpr{Callee: callee, Args: args}}, true

	case syntax.ExprFun:
		m := b.scope.snapshot()
		if e.Fun.SelfName != nil {
			b.scope.pushLocal(e.Fun.SelfName.Name)
		}
		params, ok := b.bindParamList(mod, e.Fun.Params)
		if !ok {
			b.scope.restore(m)
			return Expr{}, false
		}
		ret, ok := b.bindExpr(mod, e.Fun.ReturnType)
		if !ok {
			b.scope.restore(m)
			return Expr{}, false
		}
		body, ok := b.bindExpr(mod, e.Fun.Body)
		if !ok {
			b.scope.restore(m)
			return Expr{}, false
		}
		b.scope.restore(m)
		fe := &FunExpr{Params: params, ReturnType: ret, Body: body}
		if e.Fun.SelfName != nil {
			fe.IsRecursive = true
			fe.SelfName = e.Fun.SelfName.Name
		}
		return Expr{Kind: ExprFun, Pos: e.Pos, Fun: fe}, true

	case syntax.ExprMatch:
		matchee, ok := b.bindExpr(mod, e.Match.Matchee)
		if !ok {
			return Expr{}, false
		}
		var cases []MatchCase
		for _, c := range e.Match.Cases {
			mc, ok := b.bindMatchCase(mod, c)
			if !ok {
				return Expr{}, false
			}
			cases = append(cases, mc)
		}
		return Expr{Kind: ExprMatch, Pos: e.Pos, Match: &MatchExpr{Matchee: matchee, Cases: cases}}, true

	case syntax.ExprForall:
		m := b.scope.snapshot()
		params, ok := b.bindParamList(mod, e.Forall.Params)
		if !ok {
			b.scope.restore(m)
			return Expr{}, false
		}
		out, ok := b.bindExpr(mod, e.Forall.Output)
		if !ok {
			b.scope.restore(m)
			return Expr{}, false
		}
		b.scope.restore(m)
		return Expr{Kind: ExprForall, Pos: e.Pos, Forall: &ForallExpr{Params: params, Output: out}}, true

	case syntax.ExprCheck:
		var assertions []Assertion
		for _, a := range e.Check.Assertions {
			left, ok := b.bindExpr(mod, a.Left)
			if !ok {
				return Expr{}, false
			}
			right, ok := b.bindExpr(mod, a.Right)
			if !ok {
				return Expr{}, false
			}
			kind := AssertType
			if a.Kind == syntax.AssertNormalForm {
				kind = AssertNormalForm
			}
			assertions = append(assertions, Assertion{Kind: kind, Left: left, Right: right, Pos: a.Pos})
		}
		out, ok := b.bindExpr(mod, e.Check.Output)
		if !ok {
			return Expr{}, false
		}
		return Expr{Kind: ExprCheck, Pos: e.Pos, Check: &CheckExpr{Assertions: assertions, Output: out}}, true
	}
	panic(fmt.Sprintf("bind: unhandled expr kind %d", e.Kind))
}

// MatchCase binding: the matched variant's params are not yet known at this
// layer (that requires the variant's arity from the ADT, resolved later by
// the type checker per §4.6.1); the binder only pushes the case's own
// pattern-bound names (or, for `...`, defers — see internal/check, which
// re-derives names once the variant is known).
func (b *Binder) bindMatchCase(mod filetree.FileID, c syntax.MatchCase) (MatchCase, bool) {
	m := b.scope.snapshot()
	out := MatchCase{VariantName: c.VariantName.Name, Labeled: c.Params.Labeled, TripleDot: c.TripleDot, Pos: c.Pos}
	for _, p := range c.Params.Params {
		var label *ident.Name
		if c.Params.Labeled {
			l := p.Label.Name
			label = &l
		}
		b.scope.pushLocal(p.Name.Name)
		out.Params = append(out.Params, CaseParam{Label: label, DisplayName: p.Name.Name, Pos: p.Pos})
	}
	switch c.OutputKind {
	case syntax.OutputExpr:
		o, ok := b.bindExpr(mod, c.Output)
		if !ok {
			b.scope.restore(m)
			return MatchCase{}, false
		}
		out.OutputKind = OutputExpr
		out.Output = o
	case syntax.OutputImpossible:
		out.OutputKind = OutputImpossible
	}
	b.scope.restore(m)
	return out, true
}
