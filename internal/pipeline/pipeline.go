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

// Package pipeline orchestrates the whole elaboration core (§2, §5): bind,
// lighten, then the three leaf validators, then the type checker, each
// stage running to completion before the next starts since every later
// stage depends on De Bruijn indices/handles the earlier ones produced.
package pipeline

import (
	"github.com/vellum-lang/vellum/internal/bind"
	"github.com/vellum-lang/vellum/internal/check"
	"github.com/vellum-lang/vellum/internal/diag"
	"github.com/vellum-lang/vellum/internal/filetree"
	"github.com/vellum-lang/vellum/internal/posit"
	"github.com/vellum-lang/vellum/internal/recur"
	"github.com/vellum-lang/vellum/internal/regx"
	"github.com/vellum-lang/vellum/internal/retcheck"
	"github.com/vellum-lang/vellum/internal/syntax"
)

// Config is the flat options struct the driver supplies (§6: "a set of
// configuration flags from outside the core"). Only ShowIndices has any
// bearing on core semantics-adjacent output; the rest are driver-level
// conveniences a real embedder wants.
type Config struct {
	// ShowIndices prints resolved De Bruijn indices alongside names in
	// rendered diagnostics, rather than just the display name.
	ShowIndices bool

	// MaxWarnings caps how many `check`-assertion warnings a Result
	// reports; 0 means unlimited. Diagnostic-only, set by a driver that
	// wants to avoid flooding a terminal.
	MaxWarnings int

	// FailFast stops Run at the first stage to report any error, even
	// though every stage already does this internally; kept as an
	// explicit knob since a driver embedding multiple file trees may want
	// to instead collect every tree's errors before giving up.
	FailFast bool
}

// DefaultConfig is the zero-value Config: indices hidden, no warning cap,
// fail-fast (matching the core's own single-error-at-a-time design, §5).
func DefaultConfig() Config {
	return Config{FailFast: true}
}

// Result is the core's output (§6): either a fully bound, lightened,
// validated, and type-checked registry plus any diagnostic warnings, or a
// list of errors from whichever stage failed first.
type Result struct {
	Registry *check.Context
	Warnings []diag.Warning
	Errors   diag.List
}

// Run binds root (and, depth-first, every `mod` child loader resolves),
// lightens the bound tree into the node registry, then runs the three
// structural validators and the type checker in the fixed order §2
// specifies: a later stage's soundness assumptions depend on an earlier
// stage having already rejected the shapes it doesn't handle.
func Run(tree *filetree.Tree, loader filetree.Loader, root *syntax.File, cfg Config) Result {
	binder := bind.NewBinder(tree, loader)
	boundFile, errs := binder.BindPackage(root)
	if len(errs) > 0 {
		return Result{Errors: errs}
	}

	reg := regx.Lighten(boundFile)

	if errs := retcheck.Check(reg); len(errs) > 0 {
		return Result{Errors: errs}
	}
	if errs := recur.Check(reg); len(errs) > 0 {
		return Result{Errors: errs}
	}
	if errs := posit.Check(reg); len(errs) > 0 {
		return Result{Errors: errs}
	}

	ctx, errs := check.Run(reg, tree)
	if len(errs) > 0 {
		return Result{Errors: errs}
	}

	warnings := ctx.Warnings
	if cfg.MaxWarnings > 0 && len(warnings) > cfg.MaxWarnings {
		warnings = warnings[:cfg.MaxWarnings]
	}
	return Result{Registry: ctx, Warnings: warnings}
}
