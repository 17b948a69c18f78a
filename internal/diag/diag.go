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

// Package diag implements the structured error and warning types the core
// exposes (§7): error kinds with source-linked positions, and the
// never-fatal warnings produced by `check` assertions (§4.6.5).
package diag

import (
	"fmt"

	"github.com/vellum-lang/vellum/internal/syntax/token"
)

// Kind tags every error the core can produce (§7).
type Kind int

const (
	_ Kind = iota

	// Binding errors.
	NameNotFound
	NameIsPrivate
	CannotLeakPrivateName
	ExpectedModGotTerm
	ExpectedTermGotMod
	NameClash
	ModFileNotFound
	VisibilityNotAncestorlike
	UselessModImport

	// Structural errors.
	IllegalVariantReturnType
	VariantReturnTypeArityMismatch
	VariantReturnTypeNonNameArg

	// Recursion errors.
	NonSubstructPassedToDecreasingParam
	RecursivelyCalledFunctionWithoutDecreasingParam

	// Positivity errors.
	IllegalVariableAppearance
	NonADTCalleeInReturnType
	ExpectedTypeGotFun
	VariantReturnTypeArgArityMismatch

	// Type errors.
	IllegalTypeExpression
	IllegalCallee
	WrongNumberOfArguments
	CallLabeldnessMismatch
	MissingLabeledCallArg
	ExtraneousLabeledCallArg
	TypeMismatch
	WrongNumberOfMatchCaseParams
	MatchCaseParamLabeldnessMismatch
	MissingOrUndefinedLabeledMatchCaseParam
	NonADTMatchee
	DuplicateMatchCase
	MissingMatchCase
	ExtraneousMatchCase
	MatchCaseIncorrectlyMarkedImpossible
	CannotInferTypeOfEmptyMatch
	AmbiguousMatchCaseOutputType
	CannotInferTypeOfPlaceholder
	UnreachableExpression
	LetStatementTypeContainsPrivateName
)

// Error is the common shape of every diagnostic the core produces.
type Error interface {
	error
	Kind() Kind
	Position() token.Pos
	Path() []string
}

type baseError struct {
	kind Kind
	pos  token.Pos
	path []string
	msg  string
}

func (e *baseError) Error() string      { return e.msg }
func (e *baseError) Kind() Kind         { return e.kind }
func (e *baseError) Position() token.Pos { return e.pos }
func (e *baseError) Path() []string     { return e.path }

// Newf creates an Error of the given kind at the given position.
func Newf(kind Kind, pos token.Pos, path []string, format string, args ...interface{}) Error {
	return &baseError{
		kind: kind,
		pos:  pos,
		path: append([]string(nil), path...),
		msg:  fmt.Sprintf(format, args...),
	}
}

// List is an accumulation of Errors, in encounter order; a nil or empty
// List means no errors.
type List []Error

// Append adds err to a, mirroring the teacher's errors.Append: diagnostics
// accumulate without the caller needing to special-case "first error" vs
// "subsequent error".
func Append(a List, err Error) List {
	if err == nil {
		return a
	}
	return append(a, err)
}

func (l List) Error() string {
	switch len(l) {
	case 0:
		return ""
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0].Error(), len(l)-1)
}

// Bottom is the hot-path error value threaded through the type checker
// (§4.6), playing the same role as the teacher's *adt.Bottom: a first-class
// value rather than a side channel, so evaluation can keep a partial result
// next to the error that produced it.
type Bottom struct {
	Err Error
}

func (b *Bottom) Error() string {
	if b == nil || b.Err == nil {
		return "bottom"
	}
	return b.Err.Error()
}

// Wrap lifts an Error into a *Bottom, or returns nil for a nil Error.
func Wrap(err Error) *Bottom {
	if err == nil {
		return nil
	}
	return &Bottom{Err: err}
}

// AssertionKind distinguishes the two forms of `check` assertion (§3.7, §4.6.5).
type AssertionKind int

const (
	TypeAssertion AssertionKind = iota
	NormalFormAssertion
)

// Warning is a non-fatal diagnostic produced by a `check` assertion. It never
// affects the type of the enclosing expression (§4.6.5).
type Warning struct {
	Kind     AssertionKind
	Pos      token.Pos
	Original string // the pretty-printed source as written
	Rewritten string // the pretty-printed, rewritten/normalized expected value
	Message  string
}

func (w Warning) String() string {
	if w.Rewritten != "" && w.Rewritten != w.Original {
		return fmt.Sprintf("%s: %s (original: %s, rewritten: %s)", w.Pos, w.Message, w.Original, w.Rewritten)
	}
	return fmt.Sprintf("%s: %s", w.Pos, w.Message)
}
