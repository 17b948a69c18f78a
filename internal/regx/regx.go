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

// Package regx implements the node registry (§4.2): a single append-only
// arena that interns every AST node into a vector indexed by a typed
// handle, replacing recursive pointer structure with NodeId[T] handles.
// Identity is by handle; structural equality (§4.6.3) is a separate
// traversal over the interned form, done in internal/check.
//
// Handle stability matters beyond memory layout: the definitional-equality
// cache (§4.6.3) is keyed by NodeId pairs, not by Go pointer or struct
// value, so two structurally-identical expressions allocated at different
// times are correctly treated as different occurrences until proven equal.
// (The recursion validator's substructure sets, §4.4, are keyed by De
// Bruijn index instead.)
package regx

// NodeId addresses one interned node of kind T.
type NodeId[T any] int

// arena is a flat, append-only vector of T, indexed by NodeId[T].
type arena[T any] struct {
	items []T
}

// Reserve allocates a slot without a value yet, for the rare case where a
// node's children must reference the node itself before it is fully built.
// The caller must Patch the slot before any reader observes it.
func (a *arena[T]) Reserve() NodeId[T] {
	var zero T
	a.items = append(a.items, zero)
	return NodeId[T](len(a.items) - 1)
}

// Patch back-fills a previously Reserved slot (§4.2: "adding with a
// reserved ID back-patches that slot").
func (a *arena[T]) Patch(id NodeId[T], v T) {
	a.items[id] = v
}

// Alloc interns a fully-built value and returns its handle ("adding a node
// with an unknown ID allocates").
func (a *arena[T]) Alloc(v T) NodeId[T] {
	a.items = append(a.items, v)
	return NodeId[T](len(a.items) - 1)
}

// Get dereferences a handle.
func (a *arena[T]) Get(id NodeId[T]) T {
	return a.items[id]
}

// Len reports how many T have been interned.
func (a *arena[T]) Len() int { return len(a.items) }

// NonEmpty is a list statically known to be non-empty (§4.2): the head is
// stored apart from the tail so that a zero-length NonEmpty cannot be
// constructed by composite literal.
type NonEmpty[T any] struct {
	head T
	tail []T
}

// One builds a NonEmpty of a single element.
func One[T any](head T) NonEmpty[T] { return NonEmpty[T]{head: head} }

// NewNonEmpty builds a NonEmpty from a head and optional tail.
func NewNonEmpty[T any](head T, tail ...T) NonEmpty[T] {
	return NonEmpty[T]{head: head, tail: tail}
}

// Len returns 1 + len(tail).
func (n NonEmpty[T]) Len() int { return 1 + len(n.tail) }

// At returns the i'th element (0-indexed).
func (n NonEmpty[T]) At(i int) T {
	if i == 0 {
		return n.head
	}
	return n.tail[i-1]
}

// Slice materializes the list as a plain slice.
func (n NonEmpty[T]) Slice() []T {
	out := make([]T, 0, n.Len())
	out = append(out, n.head)
	out = append(out, n.tail...)
	return out
}

// NonEmptyFromSlice converts s (len(s) >= 1) into a NonEmpty, panicking if
// s is empty — used only at the boundary where an external invariant
// (§3.7: "non-empty arg list") has already been checked by the caller.
func NonEmptyFromSlice[T any](s []T) NonEmpty[T] {
	if len(s) == 0 {
		panic("regx: NonEmptyFromSlice given an empty slice")
	}
	return NonEmpty[T]{head: s[0], tail: append([]T(nil), s[1:]...)}
}
