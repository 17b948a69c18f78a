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

// Package visib implements the visibility lattice (§3.3): global, or a
// scope rooted at some file in the module tree.
package visib

import "github.com/vellum-lang/vellum/internal/filetree"

// Visibility is global, or rooted at a file tree node.
type Visibility struct {
	global bool
	root   filetree.FileID
}

// Global is the visibility permissive from anywhere.
func Global() Visibility { return Visibility{global: true} }

// ScopedAt is the visibility rooted at root: visible from root and every
// descendant of root.
func ScopedAt(root filetree.FileID) Visibility { return Visibility{root: root} }

// IsGlobal reports whether v is the global visibility.
func (v Visibility) IsGlobal() bool { return v.global }

// Root returns the file the scope is rooted at. Meaningless if IsGlobal.
func (v Visibility) Root() filetree.FileID { return v.root }

// AtLeastAsPermissiveAs reports whether v1 is at least as permissive as v2
// (§3.3): v1 is global, or both are scope-rooted and v1's root is a
// non-strict ancestor of v2's root.
func AtLeastAsPermissiveAs(t *filetree.Tree, v1, v2 Visibility) bool {
	if v1.global {
		return true
	}
	if v2.global {
		// v1 is scoped, v2 is global: v1 cannot be as permissive as global
		// unless v1 is also global, which it is not here.
		return false
	}
	return t.IsAncestor(v1.root, v2.root)
}

// MoreStrictlyPermissiveThan reports whether v1 is *strictly* more
// permissive than v2, used to decide edge-widening on duplicate insertion
// (§4.1 rule 2).
func MoreStrictlyPermissiveThan(t *filetree.Tree, v1, v2 Visibility) bool {
	return AtLeastAsPermissiveAs(t, v1, v2) && !AtLeastAsPermissiveAs(t, v2, v1)
}

// Min returns the more restrictive (intersection) of v1 and v2, used when
// computing a wildcard re-export's effective visibility (§4.1 rule 3): the
// minimum of the declared-at-source visibility and the visibility on the
// `use` statement.
func Min(t *filetree.Tree, v1, v2 Visibility) Visibility {
	if AtLeastAsPermissiveAs(t, v1, v2) {
		return v2
	}
	return v1
}
