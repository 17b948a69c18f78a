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

package bind

import "github.com/vellum-lang/vellum/internal/ident"

// scope tracks the single, program-wide context stack (§3.6) as the binder
// walks the file tree depth-first. Every module-level item (a type, each of
// its variants, a let) permanently grows globalLen by one and is reachable
// thereafter only via dot-graph edges recording its level. Transient locals
// (parameter names, match-bound pattern variables, a fun's self-name) are
// additionally pushed onto `locals` so unqualified lookup can find them
// directly, and are popped again on exit from their binder (§3.10).
type scope struct {
	globalLen int
	locals    []localEntry
}

type localEntry struct {
	name  ident.Name
	level int
}

// mark is a saved (globalLen, len(locals)) pair for untainting (§4.1 rule 7).
type mark struct {
	globalLen int
	numLocals int
}

func (s *scope) snapshot() mark {
	return mark{globalLen: s.globalLen, numLocals: len(s.locals)}
}

// restore truncates the scope back to m, discarding any entries pushed
// since. Called on both the success path (explicit pops) and the error
// path (rollback), per §3.10 and §4.1 rule 7.
func (s *scope) restore(m mark) {
	s.globalLen = m.globalLen
	s.locals = s.locals[:m.numLocals]
}

// popLocals drops transient local visibility back to n entries without
// touching globalLen, for callers that pushed a mix of permanent module-level
// entries and transient locals in the same window and only want the locals
// half undone (e.g. a type's own parameters, still live in its variants'
// permanent levels after the type declaration ends).
func (s *scope) popLocals(n int) {
	s.locals = s.locals[:n]
}

// pushGlobal permanently grows the stack by one (a type, variant, or let)
// and returns the level assigned to it.
func (s *scope) pushGlobal() (level int) {
	level = s.globalLen
	s.globalLen++
	return level
}

// pushLocal grows the stack by one transient entry, visible to unqualified
// lookup until the caller restores to a mark taken before this call.
func (s *scope) pushLocal(name ident.Name) (level int) {
	level = s.globalLen
	s.globalLen++
	s.locals = append(s.locals, localEntry{name: name, level: level})
	return level
}

// lookupLocal scans transient locals innermost-first (§4.1 rule 1(b)).
func (s *scope) lookupLocal(name ident.Name) (level int, found bool) {
	for i := len(s.locals) - 1; i >= 0; i-- {
		if s.locals[i].name == name {
			return s.locals[i].level, true
		}
	}
	return 0, false
}

// indexOf converts a level recorded at some earlier point into the index a
// reference at the *current* stack length must use (§3.5: index = len -
// level - 1).
func (s *scope) indexOf(level int) int {
	return s.globalLen - level - 1
}
