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

// Package ident implements identifier names: the fixed set of reserved
// names (§3.1) plus NFC-normalized comparison of standard names.
package ident

import "golang.org/x/text/unicode/norm"

// Reserved is the tag of a reserved name. Reserved names compare by tag,
// never by spelling, so two reserved names are equal iff their tags match.
type Reserved int

const (
	// NotReserved marks a standard, user-written symbol.
	NotReserved Reserved = iota
	Underscore           // _
	TypeZero             // Type (i.e. Type0)
	Mod                  // mod
	Pack                 // pack
	Super1               // super
	Super2
	Super3
	Super4
	Super5
	Super6
	Super7
	Super8
)

// superByDepth maps "how many supers" (1..8) to its tag.
var superByDepth = [...]Reserved{Super1, Super2, Super3, Super4, Super5, Super6, Super7, Super8}

// MaxSuperDepth is the deepest "superN" keyword the language defines.
const MaxSuperDepth = 8

// SuperDepth returns the depth of a super tag (1 for Super1 .. 8 for Super8),
// or 0 if r is not a super tag.
func (r Reserved) SuperDepth() int {
	for i, s := range superByDepth {
		if s == r {
			return i + 1
		}
	}
	return 0
}

// SuperAtDepth returns the reserved tag for "super" repeated depth times
// (depth==1 -> super, depth==2 -> super2, ...), or false if out of range.
func SuperAtDepth(depth int) (Reserved, bool) {
	if depth < 1 || depth > MaxSuperDepth {
		return NotReserved, false
	}
	return superByDepth[depth-1], true
}

// lexicalForm maps the exact source spelling to its reserved tag. Anything
// not in this table is a standard name.
var lexicalForm = map[string]Reserved{
	"_":    Underscore,
	"Type": TypeZero,
	"mod":  Mod,
	"pack": Pack,
}

func init() {
	lexicalForm["super"] = Super1
	for depth := 2; depth <= MaxSuperDepth; depth++ {
		lexicalForm[superSpelling(depth)] = superByDepth[depth-1]
	}
}

func superSpelling(depth int) string {
	if depth <= 1 {
		return "super"
	}
	b := []byte("super")
	return string(b) + itoa(depth)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// Name is an identifier as written in source: a normalized standard symbol,
// or a reserved tag. Two Names compare equal with ==.
type Name struct {
	text     string
	reserved Reserved
}

// New classifies raw source text into a Name, normalizing standard spellings
// to NFC (Unicode Normalization Form C) so that visually identical
// identifiers written with distinct code-point sequences compare equal, per
// §3.1 ("standard names compare by code-point equality" — code points are
// compared only after normalization removes spurious representational
// differences).
func New(raw string) Name {
	if r, ok := lexicalForm[raw]; ok {
		return Name{reserved: r}
	}
	return Name{text: norm.NFC.String(raw)}
}

// IsReserved reports whether n is one of the fixed reserved names.
func (n Name) IsReserved() bool { return n.reserved != NotReserved }

// Reserved returns the reserved tag, or NotReserved for a standard name.
func (n Name) Reserved() Reserved { return n.reserved }

// Text returns the normalized spelling. For reserved names this is their
// canonical spelling (used only for diagnostics).
func (n Name) Text() string {
	if n.reserved == NotReserved {
		return n.text
	}
	return n.reserved.String()
}

// String implements fmt.Stringer.
func (n Name) String() string { return n.Text() }

func (r Reserved) String() string {
	switch r {
	case Underscore:
		return "_"
	case TypeZero:
		return "Type"
	case Mod:
		return "mod"
	case Pack:
		return "pack"
	}
	if depth := r.SuperDepth(); depth > 0 {
		return superSpelling(depth)
	}
	return ""
}
