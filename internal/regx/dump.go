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

package regx

import "github.com/kr/pretty"

// Dump renders every interned expression in r, in allocation order, as a
// `%#v`-style structural dump, for the `-debug` flag of `vellum check`: the
// arena has no pointers to follow, so this is the only way to
// see the whole tree short of walking it by hand.
func (r *Registry) Dump() string {
	var out string
	for i := 0; i < r.exprs.Len(); i++ {
		id := NodeId[Expr](i)
		out += pretty.Sprintf("%d: %# v\n", i, r.Expr(id))
	}
	return out
}
