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

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestArenaReserveThenPatch(t *testing.T) {
	var a arena[string]
	id := a.Reserve()
	qt.Assert(t, qt.Equals(a.Get(id), ""))
	a.Patch(id, "hello")
	qt.Assert(t, qt.Equals(a.Get(id), "hello"))
	qt.Assert(t, qt.Equals(a.Len(), 1))
}

func TestArenaAllocIsStable(t *testing.T) {
	var a arena[int]
	id0 := a.Alloc(10)
	id1 := a.Alloc(20)
	qt.Assert(t, qt.Equals(a.Get(id0), 10))
	qt.Assert(t, qt.Equals(a.Get(id1), 20))
	qt.Assert(t, qt.Equals(int(id0), 0))
	qt.Assert(t, qt.Equals(int(id1), 1))
}

func TestNonEmptySingle(t *testing.T) {
	n := One(42)
	qt.Assert(t, qt.Equals(n.Len(), 1))
	qt.Assert(t, qt.Equals(n.At(0), 42))
	qt.Assert(t, qt.DeepEquals(n.Slice(), []int{42}))
}

func TestNonEmptyWithTail(t *testing.T) {
	n := NewNonEmpty(1, 2, 3)
	qt.Assert(t, qt.Equals(n.Len(), 3))
	qt.Assert(t, qt.Equals(n.At(0), 1))
	qt.Assert(t, qt.Equals(n.At(2), 3))
	qt.Assert(t, qt.DeepEquals(n.Slice(), []int{1, 2, 3}))
}

func TestNonEmptyFromSlicePanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic converting an empty slice")
		}
	}()
	NonEmptyFromSlice[int](nil)
}
