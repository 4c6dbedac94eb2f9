// Copyright (C) 2024 LightningJSON authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package lightningjson

import "github.com/ShadauxCat/LightningJSON/internal/rhmap"

// holder is the shared, refcounted backing cell for one JSON value. It is
// never used directly by callers; Value wraps a pointer to one.
//
// refs is a plain (non-atomic) counter: a tree is a single-thread object,
// exactly as spec.md's concurrency model describes, so there is no need to
// pay for atomic increments on every Value copy.
type holder struct {
	typ    Type
	raw    View
	arr    []Value
	obj    *rhmap.Map[Value]
	refs   int32
	strict bool
}

// emptySentinel is the single shared read-only Empty holder returned in
// place of any value that is not present. Its refcount is never allowed to
// reach zero: Clone/Release treat it specially instead of tracking it like
// an ordinary holder.
var emptySentinel = &holder{typ: Empty}

// newHolder allocates a holder of type t. strict records, for the lifetime
// of this holder, whether it was produced under strict validation -- a
// Parse(data, WithStrict()) call stamps every holder it creates so that
// later scalar reads (Int/Uint/Float/Bool/Str) honor that call's mode
// instead of only the package-level Strict default, even if Strict is
// flipped afterward or differs for a concurrent Parse of other data.
func newHolder(t Type, strict bool) *holder {
	h := &holder{typ: t, refs: 1, strict: strict}
	switch t {
	case Array:
		h.arr = nil
	case Object:
		h.obj = rhmap.New[Value]()
	}
	return h
}

func (h *holder) retain() {
	if h == emptySentinel {
		return
	}
	h.refs++
}

// release decrements h's refcount, and when it reaches zero, releases
// every child reference the holder was keeping alive (mirroring the
// cascading destructor behavior of the original C++ handle).
func (h *holder) release() {
	if h == emptySentinel || h == nil {
		return
	}
	h.refs--
	if h.refs > 0 {
		return
	}
	switch h.typ {
	case Array:
		for i := range h.arr {
			h.arr[i].Release()
		}
		h.arr = nil
	case Object:
		if h.obj != nil {
			h.obj.Each(func(_ []byte, v Value) bool {
				v.Release()
				return true
			})
			h.obj = nil
		}
	}
}
