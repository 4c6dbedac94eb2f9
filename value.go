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

import "github.com/ShadauxCat/LightningJSON/internal/pool"

// Value is the user-facing handle onto one node of a JSON tree: a key
// (empty for array elements and the root) plus a pointer to the shared,
// refcounted holder backing the node's data. Value has value semantics --
// copying one (by assignment, passing by value, storing in a slice) does
// not copy the underlying data, only adds a reference. Call Clone to take
// an owned reference explicitly, and Release to give one up.
type Value struct {
	key View
	h   *holder
}

// EmptyValue is the value returned in place of any lookup that found nothing.
// It is always of type Empty and carries no data.
var EmptyValue = Value{h: emptySentinel}

func newValue(h *holder) Value {
	return Value{h: h}
}

// Type reports the value's JSON type tag.
func (v Value) Type() Type {
	if v.h == nil {
		return Empty
	}
	return v.h.typ
}

// strictMode reports whether this value's scalar readers (Int/Uint/Float/
// Bool/Str) should enforce strict type-mismatch errors: for a value read
// out of a Parse call, that call's WithStrict setting; for a value with no
// holder (the zero Value, or EmptyValue), the package-level Strict default.
func (v Value) strictMode() bool {
	if v.h == nil || v.h == emptySentinel {
		return Strict
	}
	return v.h.strict
}

func (v Value) IsEmpty() bool   { return v.Type() == Empty }
func (v Value) IsNull() bool    { return v.Type() == Null }
func (v Value) IsInteger() bool { return v.Type() == Integer }
func (v Value) IsDouble() bool  { return v.Type() == Double }
func (v Value) IsNumber() bool  { return v.Type() == Integer || v.Type() == Double }
func (v Value) IsBoolean() bool { return v.Type() == Boolean }
func (v Value) IsString() bool  { return v.Type() == String }
func (v Value) IsArray() bool   { return v.Type() == Array }
func (v Value) IsObject() bool  { return v.Type() == Object }

// Key returns the member name this value was read from when it was
// obtained from an object's subscript or iterator; it is empty for array
// elements and the root value.
func (v Value) Key() string { return v.key.String() }

// Clone returns a new handle onto the same holder, incrementing its
// refcount. The returned Value must eventually be Released by the caller
// if determinstic cleanup matters; letting it be garbage collected without
// Release is safe but leaks the reference count bookkeeping (harmless,
// since the Go runtime still reclaims the holder once nothing still
// strongly references it through a slice/map anywhere -- see DESIGN.md for
// why this is an acceptable, idiomatic divergence from the original's RAII
// destructor).
func (v Value) Clone() Value {
	if v.h != nil {
		v.h.retain()
	}
	return v
}

// Release gives up this handle's reference to its holder. After Release,
// this Value must not be used again; other live Values onto the same
// holder remain valid.
func (v Value) Release() {
	v.h.release()
}

// Len reports the value's size per spec: object/array member count,
// 1 for any scalar type, 0 for Null or Empty.
func (v Value) Len() int {
	switch v.Type() {
	case Object:
		return v.h.obj.Len()
	case Array:
		return len(v.h.arr)
	case Null, Empty:
		return 0
	default:
		return 1
	}
}

// NewNull returns a new Null value.
func NewNull() Value { return newValue(newHolder(Null, Strict)) }

// NewBool returns a new Boolean value.
func NewBool(b bool) Value {
	h := newHolder(Boolean, Strict)
	if b {
		h.raw = View{data: []byte("true"), owned: true}
	} else {
		h.raw = View{data: []byte("false"), owned: true}
	}
	return newValue(h)
}

// NewInt returns a new Integer value.
func NewInt(n int64) Value {
	h := newHolder(Integer, Strict)
	h.raw = View{data: appendInt(nil, n), owned: true}
	return newValue(h)
}

// NewUint returns a new Integer value from an unsigned magnitude.
func NewUint(n uint64) Value {
	h := newHolder(Integer, Strict)
	h.raw = View{data: appendUint(nil, n), owned: true}
	return newValue(h)
}

// NewDouble returns a new Double value.
func NewDouble(f float64) Value {
	h := newHolder(Double, Strict)
	h.raw = View{data: appendFloat(nil, f), owned: true}
	return newValue(h)
}

// NewString returns a new String value wrapping s. Like every scalar, the
// holder's raw form is the JSON token representation (escaped), so the
// value round-trips through WriteTo/String identically to a string parsed
// from input; Str() unescapes it back to s on read.
func NewString(s string) Value {
	h := newHolder(String, Strict)
	h.raw = View{data: escapeString(nil, []byte(s)), owned: true}
	return newValue(h)
}

// NewArray returns a new, empty Array value.
func NewArray() Value { return newValue(newHolder(Array, Strict)) }

// NewObject returns a new, empty Object value.
func NewObject() Value { return newValue(newHolder(Object, Strict)) }

// ShallowCopy returns a new handle that shares this value's holder (same
// semantics as Clone) but clears the key, matching the original engine's
// ShallowCopy: detach from the parent's member name while still aliasing
// the same underlying data.
func (v Value) ShallowCopy() Value {
	c := v.Clone()
	c.key = View{}
	return c
}

// DeepCopy recursively duplicates the value and all of its descendants
// into freshly owned storage: every borrowed View is committed and every
// child holder is a new, independently refcounted allocation rather than a
// shared one. Use DeepCopy when a subtree must outlive the buffer or tree
// it was read from. Each scalar commit is its own heap allocation; for a
// document with many small strings, DeepCopyWithArena amortizes that into
// a handful of page-sized allocations instead.
func (v Value) DeepCopy() Value {
	return v.deepCopy(nil)
}

// DeepCopyWithArena is DeepCopy, but every committed scalar buffer is
// carved out of a, the same pool allocator internal/pool provides for
// spec.md's page-granularity allocation requirement, instead of coming
// from an individual make([]byte, n) call. This amortizes allocation
// count across many small strings/numbers at the cost of a sharper
// lifetime rule: a must stay alive for at least as long as the returned
// tree -- closing it unmaps the pages backing every scalar still
// referenced by that tree.
func (v Value) DeepCopyWithArena(a *pool.Arena) Value {
	return v.deepCopy(a)
}

func (v Value) deepCopy(a *pool.Arena) Value {
	if v.h == nil {
		return EmptyValue
	}
	switch v.h.typ {
	case Array:
		h := newHolder(Array, v.h.strict)
		h.arr = make([]Value, len(v.h.arr))
		for i, child := range v.h.arr {
			h.arr[i] = child.deepCopy(a)
		}
		return newValue(h)
	case Object:
		h := newHolder(Object, v.h.strict)
		h.obj.Reserve(v.h.obj.Len())
		v.h.obj.Each(func(k []byte, child Value) bool {
			dup := child.deepCopy(a)
			kc := commitBytes(a, k)
			dup.key = View{data: kc, owned: true}
			h.obj.Insert(kc, dup)
			return true
		})
		return newValue(h)
	default:
		h := newHolder(v.h.typ, v.h.strict)
		h.raw = View{data: commitBytes(a, v.h.raw.Bytes()), owned: true}
		return newValue(h)
	}
}

// commitBytes copies b into a freshly owned buffer, pulling the buffer
// from arena a when one is supplied (falling back to a's foreign
// allocator for spans too large for one arena block), or from the Go heap
// otherwise.
func commitBytes(a *pool.Arena, b []byte) []byte {
	if a == nil {
		return append([]byte(nil), b...)
	}
	var dst []byte
	if len(b) > a.BlockSize() {
		dst = a.AllocForeign(len(b))
	} else {
		dst = a.Alloc()[:len(b)]
	}
	copy(dst, b)
	return dst
}
