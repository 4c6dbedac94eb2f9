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

// Get looks up key on an object value, returning EmptyValue if this value
// is not an object or the key is absent -- mirroring the original's
// read-only operator[], which returns the shared Empty sentinel rather
// than erroring on a missing member.
func (v Value) Get(key string) Value {
	if v.Type() != Object {
		return EmptyValue
	}
	child, ok := v.h.obj.Get([]byte(key))
	if !ok {
		return EmptyValue
	}
	return child
}

// GetOrInsert is the mutable counterpart to Get: it behaves like the
// original's write-subscript operator[]. If this value is not an object,
// it returns InvalidJSONError. If key is absent, a new Empty-typed child
// is inserted and returned; if present, the existing child is returned
// unchanged.
func (v Value) GetOrInsert(key string) (Value, error) {
	if v.Type() != Object {
		return Value{}, &InvalidJSONError{Reason: "cannot subscript a non-object value by key", Offset: -1}
	}
	kb := append([]byte(nil), key...)
	if existing, ok := v.h.obj.Get(kb); ok {
		return existing, nil
	}
	fresh := newValue(newHolder(Empty, v.h.strict))
	fresh.key = ViewOf(kb)
	v.h.obj.Insert(kb, fresh)
	return fresh, nil
}

// Insert adds value under key if key is not already present, matching the
// original's silent-no-op-on-duplicate Insert family: an existing member
// is left untouched and Insert reports false. It returns InvalidJSONError
// if this value is not an object.
func (v Value) Insert(key string, value Value) (bool, error) {
	if v.Type() != Object {
		return false, &InvalidJSONError{Reason: "cannot insert into a non-object value", Offset: -1}
	}
	kb := append([]byte(nil), key...)
	value = value.Clone()
	value.key = ViewOf(kb)
	if !v.h.obj.Insert(kb, value) {
		// Duplicate key: the existing member is left untouched, matching
		// the original engine's CheckedInsert semantics, so this clone's
		// reference must be given back (see parser.go's parseObject for
		// the same pattern on a parse-time duplicate key).
		value.Release()
		return false, nil
	}
	return true, nil
}

// Has reports whether this value is an object containing key.
func (v Value) Has(key string) bool {
	if v.Type() != Object {
		return false
	}
	return v.h.obj.Contains([]byte(key))
}

// Exists is a synonym for Has: a presence probe that avoids materializing
// the Empty sentinel.
func (v Value) Exists(key string) bool { return v.Has(key) }

// Keys returns the member names of an object value, in the hash map's
// iteration order (unspecified, but stable between mutations). A
// non-object value returns nil.
func (v Value) Keys() []string {
	if v.Type() != Object {
		return nil
	}
	raw := v.h.obj.Keys()
	out := make([]string, len(raw))
	for i, k := range raw {
		out[i] = string(k)
	}
	return out
}

// Values returns the member values of an object value, in the same order
// as Keys. A non-object value returns nil.
func (v Value) Values() []Value {
	if v.Type() != Object {
		return nil
	}
	out := make([]Value, 0, v.h.obj.Len())
	v.h.obj.Each(func(_ []byte, child Value) bool {
		out = append(out, child)
		return true
	})
	return out
}
