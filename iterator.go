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

// Iterator walks the children of an array or object value, polymorphic
// over the two in the same way the original's JSONObject::iterator is:
// one type whose Key/Index methods are meaningful depending on what kind
// of container it was built from.
type Iterator struct {
	v     Value
	isObj bool
	idx   int
	keys  [][]byte
	cur   Value
}

// Iterate returns an Iterator over v's children. Calling Iterate on
// anything but an array or object yields an iterator whose first Next
// call reports false.
func (v Value) Iterate() *Iterator {
	it := &Iterator{v: v, idx: -1}
	if v.Type() == Object {
		it.isObj = true
		it.keys = v.h.obj.Keys()
	}
	return it
}

// Next advances the iterator and reports whether a further element was
// available.
func (it *Iterator) Next() bool {
	it.idx++
	switch {
	case it.v.Type() == Array:
		if it.idx >= len(it.v.h.arr) {
			return false
		}
		it.cur = it.v.h.arr[it.idx]
		return true
	case it.isObj:
		if it.idx >= len(it.keys) {
			return false
		}
		child, ok := it.v.h.obj.Get(it.keys[it.idx])
		if !ok {
			return false
		}
		it.cur = child
		return true
	default:
		return false
	}
}

// Value returns the element the most recent Next call advanced to.
func (it *Iterator) Value() Value { return it.cur }

// Key returns the member name of the current element ("" for array
// elements).
func (it *Iterator) Key() string {
	if it.isObj {
		return it.cur.Key()
	}
	return ""
}

// Index returns the position of the current element within its container.
func (it *Iterator) Index() int { return it.idx }

// Type reports the JSON type of the container this iterator walks.
func (it *Iterator) Type() Type { return it.v.Type() }

// Each visits every element of an array or object value in order,
// stopping early if fn returns false. A scalar or Empty value is a no-op,
// matching the teacher's habit (ion.Struct/ion.List) of exposing the same
// Each shape over two different container kinds.
func (v Value) Each(fn func(Value) bool) {
	it := v.Iterate()
	for it.Next() {
		if !fn(it.Value()) {
			return
		}
	}
}
