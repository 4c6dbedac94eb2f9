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

// View is a non-owning (pointer, length) pair that may later Commit to own
// a copy of its bytes. During parsing every scalar is a slice into the
// parse buffer; View lets such slices flow through the tree without
// copying until the caller forces ownership.
//
// View does not refcount its buffer. Copying a View (struct copy) copies
// only the slice header: a copy of a committed View shares the same owned
// buffer, and Commit on that copy does nothing. Copies taken before Commit
// each get their own buffer when committed.
type View struct {
	data  []byte
	owned bool
}

// ViewOf wraps an existing byte slice without copying it.
func ViewOf(b []byte) View {
	return View{data: b}
}

// ViewString copies s into a new byte slice and wraps it. The returned
// View is not marked owned, so a later Commit copies the bytes once more.
func ViewString(s string) View {
	return View{data: []byte(s)}
}

// Len returns the number of bytes in the view.
func (v View) Len() int { return len(v.data) }

// Bytes returns the raw bytes of the view. Callers must not mutate the
// returned slice of a borrowed (non-owned) view.
func (v View) Bytes() []byte { return v.data }

// At returns the byte at index i.
func (v View) At(i int) byte { return v.data[i] }

// String converts the view to a Go string. This always copies for a
// borrowed view (Go strings are immutable), same cost as a Commit would
// pay, but does not itself transition the view to owned.
func (v View) String() string { return string(v.data) }

// Owned reports whether the view has committed to its own backing buffer.
func (v View) Owned() bool { return v.owned }

// Commit is the one-way borrowed-to-owned transition: if the view is not
// already backed by an owned buffer, it copies its current bytes into a
// freshly allocated slice and rebinds to it. Commit is idempotent per
// instance, but copying a View value (struct copy) before commit and then
// committing both copies allocates two separate buffers -- there is no
// refcounting here, by design.
func (v *View) Commit() {
	if v.owned {
		return
	}
	owned := make([]byte, len(v.data))
	copy(owned, v.data)
	v.data = owned
	v.owned = true
}

// Equal compares bytes, not ownership.
func (v View) Equal(other View) bool {
	if len(v.data) != len(other.data) {
		return false
	}
	for i := range v.data {
		if v.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// EqualBytes compares the view's bytes against a raw byte slice.
func (v View) EqualBytes(b []byte) bool {
	if len(v.data) != len(b) {
		return false
	}
	for i := range v.data {
		if v.data[i] != b[i] {
			return false
		}
	}
	return true
}
