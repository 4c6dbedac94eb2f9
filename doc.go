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

// Package lightningjson is a lazy, non-copying JSON engine.
//
// It parses a JSON document into a navigable, mutable tree without decoding
// any scalar until the caller actually reads it: strings, numbers, and
// booleans are kept as byte spans borrowed from the input buffer, and are
// only unescaped or numerically parsed on demand. Object children are held
// in a custom open-addressing hash map (package rhmap) rather than a
// standard Go map, because the map also has to preserve a stable-between-
// mutations iteration order and support the same displacement-on-collision
// behavior the original C++ engine relies on for O(1) lookup without
// tombstones.
//
// A Value is a cheap, refcounted handle onto a shared holder. Copying a
// Value (Clone) bumps the refcount; Release drops it. A tree obtained from
// Parse borrows from the input slice: if the input outlives the tree this
// is free, but a tree that needs to outlive its input must call DeepCopy
// first.
package lightningjson
