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

// Package rhmap is an open-addressing hash map keyed by byte strings, with
// a "displacement on collision" policy: every occupied slot that is the
// head of its hash bucket links the rest of that bucket's members through
// a doubly linked chain threaded through the underlying array. A slot is a
// bucket head if and only if it points at itself (node.first == its own
// index) -- that single check lets lookup tell a genuine bucket head from
// a foreign node merely parked in this slot because it collided with some
// other key on a prior insert.
//
// This is a direct port of the SkipProbe::HashMap algorithm used by the
// original LightningJSON engine (see original_source/include/LightningJSON/
// third-party/SkipProbe/SkipProbe.hpp), rewritten with array indices in
// place of raw pointers (indices survive a Go slice reallocation; raw
// pointers into a growable slice would not).
package rhmap

import "github.com/dchest/siphash"

const (
	minCapacity = 8
	maxLoad     = 0.75
)

// seed0/seed1 are fixed siphash keys. The map does not need to be
// resistant to adversarially chosen keys (it only ever holds JSON object
// member names from documents the embedder already trusts enough to
// parse), so a fixed seed keeps iteration order reproducible across runs,
// which is convenient for tests and for the "stable between mutations"
// ordering guarantee callers are allowed to rely on.
const (
	seed0 uint64 = 0x9ae16a3b2f90404f
	seed1 uint64 = 0xc949d7c7509e6557
)

type node[V any] struct {
	key   []byte
	value V
	hash  uint64
	used  bool

	// first is the slot index of this bucket's head; a slot is a head
	// iff first == its own index. last is only meaningful on the head
	// and names the tail slot of the chain. next/prev link chain
	// members (including the head) together; -1 is the end sentinel.
	first, last, next, prev int
}

// Map is an open-addressing string-keyed hash map with a bucket count
// that is always a power of two, at least minCapacity, doubling whenever
// the load factor would exceed maxLoad.
type Map[V any] struct {
	nodes []node[V]
	count int
}

// New returns an empty Map with the minimum bucket count.
func New[V any]() *Map[V] {
	m := &Map[V]{}
	m.nodes = freshNodes[V](minCapacity)
	return m
}

func freshNodes[V any](n int) []node[V] {
	nodes := make([]node[V], n)
	for i := range nodes {
		nodes[i].first = -1
		nodes[i].last = -1
		nodes[i].next = -1
		nodes[i].prev = -1
	}
	return nodes
}

// Len returns the number of keys currently stored.
func (m *Map[V]) Len() int { return m.count }

// Cap returns the current bucket count (always a power of two).
func (m *Map[V]) Cap() int { return len(m.nodes) }

func hashOf(key []byte) uint64 {
	return siphash.Hash(seed0, seed1, key)
}

func nearestPowerOf2(v int) int {
	if v < 1 {
		return 1
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	v++
	return v
}

// Reserve grows the map so it can hold at least numItems entries without
// rehashing, if it isn't already that large.
func (m *Map[V]) Reserve(numItems int) {
	minSize := int(float64(numItems) * 1.3333333333333333)
	newSize := nearestPowerOf2(minSize)
	if newSize < minCapacity {
		newSize = minCapacity
	}
	if newSize > len(m.nodes) {
		m.resize(newSize)
	}
}

func (m *Map[V]) growIfNeeded() {
	if float64(m.count) >= maxLoad*float64(len(m.nodes)) {
		m.resize(len(m.nodes) * 2)
	}
}

func (m *Map[V]) resize(newSize int) {
	old := m.nodes
	m.nodes = freshNodes[V](newSize)
	m.count = 0
	for i := range old {
		if old[i].used {
			m.insertHashed(old[i].key, old[i].value, old[i].hash)
		}
	}
}

// findNode returns the index of the node holding key, or -1.
func (m *Map[V]) findNode(key []byte, bucket int) int {
	n := &m.nodes[bucket]
	if !n.used || n.first != bucket {
		return -1
	}
	idx := bucket
	for idx != -1 {
		cur := &m.nodes[idx]
		if bytesEqual(cur.key, key) {
			return idx
		}
		idx = cur.next
	}
	return -1
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// appendToBucket allocates a free slot and links it as the new tail of the
// bucket headed at headIdx, via a linear scan with wraparound starting
// just past the current tail -- the same free-slot search spec.md
// describes for insertion into an existing bucket.
func (m *Map[V]) appendToBucket(headIdx int) int {
	tail := m.nodes[headIdx].last
	idx := tail + 1
	if idx >= len(m.nodes) {
		idx = 0
	}
	for m.nodes[idx].used {
		idx++
		if idx >= len(m.nodes) {
			idx = 0
		}
	}
	m.nodes[tail].next = idx
	m.nodes[idx].prev = tail
	m.nodes[idx].next = -1
	m.nodes[idx].first = headIdx
	m.nodes[idx].last = -1
	m.nodes[headIdx].last = idx
	return idx
}

// unlinkChainMember removes a non-head node from its bucket's doubly
// linked chain without touching its key/value (the caller is either about
// to overwrite the slot or has already copied the data elsewhere).
func (m *Map[V]) unlinkChainMember(idx int) {
	n := &m.nodes[idx]
	head := n.first
	if idx == m.nodes[head].last {
		m.nodes[head].last = n.prev
	}
	if n.prev != -1 {
		m.nodes[n.prev].next = n.next
	}
	if n.next != -1 {
		m.nodes[n.next].prev = n.prev
	}
}

// Insert adds key/value if key is not already present. It reports whether
// the insertion happened; on a duplicate key the existing value is left
// untouched (use Upsert to replace it).
func (m *Map[V]) Insert(key []byte, value V) bool {
	_, inserted := m.CheckedInsert(key, value)
	return inserted
}

// CheckedInsert is Insert, but also returns the value now stored under
// key -- the value just inserted, or the pre-existing one on a duplicate.
func (m *Map[V]) CheckedInsert(key []byte, value V) (V, bool) {
	m.growIfNeeded()
	return m.insertHashed(key, value, hashOf(key))
}

// Upsert inserts key/value, replacing any existing value for key.
func (m *Map[V]) Upsert(key []byte, value V) {
	m.growIfNeeded()
	hash := hashOf(key)
	bucket := int(hash) & (len(m.nodes) - 1)
	if idx := m.findNode(key, bucket); idx != -1 {
		m.nodes[idx].value = value
		return
	}
	m.insertHashed(key, value, hash)
}

func (m *Map[V]) insertHashed(key []byte, value V, hash uint64) (V, bool) {
	bucket := int(hash) & (len(m.nodes) - 1)
	slot := &m.nodes[bucket]

	if !slot.used {
		slot.used = true
		slot.key = key
		slot.value = value
		slot.hash = hash
		slot.first = bucket
		slot.last = bucket
		slot.next = -1
		slot.prev = -1
		m.count++
		return value, true
	}

	if slot.first == bucket {
		// This slot is already the head of its bucket: walk the
		// chain for a duplicate, or append a new tail.
		idx := bucket
		for idx != -1 {
			cur := &m.nodes[idx]
			if bytesEqual(cur.key, key) {
				return cur.value, false
			}
			idx = cur.next
		}
		newIdx := m.appendToBucket(bucket)
		m.nodes[newIdx].key = key
		m.nodes[newIdx].value = value
		m.nodes[newIdx].hash = hash
		m.count++
		return value, true
	}

	// A node belonging to a different bucket is squatting in our home
	// slot. Relocate it to a free slot within its own bucket's chain,
	// then claim this slot as the head of the new bucket.
	foreignHead := slot.first
	newLoc := m.appendToBucket(foreignHead)
	m.nodes[newLoc].key = slot.key
	m.nodes[newLoc].value = slot.value
	m.nodes[newLoc].hash = slot.hash
	m.unlinkChainMember(bucket)

	slot.used = true
	slot.key = key
	slot.value = value
	slot.hash = hash
	slot.first = bucket
	slot.last = bucket
	slot.next = -1
	slot.prev = -1
	m.count++
	return value, true
}

// Get looks up key, returning its value and true, or the zero value and
// false if key is not present.
func (m *Map[V]) Get(key []byte) (V, bool) {
	bucket := int(hashOf(key)) & (len(m.nodes) - 1)
	idx := m.findNode(key, bucket)
	if idx == -1 {
		var zero V
		return zero, false
	}
	return m.nodes[idx].value, true
}

// Contains reports whether key is present.
func (m *Map[V]) Contains(key []byte) bool {
	bucket := int(hashOf(key)) & (len(m.nodes) - 1)
	return m.findNode(key, bucket) != -1
}

// Delete removes key, reporting whether it was present.
func (m *Map[V]) Delete(key []byte) bool {
	bucket := int(hashOf(key)) & (len(m.nodes) - 1)
	head := &m.nodes[bucket]
	if !head.used || head.first != bucket {
		return false
	}

	removeIdx := -1
	for idx := bucket; idx != -1; idx = m.nodes[idx].next {
		if bytesEqual(m.nodes[idx].key, key) {
			removeIdx = idx
			break
		}
	}
	if removeIdx == -1 {
		return false
	}

	if removeIdx == bucket {
		// Removing the head: promote the next chain member into the
		// head slot so lookups keep working without a tombstone.
		next := head.next
		if next != -1 {
			nn := m.nodes[next]
			head.key = nn.key
			head.value = nn.value
			head.hash = nn.hash
			head.next = nn.next
			if nn.next != -1 {
				m.nodes[nn.next].prev = bucket
			}
			if head.last == next {
				head.last = bucket
			}
			m.clearSlot(next)
		} else {
			var zero V
			head.key = nil
			head.value = zero
			head.used = false
			head.first = -1
			head.last = -1
		}
		m.count--
		return true
	}

	m.unlinkChainMember(removeIdx)
	m.clearSlot(removeIdx)
	m.count--
	return true
}

func (m *Map[V]) clearSlot(idx int) {
	var zero V
	n := &m.nodes[idx]
	n.key = nil
	n.value = zero
	n.hash = 0
	n.used = false
	n.first = -1
	n.last = -1
	n.next = -1
	n.prev = -1
}

// Each visits every stored key/value in slot order, which is a function
// of hash values and collision history (not insertion order), but is
// stable across any sequence of reads between two mutations. The
// callback's return value controls iteration: returning false stops it
// early.
func (m *Map[V]) Each(fn func(key []byte, value V) bool) {
	for i := range m.nodes {
		if m.nodes[i].used {
			if !fn(m.nodes[i].key, m.nodes[i].value) {
				return
			}
		}
	}
}

// Keys returns every stored key, in the same order Each would visit them.
func (m *Map[V]) Keys() [][]byte {
	out := make([][]byte, 0, m.count)
	m.Each(func(k []byte, _ V) bool {
		out = append(out, k)
		return true
	})
	return out
}

// BucketHead reports whether slot idx is the head of its bucket -- the
// invariant the whole map's correctness rests on.
func (m *Map[V]) BucketHead(idx int) bool {
	n := &m.nodes[idx]
	return n.used && n.first == idx
}
