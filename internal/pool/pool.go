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

// Package pool is a fixed-block slab allocator backed by page-granularity
// OS mappings, used to amortize the cost of committing many small
// borrowed byte spans into owned buffers during a single
// Value.DeepCopyWithArena call in the root package instead of paying one
// heap allocation per scalar.
//
// An Arena is not safe for concurrent use: it is meant to be owned by a
// single goroutine for the duration of one parse or deep-copy operation,
// mirroring the original engine's thread-local free list -- a block must
// be Freed by whichever Arena Alloc'd it.
package pool

import (
	"fmt"

	"github.com/edsrzf/mmap-go"
)

const pageSize = 4096

// Stats reports allocator activity, mainly useful for tests and tuning
// block sizes against real documents.
type Stats struct {
	Allocs        int
	Frees         int
	Reused        int
	Pages         int
	ForeignAllocs int
}

// Arena hands out fixed-size []byte blocks pulled from mmap'd pages. Blocks
// larger than the arena's block size always come from the system allocator
// (Go's make, tagged "foreign" in Stats) and must not be passed to Free.
type Arena struct {
	blockSize int
	free      [][]byte
	mappings  []mmap.MMap
	stats     Stats
}

// New returns an Arena that hands out blocks of exactly blockSize bytes.
func New(blockSize int) *Arena {
	if blockSize < 1 {
		blockSize = 1
	}
	return &Arena{blockSize: blockSize}
}

// BlockSize returns the fixed block size this arena was created with.
func (a *Arena) BlockSize() int { return a.blockSize }

// Stats returns a snapshot of allocator activity.
func (a *Arena) Stats() Stats { return a.stats }

// Alloc returns a block of exactly BlockSize() bytes, reused from the free
// list if one is available, or carved from a freshly mapped page.
func (a *Arena) Alloc() []byte {
	a.stats.Allocs++
	if n := len(a.free); n > 0 {
		b := a.free[n-1]
		a.free[n-1] = nil
		a.free = a.free[:n-1]
		a.stats.Reused++
		return b
	}
	a.growPage()
	n := len(a.free)
	b := a.free[n-1]
	a.free[n-1] = nil
	a.free = a.free[:n-1]
	return b
}

// growPage maps one OS page (or more, if the block size exceeds a page)
// and carves it into free-list blocks. OS mapping failure is fatal: there
// is no recovery path, matching the original allocator's failure model.
func (a *Arena) growPage() {
	size := pageSize
	if a.blockSize > size {
		size = a.blockSize
	}
	m, err := mmap.MapRegion(nil, size, mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		panic(fmt.Errorf("pool: failed to map %d bytes: %w", size, err))
	}
	a.mappings = append(a.mappings, m)
	raw := []byte(m)
	for len(raw) >= a.blockSize {
		a.free = append(a.free, raw[:a.blockSize:a.blockSize])
		raw = raw[a.blockSize:]
	}
	a.stats.Pages++
}

// Free returns a block obtained from Alloc to the free list. Passing a
// block not obtained from this Arena (or obtained via AllocForeign)
// corrupts the free list; callers must not do that.
func (a *Arena) Free(b []byte) {
	a.free = append(a.free, b[:a.blockSize:a.blockSize])
	a.stats.Frees++
}

// AllocForeign allocates a block larger than the arena's fixed size
// directly from the system allocator. Foreign blocks are never pooled and
// must not be passed to Free.
func (a *Arena) AllocForeign(n int) []byte {
	a.stats.ForeignAllocs++
	return make([]byte, n)
}

// Close unmaps every page this arena has requested from the OS. Pages are
// otherwise never returned to the OS during normal operation -- an
// acceptable lifetime characteristic for an arena scoped to one parse or
// deep-copy call.
func (a *Arena) Close() error {
	var firstErr error
	for _, m := range a.mappings {
		if err := m.Unmap(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.mappings = nil
	a.free = nil
	return firstErr
}
