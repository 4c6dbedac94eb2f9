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

package pool

import "testing"

func TestAllocReuse(t *testing.T) {
	a := New(32)
	b1 := a.Alloc()
	if len(b1) != 32 {
		t.Fatalf("len(b1) = %d, want 32", len(b1))
	}
	a.Free(b1)
	b2 := a.Alloc()
	if len(b2) != 32 {
		t.Fatalf("len(b2) = %d, want 32", len(b2))
	}
	st := a.Stats()
	if st.Reused != 1 {
		t.Fatalf("Reused = %d, want 1", st.Reused)
	}
}

func TestGrowPageCarvesMultipleBlocks(t *testing.T) {
	a := New(64)
	blocks := make([][]byte, 0, 100)
	for i := 0; i < 100; i++ {
		blocks = append(blocks, a.Alloc())
	}
	st := a.Stats()
	if st.Pages == 0 {
		t.Fatal("expected at least one page to be mapped")
	}
	if st.Allocs != 100 {
		t.Fatalf("Allocs = %d, want 100", st.Allocs)
	}
	// each block is independently addressable
	for i, b := range blocks {
		b[0] = byte(i)
	}
	for i, b := range blocks {
		if b[0] != byte(i) {
			t.Fatalf("block %d corrupted: got %d", i, b[0])
		}
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestAllocForeignNotPooled(t *testing.T) {
	a := New(16)
	big := a.AllocForeign(4096)
	if len(big) != 4096 {
		t.Fatalf("len(big) = %d, want 4096", len(big))
	}
	if a.Stats().ForeignAllocs != 1 {
		t.Fatalf("ForeignAllocs = %d, want 1", a.Stats().ForeignAllocs)
	}
}
