// heat.go - Per-page access counters fed by the trace hooks

package main

import (
	"cmp"
	"slices"

	"github.com/intuitionamiga/m68kmem"
)

// PageHeat is the access count of one page.
type PageHeat struct {
	Page   uint32
	Reads  uint64
	Writes uint64
}

// Heat counts reads and writes per page. CPU accesses count once per
// access, block operations once per page they cover.
type Heat struct {
	shift  uint
	reads  []uint64
	writes []uint64
}

func NewHeat(numPages uint32, pageShift uint) *Heat {
	return &Heat{
		shift:  pageShift,
		reads:  make([]uint64, numPages),
		writes: make([]uint64, numPages),
	}
}

// CPU records one CPU access.
func (h *Heat) CPU(access m68kmem.AccessCode, addr uint32) {
	h.mark(access.IsWrite(), addr, uint32(access.Width()))
}

// API records a host side operation by the span it covers.
func (h *Heat) API(access m68kmem.AccessCode, addr, value, extra uint32) {
	switch access.APIKind() {
	case m68kmem.MEM_ACCESS_BCOPY:
		h.mark(false, addr, extra)
		h.mark(true, value, extra)
	case m68kmem.MEM_ACCESS_BSET, m68kmem.MEM_ACCESS_W_BLOCK, m68kmem.MEM_ACCESS_W_CSTR, m68kmem.MEM_ACCESS_W_BSTR:
		h.mark(true, addr, max(extra, 1))
	case m68kmem.MEM_ACCESS_R_BLOCK, m68kmem.MEM_ACCESS_R_CSTR, m68kmem.MEM_ACCESS_R_BSTR:
		h.mark(false, addr, max(extra, 1))
	case m68kmem.MEM_ACCESS_W_B32:
		h.mark(true, addr, 4)
	case m68kmem.MEM_ACCESS_R_B32:
		h.mark(false, addr, 4)
	default:
		// peek and poke carry a plain access width
		h.mark(access.IsWrite(), addr, uint32(max(access.Width(), 1)))
	}
}

func (h *Heat) mark(write bool, addr, size uint32) {
	if size == 0 {
		return
	}
	counters := h.reads
	if write {
		counters = h.writes
	}
	first := uint64(addr) >> h.shift
	last := (uint64(addr) + uint64(size) - 1) >> h.shift
	for p := first; p <= last && p < uint64(len(counters)); p++ {
		counters[p]++
	}
}

// Page returns the counters of page idx.
func (h *Heat) Page(idx uint32) (reads, writes uint64) {
	if idx >= uint32(len(h.reads)) {
		return 0, 0
	}
	return h.reads[idx], h.writes[idx]
}

func (h *Heat) Reset() {
	clear(h.reads)
	clear(h.writes)
}

// Top returns up to n touched pages, busiest first.
func (h *Heat) Top(n int) []PageHeat {
	var pages []PageHeat
	for i := range h.reads {
		if h.reads[i] == 0 && h.writes[i] == 0 {
			continue
		}
		pages = append(pages, PageHeat{Page: uint32(i), Reads: h.reads[i], Writes: h.writes[i]})
	}
	slices.SortStableFunc(pages, func(a, b PageHeat) int {
		return cmp.Compare(b.Reads+b.Writes, a.Reads+a.Writes)
	})
	if len(pages) > n {
		pages = pages[:n]
	}
	return pages
}
