// mem_region.go - Region allocator: memory and empty entries bound to page ranges

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package m68kmem

import (
	"fmt"
	"slices"
)

type MemoryEntry struct {
	/*
		MemoryEntry is one registered region: either a backed memory
		buffer or an empty region answering with the empty sentinel.

		An entry owns its pages exclusively. Ranges of different
		entries never overlap.
	*/

	startPage uint32
	numPages  uint32
	byteSize  uint64
	flags     MemFlags
	empty     bool

	data   []byte
	mapped bool
	ctx    *Context
}

func (e *MemoryEntry) StartPage() uint32 { return e.startPage }
func (e *MemoryEntry) NumPages() uint32  { return e.numPages }
func (e *MemoryEntry) ByteSize() uint64  { return e.byteSize }
func (e *MemoryEntry) Flags() MemFlags   { return e.flags }
func (e *MemoryEntry) IsEmpty() bool     { return e.empty }

// StartAddr returns the first address covered by the entry.
func (e *MemoryEntry) StartAddr() uint32 {
	return e.startPage << e.ctx.pageShift
}

// EndAddr returns the last address covered by the entry (inclusive).
func (e *MemoryEntry) EndAddr() uint32 {
	return uint32(uint64(e.startPage)<<e.ctx.pageShift + e.byteSize - 1)
}

func (e *MemoryEntry) Contains(addr uint32) bool {
	return addr >= e.StartAddr() && addr <= e.EndAddr()
}

// Data returns the backing buffer of a memory entry, nil for empty regions.
// The slice stays valid until the entry is removed or the context is freed.
func (e *MemoryEntry) Data() []byte {
	return e.data
}

func (e *MemoryEntry) String() string {
	kind := "memory"
	if e.empty {
		kind = "empty"
	}
	return fmt.Sprintf("%s pages %d+%d ($%08X-$%08X) flags %s", kind, e.startPage, e.numPages, e.StartAddr(), e.EndAddr(), e.flags)
}

func (e *MemoryEntry) release() {
	if err := releaseBuffer(e.data, e.mapped); err != nil {
		panic(fmt.Sprintf("m68kmem: releasing %d byte buffer at page %d: %v", e.byteSize, e.startPage, err))
	}
	e.data = nil
	e.ctx = nil
}

func (f MemFlags) String() string {
	b := []byte("---")
	if f&MEM_FLAGS_READ != 0 {
		b[0] = 'r'
	}
	if f&MEM_FLAGS_WRITE != 0 {
		b[1] = 'w'
	}
	if f&MEM_FLAGS_TRAPS != 0 {
		b[2] = 't'
	}
	return string(b)
}

// AddMemory allocates a zero filled buffer for numPages pages starting at
// startPage and binds it to those pages.
func (c *Context) AddMemory(startPage, numPages uint32, flags MemFlags) (*MemoryEntry, error) {
	c.mustLive()
	if err := c.checkUnowned(startPage, numPages); err != nil {
		return nil, err
	}
	size := uint64(numPages) << c.pageShift
	data, mapped, err := allocBuffer(size, c.heapOnly)
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes for pages %d+%d: %v", ErrAlloc, size, startPage, numPages, err)
	}
	e := &MemoryEntry{
		startPage: startPage,
		numPages:  numPages,
		byteSize:  size,
		flags:     flags,
		data:      data,
		mapped:    mapped,
		ctx:       c,
	}
	c.bind(e)
	return e, nil
}

// AddEmpty registers an empty region. Reads return the empty sentinel;
// writes are dropped, and counted as rejected unless flags allow writing.
func (c *Context) AddEmpty(startPage, numPages uint32, flags MemFlags) (*MemoryEntry, error) {
	c.mustLive()
	if err := c.checkUnowned(startPage, numPages); err != nil {
		return nil, err
	}
	e := &MemoryEntry{
		startPage: startPage,
		numPages:  numPages,
		byteSize:  uint64(numPages) << c.pageShift,
		flags:     flags,
		empty:     true,
		ctx:       c,
	}
	c.bind(e)
	return e, nil
}

// RemoveMemory unbinds a memory or empty entry and releases its buffer.
// Its pages become unmapped; special handlers on them stay in place.
func (c *Context) RemoveMemory(e *MemoryEntry) error {
	c.mustLive()
	if e == nil || e.ctx != c {
		return ErrUnknownEntry
	}
	for i := e.startPage; i < e.startPage+e.numPages; i++ {
		pg := &c.pages[i]
		pg.entry = nil
		pg.data = nil
		pg.handler = unmappedPage{}
	}
	c.entries = slices.DeleteFunc(c.entries, func(x *MemoryEntry) bool { return x == e })
	e.release()
	return nil
}

// checkUnowned validates a registration range before anything is touched,
// keeping registration all-or-nothing.
func (c *Context) checkUnowned(startPage, numPages uint32) error {
	if err := c.checkRange(startPage, numPages); err != nil {
		return err
	}
	for i := startPage; i < startPage+numPages; i++ {
		if owner := c.pages[i].entry; owner != nil {
			return fmt.Errorf("%w: page %d owned by %s", ErrOverlap, i, owner)
		}
	}
	return nil
}

func (c *Context) bind(e *MemoryEntry) {
	var handler pageHandler = memoryPage{}
	if e.empty {
		handler = emptyPage{}
	}
	for i := range e.numPages {
		pg := &c.pages[e.startPage+i]
		pg.entry = e
		pg.handler = handler
		if !e.empty {
			pg.data = e.data[uint64(i)<<c.pageShift:]
		}
	}
	c.entries = append(c.entries, e)
}

// Entries returns the registered entries in insertion order.
func (c *Context) Entries() []*MemoryEntry {
	c.mustLive()
	return slices.Clone(c.entries)
}

// FindEntry returns the entry owning addr, or nil.
func (c *Context) FindEntry(addr uint32) *MemoryEntry {
	pg := c.page(addr)
	if pg == nil {
		return nil
	}
	return pg.entry
}

// GetMemoryFlags returns the flags of the entry owning addr.
func (c *Context) GetMemoryFlags(addr uint32) (MemFlags, bool) {
	e := c.FindEntry(addr)
	if e == nil {
		return 0, false
	}
	return e.flags, true
}
