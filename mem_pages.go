// mem_pages.go - Page descriptors and the memory / empty / unmapped page variants

package m68kmem

import (
	"encoding/binary"
	"strings"
)

// PageKind classifies the storage behind a page, ignoring special handlers.
type PageKind uint8

const (
	PAGE_UNMAPPED PageKind = iota
	PAGE_MEMORY
	PAGE_EMPTY
)

func (k PageKind) String() string {
	switch k {
	case PAGE_MEMORY:
		return "memory"
	case PAGE_EMPTY:
		return "empty"
	}
	return "unmapped"
}

// pageEntry is the descriptor of one page. data is the owning entry's buffer
// from the first byte of this page to the end of the entry, so len(data) is
// the number of bytes left in the entry and accesses may run into following
// pages of the same entry without another lookup.
type pageEntry struct {
	entry    *MemoryEntry
	data     []byte
	handler  pageHandler
	specials []*SpecialEntry
}

// pageHandler is the storage variant of a page.
type pageHandler interface {
	read(c *Context, pg *pageEntry, access AccessCode, addr uint32, width int) uint32
	write(c *Context, pg *pageEntry, access AccessCode, addr uint32, width int, value uint32)
	kind() PageKind
}

type memoryPage struct{}

func (memoryPage) kind() PageKind { return PAGE_MEMORY }

func (memoryPage) read(c *Context, pg *pageEntry, access AccessCode, addr uint32, width int) uint32 {
	if pg.entry.flags&MEM_FLAGS_READ == 0 {
		c.stats.RejectedReads++
		return replicate(c.invalidValue, width)
	}
	off := int(addr & c.pageMask)
	if off+width > len(pg.data) {
		return c.readSplit(pg, access, addr, width)
	}
	switch width {
	case 1:
		return uint32(pg.data[off])
	case 2:
		return uint32(binary.BigEndian.Uint16(pg.data[off:]))
	}
	return binary.BigEndian.Uint32(pg.data[off:])
}

func (memoryPage) write(c *Context, pg *pageEntry, access AccessCode, addr uint32, width int, value uint32) {
	if pg.entry.flags&MEM_FLAGS_WRITE == 0 {
		c.stats.RejectedWrites++
		return
	}
	off := int(addr & c.pageMask)
	if off+width > len(pg.data) {
		c.writeSplit(pg, access, addr, width, value)
		return
	}
	switch width {
	case 1:
		pg.data[off] = uint8(value)
	case 2:
		binary.BigEndian.PutUint16(pg.data[off:], uint16(value))
	default:
		binary.BigEndian.PutUint32(pg.data[off:], value)
	}
}

type emptyPage struct{}

func (emptyPage) kind() PageKind { return PAGE_EMPTY }

func (emptyPage) read(c *Context, pg *pageEntry, access AccessCode, addr uint32, width int) uint32 {
	return replicate(c.emptyValue, width)
}

func (emptyPage) write(c *Context, pg *pageEntry, access AccessCode, addr uint32, width int, value uint32) {
	if pg.entry.flags&MEM_FLAGS_WRITE == 0 {
		c.stats.RejectedWrites++
	}
}

type unmappedPage struct{}

func (unmappedPage) kind() PageKind { return PAGE_UNMAPPED }

func (unmappedPage) read(c *Context, pg *pageEntry, access AccessCode, addr uint32, width int) uint32 {
	c.stats.InvalidReads++
	return replicate(c.invalidValue, width)
}

func (unmappedPage) write(c *Context, pg *pageEntry, access AccessCode, addr uint32, width int, value uint32) {
	c.stats.InvalidWrites++
}

// crossesPage reports whether an access of width bytes at addr runs off page
// pg into a page that has to be resolved on its own: one owned by another
// entry or carrying special handlers.
func (c *Context) crossesPage(pg *pageEntry, addr uint32, width int) bool {
	if addr&c.pageMask+uint32(width) <= c.pageSize {
		return false
	}
	next := c.page(addr + uint32(width) - 1)
	return next == nil || next.specials != nil || next.entry != pg.entry
}

// readSplit assembles a big-endian value byte by byte. Bytes on the first
// page go to its storage, whose chain has already passed the access; the
// rest are resolved through the page that owns them.
func (c *Context) readSplit(pg *pageEntry, access AccessCode, addr uint32, width int) uint32 {
	byteAccess := makeAccess(1, false, access.FunctionCode())
	first := int(c.pageSize - addr&c.pageMask)
	var v uint32
	for i := range width {
		if i < first {
			v = v<<8 | pg.handler.read(c, pg, byteAccess, addr+uint32(i), 1)
			continue
		}
		v = v<<8 | c.resolveRead(byteAccess, addr+uint32(i), 1)
	}
	return v
}

func (c *Context) writeSplit(pg *pageEntry, access AccessCode, addr uint32, width int, value uint32) {
	byteAccess := makeAccess(1, true, access.FunctionCode())
	first := int(c.pageSize - addr&c.pageMask)
	for i := range width {
		b := (value >> uint(8*(width-1-i))) & 0xFF
		if i < first {
			pg.handler.write(c, pg, byteAccess, addr+uint32(i), 1, b)
			continue
		}
		c.resolveWrite(byteAccess, addr+uint32(i), 1, b)
	}
}

// page returns the descriptor for addr, or nil beyond the page table.
func (c *Context) page(addr uint32) *pageEntry {
	idx := addr >> c.pageShift
	if idx >= uint32(len(c.pages)) {
		c.mustLive()
		return nil
	}
	return &c.pages[idx]
}

// PageKind returns the storage variant of page idx.
func (c *Context) PageKind(idx uint32) PageKind {
	c.mustLive()
	if idx >= uint32(len(c.pages)) {
		return PAGE_UNMAPPED
	}
	return c.pages[idx].handler.kind()
}

// PageHasSpecial reports whether page idx carries special handlers.
func (c *Context) PageHasSpecial(idx uint32) bool {
	c.mustLive()
	return idx < uint32(len(c.pages)) && len(c.pages[idx].specials) > 0
}

// PageMapString renders one character per page: '_' unmapped, 'a' writable
// memory, 'o' read-only memory, 'X' empty region, 'S' special handlers.
func (c *Context) PageMapString() string {
	c.mustLive()
	var sb strings.Builder
	sb.Grow(len(c.pages))
	for i := range c.pages {
		sb.WriteByte(pageMapChar(&c.pages[i]))
	}
	return sb.String()
}

func pageMapChar(pg *pageEntry) byte {
	if len(pg.specials) > 0 {
		return 'S'
	}
	switch pg.handler.kind() {
	case PAGE_MEMORY:
		if pg.entry.flags&MEM_FLAGS_WRITE != 0 {
			return 'a'
		}
		return 'o'
	case PAGE_EMPTY:
		return 'X'
	}
	return '_'
}
