// mem_block.go - Block, string and host single value operations

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
	"bytes"
	"encoding/binary"
	"fmt"
)

// contiguous returns the backing bytes from addr to the end of its memory
// entry, cut short at the first page with special handlers. nil when addr
// is not plain memory.
func (c *Context) contiguous(addr uint32) []byte {
	pg := c.page(addr)
	if pg == nil || pg.data == nil || pg.specials != nil {
		return nil
	}
	off := addr & c.pageMask
	run := pg.data[off:]
	n := uint64(c.pageSize - off)
	for idx := addr>>c.pageShift + 1; n < uint64(len(run)); idx++ {
		if c.pages[idx].specials != nil {
			return run[:n:n]
		}
		n += uint64(c.pageSize)
	}
	return run
}

func (c *Context) zeroCopy(addr, size uint32) ([]byte, error) {
	run := c.contiguous(addr)
	if run == nil {
		return nil, fmt.Errorf("%w: $%08X is not plain memory", ErrNoRange, addr)
	}
	if uint64(size) > uint64(len(run)) {
		return nil, fmt.Errorf("%w: $%08X+$%X leaves its memory entry after $%X bytes", ErrNoRange, addr, size, len(run))
	}
	return run[:size:size], nil
}

// GetRange returns the backing memory of [addr, addr+size) when the range
// lies inside one memory entry and touches no special page.
func (c *Context) GetRange(addr, size uint32) ([]byte, error) {
	c.mustLive()
	return c.zeroCopy(addr, size)
}

// GetMaxRange returns the longest zero-copy run starting at addr, or nil.
func (c *Context) GetMaxRange(addr uint32) []byte {
	c.mustLive()
	return c.contiguous(addr)
}

// ReadBlock returns a view of size bytes of backing memory at addr. The view
// aliases emulated memory; copy it to keep a snapshot.
func (c *Context) ReadBlock(addr, size uint32) ([]byte, error) {
	c.mustLive()
	c.notifyAPI(MEM_ACCESS_R_BLOCK, addr, 0, size)
	return c.zeroCopy(addr, size)
}

// WriteBlock stores data at addr. Nothing is written unless the whole block
// fits one memory entry.
func (c *Context) WriteBlock(addr uint32, data []byte) error {
	c.mustLive()
	c.notifyAPI(MEM_ACCESS_W_BLOCK, addr, 0, uint32(len(data)))
	dst, err := c.zeroCopy(addr, uint32(len(data)))
	if err != nil {
		return err
	}
	copy(dst, data)
	return nil
}

// SetBlock fills size bytes at addr with value. Ranges that are not one
// contiguous memory run are filled byte by byte through the page handlers.
// Bytes landing in unmapped space are lost and reported with ErrNoRange
// after the rest of the fill is done.
func (c *Context) SetBlock(addr, size uint32, value uint8) error {
	c.mustLive()
	c.notifyAPI(MEM_ACCESS_BSET, addr, uint32(value), size)
	if dst, err := c.zeroCopy(addr, size); err == nil {
		for i := range dst {
			dst[i] = value
		}
		return nil
	}
	missed := 0
	for i := range size {
		if !c.hostWrite8(addr+i, value) {
			missed++
		}
	}
	if missed > 0 {
		return fmt.Errorf("%w: %d of %d bytes at $%08X unmapped", ErrNoRange, missed, size, addr)
	}
	return nil
}

// CopyBlock copies size bytes from src to dst with memmove semantics.
func (c *Context) CopyBlock(src, dst, size uint32) error {
	c.mustLive()
	c.notifyAPI(MEM_ACCESS_BCOPY, src, dst, size)
	from, errSrc := c.zeroCopy(src, size)
	to, errDst := c.zeroCopy(dst, size)
	if errSrc == nil && errDst == nil {
		copy(to, from)
		return nil
	}

	buf := make([]byte, size)
	missed := 0
	for i := range size {
		v, ok := c.hostRead8(src + i)
		if !ok {
			missed++
		}
		buf[i] = v
	}
	for i, v := range buf {
		if !c.hostWrite8(dst+uint32(i), v) {
			missed++
		}
	}
	if missed > 0 {
		return fmt.Errorf("%w: %d unmapped bytes copying $%X bytes $%08X -> $%08X", ErrNoRange, missed, size, src, dst)
	}
	return nil
}

// hostRead8 reads one byte for the block engine. Specials see the access
// with MEM_FC_INVALID; memory is read regardless of its flags.
func (c *Context) hostRead8(addr uint32) (uint8, bool) {
	pg := c.page(addr)
	if pg == nil {
		return c.invalidValue, false
	}
	if pg.specials != nil {
		if v, ok := specialRead(pg.specials, makeAccess(1, false, MEM_FC_INVALID), addr); ok {
			return uint8(v), true
		}
	}
	switch {
	case pg.data != nil:
		return pg.data[addr&c.pageMask], true
	case pg.entry != nil:
		return c.emptyValue, true
	}
	return c.invalidValue, false
}

func (c *Context) hostWrite8(addr uint32, value uint8) bool {
	pg := c.page(addr)
	if pg == nil {
		return false
	}
	if pg.specials != nil && specialWrite(pg.specials, makeAccess(1, true, MEM_FC_INVALID), addr, uint32(value)) {
		return true
	}
	switch {
	case pg.data != nil:
		pg.data[addr&c.pageMask] = value
		return true
	case pg.entry != nil:
		return true
	}
	return false
}

// ReadBytes copies size bytes from addr byte by byte, crossing entries and
// special pages. Unmapped bytes read as the invalid sentinel. Untraced.
func (c *Context) ReadBytes(addr, size uint32) []byte {
	c.mustLive()
	if run := c.contiguous(addr); uint64(len(run)) >= uint64(size) {
		return bytes.Clone(run[:size])
	}
	out := make([]byte, size)
	for i := range out {
		out[i], _ = c.hostRead8(addr + uint32(i))
	}
	return out
}

// WriteBytes stores data at addr byte by byte like ReadBytes. Bytes that land
// in unmapped space are dropped and reported with ErrNoRange.
func (c *Context) WriteBytes(addr uint32, data []byte) error {
	c.mustLive()
	if run := c.contiguous(addr); uint64(len(run)) >= uint64(len(data)) {
		copy(run, data)
		return nil
	}
	missed := 0
	for i, v := range data {
		if !c.hostWrite8(addr+uint32(i), v) {
			missed++
		}
	}
	if missed > 0 {
		return fmt.Errorf("%w: %d of %d bytes at $%08X unmapped", ErrNoRange, missed, len(data), addr)
	}
	return nil
}

// ReadCString returns the NUL terminated string at addr without the
// terminator. The terminator must lie in the same contiguous run.
func (c *Context) ReadCString(addr uint32) ([]byte, error) {
	c.mustLive()
	run := c.contiguous(addr)
	if run == nil {
		c.notifyAPI(MEM_ACCESS_R_CSTR, addr, 0, 0)
		return nil, fmt.Errorf("%w: C string at $%08X", ErrNoRange, addr)
	}
	n := bytes.IndexByte(run, 0)
	if n < 0 {
		c.notifyAPI(MEM_ACCESS_R_CSTR, addr, 0, 0)
		return nil, fmt.Errorf("%w: C string at $%08X runs over $%X bytes", ErrUnterminated, addr, len(run))
	}
	c.notifyAPI(MEM_ACCESS_R_CSTR, addr, 0, uint32(n))
	return run[:n:n], nil
}

// WriteCString stores s followed by a NUL byte.
func (c *Context) WriteCString(addr uint32, s []byte) error {
	c.mustLive()
	c.notifyAPI(MEM_ACCESS_W_CSTR, addr, 0, uint32(len(s)))
	dst, err := c.zeroCopy(addr, uint32(len(s))+1)
	if err != nil {
		return err
	}
	copy(dst, s)
	dst[len(s)] = 0
	return nil
}

// ReadBString returns the length prefixed string at addr.
func (c *Context) ReadBString(addr uint32) ([]byte, error) {
	c.mustLive()
	run := c.contiguous(addr)
	if len(run) == 0 {
		c.notifyAPI(MEM_ACCESS_R_BSTR, addr, 0, 0)
		return nil, fmt.Errorf("%w: BCPL string at $%08X", ErrNoRange, addr)
	}
	n := int(run[0])
	c.notifyAPI(MEM_ACCESS_R_BSTR, addr, 0, uint32(n))
	if 1+n > len(run) {
		return nil, fmt.Errorf("%w: BCPL string at $%08X of %d bytes leaves its memory entry", ErrNoRange, addr, n)
	}
	return run[1 : 1+n : 1+n], nil
}

// WriteBString stores len(s) as a length byte followed by s.
func (c *Context) WriteBString(addr uint32, s []byte) error {
	c.mustLive()
	c.notifyAPI(MEM_ACCESS_W_BSTR, addr, 0, uint32(len(s)))
	if len(s) > 255 {
		return fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(s))
	}
	dst, err := c.zeroCopy(addr, uint32(len(s))+1)
	if err != nil {
		return err
	}
	dst[0] = uint8(len(s))
	copy(dst[1:], s)
	return nil
}

// RB32 reads a long that the host treats as a BCPL pointer. Only the trace
// tag differs from Peek32.
func (c *Context) RB32(addr uint32) (uint32, error) {
	c.mustLive()
	b, err := c.zeroCopy(addr, 4)
	if err != nil {
		c.notifyAPI(MEM_ACCESS_R_B32, addr, 0, 0)
		return 0, err
	}
	v := binary.BigEndian.Uint32(b)
	c.notifyAPI(MEM_ACCESS_R_B32, addr, v, 0)
	return v, nil
}

func (c *Context) WB32(addr, value uint32) error {
	c.mustLive()
	c.notifyAPI(MEM_ACCESS_W_B32, addr, value, 0)
	b, err := c.zeroCopy(addr, 4)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint32(b, value)
	return nil
}

// Peek8 reads backing memory directly, ignoring flags and special handlers.
func (c *Context) Peek8(addr uint32) (uint8, error) {
	v, err := c.peek(MEM_ACCESS_R8, addr, 1)
	return uint8(v), err
}

func (c *Context) Peek16(addr uint32) (uint16, error) {
	v, err := c.peek(MEM_ACCESS_R16, addr, 2)
	return uint16(v), err
}

func (c *Context) Peek32(addr uint32) (uint32, error) {
	return c.peek(MEM_ACCESS_R32, addr, 4)
}

// Poke8 writes backing memory directly, ignoring flags and special handlers.
func (c *Context) Poke8(addr uint32, value uint8) error {
	return c.poke(MEM_ACCESS_W8, addr, 1, uint32(value))
}

func (c *Context) Poke16(addr uint32, value uint16) error {
	return c.poke(MEM_ACCESS_W16, addr, 2, uint32(value))
}

func (c *Context) Poke32(addr uint32, value uint32) error {
	return c.poke(MEM_ACCESS_W32, addr, 4, value)
}

func (c *Context) peek(access AccessCode, addr uint32, width int) (uint32, error) {
	c.mustLive()
	b, err := c.backing(addr, width)
	if err != nil {
		return 0, err
	}
	var v uint32
	switch width {
	case 1:
		v = uint32(b[0])
	case 2:
		v = uint32(binary.BigEndian.Uint16(b))
	default:
		v = binary.BigEndian.Uint32(b)
	}
	c.notifyAPI(access, addr, v, 0)
	return v, nil
}

func (c *Context) poke(access AccessCode, addr uint32, width int, value uint32) error {
	c.mustLive()
	b, err := c.backing(addr, width)
	if err != nil {
		return err
	}
	switch width {
	case 1:
		b[0] = uint8(value)
	case 2:
		binary.BigEndian.PutUint16(b, uint16(value))
	default:
		binary.BigEndian.PutUint32(b, value)
	}
	c.notifyAPI(access, addr, value, 0)
	return nil
}

// backing returns width bytes of the memory entry at addr, specials or not.
func (c *Context) backing(addr uint32, width int) ([]byte, error) {
	pg := c.page(addr)
	if pg == nil || pg.data == nil {
		return nil, fmt.Errorf("%w: $%08X is not memory", ErrNoRange, addr)
	}
	off := int(addr & c.pageMask)
	if off+width > len(pg.data) {
		return nil, fmt.Errorf("%w: %d byte access at $%08X leaves its memory entry", ErrNoRange, width, addr)
	}
	return pg.data[off : off+width], nil
}
