// mem_dispatch.go - CPU access dispatcher: the eight entry points of the 68k core

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

type CPUBus interface {
	/*
		CPUBus is what a 68k core needs from its memory: byte, word
		and long accesses plus side-effect free reads for the
		disassembler.

		Values are big-endian. Accesses never fail; misses read
		the invalid sentinel and drop writes.
	*/

	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
	Write8(addr uint32, value uint8)
	Write16(addr uint32, value uint16)
	Write32(addr uint32, value uint32)
	ReadDisassembler16(addr uint32) uint16
	ReadDisassembler32(addr uint32) uint32
}

var _ CPUBus = (*Context)(nil)

func (c *Context) Read8(addr uint32) uint8 {
	return uint8(c.cpuRead(makeAccess(1, false, c.fc), addr, 1))
}

func (c *Context) Read16(addr uint32) uint16 {
	return uint16(c.cpuRead(makeAccess(2, false, c.fc), addr, 2))
}

func (c *Context) Read32(addr uint32) uint32 {
	return c.cpuRead(makeAccess(4, false, c.fc), addr, 4)
}

func (c *Context) Write8(addr uint32, value uint8) {
	c.cpuWrite(makeAccess(1, true, c.fc), addr, 1, uint32(value))
}

func (c *Context) Write16(addr uint32, value uint16) {
	c.cpuWrite(makeAccess(2, true, c.fc), addr, 2, uint32(value))
}

func (c *Context) Write32(addr uint32, value uint32) {
	c.cpuWrite(makeAccess(4, true, c.fc), addr, 4, value)
}

// ReadDisassembler16 reads with MEM_FC_INVALID so special handlers can tell
// the peek apart from a real bus cycle. The CPU trace hook is not called.
func (c *Context) ReadDisassembler16(addr uint32) uint16 {
	return uint16(c.resolveRead(makeAccess(2, false, MEM_FC_INVALID), addr, 2))
}

func (c *Context) ReadDisassembler32(addr uint32) uint32 {
	return c.resolveRead(makeAccess(4, false, MEM_FC_INVALID), addr, 4)
}

func (c *Context) cpuRead(access AccessCode, addr uint32, width int) uint32 {
	v := c.resolveRead(access, addr, width)
	if c.cpuTrace != nil {
		c.notifyCPU(access, addr, v)
	}
	return v
}

func (c *Context) cpuWrite(access AccessCode, addr uint32, width int, value uint32) {
	c.resolveWrite(access, addr, width, value)
	if c.cpuTrace != nil {
		c.notifyCPU(access, addr, value)
	}
}

// resolveRead runs one access through the page of addr: the special chain
// first, then the storage variant of the page. An access running into a
// page that is not a plain continuation of this one is split into bytes.
func (c *Context) resolveRead(access AccessCode, addr uint32, width int) uint32 {
	pg := c.page(addr)
	if pg == nil {
		c.stats.InvalidReads++
		return replicate(c.invalidValue, width)
	}
	if pg.specials != nil {
		if v, ok := specialRead(pg.specials, access, addr); ok {
			return v & widthMask(width)
		}
	}
	if width > 1 && c.crossesPage(pg, addr, width) {
		return c.readSplit(pg, access, addr, width)
	}
	return pg.handler.read(c, pg, access, addr, width)
}

func (c *Context) resolveWrite(access AccessCode, addr uint32, width int, value uint32) {
	pg := c.page(addr)
	if pg == nil {
		c.stats.InvalidWrites++
		return
	}
	value &= widthMask(width)
	if pg.specials != nil && specialWrite(pg.specials, access, addr, value) {
		return
	}
	if width > 1 && c.crossesPage(pg, addr, width) {
		c.writeSplit(pg, access, addr, width, value)
		return
	}
	pg.handler.write(c, pg, access, addr, width, value)
}

func widthMask(width int) uint32 {
	switch width {
	case 1:
		return 0xFF
	case 2:
		return 0xFFFF
	}
	return 0xFFFFFFFF
}
