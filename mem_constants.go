// mem_constants.go - Access codes, function codes and region flags for the paged memory

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

// MemFlags describe what the CPU may do with a memory or empty region.
type MemFlags uint8

const (
	MEM_FLAGS_READ  MemFlags = 1
	MEM_FLAGS_WRITE MemFlags = 2
	MEM_FLAGS_TRAPS MemFlags = 4

	MEM_FLAGS_RW  = MEM_FLAGS_READ | MEM_FLAGS_WRITE
	MEM_FLAGS_ALL = MEM_FLAGS_READ | MEM_FLAGS_WRITE | MEM_FLAGS_TRAPS
)

// AccessCode packs width, direction and function code (or API operation kind)
// of a single access. The layout is shared with external trace consumers and
// must not change:
//
//	bits 0-2  width flag (1, 2 or 4 for 8, 16 or 32 bit)
//	bit  3    write
//	bits 4-8  function code, or API operation for API trace calls
type AccessCode uint16

// Bits 0,1,2 signal 8, 16, 32 bit access. Bit 3 is set for writes.
const (
	MEM_ACCESS_R8  AccessCode = 1
	MEM_ACCESS_R16 AccessCode = 2
	MEM_ACCESS_R32 AccessCode = 4
	MEM_ACCESS_W8  AccessCode = 9
	MEM_ACCESS_W16 AccessCode = 10
	MEM_ACCESS_W32 AccessCode = 12

	MEM_ACCESS_WIDTH AccessCode = 7
	MEM_ACCESS_WRITE AccessCode = 8
	MEM_ACCESS_MASK  AccessCode = 15
)

// FunctionCode is the CPU supplied classification of a bus cycle, stored in
// the function code bits of an AccessCode.
type FunctionCode uint16

const (
	MEM_FC_SHIFT = 4

	MEM_FC_MASK       FunctionCode = 0x1F0
	MEM_FC_USER_DATA  FunctionCode = 0x050
	MEM_FC_USER_PROG  FunctionCode = 0x060
	MEM_FC_SUPER_DATA FunctionCode = 0x090
	MEM_FC_SUPER_PROG FunctionCode = 0x0A0
	MEM_FC_INT_ACK    FunctionCode = 0x100
	MEM_FC_INVALID    FunctionCode = 0x1F0

	MEM_FC_DATA_MASK  FunctionCode = 0x010
	MEM_FC_PROG_MASK  FunctionCode = 0x020
	MEM_FC_USER_MASK  FunctionCode = 0x040
	MEM_FC_SUPER_MASK FunctionCode = 0x080
	MEM_FC_INT_MASK   FunctionCode = 0x100
)

// API trace access codes. They reuse the function code bits, so an AccessCode
// is only meaningful together with the hook that delivered it.
const (
	MEM_ACCESS_SPECIAL AccessCode = 0x1F0
	MEM_ACCESS_SWRITE  AccessCode = 0x080
	MEM_ACCESS_EXTRA   AccessCode = 0x100

	MEM_ACCESS_R_BLOCK AccessCode = 0x010
	MEM_ACCESS_W_BLOCK AccessCode = 0x090
	MEM_ACCESS_R_CSTR  AccessCode = 0x020
	MEM_ACCESS_W_CSTR  AccessCode = 0x0A0
	MEM_ACCESS_R_BSTR  AccessCode = 0x030
	MEM_ACCESS_W_BSTR  AccessCode = 0x0B0
	MEM_ACCESS_R_B32   AccessCode = 0x040
	MEM_ACCESS_W_B32   AccessCode = 0x0C0
	MEM_ACCESS_BSET    AccessCode = 0x100
	MEM_ACCESS_BCOPY   AccessCode = 0x110
)

const (
	DEFAULT_PAGE_SHIFT = 16 // 64 KiB pages
	MIN_PAGE_SHIFT     = 8
	MAX_PAGE_SHIFT     = 24

	// Upper bound on delegate hops inside one special chain node so a
	// misbehaving handler pair cannot loop forever on the hot path.
	maxDelegateHops = 16
)
