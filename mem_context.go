// mem_context.go - Memory context: page table lifecycle, sentinels and statistics

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

/*
mem_context.go - Memory Context for the paged 68k memory subsystem

The Context owns the whole 32-bit address space seen by one emulated CPU. It
is created once with New (sized by page count), mutated only through the
region and special registries, and destroyed with Free which releases every
owned buffer and every special entry.

Core Features:

    Fixed page table, one descriptor per page, indexed by addr >> pageShift.
    Independently settable sentinel bytes for unmapped and empty reads.
    The function code of the current bus cycle, supplied by the CPU core.
    Miss statistics so a permissive emulator can still audit stray accesses.

Concurrency:

    A Context is confined to the goroutine driving the CPU. It holds no locks
    and there is no package level state, so independent contexts can run in
    parallel.
*/

package m68kmem

import (
	"fmt"
)

// Stats counts accesses that missed every region. Misses never fault, so
// this is the only trace they leave besides the CPU trace hook.
type Stats struct {
	InvalidReads   uint64 // reads of unmapped space
	InvalidWrites  uint64 // writes to unmapped space
	RejectedWrites uint64 // writes to read-only memory or empty regions without MEM_FLAGS_WRITE
	RejectedReads  uint64 // reads of memory without MEM_FLAGS_READ
}

type Context struct {
	/*
		Context is the paged memory of one emulated machine.

		Every page descriptor resolves to exactly one page variant
		(memory, empty or unmapped) and may additionally carry a chain
		of special handlers that take precedence over the variant.
	*/

	pageShift uint
	pageSize  uint32
	pageMask  uint32
	pages     []pageEntry

	entries  []*MemoryEntry
	specials []*SpecialEntry

	heapOnly bool

	invalidValue uint8
	emptyValue   uint8
	fc           FunctionCode

	cpuTrace   CPUTraceFunc
	apiTrace   APITraceFunc
	traceEvent any

	specialCleanup func(*SpecialEntry)

	stats Stats
	freed bool
}

type contextConfig struct {
	pageShift    uint
	heapOnly     bool
	invalidValue uint8
	emptyValue   uint8
}

// Option configures a Context at construction time.
type Option func(*contextConfig)

// WithPageShift sets the page size to 1<<shift bytes.
func WithPageShift(shift uint) Option {
	return func(cfg *contextConfig) { cfg.pageShift = shift }
}

// WithHeapBuffers allocates region buffers on the Go heap instead of
// anonymous mappings.
func WithHeapBuffers() Option {
	return func(cfg *contextConfig) { cfg.heapOnly = true }
}

func WithInvalidValue(v uint8) Option {
	return func(cfg *contextConfig) { cfg.invalidValue = v }
}

func WithEmptyValue(v uint8) Option {
	return func(cfg *contextConfig) { cfg.emptyValue = v }
}

// New creates a memory context covering numPages pages. All pages start
// unmapped.
func New(numPages uint32, opts ...Option) (*Context, error) {
	cfg := contextConfig{pageShift: DEFAULT_PAGE_SHIFT}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.pageShift < MIN_PAGE_SHIFT || cfg.pageShift > MAX_PAGE_SHIFT {
		return nil, fmt.Errorf("%w: page shift %d not in %d..%d", ErrConfig, cfg.pageShift, MIN_PAGE_SHIFT, MAX_PAGE_SHIFT)
	}
	maxPages := uint64(1) << (32 - cfg.pageShift)
	if numPages == 0 || uint64(numPages) > maxPages {
		return nil, fmt.Errorf("%w: %d pages, want 1..%d", ErrConfig, numPages, maxPages)
	}

	c := &Context{
		pageShift:    cfg.pageShift,
		pageSize:     1 << cfg.pageShift,
		pageMask:     (1 << cfg.pageShift) - 1,
		pages:        make([]pageEntry, numPages),
		heapOnly:     cfg.heapOnly,
		invalidValue: cfg.invalidValue,
		emptyValue:   cfg.emptyValue,
		fc:           MEM_FC_SUPER_DATA,
	}
	for i := range c.pages {
		c.pages[i].handler = unmappedPage{}
	}
	return c, nil
}

// Free releases every buffer and special entry. The special cleanup callback
// runs for each special entry before it is dropped. The context must not be
// used afterwards.
func (c *Context) Free() {
	c.mustLive()

	for _, s := range c.specials {
		if c.specialCleanup != nil {
			c.specialCleanup(s)
		}
		s.ctx = nil
	}
	c.specials = nil

	for _, e := range c.entries {
		e.release()
	}
	c.entries = nil
	c.pages = nil
	c.cpuTrace = nil
	c.apiTrace = nil
	c.traceEvent = nil
	c.freed = true
}

func (c *Context) mustLive() {
	if c.freed {
		panic("m68kmem: memory context used after Free")
	}
}

func (c *Context) PageSize() uint32 { return c.pageSize }

func (c *Context) PageShift() uint { return c.pageShift }

func (c *Context) NumPages() uint32 { return uint32(len(c.pages)) }

// PageOf returns the page index of addr. The index may be beyond NumPages.
func (c *Context) PageOf(addr uint32) uint32 { return addr >> c.pageShift }

// SetInvalidValue sets the byte returned (replicated to width) for reads of
// unmapped space.
func (c *Context) SetInvalidValue(v uint8) {
	c.mustLive()
	c.invalidValue = v
}

// SetEmptyValue sets the byte returned (replicated to width) for reads of
// empty regions.
func (c *Context) SetEmptyValue(v uint8) {
	c.mustLive()
	c.emptyValue = v
}

func (c *Context) InvalidValue() uint8 { return c.invalidValue }

func (c *Context) EmptyValue() uint8 { return c.emptyValue }

// SetFunctionCode sets the function code attached to the following CPU
// accesses. The CPU core calls it whenever its FC lines change.
func (c *Context) SetFunctionCode(fc FunctionCode) {
	c.fc = fc & MEM_FC_MASK
}

func (c *Context) FunctionCode() FunctionCode { return c.fc }

func (c *Context) Stats() Stats { return c.stats }

func (c *Context) ResetStats() { c.stats = Stats{} }

// checkRange validates a page range for registration.
func (c *Context) checkRange(startPage, numPages uint32) error {
	if numPages == 0 {
		return fmt.Errorf("%w: empty page range at page %d", ErrOutOfRange, startPage)
	}
	end := uint64(startPage) + uint64(numPages)
	if end > uint64(len(c.pages)) {
		return fmt.Errorf("%w: pages %d..%d beyond %d", ErrOutOfRange, startPage, end-1, len(c.pages))
	}
	return nil
}

// replicate spreads b over width bytes.
func replicate(b uint8, width int) uint32 {
	switch width {
	case 1:
		return uint32(b)
	case 2:
		return uint32(b) * 0x0101
	}
	return uint32(b) * 0x01010101
}
