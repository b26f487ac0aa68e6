// mem_layout.go - Page range layouts of RAM, ROM, special and reserved space

package m68kmem

import (
	"cmp"
	"fmt"
	"math/bits"
	"slices"
	"strconv"
	"strings"
)

// RangeType is the page map character of a layout range.
type RangeType byte

const (
	RANGE_EMPTY   RangeType = '_'
	RANGE_RAM     RangeType = 'a'
	RANGE_ROM     RangeType = 'o'
	RANGE_SPECIAL RangeType = 'S'
	RANGE_RESERVE RangeType = 'X'
)

// MemoryRange is one page range of a MemoryConfig.
type MemoryRange struct {
	StartPage uint32
	NumPages  uint32
	Type      RangeType

	ROM    []byte        // RANGE_ROM image, padded to whole pages
	Reader SpecialReader // RANGE_SPECIAL handlers
	Writer SpecialWriter
}

func (r MemoryRange) NextPage() uint32 { return r.StartPage + r.NumPages }

func (r MemoryRange) String() string {
	return fmt.Sprintf("MemoryRange(%d, %d, %c)", r.StartPage, r.NumPages, r.Type)
}

type MemoryConfig struct {
	/*
		MemoryConfig describes the memory layout of a 68k system as a
		sorted list of non-overlapping page ranges, and builds a
		Context from it.

		Address based variants take sizes as strings with optional
		k, m, g or p (pages) units.
	*/

	AutoAlign bool  // round unaligned sizes up to whole pages instead of failing
	PadByte   uint8 // fill for padded ROM images
	PageShift uint  // 0 means DEFAULT_PAGE_SHIFT

	ranges []MemoryRange
}

func NewMemoryConfig(autoAlign bool) *MemoryConfig {
	return &MemoryConfig{AutoAlign: autoAlign}
}

func (m *MemoryConfig) shift() uint {
	if m.PageShift == 0 {
		return DEFAULT_PAGE_SHIFT
	}
	return m.PageShift
}

func (m *MemoryConfig) pageBytes() uint64 { return 1 << m.shift() }

// ParseSize converts "64", "512k", "2m", "1g" or "4p" to bytes. Bare numbers
// are multiplied by defUnits; "p" counts pages of pageBytes.
func ParseSize(s string, defUnits, pageBytes uint64) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty size", ErrConfig)
	}
	digits, units := s[:len(s)-1], defUnits
	switch s[len(s)-1] {
	case 'k', 'K':
		units = 1024
	case 'm', 'M':
		units = 1024 * 1024
	case 'g', 'G':
		units = 1024 * 1024 * 1024
	case 'p', 'P':
		units = pageBytes
	default:
		if s[len(s)-1] < '0' || s[len(s)-1] > '9' {
			return 0, fmt.Errorf("%w: unknown size units %q", ErrConfig, s[len(s)-1:])
		}
		digits = s
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid size %q", ErrConfig, s)
	}
	hi, total := bits.Mul64(n, units)
	if hi != 0 {
		return 0, fmt.Errorf("%w: size %q overflows", ErrConfig, s)
	}
	return total, nil
}

func (m *MemoryConfig) pagesFor(total uint64) (uint32, error) {
	mask := m.pageBytes() - 1
	if total&mask != 0 {
		if !m.AutoAlign {
			return 0, fmt.Errorf("%w: size $%X is not page aligned", ErrConfig, total)
		}
		total += mask
	}
	pages := total >> m.shift()
	if pages > 1<<(32-m.shift()) {
		return 0, fmt.Errorf("%w: size $%X exceeds the address space", ErrConfig, total)
	}
	return uint32(pages), nil
}

func (m *MemoryConfig) addrRange(addr uint32, size string) (uint32, uint32, error) {
	begin, err := m.pagesFor(uint64(addr))
	if err != nil {
		return 0, 0, err
	}
	total, err := ParseSize(size, 1024, m.pageBytes())
	if err != nil {
		return 0, 0, err
	}
	num, err := m.pagesFor(total)
	if err != nil {
		return 0, 0, err
	}
	return begin, num, nil
}

// store inserts r in page order. With sparse set the range is split to fill
// only the gaps between existing ranges; otherwise any overlap fails.
func (m *MemoryConfig) store(r MemoryRange, sparse bool) ([]MemoryRange, error) {
	if r.NumPages == 0 {
		return nil, fmt.Errorf("%w: %v has no pages", ErrConfig, r)
	}
	if uint64(r.StartPage)+uint64(r.NumPages) > 1<<(32-m.shift()) {
		return nil, fmt.Errorf("%w: %v exceeds the address space", ErrConfig, r)
	}
	var parts []MemoryRange
	next := r.StartPage
	end := r.NextPage()
	for _, e := range m.ranges {
		if e.NextPage() <= next || e.StartPage >= end {
			continue
		}
		if !sparse {
			return nil, fmt.Errorf("%w: %v overlaps %v", ErrConfig, r, e)
		}
		if e.StartPage > next {
			p := r
			p.StartPage, p.NumPages = next, e.StartPage-next
			parts = append(parts, p)
		}
		next = e.NextPage()
	}
	if next < end {
		p := r
		p.StartPage, p.NumPages = next, end-next
		parts = append(parts, p)
	}
	m.ranges = append(m.ranges, parts...)
	slices.SortFunc(m.ranges, func(a, b MemoryRange) int { return cmp.Compare(a.StartPage, b.StartPage) })
	return parts, nil
}

// AddRAMRange adds read/write memory. With sparse set, pages already taken
// by other ranges are skipped instead of failing.
func (m *MemoryConfig) AddRAMRange(begin, num uint32, sparse bool) ([]MemoryRange, error) {
	return m.store(MemoryRange{StartPage: begin, NumPages: num, Type: RANGE_RAM}, sparse)
}

// AddROMRange adds read-only memory loaded with data. Images that are not a
// whole number of pages fail unless pad is set.
func (m *MemoryConfig) AddROMRange(begin, num uint32, data []byte, pad bool) ([]MemoryRange, error) {
	rom, err := m.prepareROM(data, pad)
	if err != nil {
		return nil, err
	}
	if uint64(len(rom)) > uint64(num)*m.pageBytes() {
		return nil, fmt.Errorf("%w: ROM image of $%X bytes exceeds %d pages", ErrConfig, len(data), num)
	}
	return m.store(MemoryRange{StartPage: begin, NumPages: num, Type: RANGE_ROM, ROM: rom}, false)
}

func (m *MemoryConfig) prepareROM(data []byte, pad bool) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	rem := uint64(len(data)) % m.pageBytes()
	if rem == 0 {
		return data, nil
	}
	if !pad {
		return nil, fmt.Errorf("%w: ROM image of $%X bytes needs padding", ErrConfig, len(data))
	}
	fill := make([]byte, m.pageBytes()-rem)
	for i := range fill {
		fill[i] = m.PadByte
	}
	return append(slices.Clip(data), fill...), nil
}

func (m *MemoryConfig) AddSpecialRange(begin, num uint32, r SpecialReader, w SpecialWriter) ([]MemoryRange, error) {
	return m.store(MemoryRange{StartPage: begin, NumPages: num, Type: RANGE_SPECIAL, Reader: r, Writer: w}, false)
}

// AddReserveRange adds an empty region: reads return the empty sentinel.
func (m *MemoryConfig) AddReserveRange(begin, num uint32) ([]MemoryRange, error) {
	return m.store(MemoryRange{StartPage: begin, NumPages: num, Type: RANGE_RESERVE}, false)
}

func (m *MemoryConfig) AddRAMRangeAddr(addr uint32, size string, sparse bool) ([]MemoryRange, error) {
	begin, num, err := m.addrRange(addr, size)
	if err != nil {
		return nil, err
	}
	return m.AddRAMRange(begin, num, sparse)
}

func (m *MemoryConfig) AddROMRangeAddr(addr uint32, size string, data []byte, pad bool) ([]MemoryRange, error) {
	begin, num, err := m.addrRange(addr, size)
	if err != nil {
		return nil, err
	}
	return m.AddROMRange(begin, num, data, pad)
}

func (m *MemoryConfig) AddSpecialRangeAddr(addr uint32, size string, r SpecialReader, w SpecialWriter) ([]MemoryRange, error) {
	begin, num, err := m.addrRange(addr, size)
	if err != nil {
		return nil, err
	}
	return m.AddSpecialRange(begin, num, r, w)
}

func (m *MemoryConfig) AddReserveRangeAddr(addr uint32, size string) ([]MemoryRange, error) {
	begin, num, err := m.addrRange(addr, size)
	if err != nil {
		return nil, err
	}
	return m.AddReserveRange(begin, num)
}

// RangeList returns the ranges in page order.
func (m *MemoryConfig) RangeList() []MemoryRange {
	return slices.Clone(m.ranges)
}

// PageListString renders one character per page up to the last used page.
func (m *MemoryConfig) PageListString() string {
	var sb strings.Builder
	pos := uint32(0)
	for _, r := range m.ranges {
		sb.WriteString(strings.Repeat(string(RANGE_EMPTY), int(r.StartPage-pos)))
		sb.WriteString(strings.Repeat(string(r.Type), int(r.NumPages)))
		pos = r.NextPage()
	}
	return sb.String()
}

// NumPages returns the page count needed to hold the layout.
func (m *MemoryConfig) NumPages() uint32 {
	if len(m.ranges) == 0 {
		return 0
	}
	return m.ranges[len(m.ranges)-1].NextPage()
}

// Check validates the layout: it must not be empty, must fit maxPages and,
// with ramAtZero set, must start with RAM at page 0 for the reset vectors.
func (m *MemoryConfig) Check(ramAtZero bool, maxPages uint32) error {
	if len(m.ranges) == 0 {
		return fmt.Errorf("%w: no memory ranges", ErrConfig)
	}
	if n := m.NumPages(); n > maxPages {
		return fmt.Errorf("%w: too many pages: want=%d max=%d", ErrConfig, n, maxPages)
	}
	if ramAtZero {
		if r := m.ranges[0]; r.StartPage != 0 || r.Type != RANGE_RAM {
			return fmt.Errorf("%w: no RAM at page 0", ErrConfig)
		}
	}
	return nil
}

// Build creates a Context holding the layout. numPages of 0 sizes the
// context to the layout. The page shift of the config is applied before
// opts.
func (m *MemoryConfig) Build(numPages uint32, opts ...Option) (*Context, error) {
	if numPages == 0 {
		numPages = m.NumPages()
	}
	if numPages < m.NumPages() {
		return nil, fmt.Errorf("%w: layout needs %d pages, context has %d", ErrConfig, m.NumPages(), numPages)
	}
	c, err := New(numPages, append([]Option{WithPageShift(m.shift())}, opts...)...)
	if err != nil {
		return nil, err
	}
	if c.pageShift != m.shift() {
		c.Free()
		return nil, fmt.Errorf("%w: layout uses page shift %d, context %d", ErrConfig, m.shift(), c.pageShift)
	}
	for _, r := range m.ranges {
		if err := c.buildRange(r); err != nil {
			c.Free()
			return nil, fmt.Errorf("building %v: %w", r, err)
		}
	}
	return c, nil
}

func (c *Context) buildRange(r MemoryRange) error {
	switch r.Type {
	case RANGE_RAM:
		_, err := c.AddMemory(r.StartPage, r.NumPages, MEM_FLAGS_ALL)
		return err
	case RANGE_ROM:
		e, err := c.AddMemory(r.StartPage, r.NumPages, MEM_FLAGS_READ|MEM_FLAGS_TRAPS)
		if err != nil {
			return err
		}
		copy(e.Data(), r.ROM)
		c.notifyAPI(MEM_ACCESS_W_BLOCK, e.StartAddr(), 0, uint32(len(r.ROM)))
		return nil
	case RANGE_SPECIAL:
		_, err := c.AddSpecial(r.StartPage, r.NumPages, r.Reader, r.Writer)
		return err
	case RANGE_RESERVE:
		_, err := c.AddEmpty(r.StartPage, r.NumPages, 0)
		return err
	}
	return fmt.Errorf("%w: unknown range type %q", ErrConfig, r.Type)
}
