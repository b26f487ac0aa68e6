// mem_special.go - Special region registry: handler chains for hardware registers and traps

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

// SpecialReader services CPU reads of a special region. The returned value
// is only used when the verdict is Handled.
type SpecialReader interface {
	SpecialRead(access AccessCode, addr uint32) (uint32, Verdict)
}

// SpecialWriter services CPU writes of a special region.
type SpecialWriter interface {
	SpecialWrite(access AccessCode, addr, value uint32) Verdict
}

// SpecialReadFunc adapts a closure to SpecialReader.
type SpecialReadFunc func(access AccessCode, addr uint32) (uint32, Verdict)

func (f SpecialReadFunc) SpecialRead(access AccessCode, addr uint32) (uint32, Verdict) {
	return f(access, addr)
}

// SpecialWriteFunc adapts a closure to SpecialWriter.
type SpecialWriteFunc func(access AccessCode, addr, value uint32) Verdict

func (f SpecialWriteFunc) SpecialWrite(access AccessCode, addr, value uint32) Verdict {
	return f(access, addr, value)
}

type verdictKind uint8

const (
	verdictPass verdictKind = iota
	verdictHandled
	verdictDelegate
)

// Verdict is the outcome of a special handler call.
type Verdict struct {
	kind   verdictKind
	reader SpecialReader
	writer SpecialWriter
}

// Handled ends the chain walk; the handler serviced the access.
func Handled() Verdict { return Verdict{kind: verdictHandled} }

// Pass offers the access to the next handler of the chain.
func Pass() Verdict { return Verdict{} }

// DelegateRead offers the same read to r before the next chain node.
func DelegateRead(r SpecialReader) Verdict { return Verdict{kind: verdictDelegate, reader: r} }

// DelegateWrite offers the same write to w before the next chain node.
func DelegateWrite(w SpecialWriter) Verdict { return Verdict{kind: verdictDelegate, writer: w} }

func (v Verdict) IsHandled() bool { return v.kind == verdictHandled }

func (v Verdict) String() string {
	switch v.kind {
	case verdictHandled:
		return "handled"
	case verdictDelegate:
		return "delegate"
	}
	return "pass"
}

type SpecialEntry struct {
	/*
		SpecialEntry is one node of the special handler chains. It is
		linked into the chain of every page in its range, behind the
		nodes registered before it.

		A nil reader or writer passes every access of that direction.
	*/

	startPage uint32
	numPages  uint32
	reader    SpecialReader
	writer    SpecialWriter
	ctx       *Context
}

func (s *SpecialEntry) StartPage() uint32     { return s.startPage }
func (s *SpecialEntry) NumPages() uint32      { return s.numPages }
func (s *SpecialEntry) Reader() SpecialReader { return s.reader }
func (s *SpecialEntry) Writer() SpecialWriter { return s.writer }

func (s *SpecialEntry) String() string {
	return fmt.Sprintf("special pages %d+%d", s.startPage, s.numPages)
}

// AddSpecial links a handler pair into every page of the range. Memory
// bindings of those pages stay in place and serve whatever the chain passes.
func (c *Context) AddSpecial(startPage, numPages uint32, r SpecialReader, w SpecialWriter) (*SpecialEntry, error) {
	c.mustLive()
	if err := c.checkRange(startPage, numPages); err != nil {
		return nil, err
	}
	s := &SpecialEntry{
		startPage: startPage,
		numPages:  numPages,
		reader:    r,
		writer:    w,
		ctx:       c,
	}
	for i := startPage; i < startPage+numPages; i++ {
		pg := &c.pages[i]
		// A fresh slice per registration: a chain walk in progress keeps
		// iterating the slice it started with.
		pg.specials = append(slices.Clip(pg.specials), s)
	}
	c.specials = append(c.specials, s)
	return s, nil
}

// RemoveSpecial unlinks s from all its pages and runs the cleanup callback.
func (c *Context) RemoveSpecial(s *SpecialEntry) error {
	c.mustLive()
	if s == nil || s.ctx != c {
		return ErrUnknownEntry
	}
	for i := s.startPage; i < s.startPage+s.numPages; i++ {
		pg := &c.pages[i]
		chain := slices.DeleteFunc(slices.Clone(pg.specials), func(x *SpecialEntry) bool { return x == s })
		if len(chain) == 0 {
			chain = nil
		}
		pg.specials = chain
	}
	c.specials = slices.DeleteFunc(c.specials, func(x *SpecialEntry) bool { return x == s })
	if c.specialCleanup != nil {
		c.specialCleanup(s)
	}
	s.ctx = nil
	return nil
}

// SetSpecialCleanup installs the callback run for each special entry right
// before it is released, by RemoveSpecial or Free.
func (c *Context) SetSpecialCleanup(f func(*SpecialEntry)) {
	c.mustLive()
	c.specialCleanup = f
}

// Specials returns the registered special entries in registration order.
func (c *Context) Specials() []*SpecialEntry {
	c.mustLive()
	return slices.Clone(c.specials)
}

// specialRead walks the chain of pg. ok is false when every node passed.
func specialRead(chain []*SpecialEntry, access AccessCode, addr uint32) (value uint32, ok bool) {
	for _, s := range chain {
		r := s.reader
		for hops := 0; r != nil; hops++ {
			v, verdict := r.SpecialRead(access, addr)
			switch verdict.kind {
			case verdictHandled:
				return v, true
			case verdictDelegate:
				if hops >= maxDelegateHops {
					r = nil
				} else {
					r = verdict.reader
				}
			default:
				r = nil
			}
		}
	}
	return 0, false
}

func specialWrite(chain []*SpecialEntry, access AccessCode, addr, value uint32) bool {
	for _, s := range chain {
		w := s.writer
		for hops := 0; w != nil; hops++ {
			verdict := w.SpecialWrite(access, addr, value)
			switch verdict.kind {
			case verdictHandled:
				return true
			case verdictDelegate:
				if hops >= maxDelegateHops {
					w = nil
				} else {
					w = verdict.writer
				}
			default:
				w = nil
			}
		}
	}
	return false
}
