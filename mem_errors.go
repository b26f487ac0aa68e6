// mem_errors.go - Error values reported by the memory context

package m68kmem

import "errors"

var (
	// Registration errors. Returned wrapped, the address space is unchanged.
	ErrConfig       = errors.New("mem: invalid context configuration")
	ErrOutOfRange   = errors.New("mem: page range out of bounds")
	ErrOverlap      = errors.New("mem: page range overlaps existing entry")
	ErrAlloc        = errors.New("mem: cannot allocate region buffer")
	ErrUnknownEntry = errors.New("mem: entry does not belong to this context")

	// Block and string operation errors.
	ErrNoRange       = errors.New("mem: no contiguous memory range")
	ErrUnterminated  = errors.New("mem: string not terminated inside memory range")
	ErrStringTooLong = errors.New("mem: string too long")
)
