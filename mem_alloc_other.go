//go:build !unix

// mem_alloc_other.go - Region buffers on the Go heap for non-unix hosts

package m68kmem

import (
	"errors"
	"math"
)

func allocBuffer(size uint64, heapOnly bool) ([]byte, bool, error) {
	if size > math.MaxInt {
		return nil, false, errors.New("buffer larger than host address space")
	}
	return make([]byte, size), false, nil
}

func releaseBuffer(buf []byte, mapped bool) error {
	return nil
}
