//go:build unix

// mem_alloc_unix.go - Region buffers backed by anonymous private mappings

package m68kmem

import (
	"math"

	"golang.org/x/sys/unix"
)

// allocBuffer returns a zero-filled buffer of size bytes. Buffers of at least
// one host page come from an anonymous mapping so large address spaces do not
// sit on the Go heap; mapped reports which release path applies.
func allocBuffer(size uint64, heapOnly bool) (buf []byte, mapped bool, err error) {
	if size > math.MaxInt {
		return nil, false, unix.ENOMEM
	}
	if heapOnly || size < uint64(unix.Getpagesize()) {
		return make([]byte, size), false, nil
	}
	buf, err = unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, false, err
	}
	return buf, true, nil
}

func releaseBuffer(buf []byte, mapped bool) error {
	if !mapped || buf == nil {
		return nil
	}
	return unix.Munmap(buf)
}
