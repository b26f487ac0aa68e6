// mem_trace.go - CPU and API trace hooks and their text rendering

package m68kmem

import (
	"fmt"
	"io"
)

// CPUTraceFunc observes every CPU access after the transfer, with the value
// read or written. A non-nil return is kept for the host until
// TakeTraceEvent, which lets a hook request a stop without touching the
// emulation result.
type CPUTraceFunc func(access AccessCode, addr, value uint32) any

// APITraceFunc observes host side block, string and single value operations.
//
//	MEM_ACCESS_BSET   addr, value = fill byte, extra = size
//	MEM_ACCESS_BCOPY  addr = source, value = destination, extra = size
//	blocks, strings   addr, extra = size or string length
//	R_B32/W_B32, plain widths  addr, value
type APITraceFunc func(access AccessCode, addr, value, extra uint32)

// SetCPUTrace installs the CPU trace hook; nil disables it.
func (c *Context) SetCPUTrace(f CPUTraceFunc) {
	c.mustLive()
	c.cpuTrace = f
}

// SetAPITrace installs the API trace hook; nil disables it.
func (c *Context) SetAPITrace(f APITraceFunc) {
	c.mustLive()
	c.apiTrace = f
}

// TakeTraceEvent returns and clears the last non-nil value returned by the
// CPU trace hook.
func (c *Context) TakeTraceEvent() any {
	ev := c.traceEvent
	c.traceEvent = nil
	return ev
}

func (c *Context) notifyCPU(access AccessCode, addr, value uint32) {
	if ev := c.cpuTrace(access, addr, value); ev != nil {
		c.traceEvent = ev
	}
}

func (c *Context) notifyAPI(access AccessCode, addr, value, extra uint32) {
	if c.apiTrace != nil {
		c.apiTrace(access, addr, value, extra)
	}
}

// DefaultCPUTrace returns a hook printing one CPUMemString line per access.
func DefaultCPUTrace(w io.Writer) CPUTraceFunc {
	return func(access AccessCode, addr, value uint32) any {
		fmt.Fprintln(w, CPUMemString(access, addr, value))
		return nil
	}
}

// DefaultAPITrace returns a hook printing one APIMemString line per call.
func DefaultAPITrace(w io.Writer) APITraceFunc {
	return func(access AccessCode, addr, value, extra uint32) {
		fmt.Fprintln(w, APIMemString(access, addr, value, extra))
	}
}

// widthName renders the direction and width bits, e.g. "R32" or "W8".
func widthName(access AccessCode) string {
	dir := byte('R')
	if access.IsWrite() {
		dir = 'W'
	}
	switch access.Width() {
	case 1:
		return string(dir) + "8"
	case 2:
		return string(dir) + "16"
	case 4:
		return string(dir) + "32"
	}
	return string(dir) + "??"
}

// CPUAccessString renders a CPU access code, e.g. "R32 SP".
func CPUAccessString(access AccessCode) string {
	return fmt.Sprintf("%-3s %s", widthName(access), access.FunctionCode())
}

// CPUMemString renders a full CPU trace line.
func CPUMemString(access AccessCode, addr, value uint32) string {
	return fmt.Sprintf("MEM: %s @%08X: %s", CPUAccessString(access), addr, hexValue(access.Width(), value))
}

func hexValue(width int, value uint32) string {
	switch width {
	case 1:
		return fmt.Sprintf("%02X", value&0xFF)
	case 2:
		return fmt.Sprintf("%04X", value&0xFFFF)
	}
	return fmt.Sprintf("%08X", value)
}

// APIAccessString names an API trace access code. Plain width codes come
// from Peek/Poke.
func APIAccessString(access AccessCode) string {
	switch access & MEM_ACCESS_SPECIAL {
	case 0:
		return widthName(access)
	case MEM_ACCESS_R_BLOCK:
		return "R_BLOCK"
	case MEM_ACCESS_W_BLOCK:
		return "W_BLOCK"
	case MEM_ACCESS_R_CSTR:
		return "R_CSTR"
	case MEM_ACCESS_W_CSTR:
		return "W_CSTR"
	case MEM_ACCESS_R_BSTR:
		return "R_BSTR"
	case MEM_ACCESS_W_BSTR:
		return "W_BSTR"
	case MEM_ACCESS_R_B32:
		return "R_B32"
	case MEM_ACCESS_W_B32:
		return "W_B32"
	case MEM_ACCESS_BSET:
		return "BSET"
	case MEM_ACCESS_BCOPY:
		return "BCOPY"
	}
	return fmt.Sprintf("API?%03X", uint16(access))
}

// APIMemString renders a full API trace line.
func APIMemString(access AccessCode, addr, value, extra uint32) string {
	name := APIAccessString(access)
	switch access & MEM_ACCESS_SPECIAL {
	case 0:
		return fmt.Sprintf("API: %-7s @%08X: %s", name, addr, hexValue(access.Width(), value))
	case MEM_ACCESS_R_B32, MEM_ACCESS_W_B32:
		return fmt.Sprintf("API: %-7s @%08X: %08X", name, addr, value)
	case MEM_ACCESS_BSET:
		return fmt.Sprintf("API: %-7s @%08X +%08X = %02X", name, addr, extra, value&0xFF)
	case MEM_ACCESS_BCOPY:
		return fmt.Sprintf("API: %-7s @%08X -> @%08X +%08X", name, addr, value, extra)
	}
	return fmt.Sprintf("API: %-7s @%08X +%08X", name, addr, extra)
}
