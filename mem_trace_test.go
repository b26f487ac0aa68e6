package m68kmem

import (
	"bytes"
	"strings"
	"testing"
)

type apiCall struct {
	access             AccessCode
	addr, value, extra uint32
}

func recordAPI(c *Context) *[]apiCall {
	var calls []apiCall
	c.SetAPITrace(func(access AccessCode, addr, value, extra uint32) {
		calls = append(calls, apiCall{access, addr, value, extra})
	})
	return &calls
}

func TestAPITrace_Arguments(t *testing.T) {
	c := newTestContext(t, 4)
	c.AddMemory(0, 4, MEM_FLAGS_RW)
	calls := recordAPI(c)

	c.SetBlock(0x10, 0x20, 0xAB)
	c.CopyBlock(0x10, 0x80, 0x20)
	c.WriteBlock(0x100, []byte{1, 2, 3})
	c.ReadBlock(0x100, 3)
	c.WriteCString(0x200, []byte("abc"))
	c.ReadCString(0x200)
	c.WriteBString(0x300, []byte("xy"))
	c.ReadBString(0x300)
	c.WB32(0x40, 0x1234)
	c.RB32(0x40)
	c.Poke16(0x50, 0xBEEF)
	c.Peek8(0x50)

	want := []apiCall{
		{MEM_ACCESS_BSET, 0x10, 0xAB, 0x20},
		{MEM_ACCESS_BCOPY, 0x10, 0x80, 0x20},
		{MEM_ACCESS_W_BLOCK, 0x100, 0, 3},
		{MEM_ACCESS_R_BLOCK, 0x100, 0, 3},
		{MEM_ACCESS_W_CSTR, 0x200, 0, 3},
		{MEM_ACCESS_R_CSTR, 0x200, 0, 3},
		{MEM_ACCESS_W_BSTR, 0x300, 0, 2},
		{MEM_ACCESS_R_BSTR, 0x300, 0, 2},
		{MEM_ACCESS_W_B32, 0x40, 0x1234, 0},
		{MEM_ACCESS_R_B32, 0x40, 0x1234, 0},
		{MEM_ACCESS_W16, 0x50, 0xBEEF, 0},
		{MEM_ACCESS_R8, 0x50, 0xBE, 0},
	}
	if len(*calls) != len(want) {
		t.Fatalf("API trace saw %d calls, want %d: %+v", len(*calls), len(want), *calls)
	}
	for i, w := range want {
		if got := (*calls)[i]; got != w {
			t.Fatalf("call %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestTrace_HooksDoNotChangeResults(t *testing.T) {
	run := func(traced bool) []uint32 {
		c := newTestContext(t, 4)
		c.AddMemory(0, 2, MEM_FLAGS_RW)
		c.AddSpecial(1, 1, constReader(0x4242), nil)
		if traced {
			var sink bytes.Buffer
			c.SetCPUTrace(DefaultCPUTrace(&sink))
			c.SetAPITrace(DefaultAPITrace(&sink))
		}
		c.Write32(0x10, 0x01020304)
		c.CopyBlock(0x10, 0x20, 4)
		return []uint32{c.Read32(0x10), c.Read32(0x20), uint32(c.Read16(0x100)), c.Read32(0x300)}
	}
	plain, traced := run(false), run(true)
	for i := range plain {
		if plain[i] != traced[i] {
			t.Fatalf("result %d = 0x%X traced, 0x%X untraced", i, traced[i], plain[i])
		}
	}
}

func TestCPUTrace_ParkedEvent(t *testing.T) {
	c := newTestContext(t, 4)
	c.AddMemory(0, 1, MEM_FLAGS_RW)

	type watchHit struct{ addr uint32 }
	c.SetCPUTrace(func(access AccessCode, addr, value uint32) any {
		if access.IsWrite() && addr == 0x40 {
			return watchHit{addr}
		}
		return nil
	})

	c.Write8(0x41, 1)
	if ev := c.TakeTraceEvent(); ev != nil {
		t.Fatalf("TakeTraceEvent() = %v, want nil", ev)
	}
	c.Write16(0x40, 0x55AA)
	c.Read8(0x40)
	if ev, ok := c.TakeTraceEvent().(watchHit); !ok || ev.addr != 0x40 {
		t.Fatalf("TakeTraceEvent() = %v, want watchHit at 0x40", ev)
	}
	if ev := c.TakeTraceEvent(); ev != nil {
		t.Fatal("TakeTraceEvent must clear the parked value")
	}
	if got := c.Read16(0x40); got != 0x55AA {
		t.Fatalf("Read16 = 0x%04X, want 0x55AA", got)
	}

	c.SetCPUTrace(nil)
	c.Write16(0x40, 0)
	if ev := c.TakeTraceEvent(); ev != nil {
		t.Fatal("disabled hook still parked an event")
	}
}

func TestDefaultCPUTrace_Format(t *testing.T) {
	c := newTestContext(t, 4)
	c.AddMemory(0, 1, MEM_FLAGS_RW)
	var out bytes.Buffer
	c.SetCPUTrace(DefaultCPUTrace(&out))

	c.SetFunctionCode(MEM_FC_USER_DATA)
	c.Write16(0x10, 0xBEEF)
	c.SetFunctionCode(MEM_FC_SUPER_PROG)
	c.Read32(0x10)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	want := []string{
		"MEM: W16 UD @00000010: BEEF",
		"MEM: R32 SP @00000010: BEEF0000",
	}
	if len(lines) != len(want) {
		t.Fatalf("trace output = %q", out.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestAccessStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{CPUAccessString(MEM_ACCESS_R8 | AccessCode(MEM_FC_INT_ACK)), "R8  IA"},
		{CPUAccessString(MEM_ACCESS_W32 | AccessCode(MEM_FC_USER_PROG)), "W32 UP"},
		{CPUAccessString(MEM_ACCESS_R16 | AccessCode(MEM_FC_INVALID)), "R16 --"},
		{CPUMemString(MEM_ACCESS_W8|AccessCode(MEM_FC_SUPER_DATA), 0xDFF180, 0x1FF), "MEM: W8  SD @00DFF180: FF"},
		{APIAccessString(MEM_ACCESS_R_BLOCK), "R_BLOCK"},
		{APIAccessString(MEM_ACCESS_W_BSTR), "W_BSTR"},
		{APIAccessString(MEM_ACCESS_BCOPY), "BCOPY"},
		{APIAccessString(MEM_ACCESS_W16), "W16"},
		{APIAccessString(0x1E0), "API?1E0"},
		{APIMemString(MEM_ACCESS_BSET, 0x1000, 0xAB, 0x20), "API: BSET    @00001000 +00000020 = AB"},
		{APIMemString(MEM_ACCESS_BCOPY, 0x1000, 0x2000, 0x10), "API: BCOPY   @00001000 -> @00002000 +00000010"},
		{APIMemString(MEM_ACCESS_R_CSTR, 0x400, 0, 7), "API: R_CSTR  @00000400 +00000007"},
		{APIMemString(MEM_ACCESS_W_B32, 0x400, 0x1234, 0), "API: W_B32   @00000400: 00001234"},
		{APIMemString(MEM_ACCESS_R16, 0x400, 0x1234, 0), "API: R16     @00000400: 1234"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("got %q, want %q", tt.got, tt.want)
		}
	}
}
