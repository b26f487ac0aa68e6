package m68kmem

import (
	"testing"
)

func TestDispatch_BigEndianRoundTrip(t *testing.T) {
	c := newTestContext(t, 4)
	e, _ := c.AddMemory(0, 4, MEM_FLAGS_RW)

	c.Write32(0x100, 0x12345678)
	if got := c.Read32(0x100); got != 0x12345678 {
		t.Fatalf("Read32 = 0x%08X, want 0x12345678", got)
	}
	if got := c.Read16(0x100); got != 0x1234 {
		t.Fatalf("Read16 = 0x%04X, want 0x1234", got)
	}
	if got := c.Read16(0x102); got != 0x5678 {
		t.Fatalf("Read16(+2) = 0x%04X, want 0x5678", got)
	}
	for i, want := range []uint8{0x12, 0x34, 0x56, 0x78} {
		if got := c.Read8(0x100 + uint32(i)); got != want {
			t.Fatalf("Read8(0x%X) = 0x%02X, want 0x%02X", 0x100+i, got, want)
		}
		if e.Data()[0x100+i] != want {
			t.Fatalf("buffer[0x%X] = 0x%02X, want 0x%02X", 0x100+i, e.Data()[0x100+i], want)
		}
	}

	c.Write16(0x200, 0xBEEF)
	c.Write8(0x202, 0x42)
	if got := c.Read32(0x200); got != 0xBEEF4200 {
		t.Fatalf("Read32 = 0x%08X, want 0xBEEF4200", got)
	}

	// Unaligned access across a page boundary inside one entry.
	c.Write32(0x1FE, 0xA1B2C3D4)
	if got := c.Read32(0x1FE); got != 0xA1B2C3D4 {
		t.Fatalf("Read32 across page = 0x%08X, want 0xA1B2C3D4", got)
	}
}

func TestDispatch_UnmappedReadSentinel(t *testing.T) {
	c := newTestContext(t, 4)
	c.AddMemory(0, 1, MEM_FLAGS_RW)
	c.SetInvalidValue(0xEE)

	tests := []struct {
		addr uint32
		read func(uint32) uint32
		want uint32
	}{
		{0x200, func(a uint32) uint32 { return uint32(c.Read8(a)) }, 0xEE},
		{0x200, func(a uint32) uint32 { return uint32(c.Read16(a)) }, 0xEEEE},
		{0x200, func(a uint32) uint32 { return c.Read32(a) }, 0xEEEEEEEE},
		{0x80000000, func(a uint32) uint32 { return c.Read32(a) }, 0xEEEEEEEE},
		{0x300, func(a uint32) uint32 { return uint32(c.ReadDisassembler16(a)) }, 0xEEEE},
	}
	for _, tt := range tests {
		if got := tt.read(tt.addr); got != tt.want {
			t.Fatalf("read at 0x%08X = 0x%X, want 0x%X", tt.addr, got, tt.want)
		}
	}

	// Writes to unmapped space vanish without disturbing mapped memory.
	c.Write32(0x200, 0x11111111)
	c.Write32(0xFFFFFFF0, 0x22222222)
	if got := c.Read32(0x200); got != 0xEEEEEEEE {
		t.Fatalf("Read32 after unmapped write = 0x%08X", got)
	}
	if got := c.Read32(0); got != 0 {
		t.Fatalf("mapped Read32 = 0x%08X, want 0", got)
	}
}

func TestDispatch_FunctionCodeIndependence(t *testing.T) {
	c := newTestContext(t, 4)
	c.AddMemory(0, 2, MEM_FLAGS_RW)
	c.AddEmpty(2, 1, 0)
	c.SetEmptyValue(0x5A)
	c.Write32(0x10, 0xDEADBEEF)

	for _, fc := range []FunctionCode{MEM_FC_USER_DATA, MEM_FC_USER_PROG, MEM_FC_SUPER_DATA, MEM_FC_SUPER_PROG, MEM_FC_INT_ACK} {
		c.SetFunctionCode(fc)
		if got := c.Read32(0x10); got != 0xDEADBEEF {
			t.Fatalf("fc %s: Read32 = 0x%08X, want 0xDEADBEEF", fc, got)
		}
		if got := c.Read16(0x200); got != 0x5A5A {
			t.Fatalf("fc %s: empty Read16 = 0x%04X, want 0x5A5A", fc, got)
		}
	}
	if got := c.ReadDisassembler32(0x10); got != 0xDEADBEEF {
		t.Fatalf("ReadDisassembler32 = 0x%08X, want 0xDEADBEEF", got)
	}
}

func TestDispatch_FunctionCodeReachesHandlers(t *testing.T) {
	c := newTestContext(t, 4)
	var seen []AccessCode
	c.AddSpecial(1, 1, SpecialReadFunc(func(access AccessCode, addr uint32) (uint32, Verdict) {
		seen = append(seen, access)
		return 0, Handled()
	}), SpecialWriteFunc(func(access AccessCode, addr, value uint32) Verdict {
		seen = append(seen, access)
		return Handled()
	}))

	c.SetFunctionCode(MEM_FC_USER_PROG)
	c.Read16(0x100)
	c.SetFunctionCode(FunctionCodeFromM68K(5))
	c.Write32(0x104, 1)
	c.ReadDisassembler32(0x108)

	want := []AccessCode{
		MEM_ACCESS_R16 | AccessCode(MEM_FC_USER_PROG),
		MEM_ACCESS_W32 | AccessCode(MEM_FC_SUPER_DATA),
		MEM_ACCESS_R32 | AccessCode(MEM_FC_INVALID),
	}
	if len(seen) != len(want) {
		t.Fatalf("handler saw %d accesses, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("access %d = 0x%03X, want 0x%03X", i, seen[i], want[i])
		}
	}
	if !seen[2].IsPeek() || seen[0].IsPeek() {
		t.Fatal("IsPeek must only flag disassembler reads")
	}
}

func TestDispatch_CrossEntrySplit(t *testing.T) {
	c := newTestContext(t, 4)
	a, _ := c.AddMemory(0, 1, MEM_FLAGS_RW)
	b, _ := c.AddMemory(1, 1, MEM_FLAGS_RW)

	c.Write32(0xFE, 0x01020304)
	if a.Data()[0xFE] != 0x01 || a.Data()[0xFF] != 0x02 || b.Data()[0] != 0x03 || b.Data()[1] != 0x04 {
		t.Fatalf("split write landed as % X | % X", a.Data()[0xFE:], b.Data()[:2])
	}
	if got := c.Read32(0xFE); got != 0x01020304 {
		t.Fatalf("split Read32 = 0x%08X, want 0x01020304", got)
	}

	// Into unmapped space: the missing bytes read the sentinel.
	c.SetInvalidValue(0xFF)
	c.Write16(0x1FE, 0xABCD)
	if got := c.Read32(0x1FE); got != 0xABCDFFFF {
		t.Fatalf("Read32 into unmapped = 0x%08X, want 0xABCDFFFF", got)
	}
}

func TestDispatch_CrossPageSpecial(t *testing.T) {
	c := newTestContext(t, 4)
	mem, _ := c.AddMemory(0, 2, MEM_FLAGS_RW)
	var reads, writes []uint32
	c.AddSpecial(1, 1,
		SpecialReadFunc(func(access AccessCode, addr uint32) (uint32, Verdict) {
			reads = append(reads, addr)
			return 0xEE, Handled()
		}),
		SpecialWriteFunc(func(access AccessCode, addr, value uint32) Verdict {
			writes = append(writes, addr)
			return Handled()
		}))

	c.Write32(0xFE, 0x11223344)
	if got := mem.Data()[0xFE:0x102]; got[0] != 0x11 || got[1] != 0x22 || got[2] != 0 || got[3] != 0 {
		t.Fatalf("backing after Write32 = % X, want 11 22 00 00", got)
	}
	if len(writes) != 2 || writes[0] != 0x100 || writes[1] != 0x101 {
		t.Fatalf("handler writes = %X, want [100 101]", writes)
	}
	if got := c.Read32(0xFE); got != 0x1122EEEE {
		t.Fatalf("Read32 across special page = 0x%08X, want 0x1122EEEE", got)
	}
	if len(reads) != 2 {
		t.Fatalf("handler saw %d reads, want 2", len(reads))
	}

	// Within one page of the entry the fast path still applies.
	c.Write32(0x10, 0xCAFEBABE)
	if got := c.Read32(0x10); got != 0xCAFEBABE {
		t.Fatalf("Read32 = 0x%08X, want 0xCAFEBABE", got)
	}
}

func TestDispatch_CrossPageIntoMemory(t *testing.T) {
	c := newTestContext(t, 4)
	mem, _ := c.AddMemory(1, 1, MEM_FLAGS_RW)
	c.AddEmpty(2, 1, MEM_FLAGS_RW)
	c.AddMemory(3, 1, MEM_FLAGS_RW)
	c.SetInvalidValue(0xFF)
	c.SetEmptyValue(0x00)
	copy(mem.Data(), []byte{0x12, 0x34})

	if got := c.Read32(0xFE); got != 0xFFFF1234 {
		t.Fatalf("Read32 from unmapped into memory = 0x%08X, want 0xFFFF1234", got)
	}
	c.Write32(0xFE, 0xAABBCCDD)
	if got := mem.Data()[:2]; got[0] != 0xCC || got[1] != 0xDD {
		t.Fatalf("memory after Write32 = % X, want CC DD", got)
	}
	if st := c.Stats(); st.InvalidReads != 2 || st.InvalidWrites != 2 {
		t.Fatalf("Stats() = %+v, want 2 invalid reads and writes", st)
	}

	// Empty into memory behaves the same way.
	c.Write16(0x2FF, 0x5566)
	if got := c.Read16(0x2FF); got != 0x0066 {
		t.Fatalf("Read16 from empty into memory = 0x%04X, want 0x0066", got)
	}
}

func TestDispatch_MemoryFlags(t *testing.T) {
	c := newTestContext(t, 4)
	rom, _ := c.AddMemory(0, 1, MEM_FLAGS_READ)
	noRead, _ := c.AddMemory(1, 1, MEM_FLAGS_WRITE)
	c.SetInvalidValue(0x77)
	copy(rom.Data(), []byte{0x4E, 0x71, 0x4E, 0x75})

	c.Write16(0x000, 0xFFFF)
	if got := c.Read32(0x000); got != 0x4E714E75 {
		t.Fatalf("ROM Read32 after write = 0x%08X, want 0x4E714E75", got)
	}

	c.Write8(0x100, 0x99)
	if noRead.Data()[0] != 0x99 {
		t.Fatalf("write-only buffer = 0x%02X, want 0x99", noRead.Data()[0])
	}
	if got := c.Read8(0x100); got != 0x77 {
		t.Fatalf("Read8 of write-only memory = 0x%02X, want invalid sentinel", got)
	}

	// Host access ignores flags.
	if err := c.Poke16(0x000, 0x6000); err != nil {
		t.Fatalf("Poke16 into ROM failed: %v", err)
	}
	if v, err := c.Peek8(0x100); err != nil || v != 0x99 {
		t.Fatalf("Peek8 of write-only memory = 0x%02X, %v", v, err)
	}
}

func TestDispatch_EmptyRegion(t *testing.T) {
	c := newTestContext(t, 4)
	c.AddEmpty(0, 1, MEM_FLAGS_RW)
	c.AddEmpty(1, 1, 0)
	c.SetEmptyValue(0x00)

	c.Write32(0x010, 0x12345678)
	c.Write32(0x110, 0x12345678)
	if got := c.Read32(0x010); got != 0 {
		t.Fatalf("empty Read32 = 0x%08X, want 0", got)
	}
	if got := c.Stats(); got.RejectedWrites != 1 || got.InvalidWrites != 0 {
		t.Fatalf("Stats() = %+v, want one rejected write", got)
	}
}

func TestDispatch_CPUTraceAfterTransfer(t *testing.T) {
	c := newTestContext(t, 4)
	c.AddMemory(0, 1, MEM_FLAGS_RW)

	type ev struct {
		access AccessCode
		addr   uint32
		value  uint32
		stored uint32
	}
	var events []ev
	c.SetCPUTrace(func(access AccessCode, addr, value uint32) any {
		stored, _ := c.Peek32(addr &^ 3)
		events = append(events, ev{access, addr, value, stored})
		return nil
	})

	c.Write32(0x40, 0xCAFEF00D)
	c.Read16(0x42)
	c.ReadDisassembler16(0x40)

	if len(events) != 2 {
		t.Fatalf("trace saw %d events, want 2 (disassembler reads are not traced)", len(events))
	}
	if events[0].access != MEM_ACCESS_W32|AccessCode(MEM_FC_SUPER_DATA) || events[0].stored != 0xCAFEF00D {
		t.Fatalf("write event = %+v, want value stored before the hook", events[0])
	}
	if events[1].access != MEM_ACCESS_R16|AccessCode(MEM_FC_SUPER_DATA) || events[1].value != 0xF00D {
		t.Fatalf("read event = %+v, want R16 of 0xF00D", events[1])
	}
}

func BenchmarkRead32_Memory(b *testing.B) {
	c, _ := New(16, WithHeapBuffers())
	defer c.Free()
	c.AddMemory(0, 16, MEM_FLAGS_RW)
	c.Write32(0x1000, 0x12345678)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Read32(0x1000)
	}
}

func BenchmarkRead32_Special(b *testing.B) {
	c, _ := New(16, WithHeapBuffers())
	defer c.Free()
	c.AddSpecial(15, 1, SpecialReadFunc(func(AccessCode, uint32) (uint32, Verdict) { return 0x42, Handled() }), nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Read32(0xF0000)
	}
}

func BenchmarkWrite32_Memory(b *testing.B) {
	c, _ := New(16, WithHeapBuffers())
	defer c.Free()
	c.AddMemory(0, 16, MEM_FLAGS_RW)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Write32(0x1000, uint32(i))
	}
}

func BenchmarkRead32_Traced(b *testing.B) {
	c, _ := New(16, WithHeapBuffers())
	defer c.Free()
	c.AddMemory(0, 16, MEM_FLAGS_RW)
	c.SetCPUTrace(func(AccessCode, uint32, uint32) any { return nil })
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Read32(0x1000)
	}
}
