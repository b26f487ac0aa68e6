package luadev

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/intuitionamiga/m68kmem"
)

const timerScript = `
ticks = 0
latch = 0

function read(addr, width, access)
  if addr == 0x100 then
    if not mem.is_peek(access) then
      ticks = ticks + 1
    end
    return ticks
  end
  if addr == 0x104 then
    return latch
  end
  return nil
end

function write(addr, width, value, access)
  if addr == 0x104 then
    latch = value
    return true
  end
  return false
end
`

func newContext(t *testing.T) *m68kmem.Context {
	t.Helper()
	c, err := m68kmem.New(4, m68kmem.WithPageShift(8), m68kmem.WithHeapBuffers())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(c.Free)
	return c
}

func TestDevice_ReadWrite(t *testing.T) {
	d, err := LoadString("timer", timerScript)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	c := newContext(t)
	c.SetSpecialCleanup(func(*m68kmem.SpecialEntry) { d.Close() })
	c.AddMemory(1, 1, m68kmem.MEM_FLAGS_RW)
	c.Write32(0x108, 0x55667788)
	if _, err := c.AddSpecial(1, 1, d.Reader(), d.Writer()); err != nil {
		t.Fatalf("AddSpecial failed: %v", err)
	}

	for want := uint32(1); want <= 3; want++ {
		if got := c.Read32(0x100); got != want {
			t.Fatalf("Read32(0x100) = %d, want %d", got, want)
		}
	}
	// Disassembler peeks must not advance the timer.
	if got := c.ReadDisassembler32(0x100); got != 3 {
		t.Fatalf("ReadDisassembler32 = %d, want 3", got)
	}
	if got := c.Read16(0x100); got != 4 {
		t.Fatalf("Read16 = %d, want 4", got)
	}

	c.Write32(0x104, 0xDEADBEEF)
	if got := c.Read32(0x104); got != 0xDEADBEEF {
		t.Fatalf("latch = 0x%08X, want 0xDEADBEEF", got)
	}
	// Unclaimed addresses fall through to memory.
	if got := c.Read32(0x108); got != 0x55667788 {
		t.Fatalf("Read32(0x108) = 0x%08X, want memory", got)
	}
	c.Write8(0x10C, 0x42)
	if got := c.Read8(0x10C); got != 0x42 {
		t.Fatalf("Read8(0x10C) = 0x%02X, want 0x42", got)
	}
	if err := d.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
}

func TestDevice_ScriptErrorsPass(t *testing.T) {
	d, err := LoadString("broken", `
function read(addr, width, access)
  error("register not implemented")
end
`)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	defer d.Close()

	c := newContext(t)
	c.SetInvalidValue(0xEE)
	c.AddSpecial(0, 1, d.Reader(), d.Writer())

	if got := c.Read8(0x10); got != 0xEE {
		t.Fatalf("Read8 = 0x%02X, want invalid sentinel after script error", got)
	}
	c.Read8(0x11)

	err = d.Err()
	if err == nil || !strings.Contains(err.Error(), "register not implemented") || !strings.Contains(err.Error(), "$00000010") {
		t.Fatalf("Err() = %v, want the first script error", err)
	}
	if d.Failures() != 2 {
		t.Fatalf("Failures() = %d, want 2", d.Failures())
	}
	if d.Err() != nil {
		t.Fatal("Err() must clear the recorded error")
	}
	if d.Writer() != nil {
		t.Fatal("script without write() must not provide a writer")
	}
}

func TestDevice_MemHelpers(t *testing.T) {
	d, err := LoadString("helpers", `
function read(addr, width, access)
  local v = width
  if mem.is_super(access) then v = v + 0x10 end
  if mem.is_program(access) then v = v + 0x20 end
  if mem.fc(access) == "UD" then v = v + 0x40 end
  if mem.width(access) ~= width then v = 0xFF end
  return v
end
`)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	defer d.Close()
	c := newContext(t)
	c.AddSpecial(0, 1, d, nil)

	tests := []struct {
		fc   m68kmem.FunctionCode
		want uint8
	}{
		{m68kmem.MEM_FC_SUPER_PROG, 0x31},
		{m68kmem.MEM_FC_SUPER_DATA, 0x11},
		{m68kmem.MEM_FC_USER_DATA, 0x41},
		{m68kmem.MEM_FC_USER_PROG, 0x21},
	}
	for _, tt := range tests {
		c.SetFunctionCode(tt.fc)
		if got := c.Read8(0); got != tt.want {
			t.Fatalf("fc %s: Read8 = 0x%02X, want 0x%02X", tt.fc, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dev.lua")
	if err := os.WriteFile(path, []byte("function write(a, w, v, x) return true end"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if d.Reader() != nil || d.Writer() == nil || d.Name() != path {
		t.Fatal("unexpected handlers for a write-only script")
	}
	d.Close()
	if v := d.SpecialWrite(m68kmem.MEM_ACCESS_W8, 0, 0); v.IsHandled() {
		t.Fatal("closed device must pass")
	}

	if _, err := Load(filepath.Join(dir, "missing.lua")); err == nil {
		t.Fatal("Load of a missing file succeeded")
	}
	if _, err := LoadString("syntax", "function read("); err == nil {
		t.Fatal("LoadString of a syntax error succeeded")
	}
	if _, err := LoadString("idle", "x = 1"); !errors.Is(err, ErrNoHandlers) {
		t.Fatalf("LoadString without handlers error = %v, want ErrNoHandlers", err)
	}
}
