package m68kmem

import "testing"

func TestAccessCodeBits(t *testing.T) {
	tests := []struct {
		width int
		write bool
		want  AccessCode
	}{
		{1, false, MEM_ACCESS_R8},
		{2, false, MEM_ACCESS_R16},
		{4, false, MEM_ACCESS_R32},
		{1, true, MEM_ACCESS_W8},
		{2, true, MEM_ACCESS_W16},
		{4, true, MEM_ACCESS_W32},
	}
	for _, tt := range tests {
		a := makeAccess(tt.width, tt.write, MEM_FC_SUPER_PROG)
		if a&MEM_ACCESS_MASK != tt.want {
			t.Fatalf("makeAccess(%d, %v) low bits = %d, want %d", tt.width, tt.write, a&MEM_ACCESS_MASK, tt.want)
		}
		if a.Width() != tt.width || a.IsWrite() != tt.write || a.FunctionCode() != MEM_FC_SUPER_PROG {
			t.Fatalf("access 0x%03X decodes to width %d write %v fc %s", a, a.Width(), a.IsWrite(), a.FunctionCode())
		}
	}
	if MEM_ACCESS_BSET.Width() != 0 || MEM_ACCESS_W_BLOCK.APIKind() != MEM_ACCESS_W_BLOCK {
		t.Fatal("API codes must carry no width")
	}
	if MEM_ACCESS_W_BLOCK != MEM_ACCESS_R_BLOCK|MEM_ACCESS_SWRITE || MEM_ACCESS_BCOPY&MEM_ACCESS_EXTRA == 0 {
		t.Fatal("API write and extra bits out of place")
	}
}

func TestFunctionCodes(t *testing.T) {
	tests := []struct {
		pins                        uint8
		fc                          FunctionCode
		user, super, prog, data, ia bool
		name                        string
	}{
		{1, MEM_FC_USER_DATA, true, false, false, true, false, "UD"},
		{2, MEM_FC_USER_PROG, true, false, true, false, false, "UP"},
		{5, MEM_FC_SUPER_DATA, false, true, false, true, false, "SD"},
		{6, MEM_FC_SUPER_PROG, false, true, true, false, false, "SP"},
		{7, MEM_FC_INT_ACK, false, false, false, false, true, "IA"},
		{0, MEM_FC_INVALID, false, false, false, false, false, "--"},
		{3, MEM_FC_INVALID, false, false, false, false, false, "--"},
	}
	for _, tt := range tests {
		fc := FunctionCodeFromM68K(tt.pins)
		if fc != tt.fc {
			t.Fatalf("FunctionCodeFromM68K(%d) = 0x%03X, want 0x%03X", tt.pins, uint16(fc), uint16(tt.fc))
		}
		if fc.IsUser() != tt.user || fc.IsSupervisor() != tt.super || fc.IsProgram() != tt.prog || fc.IsData() != tt.data || fc.IsIntAck() != tt.ia {
			t.Fatalf("fc %s classified wrongly", fc)
		}
		if fc.String() != tt.name {
			t.Fatalf("String() = %q, want %q", fc.String(), tt.name)
		}
		if tt.fc.IsValid() && fc.M68K() != tt.pins {
			t.Fatalf("M68K() = %d, want %d", fc.M68K(), tt.pins)
		}
	}
	if FunctionCode(0x030).String() != "??" {
		t.Fatal("unknown function codes must render as ??")
	}
}
