// mem_access.go - AccessCode and FunctionCode helpers

package m68kmem

// makeAccess builds the access code of a CPU bus cycle.
func makeAccess(width int, write bool, fc FunctionCode) AccessCode {
	a := AccessCode(width) & MEM_ACCESS_WIDTH
	if write {
		a |= MEM_ACCESS_WRITE
	}
	return a | AccessCode(fc&MEM_FC_MASK)
}

// Width returns the access width in bytes (1, 2 or 4), or 0 for API codes
// that carry no width.
func (a AccessCode) Width() int {
	switch a & MEM_ACCESS_WIDTH {
	case 1:
		return 1
	case 2:
		return 2
	case 4:
		return 4
	}
	return 0
}

func (a AccessCode) IsWrite() bool {
	return a&MEM_ACCESS_WRITE != 0
}

// FunctionCode extracts the function code bits of a CPU access code.
func (a AccessCode) FunctionCode() FunctionCode {
	return FunctionCode(a) & MEM_FC_MASK
}

// IsPeek reports a read that must not have side effects: disassembler reads
// and host block fallbacks are issued with MEM_FC_INVALID.
func (a AccessCode) IsPeek() bool {
	return a.FunctionCode() == MEM_FC_INVALID
}

// APIKind returns the API operation bits of an API trace access code.
func (a AccessCode) APIKind() AccessCode {
	return a & MEM_ACCESS_SPECIAL
}

// FunctionCodeFromM68K maps the three FC pins driven by a 68000 core
// (1/2 user data/program, 5/6 supervisor data/program, 7 CPU space)
// to the MEM_FC_* encoding.
func FunctionCodeFromM68K(fc uint8) FunctionCode {
	switch fc & 7 {
	case 1:
		return MEM_FC_USER_DATA
	case 2:
		return MEM_FC_USER_PROG
	case 5:
		return MEM_FC_SUPER_DATA
	case 6:
		return MEM_FC_SUPER_PROG
	case 7:
		return MEM_FC_INT_ACK
	}
	return MEM_FC_INVALID
}

// M68K returns the FC pin value for fc, the inverse of FunctionCodeFromM68K.
// Invalid codes map to 0.
func (fc FunctionCode) M68K() uint8 {
	switch fc {
	case MEM_FC_USER_DATA:
		return 1
	case MEM_FC_USER_PROG:
		return 2
	case MEM_FC_SUPER_DATA:
		return 5
	case MEM_FC_SUPER_PROG:
		return 6
	case MEM_FC_INT_ACK:
		return 7
	}
	return 0
}

func (fc FunctionCode) IsValid() bool {
	switch fc {
	case MEM_FC_USER_DATA, MEM_FC_USER_PROG, MEM_FC_SUPER_DATA, MEM_FC_SUPER_PROG, MEM_FC_INT_ACK:
		return true
	}
	return false
}

func (fc FunctionCode) IsUser() bool {
	return fc.IsValid() && fc&MEM_FC_USER_MASK != 0
}

func (fc FunctionCode) IsSupervisor() bool {
	return fc.IsValid() && fc&MEM_FC_SUPER_MASK != 0
}

func (fc FunctionCode) IsProgram() bool {
	return fc.IsValid() && fc&MEM_FC_PROG_MASK != 0
}

func (fc FunctionCode) IsData() bool {
	return fc.IsValid() && fc&MEM_FC_DATA_MASK != 0
}

func (fc FunctionCode) IsIntAck() bool {
	return fc == MEM_FC_INT_ACK
}

// String returns the two letter mnemonic used in trace output.
func (fc FunctionCode) String() string {
	switch fc {
	case MEM_FC_USER_DATA:
		return "UD"
	case MEM_FC_USER_PROG:
		return "UP"
	case MEM_FC_SUPER_DATA:
		return "SD"
	case MEM_FC_SUPER_PROG:
		return "SP"
	case MEM_FC_INT_ACK:
		return "IA"
	case MEM_FC_INVALID:
		return "--"
	}
	return "??"
}
