// commands.go - Monitor commands operating on the memory context

package main

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/intuitionamiga/m68kmem"
	"github.com/intuitionamiga/m68kmem/luadev"
)

// maxTransfer bounds save, load and the range commands.
const maxTransfer = 32 * 1024 * 1024

func (m *Monitor) cmdMemoryDump(cmd MonitorCommand) bool {
	var addr uint32
	lines := 8

	if len(cmd.Args) >= 1 {
		v, ok := ParseAddress(cmd.Args[0])
		if !ok {
			m.appendOutput(fmt.Sprintf("Invalid address: %s", cmd.Args[0]), colorRed)
			return false
		}
		addr = v
	}
	if len(cmd.Args) >= 2 {
		if v, ok := ParseAddress(cmd.Args[1]); ok && v > 0 {
			lines = int(min(v, 4096))
		}
	}

	for range lines {
		data := m.ctx.ReadBytes(addr, 16)
		var hexParts []string
		var asciiParts []byte
		for _, b := range data {
			hexParts = append(hexParts, fmt.Sprintf("%02X", b))
			if b >= 0x20 && b < 0x7F {
				asciiParts = append(asciiParts, b)
			} else {
				asciiParts = append(asciiParts, '.')
			}
		}
		hexStr := strings.Join(hexParts[:8], " ") + "  " + strings.Join(hexParts[8:], " ")
		m.appendOutput(fmt.Sprintf("%08X: %s  %s", addr, hexStr, asciiParts), colorWhite)
		addr += 16
		if addr < 16 {
			break // wrapped
		}
	}
	return false
}

func (m *Monitor) cmdFill(cmd MonitorCommand) bool {
	if len(cmd.Args) < 3 {
		m.appendOutput("Usage: f <start> <end> <byte>", colorRed)
		return false
	}
	start, size, ok1 := parseRange(cmd.Args)
	val, ok2 := ParseAddress(cmd.Args[2])
	if !ok1 || !ok2 {
		m.appendOutput("Invalid argument", colorRed)
		return false
	}
	if size > maxTransfer {
		m.appendOutput("Range too large (max 32MB)", colorRed)
		return false
	}
	if err := m.ctx.SetBlock(start, size, uint8(val)); err != nil {
		m.appendOutput(fmt.Sprintf("Error: %s", err), colorYellow)
	}
	m.appendOutput(fmt.Sprintf("Filled $%X-$%X with $%02X", start, start+size-1, uint8(val)), colorCyan)
	return false
}

func (m *Monitor) cmdTransfer(cmd MonitorCommand) bool {
	if len(cmd.Args) < 3 {
		m.appendOutput("Usage: t <start> <end> <dest>", colorRed)
		return false
	}
	start, size, ok1 := parseRange(cmd.Args)
	dest, ok2 := ParseAddress(cmd.Args[2])
	if !ok1 || !ok2 {
		m.appendOutput("Invalid argument", colorRed)
		return false
	}
	if size > maxTransfer {
		m.appendOutput("Range too large (max 32MB)", colorRed)
		return false
	}
	if err := m.ctx.CopyBlock(start, dest, size); err != nil {
		m.appendOutput(fmt.Sprintf("Error: %s", err), colorYellow)
	}
	m.appendOutput(fmt.Sprintf("Transferred %d bytes from $%X to $%X", size, start, dest), colorCyan)
	return false
}

func (m *Monitor) cmdWrite(cmd MonitorCommand) bool {
	if len(cmd.Args) < 2 {
		m.appendOutput("Usage: w <addr> <bytes..>", colorRed)
		return false
	}
	addr, ok := ParseAddress(cmd.Args[0])
	if !ok {
		m.appendOutput(fmt.Sprintf("Invalid address: %s", cmd.Args[0]), colorRed)
		return false
	}
	data, ok := m.parseBytes(cmd.Args[1:])
	if !ok {
		return false
	}
	if err := m.ctx.WriteBytes(addr, data); err != nil {
		m.appendOutput(fmt.Sprintf("Error: %s", err), colorYellow)
	}
	m.appendOutput(fmt.Sprintf("Wrote %d byte(s) at $%X", len(data), addr), colorCyan)
	return false
}

func (m *Monitor) parseBytes(args []string) ([]byte, bool) {
	var data []byte
	for _, arg := range args {
		v, ok := ParseAddress(arg)
		if !ok || v > 0xFF {
			m.appendOutput(fmt.Sprintf("Invalid byte: %s", arg), colorRed)
			return nil, false
		}
		data = append(data, byte(v))
	}
	return data, true
}

func (m *Monitor) cmdHunt(cmd MonitorCommand) bool {
	if len(cmd.Args) < 3 {
		m.appendOutput("Usage: h <start> <end> <bytes..>", colorRed)
		return false
	}
	start, size, ok := parseRange(cmd.Args)
	if !ok || size > maxTransfer {
		m.appendOutput("Invalid range", colorRed)
		return false
	}
	pattern, ok := m.parseBytes(cmd.Args[2:])
	if !ok {
		return false
	}

	data := m.ctx.ReadBytes(start, size)
	found := 0
	for off := 0; ; off++ {
		i := bytes.Index(data[off:], pattern)
		if i < 0 {
			break
		}
		off += i
		m.appendOutput(fmt.Sprintf("Found at $%X", start+uint32(off)), colorCyan)
		found++
		if found >= 256 {
			m.appendOutput("... (truncated)", colorDim)
			break
		}
	}
	if found == 0 {
		m.appendOutput("Not found", colorDim)
	}
	return false
}

func (m *Monitor) cmdCompare(cmd MonitorCommand) bool {
	if len(cmd.Args) < 3 {
		m.appendOutput("Usage: c <start> <end> <dest>", colorRed)
		return false
	}
	start, size, ok1 := parseRange(cmd.Args)
	dest, ok2 := ParseAddress(cmd.Args[2])
	if !ok1 || !ok2 || size > maxTransfer {
		m.appendOutput("Invalid argument", colorRed)
		return false
	}

	data1 := m.ctx.ReadBytes(start, size)
	data2 := m.ctx.ReadBytes(dest, size)
	diffs := 0
	for i := range data1 {
		if data1[i] != data2[i] {
			m.appendOutput(fmt.Sprintf("$%X: %02X != %02X (at $%X)", start+uint32(i), data1[i], data2[i], dest+uint32(i)), colorYellow)
			diffs++
			if diffs >= 256 {
				m.appendOutput("... (truncated)", colorDim)
				break
			}
		}
	}
	if diffs == 0 {
		m.appendOutput("Identical", colorGreen)
	}
	return false
}

// parseWidth maps the b/w/l size letters to access widths.
func parseWidth(s string) (int, bool) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "b":
		return 1, true
	case "w":
		return 2, true
	case "l":
		return 4, true
	}
	return 0, false
}

// parseFunctionCode accepts the two letter names printed by the trace.
func parseFunctionCode(s string) (m68kmem.FunctionCode, bool) {
	for _, fc := range []m68kmem.FunctionCode{
		m68kmem.MEM_FC_USER_DATA, m68kmem.MEM_FC_USER_PROG,
		m68kmem.MEM_FC_SUPER_DATA, m68kmem.MEM_FC_SUPER_PROG,
		m68kmem.MEM_FC_INT_ACK,
	} {
		if strings.EqualFold(s, fc.String()) {
			return fc, true
		}
	}
	return 0, false
}

// withFunctionCode runs f as if the CPU drove function code fc.
func (m *Monitor) withFunctionCode(args []string, f func()) bool {
	prev := m.ctx.FunctionCode()
	if len(args) > 0 {
		fc, ok := parseFunctionCode(args[0])
		if !ok {
			m.appendOutput(fmt.Sprintf("Invalid function code: %s (UD, UP, SD, SP, IA)", args[0]), colorRed)
			return false
		}
		m.ctx.SetFunctionCode(fc)
	}
	f()
	m.ctx.SetFunctionCode(prev)
	return true
}

func (m *Monitor) cmdCPURead(cmd MonitorCommand) bool {
	if len(cmd.Args) < 2 {
		m.appendOutput("Usage: rd <b|w|l> <addr> [fc]", colorRed)
		return false
	}
	width, ok1 := parseWidth(cmd.Args[0])
	addr, ok2 := ParseAddress(cmd.Args[1])
	if !ok1 || !ok2 {
		m.appendOutput("Invalid argument", colorRed)
		return false
	}
	var value uint32
	ok := m.withFunctionCode(cmd.Args[2:], func() {
		switch width {
		case 1:
			value = uint32(m.ctx.Read8(addr))
		case 2:
			value = uint32(m.ctx.Read16(addr))
		default:
			value = m.ctx.Read32(addr)
		}
	})
	if ok {
		m.appendOutput(fmt.Sprintf("$%08X = $%0*X", addr, width*2, value), colorWhite)
		m.reportTraceEvent()
	}
	return false
}

func (m *Monitor) cmdCPUWrite(cmd MonitorCommand) bool {
	if len(cmd.Args) < 3 {
		m.appendOutput("Usage: wr <b|w|l> <addr> <value> [fc]", colorRed)
		return false
	}
	width, ok1 := parseWidth(cmd.Args[0])
	addr, ok2 := ParseAddress(cmd.Args[1])
	value, ok3 := ParseAddress(cmd.Args[2])
	if !ok1 || !ok2 || !ok3 {
		m.appendOutput("Invalid argument", colorRed)
		return false
	}
	ok := m.withFunctionCode(cmd.Args[3:], func() {
		switch width {
		case 1:
			m.ctx.Write8(addr, uint8(value))
		case 2:
			m.ctx.Write16(addr, uint16(value))
		default:
			m.ctx.Write32(addr, value)
		}
	})
	if ok {
		m.reportTraceEvent()
	}
	return false
}

// reportTraceEvent shows a value parked by the CPU trace hook.
func (m *Monitor) reportTraceEvent() {
	if ev := m.ctx.TakeTraceEvent(); ev != nil {
		m.appendOutput(fmt.Sprintf("Trace event: %v", ev), colorYellow)
	}
}

func (m *Monitor) cmdString(cmd MonitorCommand) bool {
	if len(cmd.Args) < 1 {
		m.appendOutput(fmt.Sprintf("Usage: %s <addr>", cmd.Name), colorRed)
		return false
	}
	addr, ok := ParseAddress(cmd.Args[0])
	if !ok {
		m.appendOutput(fmt.Sprintf("Invalid address: %s", cmd.Args[0]), colorRed)
		return false
	}
	read := m.ctx.ReadCString
	if cmd.Name == "bs" {
		read = m.ctx.ReadBString
	}
	s, err := read(addr)
	if err != nil {
		m.appendOutput(fmt.Sprintf("Error: %s", err), colorRed)
		return false
	}
	m.appendOutput(fmt.Sprintf("$%08X: %q (%d bytes)", addr, s, len(s)), colorWhite)
	return false
}

func (m *Monitor) cmdMap(_ MonitorCommand) bool {
	pages := m.ctx.PageMapString()
	const perLine = 64
	for i := 0; i < len(pages); i += perLine {
		end := min(i+perLine, len(pages))
		row := pages[i:end]
		if strings.Trim(row, "_") == "" && len(pages) > 4*perLine {
			continue
		}
		m.appendOutput(fmt.Sprintf("%08X: %s", uint64(i)<<m.ctx.PageShift(), row), colorWhite)
	}
	m.appendOutput("a=RAM o=ROM X=empty S=special _=unmapped", colorDim)
	return false
}

func (m *Monitor) cmdEntries(_ MonitorCommand) bool {
	entries := m.ctx.Entries()
	specials := m.ctx.Specials()
	if len(entries) == 0 && len(specials) == 0 {
		m.appendOutput("No entries", colorDim)
		return false
	}
	for _, e := range entries {
		m.appendOutput(e.String(), colorWhite)
	}
	for _, s := range specials {
		text := s.String()
		if d := deviceOf(s); d != nil {
			text += " lua " + d.Name()
		}
		m.appendOutput(text, colorCyan)
	}
	return false
}

func (m *Monitor) cmdFlags(cmd MonitorCommand) bool {
	if len(cmd.Args) < 1 {
		m.appendOutput("Usage: flags <addr>", colorRed)
		return false
	}
	addr, ok := ParseAddress(cmd.Args[0])
	if !ok {
		m.appendOutput(fmt.Sprintf("Invalid address: %s", cmd.Args[0]), colorRed)
		return false
	}
	page := m.ctx.PageOf(addr)
	kind := m.ctx.PageKind(page)
	text := fmt.Sprintf("$%08X: page $%X %s", addr, page, kind)
	if flags, ok := m.ctx.GetMemoryFlags(addr); ok {
		text += " " + flags.String()
	}
	if m.ctx.PageHasSpecial(page) {
		text += " special"
	}
	m.appendOutput(text, colorWhite)
	return false
}

func (m *Monitor) cmdSaveMemory(cmd MonitorCommand) bool {
	if len(cmd.Args) < 3 {
		m.appendOutput("Usage: save <start> <end> <filename>", colorRed)
		return false
	}
	start, size, ok := parseRange(cmd.Args)
	if !ok {
		m.appendOutput("Invalid address", colorRed)
		return false
	}
	if size > maxTransfer {
		m.appendOutput("Range too large (max 32MB)", colorRed)
		return false
	}

	data := m.ctx.ReadBytes(start, size)
	if err := os.WriteFile(cmd.Args[2], data, 0644); err != nil {
		m.appendOutput(fmt.Sprintf("Error: %s", err), colorRed)
		return false
	}
	m.appendOutput(fmt.Sprintf("Saved %d bytes ($%X-$%X) to %s", size, start, start+size-1, cmd.Args[2]), colorCyan)
	return false
}

func (m *Monitor) cmdLoadMemory(cmd MonitorCommand) bool {
	if len(cmd.Args) < 2 {
		m.appendOutput("Usage: load <filename> <addr>", colorRed)
		return false
	}
	data, err := os.ReadFile(cmd.Args[0])
	if err != nil {
		m.appendOutput(fmt.Sprintf("Error: %s", err), colorRed)
		return false
	}
	if len(data) > maxTransfer {
		m.appendOutput("File too large (max 32MB)", colorRed)
		return false
	}
	addr, ok := ParseAddress(cmd.Args[1])
	if !ok {
		m.appendOutput(fmt.Sprintf("Invalid address: %s", cmd.Args[1]), colorRed)
		return false
	}
	if err := m.ctx.WriteBytes(addr, data); err != nil {
		m.appendOutput(fmt.Sprintf("Error: %s", err), colorYellow)
	}
	m.appendOutput(fmt.Sprintf("Loaded %d bytes from %s to $%X", len(data), cmd.Args[0], addr), colorCyan)
	return false
}

func (m *Monitor) cmdTrace(cmd MonitorCommand) bool {
	if len(cmd.Args) < 2 {
		m.appendOutput(fmt.Sprintf("Trace: cpu %s, api %s", onOff(m.traceCPU), onOff(m.traceAPI)), colorCyan)
		m.appendOutput("Usage: trace <cpu|api> <on|off>", colorDim)
		return false
	}
	var on bool
	switch strings.ToLower(cmd.Args[1]) {
	case "on":
		on = true
	case "off":
	default:
		m.appendOutput(fmt.Sprintf("Invalid state: %s", cmd.Args[1]), colorRed)
		return false
	}
	switch strings.ToLower(cmd.Args[0]) {
	case "cpu":
		m.traceCPU = on
	case "api":
		m.traceAPI = on
	default:
		m.appendOutput(fmt.Sprintf("Unknown trace: %s", cmd.Args[0]), colorRed)
		return false
	}
	m.appendOutput(fmt.Sprintf("Trace %s %s", strings.ToLower(cmd.Args[0]), onOff(on)), colorCyan)
	return false
}

func (m *Monitor) cmdWatch(cmd MonitorCommand) bool {
	if len(cmd.Args) == 0 {
		if len(m.watches) == 0 {
			m.appendOutput("No watches", colorDim)
		}
		for _, addr := range slices.Sorted(maps.Keys(m.watches)) {
			m.appendOutput(fmt.Sprintf("watch $%08X", addr), colorCyan)
		}
		return false
	}
	if strings.EqualFold(cmd.Args[0], "clear") {
		clear(m.watches)
		m.appendOutput("Watches cleared", colorCyan)
		return false
	}
	addr, ok := ParseAddress(cmd.Args[0])
	if !ok {
		m.appendOutput(fmt.Sprintf("Invalid address: %s", cmd.Args[0]), colorRed)
		return false
	}
	m.watches[addr] = true
	m.appendOutput(fmt.Sprintf("Watching $%08X", addr), colorCyan)
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (m *Monitor) cmdHeat(cmd MonitorCommand) bool {
	if len(cmd.Args) > 0 && strings.EqualFold(cmd.Args[0], "reset") {
		m.heat.Reset()
		m.appendOutput("Heat counters cleared", colorCyan)
		return false
	}
	n := 16
	if len(cmd.Args) > 0 {
		if v, ok := ParseAddress(cmd.Args[0]); ok && v > 0 {
			n = int(v)
		}
	}
	top := m.heat.Top(n)
	if len(top) == 0 {
		m.appendOutput("No accesses recorded", colorDim)
		return false
	}
	for _, p := range top {
		color := uint32(colorGreen)
		switch {
		case p.Reads == 0:
			color = colorRed
		case p.Writes > 0:
			color = colorYellow
		}
		m.appendOutput(fmt.Sprintf("page $%X ($%08X): %d reads, %d writes", p.Page, uint64(p.Page)<<m.ctx.PageShift(), p.Reads, p.Writes), color)
	}
	return false
}

func (m *Monitor) cmdMapImage(cmd MonitorCommand) bool {
	if len(cmd.Args) < 1 {
		m.appendOutput("Usage: mapimg <file.png>", colorRed)
		return false
	}
	f, err := os.Create(cmd.Args[0])
	if err != nil {
		m.appendOutput(fmt.Sprintf("Error: %s", err), colorRed)
		return false
	}
	err = WriteMapImage(f, m.ctx, m.heat)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		m.appendOutput(fmt.Sprintf("Error: %s", err), colorRed)
		return false
	}
	m.appendOutput(fmt.Sprintf("Wrote page map of %d pages to %s", m.ctx.NumPages(), cmd.Args[0]), colorCyan)
	return false
}

func (m *Monitor) cmdView(_ MonitorCommand) bool {
	if err := m.view(); err != nil {
		m.appendOutput(fmt.Sprintf("Error: %s", err), colorRed)
	}
	return false
}

func (m *Monitor) cmdStats(cmd MonitorCommand) bool {
	if len(cmd.Args) > 0 && strings.EqualFold(cmd.Args[0], "reset") {
		m.ctx.ResetStats()
		m.appendOutput("Statistics cleared", colorCyan)
		return false
	}
	st := m.ctx.Stats()
	m.appendOutput(fmt.Sprintf("Invalid reads:   %d", st.InvalidReads), colorWhite)
	m.appendOutput(fmt.Sprintf("Invalid writes:  %d", st.InvalidWrites), colorWhite)
	m.appendOutput(fmt.Sprintf("Rejected reads:  %d", st.RejectedReads), colorWhite)
	m.appendOutput(fmt.Sprintf("Rejected writes: %d", st.RejectedWrites), colorWhite)
	return false
}

func (m *Monitor) cmdLua(cmd MonitorCommand) bool {
	if len(cmd.Args) >= 2 && strings.EqualFold(cmd.Args[0], "rm") {
		addr, ok := ParseAddress(cmd.Args[1])
		if !ok {
			m.appendOutput(fmt.Sprintf("Invalid address: %s", cmd.Args[1]), colorRed)
			return false
		}
		page := m.ctx.PageOf(addr)
		for _, s := range m.ctx.Specials() {
			if page >= s.StartPage() && page-s.StartPage() < s.NumPages() && deviceOf(s) != nil {
				if err := m.ctx.RemoveSpecial(s); err != nil {
					m.appendOutput(fmt.Sprintf("Error: %s", err), colorRed)
					return false
				}
				m.appendOutput(fmt.Sprintf("Removed %s", s), colorCyan)
				return false
			}
		}
		m.appendOutput(fmt.Sprintf("No Lua device at $%X", addr), colorRed)
		return false
	}
	if len(cmd.Args) < 3 {
		m.appendOutput("Usage: lua <file> <addr> <size> | lua rm <addr>", colorRed)
		return false
	}
	addr, ok := ParseAddress(cmd.Args[1])
	if !ok {
		m.appendOutput(fmt.Sprintf("Invalid address: %s", cmd.Args[1]), colorRed)
		return false
	}
	if err := attachDevice(m.ctx, cmd.Args[0], addr, cmd.Args[2]); err != nil {
		m.appendOutput(fmt.Sprintf("Error: %s", err), colorRed)
		return false
	}
	m.appendOutput(fmt.Sprintf("Attached %s at $%X", cmd.Args[0], addr), colorCyan)
	return false
}

// attachDevice loads a Lua device and maps it over size bytes at addr.
func attachDevice(ctx *m68kmem.Context, path string, addr uint32, size string) error {
	if addr&(ctx.PageSize()-1) != 0 {
		return fmt.Errorf("%w: $%X is not page aligned", m68kmem.ErrConfig, addr)
	}
	n, err := m68kmem.ParseSize(size, 1024, uint64(ctx.PageSize()))
	if err != nil {
		return err
	}
	pages := (n + uint64(ctx.PageSize()) - 1) >> ctx.PageShift()
	d, err := luadev.Load(path)
	if err != nil {
		return err
	}
	if _, err := ctx.AddSpecial(ctx.PageOf(addr), uint32(pages), d.Reader(), d.Writer()); err != nil {
		d.Close()
		return err
	}
	return nil
}

func (m *Monitor) cmdLuaErrors(_ MonitorCommand) bool {
	n := 0
	for _, s := range m.ctx.Specials() {
		d := deviceOf(s)
		if d == nil {
			continue
		}
		n++
		err := d.Err()
		if err == nil {
			m.appendOutput(fmt.Sprintf("%s: ok (%d failures)", d.Name(), d.Failures()), colorGreen)
			continue
		}
		m.appendOutput(fmt.Sprintf("%s: %d failures, first: %s", d.Name(), d.Failures(), err), colorRed)
	}
	if n == 0 {
		m.appendOutput("No Lua devices", colorDim)
	}
	return false
}

func (m *Monitor) cmdScript(cmd MonitorCommand) bool {
	if len(cmd.Args) < 1 {
		m.appendOutput("Usage: script <filename>", colorRed)
		return false
	}
	data, err := os.ReadFile(cmd.Args[0])
	if err != nil {
		m.appendOutput(fmt.Sprintf("Error: %s", err), colorRed)
		return false
	}

	m.scriptDepth++
	defer func() { m.scriptDepth-- }()
	if m.scriptDepth > 8 {
		m.appendOutput("Script recursion limit reached", colorRed)
		return false
	}

	for line := range strings.SplitSeq(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if m.ExecuteCommand(line) {
			return true
		}
	}
	return false
}

func (m *Monitor) cmdMacro(cmd MonitorCommand) bool {
	if len(cmd.Args) < 2 {
		m.appendOutput("Usage: macro <name> <cmd1> ; <cmd2> ; ...", colorRed)
		return false
	}

	name := strings.ToLower(cmd.Args[0])
	var cleaned []string
	for c := range strings.SplitSeq(strings.Join(cmd.Args[1:], " "), ";") {
		if c = strings.TrimSpace(c); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	m.macros[name] = cleaned
	m.appendOutput(fmt.Sprintf("Macro '%s' defined (%d commands)", name, len(cleaned)), colorCyan)
	return false
}

func (m *Monitor) cmdHelp(_ MonitorCommand) bool {
	helpLines := []string{
		"Memory Monitor Commands:",
		"  m [addr] [lines]          Memory dump (hex+ASCII)",
		"  f <start> <end> <byte>    Fill memory",
		"  w <addr> <bytes..>        Write bytes",
		"  h <start> <end> <bytes..> Hunt/search",
		"  c <start> <end> <dest>    Compare memory",
		"  t <start> <end> <dest>    Transfer/copy memory",
		"  rd <b|w|l> <addr> [fc]    CPU read (fc: UD UP SD SP IA)",
		"  wr <b|w|l> <addr> <v> [fc] CPU write",
		"  cs <addr> / bs <addr>     Read C / BCPL string",
		"  map                       Page map",
		"  entries                   List memory and special entries",
		"  flags <addr>              Page kind and region flags",
		"  save <s> <e> <file>       Save memory to file",
		"  load <file> <addr>        Load file into memory",
		"  trace <cpu|api> <on|off>  Trace accesses to the output",
		"  watch [addr|clear]        Report CPU accesses to addr",
		"  heat [n|reset]            Busiest pages",
		"  mapimg <file.png>         Write page map image",
		"  view                      Full-screen heat view",
		"  stats [reset]             Miss statistics",
		"  lua <file> <addr> <size>  Attach Lua device",
		"  lua rm <addr>             Remove Lua device",
		"  errs                      Lua device errors",
		"  script <file>             Run command script",
		"  macro <name> <cmds..>     Define macro (;-separated)",
		"  x                         Exit monitor",
		"",
		"Addresses: $hex, 0xhex, bare hex, #decimal",
		"Sizes: 64 (KiB), 512k, 2m, 1g, 4p (pages)",
	}
	for _, line := range helpLines {
		m.appendOutput(line, colorCyan)
	}
	return false
}
