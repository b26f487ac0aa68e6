package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/intuitionamiga/m68kmem"
	"github.com/intuitionamiga/m68kmem/luadev"
)

// listFlag collects a repeatable string flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(s string) error {
	*l = append(*l, s)
	return nil
}

// layoutFlags describe the address space on the command line.
type layoutFlags struct {
	ram, rom, lua, empty listFlag
	shift                uint
}

func main() {
	var lf layoutFlags
	flag.Var(&lf.ram, "ram", "RAM range addr:size (repeatable, default 0:1m)")
	flag.Var(&lf.rom, "rom", "ROM image file@addr (repeatable)")
	flag.Var(&lf.lua, "lua", "Lua device file@addr:size (repeatable)")
	flag.Var(&lf.empty, "empty", "Empty range addr:size (repeatable)")
	flag.UintVar(&lf.shift, "shift", m68kmem.DEFAULT_PAGE_SHIFT, "Page shift (8..24)")
	pages := flag.Uint("pages", 0, "Page table size (default: fit the layout)")
	invalid := flag.Uint("invalid", 0, "Byte returned for unmapped reads")
	trace := flag.String("trace", "", "Trace to output: cpu, api or cpu,api")
	commands := flag.String("c", "", "Run ;-separated commands and exit")
	script := flag.String("script", "", "Run a command script and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: m68kmon [options]\n\nInspects a paged 68k address space built from the options.\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSizes: 64 (KiB), 512k, 2m, 1g, 4p (pages)\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  m68kmon -ram 0:2m -rom kick.rom@F80000\n")
		fmt.Fprintf(os.Stderr, "  m68kmon -ram 0:512k -lua cia.lua@BF0000:64k -c 'rd b BFE001; map'\n")
	}
	flag.Parse()

	if flag.NArg() != 0 || *invalid > 0xFF {
		flag.Usage()
		os.Exit(1)
	}

	traceCPU, traceAPI, err := parseTrace(*trace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	ctx, err := buildContext(lf, uint32(*pages), m68kmem.WithInvalidValue(uint8(*invalid)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	m := NewMonitor(ctx)
	m.traceCPU, m.traceAPI = traceCPU, traceAPI
	err = runSession(m, *script, *commands)
	ctx.Free()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// parseTrace reads the -trace list.
func parseTrace(s string) (cpu, api bool, err error) {
	for t := range strings.SplitSeq(s, ",") {
		switch strings.TrimSpace(t) {
		case "cpu":
			cpu = true
		case "api":
			api = true
		case "":
		default:
			return false, false, fmt.Errorf("unknown trace %q", t)
		}
	}
	return cpu, api, nil
}

// runSession drives one monitor session: a script and command list when given,
// otherwise the terminal or piped stdin.
func runSession(m *Monitor, script, commands string) error {
	if script != "" || commands != "" {
		if script != "" {
			m.ExecuteCommand("script " + script)
		}
		for c := range strings.SplitSeq(commands, ";") {
			if m.ExecuteCommand(c) {
				break
			}
		}
		m.Flush(os.Stdout, false)
		return nil
	}
	if isInteractive() {
		m.ExecuteCommand("map")
		m.Flush(os.Stdout, true)
		return runInteractive(m)
	}
	return runLines(m, os.Stdin, os.Stdout)
}

// buildContext turns the layout flags into a context. ROMs and devices
// are placed first so RAM ranges fill the gaps around them.
func buildContext(lf layoutFlags, pages uint32, opts ...m68kmem.Option) (*m68kmem.Context, error) {
	if lf.shift < m68kmem.MIN_PAGE_SHIFT || lf.shift > m68kmem.MAX_PAGE_SHIFT {
		return nil, fmt.Errorf("page shift %d not in %d..%d", lf.shift, m68kmem.MIN_PAGE_SHIFT, m68kmem.MAX_PAGE_SHIFT)
	}
	mc := m68kmem.NewMemoryConfig(false)
	mc.PageShift = lf.shift
	mc.PadByte = 0xFF

	var devices []*luadev.Device
	closeDevices := func() {
		for _, d := range devices {
			d.Close()
		}
	}

	for _, spec := range lf.rom {
		path, at, ok := strings.Cut(spec, "@")
		addr, ok2 := ParseAddress(at)
		if !ok || !ok2 {
			closeDevices()
			return nil, fmt.Errorf("-rom %q: want file@addr", spec)
		}
		if err := addROM(mc, path, addr); err != nil {
			closeDevices()
			return nil, fmt.Errorf("-rom %q: %w", spec, err)
		}
	}
	for _, spec := range lf.lua {
		path, span, ok := strings.Cut(spec, "@")
		addr, size, err := parseSpan(span)
		if !ok || err != nil {
			closeDevices()
			return nil, fmt.Errorf("-lua %q: want file@addr:size", spec)
		}
		d, err := luadev.Load(path)
		if err != nil {
			closeDevices()
			return nil, err
		}
		devices = append(devices, d)
		if _, err := mc.AddSpecialRangeAddr(addr, size, d.Reader(), d.Writer()); err != nil {
			closeDevices()
			return nil, fmt.Errorf("-lua %q: %w", spec, err)
		}
	}
	for _, spec := range lf.empty {
		addr, size, err := parseSpan(spec)
		if err == nil {
			_, err = mc.AddReserveRangeAddr(addr, size)
		}
		if err != nil {
			closeDevices()
			return nil, fmt.Errorf("-empty %q: %w", spec, err)
		}
	}
	ram := lf.ram
	if len(ram) == 0 {
		ram = listFlag{"0:1m"}
	}
	for _, spec := range ram {
		addr, size, err := parseSpan(spec)
		if err == nil {
			_, err = mc.AddRAMRangeAddr(addr, size, true)
		}
		if err != nil {
			closeDevices()
			return nil, fmt.Errorf("-ram %q: %w", spec, err)
		}
	}

	if err := mc.Check(false, uint32(1)<<(32-lf.shift)); err != nil {
		closeDevices()
		return nil, err
	}
	ctx, err := mc.Build(pages, opts...)
	if err != nil {
		closeDevices()
		return nil, err
	}
	return ctx, nil
}

// parseSpan splits "addr:size".
func parseSpan(s string) (uint32, string, error) {
	at, size, ok := strings.Cut(s, ":")
	addr, ok2 := ParseAddress(at)
	if !ok || !ok2 || size == "" {
		return 0, "", fmt.Errorf("%w: want addr:size, got %q", m68kmem.ErrConfig, s)
	}
	return addr, size, nil
}

// addROM maps the image at path read-only at addr, padded to whole pages.
func addROM(mc *m68kmem.MemoryConfig, path string, addr uint32) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	pageBytes := uint32(1) << mc.PageShift
	if addr&(pageBytes-1) != 0 {
		return fmt.Errorf("%w: $%X is not page aligned", m68kmem.ErrConfig, addr)
	}
	if len(data) == 0 || uint64(len(data)) > 1<<32-uint64(addr) {
		return fmt.Errorf("%w: image of %d bytes does not fit at $%X", m68kmem.ErrConfig, len(data), addr)
	}
	pages := (uint64(len(data)) + uint64(pageBytes) - 1) >> mc.PageShift
	_, err = mc.AddROMRange(addr>>mc.PageShift, uint32(pages), data, true)
	return err
}
