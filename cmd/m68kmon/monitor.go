// monitor.go - Machine monitor core: command parsing, dispatch and scrollback

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/intuitionamiga/m68kmem"
	"github.com/intuitionamiga/m68kmem/luadev"
)

// OutputLine holds styled text for the monitor scrollback buffer.
type OutputLine struct {
	Text  string
	Color uint32 // RGBA packed
}

// MonitorCommand is one parsed input line.
type MonitorCommand struct {
	Name string
	Args []string
}

// Monitor inspects and edits a memory context from the host side.
type Monitor struct {
	ctx *m68kmem.Context

	outputLines []OutputLine
	maxOutput   int

	history     []string
	macros      map[string][]string
	scriptDepth int

	heat     *Heat
	traceCPU bool
	traceAPI bool
	watches  map[uint32]bool

	// view runs the full-screen heat view; replaced in tests.
	view func() error
}

// NewMonitor attaches a monitor to ctx. The monitor owns the trace hooks of
// ctx from now on and closes Lua devices when their special entry goes away.
func NewMonitor(ctx *m68kmem.Context) *Monitor {
	m := &Monitor{
		ctx:       ctx,
		maxOutput: 10000,
		macros:    make(map[string][]string),
		watches:   make(map[uint32]bool),
		heat:      NewHeat(ctx.NumPages(), ctx.PageShift()),
	}
	m.view = func() error { return RunView(m) }
	m.installHooks()
	ctx.SetSpecialCleanup(func(s *m68kmem.SpecialEntry) {
		if d := deviceOf(s); d != nil {
			d.Close()
		}
	})
	return m
}

// installHooks feeds the heat counters and, when enabled, the scrollback.
func (m *Monitor) installHooks() {
	m.ctx.SetCPUTrace(func(access m68kmem.AccessCode, addr, value uint32) any {
		m.heat.CPU(access, addr)
		if m.traceCPU {
			m.appendOutput(m68kmem.CPUMemString(access, addr, value), colorDim)
		}
		if m.watches[addr] {
			return fmt.Sprintf("watch $%08X: %s", addr, m68kmem.CPUMemString(access, addr, value))
		}
		return nil
	})
	m.ctx.SetAPITrace(func(access m68kmem.AccessCode, addr, value, extra uint32) {
		m.heat.API(access, addr, value, extra)
		if m.traceAPI {
			m.appendOutput(m68kmem.APIMemString(access, addr, value, extra), colorDim)
		}
	})
}

// deviceOf returns the Lua device behind a special entry, if any.
func deviceOf(s *m68kmem.SpecialEntry) *luadev.Device {
	if d, ok := s.Reader().(*luadev.Device); ok {
		return d
	}
	if d, ok := s.Writer().(*luadev.Device); ok {
		return d
	}
	return nil
}

// appendOutput adds a line to the scrollback buffer.
func (m *Monitor) appendOutput(text string, color uint32) {
	m.outputLines = append(m.outputLines, OutputLine{Text: text, Color: color})
	if len(m.outputLines) > m.maxOutput {
		m.outputLines = m.outputLines[len(m.outputLines)-m.maxOutput:]
	}
}

// Flush writes and clears the scrollback. With ansi set each line is
// coloured with a 24-bit escape sequence.
func (m *Monitor) Flush(w io.Writer, ansi bool) {
	for _, line := range m.outputLines {
		if ansi {
			fmt.Fprintf(w, "\x1b[38;2;%d;%d;%dm%s\x1b[0m\n", line.Color>>24, line.Color>>16&0xFF, line.Color>>8&0xFF, line.Text)
		} else {
			fmt.Fprintln(w, line.Text)
		}
	}
	m.outputLines = m.outputLines[:0]
}

// ParseCommand splits a command line into a lowercased name and its
// arguments.
func ParseCommand(input string) MonitorCommand {
	input = strings.TrimSpace(input)
	if input == "" {
		return MonitorCommand{}
	}
	parts := strings.Fields(input)
	return MonitorCommand{
		Name: strings.ToLower(parts[0]),
		Args: parts[1:],
	}
}

// ParseAddress parses a monitor address in various formats:
// $hex, 0xhex, bare hex, #decimal
func ParseAddress(s string) (uint32, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	base := 16
	switch {
	case strings.HasPrefix(s, "#"):
		s, base = s[1:], 10
	case strings.HasPrefix(s, "$"):
		s = s[1:]
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		s = s[2:]
	}
	v, err := strconv.ParseUint(s, base, 32)
	return uint32(v), err == nil
}

// parseRange reads <start> <end> from args, end inclusive.
func parseRange(args []string) (start, size uint32, ok bool) {
	start, ok1 := ParseAddress(args[0])
	end, ok2 := ParseAddress(args[1])
	if !ok1 || !ok2 || end < start || end-start == 0xFFFFFFFF {
		return 0, 0, false
	}
	return start, end - start + 1, true
}

// ExecuteCommand runs one command line and reports whether the monitor
// should exit.
func (m *Monitor) ExecuteCommand(input string) bool {
	cmd := ParseCommand(input)
	if cmd.Name == "" || strings.HasPrefix(cmd.Name, "#") {
		return false
	}

	if len(m.history) == 0 || m.history[len(m.history)-1] != input {
		m.history = append(m.history, input)
	}

	switch cmd.Name {
	case "m":
		return m.cmdMemoryDump(cmd)
	case "f":
		return m.cmdFill(cmd)
	case "t":
		return m.cmdTransfer(cmd)
	case "w":
		return m.cmdWrite(cmd)
	case "h":
		return m.cmdHunt(cmd)
	case "c":
		return m.cmdCompare(cmd)
	case "rd":
		return m.cmdCPURead(cmd)
	case "wr":
		return m.cmdCPUWrite(cmd)
	case "cs", "bs":
		return m.cmdString(cmd)
	case "map":
		return m.cmdMap(cmd)
	case "entries":
		return m.cmdEntries(cmd)
	case "flags":
		return m.cmdFlags(cmd)
	case "save":
		return m.cmdSaveMemory(cmd)
	case "load":
		return m.cmdLoadMemory(cmd)
	case "trace":
		return m.cmdTrace(cmd)
	case "watch":
		return m.cmdWatch(cmd)
	case "heat":
		return m.cmdHeat(cmd)
	case "mapimg":
		return m.cmdMapImage(cmd)
	case "view":
		return m.cmdView(cmd)
	case "stats":
		return m.cmdStats(cmd)
	case "lua":
		return m.cmdLua(cmd)
	case "errs":
		return m.cmdLuaErrors(cmd)
	case "script":
		return m.cmdScript(cmd)
	case "macro":
		return m.cmdMacro(cmd)
	case "?", "help":
		return m.cmdHelp(cmd)
	case "x", "q":
		return true
	default:
		if cmds, ok := m.macros[cmd.Name]; ok {
			return m.executeMacro(cmds)
		}
		m.appendOutput(fmt.Sprintf("Unknown command: %s", cmd.Name), colorRed)
		return false
	}
}

func (m *Monitor) executeMacro(cmds []string) bool {
	m.scriptDepth++
	defer func() { m.scriptDepth-- }()
	if m.scriptDepth > 8 {
		m.appendOutput("Macro recursion limit reached", colorRed)
		return false
	}
	return slices.ContainsFunc(cmds, m.ExecuteCommand)
}

// Monitor colors, RGBA packed.
const (
	colorWhite  = 0xFFFFFFFF
	colorCyan   = 0x64C8FFFF
	colorYellow = 0xFFFF55FF
	colorRed    = 0xFF5555FF
	colorGreen  = 0x55FF55FF
	colorDim    = 0x5555FFFF
)
