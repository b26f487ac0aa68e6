// device.go - Lua scripted special handlers for the paged 68k memory

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

/*
device.go - Lua scripted devices

A Device runs a Lua script as the handler pair of a special region, so
hardware registers and traps can be prototyped without recompiling the host.

The script may define either or both of

    function read(addr, width, access)          -- number: handled, nil: pass
    function write(addr, width, value, access)  -- true: handled

Globals persist between calls, so register state lives in the script. The
global table "mem" offers helpers to decode the access code.

Script errors never reach the CPU: the failing call passes and the error is
kept for the host, which reads it with Err.
*/

package luadev

import (
	"errors"
	"fmt"

	"github.com/intuitionamiga/m68kmem"
	lua "github.com/yuin/gopher-lua"
)

var ErrNoHandlers = errors.New("luadev: script defines neither read nor write")

type Device struct {
	name  string
	L     *lua.LState
	read  lua.LValue
	write lua.LValue

	err      error
	failures uint64
}

// Load runs the script file at path and returns the device it defines.
func Load(path string) (*Device, error) {
	return load(path, func(L *lua.LState) error { return L.DoFile(path) })
}

// LoadString runs src; name only labels errors.
func LoadString(name, src string) (*Device, error) {
	return load(name, func(L *lua.LState) error { return L.DoString(src) })
}

func load(name string, run func(*lua.LState) error) (*Device, error) {
	L := lua.NewState()
	L.SetGlobal("mem", memModule(L))
	if err := run(L); err != nil {
		L.Close()
		return nil, fmt.Errorf("luadev %s: %w", name, err)
	}
	d := &Device{name: name, L: L}
	if fn := L.GetGlobal("read"); fn.Type() == lua.LTFunction {
		d.read = fn
	}
	if fn := L.GetGlobal("write"); fn.Type() == lua.LTFunction {
		d.write = fn
	}
	if d.read == nil && d.write == nil {
		L.Close()
		return nil, fmt.Errorf("%w: %s", ErrNoHandlers, name)
	}
	return d, nil
}

func (d *Device) Name() string { return d.name }

// Reader returns the device as a SpecialReader, or nil when the script has
// no read function so the chain skips it outright.
func (d *Device) Reader() m68kmem.SpecialReader {
	if d.read == nil {
		return nil
	}
	return d
}

func (d *Device) Writer() m68kmem.SpecialWriter {
	if d.write == nil {
		return nil
	}
	return d
}

func (d *Device) SpecialRead(access m68kmem.AccessCode, addr uint32) (uint32, m68kmem.Verdict) {
	if d.read == nil || d.L == nil {
		return 0, m68kmem.Pass()
	}
	ret, err := d.call(d.read, lua.LNumber(addr), lua.LNumber(access.Width()), lua.LNumber(access))
	if err != nil {
		d.fail(fmt.Errorf("luadev %s: read $%08X: %w", d.name, addr, err))
		return 0, m68kmem.Pass()
	}
	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, m68kmem.Pass()
	}
	return uint32(int64(n)), m68kmem.Handled()
}

func (d *Device) SpecialWrite(access m68kmem.AccessCode, addr, value uint32) m68kmem.Verdict {
	if d.write == nil || d.L == nil {
		return m68kmem.Pass()
	}
	ret, err := d.call(d.write, lua.LNumber(addr), lua.LNumber(access.Width()), lua.LNumber(value), lua.LNumber(access))
	if err != nil {
		d.fail(fmt.Errorf("luadev %s: write $%08X: %w", d.name, addr, err))
		return m68kmem.Pass()
	}
	if ret == lua.LTrue {
		return m68kmem.Handled()
	}
	return m68kmem.Pass()
}

func (d *Device) call(fn lua.LValue, args ...lua.LValue) (lua.LValue, error) {
	top := d.L.GetTop()
	defer d.L.SetTop(top)
	if err := d.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		return lua.LNil, err
	}
	return d.L.Get(-1), nil
}

func (d *Device) fail(err error) {
	d.failures++
	if d.err == nil {
		d.err = err
	}
}

// Err returns the first script error since the last call to Err and
// clears it.
func (d *Device) Err() error {
	err := d.err
	d.err = nil
	return err
}

// Failures counts failed script calls over the device lifetime.
func (d *Device) Failures() uint64 { return d.failures }

// Close releases the Lua state. Later accesses pass.
func (d *Device) Close() {
	if d.L != nil {
		d.L.Close()
		d.L = nil
	}
}

func memModule(L *lua.LState) *lua.LTable {
	tbl := L.NewTable()
	access := func(L *lua.LState) m68kmem.AccessCode { return m68kmem.AccessCode(L.CheckInt(1)) }
	predicate := func(f func(m68kmem.AccessCode) bool) lua.LGFunction {
		return func(L *lua.LState) int {
			L.Push(lua.LBool(f(access(L))))
			return 1
		}
	}
	L.SetFuncs(tbl, map[string]lua.LGFunction{
		"is_peek":    predicate(m68kmem.AccessCode.IsPeek),
		"is_write":   predicate(m68kmem.AccessCode.IsWrite),
		"is_super":   predicate(func(a m68kmem.AccessCode) bool { return a.FunctionCode().IsSupervisor() }),
		"is_user":    predicate(func(a m68kmem.AccessCode) bool { return a.FunctionCode().IsUser() }),
		"is_program": predicate(func(a m68kmem.AccessCode) bool { return a.FunctionCode().IsProgram() }),
		"is_int_ack": predicate(func(a m68kmem.AccessCode) bool { return a.FunctionCode().IsIntAck() }),
		"fc": func(L *lua.LState) int {
			L.Push(lua.LString(access(L).FunctionCode().String()))
			return 1
		},
		"width": func(L *lua.LState) int {
			L.Push(lua.LNumber(access(L).Width()))
			return 1
		},
	})
	return tbl
}
