// Package guest runs small Lua programs that drive a cg14 the way a
// guest OS driver would: through bus loads and stores only.
//
// A program sees these globals:
//
//	readb(addr) readw(addr) readl(addr)
//	writeb(addr, v) writew(addr, v) writel(addr, v)
//	band(a, b) bor(a, b) shl(a, n) shr(a, n)
//	CTRL, VRAM                  region bases
//	MCR, PPR, XLUT, CLUT1, ...  control offsets
//	WIN_X16, WIN_X32, ...       vram window offsets
//	MON_W, MON_H                the attached monitor's resolution
//
// and may define frame(n), which is called once per host frame.
package guest

import (
	_ "embed"
	"fmt"

	"github.com/theinternetftw/cg14"
	lua "github.com/yuin/gopher-lua"
)

//go:embed default.lua
var defaultScript string

// Bus is what a program can reach
type Bus interface {
	Read(addr uint64, size cg14.Size) uint32
	Write(addr uint64, size cg14.Size, val uint32)
}

// Program is a loaded script. It is not safe for concurrent use, and
// calls into it go straight to the bus, so drive it from the goroutine
// that owns the board.
type Program struct {
	name    string
	state   *lua.LState
	frameFn *lua.LFunction
}

// Load runs src once, which is where a script does its setup
func Load(bus Bus, cfg cg14.Config, name, src string) (*Program, error) {
	L := lua.NewState()
	p := &Program{name: name, state: L}
	p.installBus(bus)
	p.installConsts(cfg)

	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if fn, ok := L.GetGlobal("frame").(*lua.LFunction); ok {
		p.frameFn = fn
	}
	return p, nil
}

// LoadDefault loads the built in test pattern
func LoadDefault(bus Bus, cfg cg14.Config) (*Program, error) {
	return Load(bus, cfg, "default.lua", defaultScript)
}

// Name is what the program was loaded as
func (p *Program) Name() string { return p.name }

// HasFrame reports whether the script defined frame(n)
func (p *Program) HasFrame() bool { return p.frameFn != nil }

// Frame calls the script's frame(n), if there is one
func (p *Program) Frame(n int) error {
	if p.frameFn == nil {
		return nil
	}
	err := p.state.CallByParam(lua.P{
		Fn:      p.frameFn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(n))
	if err != nil {
		return fmt.Errorf("%s: frame %d: %w", p.name, n, err)
	}
	return nil
}

// Close frees the interpreter
func (p *Program) Close() {
	p.state.Close()
}

func checkUint(L *lua.LState, n int) uint64 {
	v := L.CheckNumber(n)
	if v < 0 {
		L.ArgError(n, "negative")
	}
	return uint64(v)
}

func (p *Program) installBus(bus Bus) {
	L := p.state
	for name, size := range map[string]cg14.Size{"b": cg14.Byte, "w": cg14.Half, "l": cg14.Word} {
		size := size
		L.SetGlobal("read"+name, L.NewFunction(func(L *lua.LState) int {
			L.Push(lua.LNumber(bus.Read(checkUint(L, 1), size)))
			return 1
		}))
		L.SetGlobal("write"+name, L.NewFunction(func(L *lua.LState) int {
			bus.Write(checkUint(L, 1), size, uint32(checkUint(L, 2)))
			return 0
		}))
	}

	// lua 5.1 has no bit operators
	binop := func(fn func(a, b uint64) uint64) *lua.LFunction {
		return L.NewFunction(func(L *lua.LState) int {
			L.Push(lua.LNumber(fn(checkUint(L, 1), checkUint(L, 2))))
			return 1
		})
	}
	L.SetGlobal("band", binop(func(a, b uint64) uint64 { return a & b }))
	L.SetGlobal("bor", binop(func(a, b uint64) uint64 { return a | b }))
	L.SetGlobal("shl", binop(func(a, b uint64) uint64 { return a << b }))
	L.SetGlobal("shr", binop(func(a, b uint64) uint64 { return a >> b }))
}

func (p *Program) installConsts(cfg cg14.Config) {
	L := p.state
	L.SetGlobal("CTRL", lua.LNumber(cfg.CtrlBase))
	L.SetGlobal("VRAM", lua.LNumber(cfg.VRAMBase))
	L.SetGlobal("VRAM_SIZE", lua.LNumber(cfg.VRAMSize))
	for name, off := range cg14.RegisterOffsets() {
		L.SetGlobal(name, lua.LNumber(off))
	}
	for name, off := range cg14.WindowOffsets() {
		L.SetGlobal(name, lua.LNumber(off))
	}
	if mon, ok := cg14.LookupMonitor(cfg.MonitorID); ok {
		L.SetGlobal("MON_W", lua.LNumber(mon.Width))
		L.SetGlobal("MON_H", lua.LNumber(mon.Height))
	}
}
