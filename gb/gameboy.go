// Package gb wires the CPU and PPU together with the timer, serial port
// and joypad and drives them in strict alternation: one CPU instruction,
// then every other component advances by the cycles it consumed.
package gb

import (
	"github.com/Renz456/GameBoy/gb/addr"
	"github.com/Renz456/GameBoy/gb/cpu"
	"github.com/Renz456/GameBoy/gb/joypad"
	"github.com/Renz456/GameBoy/gb/memory"
	"github.com/Renz456/GameBoy/gb/serial"
	"github.com/Renz456/GameBoy/gb/timer"
	"github.com/Renz456/GameBoy/gb/video"
)

// GameBoy owns every component of the machine.
type GameBoy struct {
	mem    *memory.Memory
	cpu    *cpu.CPU
	ppu    *video.PPU
	timer  *timer.Timer
	serial *serial.Port
	joypad *joypad.Joypad
}

// bus is the CPU's view of the address space. VRAM and OAM go through
// the PPU's mode gate, collaborator registers to their owners, and
// everything else to flat memory. LY is read-only from this side.
type bus struct {
	gb *GameBoy
}

func (b bus) Read(address uint16) byte {
	g := b.gb
	switch {
	case address >= addr.VRAMStart && address <= addr.VRAMEnd:
		return g.ppu.ReadVRAM(address)
	case address >= addr.OAMStart && address <= addr.OAMEnd:
		return g.ppu.ReadOAM(address)
	case address == addr.P1:
		return g.joypad.Read()
	case address == addr.SB || address == addr.SC:
		return g.serial.Read(address)
	case address >= addr.DIV && address <= addr.TAC:
		return g.timer.Read(address)
	default:
		return g.mem.Read(address)
	}
}

func (b bus) Write(address uint16, value byte) {
	g := b.gb
	switch {
	case address >= addr.VRAMStart && address <= addr.VRAMEnd:
		g.ppu.WriteVRAM(address, value)
	case address >= addr.OAMStart && address <= addr.OAMEnd:
		g.ppu.WriteOAM(address, value)
	case address == addr.P1:
		g.joypad.Write(value)
	case address == addr.SB || address == addr.SC:
		g.serial.Write(address, value)
	case address >= addr.DIV && address <= addr.TAC:
		g.timer.Write(address, value)
	case address == addr.LY:
		// the PPU owns LY
	default:
		g.mem.Write(address, value)
	}
}

// New returns a powered-on machine with empty memory.
func New() *GameBoy {
	g := &GameBoy{
		mem:    memory.New(),
		timer:  timer.New(),
		serial: serial.New(),
		joypad: joypad.New(),
	}
	g.cpu = cpu.New(bus{gb: g})
	g.ppu = video.New(g.mem)
	return g
}

// LoadROM copies program bytes into memory starting at address 0.
func (g *GameBoy) LoadROM(data []byte) {
	g.mem.LoadAt(0, data)
}

// Step executes one CPU instruction, advances the PPU, timer and serial
// port by the cycles it consumed, then services at most one interrupt.
// It returns the cycles consumed.
func (g *GameBoy) Step() (int, error) {
	cycles, err := g.cpu.Step()
	if err != nil {
		return 0, err
	}

	g.ppu.Step(cycles)
	if g.timer.Tick(cycles) {
		g.requestInterrupt(addr.TimerInterrupt)
	}
	if g.serial.Tick(cycles) {
		g.requestInterrupt(addr.SerialInterrupt)
	}

	g.cpu.HandleInterrupts()
	return cycles, nil
}

// RunFrame steps the machine until the PPU finishes the current frame.
func (g *GameBoy) RunFrame() error {
	target := g.ppu.Frames() + 1
	for g.ppu.Frames() < target {
		if _, err := g.Step(); err != nil {
			return err
		}
	}
	return nil
}

// SetButton forwards a button state change to the joypad and raises the
// joypad interrupt when the press warrants one.
func (g *GameBoy) SetButton(b joypad.Button, pressed bool) {
	if g.joypad.SetButton(b, pressed) {
		g.requestInterrupt(addr.JoypadInterrupt)
	}
}

func (g *GameBoy) requestInterrupt(i addr.Interrupt) {
	g.mem.Write(addr.IF, g.mem.Read(addr.IF)|uint8(i))
}

// CPU exposes the processor for drivers and tests.
func (g *GameBoy) CPU() *cpu.CPU { return g.cpu }

// PPU exposes the pixel processing unit.
func (g *GameBoy) PPU() *video.PPU { return g.ppu }

// Framebuffer returns the RGBA bytes of the most recent frame.
func (g *GameBoy) Framebuffer() []byte {
	return g.ppu.Framebuffer().Bytes()
}

// Frames returns the number of completed frames.
func (g *GameBoy) Frames() uint64 {
	return g.ppu.Frames()
}
