// Package cpu implements the Game Boy's SM83 processor core: fetch,
// decode to a tagged instruction value, execute, and interrupt dispatch.
package cpu

import "github.com/Renz456/GameBoy/gb/addr"

// Bus is the CPU's view of the address space. The concrete bus routes
// VRAM and OAM through the PPU's mode gate and collaborator registers to
// their owners.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
}

// CPU holds the register file and interrupt state. Power-on state is all
// zero; a boot sequence or test sets registers up explicitly.
type CPU struct {
	regs Registers
	bus  Bus

	ime         bool
	previousIME bool

	// reserved for HALT/STOP support; both opcodes are currently
	// rejected at decode, so nothing sets these
	halted  bool
	stopped bool

	clockCycles uint64
}

// New returns a CPU attached to the given bus.
func New(bus Bus) *CPU {
	return &CPU{bus: bus}
}

// Registers exposes the register file for drivers and tests.
func (c *CPU) Registers() *Registers { return &c.regs }

// IME reports whether interrupt dispatch is enabled.
func (c *CPU) IME() bool { return c.ime }

// Cycles returns the cumulative cycle count of all executed instructions.
func (c *CPU) Cycles() uint64 { return c.clockCycles }

// Step fetches, decodes and executes the instruction at PC and returns
// the cycles it consumed. PC advances by the instruction's size unless
// execution set PC itself (jumps, calls, returns). An opcode the core
// cannot execute returns an UnknownOpcodeError with no state change.
func (c *CPU) Step() (int, error) {
	pc := c.regs.PC()
	opcode := c.bus.Read(pc)

	if name, ok := unimplementedOpcodes[opcode]; ok {
		return 0, &UnknownOpcodeError{Opcode: opcode, PC: pc, Mnemonic: name}
	}

	info := opcodeTable[opcode]
	c.execute(c.decode(opcode))

	if c.regs.PC() == pc {
		c.regs.SetPC(pc + info.size)
	}
	c.clockCycles += uint64(info.cycles)
	return info.cycles, nil
}

// HandleInterrupts services at most one pending interrupt. The driver
// calls it between instructions; dispatch never happens mid-instruction.
// Dispatch requires IME and at least one bit set in both IF and IE; the
// serviced bit is the lowest set bit of IF. IME is saved and cleared, the
// return address pushed, and PC set to the fixed handler address. RETI
// restores the saved IME.
func (c *CPU) HandleInterrupts() {
	if !c.ime {
		return
	}
	flags := c.bus.Read(addr.IF)
	enabled := c.bus.Read(addr.IE)
	if flags&enabled == 0 {
		return
	}

	c.previousIME = c.ime
	c.ime = false

	irq := pendingInterrupt(flags)
	c.bus.Write(addr.IF, flags&^uint8(irq))
	c.pushStack(c.regs.PC())
	c.regs.SetPC(irq.HandlerAddress())
}

// pendingInterrupt picks the highest-priority requested interrupt; lower
// bit numbers win.
func pendingInterrupt(flags uint8) addr.Interrupt {
	for i := uint8(0); i < 5; i++ {
		if flags&(1<<i) != 0 {
			return addr.Interrupt(1 << i)
		}
	}
	return addr.VBlankInterrupt
}
