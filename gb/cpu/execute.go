package cpu

import "fmt"

// readReg reads an 8-bit register slot. The selector space includes F and
// SP for pair addressing; hitting either here is a decoder bug.
func (c *CPU) readReg(r Reg) uint8 {
	switch r {
	case RegA:
		return c.regs.A()
	case RegB:
		return c.regs.B()
	case RegC:
		return c.regs.C()
	case RegD:
		return c.regs.D()
	case RegE:
		return c.regs.E()
	case RegH:
		return c.regs.H()
	case RegL:
		return c.regs.L()
	}
	panic(fmt.Sprintf("cpu: invalid 8-bit register read: %s", r))
}

func (c *CPU) writeReg(r Reg, value uint8) {
	switch r {
	case RegA:
		c.regs.SetA(value)
	case RegB:
		c.regs.SetB(value)
	case RegC:
		c.regs.SetC(value)
	case RegD:
		c.regs.SetD(value)
	case RegE:
		c.regs.SetE(value)
	case RegH:
		c.regs.SetH(value)
	case RegL:
		c.regs.SetL(value)
	default:
		panic(fmt.Sprintf("cpu: invalid 8-bit register write: %s", r))
	}
}

func (c *CPU) readPair(p Pair) uint16 {
	switch p {
	case PairBC:
		return c.regs.BC()
	case PairDE:
		return c.regs.DE()
	case PairHL:
		return c.regs.HL()
	case PairAF:
		return c.regs.AF()
	case PairSP:
		return c.regs.SP()
	}
	panic(fmt.Sprintf("cpu: invalid register pair read: %s", p))
}

func (c *CPU) writePair(p Pair, value uint16) {
	switch p {
	case PairBC:
		c.regs.SetBC(value)
	case PairDE:
		c.regs.SetDE(value)
	case PairHL:
		c.regs.SetHL(value)
	case PairAF:
		c.regs.SetAF(value)
	case PairSP:
		c.regs.SetSP(value)
	default:
		panic(fmt.Sprintf("cpu: invalid register pair write: %s", p))
	}
}

func (c *CPU) setFlags(zero, sub, halfCarry, carry bool) {
	c.regs.SetF(Flags{Zero: zero, Sub: sub, HalfCarry: halfCarry, Carry: carry}.Byte())
}

// pushStack pushes a 16-bit value, high byte at the higher address.
func (c *CPU) pushStack(value uint16) {
	c.regs.SetSP(c.regs.SP() - 1)
	c.bus.Write(c.regs.SP(), uint8(value>>8))
	c.regs.SetSP(c.regs.SP() - 1)
	c.bus.Write(c.regs.SP(), uint8(value))
}

func (c *CPU) popStack() uint16 {
	low := c.bus.Read(c.regs.SP())
	c.regs.SetSP(c.regs.SP() + 1)
	high := c.bus.Read(c.regs.SP())
	c.regs.SetSP(c.regs.SP() + 1)
	return uint16(high)<<8 | uint16(low)
}

// aluOperand resolves the right-hand side of an 8-bit ALU instruction.
func (c *CPU) aluOperand(in Instruction) uint8 {
	switch in.Operand {
	case OperandReg:
		return c.readReg(in.Src)
	case OperandMem:
		return c.bus.Read(c.regs.HL())
	case OperandImm:
		return in.Imm8
	}
	panic(fmt.Sprintf("cpu: invalid ALU operand mode %d", in.Operand))
}

// add implements ADD and ADC into A. Half-carry is the carry out of bit 3,
// carry the carry out of bit 7, both computed from the operands.
func (c *CPU) add(value uint8, useCarry bool) {
	a := c.regs.A()
	var carryIn uint8
	if useCarry && c.regs.Flags().Carry {
		carryIn = 1
	}
	result := a + value + carryIn
	halfCarry := (a&0x0F)+(value&0x0F)+carryIn > 0x0F
	carry := uint16(a)+uint16(value)+uint16(carryIn) > 0xFF
	c.regs.SetA(result)
	c.setFlags(result == 0, false, halfCarry, carry)
}

// subtract implements SUB, SBC and CP. Half-carry and carry use the borrow
// form; discard keeps A intact for CP.
func (c *CPU) subtract(value uint8, useCarry, discard bool) {
	a := c.regs.A()
	var borrowIn uint8
	if useCarry && c.regs.Flags().Carry {
		borrowIn = 1
	}
	result := a - value - borrowIn
	halfCarry := uint16(a&0x0F) < uint16(value&0x0F)+uint16(borrowIn)
	carry := uint16(a) < uint16(value)+uint16(borrowIn)
	if !discard {
		c.regs.SetA(result)
	}
	c.setFlags(result == 0, true, halfCarry, carry)
}

func (c *CPU) and(value uint8) {
	result := c.regs.A() & value
	c.regs.SetA(result)
	c.setFlags(result == 0, false, true, false)
}

func (c *CPU) or(value uint8) {
	result := c.regs.A() | value
	c.regs.SetA(result)
	c.setFlags(result == 0, false, false, false)
}

func (c *CPU) xor(value uint8) {
	result := c.regs.A() ^ value
	c.regs.SetA(result)
	c.setFlags(result == 0, false, false, false)
}

// incValue is the shared flag recipe of INC r and INC (HL): carry survives.
func (c *CPU) incValue(value uint8) uint8 {
	result := value + 1
	c.setFlags(result == 0, false, value&0x0F == 0x0F, c.regs.Flags().Carry)
	return result
}

func (c *CPU) decValue(value uint8) uint8 {
	result := value - 1
	c.setFlags(result == 0, true, value&0x0F == 0, c.regs.Flags().Carry)
	return result
}

func (c *CPU) addHL(value uint16) {
	hl := c.regs.HL()
	result := hl + value
	halfCarry := (hl&0x0FFF)+(value&0x0FFF) > 0x0FFF
	carry := uint32(hl)+uint32(value) > 0xFFFF
	c.regs.SetHL(result)
	c.setFlags(result == 0, false, halfCarry, carry)
}

// addSPRel computes SP plus a sign-extended offset. Flags come from the
// low-byte addition; zero and sub are always cleared.
func (c *CPU) addSPRel(rel int8) uint16 {
	sp := c.regs.SP()
	offset := uint16(int16(rel))
	result := sp + offset
	halfCarry := (sp&0x0F)+(offset&0x0F) > 0x0F
	carry := (sp&0xFF)+(offset&0xFF) > 0xFF
	c.setFlags(false, false, halfCarry, carry)
	return result
}

// rotateA rotates the accumulator one bit. Circular feeds the shifted-out
// bit back in; otherwise the old carry flag enters. The shifted-out bit
// becomes the new carry and the other flags clear.
func (c *CPU) rotateA(left, circular bool) {
	value := c.regs.A()
	oldCarry := c.regs.Flags().Carry
	var out bool
	var result uint8
	if left {
		out = value&0x80 != 0
		result = value << 1
		if circular && out || !circular && oldCarry {
			result |= 0x01
		}
	} else {
		out = value&0x01 != 0
		result = value >> 1
		if circular && out || !circular && oldCarry {
			result |= 0x80
		}
	}
	c.regs.SetA(result)
	c.setFlags(false, false, false, out)
}

// daa adjusts A to valid BCD after an addition or subtraction.
func (c *CPU) daa() {
	a := c.regs.A()
	flags := c.regs.Flags()
	var adjust uint8
	carry := false
	if a&0x0F > 9 || flags.HalfCarry {
		adjust |= 0x06
	}
	if a>>4 > 9 || flags.Carry {
		adjust |= 0x60
		carry = true
	}
	if flags.Sub {
		a -= adjust
	} else {
		a += adjust
	}
	c.regs.SetA(a)
	c.setFlags(a == 0, flags.Sub, a&0x0F < adjust&0x0F, carry)
}

// conditionMet evaluates a control transfer's condition selectors. With
// neither flag check requested the transfer is unconditional.
func (c *CPU) conditionMet(in Instruction) bool {
	if !in.Carry && !in.Zero {
		return true
	}
	flags := c.regs.Flags()
	var set bool
	if in.Carry {
		set = flags.Carry
	} else {
		set = flags.Zero
	}
	if in.Negate {
		return !set
	}
	return set
}

// execute runs one decoded instruction. PC is still the instruction's own
// address; instructions that transfer control set it themselves and the
// step loop leaves it alone.
func (c *CPU) execute(in Instruction) {
	switch in.Op {
	case OpNop:

	case OpLdRegReg:
		c.writeReg(in.Dst, c.readReg(in.Src))
	case OpLdRegMem:
		c.writeReg(in.Dst, c.bus.Read(c.regs.HL()))
	case OpLdMemReg:
		c.bus.Write(c.regs.HL(), c.readReg(in.Src))
	case OpLdMemImm:
		c.bus.Write(c.regs.HL(), in.Imm8)
	case OpLdRegImm:
		c.writeReg(in.Dst, in.Imm8)

	case OpLdMemInc:
		address := c.regs.HL()
		if in.Increment {
			c.regs.SetHL(address + 1)
		} else {
			c.regs.SetHL(address - 1)
		}
		if in.Load {
			c.regs.SetA(c.bus.Read(address))
		} else {
			c.bus.Write(address, c.regs.A())
		}

	case OpLdPairInd:
		address := c.readPair(in.Pair)
		if in.Load {
			c.regs.SetA(c.bus.Read(address))
		} else {
			c.bus.Write(address, c.regs.A())
		}

	case OpLdAbs:
		if in.Load {
			c.regs.SetA(c.bus.Read(in.Imm16))
		} else {
			c.bus.Write(in.Imm16, c.regs.A())
		}

	case OpLdHigh:
		address := 0xFF00 + uint16(in.Imm8)
		if in.Load {
			c.regs.SetA(c.bus.Read(address))
		} else {
			c.bus.Write(address, c.regs.A())
		}

	case OpLdHighC:
		address := 0xFF00 + uint16(c.regs.C())
		if in.Load {
			c.regs.SetA(c.bus.Read(address))
		} else {
			c.bus.Write(address, c.regs.A())
		}

	case OpLdPairImm:
		c.writePair(in.Pair, in.Imm16)

	case OpStoreSP:
		sp := c.regs.SP()
		c.bus.Write(in.Imm16, uint8(sp))
		c.bus.Write(in.Imm16+1, uint8(sp>>8))

	case OpLdSPHL:
		c.regs.SetSP(c.regs.HL())
	case OpLdHLSP:
		c.regs.SetHL(c.addSPRel(in.Rel))
	case OpAddSP:
		c.regs.SetSP(c.addSPRel(in.Rel))

	case OpAdd:
		c.add(c.aluOperand(in), false)
	case OpAdc:
		c.add(c.aluOperand(in), true)
	case OpSub:
		c.subtract(c.aluOperand(in), false, false)
	case OpSbc:
		c.subtract(c.aluOperand(in), true, false)
	case OpAnd:
		c.and(c.aluOperand(in))
	case OpOr:
		c.or(c.aluOperand(in))
	case OpXor:
		c.xor(c.aluOperand(in))
	case OpCp:
		c.subtract(c.aluOperand(in), false, true)

	case OpInc:
		c.writeReg(in.Dst, c.incValue(c.readReg(in.Dst)))
	case OpDec:
		c.writeReg(in.Dst, c.decValue(c.readReg(in.Dst)))
	case OpIncMem:
		address := c.regs.HL()
		c.bus.Write(address, c.incValue(c.bus.Read(address)))
	case OpDecMem:
		address := c.regs.HL()
		c.bus.Write(address, c.decValue(c.bus.Read(address)))

	case OpIncPair:
		c.writePair(in.Pair, c.readPair(in.Pair)+1)
	case OpDecPair:
		c.writePair(in.Pair, c.readPair(in.Pair)-1)
	case OpAddHL:
		c.addHL(c.readPair(in.Pair))

	case OpRotate:
		c.rotateA(in.Left, in.Circular)
	case OpDaa:
		c.daa()
	case OpScf:
		c.setFlags(c.regs.Flags().Zero, false, false, true)
	case OpCcf:
		flags := c.regs.Flags()
		c.setFlags(flags.Zero, false, false, !flags.Carry)
	case OpCpl:
		flags := c.regs.Flags()
		c.regs.SetA(^c.regs.A())
		c.setFlags(flags.Zero, true, true, flags.Carry)

	case OpEi:
		c.ime = true
	case OpDi:
		c.ime = false

	case OpPush:
		c.pushStack(c.readPair(in.Pair))
	case OpPop:
		c.writePair(in.Pair, c.popStack())

	case OpJp:
		if c.conditionMet(in) {
			c.regs.SetPC(in.Imm16)
		}
	case OpJpHL:
		c.regs.SetPC(c.regs.HL())
	case OpJr:
		// the offset applies to the instruction's own address
		if c.conditionMet(in) {
			c.regs.SetPC(c.regs.PC() + uint16(int16(in.Rel)))
		}
	case OpCall:
		if c.conditionMet(in) {
			c.pushStack(c.regs.PC() + 3)
			c.regs.SetPC(in.Imm16)
		}
	case OpRet:
		if c.conditionMet(in) {
			c.regs.SetPC(c.popStack())
		}
	case OpReti:
		c.regs.SetPC(c.popStack())
		c.ime, c.previousIME = c.previousIME, c.ime
	case OpRst:
		c.pushStack(c.regs.PC() + 1)
		c.regs.SetPC(uint16(in.Imm8))

	default:
		panic(fmt.Sprintf("cpu: no executor for op %d", in.Op))
	}
}
