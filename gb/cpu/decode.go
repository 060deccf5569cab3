package cpu

import "fmt"

// UnknownOpcodeError reports an opcode the core cannot execute, either
// because the hardware leaves it undefined or because this core does not
// implement it. It is fatal: the instruction stream cannot advance past it.
type UnknownOpcodeError struct {
	Opcode   uint8
	PC       uint16
	Mnemonic string
}

func (e *UnknownOpcodeError) Error() string {
	if e.Mnemonic != "" {
		return fmt.Sprintf("unimplemented opcode 0x%02X (%s) at PC 0x%04X", e.Opcode, e.Mnemonic, e.PC)
	}
	return fmt.Sprintf("unknown opcode 0x%02X at PC 0x%04X", e.Opcode, e.PC)
}

// unimplementedOpcodes maps every opcode the core refuses to the mnemonic
// it would have, empty for encodings the hardware leaves undefined.
var unimplementedOpcodes = map[uint8]string{
	0x10: "STOP",
	0x76: "HALT",
	0xCB: "CB prefix",
	0xD3: "", 0xDB: "", 0xDD: "",
	0xE3: "", 0xE4: "", 0xEB: "", 0xEC: "", 0xED: "",
	0xF4: "", 0xFC: "", 0xFD: "",
}

// opcodeInfo is the static (size, cycles) entry for one opcode. Size is the
// PC advance applied when the instruction did not set PC itself; cycles is
// the base cost, with no extra charge for taken conditional paths.
type opcodeInfo struct {
	size   uint16
	cycles int
}

var opcodeTable = buildOpcodeTable()

func buildOpcodeTable() [256]opcodeInfo {
	var table [256]opcodeInfo
	for i := range table {
		table[i] = opcodeInfo{size: 1, cycles: 4}
	}
	set := func(info opcodeInfo, opcodes ...uint8) {
		for _, op := range opcodes {
			table[op] = info
		}
	}
	// immediate loads, ALU with d8, relative jumps
	set(opcodeInfo{size: 2, cycles: 8},
		0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x36, 0x3E,
		0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE,
		0x18, 0x20, 0x28, 0x30, 0x38)
	// d16 loads, absolute jumps and calls, a16 loads (0xE2/0xF2 are grouped
	// here too, so LD (FF00+C),A skips the two bytes after the opcode)
	set(opcodeInfo{size: 3, cycles: 12},
		0x01, 0x11, 0x21, 0x31,
		0xC2, 0xC3, 0xC4, 0xCA, 0xCC, 0xCD,
		0xD2, 0xD4, 0xDA, 0xDC,
		0xE2, 0xEA, 0xF2, 0xFA)
	// conditional RET, LD SP,HL
	set(opcodeInfo{size: 1, cycles: 8}, 0xC0, 0xC8, 0xD0, 0xD8, 0xF9)
	set(opcodeInfo{size: 3, cycles: 20}, 0x08) // LD (a16),SP
	set(opcodeInfo{size: 2, cycles: 16}, 0xE8) // ADD SP,r8
	set(opcodeInfo{size: 2, cycles: 12}, 0xF8) // LD HL,SP+r8
	return table
}

// gridRegs is the operand column order of the regular 0x40-0xBF encoding
// grids. Column 6 is the (HL) memory slot; its entry is never read.
var gridRegs = [8]Reg{RegB, RegC, RegD, RegE, RegH, RegL, RegF, RegA}

// decodeGrid handles the two regular grids: LD r,r' (0x40-0x7F) and the
// 8-bit ALU block (0x80-0xBF). The low three bits select the operand
// column, the higher bits the row. 0x76 (HALT) is not claimed.
func decodeGrid(opcode uint8) (Instruction, bool) {
	if opcode < 0x40 || opcode > 0xBF {
		return Instruction{}, false
	}
	col := opcode & 0x07
	colMem := col == 6
	if opcode < 0x80 {
		row := (opcode - 0x40) >> 3
		rowMem := row == 6
		switch {
		case rowMem && colMem:
			return Instruction{}, false
		case rowMem:
			return Instruction{Op: OpLdMemReg, Src: gridRegs[col]}, true
		case colMem:
			return Instruction{Op: OpLdRegMem, Dst: gridRegs[row]}, true
		default:
			return Instruction{Op: OpLdRegReg, Dst: gridRegs[row], Src: gridRegs[col]}, true
		}
	}
	aluOps := [8]Op{OpAdd, OpAdc, OpSub, OpSbc, OpAnd, OpXor, OpOr, OpCp}
	op := aluOps[(opcode-0x80)>>3]
	if colMem {
		return Instruction{Op: op, Operand: OperandMem}, true
	}
	return Instruction{Op: op, Operand: OperandReg, Src: gridRegs[col]}, true
}

// decode turns the opcode at PC into an Instruction, reading immediates
// from the two bytes that follow. Opcodes in unimplementedOpcodes must be
// rejected before calling this.
func (c *CPU) decode(opcode uint8) Instruction {
	if in, ok := decodeGrid(opcode); ok {
		return in
	}

	pc := c.regs.PC()
	imm8 := c.bus.Read(pc + 1)
	imm16 := uint16(c.bus.Read(pc+2))<<8 | uint16(imm8)
	rel := int8(imm8)

	aluImm := func(op Op) Instruction {
		return Instruction{Op: op, Operand: OperandImm, Imm8: imm8}
	}

	switch opcode {
	case 0x00:
		return Instruction{Op: OpNop}

	// 16-bit immediate loads
	case 0x01:
		return Instruction{Op: OpLdPairImm, Pair: PairBC, Imm16: imm16}
	case 0x11:
		return Instruction{Op: OpLdPairImm, Pair: PairDE, Imm16: imm16}
	case 0x21:
		return Instruction{Op: OpLdPairImm, Pair: PairHL, Imm16: imm16}
	case 0x31:
		return Instruction{Op: OpLdPairImm, Pair: PairSP, Imm16: imm16}

	// A <-> (BC)/(DE)
	case 0x02:
		return Instruction{Op: OpLdPairInd, Pair: PairBC}
	case 0x12:
		return Instruction{Op: OpLdPairInd, Pair: PairDE}
	case 0x0A:
		return Instruction{Op: OpLdPairInd, Pair: PairBC, Load: true}
	case 0x1A:
		return Instruction{Op: OpLdPairInd, Pair: PairDE, Load: true}

	// A <-> (HL±)
	case 0x22:
		return Instruction{Op: OpLdMemInc, Increment: true}
	case 0x32:
		return Instruction{Op: OpLdMemInc}
	case 0x2A:
		return Instruction{Op: OpLdMemInc, Increment: true, Load: true}
	case 0x3A:
		return Instruction{Op: OpLdMemInc, Load: true}

	// 16-bit inc/dec
	case 0x03:
		return Instruction{Op: OpIncPair, Pair: PairBC}
	case 0x13:
		return Instruction{Op: OpIncPair, Pair: PairDE}
	case 0x23:
		return Instruction{Op: OpIncPair, Pair: PairHL}
	case 0x33:
		return Instruction{Op: OpIncPair, Pair: PairSP}
	case 0x0B:
		return Instruction{Op: OpDecPair, Pair: PairBC}
	case 0x1B:
		return Instruction{Op: OpDecPair, Pair: PairDE}
	case 0x2B:
		return Instruction{Op: OpDecPair, Pair: PairHL}
	case 0x3B:
		return Instruction{Op: OpDecPair, Pair: PairSP}

	// 8-bit inc/dec
	case 0x04:
		return Instruction{Op: OpInc, Dst: RegB}
	case 0x14:
		return Instruction{Op: OpInc, Dst: RegD}
	case 0x24:
		return Instruction{Op: OpInc, Dst: RegH}
	case 0x0C:
		return Instruction{Op: OpInc, Dst: RegC}
	case 0x1C:
		return Instruction{Op: OpInc, Dst: RegE}
	case 0x2C:
		return Instruction{Op: OpInc, Dst: RegL}
	case 0x3C:
		return Instruction{Op: OpInc, Dst: RegA}
	case 0x05:
		return Instruction{Op: OpDec, Dst: RegB}
	case 0x15:
		return Instruction{Op: OpDec, Dst: RegD}
	case 0x25:
		return Instruction{Op: OpDec, Dst: RegH}
	case 0x0D:
		return Instruction{Op: OpDec, Dst: RegC}
	case 0x1D:
		return Instruction{Op: OpDec, Dst: RegE}
	case 0x2D:
		return Instruction{Op: OpDec, Dst: RegL}
	case 0x3D:
		return Instruction{Op: OpDec, Dst: RegA}
	case 0x34:
		return Instruction{Op: OpIncMem}
	case 0x35:
		return Instruction{Op: OpDecMem}

	// 8-bit immediate loads
	case 0x06:
		return Instruction{Op: OpLdRegImm, Dst: RegB, Imm8: imm8}
	case 0x16:
		return Instruction{Op: OpLdRegImm, Dst: RegD, Imm8: imm8}
	case 0x26:
		return Instruction{Op: OpLdRegImm, Dst: RegH, Imm8: imm8}
	case 0x0E:
		return Instruction{Op: OpLdRegImm, Dst: RegC, Imm8: imm8}
	case 0x1E:
		return Instruction{Op: OpLdRegImm, Dst: RegE, Imm8: imm8}
	case 0x2E:
		return Instruction{Op: OpLdRegImm, Dst: RegL, Imm8: imm8}
	case 0x3E:
		return Instruction{Op: OpLdRegImm, Dst: RegA, Imm8: imm8}
	case 0x36:
		return Instruction{Op: OpLdMemImm, Imm8: imm8}

	// accumulator rotates
	case 0x07:
		return Instruction{Op: OpRotate, Left: true, Circular: true}
	case 0x17:
		return Instruction{Op: OpRotate, Left: true}
	case 0x0F:
		return Instruction{Op: OpRotate, Circular: true}
	case 0x1F:
		return Instruction{Op: OpRotate}

	case 0x08:
		return Instruction{Op: OpStoreSP, Imm16: imm16}

	// ADD HL,rr
	case 0x09:
		return Instruction{Op: OpAddHL, Pair: PairBC}
	case 0x19:
		return Instruction{Op: OpAddHL, Pair: PairDE}
	case 0x29:
		return Instruction{Op: OpAddHL, Pair: PairHL}
	case 0x39:
		return Instruction{Op: OpAddHL, Pair: PairSP}

	// relative jumps
	case 0x18:
		return Instruction{Op: OpJr, Rel: rel}
	case 0x20:
		return Instruction{Op: OpJr, Rel: rel, Zero: true, Negate: true}
	case 0x28:
		return Instruction{Op: OpJr, Rel: rel, Zero: true}
	case 0x30:
		return Instruction{Op: OpJr, Rel: rel, Carry: true, Negate: true}
	case 0x38:
		return Instruction{Op: OpJr, Rel: rel, Carry: true}

	case 0x27:
		return Instruction{Op: OpDaa}
	case 0x2F:
		return Instruction{Op: OpCpl}
	case 0x37:
		return Instruction{Op: OpScf}
	case 0x3F:
		return Instruction{Op: OpCcf}

	// ALU with immediate operand
	case 0xC6:
		return aluImm(OpAdd)
	case 0xCE:
		return aluImm(OpAdc)
	case 0xD6:
		return aluImm(OpSub)
	case 0xDE:
		return aluImm(OpSbc)
	case 0xE6:
		return aluImm(OpAnd)
	case 0xEE:
		return aluImm(OpXor)
	case 0xF6:
		return aluImm(OpOr)
	case 0xFE:
		return aluImm(OpCp)

	// returns
	case 0xC0:
		return Instruction{Op: OpRet, Zero: true, Negate: true}
	case 0xC8:
		return Instruction{Op: OpRet, Zero: true}
	case 0xD0:
		return Instruction{Op: OpRet, Carry: true, Negate: true}
	case 0xD8:
		return Instruction{Op: OpRet, Carry: true}
	case 0xC9:
		return Instruction{Op: OpRet}
	case 0xD9:
		return Instruction{Op: OpReti}

	// stack
	case 0xC1:
		return Instruction{Op: OpPop, Pair: PairBC}
	case 0xD1:
		return Instruction{Op: OpPop, Pair: PairDE}
	case 0xE1:
		return Instruction{Op: OpPop, Pair: PairHL}
	case 0xF1:
		return Instruction{Op: OpPop, Pair: PairAF}
	case 0xC5:
		return Instruction{Op: OpPush, Pair: PairBC}
	case 0xD5:
		return Instruction{Op: OpPush, Pair: PairDE}
	case 0xE5:
		return Instruction{Op: OpPush, Pair: PairHL}
	case 0xF5:
		return Instruction{Op: OpPush, Pair: PairAF}

	// absolute jumps and calls
	case 0xC3:
		return Instruction{Op: OpJp, Imm16: imm16}
	case 0xC2:
		return Instruction{Op: OpJp, Imm16: imm16, Zero: true, Negate: true}
	case 0xCA:
		return Instruction{Op: OpJp, Imm16: imm16, Zero: true}
	case 0xD2:
		return Instruction{Op: OpJp, Imm16: imm16, Carry: true, Negate: true}
	case 0xDA:
		return Instruction{Op: OpJp, Imm16: imm16, Carry: true}
	case 0xE9:
		return Instruction{Op: OpJpHL}
	case 0xCD:
		return Instruction{Op: OpCall, Imm16: imm16}
	case 0xC4:
		return Instruction{Op: OpCall, Imm16: imm16, Zero: true, Negate: true}
	case 0xCC:
		return Instruction{Op: OpCall, Imm16: imm16, Zero: true}
	case 0xD4:
		return Instruction{Op: OpCall, Imm16: imm16, Carry: true, Negate: true}
	case 0xDC:
		return Instruction{Op: OpCall, Imm16: imm16, Carry: true}

	// resets
	case 0xC7:
		return Instruction{Op: OpRst, Imm8: 0x00}
	case 0xCF:
		return Instruction{Op: OpRst, Imm8: 0x08}
	case 0xD7:
		return Instruction{Op: OpRst, Imm8: 0x10}
	case 0xDF:
		return Instruction{Op: OpRst, Imm8: 0x18}
	case 0xE7:
		return Instruction{Op: OpRst, Imm8: 0x20}
	case 0xEF:
		return Instruction{Op: OpRst, Imm8: 0x28}
	case 0xF7:
		return Instruction{Op: OpRst, Imm8: 0x30}
	case 0xFF:
		return Instruction{Op: OpRst, Imm8: 0x38}

	// high-page and absolute A loads
	case 0xE0:
		return Instruction{Op: OpLdHigh, Imm8: imm8}
	case 0xF0:
		return Instruction{Op: OpLdHigh, Imm8: imm8, Load: true}
	case 0xE2:
		return Instruction{Op: OpLdHighC}
	case 0xF2:
		return Instruction{Op: OpLdHighC, Load: true}
	case 0xEA:
		return Instruction{Op: OpLdAbs, Imm16: imm16}
	case 0xFA:
		return Instruction{Op: OpLdAbs, Imm16: imm16, Load: true}

	// SP arithmetic and transfers
	case 0xE8:
		return Instruction{Op: OpAddSP, Rel: rel}
	case 0xF8:
		return Instruction{Op: OpLdHLSP, Rel: rel}
	case 0xF9:
		return Instruction{Op: OpLdSPHL}

	case 0xF3:
		return Instruction{Op: OpDi}
	case 0xFB:
		return Instruction{Op: OpEi}
	}

	panic(fmt.Sprintf("cpu: decoder missed opcode 0x%02X", opcode))
}
