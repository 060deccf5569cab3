package cpu

import "fmt"

// Reg selects one of the 8-bit register slots. RegF and RegSP exist in the
// selector space because a handful of encodings address them (POP AF writes
// F through the pair view, LD SP,d16 targets SP), but routing either through
// an 8-bit read or write is a decoder bug and panics.
type Reg uint8

const (
	RegA Reg = iota
	RegB
	RegC
	RegD
	RegE
	RegH
	RegL
	RegF
	RegSP
)

func (r Reg) String() string {
	switch r {
	case RegA:
		return "A"
	case RegB:
		return "B"
	case RegC:
		return "C"
	case RegD:
		return "D"
	case RegE:
		return "E"
	case RegH:
		return "H"
	case RegL:
		return "L"
	case RegF:
		return "F"
	case RegSP:
		return "SP"
	}
	return fmt.Sprintf("Reg(%d)", uint8(r))
}

// Pair selects a 16-bit register pair.
type Pair uint8

const (
	PairBC Pair = iota
	PairDE
	PairHL
	PairAF
	PairSP
)

func (p Pair) String() string {
	switch p {
	case PairBC:
		return "BC"
	case PairDE:
		return "DE"
	case PairHL:
		return "HL"
	case PairAF:
		return "AF"
	case PairSP:
		return "SP"
	}
	return fmt.Sprintf("Pair(%d)", uint8(p))
}

// Op is the decoded operation category. One Op covers every addressing
// variant of the operation; the Instruction fields select the variant.
type Op uint8

const (
	OpNop Op = iota

	// loads
	OpLdRegReg  // LD r,r'
	OpLdRegMem  // LD r,(HL)
	OpLdMemReg  // LD (HL),r
	OpLdMemImm  // LD (HL),d8
	OpLdRegImm  // LD r,d8
	OpLdMemInc  // LD (HL±),A / LD A,(HL±)
	OpLdPairInd // LD (BC|DE),A / LD A,(BC|DE)
	OpLdAbs     // LD (a16),A / LD A,(a16)
	OpLdHigh    // LDH (a8),A / LDH A,(a8)
	OpLdHighC   // LD (FF00+C),A / LD A,(FF00+C)
	OpLdPairImm // LD rr,d16
	OpStoreSP   // LD (a16),SP
	OpLdSPHL    // LD SP,HL
	OpLdHLSP    // LD HL,SP+r8

	// 8-bit arithmetic and logic (operand selected by Operand/Src/Imm8)
	OpAdd
	OpAdc
	OpSub
	OpSbc
	OpAnd
	OpOr
	OpXor
	OpCp
	OpInc
	OpDec
	OpIncMem // INC (HL)
	OpDecMem // DEC (HL)

	// 16-bit arithmetic
	OpIncPair
	OpDecPair
	OpAddHL // ADD HL,rr
	OpAddSP // ADD SP,r8

	// accumulator rotates and misc
	OpRotate // RLCA / RLA / RRCA / RRA, selected by Left/Circular
	OpDaa
	OpScf
	OpCcf
	OpCpl

	// interrupt master enable
	OpEi
	OpDi

	// stack
	OpPush
	OpPop

	// control flow
	OpJp
	OpJpHL
	OpJr
	OpCall
	OpRet
	OpReti
	OpRst
)

// Operand is how an ALU instruction addresses its right-hand side.
type Operand uint8

const (
	OperandReg Operand = iota
	OperandMem         // byte at (HL)
	OperandImm         // immediate following the opcode
)

// Instruction is one decoded instruction. Only the fields relevant to its
// Op carry meaning; everything else stays zero.
type Instruction struct {
	Op      Op
	Operand Operand
	Dst     Reg
	Src     Reg
	Pair    Pair

	Imm8  uint8
	Imm16 uint16
	Rel   int8

	// condition selectors for JP/JR/CALL/RET: with neither Carry nor Zero
	// requested the transfer is unconditional; Negate inverts the test.
	Carry  bool
	Zero   bool
	Negate bool

	// Increment selects the +1 variant of LD (HL±),A; false means -1.
	Increment bool
	// Load distinguishes memory-to-A from A-to-memory addressing variants.
	Load bool

	// rotate direction and mode
	Left     bool
	Circular bool
}
