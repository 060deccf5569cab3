package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddFlags(t *testing.T) {
	testCases := []struct {
		desc      string
		a, value  uint8
		carryIn   bool
		withCarry bool
		want      uint8
		flags     Flags
	}{
		{desc: "no flags", a: 0x01, value: 0x02, want: 0x03, flags: Flags{}},
		{desc: "half-carry out of bit 3", a: 0x0F, value: 0x01, want: 0x10, flags: Flags{HalfCarry: true}},
		{desc: "carry and zero", a: 0xFF, value: 0x01, want: 0x00, flags: Flags{Zero: true, HalfCarry: true, Carry: true}},
		{desc: "carry without zero", a: 0xF0, value: 0x20, want: 0x10, flags: Flags{Carry: true}},
		{desc: "adc consumes carry-in", a: 0x00, value: 0x00, carryIn: true, withCarry: true, want: 0x01, flags: Flags{}},
		{desc: "adc half-carry includes carry-in", a: 0x0F, value: 0x00, carryIn: true, withCarry: true, want: 0x10, flags: Flags{HalfCarry: true}},
		{desc: "adc full wrap", a: 0xFF, value: 0xFF, carryIn: true, withCarry: true, want: 0xFF, flags: Flags{HalfCarry: true, Carry: true}},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c, _ := newTestCPU()
			c.regs.SetA(tC.a)
			c.regs.SetF(Flags{Carry: tC.carryIn}.Byte())
			c.add(tC.value, tC.withCarry)
			assert.Equal(t, tC.want, c.regs.A())
			assert.Equal(t, tC.flags, c.regs.Flags())
		})
	}
}

func TestSubtractFlags(t *testing.T) {
	testCases := []struct {
		desc      string
		a, value  uint8
		carryIn   bool
		withCarry bool
		discard   bool
		want      uint8
		flags     Flags
	}{
		{desc: "plain subtract", a: 0x42, value: 0x01, want: 0x41, flags: Flags{Sub: true}},
		{desc: "zero result", a: 0x10, value: 0x10, want: 0x00, flags: Flags{Zero: true, Sub: true}},
		{desc: "half-borrow from bit 4", a: 0x3C, value: 0x2F, want: 0x0D, flags: Flags{Sub: true, HalfCarry: true}},
		{desc: "full borrow", a: 0x00, value: 0x01, want: 0xFF, flags: Flags{Sub: true, HalfCarry: true, Carry: true}},
		{desc: "sbc consumes borrow-in", a: 0x10, value: 0x0F, carryIn: true, withCarry: true, want: 0x00, flags: Flags{Zero: true, Sub: true, HalfCarry: true}},
		{desc: "cp leaves A intact", a: 0x3C, value: 0x2F, discard: true, want: 0x3C, flags: Flags{Sub: true, HalfCarry: true}},
		{desc: "cp equal sets zero", a: 0x42, value: 0x42, discard: true, want: 0x42, flags: Flags{Zero: true, Sub: true}},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c, _ := newTestCPU()
			c.regs.SetA(tC.a)
			c.regs.SetF(Flags{Carry: tC.carryIn}.Byte())
			c.subtract(tC.value, tC.withCarry, tC.discard)
			assert.Equal(t, tC.want, c.regs.A())
			assert.Equal(t, tC.flags, c.regs.Flags())
		})
	}
}

func TestLogicFlags(t *testing.T) {
	c, _ := newTestCPU()

	c.regs.SetA(0xF0)
	c.and(0x0F)
	assert.Equal(t, uint8(0x00), c.regs.A())
	assert.Equal(t, Flags{Zero: true, HalfCarry: true}, c.regs.Flags())

	c.regs.SetA(0xF0)
	c.and(0x3C)
	assert.Equal(t, uint8(0x30), c.regs.A())
	assert.Equal(t, Flags{HalfCarry: true}, c.regs.Flags())

	c.regs.SetA(0xF0)
	c.or(0x0F)
	assert.Equal(t, uint8(0xFF), c.regs.A())
	assert.Equal(t, Flags{}, c.regs.Flags())

	c.regs.SetA(0xAA)
	c.xor(0xAA)
	assert.Equal(t, uint8(0x00), c.regs.A())
	assert.Equal(t, Flags{Zero: true}, c.regs.Flags())
}

func TestIncDecPreserveCarry(t *testing.T) {
	testCases := []struct {
		desc    string
		value   uint8
		carryIn bool
		dec     bool
		want    uint8
		flags   Flags
	}{
		{desc: "inc keeps carry", value: 0x00, carryIn: true, want: 0x01, flags: Flags{Carry: true}},
		{desc: "inc half-carry at 0x0F", value: 0x0F, want: 0x10, flags: Flags{HalfCarry: true}},
		{desc: "inc wraps to zero", value: 0xFF, want: 0x00, flags: Flags{Zero: true, HalfCarry: true}},
		{desc: "dec keeps carry", value: 0x02, carryIn: true, dec: true, want: 0x01, flags: Flags{Sub: true, Carry: true}},
		{desc: "dec half-borrow at 0x10", value: 0x10, dec: true, want: 0x0F, flags: Flags{Sub: true, HalfCarry: true}},
		{desc: "dec to zero", value: 0x01, dec: true, want: 0x00, flags: Flags{Zero: true, Sub: true}},
		{desc: "dec wraps", value: 0x00, dec: true, want: 0xFF, flags: Flags{Sub: true, HalfCarry: true}},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c, _ := newTestCPU()
			c.regs.SetF(Flags{Carry: tC.carryIn}.Byte())
			var got uint8
			if tC.dec {
				got = c.decValue(tC.value)
			} else {
				got = c.incValue(tC.value)
			}
			assert.Equal(t, tC.want, got)
			assert.Equal(t, tC.flags, c.regs.Flags())
		})
	}
}

func TestIncDecMemory(t *testing.T) {
	c, bus := newTestCPU(0x34) // INC (HL)
	c.regs.SetHL(0xC000)
	bus.data[0xC000] = 0x0F
	c.regs.SetF(Flags{Carry: true}.Byte())

	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x10), bus.data[0xC000])
	assert.Equal(t, Flags{HalfCarry: true, Carry: true}, c.regs.Flags())

	c, bus = newTestCPU(0x35) // DEC (HL)
	c.regs.SetHL(0xC000)
	bus.data[0xC000] = 0x01

	_, err = c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x00), bus.data[0xC000])
	assert.Equal(t, Flags{Zero: true, Sub: true}, c.regs.Flags())
}

func TestIncDecPairNeverAlterFlags(t *testing.T) {
	testCases := []struct {
		desc   string
		opcode uint8
		pair   Pair
		start  uint16
		want   uint16
	}{
		{desc: "INC BC", opcode: 0x03, pair: PairBC, start: 0x00FF, want: 0x0100},
		{desc: "INC DE", opcode: 0x13, pair: PairDE, start: 0xFFFF, want: 0x0000},
		{desc: "INC HL", opcode: 0x23, pair: PairHL, start: 0x0FFF, want: 0x1000},
		{desc: "INC SP", opcode: 0x33, pair: PairSP, start: 0xFFFE, want: 0xFFFF},
		{desc: "DEC BC", opcode: 0x0B, pair: PairBC, start: 0x0100, want: 0x00FF},
		{desc: "DEC DE", opcode: 0x1B, pair: PairDE, start: 0x0000, want: 0xFFFF},
		{desc: "DEC HL", opcode: 0x2B, pair: PairHL, start: 0x1000, want: 0x0FFF},
		{desc: "DEC SP", opcode: 0x3B, pair: PairSP, start: 0x0001, want: 0x0000},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			// every flag combination must survive bit-for-bit, even the
			// boundary values that would set flags in the 8-bit forms
			for f := 0x00; f <= 0xF0; f += 0x10 {
				c, _ := newTestCPU(tC.opcode)
				c.writePair(tC.pair, tC.start)
				c.regs.SetF(uint8(f))

				_, err := c.Step()
				assert.NoError(t, err)
				assert.Equal(t, tC.want, c.readPair(tC.pair))
				assert.Equal(t, uint8(f), c.regs.F())
			}
		})
	}
}

func TestAddHL(t *testing.T) {
	testCases := []struct {
		desc      string
		hl, value uint16
		want      uint16
		flags     Flags
	}{
		{desc: "no flags", hl: 0x1000, value: 0x0234, want: 0x1234, flags: Flags{}},
		{desc: "half-carry out of bit 11", hl: 0x0FFF, value: 0x0001, want: 0x1000, flags: Flags{HalfCarry: true}},
		{desc: "carry out of bit 15", hl: 0x8000, value: 0x8000, want: 0x0000, flags: Flags{Zero: true, Carry: true}},
		{desc: "both carries", hl: 0xFFFF, value: 0x0001, want: 0x0000, flags: Flags{Zero: true, HalfCarry: true, Carry: true}},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c, _ := newTestCPU()
			c.regs.SetHL(tC.hl)
			c.addHL(tC.value)
			assert.Equal(t, tC.want, c.regs.HL())
			assert.Equal(t, tC.flags, c.regs.Flags())
		})
	}
}

func TestAddSPRelative(t *testing.T) {
	c, _ := newTestCPU(0xE8, 0x02) // ADD SP,+2
	c.regs.SetSP(0xFFF8)
	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xFFFA), c.regs.SP())
	assert.Equal(t, Flags{}, c.regs.Flags())

	c, _ = newTestCPU(0xE8, 0xFE) // ADD SP,-2
	c.regs.SetSP(0x0004)
	_, err = c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0002), c.regs.SP())
	// low-byte addition 0x04+0xFE carries out of bits 3 and 7
	assert.Equal(t, Flags{HalfCarry: true, Carry: true}, c.regs.Flags())

	c, _ = newTestCPU(0xF8, 0x10) // LD HL,SP+0x10
	c.regs.SetSP(0xC000)
	_, err = c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xC010), c.regs.HL())
	assert.Equal(t, uint16(0xC000), c.regs.SP())
}

func TestRotateAccumulator(t *testing.T) {
	testCases := []struct {
		desc     string
		opcode   uint8
		a        uint8
		carryIn  bool
		want     uint8
		carryOut bool
	}{
		{desc: "RLCA wraps bit 7 to bit 0", opcode: 0x07, a: 0x85, want: 0x0B, carryOut: true},
		{desc: "RLCA without carry out", opcode: 0x07, a: 0x01, want: 0x02},
		{desc: "RLA feeds old carry in", opcode: 0x17, a: 0x80, carryIn: true, want: 0x01, carryOut: true},
		{desc: "RLA without carry in drops bit 7", opcode: 0x17, a: 0x80, want: 0x00, carryOut: true},
		{desc: "RRCA wraps bit 0 to bit 7", opcode: 0x0F, a: 0x01, want: 0x80, carryOut: true},
		{desc: "RRA feeds old carry in", opcode: 0x1F, a: 0x01, carryIn: true, want: 0x80, carryOut: true},
		{desc: "RRA without carry in", opcode: 0x1F, a: 0x02, want: 0x01},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c, _ := newTestCPU(tC.opcode)
			c.regs.SetA(tC.a)
			c.regs.SetF(Flags{Carry: tC.carryIn}.Byte())
			_, err := c.Step()
			assert.NoError(t, err)
			assert.Equal(t, tC.want, c.regs.A())
			// zero, sub and half-carry always clear after a rotate
			assert.Equal(t, Flags{Carry: tC.carryOut}, c.regs.Flags())
		})
	}
}

func TestDaa(t *testing.T) {
	testCases := []struct {
		desc  string
		a     uint8
		in    Flags
		want  uint8
		flags Flags
	}{
		{desc: "adjusts low digit after addition", a: 0x0A, want: 0x10, flags: Flags{HalfCarry: true}},
		{desc: "high digit over 9 adds 0x60 and carries", a: 0xA4, want: 0x04, flags: Flags{Carry: true}},
		{desc: "valid BCD untouched", a: 0x42, want: 0x42, flags: Flags{}},
		{desc: "half-carry forces low adjust", a: 0x12, in: Flags{HalfCarry: true}, want: 0x18, flags: Flags{}},
		{desc: "carry forces high adjust", a: 0x42, in: Flags{Carry: true}, want: 0xA2, flags: Flags{Carry: true}},
		{desc: "subtraction adjusts downward", a: 0x0F, in: Flags{Sub: true, HalfCarry: true}, want: 0x09, flags: Flags{Sub: true}},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c, _ := newTestCPU(0x27)
			c.regs.SetA(tC.a)
			c.regs.SetF(tC.in.Byte())
			_, err := c.Step()
			assert.NoError(t, err)
			assert.Equal(t, tC.want, c.regs.A())
			assert.Equal(t, tC.flags, c.regs.Flags())
		})
	}
}

func TestCarryAndComplementOps(t *testing.T) {
	c, _ := newTestCPU(0x37, 0x3F, 0x2F) // SCF, CCF, CPL
	c.regs.SetA(0x35)
	c.regs.SetF(Flags{Zero: true, Sub: true, HalfCarry: true}.Byte())

	_, err := c.Step() // SCF
	assert.NoError(t, err)
	assert.Equal(t, Flags{Zero: true, Carry: true}, c.regs.Flags())

	_, err = c.Step() // CCF
	assert.NoError(t, err)
	assert.Equal(t, Flags{Zero: true}, c.regs.Flags())

	_, err = c.Step() // CPL
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xCA), c.regs.A())
	assert.Equal(t, Flags{Zero: true, Sub: true, HalfCarry: true}, c.regs.Flags())
}

func TestLoadVariants(t *testing.T) {
	t.Run("LD (HL+),A advances HL after the store", func(t *testing.T) {
		c, bus := newTestCPU(0x22)
		c.regs.SetA(0x55)
		c.regs.SetHL(0xC000)
		_, err := c.Step()
		assert.NoError(t, err)
		assert.Equal(t, uint8(0x55), bus.data[0xC000])
		assert.Equal(t, uint16(0xC001), c.regs.HL())
	})

	t.Run("LD A,(HL-) reads before HL moves", func(t *testing.T) {
		c, bus := newTestCPU(0x3A)
		bus.data[0xC005] = 0x77
		c.regs.SetHL(0xC005)
		_, err := c.Step()
		assert.NoError(t, err)
		assert.Equal(t, uint8(0x77), c.regs.A())
		assert.Equal(t, uint16(0xC004), c.regs.HL())
	})

	t.Run("LD A,(DE)", func(t *testing.T) {
		c, bus := newTestCPU(0x1A)
		bus.data[0xC100] = 0x99
		c.regs.SetDE(0xC100)
		_, err := c.Step()
		assert.NoError(t, err)
		assert.Equal(t, uint8(0x99), c.regs.A())
	})

	t.Run("LD A,(a16) loads into A", func(t *testing.T) {
		c, bus := newTestCPU(0xFA, 0x00, 0xC2)
		bus.data[0xC200] = 0x13
		_, err := c.Step()
		assert.NoError(t, err)
		assert.Equal(t, uint8(0x13), c.regs.A())
	})

	t.Run("LDH writes to the high page", func(t *testing.T) {
		c, bus := newTestCPU(0xE0, 0x80)
		c.regs.SetA(0x42)
		_, err := c.Step()
		assert.NoError(t, err)
		assert.Equal(t, uint8(0x42), bus.data[0xFF80])
	})

	t.Run("LD (FF00+C),A", func(t *testing.T) {
		c, bus := newTestCPU(0xE2, 0x00, 0x00)
		c.regs.SetA(0x24)
		c.regs.SetC(0x81)
		_, err := c.Step()
		assert.NoError(t, err)
		assert.Equal(t, uint8(0x24), bus.data[0xFF81])
		// grouped with the 3-byte loads, so PC skips two operand bytes
		assert.Equal(t, uint16(3), c.regs.PC())
	})

	t.Run("LD (a16),SP stores both bytes little-endian", func(t *testing.T) {
		c, bus := newTestCPU(0x08, 0x00, 0xC3)
		c.regs.SetSP(0xBEEF)
		_, err := c.Step()
		assert.NoError(t, err)
		assert.Equal(t, uint8(0xEF), bus.data[0xC300])
		assert.Equal(t, uint8(0xBE), bus.data[0xC301])
	})
}

func TestPushPopRoundTrip(t *testing.T) {
	c, bus := newTestCPU(0xC5, 0xD1) // PUSH BC, POP DE
	c.regs.SetSP(0xFFFE)
	c.regs.SetBC(0x1234)

	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xFFFC), c.regs.SP())
	assert.Equal(t, uint8(0x12), bus.data[0xFFFD])
	assert.Equal(t, uint8(0x34), bus.data[0xFFFC])

	_, err = c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1234), c.regs.DE())
	assert.Equal(t, uint16(0xFFFE), c.regs.SP())
}

func TestPopAFNormalizesFlags(t *testing.T) {
	c, _ := newTestCPU(0xF1)
	c.regs.SetSP(0xFFFC)
	c.bus.Write(0xFFFC, 0xFF) // low byte lands in F
	c.bus.Write(0xFFFD, 0x12)

	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x12), c.regs.A())
	assert.Equal(t, uint8(0xF0), c.regs.F())
}

func TestJumps(t *testing.T) {
	t.Run("JP a16", func(t *testing.T) {
		c, _ := newTestCPU(0xC3, 0x34, 0x12)
		cycles, err := c.Step()
		assert.NoError(t, err)
		assert.Equal(t, uint16(0x1234), c.regs.PC())
		assert.Equal(t, 12, cycles)
	})

	t.Run("JP NZ not taken falls through", func(t *testing.T) {
		c, _ := newTestCPU(0xC2, 0x34, 0x12)
		c.regs.SetF(Flags{Zero: true}.Byte())
		cycles, err := c.Step()
		assert.NoError(t, err)
		assert.Equal(t, uint16(3), c.regs.PC())
		assert.Equal(t, 12, cycles) // same cost either way
	})

	t.Run("JP (HL)", func(t *testing.T) {
		c, _ := newTestCPU(0xE9)
		c.regs.SetHL(0x4000)
		_, err := c.Step()
		assert.NoError(t, err)
		assert.Equal(t, uint16(0x4000), c.regs.PC())
	})

	t.Run("JR offset applies to the instruction address", func(t *testing.T) {
		c, bus := newTestCPU()
		bus.data[0x0100] = 0x18 // JR +0x10
		bus.data[0x0101] = 0x10
		c.regs.SetPC(0x0100)
		_, err := c.Step()
		assert.NoError(t, err)
		assert.Equal(t, uint16(0x0110), c.regs.PC())
	})

	t.Run("JR backwards", func(t *testing.T) {
		c, bus := newTestCPU()
		bus.data[0x0100] = 0x20 // JR NZ,-0x20
		bus.data[0x0101] = 0xE0
		c.regs.SetPC(0x0100)
		_, err := c.Step()
		assert.NoError(t, err)
		assert.Equal(t, uint16(0x00E0), c.regs.PC())
	})

	t.Run("JR Z not taken", func(t *testing.T) {
		c, _ := newTestCPU(0x28, 0x10)
		_, err := c.Step()
		assert.NoError(t, err)
		assert.Equal(t, uint16(2), c.regs.PC())
	})
}

func TestCallAndReturn(t *testing.T) {
	c, bus := newTestCPU()
	bus.data[0x0200] = 0xCD // CALL 0x0300
	bus.data[0x0201] = 0x00
	bus.data[0x0202] = 0x03
	bus.data[0x0300] = 0xC9 // RET
	c.regs.SetPC(0x0200)
	c.regs.SetSP(0xFFFE)

	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0300), c.regs.PC())
	assert.Equal(t, uint16(0xFFFC), c.regs.SP())
	assert.Equal(t, uint8(0x03), bus.data[0xFFFC]) // return address 0x0203
	assert.Equal(t, uint8(0x02), bus.data[0xFFFD])

	_, err = c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0203), c.regs.PC())
	assert.Equal(t, uint16(0xFFFE), c.regs.SP())
}

func TestConditionalCallNotTaken(t *testing.T) {
	c, _ := newTestCPU(0xD4, 0x00, 0x03) // CALL NC
	c.regs.SetF(Flags{Carry: true}.Byte())
	c.regs.SetSP(0xFFFE)

	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(3), c.regs.PC())
	assert.Equal(t, uint16(0xFFFE), c.regs.SP())
}

func TestConditionalRet(t *testing.T) {
	c, bus := newTestCPU(0xD8) // RET C
	bus.data[0xFFFC] = 0x00
	bus.data[0xFFFD] = 0x05
	c.regs.SetSP(0xFFFC)
	c.regs.SetF(Flags{Carry: true}.Byte())

	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0500), c.regs.PC())
	assert.Equal(t, uint16(0xFFFE), c.regs.SP())
}

func TestRst(t *testing.T) {
	c, bus := newTestCPU()
	bus.data[0x0150] = 0xEF // RST 28
	c.regs.SetPC(0x0150)
	c.regs.SetSP(0xFFFE)

	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0028), c.regs.PC())
	// return address is the byte after the RST
	assert.Equal(t, uint8(0x51), bus.data[0xFFFC])
	assert.Equal(t, uint8(0x01), bus.data[0xFFFD])
}
