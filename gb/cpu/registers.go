package cpu

import "github.com/Renz456/GameBoy/gb/bit"

// Flag masks for the F register. Only the top nibble carries meaning.
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10
)

// Flags is the unpacked view of the F register.
type Flags struct {
	Zero      bool
	Sub       bool
	HalfCarry bool
	Carry     bool
}

// FlagsFromByte decodes the four flag bits of a packed F value.
func FlagsFromByte(value uint8) Flags {
	return Flags{
		Zero:      value&uint8(zeroFlag) != 0,
		Sub:       value&uint8(subFlag) != 0,
		HalfCarry: value&uint8(halfCarryFlag) != 0,
		Carry:     value&uint8(carryFlag) != 0,
	}
}

// Byte packs the flags back into a canonical F value. Decoding a canonical
// byte and re-encoding it is the identity; the low nibble is always zero.
func (f Flags) Byte() uint8 {
	var value uint8
	if f.Zero {
		value |= uint8(zeroFlag)
	}
	if f.Sub {
		value |= uint8(subFlag)
	}
	if f.HalfCarry {
		value |= uint8(halfCarryFlag)
	}
	if f.Carry {
		value |= uint8(carryFlag)
	}
	return value
}

// Registers is the CPU register file: eight 8-bit slots plus SP and PC,
// with paired 16-bit views (high byte first). Power-on state is all zero.
type Registers struct {
	a, b, c, d, e, f, h, l uint8
	sp, pc                 uint16
}

func (r *Registers) A() uint8 { return r.a }
func (r *Registers) B() uint8 { return r.b }
func (r *Registers) C() uint8 { return r.c }
func (r *Registers) D() uint8 { return r.d }
func (r *Registers) E() uint8 { return r.e }
func (r *Registers) F() uint8 { return r.f }
func (r *Registers) H() uint8 { return r.h }
func (r *Registers) L() uint8 { return r.l }

func (r *Registers) SetA(value uint8) { r.a = value }
func (r *Registers) SetB(value uint8) { r.b = value }
func (r *Registers) SetC(value uint8) { r.c = value }
func (r *Registers) SetD(value uint8) { r.d = value }
func (r *Registers) SetE(value uint8) { r.e = value }
func (r *Registers) SetH(value uint8) { r.h = value }
func (r *Registers) SetL(value uint8) { r.l = value }

// SetF normalizes the written value by decomposing it into the four flag
// booleans and re-encoding, discarding any low-nibble garbage.
func (r *Registers) SetF(value uint8) {
	r.f = FlagsFromByte(value).Byte()
}

// Flags returns the unpacked view of F.
func (r *Registers) Flags() Flags { return FlagsFromByte(r.f) }

func (r *Registers) SP() uint16 { return r.sp }
func (r *Registers) PC() uint16 { return r.pc }

func (r *Registers) SetSP(value uint16) { r.sp = value }
func (r *Registers) SetPC(value uint16) { r.pc = value }

func (r *Registers) AF() uint16 { return bit.Combine(r.a, r.f) }
func (r *Registers) BC() uint16 { return bit.Combine(r.b, r.c) }
func (r *Registers) DE() uint16 { return bit.Combine(r.d, r.e) }
func (r *Registers) HL() uint16 { return bit.Combine(r.h, r.l) }

func (r *Registers) SetAF(value uint16) {
	r.a = bit.High(value)
	r.SetF(bit.Low(value))
}

func (r *Registers) SetBC(value uint16) {
	r.b = bit.High(value)
	r.c = bit.Low(value)
}

func (r *Registers) SetDE(value uint16) {
	r.d = bit.High(value)
	r.e = bit.Low(value)
}

func (r *Registers) SetHL(value uint16) {
	r.h = bit.High(value)
	r.l = bit.Low(value)
}
