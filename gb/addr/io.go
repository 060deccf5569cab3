package addr

// lcd registers
const (
	// LCDC is the LCD Control register.
	LCDC uint16 = 0xFF40
	// STAT is the LCD Status register. The PPU rewrites the mode and
	// LYC-compare bits after every step.
	STAT uint16 = 0xFF41
	// LY is the current scanline (read-only to everything but the PPU).
	LY uint16 = 0xFF44
	// LYC is the LY Compare register.
	LYC uint16 = 0xFF45
)

// video memory regions
const (
	// VRAMStart is the start of video RAM (tile data and tile maps).
	VRAMStart uint16 = 0x8000
	// VRAMEnd is the last VRAM address.
	VRAMEnd uint16 = 0x9FFF

	// TileData0 is the unsigned tile data base (tiles 0-255).
	TileData0 uint16 = 0x8000
	// TileData1 is the signed tile data base (index biased by +128).
	TileData1 uint16 = 0x8800

	// TileMap0 is background tile map 0.
	TileMap0 uint16 = 0x9800
	// TileMap1 is background tile map 1.
	TileMap1 uint16 = 0x9C00

	// OAMStart is the start of object attribute memory (40 sprites, 4 bytes each).
	OAMStart uint16 = 0xFE00
	// OAMEnd is the last OAM address.
	OAMEnd uint16 = 0xFE9F
)

// interrupts
const (
	// IF is the Interrupt Flags register.
	IF uint16 = 0xFF0F
	// IE is the Interrupt Enable register.
	IE uint16 = 0xFFFF
)

// joypad
const (
	// P1 is used to select and read the joypad button matrix.
	P1 uint16 = 0xFF00
)

// serial
const (
	// SB is the serial transfer data register.
	SB uint16 = 0xFF01
	// SC is the serial transfer control register. Bit 7 starts a transfer.
	SC uint16 = 0xFF02
)

// timer
const (
	// DIV is the divider register, incremented every 256 cycles.
	DIV uint16 = 0xFF04
	// TIMA is the timer counter; overflow requests the timer interrupt.
	TIMA uint16 = 0xFF05
	// TMA is the timer modulo, loaded into TIMA on overflow.
	TMA uint16 = 0xFF06
	// TAC is the timer control (enable + input clock select).
	TAC uint16 = 0xFF07
)

// Interrupt identifies one of the five interrupt sources as its bit mask
// in the IF/IE registers. Lower bit numbers have higher dispatch priority.
type Interrupt uint8

const (
	// VBlankInterrupt fires when the PPU enters vertical blank.
	VBlankInterrupt Interrupt = 1
	// LCDSTATInterrupt fires on the conditions selected in STAT.
	LCDSTATInterrupt Interrupt = 1 << 1
	// TimerInterrupt fires when TIMA overflows.
	TimerInterrupt Interrupt = 1 << 2
	// SerialInterrupt fires when a serial transfer completes.
	SerialInterrupt Interrupt = 1 << 3
	// JoypadInterrupt fires when a selected button is pressed.
	JoypadInterrupt Interrupt = 1 << 4
)

// HandlerAddress returns the fixed handler address for the interrupt.
// Handlers are laid out 8 bytes apart starting at 0x40.
func (i Interrupt) HandlerAddress() uint16 {
	switch i {
	case VBlankInterrupt:
		return 0x40
	case LCDSTATInterrupt:
		return 0x48
	case TimerInterrupt:
		return 0x50
	case SerialInterrupt:
		return 0x58
	case JoypadInterrupt:
		return 0x60
	}
	return 0x40
}
