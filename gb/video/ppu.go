// Package video implements the pixel processing unit: the scanline mode
// state machine, mode-gated VRAM/OAM access and the per-line renderer.
package video

import (
	"fmt"

	"github.com/Renz456/GameBoy/gb/addr"
	"github.com/Renz456/GameBoy/gb/bit"
	"github.com/Renz456/GameBoy/gb/memory"
)

// Mode is the PPU state, encoded as it appears in STAT bits 0-1.
type Mode uint8

const (
	ModeHBlank        Mode = 0
	ModeVBlank        Mode = 1
	ModeOAMSearch     Mode = 2
	ModePixelTransfer Mode = 3
)

func (m Mode) String() string {
	switch m {
	case ModeHBlank:
		return "HBlank"
	case ModeVBlank:
		return "VBlank"
	case ModeOAMSearch:
		return "OAMSearch"
	case ModePixelTransfer:
		return "PixelTransfer"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

const (
	oamSearchCycles     = 80
	pixelTransferCycles = 172
	hblankCycles        = 204
	// vblankCycles is one LY step of the vertical blank. The blank is
	// timed coarsely: each of lines 144-153 lasts a full block.
	vblankCycles = 4560

	visibleScanlines = 144
	totalScanlines   = 154
)

// PPU drives the scanline state machine and owns VRAM and OAM. Register
// state (LCDC, STAT, LY, LYC, IF) lives in shared memory.
type PPU struct {
	mem  *memory.Memory
	vram [0x2000]byte
	oam  [0xA0]byte

	fb       *FrameBuffer
	mode     Mode
	scanline uint8
	clock    int
	frames   uint64
}

// New returns a PPU at the top of the frame, in OAM search on line 0.
func New(mem *memory.Memory) *PPU {
	p := &PPU{
		mem:  mem,
		fb:   NewFrameBuffer(),
		mode: ModeOAMSearch,
	}
	p.syncStatus()
	return p
}

func (p *PPU) Mode() Mode                { return p.mode }
func (p *PPU) Scanline() uint8           { return p.scanline }
func (p *PPU) Frames() uint64            { return p.frames }
func (p *PPU) Framebuffer() *FrameBuffer { return p.fb }

// Step advances the PPU by the cycles the CPU just consumed, taking any
// mode transition the accumulated time has reached, then rewrites the
// STAT mode and LYC-compare bits and LY.
func (p *PPU) Step(cycles int) {
	p.clock += cycles
	p.advance()
	p.syncStatus()
}

// advance takes at most one mode transition. Crossing a threshold resets
// the accumulator to zero; overshoot does not carry into the next mode.
func (p *PPU) advance() {
	switch p.mode {
	case ModeOAMSearch:
		if p.clock >= oamSearchCycles {
			p.mode = ModePixelTransfer
			p.clock = 0
		}
	case ModePixelTransfer:
		if p.clock >= pixelTransferCycles {
			p.mode = ModeHBlank
			p.clock = 0
		}
	case ModeHBlank:
		if p.clock >= hblankCycles {
			// render while the mode still reads as HBlank, so the
			// access gate is open
			p.RenderScanline()
			p.scanline++
			p.clock = 0
			if p.scanline >= visibleScanlines {
				p.mode = ModeVBlank
				p.mem.SetBit(0, addr.IF)
			} else {
				p.mode = ModeOAMSearch
			}
		}
	case ModeVBlank:
		if p.clock >= vblankCycles {
			p.scanline++
			p.clock = 0
			if p.scanline >= totalScanlines {
				p.mode = ModeOAMSearch
				p.scanline = 0
				p.frames++
			}
		}
	}
}

// syncStatus publishes the PPU state to LY and STAT: mode in bits 0-1,
// LYC compare in bit 2. The interrupt-select bits 3-6 are left alone.
func (p *PPU) syncStatus() {
	status := p.mem.Read(addr.STAT)
	status = (status &^ 0x03) | uint8(p.mode)
	if p.scanline == p.mem.Read(addr.LYC) {
		status = bit.Set(2, status)
	} else {
		status = bit.Clear(2, status)
	}
	p.mem.Write(addr.LY, p.scanline)
	p.mem.Write(addr.STAT, status)
}

// accessible reports whether VRAM and OAM can be touched right now.
// During OAM search and pixel transfer the PPU owns both regions.
func (p *PPU) accessible() bool {
	return p.mode == ModeHBlank || p.mode == ModeVBlank
}

// ReadVRAM reads a VRAM byte, or 0xFF while the region is locked.
func (p *PPU) ReadVRAM(address uint16) byte {
	if !p.accessible() {
		return 0xFF
	}
	return p.vram[address-addr.VRAMStart]
}

// WriteVRAM writes a VRAM byte; writes while locked are dropped.
func (p *PPU) WriteVRAM(address uint16, value byte) {
	if p.accessible() {
		p.vram[address-addr.VRAMStart] = value
	}
}

// ReadOAM reads an OAM byte, or 0xFF while the region is locked.
func (p *PPU) ReadOAM(address uint16) byte {
	if !p.accessible() {
		return 0xFF
	}
	return p.oam[address-addr.OAMStart]
}

// WriteOAM writes an OAM byte; writes while locked are dropped.
func (p *PPU) WriteOAM(address uint16, value byte) {
	if p.accessible() {
		p.oam[address-addr.OAMStart] = value
	}
}
