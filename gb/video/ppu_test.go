package video

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Renz456/GameBoy/gb/addr"
	"github.com/Renz456/GameBoy/gb/memory"
)

func newTestPPU() (*PPU, *memory.Memory) {
	mem := memory.New()
	return New(mem), mem
}

func TestNewStartsInOAMSearch(t *testing.T) {
	p, mem := newTestPPU()
	assert.Equal(t, ModeOAMSearch, p.Mode())
	assert.Equal(t, uint8(0), p.Scanline())
	assert.Equal(t, uint8(0x02), mem.Read(addr.STAT)&0x03)
}

func TestModeSequenceForOneScanline(t *testing.T) {
	p, mem := newTestPPU()

	p.Step(80)
	assert.Equal(t, ModePixelTransfer, p.Mode())
	assert.Equal(t, uint8(0x03), mem.Read(addr.STAT)&0x03)

	p.Step(172)
	assert.Equal(t, ModeHBlank, p.Mode())
	assert.Equal(t, uint8(0x00), mem.Read(addr.STAT)&0x03)

	p.Step(204)
	assert.Equal(t, ModeOAMSearch, p.Mode())
	assert.Equal(t, uint8(1), p.Scanline())
	assert.Equal(t, uint8(1), mem.Read(addr.LY))
}

func TestThresholdResetDiscardsOvershoot(t *testing.T) {
	p, _ := newTestPPU()

	// 100 cycles crosses the 80-cycle OAM search; the 20-cycle overshoot
	// does not count toward pixel transfer
	p.Step(100)
	assert.Equal(t, ModePixelTransfer, p.Mode())

	p.Step(171)
	assert.Equal(t, ModePixelTransfer, p.Mode())
	p.Step(1)
	assert.Equal(t, ModeHBlank, p.Mode())
}

func TestAtMostOneTransitionPerStep(t *testing.T) {
	p, _ := newTestPPU()

	// one big step takes a single transition, not three
	p.Step(80 + 172 + 204)
	assert.Equal(t, ModePixelTransfer, p.Mode())
}

func TestVBlankEntryRequestsInterrupt(t *testing.T) {
	p, mem := newTestPPU()
	p.mode = ModeHBlank
	p.scanline = 143

	p.Step(204)

	assert.Equal(t, ModeVBlank, p.Mode())
	assert.Equal(t, uint8(144), p.Scanline())
	assert.Equal(t, uint8(144), mem.Read(addr.LY))
	assert.Equal(t, uint8(0x01), mem.Read(addr.IF)&0x01, "vblank interrupt requested")
	assert.Equal(t, uint8(0x01), mem.Read(addr.STAT)&0x03)
}

func TestVBlankAdvancesLYPerBlockAndWraps(t *testing.T) {
	p, mem := newTestPPU()
	p.mode = ModeVBlank
	p.scanline = 144
	p.syncStatus()

	for line := 145; line < 154; line++ {
		p.Step(4560)
		assert.Equal(t, uint8(line), p.Scanline())
		assert.Equal(t, ModeVBlank, p.Mode())
	}

	p.Step(4560)
	assert.Equal(t, uint8(0), p.Scanline())
	assert.Equal(t, ModeOAMSearch, p.Mode())
	assert.Equal(t, uint64(1), p.Frames())
	assert.Equal(t, uint8(0), mem.Read(addr.LY))
}

func TestLYCCompareBit(t *testing.T) {
	p, mem := newTestPPU()
	mem.Write(addr.LYC, 1)

	p.Step(80)
	p.Step(172)
	assert.Equal(t, uint8(0), mem.Read(addr.STAT)&0x04, "no match on line 0")

	p.Step(204) // line 0 -> 1
	assert.Equal(t, uint8(0x04), mem.Read(addr.STAT)&0x04, "match on line 1")
}

func TestStatKeepsInterruptSelectBits(t *testing.T) {
	p, mem := newTestPPU()
	mem.Write(addr.STAT, 0x78) // all interrupt-select bits

	p.Step(80)
	assert.Equal(t, uint8(0x78), mem.Read(addr.STAT)&0x78)
}

func TestVRAMAccessGate(t *testing.T) {
	testCases := []struct {
		desc   string
		mode   Mode
		locked bool
	}{
		{desc: "open during hblank", mode: ModeHBlank},
		{desc: "open during vblank", mode: ModeVBlank},
		{desc: "locked during oam search", mode: ModeOAMSearch, locked: true},
		{desc: "locked during pixel transfer", mode: ModePixelTransfer, locked: true},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			p, _ := newTestPPU()
			p.vram[0] = 0x42
			p.mode = tC.mode

			if tC.locked {
				assert.Equal(t, uint8(0xFF), p.ReadVRAM(addr.VRAMStart))
				p.WriteVRAM(addr.VRAMStart, 0x99)
				assert.Equal(t, uint8(0x42), p.vram[0], "write dropped")
			} else {
				assert.Equal(t, uint8(0x42), p.ReadVRAM(addr.VRAMStart))
				p.WriteVRAM(addr.VRAMStart, 0x99)
				assert.Equal(t, uint8(0x99), p.vram[0])
			}
		})
	}
}

func TestOAMAccessGate(t *testing.T) {
	p, _ := newTestPPU()
	p.oam[4] = 0x21

	p.mode = ModeOAMSearch
	assert.Equal(t, uint8(0xFF), p.ReadOAM(addr.OAMStart+4))
	p.WriteOAM(addr.OAMStart+4, 0x55)
	assert.Equal(t, uint8(0x21), p.oam[4], "write dropped while locked")

	p.mode = ModeVBlank
	assert.Equal(t, uint8(0x21), p.ReadOAM(addr.OAMStart+4))
	p.WriteOAM(addr.OAMStart+4, 0x55)
	assert.Equal(t, uint8(0x55), p.oam[4])
}
