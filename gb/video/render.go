package video

import (
	"sort"

	"github.com/Renz456/GameBoy/gb/addr"
	"github.com/Renz456/GameBoy/gb/bit"
)

// lcdControl is the unpacked LCDC register.
type lcdControl struct {
	bgEnable            bool // bit 0
	objEnable           bool // bit 1
	objTall             bool // bit 2: 8x16 sprites
	bgTileMapSelect     bool // bit 3: map at 0x9C00 instead of 0x9800
	bgTileDataSelect    bool // bit 4: unsigned tile data at 0x8000
	windowEnable        bool // bit 5
	windowTileMapSelect bool // bit 6
	displayEnable       bool // bit 7
}

func readLCDControl(value byte) lcdControl {
	return lcdControl{
		bgEnable:            bit.IsSet(0, value),
		objEnable:           bit.IsSet(1, value),
		objTall:             bit.IsSet(2, value),
		bgTileMapSelect:     bit.IsSet(3, value),
		bgTileDataSelect:    bit.IsSet(4, value),
		windowEnable:        bit.IsSet(5, value),
		windowTileMapSelect: bit.IsSet(6, value),
		displayEnable:       bit.IsSet(7, value),
	}
}

// tileRowPixel extracts the 2-bit color index of one pixel from a tile
// row's two bitplane bytes. Bit 7 is the leftmost pixel; the high plane
// contributes the high bit.
func tileRowPixel(low, high byte, x int) int {
	b := uint8(7 - x)
	return int(bit.Value(b, high))<<1 | int(bit.Value(b, low))
}

// RenderScanline draws the background and sprite passes for the current
// scanline. It runs at the HBlank transition, while the access gate is
// open; lines past the visible area are never rendered.
func (p *PPU) RenderScanline() {
	if int(p.scanline) >= FramebufferHeight {
		return
	}
	lcdc := readLCDControl(p.mem.Read(addr.LCDC))
	if lcdc.bgEnable {
		p.renderBackground(lcdc)
	}
	if lcdc.objEnable {
		p.renderSprites(lcdc)
	}
}

func (p *PPU) renderBackground(lcdc lcdControl) {
	y := int(p.scanline)

	tileMap := addr.TileMap0
	if lcdc.bgTileMapSelect {
		tileMap = addr.TileMap1
	}

	row := y % 8
	for x := 0; x < FramebufferWidth; x++ {
		index := p.ReadVRAM(tileMap + uint16((y/8)*32+x/8))

		var tileAddr uint16
		if lcdc.bgTileDataSelect {
			tileAddr = addr.TileData0 + uint16(index)*16
		} else {
			// signed indexing: tile -128..127 biased into 0..255
			tileAddr = addr.TileData1 + uint16(int(int8(index))+128)*16
		}

		low := p.ReadVRAM(tileAddr + uint16(row*2))
		high := p.ReadVRAM(tileAddr + uint16(row*2+1))
		p.fb.SetPixel(x, y, palette[tileRowPixel(low, high, x%8)])
	}
}

// oamEntry is one decoded sprite attribute record.
type oamEntry struct {
	index   int
	x, y    int // screen coordinates after the -8/-16 offsets
	tile    uint8
	aboveBG bool
	flipX   bool
	flipY   bool
}

func (p *PPU) readOAMEntry(index int) oamEntry {
	base := addr.OAMStart + uint16(index*4)
	attrs := p.ReadOAM(base + 3)
	return oamEntry{
		index:   index,
		y:       int(p.ReadOAM(base)) - 16,
		x:       int(p.ReadOAM(base+1)) - 8,
		tile:    p.ReadOAM(base + 2),
		aboveBG: !bit.IsSet(7, attrs),
		flipX:   bit.IsSet(5, attrs),
		flipY:   bit.IsSet(6, attrs),
	}
}

func (p *PPU) renderSprites(lcdc lcdControl) {
	y := int(p.scanline)
	height := 8
	if lcdc.objTall {
		height = 16
	}

	// collect the sprites whose vertical extent covers this line
	visible := make([]oamEntry, 0, 10)
	for i := 0; i < 40; i++ {
		entry := p.readOAMEntry(i)
		if entry.y <= y && y < entry.y+height {
			visible = append(visible, entry)
		}
	}

	// lower X wins; ties keep OAM table order. At most ten per line.
	sort.SliceStable(visible, func(a, b int) bool {
		return visible[a].x < visible[b].x
	})
	if len(visible) > 10 {
		visible = visible[:10]
	}

	for _, entry := range visible {
		// sprite tiles always use the unsigned table; a 16-pixel sprite
		// continues into the tile that follows
		tileAddr := addr.TileData0 + uint16(entry.tile)*16

		pixelY := y - entry.y
		if entry.flipY {
			pixelY = height - 1 - pixelY
		}
		low := p.ReadVRAM(tileAddr + uint16(pixelY*2))
		high := p.ReadVRAM(tileAddr + uint16(pixelY*2+1))

		for x := 0; x < 8; x++ {
			screenX := entry.x + x
			if screenX < 0 || screenX >= FramebufferWidth {
				continue
			}
			pixelX := x
			if entry.flipX {
				pixelX = 7 - x
			}
			color := tileRowPixel(low, high, pixelX)
			if color == 0 {
				continue // color 0 is transparent
			}
			if !entry.aboveBG && p.fb.Pixel(screenX, y) != WhiteShade {
				continue
			}
			p.fb.SetPixel(screenX, y, palette[color])
		}
	}
}
