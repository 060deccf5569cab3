package video

const (
	// FramebufferWidth is the visible horizontal resolution in pixels.
	FramebufferWidth = 160
	// FramebufferHeight is the number of visible scanlines.
	FramebufferHeight = 144
)

// Shade is one RGBA pixel of the fixed DMG grayscale palette.
type Shade [4]byte

var (
	WhiteShade     = Shade{0xFF, 0xFF, 0xFF, 0xFF}
	LightGreyShade = Shade{0xCC, 0xCC, 0xCC, 0xFF}
	DarkGreyShade  = Shade{0x77, 0x77, 0x77, 0xFF}
	BlackShade     = Shade{0x00, 0x00, 0x00, 0xFF}
)

// palette maps a 2-bit tile color index to its shade.
var palette = [4]Shade{WhiteShade, LightGreyShade, DarkGreyShade, BlackShade}

// FrameBuffer holds the rendered frame as a flat RGBA byte sequence,
// row-major, four bytes per pixel.
type FrameBuffer struct {
	pix []byte
}

func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{pix: make([]byte, FramebufferWidth*FramebufferHeight*4)}
}

// SetPixel writes one pixel. Coordinates must be inside the visible area.
func (fb *FrameBuffer) SetPixel(x, y int, s Shade) {
	copy(fb.pix[(y*FramebufferWidth+x)*4:], s[:])
}

// Pixel reads one pixel back.
func (fb *FrameBuffer) Pixel(x, y int) Shade {
	var s Shade
	copy(s[:], fb.pix[(y*FramebufferWidth+x)*4:])
	return s
}

// Bytes returns the backing RGBA bytes. The slice stays valid across
// frames; callers that need a stable copy must make one.
func (fb *FrameBuffer) Bytes() []byte {
	return fb.pix
}
