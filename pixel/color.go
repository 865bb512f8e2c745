package pixel

import "image/color"

// Models for the color types in this package.
var (
	RGBModel    color.Model = color.ModelFunc(rgbModel)
	CRGB16Model color.Model = color.ModelFunc(crgb16Model)
)

// RGB represents an opaque 24-bit color, as stored in a Framebuffer.
type RGB struct {
	R, G, B uint8
}

func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

func rgbModel(c color.Color) color.Color {
	if _, ok := c.(RGB); ok {
		return c
	}
	// Alpha premultiplied values end up composited over black.
	r, g, b, _ := c.RGBA()
	return RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// CRGB16 represents a 16-bit 5-6-5 RGB color.
type CRGB16 struct {
	// CRed, 5, CGreen, 6, CBlue, 5
	V uint16
}

// ToCRGB16 packs 8-bit channels into a 5-6-5 value.
func ToCRGB16(r, g, b uint8) CRGB16 {
	return CRGB16{V: uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3}
}

func (c CRGB16) RGBA() (r, g, b, a uint32) {
	return expand(uint32(c.V>>11), 5), expand(uint32(c.V>>5)&0x3f, 6), expand(uint32(c.V)&0x1f, 5), 0xffff
}

// expand scales an n-bit channel to 16 bits by bit replication.
func expand(v uint32, n uint) uint32 {
	v <<= 16 - n
	for shift := n; shift < 16; shift += n {
		v |= v >> shift
	}
	return v
}

func crgb16Model(c color.Color) color.Color {
	switch c := c.(type) {
	case CRGB16:
		return c
	case RGB:
		return ToCRGB16(c.R, c.G, c.B)
	default:
		r, g, b, _ := c.RGBA()
		return ToCRGB16(uint8(r>>8), uint8(g>>8), uint8(b>>8))
	}
}
