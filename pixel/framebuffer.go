package pixel

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/BeatGlow/smartscreen/draw"
)

// BytesPerPixel is the storage size of one RGB pixel.
const BytesPerPixel = 3

// MaxBytes is the largest pixel storage a framebuffer accepts.
const MaxBytes = 1 << 30

// Errors
var (
	ErrInvalidDimension = errors.New("pixel: invalid dimension")
	ErrOutOfBounds      = errors.New("pixel: out of bounds")
	ErrSizeMismatch     = errors.New("pixel: size mismatch")
)

// Framebuffer is an RGB pixel grid, 3 bytes per pixel in row-major order.
//
// The zero value is an empty, unallocated buffer.
type Framebuffer struct {
	// Rect is the image bounding box, always anchored at (0, 0).
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int

	allocated bool
}

// NewFramebuffer allocates a zero-filled (black) w×h framebuffer.
func NewFramebuffer(w, h int) (*Framebuffer, error) {
	p := new(Framebuffer)
	if err := p.Allocate(w, h); err != nil {
		return nil, err
	}
	return p, nil
}

// Allocate replaces the storage with a zero-filled w×h surface. A zero width or height
// yields a valid buffer without pixel storage.
func (p *Framebuffer) Allocate(w, h int) error {
	if err := checkDimension(w, h); err != nil {
		return err
	}
	p.set(w, h, make([]byte, w*h*BytesPerPixel))
	return nil
}

// LoadRGB replaces the storage with a copy of pix, which must hold exactly w×h RGB triplets.
// On error the framebuffer is left untouched.
func (p *Framebuffer) LoadRGB(w, h int, pix []byte) error {
	if err := checkDimension(w, h); err != nil {
		return err
	}
	if want := w * h * BytesPerPixel; len(pix) != want {
		return fmt.Errorf("%w: %dx%d needs %d bytes, got %d", ErrSizeMismatch, w, h, want, len(pix))
	}
	buf := make([]byte, len(pix))
	copy(buf, pix)
	p.set(w, h, buf)
	return nil
}

// checkDimension rejects negative sizes and sizes whose storage exceeds MaxBytes.
func checkDimension(w, h int) error {
	if w < 0 || h < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimension, w, h)
	}
	if w > MaxBytes/BytesPerPixel || (h != 0 && w > MaxBytes/BytesPerPixel/h) {
		return fmt.Errorf("%w: %dx%d exceeds %d bytes", ErrInvalidDimension, w, h, MaxBytes)
	}
	return nil
}

func (p *Framebuffer) set(w, h int, pix []byte) {
	p.Rect = image.Rect(0, 0, w, h)
	p.Stride = w * BytesPerPixel
	p.Pix = pix
	p.allocated = true
}

// Allocated reports if the storage was ever set up by Allocate or LoadRGB.
func (p *Framebuffer) Allocated() bool {
	return p.allocated
}

// IsEmpty reports if there is no pixel storage.
func (p *Framebuffer) IsEmpty() bool {
	return len(p.Pix) == 0
}

// ByteLength is the total storage size in bytes.
func (p *Framebuffer) ByteLength() int {
	return len(p.Pix)
}

func (p *Framebuffer) Width() int  { return p.Rect.Dx() }
func (p *Framebuffer) Height() int { return p.Rect.Dy() }

func (p *Framebuffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Framebuffer) ColorModel() color.Model {
	return RGBModel
}

// PixOffset is the index of the first byte of the pixel at (x, y).
func (p *Framebuffer) PixOffset(x, y int) int {
	return y*p.Stride + x*BytesPerPixel
}

func (p *Framebuffer) in(x, y int) bool {
	return p.allocated && (image.Point{X: x, Y: y}).In(p.Rect)
}

// SetPixel writes one pixel.
func (p *Framebuffer) SetPixel(x, y int, r, g, b uint8) error {
	if !p.in(x, y) {
		return fmt.Errorf("%w: (%d,%d) not in %s", ErrOutOfBounds, x, y, p.Rect)
	}
	i := p.PixOffset(x, y)
	p.Pix[i+0] = r
	p.Pix[i+1] = g
	p.Pix[i+2] = b
	return nil
}

// RGBAt reads one pixel.
func (p *Framebuffer) RGBAt(x, y int) (r, g, b uint8, err error) {
	if !p.in(x, y) {
		return 0, 0, 0, fmt.Errorf("%w: (%d,%d) not in %s", ErrOutOfBounds, x, y, p.Rect)
	}
	i := p.PixOffset(x, y)
	return p.Pix[i], p.Pix[i+1], p.Pix[i+2], nil
}

func (p *Framebuffer) At(x, y int) color.Color {
	r, g, b, err := p.RGBAt(x, y)
	if err != nil {
		return color.Transparent
	}
	return RGB{R: r, G: g, B: b}
}

// Set implements draw.Image, pixels outside the buffer are ignored.
func (p *Framebuffer) Set(x, y int, c color.Color) {
	v := rgbModel(c).(RGB)
	_ = p.SetPixel(x, y, v.R, v.G, v.B)
}

// Clear fills the buffer with a single color. An unallocated buffer stays unallocated.
func (p *Framebuffer) Clear(r, g, b uint8) {
	if !p.allocated {
		return
	}
	for i := 0; i+2 < len(p.Pix); i += BytesPerPixel {
		p.Pix[i+0] = r
		p.Pix[i+1] = g
		p.Pix[i+2] = b
	}
}

// Fill the buffer with c.
func (p *Framebuffer) Fill(c color.Color) {
	v := rgbModel(c).(RGB)
	p.Clear(v.R, v.G, v.B)
}

// Row returns the bytes of row y, limited to the pixel columns [x0, x1).
func (p *Framebuffer) Row(y, x0, x1 int) []byte {
	i := p.PixOffset(x0, y)
	return p.Pix[i : i+(x1-x0)*BytesPerPixel]
}

// Interface checks.
var _ draw.Image = (*Framebuffer)(nil)
