package smartscreen

import (
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"

	"github.com/BeatGlow/smartscreen/draw"
	"github.com/BeatGlow/smartscreen/pixel"
)

type drawer struct {
	s Screen
}

// NewDrawer adapts a screen to periph's display.Drawer.
func NewDrawer(s Screen) display.Drawer {
	return &drawer{s: s}
}

func (d *drawer) String() string {
	return d.s.String()
}

// Halt turns the screen off.
func (d *drawer) Halt() error {
	return d.s.ScreenOff()
}

func (d *drawer) ColorModel() color.Model {
	return pixel.RGBModel
}

func (d *drawer) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.s.Width(), d.s.Height())
}

// Draw renders src into the screen area dstRect, clipped to the screen bounds.
func (d *drawer) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	r := dstRect.Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	srcPts = srcPts.Add(r.Min.Sub(dstRect.Min))

	buf, err := d.s.CreateBuffer(r.Dx(), r.Dy())
	if err != nil {
		return err
	}
	draw.Draw(buf, buf.Bounds(), src, srcPts, draw.Src)
	return d.s.DisplayBufferAt(r.Min.X, r.Min.Y, buf)
}

// Interface checks.
var _ display.Drawer = (*drawer)(nil)
