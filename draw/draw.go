// Package draw has the image/draw primitives used with framebuffers, plus simple shapes
// and fills for test cards.
package draw

import (
	"image"
	"image/color"
	"image/draw"
)

// Image is an alias for [image/draw.Image].
type Image = draw.Image

// Op is an alias for [image/draw.Op].
type Op = draw.Op

const (
	// Over specifies ``(src in mask) over dst''.
	Over Op = iota

	// Src specifies ``src in mask''.
	Src
)

// Draw calls [image/draw.Draw].
func Draw(dst Image, r image.Rectangle, src image.Image, sp image.Point, op Op) {
	draw.Draw(dst, r, src, sp, op)
}

// Fill paints all of dst with c.
func Fill(dst Image, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Gradient fills r with a left to right blend from one color to another.
func Gradient(dst Image, r image.Rectangle, from, to color.Color) {
	r = r.Intersect(dst.Bounds())
	w := r.Dx()
	if w <= 0 {
		return
	}
	fr, fg, fb, _ := from.RGBA()
	tr, tg, tb, _ := to.RGBA()
	for x := r.Min.X; x < r.Max.X; x++ {
		var (
			i = uint32(x - r.Min.X)
			n = uint32(max(w-1, 1))
			c = color.RGBA64{
				R: uint16(lerp(fr, tr, i, n)),
				G: uint16(lerp(fg, tg, i, n)),
				B: uint16(lerp(fb, tb, i, n)),
				A: 0xffff,
			}
		)
		VerticalLine(dst, x, r.Min.Y, r.Dy(), c)
	}
}

func lerp(a, b, i, n uint32) uint32 {
	return (a*(n-i) + b*i) / n
}
