// Package imagefile decodes image files into RGB pixel data.
package imagefile

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/BeatGlow/smartscreen/draw"
	"github.com/BeatGlow/smartscreen/pixel"
)

// ErrDecode is returned for unreadable or undecodable files.
var ErrDecode = errors.New("imagefile: decode failed")

// Image is decoded pixel data, 3 bytes (R, G, B) per pixel in row-major order.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// Load decodes the file at path. PNG, JPEG, GIF, BMP, TIFF and WebP are supported.
func Load(fsys afero.Fs, path string) (*Image, error) {
	src, err := decode(fsys, path)
	if err != nil {
		return nil, err
	}
	return convert(src, src.Bounds().Size())
}

// LoadFit decodes the file at path and scales it down, keeping the aspect ratio, until it
// fits in width×height. Smaller images are not enlarged.
func LoadFit(fsys afero.Fs, path string, width, height int) (*Image, error) {
	src, err := decode(fsys, path)
	if err != nil {
		return nil, err
	}
	size := fit(src.Bounds().Size(), image.Pt(width, height))
	if size == src.Bounds().Size() {
		return convert(src, size)
	}

	log.Debug().Str("path", path).Stringer("from", src.Bounds().Size()).Stringer("to", size).Msg("scale image")
	dst := image.NewRGBA(image.Rectangle{Max: size})
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return convert(dst, size)
}

func decode(fsys afero.Fs, path string) (image.Image, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer func() { _ = f.Close() }()

	src, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	log.Debug().Str("path", path).Str("format", format).Stringer("size", src.Bounds().Size()).Msg("decoded image")
	return src, nil
}

// convert draws src into an RGB framebuffer of the given size.
func convert(src image.Image, size image.Point) (*Image, error) {
	buf, err := pixel.NewFramebuffer(size.X, size.Y)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	draw.Draw(buf, buf.Bounds(), src, src.Bounds().Min, draw.Src)
	return &Image{Width: size.X, Height: size.Y, Pix: buf.Pix}, nil
}

func fit(size, limit image.Point) image.Point {
	if limit.X <= 0 || limit.Y <= 0 || (size.X <= limit.X && size.Y <= limit.Y) {
		return size
	}
	// Scale by the tighter of both ratios.
	if size.X*limit.Y > size.Y*limit.X {
		return image.Pt(limit.X, max(size.Y*limit.X/size.X, 1))
	}
	return image.Pt(max(size.X*limit.Y/size.Y, 1), limit.Y)
}
