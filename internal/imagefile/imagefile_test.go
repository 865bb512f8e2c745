package imagefile

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{R: 0xff, A: 0xff})
	img.Set(1, 0, color.NRGBA{G: 0xff, A: 0xff})
	img.Set(2, 0, color.NRGBA{B: 0xff, A: 0xff})
	img.Set(0, 1, color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff})
	img.Set(1, 1, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	img.Set(2, 1, color.NRGBA{A: 0xff})
	return img
}

var testPix = []byte{
	0xff, 0x00, 0x00, 0x00, 0xff, 0x00, 0x00, 0x00, 0xff,
	0x12, 0x34, 0x56, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00,
}

func writeImage(t *testing.T, fsys afero.Fs, path string, encode func(io.Writer, image.Image) error) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, encode(&buf, testImage()))
	require.NoError(t, afero.WriteFile(fsys, path, buf.Bytes(), 0o644))
}

func TestLoad(t *testing.T) {
	tests := []struct {
		Name   string
		Encode func(io.Writer, image.Image) error
	}{
		{"png", png.Encode},
		{"bmp", bmp.Encode},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			fsys := afero.NewMemMapFs()
			writeImage(it, fsys, "/img."+test.Name, test.Encode)

			img, err := Load(fsys, "/img."+test.Name)
			require.NoError(it, err)
			assert.Equal(it, 3, img.Width)
			assert.Equal(it, 2, img.Height)
			assert.Equal(it, testPix, img.Pix)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/junk.png", []byte("not an image"), 0o644))

	_, err := Load(fsys, "/junk.png")
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Load(fsys, "/missing.png")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestLoadFit(t *testing.T) {
	fsys := afero.NewMemMapFs()
	big := image.NewNRGBA(image.Rect(0, 0, 100, 50))
	for i := 3; i < len(big.Pix); i += 4 {
		big.Pix[i-3], big.Pix[i] = 0x80, 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, big))
	require.NoError(t, afero.WriteFile(fsys, "/big.png", buf.Bytes(), 0o644))

	img, err := LoadFit(fsys, "/big.png", 40, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Width)
	assert.Equal(t, 20, img.Height)
	assert.Len(t, img.Pix, 40*20*3)
	assert.InDelta(t, 0x80, int(img.Pix[0]), 1)
	assert.Equal(t, []byte{0, 0}, img.Pix[1:3])

	img, err = LoadFit(fsys, "/big.png", 800, 480)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Width, "not enlarged")
}

func TestFit(t *testing.T) {
	tests := []struct {
		Size, Limit, Want image.Point
	}{
		{image.Pt(10, 10), image.Pt(20, 20), image.Pt(10, 10)},
		{image.Pt(640, 480), image.Pt(320, 480), image.Pt(320, 240)},
		{image.Pt(480, 960), image.Pt(320, 480), image.Pt(240, 480)},
		{image.Pt(1000, 1), image.Pt(10, 10), image.Pt(10, 1)},
		{image.Pt(50, 50), image.Pt(0, 0), image.Pt(50, 50)},
	}
	for _, test := range tests {
		assert.Equal(t, test.Want, fit(test.Size, test.Limit), "%s in %s", test.Size, test.Limit)
	}
}
