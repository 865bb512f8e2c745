package smartscreen

import (
	"bytes"
	"fmt"

	"github.com/BeatGlow/smartscreen/pixel"
)

const (
	revADefaultWidth  = 320
	revADefaultHeight = 480
)

// Commands
const (
	revAReset          = 101 // Reboot, the panel drops off the bus
	revAClear          = 102 // Fill with white
	revAScreenOff      = 108
	revAScreenOn       = 109
	revASetBrightness  = 110 // Level in x, inverted: 0 is brightest
	revASetOrientation = 121
	revADisplayBitmap  = 197
	revAHello          = 0x45
)

// Orientation codes, sent as code + 100.
const (
	revAPortrait  = 0
	revALandscape = 2
)

const (
	revACommandSize     = 6
	revAOrientationSize = 16
)

// revACommand packs the coordinates as four 10 bit values ahead of the command byte.
func revACommand(command byte, x, y, ex, ey int) []byte {
	return []byte{
		byte(x >> 2),
		byte((x&3)<<6 | y>>4),
		byte((y&15)<<4 | ex>>6),
		byte((ex&63)<<2 | ey>>8),
		byte(ey),
		command,
	}
}

type revAEncoder struct {
	width  int
	height int
}

func (e *revAEncoder) single(command byte) ([]frame, error) {
	return []frame{{data: revACommand(command, 0, 0, 0, 0)}}, nil
}

func (e *revAEncoder) hello() []frame {
	return []frame{{data: bytes.Repeat([]byte{revAHello}, revACommandSize), reply: revACommandSize}}
}

func (e *revAEncoder) reset() ([]frame, error)     { return e.single(revAReset) }
func (e *revAEncoder) clear() ([]frame, error)     { return e.single(revAClear) }
func (e *revAEncoder) screenOn() ([]frame, error)  { return e.single(revAScreenOn) }
func (e *revAEncoder) screenOff() ([]frame, error) { return e.single(revAScreenOff) }
func (e *revAEncoder) raw(b byte) ([]frame, error) { return e.single(b) }

func (e *revAEncoder) setBrightness(level uint8) ([]frame, error) {
	return []frame{{data: revACommand(revASetBrightness, 255-int(level), 0, 0, 0)}}, nil
}

func (e *revAEncoder) setOrientation(o Orientation) ([]frame, error) {
	var (
		code          = revAPortrait
		width, height = e.width, e.height
	)
	if o == Landscape {
		code = revALandscape
		width, height = height, width
	}

	data := make([]byte, revAOrientationSize)
	copy(data, revACommand(revASetOrientation, 0, 0, 0, 0))
	data[6] = byte(code + 100)
	data[7] = byte(width >> 8)
	data[8] = byte(width)
	data[9] = byte(height >> 8)
	data[10] = byte(height)
	return []frame{{data: data}}, nil
}

// blit sends the header and the RGB payload as one write.
func (e *revAEncoder) blit(x, y int, buf *pixel.Framebuffer) ([]frame, error) {
	w, h := buf.Width(), buf.Height()
	header := revACommand(revADisplayBitmap, x, y, x+w-1, y+h-1)

	data := make([]byte, 0, len(header)+buf.ByteLength())
	data = append(data, header...)
	for r := 0; r < h; r++ {
		data = append(data, buf.Row(r, 0, w)...)
	}
	return []frame{{data: data}}, nil
}

type revA struct {
	baseScreen
}

// RevisionA is the 3.5" 320x480 panel with the packed 6 byte command frame.
func RevisionA(t Transport, config *Config) (Screen, error) {
	width, height, err := config.size(revADefaultWidth, revADefaultHeight)
	if err != nil {
		return nil, err
	}
	if width > 1023 || height > 1023 {
		return nil, fmt.Errorf("%w: %dx%d exceeds the 10 bit coordinate range", ErrInvalidDimension, width, height)
	}

	d := new(revA)
	d.init(t, &revAEncoder{width: width, height: height}, RevA, width, height, Portrait)
	return d, nil
}
