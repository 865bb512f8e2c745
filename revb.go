package smartscreen

import (
	"encoding/binary"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/BeatGlow/smartscreen/pixel"
)

const (
	revBDefaultWidth  = 320
	revBDefaultHeight = 480
)

// Commands
const (
	revBHello          = 0xCA
	revBSetOrientation = 0xCB
	revBDisplayBitmap  = 0xCC
	revBSetLighting    = 0xCD // Status LED, B1 only
	revBSetBrightness  = 0xCE
)

const (
	revBFrameSize    = 10
	revBFlagshipMask = 0x10
	revBVersionIndex = 6
)

// revBCommand frames up to 8 parameter bytes between two copies of the command byte.
func revBCommand(command byte, params ...byte) []byte {
	data := make([]byte, revBFrameSize)
	data[0] = command
	copy(data[1:revBFrameSize-1], params)
	data[revBFrameSize-1] = command
	return data
}

// parseRevBHello returns the version byte of a hello reply.
func parseRevBHello(reply []byte) (byte, error) {
	if len(reply) != revBFrameSize || reply[0] != revBHello || reply[revBFrameSize-1] != revBHello {
		return 0, fmt.Errorf("%w: hello answered with % x", ErrUnexpectedReply, reply)
	}
	return reply[revBVersionIndex], nil
}

type revBEncoder struct {
	version  byte
	flagship bool // B1: full range brightness and status LED
}

func (e *revBEncoder) single(command byte, params ...byte) ([]frame, error) {
	return []frame{{data: revBCommand(command, params...)}}, nil
}

func (e *revBEncoder) hello() []frame {
	return []frame{{data: revBCommand(revBHello, 'H', 'E', 'L', 'L', 'O'), reply: revBFrameSize}}
}

func (e *revBEncoder) reset() ([]frame, error) { return nil, ErrUnsupported }
func (e *revBEncoder) clear() ([]frame, error) { return nil, ErrUnsupported }

func (e *revBEncoder) setBrightness(level uint8) ([]frame, error) {
	if e.flagship {
		return e.single(revBSetBrightness, level)
	}
	// B0 only switches the backlight: 1 is off, 0 is on.
	if level == 0 {
		return e.single(revBSetBrightness, 1)
	}
	return e.single(revBSetBrightness, 0)
}

func (e *revBEncoder) screenOn() ([]frame, error) {
	if e.flagship {
		return e.single(revBSetBrightness, 255)
	}
	return e.single(revBSetBrightness, 0)
}

func (e *revBEncoder) screenOff() ([]frame, error) {
	if e.flagship {
		return e.single(revBSetBrightness, 0)
	}
	return e.single(revBSetBrightness, 1)
}

func (e *revBEncoder) setOrientation(o Orientation) ([]frame, error) {
	if o == Landscape {
		return e.single(revBSetOrientation, 1)
	}
	return e.single(revBSetOrientation, 0)
}

func (e *revBEncoder) setLED(r, g, b uint8) ([]frame, error) {
	if !e.flagship {
		return nil, ErrUnsupported
	}
	return e.single(revBSetLighting, r, g, b)
}

func (e *revBEncoder) raw(command byte) ([]frame, error) {
	return e.single(command)
}

// blit sends a header frame followed by the pixels as big endian RGB565.
func (e *revBEncoder) blit(x, y int, buf *pixel.Framebuffer) ([]frame, error) {
	w, h := buf.Width(), buf.Height()
	ex, ey := x+w-1, y+h-1
	header := revBCommand(revBDisplayBitmap,
		byte(x>>8), byte(x),
		byte(y>>8), byte(y),
		byte(ex>>8), byte(ex),
		byte(ey>>8), byte(ey))

	payload := make([]byte, w*h*2)
	for r, i := 0, 0; r < h; r++ {
		row := buf.Row(r, 0, w)
		for j := 0; j+2 < len(row); j += pixel.BytesPerPixel {
			binary.BigEndian.PutUint16(payload[i:], pixel.ToCRGB16(row[j], row[j+1], row[j+2]).V)
			i += 2
		}
	}
	return []frame{{data: header}, {data: payload}}, nil
}

type revB struct {
	baseScreen
	enc *revBEncoder
}

// RevisionB is the 3.5" 320x480 panel with the 10 byte command frame. The panel is
// queried with a hello, the version byte selects the B0 or B1 dialect.
func RevisionB(t Transport, config *Config) (Screen, error) {
	width, height, err := config.size(revBDefaultWidth, revBDefaultHeight)
	if err != nil {
		return nil, err
	}
	if width > 0xffff || height > 0xffff {
		return nil, fmt.Errorf("%w: %dx%d exceeds the 16 bit coordinate range", ErrInvalidDimension, width, height)
	}

	enc := new(revBEncoder)
	d := &revB{enc: enc}
	d.init(t, enc, RevB, width, height, Portrait)

	reply, err := d.tx("hello", enc.hello()[0])
	if err != nil {
		return nil, err
	}
	if enc.version, err = parseRevBHello(reply); err != nil {
		return nil, err
	}
	enc.flagship = enc.version&revBFlagshipMask != 0

	d.revision = RevB0
	if enc.flagship {
		d.revision = RevB1
	}
	log.Debug().Hex("version", []byte{enc.version}).Stringer("revision", d.revision).Msg("detected panel")
	return d, nil
}

// SetLED sets the status LED color, only B1 panels have one.
func (d *revB) SetLED(r, g, b uint8) error {
	return d.do("set led", func() ([]frame, error) {
		return d.enc.setLED(r, g, b)
	})
}

// Interface checks.
var _ LEDSetter = (*revB)(nil)
