package smartscreen

import (
	"bytes"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/BeatGlow/smartscreen/pixel"
)

const (
	revCDefaultWidth  = 800
	revCDefaultHeight = 480
)

// Commands
const (
	revCHello         = 0x01
	revCSetBrightness = 0x7B
	revCScreenPower   = 0x83 // Argument 1 is off, 0 is on
	revCReset         = 0x84
	revCUpdateBitmap  = 0xCC
)

const (
	revCFrameAlign     = 250 // Every write is padded to a multiple of this
	revCHeaderSize     = 11
	revCMaxFrameData   = 4000 - revCHeaderSize
	revCHelloReplySize = 23
	revCAckSize        = 3
	revCRowHeaderSize  = 5
)

var (
	revCMagic       = []byte{0xEF, 0x69, 0x00, 0x00, 0x00}
	revCHelloArgs   = []byte{0x01, 0x00, 0x00, 0x00, 0xC5, 0xD3}
	revCHelloPrefix = []byte("chs_")
)

func revCPad(data []byte) []byte {
	if n := len(data) % revCFrameAlign; n != 0 {
		data = append(data, make([]byte, revCFrameAlign-n)...)
	}
	return data
}

func revCCommand(op byte, args ...byte) []byte {
	data := make([]byte, 0, revCFrameAlign)
	data = append(data, op)
	data = append(data, revCMagic...)
	data = append(data, args...)
	return revCPad(data)
}

// parseRevCHello returns the panel identification, like "chs_5inch.dev1_rom1.88".
func parseRevCHello(reply []byte) (string, error) {
	if !bytes.HasPrefix(reply, revCHelloPrefix) {
		return "", fmt.Errorf("%w: hello answered with % x", ErrUnexpectedReply, reply)
	}
	return string(bytes.TrimRight(reply, "\x00")), nil
}

type revCEncoder struct {
	width  int
	height int
}

func (e *revCEncoder) single(op byte, args ...byte) ([]frame, error) {
	return []frame{{data: revCCommand(op, args...)}}, nil
}

func (e *revCEncoder) hello() []frame {
	return []frame{{data: revCCommand(revCHello, revCHelloArgs...), reply: revCHelloReplySize}}
}

func (e *revCEncoder) reset() ([]frame, error)     { return e.single(revCReset, 0x01) }
func (e *revCEncoder) screenOn() ([]frame, error)  { return e.single(revCScreenPower, 0x00) }
func (e *revCEncoder) screenOff() ([]frame, error) { return e.single(revCScreenPower, 0x01) }
func (e *revCEncoder) raw(op byte) ([]frame, error) {
	return e.single(op, 0x01)
}

func (e *revCEncoder) setBrightness(level uint8) ([]frame, error) {
	return e.single(revCSetBrightness, 0x01, 0x00, 0x00, 0x00, level)
}

// setOrientation is a no-op, the panel only scans landscape.
func (e *revCEncoder) setOrientation(Orientation) ([]frame, error) {
	return nil, nil
}

// clear has no command of its own, it blits a black canvas.
func (e *revCEncoder) clear() ([]frame, error) {
	buf, err := pixel.NewFramebuffer(e.width, e.height)
	if err != nil {
		return nil, err
	}
	return e.blit(0, 0, buf)
}

// blit addresses every row by its linear canvas offset and sends BGR pixels, split over
// acknowledged frames of at most revCMaxFrameData bytes.
func (e *revCEncoder) blit(x, y int, buf *pixel.Framebuffer) ([]frame, error) {
	w, h := buf.Width(), buf.Height()

	payload := make([]byte, 0, h*(revCRowHeaderSize+w*pixel.BytesPerPixel))
	for r := 0; r < h; r++ {
		offset := (y+r)*e.width + x
		payload = append(payload,
			byte(offset>>16), byte(offset>>8), byte(offset),
			byte(w>>8), byte(w))
		row := buf.Row(r, 0, w)
		for i := 0; i+2 < len(row); i += pixel.BytesPerPixel {
			payload = append(payload, row[i+2], row[i+1], row[i])
		}
	}

	count := (len(payload) + revCMaxFrameData - 1) / revCMaxFrameData
	frames := make([]frame, 0, count)
	for index := 0; index < count; index++ {
		chunk := payload[index*revCMaxFrameData : min((index+1)*revCMaxFrameData, len(payload))]
		n := len(chunk)

		data := make([]byte, 0, revCHeaderSize+n)
		data = append(data, revCUpdateBitmap, 0xEF, 0x69, 0x00,
			byte(n>>16), byte(n>>8), byte(n),
			byte(index>>8), byte(index),
			byte(count>>8), byte(count))
		data = append(data, chunk...)

		frames = append(frames, frame{
			data:  revCPad(data),
			reply: revCAckSize,
			ack:   []byte{revCUpdateBitmap, byte(index >> 8), byte(index)},
		})
	}
	return frames, nil
}

type revC struct {
	baseScreen
	ident string
}

// RevisionC is the 5" 800x480 panel with 250 byte aligned frames and acknowledged bitmap
// updates. The panel must answer the hello with its identification.
func RevisionC(t Transport, config *Config) (Screen, error) {
	width, height, err := config.size(revCDefaultWidth, revCDefaultHeight)
	if err != nil {
		return nil, err
	}
	if width > 0xffff || height > 0xffff {
		return nil, fmt.Errorf("%w: %dx%d exceeds the 16 bit row width", ErrInvalidDimension, width, height)
	}
	if width*height > 1<<24 {
		return nil, fmt.Errorf("%w: %dx%d exceeds the 24 bit offset range", ErrInvalidDimension, width, height)
	}

	enc := &revCEncoder{width: width, height: height}
	d := new(revC)
	d.init(t, enc, RevC, width, height, Landscape)

	reply, err := d.tx("hello", enc.hello()[0])
	if err != nil {
		return nil, err
	}
	if d.ident, err = parseRevCHello(reply); err != nil {
		return nil, err
	}
	log.Debug().Str("ident", d.ident).Msg("detected panel")
	return d, nil
}

func (d *revC) String() string {
	return fmt.Sprintf("%s (%s)", d.baseScreen.String(), d.ident)
}
