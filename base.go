package smartscreen

import (
	"bytes"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/BeatGlow/smartscreen/internal/syncutil"
	"github.com/BeatGlow/smartscreen/pixel"
)

// frame is one write to the panel, optionally followed by a fixed size reply.
type frame struct {
	data  []byte
	reply int    // reply length, 0 if the panel does not answer
	ack   []byte // expected reply, nil accepts anything
}

// encoder translates screen operations to frames in a revision's dialect. Encoders are pure:
// they never touch the transport.
type encoder interface {
	hello() []frame
	reset() ([]frame, error)
	clear() ([]frame, error)
	screenOn() ([]frame, error)
	screenOff() ([]frame, error)
	setBrightness(level uint8) ([]frame, error)
	setOrientation(o Orientation) ([]frame, error)
	blit(x, y int, buf *pixel.Framebuffer) ([]frame, error)
	raw(command byte) ([]frame, error)
}

type baseScreen struct {
	mu          syncutil.Mutex
	closed      atomic.Bool
	t           Transport
	enc         encoder
	revision    Revision
	width       int
	height      int
	orientation Orientation
}

func (s *baseScreen) init(t Transport, enc encoder, revision Revision, width, height int, o Orientation) {
	s.t = t
	s.enc = enc
	s.revision = revision
	s.width = width
	s.height = height
	s.orientation = o
}

func (s *baseScreen) String() string {
	return fmt.Sprintf("smart screen revision %s %dx%d on %s", s.revision, s.width, s.height, s.t)
}

func (s *baseScreen) Revision() Revision { return s.revision }
func (s *baseScreen) Width() int         { return s.width }
func (s *baseScreen) Height() int        { return s.height }

func (s *baseScreen) Orientation() Orientation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orientation
}

func (s *baseScreen) Reset() error {
	return s.do("reset", s.enc.reset)
}

func (s *baseScreen) Clear() error {
	return s.do("clear", s.enc.clear)
}

func (s *baseScreen) ScreenOn() error {
	return s.do("screen on", s.enc.screenOn)
}

func (s *baseScreen) ScreenOff() error {
	return s.do("screen off", s.enc.screenOff)
}

func (s *baseScreen) SetBrightness(level uint8) error {
	return s.do("set brightness", func() ([]frame, error) {
		return s.enc.setBrightness(level)
	})
}

func (s *baseScreen) SetOrientation(o Orientation) error {
	if o != Portrait && o != Landscape {
		return fmt.Errorf("smartscreen: invalid orientation %d", o)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return ErrDeviceClosed
	}
	frames, err := s.enc.setOrientation(o)
	if err != nil {
		return s.encodeError("set orientation", err)
	}
	if err = s.send("set orientation", frames); err != nil {
		return err
	}
	s.orientation = o
	return nil
}

func (s *baseScreen) WriteRaw(command byte) error {
	return s.do("write raw", func() ([]frame, error) {
		return s.enc.raw(command)
	})
}

func (s *baseScreen) CreateBuffer(width, height int) (*pixel.Framebuffer, error) {
	return pixel.NewFramebuffer(width, height)
}

func (s *baseScreen) DisplayBuffer(buf *pixel.Framebuffer) error {
	return s.DisplayBufferAt(0, 0, buf)
}

func (s *baseScreen) DisplayBufferAt(x, y int, buf *pixel.Framebuffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return ErrDeviceClosed
	}
	if buf == nil || buf.IsEmpty() {
		return ErrEmptyBuffer
	}
	if x < 0 || y < 0 {
		return fmt.Errorf("%w: offset (%d,%d)", ErrOutOfBounds, x, y)
	}
	if buf.Width() > s.width-x || buf.Height() > s.height-y {
		return fmt.Errorf("%w: %dx%d at (%d,%d) on %dx%d panel",
			ErrBufferTooLarge, buf.Width(), buf.Height(), x, y, s.width, s.height)
	}

	frames, err := s.enc.blit(x, y, buf)
	if err != nil {
		return s.encodeError("display buffer", err)
	}
	return s.send("display buffer", frames)
}

// Close marks the screen closed and closes the transport. It does not wait for a running
// operation, which then fails with ErrDeviceClosed.
func (s *baseScreen) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	log.Debug().Stringer("revision", s.revision).Msg("close")
	return s.t.Close()
}

func (s *baseScreen) do(op string, encode func() ([]frame, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return ErrDeviceClosed
	}
	frames, err := encode()
	if err != nil {
		return s.encodeError(op, err)
	}
	return s.send(op, frames)
}

func (s *baseScreen) encodeError(op string, err error) error {
	return fmt.Errorf("%w: %s on revision %s", err, op, s.revision)
}

// send transmits frames in order, the caller holds s.mu.
func (s *baseScreen) send(op string, frames []frame) error {
	if len(frames) > 1 {
		log.Debug().Str("op", op).Int("frames", len(frames)).Msg("send")
	}
	for _, f := range frames {
		if _, err := s.tx(op, f); err != nil {
			return err
		}
	}
	return nil
}

// tx transmits a single frame and returns its reply.
func (s *baseScreen) tx(op string, f frame) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrDeviceClosed
	}
	var r []byte
	if f.reply > 0 {
		r = make([]byte, f.reply)
	}
	if err := s.t.Tx(f.data, r); err != nil {
		if s.closed.Load() {
			return nil, ErrDeviceClosed
		}
		return nil, transportError(op, err)
	}
	if f.ack != nil && !bytes.Equal(r, f.ack) {
		return nil, &TransportError{
			Op:   op,
			Kind: IO,
			Err:  fmt.Errorf("%w: % x, expected % x", ErrUnexpectedReply, r, f.ack),
		}
	}
	return r, nil
}
