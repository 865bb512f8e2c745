// Package smartscreen contains drivers for USB attached "smart screen" panels.
//
// The panels are driven over a serial link and every hardware revision (A, B0, B1, C)
// speaks its own command dialect. Use [Open] to connect to a panel, the revision B dialect
// is detected from the panel itself.
package smartscreen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BeatGlow/smartscreen/conn"
	"github.com/BeatGlow/smartscreen/pixel"
)

// Errors
var (
	ErrPortUnavailable     = errors.New("smartscreen: port unavailable")
	ErrUnsupportedRevision = errors.New("smartscreen: unsupported revision")
	ErrUnsupported         = errors.New("smartscreen: command not supported by this revision")
	ErrUnexpectedReply     = errors.New("smartscreen: unexpected reply")
	ErrEmptyBuffer         = errors.New("smartscreen: empty buffer")
	ErrBufferTooLarge      = errors.New("smartscreen: buffer exceeds panel bounds")
	ErrDeviceClosed        = errors.New("smartscreen: device closed")

	ErrInvalidDimension = pixel.ErrInvalidDimension
	ErrOutOfBounds      = pixel.ErrOutOfBounds
	ErrSizeMismatch     = pixel.ErrSizeMismatch
)

// Revision is a hardware generation with its own wire protocol.
type Revision uint8

// Revisions. RevB is only valid as a request to Open, the driver reports RevB0 or RevB1.
const (
	RevUnknown Revision = iota
	RevA
	RevB
	RevB0
	RevB1
	RevC
)

func (r Revision) String() string {
	switch r {
	case RevA:
		return "A"
	case RevB:
		return "B"
	case RevB0:
		return "B0"
	case RevB1:
		return "B1"
	case RevC:
		return "C"
	default:
		return fmt.Sprintf("Revision(%d)", uint8(r))
	}
}

// ParseRevision parses a revision request: "a", "b" or "c".
func ParseRevision(s string) (Revision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a":
		return RevA, nil
	case "b":
		return RevB, nil
	case "c":
		return RevC, nil
	default:
		return RevUnknown, fmt.Errorf("%w: %q", ErrUnsupportedRevision, s)
	}
}

// Orientation of the panel.
type Orientation uint8

// Supported orientations.
const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// ParseOrientation accepts "p", "portrait", "l" and "landscape".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "p", "portrait":
		return Portrait, nil
	case "l", "landscape":
		return Landscape, nil
	default:
		return Portrait, fmt.Errorf("smartscreen: invalid orientation %q", s)
	}
}

// Screen is a smart screen panel.
type Screen interface {
	String() string

	// Revision is the resolved protocol dialect (A, B0, B1 or C).
	Revision() Revision

	// Width of the panel in pixels.
	Width() int

	// Height of the panel in pixels.
	Height() int

	// Orientation last set on the panel.
	Orientation() Orientation

	// Reset reboots the panel. The panel may drop the line while doing so, which is
	// reported as a Disconnected transport error.
	Reset() error

	// Clear the panel.
	Clear() error

	// ScreenOn turns the backlight on.
	ScreenOn() error

	// ScreenOff turns the backlight off.
	ScreenOff() error

	// SetBrightness adjusts the backlight, 0 is darkest and 255 brightest.
	SetBrightness(level uint8) error

	// SetOrientation changes the scan orientation.
	SetOrientation(Orientation) error

	// WriteRaw sends a bare command byte in the revision's framing.
	WriteRaw(command byte) error

	// CreateBuffer allocates a framebuffer for this panel.
	CreateBuffer(width, height int) (*pixel.Framebuffer, error)

	// DisplayBuffer blits buf at (0, 0).
	DisplayBuffer(buf *pixel.Framebuffer) error

	// DisplayBufferAt blits buf with its top left corner at (x, y).
	DisplayBufferAt(x, y int, buf *pixel.Framebuffer) error

	// Close the panel and its transport. Closing twice is a no-op.
	Close() error
}

// LEDSetter is implemented by screens with a status LED (revision B).
type LEDSetter interface {
	SetLED(r, g, b uint8) error
}

// Config is the screen configuration.
type Config struct {
	// Width of the panel in pixels, 0 selects the revision default.
	Width int

	// Height of the panel in pixels, 0 selects the revision default.
	Height int

	// Serial line settings, nil uses conn.DefaultSerialConfig.
	Serial *conn.SerialConfig

	// Open the transport, nil opens a serial port.
	Open func(name string, config *conn.SerialConfig) (Transport, error)
}

func (config *Config) size(defaultWidth, defaultHeight int) (width, height int, err error) {
	width, height = defaultWidth, defaultHeight
	if config == nil {
		return
	}
	if config.Width < 0 || config.Height < 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, config.Width, config.Height)
	}
	if config.Width > 0 {
		width = config.Width
	}
	if config.Height > 0 {
		height = config.Height
	}
	return
}
