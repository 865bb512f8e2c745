package conn

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/uart"
)

// Errors
var (
	ErrTimeout      = errors.New("conn: timeout waiting for reply")
	ErrDisconnected = errors.New("conn: disconnected")
)

// SerialConfig describes the serial line settings.
type SerialConfig struct {
	// Baud rate.
	Baud physic.Frequency

	// DataBits per character, 5 to 8.
	DataBits int

	Parity uart.Parity
	Stop   uart.Stop

	// ReadTimeout bounds the wait for a complete reply.
	ReadTimeout time.Duration

	// BatchSize is the largest single write, larger payloads are chunked.
	BatchSize int
}

// DefaultSerialConfig are the default configuration values (115200 8N1).
var DefaultSerialConfig = SerialConfig{
	Baud:        115200 * physic.Hertz,
	DataBits:    8,
	Parity:      uart.NoParity,
	Stop:        uart.One,
	ReadTimeout: time.Second,
	BatchSize:   4096,
}

// port is the subset of serial.Port used here.
type port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
	ResetOutputBuffer() error
}

// openPort opens a real serial port, tests replace it.
var openPort = func(name string, mode *serial.Mode) (port, error) {
	return serial.Open(name, mode)
}

// Serial is a half-duplex serial connection implementing conn.Conn.
type Serial struct {
	p         port
	name      string
	baud      physic.Frequency
	timeout   time.Duration
	batchSize int
	clock     clockwork.Clock
}

// OpenSerial opens the named serial device, e.g. /dev/ttyACM0 or COM3.
func OpenSerial(name string, config *SerialConfig) (*Serial, error) {
	if config == nil {
		config = new(SerialConfig)
		*config = DefaultSerialConfig
	}
	mode, err := config.mode()
	if err != nil {
		return nil, err
	}

	p, err := openPort(name, mode)
	if err != nil {
		return nil, fmt.Errorf("conn: open serial port %s: %w", name, err)
	}

	c := newSerial(p, name, config, clockwork.NewRealClock())
	if err = p.SetReadTimeout(c.timeout); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("conn: set read timeout: %w", err)
	}
	if err = p.ResetInputBuffer(); err != nil {
		_ = p.Close()
		return nil, err
	}
	if err = p.ResetOutputBuffer(); err != nil {
		_ = p.Close()
		return nil, err
	}

	log.Debug().Str("port", name).Stringer("baud", c.baud).Msg("serial port open")
	return c, nil
}

func newSerial(p port, name string, config *SerialConfig, clock clockwork.Clock) *Serial {
	c := &Serial{
		p:         p,
		name:      name,
		baud:      config.Baud,
		timeout:   config.ReadTimeout,
		batchSize: config.BatchSize,
		clock:     clock,
	}
	if c.baud == 0 {
		c.baud = DefaultSerialConfig.Baud
	}
	if c.timeout <= 0 {
		c.timeout = DefaultSerialConfig.ReadTimeout
	}
	if c.batchSize <= 0 {
		c.batchSize = DefaultSerialConfig.BatchSize
	}
	return c
}

func (config *SerialConfig) mode() (*serial.Mode, error) {
	mode := &serial.Mode{
		BaudRate: int(config.Baud / physic.Hertz),
		DataBits: config.DataBits,
	}
	if mode.BaudRate == 0 {
		mode.BaudRate = int(DefaultSerialConfig.Baud / physic.Hertz)
	}
	if mode.DataBits == 0 {
		mode.DataBits = DefaultSerialConfig.DataBits
	}

	switch config.Parity {
	case uart.NoParity, 0:
		mode.Parity = serial.NoParity
	case uart.Odd:
		mode.Parity = serial.OddParity
	case uart.Even:
		mode.Parity = serial.EvenParity
	case uart.Mark:
		mode.Parity = serial.MarkParity
	case uart.Space:
		mode.Parity = serial.SpaceParity
	default:
		return nil, fmt.Errorf("conn: unsupported parity %q", config.Parity)
	}

	switch config.Stop {
	case uart.One, 0:
		mode.StopBits = serial.OneStopBit
	case uart.OneHalf:
		mode.StopBits = serial.OnePointFiveStopBits
	case uart.Two:
		mode.StopBits = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("conn: unsupported stop bits %d", config.Stop)
	}
	return mode, nil
}

func (c *Serial) String() string {
	return fmt.Sprintf("serial %s at %s", c.name, c.baud)
}

// Duplex implements conn.Conn.
func (c *Serial) Duplex() conn.Duplex {
	return conn.Half
}

// Close the port.
func (c *Serial) Close() error {
	return c.p.Close()
}

// Tx writes w and then, if r is not empty, reads exactly len(r) reply bytes.
func (c *Serial) Tx(w, r []byte) error {
	if err := c.writeChunked(w); err != nil {
		return err
	}
	if len(r) == 0 {
		return nil
	}
	return c.readFull(r)
}

func (c *Serial) writeChunked(data []byte) error {
	if len(data) > c.batchSize {
		log.Debug().Msgf("write %d bytes of data in %d chunks", len(data), (len(data)+c.batchSize-1)/c.batchSize)
	}
	for len(data) > 0 {
		n := len(data)
		if n > c.batchSize {
			n = c.batchSize
		}
		if _, err := c.p.Write(data[:n]); err != nil {
			return classify(err)
		}
		data = data[n:]
	}
	return nil
}

// readFull keeps reading until r is full or the reply deadline passes. The port returns
// (0, nil) when its own read timeout expires.
func (c *Serial) readFull(r []byte) error {
	deadline := c.clock.Now().Add(c.timeout)
	var got int
	for got < len(r) {
		n, err := c.p.Read(r[got:])
		got += n
		if err != nil {
			return classify(err)
		}
		if got < len(r) && !c.clock.Now().Before(deadline) {
			return fmt.Errorf("%w: got %d of %d bytes after %s", ErrTimeout, got, len(r), c.timeout)
		}
	}
	log.Debug().Int("bytes", got).Msg("reply")
	return nil
}

func classify(err error) error {
	var portErr *serial.PortError
	if errors.Is(err, io.EOF) || (errors.As(err, &portErr) && portErr.Code() == serial.PortClosed) {
		return fmt.Errorf("%w: %v", ErrDisconnected, err)
	}
	return err
}

// Interface checks.
var _ conn.Conn = (*Serial)(nil)
