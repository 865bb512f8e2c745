package conn

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/uart"
)

type fakePort struct {
	writes  [][]byte
	replies [][]byte // one entry per Read call, nil simulates an expired port timeout
	readErr error
	clock   *clockwork.FakeClock
	timeout time.Duration
	closed  bool
	reset   int
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.writes = append(p.writes, bytes.Clone(b))
	return len(b), nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	if p.readErr != nil {
		return 0, p.readErr
	}
	if len(p.replies) == 0 || p.replies[0] == nil {
		if len(p.replies) > 0 {
			p.replies = p.replies[1:]
		}
		p.clock.Advance(p.timeout / 2)
		return 0, nil
	}
	n := copy(b, p.replies[0])
	p.replies = p.replies[1:]
	return n, nil
}

func (p *fakePort) Close() error                         { p.closed = true; return nil }
func (p *fakePort) SetReadTimeout(t time.Duration) error { p.timeout = t; return nil }
func (p *fakePort) ResetInputBuffer() error              { p.reset++; return nil }
func (p *fakePort) ResetOutputBuffer() error             { p.reset++; return nil }

func newTestSerial(p *fakePort, batchSize int) *Serial {
	config := DefaultSerialConfig
	config.BatchSize = batchSize
	config.ReadTimeout = 100 * time.Millisecond
	p.clock = clockwork.NewFakeClock()
	p.timeout = config.ReadTimeout
	return newSerial(p, "/dev/ttyTEST", &config, p.clock)
}

func TestSerialTxChunked(t *testing.T) {
	p := &fakePort{}
	c := newTestSerial(p, 4)

	require.NoError(t, c.Tx([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, nil))
	assert.Equal(t, [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10}}, p.writes)
}

func TestSerialTxReply(t *testing.T) {
	p := &fakePort{replies: [][]byte{{0xca, 1, 2}, nil, {3, 4, 5, 6, 7, 8, 0xca}}}
	c := newTestSerial(p, 4096)

	r := make([]byte, 10)
	require.NoError(t, c.Tx([]byte{0xca}, r))
	assert.Equal(t, []byte{0xca, 1, 2, 3, 4, 5, 6, 7, 8, 0xca}, r)
}

func TestSerialTxTimeout(t *testing.T) {
	p := &fakePort{replies: [][]byte{{1, 2}}}
	c := newTestSerial(p, 4096)

	err := c.Tx([]byte{0xca}, make([]byte, 10))
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestSerialTxDisconnected(t *testing.T) {
	p := &fakePort{readErr: io.EOF}
	c := newTestSerial(p, 4096)

	err := c.Tx([]byte{1}, make([]byte, 1))
	assert.ErrorIs(t, err, ErrDisconnected)
}

func TestSerialDuplex(t *testing.T) {
	c := newTestSerial(&fakePort{}, 0)
	assert.Equal(t, conn.Half, c.Duplex())
	assert.Equal(t, DefaultSerialConfig.BatchSize, c.batchSize)
	assert.Contains(t, c.String(), "/dev/ttyTEST")
}

func TestOpenSerial(t *testing.T) {
	p := &fakePort{}
	var gotMode *serial.Mode
	restore := openPort
	defer func() { openPort = restore }()
	openPort = func(name string, mode *serial.Mode) (port, error) {
		gotMode = mode
		return p, nil
	}

	c, err := OpenSerial("/dev/ttyACM0", &SerialConfig{
		Baud:        9600 * physic.Hertz,
		Parity:      uart.Even,
		Stop:        uart.Two,
		ReadTimeout: 250 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, &serial.Mode{BaudRate: 9600, DataBits: 8, Parity: serial.EvenParity, StopBits: serial.TwoStopBits}, gotMode)
	assert.Equal(t, 250*time.Millisecond, p.timeout)
	assert.Equal(t, 2, p.reset)

	require.NoError(t, c.Close())
	assert.True(t, p.closed)
}

func TestOpenSerialError(t *testing.T) {
	restore := openPort
	defer func() { openPort = restore }()
	openPort = func(string, *serial.Mode) (port, error) {
		return nil, errors.New("no such device")
	}

	_, err := OpenSerial("/dev/nope", nil)
	assert.ErrorContains(t, err, "no such device")
}

func TestOpenSerialInvalidParity(t *testing.T) {
	_, err := OpenSerial("/dev/ttyACM0", &SerialConfig{Parity: 'X'})
	assert.ErrorContains(t, err, "unsupported parity")
}
