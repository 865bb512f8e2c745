package smartscreen

import (
	"errors"
	"fmt"
	"io"

	"periph.io/x/conn/v3"

	smartconn "github.com/BeatGlow/smartscreen/conn"
)

// Transport is the byte channel to a panel.
//
// Tx writes w and, if r is not empty, reads back exactly len(r) bytes within the
// transport's read timeout. A transport is not safe for concurrent use.
type Transport interface {
	conn.Conn
	io.Closer
}

// ErrTransport matches every *TransportError.
var ErrTransport = errors.New("smartscreen: transport error")

// TransportErrorKind classifies transport failures.
type TransportErrorKind uint8

// Transport error kinds.
const (
	IO TransportErrorKind = iota
	Timeout
	Disconnected
)

func (k TransportErrorKind) String() string {
	switch k {
	case Timeout:
		return "timeout"
	case Disconnected:
		return "disconnected"
	default:
		return "i/o"
	}
}

// TransportError is an I/O failure while executing a command.
type TransportError struct {
	Op   string
	Kind TransportErrorKind
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("smartscreen: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// IsDisconnected reports if err is a transport disconnect, as happens when a panel reboots.
func IsDisconnected(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Kind == Disconnected
}

func transportError(op string, err error) error {
	kind := IO
	switch {
	case errors.Is(err, smartconn.ErrTimeout):
		kind = Timeout
	case errors.Is(err, smartconn.ErrDisconnected), errors.Is(err, io.EOF), errors.Is(err, io.ErrClosedPipe):
		kind = Disconnected
	}
	return &TransportError{Op: op, Kind: kind, Err: err}
}

func openSerial(name string, config *smartconn.SerialConfig) (Transport, error) {
	c, err := smartconn.OpenSerial(name, config)
	if err != nil {
		return nil, err
	}
	return c, nil
}
