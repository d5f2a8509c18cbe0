// Package serial delivers single-byte actuation codes to a microcontroller
// over a serial link.
package serial

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	bugst "go.bug.st/serial"
)

// Port is the subset of a serial port the transport drives.
type Port interface {
	Write(p []byte) (int, error)
	SetReadTimeout(t time.Duration) error
	Close() error
}

// Opener opens a named port with the given mode.
type Opener func(name string, mode *bugst.Mode) (Port, error)

// Options holds the link parameters. The delays encode how long the board
// takes to come out of reset and to act on a byte, which varies by hardware.
type Options struct {
	BaudRate    int
	SettleDelay time.Duration // wait after open before the first write
	WriteDelay  time.Duration // wait after a write before the link may drop
	ReadTimeout time.Duration
}

// DefaultOptions matches an Arduino Uno at 9600 baud.
func DefaultOptions() Options {
	return Options{
		BaudRate:    9600,
		SettleDelay: 2 * time.Second,
		WriteDelay:  100 * time.Millisecond,
		ReadTimeout: time.Second,
	}
}

// Transport opens sessions to the actuator.
type Transport struct {
	opts   Options
	opener Opener
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithOpener replaces the port opener, typically with a fake in tests.
func WithOpener(o Opener) TransportOption {
	return func(t *Transport) {
		t.opener = o
	}
}

// NewTransport creates a transport. A zero BaudRate falls back to 9600.
func NewTransport(opts Options, options ...TransportOption) *Transport {
	if opts.BaudRate <= 0 {
		opts.BaudRate = DefaultOptions().BaudRate
	}
	t := &Transport{opts: opts, opener: openPort}
	for _, o := range options {
		o(t)
	}
	return t
}

// Options returns the link parameters in use.
func (t *Transport) Options() Options {
	return t.opts
}

func openPort(name string, mode *bugst.Mode) (Port, error) {
	p, err := bugst.Open(name, mode)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Open opens portName at 8N1 and waits out the settle delay. The returned
// session must be closed by the caller.
func (t *Transport) Open(ctx context.Context, portName string) (*Session, error) {
	mode := &bugst.Mode{
		BaudRate: t.opts.BaudRate,
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	}

	port, err := t.opener(portName, mode)
	if err != nil {
		return nil, &ConnectionError{Port: portName, Err: err}
	}

	if t.opts.ReadTimeout > 0 {
		if err := port.SetReadTimeout(t.opts.ReadTimeout); err != nil {
			_ = port.Close()
			return nil, &ConnectionError{Port: portName, Err: fmt.Errorf("set read timeout: %w", err)}
		}
	}

	// Most boards reset when the port opens; bytes sent before the
	// bootloader hands over are dropped.
	if err := sleep(ctx, t.opts.SettleDelay); err != nil {
		_ = port.Close()
		return nil, &ConnectionError{Port: portName, Err: fmt.Errorf("%w: %v", ErrTimeout, err)}
	}

	log.Debug().Str("port", portName).Int("baud", t.opts.BaudRate).Msg("Serial port opened")

	return &Session{
		port:       port,
		name:       portName,
		writeDelay: t.opts.WriteDelay,
	}, nil
}

// Probe opens and immediately closes portName.
func (t *Transport) Probe(ctx context.Context, portName string) error {
	s, err := t.Open(ctx, portName)
	if err != nil {
		return err
	}
	return s.Close()
}

// Session is one open connection to the actuator. It is not safe for
// concurrent use by more than one dispatch.
type Session struct {
	port       Port
	name       string
	writeDelay time.Duration

	mu     sync.Mutex
	closed bool
}

// Port returns the name of the port the session is bound to.
func (s *Session) Port() string {
	return s.name
}

// Send writes exactly one byte and then waits the write delay so the board
// can act on it before the link is dropped.
func (s *Session) Send(code byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return &WriteError{Port: s.name, Code: code, Err: ErrSessionClosed}
	}

	n, err := s.port.Write([]byte{code})
	if err != nil {
		return &WriteError{Port: s.name, Code: code, Err: err}
	}
	if n != 1 {
		return &WriteError{Port: s.name, Code: code, Err: io.ErrShortWrite}
	}

	log.Debug().Str("port", s.name).Str("code", string(code)).Msg("Code written")

	if s.writeDelay > 0 {
		time.Sleep(s.writeDelay)
	}
	return nil
}

// Close releases the port. It is safe to call more than once and on a nil
// session.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.port.Close(); err != nil {
		log.Warn().Err(err).Str("port", s.name).Msg("Failed to close serial port")
		return err
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
