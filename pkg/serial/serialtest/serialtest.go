// Package serialtest provides an in-memory microcontroller for exercising
// the serial transport without hardware.
package serialtest

import (
	"errors"
	"sync"
	"time"

	"github.com/urmzd/neuracontrol/pkg/device"
	"github.com/urmzd/neuracontrol/pkg/serial"
	bugst "go.bug.st/serial"
)

// ErrUnplugged is a typical open failure for a board that is not attached.
var ErrUnplugged = errors.New("no such file or directory")

// Firmware mimics the sketch on the board: it decodes each received byte
// against the device table and tracks pin states.
type Firmware struct {
	registry *device.Registry

	mu       sync.Mutex
	received []byte
	states   map[string]bool
	opens    int
	closes   int
	live     int
	maxLive  int
	bauds    []int

	// Set these to inject faults.
	OpenErr    error
	WriteErr   error
	ShortWrite bool
}

// NewFirmware creates a firmware that understands reg's codes.
func NewFirmware(reg *device.Registry) *Firmware {
	return &Firmware{
		registry: reg,
		states:   make(map[string]bool),
	}
}

// Opener returns a serial.Opener backed by this firmware.
func (f *Firmware) Opener() serial.Opener {
	return func(name string, mode *bugst.Mode) (serial.Port, error) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.OpenErr != nil {
			return nil, f.OpenErr
		}
		f.opens++
		f.live++
		f.maxLive = max(f.maxLive, f.live)
		f.bauds = append(f.bauds, mode.BaudRate)
		return &port{fw: f}, nil
	}
}

// Received returns every byte written so far.
func (f *Firmware) Received() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]byte, len(f.received))
	copy(out, f.received)
	return out
}

// State reports the decoded state of a device and whether it was ever set.
func (f *Firmware) State(id string) (on, set bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	on, set = f.states[id]
	return on, set
}

// Opens returns how many sessions were opened.
func (f *Firmware) Opens() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens
}

// Closes returns how many sessions were closed.
func (f *Firmware) Closes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

// MaxOpen returns the largest number of sessions that were open at once.
func (f *Firmware) MaxOpen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxLive
}

// Bauds returns the baud rate requested on each open.
func (f *Firmware) Bauds() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.bauds...)
}

type port struct {
	fw     *Firmware
	closed bool
}

func (p *port) Write(b []byte) (int, error) {
	p.fw.mu.Lock()
	defer p.fw.mu.Unlock()

	if p.closed {
		return 0, errors.New("port closed")
	}
	if p.fw.WriteErr != nil {
		return 0, p.fw.WriteErr
	}
	if p.fw.ShortWrite {
		return 0, nil
	}

	for _, c := range b {
		p.fw.received = append(p.fw.received, c)
		if d, on, err := p.fw.registry.Decode(c); err == nil {
			p.fw.states[d.ID] = on
		}
	}
	return len(b), nil
}

func (p *port) SetReadTimeout(time.Duration) error {
	return nil
}

func (p *port) Close() error {
	p.fw.mu.Lock()
	defer p.fw.mu.Unlock()

	if !p.closed {
		p.closed = true
		p.fw.closes++
		p.fw.live--
	}
	return nil
}
