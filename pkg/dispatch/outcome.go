package dispatch

import (
	"errors"

	"github.com/urmzd/neuracontrol/pkg/device"
	"github.com/urmzd/neuracontrol/pkg/serial"
)

// Reason classifies a failed or simulated actuation.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonConnection  Reason = "connection"
	ReasonWrite       Reason = "write"
	ReasonTimeout     Reason = "timeout"
	ReasonUnreachable Reason = "unreachable"
	ReasonDemo        Reason = "demo"
)

// Actuation is a resolved command: the registry entry plus the target state.
type Actuation struct {
	Device device.Device
	State  bool
}

// Code returns the wire byte for the actuation.
func (a Actuation) Code() byte {
	return a.Device.Code(a.State)
}

// Outcome is the result of delivering one actuation. Simulated outcomes
// report success without having reached hardware.
type Outcome struct {
	Device    string `json:"device"`
	State     bool   `json:"state"`
	Code      string `json:"code"`
	Success   bool   `json:"success"`
	Simulated bool   `json:"simulated"`
	Reason    Reason `json:"reason,omitempty"`
	Error     string `json:"error,omitempty"`
	Err       error  `json:"-"`
}

func delivered(a Actuation) Outcome {
	return Outcome{Device: a.Device.ID, State: a.State, Code: string(a.Code()), Success: true}
}

func simulated(a Actuation, reason Reason) Outcome {
	o := delivered(a)
	o.Simulated = true
	o.Reason = reason
	return o
}

func failed(a Actuation, err error) Outcome {
	return Outcome{
		Device: a.Device.ID,
		State:  a.State,
		Code:   string(a.Code()),
		Reason: reasonFor(err),
		Error:  err.Error(),
		Err:    err,
	}
}

func reasonFor(err error) Reason {
	switch {
	case errors.Is(err, serial.ErrTimeout):
		return ReasonTimeout
	case errors.Is(err, serial.ErrConnection):
		return ReasonConnection
	case errors.Is(err, serial.ErrWrite):
		return ReasonWrite
	}
	return ReasonWrite
}
