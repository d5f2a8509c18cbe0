package serial

import (
	"errors"
	"fmt"

	bugst "go.bug.st/serial"
)

var (
	// ErrConnection indicates the actuator port could not be opened
	ErrConnection = errors.New("connection unavailable")

	// ErrWrite indicates an I/O failure while writing a code
	ErrWrite = errors.New("write failed")

	// ErrTimeout indicates the link was not ready in time
	ErrTimeout = errors.New("operation timed out")

	// ErrSessionClosed indicates a write on a released session
	ErrSessionClosed = errors.New("session closed")
)

// ConnectionError reports a failure to open a port. It matches ErrConnection
// with errors.Is, and ErrTimeout when the settle wait was cut short.
type ConnectionError struct {
	Port string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("open serial port %s: %v", e.Port, e.Err)
}

func (e *ConnectionError) Unwrap() []error {
	return []error{ErrConnection, e.Err}
}

// Reason classifies the failure for reporting.
func (e *ConnectionError) Reason() string {
	if errors.Is(e.Err, ErrTimeout) {
		return "timeout"
	}
	var pe *bugst.PortError
	if errors.As(e.Err, &pe) {
		switch pe.Code() {
		case bugst.PortBusy:
			return "port_busy"
		case bugst.PortNotFound:
			return "port_not_found"
		case bugst.PermissionDenied:
			return "permission_denied"
		}
	}
	return "connection"
}

// WriteError reports a failed or short write on an open session.
type WriteError struct {
	Port string
	Code byte
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %q to %s: %v", e.Code, e.Port, e.Err)
}

func (e *WriteError) Unwrap() []error {
	return []error{ErrWrite, e.Err}
}
