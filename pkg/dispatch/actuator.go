package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/neuracontrol/pkg/serial"
)

// Actuator delivers resolved commands to hardware, or pretends to.
type Actuator interface {
	// Name identifies the actuator in logs and health output
	Name() string

	// Apply delivers the actuations in order and returns one outcome each.
	// Failures are reported per outcome, never as an error.
	Apply(ctx context.Context, acts []Actuation) []Outcome

	// Reachable reports whether the hardware can currently be opened
	Reachable(ctx context.Context) bool
}

// SessionMode controls how many sessions a dispatch opens.
type SessionMode string

const (
	// SessionPerCommand opens, writes and closes once per command, paying
	// the settle delay every time. This is the wire timing the reference
	// firmware was tuned against.
	SessionPerCommand SessionMode = "per-command"

	// SessionPerDispatch opens once and sends every command through the
	// same session.
	SessionPerDispatch SessionMode = "per-dispatch"
)

// ParseSessionMode accepts the two mode names; empty selects per-command.
func ParseSessionMode(s string) (SessionMode, error) {
	switch SessionMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SessionPerCommand:
		return SessionPerCommand, nil
	case SessionPerDispatch:
		return SessionPerDispatch, nil
	}
	return "", fmt.Errorf("unknown session mode %q", s)
}

// SerialActuator writes codes to a microcontroller through a serial.Transport.
// Every command gets its own open attempt. If no open succeeds during a
// dispatch, the actuator is treated as unreachable and the connection
// failures are reported as simulated successes. A cancelled or expired
// context always yields timeout failures.
type SerialActuator struct {
	transport *serial.Transport
	port      string
	mode      SessionMode
}

// NewSerialActuator creates an actuator bound to one port.
func NewSerialActuator(transport *serial.Transport, port string, mode SessionMode) *SerialActuator {
	if mode == "" {
		mode = SessionPerCommand
	}
	return &SerialActuator{transport: transport, port: port, mode: mode}
}

func (a *SerialActuator) Name() string { return "serial:" + a.port }

// Port returns the configured port name.
func (a *SerialActuator) Port() string { return a.port }

// Mode returns the session mode.
func (a *SerialActuator) Mode() SessionMode { return a.mode }

func (a *SerialActuator) Reachable(ctx context.Context) bool {
	return a.transport.Probe(ctx, a.port) == nil
}

func (a *SerialActuator) Apply(ctx context.Context, acts []Actuation) []Outcome {
	if len(acts) == 0 {
		return []Outcome{}
	}
	if a.mode == SessionPerDispatch {
		return a.applyBatched(ctx, acts)
	}
	return a.applyPerCommand(ctx, acts)
}

func (a *SerialActuator) applyPerCommand(ctx context.Context, acts []Actuation) []Outcome {
	outcomes := make([]Outcome, 0, len(acts))
	anyOpened := false

	for _, act := range acts {
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, failed(act, fmt.Errorf("%w: %v", serial.ErrTimeout, err)))
			continue
		}

		session, err := a.transport.Open(ctx, a.port)
		if err != nil {
			log.Error().Err(err).Str("device", act.Device.ID).Str("port", a.port).Msg("Failed to open actuator")
			outcomes = append(outcomes, failed(act, err))
			continue
		}
		anyOpened = true

		outcomes = append(outcomes, a.send(session, act))
		_ = session.Close()
	}

	if !anyOpened {
		a.fallBack(outcomes, acts)
	}
	return outcomes
}

func (a *SerialActuator) applyBatched(ctx context.Context, acts []Actuation) []Outcome {
	session, err := a.transport.Open(ctx, a.port)
	if err != nil {
		outcomes := make([]Outcome, 0, len(acts))
		for _, act := range acts {
			outcomes = append(outcomes, failed(act, err))
		}
		a.fallBack(outcomes, acts)
		return outcomes
	}
	defer session.Close()

	outcomes := make([]Outcome, 0, len(acts))
	for _, act := range acts {
		outcomes = append(outcomes, a.send(session, act))
	}
	return outcomes
}

// fallBack replaces connection failures with simulated outcomes when the
// port never opened during the dispatch. Timeouts stay failures.
func (a *SerialActuator) fallBack(outcomes []Outcome, acts []Actuation) {
	n := 0
	for i, o := range outcomes {
		if o.Reason == ReasonConnection {
			outcomes[i] = simulated(acts[i], ReasonUnreachable)
			n++
		}
	}
	if n > 0 {
		log.Warn().Str("port", a.port).Int("commands", n).Msg("Actuator unreachable, simulating commands")
	}
}

func (a *SerialActuator) send(session *serial.Session, act Actuation) Outcome {
	if err := session.Send(act.Code()); err != nil {
		log.Error().Err(err).Str("device", act.Device.ID).Str("port", session.Port()).Msg("Failed to send command")
		return failed(act, err)
	}
	log.Info().
		Str("device", act.Device.ID).
		Str("port", session.Port()).
		Bool("state", act.State).
		Str("code", string(act.Code())).
		Msg("Command delivered")
	return delivered(act)
}

// SimulatedActuator reports every actuation as a simulated success. It is
// used in demo mode and when no port is configured.
type SimulatedActuator struct{}

// NewSimulatedActuator creates a new SimulatedActuator.
func NewSimulatedActuator() *SimulatedActuator {
	return &SimulatedActuator{}
}

func (s *SimulatedActuator) Name() string { return "simulated" }

func (s *SimulatedActuator) Reachable(ctx context.Context) bool { return false }

func (s *SimulatedActuator) Apply(ctx context.Context, acts []Actuation) []Outcome {
	for _, act := range acts {
		log.Info().Str("device", act.Device.ID).Bool("state", act.State).Msg("Demo: command simulated")
	}
	return simulateAll(acts, ReasonDemo)
}

func simulateAll(acts []Actuation, reason Reason) []Outcome {
	out := make([]Outcome, 0, len(acts))
	for _, act := range acts {
		out = append(out, simulated(act, reason))
	}
	return out
}
