// Package dispatch runs the prompt → reply → commands → hardware pipeline.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/neuracontrol/pkg/command"
	"github.com/urmzd/neuracontrol/pkg/device"
	"github.com/urmzd/neuracontrol/pkg/llm"
	"github.com/urmzd/neuracontrol/pkg/serial"
)

// ErrNoTransport is returned by TestPort when no serial transport is wired.
var ErrNoTransport = errors.New("no serial transport configured")

// Result is the full record of one dispatch.
type Result struct {
	ID        string            `json:"id"`
	Prompt    string            `json:"prompt"`
	Reply     string            `json:"reply"`
	Commands  []command.Command `json:"commands"`
	Outcomes  []Outcome         `json:"outcomes"`
	Actuator  string            `json:"actuator"`
	CreatedAt time.Time         `json:"created_at"`
}

// Orchestrator wires the language model, the extractor and an actuator.
// Calls are serialised so two requests never share the serial port.
type Orchestrator struct {
	registry     *device.Registry
	extractor    *command.Extractor
	generator    llm.Generator
	actuator     Actuator
	transport    *serial.Transport
	systemPrompt string

	mu sync.Mutex
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSystemPrompt overrides the instruction sent with every prompt.
func WithSystemPrompt(prompt string) Option {
	return func(o *Orchestrator) {
		o.systemPrompt = prompt
	}
}

// WithTransport sets the transport used by TestPort. It defaults to the
// serial actuator's transport.
func WithTransport(tr *serial.Transport) Option {
	return func(o *Orchestrator) {
		o.transport = tr
	}
}

// New creates an orchestrator. A nil actuator selects the simulated one.
func New(reg *device.Registry, gen llm.Generator, act Actuator, opts ...Option) *Orchestrator {
	if act == nil {
		act = NewSimulatedActuator()
	}
	o := &Orchestrator{
		registry:     reg,
		extractor:    command.NewExtractor(reg),
		generator:    gen,
		actuator:     act,
		systemPrompt: llm.DefaultSystemPrompt,
	}
	if sa, ok := act.(*SerialActuator); ok {
		o.transport = sa.transport
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Registry returns the device registry.
func (o *Orchestrator) Registry() *device.Registry {
	return o.registry
}

// Actuator returns the actuator in use.
func (o *Orchestrator) Actuator() Actuator {
	return o.actuator
}

// Dispatch sends prompt to the language model, extracts commands from the
// reply and applies them in registry order. A language model failure
// returns the partial result with no outcomes and an error wrapping
// llm.ErrLLM; hardware failures are reported per outcome and never abort.
func (o *Orchestrator) Dispatch(ctx context.Context, prompt string) (*Result, error) {
	res := &Result{
		ID:        uuid.NewString(),
		Prompt:    prompt,
		Commands:  []command.Command{},
		Outcomes:  []Outcome{},
		Actuator:  o.actuator.Name(),
		CreatedAt: time.Now(),
	}

	if o.generator == nil {
		return res, fmt.Errorf("%w: no language model configured", llm.ErrLLM)
	}

	reply, err := o.generator.GenerateReply(ctx, o.systemPrompt, prompt)
	if err != nil {
		log.Error().Err(err).Str("dispatch", res.ID).Msg("Language model request failed")
		if !errors.Is(err, llm.ErrLLM) {
			err = fmt.Errorf("%w: %w", llm.ErrLLM, err)
		}
		return res, err
	}
	res.Reply = reply

	cmds := o.extractor.Extract(reply)
	res.Commands = append(res.Commands, cmds...)

	acts := make([]Actuation, 0, len(cmds))
	for _, c := range cmds {
		d, err := o.registry.Lookup(c.Device)
		if err != nil {
			// The extractor only emits registry ids.
			continue
		}
		acts = append(acts, Actuation{Device: d, State: c.State})
	}

	o.mu.Lock()
	res.Outcomes = append(res.Outcomes, o.actuator.Apply(ctx, acts)...)
	o.mu.Unlock()

	log.Info().
		Str("dispatch", res.ID).
		Int("commands", len(cmds)).
		Int("failed", countFailed(res.Outcomes)).
		Msg("Dispatch complete")

	return res, nil
}

// Actuate drives one device directly, bypassing the language model.
func (o *Orchestrator) Actuate(ctx context.Context, deviceID string, on bool) (Outcome, error) {
	d, err := o.registry.Lookup(deviceID)
	if err != nil {
		return Outcome{}, err
	}

	o.mu.Lock()
	outcomes := o.actuator.Apply(ctx, []Actuation{{Device: d, State: on}})
	o.mu.Unlock()

	return outcomes[0], nil
}

// Reachable reports whether the actuator hardware can be opened.
func (o *Orchestrator) Reachable(ctx context.Context) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.actuator.Reachable(ctx)
}

// TestPort opens and closes port while holding the actuation lock.
func (o *Orchestrator) TestPort(ctx context.Context, port string) error {
	if o.transport == nil {
		return ErrNoTransport
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.transport.Probe(ctx, port)
}

func countFailed(outcomes []Outcome) int {
	n := 0
	for _, oc := range outcomes {
		if !oc.Success {
			n++
		}
	}
	return n
}
