// Package command turns free-form assistant replies into device commands.
package command

import (
	"strings"

	"github.com/urmzd/neuracontrol/pkg/device"
)

// Command is a desired state for one registered device.
type Command struct {
	Device string `json:"device"`
	State  bool   `json:"state"`
}

// String renders the command the way the assistant is asked to phrase it.
func (c Command) String() string {
	return strings.ToUpper(c.Device) + " " + device.StateString(c.State)
}

// Extractor scans text for the trigger phrases of a registry.
type Extractor struct {
	registry *device.Registry
}

// NewExtractor creates an extractor bound to reg.
func NewExtractor(reg *device.Registry) *Extractor {
	return &Extractor{registry: reg}
}

// Extract returns one command per device whose ON or OFF phrase occurs in
// text, in registry order. Matching is case-insensitive substring search.
// The ON phrase is tested before the OFF phrase and the last match wins, so
// a reply containing both turns the device off. Devices without a match are
// left out.
func (e *Extractor) Extract(text string) []Command {
	lower := strings.ToLower(text)

	var cmds []Command
	for _, d := range e.registry.All() {
		matched := false
		state := false

		if strings.Contains(lower, d.OnPhrase) {
			matched, state = true, true
		}
		if strings.Contains(lower, d.OffPhrase) {
			matched, state = true, false
		}

		if matched {
			cmds = append(cmds, Command{Device: d.ID, State: state})
		}
	}
	return cmds
}

// ExtractMap is Extract keyed by device id.
func (e *Extractor) ExtractMap(text string) map[string]bool {
	cmds := e.Extract(text)
	out := make(map[string]bool, len(cmds))
	for _, c := range cmds {
		out[c.Device] = c.State
	}
	return out
}
