package dispatch

import (
	"sync"

	"github.com/urmzd/neuracontrol/pkg/device"
)

// StateBook is caller-owned bookkeeping of the last known state of each
// device, as shown on a control panel. The orchestrator never touches it.
type StateBook struct {
	mu     sync.RWMutex
	order  []string
	states map[string]bool
}

// NewStateBook starts every device of reg in the OFF state.
func NewStateBook(reg *device.Registry) *StateBook {
	b := &StateBook{states: make(map[string]bool, reg.Len())}
	for _, d := range reg.All() {
		b.order = append(b.order, d.ID)
		b.states[d.ID] = false
	}
	return b
}

// Apply records the state of every successful (real or simulated) outcome.
func (b *StateBook) Apply(outcomes ...Outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, o := range outcomes {
		if _, known := b.states[o.Device]; known && o.Success {
			b.states[o.Device] = o.State
		}
	}
}

// Get returns the recorded state of a device.
func (b *StateBook) Get(id string) (on, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	on, ok = b.states[id]
	return on, ok
}

// Snapshot returns a copy of all states.
func (b *StateBook) Snapshot() map[string]bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]bool, len(b.states))
	for k, v := range b.states {
		out[k] = v
	}
	return out
}

// Active counts devices that are ON.
func (b *StateBook) Active() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, id := range b.order {
		if b.states[id] {
			n++
		}
	}
	return n
}
