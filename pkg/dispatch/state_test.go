package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urmzd/neuracontrol/pkg/device"
)

func TestStateBook(t *testing.T) {
	b := NewStateBook(device.MustDefaultRegistry())

	assert.Equal(t, map[string]bool{"led": false, "fan": false, "heater": false, "lights": false}, b.Snapshot())

	b.Apply(
		Outcome{Device: "led", State: true, Success: true},
		Outcome{Device: "fan", State: true, Success: true, Simulated: true},
		Outcome{Device: "heater", State: true, Success: false},
		Outcome{Device: "toaster", State: true, Success: true},
	)

	on, ok := b.Get("led")
	assert.True(t, ok)
	assert.True(t, on)

	on, _ = b.Get("fan")
	assert.True(t, on)

	on, _ = b.Get("heater")
	assert.False(t, on, "failed outcomes do not change state")

	_, ok = b.Get("toaster")
	assert.False(t, ok)

	assert.Equal(t, 2, b.Active())
}
