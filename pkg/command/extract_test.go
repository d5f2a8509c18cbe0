package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/neuracontrol/pkg/device"
)

func newExtractor(t *testing.T) *Extractor {
	t.Helper()
	return NewExtractor(device.MustDefaultRegistry())
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Command
	}{
		{
			name: "single on",
			text: "Sure! LIGHTS ON, done.",
			want: []Command{{Device: "lights", State: true}},
		},
		{
			name: "mixed case and several devices",
			text: "Turning the Fan Off and the heater ON for you. LED on as well.",
			want: []Command{
				{Device: "led", State: true},
				{Device: "fan", State: false},
				{Device: "heater", State: true},
			},
		},
		{
			name: "off wins when both phrases appear",
			text: "turn the fan on then fan off",
			want: []Command{{Device: "fan", State: false}},
		},
		{
			name: "off wins regardless of position",
			text: "LED OFF ... actually LED ON",
			want: []Command{{Device: "led", State: false}},
		},
		{
			name: "substring match inside a longer word",
			text: "the led on the table",
			want: []Command{{Device: "led", State: true}},
		},
		{
			name: "no phrase means no command",
			text: "I can't help with the thermostat.",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	e := newExtractor(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Extract(tt.text))
		})
	}
}

func TestExtractOrderFollowsRegistry(t *testing.T) {
	e := newExtractor(t)

	cmds := e.Extract("LIGHTS OFF. HEATER ON. FAN ON. LED OFF.")
	require.Len(t, cmds, 4)

	var ids []string
	for _, c := range cmds {
		ids = append(ids, c.Device)
	}
	assert.Equal(t, []string{"led", "fan", "heater", "lights"}, ids)
}

func TestExtractNeverInventsDevices(t *testing.T) {
	reg, err := device.NewRegistry(device.DeviceFor("pump", "Pump", 0))
	require.NoError(t, err)
	e := NewExtractor(reg)

	texts := []string{
		"LED ON FAN ON HEATER ON LIGHTS ON",
		"pump on, fan off",
		"PUMP OFF",
	}
	for _, text := range texts {
		cmds := e.Extract(text)
		assert.LessOrEqual(t, len(cmds), reg.Len())
		for _, c := range cmds {
			_, err := reg.Lookup(c.Device)
			assert.NoError(t, err, "extracted unknown device %q", c.Device)
		}
	}
}

func TestExtractCustomPhrases(t *testing.T) {
	reg, err := device.NewRegistry(device.Device{
		ID: "pump", OnPhrase: "start watering", OffPhrase: "stop watering", OnCode: '9', OffCode: '8',
	})
	require.NoError(t, err)

	got := NewExtractor(reg).ExtractMap("OK, I will Start Watering now.")
	assert.Equal(t, map[string]bool{"pump": true}, got)
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "FAN OFF", Command{Device: "fan", State: false}.String())
	assert.Equal(t, "LIGHTS ON", Command{Device: "lights", State: true}.String())
}
