package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryCodes(t *testing.T) {
	reg := MustDefaultRegistry()

	want := map[string][2]byte{
		"led":    {'1', '0'},
		"fan":    {'3', '2'},
		"heater": {'5', '4'},
		"lights": {'7', '6'},
	}
	require.Equal(t, len(want), reg.Len())

	seen := map[byte]string{}
	for _, d := range reg.All() {
		codes := want[d.ID]
		assert.Equal(t, codes[0], d.OnCode, d.ID)
		assert.Equal(t, codes[1], d.OffCode, d.ID)
		assert.NotEqual(t, d.OnCode, d.OffCode)
		for _, c := range []byte{d.OnCode, d.OffCode} {
			_, dup := seen[c]
			assert.False(t, dup, "code %q reused", c)
			seen[c] = d.ID
		}
	}
}

func TestRegistryOrder(t *testing.T) {
	reg := MustDefaultRegistry()

	var ids []string
	for _, d := range reg.All() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"led", "fan", "heater", "lights"}, ids)
	assert.Equal(t, 2, reg.Index("heater"))
	assert.Equal(t, -1, reg.Index("toaster"))
}

func TestLookup(t *testing.T) {
	reg := MustDefaultRegistry()

	d, err := reg.Lookup("FAN")
	require.NoError(t, err)
	assert.Equal(t, "fan", d.ID)
	assert.Equal(t, "fan on", d.OnPhrase)

	_, err = reg.Lookup("toaster")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAllReturnsCopy(t *testing.T) {
	reg := MustDefaultRegistry()

	all := reg.All()
	all[0].OnCode = 'x'

	d, err := reg.Lookup("led")
	require.NoError(t, err)
	assert.Equal(t, byte('1'), d.OnCode)
}

func TestDecode(t *testing.T) {
	reg := MustDefaultRegistry()

	for _, d := range reg.All() {
		got, on, err := reg.Decode(d.OnCode)
		require.NoError(t, err)
		assert.Equal(t, d.ID, got.ID)
		assert.True(t, on)

		got, on, err = reg.Decode(d.OffCode)
		require.NoError(t, err)
		assert.Equal(t, d.ID, got.ID)
		assert.False(t, on)
	}

	_, _, err := reg.Decode('9')
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewRegistryRejectsCollisions(t *testing.T) {
	tests := []struct {
		name    string
		devices []Device
		wantErr error
	}{
		{
			name:    "same code for both states",
			devices: []Device{{ID: "led", OnPhrase: "led on", OffPhrase: "led off", OnCode: '1', OffCode: '1'}},
			wantErr: ErrDuplicateCode,
		},
		{
			name:    "code shared across devices",
			devices: []Device{DeviceFor("led", "", 0), {ID: "fan", OnPhrase: "fan on", OffPhrase: "fan off", OnCode: '1', OffCode: '2'}},
			wantErr: ErrDuplicateCode,
		},
		{
			name:    "duplicate id",
			devices: []Device{DeviceFor("led", "", 0), DeviceFor("LED", "", 1)},
			wantErr: ErrDuplicateDevice,
		},
		{
			name:    "missing phrase",
			devices: []Device{{ID: "led", OnPhrase: "led on", OnCode: '1', OffCode: '0'}},
			wantErr: ErrInvalidDevice,
		},
		{
			name:    "missing id",
			devices: []Device{{OnPhrase: "x on", OffPhrase: "x off", OnCode: '1', OffCode: '0'}},
			wantErr: ErrInvalidDevice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.devices...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewRegistryNormalizesPhrases(t *testing.T) {
	reg, err := NewRegistry(Device{ID: "Pump", OnPhrase: " WATER On ", OffPhrase: "Water OFF", OnCode: 'a', OffCode: 'b'})
	require.NoError(t, err)

	d, err := reg.Lookup("pump")
	require.NoError(t, err)
	assert.Equal(t, "water on", d.OnPhrase)
	assert.Equal(t, "water off", d.OffPhrase)
	assert.Equal(t, "pump", d.Name)
}

func TestParseRegistry(t *testing.T) {
	reg, err := ParseRegistry([]byte(`
devices:
  - id: led
    name: LED
  - id: fan
  - id: pump
    on_phrase: "water on"
    off_phrase: "water off"
    on_code: "9"
    off_code: "8"
`))
	require.NoError(t, err)
	require.Equal(t, 3, reg.Len())

	led, _ := reg.Lookup("led")
	assert.Equal(t, byte('1'), led.OnCode)
	assert.Equal(t, byte('0'), led.OffCode)

	fan, _ := reg.Lookup("fan")
	assert.Equal(t, byte('3'), fan.OnCode)
	assert.Equal(t, "fan off", fan.OffPhrase)

	pump, _ := reg.Lookup("pump")
	assert.Equal(t, byte('9'), pump.OnCode)
	assert.Equal(t, "water on", pump.OnPhrase)
}

func TestParseRegistryTrimsIDs(t *testing.T) {
	reg, err := ParseRegistry([]byte("devices:\n  - id: \"pump \"\n    name: \" Pump\"\n  - id: \" Valve\"\n"))
	require.NoError(t, err)

	pump, err := reg.Lookup("pump")
	require.NoError(t, err)
	assert.Equal(t, "pump on", pump.OnPhrase)
	assert.Equal(t, "pump off", pump.OffPhrase)
	assert.Equal(t, "Pump", pump.Name)

	valve, err := reg.Lookup("valve")
	require.NoError(t, err)
	assert.Equal(t, "valve on", valve.OnPhrase)
}

func TestParseRegistryErrors(t *testing.T) {
	_, err := ParseRegistry([]byte(`devices: []`))
	assert.ErrorIs(t, err, ErrInvalidDevice)

	_, err = ParseRegistry([]byte("devices:\n  - id: led\n    on_code: \"10\"\n"))
	assert.ErrorIs(t, err, ErrInvalidDevice)

	_, err = ParseRegistry([]byte("devices: ["))
	assert.Error(t, err)
}

func TestLoadRegistryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.yaml")
	require.NoError(t, os.WriteFile(path, []byte("devices:\n  - id: led\n  - id: fan\n"), 0o600))

	reg, err := LoadRegistryFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	_, err = LoadRegistryFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseState(t *testing.T) {
	on, err := ParseState("on")
	require.NoError(t, err)
	assert.True(t, on)

	on, err = ParseState(" OFF ")
	require.NoError(t, err)
	assert.False(t, on)

	_, err = ParseState("maybe")
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, "ON", StateString(true))
	assert.Equal(t, "OFF", StateString(false))
}
