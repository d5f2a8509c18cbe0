package device

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Device is one actuator channel on the microcontroller.
type Device struct {
	ID        string `json:"id" yaml:"id"`               // Stable symbolic name (led, fan, ...)
	Name      string `json:"name" yaml:"name"`           // Display name
	OnPhrase  string `json:"on_phrase" yaml:"on_phrase"` // Lower-case phrase that implies ON
	OffPhrase string `json:"off_phrase" yaml:"off_phrase"`
	OnCode    byte   `json:"on_code" yaml:"-"`
	OffCode   byte   `json:"off_code" yaml:"-"`
}

// Code returns the wire byte for the requested state.
func (d Device) Code(on bool) byte {
	if on {
		return d.OnCode
	}
	return d.OffCode
}

// StateSchema returns the JSON Schema accepted for manual state changes.
func (d Device) StateSchema() json.RawMessage {
	return json.RawMessage(stateSchema)
}

const stateSchema = `{
	"type": "object",
	"properties": {
		"state": {"type": "string", "enum": ["ON", "OFF", "on", "off"]}
	},
	"required": ["state"],
	"additionalProperties": false
}`

// State values as they appear in replies, payloads and storage.
const (
	StateOn  = "ON"
	StateOff = "OFF"
)

// StateString renders a boolean state as ON/OFF.
func StateString(on bool) string {
	if on {
		return StateOn
	}
	return StateOff
}

// ParseState parses ON/OFF in any case.
func ParseState(s string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case StateOn:
		return true, nil
	case StateOff:
		return false, nil
	}
	return false, fmt.Errorf("%w: unknown state %q", ErrValidation, s)
}

// DeviceFor builds a device with the canonical "<id> on"/"<id> off" phrases and
// the code pair derived from its position in the table ('0'+2i off, '0'+2i+1 on).
func DeviceFor(id, name string, index int) Device {
	id = strings.ToLower(strings.TrimSpace(id))
	return Device{
		ID:        id,
		Name:      strings.TrimSpace(name),
		OnPhrase:  id + " on",
		OffPhrase: id + " off",
		OnCode:    byte('0' + 2*index + 1),
		OffCode:   byte('0' + 2*index),
	}
}

// DefaultDevices is the table flashed into the reference firmware.
func DefaultDevices() []Device {
	return []Device{
		DeviceFor("led", "LED", 0),
		DeviceFor("fan", "Fan", 1),
		DeviceFor("heater", "Heater", 2),
		DeviceFor("lights", "Lights", 3),
	}
}
