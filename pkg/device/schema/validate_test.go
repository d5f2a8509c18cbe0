package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/urmzd/neuracontrol/pkg/device"
)

func fanDevice() device.Device {
	return device.DeviceFor("fan", "Fan", 1)
}

func TestValidate_ValidPayload(t *testing.T) {
	v := NewValidator()

	err := v.Validate(fanDevice().StateSchema(), map[string]any{"state": "ON"})
	if err != nil {
		t.Errorf("expected valid payload, got: %v", err)
	}
}

func TestValidate_LowerCaseState(t *testing.T) {
	v := NewValidator()

	err := v.Validate(fanDevice().StateSchema(), map[string]any{"state": "off"})
	if err != nil {
		t.Errorf("expected valid payload, got: %v", err)
	}
}

func TestValidate_InvalidEnum(t *testing.T) {
	v := NewValidator()

	err := v.Validate(fanDevice().StateSchema(), map[string]any{"state": "TOGGLE"})
	if err == nil {
		t.Fatal("expected validation error for invalid enum value")
	}
	if !errors.Is(err, device.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestValidate_MissingState(t *testing.T) {
	v := NewValidator()

	err := v.Validate(fanDevice().StateSchema(), map[string]any{})
	if err == nil {
		t.Error("expected validation error for missing state")
	}
}

func TestValidate_UnknownProperty(t *testing.T) {
	v := NewValidator()

	err := v.Validate(fanDevice().StateSchema(), map[string]any{
		"state":      "ON",
		"brightness": float64(100),
	})
	if err == nil {
		t.Error("expected validation error for unknown property")
	}
}

func TestValidate_WrongType(t *testing.T) {
	v := NewValidator()

	err := v.Validate(fanDevice().StateSchema(), map[string]any{"state": true})
	if err == nil {
		t.Error("expected validation error for wrong type")
	}
}

func TestValidate_EmptySchema(t *testing.T) {
	v := NewValidator()

	// Empty schema means no validation
	err := v.Validate(json.RawMessage(`{}`), map[string]any{"anything": "goes"})
	if err != nil {
		t.Errorf("empty schema should skip validation, got: %v", err)
	}
}

func TestValidate_NilSchema(t *testing.T) {
	v := NewValidator()

	err := v.Validate(nil, map[string]any{"anything": "goes"})
	if err != nil {
		t.Errorf("nil schema should skip validation, got: %v", err)
	}
}

func TestValidate_CachesSchema(t *testing.T) {
	v := NewValidator()

	for _, d := range device.DefaultDevices() {
		if err := v.Validate(d.StateSchema(), map[string]any{"state": "ON"}); err != nil {
			t.Fatal(err)
		}
	}

	v.mu.RLock()
	cacheSize := len(v.cache)
	v.mu.RUnlock()
	if cacheSize != 1 {
		t.Errorf("expected 1 cached schema, got %d", cacheSize)
	}
}

func TestDesiredState(t *testing.T) {
	v := NewValidator()

	on, err := v.DesiredState(fanDevice(), map[string]any{"state": "on"})
	if err != nil {
		t.Fatal(err)
	}
	if !on {
		t.Error("expected ON")
	}

	on, err = v.DesiredState(fanDevice(), map[string]any{"state": "OFF"})
	if err != nil {
		t.Fatal(err)
	}
	if on {
		t.Error("expected OFF")
	}
}
