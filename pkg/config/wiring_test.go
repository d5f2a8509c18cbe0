package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/neuracontrol/pkg/dispatch"
)

func TestActuatorSelection(t *testing.T) {
	cfg := &Config{Port: "/dev/ttyACM0", SessionMode: "per-dispatch", BaudRate: 9600}
	tr := cfg.Transport()

	act := cfg.Actuator(tr)
	serialAct, ok := act.(*dispatch.SerialActuator)
	require.True(t, ok)
	assert.Equal(t, "serial:/dev/ttyACM0", serialAct.Name())
	assert.Equal(t, dispatch.SessionPerDispatch, serialAct.Mode())

	cfg.Demo = true
	_, ok = cfg.Actuator(tr).(*dispatch.SimulatedActuator)
	assert.True(t, ok)
}

func TestGeneratorRequiresKey(t *testing.T) {
	cfg := &Config{}
	assert.Nil(t, cfg.Generator())

	cfg.APIKey = "gsk_test"
	assert.NotNil(t, cfg.Generator())
}

func TestRegistryFromFile(t *testing.T) {
	cfg := &Config{}
	reg, err := cfg.Registry()
	require.NoError(t, err)
	assert.Equal(t, 4, reg.Len())

	path := filepath.Join(t.TempDir(), "devices.yaml")
	require.NoError(t, os.WriteFile(path, []byte("devices:\n  - id: pump\n  - id: valve\n"), 0o600))
	cfg.DevicesFile = path

	reg, err = cfg.Registry()
	require.NoError(t, err)
	require.Equal(t, 2, reg.Len())
	d, err := reg.Lookup("valve")
	require.NoError(t, err)
	assert.Equal(t, byte('3'), d.OnCode)
}

func TestOrchestrator(t *testing.T) {
	cfg := &Config{Demo: true}
	orc, err := cfg.Orchestrator(cfg.Transport())
	require.NoError(t, err)
	assert.Equal(t, "simulated", orc.Actuator().Name())

	cfg.DevicesFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = cfg.Orchestrator(cfg.Transport())
	assert.Error(t, err)
}
