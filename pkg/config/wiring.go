package config

import (
	"github.com/rs/zerolog/log"
	"github.com/urmzd/neuracontrol/pkg/device"
	"github.com/urmzd/neuracontrol/pkg/dispatch"
	"github.com/urmzd/neuracontrol/pkg/llm"
	"github.com/urmzd/neuracontrol/pkg/serial"
)

// Registry loads the device table from DevicesFile, or the built-in
// led/fan/heater/lights table when it is unset.
func (c *Config) Registry() (*device.Registry, error) {
	if c.DevicesFile == "" {
		return device.NewRegistry(device.DefaultDevices()...)
	}
	return device.LoadRegistryFile(c.DevicesFile)
}

// Transport builds the serial transport for the configured timings.
func (c *Config) Transport() *serial.Transport {
	tr := serial.NewTransport(c.SerialOptions())
	opts := tr.Options()
	log.Debug().
		Int("baud", opts.BaudRate).
		Dur("settle_delay", opts.SettleDelay).
		Dur("write_delay", opts.WriteDelay).
		Msg("Serial transport ready")
	return tr
}

// Actuator returns the simulated actuator in demo mode and the serial
// actuator on the configured port otherwise.
func (c *Config) Actuator(tr *serial.Transport) dispatch.Actuator {
	if c.Demo {
		log.Info().Msg("Demo mode, commands will be simulated")
		return dispatch.NewSimulatedActuator()
	}
	return dispatch.NewSerialActuator(tr, c.Port, c.Mode())
}

// Generator returns the language model client, or nil without an API key.
func (c *Config) Generator() llm.Generator {
	if c.APIKey == "" {
		log.Warn().Msg("GROQ_API_KEY is not set, dispatches will fail")
		return nil
	}
	client := llm.NewClient(c.APIKey, c.LLMBaseURL, c.LLMParams())
	log.Debug().Str("model", client.Model()).Msg("Language model client ready")
	return client
}

// Orchestrator wires the registry, language model and actuator together.
func (c *Config) Orchestrator(tr *serial.Transport) (*dispatch.Orchestrator, error) {
	reg, err := c.Registry()
	if err != nil {
		return nil, err
	}
	return dispatch.New(reg, c.Generator(), c.Actuator(tr), dispatch.WithTransport(tr)), nil
}
