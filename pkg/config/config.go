// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/urmzd/neuracontrol/pkg/dispatch"
	"github.com/urmzd/neuracontrol/pkg/llm"
	"github.com/urmzd/neuracontrol/pkg/serial"
)

// Config holds everything the binaries need to build the pipeline.
type Config struct {
	APIKey      string        `mapstructure:"api_key"`
	LLMBaseURL  string        `mapstructure:"llm_base_url"`
	LLMModel    string        `mapstructure:"llm_model"`
	Port        string        `mapstructure:"port"`
	BaudRate    int           `mapstructure:"baud_rate"`
	SettleDelay time.Duration `mapstructure:"settle_delay"`
	WriteDelay  time.Duration `mapstructure:"write_delay"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	SessionMode string        `mapstructure:"session_mode"`
	DevicesFile string        `mapstructure:"devices_file"`
	DBPath      string        `mapstructure:"db_path"`
	Debug       bool          `mapstructure:"debug"`
	Demo        bool          `mapstructure:"demo"`
}

// legacyEnv maps config keys to the variable names the control panel has
// always used; everything else is read as NEURA_<KEY>.
var legacyEnv = map[string]string{
	"api_key":   "GROQ_API_KEY",
	"port":      "ARDUINO_PORT",
	"baud_rate": "BAUD_RATE",
	"debug":     "DEBUG_MODE",
	"demo":      "DEMO_MODE",
}

// Load reads configuration from the environment and an optional file.
// If configFile is empty only defaults and environment variables apply.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	defaults := serial.DefaultOptions()
	v.SetDefault("llm_base_url", llm.DefaultBaseURL)
	v.SetDefault("llm_model", llm.DefaultModel)
	v.SetDefault("port", "COM4")
	v.SetDefault("baud_rate", defaults.BaudRate)
	v.SetDefault("settle_delay", defaults.SettleDelay)
	v.SetDefault("write_delay", defaults.WriteDelay)
	v.SetDefault("read_timeout", defaults.ReadTimeout)
	v.SetDefault("session_mode", string(dispatch.SessionPerCommand))
	v.SetDefault("debug", false)
	v.SetDefault("demo", false)

	v.SetEnvPrefix("NEURA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "NEURA_"+strings.ToUpper(key), env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}
	// Keys without a default must be bound for Unmarshal to see them.
	for _, key := range []string{"devices_file", "db_path"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if _, err := dispatch.ParseSessionMode(cfg.SessionMode); err != nil {
		return nil, err
	}
	if cfg.BaudRate <= 0 {
		return nil, fmt.Errorf("invalid baud rate %d", cfg.BaudRate)
	}

	return &cfg, nil
}

// SerialOptions returns the transport parameters.
func (c *Config) SerialOptions() serial.Options {
	return serial.Options{
		BaudRate:    c.BaudRate,
		SettleDelay: c.SettleDelay,
		WriteDelay:  c.WriteDelay,
		ReadTimeout: c.ReadTimeout,
	}
}

// LLMParams returns the sampling parameters with the configured model.
func (c *Config) LLMParams() llm.Params {
	p := llm.DefaultParams()
	if c.LLMModel != "" {
		p.Model = c.LLMModel
	}
	return p
}

// Mode returns the parsed session mode.
func (c *Config) Mode() dispatch.SessionMode {
	m, _ := dispatch.ParseSessionMode(c.SessionMode)
	return m
}

// LogLevel returns debug when DEBUG_MODE is set.
func (c *Config) LogLevel() zerolog.Level {
	if c.Debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
