// Package config loads devicecall configuration. Sources in increasing
// priority: defaults, YAML config file, .env file, DEVICECALL_* environment
// variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"devicecall/internal/function"
	"devicecall/internal/publisher"
	"devicecall/pkg/calltypes"
)

// EnvPrefix prefixes every environment variable read by devicecall.
const EnvPrefix = "DEVICECALL"

// Config is the complete devicecall configuration.
type Config struct {
	Function  FunctionConfig  `mapstructure:"function"`
	Publisher PublisherConfig `mapstructure:"publisher"`
	Log       LogConfig       `mapstructure:"log"`
}

// FunctionConfig configures the call function.
type FunctionConfig struct {
	Name              string   `mapstructure:"name"`
	Params            []string `mapstructure:"params"`
	LogCalls          bool     `mapstructure:"log_calls"`
	CommandsVariable  string   `mapstructure:"commands_variable"`
	LastCallsVariable string   `mapstructure:"last_calls_variable"`
	MaxVariableLength int      `mapstructure:"max_variable_length"`
}

// PublisherConfig configures burst publishing of call records.
type PublisherConfig struct {
	EventName  string        `mapstructure:"event_name"`
	DeviceName string        `mapstructure:"device_name"`
	BurstWait  time.Duration `mapstructure:"burst_wait"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	defaults := function.DefaultOptions()
	v.SetDefault("function.name", defaults.Name)
	v.SetDefault("function.params", defaults.Params)
	v.SetDefault("function.log_calls", defaults.LogCalls)
	v.SetDefault("function.commands_variable", defaults.CommandsVariable)
	v.SetDefault("function.last_calls_variable", defaults.LastCallsVariable)
	v.SetDefault("function.max_variable_length", defaults.MaxVariableLength)

	v.SetDefault("publisher.event_name", "publish-test")
	v.SetDefault("publisher.device_name", "")
	v.SetDefault("publisher.burst_wait", 500*time.Millisecond)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Load reads configuration into a Config. configFile and envFile are
// optional; a missing envFile is not an error.
func Load(v *viper.Viper, configFile, envFile string) (*Config, error) {
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	if envFile != "" {
		if err := loadDotEnv(v, envFile); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	// comma separated lists from the environment arrive as one element
	cfg.Function.Params = splitList(cfg.Function.Params)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv applies the DEVICECALL_* entries of a .env file on top of the
// config file. FUNCTION_MAX_VARIABLE_LENGTH maps to function.max_variable_length.
func loadDotEnv(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read .env file %s: %w", path, err)
	}

	envMap, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse .env file %s: %w", path, err)
	}

	overrides := make(map[string]any)
	prefix := EnvPrefix + "_"
	for key, value := range envMap {
		name, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}
		section, field, nested := strings.Cut(strings.ToLower(name), "_")
		if !nested {
			overrides[section] = value
			continue
		}
		sub, _ := overrides[section].(map[string]any)
		if sub == nil {
			sub = make(map[string]any)
			overrides[section] = sub
		}
		sub[field] = value
	}
	if len(overrides) == 0 {
		return nil
	}
	// merged into the config layer so the environment and flags still win
	return v.MergeConfigMap(overrides)
}

func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks the configuration for values the function can't work with.
func (c *Config) Validate() error {
	if c.Function.Name == "" {
		return errors.New("function.name cannot be empty")
	}
	if c.Function.MaxVariableLength <= len("[]") {
		return fmt.Errorf("function.max_variable_length must be greater than 2, got %d", c.Function.MaxVariableLength)
	}
	for _, p := range c.Function.Params {
		if strings.ContainsAny(p, " =") {
			return fmt.Errorf("parameter %q must not contain spaces or '='", p)
		}
		if calltypes.IsReservedKey(p) {
			return fmt.Errorf("parameter %q clashes with a call record key", p)
		}
	}
	if c.Publisher.BurstWait < 0 {
		return fmt.Errorf("publisher.burst_wait must not be negative, got %s", c.Publisher.BurstWait)
	}
	return nil
}

// FunctionOptions converts the function section to function.Options.
func (c *Config) FunctionOptions() function.Options {
	return function.Options{
		Name:              c.Function.Name,
		Params:            append([]string(nil), c.Function.Params...),
		LogCalls:          c.Function.LogCalls,
		CommandsVariable:  c.Function.CommandsVariable,
		LastCallsVariable: c.Function.LastCallsVariable,
		MaxVariableLength: c.Function.MaxVariableLength,
	}
}

// PublisherConfig converts the publisher section, using deviceID when no
// device name is configured.
func (c *Config) PublisherConfig(deviceID string) publisher.Config {
	id := c.Publisher.DeviceName
	if id == "" {
		id = deviceID
	}
	return publisher.Config{
		EventName: c.Publisher.EventName,
		DeviceID:  id,
		BurstWait: c.Publisher.BurstWait,
	}
}
