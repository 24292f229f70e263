// Package config holds the YAML configuration for the throttle tools.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts "3s" style values in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Transport kinds accepted in configuration.
const (
	KindTCP    = "tcp"
	KindSerial = "serial"
	KindQUIC   = "quic"
)

// Config is the root configuration.
type Config struct {
	Transport TransportConfig `yaml:"transport"`
	Device    DeviceConfig    `yaml:"device"`
	LogLevel  string          `yaml:"log_level"`
}

// TransportConfig selects and configures the wire transport.
type TransportConfig struct {
	Kind           string   `yaml:"kind"`            // tcp | serial | quic
	Address        string   `yaml:"address"`         // host:port, tcp and quic
	Port           string   `yaml:"port"`            // device path, serial
	BaudRate       int      `yaml:"baud_rate"`       // serial, 0 = 115200
	ConnectTimeout Duration `yaml:"connect_timeout"` // tcp and quic, 0 = 10s
	WriteTimeout   Duration `yaml:"write_timeout"`   // 0 = 10s
}

// DeviceConfig identifies this throttle to the server.
type DeviceConfig struct {
	Name string `yaml:"name"`
	ID   string `yaml:"id"` // empty = generated per run
}

// Default returns a configuration pointed at a local JMRI server.
func Default() Config {
	return Config{
		Transport: TransportConfig{
			Kind:    KindTCP,
			Address: "localhost:12090",
		},
		Device: DeviceConfig{
			Name: "wthrottle",
		},
		LogLevel: "info",
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	switch c.Transport.Kind {
	case KindTCP, KindQUIC:
		if c.Transport.Address == "" {
			return fmt.Errorf("transport.address is required for kind %q", c.Transport.Kind)
		}
	case KindSerial:
		if c.Transport.Port == "" {
			return fmt.Errorf("transport.port is required for kind %q", c.Transport.Kind)
		}
		if c.Transport.BaudRate < 0 {
			return fmt.Errorf("transport.baud_rate must not be negative")
		}
	default:
		return fmt.Errorf("unknown transport kind %q", c.Transport.Kind)
	}

	if c.Device.Name == "" {
		return fmt.Errorf("device.name is required")
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}
