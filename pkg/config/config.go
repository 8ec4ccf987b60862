package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/homeweb-protocol/homeweb-go/pkg/model"
)

// DefaultPort is used when the config does not set one.
const DefaultPort = 8080

// ServiceConfig describes one service under a device.
type ServiceConfig struct {
	Target string `yaml:"target"`
	Name   string `yaml:"name"`
}

// DeviceConfig describes one embedded device under the root.
type DeviceConfig struct {
	Target   string          `yaml:"target"`
	Name     string          `yaml:"name"`
	UUID     string          `yaml:"uuid"`
	Services []ServiceConfig `yaml:"services"`
}

// RootConfig describes the root of the device tree.
type RootConfig struct {
	Target   string          `yaml:"target"`
	Name     string          `yaml:"name"`
	UUID     string          `yaml:"uuid"`
	Devices  []DeviceConfig  `yaml:"devices"`
	Services []ServiceConfig `yaml:"services"`
}

// Config is the top-level YAML structure.
type Config struct {
	Port      int        `yaml:"port"`
	LogFile   string     `yaml:"logFile"`
	Interface string     `yaml:"interface"`
	Root      RootConfig `yaml:"root"`
}

// Parse parses YAML config data and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return Parse(data)
}

func (c *Config) validate() error {
	if c.Root.UUID != "" && !model.IsValidUUID(c.Root.UUID) {
		return fmt.Errorf("root: invalid uuid %q", c.Root.UUID)
	}

	if len(c.Root.Devices) > model.MaxDevices {
		return fmt.Errorf("root: %d devices exceeds limit of %d",
			len(c.Root.Devices), model.MaxDevices)
	}
	if len(c.Root.Services) > model.MaxServices {
		return fmt.Errorf("root: %d services exceeds limit of %d",
			len(c.Root.Services), model.MaxServices)
	}

	for i, d := range c.Root.Devices {
		if d.UUID != "" && !model.IsValidUUID(d.UUID) {
			return fmt.Errorf("device %d: invalid uuid %q", i, d.UUID)
		}
		if len(d.Services) > model.MaxServices {
			return fmt.Errorf("device %d: %d services exceeds limit of %d",
				i, len(d.Services), model.MaxServices)
		}
	}

	return nil
}

// Build constructs the device tree described by the config. The
// returned root is not yet attached to a dispatcher.
func (c *Config) Build() *model.RootDevice {
	root := model.NewRootDevice(c.Root.Target)
	if c.Root.Name != "" {
		root.SetDisplayName(c.Root.Name)
	}
	if c.Root.UUID != "" {
		root.SetUUID(c.Root.UUID)
	}

	for _, sc := range c.Root.Services {
		root.AddService(buildService(sc))
	}

	for _, dc := range c.Root.Devices {
		dvc := model.NewDevice(dc.Target)
		if dc.Name != "" {
			dvc.SetDisplayName(dc.Name)
		}
		if dc.UUID != "" {
			dvc.SetUUID(dc.UUID)
		}
		for _, sc := range dc.Services {
			dvc.AddService(buildService(sc))
		}
		root.AddDevice(dvc)
	}

	return root
}

func buildService(sc ServiceConfig) *model.Service {
	svc := model.NewService(sc.Target)
	if sc.Name != "" {
		svc.SetDisplayName(sc.Name)
	}
	return svc
}
