package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config contains application configuration
type Config struct {
	// Template discovery
	TemplateDir  string `yaml:"template_dir"`
	TemplateGlob string `yaml:"template_glob"`

	// Storage and network
	Storage      string `yaml:"storage"`
	Bridge       string `yaml:"bridge"`
	SubnetPrefix string `yaml:"subnet_prefix"` // first three octets, e.g. "192.168.10"
	CIDRBits     int    `yaml:"cidr_bits"`
	Gateway      string `yaml:"gateway"`

	// Container ID range (inclusive)
	IDRangeLow  int `yaml:"id_range_low"`
	IDRangeHigh int `yaml:"id_range_high"`

	// Default container resources, operator-overridable at the prompts
	DefaultCores    int `yaml:"default_cores"`
	DefaultMemoryMB int `yaml:"default_memory_mb"`
	DefaultRootfsGB int `yaml:"default_rootfs_gb"`
	SwapMB          int `yaml:"swap_mb"`

	Arch string `yaml:"arch"`

	// Credential store scanned for the operator's key comment
	AuthorizedKeysPath string `yaml:"authorized_keys_path"`

	// Post-provisioning settings applied inside the container
	ContainerLocale   string `yaml:"container_locale"`
	ContainerTimezone string `yaml:"container_timezone"`

	Language string `yaml:"language"`
	LogDir   string `yaml:"log_dir"`

	// Control-plane binary, overridable for test hosts
	PctBinary string `yaml:"pct_binary"`
}

// Load loads configuration from YAML file
func Load(path string) (*Config, error) {
	config := &Config{
		TemplateDir:        "/var/lib/vz/template/cache",
		TemplateGlob:       "*.tar.*",
		Storage:            "local-lvm",
		Bridge:             "vmbr0",
		SubnetPrefix:       "192.168.1",
		CIDRBits:           24,
		Gateway:            "192.168.1.1",
		IDRangeLow:         100,
		IDRangeHigh:        999,
		DefaultCores:       2,
		DefaultMemoryMB:    1024,
		DefaultRootfsGB:    8,
		SwapMB:             512,
		Arch:               "amd64",
		AuthorizedKeysPath: "/root/.ssh/authorized_keys",
		ContainerLocale:    "en_US.UTF-8",
		ContainerTimezone:  "Europe/Berlin",
		Language:           "en",
		LogDir:             "/var/log/lxcforge",
		PctBinary:          "pct",
	}

	if path == "" {
		path = os.Getenv("LXCFORGE_CONFIG")
	}
	if path == "" {
		path = "lxcforge.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Expand environment variables in path-like fields
	config.TemplateDir = os.ExpandEnv(config.TemplateDir)
	config.AuthorizedKeysPath = os.ExpandEnv(config.AuthorizedKeysPath)
	config.LogDir = os.ExpandEnv(config.LogDir)
	config.PctBinary = os.ExpandEnv(config.PctBinary)

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.IDRangeLow <= 0 || c.IDRangeHigh < c.IDRangeLow {
		return fmt.Errorf("invalid container ID range %d-%d", c.IDRangeLow, c.IDRangeHigh)
	}
	if c.Storage == "" {
		return fmt.Errorf("storage target is required")
	}
	if c.Bridge == "" {
		return fmt.Errorf("network bridge is required")
	}
	return nil
}
