// Package config manages the doltctl configuration and the .doltctl
// directory structure. It handles loading, saving, and initializing
// the per-installation configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	DoltctlDir = ".doltctl"
	ConfigFile = "config"

	// Credentials are environment-sourced so they never end up in the
	// config file or in statement logs. The remote password has no env
	// var here at all: DOLT_REMOTE_PASSWORD is read by the Dolt server
	// from its own environment and never passes through this layer.
	EnvRemoteUser = "DOLT_REMOTE_USER"
	EnvAdminToken = "DOLTCTL_ADMIN_TOKEN"
	EnvPassword   = "DOLTCTL_PASSWORD"
)

// Config represents the doltctl configuration. It is loaded once per
// process and not mutated afterwards.
type Config struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Database string `toml:"database"`

	DefaultRemote string `toml:"default_remote,omitempty"`
	Author        string `toml:"author,omitempty"`

	AdminListen string `toml:"admin_listen,omitempty"`
	AdminPrefix string `toml:"admin_prefix,omitempty"`

	// Environment-sourced, never serialized.
	Password   string `toml:"-"`
	RemoteUser string `toml:"-"`
	AdminToken string `toml:"-"`

	path string // path to the .doltctl directory
}

// FindRoot finds the .doltctl directory by walking up from the current
// directory.
func FindRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		p := filepath.Join(dir, DoltctlDir)
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return p, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not a doltctl installation (no %s in any parent directory); run 'doltctl init'", DoltctlDir)
		}
		dir = parent
	}
}

// Load loads the configuration from the .doltctl directory and applies
// environment overrides.
func Load() (*Config, error) {
	root, err := FindRoot()
	if err != nil {
		return nil, err
	}
	return LoadFrom(root)
}

// LoadFrom loads the configuration from an explicit .doltctl directory.
func LoadFrom(root string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(root, ConfigFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.path = root
	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 3306
	}
	if c.User == "" {
		c.User = "root"
	}
	if c.DefaultRemote == "" {
		c.DefaultRemote = "origin"
	}
	if c.AdminListen == "" {
		c.AdminListen = "127.0.0.1:8780"
	}
	if c.AdminPrefix == "" {
		c.AdminPrefix = "/admin/dolt"
	}
}

func (c *Config) applyEnv() {
	c.Password = os.Getenv(EnvPassword)
	c.RemoteUser = os.Getenv(EnvRemoteUser)
	c.AdminToken = os.Getenv(EnvAdminToken)
}

// Save writes the configuration file. Credentials are excluded by the
// toml tags above.
func (c *Config) Save() error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(filepath.Join(c.path, ConfigFile), data, 0644)
}

// Path returns the path to the .doltctl directory.
func (c *Config) Path() string {
	return c.path
}

// Addr returns the Dolt server address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Initialize creates a new .doltctl directory with an initial
// configuration in the current working directory.
func Initialize(cfg Config) (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root := filepath.Join(cwd, DoltctlDir)
	if _, err := os.Stat(root); err == nil {
		return nil, fmt.Errorf("doltctl installation already exists")
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", DoltctlDir, err)
	}

	cfg.path = root
	cfg.applyDefaults()

	if err := cfg.Save(); err != nil {
		os.RemoveAll(root)
		return nil, err
	}

	cfg.applyEnv()
	return &cfg, nil
}
