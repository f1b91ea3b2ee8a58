package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".spruce.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .spruce.yaml configuration file.
// Every field is optional; anything absent keeps its default or is supplied
// by a CLI flag.
type File struct {
	// Server is the base URL of the audited server.
	Server string `yaml:"server,omitempty"`

	// Username is the API account name.
	Username string `yaml:"username,omitempty"`

	// Password is the API account password. Storing it here is a
	// convenience for lab use; the file should be chmod 600.
	Password string `yaml:"password,omitempty"`

	// VerifySSL toggles TLS verification. Pointer so that "absent" can
	// be told apart from an explicit false.
	VerifySSL *bool `yaml:"verify_ssl,omitempty"`

	// Timeout is the per-request API timeout, in Go duration syntax.
	Timeout string `yaml:"timeout,omitempty"`

	// CheckInPeriod is the device staleness threshold in days.
	CheckInPeriod string `yaml:"check_in_period,omitempty"`

	// CatchAllGroups overrides the default catch-all group list used by
	// orphan detection.
	CatchAllGroups []string `yaml:"catch_all_groups,omitempty"`
}

// LoadConfigFile loads a configuration file from the given path.
// If the file does not exist, it returns ErrConfigNotFound; callers decide
// whether that is fatal based on whether the path was explicit.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .spruce.yaml in the current directory
// 3. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if
// not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}

// Apply overlays file values onto a Config. Only fields present in the file
// are copied, so flag-supplied values survive when the file is silent and
// file values lose to flags applied afterwards.
func (cf *File) Apply(c *Config) error {
	if cf.Server != "" {
		c.ServerURL = cf.Server
	}
	if cf.Username != "" {
		c.Username = cf.Username
	}
	if cf.Password != "" {
		c.Password = cf.Password
	}
	if cf.VerifySSL != nil {
		c.VerifySSL = *cf.VerifySSL
	}
	if cf.Timeout != "" {
		timeout, err := time.ParseDuration(cf.Timeout)
		if err != nil {
			return err
		}
		c.Timeout = timeout
	}
	if cf.CheckInPeriod != "" {
		c.CheckInPeriod = cf.CheckInPeriod
	}
	if cf.CatchAllGroups != nil {
		c.CatchAllGroups = cf.CatchAllGroups
	}
	return nil
}
