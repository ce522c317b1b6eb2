// Package settings manages the portspeed profile file: switch connection
// details and speed-test parameters.
package settings

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/newtron-network/portspeed/pkg/device"
	"github.com/newtron-network/portspeed/pkg/speedtest"
)

// Settings holds a switch profile and test parameters. Zero values mean
// "use the default".
type Settings struct {
	Host      string `yaml:"host,omitempty"`
	SSHUser   string `yaml:"ssh_user,omitempty"`
	SSHPass   string `yaml:"ssh_pass,omitempty"`
	SSHPort   int    `yaml:"ssh_port,omitempty"`
	Store     string `yaml:"store,omitempty"`      // "cli" or "redis"
	RedisAddr string `yaml:"redis_addr,omitempty"` // direct Redis address, redis store only

	DB             int    `yaml:"db,omitempty"`
	PortPattern    string `yaml:"port_pattern,omitempty"`
	MaxLaneSpeed   int    `yaml:"max_lane_speed,omitempty"`
	LaneSpeeds     []int  `yaml:"lane_speeds,omitempty"`
	ExcludedSpeeds []int  `yaml:"excluded_speeds,omitempty"`

	JUnitPath string `yaml:"junit,omitempty"`
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "portspeed.yaml"
	}
	return filepath.Join(home, ".portspeed", "settings.yaml")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path. A missing file yields
// empty settings.
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}

	return s, nil
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	// May hold an SSH password.
	return os.WriteFile(path, data, 0600)
}

// Profile returns the switch connection profile.
func (s *Settings) Profile() device.Profile {
	store := device.StoreKind(s.Store)
	if store == "" {
		store = device.StoreCLI
	}
	return device.Profile{
		MgmtIP:    s.Host,
		SSHUser:   s.SSHUser,
		SSHPass:   s.SSHPass,
		SSHPort:   s.SSHPort,
		Store:     store,
		RedisAddr: s.RedisAddr,
	}
}

// SpeedConfig returns the speed-test configuration, filling unset fields
// from speedtest.DefaultConfig.
func (s *Settings) SpeedConfig() speedtest.Config {
	cfg := speedtest.DefaultConfig()
	if s.MaxLaneSpeed != 0 {
		cfg.MaxLaneSpeed = s.MaxLaneSpeed
	}
	if len(s.LaneSpeeds) > 0 {
		cfg.LaneSpeeds = append([]int(nil), s.LaneSpeeds...)
	}
	if s.ExcludedSpeeds != nil {
		cfg.ExcludedSpeeds = append([]int(nil), s.ExcludedSpeeds...)
	}
	if s.DB != 0 {
		cfg.DB = s.DB
	}
	if s.PortPattern != "" {
		cfg.PortPattern = s.PortPattern
	}
	return cfg
}
