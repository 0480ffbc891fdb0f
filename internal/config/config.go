// Package config loads daemon settings from file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the daemon settings.
type Config struct {
	Listen        string        `mapstructure:"listen"`
	ProfilePath   string        `mapstructure:"profile_path"`
	DeviceName    string        `mapstructure:"device_name"`
	CycleInterval time.Duration `mapstructure:"cycle_interval"`
	LogLevel      string        `mapstructure:"log_level"`
	Autostart     bool          `mapstructure:"autostart"`
	NoTray        bool          `mapstructure:"no_tray"`
}

// URL returns the address of the web interface as a browsable URL.
func (c *Config) URL() string {
	host := c.Listen
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	return "http://" + host
}

// ConfigDir returns the directory holding the config and profile files.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(base, "keymapper"), nil
}

// RegisterFlags declares the command line flags on the given flag set.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("listen", ":8080", "address for the web interface")
	flags.String("profile-path", "", "path to the mapping profile file")
	flags.String("device-name", "KeyMapper Xbox 360 Pad", "name of the virtual gamepad device")
	flags.Duration("cycle-interval", 10*time.Millisecond, "mapping cycle interval")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.Bool("autostart", false, "start mapping immediately")
	flags.Bool("no-tray", false, "run without the system tray icon")
}

// Load resolves the configuration with flags taking precedence over
// environment variables, which take precedence over the config file.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	v.AddConfigPath(dir)
	v.AddConfigPath(".")

	v.SetEnvPrefix("KEYMAPPER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	setDefaults(v, dir)

	if flags != nil {
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(fmt.Sprintf("failed to bind flag %s: %v", f.Name, err))
			}
		})
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	normalize(cfg, dir)

	return cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("listen", ":8080")
	v.SetDefault("profile_path", filepath.Join(dir, "profile.json"))
	v.SetDefault("device_name", "KeyMapper Xbox 360 Pad")
	v.SetDefault("cycle_interval", 10*time.Millisecond)
	v.SetDefault("log_level", "info")
	v.SetDefault("autostart", false)
	v.SetDefault("no_tray", false)
}

func normalize(cfg *Config, dir string) {
	if cfg.ProfilePath == "" {
		cfg.ProfilePath = filepath.Join(dir, "profile.json")
	}
	if cfg.CycleInterval <= 0 {
		cfg.CycleInterval = 10 * time.Millisecond
	}
	if cfg.DeviceName == "" {
		cfg.DeviceName = "KeyMapper Xbox 360 Pad"
	}
}
