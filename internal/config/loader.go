package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rileyhilliard/chartty/internal/errors"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = "chartty.yaml"
	// GlobalConfigDir is the directory for the per-user config.
	GlobalConfigDir = ".config/chartty"
	// GlobalConfigFile is the per-user config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. CHARTTY_FETCH_TIMEOUT=2s.
	EnvPrefix = "CHARTTY"
)

// Load reads, defaults, lays out and validates the config at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'chartty init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. chartty.yaml in the current directory
// 3. ~/.config/chartty/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		path := ExpandTilde(explicit)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return path, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads the config found by Find(explicit), or the built-in
// defaults when there is none. The returned path is empty for defaults.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg := DefaultConfig()
		cfg.Charts.Charts = DefaultCharts()
		if err := finish(cfg); err != nil {
			return nil, "", err
		}
		return cfg, "", nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	setDefaults(v)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	if len(cfg.Charts.Charts) == 0 {
		cfg.Charts.Charts = DefaultCharts()
	}

	for ci := range cfg.Charts.Charts {
		for si := range cfg.Charts.Charts[ci].Series {
			s := &cfg.Charts.Charts[ci].Series[si]
			s.Source = Expand(s.Source)
			for k, val := range s.Labels {
				s.Labels[k] = Expand(val)
			}
		}
	}
	cfg.Log.File = ExpandTilde(Expand(cfg.Log.File))

	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finish applies defaults and layout, then validates.
func finish(cfg *Config) error {
	ApplyDefaults(cfg)
	ApplyLayout(&cfg.Charts)
	return Validate(cfg)
}

// setDefaults registers top-level defaults with viper so environment
// overrides (CHARTTY_FETCH_TIMEOUT, CHARTTY_LOG_LEVEL, ...) apply to them.
func setDefaults(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("fetch_timeout", DefaultFetchTimeout.String())
	v.SetDefault("fetch_backoff_max", "0s")
	v.SetDefault("shutdown_timeout", DefaultShutdownTimeout.String())
	v.SetDefault("frame_interval", DefaultFrameInterval.String())
	v.SetDefault("metrics_addr", "")
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.file", "")
	v.SetDefault("log.json", false)
}
