package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dshills/datecommit/internal/commit"
	"github.com/dshills/datecommit/internal/lfs"
	"github.com/dshills/datecommit/internal/logging"
	"github.com/dshills/datecommit/internal/partition"
	"github.com/dshills/datecommit/internal/scan"
)

// Config represents the datecommit configuration.
type Config struct {
	ThresholdMB     int64    `mapstructure:"thresholdMB" yaml:"thresholdMB" json:"thresholdMB"`
	TimestampSource string   `mapstructure:"timestampSource" yaml:"timestampSource" json:"timestampSource"`
	LFSMode         string   `mapstructure:"lfsMode" yaml:"lfsMode" json:"lfsMode"`
	IncludeModified bool     `mapstructure:"includeModified" yaml:"includeModified" json:"includeModified"`
	Exclude         []string `mapstructure:"exclude" yaml:"exclude,omitempty" json:"exclude,omitempty"`
	Message         string   `mapstructure:"message" yaml:"message" json:"message"`
	Format          string   `mapstructure:"format" yaml:"format" json:"format"`
	LogLevel        string   `mapstructure:"logLevel" yaml:"logLevel" json:"logLevel"`
}

// envVars maps config keys to the environment variables that set them.
var envVars = map[string]string{
	"thresholdMB":     "DATECOMMIT_THRESHOLD_MB",
	"timestampSource": "DATECOMMIT_TIMESTAMP_SOURCE",
	"lfsMode":         "DATECOMMIT_LFS_MODE",
	"includeModified": "DATECOMMIT_INCLUDE_MODIFIED",
	"exclude":         "DATECOMMIT_EXCLUDE",
	"message":         "DATECOMMIT_MESSAGE",
	"format":          "DATECOMMIT_FORMAT",
	"logLevel":        "DATECOMMIT_LOG_LEVEL",
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		ThresholdMB:     partition.DefaultThresholdMB,
		TimestampSource: string(scan.SourceChange),
		LFSMode:         string(lfs.ModeAuto),
		Message:         commit.DefaultMessage,
		Format:          "text",
		LogLevel:        "info",
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("thresholdMB", d.ThresholdMB)
	v.SetDefault("timestampSource", d.TimestampSource)
	v.SetDefault("lfsMode", d.LFSMode)
	v.SetDefault("includeModified", d.IncludeModified)
	v.SetDefault("exclude", []string{})
	v.SetDefault("message", d.Message)
	v.SetDefault("format", d.Format)
	v.SetDefault("logLevel", d.LogLevel)
}

// ConfigDir returns the platform-appropriate config directory for datecommit.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "datecommit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "datecommit"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "datecommit"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "datecommit"), nil
	default:
		return filepath.Join(home, ".config", "datecommit"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadFile loads only the config file at path (the default path when empty).
// A missing file yields the defaults and a nil error.
func LoadFile(path string) (Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as YAML to path (the default path when empty).
func Save(path string, cfg Config) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// file names an explicit config file that must exist; when empty the default
// path is read if present. The overrides map comes from CLI flags (only flags
// the user set should be present).
func Load(file string, overrides map[string]string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	optional := file == ""
	if optional {
		p, err := ConfigPath()
		if err != nil {
			return Config{}, err
		}
		file = p
	}
	v.SetConfigFile(file)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if !optional || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	for key, env := range envVars {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	for key, value := range overrides {
		if _, ok := envVars[key]; !ok {
			return Config{}, fmt.Errorf("unknown config key: %s", key)
		}
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Exclude = SplitComma(strings.Join(cfg.Exclude, ","))
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field that has a closed set of values.
func Validate(cfg Config) error {
	if cfg.ThresholdMB < 0 {
		return fmt.Errorf("thresholdMB must not be negative: %d", cfg.ThresholdMB)
	}
	if cfg.ThresholdMB > partition.MaxThresholdMB {
		return fmt.Errorf("thresholdMB must be at most %d: %d", int64(partition.MaxThresholdMB), cfg.ThresholdMB)
	}
	if _, err := scan.ParseSource(cfg.TimestampSource); err != nil {
		return err
	}
	if _, err := lfs.ParseMode(cfg.LFSMode); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	switch cfg.Format {
	case "text", "json", "markdown":
	default:
		return fmt.Errorf("unsupported output format: %s", cfg.Format)
	}
	if strings.TrimSpace(cfg.Message) == "" {
		return errors.New("commit message must not be empty")
	}
	return nil
}

// Keys lists the settable config keys in display order.
func Keys() []string {
	return []string{"thresholdMB", "timestampSource", "lfsMode", "includeModified", "exclude", "message", "format", "logLevel"}
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "thresholdMB":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("thresholdMB must be an integer: %w", err)
		}
		cfg.ThresholdMB = n
	case "timestampSource":
		cfg.TimestampSource = value
	case "lfsMode":
		cfg.LFSMode = value
	case "includeModified":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("includeModified must be true or false: %w", err)
		}
		cfg.IncludeModified = b
	case "exclude":
		cfg.Exclude = SplitComma(value)
	case "message":
		cfg.Message = value
	case "format":
		cfg.Format = value
	case "logLevel":
		cfg.LogLevel = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return Validate(*cfg)
}

// SplitComma splits a comma-separated list, dropping empty entries.
func SplitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
