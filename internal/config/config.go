package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	User     UserConfig     `toml:"user"`
	Store    StoreConfig    `toml:"store"`
	Server   ServerConfig   `toml:"server"`
	Planning PlanningConfig `toml:"planning"`
	Share    ShareConfig    `toml:"share"`
	Log      LogConfig      `toml:"log"`
}

type UserConfig struct {
	// ID scopes which schedules the CLI sees in the store.
	ID string `toml:"id"`
}

type StoreConfig struct {
	Path string `toml:"path"` // empty means ~/.config/capplan/capplan.db
}

type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type PlanningConfig struct {
	DefaultWeeks   int     `toml:"default_weeks"`
	WorkingDays    int     `toml:"working_days"`
	FRCapacityDays float64 `toml:"fr_capacity_days"`
	StrictResize   bool    `toml:"strict_resize"`
}

type ShareConfig struct {
	BaseURL string `toml:"base_url"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func DefaultConfig() Config {
	return Config{
		User: UserConfig{ID: "local"},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Planning: PlanningConfig{
			DefaultWeeks:   6,
			WorkingDays:    5,
			FRCapacityDays: 3,
		},
		Share: ShareConfig{BaseURL: "http://localhost:3000"},
		Log:   LogConfig{Level: "info"},
	}
}

func ConfigDir() (string, error) {
	if dir := os.Getenv("CAPPLAN_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "capplan"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file from ConfigPath.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads path over the defaults. A missing file yields the
// defaults. Environment overrides apply either way.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(&cfg)
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	if c.Planning.DefaultWeeks < 0 {
		return fmt.Errorf("planning.default_weeks must not be negative")
	}
	if c.Planning.WorkingDays < 0 || c.Planning.WorkingDays > 7 {
		return fmt.Errorf("planning.working_days must be between 0 and 7")
	}
	if c.Planning.FRCapacityDays < 0 {
		return fmt.Errorf("planning.fr_capacity_days must not be negative")
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CAPPLAN_OWNER"); v != "" {
		cfg.User.ID = v
	}
	if v := os.Getenv("CAPPLAN_DB_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("CAPPLAN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("CAPPLAN_SHARE_BASE_URL"); v != "" {
		cfg.Share.BaseURL = v
	}
	if v := os.Getenv("CAPPLAN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// WriteDefault writes the default config to path unless a file exists.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	out, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}
