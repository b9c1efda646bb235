package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	xdgAppName = "taskcal"
	configFile = "config.json"

	DefaultCalendar = "Tasks"
	DefaultLocale   = "en"
	DefaultView     = "month"
	dbFile          = "taskcal.db"
)

type Config struct {
	Calendar string   `json:"calendar"`
	Locale   string   `json:"locale,omitempty"`
	DB       string   `json:"db,omitempty"`
	View     string   `json:"view,omitempty"`
	OrgFiles []string `json:"orgFiles,omitempty"`
}

// Dir returns ~/.config/taskcal. TASKCAL_CONFIG_DIR overrides it.
func Dir() (string, error) {
	if dir, ok := GetEnv[string]("TASKCAL_CONFIG_DIR"); ok {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the config file, falling back to defaults when it does not
// exist, and then applies TASKCAL_* environment overrides.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	cfg.applyEnv()
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := GetEnv[string]("TASKCAL_CALENDAR"); ok {
		c.Calendar = v
	}
	if v, ok := GetEnv[string]("TASKCAL_LOCALE"); ok {
		c.Locale = v
	}
	if v, ok := GetEnv[string]("TASKCAL_DB"); ok {
		c.DB = v
	}
	if v, ok := GetEnv[string]("TASKCAL_VIEW"); ok {
		c.View = v
	}
}

func (c *Config) applyDefaults() error {
	if c.Calendar == "" {
		c.Calendar = DefaultCalendar
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.View == "" {
		c.View = DefaultView
	}
	if c.DB == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		c.DB = filepath.Join(dir, dbFile)
	}
	return nil
}

func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}
