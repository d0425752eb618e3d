// Package config loads the service configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// User maps an API token to an owner name. Every stored record is scoped
// to an owner; the token is what the HTTP layer authenticates with.
type User struct {
	Name  string `yaml:"name"`
	Token string `yaml:"token"`
}

// SeedCategory describes a category created for each configured user on
// first startup.
type SeedCategory struct {
	Name      string `yaml:"name"`
	Color     string `yaml:"color"`
	TextColor string `yaml:"text_color"`
}

// Config is the full service configuration.
type Config struct {
	ListenAddr   string `yaml:"listen_addr"`
	DBPath       string `yaml:"db_path"`
	StartTime    string `yaml:"start_time"` // first visible calendar slot, HH:MM
	EndTime      string `yaml:"end_time"`   // last visible calendar slot, HH:MM
	HideWeekends bool   `yaml:"hide_weekends"`

	Users             []User         `yaml:"users"`
	DefaultCategories []SeedCategory `yaml:"default_categories"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		ListenAddr: ":8099",
		DBPath:     "state/timeblock.db",
		StartTime:  "08:00",
		EndTime:    "20:00",
	}
}

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Load reads the config file at path, falling back to defaults if the file
// does not exist. Environment variables TIMEBLOCK_ADDR and TIMEBLOCK_DB
// override the file values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if addr := os.Getenv("TIMEBLOCK_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if db := os.Getenv("TIMEBLOCK_DB"); db != "" {
		cfg.DBPath = db
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if !clockPattern.MatchString(c.StartTime) {
		return fmt.Errorf("start_time %q is not HH:MM", c.StartTime)
	}
	if !clockPattern.MatchString(c.EndTime) {
		return fmt.Errorf("end_time %q is not HH:MM", c.EndTime)
	}
	seen := map[string]string{}
	for _, u := range c.Users {
		if u.Name == "" || u.Token == "" {
			return fmt.Errorf("every user needs both name and token")
		}
		if prev, ok := seen[u.Token]; ok {
			return fmt.Errorf("token for user %q already used by %q", u.Name, prev)
		}
		seen[u.Token] = u.Name
	}
	return nil
}

// TokenOwner resolves an API token to its owner name.
func (c *Config) TokenOwner(token string) (string, bool) {
	for _, u := range c.Users {
		if u.Token == token {
			return u.Name, true
		}
	}
	return "", false
}
