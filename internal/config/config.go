// Package config loads blobdiff settings with this precedence, lowest first: built-in defaults, the nearest .blobdiff.json (searched upward from the working
// directory) or an explicit file, then BLOBDIFF_* environment variables. Env names are the upper-cased key with dots replaced by underscores (ex:
// repository.api_key -> BLOBDIFF_REPOSITORY_API_KEY).
//
// Missing, unreadable, or whitespace-only discovered files are skipped. An explicit file that does not exist, a file that does not parse, and values that fail
// validation are errors.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file searched for upward from the working directory.
const FileName = ".blobdiff.json"

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "BLOBDIFF"

// Config is the full set of settings.
type Config struct {
	Repository Repository `mapstructure:"repository"`
	Cache      Cache      `mapstructure:"cache"`
	Diff       Diff       `mapstructure:"diff"`
	Search     Search     `mapstructure:"search"`
	Server     Server     `mapstructure:"server"`
	Log        Log        `mapstructure:"log"`

	// File is the config file that was read, or "" if none.
	File string `mapstructure:"-"`
}

// Repository configures the remote blob repository. An empty URL means identifiers are local file paths.
type Repository struct {
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Cache configures the optional Redis blob cache. An empty RedisAddr disables it.
type Cache struct {
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

type Diff struct {
	Timeout      time.Duration `mapstructure:"timeout"`       // 0 means no limit (deterministic output)
	UTF16Columns bool          `mapstructure:"utf16_columns"` // count marker columns in UTF-16 code units
}

type Search struct {
	CountPreflight bool `mapstructure:"count_preflight"`
}

type Server struct {
	Addr string `mapstructure:"addr"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

// Defaults returns the built-in settings, keyed the way files and env name them.
func Defaults() map[string]any {
	return map[string]any{
		"repository.url":         "",
		"repository.api_key":     "",
		"repository.timeout":     30 * time.Second,
		"cache.redis_addr":       "",
		"cache.ttl":              24 * time.Hour,
		"diff.timeout":           time.Duration(0),
		"diff.utf16_columns":     false,
		"search.count_preflight": true,
		"server.addr":            ":8080",
		"log.level":              "info",
	}
}

// Options controls where Load looks.
type Options struct {
	// Path is an explicit config file. It must exist. "~" is expanded.
	Path string

	// Dir is where the upward search for FileName starts when Path is empty. Defaults to the working directory.
	Dir string
}

// Load reads and validates the configuration.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := ""
	if opts.Path != "" {
		file = ExpandPath(opts.Path)
		if _, err := os.Stat(file); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	} else {
		file = findNearest(FileName, opts.Dir)
	}

	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.File = file

	if err := cfg.Validate(); err != nil {
		if file != "" {
			return nil, fmt.Errorf("config: %s: %w", file, err)
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Repository.URL != "" {
		u, err := url.Parse(c.Repository.URL)
		if err != nil {
			return fmt.Errorf("repository.url: %w", err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("repository.url: %q is not an http(s) URL", c.Repository.URL)
		}
	}
	if c.Repository.Timeout < 0 {
		return errors.New("repository.timeout: must not be negative")
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl: must not be negative")
	}
	if c.Diff.Timeout < 0 {
		return errors.New("diff.timeout: must not be negative")
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	return nil
}

// Remote reports whether identifiers resolve through the repository API.
func (c *Config) Remote() bool {
	return c.Repository.URL != ""
}

// findNearest searches upward from start (or the working directory) for the first readable, non-empty fileName. It returns "" if none is found.
func findNearest(fileName, start string) string {
	if start == "" {
		if wd, err := os.Getwd(); err == nil {
			start = wd
		}
	}
	if start == "" {
		return ""
	}
	if fi, err := os.Stat(start); err == nil && !fi.IsDir() {
		start = filepath.Dir(start)
	}

	for dir := start; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, fileName)
		if data, err := os.ReadFile(candidate); err == nil && strings.TrimSpace(string(data)) != "" {
			return candidate
		}
		if parent := filepath.Dir(dir); parent == dir {
			return ""
		}
	}
}

// ExpandPath expands a leading "~" to the user's home directory and makes the result absolute.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}

	expanded := path
	if strings.HasPrefix(expanded, "~") {
		if home, _ := os.UserHomeDir(); home != "" {
			switch {
			case expanded == "~" || expanded == "~/" || expanded == `~\`:
				expanded = home
			case strings.HasPrefix(expanded, "~/") || strings.HasPrefix(expanded, `~\`):
				expanded = filepath.Join(home, expanded[2:])
			}
		}
	}

	if !filepath.IsAbs(expanded) {
		if abs, err := filepath.Abs(expanded); err == nil {
			expanded = abs
		}
	}
	return expanded
}
