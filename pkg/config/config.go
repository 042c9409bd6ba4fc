// Package config loads the admin application file (database, uploads and
// section definitions) from JSON or YAML and overlays environment variables,
// optionally read from .env files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-admingen/pkg/i18n"
	"github.com/goliatone/go-admingen/pkg/modelconfig"
	"github.com/goliatone/go-admingen/pkg/repository"
)

// Environment variables overriding the file.
const (
	EnvDBDriver  = "ADMINGEN_DB_DRIVER"
	EnvDBDSN     = "ADMINGEN_DB_DSN"
	EnvUploadDir = "ADMINGEN_UPLOAD_DIR"
	EnvLocale    = "ADMINGEN_LOCALE"
)

// Defaults applied when neither the file nor the environment set a value.
const (
	DefaultDriver    = "sqlite"
	DefaultDSN       = "file:admingen.db"
	DefaultUploadDir = "uploads"
	DefaultUploadURL = "/uploads"
)

// Config is the normalised application configuration.
type Config struct {
	Database     Database                     `json:"database" yaml:"database"`
	Uploads      Uploads                      `json:"uploads" yaml:"uploads"`
	Locale       string                       `json:"locale" yaml:"locale"`
	Translations map[string]map[string]string `json:"translations" yaml:"translations"`
	Sections     []Section                    `json:"sections" yaml:"sections"`

	// Source is the file the configuration was read from, if any.
	Source string `json:"-" yaml:"-"`
}

// Database selects the repository backend.
type Database struct {
	Driver        string `json:"driver" yaml:"driver"`
	DSN           string `json:"dsn" yaml:"dsn"`
	SlowThreshold string `json:"slowThreshold" yaml:"slowThreshold"`
	MaxOpenConns  int    `json:"maxOpenConns" yaml:"maxOpenConns"`
}

// Uploads configures local file storage.
type Uploads struct {
	Dir     string `json:"dir" yaml:"dir"`
	BaseURL string `json:"baseURL" yaml:"baseURL"`
}

// Section describes one admin section. Model names a class registered with
// BuildRegistry. Unset permissions default to allowed.
type Section struct {
	Alias       string `json:"alias" yaml:"alias"`
	Model       string `json:"model" yaml:"model"`
	Title       string `json:"title" yaml:"title"`
	URLPrefix   string `json:"urlPrefix" yaml:"urlPrefix"`
	Editable    *bool  `json:"editable" yaml:"editable"`
	Deletable   *bool  `json:"deletable" yaml:"deletable"`
	Destroyable *bool  `json:"destroyable" yaml:"destroyable"`
	Restorable  *bool  `json:"restorable" yaml:"restorable"`
}

// Default returns the configuration used without a file.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads path, applies the environment overrides and validates the
// result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return parse(data, path)
}

// LoadFS reads path from fsys.
func LoadFS(fsys fs.FS, path string) (Config, error) {
	if fsys == nil {
		return Config{}, errors.New("config: filesystem is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return parse(data, path)
}

func parse(data []byte, source string) (Config, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Config{}, fmt.Errorf("config: file %s is empty", source)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		cfg = Config{}
		if yerr := yaml.Unmarshal(data, &cfg); yerr != nil {
			return Config{}, fmt.Errorf("config: parse %s: invalid JSON or YAML", source)
		}
	}
	cfg.Source = source

	if err := cfg.normalise(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalise() error {
	c.ApplyEnv()
	c.applyDefaults()

	if _, err := c.Database.slowThreshold(); err != nil {
		return fmt.Errorf("config: file %s: %w", c.Source, err)
	}

	seen := make(map[string]bool, len(c.Sections))
	for idx := range c.Sections {
		section := &c.Sections[idx]
		section.Alias = strings.TrimSpace(section.Alias)
		section.Model = strings.TrimSpace(section.Model)
		if section.Alias == "" {
			return fmt.Errorf("config: file %s: section %d has no alias", c.Source, idx)
		}
		if section.Model == "" {
			return fmt.Errorf("config: file %s: section %q has no model", c.Source, section.Alias)
		}
		if seen[section.Alias] {
			return fmt.Errorf("config: file %s: duplicate section %q", c.Source, section.Alias)
		}
		seen[section.Alias] = true
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = DefaultDriver
	}
	if c.Database.DSN == "" {
		c.Database.DSN = DefaultDSN
	}
	if c.Uploads.Dir == "" {
		c.Uploads.Dir = DefaultUploadDir
	}
	if c.Uploads.BaseURL == "" {
		c.Uploads.BaseURL = DefaultUploadURL
	}
	if c.Locale == "" {
		c.Locale = "en"
	}
}

// ApplyEnv overrides file values with the ADMINGEN_* variables that are set.
func (c *Config) ApplyEnv() {
	c.Database.Driver = Env(EnvDBDriver, c.Database.Driver)
	c.Database.DSN = Env(EnvDBDSN, c.Database.DSN)
	c.Uploads.Dir = Env(EnvUploadDir, c.Uploads.Dir)
	c.Locale = Env(EnvLocale, c.Locale)
}

// Env returns the value of key, or fallback when it is unset or blank.
func Env(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

// LoadEnv loads variables from the given .env files into the process
// environment without overriding variables already set. Missing files are
// skipped; with no arguments ".env" is tried.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: stat %s: %w", file, err)
		}
		present = append(present, file)
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("config: load env %s: %w", strings.Join(present, ", "), err)
	}
	return nil
}

// OpenOptions converts the database settings for repository.Open.
func (d Database) OpenOptions() repository.OpenOptions {
	slow, _ := d.slowThreshold()
	return repository.OpenOptions{SlowThreshold: slow, MaxOpenConns: d.MaxOpenConns}
}

func (d Database) slowThreshold() (time.Duration, error) {
	raw := strings.TrimSpace(d.SlowThreshold)
	if raw == "" {
		return 0, nil
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("database slowThreshold %q: %w", raw, err)
	}
	return parsed, nil
}

// UploadRoot returns the upload directory made absolute against the config
// file location.
func (c Config) UploadRoot() string {
	if filepath.IsAbs(c.Uploads.Dir) || c.Source == "" {
		return c.Uploads.Dir
	}
	return filepath.Join(filepath.Dir(c.Source), c.Uploads.Dir)
}

// Localizer returns a localizer over the configured translations.
func (c Config) Localizer() i18n.Localizer {
	if len(c.Translations) == 0 {
		return i18n.Localizer{Locale: c.Locale}
	}
	return i18n.Localizer{Translator: i18n.Catalog(c.Translations), Locale: c.Locale}
}

// BuildRegistry registers every section against the class named by its
// model. Extra options are applied to every section.
func BuildRegistry(cfg Config, classes map[string]reflect.Type, options ...modelconfig.SectionOption) (*modelconfig.Registry, error) {
	registry := modelconfig.NewRegistry()
	for _, def := range cfg.Sections {
		class, ok := classes[def.Model]
		if !ok {
			return nil, fmt.Errorf("config: section %q: unknown model %q", def.Alias, def.Model)
		}

		var opts []modelconfig.SectionOption
		if def.Title != "" {
			opts = append(opts, modelconfig.WithTitle(def.Title))
		}
		if def.URLPrefix != "" {
			opts = append(opts, modelconfig.WithURLPrefix(def.URLPrefix))
		}
		if def.Editable != nil {
			opts = append(opts, modelconfig.WithEditGate(modelconfig.Allow(*def.Editable)))
		}
		if def.Deletable != nil {
			opts = append(opts, modelconfig.WithDeleteGate(modelconfig.Allow(*def.Deletable)))
		}
		if def.Destroyable != nil {
			opts = append(opts, modelconfig.WithDestroyGate(modelconfig.Allow(*def.Destroyable)))
		}
		if def.Restorable != nil {
			opts = append(opts, modelconfig.WithRestoreGate(modelconfig.Allow(*def.Restorable)))
		}
		opts = append(opts, options...)

		section, err := modelconfig.NewSection(def.Alias, class, opts...)
		if err != nil {
			return nil, fmt.Errorf("config: section %q: %w", def.Alias, err)
		}
		if err := registry.RegisterSection(section); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return registry, nil
}
