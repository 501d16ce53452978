package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/arthurssouza42/fit/internal/catalog"
	"github.com/arthurssouza42/fit/internal/model"
	"github.com/arthurssouza42/fit/internal/service"
)

const (
	BackendSQLite = "sqlite"
	BackendCSV    = "csv"

	EnvPrefix = "FIT_"
	EnvDB     = "FIT_DB"
	EnvConfig = "FIT_CONFIG"
)

type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Search  SearchConfig  `yaml:"search"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Targets TargetsConfig `yaml:"targets"`
}

type CatalogConfig struct {
	Path string `yaml:"path"`
	// Delimiter is ";", ",", "tab" or empty for auto-detection.
	Delimiter string `yaml:"delimiter"`
}

type SearchConfig struct {
	MaxResults     int     `yaml:"max_results"`
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"`
	LogPath string `yaml:"log_path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TargetsConfig struct {
	EnergyKcal    float64 `yaml:"energy_kcal"`
	ProteinG      float64 `yaml:"protein_g"`
	CarbohydrateG float64 `yaml:"carbohydrate_g"`
	FatG          float64 `yaml:"fat_g"`
}

func (t TargetsConfig) Targets() model.Targets {
	return model.Targets{EnergyKcal: t.EnergyKcal, ProteinG: t.ProteinG, CarbohydrateG: t.CarbohydrateG, FatG: t.FatG}
}

const (
	configTargetsEnergy  = "targets.energy_kcal"
	configTargetsProtein = "targets.protein_g"
	configTargetsCarbs   = "targets.carbohydrate_g"
	configTargetsFat     = "targets.fat_g"
)

// EnvKeys are the keys that can be overridden from the environment, as
// FIT_ followed by the key upper-cased with dots turned into underscores.
var EnvKeys = append(append([]string(nil), service.ConfigKeys...),
	configTargetsEnergy, configTargetsProtein, configTargetsCarbs, configTargetsFat)

func Defaults() Config {
	return Config{
		Catalog: CatalogConfig{Path: "alimentos.csv"},
		Search: SearchConfig{
			MaxResults:     catalog.DefaultMaxResults,
			FuzzyThreshold: catalog.DefaultFuzzyThreshold,
		},
		Storage: StorageConfig{Backend: BackendSQLite},
		Log:     LogConfig{Level: "warn"},
		Targets: TargetsConfig{
			EnergyKcal:    service.DefaultTargets.EnergyKcal,
			ProteinG:      service.DefaultTargets.ProteinG,
			CarbohydrateG: service.DefaultTargets.CarbohydrateG,
			FatG:          service.DefaultTargets.FatG,
		},
	}
}

// ReadConfigFile overlays the YAML file at path onto cfg. A missing file is
// not an error unless required is set.
func ReadConfigFile(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg.Validate()
}

// LoadDotEnv loads .env from the working directory when present. Variables
// already set in the environment win.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// ApplyValues sets every known key found in values.
func (c *Config) ApplyValues(values map[string]string) error {
	for key, value := range values {
		if err := c.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// ApplyEnv overlays FIT_* environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, key := range EnvKeys {
		if value, ok := lookup(EnvName(key)); ok {
			if err := c.Set(key, value); err != nil {
				return fmt.Errorf("%s: %w", EnvName(key), err)
			}
		}
	}
	return nil
}

func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Set assigns one dotted key.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	var err error
	switch strings.ToLower(strings.TrimSpace(key)) {
	case service.ConfigCatalogPath:
		c.Catalog.Path = value
	case service.ConfigCatalogDelimiter:
		if _, err := ParseDelimiter(value); err != nil {
			return err
		}
		c.Catalog.Delimiter = value
	case service.ConfigSearchMaxResults:
		n, convErr := strconv.Atoi(value)
		if convErr != nil {
			return fmt.Errorf("invalid %s %q", key, value)
		}
		c.Search.MaxResults = n
	case service.ConfigFuzzyThreshold:
		err = setFloat(&c.Search.FuzzyThreshold, key, value)
	case service.ConfigStorageBackend:
		c.Storage.Backend = strings.ToLower(value)
	case service.ConfigStorageLogPath:
		c.Storage.LogPath = value
	case service.ConfigLogLevel:
		c.Log.Level = value
	case configTargetsEnergy:
		err = setFloat(&c.Targets.EnergyKcal, key, value)
	case configTargetsProtein:
		err = setFloat(&c.Targets.ProteinG, key, value)
	case configTargetsCarbs:
		err = setFloat(&c.Targets.CarbohydrateG, key, value)
	case configTargetsFat:
		err = setFloat(&c.Targets.FatG, key, value)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	if err != nil {
		return err
	}
	return c.Validate()
}

func setFloat(dst *float64, key, value string) error {
	v, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q", key, value)
	}
	*dst = v
	return nil
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendCSV:
	default:
		return fmt.Errorf("unknown storage backend %q (use %s or %s)", c.Storage.Backend, BackendSQLite, BackendCSV)
	}
	if c.Search.FuzzyThreshold < 0 || c.Search.FuzzyThreshold >= 1 {
		return fmt.Errorf("search.fuzzy_threshold must be in [0, 1)")
	}
	if _, err := ParseDelimiter(c.Catalog.Delimiter); err != nil {
		return err
	}
	return nil
}

// ParseDelimiter maps the configured delimiter to a rune; 0 means detect.
func ParseDelimiter(value string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return 0, nil
	case ";", "semicolon":
		return ';', nil
	case ",", "comma":
		return ',', nil
	case "tab", `\t`:
		return '\t', nil
	}
	return 0, fmt.Errorf("unsupported delimiter %q (use ;, , or tab)", value)
}

// Get formats the current value of a dotted key.
func (c Config) Get(key string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case service.ConfigCatalogPath:
		return c.Catalog.Path, nil
	case service.ConfigCatalogDelimiter:
		return c.Catalog.Delimiter, nil
	case service.ConfigSearchMaxResults:
		return strconv.Itoa(c.Search.MaxResults), nil
	case service.ConfigFuzzyThreshold:
		return formatFloat(c.Search.FuzzyThreshold), nil
	case service.ConfigStorageBackend:
		return c.Storage.Backend, nil
	case service.ConfigStorageLogPath:
		return c.Storage.LogPath, nil
	case service.ConfigLogLevel:
		return c.Log.Level, nil
	case configTargetsEnergy:
		return formatFloat(c.Targets.EnergyKcal), nil
	case configTargetsProtein:
		return formatFloat(c.Targets.ProteinG), nil
	case configTargetsCarbs:
		return formatFloat(c.Targets.CarbohydrateG), nil
	case configTargetsFat:
		return formatFloat(c.Targets.FatG), nil
	}
	return "", fmt.Errorf("unknown config key %q", key)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
