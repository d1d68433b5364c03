package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/audimatch/pkg/audimatch/audience"
	"github.com/cognicore/audimatch/pkg/audimatch/internalerr"
	"github.com/cognicore/audimatch/pkg/audimatch/keywords"
)

// Catalog source kinds.
const (
	SourceYAML   = "yaml"
	SourceXLSX   = "xlsx"
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// Config holds the audimatch service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Logging   LoggingConfig   `yaml:"logging"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Resources ResourcesConfig `yaml:"resources"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Env   string `yaml:"env"`   // local, dev, prod (default: $ENV or local)
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AnalysisConfig tunes keyword extraction, heat scoring and generation.
type AnalysisConfig struct {
	TopN         int     `yaml:"top_n"`
	FoldWidth    bool    `yaml:"fold_width"`
	Seed         uint64  `yaml:"seed"`          // 0 = random per article
	MarketWeight float64 `yaml:"market_weight"` // default 1.0
}

// CatalogConfig says where the audience catalog comes from.
type CatalogConfig struct {
	Source         string `yaml:"source"` // yaml, xlsx, csv, sqlite (default: from path extension)
	Path           string `yaml:"path"`
	Sheet          string `yaml:"sheet"`
	NameColumn     string `yaml:"name_column"`
	KeywordsColumn string `yaml:"keywords_column"`
	Duplicates     string `yaml:"duplicates"` // keep, reject, merge
}

// ResourcesConfig points at optional analysis resource files.
type ResourcesConfig struct {
	Stoplist string `yaml:"stoplist"`
	Dict     string `yaml:"dict"`
}

// Load reads configuration from a YAML file, applies defaults and validates
// the result. Relative file paths inside the config are resolved against the
// config file's directory.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Read parses a config file without applying defaults or validating, so
// callers can apply overrides first.
func Read(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Logging.Env == "" {
		c.Logging.Env = GetEnv()
	}
	if c.Analysis.TopN == 0 {
		c.Analysis.TopN = keywords.DefaultTopN
	}
	if c.Analysis.MarketWeight == 0 {
		c.Analysis.MarketWeight = 1.0
	}
	if c.Catalog.Source == "" {
		c.Catalog.Source = sourceFromPath(c.Catalog.Path)
	}
	if c.Catalog.Duplicates == "" {
		c.Catalog.Duplicates = string(audience.DuplicatesKeep)
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("%w: http.port must be between 1 and 65535, got %d", internalerr.ErrInvalidConfig, c.HTTP.Port)
	}
	if c.Analysis.TopN < 0 {
		return fmt.Errorf("%w: analysis.top_n must not be negative, got %d", internalerr.ErrInvalidConfig, c.Analysis.TopN)
	}
	if c.Analysis.MarketWeight < 0 {
		return fmt.Errorf("%w: analysis.market_weight must not be negative, got %g", internalerr.ErrInvalidConfig, c.Analysis.MarketWeight)
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("%w: catalog.path is required", internalerr.ErrInvalidConfig)
	}
	switch c.Catalog.Source {
	case SourceYAML, SourceXLSX, SourceCSV, SourceSQLite:
		// ok
	default:
		return fmt.Errorf("%w: catalog.source must be one of yaml, xlsx, csv, sqlite, got %q",
			internalerr.ErrInvalidConfig, c.Catalog.Source)
	}
	if _, err := audience.ParseDuplicatePolicy(c.Catalog.Duplicates); err != nil {
		return fmt.Errorf("%w: catalog.duplicates: %v", internalerr.ErrInvalidConfig, err)
	}
	return nil
}

// DuplicatePolicy returns the parsed catalog duplicate policy.
// Validate has already rejected unknown values.
func (c *Config) DuplicatePolicy() audience.DuplicatePolicy {
	p, _ := audience.ParseDuplicatePolicy(c.Catalog.Duplicates)
	return p
}

func (c *Config) resolvePaths(dir string) {
	for _, p := range []*string{&c.Catalog.Path, &c.Resources.Stoplist, &c.Resources.Dict} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

func sourceFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return SourceXLSX
	case ".csv":
		return SourceCSV
	case ".db", ".sqlite", ".sqlite3":
		return SourceSQLite
	default:
		return SourceYAML
	}
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
