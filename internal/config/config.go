// internal/config/config.go
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const DefaultDictionary = "dictionaries/large"

type Config struct {
	Dictionary struct {
		Location string `yaml:"location"`
	} `yaml:"dictionary"`

	WordSet struct {
		Buckets       int `yaml:"buckets"`
		MaxWordLength int `yaml:"maxWordLength"`
		MaxEntries    int `yaml:"maxEntries"`
	} `yaml:"wordSet"`

	RateLimit struct {
		RequestsPerSecond int `yaml:"requestsPerSecond"`
		Burst             int `yaml:"burst"`
	} `yaml:"rateLimit"`

	Concurrency int `yaml:"concurrency"`

	HTTPClient struct {
		Timeout      int    `yaml:"timeout"`
		MaxRetries   int    `yaml:"maxRetries"`
		UserAgent    string `yaml:"userAgent"`
		MaxBodyBytes int64  `yaml:"maxBodyBytes"`
	} `yaml:"httpClient"`

	Texts struct {
		File   string `yaml:"file"`
		Format string `yaml:"format"`
	} `yaml:"texts"`

	Output struct {
		TopMisspelledCount int    `yaml:"topMisspelledCount"`
		Format             string `yaml:"format"`
		PrettyPrint        bool   `yaml:"prettyPrint"`
		ListMisspelled     bool   `yaml:"listMisspelled"`
	} `yaml:"output"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	Metrics struct {
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`

	// This will be populated from Texts.File
	TextLocations []string `yaml:"-"`
}

// Load reads the YAML file at path (skipped when path is empty), applies
// .env and SPELLER_* environment overrides, fills defaults and validates.
func Load(path string) (*Config, error) {
	var cfg Config
	// listMisspelled defaults to on, so it is seeded before decoding
	cfg.Output.ListMisspelled = true

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("error opening config file: %w", err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("error decoding config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, fmt.Errorf("error applying environment: %w", err)
	}

	if cfg.Texts.File != "" {
		texts, err := loadTextsFromFile(cfg.Texts.File)
		if err != nil {
			return nil, fmt.Errorf("error loading texts from file: %w", err)
		}
		cfg.TextLocations = texts
	}

	// Set default values
	setDefaults(&cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyEnv overrides file values with SPELLER_* environment variables
func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("SPELLER_DICTIONARY"); ok {
		cfg.Dictionary.Location = v
	}
	if v, ok := os.LookupEnv("SPELLER_TEXTS_FILE"); ok {
		cfg.Texts.File = v
	}
	if v, ok := os.LookupEnv("SPELLER_LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}
	if v, ok := os.LookupEnv("SPELLER_LOG_FORMAT"); ok {
		cfg.Logging.Format = v
	}
	if v, ok := os.LookupEnv("SPELLER_OUTPUT_FORMAT"); ok {
		cfg.Output.Format = v
	}
	if v, ok := os.LookupEnv("SPELLER_METRICS_TEXTFILE"); ok {
		cfg.Metrics.Textfile = v
	}
	if v, ok := os.LookupEnv("SPELLER_CONCURRENCY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SPELLER_CONCURRENCY: %w", err)
		}
		cfg.Concurrency = n
	}
	if v, ok := os.LookupEnv("SPELLER_BUCKETS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SPELLER_BUCKETS: %w", err)
		}
		cfg.WordSet.Buckets = n
	}
	return nil
}

// loadTextsFromFile reads one text location per line
func loadTextsFromFile(filepath string) ([]string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("error opening texts file: %w", err)
	}
	defer file.Close()

	var texts []string
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		location := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if location != "" && !strings.HasPrefix(location, "#") {
			texts = append(texts, location)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading texts file: %w", err)
	}

	return texts, nil
}

// setDefaults sets default values for configuration
func setDefaults(cfg *Config) {
	if cfg.Dictionary.Location == "" {
		cfg.Dictionary.Location = DefaultDictionary
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 4
	}
	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = 5
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 10
	}
	if cfg.HTTPClient.Timeout == 0 {
		cfg.HTTPClient.Timeout = 30
	}
	if cfg.Output.TopMisspelledCount == 0 {
		cfg.Output.TopMisspelledCount = 10
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Dictionary.Location == "" {
		return fmt.Errorf("dictionary location is required")
	}
	if c.WordSet.Buckets < 0 {
		return fmt.Errorf("buckets must not be negative")
	}
	if c.WordSet.MaxWordLength < 0 {
		return fmt.Errorf("maxWordLength must not be negative")
	}
	if c.WordSet.MaxEntries < 0 {
		return fmt.Errorf("maxEntries must not be negative")
	}
	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("requestsPerSecond must be positive")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("output format must be text or json, got %q", c.Output.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}
