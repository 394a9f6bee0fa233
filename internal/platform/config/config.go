package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	errInvalidPort           = errors.New("config: invalid PORT number")
	errConcurrencyOutOfRange = errors.New("config: LINK_CHECK_CONCURRENCY must be 1-100")
	errTopNOutOfRange        = errors.New("config: KEYWORD_TOP_N must be 1-100")
	errInvalidFetchMode      = errors.New("config: FETCH_MODE must be static or rendered")
	errNonPositiveDuration   = errors.New("config: timeout must be positive")
	errNegativeRate          = errors.New("config: LINK_CHECK_RPS must not be negative")
	errMaxLinksOutOfRange    = errors.New("config: LINK_CHECK_MAX_LINKS must be at least 1")
	errEmptyReportPath       = errors.New("config: REPORT_PATH must not be empty")
)

// Config holds all application configuration. Values come from built-in
// defaults, then an optional YAML file named by CONFIG_FILE, then environment
// variables.
type Config struct {
	Port string `yaml:"port"`

	LogLevel      string `yaml:"log_level"`
	LogFile       string `yaml:"log_file"`
	LogMaxSizeMB  int    `yaml:"log_max_size_mb"`
	LogMaxBackups int    `yaml:"log_max_backups"`
	LogMaxAgeDays int    `yaml:"log_max_age_days"`

	FetchMode            string        `yaml:"fetch_mode"`
	FetchTimeout         time.Duration `yaml:"fetch_timeout"`
	RenderTimeout        time.Duration `yaml:"render_timeout"`
	ChromePath           string        `yaml:"chrome_path"`
	ScreenshotDir        string        `yaml:"screenshot_dir"`
	AllowPrivateNetworks bool          `yaml:"allow_private_networks"`

	LinkCheckConcurrency int           `yaml:"link_check_concurrency"`
	LinkCheckTimeout     time.Duration `yaml:"link_check_timeout"`
	LinkCheckRPS         float64       `yaml:"link_check_rps"`
	LinkCheckMaxLinks    int           `yaml:"link_check_max_links"`

	KeywordTopN    int      `yaml:"keyword_top_n"`
	ExtraStopWords []string `yaml:"extra_stop_words"`

	ReportPath string `yaml:"report_path"`
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() Config {
	return Config{
		Port:                 "8080",
		LogLevel:             "ERROR",
		LogMaxSizeMB:         10,
		LogMaxBackups:        3,
		LogMaxAgeDays:        7,
		FetchMode:            "static",
		FetchTimeout:         10 * time.Second,
		RenderTimeout:        30 * time.Second,
		ScreenshotDir:        "static",
		LinkCheckConcurrency: 10,
		LinkCheckTimeout:     3 * time.Second,
		LinkCheckMaxLinks:    1000,
		KeywordTopN:          10,
		ReportPath:           "seo_report.txt",
	}
}

// Load reads configuration from an optional YAML file and environment
// variables with sensible defaults.
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
	c.LogMaxSizeMB = getEnvAsInt("LOG_MAX_SIZE_MB", c.LogMaxSizeMB)
	c.LogMaxBackups = getEnvAsInt("LOG_MAX_BACKUPS", c.LogMaxBackups)
	c.LogMaxAgeDays = getEnvAsInt("LOG_MAX_AGE_DAYS", c.LogMaxAgeDays)

	c.FetchMode = strings.ToLower(getEnv("FETCH_MODE", c.FetchMode))
	c.FetchTimeout = getEnvAsDuration("FETCH_TIMEOUT", c.FetchTimeout)
	c.RenderTimeout = getEnvAsDuration("RENDER_TIMEOUT", c.RenderTimeout)
	c.ChromePath = getEnv("CHROME_PATH", c.ChromePath)
	c.ScreenshotDir = getEnv("SCREENSHOT_DIR", c.ScreenshotDir)
	c.AllowPrivateNetworks = getEnvAsBool("ALLOW_PRIVATE_NETWORKS", c.AllowPrivateNetworks)

	c.LinkCheckConcurrency = getEnvAsInt("LINK_CHECK_CONCURRENCY", c.LinkCheckConcurrency)
	c.LinkCheckTimeout = getEnvAsDuration("LINK_CHECK_TIMEOUT", c.LinkCheckTimeout)
	c.LinkCheckRPS = getEnvAsFloat("LINK_CHECK_RPS", c.LinkCheckRPS)
	c.LinkCheckMaxLinks = getEnvAsInt("LINK_CHECK_MAX_LINKS", c.LinkCheckMaxLinks)

	c.KeywordTopN = getEnvAsInt("KEYWORD_TOP_N", c.KeywordTopN)
	c.ExtraStopWords = getEnvAsSlice("EXTRA_STOP_WORDS", c.ExtraStopWords)

	c.ReportPath = getEnv("REPORT_PATH", c.ReportPath)
}

// Validate checks ranges and enumerations. Load calls it; callers that
// override fields afterwards call it again.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	if c.LinkCheckConcurrency < 1 || c.LinkCheckConcurrency > 100 {
		return fmt.Errorf("%w: got %d", errConcurrencyOutOfRange, c.LinkCheckConcurrency)
	}

	if c.KeywordTopN < 1 || c.KeywordTopN > 100 {
		return fmt.Errorf("%w: got %d", errTopNOutOfRange, c.KeywordTopN)
	}

	if c.FetchMode != "static" && c.FetchMode != "rendered" {
		return fmt.Errorf("%w: %q", errInvalidFetchMode, c.FetchMode)
	}

	for name, d := range map[string]time.Duration{
		"FETCH_TIMEOUT":      c.FetchTimeout,
		"RENDER_TIMEOUT":     c.RenderTimeout,
		"LINK_CHECK_TIMEOUT": c.LinkCheckTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s=%s", errNonPositiveDuration, name, d)
		}
	}

	if c.LinkCheckRPS < 0 {
		return fmt.Errorf("%w: got %g", errNegativeRate, c.LinkCheckRPS)
	}

	if c.LinkCheckMaxLinks < 1 {
		return fmt.Errorf("%w: got %d", errMaxLinksOutOfRange, c.LinkCheckMaxLinks)
	}

	if strings.TrimSpace(c.ReportPath) == "" {
		return errEmptyReportPath
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsFloat(key string, fallback float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsBool(key string, fallback bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsSlice(key string, fallback []string) []string {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
