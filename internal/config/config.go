package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"gospc/domain/quality"
	"gospc/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig
	Server   ServerConfig
	Database DatabaseConfig
	Report   ReportConfig
	LogLevel string `validate:"omitempty,oneof=ERROR WARN INFO DEBUG TRACE"`
}

// AnalysisConfig holds the inputs the engines take as explicit arguments
type AnalysisConfig struct {
	Alpha       float64  `validate:"gt=0,lt=1"`
	Policy      string   `validate:"oneof=sample_size nonparametric"`
	Workers     int      `validate:"min=1,max=64"`
	GroupColumn string   `validate:"required"`
	SpecFile    string   `validate:"omitempty,file"`
	Metrics     []string `validate:"dive,required"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `validate:"required,numeric"`
	GinMode string `validate:"oneof=debug release test"`
}

// DatabaseConfig holds the optional run store connection
type DatabaseConfig struct {
	URL    string
	Driver string `validate:"omitempty,oneof=postgres sqlite3"`
}

// Enabled reports whether a run store is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// ReportConfig holds report output settings
type ReportConfig struct {
	OutputDir string   `validate:"required"`
	Formats   []string `validate:"min=1,dive,oneof=csv xlsx html json"`
	Schedule  string   `validate:"omitempty,cronspec"`
}

// CronParser accepts standard 5-field cron expressions
var CronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cronspec", func(fl validator.FieldLevel) bool {
		_, err := CronParser.Parse(fl.Field().String())
		return err == nil
	})
	return v
}

// Load reads an optional .env file, then configuration from environment
// variables, and validates it
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "failed to read .env")
	}
	return FromEnv()
}

// FromEnv builds and validates the configuration from the current environment
func FromEnv() (*Config, error) {
	config := &Config{
		Analysis: loadAnalysisConfig(),
		Server:   loadServerConfig(),
		Database: loadDatabaseConfig(),
		Report:   loadReportConfig(),
		LogLevel: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks struct tags
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "configuration validation failed")
	}
	return nil
}

// TestPolicy returns the parsed selection policy
func (c *Config) TestPolicy() quality.TestPolicy {
	policy, err := quality.ParseTestPolicy(c.Analysis.Policy)
	if err != nil {
		return quality.PolicySampleSize
	}
	return policy
}

// Catalog returns the default catalog with the spec file applied on top
func (c *Config) Catalog() (quality.Catalog, error) {
	catalog := quality.DefaultCatalog()
	if c.Analysis.SpecFile == "" {
		return catalog, nil
	}
	overrides, err := LoadCatalog(c.Analysis.SpecFile)
	if err != nil {
		return nil, err
	}
	return catalog.Merge(overrides), nil
}

func loadAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Alpha:       getEnvFloatOrDefault("SPC_ALPHA", 0.05),
		Policy:      getEnvOrDefault("SPC_TEST_POLICY", string(quality.PolicySampleSize)),
		Workers:     getEnvIntOrDefault("SPC_WORKERS", 4),
		GroupColumn: getEnvOrDefault("SPC_GROUP_COLUMN", quality.DimensionEventName),
		SpecFile:    getEnvOrDefault("SPC_SPEC_FILE", ""),
		Metrics:     getEnvListOrDefault("SPC_METRICS", quality.DefaultHypothesisMetrics()),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	url := getEnvOrDefault("DATABASE_URL", "")
	return DatabaseConfig{
		URL:    url,
		Driver: getEnvOrDefault("DATABASE_DRIVER", DriverFor(url)),
	}
}

func loadReportConfig() ReportConfig {
	return ReportConfig{
		OutputDir: getEnvOrDefault("SPC_OUTPUT_DIR", "spc_report"),
		Formats:   getEnvListOrDefault("SPC_REPORT_FORMATS", []string{"csv", "html"}),
		Schedule:  getEnvOrDefault("REPORT_SCHEDULE", ""),
	}
}

// DriverFor guesses the sql driver from a connection string
func DriverFor(url string) string {
	switch {
	case url == "":
		return ""
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"), strings.Contains(url, "host="):
		return "postgres"
	}
	return "sqlite3"
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
