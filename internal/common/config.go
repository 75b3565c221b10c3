package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Logging     LoggingConfig  `toml:"logging"`
	Analysis    AnalysisConfig `toml:"analysis"`
	Learning    LearningConfig `toml:"learning"`
	Roles       RolesConfig    `toml:"roles"`
	Reports     ReportsConfig  `toml:"reports"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Type   string       `toml:"type"` // "badger" is the only supported backend
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05.000")
}

// AnalysisConfig contains the statistical detector parameters
type AnalysisConfig struct {
	TrendMinPoints       int     `toml:"trend_min_points"`      // Minimum rows for trend regression
	TrendColumnLimit     int     `toml:"trend_column_limit"`    // Numeric columns sampled for trend analysis
	AnomalyMinPoints     int     `toml:"anomaly_min_points"`    // Minimum rows for z-score analysis
	AnomalyColumnLimit   int     `toml:"anomaly_column_limit"`  // Numeric columns sampled for anomaly analysis
	AnomalyZThreshold    float64 `toml:"anomaly_z_threshold"`   // |z| above which a point is flagged
	AnomalyMaxReported   int     `toml:"anomaly_max_reported"`  // Cap on anomalies per insight
	CorrelationThreshold float64 `toml:"correlation_threshold"` // Minimum |r| to report a pair
	ComparisonTopN       int     `toml:"comparison_top_n"`      // Adjacent-rank pairs compared
	MaxInsights          int     `toml:"max_insights"`          // Default quota when no role is supplied
}

// LearningConfig contains the feedback learning loop parameters
type LearningConfig struct {
	Enabled            bool    `toml:"enabled"`              // Run scheduled adaptation passes
	FeedbackWindowDays int     `toml:"feedback_window_days"` // Trailing window for summaries and metrics
	AdaptationSchedule string  `toml:"adaptation_schedule"`  // Cron schedule for adaptation passes
	LowRatingThreshold float64 `toml:"low_rating_threshold"` // Average rating below which an insight needs improvement
}

// RolesConfig contains configuration for role requirement definitions
type RolesConfig struct {
	DefinitionsDir string `toml:"definitions_dir"` // Directory containing role requirement files (TOML)
}

// ReportsConfig contains configuration for rendered report output
type ReportsConfig struct {
	OutputDir string `toml:"output_dir"` // Directory for rendered HTML/PDF reports
}

// NewDefaultConfig creates a configuration with default values
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in indago.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Type: "badger",
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",                     // Info level for production (debug|info|warn|error)
			Format: "text",                     // Human-readable text format (text|json)
			Output: []string{"stdout", "file"}, // Log to both console and file
		},
		Analysis: AnalysisConfig{
			TrendMinPoints:       10,
			TrendColumnLimit:     3,
			AnomalyMinPoints:     10,
			AnomalyColumnLimit:   2,
			AnomalyZThreshold:    2.0,
			AnomalyMaxReported:   5,
			CorrelationThreshold: 0.5,
			ComparisonTopN:       3,
			MaxInsights:          10,
		},
		Learning: LearningConfig{
			Enabled:            true,
			FeedbackWindowDays: 30,
			AdaptationSchedule: "0 */6 * * *", // Every 6 hours
			LowRatingThreshold: 3.0,
		},
		Roles: RolesConfig{
			DefinitionsDir: "./roles", // Default directory for user-defined role files
		},
		Reports: ReportsConfig{
			OutputDir: "./reports",
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
// Priority system: CLI flags > Environment variables > Config file > Defaults
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority: default -> file1 -> file2 -> ... -> env -> CLI
// Later files override earlier files.
// Example: LoadFromFiles("base.toml", "override.toml") - override.toml settings take precedence over base.toml
func LoadFromFiles(paths ...string) (*Config, error) {
	// Start with defaults
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier files)
	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal into config (merges with existing values, later values override)
		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// Apply environment variables (overrides all file configs)
	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Environment configuration (highest priority: INDAGO_ENV, fallback: GO_ENV)
	if env := os.Getenv("INDAGO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("INDAGO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("INDAGO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("INDAGO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("INDAGO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("INDAGO_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("INDAGO_LOG_OUTPUT"); output != "" {
		// Split comma-separated output types
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			trimmed := strings.TrimSpace(o)
			if trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Analysis configuration
	if minPoints := os.Getenv("INDAGO_ANALYSIS_TREND_MIN_POINTS"); minPoints != "" {
		if mp, err := strconv.Atoi(minPoints); err == nil {
			config.Analysis.TrendMinPoints = mp
		}
	}
	if zThreshold := os.Getenv("INDAGO_ANALYSIS_ANOMALY_Z_THRESHOLD"); zThreshold != "" {
		if z, err := strconv.ParseFloat(zThreshold, 64); err == nil {
			config.Analysis.AnomalyZThreshold = z
		}
	}
	if corrThreshold := os.Getenv("INDAGO_ANALYSIS_CORRELATION_THRESHOLD"); corrThreshold != "" {
		if ct, err := strconv.ParseFloat(corrThreshold, 64); err == nil {
			config.Analysis.CorrelationThreshold = ct
		}
	}
	if topN := os.Getenv("INDAGO_ANALYSIS_COMPARISON_TOP_N"); topN != "" {
		if tn, err := strconv.Atoi(topN); err == nil {
			config.Analysis.ComparisonTopN = tn
		}
	}
	if maxInsights := os.Getenv("INDAGO_ANALYSIS_MAX_INSIGHTS"); maxInsights != "" {
		if mi, err := strconv.Atoi(maxInsights); err == nil {
			config.Analysis.MaxInsights = mi
		}
	}

	// Learning configuration
	if enabled := os.Getenv("INDAGO_LEARNING_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Learning.Enabled = e
		}
	}
	if windowDays := os.Getenv("INDAGO_LEARNING_FEEDBACK_WINDOW_DAYS"); windowDays != "" {
		if wd, err := strconv.Atoi(windowDays); err == nil {
			config.Learning.FeedbackWindowDays = wd
		}
	}
	if schedule := os.Getenv("INDAGO_LEARNING_ADAPTATION_SCHEDULE"); schedule != "" {
		config.Learning.AdaptationSchedule = schedule
	}

	// Roles configuration
	if rolesDir := os.Getenv("INDAGO_ROLES_DIR"); rolesDir != "" {
		config.Roles.DefinitionsDir = rolesDir
	}

	// Reports configuration
	if reportsDir := os.Getenv("INDAGO_REPORTS_DIR"); reportsDir != "" {
		config.Reports.OutputDir = reportsDir
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ValidateAdaptationSchedule validates a cron schedule expression
func ValidateAdaptationSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// DeepCloneConfig creates a deep copy of the Config struct
// This prevents mutations of the original config by downstream services.
func DeepCloneConfig(c *Config) *Config {
	if c == nil {
		return nil
	}

	// Clone the config struct (shallow copy first)
	clone := *c

	// Deep clone slice fields to prevent shared memory
	if len(c.Logging.Output) > 0 {
		clone.Logging.Output = make([]string, len(c.Logging.Output))
		copy(clone.Logging.Output, c.Logging.Output)
	}

	return &clone
}
