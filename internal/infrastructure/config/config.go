package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/htm-project/temporal-memory/internal/cortical/temporal"
)

// Config holds all configuration for the HTM Neural API
type Config struct {
	Server   ServerConfig
	API      APIConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig
	Temporal TemporalConfig
}

// TemporalConfig holds the default construction parameters for the
// Temporal Memory engine, overridable via environment variables.
type TemporalConfig struct {
	ColumnDimensions          []int
	CellsPerColumn            int
	ActivationThreshold       int
	InitialPermanence         float64
	ConnectedPermanence       float64
	MinThreshold              int
	MaxNewSynapseCount        int
	PermanenceIncrement       float64
	PermanenceDecrement       float64
	PredictedSegmentDecrement float64
	Seed                      uint64
	MaxSegmentsPerCell        int
	MaxSynapsesPerSegment     int
}

// ToParameters converts the configuration into engine construction
// parameters.
func (c TemporalConfig) ToParameters() temporal.Parameters {
	return temporal.Parameters{
		ColumnDimensions:          c.ColumnDimensions,
		CellsPerColumn:            c.CellsPerColumn,
		ActivationThreshold:       c.ActivationThreshold,
		InitialPermanence:         c.InitialPermanence,
		ConnectedPermanence:       c.ConnectedPermanence,
		MinThreshold:              c.MinThreshold,
		MaxNewSynapseCount:        c.MaxNewSynapseCount,
		PermanenceIncrement:       c.PermanenceIncrement,
		PermanenceDecrement:       c.PermanenceDecrement,
		PredictedSegmentDecrement: c.PredictedSegmentDecrement,
		Seed:                      c.Seed,
		MaxSegmentsPerCell:        c.MaxSegmentsPerCell,
		MaxSynapsesPerSegment:     c.MaxSynapsesPerSegment,
	}
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// APIConfig contains API-specific configuration
type APIConfig struct {
	Version                         string
	MaxRequestSize                  int64
	DefaultProcessingTimeoutTimeout time.Duration
	MaxConcurrentRequests           int
	EnableCORS                      bool
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// MetricsConfig contains metrics collection configuration
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "localhost"),
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		API: APIConfig{
			Version:                         getEnv("API_VERSION", "v1.0"),
			MaxRequestSize:                  getIntEnv("API_MAX_REQUEST_SIZE", 10*1024*1024), // 10MB
			DefaultProcessingTimeoutTimeout: getDurationEnv("API_PROCESSING_TIMEOUT", 5*time.Minute),
			MaxConcurrentRequests:           int(getIntEnv("API_MAX_CONCURRENT_REQUESTS", 100)),
			EnableCORS:                      getBoolEnv("API_ENABLE_CORS", true),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolEnv("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
		Temporal: TemporalConfig{
			ColumnDimensions:          getIntSliceEnv("TM_COLUMN_DIMENSIONS", []int{2048}),
			CellsPerColumn:            int(getIntEnv("TM_CELLS_PER_COLUMN", 32)),
			ActivationThreshold:       int(getIntEnv("TM_ACTIVATION_THRESHOLD", 13)),
			InitialPermanence:         getFloatEnv("TM_INITIAL_PERMANENCE", 0.21),
			ConnectedPermanence:       getFloatEnv("TM_CONNECTED_PERMANENCE", 0.5),
			MinThreshold:              int(getIntEnv("TM_MIN_THRESHOLD", 10)),
			MaxNewSynapseCount:        int(getIntEnv("TM_MAX_NEW_SYNAPSE_COUNT", 20)),
			PermanenceIncrement:       getFloatEnv("TM_PERMANENCE_INCREMENT", 0.10),
			PermanenceDecrement:       getFloatEnv("TM_PERMANENCE_DECREMENT", 0.10),
			PredictedSegmentDecrement: getFloatEnv("TM_PREDICTED_SEGMENT_DECREMENT", 0.0),
			Seed:                      uint64(getIntEnv("TM_SEED", 42)),
			MaxSegmentsPerCell:        int(getIntEnv("TM_MAX_SEGMENTS_PER_CELL", 255)),
			MaxSynapsesPerSegment:     int(getIntEnv("TM_MAX_SYNAPSES_PER_SEGMENT", 255)),
		},
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable with a default value
func getIntEnv(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getBoolEnv gets a boolean environment variable with a default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable with a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv gets a float64 environment variable with a default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getIntSliceEnv gets a comma-separated integer list environment variable
// with a default value, e.g. TM_COLUMN_DIMENSIONS=64,64.
func getIntSliceEnv(key string, defaultValue []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]int, 0, len(parts))
	for _, part := range parts {
		intValue, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return defaultValue
		}
		result = append(result, intValue)
	}
	return result
}

// Address returns the full server address for binding
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}
