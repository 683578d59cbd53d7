package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the training and serving commands
type Config struct {
	Training TrainingConfig
	Server   ServerConfig
	Log      LogConfig
}

// TrainingConfig holds training pipeline configuration
type TrainingConfig struct {
	CorpusPath    string
	TextColumn    string
	LabelColumn   string
	FakeLabel     string
	ArtifactPath  string
	TestSize      float64
	Seed          int64
	MaxFeatures   int
	C             float64
	Balanced      bool
	MaxIterations int
	ReportDB      string
}

// ServerConfig holds inference server configuration
type ServerConfig struct {
	Addr            string
	ArtifactPath    string
	LexiconPath     string
	ShutdownTimeout time.Duration
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	artifact := GetStringEnv("VERACITY_ARTIFACT_PATH", "models/fake_comment_classifier.gob")
	return &Config{
		Training: TrainingConfig{
			CorpusPath:    GetStringEnv("VERACITY_CORPUS_PATH", "fake reviews dataset.csv"),
			TextColumn:    GetStringEnv("VERACITY_TEXT_COLUMN", "text_"),
			LabelColumn:   GetStringEnv("VERACITY_LABEL_COLUMN", "label"),
			FakeLabel:     GetStringEnv("VERACITY_FAKE_LABEL", "CG"),
			ArtifactPath:  artifact,
			TestSize:      GetFloatEnv("VERACITY_TEST_SIZE", 0.2),
			Seed:          int64(GetIntEnv("VERACITY_SEED", 42)),
			MaxFeatures:   GetIntEnv("VERACITY_MAX_FEATURES", 5000),
			C:             GetFloatEnv("VERACITY_C", 1.0),
			Balanced:      GetBoolEnv("VERACITY_BALANCED", true),
			MaxIterations: GetIntEnv("VERACITY_MAX_ITERATIONS", 1000),
			ReportDB:      GetStringEnv("VERACITY_REPORT_DB", ""),
		},
		Server: ServerConfig{
			Addr:            serverAddr(),
			ArtifactPath:    artifact,
			LexiconPath:     GetStringEnv("VERACITY_LEXICON_PATH", ""),
			ShutdownTimeout: GetDurationEnv("VERACITY_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level:  GetStringEnv("LOG_LEVEL", "info"),
			Format: GetStringEnv("LOG_FORMAT", "text"),
		},
	}
}

// serverAddr prefers VERACITY_ADDR and falls back to PORT.
func serverAddr() string {
	if addr := os.Getenv("VERACITY_ADDR"); addr != "" {
		return addr
	}
	if port := GetIntEnv("PORT", 0); port > 0 {
		return ":" + strconv.Itoa(port)
	}
	return ":5000"
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
