// Package config reads configuration for both binaries from the
// environment. Load .env first (see cmd/*) so local development works
// without exporting anything.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the settings for the pipeline service and the terminal
// client. Optional integrations (Redis, S3, Kafka) stay disabled when
// their settings are empty.
type Config struct {
	// Client
	PipelineURL string

	// Service
	ListenAddr    string
	PublicBaseURL string
	DataDir       string

	// Transcription backend (OpenAI-compatible audio transcriptions API)
	TranscribeURL    string
	TranscribeAPIKey string
	TranscribeModel  string

	// Segment cache
	RedisAddr      string
	RedisPassword  string
	CacheTTL       time.Duration
	ForceRecompute bool

	// Optional audio archival
	S3Bucket string
	S3Prefix string
	S3Region string

	// Optional stage-completion events
	KafkaBrokers []string
	KafkaTopic   string
}

// Load builds a Config from the environment.
func Load() Config {
	return Config{
		PipelineURL: GetEnvOrDefault("PIPELINE_URL", "http://localhost:8080"),

		ListenAddr:    GetEnvOrDefault("LISTEN_ADDR", ":8080"),
		PublicBaseURL: GetEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"),
		DataDir:       GetEnvOrDefault("DATA_DIR", "data"),

		TranscribeURL:    GetEnvOrDefault("TRANSCRIBE_URL", "https://api.openai.com/v1/audio/transcriptions"),
		TranscribeAPIKey: os.Getenv("TRANSCRIBE_API_KEY"),
		TranscribeModel:  GetEnvOrDefault("TRANSCRIBE_MODEL", "whisper-1"),

		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		CacheTTL:       durationEnv("CACHE_TTL", 24*time.Hour),
		ForceRecompute: boolEnv("FORCE_RECOMPUTE"),

		S3Bucket: os.Getenv("S3_BUCKET"),
		S3Prefix: GetEnvOrDefault("S3_PREFIX", "audio/"),
		S3Region: os.Getenv("S3_REGION"),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   GetEnvOrDefault("KAFKA_TOPIC", "diarization.stage-events"),
	}
}

// GetEnvOrDefault returns the value of an environment variable or a
// default value.
func GetEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func boolEnv(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func durationEnv(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
