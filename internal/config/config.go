package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type StorageConfig struct {
	SupabaseURL    string
	SupabaseKey    string
	ResourceBucket string
}

type AIConfig struct {
	GeminiApiKey   string
	ChatModel      string
	AnalysisModel  string
	LiveModel      string
	EmbeddingTopic string
	CacheTTLSecs   int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Storage: StorageConfig{
			SupabaseURL:    getEnv("SUPABASE_URL", ""),
			SupabaseKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
			ResourceBucket: getEnv("SUPABASE_RESOURCE_BUCKET", "course-resources"),
		},
		Ai: AIConfig{
			GeminiApiKey:   getEnv("GOOGLE_GEMINI_API_KEY", ""),
			ChatModel:      getEnv("GEMINI_CHAT_MODEL", "gemini-2.5-flash"),
			AnalysisModel:  getEnv("GEMINI_ANALYSIS_MODEL", "gemini-2.5-flash"),
			LiveModel:      getEnv("GEMINI_LIVE_MODEL", "models/gemini-2.5-flash-native-audio-preview-09-2025"),
			EmbeddingTopic: getEnv("EMBED_RESOURCE_TOPIC_NAME", "INGEST_RESOURCE"),
			CacheTTLSecs:   getEnvAsInt("COURSE_CACHE_TTL_SECONDS", 300),
		},
	}
}

// Validate reports the env vars that have no usable value. Credentials have
// no safe default, starting without them would just defer the failure to the
// first request.
func (c *Config) Validate() error {
	var missing []string
	if c.Database.Connection == "" {
		missing = append(missing, "DB_CONNECTION_STRING")
	}
	if c.Ai.GeminiApiKey == "" {
		missing = append(missing, "GOOGLE_GEMINI_API_KEY")
	}
	if c.Storage.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.Storage.SupabaseKey == "" {
		missing = append(missing, "SUPABASE_SERVICE_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
