package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Engine   AnswerEngineConfig
	Search   SearchConfig
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

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

// AnswerEngineConfig points at the upstream cognitive QA engine.
type AnswerEngineConfig struct {
	BaseURL       string
	ServiceKey    string
	DataVersion   string
	IdleTimeoutMs int
}

type SearchConfig struct {
	PageSize          int
	EmbeddingProvider string // "ollama" or "none"
	OllamaBaseURL     string
	OllamaModel       string
	EmbedTopic        string
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
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/console.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "CatalogConsole"),
		},
		Engine: AnswerEngineConfig{
			BaseURL:       getEnv("ANSWER_ENGINE_URL", "http://localhost:8200"),
			ServiceKey:    getEnv("ANSWER_ENGINE_SERVICE_KEY", ""),
			DataVersion:   getEnv("ANSWER_ENGINE_DATA_VERSION", "v1"),
			IdleTimeoutMs: getEnvAsInt("ANSWER_ENGINE_IDLE_TIMEOUT_MS", 30000),
		},
		Search: SearchConfig{
			PageSize:          getEnvAsInt("SEARCH_PAGE_SIZE", 10),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			EmbedTopic:        getEnv("EMBED_ASSET_TOPIC_NAME", "EMBED_ASSET_SUMMARY"),
		},
	}
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
