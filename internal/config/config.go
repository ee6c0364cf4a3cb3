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
	OpenAI   OpenAIConfig
	Ingest   IngestConfig
	Twitter  TwitterConfig
}

type AppConfig struct {
	Port                string
	Environment         string
	LogFilePath         string
	CorsAllowedOrigins  string
	EvaluationTopicName string
}

type DatabaseConfig struct {
	Connection string
}

type OpenAIConfig struct {
	ApiKey             string
	LLMModel           string
	EmbeddingModel     string
	EmbeddingDimension int
	EvaluationModel    string
}

type IngestConfig struct {
	MaxUploadSize     int // bytes, notebook HTML upload limit
	MaxURLContentSize int // bytes, fetched HTML limit
	URLFetchTimeout   int // seconds
	ChunkMaxSize      int // characters per URL chunk
	SummaryWindow     int // characters of content sent to the summarizer
}

type TwitterConfig struct {
	BearerToken    string
	FetchTimeout   int // seconds
	MaxThreadDepth int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:                getEnv("APP_PORT", "3000"),
			Environment:         getEnv("GO_ENV", "development"),
			LogFilePath:         getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			EvaluationTopicName: getEnv("EVALUATE_CONTEXT_TOPIC_NAME", "EVALUATE_CONTEXT"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		OpenAI: OpenAIConfig{
			ApiKey:             getEnv("OPENAI_API_KEY", ""),
			LLMModel:           getEnv("OPENAI_LLM_MODEL", "gpt-4o-mini"),
			EmbeddingModel:     getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 1536),
			EvaluationModel:    getEnv("DEFAULT_EVALUATION_MODEL", "gpt-4"),
		},
		Ingest: IngestConfig{
			MaxUploadSize:     getEnvAsInt("MAX_UPLOAD_SIZE", 10_000_000),
			MaxURLContentSize: getEnvAsInt("MAX_URL_CONTENT_SIZE", 500_000),
			URLFetchTimeout:   getEnvAsInt("URL_FETCH_TIMEOUT", 30),
			ChunkMaxSize:      getEnvAsInt("CHUNK_MAX_SIZE", 1000),
			SummaryWindow:     getEnvAsInt("SUMMARY_CONTENT_WINDOW", 3000),
		},
		Twitter: TwitterConfig{
			BearerToken:    getEnv("TWITTER_BEARER_TOKEN", ""),
			FetchTimeout:   getEnvAsInt("TWITTER_FETCH_TIMEOUT", 30),
			MaxThreadDepth: getEnvAsInt("MAX_THREAD_DEPTH", 50),
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
