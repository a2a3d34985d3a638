package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Ai        AIConfig
	Search    SearchConfig
	Migration MigrationConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	IndexTopic         string
}

type DatabaseConfig struct {
	Connection string
}

type CacheConfig struct {
	L1Size           int
	L1TTL            time.Duration
	L2TTL            time.Duration
	L3TTL            time.Duration
	OptimizeInterval time.Duration
	HitRateFloor     float64
}

type AIConfig struct {
	EmbeddingProvider  string // "ollama" or "jina"
	EmbeddingDimension int
	OllamaBaseURL      string
	OllamaModel        string
	JinaApiKey         string
	RerankerModel      string
	ChunkSize          int
	ChunkOverlap       int
}

type SearchConfig struct {
	DefaultTopK     int
	RankingStrategy string
	RerankDepth     int
}

type MigrationConfig struct {
	BatchSize      int
	SubBatchSize   int
	SubBatchDelay  time.Duration
	Concurrency    int
	MaxAttempts    int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	SampleFraction float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			IndexTopic:         getEnv("INDEX_DOCUMENT_TOPIC_NAME", "INDEX_DOCUMENT"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Cache: CacheConfig{
			L1Size:           getEnvAsInt("CACHE_L1_SIZE", 1000),
			L1TTL:            getEnvAsDuration("CACHE_L1_TTL", 60*time.Second),
			L2TTL:            getEnvAsDuration("CACHE_L2_TTL", 10*time.Minute),
			L3TTL:            getEnvAsDuration("CACHE_L3_TTL", time.Hour),
			OptimizeInterval: getEnvAsDuration("CACHE_OPTIMIZE_INTERVAL", 5*time.Minute),
			HitRateFloor:     getEnvAsFloat("CACHE_HIT_RATE_FLOOR", 0.3),
		},
		Ai: AIConfig{
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 768),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:        getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			JinaApiKey:         getEnv("JINA_API_KEY", ""),
			RerankerModel:      getEnv("RERANKER_MODEL", "jina-reranker-v2-base-multilingual"),
			ChunkSize:          getEnvAsInt("EMBEDDING_CHUNK_SIZE", 1000),
			ChunkOverlap:       getEnvAsInt("EMBEDDING_CHUNK_OVERLAP", 100),
		},
		Search: SearchConfig{
			DefaultTopK:     getEnvAsInt("SEARCH_DEFAULT_TOP_K", 10),
			RankingStrategy: getEnv("SEARCH_RANKING_STRATEGY", "hybrid"),
			RerankDepth:     getEnvAsInt("SEARCH_RERANK_DEPTH", 20),
		},
		Migration: MigrationConfig{
			BatchSize:      getEnvAsInt("MIGRATION_BATCH_SIZE", 100),
			SubBatchSize:   getEnvAsInt("MIGRATION_SUB_BATCH_SIZE", 10),
			SubBatchDelay:  getEnvAsDuration("MIGRATION_SUB_BATCH_DELAY", 100*time.Millisecond),
			Concurrency:    getEnvAsInt("MIGRATION_CONCURRENCY", 4),
			MaxAttempts:    getEnvAsInt("MIGRATION_MAX_ATTEMPTS", 3),
			BaseDelay:      getEnvAsDuration("MIGRATION_RETRY_BASE_DELAY", time.Second),
			MaxDelay:       getEnvAsDuration("MIGRATION_RETRY_MAX_DELAY", 30*time.Second),
			SampleFraction: getEnvAsFloat("MIGRATION_SAMPLE_FRACTION", 0.1),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
