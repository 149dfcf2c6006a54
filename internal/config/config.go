package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Keys   APIKeys
	Ai     AIConfig
	Search SearchConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NamespaceFile      string
}

type APIKeys struct {
	OpenAI   string
	Pinecone string
}

type AIConfig struct {
	AssistantId        string
	IndexHost          string
	CatalogNamespace   string
	EmbeddingModel     string
	EmbeddingDimension int
	RelevanceThreshold float64
	TopK               int
	MultiNamespace     bool // query every registered namespace instead of just the catalog
	HistoryWindow      int  // messages embedded together as a rolling context window
	RunPollIntervalMs  int
	RunMaxWaitSeconds  int
}

type SearchConfig struct {
	BaseURL string
	Site    string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "5000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NamespaceFile:      getEnv("NAMESPACE_FILE", "namespaces.json"),
		},
		Keys: APIKeys{
			OpenAI:   getEnv("OPENAI_API_KEY", ""),
			Pinecone: getEnv("PINECONE_API_KEY", ""),
		},
		Ai: AIConfig{
			AssistantId:        getEnv("ASSISTANT_ID", ""),
			IndexHost:          getEnv("PINECONE_INDEX_HOST", ""),
			CatalogNamespace:   getEnv("CATALOG_NAMESPACE", "referencias y texto catalogo ct"),
			EmbeddingModel:     getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 1536),
			RelevanceThreshold: getEnvAsFloat("RELEVANCE_THRESHOLD", 0.75),
			TopK:               getEnvAsInt("RETRIEVAL_TOP_K", 5),
			MultiNamespace:     getEnvAsBool("MULTI_NAMESPACE", true),
			HistoryWindow:      getEnvAsInt("HISTORY_WINDOW", 5),
			RunPollIntervalMs:  getEnvAsInt("RUN_POLL_INTERVAL_MS", 1000),
			RunMaxWaitSeconds:  getEnvAsInt("RUN_MAX_WAIT_SECONDS", 90),
		},
		Search: SearchConfig{
			BaseURL: getEnv("SEARCH_BASE_URL", "https://www.bing.com/search"),
			Site:    getEnv("SEARCH_SITE", "cuttingtools.ceratizit.com"),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
