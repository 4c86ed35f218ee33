package config

import (
	"fmt"
	"os"
)

// Env holds settings read from the environment. Secrets stay out of the YAML
// config; godotenv loads a .env file in main before this runs.
type Env struct {
	QdrantURL      string
	QdrantAPIKey   string
	CollectionName string

	LLMBaseURL   string
	LLMAPIKey    string
	LLMModel     string

	EmbeddingBaseURL string
	EmbeddingAPIKey  string
	EmbeddingModel   string
}

// LoadEnv reads environment settings and fails fast on missing required
// values, naming the setting in the error.
func LoadEnv() (*Env, error) {
	e := &Env{
		QdrantURL:        os.Getenv("QDRANT_URL"),
		QdrantAPIKey:     os.Getenv("QDRANT_API_KEY"),
		CollectionName:   getenvDefault("QDRANT_COLLECTION_NAME", "confchat_chunks"),
		LLMBaseURL:       getenvDefault("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMAPIKey:        os.Getenv("LLM_API_KEY"),
		LLMModel:         getenvDefault("LLM_MODEL_NAME", "gpt-4o-mini"),
		EmbeddingBaseURL: os.Getenv("EMBEDDING_BASE_URL"),
		EmbeddingAPIKey:  os.Getenv("EMBEDDING_API_KEY"),
		EmbeddingModel:   getenvDefault("EMBEDDING_MODEL_NAME", "text-embedding-3-small"),
	}
	if e.QdrantURL == "" {
		return nil, fmt.Errorf("environment variable QDRANT_URL is not set")
	}
	if e.QdrantAPIKey == "" {
		return nil, fmt.Errorf("environment variable QDRANT_API_KEY is not set")
	}
	if e.LLMAPIKey == "" {
		return nil, fmt.Errorf("environment variable LLM_API_KEY is not set")
	}
	// The embedding endpoint defaults to the LLM provider.
	if e.EmbeddingBaseURL == "" {
		e.EmbeddingBaseURL = e.LLMBaseURL
	}
	if e.EmbeddingAPIKey == "" {
		e.EmbeddingAPIKey = e.LLMAPIKey
	}
	return e, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
