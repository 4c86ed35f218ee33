package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"confchat/internal/answer"
	"confchat/internal/config"
	"confchat/internal/embedding/openai"
	"confchat/internal/llm"
	"confchat/internal/retrieve"
	"confchat/internal/server"
	"confchat/internal/vectorstore/qdrant"
)

const (
	storeConnectAttempts = 5
	storeConnectDelay    = 5 * time.Second
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	env, err := config.LoadEnv()
	if err != nil {
		log.Fatalf("failed to load environment: %v", err)
	}

	// Assemble components
	emb, err := openai.NewClient(openai.Config{
		BaseURL: env.EmbeddingBaseURL,
		APIKey:  env.EmbeddingAPIKey,
		Model:   env.EmbeddingModel,
	})
	if err != nil {
		log.Fatalf("embedding client init failed: %v", err)
	}
	model, err := llm.NewClient(llm.Config{
		BaseURL: env.LLMBaseURL,
		APIKey:  env.LLMAPIKey,
		Model:   env.LLMModel,
	})
	if err != nil {
		log.Fatalf("llm client init failed: %v", err)
	}
	store := qdrant.New(qdrant.Config{
		URL:        env.QdrantURL,
		APIKey:     env.QdrantAPIKey,
		Collection: env.CollectionName,
	})

	ctx := context.Background()

	// Startup health checks. A model or embedding endpoint that cannot
	// answer now will not start answering later, so fail fast.
	if err := emb.Ping(ctx); err != nil {
		log.Fatalf("embedding endpoint unreachable: %v", err)
	}
	slog.Info("embedding endpoint ready", "model", env.EmbeddingModel, "dimension", emb.Dimension())
	if err := model.Ping(ctx); err != nil {
		log.Fatalf("llm endpoint unreachable: %v", err)
	}
	slog.Info("llm endpoint ready", "model", env.LLMModel)

	if err := waitForStore(ctx, store, env.CollectionName); err != nil {
		log.Fatalf("vector store unreachable: %v", err)
	}

	retriever := retrieve.New(emb, store, cfg.Retrieval.TopK)
	composer := answer.NewComposer(retriever, model)
	srv := server.New(composer, time.Duration(cfg.Server.RequestTimeoutSecs)*time.Second)

	slog.Info("chat server listening", "addr", cfg.Server.Addr, "collection", env.CollectionName)
	if err := http.ListenAndServe(cfg.Server.Addr, srv.Router()); err != nil {
		log.Fatal(err)
	}
}

// waitForStore retries the initial vector-store connection. Qdrant often
// comes up seconds after this process under container orchestration.
func waitForStore(ctx context.Context, store *qdrant.Storage, collection string) error {
	var lastErr error
	for attempt := 1; attempt <= storeConnectAttempts; attempt++ {
		exists, err := store.Exists(ctx)
		if err == nil {
			if !exists {
				slog.Warn("collection missing, run the ingest tool before serving traffic", "collection", collection)
			} else if n, err := store.Count(ctx); err == nil {
				slog.Info("vector store ready", "collection", collection, "points", n)
			}
			return nil
		}
		lastErr = err
		slog.Warn("vector store connect failed", "attempt", attempt, "err", err)
		if attempt < storeConnectAttempts {
			select {
			case <-time.After(storeConnectDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return lastErr
}
