package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"time"

	"github.com/joho/godotenv"

	"confchat/internal/chunker"
	"confchat/internal/config"
	"confchat/internal/corpus"
	"confchat/internal/embedding/openai"
	"confchat/internal/fetch"
	"confchat/internal/index"
	"confchat/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath  string
		doCrawl  bool
		doCorpus bool
		doIndex  bool
		all      bool
	)
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to YAML config file")
	flag.BoolVar(&doCrawl, "crawl", false, "Download source pages into the raw HTML directory")
	flag.BoolVar(&doCorpus, "corpus", false, "Extract, chunk and write the corpus JSON")
	flag.BoolVar(&doIndex, "index", false, "Embed the corpus and upload it to the vector store")
	flag.BoolVar(&all, "all", false, "Run crawl, corpus and index in order")
	flag.Parse()

	if all || (!doCrawl && !doCorpus && !doIndex) {
		doCrawl, doCorpus, doIndex = true, true, true
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	ctx := context.Background()

	if doCrawl {
		f := fetch.New(fetch.Config{
			OutputDir:       cfg.Data.RawHTMLDir,
			Timeout:         time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			RatePerSec:      cfg.Fetch.RatePerSec,
			UserAgent:       cfg.Fetch.UserAgent,
			PageParam:       cfg.Fetch.PageParam,
			PaginationLinks: cfg.Fetch.PaginationLinks,
			CurrentPage:     cfg.Fetch.CurrentPageSelector,
			LastPage:        cfg.Fetch.LastPageSelector,
			ListItems:       cfg.Fetch.ItemSelector,
		})
		f.FetchAll(ctx, cfg.Sources)
	}

	if doCorpus {
		ch := chunker.NewWindowChunker(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)
		b := corpus.NewBuilder(cfg.Data.RawHTMLDir, cfg.Data.CorpusPath, cfg.Extract.ContentSelector, ch, cfg.Sources)
		n, err := b.Build()
		if err != nil {
			log.Fatalf("corpus build failed: %v", err)
		}
		slog.Info("corpus written", "path", cfg.Data.CorpusPath, "chunks", n)
	}

	if doIndex {
		env, err := config.LoadEnv()
		if err != nil {
			log.Fatalf("failed to load environment: %v", err)
		}
		emb, err := openai.NewClient(openai.Config{
			BaseURL: env.EmbeddingBaseURL,
			APIKey:  env.EmbeddingAPIKey,
			Model:   env.EmbeddingModel,
		})
		if err != nil {
			log.Fatalf("embedding client init failed: %v", err)
		}
		store := qdrant.New(qdrant.Config{
			URL:        env.QdrantURL,
			APIKey:     env.QdrantAPIKey,
			Collection: env.CollectionName,
		})
		ix := index.New(store, emb, index.Config{
			CorpusPath: cfg.Data.CorpusPath,
			Collection: env.CollectionName,
			BatchSize:  cfg.Index.BatchSize,
			Progress:   true,
		})
		if err := ix.Rebuild(ctx); err != nil {
			log.Fatalf("index rebuild failed: %v", err)
		}
		slog.Info("index rebuilt", "collection", env.CollectionName)
	}
}
