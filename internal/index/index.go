// Package index rebuilds the vector-store collection from the corpus file.
// The rebuild is destructive by policy: an existing collection is dropped and
// replaced wholesale. Uploads go in fixed-size batches with a persisted
// checkpoint so an interrupted run resumes instead of re-embedding.
package index

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"

	"confchat/internal/corpus"
	"confchat/internal/domain"
	"confchat/internal/vectorstore"
)

// checkpoint records the last committed batch of an in-progress rebuild.
// Valid only for the same collection and an unchanged corpus.
type checkpoint struct {
	Collection  string `json:"collection"`
	Fingerprint string `json:"fingerprint"`
	NextBatch   int    `json:"next_batch"`
}

// Indexer embeds corpus chunks and uploads them to the vector store.
type Indexer struct {
	store      domain.VectorStore
	embedder   domain.Embedder
	corpusPath string
	collection string
	batchSize  int
	progress   bool
}

// Config configures an Indexer.
type Config struct {
	CorpusPath string
	Collection string
	BatchSize  int  // default 100
	Progress   bool // render a terminal progress bar
}

func New(store domain.VectorStore, embedder domain.Embedder, cfg Config) *Indexer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &Indexer{
		store:      store,
		embedder:   embedder,
		corpusPath: cfg.CorpusPath,
		collection: cfg.Collection,
		batchSize:  cfg.BatchSize,
		progress:   cfg.Progress,
	}
}

// Rebuild reads the corpus and (re)builds the collection. A missing corpus
// file is "no data": logged, no action, no error. On failure the checkpoint
// is left behind so the next run resumes from the first uncommitted batch.
func (ix *Indexer) Rebuild(ctx context.Context) error {
	chunks, err := corpus.Load(ix.corpusPath)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("no corpus data, nothing to index", "path", ix.corpusPath)
		return nil
	}
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		slog.Info("corpus is empty, nothing to index", "path", ix.corpusPath)
		return nil
	}

	fp := fingerprint(chunks)
	numBatches := (len(chunks) + ix.batchSize - 1) / ix.batchSize

	startBatch := 0
	if cp := ix.loadCheckpoint(); cp != nil && cp.Collection == ix.collection && cp.Fingerprint == fp && cp.NextBatch <= numBatches {
		startBatch = cp.NextBatch
		slog.Info("resuming interrupted rebuild", "batch", startBatch, "total_batches", numBatches)
	} else {
		dim := ix.embedder.Dimension()
		if dim == 0 {
			if err := ix.embedder.Ping(ctx); err != nil {
				return fmt.Errorf("embedder not ready: %w", err)
			}
			dim = ix.embedder.Dimension()
		}
		if err := ix.store.Recreate(ctx, dim); err != nil {
			return fmt.Errorf("recreate collection: %w", err)
		}
		slog.Info("collection recreated", "collection", ix.collection, "dimension", dim)
	}

	var bar *progressbar.ProgressBar
	if ix.progress {
		bar = progressbar.NewOptions(numBatches,
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription("Uploading"),
		)
		bar.Set(startBatch)
	}

	for b := startBatch; b < numBatches; b++ {
		lo := b * ix.batchSize
		hi := lo + ix.batchSize
		if hi > len(chunks) {
			hi = len(chunks)
		}
		points := make([]domain.Point, 0, hi-lo)
		for _, c := range chunks[lo:hi] {
			vec, err := ix.embedder.Embed(ctx, c.Content)
			if err != nil {
				return fmt.Errorf("embed chunk %s: %w", c.ID, err)
			}
			points = append(points, domain.Point{
				ID:      c.ID,
				Vector:  vec,
				Payload: vectorstore.Payload(c),
			})
		}
		if err := ix.store.Upsert(ctx, points); err != nil {
			return fmt.Errorf("upsert batch %d: %w", b, err)
		}
		if err := ix.saveCheckpoint(checkpoint{Collection: ix.collection, Fingerprint: fp, NextBatch: b + 1}); err != nil {
			slog.Warn("checkpoint not saved", "err", err)
		}
		if bar != nil {
			bar.Add(1)
		}
		slog.Info("batch uploaded", "batch", b+1, "total_batches", numBatches, "points", len(points))
	}
	os.Remove(ix.checkpointPath())

	// Verified and logged, not asserted.
	count, err := ix.store.Count(ctx)
	if err != nil {
		slog.Warn("point count unavailable", "err", err)
		return nil
	}
	if count != len(chunks) {
		slog.Warn("point count does not match corpus size", "points", count, "corpus", len(chunks))
	} else {
		slog.Info("index rebuilt", "collection", ix.collection, "points", count)
	}
	return nil
}

func (ix *Indexer) checkpointPath() string {
	return ix.corpusPath + ".checkpoint"
}

func (ix *Indexer) loadCheckpoint() *checkpoint {
	data, err := os.ReadFile(ix.checkpointPath())
	if err != nil {
		return nil
	}
	var cp checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil
	}
	return &cp
}

func (ix *Indexer) saveCheckpoint(cp checkpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return err
	}
	return os.WriteFile(ix.checkpointPath(), data, 0o644)
}

// fingerprint identifies a corpus by its chunk ids, in order. A changed
// corpus invalidates any leftover checkpoint.
func fingerprint(chunks []domain.Chunk) string {
	h := sha256.New()
	for _, c := range chunks {
		h.Write([]byte(c.ID))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
