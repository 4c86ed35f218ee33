package index

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confchat/internal/domain"
	"confchat/internal/vectorstore/memory"
)

// fakeEmbedder derives a deterministic vector from the text.
type fakeEmbedder struct {
	dim   int
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	f.calls++
	if f.dim == 0 {
		f.dim = 4
	}
	sum := sha256.Sum256([]byte(text))
	vec := make([]float64, f.dim)
	for i := range vec {
		vec[i] = float64(sum[i]) / 255
	}
	return vec, nil
}

func (f *fakeEmbedder) Dimension() int { return f.dim }

func (f *fakeEmbedder) Ping(ctx context.Context) error {
	_, err := f.Embed(ctx, "ping")
	return err
}

// trackingStore wraps the memory store to count calls and inject failures.
type trackingStore struct {
	*memory.Storage
	recreates  int
	upserts    int
	failUpsert int // fail the Nth upsert call (1-based), 0 = never
}

func (s *trackingStore) Recreate(ctx context.Context, dim int) error {
	s.recreates++
	return s.Storage.Recreate(ctx, dim)
}

func (s *trackingStore) Upsert(ctx context.Context, points []domain.Point) error {
	s.upserts++
	if s.failUpsert != 0 && s.upserts == s.failUpsert {
		return errors.New("injected upsert failure")
	}
	return s.Storage.Upsert(ctx, points)
}

func writeCorpus(t *testing.T, n int) string {
	t.Helper()
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			ID:         fmt.Sprintf("chunk-%03d", i),
			Topic:      "Topic",
			SubTopic:   "N/A",
			Content:    fmt.Sprintf("content number %d", i),
			SourceFile: "Topic.html",
		}
	}
	data, err := json.Marshal(chunks)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "chunks.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRebuild_PointCountEqualsCorpusSize(t *testing.T) {
	path := writeCorpus(t, 25)
	store := &trackingStore{Storage: memory.New()}
	ix := New(store, &fakeEmbedder{}, Config{CorpusPath: path, Collection: "conf", BatchSize: 10})

	require.NoError(t, ix.Rebuild(context.Background()))

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, n)
	assert.Equal(t, 3, store.upserts)
	assert.Equal(t, 1, store.recreates)
}

func TestRebuild_DestructiveIdempotent(t *testing.T) {
	path := writeCorpus(t, 12)
	store := &trackingStore{Storage: memory.New()}
	ix := New(store, &fakeEmbedder{}, Config{CorpusPath: path, Collection: "conf", BatchSize: 5})

	require.NoError(t, ix.Rebuild(context.Background()))
	require.NoError(t, ix.Rebuild(context.Background()))

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, n, "second rebuild must replace, not append")
	assert.Equal(t, 2, store.recreates)
}

func TestRebuild_MissingCorpusIsNoAction(t *testing.T) {
	store := &trackingStore{Storage: memory.New()}
	path := filepath.Join(t.TempDir(), "nope.json")
	ix := New(store, &fakeEmbedder{}, Config{CorpusPath: path, Collection: "conf"})

	require.NoError(t, ix.Rebuild(context.Background()))
	assert.Zero(t, store.recreates)
	assert.Zero(t, store.upserts)
}

func TestRebuild_ResumesFromCheckpoint(t *testing.T) {
	path := writeCorpus(t, 30)

	// First run dies on the third batch.
	store := &trackingStore{Storage: memory.New(), failUpsert: 3}
	ix := New(store, &fakeEmbedder{}, Config{CorpusPath: path, Collection: "conf", BatchSize: 10})
	err := ix.Rebuild(context.Background())
	require.Error(t, err)

	// Two batches committed; checkpoint points at the third.
	_, statErr := os.Stat(path + ".checkpoint")
	require.NoError(t, statErr, "checkpoint must survive a failed run")
	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	// Second run resumes: no recreate, only the missing batch uploaded.
	store.failUpsert = 0
	require.NoError(t, ix.Rebuild(context.Background()))
	assert.Equal(t, 1, store.recreates, "resume must not drop the collection")

	n, err = store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, n)

	_, statErr = os.Stat(path + ".checkpoint")
	assert.True(t, os.IsNotExist(statErr), "checkpoint must be removed on success")
}

func TestRebuild_StaleCheckpointIgnoredWhenCorpusChanges(t *testing.T) {
	path := writeCorpus(t, 10)
	store := &trackingStore{Storage: memory.New(), failUpsert: 2}
	ix := New(store, &fakeEmbedder{}, Config{CorpusPath: path, Collection: "conf", BatchSize: 5})
	require.Error(t, ix.Rebuild(context.Background()))

	// Rewrite the corpus with different ids; the checkpoint no longer applies.
	chunks := make([]domain.Chunk, 10)
	for i := range chunks {
		chunks[i] = domain.Chunk{ID: fmt.Sprintf("new-%d", i), Content: "x"}
	}
	data, _ := json.Marshal(chunks)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	store.failUpsert = 0
	require.NoError(t, ix.Rebuild(context.Background()))
	assert.Equal(t, 2, store.recreates, "changed corpus must trigger a full rebuild")

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}
