// Package memory is an in-process vector store using brute-force cosine
// similarity. Used by tests and the local "memory" store mode.
package memory

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"confchat/internal/domain"
	"confchat/internal/vectorstore"
)

// Storage holds points in memory behind the same interface as the remote
// store.
type Storage struct {
	mu        sync.RWMutex
	created   bool
	dimension int
	points    []domain.Point
}

func New() *Storage { return &Storage{} }

func (s *Storage) Exists(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.created, nil
}

func (s *Storage) Recreate(_ context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = true
	s.dimension = dimension
	s.points = nil
	return nil
}

func (s *Storage) Upsert(_ context.Context, points []domain.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.created {
		return errors.New("collection does not exist")
	}
	for _, p := range points {
		if len(p.Vector) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.points = append(s.points, points...)
	return nil
}

func (s *Storage) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points), nil
}

func (s *Storage) Search(_ context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 10
	}
	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(s.points))
	for i, p := range s.points {
		scores[i] = scored{i, cosine(p.Vector, vector)}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if topK > len(scores) {
		topK = len(scores)
	}
	results := make([]domain.SearchResult, 0, topK)
	for _, sc := range scores[:topK] {
		results = append(results, domain.SearchResult{
			Chunk: vectorstore.ChunkFromPayload(s.points[sc.idx].Payload),
			Score: sc.score,
		})
	}
	return results, nil
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
