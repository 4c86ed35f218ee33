// Package qdrant is a minimal REST client to a Qdrant collection.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"confchat/internal/domain"
	"confchat/internal/vectorstore"
)

// Storage talks to one named Qdrant collection over REST. Collections are
// created with cosine distance. Safe for concurrent use.
type Storage struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

// Config contains connection details for a Qdrant vector store.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func New(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Storage{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Exists reports whether the collection exists.
func (s *Storage) Exists(ctx context.Context) (bool, error) {
	var resp struct {
		Result struct {
			Exists bool `json:"exists"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/exists", s.url, s.collection)
	if err := s.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return false, err
	}
	return resp.Result.Exists, nil
}

// Recreate drops the collection if present and creates a fresh one with the
// given dimensionality and cosine distance. Full replace, not upsert-merge.
func (s *Storage) Recreate(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	exists, err := s.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		url := fmt.Sprintf("%s/collections/%s", s.url, s.collection)
		if err := s.do(ctx, http.MethodDelete, url, nil, nil); err != nil {
			return fmt.Errorf("delete collection: %w", err)
		}
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	url := fmt.Sprintf("%s/collections/%s", s.url, s.collection)
	if err := s.do(ctx, http.MethodPut, url, body, nil); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

// Upsert uploads points and blocks until Qdrant acknowledges the write.
func (s *Storage) Upsert(ctx context.Context, points []domain.Point) error {
	if len(points) == 0 {
		return nil
	}
	body := map[string]any{"points": make([]map[string]any, 0, len(points))}
	for _, p := range points {
		body["points"] = append(body["points"].([]map[string]any), map[string]any{
			"id":      p.ID,
			"vector":  p.Vector,
			"payload": p.Payload,
		})
	}
	url := fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection)
	return s.do(ctx, http.MethodPut, url, body, nil)
}

// Count returns the exact point count of the collection.
func (s *Storage) Count(ctx context.Context) (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/count", s.url, s.collection)
	if err := s.do(ctx, http.MethodPost, url, map[string]any{"exact": true}, &resp); err != nil {
		return 0, err
	}
	return resp.Result.Count, nil
}

// Search returns the topK nearest points with payloads. An empty result is a
// valid outcome, not an error.
func (s *Storage) Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = 10
	}
	body := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection)
	if err := s.do(ctx, http.MethodPost, url, body, &resp); err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		results = append(results, domain.SearchResult{
			Chunk: vectorstore.ChunkFromPayload(r.Payload),
			Score: r.Score,
		})
	}
	return results, nil
}

func (s *Storage) do(ctx context.Context, method, url string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
