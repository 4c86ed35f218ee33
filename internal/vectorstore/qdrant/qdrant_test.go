package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confchat/internal/domain"
	"confchat/internal/vectorstore"
)

// fakeQdrant records requests against a single collection.
type fakeQdrant struct {
	exists  bool
	deleted int
	created int
	upserts []map[string]any
	waited  bool
}

func (f *fakeQdrant) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/conf/exists":
			json.NewEncoder(w).Encode(map[string]any{"result": map[string]any{"exists": f.exists}})
		case r.Method == http.MethodDelete && r.URL.Path == "/collections/conf":
			f.deleted++
			f.exists = false
			json.NewEncoder(w).Encode(map[string]any{"result": true})
		case r.Method == http.MethodPut && r.URL.Path == "/collections/conf":
			f.created++
			f.exists = true
			json.NewEncoder(w).Encode(map[string]any{"result": true})
		case r.Method == http.MethodPut && r.URL.Path == "/collections/conf/points":
			f.waited = r.URL.Query().Get("wait") == "true"
			var body struct {
				Points []map[string]any `json:"points"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.upserts = append(f.upserts, body.Points...)
			json.NewEncoder(w).Encode(map[string]any{"result": map[string]any{"status": "completed"}})
		case r.Method == http.MethodPost && r.URL.Path == "/collections/conf/points/count":
			json.NewEncoder(w).Encode(map[string]any{"result": map[string]any{"count": len(f.upserts)}})
		case r.Method == http.MethodPost && r.URL.Path == "/collections/conf/points/search":
			json.NewEncoder(w).Encode(map[string]any{"result": []map[string]any{
				{"score": 0.9, "payload": map[string]any{
					"id": "c1", "topic": "Venues", "sub_topic": "N/A",
					"source_file": "Venues.html", "source_url": "http://x",
					vectorstore.ContentKey: "venue text",
				}},
			}})
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newFake(t *testing.T) (*fakeQdrant, *Storage, func()) {
	t.Helper()
	f := &fakeQdrant{}
	srv := httptest.NewServer(f.handler(t))
	s := New(Config{URL: srv.URL, APIKey: "k", Collection: "conf"})
	return f, s, srv.Close
}

func TestRecreate_DropsExistingCollection(t *testing.T) {
	f, s, done := newFake(t)
	defer done()
	f.exists = true

	require.NoError(t, s.Recreate(context.Background(), 4))
	assert.Equal(t, 1, f.deleted)
	assert.Equal(t, 1, f.created)
}

func TestRecreate_FreshCollection(t *testing.T) {
	f, s, done := newFake(t)
	defer done()

	require.NoError(t, s.Recreate(context.Background(), 4))
	assert.Zero(t, f.deleted)
	assert.Equal(t, 1, f.created)
}

func TestRecreate_RejectsInvalidDimension(t *testing.T) {
	_, s, done := newFake(t)
	defer done()
	assert.Error(t, s.Recreate(context.Background(), 0))
}

func TestUpsert_WaitsForAck(t *testing.T) {
	f, s, done := newFake(t)
	defer done()

	chunk := domain.Chunk{ID: "c1", Content: "text"}
	err := s.Upsert(context.Background(), []domain.Point{
		{ID: chunk.ID, Vector: []float64{1, 2}, Payload: vectorstore.Payload(chunk)},
	})
	require.NoError(t, err)
	assert.True(t, f.waited, "upsert must block on acknowledgment")
	require.Len(t, f.upserts, 1)
	assert.Equal(t, "c1", f.upserts[0]["id"])

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSearch_MapsPayloadToChunk(t *testing.T) {
	_, s, done := newFake(t)
	defer done()

	results, err := s.Search(context.Background(), []float64{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0.9, results[0].Score)
	assert.Equal(t, "c1", results[0].Chunk.ID)
	assert.Equal(t, "Venues", results[0].Chunk.Topic)
	assert.Equal(t, "venue text", results[0].Chunk.Content)
	assert.Equal(t, "Venues.html", results[0].Chunk.SourceFile)
}
