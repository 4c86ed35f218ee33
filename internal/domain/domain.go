package domain

import "context"

// Source is one configured origin pages are fetched from. Paginated sources
// enumerate listing pages with an incrementing page parameter; single sources
// are fetched with one GET.
type Source struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	Paginated bool   `yaml:"paginated"`
}

// Chunk is the atomic retrievable unit persisted in the corpus file.
// Content is whitespace-normalized and bounded by the configured chunk size.
type Chunk struct {
	ID         string `json:"id"`
	Topic      string `json:"topic"`
	SubTopic   string `json:"sub_topic"`
	Content    string `json:"content"`
	SourceFile string `json:"source_file"`
	SourceURL  string `json:"source_url,omitempty"`
}

// Segment is one window produced by a Chunker, with its start offset (in
// runes) into the source text.
type Segment struct {
	Text  string
	Start int
}

// Point is one vector-store record: a chunk id, its embedding, and a payload
// mirroring the chunk's metadata.
type Point struct {
	ID      string
	Vector  []float64
	Payload map[string]any
}

// SearchResult is a retrieved chunk with its similarity score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Chunker splits raw text into ordered, overlapping segments.
type Chunker interface {
	Split(text string) []Segment
}

// Embedder converts free text into a fixed-length numeric vector.
// Dimension is discovered on the first successful embed.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Dimension() int
	Ping(ctx context.Context) error
}

// LLM produces a completion for a fully assembled prompt.
type LLM interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Ping(ctx context.Context) error
}

// VectorStore persists embeddings in a named collection and supports
// nearest-neighbor search. Recreate drops any existing collection and makes a
// fresh one with the given dimensionality and cosine distance.
type VectorStore interface {
	Exists(ctx context.Context) (bool, error)
	Recreate(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, points []Point) error
	Count(ctx context.Context) (int, error)
	Search(ctx context.Context, vector []float64, topK int) ([]SearchResult, error)
}
