// Package corpus turns crawled HTML files into the persisted chunk corpus:
// a single JSON array of identity-stable chunk records.
package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"confchat/internal/chunker"
	"confchat/internal/domain"
	"confchat/internal/extract"
)

// Namespace for deterministic chunk ids. Identity is derived from the source
// file, the window start offset, and the normalized content, so re-running
// the builder on unchanged input yields the same ids.
var chunkNamespace = uuid.MustParse("1f1e9a3c-7a44-45a5-9f60-3f2f4a1d8b7e")

// Builder orchestrates extraction and chunking across every HTML file in a
// directory and writes the corpus file.
type Builder struct {
	htmlDir         string
	corpusPath      string
	contentSelector string
	chunker         domain.Chunker
	sourceURLs      map[string]string // output file name -> origin URL
}

func NewBuilder(htmlDir, corpusPath, contentSelector string, ch domain.Chunker, sources []domain.Source) *Builder {
	urls := make(map[string]string, len(sources))
	for _, src := range sources {
		name := src.Name + ".html"
		if src.Paginated {
			name = src.Name + "_combined.html"
		}
		urls[name] = src.URL
	}
	return &Builder{
		htmlDir:         htmlDir,
		corpusPath:      corpusPath,
		contentSelector: contentSelector,
		chunker:         ch,
		sourceURLs:      urls,
	}
}

// Build processes every HTML file and overwrites the corpus file with the
// full list of chunk records. Per-file failures are logged and skipped.
// Returns the number of records written.
func (b *Builder) Build() (int, error) {
	files, err := filepath.Glob(filepath.Join(b.htmlDir, "*.html"))
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", b.htmlDir, err)
	}
	sort.Strings(files)
	if len(files) == 0 {
		return 0, fmt.Errorf("no HTML files in %s", b.htmlDir)
	}

	var records []domain.Chunk
	for _, file := range files {
		chunks, err := b.processFile(file)
		if err != nil {
			slog.Warn("file skipped", "file", file, "err", err)
			continue
		}
		records = append(records, chunks...)
		slog.Info("file processed", "file", filepath.Base(file), "chunks", len(chunks))
	}

	if err := os.MkdirAll(filepath.Dir(b.corpusPath), 0o755); err != nil {
		return 0, fmt.Errorf("create corpus dir: %w", err)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshal corpus: %w", err)
	}
	if err := os.WriteFile(b.corpusPath, data, 0o644); err != nil {
		return 0, fmt.Errorf("write corpus: %w", err)
	}
	slog.Info("corpus written", "path", b.corpusPath, "records", len(records))
	return len(records), nil
}

func (b *Builder) processFile(file string) ([]domain.Chunk, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	content, err := extract.MainContent(raw, b.contentSelector)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	// The scratch copy is a transient conversion aid; it must not survive
	// the build.
	scratch := file + ".tmp.html"
	if err := os.WriteFile(scratch, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("write scratch: %w", err)
	}
	defer os.Remove(scratch)

	loaded, err := os.ReadFile(scratch)
	if err != nil {
		return nil, fmt.Errorf("load scratch: %w", err)
	}
	text, err := extract.Text(string(loaded))
	if err != nil {
		return nil, fmt.Errorf("flatten: %w", err)
	}

	fileName := filepath.Base(file)
	topic := topicFromFilename(fileName)
	subTopic := extract.FirstHeading(content)
	if subTopic == "" {
		subTopic = "N/A"
	}

	var chunks []domain.Chunk
	for _, seg := range b.chunker.Split(text) {
		normalized := chunker.Normalize(seg.Text)
		if normalized == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			ID:         chunkID(fileName, seg.Start, normalized),
			Topic:      topic,
			SubTopic:   subTopic,
			Content:    normalized,
			SourceFile: fileName,
			SourceURL:  b.sourceURLs[fileName],
		})
	}
	return chunks, nil
}

func chunkID(sourceFile string, start int, content string) string {
	key := fmt.Sprintf("%s|%d|%s", sourceFile, start, content)
	return uuid.NewSHA1(chunkNamespace, []byte(key)).String()
}

func topicFromFilename(name string) string {
	topic := strings.TrimSuffix(name, ".html")
	topic = strings.ReplaceAll(topic, "_page_", " Page ")
	topic = strings.ReplaceAll(topic, "_", " ")
	return topic
}

// Load reads the corpus file. A missing file is reported via os.ErrNotExist
// so callers can treat "no data" as a non-action rather than a failure.
func Load(path string) ([]domain.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	var chunks []domain.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("parse corpus: %w", err)
	}
	return chunks, nil
}
