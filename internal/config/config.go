package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	"confchat/internal/domain"
)

// DataConfig holds filesystem locations for ingestion artifacts.
type DataConfig struct {
	RawHTMLDir string `yaml:"raw_html_dir"`
	CorpusPath string `yaml:"corpus_path"`
}

// FetchConfig configures the page fetcher, including the CSS selectors used
// to read pagination markers and listing items out of paginated sources.
type FetchConfig struct {
	TimeoutSecs         int     `yaml:"timeout_secs"`
	RatePerSec          float64 `yaml:"rate_per_sec"`
	UserAgent           string  `yaml:"user_agent"`
	PageParam           string  `yaml:"page_param"`
	PaginationLinks     string  `yaml:"pagination_links_selector"`
	CurrentPageSelector string  `yaml:"current_page_selector"`
	LastPageSelector    string  `yaml:"last_page_selector"`
	ItemSelector        string  `yaml:"item_selector"`
}

// ExtractConfig configures main-content extraction.
type ExtractConfig struct {
	ContentSelector string `yaml:"content_selector"`
}

// ChunkerConfig configures the sliding-window splitter.
type ChunkerConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// IndexConfig configures vector-store uploads.
type IndexConfig struct {
	BatchSize int `yaml:"batch_size"`
}

// RetrievalConfig configures query-time search.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// ServerConfig configures the HTTP chat server.
type ServerConfig struct {
	Addr               string `yaml:"addr"`
	RequestTimeoutSecs int    `yaml:"request_timeout_secs"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Data      DataConfig      `yaml:"data"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Extract   ExtractConfig   `yaml:"extract"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Index     IndexConfig     `yaml:"index"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Server    ServerConfig    `yaml:"server"`
	Sources   []domain.Source `yaml:"sources"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Data.RawHTMLDir == "" {
		cfg.Data.RawHTMLDir = "data/crawled_raw_html"
	}
	if cfg.Data.CorpusPath == "" {
		cfg.Data.CorpusPath = "data/json_chunks/chunks.json"
	}
	if cfg.Fetch.TimeoutSecs == 0 {
		cfg.Fetch.TimeoutSecs = 20
	}
	if cfg.Fetch.RatePerSec == 0 {
		cfg.Fetch.RatePerSec = 2
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = "confchat-ingest/1.0"
	}
	if cfg.Fetch.PageParam == "" {
		cfg.Fetch.PageParam = "pageNum"
	}
	if cfg.Fetch.PaginationLinks == "" {
		cfg.Fetch.PaginationLinks = ".webtong-paging #numbering a"
	}
	if cfg.Fetch.CurrentPageSelector == "" {
		cfg.Fetch.CurrentPageSelector = ".webtong-paging #numbering em"
	}
	if cfg.Fetch.LastPageSelector == "" {
		cfg.Fetch.LastPageSelector = ".webtong-paging .last"
	}
	if cfg.Fetch.ItemSelector == "" {
		cfg.Fetch.ItemSelector = ".board_list1 .event > li"
	}
	if cfg.Extract.ContentSelector == "" {
		cfg.Extract.ContentSelector = "div#contents"
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 1000
	}
	if cfg.Chunker.ChunkOverlap == 0 {
		cfg.Chunker.ChunkOverlap = 200
	}
	if cfg.Index.BatchSize == 0 {
		cfg.Index.BatchSize = 100
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 10
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Server.RequestTimeoutSecs == 0 {
		cfg.Server.RequestTimeoutSecs = 60
	}
}
