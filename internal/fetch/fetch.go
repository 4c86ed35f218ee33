// Package fetch retrieves raw HTML for configured sources and writes one
// file per source. Paginated sources are walked page by page and their
// listing items concatenated into a single combined document.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"confchat/internal/domain"
)

const maxBodyBytes = 10 * 1024 * 1024

// Pagination markers carry the target page number in a JS submit handler.
var submitFormRe = regexp.MustCompile(`submitForm\(this,\s*"list",\s*(\d+)\)`)

// Config configures the fetcher.
type Config struct {
	OutputDir  string
	Timeout    time.Duration // per-request timeout. Default: 20s.
	RatePerSec float64       // politeness limit across requests. Default: 2.
	UserAgent  string
	PageParam  string // query parameter carrying the page number

	// CSS selectors for pagination markers and listing items.
	PaginationLinks string
	CurrentPage     string
	LastPage        string
	ListItems       string
}

func (c *Config) defaults() {
	if c.OutputDir == "" {
		c.OutputDir = "data/crawled_raw_html"
	}
	if c.Timeout <= 0 {
		c.Timeout = 20 * time.Second
	}
	if c.RatePerSec <= 0 {
		c.RatePerSec = 2
	}
	if c.UserAgent == "" {
		c.UserAgent = "confchat-ingest/1.0"
	}
	if c.PageParam == "" {
		c.PageParam = "pageNum"
	}
	if c.PaginationLinks == "" {
		c.PaginationLinks = ".webtong-paging #numbering a"
	}
	if c.CurrentPage == "" {
		c.CurrentPage = ".webtong-paging #numbering em"
	}
	if c.LastPage == "" {
		c.LastPage = ".webtong-paging .last"
	}
	if c.ListItems == "" {
		c.ListItems = ".board_list1 .event > li"
	}
}

// Fetcher downloads source pages. Fetch failures are per-source: a failed
// source is logged and skipped, never fatal to the run.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	config  Config
}

func New(cfg Config) *Fetcher {
	cfg.defaults()
	return &Fetcher{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		config:  cfg,
	}
}

// OutputPath returns the stable per-source file path. Paginated sources get a
// _combined suffix since their file concatenates many listing pages.
func (f *Fetcher) OutputPath(src domain.Source) string {
	name := src.Name + ".html"
	if src.Paginated {
		name = src.Name + "_combined.html"
	}
	return filepath.Join(f.config.OutputDir, name)
}

// FetchAll fetches every source, skipping ones whose output file already
// exists. Individual failures are logged and do not abort the run.
func (f *Fetcher) FetchAll(ctx context.Context, sources []domain.Source) {
	if err := os.MkdirAll(f.config.OutputDir, 0o755); err != nil {
		slog.Error("create output dir", "dir", f.config.OutputDir, "err", err)
		return
	}
	for _, src := range sources {
		if err := f.FetchSource(ctx, src); err != nil {
			slog.Warn("source skipped", "source", src.Name, "err", err)
		}
	}
}

// FetchSource fetches one source to its output path. If the output file
// already exists the fetch is skipped entirely (cache, not freshness).
func (f *Fetcher) FetchSource(ctx context.Context, src domain.Source) error {
	path := f.OutputPath(src)
	if _, err := os.Stat(path); err == nil {
		slog.Info("output exists, skipping fetch", "source", src.Name, "path", path)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if src.Paginated {
		return f.fetchPaginated(ctx, src, path)
	}
	return f.fetchSingle(ctx, src, path)
}

func (f *Fetcher) fetchSingle(ctx context.Context, src domain.Source, path string) error {
	body, err := f.get(ctx, src.URL)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	slog.Info("saved source", "source", src.Name, "path", path, "bytes", len(body))
	return nil
}

// fetchPaginated walks listing pages in increasing order. After each page it
// re-derives the last-page number from pagination markers; the known maximum
// only ever grows. The loop stops when the page index passes the maximum,
// when a page lists zero items, or when a fetch fails (partial result kept).
func (f *Fetcher) fetchPaginated(ctx context.Context, src domain.Source, path string) error {
	var combined strings.Builder
	combined.WriteString("<!DOCTYPE html>\n<html><head><meta charset='utf-8'></head><body>\n<main>\n")

	currentPage := 1
	maxPage := 1
	pages := 0
	for currentPage <= maxPage {
		url := f.pageURL(src.URL, currentPage)
		body, err := f.get(ctx, url)
		if err != nil {
			slog.Warn("page fetch failed, stopping pagination", "source", src.Name, "page", currentPage, "err", err)
			break
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			slog.Warn("page parse failed, stopping pagination", "source", src.Name, "page", currentPage, "err", err)
			break
		}

		if m := f.maxPageNumber(doc); m > maxPage {
			maxPage = m
			slog.Info("pagination total updated", "source", src.Name, "max_page", maxPage)
		}

		items := doc.Find(f.config.ListItems)
		if items.Length() == 0 {
			slog.Info("no items on page, stopping pagination", "source", src.Name, "page", currentPage)
			break
		}
		items.Each(func(_ int, item *goquery.Selection) {
			html, err := goquery.OuterHtml(item)
			if err != nil {
				return
			}
			fmt.Fprintf(&combined, "<article data-source-url='%s' data-article-id='%s'>\n%s\n</article>\n", url, uuid.NewString(), html)
		})
		slog.Info("page collected", "source", src.Name, "page", currentPage, "items", items.Length())

		pages++
		currentPage++
	}

	combined.WriteString("</main>\n</body></html>\n")
	if pages == 0 {
		return fmt.Errorf("no pages fetched for %s", src.Name)
	}
	if err := os.WriteFile(path, []byte(combined.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	slog.Info("saved combined source", "source", src.Name, "path", path, "pages", pages)
	return nil
}

// maxPageNumber reads the true last-page number out of the pagination block:
// the current-page marker, every numbered link, and the explicit last link.
func (f *Fetcher) maxPageNumber(doc *goquery.Document) int {
	maxPage := 1
	if cur := doc.Find(f.config.CurrentPage).First(); cur.Length() > 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(cur.Text())); err == nil && n > maxPage {
			maxPage = n
		}
	}
	doc.Find(f.config.PaginationLinks).Each(func(_ int, link *goquery.Selection) {
		if n, ok := pageFromHandler(link); ok && n > maxPage {
			maxPage = n
		}
	})
	doc.Find(f.config.LastPage).Each(func(_ int, link *goquery.Selection) {
		if n, ok := pageFromHandler(link); ok && n > maxPage {
			maxPage = n
		}
	})
	return maxPage
}

func pageFromHandler(sel *goquery.Selection) (int, bool) {
	onclick, ok := sel.Attr("onclick")
	if !ok {
		return 0, false
	}
	m := submitFormRe.FindStringSubmatch(onclick)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func (f *Fetcher) pageURL(base string, page int) string {
	if page <= 1 {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s%s=%d", base, sep, f.config.PageParam, page)
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
