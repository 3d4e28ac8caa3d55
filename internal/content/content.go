package content

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

// ErrNotFound marks a missing or invalid page slug.
var ErrNotFound = errors.New("content: page not found")

// Page is a static store-info page sourced from local markdown: how to
// order, payment instructions, about the shop.
type Page struct {
	Slug      string
	Title     string
	Summary   string
	Body      template.HTML
	UpdatedAt time.Time
}

type frontMatter struct {
	Title     string `yaml:"title"`
	Summary   string `yaml:"summary"`
	UpdatedAt string `yaml:"updated_at"`
}

// Store reads markdown pages from a directory, renders them once and caches
// the result for a TTL so edits show up without a restart.
type Store struct {
	dir string
	ttl time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry

	md       goldmark.Markdown
	sanitize *bluemonday.Policy
}

type cacheEntry struct {
	page    Page
	expires time.Time
}

func NewStore(dir string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Store{
		dir:      dir,
		ttl:      ttl,
		cache:    map[string]cacheEntry{},
		md:       goldmark.New(),
		sanitize: bluemonday.UGCPolicy(),
	}
}

// Get loads the page for slug, serving from cache when fresh.
func (s *Store) Get(slug string) (Page, error) {
	slug = sanitizeSlug(slug)
	if slug == "" {
		return Page{}, ErrNotFound
	}

	s.mu.RLock()
	entry, ok := s.cache[slug]
	s.mu.RUnlock()
	if ok && time.Now().Before(entry.expires) {
		return entry.page, nil
	}

	page, err := s.load(slug)
	if err != nil {
		return Page{}, err
	}

	s.mu.Lock()
	s.cache[slug] = cacheEntry{page: page, expires: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return page, nil
}

func (s *Store) load(slug string) (Page, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, slug+".md"))
	if err != nil {
		if os.IsNotExist(err) {
			return Page{}, ErrNotFound
		}
		return Page{}, fmt.Errorf("content: read %s: %w", slug, err)
	}

	fm, body := splitFrontMatter(raw)
	var meta frontMatter
	if len(fm) > 0 {
		if err := yaml.Unmarshal(fm, &meta); err != nil {
			return Page{}, fmt.Errorf("content: front matter %s: %w", slug, err)
		}
	}

	var buf bytes.Buffer
	if err := s.md.Convert(body, &buf); err != nil {
		return Page{}, fmt.Errorf("content: render %s: %w", slug, err)
	}
	safe := s.sanitize.SanitizeBytes(buf.Bytes())

	page := Page{
		Slug:    slug,
		Title:   strings.TrimSpace(meta.Title),
		Summary: strings.TrimSpace(meta.Summary),
		Body:    template.HTML(safe),
	}
	if page.Title == "" {
		page.Title = slug
	}
	if ts := strings.TrimSpace(meta.UpdatedAt); ts != "" {
		if t, err := time.Parse("2006-01-02", ts); err == nil {
			page.UpdatedAt = t
		}
	}
	return page, nil
}

func splitFrontMatter(raw []byte) (fm, body []byte) {
	const delim = "---"
	trimmed := bytes.TrimLeft(raw, "\ufeff")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, raw
	}
	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, raw
	}
	fm = rest[:idx]
	body = rest[idx+len(delim)+1:]
	return fm, body
}

func sanitizeSlug(slug string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, r := range slug {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' {
			continue
		}
		return ""
	}
	return slug
}
