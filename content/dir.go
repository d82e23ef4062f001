package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Collection directory names under a content root.
const (
	DirPosts               = "posts"
	DirAuthors             = "authors"
	DirCategories          = "categories"
	DirTags                = "tags"
	DirPages               = "pages"
	DirAffiliateCategories = "affiliate-categories"
	DirAffiliateProducts   = "affiliate-products"
	DirSettings            = "settings"

	settingsFile = "settings.json"
)

// DirSource reads collections from a content directory. Every call re-reads
// the files; caching is the caller's concern.
type DirSource struct {
	Root string
}

// NewDirSource returns a DirSource rooted at root.
func NewDirSource(root string) *DirSource {
	return &DirSource{Root: root}
}

type entryFile struct {
	id   string
	path string
	data []byte
}

// readEntries returns the files in dir with one of exts, ordered by name.
// A missing directory is an empty collection.
func (d *DirSource) readEntries(ctx context.Context, dir string, exts ...string) ([]entryFile, error) {
	full := filepath.Join(d.Root, dir)
	items, err := os.ReadDir(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name() < items[j].Name() })

	var out []entryFile
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if it.IsDir() || strings.HasPrefix(it.Name(), ".") {
			continue
		}
		ext := filepath.Ext(it.Name())
		if !hasExt(ext, exts) {
			continue
		}
		path := filepath.Join(full, it.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, entryFile{
			id:   strings.TrimSuffix(it.Name(), ext),
			path: path,
			data: data,
		})
	}
	return out, nil
}

func hasExt(ext string, exts []string) bool {
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// loadJSON decodes every .json entry in dir, letting fix fill in the id and
// defaults from the file name.
func loadJSON[T any](ctx context.Context, d *DirSource, dir string, fix func(id string, v *T)) ([]T, error) {
	files, err := d.readEntries(ctx, dir, ".json")
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(files))
	for _, f := range files {
		var v T
		if err := json.Unmarshal(f.data, &v); err != nil {
			return nil, fmt.Errorf("%s: %w", f.path, err)
		}
		fix(f.id, &v)
		out = append(out, v)
	}
	return out, nil
}

type postFrontmatter struct {
	Title       string       `yaml:"title"`
	Slug        string       `yaml:"slug"`
	Description string       `yaml:"description"`
	PubDate     string       `yaml:"pubDate"`
	UpdatedDate string       `yaml:"updatedDate"`
	Status      string       `yaml:"status"`
	Draft       bool         `yaml:"draft"`
	Author      Ref          `yaml:"author"`
	Category    Ref          `yaml:"category"`
	Tags        []Ref        `yaml:"tags"`
	Image       *Image       `yaml:"image"`
	Featured    bool         `yaml:"featured"`
	SEO         *SEOOverride `yaml:"seo"`
}

// Posts reads posts/*.md.
func (d *DirSource) Posts(ctx context.Context) ([]Post, error) {
	files, err := d.readEntries(ctx, DirPosts, ".md", ".markdown")
	if err != nil {
		return nil, err
	}
	posts := make([]Post, 0, len(files))
	for _, f := range files {
		var fm postFrontmatter
		body, err := splitFrontmatter(f.data, &fm)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.path, err)
		}
		pub, err := ParseDate(fm.PubDate)
		if err != nil {
			return nil, fmt.Errorf("%s: pubDate: %w", f.path, err)
		}
		p := Post{
			ID:          f.id,
			Slug:        orDefault(fm.Slug, f.id),
			Title:       fm.Title,
			Description: fm.Description,
			PubDate:     pub,
			Status:      postStatus(fm.Status, fm.Draft),
			Author:      fm.Author,
			Category:    fm.Category,
			Tags:        fm.Tags,
			Image:       fm.Image,
			Featured:    fm.Featured,
			SEO:         fm.SEO,
			Body:        body,
		}
		if t, err := ParseDate(fm.UpdatedDate); err == nil {
			p.UpdatedDate = &t
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func postStatus(status string, draft bool) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusDraft:
		return StatusDraft
	case StatusPublished:
		return StatusPublished
	}
	if draft {
		return StatusDraft
	}
	return StatusPublished
}

// Authors reads authors/*.json.
func (d *DirSource) Authors(ctx context.Context) ([]Author, error) {
	return loadJSON(ctx, d, DirAuthors, func(id string, a *Author) {
		a.ID = orDefault(a.ID, id)
		a.Slug = orDefault(a.Slug, a.ID)
	})
}

// Categories reads categories/*.json.
func (d *DirSource) Categories(ctx context.Context) ([]Category, error) {
	return loadJSON(ctx, d, DirCategories, func(id string, c *Category) {
		c.ID = orDefault(c.ID, id)
		c.Slug = orDefault(c.Slug, c.ID)
	})
}

// Tags reads tags/*.json.
func (d *DirSource) Tags(ctx context.Context) ([]Tag, error) {
	return loadJSON(ctx, d, DirTags, func(id string, t *Tag) {
		t.ID = orDefault(t.ID, id)
		t.Slug = orDefault(t.Slug, t.ID)
	})
}

type pageFile struct {
	Title       string       `json:"title" yaml:"title"`
	Slug        string       `json:"slug" yaml:"slug"`
	Description string       `json:"description" yaml:"description"`
	Type        string       `json:"type" yaml:"type"`
	Status      string       `json:"status" yaml:"status"`
	LastUpdated string       `json:"lastUpdated" yaml:"lastUpdated"`
	Content     string       `json:"content" yaml:"-"`
	SEO         *SEOOverride `json:"seo" yaml:"seo"`
}

// Pages reads pages/*.json and pages/*.md.
func (d *DirSource) Pages(ctx context.Context) ([]Page, error) {
	files, err := d.readEntries(ctx, DirPages, ".json", ".md")
	if err != nil {
		return nil, err
	}
	pages := make([]Page, 0, len(files))
	for _, f := range files {
		var pf pageFile
		if strings.EqualFold(filepath.Ext(f.path), ".json") {
			if err := json.Unmarshal(f.data, &pf); err != nil {
				return nil, fmt.Errorf("%s: %w", f.path, err)
			}
		} else {
			body, err := splitFrontmatter(f.data, &pf)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.path, err)
			}
			pf.Content = body
		}
		p := Page{
			ID:          f.id,
			Title:       pf.Title,
			Slug:        orDefault(pf.Slug, f.id),
			Description: pf.Description,
			Type:        orDefault(pf.Type, "page"),
			Status:      postStatus(pf.Status, false),
			Body:        pf.Content,
			SEO:         pf.SEO,
		}
		if t, err := ParseDate(pf.LastUpdated); err == nil {
			p.LastUpdated = t
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// AffiliateCategories reads affiliate-categories/*.json.
func (d *DirSource) AffiliateCategories(ctx context.Context) ([]AffiliateCategory, error) {
	return loadJSON(ctx, d, DirAffiliateCategories, func(id string, c *AffiliateCategory) {
		c.ID = orDefault(c.ID, id)
		c.Slug = orDefault(c.Slug, c.ID)
	})
}

// AffiliateProducts reads affiliate-products/*.json.
func (d *DirSource) AffiliateProducts(ctx context.Context) ([]AffiliateProduct, error) {
	return loadJSON(ctx, d, DirAffiliateProducts, func(id string, p *AffiliateProduct) {
		p.ID = orDefault(p.ID, id)
		p.Slug = orDefault(p.Slug, p.ID)
		if p.Status == "" {
			p.Status = StatusActive
		}
	})
}

// Settings reads settings/settings.json. A missing file is ErrNotFound.
func (d *DirSource) Settings(ctx context.Context) (Settings, error) {
	if err := ctx.Err(); err != nil {
		return Settings{}, err
	}
	path := filepath.Join(d.Root, DirSettings, settingsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("settings: %w", ErrNotFound)
		}
		return Settings{}, err
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

var frontmatterFence = []byte("---")

// splitFrontmatter decodes the leading YAML block of a markdown file into v
// and returns the remaining body. Files without a fence are all body.
func splitFrontmatter(data []byte, v any) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, frontmatterFence) {
		return string(data), nil
	}
	rest := data[len(frontmatterFence):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return string(data), nil
	}
	rest = rest[nl+1:]

	var meta, body []byte
	if bytes.HasPrefix(rest, frontmatterFence) {
		meta, body = nil, rest[len(frontmatterFence):]
	} else {
		end := bytes.Index(rest, []byte("\n---"))
		if end < 0 {
			return "", errors.New("unterminated frontmatter")
		}
		meta, body = rest[:end], rest[end+len("\n---"):]
	}
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}
	if err := yaml.Unmarshal(meta, v); err != nil {
		return "", fmt.Errorf("frontmatter: %w", err)
	}
	return strings.TrimLeft(string(body), "\n"), nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
}

// ParseDate parses the date spellings accepted in frontmatter and JSON files.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
