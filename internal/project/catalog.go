package project

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hpungsan/folio/internal/errors"
	"github.com/hpungsan/folio/internal/logging"
)

// MediaURLPrefix is where the web server mounts the media directory.
const MediaURLPrefix = "/static/media"

// Filter narrows a catalog listing. Empty string fields match everything;
// comparisons ignore case.
type Filter struct {
	FeaturedOnly bool
	Category     string
	Status       string
	Type         string
}

func (f Filter) match(r Record) bool {
	if f.FeaturedOnly && !r.Featured {
		return false
	}
	return matchField(f.Category, r.Category) &&
		matchField(f.Status, r.Status) &&
		matchField(f.Type, r.ProjectType)
}

func matchField(want string, got *string) bool {
	if want == "" {
		return true
	}
	return got != nil && strings.EqualFold(strings.TrimSpace(*got), strings.TrimSpace(want))
}

// Catalog reads project markdown files from a directory.
// Nothing is cached: every call rebuilds records from disk.
type Catalog struct {
	dir       string
	mediaDir  string
	urlPrefix string
	logger    *zap.Logger
}

// NewCatalog creates a Catalog over dir. Media references resolve against mediaDir.
func NewCatalog(dir, mediaDir, urlPrefix string, logger *zap.Logger) *Catalog {
	if urlPrefix == "" {
		urlPrefix = MediaURLPrefix
	}
	return &Catalog{
		dir:       dir,
		mediaDir:  mediaDir,
		urlPrefix: urlPrefix,
		logger:    logging.OrNop(logger),
	}
}

// Dir returns the project directory.
func (c *Catalog) Dir() string { return c.dir }

// List returns every project matching f, featured projects first.
// A missing project directory yields an empty list.
func (c *Catalog) List(ctx context.Context, f Filter) ([]Record, error) {
	all, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(all))
	for _, r := range all {
		if f.match(r) {
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Featured && !out[j].Featured
	})
	return out, nil
}

// Get returns the project whose slug matches, or NOT_FOUND.
func (c *Catalog) Get(ctx context.Context, slug string) (*Record, error) {
	all, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	want := strings.ToLower(strings.TrimSpace(slug))
	for i := range all {
		if all[i].Slug == want {
			return &all[i], nil
		}
	}
	return nil, errors.NewNotFound("project", slug)
}

// load parses every .md file in filename order. Duplicate slugs keep the first file.
func (c *Catalog) load(ctx context.Context) ([]Record, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewInternal(err)
	}

	seen := make(map[string]string)
	var records []Record
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewCancelled("project list")
		}
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".md") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(c.dir, name))
		if err != nil {
			c.logger.Warn("skipped project file", zap.String("file", name), zap.Error(err))
			continue
		}

		slug := SlugFromFilename(name)
		if first, dup := seen[slug]; dup {
			c.logger.Warn("duplicate project slug",
				zap.String("slug", slug),
				zap.String("kept", first),
				zap.String("ignored", name))
			continue
		}
		seen[slug] = name

		rec := Parse(slug, string(data))
		ResolveMedia(&rec, c.mediaDir, c.urlPrefix)
		records = append(records, rec)
	}
	return records, nil
}
