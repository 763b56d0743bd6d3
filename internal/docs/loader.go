package docs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hpungsan/folio/internal/logging"
)

// SourceType tags where a document block came from.
type SourceType string

const (
	SourcePrivate  SourceType = "Private"
	SourceTemplate SourceType = "Template"
)

// Block is one loaded file's extracted text plus its provenance.
type Block struct {
	Source   SourceType `json:"source"`
	Filename string     `json:"filename"`
	Text     string     `json:"text"`
}

// Skip records a file that produced no block.
type Skip struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// LoadResult is the outcome of scanning one directory.
type LoadResult struct {
	Source  SourceType `json:"source"`
	Dir     string     `json:"dir"`
	Blocks  []Block    `json:"blocks"`
	Skipped []Skip     `json:"skipped,omitempty"`
}

// extractor reads a file's full text.
type extractor func(path string) (string, error)

// extractors maps a recognized extension to its text extraction strategy.
var extractors = map[string]extractor{
	".md":  ReadMarkdown,
	".pdf": ReadPDF,
}

// Supported reports whether filename has a recognized document extension.
func Supported(filename string) bool {
	_, ok := extractors[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Loader reads the private document directory, falling back to templates.
type Loader struct {
	privateDir   string
	templatesDir string
	logger       *zap.Logger
}

// NewLoader creates a Loader over the given directories.
func NewLoader(privateDir, templatesDir string, logger *zap.Logger) *Loader {
	return &Loader{
		privateDir:   privateDir,
		templatesDir: templatesDir,
		logger:       logging.OrNop(logger),
	}
}

// LoadAll scans the private directory; if it yields no blocks, the templates
// directory is scanned instead.
func (l *Loader) LoadAll(ctx context.Context) LoadResult {
	result := l.readDir(ctx, l.privateDir, SourcePrivate)
	if len(result.Blocks) > 0 {
		return result
	}

	l.logger.Debug("no private documents, using templates",
		zap.String("private_dir", l.privateDir),
		zap.String("templates_dir", l.templatesDir))

	fallback := l.readDir(ctx, l.templatesDir, SourceTemplate)
	fallback.Skipped = append(result.Skipped, fallback.Skipped...)
	return fallback
}

func (l *Loader) readDir(ctx context.Context, dir string, source SourceType) LoadResult {
	result := ReadDir(ctx, dir, source)
	for _, s := range result.Skipped {
		l.logger.Warn("skipped document",
			zap.String("dir", dir),
			zap.String("file", s.Filename),
			zap.String("reason", s.Reason))
	}
	return result
}

// ReadDir reads every recognized document directly inside dir.
// Entries come back sorted by filename. A missing directory yields an empty result.
// Files that fail to read are recorded in Skipped and never abort the batch.
func ReadDir(ctx context.Context, dir string, source SourceType) LoadResult {
	result := LoadResult{Source: source, Dir: dir}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return result
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		extract, ok := extractors[strings.ToLower(filepath.Ext(name))]
		if !ok {
			continue
		}

		text, err := safeExtract(extract, filepath.Join(dir, name))
		if err != nil {
			result.Skipped = append(result.Skipped, Skip{Filename: name, Reason: err.Error()})
			continue
		}
		if strings.TrimSpace(text) == "" {
			result.Skipped = append(result.Skipped, Skip{Filename: name, Reason: "no text extracted"})
			continue
		}

		result.Blocks = append(result.Blocks, Block{Source: source, Filename: name, Text: text})
	}

	return result
}

// safeExtract runs an extractor, converting a panic inside a parser into an error.
func safeExtract(extract extractor, path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extract %s: %v", filepath.Base(path), r)
		}
	}()
	return extract(path)
}

// Text renders the blocks as the aggregated context text sent to the model.
func (r LoadResult) Text() string {
	parts := make([]string, 0, len(r.Blocks))
	for _, b := range r.Blocks {
		parts = append(parts, fmt.Sprintf("%s Document: %s\n---\n%s\n---", b.Source, b.Filename, b.Text))
	}
	return strings.Join(parts, "\n\n")
}

// Filenames lists the names of loaded blocks in order.
func (r LoadResult) Filenames() []string {
	names := make([]string, len(r.Blocks))
	for i, b := range r.Blocks {
		names[i] = b.Filename
	}
	return names
}

// ReadMarkdown reads a markdown (or any UTF-8 text) file.
func ReadMarkdown(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
