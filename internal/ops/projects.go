package ops

import (
	"bytes"
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hpungsan/folio/internal/errors"
	"github.com/hpungsan/folio/internal/project"
)

// markdown renders project pages. Raw HTML in project files is escaped.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ListProjectsInput contains parameters for the ListProjects operation.
// Empty filters match everything.
type ListProjectsInput struct {
	FeaturedOnly bool   `json:"featured_only,omitempty"`
	Category     string `json:"category,omitempty"`
	Status       string `json:"status,omitempty"`
	Type         string `json:"type,omitempty"`
}

// ListProjectsOutput contains project summaries without raw content.
type ListProjectsOutput struct {
	Projects []project.Record `json:"projects"`
	Count    int              `json:"count"`
}

// ListProjects returns the project catalog, featured projects first.
func ListProjects(ctx context.Context, d *Deps, input ListProjectsInput) (*ListProjectsOutput, error) {
	records, err := d.Catalog.List(ctx, project.Filter{
		FeaturedOnly: input.FeaturedOnly,
		Category:     strings.TrimSpace(input.Category),
		Status:       strings.TrimSpace(input.Status),
		Type:         strings.TrimSpace(input.Type),
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]project.Record, len(records))
	for i, r := range records {
		summaries[i] = r.Summary()
	}
	return &ListProjectsOutput{Projects: summaries, Count: len(summaries)}, nil
}

// GetProjectInput contains parameters for the GetProject operation.
type GetProjectInput struct {
	Slug string `json:"slug"`
}

// GetProjectOutput contains the full record and its rendered page.
type GetProjectOutput struct {
	Project     project.Record `json:"project"`
	ContentHTML string         `json:"content_html"`
}

// GetProject returns one project with its markdown rendered to HTML.
func GetProject(ctx context.Context, d *Deps, input GetProjectInput) (*GetProjectOutput, error) {
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		return nil, errors.NewInvalidRequest("slug is required")
	}

	rec, err := d.Catalog.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	html, err := RenderMarkdown(rec.Content)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &GetProjectOutput{Project: *rec, ContentHTML: html}, nil
}

// RenderMarkdown converts markdown to HTML.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
