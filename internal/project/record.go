package project

import (
	"encoding/json"
	"slices"
	"sort"
	"strings"
)

// Record is the structured metadata parsed from one project markdown file.
// Optional fields are nil when the document does not provide them.
type Record struct {
	// Slug is derived from the filename and identifies the record within one load
	Slug string

	Title    *string
	Overview *string

	ProjectType *string
	Category    *string
	Status      *string
	DemoURL     *string
	Repository  *string
	Media       *string
	License     *string

	// Featured is true only when the Featured section's value is "true"
	Featured bool

	// Tech holds "- **Key**: Value" lines keyed by NormalizeKey(Key)
	Tech map[string]string

	// HasMedia and MediaURL are filled by ResolveMedia, not by Parse
	HasMedia bool
	MediaURL *string

	// Content is the full raw markdown text
	Content string
}

// techPriority orders the headline technology fields first in TechStack.
var techPriority = []string{
	"frontend",
	"backend",
	"ai_ml",
	"cloud_platform",
	"database",
	"framework",
	"deployment",
}

// TechStack returns the technologies named in the headline tech fields and
// any others after them (alphabetically by key). Comma-separated values are
// split; duplicates are dropped case-insensitively, keeping the first spelling.
func (r *Record) TechStack() []string {
	if len(r.Tech) == 0 {
		return nil
	}

	var rest []string
	for k := range r.Tech {
		if !slices.Contains(techPriority, k) {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)

	seen := make(map[string]bool)
	var stack []string
	for _, key := range append(slices.Clone(techPriority), rest...) {
		value, ok := r.Tech[key]
		if !ok {
			continue
		}
		for _, part := range strings.Split(value, ",") {
			tech := strings.TrimSpace(part)
			norm := strings.ToLower(tech)
			if tech == "" || seen[norm] {
				continue
			}
			seen[norm] = true
			stack = append(stack, tech)
		}
	}
	return stack
}

// MarshalJSON flattens Tech into top-level "tech_<key>" fields, matching the
// shape the portfolio frontend consumes.
func (r Record) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"slug":      r.Slug,
		"featured":  r.Featured,
		"has_media": r.HasMedia,
	}
	if r.Content != "" {
		out["content"] = r.Content
	}

	optional := map[string]*string{
		"title":        r.Title,
		"overview":     r.Overview,
		"project_type": r.ProjectType,
		"category":     r.Category,
		"status":       r.Status,
		"demo_url":     r.DemoURL,
		"repository":   r.Repository,
		"media":        r.Media,
		"license":      r.License,
		"media_url":    r.MediaURL,
	}
	for k, v := range optional {
		if v != nil {
			out[k] = *v
		}
	}

	for k, v := range r.Tech {
		out["tech_"+k] = v
	}
	// An explicit "Stack" line wins over the derived list.
	if _, ok := r.Tech["stack"]; !ok {
		if stack := r.TechStack(); len(stack) > 0 {
			out["tech_stack"] = stack
		}
	}

	return json.Marshal(out)
}

// Summary drops the raw content, for listings.
func (r Record) Summary() Record {
	r.Content = ""
	return r
}
