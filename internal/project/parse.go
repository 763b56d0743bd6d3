package project

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// overviewTarget is how many characters the paragraph heuristic collects.
	overviewTarget = 200

	// overviewMinLine is the shortest line the heuristic accepts.
	overviewMinLine = 20
)

// document is the parsed input shared by all extractors.
type document struct {
	text     string
	sections []Section
	fences   [][2]int
}

// extractor fills some fields of rec from doc.
type extractor struct {
	name  string
	apply func(doc *document, rec *Record)
}

// pipeline runs in order; overview comes last so it can see the title position.
var pipeline = []extractor{
	{name: "title", apply: extractTitle},
	{name: "metadata", apply: extractMetadata},
	{name: "tech", apply: extractTech},
	{name: "overview", apply: extractOverview},
}

// fieldRule binds a level-2 metadata heading to the record field it sets.
type fieldRule struct {
	key    string
	assign func(rec *Record, value string)
}

// metadataRules lists the recognized metadata sections.
var metadataRules = []fieldRule{
	{key: "project_type", assign: func(r *Record, v string) { r.ProjectType = &v }},
	{key: "status", assign: func(r *Record, v string) { r.Status = &v }},
	{key: "demo_url", assign: func(r *Record, v string) { r.DemoURL = &v }},
	{key: "repository", assign: func(r *Record, v string) { r.Repository = &v }},
	{key: "media", assign: func(r *Record, v string) { r.Media = &v }},
	{key: "featured", assign: func(r *Record, v string) { r.Featured = strings.EqualFold(v, "true") }},
	{key: "category", assign: func(r *Record, v string) { r.Category = &v }},
	{key: "license", assign: func(r *Record, v string) { r.License = &v }},
}

// techLinePatterns match "- **Key**: Value" and "- **Key:** Value".
var techLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*[-*]\s+\*\*([^*]+?)\*\*\s*:\s*(\S.*?)\s*$`),
	regexp.MustCompile(`^\s*[-*]\s+\*\*([^*]+?):\*\*\s*(\S.*?)\s*$`),
}

// boldOnlyPattern matches lines consisting only of bold text, e.g. "**Highlights**".
var boldOnlyPattern = regexp.MustCompile(`^\*\*[^*]+\*\*:?$`)

// Parse extracts a Record from one project's markdown text.
// Missing sections leave fields nil; Parse never fails.
func Parse(slug, text string) Record {
	rec := Record{Slug: slug, Content: text}
	doc := &document{
		text:     text,
		sections: ParseSections(text),
		fences:   fencedRanges(text),
	}
	for _, ex := range pipeline {
		runExtractor(ex, doc, &rec)
	}
	return rec
}

// runExtractor applies one extractor, discarding a panic so the remaining
// extractors still run against well-formed parts of the document.
func runExtractor(ex extractor, doc *document, rec *Record) {
	defer func() { _ = recover() }()
	ex.apply(doc, rec)
}

// SlugFromFilename derives a slug: extension stripped, lowercased, spaces as hyphens.
func SlugFromFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return strings.Join(strings.Fields(strings.ToLower(base)), "-")
}

func extractTitle(doc *document, rec *Record) {
	for _, s := range doc.sections {
		if s.Level == 1 {
			title := s.HeaderName
			rec.Title = &title
			return
		}
	}
}

func extractMetadata(doc *document, rec *Record) {
	for _, rule := range metadataRules {
		s := FindSection(doc.sections, 2, rule.key)
		if s == nil {
			continue
		}
		if value, ok := firstValueLine(doc.text[s.ContentStart:]); ok {
			rule.assign(rec, value)
		}
	}
}

// firstValueLine returns the first non-empty line of body, or false if a
// heading comes first.
func firstValueLine(body string) (string, bool) {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if isHeadingLine(line) {
			return "", false
		}
		return trimmed, true
	}
	return "", false
}

func extractTech(doc *document, rec *Record) {
	offset := 0
	for _, line := range strings.Split(doc.text, "\n") {
		start := offset
		offset += len(line) + 1
		if insideFence(start, doc.fences) {
			continue
		}
		key, value, ok := parseTechLine(line)
		if !ok {
			continue
		}
		if rec.Tech == nil {
			rec.Tech = make(map[string]string)
		}
		if _, exists := rec.Tech[key]; !exists {
			rec.Tech[key] = value
		}
	}
}

// parseTechLine matches one technical detail line and returns its normalized key.
func parseTechLine(line string) (key, value string, ok bool) {
	line = strings.TrimRight(line, "\r")
	for _, p := range techLinePatterns {
		m := p.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key = NormalizeKey(m[1])
		if key == "" {
			return "", "", false
		}
		return key, m[2], true
	}
	return "", "", false
}

func extractOverview(doc *document, rec *Record) {
	if s := FindSection(doc.sections, 2, "overview"); s != nil {
		if body := strings.TrimSpace(s.Content(doc.text)); body != "" {
			rec.Overview = &body
			return
		}
	}

	start := 0
	for _, s := range doc.sections {
		if s.Level == 1 {
			start = s.ContentStart
			break
		}
	}

	if overview := leadParagraph(doc.text[start:]); overview != "" {
		rec.Overview = &overview
	}
}

// leadParagraph collects body lines until about overviewTarget characters or
// the first heading. Short lines, bold-only lines and technical lines are skipped.
func leadParagraph(body string) string {
	var parts []string
	total := 0
	for _, line := range strings.Split(body, "\n") {
		if isHeadingLine(line) {
			break
		}
		trimmed := strings.TrimSpace(line)
		if utf8.RuneCountInString(trimmed) < overviewMinLine || boldOnlyPattern.MatchString(trimmed) {
			continue
		}
		if _, _, ok := parseTechLine(trimmed); ok {
			continue
		}
		parts = append(parts, trimmed)
		total += utf8.RuneCountInString(trimmed)
		if total >= overviewTarget {
			break
		}
	}
	return strings.Join(parts, " ")
}
