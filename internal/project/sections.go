package project

import (
	"regexp"
	"strings"
	"unicode"
)

// Section represents a parsed markdown heading and the byte range of its body.
type Section struct {
	Header       string // Full header line "## Demo URL"
	HeaderName   string // Just the name part "Demo URL"
	Level        int    // Number of leading '#' characters
	Key          string // NormalizeKey(HeaderName), e.g. "demo_url"
	HeaderStart  int    // Byte offset of header start
	HeaderEnd    int    // Byte offset after header line (excluding \n)
	ContentStart int    // Byte offset where content starts
	ContentEnd   int    // Next heading of the same or higher level, or EOF
}

// headerPattern matches ATX headings at the start of a line.
// Groups: full match, hash symbols, header text.
var headerPattern = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+([^\n]+?)[ \t]*$`)

// fencePattern matches fenced code block delimiters (``` or ~~~) at the start of a line,
// allowing 0-3 spaces of indentation. Captures the fence characters.
var fencePattern = regexp.MustCompile("(?m)^[ ]{0,3}(`{3,}|~{3,})")

// fencedRanges returns byte offset ranges [start, end) for fenced code blocks in text.
// A closing fence must use the same character and be at least as long as the opening one.
// An unclosed fence runs to EOF.
func fencedRanges(text string) [][2]int {
	matches := fencePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	var ranges [][2]int
	var openChar byte
	var openLen, openStart int
	inFence := false

	for _, m := range matches {
		fence := text[m[2]:m[3]]
		switch {
		case !inFence:
			openChar, openLen, openStart = fence[0], len(fence), m[0]
			inFence = true
		case fence[0] == openChar && len(fence) >= openLen:
			ranges = append(ranges, [2]int{openStart, m[1]})
			inFence = false
		}
	}
	if inFence {
		ranges = append(ranges, [2]int{openStart, len(text)})
	}
	return ranges
}

// insideFence returns true if byte offset pos falls inside any fenced range.
func insideFence(pos int, ranges [][2]int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

// ParseSections finds all markdown headings outside fenced code blocks.
// Returns nil if there are none.
func ParseSections(text string) []Section {
	all := headerPattern.FindAllStringSubmatchIndex(text, -1)
	if len(all) == 0 {
		return nil
	}

	fences := fencedRanges(text)
	matches := make([][]int, 0, len(all))
	for _, m := range all {
		if !insideFence(m[0], fences) {
			matches = append(matches, m)
		}
	}
	if len(matches) == 0 {
		return nil
	}

	sections := make([]Section, len(matches))
	for i, m := range matches {
		name := strings.TrimSpace(text[m[4]:m[5]])
		contentStart := m[1]
		if contentStart < len(text) && text[contentStart] == '\n' {
			contentStart++
		}
		sections[i] = Section{
			Header:       text[m[0]:m[1]],
			HeaderName:   name,
			Level:        m[3] - m[2],
			Key:          NormalizeKey(name),
			HeaderStart:  m[0],
			HeaderEnd:    m[1],
			ContentStart: contentStart,
			ContentEnd:   len(text),
		}
	}

	// A section owns every deeper heading until one at its own level or above.
	for i := range sections {
		for j := i + 1; j < len(sections); j++ {
			if sections[j].Level <= sections[i].Level {
				sections[i].ContentEnd = sections[j].HeaderStart
				break
			}
		}
	}

	return sections
}

// Content returns the body of s within text.
func (s Section) Content(text string) string {
	if s.ContentStart >= s.ContentEnd || s.ContentEnd > len(text) {
		return ""
	}
	return text[s.ContentStart:s.ContentEnd]
}

// FindSection returns the first section at level whose Key equals key.
func FindSection(sections []Section, level int, key string) *Section {
	for i := range sections {
		if sections[i].Level == level && sections[i].Key == key {
			return &sections[i]
		}
	}
	return nil
}

// isHeadingLine reports whether a single line is an ATX heading.
func isHeadingLine(line string) bool {
	return headerPattern.MatchString(strings.TrimRight(line, "\r"))
}

// NormalizeKey lowercases s and collapses every run of characters other than
// letters and digits into a single underscore: "Demo URL" → "demo_url",
// "AI/ML" → "ai_ml".
func NormalizeKey(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}
