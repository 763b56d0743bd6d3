package project

import (
	"testing"
)

var sampleProject = "# Portfolio Chatbot\n" +
	"\n" +
	"A conversational assistant that answers questions about my work using local documents.\n" +
	"\n" +
	"## Project Type\n" +
	"Web App\n" +
	"\n" +
	"## Status\n" +
	"Completed\n" +
	"\n" +
	"## Featured\n" +
	"True\n" +
	"\n" +
	"## Technical Details\n" +
	"- **Frontend**: React, Vite\n" +
	"- **Backend:** FastAPI, Python\n" +
	"- **AI/ML**: Gemini, react\n" +
	"\n" +
	"### Notes\n" +
	"Deployed on a small VM.\n" +
	"\n" +
	"## Media\n" +
	"chatbot.png\n"

func TestParseSections_Sample(t *testing.T) {
	sections := ParseSections(sampleProject)
	want := []struct {
		name  string
		key   string
		level int
	}{
		{"Portfolio Chatbot", "portfolio_chatbot", 1},
		{"Project Type", "project_type", 2},
		{"Status", "status", 2},
		{"Featured", "featured", 2},
		{"Technical Details", "technical_details", 2},
		{"Notes", "notes", 3},
		{"Media", "media", 2},
	}
	if len(sections) != len(want) {
		t.Fatalf("Expected %d sections, got %d", len(want), len(sections))
	}
	for i, w := range want {
		s := sections[i]
		if s.HeaderName != w.name || s.Key != w.key || s.Level != w.level {
			t.Errorf("Section %d = (%q, %q, %d), want (%q, %q, %d)",
				i, s.HeaderName, s.Key, s.Level, w.name, w.key, w.level)
		}
	}
}

func TestParseSections_ContentIncludesSubsections(t *testing.T) {
	sections := ParseSections(sampleProject)
	tech := FindSection(sections, 2, "technical_details")
	if tech == nil {
		t.Fatal("technical_details section not found")
	}
	body := tech.Content(sampleProject)
	want := "- **Frontend**: React, Vite\n" +
		"- **Backend:** FastAPI, Python\n" +
		"- **AI/ML**: Gemini, react\n" +
		"\n" +
		"### Notes\n" +
		"Deployed on a small VM.\n" +
		"\n"
	if body != want {
		t.Errorf("Content = %q, want %q", body, want)
	}

	title := FindSection(sections, 1, "portfolio_chatbot")
	if title == nil || title.ContentEnd != len(sampleProject) {
		t.Error("level-1 section should run to EOF")
	}
}

func TestParseSections_IgnoresFencedHeadings(t *testing.T) {
	text := "# Real\n```\n# Not a heading\n```\n## After\nx\n"
	sections := ParseSections(text)
	if len(sections) != 2 {
		t.Fatalf("Expected 2 sections, got %d", len(sections))
	}
	if sections[1].HeaderName != "After" {
		t.Errorf("HeaderName = %q, want After", sections[1].HeaderName)
	}
}

func TestParseSections_UnclosedFence(t *testing.T) {
	text := "# Title\n~~~\n## hidden\n"
	sections := ParseSections(text)
	if len(sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(sections))
	}
}

func TestParseSections_None(t *testing.T) {
	if got := ParseSections("just text\n#nospace\n"); got != nil {
		t.Errorf("Expected nil, got %v", got)
	}
}

func TestParseSections_HeadingDoesNotSpanLines(t *testing.T) {
	text := "#\nNext line\n"
	if got := ParseSections(text); got != nil {
		t.Errorf("Expected nil, got %+v", got)
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Demo URL", "demo_url"},
		{"AI/ML", "ai_ml"},
		{"  Cloud   Platform ", "cloud_platform"},
		{"Project-Type", "project_type"},
		{"Front-end (web)", "front_end_web"},
		{"!!!", ""},
		{"", ""},
		{"Status", "status"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeKey(tt.input); got != tt.want {
				t.Errorf("NormalizeKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
