package project

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestParse_Sample(t *testing.T) {
	got := Parse("portfolio-chatbot", sampleProject)

	want := Record{
		Slug:        "portfolio-chatbot",
		Title:       ptr("Portfolio Chatbot"),
		Overview:    ptr("A conversational assistant that answers questions about my work using local documents."),
		ProjectType: ptr("Web App"),
		Status:      ptr("Completed"),
		Media:       ptr("chatbot.png"),
		Featured:    true,
		Tech: map[string]string{
			"frontend": "React, Vite",
			"backend":  "FastAPI, Python",
			"ai_ml":    "Gemini, react",
		},
		Content: sampleProject,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Idempotent(t *testing.T) {
	first := Parse("x", sampleProject)
	second := Parse("x", sampleProject)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Parse not deterministic:\n%s", diff)
	}
}

func TestParse_Empty(t *testing.T) {
	got := Parse("empty", "")
	if diff := cmp.Diff(Record{Slug: "empty"}, got); diff != "" {
		t.Errorf("unexpected fields (-want +got):\n%s", diff)
	}
}

func TestParse_Featured(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"  True  ", true},
		{"yes", false},
		{"false", false},
		{"true-ish", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got := Parse("p", "# P\n## Featured\n"+tt.value+"\n")
			require.Equal(t, tt.want, got.Featured)
		})
	}
}

func TestParse_MetadataValueStopsAtHeading(t *testing.T) {
	got := Parse("p", "# P\n## Status\n\n## Category\nTools\n")
	require.Nil(t, got.Status)
	require.Equal(t, "Tools", *got.Category)
}

func TestParse_FirstDuplicateWins(t *testing.T) {
	text := "# P\n## Status\nActive\n## Status\nArchived\n- **Database**: Postgres\n- **Database**: MySQL\n"
	got := Parse("p", text)
	require.Equal(t, "Active", *got.Status)
	require.Equal(t, "Postgres", got.Tech["database"])
}

func TestParse_MetadataKeysAreNormalized(t *testing.T) {
	text := "# P\n## Demo URL\nhttps://example.com\n## repository\nhttps://github.com/me/p\n## LICENSE\nMIT\n"
	got := Parse("p", text)
	require.Equal(t, "https://example.com", *got.DemoURL)
	require.Equal(t, "https://github.com/me/p", *got.Repository)
	require.Equal(t, "MIT", *got.License)
}

func TestParse_TechInsideFenceIgnored(t *testing.T) {
	text := "# P\n```\n- **Frontend**: Hidden\n```\n- **Backend**: Go\n"
	got := Parse("p", text)
	require.Equal(t, map[string]string{"backend": "Go"}, got.Tech)
}

func TestParse_OverviewSection(t *testing.T) {
	text := "# P\nShort intro line that is long enough to count.\n## Overview\n\nThe real overview.\n\n## Status\nDone\n"
	got := Parse("p", text)
	require.Equal(t, "The real overview.", *got.Overview)
}

func TestParse_OverviewHeuristic(t *testing.T) {
	long := strings.Repeat("a", 99) + "."
	text := "# P\n\n**Highlights**\nshort line\n- **Frontend**: React and a long list of things\n" +
		long + "\n" + long + "\n" + long + "\n"
	got := Parse("p", text)
	require.NotNil(t, got.Overview)
	require.Equal(t, long+" "+long, *got.Overview)
}

func TestParse_OverviewHeuristicStopsAtHeading(t *testing.T) {
	text := "# P\nThis first paragraph is long enough to count.\n## Status\nThis line belongs to the status section.\n"
	got := Parse("p", text)
	require.Equal(t, "This first paragraph is long enough to count.", *got.Overview)
}

func TestParse_NoTitle(t *testing.T) {
	got := Parse("p", "## Status\nActive\n")
	require.Nil(t, got.Title)
	require.Equal(t, "Active", *got.Status)
}

func TestParse_CRLF(t *testing.T) {
	got := Parse("p", "# Title\r\n## Status\r\nActive\r\n- **Frontend**: React\r\n")
	require.Equal(t, "Title", *got.Title)
	require.Equal(t, "Active", *got.Status)
	require.Equal(t, "React", got.Tech["frontend"])
}

func TestParseTechLine(t *testing.T) {
	tests := []struct {
		line      string
		key, want string
		ok        bool
	}{
		{"- **Frontend**: React", "frontend", "React", true},
		{"- **Cloud Platform:** AWS", "cloud_platform", "AWS", true},
		{"  * **AI/ML**: PyTorch  ", "ai_ml", "PyTorch", true},
		{"- **Frontend**:", "", "", false},
		{"**Frontend**: React", "", "", false},
		{"- Frontend: React", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			key, value, ok := parseTechLine(tt.line)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.key, key)
			require.Equal(t, tt.want, value)
		})
	}
}

func TestSlugFromFilename(t *testing.T) {
	tests := map[string]string{
		"portfolio-chatbot.md": "portfolio-chatbot",
		"My Cool Project.md":   "my-cool-project",
		"UPPER.MD":             "upper",
		"no-ext":               "no-ext",
	}
	for in, want := range tests {
		require.Equal(t, want, SlugFromFilename(in), in)
	}
}
