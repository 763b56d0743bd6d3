package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/folio/internal/config"
	"github.com/hpungsan/folio/internal/contact"
	"github.com/hpungsan/folio/internal/docs"
	"github.com/hpungsan/folio/internal/project"
	"github.com/hpungsan/folio/internal/prompt"

	"github.com/hpungsan/folio/internal/ops"
)

const testOrigin = "http://localhost:5173"

type stubCompleter struct {
	reply string
}

func (s stubCompleter) Complete(context.Context, string) (string, error) {
	return s.reply, nil
}

type stubMailer struct{}

func (stubMailer) Send(context.Context, contact.Message) error { return nil }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func newTestDeps(t *testing.T) *ops.Deps {
	t.Helper()
	base := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.DocsDir = filepath.Join(base, "docs")
	cfg.StaticDir = filepath.Join(base, "static")
	cfg.EmailLogPath = filepath.Join(base, "emails.jsonl")
	cfg.AllowedOrigins = []string{testOrigin}
	config.Resolve(cfg)

	return &ops.Deps{
		Config:    cfg,
		Docs:      docs.NewLoader(cfg.PrivateDir, cfg.TemplatesDir, nil),
		Catalog:   project.NewCatalog(cfg.ProjectsDir, cfg.MediaDir(), project.MediaURLPrefix, nil),
		Composer:  prompt.NewComposer("Dana", 0),
		Contact:   contact.NewService(contact.NewLog(cfg.EmailLogPath), stubMailer{}, nil),
		Completer: stubCompleter{reply: "Hi there!"},
		Now:       func() time.Time { return time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC) },
	}
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthRoutes(t *testing.T) {
	h := NewHandler(newTestDeps(t), nil)

	for _, target := range []string{"/", "/health"} {
		rec := serve(t, h, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code, target)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		body := decodeBody(t, rec)
		require.Equal(t, "healthy", body["status"])
		require.Equal(t, ops.ServiceName, body["service"])
		require.Equal(t, "2026-05-04T10:30:00Z", body["timestamp"])
	}
}

func TestUnknownRoute(t *testing.T) {
	h := NewHandler(newTestDeps(t), nil)

	rec := serve(t, h, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, h, http.MethodGet, "/chat-with-files", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGenerateText(t *testing.T) {
	h := NewHandler(newTestDeps(t), nil)

	rec := serve(t, h, http.MethodPost, "/generate-text", `{"message":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Hi there!", decodeBody(t, rec)["response"])
}

func TestChat(t *testing.T) {
	h := NewHandler(newTestDeps(t), nil)

	body := `{"message":"What do you build?","conversation_history":[{"type":"ai","content":"Welcome!"}]}`
	rec := serve(t, h, http.MethodPost, "/chat-with-files", body)
	require.Equal(t, http.StatusOK, rec.Code)

	out := decodeBody(t, rec)
	require.Equal(t, "Hi there!", out["response"])
	require.Equal(t, "general", out["stage"])
}

func TestChat_InvalidBody(t *testing.T) {
	h := NewHandler(newTestDeps(t), nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"message":`},
		{"empty message", `{"message":"   "}`},
		{"missing body", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, h, http.MethodPost, "/chat-with-files", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			out := decodeBody(t, rec)
			require.Equal(t, "INVALID_REQUEST", out["code"])
			require.NotEmpty(t, out["detail"])
		})
	}
}

func TestChat_BodyTooLarge(t *testing.T) {
	h := NewHandler(newTestDeps(t), nil)

	huge := `{"message":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	rec := serve(t, h, http.MethodPost, "/chat-with-files", huge)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, decodeBody(t, rec)["detail"], "exceeds")
}

func TestContent(t *testing.T) {
	deps := newTestDeps(t)
	writeFile(t, filepath.Join(deps.Config.PrivateDir, "about.md"), "# About me")
	h := NewHandler(deps, nil)

	rec := serve(t, h, http.MethodGet, "/api/content/about.md", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "# About me", decodeBody(t, rec)["content"])

	rec = serve(t, h, http.MethodGet, "/api/content/missing.md", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	out := decodeBody(t, rec)
	require.Equal(t, "File not found", out["detail"])
	require.Equal(t, "FILE_NOT_FOUND", out["code"])
}

func TestContact(t *testing.T) {
	deps := newTestDeps(t)
	h := NewHandler(deps, nil)

	rec := serve(t, h, http.MethodPost, "/api/contact", `{"email":"visitor@example.com","message":"Let's talk"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decodeBody(t, rec)
	require.Equal(t, "success", out["status"])

	logged, err := contact.ReadLog(deps.Config.EmailLogPath)
	require.NoError(t, err)
	require.Len(t, logged.Entries, 1)
	require.Equal(t, "visitor@example.com", logged.Entries[0].Email)

	rec = serve(t, h, http.MethodPost, "/api/contact", `{"email":"not-an-email","message":"hi"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckPaths(t *testing.T) {
	deps := newTestDeps(t)
	writeFile(t, filepath.Join(deps.Config.TemplatesDir, "demo.md"), "demo")
	h := NewHandler(deps, nil)

	rec := serve(t, h, http.MethodGet, "/check-paths", "")
	require.Equal(t, http.StatusOK, rec.Code)

	out := decodeBody(t, rec)
	require.Equal(t, "Template", out["document_source"])

	// Flat fields read by the frontend's file check
	require.Equal(t, true, out["docs_exists"])
	require.Equal(t, false, out["private_exists"])
	require.IsType(t, "", out["docs_dir"])
	require.IsType(t, "", out["private_dir"])
	require.Equal(t, []any{}, out["private_files"])
	require.Equal(t, []any{"demo.md"}, out["template_files"])

	templates := out["directories"].(map[string]any)["templates"].(map[string]any)
	require.Equal(t, true, templates["exists"])
}

func TestProjects(t *testing.T) {
	deps := newTestDeps(t)
	writeFile(t, filepath.Join(deps.Config.ProjectsDir, "chat-bot.md"),
		"# Chat Bot\n\n## Featured\ntrue\n\n## Category\nAI\n\n- **Backend**: Go\n")
	writeFile(t, filepath.Join(deps.Config.ProjectsDir, "site.md"), "# Site\n\n## Category\nWeb\n")
	h := NewHandler(deps, nil)

	rec := serve(t, h, http.MethodGet, "/api/projects", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := decodeBody(t, rec)
	require.Equal(t, float64(2), out["count"])
	first := out["projects"].([]any)[0].(map[string]any)
	require.Equal(t, "chat-bot", first["slug"])
	require.NotContains(t, first, "content")

	rec = serve(t, h, http.MethodGet, "/api/projects?featured_only=true", "")
	require.Equal(t, float64(1), decodeBody(t, rec)["count"])

	rec = serve(t, h, http.MethodGet, "/api/projects?category=web", "")
	require.Equal(t, float64(1), decodeBody(t, rec)["count"])

	rec = serve(t, h, http.MethodGet, "/api/projects/chat-bot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out = decodeBody(t, rec)
	require.Contains(t, out["content_html"], "<h1>Chat Bot</h1>")
	require.Equal(t, "Go", out["project"].(map[string]any)["tech_backend"])

	rec = serve(t, h, http.MethodGet, "/api/projects/unknown", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "NOT_FOUND", decodeBody(t, rec)["code"])
}

func TestStaticMedia(t *testing.T) {
	deps := newTestDeps(t)
	writeFile(t, filepath.Join(deps.Config.MediaDir(), "shot.png"), "png-bytes")
	h := NewHandler(deps, nil)

	rec := serve(t, h, http.MethodGet, "/static/media/shot.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "png-bytes", rec.Body.String())

	rec = serve(t, h, http.MethodGet, "/static/media/", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, h, http.MethodGet, "/static/media/missing.png", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS(t *testing.T) {
	h := NewHandler(newTestDeps(t), nil)

	req := httptest.NewRequest(http.MethodOptions, "/chat-with-files", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Less(t, rec.Code, 300)
	require.Equal(t, testOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDAndSecurityHeaders(t *testing.T) {
	h := NewHandler(newTestDeps(t), nil)

	rec := serve(t, h, http.MethodGet, "/health", "")
	_, err := uuid.Parse(rec.Header().Get(requestIDHeader))
	require.NoError(t, err)
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, incoming)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, incoming, rec.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "not a uuid\r\n")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.NotEqual(t, "not a uuid\r\n", rec.Header().Get(requestIDHeader))
}

func TestParseBoolParam(t *testing.T) {
	for value, want := range map[string]bool{"true": true, "TRUE": true, "1": true, "yes": true, "false": false, "": false, "maybe": false} {
		req := httptest.NewRequest(http.MethodGet, "/api/projects?featured_only="+value, nil)
		require.Equal(t, want, parseBoolParam(req, "featured_only"), value)
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	deps := newTestDeps(t)
	srv := NewServer(deps, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv, ln, nil) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
