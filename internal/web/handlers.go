package web

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/hpungsan/folio/internal/errors"
	"github.com/hpungsan/folio/internal/ops"
)

// Handlers contains HTTP route handlers for the portfolio API.
type Handlers struct {
	deps   *ops.Deps
	logger *zap.Logger
}

// HandleHealth handles GET / and GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, ops.Health(h.deps))
}

// HandleGenerateText handles POST /generate-text.
func (h *Handlers) HandleGenerateText(w http.ResponseWriter, r *http.Request) {
	var input ops.GenerateTextInput
	if err := decodeJSON(w, r, &input); err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.GenerateText(r.Context(), h.deps, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleChat handles POST /chat-with-files.
func (h *Handlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	var input ops.ChatInput
	if err := decodeJSON(w, r, &input); err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.Chat(r.Context(), h.deps, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleContent handles GET /api/content/{file_name}.
func (h *Handlers) HandleContent(w http.ResponseWriter, r *http.Request) {
	result, err := ops.GetContent(r.Context(), h.deps, ops.GetContentInput{
		FileName: r.PathValue("file_name"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleContact handles POST /api/contact.
func (h *Handlers) HandleContact(w http.ResponseWriter, r *http.Request) {
	var input ops.ContactInput
	if err := decodeJSON(w, r, &input); err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.Contact(r.Context(), h.deps, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleCheckPaths handles GET /check-paths.
func (h *Handlers) HandleCheckPaths(w http.ResponseWriter, r *http.Request) {
	result, err := ops.CheckPaths(r.Context(), h.deps)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleListProjects handles GET /api/projects.
func (h *Handlers) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := ops.ListProjects(r.Context(), h.deps, ops.ListProjectsInput{
		FeaturedOnly: parseBoolParam(r, "featured_only"),
		Category:     q.Get("category"),
		Status:       q.Get("status"),
		Type:         q.Get("type"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleGetProject handles GET /api/projects/{slug}.
func (h *Handlers) HandleGetProject(w http.ResponseWriter, r *http.Request) {
	result, err := ops.GetProject(r.Context(), h.deps, ops.GetProjectInput{
		Slug: r.PathValue("slug"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// fail logs server-side failures and renders the error.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	fErr := errors.As(err)
	if fErr.Status >= 500 {
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("code", string(fErr.Code)),
			zap.Error(err))
	}
	renderError(w, fErr)
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := strings.ToLower(r.URL.Query().Get(name))
	return s == "true" || s == "1" || s == "yes"
}
