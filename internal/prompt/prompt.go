// Package prompt renders the text sent to the language model for each
// conversation stage.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/hpungsan/folio/internal/chat"
)

// DefaultHistoryTurns is how many prior turns a prompt includes.
const DefaultHistoryTurns = 4

//go:embed templates/*.tmpl
var files embed.FS

// templates holds one named template per stage ("general.tmpl", ...) plus
// the shared "history", "documents" and "closing" blocks.
var templates = template.Must(template.New("prompt").ParseFS(files, "templates/*.tmpl"))

// Input is everything a prompt can draw on.
type Input struct {
	Context   chat.Context
	Documents string
	History   []chat.Turn
	Message   string

	// InviteEmail asks the model to offer forwarding the visitor's address.
	// Only the general stage honors it.
	InviteEmail bool
}

// Composer renders prompts.
type Composer struct {
	HistoryTurns int
	Owner        string
}

// NewComposer returns a Composer; non-positive historyTurns falls back to
// DefaultHistoryTurns.
func NewComposer(owner string, historyTurns int) *Composer {
	if historyTurns <= 0 {
		historyTurns = DefaultHistoryTurns
	}
	if strings.TrimSpace(owner) == "" {
		owner = "the portfolio owner"
	}
	return &Composer{HistoryTurns: historyTurns, Owner: owner}
}

type templateData struct {
	Owner       string
	Documents   string
	History     []chat.Turn
	Message     string
	Email       string
	EmailError  string
	InviteEmail bool
}

// Compose renders the template for in.Context.Stage.
func (c *Composer) Compose(in Input) (string, error) {
	stage := in.Context.Stage
	if stage == "" {
		stage = chat.StageGeneral
	}

	tmpl := templates.Lookup(string(stage) + ".tmpl")
	if tmpl == nil {
		return "", fmt.Errorf("no prompt template for stage %q", stage)
	}

	data := templateData{
		Owner:       c.Owner,
		History:     chat.Recent(in.History, c.HistoryTurns),
		Message:     strings.TrimSpace(in.Message),
		Email:       in.Context.ProvidedEmail,
		EmailError:  in.Context.EmailError,
		InviteEmail: in.InviteEmail && stage == chat.StageGeneral,
	}
	if includesDocuments(stage) {
		data.Documents = strings.TrimSpace(in.Documents)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", stage, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// includesDocuments reports whether the stage's prompt carries document text.
func includesDocuments(stage chat.Stage) bool {
	return stage == chat.StageGeneral || stage == chat.StageEmailProvided
}

// ComposePlain is the passthrough prompt for free-form text generation.
func ComposePlain(message string) string {
	return strings.TrimSpace(message)
}
