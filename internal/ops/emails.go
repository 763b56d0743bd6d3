package ops

import (
	"context"

	"github.com/hpungsan/folio/internal/contact"
	"github.com/hpungsan/folio/internal/errors"
)

// ListEmailsInput contains parameters for the ListEmails operation.
type ListEmailsInput struct {
	// Limit keeps only the most recent entries; 0 means DefaultEmailList,
	// negative means all.
	Limit int `json:"limit,omitempty"`
}

// ListEmailsOutput contains collected addresses, oldest first.
type ListEmailsOutput struct {
	Path    string              `json:"path"`
	Entries []contact.Entry     `json:"entries"`
	Total   int                 `json:"total"`
	Invalid []contact.LineError `json:"invalid,omitempty"`
}

// ListEmails reads back the email log.
func ListEmails(ctx context.Context, d *Deps, input ListEmailsInput) (*ListEmailsOutput, error) {
	if ctx.Err() != nil {
		return nil, errors.NewCancelled("list emails")
	}

	path := d.Contact.Log().Path()
	contents, err := contact.ReadLog(path)
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = DefaultEmailList
	}
	entries := contents.Entries
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	return &ListEmailsOutput{
		Path:    path,
		Entries: entries,
		Total:   len(contents.Entries),
		Invalid: contents.Invalid,
	}, nil
}
