package ops

import (
	"context"

	"github.com/hpungsan/folio/internal/docs"
	"github.com/hpungsan/folio/internal/errors"
)

// GetContentInput contains parameters for the GetContent operation.
type GetContentInput struct {
	FileName string `json:"file_name"`
}

// GetContentOutput contains the raw markdown.
type GetContentOutput struct {
	Content string `json:"content"`
}

// GetContent returns a markdown file from the private document directory.
func GetContent(ctx context.Context, d *Deps, input GetContentInput) (*GetContentOutput, error) {
	if ctx.Err() != nil {
		return nil, errors.NewCancelled("get content")
	}

	path, err := resolveContentPath(d.Config.PrivateDir, input.FileName)
	if err != nil {
		return nil, err
	}

	text, err := docs.ReadMarkdown(path)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &GetContentOutput{Content: text}, nil
}
