package ops

import (
	"context"

	"go.uber.org/zap"

	"github.com/hpungsan/folio/internal/prompt"
)

// GenerateTextInput contains parameters for the GenerateText operation.
type GenerateTextInput struct {
	Message string `json:"message"`
}

// GenerateTextOutput contains the model reply.
type GenerateTextOutput struct {
	Response string `json:"response"`
}

// GenerateText forwards the message to the model without documents or history.
func GenerateText(ctx context.Context, d *Deps, input GenerateTextInput) (*GenerateTextOutput, error) {
	message, err := validateMessage(input.Message)
	if err != nil {
		return nil, err
	}
	completer, err := d.completer()
	if err != nil {
		return nil, err
	}

	text, err := completer.Complete(ctx, prompt.ComposePlain(message))
	if err != nil {
		d.logger().Warn("generate-text failed", zap.Error(err))
		return nil, err
	}
	return &GenerateTextOutput{Response: text}, nil
}
