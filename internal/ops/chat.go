package ops

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hpungsan/folio/internal/chat"
	"github.com/hpungsan/folio/internal/errors"
	"github.com/hpungsan/folio/internal/prompt"
)

// ChatInput contains parameters for the Chat operation.
type ChatInput struct {
	Message string      `json:"message"`
	History []chat.Turn `json:"conversation_history,omitempty"`

	// CollectedEmail is set by clients that already hold the visitor's address.
	CollectedEmail string `json:"collected_email,omitempty"`
}

// ChatOutput contains the reply and the email-collection flags the client
// stores on the new assistant turn.
type ChatOutput struct {
	Response          string     `json:"response"`
	Stage             chat.Stage `json:"stage"`
	IsEmailCollection bool       `json:"is_email_collection,omitempty"`
	EmailCollected    bool       `json:"email_collected,omitempty"`
}

// Chat answers one visitor message using the background documents and the
// recent history. An address offered in the message is validated and, when
// valid, recorded through the contact service.
func Chat(ctx context.Context, d *Deps, input ChatInput) (*ChatOutput, error) {
	message, err := validateMessage(input.Message)
	if err != nil {
		return nil, err
	}
	if len(input.History) > MaxHistoryTurns {
		input.History = input.History[len(input.History)-MaxHistoryTurns:]
	}

	cc := chat.Classify(input.History, message)

	// Recorded before the model call: a failed completion must not lose the address.
	collected := false
	if cc.Stage == chat.StageEmailProvided {
		if _, err := d.Contact.Collect(ctx, cc.ProvidedEmail, transcript(input.History, message)); err != nil {
			d.logger().Error("could not record collected email", zap.Error(err))
		} else {
			collected = true
		}
	}

	completer, err := d.completer()
	if err != nil {
		return nil, err
	}

	invite := shouldInviteEmail(d, cc, input)

	in := prompt.Input{
		Context:     cc,
		History:     input.History,
		Message:     message,
		InviteEmail: invite,
	}
	if cc.Stage == chat.StageGeneral || cc.Stage == chat.StageEmailProvided {
		in.Documents = d.Docs.LoadAll(ctx).Text()
	}

	text, err := d.Composer.Compose(in)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	response, err := completer.Complete(ctx, text)
	if err != nil {
		d.logger().Warn("chat completion failed", zap.String("stage", string(cc.Stage)), zap.Error(err))
		return nil, err
	}

	out := &ChatOutput{
		Response:          response,
		Stage:             cc.Stage,
		IsEmailCollection: invite || cc.Stage == chat.StageInvalidEmail,
		EmailCollected:    collected,
	}

	d.logger().Debug("chat",
		zap.String("stage", string(cc.Stage)),
		zap.Int("history", len(input.History)),
		zap.Bool("invite_email", invite))
	return out, nil
}

// shouldInviteEmail decides whether a general answer should also offer to
// forward the visitor's address: only once the visitor has engaged for a few
// turns, and never while an address is known or an ask is outstanding.
func shouldInviteEmail(d *Deps, cc chat.Context, input ChatInput) bool {
	if cc.Stage != chat.StageGeneral || d.Contact == nil {
		return false
	}
	if strings.TrimSpace(input.CollectedEmail) != "" {
		return false
	}
	if chat.EmailCollected(input.History) || chat.AwaitingEmail(input.History) {
		return false
	}
	after := 3
	if d.Config != nil && d.Config.AskEmailAfter > 0 {
		after = d.Config.AskEmailAfter
	}
	return chat.UserTurns(input.History) >= after
}

// transcript renders the conversation stored alongside a collected address.
func transcript(history []chat.Turn, message string) string {
	var b strings.Builder
	for _, t := range chat.Recent(history, 6) {
		fmt.Fprintf(&b, "%s: %s\n", t.Role.Label(), t.Content)
	}
	fmt.Fprintf(&b, "%s: %s", chat.RoleUser.Label(), message)
	return b.String()
}
