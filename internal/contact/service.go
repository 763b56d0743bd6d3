// Package contact records visitor email addresses and forwards them to the
// portfolio owner.
package contact

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hpungsan/folio/internal/chat"
	"github.com/hpungsan/folio/internal/errors"
	"github.com/hpungsan/folio/internal/logging"
)

// MaxMessageLength bounds a contact form message.
const MaxMessageLength = 5000

// Service logs addresses and sends notifications.
type Service struct {
	log    *Log
	mailer Mailer
	logger *zap.Logger
}

// NewService creates a Service. mailer may be nil when SMTP is not configured.
func NewService(log *Log, mailer Mailer, logger *zap.Logger) *Service {
	return &Service{log: log, mailer: mailer, logger: logging.OrNop(logger)}
}

// Log returns the underlying email log.
func (s *Service) Log() *Log { return s.log }

// CanDeliver reports whether a mailer is configured.
func (s *Service) CanDeliver() bool { return s.mailer != nil }

// Collect records an address captured from chat, then notifies the owner.
// Notification failures are logged and never returned.
func (s *Service) Collect(ctx context.Context, email, conversation string) (*Entry, error) {
	entry, err := s.log.Append(email, conversation)
	if err != nil {
		s.logger.Error("email log append failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	s.logger.Info("collected email", zap.String("id", entry.ID), zap.String("email", entry.Email))

	if s.mailer == nil {
		s.logger.Warn("smtp not configured, skipping notification", zap.String("id", entry.ID))
		return entry, nil
	}

	msg := Message{
		ReplyTo: entry.Email,
		Subject: "New contact from portfolio chat",
		Body: fmt.Sprintf("A visitor shared their email address in the portfolio chat.\n\nEmail: %s\nTime: %s\n\nConversation:\n%s\n",
			entry.Email, entry.Timestamp.Format("2006-01-02 15:04:05 MST"), conversation),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Warn("notification failed", zap.String("id", entry.ID), zap.Error(err))
	}
	return entry, nil
}

// Contact handles the contact form: validate, log, deliver.
// The log write is attempted even when delivery is impossible.
func (s *Service) Contact(ctx context.Context, email, message string) (*Entry, error) {
	email = strings.TrimSpace(email)
	message = strings.TrimSpace(message)

	if email == "" {
		return nil, errors.NewInvalidRequest("email is required")
	}
	if ok, hint := chat.ValidateEmail(email); !ok {
		return nil, errors.NewInvalidRequest(hint)
	}
	if message == "" {
		return nil, errors.NewInvalidRequest("message is required")
	}
	if len(message) > MaxMessageLength {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("message exceeds %d characters", MaxMessageLength))
	}

	entry, logErr := s.log.Append(email, "contact form: "+message)
	if logErr != nil {
		s.logger.Error("email log append failed", zap.String("email", email), zap.Error(logErr))
	}

	if s.mailer == nil {
		return entry, errors.NewConfigMissing("SMTP is not configured")
	}

	msg := Message{
		ReplyTo: email,
		Subject: "New message from portfolio contact form",
		Body:    fmt.Sprintf("From: %s\n\n%s\n", email, message),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("contact delivery failed", zap.String("email", email), zap.Error(err))
		return entry, errors.NewDeliveryFailed(err)
	}

	s.logger.Info("contact message delivered", zap.String("email", email))
	return entry, nil
}
