// Package ops implements the request operations shared by the HTTP server,
// the MCP server and the CLI. Each operation takes an Input struct and
// returns an Output struct or a *errors.FolioError.
package ops

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/hpungsan/folio/internal/completion"
	"github.com/hpungsan/folio/internal/config"
	"github.com/hpungsan/folio/internal/contact"
	"github.com/hpungsan/folio/internal/docs"
	"github.com/hpungsan/folio/internal/errors"
	"github.com/hpungsan/folio/internal/logging"
	"github.com/hpungsan/folio/internal/project"
	"github.com/hpungsan/folio/internal/prompt"
)

// Request limits
const (
	MaxMessageLength = 4000
	MaxHistoryTurns  = 50
	DefaultEmailList = 50
)

// ServiceName is reported by Health.
const ServiceName = "folio"

// DocumentSource supplies the aggregated background documents.
type DocumentSource interface {
	LoadAll(ctx context.Context) docs.LoadResult
}

// Completer turns a prompt into model text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Deps bundles the collaborators every operation draws on.
type Deps struct {
	Config   *config.Config
	Docs     DocumentSource
	Catalog  *project.Catalog
	Composer *prompt.Composer
	Contact  *contact.Service

	// Completer is nil when no API key is configured; completion operations
	// then fail with CONFIG_MISSING.
	Completer Completer

	Logger *zap.Logger
	Now    func() time.Time
}

// NewDeps wires the default collaborators from cfg. Missing credentials are
// logged and leave the corresponding collaborator unset.
func NewDeps(ctx context.Context, cfg *config.Config, logger *zap.Logger) *Deps {
	logger = logging.OrNop(logger)

	d := &Deps{
		Config:   cfg,
		Docs:     docs.NewLoader(cfg.PrivateDir, cfg.TemplatesDir, logger.Named("docs")),
		Catalog:  project.NewCatalog(cfg.ProjectsDir, cfg.MediaDir(), project.MediaURLPrefix, logger.Named("projects")),
		Composer: prompt.NewComposer(cfg.Owner, cfg.HistoryTurns),
		Logger:   logger,
		Now:      time.Now,
	}

	gen, err := completion.NewGenerator(ctx, cfg.Provider, cfg.APIKey(), cfg.APIKeyVar())
	if err != nil {
		logger.Warn("completion disabled", zap.String("provider", cfg.Provider), zap.Error(err))
	} else {
		d.Completer = completion.New(gen, cfg.Models, completion.WithLogger(logger.Named("completion")))
	}

	var mailer contact.Mailer
	if m, err := contact.NewSMTPMailer(cfg.SMTP); err != nil {
		logger.Warn("email delivery disabled", zap.Strings("missing", cfg.MissingSMTP()))
	} else {
		mailer = m
	}
	d.Contact = contact.NewService(contact.NewLog(cfg.EmailLogPath), mailer, logger.Named("contact"))

	return d
}

func (d *Deps) logger() *zap.Logger {
	return logging.OrNop(d.Logger)
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// completer returns the configured Completer or CONFIG_MISSING.
func (d *Deps) completer() (Completer, error) {
	if d.Completer != nil {
		return d.Completer, nil
	}
	keyVar := "GEMINI_API_KEY"
	if d.Config != nil {
		keyVar = d.Config.APIKeyVar()
	}
	return nil, errors.NewConfigMissing(fmt.Sprintf("%s not found in environment variables", keyVar))
}

// validateMessage trims and bounds a user message.
func validateMessage(message string) (string, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return "", errors.NewInvalidRequest("message is required")
	}
	if utf8.RuneCountInString(trimmed) > MaxMessageLength {
		return "", errors.NewInvalidRequest(fmt.Sprintf("message exceeds %d characters", MaxMessageLength))
	}
	return trimmed, nil
}
