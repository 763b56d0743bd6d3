// Package completion sends prompts to a hosted language model, falling back
// across an ordered list of model identifiers when the service is overloaded.
package completion

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/hpungsan/folio/internal/errors"
	"github.com/hpungsan/folio/internal/logging"
)

const (
	// BusyMessage is returned, without an error, when every model is overloaded.
	BusyMessage = "All models are currently busy. Please try again in a moment."

	// NoResponseMessage replaces an empty model reply.
	NoResponseMessage = "Could not generate response"
)

// Generator performs one completion call against one model.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, model, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, model, prompt string) (string, error) {
	return f(ctx, model, prompt)
}

// Classifier reports whether an error means "try the next model".
type Classifier func(error) bool

// transientMarkers are matched case-insensitively against error text.
var transientMarkers = []string{"503", "overloaded", "unavailable"}

// IsTransient is the default Classifier.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// Client tries each configured model in order until one answers.
type Client struct {
	gen       Generator
	models    []string
	transient Classifier
	logger    *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithClassifier replaces IsTransient.
func WithClassifier(fn Classifier) Option {
	return func(c *Client) {
		if fn != nil {
			c.transient = fn
		}
	}
}

// WithLogger sets the logger used for fallback events.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logging.OrNop(logger) }
}

// New creates a Client. The models slice is copied.
func New(gen Generator, models []string, opts ...Option) *Client {
	c := &Client{
		gen:       gen,
		models:    append([]string(nil), models...),
		transient: IsTransient,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Models returns the fallback order.
func (c *Client) Models() []string {
	return append([]string(nil), c.models...)
}

// Complete returns the first successful completion.
//
// A transient error moves on to the next model with no delay. Any other error
// is returned at once as UPSTREAM_ERROR. When every model is overloaded the
// result is BusyMessage and a nil error.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	for i, model := range c.models {
		if ctx.Err() != nil {
			return "", errors.NewCancelled("completion")
		}

		text, err := c.gen.Generate(ctx, model, prompt)
		if err == nil {
			if strings.TrimSpace(text) == "" {
				return NoResponseMessage, nil
			}
			return text, nil
		}

		if !c.transient(err) {
			c.logger.Warn("completion failed",
				zap.String("model", model),
				zap.Error(err))
			return "", errors.NewUpstream(model, err)
		}

		c.logger.Info("model overloaded, falling back",
			zap.String("model", model),
			zap.Int("attempt", i+1),
			zap.Int("of", len(c.models)),
			zap.Error(err))
	}

	c.logger.Warn("all models busy", zap.Strings("models", c.models))
	return BusyMessage, nil
}
