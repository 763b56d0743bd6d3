package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/hpungsan/folio/internal/config"
	"github.com/hpungsan/folio/internal/errors"
)

// NewGenerator builds the Generator for provider. An empty apiKey is
// CONFIG_MISSING naming keyVar.
func NewGenerator(ctx context.Context, provider, apiKey, keyVar string) (Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.NewConfigMissing(fmt.Sprintf("%s is not set", keyVar))
	}

	switch strings.ToLower(provider) {
	case config.ProviderGemini, "":
		g, err := NewGemini(ctx, apiKey)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		return g, nil
	case config.ProviderOpenAI:
		return NewOpenAI(apiKey), nil
	default:
		return nil, errors.NewConfigMissing(fmt.Sprintf("unknown completion provider %q", provider))
	}
}
