package ops

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/folio/internal/config"
	"github.com/hpungsan/folio/internal/contact"
	"github.com/hpungsan/folio/internal/docs"
	"github.com/hpungsan/folio/internal/errors"
	"github.com/hpungsan/folio/internal/project"
	"github.com/hpungsan/folio/internal/prompt"
)

// recordingCompleter returns reply and remembers every prompt.
type recordingCompleter struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
}

func (r *recordingCompleter) Complete(_ context.Context, p string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = append(r.prompts, p)
	return r.reply, r.err
}

func (r *recordingCompleter) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.prompts) == 0 {
		return ""
	}
	return r.prompts[len(r.prompts)-1]
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []contact.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg contact.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

type testEnv struct {
	deps      *Deps
	cfg       *config.Config
	completer *recordingCompleter
	mailer    *recordingMailer
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

// newTestEnv builds Deps over a temp docs tree with fake completion and mail.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	base := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.DocsDir = filepath.Join(base, "docs")
	cfg.StaticDir = filepath.Join(base, "static")
	cfg.EmailLogPath = filepath.Join(base, "emails.jsonl")
	cfg.Owner = "Dana"
	config.Resolve(cfg)

	completer := &recordingCompleter{reply: "model reply"}
	mailer := &recordingMailer{}

	deps := &Deps{
		Config:    cfg,
		Docs:      docs.NewLoader(cfg.PrivateDir, cfg.TemplatesDir, nil),
		Catalog:   project.NewCatalog(cfg.ProjectsDir, cfg.MediaDir(), project.MediaURLPrefix, nil),
		Composer:  prompt.NewComposer(cfg.Owner, cfg.HistoryTurns),
		Contact:   contact.NewService(contact.NewLog(cfg.EmailLogPath), mailer, nil),
		Completer: completer,
		Now:       func() time.Time { return time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC) },
	}
	return &testEnv{deps: deps, cfg: cfg, completer: completer, mailer: mailer}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	out := Health(env.deps)
	require.Equal(t, "healthy", out.Status)
	require.Equal(t, ServiceName, out.Service)
	require.Equal(t, "2026-05-04T10:30:00Z", out.Timestamp)
}

func TestGenerateText(t *testing.T) {
	env := newTestEnv(t)

	out, err := GenerateText(context.Background(), env.deps, GenerateTextInput{Message: "  write a haiku "})
	require.NoError(t, err)
	require.Equal(t, "model reply", out.Response)
	require.Equal(t, "write a haiku", env.completer.last())
}

func TestGenerateText_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := GenerateText(ctx, env.deps, GenerateTextInput{Message: "  "})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))

	long := make([]rune, MaxMessageLength+1)
	for i := range long {
		long[i] = 'é'
	}
	_, err = GenerateText(ctx, env.deps, GenerateTextInput{Message: string(long)})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
	require.Empty(t, env.completer.prompts)
}

func TestGenerateText_MissingAPIKey(t *testing.T) {
	env := newTestEnv(t)
	env.deps.Completer = nil

	_, err := GenerateText(context.Background(), env.deps, GenerateTextInput{Message: "hi"})
	require.True(t, errors.Is(err, errors.ErrConfigMissing))
	require.Contains(t, err.Error(), "GEMINI_API_KEY")

	env.cfg.Provider = config.ProviderOpenAI
	_, err = GenerateText(context.Background(), env.deps, GenerateTextInput{Message: "hi"})
	require.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestGenerateText_UpstreamError(t *testing.T) {
	env := newTestEnv(t)
	env.completer.err = errors.NewUpstream("m", stderrors.New("boom"))

	_, err := GenerateText(context.Background(), env.deps, GenerateTextInput{Message: "hi"})
	require.True(t, errors.Is(err, errors.ErrUpstream))
}

func TestNewDeps_WithoutCredentials(t *testing.T) {
	cfg := config.Resolve(config.DefaultConfig())
	cfg.EmailLogPath = filepath.Join(t.TempDir(), "emails.jsonl")

	d := NewDeps(context.Background(), cfg, nil)
	require.Nil(t, d.Completer)
	require.NotNil(t, d.Contact)
	require.False(t, d.Contact.CanDeliver())
	require.NotNil(t, d.Catalog)
}

func TestNewDeps_WithCredentials(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Provider = config.ProviderOpenAI
	cfg.OpenAIAPIKey = "sk-test"
	cfg.SMTP.Sender = "me@example.com"
	cfg.SMTP.Password = "pw"
	cfg.SMTP.Recipient = "owner@example.com"
	config.Resolve(cfg)

	d := NewDeps(context.Background(), cfg, nil)
	require.NotNil(t, d.Completer)
	require.True(t, d.Contact.CanDeliver())
}
