package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FileName is the configuration file looked up in the base directory.
const FileName = "folio.json"

// Provider names accepted in Config.Provider.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// DefaultGeminiModels is the fallback order tried when the primary model is overloaded.
var DefaultGeminiModels = []string{
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
	"gemini-1.5-flash",
}

// DefaultOpenAIModels is the fallback order for the OpenAI provider.
var DefaultOpenAIModels = []string{
	"gpt-4o-mini",
	"gpt-3.5-turbo",
}

// SMTPConfig holds outgoing mail settings for contact notifications.
type SMTPConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// Sender is both the SMTP username and the From address.
	Sender string `json:"sender,omitempty"`

	// Password is only read from the environment (SMTP_PASSWORD).
	Password string `json:"-"`

	// Recipient receives collected visitor emails and contact messages.
	Recipient string `json:"recipient,omitempty"`
}

// Config holds application configuration.
type Config struct {
	// DocsDir is the root of the document tree. PrivateDir, TemplatesDir and
	// ProjectsDir default to subdirectories of it when unset.
	DocsDir      string `json:"docs_dir,omitempty"`
	PrivateDir   string `json:"private_dir,omitempty"`
	TemplatesDir string `json:"templates_dir,omitempty"`
	ProjectsDir  string `json:"projects_dir,omitempty"`

	// StaticDir is served under /static/. Project media files live in StaticDir/media.
	StaticDir string `json:"static_dir,omitempty"`

	// EmailLogPath is the append-only JSONL log of collected visitor emails.
	EmailLogPath string `json:"email_log_path,omitempty"`

	// Provider selects the completion backend: "gemini" (default) or "openai".
	Provider string `json:"provider,omitempty"`

	// Models is the ordered fallback list of model identifiers.
	// An overlay list replaces the base list instead of merging, since order matters.
	Models []string `json:"models,omitempty"`

	// API keys are only read from the environment.
	GeminiAPIKey string `json:"-"`
	OpenAIAPIKey string `json:"-"`

	// Owner is the portfolio owner's name used in prompts.
	Owner string `json:"owner,omitempty"`

	// HistoryTurns is how many recent turns are rendered into prompts.
	HistoryTurns int `json:"history_turns,omitempty"`

	// AskEmailAfter is the number of user turns after which the assistant
	// invites the visitor to leave an email address.
	AskEmailAfter int `json:"ask_email_after,omitempty"`

	// AllowedOrigins is the CORS allowlist.
	AllowedOrigins []string `json:"allowed_origins,omitempty"`

	Bind string `json:"bind,omitempty"`
	Port int    `json:"port,omitempty"`

	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	SMTP SMTPConfig `json:"smtp"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DocsDir:       "docs",
		StaticDir:     "static",
		EmailLogPath:  "collected_emails.jsonl",
		Provider:      ProviderGemini,
		Owner:         "the portfolio owner",
		HistoryTurns:  4,
		AskEmailAfter: 3,
		Bind:          "127.0.0.1",
		Port:          8000,
		LogLevel:      "info",
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
	}
}

// Load loads configuration from baseDir/folio.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir().
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, FileName))
	if err != nil {
		return nil, err
	}
	return Resolve(Merge(DefaultConfig(), cfg)), nil
}

// LoadWithEnv loads baseDir/folio.json and overlays values from the environment.
// getenv is usually os.Getenv; tests pass a map lookup.
func LoadWithEnv(baseDir string, getenv func(string) string) (*Config, error) {
	file, err := loadFileRaw(filepath.Join(baseDir, FileName))
	if err != nil {
		return nil, err
	}
	return Resolve(Merge(Merge(DefaultConfig(), file), FromEnv(getenv))), nil
}

// FromEnv builds an overlay config from environment variables.
// Unset variables leave zero values, which Merge ignores.
func FromEnv(getenv func(string) string) *Config {
	cfg := &Config{
		DocsDir:      getenv("FOLIO_DOCS_DIR"),
		StaticDir:    getenv("FOLIO_STATIC_DIR"),
		EmailLogPath: getenv("FOLIO_EMAIL_LOG"),
		Provider:     strings.ToLower(strings.TrimSpace(getenv("FOLIO_PROVIDER"))),
		Models:       splitList(getenv("FOLIO_MODELS")),
		GeminiAPIKey: getenv("GEMINI_API_KEY"),
		OpenAIAPIKey: getenv("OPENAI_API_KEY"),
		Owner:        getenv("FOLIO_OWNER"),
		Bind:         getenv("HOST"),
		LogLevel:     getenv("LOG_LEVEL"),
		SMTP: SMTPConfig{
			Host:      getenv("SMTP_HOST"),
			Sender:    getenv("SMTP_EMAIL"),
			Password:  getenv("SMTP_PASSWORD"),
			Recipient: getenv("RECIPIENT_EMAIL"),
		},
	}

	if port, err := strconv.Atoi(getenv("PORT")); err == nil {
		cfg.Port = port
	}
	if port, err := strconv.Atoi(getenv("SMTP_PORT")); err == nil {
		cfg.SMTP.Port = port
	}

	var origins []string
	for _, key := range []string{"FRONTEND_PROD_URL", "FRONTEND_DEV_URL", "FRONTEND_VITE_URL"} {
		if v := getenv(key); v != "" {
			origins = append(origins, v)
		}
	}
	origins = append(origins, splitList(getenv("ALLOWED_ORIGINS"))...)
	cfg.AllowedOrigins = origins

	return cfg
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; string sets are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{
		DocsDir:      pick(overlay.DocsDir, base.DocsDir),
		PrivateDir:   pick(overlay.PrivateDir, base.PrivateDir),
		TemplatesDir: pick(overlay.TemplatesDir, base.TemplatesDir),
		ProjectsDir:  pick(overlay.ProjectsDir, base.ProjectsDir),
		StaticDir:    pick(overlay.StaticDir, base.StaticDir),
		EmailLogPath: pick(overlay.EmailLogPath, base.EmailLogPath),
		Provider:     pick(overlay.Provider, base.Provider),
		GeminiAPIKey: pick(overlay.GeminiAPIKey, base.GeminiAPIKey),
		OpenAIAPIKey: pick(overlay.OpenAIAPIKey, base.OpenAIAPIKey),
		Owner:        pick(overlay.Owner, base.Owner),
		Bind:         pick(overlay.Bind, base.Bind),
		LogLevel:     pick(overlay.LogLevel, base.LogLevel),
		SMTP: SMTPConfig{
			Host:      pick(overlay.SMTP.Host, base.SMTP.Host),
			Sender:    pick(overlay.SMTP.Sender, base.SMTP.Sender),
			Password:  pick(overlay.SMTP.Password, base.SMTP.Password),
			Recipient: pick(overlay.SMTP.Recipient, base.SMTP.Recipient),
		},
	}

	result.HistoryTurns = overlay.HistoryTurns
	if result.HistoryTurns == 0 {
		result.HistoryTurns = base.HistoryTurns
	}

	result.AskEmailAfter = overlay.AskEmailAfter
	if result.AskEmailAfter == 0 {
		result.AskEmailAfter = base.AskEmailAfter
	}

	result.Port = overlay.Port
	if result.Port == 0 {
		result.Port = base.Port
	}

	result.SMTP.Port = overlay.SMTP.Port
	if result.SMTP.Port == 0 {
		result.SMTP.Port = base.SMTP.Port
	}

	// Model order is significant: overlay replaces
	result.Models = base.Models
	if len(overlay.Models) > 0 {
		result.Models = overlay.Models
	}

	result.AllowedOrigins = mergeStringSlice(base.AllowedOrigins, overlay.AllowedOrigins)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// Resolve fills derived directories and provider defaults in place and returns cfg.
func Resolve(cfg *Config) *Config {
	if cfg.PrivateDir == "" {
		cfg.PrivateDir = filepath.Join(cfg.DocsDir, "private")
	}
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = filepath.Join(cfg.DocsDir, "templates")
	}
	if cfg.ProjectsDir == "" {
		cfg.ProjectsDir = filepath.Join(cfg.DocsDir, "projects")
	}
	if cfg.Provider == "" {
		cfg.Provider = ProviderGemini
	}
	if len(cfg.Models) == 0 {
		if cfg.Provider == ProviderOpenAI {
			cfg.Models = append([]string(nil), DefaultOpenAIModels...)
		} else {
			cfg.Models = append([]string(nil), DefaultGeminiModels...)
		}
	}
	return cfg
}

// MediaDir returns the directory holding project media files.
func (c *Config) MediaDir() string {
	return filepath.Join(c.StaticDir, "media")
}

// APIKey returns the key for the configured provider.
func (c *Config) APIKey() string {
	if c.Provider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// APIKeyVar returns the environment variable name that holds the provider's key.
func (c *Config) APIKeyVar() string {
	if c.Provider == ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// MissingSMTP returns the environment variable names of absent SMTP settings.
func (c *Config) MissingSMTP() []string {
	var missing []string
	if c.SMTP.Sender == "" {
		missing = append(missing, "SMTP_EMAIL")
	}
	if c.SMTP.Password == "" {
		missing = append(missing, "SMTP_PASSWORD")
	}
	if c.SMTP.Recipient == "" {
		missing = append(missing, "RECIPIENT_EMAIL")
	}
	return missing
}

// pick returns overlay if non-empty, else base.
func pick(overlay, base string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

// splitList splits a comma-separated value, dropping empty entries.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
