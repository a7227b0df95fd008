package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFeedURL        = "https://techcrunch.com/category/artificial-intelligence/feed/"
	DefaultBatchSize      = 5
	DefaultItemDelaySecs  = 15
	DefaultLanguage       = "English"
	DefaultNotifyUsername = "AI Investment CIO"
)

// RoleLLM configures the backend used by one analyzer role.
type RoleLLM struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// APIKey resolves the role's credential from the environment.
func (r RoleLLM) APIKey() string {
	return Secret(r.APIKeyEnv)
}

// Secret reads the environment variable named env, trimmed. An empty name
// yields "".
func Secret(env string) string {
	if env == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(env))
}

type Config struct {
	Language string `yaml:"language"`
	Feed     struct {
		Source          string `yaml:"source"`
		URL             string `yaml:"url"`
		FinnhubCategory string `yaml:"finnhub_category"`
		APIKeyEnv       string `yaml:"api_key_env"`
		EnrichEmptyBody bool   `yaml:"enrich_empty_body"`
		TimeoutSeconds  int    `yaml:"timeout_seconds"`
	} `yaml:"feed"`
	LLM struct {
		Optimist RoleLLM `yaml:"optimist"`
		Skeptic  RoleLLM `yaml:"skeptic"`
		Editor   RoleLLM `yaml:"editor"`
	} `yaml:"llm"`
	Pipeline struct {
		BatchSize int `yaml:"batch_size"`
		// ItemDelaySeconds is a pointer so an explicit 0 disables the pause.
		ItemDelaySeconds *int `yaml:"item_delay_seconds"`
	} `yaml:"pipeline"`
	Persistence struct {
		Backends []string `yaml:"backends"`
		Notion   struct {
			DatabaseID  string `yaml:"database_id"`
			APIKeyEnv   string `yaml:"api_key_env"`
			DatabaseURL string `yaml:"database_url"`
		} `yaml:"notion"`
		Postgres struct {
			DSNEnv string `yaml:"dsn_env"`
		} `yaml:"postgres"`
		SQLite struct {
			Path string `yaml:"path"`
		} `yaml:"sqlite"`
		JSONL struct {
			Dir           string `yaml:"dir"`
			RetentionDays int    `yaml:"retention_days"`
		} `yaml:"jsonl"`
	} `yaml:"persistence"`
	Notify struct {
		WebhookURLEnv string `yaml:"webhook_url_env"`
		Username      string `yaml:"username"`
	} `yaml:"notify"`
	Run struct {
		LockFile string `yaml:"lock_file"`
	} `yaml:"run"`
	Tracing struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"tracing"`
}

// ItemDelay is the fixed pause applied after each processed item.
func (c *Config) ItemDelay() time.Duration {
	if c.Pipeline.ItemDelaySeconds == nil {
		return DefaultItemDelaySecs * time.Second
	}
	return time.Duration(*c.Pipeline.ItemDelaySeconds) * time.Second
}

// FeedTimeout bounds a single feed request.
func (c *Config) FeedTimeout() time.Duration {
	return time.Duration(c.Feed.TimeoutSeconds) * time.Second
}

var (
	validProviders = map[string]bool{"OPENAI": true, "GROQ": true, "GEMINI": true, "CLAUDE": true, "NOOP": true}
	validSources   = map[string]bool{"RSS": true, "FINNHUB": true}
	validBackends  = map[string]bool{"NOTION": true, "POSTGRES": true, "SQLITE": true, "JSONL": true}
)

func (c *Config) Validate() error {
	if !validSources[c.Feed.Source] {
		return fmt.Errorf("invalid feed.source '%s': must be 'RSS' or 'FINNHUB'", c.Feed.Source)
	}
	if c.Feed.Source == "RSS" && !strings.HasPrefix(c.Feed.URL, "http://") && !strings.HasPrefix(c.Feed.URL, "https://") {
		return fmt.Errorf("feed.url must be an http(s) URL, got '%s'", c.Feed.URL)
	}
	roles := map[string]RoleLLM{"optimist": c.LLM.Optimist, "skeptic": c.LLM.Skeptic, "editor": c.LLM.Editor}
	for name, role := range roles {
		if !validProviders[role.Provider] {
			return fmt.Errorf("llm.%s.provider '%s' is not supported", name, role.Provider)
		}
		if role.Provider != "NOOP" && role.Model == "" {
			return fmt.Errorf("llm.%s.model is required", name)
		}
	}
	if c.Pipeline.BatchSize <= 0 {
		return fmt.Errorf("pipeline.batch_size must be positive, got %d", c.Pipeline.BatchSize)
	}
	if d := c.Pipeline.ItemDelaySeconds; d != nil && *d < 0 {
		return fmt.Errorf("pipeline.item_delay_seconds cannot be negative, got %d", *d)
	}
	if len(c.Persistence.Backends) == 0 {
		return errors.New("persistence.backends cannot be empty")
	}
	for _, b := range c.Persistence.Backends {
		if !validBackends[b] {
			return fmt.Errorf("persistence backend '%s' must be one of NOTION, POSTGRES, SQLITE, JSONL", b)
		}
		if b == "NOTION" && c.Persistence.Notion.DatabaseID == "" {
			return errors.New("persistence.notion.database_id is required for the NOTION backend")
		}
	}
	return nil
}

// ApplyDefaults fills every unset field with its default.
func (c *Config) ApplyDefaults() {
	if c.Language == "" {
		c.Language = DefaultLanguage
	}

	c.Feed.Source = strings.ToUpper(strings.TrimSpace(c.Feed.Source))
	if c.Feed.Source == "" {
		c.Feed.Source = "RSS"
	}
	if c.Feed.URL == "" {
		c.Feed.URL = DefaultFeedURL
	}
	if c.Feed.FinnhubCategory == "" {
		c.Feed.FinnhubCategory = "general"
	}
	if c.Feed.APIKeyEnv == "" {
		c.Feed.APIKeyEnv = "FINNHUB_API_KEY"
	}
	if c.Feed.TimeoutSeconds == 0 {
		c.Feed.TimeoutSeconds = 30
	}

	applyRoleDefaults(&c.LLM.Optimist, "GEMINI", "gemini-2.5-flash", "GEMINI_API_KEY")
	applyRoleDefaults(&c.LLM.Skeptic, "GROQ", "llama3-70b-8192", "GROQ_API_KEY")
	applyRoleDefaults(&c.LLM.Editor, "GEMINI", "gemini-2.5-flash", "GEMINI_API_KEY")
	if c.LLM.Editor.MaxTokens == 0 {
		c.LLM.Editor.MaxTokens = 2048
	}

	if c.Pipeline.BatchSize == 0 {
		c.Pipeline.BatchSize = DefaultBatchSize
	}
	if c.Pipeline.ItemDelaySeconds == nil {
		delay := DefaultItemDelaySecs
		c.Pipeline.ItemDelaySeconds = &delay
	}

	for i, b := range c.Persistence.Backends {
		c.Persistence.Backends[i] = strings.ToUpper(strings.TrimSpace(b))
	}
	if len(c.Persistence.Backends) == 0 {
		if c.Persistence.Notion.DatabaseID != "" {
			c.Persistence.Backends = []string{"NOTION"}
		} else {
			c.Persistence.Backends = []string{"JSONL"}
		}
	}
	if c.Persistence.Notion.APIKeyEnv == "" {
		c.Persistence.Notion.APIKeyEnv = "NOTION_API_KEY"
	}
	if c.Persistence.Notion.DatabaseURL == "" {
		c.Persistence.Notion.DatabaseURL = "https://www.notion.so/"
	}
	if c.Persistence.Postgres.DSNEnv == "" {
		c.Persistence.Postgres.DSNEnv = "DATABASE_URL"
	}
	if c.Persistence.SQLite.Path == "" {
		c.Persistence.SQLite.Path = "insights.db"
	}
	if c.Persistence.JSONL.Dir == "" {
		c.Persistence.JSONL.Dir = "insights"
	}

	if c.Notify.WebhookURLEnv == "" {
		c.Notify.WebhookURLEnv = "DISCORD_WEBHOOK_URL"
	}
	if c.Notify.Username == "" {
		c.Notify.Username = DefaultNotifyUsername
	}
	if c.Run.LockFile == "" {
		c.Run.LockFile = "newsdesk.lock"
	}
}

func applyRoleDefaults(r *RoleLLM, provider, model, keyEnv string) {
	r.Provider = strings.ToUpper(strings.TrimSpace(r.Provider))
	if r.Provider == "" {
		r.Provider = provider
		if r.Model == "" {
			r.Model = model
		}
		if r.APIKeyEnv == "" {
			r.APIKeyEnv = keyEnv
		}
	}
	if r.MaxTokens == 0 {
		r.MaxTokens = 1024
	}
}

// LoadConfig reads path, applies defaults and validates. A missing file yields
// the default configuration.
func LoadConfig(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	c.ApplyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
