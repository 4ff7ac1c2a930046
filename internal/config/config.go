package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"NewsDigest/internal/domain"
)

const (
	defaultTimezone  = "UTC"
	configPathEnv    = "NEWS_DIGEST_CONFIG"
	redisURLEnv      = "NEWS_DIGEST_REDIS_URL"
	draftAPIKeyEnv   = "DRAFT_API_KEY"
	draftModelEnv    = "DRAFT_MODEL"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv  = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Ingest        IngestConfig       `yaml:"ingest"`
	Store         StoreConfig        `yaml:"store"`
	Server        ServerConfig       `yaml:"server"`
	Draft         DraftConfig        `yaml:"draft"`
	Notifications NotificationConfig `yaml:"notifications"`
	Sources       []domain.Source    `yaml:"sources"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SchedulerConfig defines when ingestion runs execute.
type SchedulerConfig struct {
	Interval string         `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Every parses the configured interval, defaulting to six hours.
func (s SchedulerConfig) Every() time.Duration {
	d, err := time.ParseDuration(s.Interval)
	if err != nil || d <= 0 {
		return 6 * time.Hour
	}
	return d
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// IngestConfig carries the scoring and output-shaping knobs of the pipeline.
type IngestConfig struct {
	WindowDays          int            `yaml:"windowDays"`
	MaxItems            int            `yaml:"maxItems"`
	SummaryMaxLen       int            `yaml:"summaryMaxLen"`
	FetchTimeoutSeconds int            `yaml:"fetchTimeoutSeconds"`
	Keywords            map[string]int `yaml:"keywords"`
}

// Window returns the lookback duration of one run.
func (i IngestConfig) Window() time.Duration {
	return time.Duration(i.WindowDays) * 24 * time.Hour
}

// FetchTimeout returns the per-source fetch deadline.
func (i IngestConfig) FetchTimeout() time.Duration {
	return time.Duration(i.FetchTimeoutSeconds) * time.Second
}

// StoreConfig selects and configures the snapshot store backend.
type StoreConfig struct {
	Kind     string `yaml:"kind"` // "file" or "redis"
	Dir      string `yaml:"dir"`
	RedisURL string `yaml:"redisUrl"`
	Archive  *bool  `yaml:"archive"`
}

// ArchiveEnabled reports whether dated snapshot archives should be written.
// Unset means enabled; the pointer exists so an explicit "archive: false" in
// the file survives the merge with defaults.
func (s StoreConfig) ArchiveEnabled() bool {
	return s.Archive == nil || *s.Archive
}

// ServerConfig describes the curation/read HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DraftConfig defines how to contact the newsletter draft generator.
type DraftConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(redisURLEnv); v != "" {
		c.Store.RedisURL = v
	}

	if v := os.Getenv(draftAPIKeyEnv); v != "" {
		c.Draft.APIKey = v
	}

	if v := os.Getenv(draftModelEnv); v != "" {
		c.Draft.Model = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Scheduler.Interval != "" {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Ingest.WindowDays > 0 {
		base.Ingest.WindowDays = override.Ingest.WindowDays
	}
	if override.Ingest.MaxItems > 0 {
		base.Ingest.MaxItems = override.Ingest.MaxItems
	}
	if override.Ingest.SummaryMaxLen > 0 {
		base.Ingest.SummaryMaxLen = override.Ingest.SummaryMaxLen
	}
	if override.Ingest.FetchTimeoutSeconds > 0 {
		base.Ingest.FetchTimeoutSeconds = override.Ingest.FetchTimeoutSeconds
	}
	if len(override.Ingest.Keywords) > 0 {
		base.Ingest.Keywords = override.Ingest.Keywords
	}

	if override.Store.Kind != "" {
		base.Store.Kind = override.Store.Kind
	}
	if override.Store.Dir != "" {
		base.Store.Dir = override.Store.Dir
	}
	if override.Store.RedisURL != "" {
		base.Store.RedisURL = override.Store.RedisURL
	}
	if override.Store.Archive != nil {
		base.Store.Archive = override.Store.Archive
	}

	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}

	if override.Draft.Endpoint != "" {
		base.Draft.Endpoint = override.Draft.Endpoint
	}
	if override.Draft.Model != "" {
		base.Draft.Model = override.Draft.Model
	}
	if override.Draft.APIKey != "" {
		base.Draft.APIKey = override.Draft.APIKey
	}
	if override.Draft.SystemPrompt != "" {
		base.Draft.SystemPrompt = override.Draft.SystemPrompt
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		Scheduler: SchedulerConfig{Interval: "6h", Timezone: defaultTimezone, location: tz},
		Ingest: IngestConfig{
			WindowDays:          5,
			MaxItems:            60,
			SummaryMaxLen:       200,
			FetchTimeoutSeconds: 5,
			Keywords: map[string]int{
				"release":     5,
				"launch":      5,
				"open source": 4,
				"security":    4,
				"breaking":    3,
				"ai":          3,
				"agent":       3,
				"benchmark":   2,
			},
		},
		Store:  StoreConfig{Kind: "file", Dir: "./data"},
		Server: ServerConfig{Addr: ":8080"},
		Draft: DraftConfig{
			Endpoint:     "https://api.openai.com/v1/chat/completions",
			Model:        "gpt-4o-mini",
			APIKey:       "",
			SystemPrompt: "You draft a weekly tech newsletter from curated digest items.",
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
		Sources: []domain.Source{
			{ID: "go-blog", Name: "The Go Blog", FeedURL: "https://go.dev/blog/feed.atom", Topic: "engineering", Weight: 1.2, Active: true},
			{ID: "hn-front", Name: "Hacker News", FeedURL: "https://hnrss.org/frontpage", Topic: "industry", Weight: 1.0, Active: true},
			{ID: "lobsters", Name: "Lobsters", FeedURL: "https://lobste.rs/rss", Topic: "engineering", Weight: 0.8, Active: true},
		},
	}
}
