package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "MARKET_FEED_CONFIG"
	serpAPIKeyEnv     = "SERP_API_KEY"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"

	defaultOutputDirectory    = "token_news"
	defaultFetchInterval      = 3600
	defaultRelevanceThreshold = 0.5
	defaultLookbackYears      = 2
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging                   LoggingConfig      `yaml:"logging"`
	OutputDirectory           string             `yaml:"output_directory"`
	DefaultFetchInterval      int                `yaml:"default_fetch_interval"`
	DefaultRelevanceThreshold float64            `yaml:"default_relevance_threshold"`
	DefaultRSSFeeds           []string           `yaml:"default_rss_feeds"`
	SerpAPI                   SerpAPIConfig      `yaml:"serpapi"`
	Chainlist                 ChainlistConfig    `yaml:"chainlist"`
	Notifications             NotificationConfig `yaml:"notifications"`
	Tokens                    []Token            `yaml:"tokens"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SerpAPIConfig wires the news search provider.
type SerpAPIConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
}

// ChainlistConfig points the chain registry at its data endpoints.
type ChainlistConfig struct {
	ChainIDsURL string `yaml:"chainIdsUrl"`
	RPCsURL     string `yaml:"rpcsUrl"`
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

// Token describes one tracked token and its fetch parameters.
type Token struct {
	Name               string            `yaml:"name"`
	Symbol             string            `yaml:"symbol"`
	Address            map[string]string `yaml:"address"`
	MandatoryPhrases   []string          `yaml:"mandatory_phrases"`
	AdditionalPhrases  []string          `yaml:"additional_phrases"`
	LookbackYears      int               `yaml:"lookback_years"`
	RelevanceThreshold *float64          `yaml:"relevance_threshold"`
	FetchInterval      int               `yaml:"fetch_interval"`
	RSSFeeds           []FeedConfig      `yaml:"rss_feeds"`
}

// FeedConfig is a token-specific RSS feed with its provenance tag.
type FeedConfig struct {
	URL string `yaml:"url"`
	Tag string `yaml:"tag"`
}

// Validate reports the first missing required field. A token that fails
// validation is skipped; other tokens still run.
func (t Token) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("token is missing name")
	}
	if t.Symbol == "" {
		return fmt.Errorf("token %s is missing symbol", t.Name)
	}
	return nil
}

// Lookback returns the search span used when no history exists.
func (t Token) Lookback() time.Duration {
	years := t.LookbackYears
	if years <= 0 {
		years = defaultLookbackYears
	}
	return time.Duration(years) * 365 * 24 * time.Hour
}

// Interval resolves the per-token fetch interval against the global default.
func (t Token) Interval(defaultSeconds int) time.Duration {
	seconds := t.FetchInterval
	if seconds <= 0 {
		seconds = defaultSeconds
	}
	if seconds <= 0 {
		seconds = defaultFetchInterval
	}
	return time.Duration(seconds) * time.Second
}

// Threshold resolves the effective relevance threshold for the token.
func (c Config) Threshold(t Token) float64 {
	if t.RelevanceThreshold != nil {
		return *t.RelevanceThreshold
	}
	if c.DefaultRelevanceThreshold > 0 {
		return c.DefaultRelevanceThreshold
	}
	return defaultRelevanceThreshold
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			log.Printf("config: %v (falling back to defaults)", err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// LoadFile parses the YAML file at path.
func LoadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// WriteFile serializes the configuration back to YAML.
func (c Config) WriteFile(path string) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(serpAPIKeyEnv); v != "" {
		c.SerpAPI.APIKey = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.OutputDirectory != "" {
		base.OutputDirectory = override.OutputDirectory
	}
	if override.DefaultFetchInterval > 0 {
		base.DefaultFetchInterval = override.DefaultFetchInterval
	}
	if override.DefaultRelevanceThreshold > 0 {
		base.DefaultRelevanceThreshold = override.DefaultRelevanceThreshold
	}
	if len(override.DefaultRSSFeeds) > 0 {
		base.DefaultRSSFeeds = override.DefaultRSSFeeds
	}

	if override.SerpAPI.Endpoint != "" {
		base.SerpAPI.Endpoint = override.SerpAPI.Endpoint
	}
	if override.SerpAPI.APIKey != "" {
		base.SerpAPI.APIKey = override.SerpAPI.APIKey
	}

	if override.Chainlist.ChainIDsURL != "" {
		base.Chainlist.ChainIDsURL = override.Chainlist.ChainIDsURL
	}
	if override.Chainlist.RPCsURL != "" {
		base.Chainlist.RPCsURL = override.Chainlist.RPCsURL
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if len(override.Tokens) > 0 {
		base.Tokens = override.Tokens
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:                   LoggingConfig{Level: "info"},
		OutputDirectory:           defaultOutputDirectory,
		DefaultFetchInterval:      defaultFetchInterval,
		DefaultRelevanceThreshold: defaultRelevanceThreshold,
		SerpAPI: SerpAPIConfig{
			Endpoint: "https://serpapi.com/search.json",
		},
		Chainlist: ChainlistConfig{
			ChainIDsURL: "https://raw.githubusercontent.com/DefiLlama/chainlist/main/constants/chainIds.json",
			RPCsURL:     "https://chainlist.org/rpcs.json",
		},
	}
}
