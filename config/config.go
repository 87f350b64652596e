package config

import (
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	PlatformBinance = "binance"
	PlatformBybit   = "bybit"

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config bot runtime configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Exchange  ExchangeConfig  `yaml:"exchange"`
	LLM       LLMConfig       `yaml:"llm"`
	Session   SessionConfig   `yaml:"session"`
	Donations DonationsConfig `yaml:"donations"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Stats     StatsConfig     `yaml:"stats"`
	Log       LogConfig       `yaml:"log"`
}

type TelegramConfig struct {
	BotToken         string        `yaml:"bot_token,omitempty"`
	APIURL           string        `yaml:"api_url"`
	PollTimeout      time.Duration `yaml:"poll_timeout"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	MaxMessageLength int           `yaml:"max_message_length"`
}

type ExchangeConfig struct {
	Platform string        `yaml:"platform"`
	BaseURL  string        `yaml:"base_url,omitempty"`
	Timeout  time.Duration `yaml:"timeout"`
}

type LLMConfig struct {
	Provider string        `yaml:"provider"`
	APIURL   string        `yaml:"api_url,omitempty"`
	APIKey   string        `yaml:"api_key,omitempty"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	Capacity int `yaml:"capacity"`
}

type DonationsConfig struct {
	WALDir  string `yaml:"wal_dir"`
	Amounts []int  `yaml:"amounts"`
}

// DashboardConfig web dashboard; an empty Addr disables it.
type DashboardConfig struct {
	Addr         string   `yaml:"addr,omitempty"`
	Domains      []string `yaml:"domains,omitempty"`
	CertCacheDir string   `yaml:"cert_cache_dir,omitempty"`
}

type StatsConfig struct {
	Schedule string `yaml:"schedule"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file overrides a key.
func Default() Config {
	return Config{
		Telegram: TelegramConfig{
			APIURL:           "https://api.telegram.org",
			PollTimeout:      30 * time.Second,
			RequestTimeout:   40 * time.Second,
			MaxMessageLength: 4096,
		},
		Exchange: ExchangeConfig{
			Platform: PlatformBinance,
			Timeout:  10 * time.Second,
		},
		LLM: LLMConfig{
			Provider: ProviderGemini,
			Model:    "gemini-2.5-flash",
			Timeout:  120 * time.Second,
		},
		Session: SessionConfig{Capacity: 10000},
		Donations: DonationsConfig{
			WALDir:  "./wal/donations",
			Amounts: []int{1, 5, 10, 25, 50, 100},
		},
		Dashboard: DashboardConfig{CertCacheDir: "./certs"},
		Stats:     StatsConfig{Schedule: "@every 1h"},
		Log:       LogConfig{Level: "info"},
	}
}

// Load reads defaults, then the YAML file at path (if any), then .env and
// process environment secrets, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "parse config %s", path)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, errors.Wrap(err, "load .env")
	}
	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides secrets from the environment. Empty variables are
// ignored so a value from the file survives.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := firstNonEmpty(getenv("TELEGRAM_BOT_TOKEN"), getenv("API_TOKEN")); v != "" {
		c.Telegram.BotToken = v
	}

	var key string
	if c.LLM.Provider == ProviderOpenAI {
		key = firstNonEmpty(getenv("LLM_API_KEY"), getenv("GEMINI_API_KEY"))
	} else {
		key = firstNonEmpty(getenv("GEMINI_API_KEY"), getenv("LLM_API_KEY"))
	}
	if key != "" {
		c.LLM.APIKey = key
	}
}

// Validate checks required keys and value ranges.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Telegram.BotToken) == "" {
		return errors.New("telegram bot token is required (set TELEGRAM_BOT_TOKEN)")
	}
	if c.Telegram.APIURL == "" {
		return errors.New("telegram.api_url must not be empty")
	}
	if c.Telegram.PollTimeout <= 0 || c.Telegram.RequestTimeout <= 0 {
		return errors.New("telegram timeouts must be positive")
	}
	if c.Telegram.RequestTimeout <= c.Telegram.PollTimeout {
		return errors.Errorf("telegram.request_timeout (%s) must exceed poll_timeout (%s)", c.Telegram.RequestTimeout, c.Telegram.PollTimeout)
	}
	if c.Telegram.MaxMessageLength <= 0 {
		return errors.New("telegram.max_message_length must be positive")
	}

	if !slices.Contains([]string{PlatformBinance, PlatformBybit}, c.Exchange.Platform) {
		return errors.Errorf("unsupported exchange platform %q", c.Exchange.Platform)
	}
	if c.Exchange.Timeout <= 0 {
		return errors.New("exchange.timeout must be positive")
	}

	switch c.LLM.Provider {
	case ProviderGemini:
	case ProviderOpenAI:
		if c.LLM.APIURL == "" {
			return errors.New("llm.api_url is required for the openai provider")
		}
	default:
		return errors.Errorf("unsupported llm provider %q", c.LLM.Provider)
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return errors.New("llm api key is required (set GEMINI_API_KEY or LLM_API_KEY)")
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model must not be empty")
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("llm.timeout must be positive")
	}

	if c.Session.Capacity <= 0 {
		return errors.New("session.capacity must be positive")
	}

	if len(c.Donations.Amounts) == 0 {
		return errors.New("donations.amounts must not be empty")
	}
	for _, a := range c.Donations.Amounts {
		if a <= 0 {
			return errors.Errorf("donation amount must be positive, got %d", a)
		}
	}

	if len(c.Dashboard.Domains) > 0 && c.Dashboard.Addr == "" {
		return errors.New("dashboard.addr is required when dashboard.domains are set")
	}

	return nil
}

// Marshal renders the config as YAML, without secrets.
func (c Config) Marshal() ([]byte, error) {
	c.Telegram.BotToken = ""
	c.LLM.APIKey = ""
	return yaml.Marshal(c)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
