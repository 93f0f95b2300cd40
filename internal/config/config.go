// Load envs from .env
// Load YAML config
// Provide default values
// Validate config

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	//Page to collect job links from
	StartURL string `yaml:"start_url"`
	//Opening policy
	MaxTabs          int      `yaml:"max_tabs"`
	OpenInBackground *bool    `yaml:"open_in_background"`
	DelayMs          *int     `yaml:"delay_ms"`
	MaxAgeMinutes    *float64 `yaml:"max_age_minutes"`
	SkipSeen         bool     `yaml:"skip_seen"`
	//Browser
	Headless bool `yaml:"headless"`
	SettleMs int  `yaml:"settle_ms"`
	//Paths
	CookiesPath string `yaml:"cookies_path"`
	CachePath   string `yaml:"cache_path"`
	//HTTP server
	ServerAddr            string `yaml:"server_addr"`
	OpenRequestsPerMinute int    `yaml:"open_requests_per_minute"`
	//Secrets, from env only
	TelegramToken  string `yaml:"-"`
	TelegramChatID int64  `yaml:"-"`
	DatabaseURL    string `yaml:"-"`
}

// Load reads .env and configs/config.yaml, exiting on invalid config.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := LoadFrom(DefaultPath)
	if err != nil {
		log.Fatalf("❌ Invalid config: %v", err)
	}
	return cfg
}

// LoadFrom reads the YAML file at path (a missing file is not an error),
// applies env overrides and defaults, and validates the result.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		log.Printf("⚠️ Could not read %s, using defaults", path)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	c.DatabaseURL = os.Getenv("DATABASE_URL")

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}

	if port := os.Getenv("PORT"); port != "" {
		c.ServerAddr = ":" + port
	}
	if start := os.Getenv("UPWORK_START_URL"); start != "" {
		c.StartURL = start
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.StartURL == "" {
		c.StartURL = "https://www.upwork.com/nx/search/jobs/?sort=recency"
	}
	if c.MaxTabs == 0 {
		c.MaxTabs = 50
	}
	if c.OpenInBackground == nil {
		bg := true
		c.OpenInBackground = &bg
	}
	if c.DelayMs == nil {
		delay := 200
		c.DelayMs = &delay
	}
	if c.SettleMs == 0 {
		c.SettleMs = 3000
	}
	if c.CookiesPath == "" {
		c.CookiesPath = "../.cookies"
	}
	if c.CachePath == "" {
		c.CachePath = "../.cache"
	}
	if c.ServerAddr == "" {
		c.ServerAddr = ":8080"
	}
	if c.OpenRequestsPerMinute == 0 {
		c.OpenRequestsPerMinute = 6
	}
}

func (c *Config) Validate() error {
	if !strings.HasPrefix(c.StartURL, "https://www.upwork.com/") {
		return fmt.Errorf("start_url must be an https://www.upwork.com/ page, got %q", c.StartURL)
	}
	if c.MaxTabs < 1 || c.MaxTabs > 200 {
		return fmt.Errorf("max_tabs must be between 1 and 200, got %d", c.MaxTabs)
	}
	if *c.DelayMs < 0 {
		return fmt.Errorf("delay_ms must not be negative, got %d", *c.DelayMs)
	}
	if c.MaxAgeMinutes != nil && *c.MaxAgeMinutes < 0 {
		return fmt.Errorf("max_age_minutes must not be negative, got %g", *c.MaxAgeMinutes)
	}
	if c.OpenRequestsPerMinute < 0 {
		return fmt.Errorf("open_requests_per_minute must not be negative, got %d", c.OpenRequestsPerMinute)
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}
	return nil
}

// Delay is the pause between two tab creations.
func (c *Config) Delay() time.Duration {
	return time.Duration(*c.DelayMs) * time.Millisecond
}

func (c *Config) SettleTime() time.Duration {
	return time.Duration(c.SettleMs) * time.Millisecond
}

// TelegramEnabled reports whether run summaries should be sent to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}
