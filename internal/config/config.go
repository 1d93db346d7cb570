// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	//Interval bounds for the scrape loop, seconds
	MinIntervalSeconds = 60
	MaxIntervalSeconds = 3600
)

type Config struct {
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	//Scrape target
	OrdersURL string `yaml:"orders_url"`
	//Filtering
	FilterMode        string `yaml:"filter_mode"` //"include" or "exclude"
	IncludedWordsPath string `yaml:"included_words_path"`
	ExcludedWordsPath string `yaml:"excluded_words_path"`
	//Scheduling
	ParseIntervalSeconds int    `yaml:"parse_interval" env:"PARSE_INTERVAL"`
	WorkStart            string `yaml:"work_start"` //"06:00"
	WorkEnd              string `yaml:"work_end"`   //"22:00"
	//Dedup / freshness
	MaxOrderAgeHours  int `yaml:"max_order_age_hours"`
	MaxOrdersPerCycle int `yaml:"max_orders_per_cycle"`
	//Paths
	CookiesPath string `yaml:"cookies_path"`
	CachePath   string `yaml:"cache_path"`
	//Optional Postgres archive
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	if interval := os.Getenv("PARSE_INTERVAL"); interval != "" {
		seconds, err := strconv.Atoi(interval)
		if err != nil {
			log.Fatalf("Invalid PARSE_INTERVAL: %v", err)
		}
		cfg.ParseIntervalSeconds = seconds
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}

	//Set default values if not set
	if cfg.OrdersURL == "" {
		cfg.OrdersURL = "https://profi.ru/backoffice/n.php"
	}

	if cfg.FilterMode == "" {
		cfg.FilterMode = "exclude"
	}

	if cfg.IncludedWordsPath == "" {
		cfg.IncludedWordsPath = "configs/included_words.txt"
	}

	if cfg.ExcludedWordsPath == "" {
		cfg.ExcludedWordsPath = "configs/excluded_words.txt"
	}

	if cfg.ParseIntervalSeconds == 0 {
		cfg.ParseIntervalSeconds = 300
	}

	if cfg.WorkStart == "" {
		cfg.WorkStart = "06:00"
	}

	if cfg.WorkEnd == "" {
		cfg.WorkEnd = "22:00"
	}

	if cfg.MaxOrderAgeHours == 0 {
		cfg.MaxOrderAgeHours = 2
	}

	if cfg.MaxOrdersPerCycle == 0 {
		cfg.MaxOrdersPerCycle = 10
	}

	if cfg.CookiesPath == "" {
		cfg.CookiesPath = ".cookies"
	}

	if cfg.CachePath == "" {
		cfg.CachePath = ".cache"
	}

	//Clamp interval to allowed range
	cfg.ParseIntervalSeconds = ClampInterval(cfg.ParseIntervalSeconds)

	//Validate required fields
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	if cfg.TelegramChatID == 0 {
		log.Fatal("TELEGRAM_CHAT_ID is required")
	}

	if cfg.FilterMode != "include" && cfg.FilterMode != "exclude" {
		log.Fatalf("filter_mode must be \"include\" or \"exclude\", got %q", cfg.FilterMode)
	}

	return cfg
}

// ClampInterval forces an interval into the allowed [60s, 3600s] range.
func ClampInterval(seconds int) int {
	if seconds < MinIntervalSeconds {
		return MinIntervalSeconds
	}
	if seconds > MaxIntervalSeconds {
		return MaxIntervalSeconds
	}
	return seconds
}

// ParseInterval returns the configured scrape interval as a duration.
func (c *Config) ParseInterval() time.Duration {
	return time.Duration(c.ParseIntervalSeconds) * time.Second
}

// MaxOrderAge returns the freshness threshold as a duration.
func (c *Config) MaxOrderAge() time.Duration {
	return time.Duration(c.MaxOrderAgeHours) * time.Hour
}
