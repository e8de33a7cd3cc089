package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Marketplace configuration
	MarketplaceBaseURL string
	ModulesSlug        string
	DJGearSlug         string
	KeyboardsSlug      string
	ScrapeBlockTime    time.Duration

	// Valuation (Gemini) configuration
	GeminiAPIKey   string
	GeminiModel    string
	GeminiEndpoint string

	// Telegram configuration
	TelegramToken    string
	TelegramChatID   string
	TelegramEndpoint string

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration
	MemcacheAddr string

	// Currency normalization
	RSDPerEUR   float64
	DinarCutoff float64

	// Deal rule constants
	RetailMarkup  float64
	UsedMarkup    float64
	NewDealRatio  float64
	UsedDealRatio float64

	// Run configuration
	RunOnce     bool
	RunInterval time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	blockTime, _ := strconv.Atoi(getEnv("SCRAPE_BLOCK_SECONDS", "300"))
	runInterval, _ := strconv.Atoi(getEnv("RUN_INTERVAL_SECONDS", "86400"))

	return Config{
		MarketplaceBaseURL: getEnv("BASE_URL", ""),
		ModulesSlug:        getEnv("MODULES_SLUG", "moduli-i-sempleri"),
		DJGearSlug:         getEnv("DJ_GEAR_SLUG", "dj-oprema"),
		KeyboardsSlug:      getEnv("KEYBOARDS_SLUG", "klavijature-oprema-i-delovi"),
		ScrapeBlockTime:    time.Duration(blockTime) * time.Second,

		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiEndpoint: getEnv("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta"),

		TelegramToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		TelegramEndpoint: getEnv("TELEGRAM_ENDPOINT", "https://api.telegram.org"),

		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "geardeals"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,

		MemcacheAddr: getEnv("MEMCACHE_ADDR", "localhost:11211"),

		RSDPerEUR:   getEnvFloat("RSD_PER_EUR", 117.4),
		DinarCutoff: getEnvFloat("DINAR_CUTOFF", 5000),

		RetailMarkup:  getEnvFloat("RETAIL_MARKUP", 1.25),
		UsedMarkup:    getEnvFloat("USED_MARKUP", 1.15),
		NewDealRatio:  getEnvFloat("NEW_DEAL_RATIO", 0.75),
		UsedDealRatio: getEnvFloat("USED_DEAL_RATIO", 0.85),

		RunOnce:     getEnv("RUN_ONCE", "true") == "true",
		RunInterval: time.Duration(runInterval) * time.Second,

		Environment: getEnv("GEARHUNTER_ENVIRONMENT", "development"),
	}
}

// Validate checks that required settings are present and rule constants sane
func (c *Config) Validate() error {
	if c.MarketplaceBaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.TelegramToken == "" || c.TelegramChatID == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are required")
	}
	if c.RSDPerEUR <= 0 {
		return fmt.Errorf("RSD_PER_EUR must be positive")
	}
	if c.RetailMarkup <= 0 || c.UsedMarkup <= 0 || c.NewDealRatio <= 0 || c.UsedDealRatio <= 0 {
		return fmt.Errorf("deal rule constants must be positive")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvFloat retrieves a float environment variable or returns a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}
