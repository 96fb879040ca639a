package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	Port     int    `env:"PORT" envDefault:"5051"`
	AppToken string `env:"APP_TOKEN"`

	// Search provider
	SerpAPIKey string `env:"SERPAPI_API_KEY"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Storage
	CacheFilePath         string `env:"CACHE_FILE_PATH" envDefault:"data/cache.json"`
	HistoryFilePath       string `env:"HISTORY_FILE_PATH" envDefault:"data/history.json"`
	BirthdaysFilePath     string `env:"BIRTHDAYS_FILE_PATH" envDefault:"list.txt"`
	AnniversariesFilePath string `env:"ANNIVERSARIES_FILE_PATH" envDefault:"anniversaries.txt"`

	// Provider retry budget
	RetryAttempts  int           `env:"RETRY_ATTEMPTS" envDefault:"3"`
	RetryBaseDelay time.Duration `env:"RETRY_BASE_DELAY" envDefault:"800ms"`
	RetryMaxDelay  time.Duration `env:"RETRY_MAX_DELAY" envDefault:"8s"`

	// Non-repetition rounds before a duplicate is accepted
	FreshnessRounds int `env:"FRESHNESS_ROUNDS" envDefault:"3"`

	// Optional cron spec (IST) that pre-generates the day's content so the
	// first poll is a cache hit. Empty disables the job.
	PrewarmCron string `env:"PREWARM_CRON"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
