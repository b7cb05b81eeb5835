package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type HistoryBackend string

const (
	HistoryJSON   HistoryBackend = "json"
	HistorySQLite HistoryBackend = "sqlite"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE" envDefault:"/media/pi/data/assistant/brain_boost.log"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	TextModel        string      `env:"TEXT_MODEL" envDefault:"gpt-4o"`
	ImageModel       string      `env:"IMAGE_MODEL" envDefault:"dall-e-3"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Output layout
	OutputDir  string `env:"OUTPUT_DIR" envDefault:"/srv/homeassistant/ai"`
	ServedDir  string `env:"SERVED_DIR" envDefault:"/srv/homeassistant/www/daily_images"`
	ArchiveDir string `env:"ARCHIVE_DIR"`
	ImageExt   string `env:"IMAGE_EXT" envDefault:"png"`

	// History
	HistoryFile     string         `env:"HISTORY_FILE" envDefault:"/media/pi/data/assistant/brain_boost_history.json"`
	HistoryBackend  HistoryBackend `env:"HISTORY_BACKEND" envDefault:"json"`
	HistoryDays     int            `env:"HISTORY_DAYS_TO_KEEP" envDefault:"14"`
	HistoryExamples int            `env:"HISTORY_EXAMPLES" envDefault:"5"`
	HistoryCompact  bool           `env:"HISTORY_COMPACT" envDefault:"false"`
	RunJournal      string         `env:"RUN_JOURNAL" envDefault:"/media/pi/data/assistant/brain_boost_runs.jsonl"`

	// Generation
	RetentionCount  int           `env:"RETENTION_COUNT" envDefault:"3"`
	WordRetryLimit  int           `env:"WORD_RETRY_LIMIT" envDefault:"3"`
	EnableImages    bool          `env:"ENABLE_IMAGES" envDefault:"true"`
	DownloadTimeout time.Duration `env:"DOWNLOAD_TIMEOUT" envDefault:"30s"`
	PromptsPath     string        `env:"PROMPTS_PATH"`
	JokeURL         string        `env:"JOKE_URL" envDefault:"https://icanhazdadjoke.com/"`

	// Home Assistant
	RestartContainer bool   `env:"RESTART_HOME_ASSISTANT" envDefault:"true"`
	ContainerName    string `env:"HOME_ASSISTANT_CONTAINER" envDefault:"homeassistant"`

	// Telegram digest (optional)
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64  `env:"TELEGRAM_CHAT_ID"`

	// Scheduler
	Schedule string `env:"BOOST_SCHEDULE" envDefault:"0 6 * * *"`
	Timezone string `env:"BOOST_TIMEZONE" envDefault:"Europe/London"`

	// Google Calendar
	CalendarCredentialsPath string `env:"CALENDAR_CREDENTIALS_PATH" envDefault:"/media/pi/data/assistant/google/credentials.json"`
	CalendarTokenPath       string `env:"CALENDAR_TOKEN_PATH" envDefault:"calendar-token.json"`
	CalendarID              string `env:"CALENDAR_ID" envDefault:"primary"`
	CalendarDays            int    `env:"CALENDAR_DAYS" envDefault:"7"`

	// Recipes
	RecipeDir   string `env:"RECIPE_DIR" envDefault:"/srv/homeassistant/ai"`
	RecipeLimit int    `env:"RECIPE_LIMIT" envDefault:"3"`

	// Standalone hub
	HubDataDir string `env:"HUB_DATA_DIR" envDefault:"data"`
	HubAddr    string `env:"HUB_ADDR" envDefault:":8000"`
}

// New parses the environment into a Config. Call LoadDotEnv first if .env files
// should be honoured.
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config")
	}
	if cfg.ArchiveDir == "" {
		cfg.ArchiveDir = filepath.Join(cfg.OutputDir, "images")
	}
	return cfg, nil
}

// Validate reports missing credentials for the selected provider.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return goerr.New("OPENAI_API_KEY not found in environment")
		}
	case ProviderYandex:
		if c.YandexOAuthToken == "" || c.YandexFolderID == "" {
			return goerr.New("YANDEX_OAUTH_TOKEN and YANDEX_FOLDER_ID are required for yandex provider")
		}
	default:
		return goerr.New("unknown llm provider", goerr.V("provider", c.LLMProvider))
	}
	if c.RetentionCount < 1 {
		return goerr.New("RETENTION_COUNT must be at least 1", goerr.V("value", c.RetentionCount))
	}
	if c.WordRetryLimit < 0 {
		return goerr.New("WORD_RETRY_LIMIT must not be negative", goerr.V("value", c.WordRetryLimit))
	}
	return nil
}

// ImagesEnabled reports whether the image pipeline can run with this provider.
// Yandex only serves text.
func (c *Config) ImagesEnabled() bool {
	return c.EnableImages && c.OpenAIAPIKey != ""
}

// Location resolves the scheduler timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// EnvCandidates lists .env locations in lookup order.
func EnvCandidates() []string {
	var paths []string
	if p := os.Getenv("HOMEHUB_ENV_FILE"); p != "" {
		paths = append(paths, p)
	}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), ".env"))
	}
	paths = append(paths, ".env")
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".env"), filepath.Join(home, "Desktop", ".env"))
	}
	return paths
}

// LoadDotEnv loads the first existing file from candidates. It returns the path
// that was loaded, or "" when none exists.
func LoadDotEnv(candidates []string) (string, error) {
	for _, p := range candidates {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return "", goerr.Wrap(err, "failed to load env file", goerr.V("path", p))
		}
		return p, nil
	}
	return "", nil
}
