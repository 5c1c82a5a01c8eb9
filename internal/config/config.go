package config

import (
	"errors"
	"fmt"
	"os"

	"meo-pos/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	API        APIConfig        `yaml:"api"`
	Basket     BasketConfig     `yaml:"basket"`
	Redis      RedisConfig      `yaml:"redis"`
	Journal    JournalConfig    `yaml:"journal"`
	Exports    ExportConfig     `yaml:"exports"`
	Google     GoogleConfig     `yaml:"google"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Bot        BotConfig        `yaml:"bot"`
	Admins     []int64          `yaml:"admins"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	Debug    bool   `yaml:"debug"`
}

// APIConfig points the clients at the backend. BaseURL is usually set via
// ${POS_API_BASE_URL} substitution in the YAML file.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type BasketConfig struct {
	TaxRateBps   int64 `yaml:"tax_rate_bps"`
	ClickGuardMs int   `yaml:"click_guard_ms"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type JournalConfig struct {
	Path string `yaml:"path"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type GoogleConfig struct {
	CredentialsFile    string `yaml:"credentials_file"`
	SalesSpreadsheetID string `yaml:"sales_spreadsheet_id"`
	SheetName          string `yaml:"sheet_name"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type BotConfig struct {
	PaginationSize    int `yaml:"pagination_size"`
	RateLimitMessages int `yaml:"rate_limit_messages"`
	RateLimitWindow   int `yaml:"rate_limit_window"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; environment variables win either way.
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Substitute environment variables before parsing.
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" || c.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		return errors.New("telegram bot token is required")
	}

	if c.API.BaseURL == "" {
		return errors.New("api base url is required")
	}

	if c.Basket.TaxRateBps < 0 || c.Basket.TaxRateBps > 10000 {
		return fmt.Errorf("tax_rate_bps must be in [0, 10000], got %d", c.Basket.TaxRateBps)
	}

	if c.Google.CredentialsFile != "" && c.Google.SalesSpreadsheetID == "" {
		return errors.New("google.sales_spreadsheet_id is required when credentials_file is set")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = 30
	}
	if c.Basket.TaxRateBps == 0 {
		c.Basket.TaxRateBps = models.DefaultTaxRateBps
	}
	if c.Basket.ClickGuardMs == 0 {
		c.Basket.ClickGuardMs = models.DefaultClickGuardWindowMs
	}
	if c.Journal.Path == "" {
		c.Journal.Path = "data/journal.db"
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
	if c.Google.SheetName == "" {
		c.Google.SheetName = "Sales"
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}

	// Bot defaults
	if c.Bot.PaginationSize == 0 {
		c.Bot.PaginationSize = models.DefaultPaginationSize
	}
	if c.Bot.RateLimitMessages == 0 {
		c.Bot.RateLimitMessages = models.RateLimitMessages
	}
	if c.Bot.RateLimitWindow == 0 {
		c.Bot.RateLimitWindow = models.RateLimitWindow
	}
}
