package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
telegram:
  bot_token: "test_token"
api:
  base_url: "https://api.example.test"
basket:
  tax_rate_bps: 800
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Telegram.BotToken != "test_token" {
		t.Errorf("expected bot_token test_token, got %s", cfg.Telegram.BotToken)
	}

	if cfg.API.BaseURL != "https://api.example.test" {
		t.Errorf("unexpected base url: %s", cfg.API.BaseURL)
	}

	// Defaults
	if cfg.API.TimeoutSeconds != 30 {
		t.Errorf("expected default timeout 30, got %d", cfg.API.TimeoutSeconds)
	}
	if cfg.Basket.ClickGuardMs != 250 {
		t.Errorf("expected default click guard 250ms, got %d", cfg.Basket.ClickGuardMs)
	}
	if cfg.Bot.PaginationSize == 0 {
		t.Error("expected pagination default to be applied")
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("POS_API_BASE_URL", "http://localhost:2908")

	yamlContent := `
telegram:
  bot_token: "test_token"
api:
  base_url: "${POS_API_BASE_URL}"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:2908" {
		t.Errorf("env substitution failed, got %s", cfg.API.BaseURL)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				Telegram: TelegramConfig{BotToken: "token"},
				API:      APIConfig{BaseURL: "https://api.example.test"},
			},
			wantErr: false,
		},
		{
			name: "missing token",
			cfg: Config{
				API: APIConfig{BaseURL: "https://api.example.test"},
			},
			wantErr: true,
		},
		{
			name: "missing base url",
			cfg: Config{
				Telegram: TelegramConfig{BotToken: "token"},
			},
			wantErr: true,
		},
		{
			name: "tax rate out of range",
			cfg: Config{
				Telegram: TelegramConfig{BotToken: "token"},
				API:      APIConfig{BaseURL: "https://api.example.test"},
				Basket:   BasketConfig{TaxRateBps: 20000},
			},
			wantErr: true,
		},
		{
			name: "google credentials without spreadsheet",
			cfg: Config{
				Telegram: TelegramConfig{BotToken: "token"},
				API:      APIConfig{BaseURL: "https://api.example.test"},
				Google:   GoogleConfig{CredentialsFile: "creds.json"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
