// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like FLOW_MAX_RETRIES or LLM_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, e.g. config.production.yaml
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	if cfg.App.Environment == "" {
		cfg.App.Environment = env
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the usual locations so the binary behaves the
// same when run from the repo root, cmd/voicebot, or a test directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "ana-voicebot"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.StaticDir == "" {
		cfg.Server.StaticDir = "static"
	}
	if cfg.Server.UploadDir == "" {
		cfg.Server.UploadDir = "uploads"
	}
	if cfg.Speech.Language == "" {
		cfg.Speech.Language = "es"
	}
	if cfg.Speech.TimeoutSeconds == 0 {
		cfg.Speech.TimeoutSeconds = 30
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.TimeoutSeconds == 0 {
		cfg.LLM.TimeoutSeconds = 30
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	applyFlowDefaults(&cfg.Flow)
}

// applyFlowDefaults fills in the interview thresholds used by the original
// script: retry cap 2, age floor 18, income floor Q3,000, loan range
// Q5,000–Q1,200,000, 30 minute idle timeout.
func applyFlowDefaults(f *FlowConfig) {
	if f.MaxRetries == 0 {
		f.MaxRetries = 2
	}
	if f.MinAge == 0 {
		f.MinAge = 18
	}
	if f.MaxAge == 0 {
		f.MaxAge = 100
	}
	if f.MinMonthlyIncome == 0 {
		f.MinMonthlyIncome = 3000
	}
	if f.MinLoanAmount == 0 {
		f.MinLoanAmount = 5000
	}
	if f.MaxLoanAmount == 0 {
		f.MaxLoanAmount = 1200000
	}
	if f.MinNameLength == 0 {
		f.MinNameLength = 5
	}
	if f.MinAddressLength == 0 {
		f.MinAddressLength = 10
	}
	if f.MinPurposeLength == 0 {
		f.MinPurposeLength = 5
	}
	if f.SessionTimeoutMinutes == 0 {
		f.SessionTimeoutMinutes = 30
	}
	if f.HistoryLimit == 0 {
		f.HistoryLimit = 3
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Flow.MaxRetries < 1 {
		return fmt.Errorf("flow.max_retries must be at least 1")
	}
	if cfg.Flow.MinLoanAmount >= cfg.Flow.MaxLoanAmount {
		return fmt.Errorf("flow.min_loan_amount must be below flow.max_loan_amount")
	}
	if cfg.Flow.MinAge >= cfg.Flow.MaxAge {
		return fmt.Errorf("flow.min_age must be below flow.max_age")
	}
	if cfg.Database.Postgres.Enabled && cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required when postgres is enabled")
	}
	if cfg.Database.Redis.Enabled && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required when redis is enabled")
	}
	if cfg.Notifications.EmailEnabled && cfg.Notifications.EmailSender == "" {
		return fmt.Errorf("notifications.email_sender is required when email is enabled")
	}
	return nil
}
