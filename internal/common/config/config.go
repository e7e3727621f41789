// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Speech        SpeechConfig       `mapstructure:"speech"`
	LLM           LLMConfig          `mapstructure:"llm"`
	Flow          FlowConfig         `mapstructure:"flow"`
	FAQ           FAQConfig          `mapstructure:"faq"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port      int    `mapstructure:"port"`
	StaticDir string `mapstructure:"static_dir"`
	UploadDir string `mapstructure:"upload_dir"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SpeechConfig points at the transcription and synthesis services.
type SpeechConfig struct {
	STTURL         string `mapstructure:"stt_url"`
	TTSURL         string `mapstructure:"tts_url"`
	Language       string `mapstructure:"language"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type LLMConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// FlowConfig carries every interview threshold. Validators and the flow
// engine receive these at construction; nothing is hard-coded in handlers.
type FlowConfig struct {
	MaxRetries            int     `mapstructure:"max_retries"`
	MinAge                int     `mapstructure:"min_age"`
	MaxAge                int     `mapstructure:"max_age"`
	MinMonthlyIncome      float64 `mapstructure:"min_monthly_income"`
	MinLoanAmount         float64 `mapstructure:"min_loan_amount"`
	MaxLoanAmount         float64 `mapstructure:"max_loan_amount"`
	MinNameLength         int     `mapstructure:"min_name_length"`
	MinAddressLength      int     `mapstructure:"min_address_length"`
	MinPurposeLength      int     `mapstructure:"min_purpose_length"`
	SessionTimeoutMinutes int     `mapstructure:"session_timeout_minutes"`
	HistoryLimit          int     `mapstructure:"history_limit"`
}

// SessionTimeout returns the idle eviction timeout as a duration.
func (f FlowConfig) SessionTimeout() time.Duration {
	return time.Duration(f.SessionTimeoutMinutes) * time.Minute
}

type FAQConfig struct {
	// Path to an optional JSON knowledge file; the built-in database is used
	// when empty or invalid.
	Path string `mapstructure:"path"`
}

type NotificationConfig struct {
	EmailEnabled bool   `mapstructure:"email_enabled"`
	SMSEnabled   bool   `mapstructure:"sms_enabled"`
	AWSRegion    string `mapstructure:"aws_region"`
	EmailSender  string `mapstructure:"email_sender"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
