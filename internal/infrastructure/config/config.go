package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	// Remote API
	APIBaseURL     string        `validate:"required,url"`
	SessionCookie  string        // optional "name=value" sent with every request
	RequestTimeout time.Duration `validate:"gt=0"`

	// Local persistence
	DBPath        string `validate:"required"`
	QuestionsFile string

	// Exam page
	ExamSeconds int `validate:"gte=0"`
	PageSize    int `validate:"gte=1"`
	Breakpoint  int `validate:"gte=1"` // terminal columns at or below which one question is shown per page

	LogLevel string `validate:"oneof=debug info warn error"`
	LogFile  string // empty = stderr; keep a file while the terminal is in raw mode
}

// Load reads .env (if present) and CBT_-prefixed environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("CBT")
	v.SetTypeByDefaultValue(true)

	v.SetDefault("api_base_url", "http://localhost:8080")
	v.SetDefault("session_cookie", "")
	v.SetDefault("request_timeout", 15*time.Second)
	v.SetDefault("db_path", "cbt.db")
	v.SetDefault("questions_file", "questions.json")
	v.SetDefault("exam_seconds", 60*60)
	v.SetDefault("page_size", 5)
	v.SetDefault("breakpoint", 80)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "cbt.log")

	v.AutomaticEnv()
	return v
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		APIBaseURL:     strings.TrimSuffix(v.GetString("api_base_url"), "/"),
		SessionCookie:  v.GetString("session_cookie"),
		RequestTimeout: v.GetDuration("request_timeout"),
		DBPath:         v.GetString("db_path"),
		QuestionsFile:  v.GetString("questions_file"),
		ExamSeconds:    v.GetInt("exam_seconds"),
		PageSize:       v.GetInt("page_size"),
		Breakpoint:     v.GetInt("breakpoint"),
		LogLevel:       strings.ToLower(v.GetString("log_level")),
		LogFile:        v.GetString("log_file"),
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	return cfg, nil
}

// SlogLevel maps LogLevel onto a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
