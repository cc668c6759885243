package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/go-playground/validator/v10"
)

// Secret is a string that never shows up in logs.
type Secret string

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[redacted]"
}

func (s Secret) LogValue() slog.Value {
	return slog.StringValue(s.String())
}

// settings mirrors config.json; every key can be overridden from the env.
type settings struct {
	SMTPServer          string `json:"smtp_server" env:"SMTP_SERVER" validate:"required,hostname_rfc1123"`
	SMTPPort            int    `json:"smtp_port" env:"SMTP_PORT" validate:"min=1,max=65535"`
	SMTPUseTLS          bool   `json:"smtp_use_tls" env:"SMTP_USE_TLS"`
	SMTPTimeout         int    `json:"smtp_timeout" env:"SMTP_TIMEOUT" validate:"min=1"`
	SenderEmail         string `json:"sender_email" env:"SENDER_EMAIL" validate:"required,email"`
	SenderPassword      Secret `json:"sender_password" env:"SENDER_PASSWORD" validate:"required"`
	BotToken            Secret `json:"bot_token" env:"DISCORD_BOT_TOKEN" validate:"required"`
	DiscordGuildID      string `json:"discord_guild_id" env:"DISCORD_GUILD_ID" validate:"omitempty,numeric"`
	MaxOrderAgeHours    int    `json:"max_order_age_hours" env:"MAX_ORDER_AGE_HOURS" validate:"min=1"`
	MaxConcurrentOrders int    `json:"max_concurrent_orders" env:"MAX_CONCURRENT_ORDERS" validate:"min=0"`
	RateLimitPerMinute  int    `json:"rate_limit_per_minute" env:"RATE_LIMIT_PER_MINUTE" validate:"min=0"`
	LogLevel            string `json:"log_level" env:"LOG_LEVEL" validate:"oneof=DEBUG INFO WARN ERROR debug info warn error"`
	MetricsAddr         string `json:"metrics_addr" env:"METRICS_ADDR" validate:"omitempty,hostname_port"`
	Timezone            string `json:"timezone" env:"TIMEZONE"`
}

func defaultSettings() settings {
	return settings{
		SMTPServer:          "smtp.gmail.com",
		SMTPPort:            587,
		SMTPUseTLS:          true,
		SMTPTimeout:         30,
		MaxOrderAgeHours:    24,
		MaxConcurrentOrders: 100,
		RateLimitPerMinute:  5,
		LogLevel:            "INFO",
	}
}

// id.timestamp.hmac, each part base64url
var botTokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{18,}\.[A-Za-z0-9_-]{4,}\.[A-Za-z0-9_-]{20,}$`)

// Config is loaded once at startup and never changes afterwards.
type Config struct {
	smtpServer     string
	smtpPort       int
	smtpUseTLS     bool
	smtpTimeout    time.Duration
	senderEmail    string
	senderPassword Secret

	discordBotToken Secret
	discordGuildID  string

	maxOrderAge         time.Duration
	maxConcurrentOrders int
	rateLimitPerMinute  int

	logLevel    slog.Level
	metricsAddr string
	location    *time.Location
}

// LoadConfig reads the settings file at path and applies env overrides.
// A missing file is fine; anything invalid is an error.
func LoadConfig(path string) (*Config, error) {
	s := defaultSettings()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Warn("settings file not found, using defaults and env", "path", path)
	case err != nil:
		return nil, fmt.Errorf("utils:LoadConfig: can't read %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("utils:LoadConfig: can't parse %s: %w", path, err)
		}
	}

	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("utils:LoadConfig: can't read env: %w", err)
	}

	s.BotToken = Secret(strings.TrimPrefix(strings.TrimSpace(string(s.BotToken)), "Bot "))
	if err := validator.New().Struct(s); err != nil {
		return nil, fmt.Errorf("utils:LoadConfig: invalid settings: %w", err)
	}
	if !botTokenPattern.MatchString(string(s.BotToken)) {
		return nil, fmt.Errorf("utils:LoadConfig: DISCORD_BOT_TOKEN is malformed")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return nil, fmt.Errorf("utils:LoadConfig: invalid log level: %w", err)
	}

	loc := time.Local
	switch s.Timezone {
	case "":
	case "UTC":
		loc = time.UTC
	default:
		loc, err = time.LoadLocation(s.Timezone)
		if err != nil {
			return nil, fmt.Errorf("utils:LoadConfig: invalid timezone %q: %w", s.Timezone, err)
		}
	}

	cfg := &Config{
		smtpServer:          s.SMTPServer,
		smtpPort:            s.SMTPPort,
		smtpUseTLS:          s.SMTPUseTLS,
		smtpTimeout:         time.Duration(s.SMTPTimeout) * time.Second,
		senderEmail:         s.SenderEmail,
		senderPassword:      s.SenderPassword,
		discordBotToken:     s.BotToken,
		discordGuildID:      s.DiscordGuildID,
		maxOrderAge:         time.Duration(s.MaxOrderAgeHours) * time.Hour,
		maxConcurrentOrders: s.MaxConcurrentOrders,
		rateLimitPerMinute:  s.RateLimitPerMinute,
		logLevel:            level,
		metricsAddr:         s.MetricsAddr,
		location:            loc,
	}
	slog.Debug("config",
		"SMTP_SERVER", cfg.smtpServer,
		"SMTP_PORT", cfg.smtpPort,
		"SENDER_EMAIL", cfg.senderEmail,
		"SENDER_PASSWORD", cfg.senderPassword,
		"DISCORD_BOT_TOKEN", cfg.discordBotToken,
		"DISCORD_GUILD_ID", cfg.discordGuildID,
		"TIMEZONE", cfg.location,
	)
	return cfg, nil
}

// Get SMTP_SERVER
func (c *Config) GetSMTPServer() string {
	return c.smtpServer
}

// Get SMTP_PORT
func (c *Config) GetSMTPPort() int {
	return c.smtpPort
}

// Get SMTP_USE_TLS
func (c *Config) GetSMTPUseTLS() bool {
	return c.smtpUseTLS
}

// Get SMTP_TIMEOUT as a duration
func (c *Config) GetSMTPTimeout() time.Duration {
	return c.smtpTimeout
}

// Get SENDER_EMAIL
func (c *Config) GetSenderEmail() string {
	return c.senderEmail
}

// Get SENDER_PASSWORD
func (c *Config) GetSenderPassword() string {
	return string(c.senderPassword)
}

// Get DISCORD_BOT_TOKEN, without the "Bot " prefix
func (c *Config) GetDiscordBotToken() string {
	return string(c.discordBotToken)
}

// Get DISCORD_GUILD_ID, empty means global commands
func (c *Config) GetDiscordGuildID() string {
	return c.discordGuildID
}

// Get MAX_ORDER_AGE_HOURS as a duration
func (c *Config) GetMaxOrderAge() time.Duration {
	return c.maxOrderAge
}

// Get MAX_CONCURRENT_ORDERS, 0 means unlimited
func (c *Config) GetMaxConcurrentOrders() int {
	return c.maxConcurrentOrders
}

// Get RATE_LIMIT_PER_MINUTE, 0 means unlimited
func (c *Config) GetRateLimitPerMinute() int {
	return c.rateLimitPerMinute
}

// Get LOG_LEVEL
func (c *Config) GetLogLevel() slog.Level {
	return c.logLevel
}

// Get METRICS_ADDR, empty disables the metrics server
func (c *Config) GetMetricsAddr() string {
	return c.metricsAddr
}

// Get TIMEZONE
func (c *Config) GetLocation() *time.Location {
	return c.location
}
