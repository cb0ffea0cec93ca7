// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	RequestTimeout  time.Duration `yaml:"request_timeout" split_words:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns" split_words:"true"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // form session lifetime
	CacheTTL time.Duration `yaml:"cache_ttl" split_words:"true"`
	LockTTL  time.Duration `yaml:"lock_ttl" split_words:"true"`
}

type EmailConfig struct {
	To      string `yaml:"to"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id" split_words:"true"`
}

type AMQPConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key" split_words:"true"`
}

type NotifyConfig struct {
	WebhookURL string        `yaml:"webhook_url" split_words:"true"`
	Relays     []string      `yaml:"relays" ignored:"true"` // {url} or {url_encoded} placeholders
	Timeout    time.Duration `yaml:"timeout"`
	Async      bool          `yaml:"async"`
	Workers    int           `yaml:"workers"`

	Email    EmailConfig    `yaml:"email"`
	Telegram TelegramConfig `yaml:"telegram"`
	AMQP     AMQPConfig     `yaml:"amqp"`
}

type ChannelConfig struct {
	Name    string `yaml:"name"`
	Label   string `yaml:"label"`
	Account string `yaml:"account"`
	USSD    string `yaml:"ussd"` // {account} and {amount} placeholders
}

type PaymentConfig struct {
	DepositAmount   int64             `yaml:"deposit_amount" split_words:"true"`
	Currency        string            `yaml:"currency"`
	DialDelay       time.Duration     `yaml:"dial_delay" split_words:"true"`
	Channels        []ChannelConfig   `yaml:"channels" ignored:"true"`
	ChannelAccounts map[string]string `yaml:"-" split_words:"true"` // flooz:96933995,mixx:91383066
}

type ContactConfig struct {
	Company string `yaml:"company"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
}

type CatalogConfig struct {
	Path string `yaml:"path"` // empty = embedded catalog
}

type FallbackConfig struct {
	Path            string        `yaml:"path"`
	EncryptionKey   string        `yaml:"encryption_key" split_words:"true"`
	MonitorInterval time.Duration `yaml:"monitor_interval" split_words:"true"`
}

type AdminConfig struct {
	APIKey       string        `yaml:"api_key" split_words:"true"`
	JWTSecret    string        `yaml:"jwt_secret" split_words:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" split_words:"true"`
	SecureCookie bool          `yaml:"secure_cookie" split_words:"true"`
}

type I18nConfig struct {
	Lang string `yaml:"lang"`
}

type RateLimitConfig struct {
	Limit  int           `yaml:"limit"` // requests per window per client
	Window time.Duration `yaml:"window"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Log       LogConfig       `yaml:"log" envconfig:"LOG"`
	Database  DatabaseConfig  `yaml:"database" envconfig:"DATABASE"`
	Redis     RedisConfig     `yaml:"redis" envconfig:"REDIS"`
	Notify    NotifyConfig    `yaml:"notify" envconfig:"NOTIFY"`
	Payment   PaymentConfig   `yaml:"payment" envconfig:"PAYMENT"`
	Contact   ContactConfig   `yaml:"contact" envconfig:"CONTACT"`
	Catalog   CatalogConfig   `yaml:"catalog" envconfig:"CATALOG"`
	Fallback  FallbackConfig  `yaml:"fallback" envconfig:"FALLBACK"`
	Admin     AdminConfig     `yaml:"admin" envconfig:"ADMIN"`
	I18n      I18nConfig      `yaml:"i18n" envconfig:"I18N"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`

	Runtime RuntimeConfig `yaml:"-" ignored:"true"`
}

// LoadConfig reads the YAML file at path (a missing file is not an error),
// overlays environment variables and fills defaults.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// env only
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	applyDefaults(&cfg)

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Payment.DepositAmount <= 0 {
		return nil, errors.New("payment.deposit_amount must be positive")
	}
	if k := len(cfg.Fallback.EncryptionKey); k != 0 && k != 16 && k != 24 && k != 32 {
		return nil, fmt.Errorf("fallback.encryption_key must be 16, 24 or 32 bytes; got %d", k)
	}
	if cfg.Admin.APIKey != "" && cfg.Admin.JWTSecret == "" {
		return nil, errors.New("admin.jwt_secret is required when admin.api_key is set")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = 15 * time.Second
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL, 2*time.Hour)
	cfg.Redis.CacheTTL = normalizeTTL(cfg.Redis.CacheTTL, 5*time.Minute)
	cfg.Redis.LockTTL = normalizeTTL(cfg.Redis.LockTTL, 30*time.Second)

	if len(cfg.Notify.Relays) == 0 {
		cfg.Notify.Relays = []string{
			"https://corsproxy.io/?{url_encoded}",
			"https://proxy-cors.isomorphic-git.org/{url}",
		}
	}
	if cfg.Notify.Timeout <= 0 {
		cfg.Notify.Timeout = 10 * time.Second
	}
	if cfg.Notify.Workers <= 0 {
		cfg.Notify.Workers = 2
	}
	if cfg.Notify.AMQP.Exchange == "" {
		cfg.Notify.AMQP.Exchange = "registrations"
	}
	if cfg.Notify.AMQP.RoutingKey == "" {
		cfg.Notify.AMQP.RoutingKey = "notification.staff"
	}

	if cfg.Contact.Company == "" {
		cfg.Contact.Company = "Third Eyes Co."
	}
	if cfg.Contact.Phone == "" {
		cfg.Contact.Phone = "+22896933995"
	}
	if cfg.Contact.Email == "" {
		cfg.Contact.Email = "thirdeyesco@gmail.com"
	}
	if cfg.Notify.Email.To == "" {
		cfg.Notify.Email.To = cfg.Contact.Email
	}

	if cfg.Payment.DepositAmount == 0 {
		cfg.Payment.DepositAmount = 5000
	}
	if cfg.Payment.Currency == "" {
		cfg.Payment.Currency = "FCFA"
	}
	if cfg.Payment.DialDelay <= 0 {
		cfg.Payment.DialDelay = 3 * time.Second
	}
	if len(cfg.Payment.Channels) == 0 {
		cfg.Payment.Channels = []ChannelConfig{
			{Name: "flooz", Label: "Flooz", Account: "96933995", USSD: "*155*1*1*{account}*{account}*{amount}#"},
			{Name: "mixx", Label: "Mixx by Yas", Account: "91383066", USSD: "*145*1*{amount}*{account}*2#"},
		}
	}
	for i := range cfg.Payment.Channels {
		ch := &cfg.Payment.Channels[i]
		ch.Name = strings.ToLower(strings.TrimSpace(ch.Name))
		if acc, ok := cfg.Payment.ChannelAccounts[ch.Name]; ok && strings.TrimSpace(acc) != "" {
			ch.Account = strings.TrimSpace(acc)
		}
	}

	if cfg.Fallback.Path == "" {
		cfg.Fallback.Path = "data/registrations_fallback.jsonl"
	}
	if cfg.Fallback.MonitorInterval <= 0 {
		cfg.Fallback.MonitorInterval = 5 * time.Minute
	}
	if cfg.Admin.TokenTTL <= 0 {
		cfg.Admin.TokenTTL = 30 * time.Minute
	}
	if cfg.I18n.Lang == "" {
		cfg.I18n.Lang = "fr"
	}
	if cfg.RateLimit.Limit <= 0 {
		cfg.RateLimit.Limit = 10
	}
	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = time.Minute
	}
}

func normalizeTTL(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
