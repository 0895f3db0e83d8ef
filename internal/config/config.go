package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort       = 8000
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "impala"
	defaultSiteName   = "Impala Health Tech Research Limited"
)

// AppConfig holds runtime configuration loaded once at startup.
type AppConfig struct {
	Port     int            `yaml:"port"`
	Env      string         `yaml:"env"` // "development" | "production"
	DSN      string         `yaml:"dsn"` // MySQL DSN; overrides Database when set
	Database DatabaseConfig `yaml:"database"`
	RedisURL string         `yaml:"redis_url"` // optional; empty disables queue/ratelimit

	SiteName string `yaml:"site_name"`
	SiteURL  string `yaml:"site_url"` // backend base URL, used in unsubscribe links
	WebURL   string `yaml:"web_url"`  // frontend base URL, used in article links

	JWTSecret string `yaml:"jwt_secret"`
	// SecretKey signs unsubscribe tokens. Independent of JWTSecret so the
	// two can be rotated separately.
	SecretKey string `yaml:"secret_key"`
	// UnsubscribeTokenMaxAgeDays bounds unsubscribe token validity.
	// Zero keeps tokens valid indefinitely.
	UnsubscribeTokenMaxAgeDays int `yaml:"unsubscribe_token_max_age_days"`

	AllowedOrigins []string    `yaml:"allowed_origins"`
	Mail           MailOptions `yaml:"mail"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type MailOptions struct {
	Enable    bool   `yaml:"enable"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Pass      string `yaml:"pass"`
	From      string `yaml:"from"`
	ReplyTo   string `yaml:"reply_to"`
	ResendKey string `yaml:"resend_key"`
}

// Load reads YAML config from path, applies environment overrides and
// defaults. A missing file is not an error; env and defaults then apply.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyEnvOverrides(cfg)
	cfg.normalize()
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	setIfEnv(&cfg.Env, "ENV")
	setIfEnv(&cfg.DSN, "DATABASE_DSN")
	setIfEnv(&cfg.RedisURL, "REDIS_URL")
	setIfEnv(&cfg.SiteURL, "SITE_URL")
	setIfEnv(&cfg.WebURL, "WEB_URL")
	setIfEnv(&cfg.JWTSecret, "JWT_SECRET")
	setIfEnv(&cfg.SecretKey, "SECRET_KEY")
	setIfEnv(&cfg.Mail.Host, "MAIL_HOST")
	setIfEnv(&cfg.Mail.User, "MAIL_USER")
	setIfEnv(&cfg.Mail.Pass, "MAIL_PASS")
	setIfEnv(&cfg.Mail.From, "MAIL_FROM")
	setIfEnv(&cfg.Mail.ResendKey, "RESEND_KEY")
}

func setIfEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *AppConfig) normalize() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Env == "" {
		c.Env = defaultEnv
	}
	if c.SiteName == "" {
		c.SiteName = defaultSiteName
	}
	if c.SiteURL == "" {
		c.SiteURL = fmt.Sprintf("http://127.0.0.1:%d", c.Port)
	}
	c.SiteURL = strings.TrimRight(c.SiteURL, "/")
	if c.WebURL == "" {
		c.WebURL = c.SiteURL
	}
	c.WebURL = strings.TrimRight(c.WebURL, "/")

	if c.DSN == "" {
		db := c.Database
		if db.Host == "" {
			db.Host = defaultDBHost
		}
		if db.Port == 0 {
			db.Port = defaultDBPort
		}
		if db.User == "" {
			db.User = defaultDBUser
		}
		if db.Password == "" {
			db.Password = defaultDBPassword
		}
		if db.Name == "" {
			db.Name = defaultDBName
		}
		c.DSN = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			db.User, db.Password, db.Host, db.Port, db.Name)
	}
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }

// UnsubscribeTokenMaxAge returns the configured token validity window,
// zero meaning no expiry.
func (c *AppConfig) UnsubscribeTokenMaxAge() time.Duration {
	return time.Duration(c.UnsubscribeTokenMaxAgeDays) * 24 * time.Hour
}
