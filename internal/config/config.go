package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is built once in main and handed to every component that needs it.
type Config struct {
	Port        string
	DatabaseURL string
	SQLitePath  string
	SecretKey   string
	UploadDir   string
	LogLevel    string
	LogFormat   string

	// GeneratedSecret is true when no secret_key was configured and a
	// per-process key was generated instead.
	GeneratedSecret bool

	Session SessionConfig
	Mail    MailConfig
	HTTP    HTTPConfig
}

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// MailConfig holds the registration notifier settings. Username doubles as
// sender and recipient.
type MailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
}

type HTTPConfig struct {
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// Options controls where Load looks for configuration.
type Options struct {
	ConfigDir string   // directory holding config.yml; empty skips the file
	EnvFiles  []string // dotenv files; missing files are ignored
}

// DefaultOptions mirrors the repository layout: configs/config.yml and ./.env.
func DefaultOptions() Options {
	return Options{ConfigDir: "configs", EnvFiles: []string{".env"}}
}

// env bindings; the process environment always wins over config.yml.
var envBindings = map[string]string{
	"port":          "PORT",
	"database_url":  "DATABASE_URL",
	"sqlite_path":   "SQLITE_PATH",
	"secret_key":    "SECRET_KEY",
	"upload_dir":    "UPLOAD_DIR",
	"log_level":     "LOG_LEVEL",
	"log_format":    "LOG_FORMAT",
	"mail.enabled":  "MAIL_ENABLED",
	"mail.host":     "MAIL_HOST",
	"mail.port":     "MAIL_PORT",
	"mail.username": "EMAIL",
	"mail.password": "EMAIL_PASS",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("database_url", "")
	v.SetDefault("sqlite_path", "database.db")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("session.cookie_name", "session")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.secure", false)
	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 465)
	v.SetDefault("http.read_header_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
}

// Load reads dotenv files, then config.yml, then the environment.
func Load(opts Options) (*Config, error) {
	for _, f := range opts.EnvFiles {
		// godotenv never overrides variables that are already set.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %q: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if opts.ConfigDir != "" {
		v.AddConfigPath(opts.ConfigDir)
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Port:        v.GetString("port"),
		DatabaseURL: v.GetString("database_url"),
		SQLitePath:  v.GetString("sqlite_path"),
		SecretKey:   v.GetString("secret_key"),
		UploadDir:   v.GetString("upload_dir"),
		LogLevel:    v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		Session: SessionConfig{
			CookieName: v.GetString("session.cookie_name"),
			TTL:        v.GetDuration("session.ttl"),
			Secure:     v.GetBool("session.secure"),
		},
		Mail: MailConfig{
			Enabled:  v.GetBool("mail.enabled"),
			Host:     v.GetString("mail.host"),
			Port:     v.GetInt("mail.port"),
			Username: v.GetString("mail.username"),
			Password: v.GetString("mail.password"),
		},
		HTTP: HTTPConfig{
			ReadHeaderTimeout: v.GetDuration("http.read_header_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
		},
	}

	if cfg.SecretKey == "" {
		key, err := randomKey()
		if err != nil {
			return nil, err
		}
		cfg.SecretKey = key
		cfg.GeneratedSecret = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot start with.
func (c *Config) Validate() error {
	switch {
	case c.UploadDir == "":
		return errors.New("upload_dir must not be empty")
	case c.DatabaseURL == "" && c.SQLitePath == "":
		return errors.New("either database_url or sqlite_path must be set")
	case c.Session.CookieName == "":
		return errors.New("session.cookie_name must not be empty")
	case c.Session.TTL <= 0:
		return errors.New("session.ttl must be positive")
	case c.Mail.Enabled && (c.Mail.Username == "" || c.Mail.Password == ""):
		return errors.New("mail.enabled requires EMAIL and EMAIL_PASS")
	}
	return nil
}

func randomKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret key: %w", err)
	}
	return hex.EncodeToString(b), nil
}
