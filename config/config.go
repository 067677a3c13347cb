// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	configFile       = pflag.String("config", "", "Path to a config.toml file")
	validLogLevels   = []string{"debug", "info", "warn", "error", "fatal"}
	validStorageKind = []string{"sqlite", "postgres"}
)

// ErrNoSecret is returned by Setup when no signing secret is configured.
// A freshly generated one is printed so the operator can paste it in.
var ErrNoSecret = errors.New("security.secret is not set")

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Host     HostConfig     `mapstructure:"host"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Security SecurityConfig `mapstructure:"security"`
	TMDB     TMDBConfig     `mapstructure:"tmdb"`
	Mail     MailConfig     `mapstructure:"mail"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

type HostConfig struct {
	Port   int      `mapstructure:"port"`
	Domain string   `mapstructure:"domain"`
	CORS   []string `mapstructure:"cors"`
	SSL    struct {
		Enabled            bool   `mapstructure:"enabled"`
		CertificatePath    string `mapstructure:"certificate_path"`
		CertificateKeyPath string `mapstructure:"certificate_key_path"`
	} `mapstructure:"ssl"`
}

// BaseURL is the public address used in links sent by mail
func (h HostConfig) BaseURL() string {
	scheme := "http"
	if h.SSL.Enabled {
		scheme = "https"
	}

	if h.Domain == "localhost" {
		return fmt.Sprintf("%s://%s:%d", scheme, h.Domain, h.Port)
	}

	return scheme + "://" + h.Domain
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type SecurityConfig struct {
	Secret     string        `mapstructure:"secret"`
	RateLimit  int           `mapstructure:"rate_limit"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	ResetTTL   time.Duration `mapstructure:"reset_ttl"`

	// Minimum time a reset request takes, known email or not
	ResetRequestDelay time.Duration `mapstructure:"reset_request_delay"`

	Turnstile struct {
		Enabled     bool   `mapstructure:"enabled"`
		SecretToken string `mapstructure:"secret_token"`
	} `mapstructure:"turnstile"`
}

type TMDBConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	ImageBaseURL string        `mapstructure:"image_base_url"`
	BearerToken  string        `mapstructure:"bearer_token"`
	APIKey       string        `mapstructure:"api_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type MailConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	SenderAddress  string `mapstructure:"sender_address"`
	Password       string `mapstructure:"password"`
	ContactAddress string `mapstructure:"contact_address"`
}

type CacheConfig struct {
	RedisAddr string        `mapstructure:"redis_addr"`
	SearchTTL time.Duration `mapstructure:"search_ttl"`
}

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that. Nothing is logged here, the logger is built from the result
func Setup() (*Config, error) {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	if *configFile != "" {
		v.SetConfigFile(*configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	//
	// ENVS
	//
	// Keys without a default are invisible to Unmarshal unless bound
	for _, key := range []string{
		"host.ssl.certificate_path",
		"host.ssl.certificate_key_path",
		"security.secret",
		"security.turnstile.secret_token",
		"tmdb.bearer_token",
		"tmdb.api_key",
		"mail.host",
		"mail.sender_address",
		"mail.password",
		"mail.contact_address",
		"cache.redis_addr",
	} {
		v.BindEnv(key)
	}

	SetDefaults()

	if err := v.ReadInConfig(); err != nil {
		var notFound v.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if v.GetString("security.secret") == "" {
		fmt.Println("WARNING: You haven't set a signing secret, so it has been generated for you. Please set it as the SECURITY_SECRET environment variable or in the config.toml file.\nYour random secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		return nil, ErrNoSecret
	}

	return Load()
}

// File is the config file that was read, empty when only defaults and
// the environment are in use
func File() string {
	return v.ConfigFileUsed()
}

// SetDefaults registers every default value. It is split from Setup
// so tests can build a config without touching flags or files.
func SetDefaults() {
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.cors", []string{"http://localhost:5173"})
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.dsn", "movies-collection.db")

	v.SetDefault("security.rate_limit", 5)
	v.SetDefault("security.session_ttl", 30*24*time.Hour)
	v.SetDefault("security.reset_ttl", 1800*time.Second)
	v.SetDefault("security.reset_request_delay", 500*time.Millisecond)
	v.SetDefault("security.turnstile.enabled", false)

	v.SetDefault("tmdb.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.image_base_url", "https://image.tmdb.org/t/p/w500")
	v.SetDefault("tmdb.timeout", 10*time.Second)

	v.SetDefault("mail.port", 587)

	v.SetDefault("cache.search_ttl", time.Minute)
}

// Load unmarshals the current viper state into a Config and validates it
func Load() (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to decode config, %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate reports the first setting that would prevent the app from running
func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, c.App.LogLevel) {
		return errors.New("invalid log level provided")
	}

	if c.Host.Port <= 0 {
		return errors.New("invalid port provided")
	}

	if c.Host.SSL.Enabled {
		if c.Host.SSL.CertificatePath == "" {
			return errors.New("no ssl certificate path provided")
		}

		if c.Host.SSL.CertificateKeyPath == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if !slices.Contains(validStorageKind, c.Storage.Driver) {
		return errors.New("invalid storage driver provided")
	}

	if c.Storage.DSN == "" {
		return errors.New("storage.dsn can't be empty")
	}

	if c.Security.Secret == "" {
		return ErrNoSecret
	}

	if c.Security.RateLimit <= 0 {
		return errors.New("security.rate_limit must be bigger than 0")
	}

	if c.Security.SessionTTL <= 0 {
		return errors.New("security.session_ttl must be bigger than 0")
	}

	if c.Security.ResetTTL <= 0 {
		return errors.New("security.reset_ttl must be bigger than 0")
	}

	if c.Security.ResetRequestDelay < 0 {
		return errors.New("security.reset_request_delay can't be negative")
	}

	if c.Security.Turnstile.Enabled && c.Security.Turnstile.SecretToken == "" {
		return errors.New("turnstile secret token is missing")
	}

	if c.Cache.SearchTTL <= 0 {
		return errors.New("cache.search_ttl must be bigger than 0")
	}

	return nil
}

// Warnings lists optional settings that are missing. The app still
// starts but some features won't work
func (c *Config) Warnings() []string {
	var w []string

	if c.TMDB.BearerToken == "" && c.TMDB.APIKey == "" {
		w = append(w, "No TMDB credentials provided, movie search will fail")
	}

	if c.Mail.Host == "" || c.Mail.SenderAddress == "" {
		w = append(w, "Mail is not configured, password reset and contact mails won't be delivered")
	}

	return w
}
