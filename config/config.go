package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	golobby "github.com/golobby/config/v3"
	"github.com/golobby/config/v3/pkg/feeder"
)

const (
	DefaultAddress            = "127.0.0.1:58810"
	DefaultDbPath             = "whatsong.db"
	DefaultYoutubeURL         = "https://www.googleapis.com/youtube/v3"
	DefaultLookupTimeout      = 10
	DefaultRequestsPerSecond  = 5.0
	DefaultNowPlayingInterval = 15
)

type Config struct {
	Whatsong WhatsongConfig
	Youtube  YoutubeConfig
}

type WhatsongConfig struct {
	Address                   string `env:"WHATSONG_SERVER_ADDRESS"`
	AllowedOrigins            string `env:"ALLOWED_ORIGINS"`
	BackgroundJobsEnabled     bool   `env:"BACKGROUND_JOBS_ENABLED"`
	DbPath                    string `env:"DB_PATH"`
	LogLevel                  string `env:"LOG_LEVEL"`
	NowPlayingIntervalSeconds int    `env:"NOW_PLAYING_INTERVAL_SECONDS"`
	ResetDb                   bool   `env:"RESET_DB"`
}

type YoutubeConfig struct {
	APIKey               string  `env:"YOUTUBE_API_KEY"`
	BaseURL              string  `env:"YOUTUBE_API_URL"`
	LookupTimeoutSeconds int     `env:"YOUTUBE_LOOKUP_TIMEOUT_SECONDS"`
	RequestsPerSecond    float64 `env:"YOUTUBE_REQUESTS_PER_SECOND"`
}

// Default returns a config with every optional value filled in
func Default() Config {
	return Config{
		Whatsong: WhatsongConfig{
			Address:                   DefaultAddress,
			BackgroundJobsEnabled:     true,
			DbPath:                    DefaultDbPath,
			LogLevel:                  "info",
			NowPlayingIntervalSeconds: DefaultNowPlayingInterval,
		},
		Youtube: YoutubeConfig{
			BaseURL:              DefaultYoutubeURL,
			LookupTimeoutSeconds: DefaultLookupTimeout,
			RequestsPerSecond:    DefaultRequestsPerSecond,
		},
	}
}

// Load reads a .env file from dotenvPath if it exists and then the process
// environment, which takes precedence.
func Load(dotenvPath string) (Config, error) {
	cfg := Default()
	c := golobby.New()
	if dotenvPath != "" {
		if _, err := os.Stat(dotenvPath); err == nil {
			c.AddFeeder(feeder.DotEnv{Path: dotenvPath})
		}
	}
	c.AddFeeder(feeder.Env{})
	c.AddStruct(&cfg)
	if err := c.Feed(); err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Whatsong.Address == "" {
		c.Whatsong.Address = d.Whatsong.Address
	}
	if c.Whatsong.DbPath == "" {
		c.Whatsong.DbPath = d.Whatsong.DbPath
	}
	if c.Whatsong.NowPlayingIntervalSeconds <= 0 {
		c.Whatsong.NowPlayingIntervalSeconds = d.Whatsong.NowPlayingIntervalSeconds
	}
	if c.Youtube.BaseURL == "" {
		c.Youtube.BaseURL = d.Youtube.BaseURL
	}
	if c.Youtube.LookupTimeoutSeconds <= 0 {
		c.Youtube.LookupTimeoutSeconds = d.Youtube.LookupTimeoutSeconds
	}
	if c.Youtube.RequestsPerSecond <= 0 {
		c.Youtube.RequestsPerSecond = d.Youtube.RequestsPerSecond
	}
}

func (c Config) Validate() error {
	if c.Youtube.APIKey == "" {
		return errors.New("environment var `YOUTUBE_API_KEY` must be set")
	}
	return nil
}

func (c Config) LookupTimeout() time.Duration {
	return time.Duration(c.Youtube.LookupTimeoutSeconds) * time.Second
}

func (c Config) NowPlayingInterval() time.Duration {
	return time.Duration(c.Whatsong.NowPlayingIntervalSeconds) * time.Second
}

func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.Whatsong.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) GetLogLevel() slog.Leveler {
	logLevel := strings.ToLower(c.Whatsong.LogLevel)
	if logLevel == "error" {
		return slog.LevelError
	}
	if logLevel == "warning" {
		return slog.LevelWarn
	}
	if logLevel == "info" {
		return slog.LevelInfo
	}
	if logLevel == "debug" {
		return slog.LevelDebug
	}
	// default to info if unknown
	slog.With(slog.String("log_level", logLevel)).Info("Received invalid log level. Defaulting to INFO.")
	return slog.LevelInfo
}
