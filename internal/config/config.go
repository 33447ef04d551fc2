// Package config loads relay configuration from an optional TOML file and
// the environment. Environment variables override file values.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultConfigPath = "config.toml"
	DefaultHTTPAddr   = ":8080"
	DefaultStorePath  = "state.db"
	DefaultInboundURL = "https://pager.co.ua/api/webhooks/custom"
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Telegram TelegramConfig `toml:"telegram"`
	Pager    PagerConfig    `toml:"pager"`
	Store    StoreConfig    `toml:"store"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type TelegramConfig struct {
	BotToken string `toml:"bot_token"`
}

type PagerConfig struct {
	// ChannelKey authenticates both directions: it is sent with outbound
	// notifications and checked on inbound replies.
	ChannelKey string `toml:"channel_key"`
	InboundURL string `toml:"inbound_url"`
}

type StoreConfig struct {
	// Path is the bbolt database file used when PostgresURL is empty.
	Path        string `toml:"path"`
	PostgresURL string `toml:"postgres_url"`
}

// Load reads the TOML file at path (missing files are fine) and applies
// environment overrides on top.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Pager: PagerConfig{
			InboundURL: DefaultInboundURL,
		},
		Store: StoreConfig{
			Path: DefaultStorePath,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, err
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setIfEnv(&cfg.Telegram.BotToken, "TG_BOT_TOKEN")
	setIfEnv(&cfg.Pager.ChannelKey, "PAGER_CHANNEL_KEY")
	setIfEnv(&cfg.Pager.InboundURL, "PAGER_INBOUND_URL")
	setIfEnv(&cfg.Store.Path, "STATE_DB_PATH")
	setIfEnv(&cfg.Store.PostgresURL, "DATABASE_URL")
	setIfEnv(&cfg.Log.Level, "LOG_LEVEL")
	setIfEnv(&cfg.Log.Format, "LOG_FORMAT")
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Server.Addr = ":" + port
	}
}

func setIfEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// Validate reports missing required credentials. The process must not start
// without them.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Telegram.BotToken) == "" {
		return fmt.Errorf("missing TG_BOT_TOKEN")
	}
	if strings.TrimSpace(c.Pager.ChannelKey) == "" {
		return fmt.Errorf("missing PAGER_CHANNEL_KEY")
	}
	return nil
}
