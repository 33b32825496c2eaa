// Package config assembles the runtime configuration from environment
// variables, with an optional .env file for local runs. Everything ends up
// in one explicit struct handed to constructors; nothing reads the
// environment after startup.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dukerupert/ouenpt/internal/chat"
	"github.com/dukerupert/ouenpt/internal/publish"
)

const defaultChatDelay = 60 * time.Second

type Config struct {
	Port      string
	DataFile  string
	SiteDir   string
	LogLevel  string
	LogFormat string

	// GraphURL is embedded in chat announcements so viewers land on the
	// published ranking pages.
	GraphURL  string
	ChatDelay time.Duration
	Chat      chat.Config
	S3        publish.Config
}

// Load reads the environment. A missing .env is fine; real deployments set
// variables directly.
func Load() Config {
	godotenv.Load()

	return Config{
		Port:      getenv("OUENPT_PORT", "8787"),
		DataFile:  getenv("OUENPT_DATA_FILE", "points.json"),
		SiteDir:   getenv("OUENPT_SITE_DIR", "docs"),
		LogLevel:  getenv("OUENPT_LOG_LEVEL", "info"),
		LogFormat: getenv("OUENPT_LOG_FORMAT", "text"),
		GraphURL:  os.Getenv("OUENPT_GRAPH_URL"),
		ChatDelay: getduration("OUENPT_CHAT_DELAY", defaultChatDelay),
		Chat: chat.Config{
			Nick:    os.Getenv("TWITCH_BOT_NICK"),
			Token:   os.Getenv("TWITCH_BOT_OAUTH"),
			Channel: os.Getenv("TWITCH_CHANNEL"),
		},
		S3: publish.Config{
			Endpoint:  os.Getenv("OUENPT_S3_ENDPOINT"),
			Bucket:    os.Getenv("OUENPT_S3_BUCKET"),
			Region:    os.Getenv("OUENPT_S3_REGION"),
			AccessKey: os.Getenv("OUENPT_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("OUENPT_S3_SECRET_KEY"),
			Prefix:    os.Getenv("OUENPT_S3_PREFIX"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
