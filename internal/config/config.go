package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/sukalov/liveset/internal/utils"
)

// Config contains runtime options shared by the binaries
type Config struct {
	APIBaseURL        string `envconfig:"LIVESET_API_URL" default:"https://api.worshipbuddy.org/liveset/V2"`
	BotToken          string `envconfig:"BOT_TOKEN"`
	AdminBotToken     string `envconfig:"ADMIN_BOT_TOKEN"`
	AdminUsernamesRaw string `envconfig:"ADMIN_USERNAMES"`
	LogChannelID      int64  `envconfig:"LOG_CHANNEL_ID"`
	LogLevel          string `envconfig:"LOG_LEVEL" default:"info"`
	RedisURL          string `envconfig:"REDIS_URL"`
	RedisPassword     string `envconfig:"REDIS_PASSWORD"`
	TursoURL          string `envconfig:"TURSO_DATABASE_URL"`
	TursoAuthToken    string `envconfig:"TURSO_AUTH_TOKEN"`
	Songbook          string `envconfig:"SONGBOOK" default:"us"`
	SongbookReload    string `envconfig:"SONGBOOK_RELOAD" default:"@hourly"`
	SlideLines        int    `envconfig:"SLIDE_LINES" default:"4"`

	AdminUsernames []string `ignored:"true"`
}

// Load reads the environment (and .env) into Config. Every name in
// required must be set.
func Load(required ...string) (Config, error) {
	if _, err := utils.LoadEnv(required); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if cfg.SlideLines < 1 {
		return Config{}, fmt.Errorf("SLIDE_LINES must be a positive number, got %d", cfg.SlideLines)
	}
	cfg.AdminUsernames = utils.SplitList(cfg.AdminUsernamesRaw)

	return cfg, nil
}
