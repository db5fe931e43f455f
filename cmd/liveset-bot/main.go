package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sukalov/liveset/internal/bot"
	"github.com/sukalov/liveset/internal/bot/admin"
	"github.com/sukalov/liveset/internal/bot/client"
	"github.com/sukalov/liveset/internal/config"
	"github.com/sukalov/liveset/internal/db"
	"github.com/sukalov/liveset/internal/logger"
	"github.com/sukalov/liveset/internal/lyrics"
	"github.com/sukalov/liveset/internal/lyrics/parsers/liveset"
	"github.com/sukalov/liveset/internal/redis"
	"github.com/sukalov/liveset/internal/state"
)

func main() {
	cfg, err := config.Load("BOT_TOKEN", "ADMIN_BOT_TOKEN", "REDIS_URL", "TURSO_DATABASE_URL")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.SetOutput(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.TursoURL, cfg.TursoAuthToken)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(ctx, database); err != nil {
		log.Fatalf("failed to prepare schema: %v", err)
	}

	book := db.NewSongbook(database, cfg.Songbook)
	if err := book.Load(ctx); err != nil {
		log.Fatalf("failed to load songbook %s: %v", cfg.Songbook, err)
	}
	users := db.NewUsers(database)

	if cfg.SongbookReload != "" {
		scheduler, err := book.ScheduleReload(cfg.SongbookReload)
		if err != nil {
			log.Fatalf("failed to schedule songbook reload: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	redisManager, err := redis.NewDBManager(cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisManager.Close()
	if err := redisManager.Ping(ctx); err != nil {
		log.Fatalf("failed to ping redis: %v", err)
	}

	userManager := state.NewStateManager(redisManager, cfg.SlideLines)
	parser := liveset.NewParser(liveset.NewClient(cfg.APIBaseURL)).WithSlideLines(cfg.SlideLines)
	service := lyrics.NewService(parser)

	clientBot, err := bot.New("client", cfg.BotToken)
	if err != nil {
		log.Fatalf("failed to create client bot: %v", err)
	}
	adminBot, err := bot.New("admin", cfg.AdminBotToken)
	if err != nil {
		log.Fatalf("failed to create admin bot: %v", err)
	}

	logger.Init(adminBot, cfg.LogChannelID)

	client.SetupHandlers(clientBot, userManager, service, book, users)
	admin.SetupHandlers(adminBot, userManager, redisManager, book, users, cfg.AdminUsernames)

	logger.Success(fmt.Sprintf("liveset bot started\nsongbook: %s (%d songs)\napi: %s", cfg.Songbook, len(book.All()), cfg.APIBaseURL))

	<-ctx.Done()

	logger.Info("shutting down")
	clientBot.Stop()
	adminBot.Stop()
	// let in-flight log lines reach the channel
	time.Sleep(time.Second)
}
