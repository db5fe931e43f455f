package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sukalov/liveset/internal/config"
	"github.com/sukalov/liveset/internal/db"
	"github.com/sukalov/liveset/internal/logger"
	"github.com/sukalov/liveset/internal/songbook"
)

func main() {
	var book string

	flag.StringVar(&book, "book", "", "Songbook name: us, es or aus (defaults to SONGBOOK)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <songbook.json>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load("TURSO_DATABASE_URL")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.SetOutput(os.Stderr, cfg.LogLevel)
	if book == "" {
		book = cfg.Songbook
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatalf("Error reading songbook: %v", err)
	}
	songs, err := songbook.ParseBook(data)
	if err != nil {
		log.Fatalf("Error parsing songbook: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	database, err := db.Open(ctx, cfg.TursoURL, cfg.TursoAuthToken)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(ctx, database); err != nil {
		log.Fatalf("failed to prepare schema: %v", err)
	}

	store := db.NewSongbook(database, book)
	if err := store.Import(ctx, songs); err != nil {
		logger.Error(fmt.Sprintf("Error importing songbook\nBook: %s\nError: %v", book, err))
		log.Fatalf("Error importing songbook: %v", err)
	}

	logger.Success(fmt.Sprintf("Songbook %s imported: %d songs", book, len(store.All())))
}
