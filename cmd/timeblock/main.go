// timeblock serves the task calendar API: time-boxed tasks, categories,
// time logs, and TO-DO lists over HTTP, backed by SQLite.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/timeblock/timeblock/internal/config"
	"github.com/timeblock/timeblock/internal/logging"
	"github.com/timeblock/timeblock/internal/model"
	"github.com/timeblock/timeblock/internal/server"
	"github.com/timeblock/timeblock/internal/storage"
)

func main() {
	// Load .env file (optional - won't error if missing)
	if err := godotenv.Load(); err != nil {
		logging.Info("config", "No .env file found, using environment variables")
	} else {
		logging.Info("config", "Loaded .env file")
	}

	configPath := os.Getenv("TIMEBLOCK_CONFIG")
	if configPath == "" {
		configPath = "timeblock.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if len(cfg.Users) == 0 {
		log.Fatal("No users configured; add at least one user with a token to " + configPath)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	// First-run category seeding for configured users
	if len(cfg.DefaultCategories) > 0 {
		seed := make([]model.Category, len(cfg.DefaultCategories))
		for i, c := range cfg.DefaultCategories {
			seed[i] = model.Category{Name: c.Name, Color: c.Color, TextColor: c.TextColor}
		}
		for _, u := range cfg.Users {
			if err := store.SeedDefaultCategories(u.Name, seed); err != nil {
				logging.Error("storage", "failed to seed categories for %s: %v", u.Name, err)
			}
		}
	}

	srv := server.New(store, cfg)
	logging.Info("server", "listening on %s (db: %s)", cfg.ListenAddr, cfg.DBPath)
	if err := srv.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
