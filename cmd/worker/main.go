package main

import (
	"context"
	"flag"
	"log"
	"time"

	"shortlink/internal/engine/links"
	"shortlink/internal/engine/redirect"
	"shortlink/internal/pkg/logger"
	"shortlink/internal/platform/config"
	"shortlink/internal/platform/database"
	"shortlink/internal/workers"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// The sweeper never reads through the cache; a no-op memory cache keeps
	// the service constructor uniform.
	service := links.NewService(links.NewRepository(db), redirect.NewMemoryCache(cfg.Cache.LinkTTL))

	log.Printf("Expiry sweeper starting, interval %v", cfg.Worker.ExpirySweepInterval)

	ticker := time.NewTicker(cfg.Worker.ExpirySweepInterval)
	defer ticker.Stop()

	for {
		if err := workers.SweepExpiredLinks(context.Background(), service); err != nil {
			log.Printf("Expiry sweep failed: %v", err)
		}
		<-ticker.C
	}
}
