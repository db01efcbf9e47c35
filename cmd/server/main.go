package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"

	"shortlink/internal/api"
	"shortlink/internal/api/handlers"
	"shortlink/internal/api/middleware"
	"shortlink/internal/engine/links"
	"shortlink/internal/engine/redirect"
	"shortlink/internal/pkg/logger"
	"shortlink/internal/platform/auth"
	"shortlink/internal/platform/config"
	"shortlink/internal/platform/database"
	"shortlink/internal/platform/repositories"
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

	// Cache: Redis when configured, in-process otherwise.
	var cache redirect.Cache
	if cfg.Cache.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisAddr,
			DB:   cfg.Cache.RedisDB,
		})
		cache = redirect.NewRedisCache(client, cfg.Cache.LinkTTL)
	} else {
		cache = redirect.NewMemoryCache(cfg.Cache.LinkTTL)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	linkRepo := links.NewRepository(db)

	// Services
	tokenSvc := auth.NewTokenService(cfg.JWT)
	linkSvc := links.NewService(linkRepo, cache)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(userRepo, tokenSvc)
	linkHandler := handlers.NewLinkHandler(linkSvc)
	redirectHandler := handlers.NewRedirectHandler(linkSvc)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc, userRepo)

	router := api.NewRouter(&api.Dependencies{
		HealthHandler:   healthHandler,
		AuthHandler:     authHandler,
		LinkHandler:     linkHandler,
		RedirectHandler: redirectHandler,
		AuthMiddleware:  authMiddleware,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
