package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/kward/rescue-animal-service/internal/auth"
	"github.com/kward/rescue-animal-service/internal/config"
	"github.com/kward/rescue-animal-service/internal/database"
	"github.com/kward/rescue-animal-service/internal/handler"
	"github.com/kward/rescue-animal-service/internal/queue"
	"github.com/kward/rescue-animal-service/internal/repository"
	"github.com/kward/rescue-animal-service/internal/router"
	"github.com/kward/rescue-animal-service/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("create data dir: %v", err)
		}
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := repository.NewUserRepo(db)
	animals := repository.NewAnimalRepo(db)
	activities := repository.NewActivityRepo(db)

	if err := users.EnsureDefaultAdmin(ctx, cfg.BcryptCost); err != nil {
		log.Fatalf("seed default admin: %v", err)
	}

	sessions := auth.NewManager(users, cfg.SessionTimeout)
	defer sessions.Close()

	monitor := service.NewMonitor(activities, animals)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and caching disabled")
	}

	e := echo.New()
	e.HideBanner = true

	router.Register(e, router.Deps{
		Auth:      handler.NewAuthHandler(cfg, users, sessions),
		Animals:   handler.NewAnimalHandler(animals, monitor),
		Users:     handler.NewUserHandler(cfg, users, sessions),
		Monitor:   handler.NewMonitorHandler(activities, sessions),
		Sessions:  sessions,
		Redis:     rdb,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
	})

	// The consumer only makes sense when a broker is configured; with no
	// URL set the publisher side is best-effort against localhost anyway.
	if os.Getenv("RABBITMQ_URL") != "" || os.Getenv("AMQP_URL") != "" {
		go func() {
			if err := queue.StartActivityConsumer(); err != nil {
				log.Printf("activity consumer stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
