package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/farm-labour-exchange/internal/config"
	"github.com/iliyamo/farm-labour-exchange/internal/database"
	"github.com/iliyamo/farm-labour-exchange/internal/handler"
	"github.com/iliyamo/farm-labour-exchange/internal/middleware"
	"github.com/iliyamo/farm-labour-exchange/internal/queue"
	"github.com/iliyamo/farm-labour-exchange/internal/repository"
	"github.com/iliyamo/farm-labour-exchange/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Init(initCtx, db); err != nil {
		log.Fatalf("schema init: %v", err)
	}

	// Redis backs the response cache and the rate limiter; nil means both
	// middlewares become pass-throughs and the API runs without Redis.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	jobs := repository.NewJobRepo(db)
	views := repository.NewViewRepo(db)
	changes := repository.NewChangeRequestRepo(db)
	assignments := repository.NewAssignmentRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	farmerH := handler.NewFarmerHandler(jobs, views, changes, assignments, users)
	labourH := handler.NewLabourHandler(jobs, changes, assignments)
	publicH := handler.NewPublicHandler(jobs, views, changes, users, cfg.JWTSecret)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, config.LoadCacheConfig(), rdb)
	router.RegisterFarmer(e, farmerH, cfg.JWTSecret)
	router.RegisterLabour(e, labourH, cfg.JWTSecret)

	// Background consumer appends confirmed assignments to logs/assignment.log.
	// It maintains its own reconnect loop and never brings the server down.
	go func() {
		if err := queue.StartJobConfirmedConsumer(); err != nil {
			log.Printf("job-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
