package main // Entry point package

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"            // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // Echo built-in middleware (CORS, secure headers, logging)

	"github.com/starshade/online-store/internal/config"
	"github.com/starshade/online-store/internal/database"
	"github.com/starshade/online-store/internal/handler"
	"github.com/starshade/online-store/internal/logger"
	"github.com/starshade/online-store/internal/middleware"
	"github.com/starshade/online-store/internal/repository"
	"github.com/starshade/online-store/internal/router"
	queue_publisher "github.com/starshade/online-store/internal/service"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	// Redis is optional: a nil client turns rate limiting and caching into
	// pass-throughs instead of blocking startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, rate limiting and caching disabled")
	}

	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	cartRepo := repository.NewCartRepo(db)
	orderRepo := repository.NewOrderRepo(db, cartRepo)

	publisher := queue_publisher.New(cfg.RabbitURL, log)

	authHandler := handler.NewAuthHandler(cfg, userRepo, log)
	productHandler := handler.NewProductHandler(productRepo, log)
	cartHandler := handler.NewCartHandler(userRepo, cartRepo, log)
	orderHandler := handler.NewOrderHandler(userRepo, orderRepo, publisher.OrderPlaced, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	}))
	e.Use(echomw.CORS())
	e.Use(echomw.Secure())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterUsers(e, authHandler)
	router.RegisterProducts(e, productHandler, cache)
	router.RegisterCartAndOrders(e, cartHandler, orderHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil {
			log.Info().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server shut down")
}
