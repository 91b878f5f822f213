package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/api"
	"github.com/platefeed/backend/internal/database"
	"github.com/platefeed/backend/internal/logging"
	"github.com/platefeed/backend/internal/router"
	"github.com/platefeed/backend/internal/server"
	"github.com/platefeed/backend/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(os.Getenv("DEBUG") != "")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	cache, err := database.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	if cache != nil {
		logger.Info("tag cache enabled", zap.String("addr", cfg.RedisAddr()))
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	membershipService := service.NewMembershipService(db)
	shoppingService := service.NewShoppingListService(db)
	followService := service.NewFollowService(db)
	catalogService := service.NewCatalogService(db, cache)

	engine := router.Setup(
		logger,
		api.NewAuthHandler(authService),
		api.NewUserHandler(authService, followService, cfg.PageSize),
		api.NewRecipeHandler(recipeService, membershipService, shoppingService, followService, authService, cfg.PageSize),
		api.NewCatalogHandler(catalogService, authService),
	)

	srv := server.New(cfg.ServerHost+":"+cfg.ServerPort, engine)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.ServerPort))
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal", zap.Stringer("signal", sig))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
