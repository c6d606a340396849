package main

import (
	"log"
	"net/http"

	_ "thyroscan/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"thyroscan/internal/auth"
	"thyroscan/internal/cache"
	"thyroscan/internal/classifier"
	"thyroscan/internal/config"
	"thyroscan/internal/db"
	"thyroscan/internal/handler"
	"thyroscan/internal/model"
	"thyroscan/internal/repository"
	"thyroscan/internal/router"
	"thyroscan/internal/service"
	"thyroscan/internal/storage"
)

// @title Thyroid Scan API
// @version 1.0
// @description Backend that classifies thyroid scan images with a CNN, keeps prediction history, and relays chat questions to a local language model.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Prediction{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	store, err := storage.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload store init: %v", err)
	}

	// A missing or broken model artifact degrades the service instead of
	// aborting startup: prediction requests fail with MODEL_UNAVAILABLE.
	var clf classifier.Classifier
	if m, err := classifier.Load(cfg.ModelPath); err != nil {
		log.Printf("Warning: classifier load failed, predictions disabled: %v", err)
	} else {
		clf = m
		log.Printf("Model loaded: %s (%d labels)", cfg.ModelPath, len(m.Labels()))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	predictionRepo := repository.NewPredictionRepository(gormDB)

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	userService := service.NewUserService(userRepo, predictionRepo, jwtService, store, cacheClient)
	predictionService := service.NewPredictionService(clf, store, predictionRepo, cacheClient)
	chatService := service.NewChatService(cfg.OllamaURL, cfg.OllamaModel)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService)
	predictionHandler := handler.NewPredictionHandler(predictionService)
	chatHandler := handler.NewChatHandler(chatService)

	// Register routes
	router.Register(
		e,
		cfg,
		store.Root(),
		authHandler,
		predictionHandler,
		chatHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
