package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"quickplan/config"
	_ "quickplan/docs"
	"quickplan/internal/adapters/auth"
	delivery "quickplan/internal/delivery/http"
	"quickplan/internal/delivery/http/controllers"
	"quickplan/internal/delivery/http/middleware"
	"quickplan/internal/realtime"
	"quickplan/internal/repository/postgres"
	"quickplan/internal/services"
)

const (
	serviceTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

// @title quickplan API
// @version 1.0
// @description Event voting with access-gated realtime chat.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	guestRepo := postgres.NewGuestRepository(db)
	messageRepo := postgres.NewMessageRepository(db)
	userRepo := postgres.NewUserRepository(db)

	votingService := services.NewVotingService(eventRepo, guestRepo, serviceTimeout)
	gateService := services.NewChatAccessService(eventRepo, userRepo, serviceTimeout)
	historyService := services.NewChatHistoryService(messageRepo, serviceTimeout)

	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	hub := realtime.NewHub()
	roomManager := realtime.NewRoomManager(hub, gateService, historyService, logger)
	wsHandler := realtime.Handler(roomManager, verifier, logger)

	eventController := controllers.NewEventController(logger, votingService)
	chatController := controllers.NewChatController(logger, gateService, historyService)

	mux := delivery.NewRouter(eventController, chatController, wsHandler, verifier)
	handler := middleware.LoggingMiddleware(logger, mux)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		handler = middleware.CORS(strings.Split(origins, ","), handler)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
