package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"serenity-backend/internal/config"
	"serenity-backend/internal/database"
	"serenity-backend/internal/handlers"
	"serenity-backend/internal/llm"
	"serenity-backend/internal/middleware"
	"serenity-backend/internal/repository"
	"serenity-backend/internal/router"
	"serenity-backend/internal/services"
	"serenity-backend/pkg/logger"
)

func main() {
	log.Println("🚀 Starting Serenity Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	appLog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("✗ Logger initialization failed: %v", err)
	}
	defer appLog.Sync()

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		appLog.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	appLog.Infof("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		appLog.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	appLog.Infof("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		appLog.Fatalf("✗ Database migration failed: %v", err)
	}
	appLog.Infof("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	conversationRepo := repository.NewConversationRepo(pool)

	// ──── Step 5: Initialize Upstream LLM Client ────
	llmClient, err := llm.NewClient(llm.Config{
		Provider:        cfg.LLMProvider,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		GeminiAPIKey:    cfg.GeminiAPIKey,
		Model:           cfg.LLMModel,
	})
	if err != nil {
		appLog.Fatalf("✗ LLM client initialization failed: %v", err)
	}
	if closer, ok := llmClient.(interface{ Close() }); ok {
		defer closer.Close()
	}
	appLog.Infof("✓ LLM client initialized (provider: %s)", llmClient.Name())

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, redisClient, jwtAuth)
	relayService := services.NewRelayService(
		conversationRepo,
		llmClient,
		appLog,
		cfg.SystemPrompt,
		cfg.LLMMaxTokens,
		time.Duration(cfg.LLMTimeoutSecs)*time.Second,
	)
	sendLimiter := middleware.NewSendLimiter(
		redisClient,
		appLog,
		cfg.SendRateLimit,
		time.Duration(cfg.SendRateWindowSecs)*time.Second,
	)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService, appLog)
	chatHandler := handlers.NewChatHandler(relayService, appLog)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		cfg,
		appLog,
		jwtAuth,
		authHandler,
		chatHandler,
		sendLimiter,
		pool,
		redisClient,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		appLog.Infof("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	appLog.Infof("✓ Serenity Backend ready on http://localhost:%s", cfg.Port)
	appLog.Infof("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		appLog.Fatalf("Server error: %v", err)
	}
}
