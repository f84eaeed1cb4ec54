package main

import (
	"context"
	"fmt"
	"log"

	"scott-chatbot-backend/core"
)

func main() {
	cfg := core.Load()
	ctx := context.Background()

	logCloser, err := core.SetupLogging(cfg, "api.log")
	if err != nil {
		log.Fatalf("failed to setup logging: %v", err)
	}
	defer logCloser.Close()

	db, err := core.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	if err := core.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	redisClient, err := core.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer redisClient.Close()

	tokens, err := core.NewTokenService(cfg)
	if err != nil {
		log.Fatalf("failed to build token service: %v", err)
	}

	userRepo := core.NewPgUserRepository(db)
	authService := core.NewAuthService(userRepo, tokens)
	history := core.NewChatHistory(redisClient)

	router := core.NewRouter(cfg, authService, userRepo, tokens, core.MockResponder{}, history)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("starting %s api server on %s", cfg.ProjectName, addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
