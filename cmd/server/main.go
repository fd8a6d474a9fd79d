package main

import (
	"context"
	"log"
	"time"

	"github.com/dkrough/chat-backend/internal/ai"
	"github.com/dkrough/chat-backend/internal/chat"
	"github.com/dkrough/chat-backend/internal/config"
	"github.com/dkrough/chat-backend/internal/db"
	"github.com/dkrough/chat-backend/internal/httpapi"
	"github.com/dkrough/chat-backend/internal/store/rabbitmq"
	"github.com/dkrough/chat-backend/internal/store/redisstore"
)

func main() {
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)
	repo := chat.NewRepo(gdb)

	client, err := ai.NewOpenAIClient(ai.Config{
		BaseURL:     cfg.OpenAIBaseURL,
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.OpenAIModel,
		Temperature: cfg.OpenAITemperature,
		MaxTokens:   cfg.OpenAIMaxTokens,
		Timeout:     cfg.OpenAITimeout,
	})
	if err != nil {
		log.Fatalf("ai client: %v", err)
	}

	retained := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RawBodyTTL)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := retained.Ping(pingCtx); err != nil {
		log.Printf("redis unreachable at startup, raw-body retention will fail until it recovers: %v", err)
	}
	cancel()

	svc := chat.NewService(repo, client, retained, cfg.ContextWindowSize, cfg.UpstreamRetryOnce)

	rabbit, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
	if err != nil {
		log.Fatalf("rabbit publisher: %v", err)
	}
	defer rabbit.Close()

	r := httpapi.NewRouter(svc, rabbit)

	log.Printf("server listening on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
