package main

import (
	"context"
	"log"
	"time"

	"anoa.com/alumninetwork/internal/bootstrap"
	"anoa.com/alumninetwork/internal/config"
	"anoa.com/alumninetwork/internal/server"
	"anoa.com/alumninetwork/pkg/database"
	"anoa.com/alumninetwork/pkg/validator"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect(database.Options{
		URL:      cfg.DatabaseURL,
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPass,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
	})
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.IsDevelopment() {
		if err := bootstrap.SeedAdminUser(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	if err := validator.Register(); err != nil {
		log.Fatalf("failed to register validators: %v", err)
	}

	srv := server.NewServer(cfg, db, connectRedis(cfg.RedisURL))
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// connectRedis returns nil when REDIS_URL is unset or the server does not answer; the app
// then runs without rate limiting, cached counts and live notifications.
func connectRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		log.Println("REDIS_URL not set, running without redis")
		return nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("Invalid REDIS_URL, running without redis: %v", err)
		return nil
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Failed to connect to redis, running without it: %v", err)
		_ = client.Close()
		return nil
	}

	log.Println("Connected to redis")
	return client
}
