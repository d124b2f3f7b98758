package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"media-library/internal/infrastructure/db"
	"media-library/internal/infrastructure/processor"
	"media-library/internal/infrastructure/queue"
	infra_repo "media-library/internal/infrastructure/repositories"
	"media-library/internal/infrastructure/storage"
	"media-library/internal/pkg/config"
	"media-library/internal/usecases"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.NewPostgresDB(cfg.Database)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}

	storageDriver, err := storage.NewStorageDriver(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("storage setup failed: %v", err)
	}

	imageProcessor := processor.NewImageProcessor(cfg.Conversion.Quality)
	mediaRepo := infra_repo.NewMediaRepository(database)
	worker := usecases.NewConversionWorker(mediaRepo, storageDriver, imageProcessor)

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", cfg.Queue.RedisHost, cfg.Queue.RedisPort),
	})
	driver := queue.NewRedisDriver(rdb)
	defer driver.Close()

	log.Printf("Conversion worker started, consuming from redis at %s:%s", cfg.Queue.RedisHost, cfg.Queue.RedisPort)
	if err := driver.Consume(ctx, worker); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("consume loop failed: %v", err)
	}
	log.Println("Conversion worker stopped")
}
