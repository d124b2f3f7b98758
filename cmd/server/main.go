package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"media-library/internal/delivery/http/routers"
	"media-library/internal/infrastructure/db"
	"media-library/internal/infrastructure/naming"
	"media-library/internal/infrastructure/processor"
	"media-library/internal/infrastructure/queue"
	infra_repo "media-library/internal/infrastructure/repositories"
	"media-library/internal/infrastructure/storage"
	"media-library/internal/pkg/config"
	"media-library/internal/usecases"
	"media-library/pkg/constants"

	_ "media-library/migrations"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg := config.LoadConfig()
	ctx := context.Background()

	database, err := db.NewPostgresDB(cfg.Database)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}

	switch os.Getenv("RUN_AUTO_MIGRATION") {
	case "true", "goose":
		sqlDB, err := database.DB()
		if err != nil {
			log.Fatalf("could not get sql.DB: %v", err)
		}
		goose.SetBaseFS(nil)
		if err := goose.Up(sqlDB, "."); err != nil {
			log.Fatalf("failed to apply migrations: %v", err)
		}
	case "auto":
		// Dev shortcut: let gorm sync the schema instead of versioned migrations.
		if err := db.AutoMigrate(database); err != nil {
			log.Fatalf("auto migration failed: %v", err)
		}
	}

	storageDriver, err := storage.NewStorageDriver(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("storage setup failed: %v", err)
	}
	namer, err := naming.NewFileNamer(cfg.Upload.NamingStrategy)
	if err != nil {
		log.Fatalf("namer setup failed: %v", err)
	}
	pathGen, err := naming.NewPathGenerator(cfg.Upload.PathStrategy)
	if err != nil {
		log.Fatalf("path generator setup failed: %v", err)
	}

	imageProcessor := processor.NewImageProcessor(cfg.Conversion.Quality)
	mediaRepo := infra_repo.NewMediaRepository(database)

	fileService := usecases.NewFileService(namer, pathGen, storageDriver, imageProcessor, cfg.Upload.MaxFileSize)
	worker := usecases.NewConversionWorker(mediaRepo, storageDriver, imageProcessor)

	queueDriver, err := queue.NewDriver(cfg.Queue, worker)
	if err != nil {
		log.Fatalf("queue setup failed: %v", err)
	}
	defer queueDriver.Close()

	library := usecases.NewMediaLibrary(fileService, mediaRepo, storageDriver, queueDriver, cfg)

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.Upload.MaxFileSize) + 1024*1024,
	})
	app.Use(logger.New())
	app.Use(cors.New())

	if cfg.Storage.Disk == "local" {
		app.Static("/media", cfg.Storage.Local.Root)
	}

	routers.SetupMediaRoutes(app, library)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": constants.StatusOK})
	})

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	go func() {
		if err := app.Listen(addr); err != nil {
			log.Fatalf("server failed to start: %v", err)
		}
	}()
	log.Printf("Server starting on %s", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}
	log.Println("Server stopped cleanly")
}
