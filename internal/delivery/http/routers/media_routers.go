package routers

import (
	"github.com/gofiber/fiber/v2"

	"media-library/internal/delivery/http/handlers"
	"media-library/internal/usecases"
)

func SetupMediaRoutes(app *fiber.App, library usecases.MediaLibrary) {
	mediaHandler := handlers.NewMediaHandler(library)

	api := app.Group("/api/v1")

	api.Post("/media", mediaHandler.Attach)
	api.Post("/media/from-url", mediaHandler.AttachFromURL)
	api.Get("/media", mediaHandler.ListMedia)
	api.Get("/media/:id", mediaHandler.GetMedia)
	api.Get("/media/:id/url", mediaHandler.ResolveURL)
	api.Post("/media/:id/conversions", mediaHandler.CreateConversions)
	api.Patch("/media/:id/properties", mediaHandler.UpdateProperties)
	api.Delete("/media/:id", mediaHandler.Remove)

	api.Get("/jobs/:id", mediaHandler.JobStatus)
	api.Get("/queue/stats", mediaHandler.QueueStats)
}
