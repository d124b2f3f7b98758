package handlers

import (
	"encoding/json"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"media-library/internal/domain/dto"
	"media-library/internal/domain/entities"
	"media-library/internal/domain/mapper"
	"media-library/internal/infrastructure/queue"
	"media-library/internal/usecases"
	"media-library/pkg/constants"
	"media-library/pkg/errors"
)

type MediaHandler struct {
	library usecases.MediaLibrary
}

func NewMediaHandler(library usecases.MediaLibrary) *MediaHandler {
	return &MediaHandler{library: library}
}

// Attach
//
// @Summary      Attach a file
// @Description  Stores an uploaded file for a model and creates its media record
// @Tags         Media
// @Accept       multipart/form-data
// @Produce      json
// @Param        model_type        formData  string true  "Owning model type"
// @Param        model_id          formData  string true  "Owning model id"
// @Param        collection        formData  string false "Collection name"
// @Param        name              formData  string false "Display name"
// @Param        conversions       formData  string false "Named conversions as JSON"
// @Param        custom_properties formData  string false "Custom properties as JSON"
// @Param        file              formData  file   true  "File to attach"
// @Success      201  {object}  dto.MediaResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /media [post]
func (h *MediaHandler) Attach(c *fiber.Ctx) error {
	modelType := c.FormValue("model_type")
	modelID := c.FormValue("model_id")
	if modelType == "" || modelID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "missing_parameter", Message: "model_type and model_id are required",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return errors.HandleError(c, errors.ErrMissingFile(err))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return errors.HandleError(c, errors.ErrMissingFile(err))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return errors.HandleError(c, errors.ErrMissingFile(err))
	}

	var conversions map[string]entities.ConversionOptions
	if raw := c.FormValue("conversions"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &conversions); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: "invalid_conversions", Message: err.Error(),
			})
		}
	}

	var customProps map[string]interface{}
	if raw := c.FormValue("custom_properties"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &customProps); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: "invalid_custom_properties", Message: err.Error(),
			})
		}
	}

	media, err := h.library.AttachFile(c.Context(), usecases.AttachInput{
		Data:             data,
		OriginalName:     fileHeader.Filename,
		Name:             c.FormValue("name"),
		ModelType:        modelType,
		ModelID:          modelID,
		Collection:       c.FormValue("collection"),
		CustomProperties: customProps,
		Conversions:      conversions,
	})
	if err != nil {
		return errors.HandleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(mapper.MediaToResponse(media))
}

// AttachFromURL
//
// @Summary      Attach a remote file
// @Tags         Media
// @Accept       json
// @Produce      json
// @Param        request  body      dto.AttachFromURLRequest true "Remote attach request"
// @Success      201      {object}  dto.MediaResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /media/from-url [post]
func (h *MediaHandler) AttachFromURL(c *fiber.Ctx) error {
	var req dto.AttachFromURLRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid_body", Message: err.Error(),
		})
	}
	if req.URL == "" || req.ModelType == "" || req.ModelID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "missing_parameter", Message: "url, model_type and model_id are required",
		})
	}

	timeout := 30 * time.Second
	if req.TimeoutSeconds > 0 {
		timeout = time.Duration(req.TimeoutSeconds) * time.Second
	}

	media, err := h.library.AttachFromURL(c.Context(), usecases.AttachFromURLInput{
		URL:         req.URL,
		Timeout:     timeout,
		ModelType:   req.ModelType,
		ModelID:     req.ModelID,
		Collection:  req.Collection,
		Conversions: req.Conversions,
	})
	if err != nil {
		return errors.HandleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(mapper.MediaToResponse(media))
}

// GetMedia
//
// @Summary      Get a media record
// @Tags         Media
// @Produce      json
// @Param        id   path      string true "Media id"
// @Success      200  {object}  dto.MediaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /media/{id} [get]
func (h *MediaHandler) GetMedia(c *fiber.Ctx) error {
	media, err := h.library.Get(c.Context(), c.Params("id"))
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(mapper.MediaToResponse(media))
}

// ListMedia
//
// @Summary      List media records for a model
// @Tags         Media
// @Produce      json
// @Param        model_type  query     string true  "Owning model type"
// @Param        model_id    query     string true  "Owning model id"
// @Param        collection  query     string false "Collection name"
// @Success      200  {array}  dto.MediaResponse
// @Router       /media [get]
func (h *MediaHandler) ListMedia(c *fiber.Ctx) error {
	modelType := c.Query("model_type")
	modelID := c.Query("model_id")
	if modelType == "" || modelID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "missing_parameter", Message: "model_type and model_id are required",
		})
	}

	media, err := h.library.List(c.Context(), modelType, modelID, c.Query("collection"))
	if err != nil {
		return errors.HandleError(c, err)
	}

	out := make([]dto.MediaResponse, 0, len(media))
	for i := range media {
		out = append(out, mapper.MediaToResponse(&media[i]))
	}
	return c.JSON(out)
}

// ResolveURL
//
// @Summary      Resolve the URL of a media item or one of its conversions
// @Tags         Media
// @Produce      json
// @Param        id          path      string true  "Media id"
// @Param        conversion  query     string false "Conversion name"
// @Param        signed      query     bool   false "Return a temporary signed URL"
// @Success      200  {object}  dto.URLResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /media/{id}/url [get]
func (h *MediaHandler) ResolveURL(c *fiber.Ctx) error {
	mediaID := c.Params("id")
	conversion := c.Query("conversion")
	signed := c.QueryBool("signed")

	resolved, err := h.library.ResolveFileURL(c.Context(), mediaID, conversion, signed)
	if err != nil {
		return errors.HandleError(c, err)
	}

	if c.QueryBool("redirect") {
		return c.Redirect(resolved, fiber.StatusFound)
	}
	return c.JSON(dto.URLResponse{MediaID: mediaID, Conversion: conversion, URL: resolved})
}

// CreateConversions
//
// @Summary      Queue conversions for an existing media item
// @Tags         Media
// @Accept       json
// @Produce      json
// @Param        id       path      string true "Media id"
// @Param        request  body      dto.CreateConversionsRequest true "Conversions to generate"
// @Success      202      {object}  dto.CreateConversionsResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /media/{id}/conversions [post]
func (h *MediaHandler) CreateConversions(c *fiber.Ctx) error {
	var req dto.CreateConversionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid_body", Message: err.Error(),
		})
	}

	mediaID := c.Params("id")
	jobID, err := h.library.ProcessConversionsAsync(c.Context(), mediaID, req.Conversions)
	if err != nil {
		return errors.HandleError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.CreateConversionsResponse{
		JobID:   jobID,
		MediaID: mediaID,
		Status:  constants.StatusQueued,
	})
}

// UpdateProperties
//
// @Summary      Merge custom properties into a media record
// @Tags         Media
// @Accept       json
// @Produce      json
// @Param        id       path      string true "Media id"
// @Param        request  body      dto.UpdatePropertiesRequest true "Properties to merge"
// @Success      200      {object}  dto.MediaResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /media/{id}/properties [patch]
func (h *MediaHandler) UpdateProperties(c *fiber.Ctx) error {
	var req dto.UpdatePropertiesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid_body", Message: err.Error(),
		})
	}

	media, err := h.library.UpdateCustomProperties(c.Context(), c.Params("id"), req.CustomProperties)
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(mapper.MediaToResponse(media))
}

// Remove
//
// @Summary      Remove a media record and its stored objects
// @Tags         Media
// @Produce      json
// @Param        id   path      string true "Media id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /media/{id} [delete]
func (h *MediaHandler) Remove(c *fiber.Ctx) error {
	if err := h.library.Remove(c.Context(), c.Params("id")); err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"status": constants.StatusOK})
}

// JobStatus
//
// @Summary      Get the status of a conversion job
// @Tags         Jobs
// @Produce      json
// @Param        id   path      string true "Job id"
// @Success      200  {object}  dto.JobStatusResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /jobs/{id} [get]
func (h *MediaHandler) JobStatus(c *fiber.Ctx) error {
	info, err := h.library.GetConversionJobStatus(c.Context(), c.Params("id"))
	if err != nil {
		return errors.HandleError(c, err)
	}

	resp := dto.JobStatusResponse{
		JobID:  info.ID,
		Status: string(info.Status),
		Error:  info.Error,
	}
	if !info.CreatedAt.IsZero() {
		resp.CreatedAt = info.CreatedAt.Format(time.RFC3339)
	}
	if info.Status == queue.StatusCompleted || info.Status == queue.StatusFailed {
		resp.FinishedAt = info.UpdatedAt.Format(time.RFC3339)
	}
	return c.JSON(resp)
}

// QueueStats
//
// @Summary      Get aggregate queue statistics
// @Tags         Jobs
// @Produce      json
// @Success      200  {object}  dto.QueueStatsResponse
// @Router       /queue/stats [get]
func (h *MediaHandler) QueueStats(c *fiber.Ctx) error {
	stats, err := h.library.GetQueueStats(c.Context())
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(dto.QueueStatsResponse{
		Delayed:   stats.Delayed,
		Waiting:   stats.Waiting,
		Active:    stats.Active,
		Completed: stats.Completed,
		Failed:    stats.Failed,
	})
}
