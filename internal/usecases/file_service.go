package usecases

import (
	"context"
	"log"

	"media-library/internal/domain/entities"
	"media-library/internal/domain/repositories"
	"media-library/internal/infrastructure/naming"
	"media-library/internal/infrastructure/processor"
	apperrors "media-library/pkg/errors"
	"media-library/pkg/helper"
)

type UploadInput struct {
	Data         []byte
	OriginalName string
	ModelType    string
	ModelID      string
	Collection   string
	Conversions  map[string]entities.ConversionOptions
}

type UploadResult struct {
	MediaID     string // set only when the path strategy minted one
	FileName    string
	Path        string
	Directory   string
	Size        int64
	MimeType    string
	Conversions entities.ConversionMap
}

// FileService composes namer, path generator, storage and processor into one
// upload operation and one delete operation.
type FileService interface {
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)

	// Delete removes the original and then each conversion object. A failure
	// on the original is fatal and returned as the second value; conversion
	// failures are collected and returned for logging without aborting the
	// remaining deletions. The original is the record of truth, conversions
	// are regenerable.
	Delete(ctx context.Context, path string, conversionPaths []string) ([]error, error)
}

type fileService struct {
	namer       naming.FileNamer
	paths       naming.PathGenerator
	storage     repositories.StorageDriver
	processor   processor.Processor // nil disables conversions
	maxFileSize int64
}

func NewFileService(
	namer naming.FileNamer,
	paths naming.PathGenerator,
	storage repositories.StorageDriver,
	proc processor.Processor,
	maxFileSize int64,
) FileService {
	return &fileService{
		namer:       namer,
		paths:       paths,
		storage:     storage,
		processor:   proc,
		maxFileSize: maxFileSize,
	}
}

func (s *fileService) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	// Content sniffing is authoritative; the caller-declared name is only
	// used for naming.
	mimeType := helper.DetectMimeType(in.Data)

	if s.maxFileSize > 0 && int64(len(in.Data)) > s.maxFileSize {
		return nil, apperrors.ErrFileTooLarge(int64(len(in.Data)), s.maxFileSize)
	}

	fileName := s.namer.Generate(in.OriginalName)
	pathCtx := entities.PathContext{
		ModelType:    in.ModelType,
		ModelID:      in.ModelID,
		Collection:   in.Collection,
		OriginalName: in.OriginalName,
		FileName:     fileName,
	}
	pathRes := s.paths.Generate(pathCtx)

	stored, err := s.storage.Put(ctx, pathRes.Path, in.Data, repositories.PutOptions{
		ContentType: mimeType,
		Visibility:  repositories.VisibilityPublic,
	})
	if err != nil {
		return nil, apperrors.ErrStorage("put", err)
	}

	result := &UploadResult{
		MediaID:     pathRes.MediaID,
		FileName:    fileName,
		Path:        pathRes.Path,
		Directory:   pathRes.Directory,
		Size:        stored.Size,
		MimeType:    mimeType,
		Conversions: entities.ConversionMap{},
	}

	// Conversions are silently skipped unless requested, the content is an
	// image and a processor is configured. Graceful degradation, not an error.
	if len(in.Conversions) == 0 || !helper.IsImageMime(mimeType) || s.processor == nil {
		return result, nil
	}

	processed, procErr := s.processor.Process(in.Data, in.Conversions)
	if procErr != nil {
		// Conversions are best-effort on upload: the original is already
		// persisted, failed names are simply absent from the result map.
		log.Printf("upload %s: %v", pathRes.Path, procErr)
	}

	for name, res := range processed {
		convRes := s.paths.GenerateConversion(pathCtx, name)
		obj, err := s.storage.Put(ctx, convRes.Path, res.Data, repositories.PutOptions{
			ContentType: helper.DetectMimeType(res.Data),
			Visibility:  repositories.VisibilityPublic,
		})
		if err != nil {
			log.Printf("upload %s: storing conversion %q failed: %v", pathRes.Path, name, err)
			continue
		}
		result.Conversions[name] = entities.Conversion{Path: obj.Path, Size: obj.Size}
	}

	return result, nil
}

func (s *fileService) Delete(ctx context.Context, path string, conversionPaths []string) ([]error, error) {
	if err := s.storage.Delete(ctx, path); err != nil {
		return nil, apperrors.ErrStorage("delete", err)
	}

	var failed []error
	for _, convPath := range conversionPaths {
		if err := s.storage.Delete(ctx, convPath); err != nil {
			log.Printf("delete %s: conversion cleanup failed for %s: %v", path, convPath, err)
			failed = append(failed, apperrors.ErrStorage("delete", err))
		}
	}
	return failed, nil
}
