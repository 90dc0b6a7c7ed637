package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"event-checkin/core/blob"
	"event-checkin/core/errors"
	"event-checkin/core/logger"
	"event-checkin/core/utils"
	"event-checkin/modules/asset/entity"
	"event-checkin/modules/asset/repository"

	"github.com/gosimple/slug"
)

// maxWriteAttempts bounds how often Save re-reads a slot that keeps changing underneath it.
const maxWriteAttempts = 3

type AssetServiceInterface interface {
	Save(ctx context.Context, slot string, filename string, data []byte) (*entity.Asset, *errors.AppError)
	Get(ctx context.Context, slot string) (*entity.Asset, []byte, *errors.AppError)
	List(ctx context.Context) ([]entity.Asset, *errors.AppError)
	Delete(ctx context.Context, slot string) *errors.AppError
	Reset(ctx context.Context) (int64, *errors.AppError)
	PurgeBlobs(ctx context.Context, keys []string)
}

type Options struct {
	MaxUploadBytes int64
	Location       *time.Location
	Now            func() time.Time
}

type AssetService struct {
	repo  repository.AssetRepositoryInterface
	store blob.Store
	opts  Options
}

func NewAssetService(repo repository.AssetRepositoryInterface, store blob.Store, opts Options) *AssetService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &AssetService{repo: repo, store: store, opts: opts}
}

func parseSlot(s string) (entity.Slot, *errors.AppError) {
	slot, ok := entity.ParseSlot(strings.ToLower(strings.TrimSpace(s)))
	if !ok {
		return "", errors.NotFound(fmt.Sprintf("Unknown asset slot %q", s))
	}
	return slot, nil
}

// BlobKey builds a fresh storage key for an upload, e.g. "poster/V1StGXR8_Z5j-gala-night.png".
func BlobKey(slot entity.Slot, filename string) string {
	return string(slot) + "/" + utils.GenerateID() + "-" + safeFilename(filename)
}

func safeFilename(filename string) string {
	base := filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(base))
	name := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" {
		name = "file"
	}
	return name + ext
}

// Save replaces whatever occupies slot. The swap is conditional on the blob key
// read beforehand; after losing a race the slot is re-read and the blob actually
// displaced is the one removed.
func (s *AssetService) Save(ctx context.Context, slotName string, filename string, data []byte) (*entity.Asset, *errors.AppError) {
	slot, appErr := parseSlot(slotName)
	if appErr != nil {
		return nil, appErr
	}
	if len(data) == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Uploaded file is empty", nil)
	}
	if s.opts.MaxUploadBytes > 0 && int64(len(data)) > s.opts.MaxUploadBytes {
		return nil, errors.NewAppError(errors.ErrPayloadTooLarge, "Uploaded file is too large", nil).
			WithDetails(map[string]int64{"max_bytes": s.opts.MaxUploadBytes})
	}
	contentType := http.DetectContentType(data)
	if !slot.Accepts(contentType) {
		return nil, errors.NewAppError(errors.ErrUnsupportedMediaType, fmt.Sprintf("%s does not accept %s", slot, contentType), nil).
			WithDetails(map[string][]string{"allowed": slot.AllowedContentTypes()})
	}

	asset := &entity.Asset{
		Slot:        slot,
		Filename:    safeFilename(filename),
		ContentType: contentType,
		Size:        int64(len(data)),
		BlobKey:     BlobKey(slot, filename),
		UpdatedAt:   utils.FormatTimestamp(s.opts.Now(), s.opts.Location),
	}
	if err := s.store.Put(ctx, asset.BlobKey, contentType, data); err != nil {
		return nil, errors.Internal("Failed to store asset", err)
	}

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		previous, err := s.repo.GetBySlot(ctx, slot)
		if err != nil {
			s.deleteBlob(ctx, asset.BlobKey)
			return nil, errors.Internal("Failed to read asset", err)
		}
		previousKey := ""
		if previous != nil {
			previousKey = previous.BlobKey
		}

		swapped, err := s.repo.Replace(ctx, asset, previousKey)
		if err != nil {
			s.deleteBlob(ctx, asset.BlobKey)
			return nil, errors.Internal("Failed to save asset", err)
		}
		if swapped {
			if previousKey != "" {
				s.deleteBlob(ctx, previousKey)
			}
			logger.Info("AssetService:Save:Success", "slot", slot, "size", asset.Size, "backend", s.store.Name())
			return asset, nil
		}
		logger.Warn("AssetService:Save:Conflict", "slot", slot, "attempt", attempt)
	}

	s.deleteBlob(ctx, asset.BlobKey)
	return nil, errors.NewAppError(errors.ErrAlreadyExists, fmt.Sprintf("%s is being replaced by another upload", slot), nil)
}

func (s *AssetService) Get(ctx context.Context, slotName string) (*entity.Asset, []byte, *errors.AppError) {
	slot, appErr := parseSlot(slotName)
	if appErr != nil {
		return nil, nil, appErr
	}
	asset, err := s.repo.GetBySlot(ctx, slot)
	if err != nil {
		return nil, nil, errors.Internal("Failed to read asset", err)
	}
	if asset == nil {
		return nil, nil, errors.NotFound(fmt.Sprintf("No %s uploaded", slot))
	}
	data, err := s.store.Get(ctx, asset.BlobKey)
	if err != nil {
		if stderrors.Is(err, blob.ErrNotFound) {
			return nil, nil, errors.NotFound(fmt.Sprintf("No %s uploaded", slot))
		}
		return nil, nil, errors.Internal("Failed to load asset", err)
	}
	return asset, data, nil
}

func (s *AssetService) List(ctx context.Context) ([]entity.Asset, *errors.AppError) {
	assets, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to list assets", err)
	}
	if assets == nil {
		assets = []entity.Asset{}
	}
	return assets, nil
}

func (s *AssetService) Delete(ctx context.Context, slotName string) *errors.AppError {
	slot, appErr := parseSlot(slotName)
	if appErr != nil {
		return appErr
	}
	key, err := s.repo.Delete(ctx, slot)
	if err != nil {
		return errors.Internal("Failed to delete asset", err)
	}
	if key == "" {
		return errors.NotFound(fmt.Sprintf("No %s uploaded", slot))
	}
	s.deleteBlob(ctx, key)
	return nil
}

// Reset clears every slot.
func (s *AssetService) Reset(ctx context.Context) (int64, *errors.AppError) {
	keys, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, errors.Internal("Failed to reset assets", err)
	}
	s.PurgeBlobs(ctx, keys)
	return int64(len(keys)), nil
}

// PurgeBlobs deletes blobs whose metadata is already gone. Failures leave orphans
// and are only logged.
func (s *AssetService) PurgeBlobs(ctx context.Context, keys []string) {
	for _, key := range keys {
		s.deleteBlob(ctx, key)
	}
}

func (s *AssetService) deleteBlob(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		logger.Warn("AssetService:DeleteBlob", "key", key, "error", err)
	}
}
