package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"event-checkin/core/cache"
	"event-checkin/core/constants"
	"event-checkin/core/errors"
	"event-checkin/core/logger"
	"event-checkin/core/params"
	"event-checkin/core/queue"
	"event-checkin/core/utils"
	"event-checkin/modules/guest/dto"
	"event-checkin/modules/guest/entity"
	"event-checkin/modules/guest/importer"
	"event-checkin/modules/guest/repository"

	"github.com/hibiken/asynq"
)

type GuestServiceInterface interface {
	Import(ctx context.Context, ds *importer.Dataset) (*dto.ImportReport, *errors.AppError)
	ImportAsync(ctx context.Context, ds *importer.Dataset) (*dto.ImportReport, *errors.AppError)
	CommitImport(ctx context.Context, batchID string, guests []entity.Guest) *errors.AppError
	Lookup(ctx context.Context, email string) (*entity.Guest, *errors.AppError)
	List(ctx context.Context, params params.QueryParams) (*entity.PaginatedGuestEntity, *errors.AppError)
	Export(ctx context.Context) (*importer.Dataset, *errors.AppError)
	Count(ctx context.Context) (int, *errors.AppError)
	Reset(ctx context.Context) (int64, *errors.AppError)
	InvalidateCache(ctx context.Context)
}

// ImportPayload is the queued form of a validated import batch.
type ImportPayload struct {
	BatchID string         `json:"batch_id"`
	Guests  []entity.Guest `json:"guests"`
}

type Options struct {
	MinEmailLength int
	LookupTTL      time.Duration
	Location       *time.Location
	Now            func() time.Time
}

type GuestService struct {
	repo  repository.GuestRepositoryInterface
	cache cache.Cache
	queue queue.Enqueuer
	opts  Options
}

// NewGuestService wires the directory service. cache may be nil (no caching) and
// queue may be nil (async import unavailable).
func NewGuestService(repo repository.GuestRepositoryInterface, c cache.Cache, q queue.Enqueuer, opts Options) *GuestService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &GuestService{repo: repo, cache: c, queue: q, opts: opts}
}

func (s *GuestService) prepare(ds *importer.Dataset) (*importer.Result, *errors.AppError) {
	res, err := importer.Prepare(ds, importer.Options{MinEmailLength: s.opts.MinEmailLength})
	if err != nil {
		var schemaErr *importer.SchemaError
		if stderrors.As(err, &schemaErr) {
			return nil, errors.NewAppError(errors.ErrSchema, schemaErr.Error(), err).
				WithDetails(map[string]any{"missing_columns": schemaErr.Missing})
		}
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid import data", err)
	}
	return res, nil
}

func newReport(batchID string, status dto.ImportStatus, res *importer.Result) *dto.ImportReport {
	return &dto.ImportReport{
		BatchID:    batchID,
		Status:     status,
		Received:   res.Received,
		Imported:   len(res.Guests),
		Dropped:    res.Dropped,
		Duplicates: res.Duplicates,
	}
}

// Import validates, normalizes and commits ds in one transaction. A schema error
// leaves the directory untouched.
func (s *GuestService) Import(ctx context.Context, ds *importer.Dataset) (*dto.ImportReport, *errors.AppError) {
	res, appErr := s.prepare(ds)
	if appErr != nil {
		return nil, appErr
	}
	batchID := utils.GenerateID()
	if appErr := s.CommitImport(ctx, batchID, res.Guests); appErr != nil {
		return nil, appErr
	}
	return newReport(batchID, dto.ImportStatusCommitted, res), nil
}

// ImportAsync validates synchronously and hands the normalized rows to the worker.
func (s *GuestService) ImportAsync(ctx context.Context, ds *importer.Dataset) (*dto.ImportReport, *errors.AppError) {
	if s.queue == nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Asynchronous import requires redis", nil)
	}
	res, appErr := s.prepare(ds)
	if appErr != nil {
		return nil, appErr
	}

	batchID := utils.GenerateID()
	taskID, err := s.queue.Enqueue(ctx, constants.TaskTypeGuestImport,
		ImportPayload{BatchID: batchID, Guests: res.Guests},
		asynq.TaskID(batchID), asynq.MaxRetry(3))
	if err != nil {
		return nil, errors.Internal("Failed to queue import", err)
	}

	report := newReport(batchID, dto.ImportStatusQueued, res)
	report.TaskID = taskID
	return report, nil
}

// CommitImport upserts already-normalized guests and invalidates cached lookups.
func (s *GuestService) CommitImport(ctx context.Context, batchID string, guests []entity.Guest) *errors.AppError {
	importedAt := utils.FormatTimestamp(s.opts.Now(), s.opts.Location)
	if err := s.repo.UpsertMany(ctx, guests, importedAt); err != nil {
		return errors.Internal("Failed to import guests", err)
	}
	s.InvalidateCache(ctx)
	logger.Info("GuestService:CommitImport:Success", "batch_id", batchID, "rows", len(guests))
	return nil
}

// Lookup finds a guest by email. Blank input is reported as not found without
// touching storage.
func (s *GuestService) Lookup(ctx context.Context, email string) (*entity.Guest, *errors.AppError) {
	key := utils.NormalizeEmail(email)
	if key == "" {
		return nil, errors.NotFound("Guest not found")
	}

	cacheKey := s.cacheKey(ctx, key)
	if cacheKey != "" {
		var cached entity.Guest
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			logger.Warn("GuestService:Lookup:CacheGet", "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	guest, err := s.repo.GetByEmail(ctx, key)
	if err != nil {
		return nil, errors.Internal("Failed to look up guest", err)
	}
	if guest == nil {
		return nil, errors.NotFound("Guest not found")
	}
	guest.TableID = utils.NormalizeTableID(guest.TableID)

	if cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, guest, s.opts.LookupTTL); err != nil {
			logger.Warn("GuestService:Lookup:CacheSet", "error", err)
		}
	}
	return guest, nil
}

func (s *GuestService) List(ctx context.Context, params params.QueryParams) (*entity.PaginatedGuestEntity, *errors.AppError) {
	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, errors.Internal("Failed to list guests", err)
	}
	return result, nil
}

// Export returns the directory in the import column layout.
func (s *GuestService) Export(ctx context.Context) (*importer.Dataset, *errors.AppError) {
	guests, err := s.repo.All(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to export guests", err)
	}
	return importer.FromGuests(guests), nil
}

func (s *GuestService) Count(ctx context.Context) (int, *errors.AppError) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, errors.Internal("Failed to count guests", err)
	}
	return n, nil
}

func (s *GuestService) Reset(ctx context.Context) (int64, *errors.AppError) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, errors.Internal("Failed to reset guest directory", err)
	}
	s.InvalidateCache(ctx)
	return n, nil
}

// InvalidateCache bumps the lookup version so every cached entry goes stale at once.
func (s *GuestService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Incr(ctx, constants.RedisKeyGuestVersion); err != nil {
		logger.Warn("GuestService:InvalidateCache", "error", err)
	}
}

// cacheKey returns "" when the cache is unusable, which disables caching for the call.
func (s *GuestService) cacheKey(ctx context.Context, email string) string {
	if s.cache == nil || s.opts.LookupTTL <= 0 {
		return ""
	}
	version, err := s.cache.GetInt(ctx, constants.RedisKeyGuestVersion)
	if err != nil {
		logger.Warn("GuestService:Lookup:CacheVersion", "error", err)
		return ""
	}
	return fmt.Sprintf("%sv%s:%s", constants.RedisKeyGuestPrefix, strconv.FormatInt(version, 10), email)
}
