package service

import (
	"context"
	"time"

	"event-checkin/core/errors"
	"event-checkin/core/logger"
	"event-checkin/core/params"
	"event-checkin/core/utils"
	"event-checkin/modules/attendance/dto"
	"event-checkin/modules/attendance/entity"
	"event-checkin/modules/attendance/repository"
	guestEntity "event-checkin/modules/guest/entity"
)

// GuestLookup is the part of the directory the check-in flow depends on.
type GuestLookup interface {
	Lookup(ctx context.Context, email string) (*guestEntity.Guest, *errors.AppError)
}

type AttendanceServiceInterface interface {
	Confirm(ctx context.Context, guest *guestEntity.Guest) (*entity.Attendance, *errors.AppError)
	CheckIn(ctx context.Context, email string) (*dto.CheckInResponse, *errors.AppError)
	LookupWithStatus(ctx context.Context, email string) (*dto.GuestStatusResponse, *errors.AppError)
	AlreadyCheckedIn(ctx context.Context, email string) (bool, *errors.AppError)
	Stats(ctx context.Context) (*entity.Stats, *errors.AppError)
	List(ctx context.Context, params params.QueryParams) (*entity.PaginatedAttendanceEntity, *errors.AppError)
	Reset(ctx context.Context) (int64, *errors.AppError)
}

type Options struct {
	Location *time.Location
	Now      func() time.Time
	// ConfirmDelay paces the confirmation for the kiosk UI. It has no effect on data.
	ConfirmDelay time.Duration
}

type AttendanceService struct {
	repo   repository.AttendanceRepositoryInterface
	guests GuestLookup
	opts   Options
}

func NewAttendanceService(repo repository.AttendanceRepositoryInterface, guests GuestLookup, opts Options) *AttendanceService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &AttendanceService{repo: repo, guests: guests, opts: opts}
}

// Confirm writes or refreshes the ledger row for guest. Confirming twice is
// allowed and only moves the timestamp forward.
func (s *AttendanceService) Confirm(ctx context.Context, guest *guestEntity.Guest) (*entity.Attendance, *errors.AppError) {
	if guest == nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Guest is required", nil)
	}
	email := utils.NormalizeEmail(guest.Email)
	if email == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Guest email is required", nil)
	}

	if s.opts.ConfirmDelay > 0 {
		timer := time.NewTimer(s.opts.ConfirmDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.NewAppError(errors.ErrInternalServer, "Check-in cancelled", ctx.Err())
		case <-timer.C:
		}
	}

	a := &entity.Attendance{
		Email:       email,
		CheckedInAt: utils.FormatTimestamp(s.opts.Now(), s.opts.Location),
		Name:        guest.Name,
		Title:       guest.Title,
		TableID:     utils.NormalizeTableID(guest.TableID),
	}
	if err := s.repo.Upsert(ctx, a); err != nil {
		return nil, errors.Internal("Failed to record attendance", err)
	}
	logger.Info("AttendanceService:Confirm:Success", "email", email, "table_id", a.TableID)
	return a, nil
}

// CheckIn resolves email against the directory and confirms it.
func (s *AttendanceService) CheckIn(ctx context.Context, email string) (*dto.CheckInResponse, *errors.AppError) {
	guest, appErr := s.guests.Lookup(ctx, email)
	if appErr != nil {
		return nil, appErr
	}
	was, appErr := s.AlreadyCheckedIn(ctx, guest.Email)
	if appErr != nil {
		return nil, appErr
	}
	a, appErr := s.Confirm(ctx, guest)
	if appErr != nil {
		return nil, appErr
	}
	return &dto.CheckInResponse{Attendance: a, WasCheckedIn: was}, nil
}

func (s *AttendanceService) LookupWithStatus(ctx context.Context, email string) (*dto.GuestStatusResponse, *errors.AppError) {
	guest, appErr := s.guests.Lookup(ctx, email)
	if appErr != nil {
		return nil, appErr
	}
	checkedIn, appErr := s.AlreadyCheckedIn(ctx, guest.Email)
	if appErr != nil {
		return nil, appErr
	}
	return dto.NewGuestStatusResponse(guest, checkedIn), nil
}

func (s *AttendanceService) AlreadyCheckedIn(ctx context.Context, email string) (bool, *errors.AppError) {
	key := utils.NormalizeEmail(email)
	if key == "" {
		return false, nil
	}
	ok, err := s.repo.Exists(ctx, key)
	if err != nil {
		return false, errors.Internal("Failed to read attendance", err)
	}
	return ok, nil
}

func (s *AttendanceService) Stats(ctx context.Context) (*entity.Stats, *errors.AppError) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to read stats", err)
	}
	return stats, nil
}

func (s *AttendanceService) List(ctx context.Context, params params.QueryParams) (*entity.PaginatedAttendanceEntity, *errors.AppError) {
	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, errors.Internal("Failed to list attendance", err)
	}
	return result, nil
}

// Reset empties the ledger and the draw registry that depends on it.
func (s *AttendanceService) Reset(ctx context.Context) (int64, *errors.AppError) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, errors.Internal("Failed to reset attendance", err)
	}
	return n, nil
}
