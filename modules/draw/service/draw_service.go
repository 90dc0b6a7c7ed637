package service

import (
	"context"
	"math/rand/v2"
	"time"

	"event-checkin/core/errors"
	"event-checkin/core/logger"
	"event-checkin/core/utils"
	"event-checkin/modules/draw/dto"
	"event-checkin/modules/draw/entity"
	"event-checkin/modules/draw/repository"
)

const maxDrawAttempts = 5

const (
	msgNobodyCheckedIn = "No guests have checked in yet"
	msgPoolExhausted   = "Every checked-in guest has already been drawn"
)

type DrawServiceInterface interface {
	Draw(ctx context.Context) (*dto.DrawResponse, *errors.AppError)
	ListWinners(ctx context.Context) (*dto.WinnersResponse, *errors.AppError)
	Reset(ctx context.Context) (int64, *errors.AppError)
}

type Options struct {
	Location *time.Location
	Now      func() time.Time
	// Pick returns an index in [0, n). Defaults to a uniform random choice.
	Pick func(n int) int
}

type DrawService struct {
	repo repository.DrawRepositoryInterface
	opts Options
}

func NewDrawService(repo repository.DrawRepositoryInterface, opts Options) *DrawService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Pick == nil {
		opts.Pick = rand.IntN
	}
	return &DrawService{repo: repo, opts: opts}
}

// Draw picks one attendee who has not won yet and records them. When a concurrent
// draw claims the same person first, the candidate set is re-read and the pick
// is repeated.
func (s *DrawService) Draw(ctx context.Context) (*dto.DrawResponse, *errors.AppError) {
	for attempt := 1; attempt <= maxDrawAttempts; attempt++ {
		candidates, err := s.repo.EligibleCandidates(ctx)
		if err != nil {
			return nil, errors.Internal("Failed to read candidates", err)
		}
		if len(candidates) == 0 {
			return nil, s.emptyPoolError(ctx)
		}

		c := candidates[s.opts.Pick(len(candidates))]
		winner := &entity.Winner{
			Email:   c.Email,
			DrawnAt: utils.FormatTimestamp(s.opts.Now(), s.opts.Location),
			Name:    c.Name,
			Title:   c.Title,
			TableID: c.TableID,
		}
		inserted, err := s.repo.InsertIfAbsent(ctx, winner)
		if err != nil {
			return nil, errors.Internal("Failed to record winner", err)
		}
		if inserted {
			logger.Info("DrawService:Draw:Success", "email", winner.Email, "pool", len(candidates))
			return &dto.DrawResponse{Winner: winner, Remaining: len(candidates) - 1}, nil
		}
		logger.Warn("DrawService:Draw:Conflict", "email", winner.Email, "attempt", attempt)
	}
	return nil, errors.Internal("Draw kept conflicting with concurrent draws", nil)
}

func (s *DrawService) emptyPoolError(ctx context.Context) *errors.AppError {
	n, err := s.repo.CountLedger(ctx)
	if err != nil {
		return errors.Internal("Failed to read attendance", err)
	}
	msg := msgPoolExhausted
	if n == 0 {
		msg = msgNobodyCheckedIn
	}
	return errors.NewAppError(errors.ErrNoEligibleCandidates, msg, nil).
		WithDetails(map[string]int{"checked_in": n})
}

func (s *DrawService) ListWinners(ctx context.Context) (*dto.WinnersResponse, *errors.AppError) {
	winners, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to list winners", err)
	}
	return &dto.WinnersResponse{Items: winners, Total: len(winners)}, nil
}

func (s *DrawService) Reset(ctx context.Context) (int64, *errors.AppError) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, errors.Internal("Failed to reset draw registry", err)
	}
	return n, nil
}
