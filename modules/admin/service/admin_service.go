package service

import (
	"context"
	"fmt"
	"time"

	"event-checkin/core/cache"
	"event-checkin/core/constants"
	"event-checkin/core/errors"
	"event-checkin/core/logger"
	"event-checkin/core/utils"
	"event-checkin/modules/admin/dto"
	"event-checkin/modules/admin/repository"

	"golang.org/x/crypto/bcrypt"
)

// CacheInvalidator drops cached directory lookups after the tables change.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context)
}

// BlobPurger removes stored asset bytes whose metadata is gone.
type BlobPurger interface {
	PurgeBlobs(ctx context.Context, keys []string)
}

type AdminServiceInterface interface {
	Login(ctx context.Context, pin, clientIP string) (*dto.LoginResponse, *errors.AppError)
	ResetAll(ctx context.Context) (*dto.ResetAllResponse, *errors.AppError)
}

type Options struct {
	PINHash          []byte
	Secret           []byte
	TokenTTL         time.Duration
	MaxLoginAttempts int
	BlockDuration    time.Duration
	Now              func() time.Time
}

type AdminService struct {
	repo   repository.AdminRepositoryInterface
	cache  cache.Cache
	guests CacheInvalidator
	assets BlobPurger
	opts   Options
}

func NewAdminService(repo repository.AdminRepositoryInterface, c cache.Cache, guests CacheInvalidator, assets BlobPurger, opts Options) *AdminService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = constants.DefaultTokenTTL
	}
	if opts.MaxLoginAttempts <= 0 {
		opts.MaxLoginAttempts = constants.MaxLoginAttempts
	}
	if opts.BlockDuration <= 0 {
		opts.BlockDuration = constants.BlockDuration
	}
	return &AdminService{repo: repo, cache: c, guests: guests, assets: assets, opts: opts}
}

// HashPIN prepares a configured plain PIN for comparison.
func HashPIN(pin string, cost int) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(pin), cost)
}

// Login exchanges the admin PIN for a bearer token. Failed attempts are counted
// per client address and block further tries for a while.
func (s *AdminService) Login(ctx context.Context, pin, clientIP string) (*dto.LoginResponse, *errors.AppError) {
	loginKey := constants.RedisKeyAdminLoginAttempt + clientIP

	if s.cache != nil {
		attempts, err := s.cache.GetInt(ctx, loginKey)
		if err != nil {
			logger.Error("AdminService:Login:GetAttempts:Error:", err)
		} else if attempts >= int64(s.opts.MaxLoginAttempts) {
			if err := s.cache.Expire(ctx, loginKey, s.opts.BlockDuration); err != nil {
				logger.Error("AdminService:Login:Expire:Error:", err)
			}
			return nil, errors.NewAppError(errors.ErrTooManyRequests,
				fmt.Sprintf("Too many attempts, try again in %s", s.opts.BlockDuration), nil)
		}
	}

	if !s.checkPIN(pin) {
		s.recordFailure(ctx, loginKey)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Incorrect PIN", nil)
	}

	token, expiresAt, err := utils.GenerateToken(s.opts.Secret, constants.ScopeTokenAdmin, s.opts.TokenTTL, s.opts.Now())
	if err != nil {
		return nil, errors.Internal("Failed to generate access token", err)
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, loginKey); err != nil {
			logger.Error("AdminService:Login:ClearAttempts:Error:", err)
		}
	}
	logger.Info("AdminService:Login:Success", "client_ip", clientIP)
	return &dto.LoginResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt}, nil
}

func (s *AdminService) checkPIN(pin string) bool {
	if len(s.opts.PINHash) == 0 || pin == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(s.opts.PINHash, []byte(pin)) == nil
}

func (s *AdminService) recordFailure(ctx context.Context, loginKey string) {
	if s.cache == nil {
		return
	}
	n, err := s.cache.Incr(ctx, loginKey)
	if err != nil {
		logger.Error("AdminService:Login:IncrementAttempt:Error:", err)
		return
	}
	if n == 1 {
		if err := s.cache.Expire(ctx, loginKey, s.opts.BlockDuration); err != nil {
			logger.Error("AdminService:Login:Expire:Error:", err)
		}
	}
}

// ResetAll clears the directory, ledger, draw registry and assets atomically.
// Cache invalidation and external blob cleanup run after the commit.
func (s *AdminService) ResetAll(ctx context.Context) (*dto.ResetAllResponse, *errors.AppError) {
	deleted, blobKeys, err := s.repo.ResetAll(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to reset event data", err)
	}
	if s.guests != nil {
		s.guests.InvalidateCache(ctx)
	}
	if s.assets != nil {
		s.assets.PurgeBlobs(ctx, blobKeys)
	}
	logger.Warn("AdminService:ResetAll", "deleted", deleted)
	return &dto.ResetAllResponse{Deleted: deleted}, nil
}
