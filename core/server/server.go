// Package server assembles the HTTP application from configuration.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"event-checkin/core/blob"
	"event-checkin/core/cache"
	"event-checkin/core/config"
	"event-checkin/core/constants"
	"event-checkin/core/database"
	"event-checkin/core/logger"
	"event-checkin/core/middleware"
	"event-checkin/core/queue"
	_ "event-checkin/docs"
	"event-checkin/modules/admin"
	adminService "event-checkin/modules/admin/service"
	"event-checkin/modules/asset"
	assetService "event-checkin/modules/asset/service"
	"event-checkin/modules/attendance"
	attendanceService "event-checkin/modules/attendance/service"
	"event-checkin/modules/draw"
	drawService "event-checkin/modules/draw/service"
	"event-checkin/modules/guest"
	guestService "event-checkin/modules/guest/service"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/crypto/bcrypt"
)

// App holds the wired HTTP server and the resources it owns.
type App struct {
	Echo  *echo.Echo
	DB    *database.Database
	Cache cache.Cache
	Queue *queue.Client
	Store blob.Store

	cfg *config.Config
}

// New connects storage and registers every module under /api/v1.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.InitDB(DatabaseConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	app := &App{DB: &db, cfg: cfg}

	app.Cache, err = cache.New(ctx, cache.Config{
		Enabled:  cfg.Redis.Enabled,
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("init cache: %w", err)
	}

	var enqueuer queue.Enqueuer
	if cfg.Redis.Enabled {
		app.Queue = queue.NewClient(RedisConfig(cfg))
		enqueuer = app.Queue
	}

	app.Store, err = NewBlobStore(cfg, app.DB)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("init blob store: %w", err)
	}

	pinHash, err := adminPINHash(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	secret := []byte(cfg.Admin.JWTSecret)
	if len(secret) == 0 {
		secret = randomSecret()
		logger.Warn("Server:New", "message", "admin.jwt_secret not set; admin tokens will not survive a restart")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echomw.CORS())
	e.Use(echomw.BodyLimit(bodyLimit(cfg)))

	e.GET("/healthz", app.health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	mw := middleware.NewMiddleware(secret)
	api := e.Group("/api/v1")
	loc := cfg.Location()

	guestSvc := guest.Init(api, guest.Deps{
		DB:    app.DB,
		Cache: app.Cache,
		Queue: enqueuer,
		Options: guestService.Options{
			MinEmailLength: cfg.Import.MinEmailLength,
			LookupTTL:      cfg.Redis.LookupTTL,
			Location:       loc,
		},
		MaxUploadBytes: cfg.Import.MaxUploadBytes,
	}, mw)
	attendance.Init(api, app.DB, guestSvc, attendanceService.Options{
		Location:     loc,
		ConfirmDelay: cfg.Checkin.ConfirmDelay,
	}, mw)
	draw.Init(api, app.DB, drawService.Options{Location: loc}, mw)
	assetSvc := asset.Init(api, app.DB, app.Store, assetService.Options{
		MaxUploadBytes: cfg.Asset.MaxUploadBytes,
		Location:       loc,
	}, mw)
	admin.Init(api, admin.Deps{
		DB:     app.DB,
		Cache:  app.Cache,
		Guests: guestSvc,
		Assets: assetSvc,
		Options: adminService.Options{
			PINHash:          pinHash,
			Secret:           secret,
			TokenTTL:         cfg.Admin.TokenTTL,
			MaxLoginAttempts: cfg.Admin.MaxLoginAttempts,
			BlockDuration:    cfg.Admin.BlockDuration,
		},
	}, mw)

	app.Echo = e
	return app, nil
}

// Run loads configuration, serves HTTP and shuts down cleanly on SIGINT/SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.App.LogLevel, cfg.App.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server:Run:Listening", "addr", addr, "env", cfg.App.Env, "database", app.DB.Driver(), "assets", app.Store.Name())
		if err := app.Echo.Start(addr); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Server:Run:ShuttingDown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	return app.Echo.Shutdown(shutdownCtx)
}

func (a *App) Close() {
	if a.Queue != nil {
		if err := a.Queue.Close(); err != nil {
			logger.Warn("Server:Close:Queue", "error", err)
		}
	}
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			logger.Warn("Server:Close:Cache", "error", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			logger.Warn("Server:Close:Database", "error", err)
		}
	}
}

func (a *App) health(c echo.Context) error {
	ctx := c.Request().Context()
	status := map[string]string{"database": "ok", "cache": "ok", "assets": a.Store.Name()}
	code := http.StatusOK
	if err := a.DB.SQLx().PingContext(ctx); err != nil {
		status["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	if err := a.Cache.Ping(ctx); err != nil {
		status["cache"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, status)
}

// DatabaseConfig maps the database section onto connection settings.
func DatabaseConfig(cfg *config.Config) database.DatabaseConfig {
	return database.DatabaseConfig{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
}

// RedisConfig maps the redis section onto the queue connection settings.
func RedisConfig(cfg *config.Config) queue.RedisConfig {
	return queue.RedisConfig{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
}

// NewBlobStore picks the asset backend named by asset.backend.
func NewBlobStore(cfg *config.Config, db database.IDatabase) (blob.Store, error) {
	if cfg.Asset.Backend == "s3" {
		s3cfg := cfg.Asset.S3
		return blob.NewS3Store(blob.S3Config{
			Bucket:    s3cfg.Bucket,
			Region:    s3cfg.Region,
			Endpoint:  s3cfg.Endpoint,
			AccessKey: s3cfg.AccessKey,
			SecretKey: s3cfg.SecretKey,
			Prefix:    s3cfg.Prefix,
		})
	}
	return blob.NewDatabaseStore(db), nil
}

func adminPINHash(cfg *config.Config) ([]byte, error) {
	if cfg.Admin.PINHash != "" {
		return []byte(cfg.Admin.PINHash), nil
	}
	hash, err := adminService.HashPIN(cfg.Admin.PIN, bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin pin: %w", err)
	}
	return hash, nil
}

func randomSecret() []byte {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return []byte(hex.EncodeToString(buf))
}

// bodyLimit allows the larger of the two upload limits plus multipart overhead.
func bodyLimit(cfg *config.Config) string {
	limit := max(cfg.Import.MaxUploadBytes, cfg.Asset.MaxUploadBytes)
	if limit <= 0 {
		limit = constants.DefaultMaxUploadBytes
	}
	return fmt.Sprintf("%dK", limit/1024+64)
}
