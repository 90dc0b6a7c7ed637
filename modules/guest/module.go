package guest

import (
	"event-checkin/core/cache"
	"event-checkin/core/database"
	"event-checkin/core/middleware"
	"event-checkin/core/queue"
	"event-checkin/modules/guest/controller"
	"event-checkin/modules/guest/repository"
	"event-checkin/modules/guest/router"
	"event-checkin/modules/guest/service"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	DB             database.IDatabase
	Cache          cache.Cache
	Queue          queue.Enqueuer
	Options        service.Options
	MaxUploadBytes int64
}

// NewService builds the directory service without HTTP routes. The worker uses it.
func NewService(deps Deps) *service.GuestService {
	repo := repository.NewGuestRepository(deps.DB)
	return service.NewGuestService(repo, deps.Cache, deps.Queue, deps.Options)
}

func Init(e *echo.Group, deps Deps, mw *middleware.Middleware) *service.GuestService {
	svc := NewService(deps)
	ctrl := controller.NewGuestController(svc, deps.MaxUploadBytes)

	router.NewGuestRouter(ctrl).Register(e, mw)

	return svc
}
