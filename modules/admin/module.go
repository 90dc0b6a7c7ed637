package admin

import (
	"event-checkin/core/cache"
	"event-checkin/core/database"
	"event-checkin/core/middleware"
	"event-checkin/modules/admin/controller"
	"event-checkin/modules/admin/repository"
	"event-checkin/modules/admin/router"
	"event-checkin/modules/admin/service"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	DB      database.IDatabase
	Cache   cache.Cache
	Guests  service.CacheInvalidator
	Assets  service.BlobPurger
	Options service.Options
}

func Init(e *echo.Group, deps Deps, mw *middleware.Middleware) *service.AdminService {
	repo := repository.NewAdminRepository(deps.DB)
	svc := service.NewAdminService(repo, deps.Cache, deps.Guests, deps.Assets, deps.Options)
	ctrl := controller.NewAdminController(svc)

	router.NewAdminRouter(ctrl).Register(e, mw)

	return svc
}
