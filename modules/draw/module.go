package draw

import (
	"event-checkin/core/database"
	"event-checkin/core/middleware"
	"event-checkin/modules/draw/controller"
	"event-checkin/modules/draw/repository"
	"event-checkin/modules/draw/router"
	"event-checkin/modules/draw/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.IDatabase, opts service.Options, mw *middleware.Middleware) *service.DrawService {
	repo := repository.NewDrawRepository(db)
	svc := service.NewDrawService(repo, opts)
	ctrl := controller.NewDrawController(svc)

	router.NewDrawRouter(ctrl).Register(e, mw)

	return svc
}
