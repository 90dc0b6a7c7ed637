package asset

import (
	"event-checkin/core/blob"
	"event-checkin/core/database"
	"event-checkin/core/middleware"
	"event-checkin/modules/asset/controller"
	"event-checkin/modules/asset/repository"
	"event-checkin/modules/asset/router"
	"event-checkin/modules/asset/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.IDatabase, store blob.Store, opts service.Options, mw *middleware.Middleware) *service.AssetService {
	repo := repository.NewAssetRepository(db)
	svc := service.NewAssetService(repo, store, opts)
	ctrl := controller.NewAssetController(svc, opts.MaxUploadBytes)

	router.NewAssetRouter(ctrl).Register(e, mw)

	return svc
}
