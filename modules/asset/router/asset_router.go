package router

import (
	"event-checkin/core/middleware"
	"event-checkin/modules/asset/controller"

	"github.com/labstack/echo/v4"
)

type AssetRouter struct {
	controller *controller.AssetController
}

func NewAssetRouter(controller *controller.AssetController) *AssetRouter {
	return &AssetRouter{controller: controller}
}

func (r *AssetRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	e.GET("/assets", r.controller.List).Name = "assets.list"
	e.GET("/assets/:slot", r.controller.Download)

	admin := e.Group("/admin/assets", mw.AuthMiddleware())
	admin.PUT("/:slot", r.controller.Upload)
	admin.DELETE("/:slot", r.controller.Delete)
	admin.DELETE("", r.controller.Reset)
}
