package router

import (
	"event-checkin/core/middleware"
	"event-checkin/modules/guest/controller"

	"github.com/labstack/echo/v4"
)

type GuestRouter struct {
	controller *controller.GuestController
}

func NewGuestRouter(controller *controller.GuestController) *GuestRouter {
	return &GuestRouter{controller: controller}
}

func (r *GuestRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	admin := e.Group("/admin/guests", mw.AuthMiddleware())
	admin.POST("/import", r.controller.Import)
	admin.GET("", r.controller.List)
	admin.GET("/lookup", r.controller.Lookup)
	admin.GET("/export", r.controller.Export)
	admin.DELETE("", r.controller.Reset)
}
