package router

import (
	"event-checkin/core/middleware"
	"event-checkin/modules/admin/controller"

	"github.com/labstack/echo/v4"
)

type AdminRouter struct {
	controller *controller.AdminController
}

func NewAdminRouter(controller *controller.AdminController) *AdminRouter {
	return &AdminRouter{controller: controller}
}

func (r *AdminRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	e.POST("/admin/login", r.controller.Login)

	admin := e.Group("/admin", mw.AuthMiddleware())
	admin.DELETE("/reset", r.controller.ResetAll)
}
