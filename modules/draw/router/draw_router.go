package router

import (
	"event-checkin/core/middleware"
	"event-checkin/modules/draw/controller"

	"github.com/labstack/echo/v4"
)

type DrawRouter struct {
	controller *controller.DrawController
}

func NewDrawRouter(controller *controller.DrawController) *DrawRouter {
	return &DrawRouter{controller: controller}
}

func (r *DrawRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/admin/draws", mw.AuthMiddleware())
	group.POST("", r.controller.Draw)
	group.GET("", r.controller.ListWinners)
	group.DELETE("", r.controller.Reset)
}
