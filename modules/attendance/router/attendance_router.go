package router

import (
	"event-checkin/core/middleware"
	"event-checkin/modules/attendance/controller"

	"github.com/labstack/echo/v4"
)

type AttendanceRouter struct {
	controller *controller.AttendanceController
}

func NewAttendanceRouter(controller *controller.AttendanceController) *AttendanceRouter {
	return &AttendanceRouter{controller: controller}
}

func (r *AttendanceRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	e.GET("/guests/lookup", r.controller.Lookup)
	e.POST("/checkins", r.controller.CheckIn)
	e.GET("/checkins/status", r.controller.Status)

	admin := e.Group("/admin", mw.AuthMiddleware())
	admin.GET("/stats", r.controller.Stats)
	admin.GET("/checkins", r.controller.List)
	admin.DELETE("/checkins", r.controller.Reset)
}
