package attendance

import (
	"event-checkin/core/database"
	"event-checkin/core/middleware"
	"event-checkin/modules/attendance/controller"
	"event-checkin/modules/attendance/repository"
	"event-checkin/modules/attendance/router"
	"event-checkin/modules/attendance/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.IDatabase, guests service.GuestLookup, opts service.Options, mw *middleware.Middleware) *service.AttendanceService {
	repo := repository.NewAttendanceRepository(db)
	svc := service.NewAttendanceService(repo, guests, opts)
	ctrl := controller.NewAttendanceController(svc)

	router.NewAttendanceRouter(ctrl).Register(e, mw)

	return svc
}
