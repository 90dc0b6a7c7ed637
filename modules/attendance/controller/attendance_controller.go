package controller

import (
	"event-checkin/core/controller"
	"event-checkin/core/errors"
	"event-checkin/core/params"
	"event-checkin/core/utils"
	"event-checkin/modules/attendance/dto"
	"event-checkin/modules/attendance/service"

	"github.com/labstack/echo/v4"
)

type AttendanceController struct {
	service service.AttendanceServiceInterface
	controller.BaseController
}

func NewAttendanceController(service service.AttendanceServiceInterface) *AttendanceController {
	return &AttendanceController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// Lookup returns the guest's seating details and whether they already checked in.
// @Summary Look up a guest
// @Description Returns seating details for an email and whether the guest already checked in
// @Tags Check-in
// @Produce json
// @Param email query string true "Guest email"
// @Success 200 {object} controller.SuccessResponse{data=dto.GuestStatusResponse}
// @Failure 404 {object} controller.ErrorResponse
// @Router /guests/lookup [get]
func (c *AttendanceController) Lookup(ctx echo.Context) error {
	result, appErr := c.service.LookupWithStatus(ctx.Request().Context(), ctx.QueryParam("email"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Guest found")
}

// CheckIn confirms attendance for a directory guest. Repeat confirmations refresh the timestamp.
// @Summary Confirm attendance
// @Tags Check-in
// @Accept json
// @Produce json
// @Param request body dto.CheckInRequest true "Guest email"
// @Success 200 {object} controller.SuccessResponse{data=dto.CheckInResponse}
// @Failure 400 {object} controller.ErrorResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /checkins [post]
func (c *AttendanceController) CheckIn(ctx echo.Context) error {
	req := new(dto.CheckInRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.CheckIn(ctx.Request().Context(), req.Email)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Attendance confirmed")
}

// Status reports whether an email is already on the ledger
// @Summary Check-in status
// @Tags Check-in
// @Produce json
// @Param email query string true "Guest email"
// @Success 200 {object} controller.SuccessResponse{data=dto.StatusResponse}
// @Router /checkins/status [get]
func (c *AttendanceController) Status(ctx echo.Context) error {
	email := utils.NormalizeEmail(ctx.QueryParam("email"))
	checkedIn, appErr := c.service.AlreadyCheckedIn(ctx.Request().Context(), email)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.StatusResponse{Email: email, CheckedIn: checkedIn}, "Status retrieved")
}

// Stats returns the dashboard counters
// @Summary Attendance statistics
// @Description Directory size, checked-in count, remaining and winners
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} controller.SuccessResponse
// @Failure 401 {object} controller.ErrorResponse
// @Router /admin/stats [get]
func (c *AttendanceController) Stats(ctx echo.Context) error {
	stats, appErr := c.service.Stats(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, stats, "Stats retrieved")
}

// List returns the ledger page by page
// @Summary List check-ins
// @Description Ledger entries, newest first
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Search email, name or table"
// @Success 200 {object} controller.SuccessResponse
// @Failure 401 {object} controller.ErrorResponse
// @Router /admin/checkins [get]
func (c *AttendanceController) List(ctx echo.Context) error {
	result, appErr := c.service.List(ctx.Request().Context(), *params.NewQueryParams(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Attendance retrieved successfully")
}

// Reset clears the ledger
// @Summary Clear the attendance ledger
// @Description Also clears the draw registry
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} controller.SuccessResponse{data=dto.ResetResponse}
// @Failure 401 {object} controller.ErrorResponse
// @Router /admin/checkins [delete]
func (c *AttendanceController) Reset(ctx echo.Context) error {
	n, appErr := c.service.Reset(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.ResetResponse{Deleted: n}, "Attendance cleared")
}
