package controller

import (
	"event-checkin/core/controller"
	"event-checkin/core/errors"
	"event-checkin/modules/admin/dto"
	"event-checkin/modules/admin/service"

	"github.com/labstack/echo/v4"
)

type AdminController struct {
	service service.AdminServiceInterface
	controller.BaseController
}

func NewAdminController(service service.AdminServiceInterface) *AdminController {
	return &AdminController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// Login exchanges the admin PIN for a bearer token.
// @Summary Admin login
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Admin PIN"
// @Success 200 {object} controller.SuccessResponse{data=dto.LoginResponse}
// @Failure 401 {object} controller.ErrorResponse
// @Failure 429 {object} controller.ErrorResponse
// @Router /admin/login [post]
func (c *AdminController) Login(ctx echo.Context) error {
	req := new(dto.LoginRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.Login(ctx.Request().Context(), req.PIN, ctx.RealIP())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Login successful")
}

// ResetAll wipes every table
// @Summary Reset all event data
// @Description Clears guests, check-ins, winners and assets in one transaction
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} controller.SuccessResponse{data=dto.ResetAllResponse}
// @Failure 401 {object} controller.ErrorResponse
// @Router /admin/reset [delete]
func (c *AdminController) ResetAll(ctx echo.Context) error {
	result, appErr := c.service.ResetAll(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "All event data cleared")
}
