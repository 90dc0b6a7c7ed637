package controller

import (
	"event-checkin/core/controller"
	"event-checkin/modules/draw/dto"
	"event-checkin/modules/draw/service"

	"github.com/labstack/echo/v4"
)

type DrawController struct {
	service service.DrawServiceInterface
	controller.BaseController
}

func NewDrawController(service service.DrawServiceInterface) *DrawController {
	return &DrawController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// Draw picks the next winner
// @Summary Draw a winner
// @Description Picks one checked-in guest who has not won yet
// @Tags Draw
// @Security BearerAuth
// @Produce json
// @Success 201 {object} controller.SuccessResponse{data=dto.DrawResponse}
// @Failure 401 {object} controller.ErrorResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /admin/draws [post]
func (c *DrawController) Draw(ctx echo.Context) error {
	result, appErr := c.service.Draw(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, result, "Winner drawn")
}

// ListWinners returns the registry, newest first
// @Summary List winners
// @Tags Draw
// @Security BearerAuth
// @Produce json
// @Success 200 {object} controller.SuccessResponse{data=dto.WinnersResponse}
// @Failure 401 {object} controller.ErrorResponse
// @Router /admin/draws [get]
func (c *DrawController) ListWinners(ctx echo.Context) error {
	result, appErr := c.service.ListWinners(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Winners retrieved successfully")
}

// Reset clears the registry
// @Summary Clear the draw registry
// @Tags Draw
// @Security BearerAuth
// @Produce json
// @Success 200 {object} controller.SuccessResponse{data=dto.ResetResponse}
// @Failure 401 {object} controller.ErrorResponse
// @Router /admin/draws [delete]
func (c *DrawController) Reset(ctx echo.Context) error {
	n, appErr := c.service.Reset(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.ResetResponse{Deleted: n}, "Draw registry cleared")
}
