package controller

import (
	"fmt"
	"io"
	"net/http"

	"event-checkin/core/controller"
	"event-checkin/core/errors"
	"event-checkin/modules/asset/dto"
	"event-checkin/modules/asset/entity"
	"event-checkin/modules/asset/service"

	"github.com/labstack/echo/v4"
)

type AssetController struct {
	service        service.AssetServiceInterface
	maxUploadBytes int64
	controller.BaseController
}

func NewAssetController(service service.AssetServiceInterface, maxUploadBytes int64) *AssetController {
	return &AssetController{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		BaseController: controller.NewBaseController(),
	}
}

func assetURL(ctx echo.Context, slot entity.Slot) string {
	return fmt.Sprintf("%s/%s", ctx.Echo().Reverse("assets.list"), slot)
}

// List returns metadata for every filled slot
// @Summary List event assets
// @Tags Asset
// @Produce json
// @Success 200 {object} controller.SuccessResponse{data=[]dto.AssetResponse}
// @Router /assets [get]
func (c *AssetController) List(ctx echo.Context) error {
	assets, appErr := c.service.List(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	items := make([]dto.AssetResponse, 0, len(assets))
	for i := range assets {
		items = append(items, dto.AssetResponse{Asset: &assets[i], URL: assetURL(ctx, assets[i].Slot)})
	}
	return c.SuccessResponse(ctx, items, "Assets retrieved successfully")
}

// Download streams the stored bytes with the uploaded filename.
// @Summary Download an asset
// @Tags Asset
// @Produce image/png,image/jpeg,application/pdf
// @Param slot path string true "poster, layout or agenda"
// @Success 200 {file} file
// @Failure 404 {object} controller.ErrorResponse
// @Router /assets/{slot} [get]
func (c *AssetController) Download(ctx echo.Context) error {
	asset, data, appErr := c.service.Get(ctx.Request().Context(), ctx.Param("slot"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", asset.Filename))
	ctx.Response().Header().Set("Cache-Control", "no-cache")
	return ctx.Blob(http.StatusOK, asset.ContentType, data)
}

// Upload stores a file in the slot
// @Summary Upload an asset
// @Description Replaces the file in the slot. The poster accepts png/jpeg; layout and agenda also accept pdf.
// @Tags Asset
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param slot path string true "poster, layout or agenda"
// @Param file formData file true "Asset file"
// @Success 200 {object} controller.SuccessResponse{data=dto.AssetResponse}
// @Failure 413 {object} controller.ErrorResponse
// @Failure 415 {object} controller.ErrorResponse
// @Router /admin/assets/{slot} [put]
func (c *AssetController) Upload(ctx echo.Context) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Missing upload field \"file\"", nil)
	}
	if c.maxUploadBytes > 0 && file.Size > c.maxUploadBytes {
		return controller.NewErrorResponse(http.StatusRequestEntityTooLarge, errors.ErrPayloadTooLarge, "Upload too large", nil)
	}
	src, err := file.Open()
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Cannot read upload", nil)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Cannot read upload", nil)
	}

	asset, appErr := c.service.Save(ctx.Request().Context(), ctx.Param("slot"), file.Filename, data)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.AssetResponse{Asset: asset, URL: assetURL(ctx, asset.Slot)}, "Asset uploaded")
}

// Delete empties one slot
// @Summary Delete an asset
// @Tags Asset
// @Security BearerAuth
// @Produce json
// @Param slot path string true "poster, layout or agenda"
// @Success 200 {object} controller.SuccessResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /admin/assets/{slot} [delete]
func (c *AssetController) Delete(ctx echo.Context) error {
	if appErr := c.service.Delete(ctx.Request().Context(), ctx.Param("slot")); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Asset deleted")
}

// Reset empties every slot
// @Summary Clear all assets
// @Tags Asset
// @Security BearerAuth
// @Produce json
// @Success 200 {object} controller.SuccessResponse{data=dto.ResetResponse}
// @Failure 401 {object} controller.ErrorResponse
// @Router /admin/assets [delete]
func (c *AssetController) Reset(ctx echo.Context) error {
	n, appErr := c.service.Reset(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.ResetResponse{Deleted: n}, "Assets cleared")
}
