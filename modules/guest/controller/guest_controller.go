package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"event-checkin/core/controller"
	"event-checkin/core/errors"
	"event-checkin/core/params"
	"event-checkin/modules/guest/dto"
	"event-checkin/modules/guest/importer"
	"event-checkin/modules/guest/mapper"
	"event-checkin/modules/guest/service"

	"github.com/labstack/echo/v4"
)

type GuestController struct {
	service        service.GuestServiceInterface
	maxUploadBytes int64
	controller.BaseController
}

func NewGuestController(service service.GuestServiceInterface, maxUploadBytes int64) *GuestController {
	return &GuestController{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		BaseController: controller.NewBaseController(),
	}
}

// Import accepts a .csv/.xlsx multipart upload in "file" or a JSON {"rows": [...]} body.
// With ?async=true the validated rows are committed by the worker.
// @Summary Import the guest directory
// @Tags Guest
// @Security BearerAuth
// @Accept multipart/form-data,json
// @Produce json
// @Param async query bool false "Queue the commit for the worker"
// @Param file formData file false "CSV or XLSX file"
// @Param request body dto.ImportRowsRequest false "JSON rows"
// @Success 200 {object} controller.SuccessResponse{data=dto.ImportReport}
// @Success 202 {object} controller.SuccessResponse{data=dto.ImportReport}
// @Failure 400 {object} controller.ErrorResponse
// @Failure 413 {object} controller.ErrorResponse
// @Failure 415 {object} controller.ErrorResponse
// @Router /admin/guests/import [post]
func (c *GuestController) Import(ctx echo.Context) error {
	ds, httpErr := c.readDataset(ctx)
	if httpErr != nil {
		return httpErr
	}

	async, _ := strconv.ParseBool(ctx.QueryParam("async"))
	reqCtx := ctx.Request().Context()

	if async {
		report, appErr := c.service.ImportAsync(reqCtx, ds)
		if appErr != nil {
			return c.ErrorResponse(ctx, appErr)
		}
		return ctx.JSON(http.StatusAccepted, controller.NewSuccessResponse(http.StatusAccepted, report, "Import queued"))
	}

	report, appErr := c.service.Import(reqCtx, ds)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, report, "Guests imported successfully")
}

func (c *GuestController) readDataset(ctx echo.Context) (*importer.Dataset, error) {
	contentType := ctx.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		req := new(dto.ImportRowsRequest)
		if err := ctx.Bind(req); err != nil {
			return nil, c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
		}
		return importer.FromRecords(req.Rows), nil
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return nil, c.BadRequest(errors.ErrInvalidRequestData, "Missing upload field \"file\"", nil)
	}
	if c.maxUploadBytes > 0 && file.Size > c.maxUploadBytes {
		return nil, controller.NewErrorResponse(http.StatusRequestEntityTooLarge, errors.ErrPayloadTooLarge, "Upload too large", nil)
	}

	src, err := file.Open()
	if err != nil {
		return nil, c.BadRequest(errors.ErrInvalidRequestData, "Cannot read upload", nil)
	}
	defer src.Close()

	ds, err := importer.Parse(file.Filename, src)
	if err != nil {
		if stderrors.Is(err, importer.ErrUnsupportedFormat) {
			return nil, controller.NewErrorResponse(http.StatusUnsupportedMediaType, errors.ErrUnsupportedMediaType, "Only .csv and .xlsx files are supported", nil)
		}
		return nil, c.BadRequest(errors.ErrInvalidInput, "Cannot parse upload", map[string]string{"reason": err.Error()})
	}
	return ds, nil
}

// Lookup returns the directory row for an email
// @Summary Look up a directory row
// @Tags Guest
// @Security BearerAuth
// @Produce json
// @Param email query string true "Guest email"
// @Success 200 {object} controller.SuccessResponse{data=dto.GuestResponse}
// @Failure 404 {object} controller.ErrorResponse
// @Router /admin/guests/lookup [get]
func (c *GuestController) Lookup(ctx echo.Context) error {
	guest, appErr := c.service.Lookup(ctx.Request().Context(), ctx.QueryParam("email"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, mapper.ToGuestResponse(guest), "Guest found")
}

// List returns the directory page by page
// @Summary List the guest directory
// @Tags Guest
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Search email, name or table"
// @Success 200 {object} controller.SuccessResponse{data=dto.PaginatedGuestResponse}
// @Failure 401 {object} controller.ErrorResponse
// @Router /admin/guests [get]
func (c *GuestController) List(ctx echo.Context) error {
	result, appErr := c.service.List(ctx.Request().Context(), *params.NewQueryParams(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, mapper.ToGuestPaginationResponse(result), "Guests retrieved successfully")
}

// Export downloads the directory as CSV in the import layout
// @Summary Export the guest directory
// @Tags Guest
// @Security BearerAuth
// @Produce text/csv
// @Success 200 {file} file
// @Failure 401 {object} controller.ErrorResponse
// @Router /admin/guests/export [get]
func (c *GuestController) Export(ctx echo.Context) error {
	ds, appErr := c.service.Export(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	raw, err := importer.CSVBytes(ds)
	if err != nil {
		return c.InternalServerError(errors.ErrInternalServer, "Failed to render export", nil)
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="guests.csv"`)
	return ctx.Blob(http.StatusOK, "text/csv; charset=utf-8", raw)
}

// Reset clears the directory
// @Summary Clear the guest directory
// @Tags Guest
// @Security BearerAuth
// @Produce json
// @Success 200 {object} controller.SuccessResponse{data=dto.ResetResponse}
// @Failure 401 {object} controller.ErrorResponse
// @Router /admin/guests [delete]
func (c *GuestController) Reset(ctx echo.Context) error {
	n, appErr := c.service.Reset(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.ResetResponse{Deleted: n}, "Guest directory cleared")
}
