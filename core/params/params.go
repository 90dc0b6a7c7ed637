package params

import (
	"strconv"

	"event-checkin/core/constants"

	"github.com/labstack/echo/v4"
)

type QueryParams struct {
	PageNumber int    `json:"page"`
	PageSize   int    `json:"limit"`
	Search     string `json:"search"`
}

// NewQueryParams reads page, limit and search from the request query string.
func NewQueryParams(ctx echo.Context) *QueryParams {
	return New(ctx.QueryParam("page"), ctx.QueryParam("limit"), ctx.QueryParam("search"))
}

func New(page, limit, search string) *QueryParams {
	p := &QueryParams{PageNumber: 1, PageSize: constants.DefaultPageSize, Search: search}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.PageNumber = n
	}
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		p.PageSize = min(n, constants.MaxPageSize)
	}
	return p
}

func (p QueryParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}
