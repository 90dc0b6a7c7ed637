package mapper

import (
	"event-checkin/modules/guest/dto"
	"event-checkin/modules/guest/entity"
)

func ToGuestResponse(g *entity.Guest) *dto.GuestResponse {
	return &dto.GuestResponse{
		Email:      g.Email,
		Name:       g.Name,
		Title:      g.Title,
		TableID:    g.TableID,
		ImportedAt: g.ImportedAt,
	}
}

func ToGuestPaginationResponse(page *entity.PaginatedGuestEntity) *dto.PaginatedGuestResponse {
	if page == nil {
		return &dto.PaginatedGuestResponse{Items: []dto.GuestResponse{}}
	}
	items := make([]dto.GuestResponse, len(page.Items))
	for i := range page.Items {
		items[i] = *ToGuestResponse(&page.Items[i])
	}
	return &dto.PaginatedGuestResponse{
		Items:      items,
		TotalItems: page.TotalItems,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
