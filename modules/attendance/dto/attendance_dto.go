package dto

import (
	"event-checkin/modules/attendance/entity"
	guestEntity "event-checkin/modules/guest/entity"
)

type CheckInRequest struct {
	Email string `json:"email"`
}

type CheckInResponse struct {
	Attendance *entity.Attendance `json:"attendance"`
	// WasCheckedIn is true when this confirmation refreshed an earlier one.
	WasCheckedIn bool `json:"was_checked_in"`
}

type StatusResponse struct {
	Email     string `json:"email"`
	CheckedIn bool   `json:"checked_in"`
}

type GuestStatusResponse struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Title     string `json:"title"`
	TableID   string `json:"table_id"`
	CheckedIn bool   `json:"checked_in"`
}

func NewGuestStatusResponse(g *guestEntity.Guest, checkedIn bool) *GuestStatusResponse {
	return &GuestStatusResponse{
		Email:     g.Email,
		Name:      g.Name,
		Title:     g.Title,
		TableID:   g.TableID,
		CheckedIn: checkedIn,
	}
}

type ResetResponse struct {
	Deleted int64 `json:"deleted"`
}
