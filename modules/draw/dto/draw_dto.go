package dto

import "event-checkin/modules/draw/entity"

type DrawResponse struct {
	Winner *entity.Winner `json:"winner"`
	// Remaining is the eligible pool size after this draw.
	Remaining int `json:"remaining"`
}

type WinnersResponse struct {
	Items []entity.Winner `json:"items"`
	Total int             `json:"total"`
}

type ResetResponse struct {
	Deleted int64 `json:"deleted"`
}
