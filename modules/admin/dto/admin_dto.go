package dto

import "time"

type LoginRequest struct {
	PIN string `json:"pin"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ResetAllResponse reports rows deleted per table.
type ResetAllResponse struct {
	Deleted map[string]int64 `json:"deleted"`
}
