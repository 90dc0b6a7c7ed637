package dto

import "event-checkin/modules/asset/entity"

type AssetResponse struct {
	*entity.Asset
	URL string `json:"url"`
}

type ResetResponse struct {
	Deleted int64 `json:"deleted"`
}
