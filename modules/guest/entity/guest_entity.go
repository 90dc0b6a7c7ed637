package entity

import (
	coreEntity "event-checkin/core/entity"
)

// Guest is one row of the guest directory, keyed by normalized email.
type Guest struct {
	Email      string `db:"email" json:"email"`
	Name       string `db:"name" json:"name"`
	Title      string `db:"title" json:"title"`
	TableID    string `db:"table_id" json:"table_id"`
	ImportedAt string `db:"imported_at" json:"imported_at,omitempty"`
}

type PaginatedGuestEntity = coreEntity.Pagination[Guest]
