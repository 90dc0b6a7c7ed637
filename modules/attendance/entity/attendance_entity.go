package entity

import (
	coreEntity "event-checkin/core/entity"
)

// Attendance is a ledger row. Name, title and table are copied from the directory
// at confirmation time.
type Attendance struct {
	Email       string `db:"email" json:"email"`
	CheckedInAt string `db:"checked_in_at" json:"checked_in_at"`
	Name        string `db:"name" json:"name"`
	Title       string `db:"title" json:"title"`
	TableID     string `db:"table_id" json:"table_id"`
}

type PaginatedAttendanceEntity = coreEntity.Pagination[Attendance]

type Stats struct {
	Total     int `db:"total" json:"total"`
	CheckedIn int `db:"checked_in" json:"checked_in"`
	Remaining int `db:"-" json:"remaining"`
	Winners   int `db:"winners" json:"winners"`
}
