package entity

// Winner is a registry row. Each email can win at most once.
type Winner struct {
	Email   string `db:"email" json:"email"`
	DrawnAt string `db:"drawn_at" json:"drawn_at"`
	Name    string `db:"name" json:"name"`
	Title   string `db:"title" json:"title"`
	TableID string `db:"table_id" json:"table_id"`
}

// Candidate is an attendee not yet in the registry.
type Candidate struct {
	Email   string `db:"email"`
	Name    string `db:"name"`
	Title   string `db:"title"`
	TableID string `db:"table_id"`
}
