package dto

type ImportStatus string

const (
	ImportStatusCommitted ImportStatus = "committed"
	ImportStatusQueued    ImportStatus = "queued"
)

// ImportRowsRequest is the JSON alternative to a spreadsheet upload. Each row maps
// column names (Email, Nama, No_Meja, Gelaran) to cell values.
type ImportRowsRequest struct {
	Rows []map[string]any `json:"rows"`
}

type ImportReport struct {
	BatchID    string       `json:"batch_id"`
	Status     ImportStatus `json:"status"`
	TaskID     string       `json:"task_id,omitempty"`
	Received   int          `json:"received"`
	Imported   int          `json:"imported"`
	Dropped    int          `json:"dropped"`
	Duplicates int          `json:"duplicates"`
}

type GuestResponse struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Title      string `json:"title"`
	TableID    string `json:"table_id"`
	ImportedAt string `json:"imported_at,omitempty"`
}

type PaginatedGuestResponse struct {
	Items      []GuestResponse `json:"items"`
	TotalItems int             `json:"total_items"`
	PageNumber int             `json:"page_number"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

type ResetResponse struct {
	Deleted int64 `json:"deleted"`
}
