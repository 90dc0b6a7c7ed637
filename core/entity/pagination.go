package entity

type Pagination[T any] struct {
	Items      []T `json:"items"`
	TotalItems int `json:"total_items"`
	PageNumber int `json:"page_number"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

func NewPagination[T any](items []T, total, pageNumber, pageSize int) *Pagination[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if pageSize > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	return &Pagination[T]{
		Items:      items,
		TotalItems: total,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalPages: pages,
	}
}
