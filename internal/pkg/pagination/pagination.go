package pagination

// Result carries one page of items together with the total row count.
type Result[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// NewResult builds a Result from a page slice and its total count.
func NewResult[T any](items []T, total int64, page, limit int) Result[T] {
	return Result[T]{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}
}

// TotalPages returns the number of pages at the result's page size.
func (r Result[T]) TotalPages() int64 {
	if r.Limit <= 0 {
		return 0
	}
	return (r.Total + int64(r.Limit) - 1) / int64(r.Limit)
}
