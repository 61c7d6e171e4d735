package shared

import "github.com/google/uuid"

// Filter carries the paging, ordering and equality conditions of a list query.
// Repositories ignore Filters keys they do not know.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// DefaultFilter is the first page of 20, newest first
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]any{},
	}
}

// Where returns a copy of f with an extra equality condition
func (f Filter) Where(key string, value any) Filter {
	filters := make(map[string]any, len(f.Filters)+1)
	for k, v := range f.Filters {
		filters[k] = v
	}
	filters[key] = value
	f.Filters = filters
	return f
}

// WhereID narrows f to the UUID in raw, a query parameter. An empty raw
// leaves f unchanged.
func (f Filter) WhereID(key, raw string) (Filter, error) {
	if raw == "" {
		return f, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return f, ValidationErrors{{Field: key, Message: "Invalid UUID format"}}
	}
	return f.Where(key, id), nil
}

// Offset is the number of rows before the requested page
func (f Filter) Offset() int {
	if f.Page <= 1 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Paginated is one page of a list result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	p := Paginated[T]{Items: items, Total: total, Page: page, PageSize: pageSize}
	if pageSize > 0 {
		p.TotalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return p
}
