package domain

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// DataFilters describes the page of a listing requested by a client
type DataFilters struct {
	Page     int
	PageSize int
}

// Normalize fills in defaults and clamps the page size
func (f DataFilters) Normalize() DataFilters {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

func (f DataFilters) Offset() int {
	n := f.Normalize()
	return (n.Page - 1) * n.PageSize
}

// PaginatedResult is one page of a listing together with its totals
type PaginatedResult[T any] struct {
	Data       *[]T
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

func NewPaginatedResult[T any](data *[]T, total int64, filters DataFilters) *PaginatedResult[T] {
	f := filters.Normalize()
	totalPages := int((total + int64(f.PageSize) - 1) / int64(f.PageSize))
	return &PaginatedResult[T]{
		Data:       data,
		Total:      total,
		Page:       f.Page,
		PageSize:   f.PageSize,
		TotalPages: totalPages,
	}
}
