package core

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest selects a bounded window of an ordered result set. Page numbers
// are zero-based.
type PageRequest struct {
	Page int
	Size int
}

// Normalize clamps the request to sane bounds, applying the default page size.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() uint64 {
	return uint64(p.Page) * uint64(p.Size)
}

// ExpensePage is one page of an expense listing plus paging metadata.
type ExpensePage struct {
	Items      []Expense `json:"items"`
	Page       int       `json:"page"`
	Size       int       `json:"size"`
	TotalItems int64     `json:"totalItems"`
	TotalPages int       `json:"totalPages"`
}

// NewExpensePage computes paging metadata for a page of items.
func NewExpensePage(items []Expense, req PageRequest, total int64) ExpensePage {
	pages := int(total / int64(req.Size))
	if total%int64(req.Size) != 0 {
		pages++
	}
	return ExpensePage{
		Items:      items,
		Page:       req.Page,
		Size:       req.Size,
		TotalItems: total,
		TotalPages: pages,
	}
}
