package book

import (
	"math"
	"strings"
)

// DefaultPageSize is used when the caller omits size or passes one outside
// (0, MaxPageSize].
const DefaultPageSize = 10

// MaxPageSize bounds a single store query.
const MaxPageSize = 100

// SortKeyCreatedAt is the only sortable field.
const SortKeyCreatedAt = "created_at"

// Direction is the sort direction of a page request.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection accepts "asc"/"desc" in any case. Anything else yields nil,
// which the pagination policy treats as ascending.
func ParseDirection(s string) *Direction {
	var d Direction
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(Asc):
		d = Asc
	case string(Desc):
		d = Desc
	default:
		return nil
	}
	return &d
}

// PageRequest is a normalized store query: zero-based index, size in
// [1, MaxPageSize], sort key and direction.
type PageRequest struct {
	Index     int
	Size      int
	SortKey   string
	Direction Direction
}

// Offset returns the number of rows to skip. It saturates at math.MaxInt
// instead of wrapping, so a huge page index still yields an empty page.
func (p PageRequest) Offset() int {
	if p.Size > 0 && p.Index > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Index * p.Size
}

// Limit returns the maximum number of rows to return.
func (p PageRequest) Limit() int { return p.Size }

// NewPageRequest turns 1-based, optional user input into a PageRequest.
// It never fails: malformed input falls back to defaults.
func NewPageRequest(page, size *int, dir *Direction) PageRequest {
	index := 0
	if page != nil && *page > 0 {
		index = *page - 1
	}

	n := DefaultPageSize
	if size != nil && *size > 0 && *size <= MaxPageSize {
		n = *size
	}

	d := Asc
	if dir != nil && (*dir == Asc || *dir == Desc) {
		d = *dir
	}

	return PageRequest{
		Index:     index,
		Size:      n,
		SortKey:   SortKeyCreatedAt,
		Direction: d,
	}
}
