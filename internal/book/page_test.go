package book

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func dirPtr(d Direction) *Direction { return &d }

func TestNewPageRequest(t *testing.T) {
	tests := []struct {
		name string
		page *int
		size *int
		dir  *Direction
		want PageRequest
	}{
		{
			name: "all absent",
			want: PageRequest{Index: 0, Size: 10, SortKey: SortKeyCreatedAt, Direction: Asc},
		},
		{
			name: "first page is index zero",
			page: intPtr(1), size: intPtr(5), dir: dirPtr(Desc),
			want: PageRequest{Index: 0, Size: 5, SortKey: SortKeyCreatedAt, Direction: Desc},
		},
		{
			name: "third page",
			page: intPtr(3), size: intPtr(20),
			want: PageRequest{Index: 2, Size: 20, SortKey: SortKeyCreatedAt, Direction: Asc},
		},
		{
			name: "negative page",
			page: intPtr(-4),
			want: PageRequest{Index: 0, Size: 10, SortKey: SortKeyCreatedAt, Direction: Asc},
		},
		{
			name: "page zero clamps",
			page: intPtr(0),
			want: PageRequest{Index: 0, Size: 10, SortKey: SortKeyCreatedAt, Direction: Asc},
		},
		{
			name: "zero size",
			size: intPtr(0),
			want: PageRequest{Index: 0, Size: 10, SortKey: SortKeyCreatedAt, Direction: Asc},
		},
		{
			name: "negative size",
			size: intPtr(-1),
			want: PageRequest{Index: 0, Size: 10, SortKey: SortKeyCreatedAt, Direction: Asc},
		},
		{
			name: "largest allowed size",
			size: intPtr(MaxPageSize),
			want: PageRequest{Index: 0, Size: MaxPageSize, SortKey: SortKeyCreatedAt, Direction: Asc},
		},
		{
			name: "oversized size falls back",
			size: intPtr(MaxPageSize + 1),
			want: PageRequest{Index: 0, Size: 10, SortKey: SortKeyCreatedAt, Direction: Asc},
		},
		{
			name: "huge page and size",
			page: intPtr(math.MaxInt), size: intPtr(math.MaxInt/2 + 1),
			want: PageRequest{Index: math.MaxInt - 1, Size: 10, SortKey: SortKeyCreatedAt, Direction: Asc},
		},
		{
			name: "unknown direction",
			dir:  dirPtr(Direction("sideways")),
			want: PageRequest{Index: 0, Size: 10, SortKey: SortKeyCreatedAt, Direction: Asc},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPageRequest(tt.page, tt.size, tt.dir))
		})
	}
}

func TestPageRequest_OffsetLimit(t *testing.T) {
	p := NewPageRequest(intPtr(3), intPtr(7), nil)
	assert.Equal(t, 14, p.Offset())
	assert.Equal(t, 7, p.Limit())
}

func TestPageRequest_OffsetSaturates(t *testing.T) {
	p := NewPageRequest(intPtr(math.MaxInt), intPtr(MaxPageSize), nil)
	assert.Equal(t, math.MaxInt, p.Offset())

	raw := PageRequest{Index: 2, Size: math.MaxInt/2 + 1}
	assert.Equal(t, math.MaxInt, raw.Offset())

	edge := PageRequest{Index: math.MaxInt / MaxPageSize, Size: MaxPageSize}
	assert.Equal(t, (math.MaxInt/MaxPageSize)*MaxPageSize, edge.Offset())
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, Asc, *ParseDirection("asc"))
	assert.Equal(t, Desc, *ParseDirection("DESC"))
	assert.Equal(t, Desc, *ParseDirection(" Desc "))
	assert.Nil(t, ParseDirection(""))
	assert.Nil(t, ParseDirection("up"))
}
