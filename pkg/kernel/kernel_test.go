package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEmail_NormalizesCasing(t *testing.T) {
	assert.Equal(t, Email("jane.doe@example.com"), NewEmail("  Jane.Doe@Example.COM "))
}

func TestEmail_IsValid(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"jane@example.com", true},
		{"jane.doe+tag@sub.example.co", true},
		{"jane@example", false},
		{"jane example@foo.com", false},
		{"@example.com", false},
		{"jane@", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NewEmail(tt.input).IsValid())
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	assert.Equal(t, 0, PaginationOptions{Page: 1, PageSize: 10}.Offset())
	assert.Equal(t, 20, PaginationOptions{Page: 3, PageSize: 10}.Offset())
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name      string
		opts      PaginationOptions
		total     int
		wantPages int
	}{
		{"exact fit", PaginationOptions{Page: 1, PageSize: 10}, 20, 2},
		{"partial last page", PaginationOptions{Page: 2, PageSize: 10}, 25, 3},
		{"empty collection", PaginationOptions{Page: 1, PageSize: 10}, 0, 0},
		{"zero size guards division", PaginationOptions{Page: 1, PageSize: 0}, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage(tt.opts, tt.total)
			assert.Equal(t, tt.wantPages, page.Pages)
			assert.Equal(t, tt.opts.Page, page.Number)
			assert.Equal(t, tt.total, page.Total)
		})
	}
}
