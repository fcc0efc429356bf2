package storage

import "strings"

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type ListQuery struct {
	Search    string
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string
}

// Clamp keeps page >= 1 and 1 <= per_page <= MaxPerPage.
func (q ListQuery) Clamp() ListQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PerPage < 1 {
		q.PerPage = 1
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PerPage
}

type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

func NewPage[T any](items []T, total int, q ListQuery) *Page[T] {
	if items == nil {
		items = []T{}
	}

	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		PerPage:    q.PerPage,
		TotalPages: (total + q.PerPage - 1) / q.PerPage,
	}
}

// SortRule is the allow-list of sortable columns for one entity. Unknown
// values are silently replaced by the defaults.
type SortRule struct {
	Default string
	Allowed []string
}

func (s SortRule) Resolve(sortBy, order string) (string, string) {
	column := s.Default
	for _, c := range s.Allowed {
		if c == sortBy {
			column = c
			break
		}
	}

	direction := strings.ToUpper(strings.TrimSpace(order))
	if direction != "ASC" && direction != "DESC" {
		direction = "ASC"
	}

	return column, direction
}
