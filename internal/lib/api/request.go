package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"route-api/internal/storage"
)

// ListRequest is the body of every */list endpoint. Numbers may arrive as
// JSON numbers or numeric strings; anything else falls back to the defaults.
type ListRequest struct {
	Search    string          `json:"search"`
	Page      storage.FlexInt `json:"page"`
	PerPage   storage.FlexInt `json:"per_page"`
	SortBy    string          `json:"sort_by"`
	SortOrder string          `json:"sort_order"`
}

func (lr ListRequest) Query() storage.ListQuery {
	return storage.ListQuery{
		Search:    lr.Search,
		Page:      lr.Page.Or(storage.DefaultPage),
		PerPage:   lr.PerPage.Or(storage.DefaultPerPage),
		SortBy:    lr.SortBy,
		SortOrder: lr.SortOrder,
	}.Clamp()
}

// IDRequest is the body of get, delete and reactivate.
type IDRequest struct {
	ID storage.FlexInt `json:"id"`
}

// DecodeJSON reads a JSON body into v. An empty body leaves v untouched.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}

	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}

// ParseID reads {id} and reports whether a positive id was given.
func ParseID(r *http.Request) (int64, bool, error) {
	var req IDRequest
	if err := DecodeJSON(r, &req); err != nil {
		return 0, false, err
	}

	if !req.ID.Valid || req.ID.Value <= 0 {
		return 0, false, nil
	}

	return int64(req.ID.Value), true, nil
}
