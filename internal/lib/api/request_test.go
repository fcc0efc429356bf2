package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeList(t *testing.T, body string) ListRequest {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/unit/list", strings.NewReader(body))
	var lr ListRequest
	require.NoError(t, DecodeJSON(req, &lr))
	return lr
}

func TestListRequest_Defaults(t *testing.T) {
	q := decodeList(t, "").Query()

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.PerPage)
	assert.Empty(t, q.Search)
}

func TestListRequest_Clamping(t *testing.T) {
	q := decodeList(t, `{"page": 0, "per_page": 500}`).Query()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 100, q.PerPage)

	q = decodeList(t, `{"page": -4, "per_page": 0}`).Query()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 1, q.PerPage)
}

func TestListRequest_FlexibleNumbers(t *testing.T) {
	q := decodeList(t, `{"page": "3", "per_page": "25", "search": " kg ", "sort_by": "id", "sort_order": "DESC"}`).Query()
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 25, q.PerPage)
	assert.Equal(t, "kg", q.Search)
	assert.Equal(t, "id", q.SortBy)
	assert.Equal(t, "DESC", q.SortOrder)

	q = decodeList(t, `{"page": "abc", "per_page": true}`).Query()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.PerPage)
}

func TestListRequest_HugePage(t *testing.T) {
	for _, body := range []string{
		`{"page": 1e300, "per_page": 50}`,
		`{"page": "9223372036854775807000", "per_page": 50}`,
		`{"page": 1e400, "per_page": 50}`,
	} {
		q := decodeList(t, body).Query()
		assert.Equal(t, 1, q.Page, body)
		assert.Equal(t, 50, q.PerPage, body)
		assert.Equal(t, 0, q.Offset(), body)
	}
}

func TestParseID(t *testing.T) {
	cases := []struct {
		body string
		id   int64
		ok   bool
	}{
		{`{"id": 5}`, 5, true},
		{`{"id": "12"}`, 12, true},
		{`{}`, 0, false},
		{`{"id": 0}`, 0, false},
		{`{"id": null}`, 0, false},
		{`{"id": 1e300}`, 0, false},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/unit/get", strings.NewReader(tc.body))
		id, ok, err := ParseID(req)
		require.NoError(t, err, tc.body)
		assert.Equal(t, tc.ok, ok, tc.body)
		assert.Equal(t, tc.id, id, tc.body)
	}

	req := httptest.NewRequest(http.MethodPost, "/unit/get", strings.NewReader(`{"id":`))
	_, _, err := ParseID(req)
	assert.Error(t, err)
}
