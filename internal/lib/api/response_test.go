package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-api/internal/auth"
	"route-api/internal/storage"
	"route-api/internal/storage/procedure"
)

func TestSuccess_Envelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/unit/create", nil)
	rr := httptest.NewRecorder()

	Success(rr, req, http.StatusCreated, "Unit created successfully", map[string]int{"id": 1})

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Status  string         `json:"status"`
		Message string         `json:"message"`
		Data    map[string]int `json:"data"`
	}
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Unit created successfully", resp.Message)
	assert.Equal(t, 1, resp.Data["id"])
}

func TestError_Envelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/unit/create", nil)
	rr := httptest.NewRecorder()

	Error(rr, req, http.StatusBadRequest, "Failed to create unit", ErrorData(errors.New("boom")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"status":"error","message":"Failed to create unit","data":{"error":"boom"}}`, rr.Body.String())
}

func TestStatusFromError(t *testing.T) {
	wrap := func(err error) error { return fmt.Errorf("storage.sqlstore.X: %w", err) }

	cases := []struct {
		err  error
		want int
	}{
		{wrap(storage.ErrNotFound), http.StatusNotFound},
		{wrap(storage.ErrDuplicate), http.StatusBadRequest},
		{wrap(storage.ErrAlreadyDeleted), http.StatusBadRequest},
		{wrap(storage.ErrAlreadyActive), http.StatusBadRequest},
		{wrap(storage.ErrInactive), http.StatusBadRequest},
		{wrap(storage.ErrInvalidReference), http.StatusBadRequest},
		{wrap(&storage.ValidationError{Problems: []string{"unitName is required"}}), http.StatusBadRequest},
		{wrap(storage.ErrInvalidCredentials), http.StatusUnauthorized},
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{wrap(procedure.ErrConnectivity), http.StatusInternalServerError},
		{errors.New("disk on fire"), http.StatusTeapot},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFromError(tc.err, http.StatusTeapot), tc.err.Error())
	}
}
