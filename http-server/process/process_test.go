package process

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"route-api/internal/auth"
	"route-api/internal/storage"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) process(args mock.Arguments) (*storage.Process, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Process), args.Error(1)
}

func (m *MockStore) CreateProcess(ctx context.Context, in storage.ProcessInput, actor int64) (*storage.Process, error) {
	return m.process(m.Called(ctx, in, actor))
}

func (m *MockStore) ListProcesses(ctx context.Context, q storage.ListQuery) (*storage.Page[storage.Process], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Page[storage.Process]), args.Error(1)
}

func (m *MockStore) GetProcess(ctx context.Context, id int64) (*storage.Process, error) {
	return m.process(m.Called(ctx, id))
}

func (m *MockStore) UpdateProcess(ctx context.Context, patch storage.ProcessPatch, actor int64) (*storage.Process, error) {
	return m.process(m.Called(ctx, patch, actor))
}

func (m *MockStore) DeleteProcess(ctx context.Context, id, actor int64) (*storage.Process, error) {
	return m.process(m.Called(ctx, id, actor))
}

func (m *MockStore) ReactivateProcess(ctx context.Context, id, actor int64) (*storage.Process, error) {
	return m.process(m.Called(ctx, id, actor))
}

func serve(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req = req.WithContext(auth.WithUserID(req.Context(), 7))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestCreate_TechnicalValueShapes(t *testing.T) {
	s := new(MockStore)
	s.On("CreateProcess", mock.Anything, mock.MatchedBy(func(in storage.ProcessInput) bool {
		tv := in.TechnicalValues
		return len(tv) == 2 &&
			*in.ProcessTime == 1.5 && *in.SetupTime == 0 &&
			*tv[0].Value.Ptr() == "12.5" && *tv[1].Value.Ptr() == "steel" && tv[1].UnitID == nil
	}), int64(7)).Return(&storage.Process{ID: 2}, nil)

	rr := serve(Create(slog.Default(), s, time.Second), `{
		"processName": "Cutting", "workstationId": 3, "processTime": 1.5, "setupTime": 0,
		"technicalValues": [{"name": "Speed", "value": 12.5, "unitId": 1}, {"name": "Material", "value": "steel"}]
	}`)

	assert.Equal(t, http.StatusCreated, rr.Code)
	s.AssertExpectations(t)
}

func TestCreate_InvalidWorkstation(t *testing.T) {
	s := new(MockStore)
	s.On("CreateProcess", mock.Anything, mock.Anything, int64(7)).
		Return(nil, fmt.Errorf("storage.sqlstore.CreateProcess: workstation 99: %w", storage.ErrInvalidReference))

	rr := serve(Create(slog.Default(), s, time.Second), `{"processName":"Cutting","workstationId":99,"processTime":1,"setupTime":1}`)

	var resp struct {
		Status  string            `json:"status"`
		Message string            `json:"message"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, render.DecodeJSON(rr.Body, &resp))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "Failed to create process", resp.Message)
	assert.Contains(t, resp.Data["error"], "workstation 99")
}

func TestList_Plural(t *testing.T) {
	s := new(MockStore)
	s.On("ListProcesses", mock.Anything, mock.Anything).
		Return(storage.NewPage[storage.Process](nil, 0, storage.ListQuery{Page: 1, PerPage: 10}), nil)

	rr := serve(List(slog.Default(), s, time.Second), `{}`)

	var resp struct {
		Message string                        `json:"message"`
		Data    storage.Page[storage.Process] `json:"data"`
	}
	require.NoError(t, render.DecodeJSON(rr.Body, &resp))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Processes retrieved successfully", resp.Message)
	assert.NotNil(t, resp.Data.Items)
	assert.Equal(t, 0, resp.Data.TotalPages)
}
