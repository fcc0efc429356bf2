package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-api/http-server/route"
	"route-api/internal/auth"
	"route-api/internal/config"
	"route-api/internal/service/routecard"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWithCards(t, nil)
}

// newTestServerWithCards lets wrap stand between the export handler and the
// real route card service.
func newTestServerWithCards(t *testing.T, wrap func(route.CardGenerator) route.CardGenerator) *httptest.Server {
	t.Helper()

	cfg := config.Config{
		Env:        envLocal,
		HTTPServer: config.HTTPServer{RequestTimeout: 5 * time.Second, ExportTimeout: 30 * time.Second},
		Database:   config.Database{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "api.db")},
		Auth:       config.Auth{JWTSecret: "test-secret", TokenTTL: time.Hour},
		CORS:       config.CORS{AllowedOrigins: []string{"http://localhost:5173"}},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := open(context.Background(), &cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, err = store.CreateUser(context.Background(), "admin", "s3cret", nil)
	require.NoError(t, err)

	tokens, err := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	require.NoError(t, err)

	var cards route.CardGenerator = routecard.New(store)
	if wrap != nil {
		cards = wrap(cards)
	}

	srv := httptest.NewServer(routes(cfg, log, store, tokens, cards))
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func call(t *testing.T, srv *httptest.Server, path, token, body string) (*http.Response, envelope) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, render.DecodeJSON(resp.Body, &env))
	}
	return resp, env
}

func TestRoutes_LoginAndCRUD(t *testing.T) {
	srv := newTestServer(t)

	resp, env := call(t, srv, "/unit/list", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Token required", env.Message)

	resp, env = call(t, srv, "/login", "", `{"username":"admin","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, env = call(t, srv, "/login", "", `{"username":"admin","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := env.Data["token"].(string)
	require.NotEmpty(t, token)

	resp, env = call(t, srv, "/unit/create", token, `{"unitName":"Kilogram","unitSymbol":"kg"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Unit created successfully", env.Message)
	assert.Equal(t, true, env.Data["isActive"])

	resp, env = call(t, srv, "/unit/create", token, `{"unitName":"Kilogram","unitSymbol":"kg"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Unit already exists", env.Message)

	resp, env = call(t, srv, "/unit/list", token, `{"per_page":"5"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, env.Data["total"])
	assert.EqualValues(t, 5, env.Data["per_page"])
}

func TestRoutes_RouteExport(t *testing.T) {
	srv := newTestServer(t)

	_, env := call(t, srv, "/login", "", `{"username":"admin","password":"s3cret"}`)
	token := env.Data["token"].(string)

	resp, env := call(t, srv, "/workstation/create", token, `{"workstationName":"Saw"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	wsID := env.Data["id"].(float64)

	resp, env = call(t, srv, "/process/create", token,
		`{"processName":"Cutting","workstationId":`+formatID(wsID)+`,"processTime":1.5,"setupTime":10}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	processID := env.Data["id"].(float64)

	resp, env = call(t, srv, "/route/create", token, `{"routeName":"Main","processSequence":[`+formatID(processID)+`]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	routeID := env.Data["id"].(float64)

	resp, _ = call(t, srv, "/route/export", token, `{"id":`+formatID(routeID)+`}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment;")

	resp, env = call(t, srv, "/route/export", token, `{"id":999}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Route not found", env.Message)
}

type deadlineRecorder struct {
	route.CardGenerator
	deadline time.Time
}

func (d *deadlineRecorder) Generate(ctx context.Context, routeID int64) (*routecard.File, error) {
	d.deadline, _ = ctx.Deadline()
	return d.CardGenerator.Generate(ctx, routeID)
}

func TestRoutes_ExportGetsExportTimeout(t *testing.T) {
	rec := &deadlineRecorder{}
	srv := newTestServerWithCards(t, func(g route.CardGenerator) route.CardGenerator {
		rec.CardGenerator = g
		return rec
	})

	_, env := call(t, srv, "/login", "", `{"username":"admin","password":"s3cret"}`)
	token := env.Data["token"].(string)

	start := time.Now()
	resp, _ := call(t, srv, "/route/export", token, `{"id":999}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.False(t, rec.deadline.IsZero())
	assert.WithinDuration(t, start.Add(30*time.Second), rec.deadline, 5*time.Second)
}

func TestRoutes_Health(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func formatID(id float64) string {
	return strconv.FormatInt(int64(id), 10)
}
