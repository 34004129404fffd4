package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mzhirov/tasklist/internal/api"
	"github.com/mzhirov/tasklist/internal/controller"
	"github.com/mzhirov/tasklist/internal/models"
	"github.com/mzhirov/tasklist/internal/service"
	"github.com/mzhirov/tasklist/internal/storage/memory"
	"github.com/mzhirov/tasklist/internal/util"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	logger := zap.NewNop().Sugar()
	tokens := service.NewTokenService(&util.TokenConfig{
		JwtSecretKey: []byte("test-secret"),
		AccessTTL:    15 * time.Minute,
		RefreshTTL:   7 * 24 * time.Hour,
	})
	cfg := &util.AuthConfig{MinPasswordLength: 6, BcryptCost: 4}

	authService := service.NewAuthService(
		memory.NewUserRepository(),
		memory.NewRefreshTokenLedger(),
		tokens,
		service.NewWebhookService(logger, ""),
		cfg,
		logger,
	)
	taskService := service.NewTaskService(memory.NewTaskRepository(), logger)

	e := echo.New()
	e.HTTPErrorHandler = api.ErrorHandler(logger)

	ctrl := controller.NewController(logger, authService, taskService)
	ctrl.RegisterRoutes(e.Group("/api"), api.BearerAuthMiddleware(authService))

	return e
}

func doJSON(e *echo.Echo, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeAuthResponse(t *testing.T, rec *httptest.ResponseRecorder) models.AuthResponse {
	t.Helper()
	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRegisterEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"secret123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeAuthResponse(t, rec)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "alice", resp.User.Username)

	// Missing fields.
	rec = doJSON(e, http.MethodPost, "/api/auth/register", `{"username":"bob"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Weak password.
	rec = doJSON(e, http.MethodPost, "/api/auth/register", `{"username":"bob","password":"12345"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Duplicate username.
	rec = doJSON(e, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"secret123"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"secret123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"secret123"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"wrongpass"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/auth/login", `{"username":"nobody","password":"whatever1"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"secret123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	registered := decodeAuthResponse(t, rec)

	rec = doJSON(e, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"`+registered.RefreshToken+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rotated := decodeAuthResponse(t, rec)
	assert.NotEqual(t, registered.RefreshToken, rotated.RefreshToken)

	// Replay of the superseded token.
	rec = doJSON(e, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"`+registered.RefreshToken+`"}`, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/auth/refresh", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTodosEndpoints(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"secret123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	token := decodeAuthResponse(t, rec).AccessToken

	rec = doJSON(e, http.MethodGet, "/api/todos", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/todos", `{"title":"buy milk"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "buy milk", created.Title)

	rec = doJSON(e, http.MethodPost, "/api/todos", `{"title":"   "}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/todos", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)

	rec = doJSON(e, http.MethodPut, "/api/todos/1", `{"completed":true}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.Completed)

	rec = doJSON(e, http.MethodDelete, "/api/todos/1", "", token)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodDelete, "/api/todos/1", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Another user can't see or touch someone else's list.
	rec = doJSON(e, http.MethodPost, "/api/auth/register", `{"username":"mallory","password":"secret123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	otherToken := decodeAuthResponse(t, rec).AccessToken

	rec = doJSON(e, http.MethodPost, "/api/todos", `{"title":"alice task"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	var aliceTask models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &aliceTask))

	rec = doJSON(e, http.MethodDelete, "/api/todos/"+itoa(aliceTask.ID), "", otherToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
