package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suar-net/hookmirror/internal/config"
	"github.com/suar-net/hookmirror/internal/hub"
	"github.com/suar-net/hookmirror/internal/model"
	"github.com/suar-net/hookmirror/internal/service"
)

func newTestRouter(users *fakeUserService, webhooks *fakeWebhookService, viewer *fakeViewerService) http.Handler {
	liveHub := hub.NewHub(testLogger())
	admin := config.AdminConfig{Username: "admin", Password: "secret"}
	return SetupRouter(users, webhooks, viewer, liveHub, nil, admin, testLogger())
}

func TestWebhookEndpointReturnsCannedResponse(t *testing.T) {
	t.Parallel()

	webhooks := &fakeWebhookService{
		result: &model.WebhookResult{
			RequestID:      "r1",
			Response:       json.RawMessage(`{"ok":true}`),
			ResponseTimeMs: 0,
		},
	}
	router := newTestRouter(newFakeUserService("alice"), webhooks, &fakeViewerService{})

	req := httptest.NewRequest(http.MethodPost, "/api/@alice?tag=a&tag=b", strings.NewReader(`{"x":1}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	in := webhooks.lastRequest()
	require.NotNil(t, in)
	assert.Equal(t, "alice", in.Username)
	assert.Equal(t, http.MethodPost, in.Method)
	assert.Equal(t, "/api/@alice", in.Path)
	assert.Equal(t, []byte(`{"x":1}`), in.RawBody)
	assert.Equal(t, []string{"a", "b"}, in.QueryParams["tag"])
	assert.Equal(t, "application/json", in.Headers["Content-Type"])
}

func TestWebhookEndpointAcceptsAllVerbs(t *testing.T) {
	t.Parallel()

	webhooks := &fakeWebhookService{
		result: &model.WebhookResult{Response: json.RawMessage(`{}`)},
	}
	router := newTestRouter(newFakeUserService("alice"), webhooks, &fakeViewerService{})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		req := httptest.NewRequest(method, "/api/@alice", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "method %s", method)
	}
}

func TestWebhookEndpointRecordsSubPaths(t *testing.T) {
	t.Parallel()

	webhooks := &fakeWebhookService{
		result: &model.WebhookResult{Response: json.RawMessage(`{}`)},
	}
	router := newTestRouter(newFakeUserService("alice"), webhooks, &fakeViewerService{})

	req := httptest.NewRequest(http.MethodPost, "/api/@alice/orders/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, webhooks.lastRequest())
	assert.Equal(t, "/api/@alice/orders/42", webhooks.lastRequest().Path)
}

func TestWebhookEndpointUnknownUser(t *testing.T) {
	t.Parallel()

	webhooks := &fakeWebhookService{err: service.ErrUserNotFound}
	router := newTestRouter(newFakeUserService(), webhooks, &fakeViewerService{})

	req := httptest.NewRequest(http.MethodPost, "/api/@ghost", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")
}

func TestWebhookEndpointStorageFailure(t *testing.T) {
	t.Parallel()

	webhooks := &fakeWebhookService{err: service.ErrStorageFailure}
	router := newTestRouter(newFakeUserService("alice"), webhooks, &fakeViewerService{})

	req := httptest.NewRequest(http.MethodPost, "/api/@alice", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
