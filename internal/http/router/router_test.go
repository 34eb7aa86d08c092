package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/skillbridge-backend/internal/config"
	"github.com/ignatzorin/skillbridge-backend/internal/http/middleware"
	"github.com/ignatzorin/skillbridge-backend/internal/interface/http/handler"
	"github.com/ignatzorin/skillbridge-backend/internal/service"
)

type okPinger struct{}

func (okPinger) PingContext(ctx context.Context) error { return nil }

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := service.NewTokenManager("router-test-secret", time.Hour)
	token, _, err := tokens.Issue(uuid.New(), "developer")
	require.NoError(t, err)

	store, err := middleware.NewRateLimitStore(nil)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:             "test",
		AllowedOrigins:  []string{"http://localhost:5173"},
		RateLimitLimit:  100,
		RateLimitPeriod: time.Minute,
	}
	h := Handlers{
		Requests: handler.NewRequestHandler(nil, nil, nil, nil),
		Payments: handler.NewPaymentHandler(nil, nil, nil, nil),
		Follows:  handler.NewFollowHandler(nil, nil),
		Health:   handler.NewHealthHandler(okPinger{}, nil),
	}
	return SetupRouter(cfg, h, tokens, store), token
}

func TestRouter_Health(t *testing.T) {
	r, _ := newTestRouter(t)
	for _, path := range []string{"/health", "/api/health"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_ProtectedRoutesRequireAuth(t *testing.T) {
	r, _ := newTestRouter(t)
	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/hiring/create"},
		{http.MethodPatch, "/api/hiring/accept/" + uuid.NewString()},
		{http.MethodGet, "/api/mentor-requests/received"},
		{http.MethodPost, "/api/skill-exchange/request"},
		{http.MethodGet, "/api/skill-exchange/get-skills"},
		{http.MethodPost, "/api/payments/create-order"},
		{http.MethodPost, "/api/payments/verify-payment"},
		{http.MethodGet, "/api/payments/transactions"},
		{http.MethodPost, "/api/users/follow/" + uuid.NewString()},
		{http.MethodGet, "/api/users/" + uuid.NewString() + "/followers"},
	}
	for _, rt := range routes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, rt.path)
	}
}

func TestRouter_RejectsMalformedIDs(t *testing.T) {
	r, token := newTestRouter(t)
	routes := []struct{ method, path string }{
		{http.MethodPatch, "/api/hiring/accept/42"},
		{http.MethodPatch, "/api/mentor-requests/complete/abc"},
		{http.MethodPatch, "/api/skill-exchange/xyz/respond"},
		{http.MethodGet, "/api/hiring/check/nope"},
		{http.MethodPost, "/api/users/follow/me"},
	}
	for _, rt := range routes {
		req := httptest.NewRequest(rt.method, rt.path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, rt.path)
	}
}
