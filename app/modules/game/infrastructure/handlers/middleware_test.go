package gamehandlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gameservice "github.com/Black-And-White-Club/ultistats/app/modules/game/application"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(0.5, 2)
	handler := RateLimitMiddleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/standings", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusNoContent, do("10.0.0.1:1234").Code)
	require.Equal(t, http.StatusNoContent, do("10.0.0.1:5678").Code)

	rec := do("10.0.0.1:9999")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "2", rec.Header().Get("Retry-After"))
	require.Contains(t, rec.Body.String(), "rate limit exceeded")

	// Other clients have their own bucket.
	require.Equal(t, http.StatusNoContent, do("10.0.0.2:1234").Code)
	// RemoteAddr without a port is used as is.
	require.Equal(t, http.StatusNoContent, do("10.0.0.3").Code)
}

func TestRateLimitMiddleware_NilLimiterPassesThrough(t *testing.T) {
	handler := RateLimitMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestIPRateLimiterSweepsIdleBuckets(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return start }

	for i := 0; i < 20; i++ {
		limiter.Allow(fmt.Sprintf("10.0.0.%d", i))
	}
	require.Equal(t, 20, limiter.size())

	limiter.now = func() time.Time { return start.Add(sweepInterval / 2) }
	limiter.Allow("10.0.0.1")
	require.Equal(t, 20, limiter.size())

	// Only the bucket touched after start survives the sweep.
	limiter.now = func() time.Time { return start.Add(sweepInterval) }
	limiter.Allow("192.168.0.1")
	require.Equal(t, 2, limiter.size())
}

// Body-parsing routes spend the write budget; reads are not affected by it.
func TestGameHandlers_WriteRoutesHaveTheirOwnBudget(t *testing.T) {
	svc := NewFakeService()
	svc.ImportGameSheetFunc = func(_ context.Context, source string, _ []byte) (*gameservice.ImportResult, error) {
		return &gameservice.ImportResult{GameID: 1, Source: source}, nil
	}

	h := NewGameHandlers(svc, slog.New(slog.NewTextHandler(io.Discard, nil)), Limits{
		Read:  NewIPRateLimiter(100, 100),
		Write: NewIPRateLimiter(0.001, 1),
	})
	r := chi.NewRouter()
	r.Route("/api", h.Routes)

	do := func(method, target, body string) int {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.RemoteAddr = "10.1.1.1:4000"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusCreated, do(http.MethodPost, "/api/games/import", "sheet"))
	require.Equal(t, http.StatusTooManyRequests, do(http.MethodPost, "/api/analyze", "JUS-KAJ"))
	require.Equal(t, http.StatusTooManyRequests, do(http.MethodPost, "/api/games/import", "sheet"))
	require.Equal(t, http.StatusOK, do(http.MethodGet, "/api/standings", ""))
}
