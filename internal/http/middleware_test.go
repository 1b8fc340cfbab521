package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestImportLimiterAllowsWithinWindow(t *testing.T) {
	l := newImportLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, l.allow("10.0.0.1"), "request %d should pass", i+1)
	}
	assert.False(t, l.allow("10.0.0.1"))

	// Another client has its own window.
	assert.True(t, l.allow("10.0.0.2"))
}

func TestImportLimiterResetsAfterWindow(t *testing.T) {
	l := newImportLimiter(1, 10*time.Millisecond)

	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, l.allow("10.0.0.1"))
}

func TestTraceRequestsInjectsRequestID(t *testing.T) {
	var seen string
	h := traceRequests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, seen)
}

func TestClientIPPrefersForwardedHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "127.0.0.1:9999"
	assert.Equal(t, "127.0.0.1", clientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(r))
}
