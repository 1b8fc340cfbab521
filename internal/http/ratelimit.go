package http

import (
	"net/http"
	"sync"
	"time"
)

// importLimiter throttles the import endpoint per client IP. Imports
// re-run recurrence detection over the whole ledger, so a misbehaving
// uploader can make the server grind; reads stay unthrottled.
type importLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow

	limit  int
	window time.Duration
}

type clientWindow struct {
	start    time.Time
	requests int
}

func newImportLimiter(limit int, window time.Duration) *importLimiter {
	return &importLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
	}
}

func (l *importLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, ok := l.clients[ip]
	if !ok || now.Sub(c.start) > l.window {
		l.clients[ip] = &clientWindow{start: now, requests: 1}
		l.evict(now)
		return true
	}
	c.requests++
	return c.requests <= l.limit
}

// evict drops windows that expired; called under the lock on the
// new-window path so the map cannot grow without bound.
func (l *importLimiter) evict(now time.Time) {
	for ip, c := range l.clients {
		if now.Sub(c.start) > l.window {
			delete(l.clients, ip)
		}
	}
}

func (l *importLimiter) middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "too many import requests")
			return
		}
		next(w, r)
	}
}
