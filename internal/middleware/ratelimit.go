package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// RateLimiter is a fixed-window in-memory limiter keyed by client IP. A
// window opens on a client's first request and closes window later no
// matter how much traffic arrives in between. It guards single-instance
// endpoints such as admin login.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	length  time.Duration
	now     func() time.Time
}

func NewRateLimiter(limit int, length time.Duration) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		length:  length,
		now:     time.Now,
	}

	go func() {
		for range time.Tick(length) {
			rl.sweep()
		}
	}()

	return rl
}

// sweep drops closed windows.
func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for ip, w := range rl.windows {
		if now.Sub(w.start) >= rl.length {
			delete(rl.windows, ip)
		}
	}
}

// allow counts a request for ip and reports whether it fits the current
// window, plus how long until that window closes.
func (rl *RateLimiter) allow(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[ip]
	if !ok || now.Sub(w.start) >= rl.length {
		w = &window{start: now}
		rl.windows[ip] = w
	}
	w.count++
	return w.count <= rl.limit, w.start.Add(rl.length).Sub(now)
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, remaining := rl.allow(ClientIP(r))
		if !ok {
			secs := int((remaining + time.Second - 1) / time.Second)
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
