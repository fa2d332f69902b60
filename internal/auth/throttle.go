package auth

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Throttle is a fixed-window per-caller request limiter. Windows reset a
// minute after the first request in them; counts live in memory, so limits
// apply per process.
type Throttle struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	windows map[int64]*callerWindow
}

type callerWindow struct {
	start time.Time
	count int
}

// NewThrottle creates a limiter allowing limit calls per minute per user.
func NewThrottle(limit int) *Throttle {
	return &Throttle{
		limit:   limit,
		window:  time.Minute,
		windows: make(map[int64]*callerWindow),
	}
}

// Allow records a call for the user and reports whether it is within the
// limit.
func (t *Throttle) Allow(userID int64) bool {
	return t.allowAt(userID, time.Now())
}

func (t *Throttle) allowAt(userID int64, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	w := t.windows[userID]
	if w == nil || now.Sub(w.start) >= t.window {
		t.windows[userID] = &callerWindow{start: now, count: 1}
		return true
	}
	w.count++
	return w.count <= t.limit
}

// Middleware rejects over-limit authenticated callers with 429.
func (t *Throttle) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := UserFromContext(r.Context()); ok && !t.Allow(user.ID) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"detail": "Request was throttled."}`)
			return
		}
		next.ServeHTTP(w, r)
	})
}
