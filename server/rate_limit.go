package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterClientTTL     = 15 * time.Minute
	limiterSweepInterval = time.Minute
)

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// loginLimiter throttles login attempts per client address with a token bucket each.
// A non-positive limit disables it.
type loginLimiter struct {
	limit     rate.Limit
	burst     int
	nowFunc   func() time.Time
	mu        sync.Mutex
	clients   map[string]*rateLimitClient
	lastSweep time.Time
}

func newLoginLimiter(perSecond float64, burst int, nowFunc func() time.Time) *loginLimiter {
	if burst < 1 {
		burst = 1
	}
	return &loginLimiter{
		limit:     rate.Limit(perSecond),
		burst:     burst,
		nowFunc:   nowFunc,
		clients:   make(map[string]*rateLimitClient),
		lastSweep: nowFunc(),
	}
}

func (l *loginLimiter) Allow(key string) bool {
	if l.limit <= 0 {
		return true
	}
	now := l.nowFunc()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > limiterSweepInterval {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > limiterClientTTL {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	client, found := l.clients[key]
	if !found {
		client = &rateLimitClient{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = client
	}
	client.lastSeen = now
	return client.limiter.AllowN(now, 1)
}

// clientAddress is the remote host of r. Forwarding headers are not trusted here.
func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
