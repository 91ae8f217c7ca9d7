package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"pet-care-marketplace/internal/platform/httpjson"
	"pet-care-marketplace/internal/platform/logger"

	"golang.org/x/time/rate"
)

// limiterStore guarda un limiter por IP. Las entradas sin uso se purgan
// en cada acceso pasado idleTTL.
type limiterStore struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	every    time.Duration
	burst    int
	idleTTL  time.Duration
	lastGC   time.Time
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(perMinute int) *limiterStore {
	if perMinute <= 0 {
		perMinute = 10
	}
	return &limiterStore{
		limiters: map[string]*visitor{},
		every:    time.Minute / time.Duration(perMinute),
		burst:    perMinute,
		idleTTL:  10 * time.Minute,
		now:      time.Now,
	}
}

func (s *limiterStore) allow(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastGC) > s.idleTTL {
		for k, v := range s.limiters {
			if now.Sub(v.lastSeen) > s.idleTTL {
				delete(s.limiters, k)
			}
		}
		s.lastGC = now
	}

	v, ok := s.limiters[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(s.every), s.burst)}
		s.limiters[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// RateLimit limita requests por IP de cliente (perMinute con burst igual).
// Usa RemoteAddr; chimw.RealIP lo reescribe sólo si el router confía en el proxy.
func RateLimit(perMinute int, log logger.Logger) func(http.Handler) http.Handler {
	store := newLimiterStore(perMinute)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !store.allow(ip) {
				log.Warn("rate limit exceeded", map[string]any{"ip": ip, "path": r.URL.Path})
				httpjson.Error(w, http.StatusTooManyRequests, "Too many requests", "Rate limit exceeded. Try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
