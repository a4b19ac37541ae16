package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/grant-matching/internal/http/response"
)

// idleTTL — через сколько простоя лимитер клиента забывается.
const idleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter хранит по token bucket на каждый IP клиента.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	now      func() time.Time
	swept    time.Time
}

// NewIPRateLimiter создаёт лимитер: rps запросов в секунду с запасом burst.
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow сообщает, можно ли обработать запрос клиента ip.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	l.evict(now)
	return v.limiter.AllowN(now, 1)
}

func (l *IPRateLimiter) evict(now time.Time) {
	if now.Sub(l.swept) < time.Minute {
		return
	}
	l.swept = now
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > idleTTL {
			delete(l.visitors, ip)
		}
	}
}

// RateLimitMiddleware отвечает 429, когда клиент превысил лимит.
// IP берётся из RemoteAddr, который middleware.RealIP уже заменил на адрес из X-Forwarded-For.
func RateLimitMiddleware(limiter *IPRateLimiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiter.Allow(ip) {
				log.Warn("too many requests",
					slog.String("op", "middlewarectx.RateLimit"),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("ip", ip),
				)
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, response.Error(response.MsgTooManyRequests))
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
