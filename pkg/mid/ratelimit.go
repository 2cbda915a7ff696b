package mid

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiters holds one token bucket per client address.
type limiters struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*rate.Limiter
}

func (l *limiters) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.clients[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.clients[key] = lim
	}
	return lim
}

// clientKey is the remote host without its port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit returns middleware allowing each client perSecond requests with
// the given burst. Rejected requests get 429 with a Retry-After header.
// A non-positive perSecond disables limiting.
func RateLimit(perSecond float64, burst int) Middleware {
	if perSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst <= 0 {
		burst = 1
	}
	l := &limiters{limit: rate.Limit(perSecond), burst: burst, clients: make(map[string]*rate.Limiter)}
	retry := strconv.Itoa(int(max(time.Second, time.Duration(float64(time.Second)/perSecond)).Seconds()))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.get(clientKey(r)).Allow() {
				w.Header().Set("Retry-After", retry)
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
