package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
)

const msgRateLimited = "rate limit exceeded, try again later"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничение запросов на IP клиента.
// X-Forwarded-For и X-Real-IP учитываются только от доверенных прокси
type RateLimiter struct {
	rps     rate.Limit
	burst   int
	ttl     time.Duration
	trusted []*net.IPNet
	log     Logger

	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

// NewRateLimiter создает ограничитель: rps запросов в секунду, burst подряд.
// trustedProxies содержит IP или CIDR прокси, которым разрешено передавать адрес клиента
func NewRateLimiter(rps float64, burst int, trustedProxies []string, log Logger) (*RateLimiter, error) {
	trusted, err := parseProxies(trustedProxies)
	if err != nil {
		return nil, err
	}

	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		ttl:      10 * time.Minute,
		trusted:  trusted,
		log:      log,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}, nil
}

func parseProxies(entries []string) ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("middleware: invalid trusted proxy %q", entry)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("middleware: invalid trusted proxy %q: %w", entry, err)
		}
		nets = append(nets, n)
	}
	return nets, nil
}

func (l *RateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = l.now()
	return v.limiter
}

// Cleanup удаляет давно неактивных клиентов, возвращает количество удаленных
func (l *RateLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	cutoff := l.now().Add(-l.ttl)
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
			removed++
		}
	}
	return removed
}

// RunCleanup периодически вызывает Cleanup до закрытия stopCh
func (l *RateLimiter) RunCleanup(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Cleanup()
		case <-stopCh:
			return
		}
	}
}

// Middleware возвращает mux middleware
func (l *RateLimiter) Middleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := l.clientIP(r)
			if !l.limiter(ip).Allow() {
				l.log.Warn("Rate limit exceeded: ip=%s, path=%s", ip, r.URL.Path)
				handlers.RespondTooManyRequests(w, msgRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP адрес клиента для лимита. Заголовки прокси читаются только
// если соединение пришло от доверенного прокси; в X-Forwarded-For берется
// самый правый адрес, не принадлежащий доверенным прокси
func (l *RateLimiter) clientIP(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !l.isTrusted(peer) {
		return peer
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		hops := strings.Split(fwd, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			if !l.isTrusted(hop) || i == 0 {
				return hop
			}
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return peer
}

func (l *RateLimiter) isTrusted(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, n := range l.trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
