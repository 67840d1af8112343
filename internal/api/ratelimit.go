package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig is a per-IP token bucket budget.
type RateLimitConfig struct {
	Name              string        // Metrics label, "<name>_limit"
	RequestsPerSecond float64       // Sustained requests per IP
	Burst             int           // Bucket size
	CleanupInterval   time.Duration // Idle buckets are dropped after twice this
}

// DefaultRateLimitConfig covers the read side: state polling, stats and
// frame renders. Clients that want every tick use the WebSocket.
var DefaultRateLimitConfig = RateLimitConfig{
	Name:              "read",
	RequestsPerSecond: 30,
	Burst:             60,
	CleanupInterval:   5 * time.Minute,
}

// ControlRateLimitConfig sizes the control budget from the simulation rate.
// A client sends at most an input sample and an aim update per tick, and
// may queue half a second of them after a stall.
func ControlRateLimitConfig(tickRate int) RateLimitConfig {
	if tickRate <= 0 {
		tickRate = 60
	}
	return RateLimitConfig{
		Name:              "control",
		RequestsPerSecond: float64(2 * tickRate),
		Burst:             tickRate,
		CleanupInterval:   5 * time.Minute,
	}
}

// newBucket builds a single bucket with the config's budget.
func (c RateLimitConfig) newBucket() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(c.RequestsPerSecond), c.Burst)
}

type visitor struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	cfg    RateLimitConfig
	reason string

	mu       sync.Mutex
	visitors map[string]*visitor

	stopChan chan struct{}
	stopOnce sync.Once

	allowed  atomic.Uint64
	rejected atomic.Uint64
}

// NewIPRateLimiter starts a limiter and its idle-bucket sweeper.
func NewIPRateLimiter(cfg RateLimitConfig) *IPRateLimiter {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultRateLimitConfig.CleanupInterval
	}
	reason := "rate_limit"
	if cfg.Name != "" {
		reason = cfg.Name + "_limit"
	}
	rl := &IPRateLimiter{
		cfg:      cfg,
		reason:   reason,
		visitors: make(map[string]*visitor),
		stopChan: make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// Stop ends the sweeper.
func (rl *IPRateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopChan)
	})
}

func (rl *IPRateLimiter) sweep() {
	ticker := time.NewTicker(rl.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopChan:
			return
		case now := <-ticker.C:
			rl.dropIdle(now.Add(-2 * rl.cfg.CleanupInterval))
		}
	}
}

func (rl *IPRateLimiter) dropIdle(cutoff time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
}

// Allow spends one token from the IP's bucket.
func (rl *IPRateLimiter) Allow(ip string) bool {
	now := time.Now()

	rl.mu.Lock()
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{bucket: rl.cfg.newBucket()}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	rl.mu.Unlock()

	if v.bucket.AllowN(now, 1) {
		rl.allowed.Add(1)
		return true
	}
	rl.rejected.Add(1)
	return false
}

// Tracked returns how many IPs currently hold a bucket.
func (rl *IPRateLimiter) Tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// Middleware rejects requests over budget with 429.
func (rl *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(GetClientIP(r)) {
			RecordConnectionRejected(rl.reason)
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimitStats reports limiter decisions.
type RateLimitStats struct {
	Allowed  uint64 `json:"allowed"`
	Rejected uint64 `json:"rejected"`
	Tracked  int    `json:"tracked"`
}

// GetStats returns rate limiter statistics
func (rl *IPRateLimiter) GetStats() RateLimitStats {
	return RateLimitStats{
		Allowed:  rl.allowed.Load(),
		Rejected: rl.rejected.Load(),
		Tracked:  rl.Tracked(),
	}
}

// GetClientIP returns the caller's address. Proxy headers are honored only
// when they carry a parseable IP; they can be spoofed without a trusted
// proxy in front.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// WebSocketRateLimiter caps concurrent WebSocket connections per IP.
type WebSocketRateLimiter struct {
	maxPerIP int

	mu    sync.Mutex
	conns map[string]int

	rejected atomic.Uint64
}

// NewWebSocketRateLimiter creates a WebSocket connection limiter
func NewWebSocketRateLimiter(maxPerIP int) *WebSocketRateLimiter {
	return &WebSocketRateLimiter{
		maxPerIP: maxPerIP,
		conns:    make(map[string]int),
	}
}

// Allow reserves a connection slot for ip.
func (wrl *WebSocketRateLimiter) Allow(ip string) bool {
	wrl.mu.Lock()
	defer wrl.mu.Unlock()
	if wrl.conns[ip] >= wrl.maxPerIP {
		wrl.rejected.Add(1)
		return false
	}
	wrl.conns[ip]++
	return true
}

// Release frees a slot reserved by Allow. IPs with no open connections are
// forgotten.
func (wrl *WebSocketRateLimiter) Release(ip string) {
	wrl.mu.Lock()
	defer wrl.mu.Unlock()
	switch n := wrl.conns[ip]; {
	case n > 1:
		wrl.conns[ip] = n - 1
	case n == 1:
		delete(wrl.conns, ip)
	}
}

// GetConnectionCount returns current connection count for an IP
func (wrl *WebSocketRateLimiter) GetConnectionCount(ip string) int {
	wrl.mu.Lock()
	defer wrl.mu.Unlock()
	return wrl.conns[ip]
}

// TrackedIPs returns how many IPs hold at least one connection.
func (wrl *WebSocketRateLimiter) TrackedIPs() int {
	wrl.mu.Lock()
	defer wrl.mu.Unlock()
	return len(wrl.conns)
}

// Rejected returns how many connections were refused
func (wrl *WebSocketRateLimiter) Rejected() uint64 {
	return wrl.rejected.Load()
}
