package middleware

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Nyirongo2000/tagme.in/internal/metrics"
)

// Limit caps the requests one client may make to a route over a sliding
// window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// DefaultLimits are keyed by "METHOD /path".
var DefaultLimits = map[string]Limit{
	"POST /send":    {Requests: 30, Window: time.Minute},
	"GET /seek":     {Requests: 120, Window: time.Minute},
	"GET /channels": {Requests: 60, Window: time.Minute},
}

// Auto blocking: strikeLimit rejections within strikeTTL block the client
// for blockFor.
const (
	strikeLimit = 10
	strikeTTL   = time.Hour
	blockFor    = 24 * time.Hour
)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	Whitelist        []string // IPs or CIDRs exempt from rate limiting
	AutoBlockEnabled bool     // Block clients that keep hitting the limit
	Limits           map[string]Limit
}

// RateLimiter limits requests per client IP with Redis sorted sets.
// Redis failures let the request through.
type RateLimiter struct {
	client    *redis.Client
	limits    map[string]Limit
	allow     allowList
	autoBlock bool
	logger    zerolog.Logger
	now       func() time.Time
}

// NewRateLimiter creates a rate limiter. A nil cfg.Limits selects
// DefaultLimits.
func NewRateLimiter(client *redis.Client, logger zerolog.Logger, cfg RateLimiterConfig) *RateLimiter {
	limits := cfg.Limits
	if limits == nil {
		limits = DefaultLimits
	}
	return &RateLimiter{
		client:    client,
		limits:    limits,
		allow:     parseAllowList(cfg.Whitelist, logger),
		autoBlock: cfg.AutoBlockEnabled,
		logger:    logger,
		now:       time.Now,
	}
}

type allowList struct {
	addrs    map[netip.Addr]bool
	prefixes []netip.Prefix
}

func parseAllowList(entries []string, logger zerolog.Logger) allowList {
	a := allowList{addrs: make(map[netip.Addr]bool)}
	for _, entry := range entries {
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				logger.Warn().Str("entry", entry).Err(err).Msg("invalid CIDR in whitelist")
				continue
			}
			a.prefixes = append(a.prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			logger.Warn().Str("entry", entry).Err(err).Msg("invalid IP in whitelist")
			continue
		}
		a.addrs[addr.Unmap()] = true
	}
	if len(entries) > 0 {
		logger.Info().
			Int("ips", len(a.addrs)).
			Int("cidrs", len(a.prefixes)).
			Msg("rate limit whitelist configured")
	}
	return a
}

func (a allowList) contains(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	if a.addrs[addr] {
		return true
	}
	for _, p := range a.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// RealIP extracts the client IP, preferring proxy headers over the
// connection address.
func RealIP(r *http.Request) string {
	if ip := r.Header.Get("Fly-Client-IP"); ip != "" {
		return ip
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// route returns the limit that applies to r, if any.
func (rl *RateLimiter) route(r *http.Request) (string, Limit, bool) {
	name := r.Method + " " + r.URL.Path
	l, ok := rl.limits[name]
	return name, l, ok
}

// take records one request under key and reports how many requests the
// window now holds, this one included.
func (rl *RateLimiter) take(ctx context.Context, key string, l Limit, now time.Time) (int64, error) {
	cutoff := now.Add(-l.Window).UnixMicro()
	pipe := rl.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", "("+strconv.FormatInt(cutoff, 10))
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixMicro()),
		Member: strconv.FormatInt(now.UnixNano(), 36),
	})
	card := pipe.ZCard(ctx, key)
	pipe.PExpire(ctx, key, l.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return card.Val(), nil
}

func blockKey(ip string) string  { return "tagmein:block:" + ip }
func strikeKey(ip string) string { return "tagmein:strikes:" + ip }

func (rl *RateLimiter) blocked(ctx context.Context, ip string) bool {
	if !rl.autoBlock {
		return false
	}
	n, err := rl.client.Exists(ctx, blockKey(ip)).Result()
	return err == nil && n > 0
}

// strike counts a rejection against ip and blocks it once strikeLimit is
// reached.
func (rl *RateLimiter) strike(ctx context.Context, ip string) {
	if !rl.autoBlock {
		return
	}
	n, err := rl.client.Incr(ctx, strikeKey(ip)).Result()
	if err != nil {
		return
	}
	if n == 1 {
		rl.client.Expire(ctx, strikeKey(ip), strikeTTL)
	}
	if n < strikeLimit {
		return
	}
	rl.client.Set(ctx, blockKey(ip), "rate limit", blockFor)
	rl.logger.Warn().
		Str("type", "security").
		Str("event", "ip_auto_blocked").
		Str("ip", ip).
		Int64("strikes", n).
		Msg("client blocked after repeated rate limit hits")
}

// Middleware returns the rate limiting middleware.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := RealIP(r)
		if rl.allow.contains(ip) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		if rl.blocked(ctx, ip) {
			metrics.BlockedRequests.WithLabelValues("ip_block").Inc()
			rl.logger.Warn().
				Str("type", "security").
				Str("event", "blocked_request").
				Str("ip", ip).
				Str("path", r.URL.Path).
				Msg("blocked client attempted request")
			Text(w, http.StatusForbidden, "temporarily blocked")
			return
		}

		name, limit, ok := rl.route(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		now := rl.now()
		count, err := rl.take(ctx, "tagmein:rl:"+name+":"+ip, limit, now)
		if err != nil {
			rl.logger.Error().Err(err).Str("route", name).Msg("rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}

		remaining := limit.Requests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(now.Add(limit.Window).Unix(), 10))

		if count > int64(limit.Requests) {
			h.Set("Retry-After", strconv.Itoa(int(limit.Window/time.Second)))
			metrics.RateLimitHits.WithLabelValues(normalizePath(r.URL.Path)).Inc()
			rl.strike(ctx, ip)
			rl.logger.Warn().
				Str("type", "security").
				Str("event", "rate_limit_exceeded").
				Str("ip", ip).
				Str("route", name).
				Int64("count", count).
				Msg("rate limit exceeded")
			Text(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Text writes a plain text body, the format every API error uses.
func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
