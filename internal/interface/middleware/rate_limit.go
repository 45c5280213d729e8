package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/lincup/pkg/metrics"
	"github.com/oksasatya/lincup/pkg/response"
)

// KeyFunc derives the counter key for a request.
type KeyFunc func(c *gin.Context) string

// AllowFunc returns true for requests that bypass the limiter.
type AllowFunc func(*gin.Context) bool

// Policy is one named fixed-window budget.
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
	Key    KeyFunc
	Allow  AllowFunc
}

// Budgets used by the route modules.
var (
	PolicyRegister = Policy{Name: "register", Limit: 10, Window: time.Minute, Key: KeyByIPAndPath()}
	PolicyLogin    = Policy{Name: "login", Limit: 10, Window: time.Minute, Key: KeyByIPAndPath()}
	PolicyRefresh  = Policy{Name: "refresh", Limit: 60, Window: time.Minute, Key: KeyByIPAndPath()}
	PolicyReset    = Policy{Name: "password_reset", Limit: 5, Window: time.Minute, Key: KeyByIPAndPath()}
	PolicyProfile  = Policy{Name: "profile", Limit: 5, Window: time.Minute, Key: KeyByUserID()}
	PolicyCatalog  = Policy{Name: "catalog", Limit: 120, Window: time.Minute, Key: KeyByUserID()}
	PolicyExport   = Policy{Name: "export", Limit: 2, Window: time.Minute, Key: KeyByUserID()}
	PolicyDebug    = Policy{Name: "debug", Limit: 120, Window: time.Minute, Key: KeyByIP()}
)

func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func routeOf(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath gives every public auth endpoint its own budget per client.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + routeOf(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID falls back to the client IP before authentication has run.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString("userID"); uid != "" {
			return "rl:user:" + uid
		}
		return "rl:user:anon:ip:" + ipFromCtx(c)
	}
}

// INCR and PEXPIRE on first hit; returns {count, pttl}.
var hitScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

type window struct {
	count int
	reset time.Duration
}

func hit(c *gin.Context, rdb *redis.Client, key string, w time.Duration) (window, error) {
	res, err := hitScript.Run(c.Request.Context(), rdb, []string{key}, w.Milliseconds()).Int64Slice()
	if err != nil {
		return window{}, err
	}
	out := window{count: int(res[0])}
	if len(res) > 1 && res[1] > 0 {
		out.reset = time.Duration(res[1]) * time.Millisecond
	}
	return out, nil
}

// RateLimit enforces p with a Redis fixed-window counter and sets X-RateLimit-* headers.
// OPTIONS requests and requests accepted by p.Allow pass through. Redis errors fail open,
// and a nil client disables limiting.
func RateLimit(rdb *redis.Client, p Policy) gin.HandlerFunc {
	if rdb == nil || p.Limit <= 0 || p.Window <= 0 || p.Key == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (p.Allow != nil && p.Allow(c)) {
			c.Next()
			return
		}

		w, err := hit(c, rdb, p.Key(c), p.Window)
		if err != nil {
			c.Next()
			return
		}
		resetSec := int(w.reset.Round(time.Second) / time.Second)

		// https://datatracker.ietf.org/doc/html/rfc6585#section-4
		c.Header("X-RateLimit-Limit", strconv.Itoa(p.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(p.Limit-w.count, 0)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if w.count > p.Limit {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			metrics.RecordRateLimited(p.Name)
			response.Abort(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}
