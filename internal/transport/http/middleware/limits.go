package middleware

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	resp "court-admin/internal/transport/http/response"
)

// Limits bounds what a single request may cost. Zero fields disable the
// matching guard.
type Limits struct {
	RPS         rate.Limit
	Burst       int
	MaxInFlight int64
	MaxBody     int64
	Timeout     time.Duration
}

// Handlers returns the enabled guards, cheapest rejection first.
func (l Limits) Handlers() []gin.HandlerFunc {
	var hs []gin.HandlerFunc
	if l.RPS > 0 {
		hs = append(hs, Throttle(rate.NewLimiter(l.RPS, l.Burst)))
	}
	if l.MaxInFlight > 0 {
		hs = append(hs, InFlight(l.MaxInFlight))
	}
	if l.MaxBody > 0 {
		hs = append(hs, BodyLimit(l.MaxBody))
	}
	if l.Timeout > 0 {
		hs = append(hs, Deadline(l.Timeout))
	}
	return hs
}

// Throttle 全局令牌桶
func Throttle(lim *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !lim.Allow() {
			resp.Abort(c, http.StatusTooManyRequests, "Too many requests")
			return
		}
		c.Next()
	}
}

// ipBuckets hands out one limiter per client address. Buckets idle for
// longer than idle are dropped on the next sweep.
type ipBuckets struct {
	mu    sync.Mutex
	rps   rate.Limit
	burst int
	idle  time.Duration
	next  time.Time
	m     map[string]*ipBucket
}

type ipBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func (b *ipBuckets) get(ip string, now time.Time) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()
	if now.After(b.next) {
		for k, v := range b.m {
			if now.Sub(v.seen) > b.idle {
				delete(b.m, k)
			}
		}
		b.next = now.Add(b.idle)
	}
	e, ok := b.m[ip]
	if !ok {
		e = &ipBucket{lim: rate.NewLimiter(b.rps, b.burst)}
		b.m[ip] = e
	}
	e.seen = now
	return e.lim
}

// PerIP 按客户端 IP 限速，登录等公开接口用
func PerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	b := &ipBuckets{rps: rps, burst: burst, idle: 10 * time.Minute, m: map[string]*ipBucket{}}
	return func(c *gin.Context) {
		if !b.get(c.ClientIP(), time.Now()).Allow() {
			resp.Abort(c, http.StatusTooManyRequests, "Too many requests")
			return
		}
		c.Next()
	}
}

// InFlight caps concurrently handled requests. A request that cannot get a
// slot before its context ends gets 503.
func InFlight(n int64) gin.HandlerFunc {
	slots := semaphore.NewWeighted(n)
	return func(c *gin.Context) {
		if err := slots.Acquire(c.Request.Context(), 1); err != nil {
			resp.Abort(c, http.StatusServiceUnavailable, "Server busy")
			return
		}
		defer slots.Release(1)
		c.Next()
	}
}

// BodyLimit rejects declared oversize bodies up front and caps the reader
// for chunked ones.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			resp.Abort(c, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

// Deadline puts a deadline on the request context; storage calls inherit
// it. Handlers that ran out of time without writing get 504.
func Deadline(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if c.Writer.Written() {
			return
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			resp.Abort(c, http.StatusGatewayTimeout, "Request timeout")
		}
	}
}
