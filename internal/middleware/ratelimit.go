package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"serenity-backend/pkg/logger"
)

// AuthRateLimit limits unauthenticated auth endpoints per client IP.
func AuthRateLimit(requestLimit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		requestLimit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
			writeError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		}),
	)
}

// SendLimiter enforces the per-user quota on the send endpoint using a
// fixed window counter in Redis. The check-and-increment runs as one Lua
// script so concurrent requests cannot race past the limit.
type SendLimiter struct {
	client *redis.Client
	log    *logger.Logger
	limit  int
	window time.Duration
}

type limitResult struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

var sendLimitScript = redis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local current = tonumber(redis.call('GET', key) or '0')

	local ttl = redis.call('TTL', key)
	if ttl < 0 then
		ttl = window
	end

	if current < limit then
		redis.call('INCR', key)
		if ttl == window then
			redis.call('EXPIRE', key, window)
		end
		return {1, limit - current - 1, ttl}
	end
	return {0, 0, ttl}
`)

func NewSendLimiter(client *redis.Client, log *logger.Logger, limit int, window time.Duration) *SendLimiter {
	return &SendLimiter{client: client, log: log, limit: limit, window: window}
}

func (l *SendLimiter) allow(ctx context.Context, userID string) (*limitResult, error) {
	result, err := sendLimitScript.Run(ctx, l.client,
		[]string{"ratelimit:" + userID + ":send"},
		l.limit, int(l.window.Seconds()),
	).Result()
	if err != nil {
		return nil, err
	}

	values, ok := result.([]interface{})
	if !ok || len(values) < 3 {
		return nil, redis.Nil
	}

	return &limitResult{
		Allowed:   values[0].(int64) == 1,
		Remaining: int(values[1].(int64)),
		ResetIn:   time.Duration(values[2].(int64)) * time.Second,
	}, nil
}

// Middleware applies the quota to the authenticated user. Must run after
// JWTAuth.Middleware. Fails open if the limiter itself errors.
func (l *SendLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := GetUserID(r.Context())
		result, err := l.allow(r.Context(), userID.String())
		if err != nil {
			l.log.Warn(r.Context(), "send rate limiter unavailable, admitting request", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))

		if !result.Allowed {
			w.Header().Set("Retry-After", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
			writeError(w, http.StatusTooManyRequests, "Message rate limit exceeded. Please try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}
