// Package ratelimit throttles chat requests per user with a fixed-window
// counter in redis.
package ratelimit

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter allows up to limit requests per user within each window. A
// non-positive limit disables limiting entirely.
type Limiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func New(rdb *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: limit, window: window}
}

// Allow reports whether the user may make another request in the current
// window. Redis failures are logged and fail open: a broken limiter must
// not take the chat endpoint down with it.
func (l *Limiter) Allow(ctx context.Context, userID int64) bool {
	if l.limit <= 0 {
		return true
	}

	bucket := time.Now().Unix() / int64(l.window.Seconds())
	key := fmt.Sprintf("ratelimit:chat:%d:%d", userID, bucket)

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("Rate limit check failed for user %d: %v", userID, err)
		return true
	}
	if count == 1 {
		// First hit in the window owns setting the expiry.
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			log.Printf("Rate limit expire failed for user %d: %v", userID, err)
		}
	}
	return count <= int64(l.limit)
}
