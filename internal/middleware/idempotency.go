package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	idempotencyLockTTL   = 30 * time.Second
	idempotencyResultTTL = 24 * time.Hour
)

type cachedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response of a successful POST carrying the
// same Idempotency-Key for the same user and request path. The path carries
// the resource id, so one key reused across resources never crosses over. A
// second request that
// arrives while the first is still running gets 409.
func Idempotency(rdb *redis.Client, logger ...*zap.Logger) gin.HandlerFunc {
	l := zap.L().Named("middleware.idempotency")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("middleware.idempotency")
	}

	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost || rdb == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.Request.URL.Path, c.GetString("user_id"), idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached cachedResponse
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				c.Header("Idempotent-Replayed", "true")
				c.Data(cached.Status, "application/json; charset=utf-8", cached.Body)
				c.Abort()
				return
			}
		} else if err != redis.Nil {
			// Redis outage degrades to non-idempotent handling.
			l.Warn("idempotency cache lookup failed", zap.Error(err))
			c.Next()
			return
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			l.Warn("idempotency lock failed", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING", "A request with this Idempotency-Key is still being processed", nil)
			c.Abort()
			return
		}
		defer rdb.Del(ctx, lockKey)

		recorder := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder

		c.Next()

		status := recorder.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}

		payload, err := json.Marshal(cachedResponse{Status: status, Body: recorder.body.Bytes()})
		if err != nil {
			return
		}
		if err := rdb.Set(ctx, cacheKey, payload, idempotencyResultTTL).Err(); err != nil {
			l.Warn("idempotency cache store failed", zap.Error(err))
		}
	}
}
