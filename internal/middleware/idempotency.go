package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayHeader      = "Idempotent-Replay"
	idempotencyTTL    = 24 * time.Hour
	idempotencyPrefix = "idem:"
)

// storedReply is the recorded outcome of a keyed mutating request. Assignment
// and trip-lifecycle POSTs are not safe to repeat, so a retried request with
// the same key gets the first outcome back instead of running again.
type storedReply struct {
	StatusCode  int             `json:"status_code"`
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
}

// replyRecorder tees the response body so it can be stored after the
// handler runs.
type replyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (r *replyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// IdempotencyMiddleware replays the stored response for requests that carry
// an Idempotency-Key already seen. Requests without the header pass through
// untouched, as do reads.
func IdempotencyMiddleware(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(idempotencyHeader)
		if key == "" || !mutating(c.Request.Method) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		storeKey := idempotencyPrefix + key

		reply, err := loadReply(ctx, redisClient, storeKey)
		if err != nil && err != redis.Nil {
			// Store unreachable: serve the request rather than fail it.
			c.Next()
			return
		}
		if reply != nil {
			c.Header(replayHeader, "true")
			c.Data(reply.StatusCode, reply.ContentType, reply.Body)
			c.Abort()
			return
		}

		rec := &replyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec

		c.Next()

		// 5xx outcomes are not pinned; the client may retry those for real.
		status := c.Writer.Status()
		if status >= 200 && status < 500 {
			_ = saveReply(ctx, redisClient, storeKey, &storedReply{
				StatusCode:  status,
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			})
		}
	}
}

func loadReply(ctx context.Context, client *redis.Client, key string) (*storedReply, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var reply storedReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func saveReply(ctx context.Context, client *redis.Client, key string, reply *storedReply) error {
	data, err := json.Marshal(reply)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, idempotencyTTL).Err()
}
