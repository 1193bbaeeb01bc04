package notifiers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-user-activation/internal/models"
)

// RedisNotifier appends activation codes to a Redis stream consumed by a
// mail worker.
type RedisNotifier struct {
	client redis.Cmdable
	stream string
}

func NewRedisNotifier(client redis.Cmdable, stream string) *RedisNotifier {
	return &RedisNotifier{client: client, stream: stream}
}

// SendActivationCode adds an entry with email, code and expires_at fields.
func (r *RedisNotifier) SendActivationCode(ctx context.Context, n models.ActivationNotification) error {
	return r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]any{
			"email":      n.Email,
			"code":       n.Code,
			"expires_at": n.ExpiresAt.UTC().Format(time.RFC3339Nano),
		},
	}).Err()
}
