package queue

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisQueue is a redis list drained with BRPOP, one list per job kind.
type RedisQueue struct {
	rdb *redis.Client
	key string
}

func NewRedisQueue(rdb *redis.Client, key string) *RedisQueue {
	return &RedisQueue{rdb: rdb, key: key}
}

func (q *RedisQueue) Enqueue(ctx context.Context, body []byte) error {
	return q.rdb.LPush(ctx, q.key, body).Err()
}

// Dequeue pops the oldest job. BRPOP runs with a short timeout in a loop so
// context cancellation is honored between blocking calls.
func (q *RedisQueue) Dequeue(ctx context.Context) ([]byte, error) {
	for {
		res, err := q.rdb.BRPop(ctx, 2*time.Second, q.key).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				default:
					continue
				}
			}

			return nil, err
		}

		// BRPOP returns [key, value]
		if len(res) != 2 {
			continue
		}

		return []byte(res[1]), nil
	}
}
