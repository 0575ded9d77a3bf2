// Package cache keeps in-progress quiz sessions in Redis for deployments
// that run more than one server process. Redis expires the keys itself,
// so Prune has nothing to do.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/adaptquiz/internal/store"
)

const DefaultPrefix = "adaptquiz:quiz:"

// QuizSessions implements store.QuizSessionRepo on Redis hashes, one key
// per session token.
type QuizSessions struct {
	client *redis.Client
	prefix string
}

var _ store.QuizSessionRepo = (*QuizSessions)(nil)

func NewQuizSessions(client *redis.Client, prefix string) *QuizSessions {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &QuizSessions{client: client, prefix: prefix}
}

// Dial parses a redis:// URL and checks the server answers.
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (q *QuizSessions) key(token string) string {
	return q.prefix + token
}

func (q *QuizSessions) Load(ctx context.Context, token string, now time.Time) (*store.QuizSession, error) {
	fields, err := q.client.HGetAll(ctx, q.key(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("load quiz session: %w", err)
	}
	if len(fields) == 0 {
		return nil, store.ErrNotFound
	}

	userID, err := strconv.ParseInt(fields["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("load quiz session: bad user_id: %w", err)
	}
	expires, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("load quiz session: bad expires_at: %w", err)
	}
	// Key expiry has second granularity.
	if expires <= now.UnixMilli() {
		return nil, store.ErrNotFound
	}
	return &store.QuizSession{
		Token:     token,
		UserID:    userID,
		State:     []byte(fields["state"]),
		ExpiresAt: time.UnixMilli(expires),
	}, nil
}

func (q *QuizSessions) Save(ctx context.Context, s store.QuizSession) error {
	key := q.key(s.Token)
	_, err := q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			"user_id", s.UserID,
			"state", string(s.State),
			"expires_at", s.ExpiresAt.UnixMilli(),
		)
		pipe.ExpireAt(ctx, key, s.ExpiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save quiz session: %w", err)
	}
	return nil
}

func (q *QuizSessions) Delete(ctx context.Context, token string) error {
	if err := q.client.Del(ctx, q.key(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete quiz session: %w", err)
	}
	return nil
}

func (q *QuizSessions) Prune(context.Context, time.Time) (int64, error) {
	return 0, nil
}
