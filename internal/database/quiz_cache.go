package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/coursequiz/internal/config"
	"github.com/stemsi/coursequiz/internal/model"
)

// RedisQuizCache keeps fetched quizzes in Redis for a short TTL so that
// repeated views of the same course don't refetch from the service.
type RedisQuizCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisQuizCache creates a RedisQuizCache.
func NewRedisQuizCache(rdb *redis.Client, ttl time.Duration) *RedisQuizCache {
	return &RedisQuizCache{rdb: rdb, ttl: ttl}
}

// Get returns the quiz cached for courseID under scope. The bool is false
// on a miss.
func (c *RedisQuizCache) Get(ctx context.Context, scope, courseID string) (*model.Quiz, bool, error) {
	raw, err := c.rdb.Get(ctx, config.CacheKey.QuizKey(courseID, scope)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached quiz: %w", err)
	}

	var quiz model.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		// Corrupt entry: treat as a miss and let the caller overwrite it.
		return nil, false, nil
	}
	return &quiz, true, nil
}

// Set stores quiz under its course ID and scope, and records the scope so
// Invalidate can find it.
func (c *RedisQuizCache) Set(ctx context.Context, scope string, quiz *model.Quiz) error {
	raw, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}

	scopesKey := config.CacheKey.QuizScopesKey(quiz.CourseID)
	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, config.CacheKey.QuizKey(quiz.CourseID, scope), raw, c.ttl)
		pipe.SAdd(ctx, scopesKey, scope)
		pipe.Expire(ctx, scopesKey, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set cached quiz: %w", err)
	}
	return nil
}

// Invalidate drops every cached copy of courseID's quiz.
func (c *RedisQuizCache) Invalidate(ctx context.Context, courseID string) error {
	scopesKey := config.CacheKey.QuizScopesKey(courseID)
	scopes, err := c.rdb.SMembers(ctx, scopesKey).Result()
	if err != nil {
		return fmt.Errorf("list cached quiz scopes: %w", err)
	}

	keys := make([]string, 0, len(scopes)+1)
	for _, scope := range scopes {
		keys = append(keys, config.CacheKey.QuizKey(courseID, scope))
	}
	keys = append(keys, scopesKey)

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate cached quiz: %w", err)
	}
	return nil
}
