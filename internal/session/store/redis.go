package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"helptoheat/internal/questionnaire"
	"helptoheat/internal/session/models"
	"helptoheat/pkg/platform/sentinel"
)

const keyPrefix = "helptoheat:answers:"

// RedisStore keeps each session's answers as a JSON list. The list expires
// ttl after the last write.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedis(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(sessionID uuid.UUID) string {
	return keyPrefix + sessionID.String()
}

func (s *RedisStore) Append(ctx context.Context, answer *models.Answer) error {
	payload, err := json.Marshal(answer)
	if err != nil {
		return fmt.Errorf("marshal answer: %w", err)
	}
	key := sessionKey(answer.SessionID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, payload)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append answer: %w", err)
	}
	return nil
}

func (s *RedisStore) Latest(ctx context.Context, sessionID uuid.UUID, page questionnaire.Page) (*models.Answer, error) {
	answers, err := s.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for i := len(answers) - 1; i >= 0; i-- {
		if answers[i].PageName == page {
			return answers[i], nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// List returns answers in append order, which is creation order.
func (s *RedisStore) List(ctx context.Context, sessionID uuid.UUID) ([]*models.Answer, error) {
	raw, err := s.client.LRange(ctx, sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	out := make([]*models.Answer, 0, len(raw))
	for _, item := range raw {
		var answer models.Answer
		if err := json.Unmarshal([]byte(item), &answer); err != nil {
			return nil, fmt.Errorf("unmarshal answer: %w", err)
		}
		out = append(out, &answer)
	}
	return out, nil
}
