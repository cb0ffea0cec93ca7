package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"training-registration/internal/domain"
	"training-registration/internal/domain/model"
	"training-registration/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo stores form sessions as JSON with a sliding TTL.
type SessionRepo struct {
	client RedisClient
	ttl    time.Duration
}

func NewSessionRepo(client RedisClient, ttl time.Duration) *SessionRepo {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &SessionRepo{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("form_session:%s", id)
}

func (s *SessionRepo) Save(ctx context.Context, sess *model.FormSession) error {
	if sess == nil || sess.ID == "" {
		return domain.ErrInvalidArgument
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(sess.ID), data, s.ttl)
}

func (s *SessionRepo) Get(ctx context.Context, id string) (*model.FormSession, error) {
	data, err := s.client.Get(ctx, sessionKey(id))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var sess model.FormSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SessionRepo) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKey(id))
}
