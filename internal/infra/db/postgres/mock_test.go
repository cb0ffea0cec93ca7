//go:build !integration

package postgres

import (
	"context"
	"time"

	"training-registration/internal/domain/model"
	"training-registration/internal/domain/ports/repository"
	red "training-registration/internal/infra/redis"

	"github.com/go-redis/redis/v8"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerRegistrationRepo mocks the database repository that the decorator wraps.
type mockInnerRegistrationRepo struct {
	InsertFunc       func(ctx context.Context, tx repository.Tx, r *model.Registration) error
	FindByIDFunc     func(ctx context.Context, tx repository.Tx, id string) (*model.Registration, error)
	ListAllFunc      func(ctx context.Context, tx repository.Tx) ([]*model.Registration, error)
	UpdateStatusFunc func(ctx context.Context, tx repository.Tx, id string, status model.RegistrationStatus) error
}

func (m *mockInnerRegistrationRepo) Insert(ctx context.Context, tx repository.Tx, r *model.Registration) error {
	return m.InsertFunc(ctx, tx, r)
}
func (m *mockInnerRegistrationRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Registration, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerRegistrationRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Registration, error) {
	return m.ListAllFunc(ctx, tx)
}
func (m *mockInnerRegistrationRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.RegistrationStatus) error {
	return m.UpdateStatusFunc(ctx, tx, id, status)
}

// mockRedisClient mocks our Redis client wrapper. Unset hooks behave like an
// empty cache.
type mockRedisClient struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc    func(ctx context.Context, keys ...string) error
	PingFunc   func(ctx context.Context) error
	IncrFunc   func(ctx context.Context, key string) (int64, error)
	ExpireFunc func(ctx context.Context, key string, expiration time.Duration) error
	CloseFunc  func() error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc == nil {
		return "", redis.Nil
	}
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc == nil {
		return nil
	}
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc == nil {
		return nil
	}
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Ping(ctx context.Context) error { return nil }
func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	if m.IncrFunc == nil {
		return 1, nil
	}
	return m.IncrFunc(ctx, key)
}
func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	if m.ExpireFunc == nil {
		return nil
	}
	return m.ExpireFunc(ctx, key, expiration)
}
func (m *mockRedisClient) Close() error { return nil }
