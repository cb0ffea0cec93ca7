package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"training-registration/internal/domain/model"
	"training-registration/internal/domain/ports/repository"
	"training-registration/internal/infra/metrics"
	red "training-registration/internal/infra/redis"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

var _ repository.RegistrationRepository = (*registrationRepoCacheDecorator)(nil)

const registrationListKey = "registrations:all"

// registrationRepoCacheDecorator serves non-transactional admin reads from
// redis. Writes invalidate the affected keys once the change is durable: right
// away outside a transaction, after commit inside one.
type registrationRepoCacheDecorator struct {
	inner repository.RegistrationRepository
	cache red.RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

func NewRegistrationRepoCacheDecorator(inner repository.RegistrationRepository, cache red.RedisClient, ttl time.Duration, logger *zerolog.Logger) repository.RegistrationRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	compLog := logger.With().Str("component", "RegistrationCache").Logger()
	return &registrationRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl, log: &compLog}
}

func registrationKey(id string) string { return fmt.Sprintf("registration:%s", id) }

func (d *registrationRepoCacheDecorator) Insert(ctx context.Context, tx repository.Tx, reg *model.Registration) error {
	if err := d.inner.Insert(ctx, tx, reg); err != nil {
		return err
	}
	d.invalidateAfterCommit(ctx, tx, registrationListKey)
	return nil
}

func (d *registrationRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Registration, error) {
	if tx != nil {
		return d.inner.FindByID(ctx, tx, id)
	}
	key := registrationKey(id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		var reg model.Registration
		if json.Unmarshal([]byte(val), &reg) == nil {
			metrics.IncCacheRequest("registration", metrics.CacheHit)
			return &reg, nil
		}
	} else if errors.Is(err, redis.Nil) {
		metrics.IncCacheRequest("registration", metrics.CacheMiss)
	} else {
		metrics.IncCacheRequest("registration", metrics.CacheError)
		d.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	reg, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(reg); err == nil {
		_ = d.cache.Set(ctx, key, b, d.ttl)
	}
	return reg, nil
}

func (d *registrationRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Registration, error) {
	if tx != nil {
		return d.inner.ListAll(ctx, tx)
	}
	val, err := d.cache.Get(ctx, registrationListKey)
	if err == nil {
		var list []*model.Registration
		if json.Unmarshal([]byte(val), &list) == nil {
			metrics.IncCacheRequest("registration_list", metrics.CacheHit)
			return list, nil
		}
	} else if errors.Is(err, redis.Nil) {
		metrics.IncCacheRequest("registration_list", metrics.CacheMiss)
	} else {
		metrics.IncCacheRequest("registration_list", metrics.CacheError)
		d.log.Warn().Err(err).Msg("cache read failed")
	}

	list, err := d.inner.ListAll(ctx, tx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(list); err == nil {
		_ = d.cache.Set(ctx, registrationListKey, b, d.ttl)
	}
	return list, nil
}

func (d *registrationRepoCacheDecorator) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.RegistrationStatus) error {
	if err := d.inner.UpdateStatus(ctx, tx, id, status); err != nil {
		return err
	}
	d.invalidateAfterCommit(ctx, tx, registrationKey(id), registrationListKey)
	return nil
}

// invalidateAfterCommit drops keys now, or when tx commits if ctx carries
// commit hooks. A rolled back transaction leaves the cache untouched.
func (d *registrationRepoCacheDecorator) invalidateAfterCommit(ctx context.Context, tx repository.Tx, keys ...string) {
	drop := func(ctx context.Context) { d.invalidate(ctx, keys...) }
	if tx != nil && repository.AfterCommit(ctx, drop) {
		return
	}
	drop(ctx)
}

func (d *registrationRepoCacheDecorator) invalidate(ctx context.Context, keys ...string) {
	if err := d.cache.Del(ctx, keys...); err != nil {
		d.log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}
