package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/eventpass/internal/domain"
)

const (
	generationKey = "eventpass:eventos:gen"
	eventosKeyFmt = "eventpass:eventos:all:%d"
)

// Generation identifies the listing snapshot a reader observed. Invalidate
// bumps it, so a snapshot read before an invalidation is written under a
// key nobody reads again.
type Generation int64

// UnknownGeneration is returned when the generation could not be read; SetAll ignores it.
const UnknownGeneration Generation = -1

// EventoCache holds the public evento listing. Failures degrade to cache misses.
type EventoCache interface {
	GetAll(ctx context.Context) ([]domain.Evento, Generation, bool)
	SetAll(ctx context.Context, gen Generation, eventos []domain.Evento)
	Invalidate(ctx context.Context)
}

type redisEventoCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewEventoCache returns a Redis-backed cache, or a no-op one when client is nil or ttl is zero.
func NewEventoCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) EventoCache {
	if client == nil || ttl <= 0 {
		return noopEventoCache{}
	}
	return &redisEventoCache{client: client, ttl: ttl, logger: logger}
}

func (c *redisEventoCache) generation(ctx context.Context) Generation {
	n, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0
		}
		c.logger.Warn("evento cache generation read failed", zap.Error(err))
		return UnknownGeneration
	}
	return Generation(n)
}

func (c *redisEventoCache) GetAll(ctx context.Context) ([]domain.Evento, Generation, bool) {
	gen := c.generation(ctx)
	if gen == UnknownGeneration {
		return nil, gen, false
	}
	raw, err := c.client.Get(ctx, fmt.Sprintf(eventosKeyFmt, gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("evento cache read failed", zap.Error(err))
		}
		return nil, gen, false
	}
	var eventos []domain.Evento
	if err := json.Unmarshal(raw, &eventos); err != nil {
		c.logger.Warn("evento cache entry corrupt", zap.Error(err))
		c.Invalidate(ctx)
		return nil, UnknownGeneration, false
	}
	return eventos, gen, true
}

// SetAll stores eventos for gen. A stale gen writes a key that is never read and expires with the TTL.
func (c *redisEventoCache) SetAll(ctx context.Context, gen Generation, eventos []domain.Evento) {
	if gen == UnknownGeneration || gen != c.generation(ctx) {
		return
	}
	raw, err := json.Marshal(eventos)
	if err != nil {
		c.logger.Warn("evento cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, fmt.Sprintf(eventosKeyFmt, gen), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("evento cache write failed", zap.Error(err))
	}
}

func (c *redisEventoCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.logger.Warn("evento cache invalidate failed", zap.Error(err))
	}
}

type noopEventoCache struct{}

func (noopEventoCache) GetAll(context.Context) ([]domain.Evento, Generation, bool) {
	return nil, UnknownGeneration, false
}
func (noopEventoCache) SetAll(context.Context, Generation, []domain.Evento) {}
func (noopEventoCache) Invalidate(context.Context)                          {}
