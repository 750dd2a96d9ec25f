// Package locker защищает сметающие проходы от наложения: если cron
// сработал повторно, пока предыдущий проход еще идет, новый запуск
// пропускается. Замок совещательный и с TTL, семантику самого прохода он
// не меняет.
package locker

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type SweepLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New создает замок; nil-клиент выключает защиту (замок всегда свободен)
func New(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SweepLocker {
	return &SweepLocker{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// NewRedisClient создает клиент Redis и проверяет соединение
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// Acquire пытается занять замок прохода. При недоступном Redis проход
// разрешается: защита от наложения важнее недоступности, но не наоборот.
func (l *SweepLocker) Acquire(ctx context.Context, sweep string) bool {
	if l.client == nil {
		return true
	}

	ok, err := l.client.SetNX(ctx, key(sweep), time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		l.logger.Warn("Redis недоступен, проход запускается без замка",
			zap.Error(err),
			zap.String("sweep", sweep),
		)
		return true
	}

	if !ok {
		l.logger.Info("Проход уже выполняется, повторный запуск пропущен",
			zap.String("sweep", sweep),
		)
	}
	return ok
}

// Release снимает замок; ошибка только логируется - TTL доснимет его сам
func (l *SweepLocker) Release(ctx context.Context, sweep string) {
	if l.client == nil {
		return
	}

	if err := l.client.Del(ctx, key(sweep)).Err(); err != nil {
		l.logger.Warn("Не удалось снять замок прохода",
			zap.Error(err),
			zap.String("sweep", sweep),
		)
	}
}

func key(sweep string) string {
	return "sweep_lock:" + sweep
}
