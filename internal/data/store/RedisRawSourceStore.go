package store

import (
	"context"
	"strings"

	"github.com/nurra/corpus-api/internal/config"
	"github.com/nurra/corpus-api/internal/data/redisStore"
	"github.com/nurra/corpus-api/pkg/logger_i"
)

const rawSourcePrefix = "rawsource:"

// RedisRawSourceStore holds raw fallback source documents as named blobs.
// Names are matched case-insensitively, like the original bucket listing.
type RedisRawSourceStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisRawSourceStore(ctx context.Context) *RedisRawSourceStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisRawSourceStore)
	if inner == nil {
		return nil
	}
	return &RedisRawSourceStore{
		store:  inner,
		logger: logger_i.NewLogger("RawSourceStore"),
	}
}

func (s *RedisRawSourceStore) Put(ctx context.Context, name string, content string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "source", name)
	err := s.store.Set(ctx, rawSourceKey(name), content, 0)
	if err != nil {
		log.Error("Failed to store raw source", "error", err)
		return err
	}
	log.Debug("Stored raw source", "bytes", len(content))
	return nil
}

func (s *RedisRawSourceStore) Download(ctx context.Context, name string) (string, bool, error) {
	content, err := s.store.Get(ctx, rawSourceKey(name))
	if s.store.IsNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return content, true, nil
}

func rawSourceKey(name string) string {
	return rawSourcePrefix + strings.ToLower(name)
}

func TestRawSourceStore(store *redisStore.Store) *RedisRawSourceStore {
	return &RedisRawSourceStore{
		store:  store,
		logger: logger_i.NewLogger("test raw sources"),
	}
}
