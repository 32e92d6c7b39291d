package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/memecontest/backend/src/domain"
	"github.com/rs/zerolog"
)

const DefaultMemeListKey = "memes:latest"

// CachedMemeRepository keeps the full meme list in redis for ttl.
// Lists are stored under "<key>:<generation>" and every insert bumps the
// generation, so a list read before an insert can never be served after it.
// Redis failures are logged and never surface to the caller.
type CachedMemeRepository struct {
	next   MemeRepository
	redis  *redis.Client
	key    string
	genKey string
	ttl    time.Duration
}

func NewCachedMemeRepository(next MemeRepository, rdb *redis.Client, key string, ttl time.Duration) *CachedMemeRepository {
	if key == "" {
		key = DefaultMemeListKey
	}
	return &CachedMemeRepository{
		next:   next,
		redis:  rdb,
		key:    key,
		genKey: key + ":gen",
		ttl:    ttl,
	}
}

func (r *CachedMemeRepository) logger(ctx context.Context) *zerolog.Logger {
	logger := zerolog.Ctx(ctx).With().Str("component", "meme_cache").Logger()
	return &logger
}

// CreateMeme writes through to the store and moves the cache to a new generation
func (r *CachedMemeRepository) CreateMeme(ctx context.Context, meme *domain.Meme) error {
	if err := r.next.CreateMeme(ctx, meme); err != nil {
		return err
	}

	if err := r.redis.Incr(ctx, r.genKey).Err(); err != nil {
		r.logger(ctx).Warn().Err(err).Str("key", r.genKey).Msg("failed to bump meme list generation")
	}
	return nil
}

func (r *CachedMemeRepository) ListMemes(ctx context.Context) ([]*domain.Meme, error) {
	// the generation must be read before the store is queried
	gen, err := r.generation(ctx)
	if err != nil {
		r.logger(ctx).Warn().Err(err).Str("key", r.genKey).Msg("failed to read meme list generation")
		return r.next.ListMemes(ctx)
	}
	listKey := r.listKey(gen)

	if memes, err := r.getCached(ctx, listKey); err == nil {
		return memes, nil
	} else if err != redis.Nil {
		r.logger(ctx).Warn().Err(err).Str("key", listKey).Msg("failed to read meme list cache")
	}

	memes, err := r.next.ListMemes(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(memes)
	if err != nil {
		r.logger(ctx).Warn().Err(err).Msg("failed to marshal meme list")
		return memes, nil
	}
	if err := r.redis.Set(ctx, listKey, data, r.ttl).Err(); err != nil {
		r.logger(ctx).Warn().Err(err).Str("key", listKey).Msg("failed to write meme list cache")
	}

	return memes, nil
}

// generation returns the current list generation, 0 before the first insert
func (r *CachedMemeRepository) generation(ctx context.Context) (int64, error) {
	gen, err := r.redis.Get(ctx, r.genKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

func (r *CachedMemeRepository) listKey(gen int64) string {
	return fmt.Sprintf("%s:%d", r.key, gen)
}

func (r *CachedMemeRepository) getCached(ctx context.Context, key string) ([]*domain.Meme, error) {
	data, err := r.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	memes := make([]*domain.Meme, 0)
	if err := json.Unmarshal(data, &memes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meme list: %w", err)
	}
	return memes, nil
}
