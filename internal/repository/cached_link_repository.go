package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"shortlink-be/internal/cache"
	"shortlink-be/internal/entities"
)

const (
	shortCodeKeyFormat = "link:code:%s"
	targetURLKeyFormat = "link:target:%s"
)

type cachedLinkRepository struct {
	LinkRepository
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedLinkRepository wraps a link repository with a read-through cache.
// Links never change once created, so cached hits stay valid until they expire.
// Misses are not cached, and cache failures fall through to the wrapped store.
func NewCachedLinkRepository(next LinkRepository, c cache.Cache, ttl time.Duration, logger *zap.Logger) LinkRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedLinkRepository{
		LinkRepository: next,
		cache:          c,
		ttl:            ttl,
		logger:         logger,
	}
}

func (r *cachedLinkRepository) FindByShortCode(ctx context.Context, shortCode string) (*entities.Link, error) {
	key := fmt.Sprintf(shortCodeKeyFormat, shortCode)
	if link := r.get(ctx, key); link != nil {
		return link, nil
	}

	link, err := r.LinkRepository.FindByShortCode(ctx, shortCode)
	if err != nil || link == nil {
		return link, err
	}
	r.store(ctx, link)
	return link, nil
}

func (r *cachedLinkRepository) FindByTargetURL(ctx context.Context, targetURL string) (*entities.Link, error) {
	key := fmt.Sprintf(targetURLKeyFormat, targetURL)
	if link := r.get(ctx, key); link != nil {
		return link, nil
	}

	link, err := r.LinkRepository.FindByTargetURL(ctx, targetURL)
	if err != nil || link == nil {
		return link, err
	}
	r.store(ctx, link)
	return link, nil
}

func (r *cachedLinkRepository) Create(ctx context.Context, targetURL, shortCode string) (*entities.Link, error) {
	link, err := r.LinkRepository.Create(ctx, targetURL, shortCode)
	if err != nil {
		return nil, err
	}
	r.store(ctx, link)
	return link, nil
}

func (r *cachedLinkRepository) get(ctx context.Context, key string) *entities.Link {
	var link entities.Link
	if err := r.cache.GetJSON(ctx, key, &link); err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			r.logger.Warn("link cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	return &link
}

func (r *cachedLinkRepository) store(ctx context.Context, link *entities.Link) {
	for _, key := range []string{
		fmt.Sprintf(shortCodeKeyFormat, link.ShortCode),
		fmt.Sprintf(targetURLKeyFormat, link.TargetURL),
	} {
		if err := r.cache.SetJSON(ctx, key, link, r.ttl); err != nil {
			r.logger.Warn("link cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
}
