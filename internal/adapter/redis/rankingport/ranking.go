package rankingport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.com/codechallenge.net/internal/core/ports/primary"
	"gitlab.com/codechallenge.net/internal/core/ports/secondary"
	"gitlab.com/codechallenge.net/internal/domain"
)

const rankingKey = "ranking:current"

var _ secondary.RankingCache = (*RankingCache)(nil)

// RankingCache stores the leaderboard snapshot as JSON with an expiry
type RankingCache struct {
	redisClient *redis.Client
	logger      primary.Logger
}

func NewRankingCache(redisClient *redis.Client, logger primary.Logger) *RankingCache {
	return &RankingCache{
		redisClient: redisClient,
		logger:      logger,
	}
}

func (c *RankingCache) Get(ctx context.Context) (*domain.Ranking, error) {
	data, err := c.redisClient.Get(ctx, rankingKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ranking: %w", err)
	}

	var ranking domain.Ranking
	if err := json.Unmarshal(data, &ranking); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ranking: %w", err)
	}
	return &ranking, nil
}

func (c *RankingCache) Set(ctx context.Context, ranking domain.Ranking, ttl time.Duration) error {
	data, err := json.Marshal(ranking)
	if err != nil {
		return fmt.Errorf("failed to marshal ranking: %w", err)
	}
	if err := c.redisClient.Set(ctx, rankingKey, data, ttl).Err(); err != nil {
		c.logger.Error("Failed to save ranking", "error", err)
		return fmt.Errorf("failed to save ranking: %w", err)
	}
	return nil
}
