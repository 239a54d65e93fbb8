package ranking

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/codechallenge.net/internal/core/ports/primary"
	"gitlab.com/codechallenge.net/internal/core/ports/secondary"
	"gitlab.com/codechallenge.net/internal/domain"
)

const DefaultCacheTTL = 30 * time.Second

var _ IRankingService = (*RankingService)(nil)

type RankingService struct {
	profiles secondary.ProfileRepository
	cache    secondary.RankingCache
	ttl      time.Duration
	logger   primary.Logger
	now      func() time.Time
}

// NewRankingService creates a ranking service. cache may be nil.
func NewRankingService(profiles secondary.ProfileRepository, cache secondary.RankingCache, ttl time.Duration, logger primary.Logger) *RankingService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RankingService{
		profiles: profiles,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *RankingService) GetRanking(ctx context.Context) (*domain.Ranking, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("Failed to read ranking cache", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	profiles, err := s.profiles.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	ranking := domain.BuildRanking(profiles, s.now().UTC())

	if s.cache != nil {
		if err := s.cache.Set(ctx, ranking, s.ttl); err != nil {
			s.logger.Warn("Failed to write ranking cache", "error", err)
		}
	}
	return &ranking, nil
}
