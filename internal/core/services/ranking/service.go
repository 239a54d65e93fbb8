package ranking

import (
	"context"

	"gitlab.com/codechallenge.net/internal/domain"
)

type IRankingService interface {
	// GetRanking returns the leaderboard, possibly from cache
	GetRanking(ctx context.Context) (*domain.Ranking, error)
}
