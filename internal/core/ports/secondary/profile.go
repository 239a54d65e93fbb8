package secondary

import (
	"context"
	"time"

	"gitlab.com/codechallenge.net/internal/domain"
)

type ProfileRepository interface {
	// FindByID returns nil when the user has no profile yet
	FindByID(ctx context.Context, userID string) (*domain.Profile, error)
	Save(ctx context.Context, profile domain.Profile) error
	All(ctx context.Context) ([]domain.Profile, error)
}

// SolvedTracker records which challenges a user has solved
type SolvedTracker interface {
	// MarkSolved returns true only for the call that first marks the pair
	MarkSolved(ctx context.Context, userID, challengeID string) (bool, error)
}

// Locker serializes work on a shared key across requests
type Locker interface {
	// Lock blocks until the key is held or ctx is done. The returned func releases it.
	Lock(ctx context.Context, key string) (func(), error)
}

// RankingCache holds the last computed leaderboard
type RankingCache interface {
	// Get returns nil on a cache miss
	Get(ctx context.Context) (*domain.Ranking, error)
	Set(ctx context.Context, ranking domain.Ranking, ttl time.Duration) error
}
