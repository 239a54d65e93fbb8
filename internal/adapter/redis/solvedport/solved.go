package solvedport

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"gitlab.com/codechallenge.net/internal/core/ports/primary"
	"gitlab.com/codechallenge.net/internal/core/ports/secondary"
)

const solvedKeyPrefix = "solved:"

var _ secondary.SolvedTracker = (*SolvedRepository)(nil)

// SolvedRepository keeps one marker key per solved (user, challenge) pair
type SolvedRepository struct {
	redisClient *redis.Client
	logger      primary.Logger
}

// NewSolvedRepository creates a new Redis solved marker repository
func NewSolvedRepository(redisClient *redis.Client, logger primary.Logger) *SolvedRepository {
	return &SolvedRepository{
		redisClient: redisClient,
		logger:      logger,
	}
}

func solvedKey(userID, challengeID string) string {
	return fmt.Sprintf("%s%s:%s", solvedKeyPrefix, userID, challengeID)
}

// MarkSolved sets the marker with SETNX; only the call that creates it gets true
func (r *SolvedRepository) MarkSolved(ctx context.Context, userID, challengeID string) (bool, error) {
	created, err := r.redisClient.SetNX(ctx, solvedKey(userID, challengeID), 1, 0).Result()
	if err != nil {
		r.logger.Error("Failed to set solved marker", "userId", userID, "challengeId", challengeID, "error", err)
		return false, fmt.Errorf("failed to set solved marker: %w", err)
	}
	return created, nil
}

// IsSolved reports whether the pair has been marked
func (r *SolvedRepository) IsSolved(ctx context.Context, userID, challengeID string) (bool, error) {
	n, err := r.redisClient.Exists(ctx, solvedKey(userID, challengeID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check solved marker: %w", err)
	}
	return n == 1, nil
}
