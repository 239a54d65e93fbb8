package secondary

import (
	"context"

	"gitlab.com/codechallenge.net/internal/domain"
)

type TestCaseRepository interface {
	// FindByChallengeID returns the challenge's test cases in judging order
	FindByChallengeID(ctx context.Context, challengeID string) ([]domain.TestCase, error)

	// SaveMany replaces the test cases of the challenge they belong to
	SaveMany(ctx context.Context, testCases []domain.TestCase) error
}
