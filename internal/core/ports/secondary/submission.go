package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/codechallenge.net/internal/domain"
)

// SubmissionRepository defines the interface for storing and retrieving submissions
type SubmissionRepository interface {
	// Save persists a new submission
	Save(ctx context.Context, submission domain.Submission) error

	// UpdateStatus moves a submission to a new status, recording usage when known
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus, passed bool, executionTime, memoryUsage *int64) error

	// FindByID returns nil when the submission does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)

	// HasPassed reports whether the user has any passing submission on the
	// challenge other than exclude, over the full history
	HasPassed(ctx context.Context, userID, challengeID string, exclude uuid.UUID) (bool, error)

	// FindRecentByUserAndChallenge returns the newest submissions first
	FindRecentByUserAndChallenge(ctx context.Context, userID, challengeID string, limit int) ([]domain.Submission, error)
}
