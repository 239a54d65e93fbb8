package submission

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/codechallenge.net/internal/diff"
	"gitlab.com/codechallenge.net/internal/domain"
)

// SubmitInput is a request to judge code against a challenge
type SubmitInput struct {
	Code        string `json:"code"`
	ChallengeID string `json:"challengeId"`
	UserID      string `json:"userId"`
	Language    string `json:"language"`
}

// CaseDiff is the diff shown for a failing visible case
type CaseDiff struct {
	Line   []diff.Segment    `json:"line"`
	Inline []diff.InlineLine `json:"inline,omitempty"`
}

// CaseView is a judged test case as returned to the caller.
// Hidden cases never produce a CaseView.
type CaseView struct {
	Input    string    `json:"input"`
	Expected string    `json:"expected"`
	Actual   string    `json:"actual"`
	Passed   bool      `json:"passed"`
	Error    string    `json:"error,omitempty"`
	Diff     *CaseDiff `json:"diff,omitempty"`
}

// SubmitResult is the public outcome of a submission
type SubmitResult struct {
	SubmissionID    uuid.UUID               `json:"submissionId"`
	Status          domain.SubmissionStatus `json:"status"`
	Passed          bool                    `json:"passed"`
	ExecutionTimeMs *int64                  `json:"executionTimeMs,omitempty"`
	MemoryKb        *int64                  `json:"memoryKb,omitempty"`
	Cases           []CaseView              `json:"cases"`
}

type ISubmissionService interface {
	// Submit judges the code against every test case of the challenge
	Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error)

	// GetSubmission retrieves a stored submission by ID
	GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, error)

	// ListSubmissions returns a user's newest submissions on a challenge
	ListSubmissions(ctx context.Context, userID, challengeID string, limit int) ([]domain.Submission, error)
}
