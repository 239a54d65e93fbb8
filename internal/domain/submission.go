package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus represents the lifecycle state of a submission
type SubmissionStatus string

const (
	SubmissionStatusPending SubmissionStatus = "PENDING"
	SubmissionStatusPassed  SubmissionStatus = "PASSED"
	SubmissionStatusFailed  SubmissionStatus = "FAILED"
)

// IsTerminal reports whether judging has finished for the status
func (s SubmissionStatus) IsTerminal() bool {
	return s == SubmissionStatusPassed || s == SubmissionStatusFailed
}

// Submission represents a code submission against a challenge.
// Values are never mutated in place; use WithStatus to derive the next state.
type Submission struct {
	ID            uuid.UUID        `db:"id" json:"id"`
	Code          string           `db:"code" json:"code"`
	ChallengeID   string           `db:"challenge_id" json:"challengeId"`
	UserID        string           `db:"user_id" json:"userId"`
	Language      string           `db:"language" json:"language"`
	Status        SubmissionStatus `db:"status" json:"status"`
	Passed        bool             `db:"passed" json:"passed"`
	ExecutionTime *int64           `db:"execution_time" json:"executionTime,omitempty"`
	MemoryUsage   *int64           `db:"memory_usage" json:"memoryUsage,omitempty"`
	CreatedAt     time.Time        `db:"created_at" json:"createdAt"`
}

// NewSubmission creates a new pending submission
func NewSubmission(code, challengeID, userID, language string, createdAt time.Time) (Submission, error) {
	if strings.TrimSpace(code) == "" {
		return Submission{}, errors.New("submission code is empty")
	}
	if challengeID == "" {
		return Submission{}, errors.New("submission challenge id is missing")
	}
	if userID == "" {
		return Submission{}, errors.New("submission user id is missing")
	}
	return Submission{
		ID:          uuid.New(),
		Code:        code,
		ChallengeID: challengeID,
		UserID:      userID,
		Language:    language,
		Status:      SubmissionStatusPending,
		CreatedAt:   createdAt,
	}, nil
}

// WithStatus returns a copy of the submission moved to the given status
func (s Submission) WithStatus(status SubmissionStatus, passed bool) Submission {
	s.Status = status
	s.Passed = passed
	return s
}

// WithUsage returns a copy of the submission carrying execution time and memory
func (s Submission) WithUsage(executionTime, memoryUsage *int64) Submission {
	s.ExecutionTime = executionTime
	s.MemoryUsage = memoryUsage
	return s
}

type SubmissionTable struct {
	ID            string
	Code          string
	ChallengeID   string
	UserID        string
	Language      string
	Status        string
	Passed        string
	ExecutionTime string
	MemoryUsage   string
	CreatedAt     string
}

func GetSubmissionTable() SubmissionTable {
	return SubmissionTable{
		ID:            "id",
		Code:          "code",
		ChallengeID:   "challenge_id",
		UserID:        "user_id",
		Language:      "language",
		Status:        "status",
		Passed:        "passed",
		ExecutionTime: "execution_time",
		MemoryUsage:   "memory_usage",
		CreatedAt:     "created_at",
	}
}

func (SubmissionTable) TableName() string {
	return "submissions"
}
