package memory

import (
	"context"
	"sort"
	"sync"

	"gitlab.com/codechallenge.net/internal/core/ports/secondary"
	"gitlab.com/codechallenge.net/internal/domain"
)

var _ secondary.TestCaseRepository = (*TestCaseRepository)(nil)

// TestCaseRepository keeps test cases per challenge in memory
type TestCaseRepository struct {
	mu     sync.RWMutex
	byChal map[string][]domain.TestCase
}

func NewTestCaseRepository() *TestCaseRepository {
	return &TestCaseRepository{byChal: make(map[string][]domain.TestCase)}
}

// FindByChallengeID returns a copy of the challenge's cases ordered by ordinal
func (r *TestCaseRepository) FindByChallengeID(_ context.Context, challengeID string) ([]domain.TestCase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cases := r.byChal[challengeID]
	out := make([]domain.TestCase, len(cases))
	copy(out, cases)
	return out, nil
}

// SaveMany replaces the cases of every challenge present in testCases
func (r *TestCaseRepository) SaveMany(_ context.Context, testCases []domain.TestCase) error {
	grouped := make(map[string][]domain.TestCase)
	for _, tc := range testCases {
		grouped[tc.ChallengeID] = append(grouped[tc.ChallengeID], tc)
	}
	for _, cases := range grouped {
		sort.SliceStable(cases, func(i, j int) bool { return cases[i].Ordinal < cases[j].Ordinal })
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, cases := range grouped {
		r.byChal[id] = cases
	}
	return nil
}
