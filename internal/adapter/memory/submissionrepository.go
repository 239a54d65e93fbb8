package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"gitlab.com/codechallenge.net/internal/core/ports/secondary"
	"gitlab.com/codechallenge.net/internal/domain"
	"gitlab.com/codechallenge.net/internal/static/errs"
)

var _ secondary.SubmissionRepository = (*SubmissionRepository)(nil)

type SubmissionRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]domain.Submission
	seq   map[uuid.UUID]int
	next  int
}

func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{
		items: make(map[uuid.UUID]domain.Submission),
		seq:   make(map[uuid.UUID]int),
	}
}

func (r *SubmissionRepository) Save(_ context.Context, submission domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seq[submission.ID]; !ok {
		r.next++
		r.seq[submission.ID] = r.next
	}
	r.items[submission.ID] = submission
	return nil
}

func (r *SubmissionRepository) UpdateStatus(_ context.Context, id uuid.UUID, status domain.SubmissionStatus, passed bool, executionTime, memoryUsage *int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	if !ok {
		return errs.ErrSubmissionNotFound
	}
	r.items[id] = s.WithStatus(status, passed).WithUsage(executionTime, memoryUsage)
	return nil
}

func (r *SubmissionRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *SubmissionRepository) HasPassed(_ context.Context, userID, challengeID string, exclude uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.Submission, 0, len(r.items))
	for _, s := range r.items {
		all = append(all, s)
	}
	return domain.PassedBefore(userID, challengeID, exclude, all), nil
}

// FindRecentByUserAndChallenge returns the newest submissions first
func (r *SubmissionRepository) FindRecentByUserAndChallenge(_ context.Context, userID, challengeID string, limit int) ([]domain.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Submission
	for _, s := range r.items {
		if s.UserID == userID && s.ChallengeID == challengeID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.seq[out[i].ID] > r.seq[out[j].ID]
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
