package submission

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"gitlab.com/codechallenge.net/internal/core/ports/primary"
	"gitlab.com/codechallenge.net/internal/core/ports/secondary"
	"gitlab.com/codechallenge.net/internal/core/services/evaluation"
	"gitlab.com/codechallenge.net/internal/diff"
	"gitlab.com/codechallenge.net/internal/domain"
	"gitlab.com/codechallenge.net/internal/static/errs"
)

const DefaultHistoryLimit = 100

// Recorder receives submission metrics
type Recorder interface {
	ObserveSubmission(status string, d time.Duration)
}

type Option func(*SubmissionService)

// WithEvaluationStrategy adds a tolerant comparison on top of the judge verdict
func WithEvaluationStrategy(strategy evaluation.IStrategy) Option {
	return func(s *SubmissionService) {
		s.strategy = strategy
	}
}

// WithProfileRepository enables profile statistics
func WithProfileRepository(profiles secondary.ProfileRepository) Option {
	return func(s *SubmissionService) {
		s.profiles = profiles
	}
}

// WithSolvedTracker decides first-time solves with a solved marker instead of
// scanning submission history.
func WithSolvedTracker(tracker secondary.SolvedTracker) Option {
	return func(s *SubmissionService) {
		s.solved = tracker
	}
}

// WithLocker serializes profile updates per user
func WithLocker(locker secondary.Locker) Option {
	return func(s *SubmissionService) {
		s.locker = locker
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(s *SubmissionService) {
		s.recorder = recorder
	}
}

// WithHistoryLimit caps how many submissions ListSubmissions returns
func WithHistoryLimit(limit int) Option {
	return func(s *SubmissionService) {
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *SubmissionService) {
		if now != nil {
			s.now = now
		}
	}
}

var _ ISubmissionService = (*SubmissionService)(nil)

// SubmissionService runs the evaluation pipeline for one submission at a time
type SubmissionService struct {
	testCases    secondary.TestCaseRepository
	submissions  secondary.SubmissionRepository
	executor     secondary.CodeExecutor
	logger       primary.Logger
	strategy     evaluation.IStrategy
	profiles     secondary.ProfileRepository
	solved       secondary.SolvedTracker
	locker       secondary.Locker
	recorder     Recorder
	historyLimit int
	now          func() time.Time

	// guards profile updates when no Locker is configured
	profileMu sync.Mutex
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	testCases secondary.TestCaseRepository,
	submissions secondary.SubmissionRepository,
	executor secondary.CodeExecutor,
	logger primary.Logger,
	opts ...Option,
) *SubmissionService {
	s := &SubmissionService{
		testCases:    testCases,
		submissions:  submissions,
		executor:     executor,
		logger:       logger,
		historyLimit: DefaultHistoryLimit,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit judges the submission, persists its outcome and returns the public view.
// A judge failure is returned as an error and leaves the submission PENDING.
func (s *SubmissionService) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	started := s.now()

	sub, err := domain.NewSubmission(in.Code, in.ChallengeID, in.UserID, in.Language, started)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidSubmission, err)
	}
	if in.Language == "" {
		return nil, fmt.Errorf("%w: language is missing", errs.ErrInvalidSubmission)
	}

	cases, err := s.testCases.FindByChallengeID(ctx, in.ChallengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load test cases: %w", err)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("%w: %s", errs.ErrNoTestCases, in.ChallengeID)
	}

	if err := s.submissions.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	s.logger.Info("Judging submission",
		"submissionId", sub.ID,
		"challengeId", sub.ChallengeID,
		"userId", sub.UserID,
		"language", sub.Language,
		"cases", len(cases))

	exec, err := s.executor.Execute(ctx, executionRequest(sub, cases))
	if err != nil {
		s.logger.Error("Judge failed, submission left pending", "submissionId", sub.ID, "error", err)
		s.observe("error", started)
		return nil, fmt.Errorf("failed to judge submission %s: %w", sub.ID, err)
	}
	if len(exec.Cases) != len(cases) {
		s.observe("error", started)
		return nil, fmt.Errorf("%w: expected %d case results, got %d", errs.ErrJudgeResponse, len(cases), len(exec.Cases))
	}

	passed := exec.AllPassed
	for _, c := range exec.Cases {
		passed = passed && c.Passed
	}
	var rejected *evaluation.FailedCase
	if s.strategy != nil {
		verdict := s.strategy.Evaluate(evaluationContext(sub, cases, exec))
		if !verdict.Passed && verdict.FailedCase != nil {
			rejected = verdict.FailedCase
			s.logger.Debug("Evaluation strategy rejected submission",
				"submissionId", sub.ID,
				"strategy", s.strategy.Name(),
				"case", verdict.FailedCase.Index)
		}
		passed = passed && verdict.Passed
	}

	status := domain.SubmissionStatusFailed
	if passed {
		status = domain.SubmissionStatusPassed
	}
	execTime, memory := exec.ExecutionTimeMs, exec.MemoryKb
	sub = sub.WithStatus(status, passed).WithUsage(&execTime, &memory)

	if err := s.persistOutcome(ctx, sub); err != nil {
		return nil, err
	}

	result := buildResult(sub, cases, exec, s.strategyRejection(rejected))

	s.logger.Info("Submission judged",
		"submissionId", sub.ID,
		"status", sub.Status,
		"executionTimeMs", execTime,
		"memoryKb", memory)
	s.observe(string(sub.Status), started)

	return result, nil
}

// GetSubmission retrieves a stored submission by ID
func (s *SubmissionService) GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	sub, err := s.submissions.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrSubmissionNotFound, id)
	}
	return sub, nil
}

// ListSubmissions returns the user's newest submissions on a challenge.
// limit is clamped to the configured history limit.
func (s *SubmissionService) ListSubmissions(ctx context.Context, userID, challengeID string, limit int) ([]domain.Submission, error) {
	if userID == "" || challengeID == "" {
		return nil, fmt.Errorf("%w: user and challenge are required", errs.ErrInvalidSubmission)
	}
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}
	subs, err := s.submissions.FindRecentByUserAndChallenge(ctx, userID, challengeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	if subs == nil {
		subs = []domain.Submission{}
	}
	return subs, nil
}

// persistOutcome stores the final status and, when profiles are enabled,
// updates the profile. Both happen under the user's lock so that concurrent
// passes on the same challenge see each other in order.
func (s *SubmissionService) persistOutcome(ctx context.Context, sub domain.Submission) error {
	if s.profiles != nil {
		if s.locker == nil {
			s.profileMu.Lock()
			defer s.profileMu.Unlock()
		} else {
			unlock, err := s.locker.Lock(ctx, "profile:"+sub.UserID)
			if err != nil {
				return fmt.Errorf("failed to lock profile %s: %w", sub.UserID, err)
			}
			defer unlock()
		}
	}

	if err := s.submissions.UpdateStatus(ctx, sub.ID, sub.Status, sub.Passed, sub.ExecutionTime, sub.MemoryUsage); err != nil {
		return fmt.Errorf("failed to update submission status: %w", err)
	}
	if s.profiles == nil {
		return nil
	}
	return s.registerOnProfile(ctx, sub)
}

// registerOnProfile expects the caller to hold the user's lock
func (s *SubmissionService) registerOnProfile(ctx context.Context, sub domain.Submission) error {
	first, err := s.firstTimeSolved(ctx, sub)
	if err != nil {
		return err
	}

	profile, err := s.profiles.FindByID(ctx, sub.UserID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	now := s.now()
	if profile == nil {
		p := domain.NewProfile(sub.UserID, sub.UserID, now)
		profile = &p
	}

	next := profile.RegisterSubmission(sub.Passed, first, now)
	if err := s.profiles.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	s.logger.Debug("Profile updated",
		"userId", next.ID,
		"attempts", next.Attempts,
		"solved", next.Solved,
		"firstTimeSolved", first)
	return nil
}

func (s *SubmissionService) firstTimeSolved(ctx context.Context, sub domain.Submission) (bool, error) {
	if !sub.Passed {
		return false, nil
	}
	if s.solved != nil {
		first, err := s.solved.MarkSolved(ctx, sub.UserID, sub.ChallengeID)
		if err != nil {
			return false, fmt.Errorf("failed to mark challenge solved: %w", err)
		}
		return first, nil
	}

	passedBefore, err := s.submissions.HasPassed(ctx, sub.UserID, sub.ChallengeID, sub.ID)
	if err != nil {
		return false, fmt.Errorf("failed to check earlier passes: %w", err)
	}
	return !passedBefore, nil
}

func (s *SubmissionService) strategyRejection(failed *evaluation.FailedCase) *rejection {
	if failed == nil {
		return nil
	}
	return &rejection{index: failed.Index, strategy: s.strategy.Name()}
}

func (s *SubmissionService) observe(status string, started time.Time) {
	if s.recorder != nil {
		s.recorder.ObserveSubmission(status, s.now().Sub(started))
	}
}

func executionRequest(sub domain.Submission, cases []domain.TestCase) domain.ExecutionRequest {
	inputs := make([]domain.CaseInput, 0, len(cases))
	for _, tc := range cases {
		inputs = append(inputs, domain.CaseInput{Input: tc.Input, ExpectedOutput: tc.ExpectedOutput})
	}
	return domain.ExecutionRequest{Code: sub.Code, Language: sub.Language, TestCases: inputs}
}

func evaluationContext(sub domain.Submission, cases []domain.TestCase, exec *domain.ExecutionResult) evaluation.Context {
	ec := evaluation.Context{
		Code:      sub.Code,
		Language:  sub.Language,
		TestCases: make([]evaluation.Case, 0, len(cases)),
	}
	for i, tc := range cases {
		ec.TestCases = append(ec.TestCases, evaluation.Case{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			ActualOutput:   exec.Cases[i].ActualOutput,
			IsHidden:       tc.IsHidden,
		})
	}
	return ec
}

// rejection marks the case an evaluation strategy refused
type rejection struct {
	index    int
	strategy string
}

// buildResult drops hidden cases and attaches diffs to failing visible ones.
// A visible case the judge accepted but the strategy rejected is reported as failed.
func buildResult(sub domain.Submission, cases []domain.TestCase, exec *domain.ExecutionResult, rejected *rejection) *SubmitResult {
	result := &SubmitResult{
		SubmissionID:    sub.ID,
		Status:          sub.Status,
		Passed:          sub.Passed,
		ExecutionTimeMs: sub.ExecutionTime,
		MemoryKb:        sub.MemoryUsage,
		Cases:           make([]CaseView, 0, len(cases)),
	}
	for i, tc := range cases {
		if tc.IsHidden {
			continue
		}
		cr := exec.Cases[i]
		view := CaseView{
			Input:    tc.Input,
			Expected: tc.ExpectedOutput,
			Actual:   cr.ActualOutput,
			Passed:   cr.Passed,
			Error:    cr.Error,
		}
		if rejected != nil && rejected.index == i && view.Passed {
			view.Passed = false
			view.Error = fmt.Sprintf("output rejected by %s comparison", rejected.strategy)
		}
		if !view.Passed {
			view.Diff = caseDiff(tc.ExpectedOutput, cr.ActualOutput)
		}
		result.Cases = append(result.Cases, view)
	}
	return result
}

func caseDiff(expected, actual string) *CaseDiff {
	lines := diff.Lines(expected, actual)
	d := &CaseDiff{Line: lines.Segments}
	if lines.HasChanges {
		d.Inline = diff.Inline(lines.Segments)
	}
	return d
}
