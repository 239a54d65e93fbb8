package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"gitlab.com/codechallenge.net/internal/adapter/judge0"
	"gitlab.com/codechallenge.net/internal/adapter/logging"
	"gitlab.com/codechallenge.net/internal/adapter/memory"
	"gitlab.com/codechallenge.net/internal/adapter/metrics"
	"gitlab.com/codechallenge.net/internal/core/services/ranking"
	"gitlab.com/codechallenge.net/internal/core/services/submission"
	"gitlab.com/codechallenge.net/internal/domain"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := logging.FromZap(zaptest.NewLogger(t))
	cases := memory.NewTestCaseRepository()
	_ = cases.SaveMany(context.Background(), []domain.TestCase{
		{ID: "1", ChallengeID: "hello-world", Input: "x", ExpectedOutput: "Hello World"},
		{ID: "2", ChallengeID: "hello-world", Input: "y", ExpectedOutput: "Hello World", IsHidden: true, Ordinal: 1},
	})
	profiles := memory.NewProfileRepository()
	recorder := metrics.NewRecorder()

	submissionSvc := submission.NewSubmissionService(cases, memory.NewSubmissionRepository(), judge0.NewMockClient(), logger,
		submission.WithProfileRepository(profiles),
		submission.WithLocker(memory.NewKeyedLocker()),
		submission.WithRecorder(recorder))
	rankingSvc := ranking.NewRankingService(profiles, nil, time.Second, logger)

	s := NewServer(0, "test", *NewServiceProvider(submissionSvc, rankingSvc, recorder.Handler()), logger)
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	return s
}

func TestSubmitThenRankThenScrape(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/submissions",
		strings.NewReader(`{"code":"print('hello')","challengeId":"hello-world","userId":"u1","language":"python"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	if strings.Contains(rec.Body.String(), `"y"`) {
		t.Fatalf("hidden case leaked: %s", rec.Body)
	}

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ranking", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"userId":"u1"`) {
		t.Fatalf("unexpected ranking %d: %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `codechallenge_submissions_total{status="PASSED"} 1`) {
		t.Fatalf("submission metric missing:\n%s", rec.Body)
	}
}

func TestUnknownChallengeIs422(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/submissions",
		strings.NewReader(`{"code":"x","challengeId":"nope","userId":"u1","language":"go"}`)))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestInitRequiresSubmissionService(t *testing.T) {
	s := NewServer(0, "test", ServiceProvider{}, logging.FromZap(zaptest.NewLogger(t)))
	if err := s.Init(); err == nil {
		t.Fatalf("expected error")
	}
}
