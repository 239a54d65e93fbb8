package submissions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap/zaptest"

	"gitlab.com/codechallenge.net/internal/adapter/logging"
	"gitlab.com/codechallenge.net/internal/core/services/submission"
	"gitlab.com/codechallenge.net/internal/domain"
	"gitlab.com/codechallenge.net/internal/static/errs"
)

type fakeService struct {
	result    *submission.SubmitResult
	sub       *domain.Submission
	list      []domain.Submission
	err       error
	got       submission.SubmitInput
	gotLimit  int
	gotFilter [2]string
}

func (f *fakeService) Submit(_ context.Context, in submission.SubmitInput) (*submission.SubmitResult, error) {
	f.got = in
	return f.result, f.err
}

func (f *fakeService) GetSubmission(_ context.Context, _ uuid.UUID) (*domain.Submission, error) {
	return f.sub, f.err
}

func (f *fakeService) ListSubmissions(_ context.Context, userID, challengeID string, limit int) ([]domain.Submission, error) {
	f.gotFilter = [2]string{userID, challengeID}
	f.gotLimit = limit
	return f.list, f.err
}

func newRouter(t *testing.T, svc *fakeService) *mux.Router {
	r := mux.NewRouter()
	NewSubmissionHandler(svc, logging.FromZap(zaptest.NewLogger(t))).RegisterRoutes(r)
	return r
}

func post(router http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/submissions", strings.NewReader(body))
	router.ServeHTTP(rec, req)
	return rec
}

func TestSubmitReturnsCreated(t *testing.T) {
	id := uuid.New()
	svc := &fakeService{result: &submission.SubmitResult{
		SubmissionID: id,
		Status:       domain.SubmissionStatusPassed,
		Passed:       true,
		Cases:        []submission.CaseView{{Input: "x", Expected: "Hello World", Actual: "Hello World", Passed: true}},
	}}

	rec := post(newRouter(t, svc), `{"code":"hello","challengeId":"hello-world","userId":"u1","language":"javascript"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	if svc.got.ChallengeID != "hello-world" || svc.got.Language != "javascript" {
		t.Fatalf("unexpected input %+v", svc.got)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["submissionId"] != id.String() || body["passed"] != true {
		t.Fatalf("unexpected body %v", body)
	}
	cases := body["cases"].([]interface{})
	if _, ok := cases[0].(map[string]interface{})["diff"]; ok {
		t.Fatalf("passing case must not carry a diff")
	}
}

func TestSubmitMapsErrors(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: code is empty", errs.ErrInvalidSubmission), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", errs.ErrUnsupportedLanguage), http.StatusBadRequest},
		{fmt.Errorf("%w: c1", errs.ErrNoTestCases), http.StatusUnprocessableEntity},
		{errors.New("judge0 http error 500: boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := post(newRouter(t, &fakeService{err: tt.err}), `{"code":"x","challengeId":"c1","userId":"u1","language":"go"}`)
		if rec.Code != tt.code {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.code, rec.Code)
		}
	}
}

func TestSubmitHidesInternalErrorDetail(t *testing.T) {
	rec := post(newRouter(t, &fakeService{err: errors.New("pq: connection refused")}), `{"code":"x"}`)
	if strings.Contains(rec.Body.String(), "pq:") {
		t.Fatalf("internal error leaked: %s", rec.Body)
	}
}

func TestSubmitRejectsMalformedBody(t *testing.T) {
	rec := post(newRouter(t, &fakeService{}), `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetSubmission(t *testing.T) {
	id := uuid.New()
	svc := &fakeService{sub: &domain.Submission{ID: id, Status: domain.SubmissionStatusPending}}
	router := newRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/submissions/"+id.String(), nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"PENDING"`) {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/submissions/not-a-uuid", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}

	svc.err = fmt.Errorf("%w: %s", errs.ErrSubmissionNotFound, id)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/submissions/"+id.String(), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListSubmissions(t *testing.T) {
	svc := &fakeService{list: []domain.Submission{{ID: uuid.New(), UserID: "u1", ChallengeID: "c1", Status: domain.SubmissionStatusFailed}}}
	router := newRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/submissions?userId=u1&challengeId=c1&limit=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if svc.gotFilter != [2]string{"u1", "c1"} || svc.gotLimit != 5 {
		t.Fatalf("unexpected filter %v limit %d", svc.gotFilter, svc.gotLimit)
	}
	var body []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || len(body) != 1 || body[0]["status"] != "FAILED" {
		t.Fatalf("unexpected body %s (%v)", rec.Body, err)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/submissions?userId=u1&challengeId=c1&limit=abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad limit, got %d", rec.Code)
	}

	svc.err = fmt.Errorf("%w: user and challenge are required", errs.ErrInvalidSubmission)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/submissions", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing filters, got %d", rec.Code)
	}
}
