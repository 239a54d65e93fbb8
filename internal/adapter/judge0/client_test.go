package judge0

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"gitlab.com/codechallenge.net/internal/adapter/logging"
	"gitlab.com/codechallenge.net/internal/domain"
	"gitlab.com/codechallenge.net/internal/static/errs"
)

type fakeRecorder struct {
	mu      sync.Mutex
	calls   []string
	retries []string
}

func (r *fakeRecorder) ObserveJudgeCall(verdict string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, verdict)
}

func (r *fakeRecorder) IncJudgeRetry(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retries = append(r.retries, reason)
}

func accepted(stdout string) string {
	return fmt.Sprintf(`{"stdout":%q,"stderr":null,"compile_output":null,"time":"0.010","memory":1024,"status":{"id":3,"description":"Accepted"}}`, stdout)
}

func newTestClient(t *testing.T, url string, opts ...ClientOption) *Client {
	t.Helper()
	return NewClient(url, logging.FromZap(zaptest.NewLogger(t)), opts...)
}

func singleCase(expected string) domain.ExecutionRequest {
	return domain.ExecutionRequest{
		Code:      "console.log('Hello World')",
		Language:  "javascript",
		TestCases: []domain.CaseInput{{Input: "x", ExpectedOutput: expected}},
	}
}

func TestExecuteSendsSubmission(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/submissions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("wait") != "true" || r.URL.Query().Get("base64_encoded") != "false" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("X-Api-Key") != "secret" {
			t.Errorf("missing api key header")
		}
		var body submissionRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.LanguageID != 63 || body.Stdin != "x" || body.SourceCode == "" {
			t.Errorf("unexpected body %+v", body)
		}
		fmt.Fprint(w, accepted("Hello World\n"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/", WithAPIKey("secret"))
	res, err := c.Execute(context.Background(), singleCase("Hello World"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.AllPassed || res.Cases[0].ActualOutput != "Hello World" || res.Cases[0].Verdict != domain.VerdictAccepted {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.ExecutionTimeMs != 10 || res.MemoryKb != 1024 {
		t.Fatalf("unexpected usage %d ms / %d kb", res.ExecutionTimeMs, res.MemoryKb)
	}
}

func TestExecuteRetriesOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, accepted("Hello World"))
	}))
	defer srv.Close()

	rec := &fakeRecorder{}
	c := newTestClient(t, srv.URL, WithRecorder(rec))
	res, err := c.Execute(context.Background(), singleCase("Hello World"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.AllPassed {
		t.Fatalf("expected pass after retry")
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
	if len(rec.retries) != 1 || rec.retries[0] != "server_error" {
		t.Fatalf("unexpected retries %v", rec.retries)
	}
}

func TestExecuteFailsAfterExhaustingRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "boom")
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, WithMaxRetries(2))
	_, err := c.Execute(context.Background(), singleCase("Hello World"))

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.StatusCode != 500 || !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("unexpected error %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 calls, got %d", got)
	}
}

func TestExecuteRetriesOnceOnTimeout(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		fmt.Fprint(w, accepted("Hello World"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, WithTimeout(50*time.Millisecond))
	res, err := c.Execute(context.Background(), singleCase("Hello World"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.AllPassed {
		t.Fatalf("expected pass after timeout retry")
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
}

func TestExecuteTimeoutExhausted(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, WithTimeout(30*time.Millisecond))
	_, err := c.Execute(context.Background(), singleCase("Hello World"))
	if !errors.Is(err, errs.ErrJudgeTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
}

func TestExecuteDoesNotRetryClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"error":"bad language"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, WithMaxRetries(3))
	_, err := c.Execute(context.Background(), singleCase("Hello World"))
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected a single call, got %d", got)
	}
}

func TestExecuteUnsupportedLanguage(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	req := singleCase("x")
	req.Language = "cobol"
	_, err := newTestClient(t, srv.URL).Execute(context.Background(), req)
	if !errors.Is(err, errs.ErrUnsupportedLanguage) {
		t.Fatalf("expected unsupported language, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("expected no remote calls")
	}
}

func TestExecuteClassifiesVerdicts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body submissionRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		switch body.Stdin {
		case "ok":
			fmt.Fprint(w, `{"stdout":"ok\r\n\n","time":"0.120","memory":2048,"status":{"id":3,"description":"Accepted"}}`)
		case "ce":
			fmt.Fprint(w, `{"stdout":null,"compile_output":"syntax error","time":null,"memory":null,"status":{"id":6,"description":"Compilation Error"}}`)
		case "re":
			fmt.Fprint(w, `{"stdout":"","stderr":"panic","time":"0.050","memory":4096,"status":{"id":11,"description":"Runtime Error (NZEC)"}}`)
		case "ce-empty-stdout":
			fmt.Fprint(w, `{"stdout":"","stderr":null,"compile_output":"main.go:1: undefined: x","status":{"id":6,"description":"Compilation Error"}}`)
		case "tle":
			fmt.Fprint(w, `{"stdout":null,"time":"2.000","memory":512,"status":{"id":5,"description":"Time Limit Exceeded"}}`)
		default:
			fmt.Fprint(w, `{"stdout":"nope","time":"0.001","memory":1,"status":{"id":3,"description":"Accepted"}}`)
		}
	}))
	defer srv.Close()

	req := domain.ExecutionRequest{
		Code:     "print(input())",
		Language: "Python",
		TestCases: []domain.CaseInput{
			{Input: "ok", ExpectedOutput: "ok\n"},
			{Input: "ce", ExpectedOutput: "x"},
			{Input: "re", ExpectedOutput: "x"},
			{Input: "ce-empty-stdout", ExpectedOutput: "x"},
			{Input: "tle", ExpectedOutput: "x"},
			{Input: "wa", ExpectedOutput: "yes"},
		},
	}
	res, err := newTestClient(t, srv.URL).Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AllPassed {
		t.Fatalf("expected failure overall")
	}

	want := []struct {
		verdict domain.Verdict
		passed  bool
		actual  string
		errText string
	}{
		{domain.VerdictAccepted, true, "ok", ""},
		{domain.VerdictCompilationError, false, "syntax error", "syntax error"},
		{domain.VerdictRuntimeError, false, "panic", "panic"},
		{domain.VerdictCompilationError, false, "main.go:1: undefined: x", "main.go:1: undefined: x"},
		{domain.VerdictTimeLimitExceeded, false, "", "Time Limit Exceeded"},
		{domain.VerdictAccepted, false, "nope", "Accepted"},
	}
	for i, w := range want {
		got := res.Cases[i]
		if got.Verdict != w.verdict || got.Passed != w.passed || got.ActualOutput != w.actual || got.Error != w.errText {
			t.Errorf("case %d: got %+v, want %+v", i, got, w)
		}
	}
	if res.ExecutionTimeMs != 2000 || res.MemoryKb != 4096 {
		t.Fatalf("unexpected usage %d ms / %d kb", res.ExecutionTimeMs, res.MemoryKb)
	}
}

func TestExecuteKeepsOrderUnderConcurrency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body submissionRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		var n int
		fmt.Sscanf(body.Stdin, "%d", &n)
		time.Sleep(time.Duration(10-n) * 3 * time.Millisecond)
		fmt.Fprint(w, accepted(body.Stdin))
	}))
	defer srv.Close()

	req := domain.ExecutionRequest{Code: "echo", Language: "go"}
	for i := 0; i < 10; i++ {
		s := fmt.Sprint(i)
		req.TestCases = append(req.TestCases, domain.CaseInput{Input: s, ExpectedOutput: s})
	}

	res, err := newTestClient(t, srv.URL, WithConcurrency(4)).Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, c := range res.Cases {
		if c.Input != fmt.Sprint(i) || c.ActualOutput != fmt.Sprint(i) || !c.Passed {
			t.Fatalf("case %d out of order: %+v", i, c)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := map[int]domain.Verdict{
		1:  domain.VerdictOther,
		3:  domain.VerdictAccepted,
		4:  domain.VerdictWrongAnswer,
		5:  domain.VerdictTimeLimitExceeded,
		6:  domain.VerdictCompilationError,
		7:  domain.VerdictRuntimeError,
		12: domain.VerdictRuntimeError,
		13: domain.VerdictOther,
	}
	for id, want := range cases {
		if got := classify(id); got != want {
			t.Errorf("classify(%d) = %s, want %s", id, got, want)
		}
	}
}
