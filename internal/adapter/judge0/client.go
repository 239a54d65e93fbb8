package judge0

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"gitlab.com/codechallenge.net/internal/core/ports/primary"
	"gitlab.com/codechallenge.net/internal/core/ports/secondary"
	"gitlab.com/codechallenge.net/internal/domain"
	"gitlab.com/codechallenge.net/internal/static/errs"
)

const (
	DefaultTimeout    = 8000 * time.Millisecond
	DefaultMaxRetries = 1
)

var languageIDs = map[string]int{
	"javascript": 63,
	"typescript": 74,
	"python":     71,
	"python3":    71,
	"c":          50,
	"cpp":        54,
	"go":         60,
	"java":       62,
}

// LanguageID returns the judge language code for a language name
func LanguageID(language string) (int, bool) {
	id, ok := languageIDs[strings.ToLower(strings.TrimSpace(language))]
	return id, ok
}

// Judge0 status ids
const (
	statusAccepted          = 3
	statusWrongAnswer       = 4
	statusTimeLimitExceeded = 5
	statusCompilationError  = 6
	statusRuntimeFirst      = 7
	statusRuntimeLast       = 12
)

func classify(statusID int) domain.Verdict {
	switch {
	case statusID == statusAccepted:
		return domain.VerdictAccepted
	case statusID == statusWrongAnswer:
		return domain.VerdictWrongAnswer
	case statusID == statusTimeLimitExceeded:
		return domain.VerdictTimeLimitExceeded
	case statusID == statusCompilationError:
		return domain.VerdictCompilationError
	case statusID >= statusRuntimeFirst && statusID <= statusRuntimeLast:
		return domain.VerdictRuntimeError
	default:
		return domain.VerdictOther
	}
}

// HTTPError is a non-2xx answer from the judge
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("judge0 http error %d: %s", e.StatusCode, e.Body)
}

// Recorder receives judge call metrics
type Recorder interface {
	ObserveJudgeCall(verdict string, d time.Duration)
	IncJudgeRetry(reason string)
}

type ClientOption func(*Client)

func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithConcurrency bounds how many test cases are judged at once
func WithConcurrency(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithRecorder(r Recorder) ClientOption {
	return func(c *Client) {
		c.recorder = r
	}
}

var _ secondary.CodeExecutor = (*Client)(nil)

// Client runs code on a Judge0 instance, one synchronous submission per test case
type Client struct {
	baseURL     string
	apiKey      string
	timeout     time.Duration
	maxRetries  int
	concurrency int
	http        *http.Client
	recorder    Recorder
	logger      primary.Logger
}

func NewClient(baseURL string, logger primary.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		timeout:     DefaultTimeout,
		maxRetries:  DefaultMaxRetries,
		concurrency: 1,
		http:        &http.Client{},
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type submissionRequest struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin"`
}

type submissionResponse struct {
	Stdout        *string `json:"stdout"`
	Stderr        *string `json:"stderr"`
	CompileOutput *string `json:"compile_output"`
	Time          *string `json:"time"`
	Memory        *int64  `json:"memory"`
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

type caseOutcome struct {
	result domain.CaseResult
	timeMs float64
	memory int64
}

// Execute judges every test case and reports results in input order.
// Any call that still fails after its retries fails the whole execution.
func (c *Client) Execute(ctx context.Context, req domain.ExecutionRequest) (*domain.ExecutionResult, error) {
	langID, ok := LanguageID(req.Language)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedLanguage, req.Language)
	}

	outcomes := make([]caseOutcome, len(req.TestCases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, tc := range req.TestCases {
		g.Go(func() error {
			resp, err := c.runSingle(gctx, req.Code, langID, tc.Input)
			if err != nil {
				return fmt.Errorf("failed to judge test case %d: %w", i, err)
			}
			outcomes[i] = toOutcome(tc, resp)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &domain.ExecutionResult{
		Cases:     make([]domain.CaseResult, 0, len(outcomes)),
		AllPassed: true,
	}
	var maxTime float64
	for _, o := range outcomes {
		result.Cases = append(result.Cases, o.result)
		if !o.result.Passed {
			result.AllPassed = false
		}
		maxTime = math.Max(maxTime, o.timeMs)
		if o.memory > result.MemoryKb {
			result.MemoryKb = o.memory
		}
	}
	result.ExecutionTimeMs = int64(math.Round(maxTime))
	return result, nil
}

func toOutcome(tc domain.CaseInput, resp *submissionResponse) caseOutcome {
	raw := firstNonEmpty(deref(resp.Stdout), deref(resp.Stderr), deref(resp.CompileOutput))
	actual := normalizeOutput(raw)
	verdict := classify(resp.Status.ID)
	passed := verdict == domain.VerdictAccepted && actual == normalizeOutput(tc.ExpectedOutput)

	out := caseOutcome{
		result: domain.CaseResult{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			ActualOutput:   actual,
			Passed:         passed,
			Verdict:        verdict,
		},
	}
	if !passed {
		out.result.Error = firstNonEmpty(deref(resp.Stderr), deref(resp.CompileOutput), resp.Status.Description)
	}
	if resp.Time != nil {
		if secs, err := strconv.ParseFloat(*resp.Time, 64); err == nil {
			out.timeMs = secs * 1000
		}
	}
	if resp.Memory != nil {
		out.memory = *resp.Memory
	}
	return out
}

// runSingle posts one submission, retrying on timeout and 5xx answers
func (c *Client) runSingle(ctx context.Context, source string, langID int, stdin string) (*submissionResponse, error) {
	body, err := json.Marshal(submissionRequest{SourceCode: source, LanguageID: langID, Stdin: stdin})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submission: %w", err)
	}

	attempts := c.maxRetries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		start := time.Now()
		resp, err := c.post(ctx, body)
		if err == nil {
			c.observe(string(classify(resp.Status.ID)), time.Since(start))
			return resp, nil
		}

		var httpErr *HTTPError
		switch {
		case errors.As(err, &httpErr) && httpErr.StatusCode >= http.StatusInternalServerError:
			c.observe("http_5xx", time.Since(start))
			lastErr = err
			if attempt < attempts {
				c.logger.Warn("Judge0 server error, retrying", "status", httpErr.StatusCode, "attempt", attempt)
				c.retry("server_error")
			}
		case errors.Is(err, errs.ErrJudgeTimeout) && ctx.Err() == nil:
			c.observe("timeout", time.Since(start))
			lastErr = fmt.Errorf("%w after %d attempts", errs.ErrJudgeTimeout, attempt)
			if attempt < attempts {
				c.logger.Warn("Judge0 request timed out, retrying", "timeout", c.timeout.String(), "attempt", attempt)
				c.retry("timeout")
			}
		default:
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) post(ctx context.Context, body []byte) (*submissionResponse, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/submissions?base64_encoded=false&wait=true", c.baseURL)
	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build judge0 request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, attemptCtx, err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, c.transportError(ctx, attemptCtx, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: string(payload)}
	}

	var out submissionResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrJudgeResponse, err)
	}
	return &out, nil
}

// transportError maps a deadline hit by this attempt to ErrJudgeTimeout.
// Cancellation of the caller's context is returned as is.
func (c *Client) transportError(parent, attemptCtx context.Context, err error) error {
	if parent.Err() != nil {
		return fmt.Errorf("judge0 request aborted: %w", parent.Err())
	}
	var netErr net.Error
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", errs.ErrJudgeTimeout, err)
	}
	return fmt.Errorf("failed to call judge0: %w", err)
}

func (c *Client) observe(verdict string, d time.Duration) {
	if c.recorder != nil {
		c.recorder.ObserveJudgeCall(verdict, d)
	}
}

func (c *Client) retry(reason string) {
	if c.recorder != nil {
		c.recorder.IncJudgeRetry(reason)
	}
}

// normalizeOutput drops carriage returns and trailing newlines
func normalizeOutput(s string) string {
	return strings.TrimRight(strings.ReplaceAll(s, "\r", ""), "\n")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
