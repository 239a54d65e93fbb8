package judge0

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/codechallenge.net/internal/core/ports/secondary"
	"gitlab.com/codechallenge.net/internal/domain"
	"gitlab.com/codechallenge.net/internal/static/errs"
)

var _ secondary.CodeExecutor = (*MockClient)(nil)

// MockClient is a deterministic offline judge. Code mentioning "hello" prints
// "Hello World"; anything else echoes its trimmed input.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Execute(ctx context.Context, req domain.ExecutionRequest) (*domain.ExecutionResult, error) {
	if _, ok := LanguageID(req.Language); !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedLanguage, req.Language)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &domain.ExecutionResult{
		Cases:           make([]domain.CaseResult, 0, len(req.TestCases)),
		AllPassed:       true,
		ExecutionTimeMs: 5,
		MemoryKb:        32,
	}
	for _, tc := range req.TestCases {
		actual := deriveOutput(req.Code, tc.Input)
		passed := strings.TrimSpace(actual) == strings.TrimSpace(tc.ExpectedOutput)
		verdict := domain.VerdictAccepted
		if !passed {
			verdict = domain.VerdictWrongAnswer
		}
		cr := domain.CaseResult{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			ActualOutput:   actual,
			Passed:         passed,
			Verdict:        verdict,
		}
		if !passed {
			cr.Error = "Wrong Answer"
			result.AllPassed = false
		}
		result.Cases = append(result.Cases, cr)
	}
	return result, nil
}

func deriveOutput(code, input string) string {
	if strings.Contains(strings.ToLower(code), "hello") {
		return "Hello World"
	}
	return strings.TrimSpace(input)
}
