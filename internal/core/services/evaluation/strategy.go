package evaluation

import (
	"strings"
)

// Case is one judged test case as seen by a strategy
type Case struct {
	Input          string
	ExpectedOutput string
	ActualOutput   string
	IsHidden       bool
}

// Context carries a judged submission to a strategy
type Context struct {
	Code      string
	Language  string
	TestCases []Case
}

// FailedCase describes the first case a strategy rejected
type FailedCase struct {
	Index          int
	Input          string
	ExpectedOutput string
	Received       string
}

// Result is a strategy verdict over all cases
type Result struct {
	Passed     bool
	FailedCase *FailedCase
}

// IStrategy compares actual outputs with expected outputs using its own policy
type IStrategy interface {
	Name() string
	Evaluate(ctx Context) Result
}

var (
	_ IStrategy = ExactMatchStrategy{}
	_ IStrategy = WhitespaceCaseInsensitiveStrategy{}
)

// ExactMatchStrategy accepts outputs equal after trimming surrounding whitespace
type ExactMatchStrategy struct{}

func (ExactMatchStrategy) Name() string {
	return "ExactMatch"
}

func (ExactMatchStrategy) Evaluate(ctx Context) Result {
	return evaluate(ctx, strings.TrimSpace)
}

// WhitespaceCaseInsensitiveStrategy drops carriage returns, collapses runs of
// whitespace (newlines included) to one space and compares case-insensitively.
type WhitespaceCaseInsensitiveStrategy struct{}

func (WhitespaceCaseInsensitiveStrategy) Name() string {
	return "WhitespaceCaseInsensitive"
}

func (WhitespaceCaseInsensitiveStrategy) Evaluate(ctx Context) Result {
	return evaluate(ctx, normalizeLoose)
}

func normalizeLoose(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func evaluate(ctx Context, normalize func(string) string) Result {
	for i, tc := range ctx.TestCases {
		if normalize(tc.ActualOutput) != normalize(tc.ExpectedOutput) {
			return Result{
				Passed: false,
				FailedCase: &FailedCase{
					Index:          i,
					Input:          tc.Input,
					ExpectedOutput: tc.ExpectedOutput,
					Received:       tc.ActualOutput,
				},
			}
		}
	}
	return Result{Passed: true}
}

// ByName returns the strategy registered under name, or nil
func ByName(name string) IStrategy {
	switch strings.ToLower(name) {
	case "exact", "exactmatch":
		return ExactMatchStrategy{}
	case "whitespace", "whitespacecaseinsensitive":
		return WhitespaceCaseInsensitiveStrategy{}
	default:
		return nil
	}
}
