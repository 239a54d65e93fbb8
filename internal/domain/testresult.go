package domain

// Verdict is the judge's classification of one execution
type Verdict string

const (
	VerdictAccepted          Verdict = "ACCEPTED"
	VerdictWrongAnswer       Verdict = "WRONG_ANSWER"
	VerdictTimeLimitExceeded Verdict = "TIME_LIMIT_EXCEEDED"
	VerdictCompilationError  Verdict = "COMPILATION_ERROR"
	VerdictRuntimeError      Verdict = "RUNTIME_ERROR"
	VerdictOther             Verdict = "OTHER"
)

// CaseInput is the part of a test case sent to the judge
type CaseInput struct {
	Input          string
	ExpectedOutput string
}

// ExecutionRequest asks the judge to run code against a list of inputs
type ExecutionRequest struct {
	Code      string
	Language  string
	TestCases []CaseInput
}

// CaseResult represents the result of a single test case execution
type CaseResult struct {
	Input          string
	ExpectedOutput string
	ActualOutput   string
	Passed         bool
	Verdict        Verdict
	Error          string
}

// ExecutionResult represents the result of code execution against test cases.
// Cases follow the order of ExecutionRequest.TestCases.
type ExecutionResult struct {
	Cases           []CaseResult
	AllPassed       bool
	ExecutionTimeMs int64
	MemoryKb        int64
}
