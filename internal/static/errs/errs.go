package errs

import "errors"

var (
	ErrInvalidSubmission   = errors.New("invalid submission")
	ErrNoTestCases         = errors.New("no test cases for challenge")
	ErrUnsupportedLanguage = errors.New("language not supported")
	ErrSubmissionNotFound  = errors.New("submission not found")
)

var (
	ErrJudgeTimeout  = errors.New("judge request timed out")
	ErrJudgeResponse = errors.New("malformed judge response")
)
