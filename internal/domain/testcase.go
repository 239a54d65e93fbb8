package domain

import (
	"errors"
	"strings"
)

// TestCase represents a test case for code execution
type TestCase struct {
	ID             string `db:"id"`
	ChallengeID    string `db:"challenge_id"`
	Input          string `db:"input"`
	ExpectedOutput string `db:"expected_output"`
	IsHidden       bool   `db:"is_hidden"`
	Ordinal        int    `db:"ordinal"`
}

// NewTestCase validates and builds a test case
func NewTestCase(id, challengeID, input, expectedOutput string, hidden bool) (TestCase, error) {
	if strings.TrimSpace(input) == "" {
		return TestCase{}, errors.New("test case input is empty")
	}
	if challengeID == "" {
		return TestCase{}, errors.New("test case challenge id is missing")
	}
	return TestCase{
		ID:             id,
		ChallengeID:    challengeID,
		Input:          input,
		ExpectedOutput: expectedOutput,
		IsHidden:       hidden,
	}, nil
}

type TestCaseTable struct {
	ID             string
	ChallengeID    string
	Input          string
	ExpectedOutput string
	IsHidden       string
	Ordinal        string
}

func GetTestCaseTable() TestCaseTable {
	return TestCaseTable{
		ID:             "id",
		ChallengeID:    "challenge_id",
		Input:          "input",
		ExpectedOutput: "expected_output",
		IsHidden:       "is_hidden",
		Ordinal:        "ordinal",
	}
}

func (TestCaseTable) TableName() string {
	return "test_cases"
}
