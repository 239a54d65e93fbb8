package secondary

import (
	"context"

	"gitlab.com/codechallenge.net/internal/domain"
)

type CodeExecutor interface {
	// Execute runs code against every test case input and returns one result per case, in order
	Execute(ctx context.Context, req domain.ExecutionRequest) (*domain.ExecutionResult, error)
}
