package testcaserepository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/codechallenge.net/internal/core/ports/primary"
	"gitlab.com/codechallenge.net/internal/core/ports/secondary"
	"gitlab.com/codechallenge.net/internal/domain"
	querybuilder "gitlab.com/codechallenge.net/internal/utils"
)

var _ secondary.TestCaseRepository = &testCaseRepo{}

type testCaseRepo struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

func New(db *sqlx.DB, logger primary.Logger, schema string) secondary.TestCaseRepository {
	return &testCaseRepo{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

func (r *testCaseRepo) FindByChallengeID(ctx context.Context, challengeID string) ([]domain.TestCase, error) {
	tbl := domain.GetTestCaseTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(tbl.ID, tbl.ChallengeID, tbl.Input, tbl.ExpectedOutput, tbl.IsHidden, tbl.Ordinal).
		From(tbl.TableName()).
		Where(fmt.Sprintf("%s = ?", tbl.ChallengeID), challengeID).
		OrderBy(tbl.Ordinal, true).
		OrderBy(tbl.ID, true).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	var cases []domain.TestCase
	if err := r.db.SelectContext(ctx, &cases, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list test cases: %w", err)
	}
	return cases, nil
}

// SaveMany replaces, in one transaction, the cases of every challenge present in testCases
func (r *testCaseRepo) SaveMany(ctx context.Context, testCases []domain.TestCase) error {
	if len(testCases) == 0 {
		return nil
	}
	tbl := domain.GetTestCaseTable()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	seen := make(map[string]bool)
	for _, tc := range testCases {
		if seen[tc.ChallengeID] {
			continue
		}
		seen[tc.ChallengeID] = true

		query, args := querybuilder.NewQueryBuilder(r.schema).
			Delete(tbl.TableName()).
			Where(fmt.Sprintf("%s = ?", tbl.ChallengeID), tc.ChallengeID).
			Build()
		if _, err := tx.ExecContext(ctx, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
			return fmt.Errorf("failed to clear test cases of %s: %w", tc.ChallengeID, err)
		}
	}

	qb := querybuilder.NewQueryBuilder(r.schema).
		Insert(tbl.ID, tbl.ChallengeID, tbl.Input, tbl.ExpectedOutput, tbl.IsHidden, tbl.Ordinal).
		Into(tbl.TableName())
	for _, tc := range testCases {
		qb = qb.Values(tc.ID, tc.ChallengeID, tc.Input, tc.ExpectedOutput, tc.IsHidden, tc.Ordinal)
	}
	query, args := qb.Build()
	if _, err := tx.ExecContext(ctx, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		r.logger.Error("Failed to insert test cases", "count", len(testCases), "error", err)
		return fmt.Errorf("failed to insert test cases: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit test cases: %w", err)
	}
	return nil
}
