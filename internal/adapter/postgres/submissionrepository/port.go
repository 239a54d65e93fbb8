package submissionrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/codechallenge.net/internal/core/ports/primary"
	"gitlab.com/codechallenge.net/internal/core/ports/secondary"
	"gitlab.com/codechallenge.net/internal/domain"
	"gitlab.com/codechallenge.net/internal/static/errs"
	querybuilder "gitlab.com/codechallenge.net/internal/utils"
)

var _ secondary.SubmissionRepository = &submissionRepo{}

type submissionRepo struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

func New(db *sqlx.DB, logger primary.Logger, schema string) secondary.SubmissionRepository {
	return &submissionRepo{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

func columns(tbl domain.SubmissionTable) []string {
	return []string{
		tbl.ID, tbl.Code, tbl.ChallengeID, tbl.UserID, tbl.Language,
		tbl.Status, tbl.Passed, tbl.ExecutionTime, tbl.MemoryUsage, tbl.CreatedAt,
	}
}

func (r *submissionRepo) Save(ctx context.Context, s domain.Submission) error {
	tbl := domain.GetSubmissionTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Insert(columns(tbl)...).
		Into(tbl.TableName()).
		Values(
			s.ID, s.Code, s.ChallengeID, s.UserID, s.Language,
			s.Status, s.Passed, s.ExecutionTime, s.MemoryUsage, s.CreatedAt,
		).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("Failed to insert submission", "submissionId", s.ID, "error", err)
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

func (r *submissionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus, passed bool, executionTime, memoryUsage *int64) error {
	tbl := domain.GetSubmissionTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Update(tbl.TableName()).
		Set(tbl.Status, status).
		Set(tbl.Passed, passed).
		Set(tbl.ExecutionTime, executionTime).
		Set(tbl.MemoryUsage, memoryUsage).
		Where(fmt.Sprintf("%s = ?", tbl.ID), id).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update submission status", "submissionId", id, "error", err)
		return fmt.Errorf("failed to update submission status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", errs.ErrSubmissionNotFound, id)
	}
	return nil
}

func (r *submissionRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	tbl := domain.GetSubmissionTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(columns(tbl)...).
		From(tbl.TableName()).
		Where(fmt.Sprintf("%s = ?", tbl.ID), id).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	var s domain.Submission
	if err := r.db.GetContext(ctx, &s, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return &s, nil
}

func (r *submissionRepo) HasPassed(ctx context.Context, userID, challengeID string, exclude uuid.UUID) (bool, error) {
	tbl := domain.GetSubmissionTable()
	inner, args := querybuilder.NewQueryBuilder(r.schema).
		Select("1").
		From(tbl.TableName()).
		Where(fmt.Sprintf("%s = ?", tbl.UserID), userID).
		And(fmt.Sprintf("%s = ?", tbl.ChallengeID), challengeID).
		And(fmt.Sprintf("%s = ?", tbl.Passed), true).
		And(fmt.Sprintf("%s <> ?", tbl.ID), exclude).
		Build()

	query := sqlx.Rebind(sqlx.DOLLAR, fmt.Sprintf("SELECT EXISTS (%s)", inner))
	var passed bool
	if err := r.db.GetContext(ctx, &passed, query, args...); err != nil {
		return false, fmt.Errorf("failed to check passing submissions: %w", err)
	}
	return passed, nil
}

func (r *submissionRepo) FindRecentByUserAndChallenge(ctx context.Context, userID, challengeID string, limit int) ([]domain.Submission, error) {
	tbl := domain.GetSubmissionTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(columns(tbl)...).
		From(tbl.TableName()).
		Where(fmt.Sprintf("%s = ?", tbl.UserID), userID).
		And(fmt.Sprintf("%s = ?", tbl.ChallengeID), challengeID).
		OrderBy(tbl.CreatedAt, false).
		Limit(limit).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	var out []domain.Submission
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return out, nil
}
