package profilerepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/codechallenge.net/internal/core/ports/primary"
	"gitlab.com/codechallenge.net/internal/core/ports/secondary"
	"gitlab.com/codechallenge.net/internal/domain"
	querybuilder "gitlab.com/codechallenge.net/internal/utils"
)

var _ secondary.ProfileRepository = &profileRepo{}

type profileRepo struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

func New(db *sqlx.DB, logger primary.Logger, schema string) secondary.ProfileRepository {
	return &profileRepo{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

func selectProfiles(schema string) querybuilder.QueryBuilder {
	tbl := domain.GetProfileTable()
	return querybuilder.NewQueryBuilder(schema).
		Select(tbl.ID, tbl.Username, tbl.Solved, tbl.Attempts, tbl.LastSubmissionAt, tbl.CreatedAt, tbl.UpdatedAt).
		From(tbl.TableName())
}

func (r *profileRepo) FindByID(ctx context.Context, userID string) (*domain.Profile, error) {
	tbl := domain.GetProfileTable()
	query, args := selectProfiles(r.schema).
		Where(fmt.Sprintf("%s = ?", tbl.ID), userID).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	var p domain.Profile
	if err := r.db.GetContext(ctx, &p, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// Save inserts the profile or overwrites its counters
func (r *profileRepo) Save(ctx context.Context, p domain.Profile) error {
	tbl := domain.GetProfileTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Insert(tbl.ID, tbl.Username, tbl.Solved, tbl.Attempts, tbl.LastSubmissionAt, tbl.CreatedAt, tbl.UpdatedAt).
		Into(tbl.TableName()).
		Values(p.ID, p.Username, p.Solved, p.Attempts, p.LastSubmissionAt, p.CreatedAt, p.UpdatedAt).
		OnConflict(tbl.ID).
		SetExclude(tbl.Username, tbl.Solved, tbl.Attempts, tbl.LastSubmissionAt, tbl.UpdatedAt).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("Failed to save profile", "userId", p.ID, "error", err)
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// All returns profiles in ranking order
func (r *profileRepo) All(ctx context.Context) ([]domain.Profile, error) {
	tbl := domain.GetProfileTable()
	query, args := selectProfiles(r.schema).
		OrderBy(tbl.Solved, false).
		OrderBy(tbl.Attempts, true).
		OrderBy(tbl.Username, true).
		Build()

	var profiles []domain.Profile
	if err := r.db.SelectContext(ctx, &profiles, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}
