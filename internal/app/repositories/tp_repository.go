package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tpmanager/backend/internal/app/models"
	"github.com/tpmanager/backend/internal/pkg/apperrors"
	"github.com/tpmanager/backend/internal/pkg/logger"
)

// TPRepository handles Trabajo Práctico database operations
type TPRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTPRepository creates a new TPRepository
func NewTPRepository(db *pgxpool.Pool) *TPRepository {
	return &TPRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateTP inserts a new TP and returns its generated ID
func (r *TPRepository) CreateTP(ctx context.Context, tp *models.TP) (int64, error) {
	now := time.Now()
	sql, args, err := r.sb.Insert("tps").
		Columns("title", "description", "deadline", "created_by", "created_at", "updated_at").
		Values(tp.Title, tp.Description, tp.Deadline, tp.CreatedBy, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create tp SQL")
		return 0, fmt.Errorf("failed to build create tp query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Str("title", tp.Title).Msg("Error executing create tp query")
		return 0, fmt.Errorf("error creating tp: %w", err)
	}

	return id, nil
}

// GetTPByID retrieves a TP by ID, including its team count
func (r *TPRepository) GetTPByID(ctx context.Context, id int64) (*models.TP, error) {
	sql, args, err := r.sb.Select(
		"t.id", "t.title", "t.description", "t.deadline", "t.created_by",
		"t.created_at", "t.updated_at", "COUNT(tm.id) AS teams_count",
	).
		From("tps t").
		LeftJoin("teams tm ON tm.tp_id = t.id").
		Where(squirrel.Eq{"t.id": id}).
		GroupBy("t.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get tp query: %w", err)
	}

	tp := &models.TP{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&tp.ID, &tp.Title, &tp.Description, &tp.Deadline, &tp.CreatedBy,
		&tp.CreatedAt, &tp.UpdatedAt, &tp.TeamsCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTPNotFound
		}
		logger.Error().Err(err).Int64("tpID", id).Msg("Error scanning tp row")
		return nil, fmt.Errorf("error retrieving tp: %w", err)
	}

	return tp, nil
}

// ListTPs returns a page of TPs ordered by deadline, plus the total count
func (r *TPRepository) ListTPs(ctx context.Context, offset, limit int) ([]*models.TP, int64, error) {
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("tps").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count tps query: %w", err)
	}

	var total int64
	if err = r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting tps")
		return nil, 0, fmt.Errorf("error counting tps: %w", err)
	}

	sql, args, err := r.sb.Select(
		"t.id", "t.title", "t.description", "t.deadline", "t.created_by",
		"t.created_at", "t.updated_at", "COUNT(tm.id) AS teams_count",
	).
		From("tps t").
		LeftJoin("teams tm ON tm.tp_id = t.id").
		GroupBy("t.id").
		OrderBy("t.deadline ASC", "t.id ASC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list tps query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list tps query")
		return nil, 0, fmt.Errorf("error listing tps: %w", err)
	}
	defer rows.Close()

	var tps []*models.TP
	for rows.Next() {
		tp := &models.TP{}
		err = rows.Scan(
			&tp.ID, &tp.Title, &tp.Description, &tp.Deadline, &tp.CreatedBy,
			&tp.CreatedAt, &tp.UpdatedAt, &tp.TeamsCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning tp row: %w", err)
		}
		tps = append(tps, tp)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating tp rows: %w", err)
	}

	return tps, total, nil
}

// UpdateTP updates the mutable fields of a TP
func (r *TPRepository) UpdateTP(ctx context.Context, tp *models.TP) error {
	sql, args, err := r.sb.Update("tps").
		Set("title", tp.Title).
		Set("description", tp.Description).
		Set("deadline", tp.Deadline).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": tp.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update tp query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("tpID", tp.ID).Msg("Error executing update tp query")
		return fmt.Errorf("error updating tp: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTPNotFound
	}

	return nil
}

// DeleteTP removes a TP; teams and memberships cascade at the schema level
func (r *TPRepository) DeleteTP(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("tps").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete tp query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("tpID", id).Msg("Error executing delete tp query")
		return fmt.Errorf("error deleting tp: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTPNotFound
	}

	return nil
}
