package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tpmanager/backend/internal/app/models"
	"github.com/tpmanager/backend/internal/pkg/logger"
)

// TaskUpdateRepository handles task history database operations
type TaskUpdateRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTaskUpdateRepository creates a new TaskUpdateRepository
func NewTaskUpdateRepository(db *pgxpool.Pool) *TaskUpdateRepository {
	return &TaskUpdateRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateUpdate records a task history entry
func (r *TaskUpdateRepository) CreateUpdate(ctx context.Context, update *models.TaskUpdate) (int64, error) {
	sql, args, err := r.sb.Insert("task_updates").
		Columns("task_id", "user_id", "previous_status", "new_status", "comment", "created_at").
		Values(update.TaskID, update.UserID, update.PreviousStatus, update.NewStatus, update.Comment, time.Now()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create task update SQL")
		return 0, fmt.Errorf("failed to build create task update query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Int64("taskID", update.TaskID).Msg("Error executing create task update query")
		return 0, fmt.Errorf("error creating task update: %w", err)
	}

	return id, nil
}

// ListUpdatesByTask returns the history of a task, newest first, with the
// author of each entry
func (r *TaskUpdateRepository) ListUpdatesByTask(ctx context.Context, taskID int64) ([]*models.TaskUpdate, error) {
	sql, args, err := r.sb.Select(
		"tu.id", "tu.task_id", "tu.user_id", "tu.previous_status", "tu.new_status", "tu.comment", "tu.created_at",
		"u.id", "u.email", "u.name", "u.role",
	).
		From("task_updates tu").
		Join("users u ON u.id = tu.user_id").
		Where(squirrel.Eq{"tu.task_id": taskID}).
		OrderBy("tu.created_at DESC", "tu.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list task updates query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("taskID", taskID).Msg("Error executing list task updates query")
		return nil, fmt.Errorf("error listing task updates: %w", err)
	}
	defer rows.Close()

	var updates []*models.TaskUpdate
	for rows.Next() {
		u := &models.TaskUpdate{User: &models.User{}}
		err = rows.Scan(
			&u.ID, &u.TaskID, &u.UserID, &u.PreviousStatus, &u.NewStatus, &u.Comment, &u.CreatedAt,
			&u.User.ID, &u.User.Email, &u.User.Name, &u.User.Role,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning task update row: %w", err)
		}
		updates = append(updates, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task update rows: %w", err)
	}

	return updates, nil
}
