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

// TaskRepository handles task database operations
type TaskRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateTask inserts a new task and returns its generated ID
func (r *TaskRepository) CreateTask(ctx context.Context, task *models.Task) (int64, error) {
	now := time.Now()
	sql, args, err := r.sb.Insert("tasks").
		Columns("team_id", "title", "description", "status", "priority", "due_date", "assigned_to", "created_by", "created_at", "updated_at").
		Values(task.TeamID, task.Title, task.Description, task.Status, task.Priority, task.DueDate, task.AssignedTo, task.CreatedBy, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create task SQL")
		return 0, fmt.Errorf("failed to build create task query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Int64("teamID", task.TeamID).Msg("Error executing create task query")
		return 0, fmt.Errorf("error creating task: %w", err)
	}

	return id, nil
}

// GetTaskByID retrieves a task by ID
func (r *TaskRepository) GetTaskByID(ctx context.Context, id int64) (*models.Task, error) {
	sql, args, err := r.sb.Select(taskColumns()...).
		From("tasks").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get task query: %w", err)
	}

	task := &models.Task{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&task.ID, &task.TeamID, &task.Title, &task.Description, &task.Status,
		&task.Priority, &task.DueDate, &task.AssignedTo, &task.CreatedBy,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTaskNotFound
		}
		logger.Error().Err(err).Int64("taskID", id).Msg("Error scanning task row")
		return nil, fmt.Errorf("error retrieving task: %w", err)
	}

	return task, nil
}

// ListTasksByTeam returns every task of a team ordered by creation time
func (r *TaskRepository) ListTasksByTeam(ctx context.Context, teamID int64) ([]*models.Task, error) {
	sql, args, err := r.sb.Select(taskColumns()...).
		From("tasks").
		Where(squirrel.Eq{"team_id": teamID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list tasks query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("teamID", teamID).Msg("Error executing list tasks query")
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{}
		err = rows.Scan(
			&task.ID, &task.TeamID, &task.Title, &task.Description, &task.Status,
			&task.Priority, &task.DueDate, &task.AssignedTo, &task.CreatedBy,
			&task.CreatedAt, &task.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// UpdateTask updates the mutable fields of a task
func (r *TaskRepository) UpdateTask(ctx context.Context, task *models.Task) error {
	sql, args, err := r.sb.Update("tasks").
		Set("title", task.Title).
		Set("description", task.Description).
		Set("status", task.Status).
		Set("priority", task.Priority).
		Set("due_date", task.DueDate).
		Set("assigned_to", task.AssignedTo).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": task.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update task query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("taskID", task.ID).Msg("Error executing update task query")
		return fmt.Errorf("error updating task: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTaskNotFound
	}

	return nil
}

// DeleteTask removes a task and its update history
func (r *TaskRepository) DeleteTask(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("tasks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete task query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("taskID", id).Msg("Error executing delete task query")
		return fmt.Errorf("error deleting task: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTaskNotFound
	}

	return nil
}

// GetTeamProgress aggregates the task counters of a team in a single query
func (r *TaskRepository) GetTeamProgress(ctx context.Context, teamID int64) (*models.TeamProgress, error) {
	sql, args, err := r.sb.Select(
		"COUNT(*) AS total",
		"COUNT(*) FILTER (WHERE status = 'completed') AS completed",
		"COUNT(*) FILTER (WHERE status = 'in_progress') AS in_progress",
		"COUNT(*) FILTER (WHERE status IN ('pending', 'review')) AS pending",
		"COUNT(*) FILTER (WHERE status <> 'completed' AND due_date IS NOT NULL AND due_date < NOW()) AS overdue",
	).
		From("tasks").
		Where(squirrel.Eq{"team_id": teamID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build team progress query: %w", err)
	}

	progress := &models.TeamProgress{TeamID: teamID}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&progress.TotalTasks, &progress.CompletedTasks, &progress.InProgressTasks,
		&progress.PendingTasks, &progress.OverdueTasks,
	)
	if err != nil {
		logger.Error().Err(err).Int64("teamID", teamID).Msg("Error scanning team progress row")
		return nil, fmt.Errorf("error retrieving team progress: %w", err)
	}

	if progress.TotalTasks > 0 {
		progress.CompletionPercentage = float64(progress.CompletedTasks) / float64(progress.TotalTasks) * 100
	}

	return progress, nil
}

func taskColumns() []string {
	return []string{"id", "team_id", "title", "description", "status", "priority", "due_date", "assigned_to", "created_by", "created_at", "updated_at"}
}
