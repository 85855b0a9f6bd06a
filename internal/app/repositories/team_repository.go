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
	"github.com/tpmanager/backend/internal/pkg/dberrors"
	"github.com/tpmanager/backend/internal/pkg/logger"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateTeam inserts a single team and returns its generated ID
func (r *TeamRepository) CreateTeam(ctx context.Context, team *models.Team) (int64, error) {
	now := time.Now()
	sql, args, err := r.sb.Insert("teams").
		Columns("tp_id", "name", "description", "join_code", "max_members", "created_by", "created_at", "updated_at").
		Values(team.TPID, team.Name, team.Description, team.JoinCode, team.MaxMembers, team.CreatedBy, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create team SQL")
		return 0, fmt.Errorf("failed to build create team query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "teams_tp_id_name_key") {
			return 0, apperrors.ErrTeamNameExists
		}
		logger.Error().Err(err).Str("name", team.Name).Int64("tpID", team.TPID).Msg("Error executing create team query")
		return 0, fmt.Errorf("error creating team: %w", err)
	}

	return id, nil
}

// CreateTeamsBatch inserts teams one statement at a time on the given querier,
// filling each team's ID. Run it on a pgx.Tx so a failure rolls back the lot.
func (r *TeamRepository) CreateTeamsBatch(ctx context.Context, q DB, teams []*models.Team) error {
	now := time.Now()
	for _, team := range teams {
		sql, args, err := r.sb.Insert("teams").
			Columns("tp_id", "name", "description", "join_code", "max_members", "created_by", "created_at", "updated_at").
			Values(team.TPID, team.Name, team.Description, team.JoinCode, team.MaxMembers, team.CreatedBy, now, now).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build batch create team query: %w", err)
		}

		if err = q.QueryRow(ctx, sql, args...).Scan(&team.ID); err != nil {
			if dberrors.IsDuplicateConstraintError(err, "teams_tp_id_name_key") {
				return apperrors.NewCustomError(apperrors.ErrTeamNameExists, fmt.Sprintf("team name %q already exists", team.Name))
			}
			logger.Error().Err(err).Str("name", team.Name).Int64("tpID", team.TPID).Msg("Error inserting team in batch")
			return fmt.Errorf("error creating team %q: %w", team.Name, err)
		}
	}

	return nil
}

// GetTeamByID retrieves a team with its current member count
func (r *TeamRepository) GetTeamByID(ctx context.Context, id int64) (*models.Team, error) {
	sql, args, err := r.sb.Select(
		"t.id", "t.tp_id", "t.name", "t.description", "t.join_code",
		"t.max_members", "t.created_by", "t.created_at", "t.updated_at",
		"COUNT(m.id) AS member_count",
	).
		From("teams t").
		LeftJoin("team_members m ON m.team_id = t.id").
		Where(squirrel.Eq{"t.id": id}).
		GroupBy("t.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get team query: %w", err)
	}

	team := &models.Team{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&team.ID, &team.TPID, &team.Name, &team.Description, &team.JoinCode,
		&team.MaxMembers, &team.CreatedBy, &team.CreatedAt, &team.UpdatedAt,
		&team.MemberCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeamNotFound
		}
		logger.Error().Err(err).Int64("teamID", id).Msg("Error scanning team row")
		return nil, fmt.Errorf("error retrieving team: %w", err)
	}

	return team, nil
}

// GetTeamByJoinCode retrieves a team by its join code
func (r *TeamRepository) GetTeamByJoinCode(ctx context.Context, joinCode string) (*models.Team, error) {
	sql, args, err := r.sb.Select(
		"t.id", "t.tp_id", "t.name", "t.description", "t.join_code",
		"t.max_members", "t.created_by", "t.created_at", "t.updated_at",
		"COUNT(m.id) AS member_count",
	).
		From("teams t").
		LeftJoin("team_members m ON m.team_id = t.id").
		Where(squirrel.Eq{"t.join_code": joinCode}).
		GroupBy("t.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get team by join code query: %w", err)
	}

	team := &models.Team{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&team.ID, &team.TPID, &team.Name, &team.Description, &team.JoinCode,
		&team.MaxMembers, &team.CreatedBy, &team.CreatedAt, &team.UpdatedAt,
		&team.MemberCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidJoinCode
		}
		logger.Error().Err(err).Msg("Error scanning team row by join code")
		return nil, fmt.Errorf("error retrieving team by join code: %w", err)
	}

	return team, nil
}

// ListTeamsByTP returns every team of a TP with member counts, ordered by ID
func (r *TeamRepository) ListTeamsByTP(ctx context.Context, tpID int64) ([]*models.Team, error) {
	sql, args, err := r.sb.Select(
		"t.id", "t.tp_id", "t.name", "t.description", "t.join_code",
		"t.max_members", "t.created_by", "t.created_at", "t.updated_at",
		"COUNT(m.id) AS member_count",
	).
		From("teams t").
		LeftJoin("team_members m ON m.team_id = t.id").
		Where(squirrel.Eq{"t.tp_id": tpID}).
		GroupBy("t.id").
		OrderBy("t.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list teams query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("tpID", tpID).Msg("Error executing list teams query")
		return nil, fmt.Errorf("error listing teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		team := &models.Team{}
		err = rows.Scan(
			&team.ID, &team.TPID, &team.Name, &team.Description, &team.JoinCode,
			&team.MaxMembers, &team.CreatedBy, &team.CreatedAt, &team.UpdatedAt,
			&team.MemberCount,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning team row: %w", err)
		}
		teams = append(teams, team)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}

	return teams, nil
}

// ListCapacitiesByTP returns every team of a TP annotated with its current
// member count, ordered by ID. The ordering is what makes assignment runs
// deterministic, so it must stay ascending by ID.
func (r *TeamRepository) ListCapacitiesByTP(ctx context.Context, q DB, tpID int64) ([]*models.TeamCapacity, error) {
	sql, args, err := r.sb.Select(
		"t.id", "t.name", "t.max_members", "COUNT(m.id) AS current_members",
	).
		From("teams t").
		LeftJoin("team_members m ON m.team_id = t.id").
		Where(squirrel.Eq{"t.tp_id": tpID}).
		GroupBy("t.id").
		OrderBy("t.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list capacities query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("tpID", tpID).Msg("Error executing list capacities query")
		return nil, fmt.Errorf("error listing team capacities: %w", err)
	}
	defer rows.Close()

	var capacities []*models.TeamCapacity
	for rows.Next() {
		c := &models.TeamCapacity{}
		if err = rows.Scan(&c.ID, &c.Name, &c.MaxMembers, &c.CurrentMembers); err != nil {
			return nil, fmt.Errorf("error scanning capacity row: %w", err)
		}
		capacities = append(capacities, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating capacity rows: %w", err)
	}

	return capacities, nil
}

// CountTeamsByTP returns the total number of teams a TP has, full or not.
// New auto-provisioned teams are numbered after this count so names never
// collide with existing full teams.
func (r *TeamRepository) CountTeamsByTP(ctx context.Context, q DB, tpID int64) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("teams").
		Where(squirrel.Eq{"tp_id": tpID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count teams query: %w", err)
	}

	var count int
	if err = q.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Int64("tpID", tpID).Msg("Error counting teams")
		return 0, fmt.Errorf("error counting teams: %w", err)
	}

	return count, nil
}

// DeleteTeam removes a team; memberships and tasks cascade at the schema level
func (r *TeamRepository) DeleteTeam(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("teams").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete team query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("teamID", id).Msg("Error executing delete team query")
		return fmt.Errorf("error deleting team: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTeamNotFound
	}

	return nil
}
