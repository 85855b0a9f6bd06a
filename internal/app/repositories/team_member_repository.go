package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tpmanager/backend/internal/app/models"
	"github.com/tpmanager/backend/internal/pkg/apperrors"
	"github.com/tpmanager/backend/internal/pkg/dberrors"
	"github.com/tpmanager/backend/internal/pkg/logger"
)

// TeamMemberRepository handles team membership database operations
type TeamMemberRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTeamMemberRepository creates a new TeamMemberRepository
func NewTeamMemberRepository(db *pgxpool.Pool) *TeamMemberRepository {
	return &TeamMemberRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateMember adds a single user to a team. The unique constraint on
// (tp_id, user_id) rejects a second membership in the same TP.
func (r *TeamMemberRepository) CreateMember(ctx context.Context, member *models.TeamMember) (int64, error) {
	sql, args, err := r.sb.Insert("team_members").
		Columns("team_id", "user_id", "tp_id", "is_leader", "joined_at").
		Values(member.TeamID, member.UserID, member.TPID, member.IsLeader, time.Now()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create member SQL")
		return 0, fmt.Errorf("failed to build create member query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "team_members_tp_id_user_id_key") {
			return 0, apperrors.ErrAlreadyInTeam
		}
		logger.Error().Err(err).Int64("teamID", member.TeamID).Int64("userID", member.UserID).Msg("Error executing create member query")
		return 0, fmt.Errorf("error creating team member: %w", err)
	}

	return id, nil
}

// CreateMembersBatch inserts memberships on the given querier. A unique
// violation means another assignment run placed one of these users first;
// that surfaces as ErrAssignmentConflict so the whole transaction rolls back.
func (r *TeamMemberRepository) CreateMembersBatch(ctx context.Context, q DB, members []*models.TeamMember) error {
	if len(members) == 0 {
		return nil
	}

	builder := r.sb.Insert("team_members").
		Columns("team_id", "user_id", "tp_id", "is_leader", "joined_at")

	now := time.Now()
	for _, m := range members {
		builder = builder.Values(m.TeamID, m.UserID, m.TPID, m.IsLeader, now)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build batch create members query: %w", err)
	}

	_, err = q.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAssignmentConflict
		}
		logger.Error().Err(err).Int("memberCount", len(members)).Msg("Error executing batch create members query")
		return fmt.Errorf("error creating team members: %w", err)
	}

	return nil
}

// ListUserIDsByTP returns the IDs of every user already placed in some team
// of the TP, ordered by user ID.
func (r *TeamMemberRepository) ListUserIDsByTP(ctx context.Context, q DB, tpID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("user_id").
		From("team_members").
		Where(squirrel.Eq{"tp_id": tpID}).
		OrderBy("user_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list member user ids query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("tpID", tpID).Msg("Error executing list member user ids query")
		return nil, fmt.Errorf("error listing member user ids: %w", err)
	}
	defer rows.Close()

	var userIDs []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning member user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member user id rows: %w", err)
	}

	return userIDs, nil
}

// ListMembersByTeam returns the members of a team with their user details
func (r *TeamMemberRepository) ListMembersByTeam(ctx context.Context, teamID int64) ([]*models.TeamMember, error) {
	sql, args, err := r.sb.Select(
		"m.id", "m.team_id", "m.user_id", "m.tp_id", "m.is_leader", "m.joined_at",
		"u.id", "u.email", "u.name", "u.role",
	).
		From("team_members m").
		Join("users u ON u.id = m.user_id").
		Where(squirrel.Eq{"m.team_id": teamID}).
		OrderBy("m.is_leader DESC", "m.joined_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list members query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("teamID", teamID).Msg("Error executing list members query")
		return nil, fmt.Errorf("error listing team members: %w", err)
	}
	defer rows.Close()

	var members []*models.TeamMember
	for rows.Next() {
		m := &models.TeamMember{User: &models.User{}}
		err = rows.Scan(
			&m.ID, &m.TeamID, &m.UserID, &m.TPID, &m.IsLeader, &m.JoinedAt,
			&m.User.ID, &m.User.Email, &m.User.Name, &m.User.Role,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning member row: %w", err)
		}
		members = append(members, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return members, nil
}

// GetMembership returns the membership of a user within a TP, if any
func (r *TeamMemberRepository) GetMembership(ctx context.Context, tpID, userID int64) (*models.TeamMember, error) {
	sql, args, err := r.sb.Select("id", "team_id", "user_id", "tp_id", "is_leader", "joined_at").
		From("team_members").
		Where(squirrel.Eq{"tp_id": tpID, "user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get membership query: %w", err)
	}

	m := &models.TeamMember{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.TeamID, &m.UserID, &m.TPID, &m.IsLeader, &m.JoinedAt)
	if err != nil {
		// pgx.ErrNoRows means the user has no team in this TP yet
		return nil, err
	}

	return m, nil
}

// IsMemberOfTeam reports whether a user belongs to the given team
func (r *TeamMemberRepository) IsMemberOfTeam(ctx context.Context, teamID, userID int64) (bool, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("team_members").
		Where(squirrel.Eq{"team_id": teamID, "user_id": userID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build is member query: %w", err)
	}

	var count int
	if err = r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Int64("teamID", teamID).Int64("userID", userID).Msg("Error checking team membership")
		return false, fmt.Errorf("error checking team membership: %w", err)
	}

	return count > 0, nil
}
