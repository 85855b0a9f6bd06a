package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/tpmanager/backend/internal/app/models"
	"github.com/tpmanager/backend/internal/app/models/dto"
	"github.com/tpmanager/backend/internal/app/repositories"
	"github.com/tpmanager/backend/internal/pkg/apperrors"
)

const joinCodeLength = 8

// joinCodeAlphabet avoids ambiguous characters (0/O, 1/I/L)
const joinCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// TeamService handles manual team operations: creation and joining by code
type TeamService struct {
	teamRepo   *repositories.TeamRepository
	memberRepo *repositories.TeamMemberRepository
	tpRepo     *repositories.TPRepository
	maxMembers int
	logger     zerolog.Logger
}

// NewTeamService creates a new TeamService. maxMembers is the default team
// size applied when a create request does not specify one.
func NewTeamService(
	teamRepo *repositories.TeamRepository,
	memberRepo *repositories.TeamMemberRepository,
	tpRepo *repositories.TPRepository,
	maxMembers int,
	logger zerolog.Logger,
) *TeamService {
	return &TeamService{
		teamRepo:   teamRepo,
		memberRepo: memberRepo,
		tpRepo:     tpRepo,
		maxMembers: maxMembers,
		logger:     logger,
	}
}

// CreateTeam creates a team in a TP; the creator joins it as leader
func (s *TeamService) CreateTeam(ctx context.Context, actorID, tpID int64, req *dto.CreateTeamRequest) (*dto.TeamResponse, error) {
	if _, err := s.tpRepo.GetTPByID(ctx, tpID); err != nil {
		return nil, err
	}

	if _, err := s.memberRepo.GetMembership(ctx, tpID, actorID); err == nil {
		return nil, apperrors.ErrAlreadyInTeam
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing membership: %w", err)
	}

	maxMembers := req.MaxMembers
	if maxMembers == 0 {
		maxMembers = s.maxMembers
	}

	joinCode, err := generateJoinCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate join code: %w", err)
	}

	team := &models.Team{
		TPID:        tpID,
		Name:        req.Name,
		Description: req.Description,
		JoinCode:    joinCode,
		MaxMembers:  maxMembers,
		CreatedBy:   actorID,
	}

	teamID, err := s.teamRepo.CreateTeam(ctx, team)
	if err != nil {
		return nil, err
	}

	_, err = s.memberRepo.CreateMember(ctx, &models.TeamMember{
		TeamID:   teamID,
		UserID:   actorID,
		TPID:     tpID,
		IsLeader: true,
	})
	if err != nil {
		return nil, fmt.Errorf("team created but leader membership failed: %w", err)
	}

	s.logger.Info().Int64("teamID", teamID).Int64("tpID", tpID).Int64("actorID", actorID).Msg("Team created")

	return s.GetTeamByID(ctx, teamID)
}

// JoinTeam adds the acting user to the team identified by the join code
func (s *TeamService) JoinTeam(ctx context.Context, actorID int64, joinCode string) (*dto.TeamResponse, error) {
	team, err := s.teamRepo.GetTeamByJoinCode(ctx, joinCode)
	if err != nil {
		return nil, err
	}

	if team.MemberCount >= team.MaxMembers {
		return nil, apperrors.ErrTeamFull
	}

	_, err = s.memberRepo.CreateMember(ctx, &models.TeamMember{
		TeamID:   team.ID,
		UserID:   actorID,
		TPID:     team.TPID,
		IsLeader: false,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("teamID", team.ID).Int64("userID", actorID).Msg("User joined team")

	return s.GetTeamByID(ctx, team.ID)
}

// GetTeamByID returns a team with its members
func (s *TeamService) GetTeamByID(ctx context.Context, teamID int64) (*dto.TeamResponse, error) {
	team, err := s.teamRepo.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	members, err := s.memberRepo.ListMembersByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	resp := mapTeamToResponse(team)
	for _, m := range members {
		resp.Members = append(resp.Members, dto.TeamMemberResponse{
			UserID:   m.UserID,
			IsLeader: m.IsLeader,
			JoinedAt: m.JoinedAt,
			User:     mapUserToResponse(m.User),
		})
	}

	return resp, nil
}

// ListTeamsByTP returns every team of a TP with member counts
func (s *TeamService) ListTeamsByTP(ctx context.Context, tpID int64) ([]dto.TeamResponse, error) {
	if _, err := s.tpRepo.GetTPByID(ctx, tpID); err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListTeamsByTP(ctx, tpID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.TeamResponse, 0, len(teams))
	for _, team := range teams {
		out = append(out, *mapTeamToResponse(team))
	}

	return out, nil
}

// DeleteTeam removes a team; only its creator or an admin may do so
func (s *TeamService) DeleteTeam(ctx context.Context, actorID int64, actorRole models.Role, teamID int64) error {
	team, err := s.teamRepo.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}

	if team.CreatedBy != actorID && actorRole != models.RoleAdmin {
		return apperrors.NewForbiddenError("only the creator or an admin can delete this team")
	}

	return s.teamRepo.DeleteTeam(ctx, teamID)
}

func generateJoinCode() (string, error) {
	buf := make([]byte, joinCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}
	return string(buf), nil
}

func mapTeamToResponse(team *models.Team) *dto.TeamResponse {
	return &dto.TeamResponse{
		ID:          team.ID,
		TPID:        team.TPID,
		Name:        team.Name,
		Description: team.Description,
		JoinCode:    team.JoinCode,
		MaxMembers:  team.MaxMembers,
		MemberCount: team.MemberCount,
		CreatedBy:   team.CreatedBy,
		CreatedAt:   team.CreatedAt,
	}
}
