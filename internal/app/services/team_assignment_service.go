package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/tpmanager/backend/internal/app/assignment"
	"github.com/tpmanager/backend/internal/app/models"
	"github.com/tpmanager/backend/internal/app/models/dto"
	"github.com/tpmanager/backend/internal/app/repositories"
	"github.com/tpmanager/backend/internal/db"
)

// Narrow store surfaces so the assignment flow can be tested with fakes.
type assignmentTPStore interface {
	GetTPByID(ctx context.Context, id int64) (*models.TP, error)
}

type assignmentStudentStore interface {
	ListActiveStudents(ctx context.Context) ([]*models.User, error)
}

type assignmentTeamStore interface {
	ListCapacitiesByTP(ctx context.Context, q repositories.DB, tpID int64) ([]*models.TeamCapacity, error)
	CountTeamsByTP(ctx context.Context, q repositories.DB, tpID int64) (int, error)
	CreateTeamsBatch(ctx context.Context, q repositories.DB, teams []*models.Team) error
}

type assignmentMemberStore interface {
	ListUserIDsByTP(ctx context.Context, q repositories.DB, tpID int64) ([]int64, error)
	CreateMembersBatch(ctx context.Context, q repositories.DB, members []*models.TeamMember) error
}

type transactionRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// AssignmentDefaults are the configured fallbacks for a run that does not
// specify its own options.
type AssignmentDefaults struct {
	MaxMembersPerTeam int
	TeamNamePrefix    string
}

// TeamAssignmentService distributes unassigned students into teams of a TP.
// A run reads the roster and team occupancy, provisions missing teams, and
// writes every membership in one transaction.
type TeamAssignmentService struct {
	tpStore      assignmentTPStore
	studentStore assignmentStudentStore
	teamStore    assignmentTeamStore
	memberStore  assignmentMemberStore
	tx           transactionRunner
	pool         repositories.DB
	defaults     AssignmentDefaults
	logger       zerolog.Logger
}

// NewTeamAssignmentService creates a new TeamAssignmentService. pool is the
// querier used for read-only validation outside a transaction.
func NewTeamAssignmentService(
	tpStore assignmentTPStore,
	studentStore assignmentStudentStore,
	teamStore assignmentTeamStore,
	memberStore assignmentMemberStore,
	tx transactionRunner,
	pool repositories.DB,
	defaults AssignmentDefaults,
	logger zerolog.Logger,
) *TeamAssignmentService {
	return &TeamAssignmentService{
		tpStore:      tpStore,
		studentStore: studentStore,
		teamStore:    teamStore,
		memberStore:  memberStore,
		tx:           tx,
		pool:         pool,
		defaults:     defaults,
		logger:       logger,
	}
}

// AutoAssign distributes every unassigned active student of the TP into
// teams, round-robin. actorID is recorded as the creator of any team the run
// provisions. Run failures are reported inside the result, not as an error;
// only a missing TP surfaces as an error.
func (s *TeamAssignmentService) AutoAssign(ctx context.Context, tpID, actorID int64, req *dto.AutoAssignRequest) (*dto.AssignmentResult, error) {
	if _, err := s.tpStore.GetTPByID(ctx, tpID); err != nil {
		return nil, err
	}

	createNewTeams := true
	if req != nil && req.CreateNewTeams != nil {
		createNewTeams = *req.CreateNewTeams
	}
	maxPerTeam := s.defaults.MaxMembersPerTeam
	if req != nil && req.MaxMembersPerTeam > 0 {
		maxPerTeam = req.MaxMembersPerTeam
	}
	prefix := s.defaults.TeamNamePrefix
	if req != nil && req.TeamNamePrefix != "" {
		prefix = req.TeamNamePrefix
	}

	result := &dto.AssignmentResult{}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		unassigned, err := s.resolveUnassigned(ctx, tx, tpID)
		if err != nil {
			return err
		}

		if len(unassigned) == 0 {
			result.Success = true
			result.Message = "No hay estudiantes sin asignar para este TP"
			result.AssignedTeams = []dto.AssignedTeam{}
			return nil
		}

		capacities, err := s.teamStore.ListCapacitiesByTP(ctx, tx, tpID)
		if err != nil {
			return fmt.Errorf("error fetching existing teams: %w", err)
		}

		pool := make([]*assignment.TeamSlot, 0, len(capacities))
		for _, c := range capacities {
			pool = append(pool, &assignment.TeamSlot{
				ID:         c.ID,
				Name:       c.Name,
				MaxMembers: c.MaxMembers,
				Members:    c.CurrentMembers,
			})
		}

		availableSlots := assignment.AvailableSlots(pool)
		newTeamsNeeded := assignment.TeamsNeeded(len(unassigned), availableSlots, maxPerTeam)

		if newTeamsNeeded > 0 && !createNewTeams {
			result.Success = false
			result.Message = fmt.Sprintf(
				"No hay suficientes espacios en equipos existentes. Se necesitan %d espacios adicionales.",
				len(unassigned)-availableSlots,
			)
			return nil
		}

		if newTeamsNeeded > 0 {
			newTeams, err := s.provisionTeams(ctx, tx, tpID, actorID, prefix, maxPerTeam, newTeamsNeeded)
			if err != nil {
				return err
			}
			for _, team := range newTeams {
				pool = append(pool, &assignment.TeamSlot{
					ID:         team.ID,
					Name:       team.Name,
					MaxMembers: team.MaxMembers,
				})
			}
		}

		placements, err := assignment.Distribute(unassigned, pool)
		if err != nil {
			return fmt.Errorf("error distributing students: %w", err)
		}

		members := make([]*models.TeamMember, 0, len(placements))
		for _, p := range placements {
			members = append(members, &models.TeamMember{
				TeamID:   p.TeamID,
				UserID:   p.StudentID,
				TPID:     tpID,
				IsLeader: p.IsLeader,
			})
		}

		if err := s.memberStore.CreateMembersBatch(ctx, tx, members); err != nil {
			return fmt.Errorf("error assigning students to teams: %w", err)
		}

		result.Success = true
		result.Message = fmt.Sprintf("%d estudiantes asignados exitosamente a equipos", len(placements))
		if newTeamsNeeded > 0 {
			result.Message += fmt.Sprintf(" (%d equipos nuevos creados)", newTeamsNeeded)
		}
		result.AssignedTeams = make([]dto.AssignedTeam, 0, len(placements))
		for _, p := range placements {
			result.AssignedTeams = append(result.AssignedTeams, dto.AssignedTeam{
				UserID:   p.StudentID,
				TeamID:   p.TeamID,
				TeamName: p.TeamName,
			})
		}

		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("tpID", tpID).Msg("Auto-assignment run failed")
		return &dto.AssignmentResult{
			Success: false,
			Message: fmt.Sprintf("Error en la asignación automática: %s", err.Error()),
			Errors:  []string{err.Error()},
		}, nil
	}

	if result.Success && len(result.AssignedTeams) > 0 {
		s.logger.Info().
			Int64("tpID", tpID).
			Int64("actorID", actorID).
			Int("assigned", len(result.AssignedTeams)).
			Msg("Auto-assignment completed")
	}

	return result, nil
}

// Validate performs the read-only pre-flight check for an assignment run
func (s *TeamAssignmentService) Validate(ctx context.Context, tpID int64) (*dto.AssignmentValidation, error) {
	reasons := []string{}

	if _, err := s.tpStore.GetTPByID(ctx, tpID); err != nil {
		reasons = append(reasons, "El Trabajo Práctico no existe o no es accesible")
		return &dto.AssignmentValidation{CanAssign: false, Reasons: reasons}, nil
	}

	unassigned, err := s.resolveUnassigned(ctx, s.pool, tpID)
	if err != nil {
		reasons = append(reasons, "Error al verificar estudiantes sin asignar")
		return &dto.AssignmentValidation{CanAssign: false, Reasons: reasons}, nil
	}

	if len(unassigned) == 0 {
		reasons = append(reasons, "No hay estudiantes sin asignar para este TP")
	}

	capacities, err := s.teamStore.ListCapacitiesByTP(ctx, s.pool, tpID)
	if err != nil {
		reasons = append(reasons, "Error al verificar equipos existentes")
		return &dto.AssignmentValidation{CanAssign: false, Reasons: reasons}, nil
	}

	availableSlots := 0
	for _, c := range capacities {
		availableSlots += c.RemainingSlots()
	}

	if len(unassigned) > 0 {
		if availableSlots == 0 {
			reasons = append(reasons, "Se necesitarán crear equipos nuevos (no hay espacios disponibles en equipos existentes)")
		} else if len(unassigned) > availableSlots {
			reasons = append(reasons, fmt.Sprintf(
				"Se necesitarán crear equipos adicionales (%d estudiantes exceden la capacidad disponible)",
				len(unassigned)-availableSlots,
			))
		}
	}

	return &dto.AssignmentValidation{
		CanAssign: len(unassigned) > 0,
		Reasons:   reasons,
	}, nil
}

// resolveUnassigned loads the active student roster and subtracts everyone
// already placed in a team of the TP. Two explicit reads, then an in-process
// set difference; roster order (ascending user ID) is preserved.
func (s *TeamAssignmentService) resolveUnassigned(ctx context.Context, q repositories.DB, tpID int64) ([]assignment.Student, error) {
	students, err := s.studentStore.ListActiveStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching unassigned students: %w", err)
	}

	assignedIDs, err := s.memberStore.ListUserIDsByTP(ctx, q, tpID)
	if err != nil {
		return nil, fmt.Errorf("error fetching assigned students: %w", err)
	}

	assigned := make(map[int64]struct{}, len(assignedIDs))
	for _, id := range assignedIDs {
		assigned[id] = struct{}{}
	}

	var unassigned []assignment.Student
	for _, student := range students {
		if _, ok := assigned[student.ID]; ok {
			continue
		}
		unassigned = append(unassigned, assignment.Student{ID: student.ID, Name: student.Name})
	}

	return unassigned, nil
}

// provisionTeams creates count new teams named after the TOTAL number of
// teams the TP already has, full or not, so names never collide.
func (s *TeamAssignmentService) provisionTeams(ctx context.Context, tx pgx.Tx, tpID, actorID int64, prefix string, maxPerTeam, count int) ([]*models.Team, error) {
	existing, err := s.teamStore.CountTeamsByTP(ctx, tx, tpID)
	if err != nil {
		return nil, fmt.Errorf("error counting existing teams: %w", err)
	}

	teams := make([]*models.Team, 0, count)
	for i := 0; i < count; i++ {
		joinCode, err := generateJoinCode()
		if err != nil {
			return nil, fmt.Errorf("error generating join code: %w", err)
		}
		teams = append(teams, &models.Team{
			TPID:       tpID,
			Name:       fmt.Sprintf("%s %d", prefix, existing+i+1),
			JoinCode:   joinCode,
			MaxMembers: maxPerTeam,
			CreatedBy:  actorID,
		})
	}

	if err := s.teamStore.CreateTeamsBatch(ctx, tx, teams); err != nil {
		return nil, fmt.Errorf("error creating new teams: %w", err)
	}

	return teams, nil
}
