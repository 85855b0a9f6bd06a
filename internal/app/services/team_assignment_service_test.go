package services

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/tpmanager/backend/internal/app/models"
	"github.com/tpmanager/backend/internal/app/models/dto"
	"github.com/tpmanager/backend/internal/app/repositories"
	"github.com/tpmanager/backend/internal/db"
	"github.com/tpmanager/backend/internal/pkg/apperrors"
)

type fakeTPStore struct {
	tp  *models.TP
	err error
}

func (f *fakeTPStore) GetTPByID(_ context.Context, _ int64) (*models.TP, error) {
	return f.tp, f.err
}

type fakeStudentStore struct {
	students []*models.User
	err      error
}

func (f *fakeStudentStore) ListActiveStudents(_ context.Context) ([]*models.User, error) {
	return f.students, f.err
}

type fakeTeamStore struct {
	capacities []*models.TeamCapacity
	totalTeams int
	createErr  error

	created []*models.Team
	nextID  int64
}

func (f *fakeTeamStore) ListCapacitiesByTP(_ context.Context, _ repositories.DB, _ int64) ([]*models.TeamCapacity, error) {
	return f.capacities, nil
}

func (f *fakeTeamStore) CountTeamsByTP(_ context.Context, _ repositories.DB, _ int64) (int, error) {
	return f.totalTeams, nil
}

func (f *fakeTeamStore) CreateTeamsBatch(_ context.Context, _ repositories.DB, teams []*models.Team) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, team := range teams {
		f.nextID++
		team.ID = 100 + f.nextID
		f.created = append(f.created, team)
	}
	return nil
}

type fakeMemberStore struct {
	assignedIDs []int64
	writeErr    error

	written []*models.TeamMember
}

func (f *fakeMemberStore) ListUserIDsByTP(_ context.Context, _ repositories.DB, _ int64) ([]int64, error) {
	return f.assignedIDs, nil
}

func (f *fakeMemberStore) CreateMembersBatch(_ context.Context, _ repositories.DB, members []*models.TeamMember) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = append(f.written, members...)
	return nil
}

type fakeTxRunner struct {
	calls int
}

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	f.calls++
	return fn(ctx, pgx.Tx(nil))
}

func roster(n int) []*models.User {
	out := make([]*models.User, n)
	for i := range out {
		out[i] = &models.User{ID: int64(i + 1), Role: models.RoleStudent, IsActive: true}
	}
	return out
}

func newAssignmentService(tps *fakeTPStore, students *fakeStudentStore, teams *fakeTeamStore, members *fakeMemberStore) (*TeamAssignmentService, *fakeTxRunner) {
	tx := &fakeTxRunner{}
	svc := NewTeamAssignmentService(
		tps, students, teams, members, tx, nil,
		AssignmentDefaults{MaxMembersPerTeam: 4, TeamNamePrefix: "Equipo"},
		zerolog.Nop(),
	)
	return svc, tx
}

func TestAutoAssignTPNotFound(t *testing.T) {
	svc, _ := newAssignmentService(
		&fakeTPStore{err: apperrors.ErrTPNotFound},
		&fakeStudentStore{},
		&fakeTeamStore{},
		&fakeMemberStore{},
	)

	_, err := svc.AutoAssign(context.Background(), 1, 99, nil)
	require.ErrorIs(t, err, apperrors.ErrTPNotFound)
}

func TestAutoAssignNothingToDo(t *testing.T) {
	members := &fakeMemberStore{assignedIDs: []int64{1, 2}}
	teams := &fakeTeamStore{}
	svc, _ := newAssignmentService(
		&fakeTPStore{tp: &models.TP{ID: 1}},
		&fakeStudentStore{students: roster(2)},
		teams,
		members,
	)

	result, err := svc.AutoAssign(context.Background(), 1, 99, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "No hay estudiantes sin asignar para este TP", result.Message)
	require.Empty(t, result.AssignedTeams)
	require.Empty(t, members.written)
	require.Empty(t, teams.created)
}

func TestAutoAssignInsufficientCapacityWithoutProvisioning(t *testing.T) {
	members := &fakeMemberStore{}
	teams := &fakeTeamStore{
		capacities: []*models.TeamCapacity{{ID: 1, Name: "Equipo 1", MaxMembers: 4, CurrentMembers: 4}},
		totalTeams: 1,
	}
	svc, _ := newAssignmentService(
		&fakeTPStore{tp: &models.TP{ID: 1}},
		&fakeStudentStore{students: roster(2)},
		teams,
		members,
	)

	noNewTeams := false
	result, err := svc.AutoAssign(context.Background(), 1, 99, &dto.AutoAssignRequest{CreateNewTeams: &noNewTeams})
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, "No hay suficientes espacios en equipos existentes. Se necesitan 2 espacios adicionales.", result.Message)
	require.Empty(t, members.written)
	require.Empty(t, teams.created)
}

func TestAutoAssignFiveStudentsOneExistingTeam(t *testing.T) {
	members := &fakeMemberStore{}
	teams := &fakeTeamStore{
		capacities: []*models.TeamCapacity{{ID: 10, Name: "Equipo 1", MaxMembers: 4, CurrentMembers: 0}},
		totalTeams: 1,
	}
	svc, tx := newAssignmentService(
		&fakeTPStore{tp: &models.TP{ID: 1}},
		&fakeStudentStore{students: roster(5)},
		teams,
		members,
	)

	result, err := svc.AutoAssign(context.Background(), 1, 99, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 1, tx.calls)
	require.Equal(t, "5 estudiantes asignados exitosamente a equipos (1 equipos nuevos creados)", result.Message)

	require.Len(t, teams.created, 1)
	newTeam := teams.created[0]
	require.Equal(t, "Equipo 2", newTeam.Name)
	require.Equal(t, 4, newTeam.MaxMembers)
	require.Equal(t, int64(99), newTeam.CreatedBy)
	require.NotEmpty(t, newTeam.JoinCode)

	require.Len(t, members.written, 5)
	wantTeams := []int64{10, newTeam.ID, 10, newTeam.ID, 10}
	for i, m := range members.written {
		require.Equal(t, int64(i+1), m.UserID)
		require.Equal(t, wantTeams[i], m.TeamID)
		require.Equal(t, int64(1), m.TPID)
	}
	require.True(t, members.written[0].IsLeader)
	require.True(t, members.written[1].IsLeader)
	require.False(t, members.written[2].IsLeader)
	require.False(t, members.written[3].IsLeader)
	require.False(t, members.written[4].IsLeader)
}

func TestAutoAssignProvisionsWhenNoTeamsExist(t *testing.T) {
	members := &fakeMemberStore{}
	teams := &fakeTeamStore{}
	svc, _ := newAssignmentService(
		&fakeTPStore{tp: &models.TP{ID: 1}},
		&fakeStudentStore{students: roster(3)},
		teams,
		members,
	)

	result, err := svc.AutoAssign(context.Background(), 1, 99, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	require.Len(t, teams.created, 1)
	require.Equal(t, "Equipo 1", teams.created[0].Name)

	require.Len(t, members.written, 3)
	require.True(t, members.written[0].IsLeader)
	require.False(t, members.written[1].IsLeader)
	require.False(t, members.written[2].IsLeader)
	for _, m := range members.written {
		require.Equal(t, teams.created[0].ID, m.TeamID)
	}
}

func TestAutoAssignSkipsFullTeamsAndContinuesNaming(t *testing.T) {
	members := &fakeMemberStore{assignedIDs: []int64{1, 2, 3, 4}}
	teams := &fakeTeamStore{
		capacities: []*models.TeamCapacity{{ID: 1, Name: "Equipo 1", MaxMembers: 4, CurrentMembers: 4}},
		totalTeams: 1,
	}
	svc, _ := newAssignmentService(
		&fakeTPStore{tp: &models.TP{ID: 1}},
		&fakeStudentStore{students: roster(6)},
		teams,
		members,
	)

	result, err := svc.AutoAssign(context.Background(), 1, 99, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	// names continue after the full existing team
	require.Len(t, teams.created, 1)
	require.Equal(t, "Equipo 2", teams.created[0].Name)

	require.Len(t, members.written, 2)
	for _, m := range members.written {
		require.NotEqual(t, int64(1), m.TeamID)
	}
}

func TestAutoAssignMemberWriteConflict(t *testing.T) {
	members := &fakeMemberStore{writeErr: apperrors.ErrAssignmentConflict}
	teams := &fakeTeamStore{
		capacities: []*models.TeamCapacity{{ID: 1, Name: "Equipo 1", MaxMembers: 4, CurrentMembers: 0}},
		totalTeams: 1,
	}
	svc, _ := newAssignmentService(
		&fakeTPStore{tp: &models.TP{ID: 1}},
		&fakeStudentStore{students: roster(2)},
		teams,
		members,
	)

	result, err := svc.AutoAssign(context.Background(), 1, 99, nil)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Contains(t, result.Message, "Error en la asignación automática")
	require.NotEmpty(t, result.Errors)
}

func TestAutoAssignCustomOptions(t *testing.T) {
	members := &fakeMemberStore{}
	teams := &fakeTeamStore{}
	svc, _ := newAssignmentService(
		&fakeTPStore{tp: &models.TP{ID: 1}},
		&fakeStudentStore{students: roster(5)},
		teams,
		members,
	)

	result, err := svc.AutoAssign(context.Background(), 1, 99, &dto.AutoAssignRequest{
		MaxMembersPerTeam: 2,
		TeamNamePrefix:    "Grupo",
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	require.Len(t, teams.created, 3)
	require.Equal(t, "Grupo 1", teams.created[0].Name)
	require.Equal(t, "Grupo 2", teams.created[1].Name)
	require.Equal(t, "Grupo 3", teams.created[2].Name)
	for _, team := range teams.created {
		require.Equal(t, 2, team.MaxMembers)
	}
}

func TestValidateTPNotFound(t *testing.T) {
	svc, _ := newAssignmentService(
		&fakeTPStore{err: apperrors.ErrTPNotFound},
		&fakeStudentStore{},
		&fakeTeamStore{},
		&fakeMemberStore{},
	)

	validation, err := svc.Validate(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, validation.CanAssign)
	require.Equal(t, []string{"El Trabajo Práctico no existe o no es accesible"}, validation.Reasons)
}

func TestValidateNoUnassignedStudents(t *testing.T) {
	svc, _ := newAssignmentService(
		&fakeTPStore{tp: &models.TP{ID: 1}},
		&fakeStudentStore{students: roster(2)},
		&fakeTeamStore{},
		&fakeMemberStore{assignedIDs: []int64{1, 2}},
	)

	validation, err := svc.Validate(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, validation.CanAssign)
	require.Contains(t, validation.Reasons, "No hay estudiantes sin asignar para este TP")
}

func TestValidateNeedsNewTeams(t *testing.T) {
	svc, _ := newAssignmentService(
		&fakeTPStore{tp: &models.TP{ID: 1}},
		&fakeStudentStore{students: roster(3)},
		&fakeTeamStore{},
		&fakeMemberStore{},
	)

	validation, err := svc.Validate(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, validation.CanAssign)
	require.Contains(t, validation.Reasons, "Se necesitarán crear equipos nuevos (no hay espacios disponibles en equipos existentes)")
}

func TestValidateCapacityShortfall(t *testing.T) {
	svc, _ := newAssignmentService(
		&fakeTPStore{tp: &models.TP{ID: 1}},
		&fakeStudentStore{students: roster(6)},
		&fakeTeamStore{
			capacities: []*models.TeamCapacity{{ID: 1, Name: "Equipo 1", MaxMembers: 4, CurrentMembers: 0}},
			totalTeams: 1,
		},
		&fakeMemberStore{},
	)

	validation, err := svc.Validate(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, validation.CanAssign)
	require.Contains(t, validation.Reasons, "Se necesitarán crear equipos adicionales (2 estudiantes exceden la capacidad disponible)")
}

func TestValidateCleanRun(t *testing.T) {
	svc, _ := newAssignmentService(
		&fakeTPStore{tp: &models.TP{ID: 1}},
		&fakeStudentStore{students: roster(3)},
		&fakeTeamStore{
			capacities: []*models.TeamCapacity{{ID: 1, Name: "Equipo 1", MaxMembers: 4, CurrentMembers: 0}},
			totalTeams: 1,
		},
		&fakeMemberStore{},
	)

	validation, err := svc.Validate(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, validation.CanAssign)
	require.Empty(t, validation.Reasons)
}
