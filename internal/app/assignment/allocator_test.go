package assignment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func students(n int) []Student {
	out := make([]Student, n)
	for i := range out {
		out[i] = Student{ID: int64(i + 1)}
	}
	return out
}

func TestAvailableSlots(t *testing.T) {
	teams := []*TeamSlot{
		{ID: 1, MaxMembers: 4, Members: 1},
		{ID: 2, MaxMembers: 4, Members: 4},
		{ID: 3, MaxMembers: 3, Members: 0},
	}
	require.Equal(t, 6, AvailableSlots(teams))

	require.Equal(t, 0, AvailableSlots(nil))
}

func TestTeamsNeeded(t *testing.T) {
	require.Equal(t, 0, TeamsNeeded(3, 5, 4))
	require.Equal(t, 0, TeamsNeeded(5, 5, 4))
	require.Equal(t, 1, TeamsNeeded(6, 5, 4))
	require.Equal(t, 1, TeamsNeeded(9, 5, 4))
	require.Equal(t, 2, TeamsNeeded(10, 5, 4))
	require.Equal(t, 2, TeamsNeeded(6, 0, 4))
}

func TestDistributeAlternatesAcrossTeams(t *testing.T) {
	teams := []*TeamSlot{
		{ID: 1, Name: "Equipo 1", MaxMembers: 4},
		{ID: 2, Name: "Equipo 2", MaxMembers: 4},
	}

	placements, err := Distribute(students(5), teams)
	require.NoError(t, err)
	require.Len(t, placements, 5)

	wantTeams := []int64{1, 2, 1, 2, 1}
	for i, p := range placements {
		require.Equal(t, int64(i+1), p.StudentID)
		require.Equal(t, wantTeams[i], p.TeamID)
	}

	// first recipient of each team leads it
	require.True(t, placements[0].IsLeader)
	require.True(t, placements[1].IsLeader)
	require.False(t, placements[2].IsLeader)
	require.False(t, placements[3].IsLeader)
	require.False(t, placements[4].IsLeader)

	require.Equal(t, 3, teams[0].Members)
	require.Equal(t, 2, teams[1].Members)
}

func TestDistributeSingleTeamTakesAll(t *testing.T) {
	teams := []*TeamSlot{{ID: 7, Name: "Equipo 1", MaxMembers: 4}}

	placements, err := Distribute(students(3), teams)
	require.NoError(t, err)
	require.Len(t, placements, 3)
	for _, p := range placements {
		require.Equal(t, int64(7), p.TeamID)
	}
	require.True(t, placements[0].IsLeader)
	require.False(t, placements[1].IsLeader)
	require.False(t, placements[2].IsLeader)
}

func TestDistributeSkipsFullTeams(t *testing.T) {
	teams := []*TeamSlot{
		{ID: 1, MaxMembers: 2, Members: 2},
		{ID: 2, MaxMembers: 2, Members: 1},
		{ID: 3, MaxMembers: 2, Members: 0},
	}

	placements, err := Distribute(students(3), teams)
	require.NoError(t, err)
	require.Len(t, placements, 3)

	// team 1 is full from the start and must receive nobody
	for _, p := range placements {
		require.NotEqual(t, int64(1), p.TeamID)
	}
	require.Equal(t, 2, teams[1].Members)
	require.Equal(t, 2, teams[2].Members)
}

func TestDistributeLeaderOnlyWhenTeamStartedEmpty(t *testing.T) {
	teams := []*TeamSlot{
		{ID: 1, MaxMembers: 4, Members: 2},
		{ID: 2, MaxMembers: 4, Members: 0},
	}

	placements, err := Distribute(students(4), teams)
	require.NoError(t, err)

	leaders := map[int64]int{}
	for _, p := range placements {
		if p.IsLeader {
			leaders[p.TeamID]++
		}
	}
	require.NotContains(t, leaders, int64(1))
	require.Equal(t, 1, leaders[2])
}

func TestDistributeNoCapacity(t *testing.T) {
	teams := []*TeamSlot{
		{ID: 1, MaxMembers: 2, Members: 2},
	}
	_, err := Distribute(students(1), teams)
	require.ErrorIs(t, err, ErrNoCapacity)

	_, err = Distribute(students(1), nil)
	require.ErrorIs(t, err, ErrNoCapacity)
}

func TestDistributeEmptyRoster(t *testing.T) {
	teams := []*TeamSlot{{ID: 1, MaxMembers: 4}}
	placements, err := Distribute(nil, teams)
	require.NoError(t, err)
	require.Empty(t, placements)
	require.Equal(t, 0, teams[0].Members)
}

func TestDistributeEveryStudentPlacedOnce(t *testing.T) {
	teams := []*TeamSlot{
		{ID: 1, MaxMembers: 4, Members: 3},
		{ID: 2, MaxMembers: 4, Members: 0},
		{ID: 3, MaxMembers: 4, Members: 1},
	}

	roster := students(8)
	placements, err := Distribute(roster, teams)
	require.NoError(t, err)
	require.Len(t, placements, len(roster))

	seen := map[int64]int{}
	for _, p := range placements {
		seen[p.StudentID]++
	}
	for _, s := range roster {
		require.Equal(t, 1, seen[s.ID], "student %d", s.ID)
	}

	for _, team := range teams {
		require.LessOrEqual(t, team.Members, team.MaxMembers)
	}
}

func TestDistributeDeterministic(t *testing.T) {
	build := func() []*TeamSlot {
		return []*TeamSlot{
			{ID: 1, MaxMembers: 3, Members: 1},
			{ID: 2, MaxMembers: 3, Members: 0},
			{ID: 3, MaxMembers: 3, Members: 2},
		}
	}

	first, err := Distribute(students(5), build())
	require.NoError(t, err)
	second, err := Distribute(students(5), build())
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestDistributeBalancesEqualCapacityTeams(t *testing.T) {
	teams := []*TeamSlot{
		{ID: 1, MaxMembers: 4},
		{ID: 2, MaxMembers: 4},
		{ID: 3, MaxMembers: 4},
	}

	_, err := Distribute(students(7), teams)
	require.NoError(t, err)

	min, max := teams[0].Members, teams[0].Members
	for _, team := range teams[1:] {
		if team.Members < min {
			min = team.Members
		}
		if team.Members > max {
			max = team.Members
		}
	}
	require.LessOrEqual(t, max-min, 1)
}

func TestDistributeSixStudentsTwoFreshTeams(t *testing.T) {
	teams := []*TeamSlot{
		{ID: 1, Name: "Equipo 1", MaxMembers: 4},
		{ID: 2, Name: "Equipo 2", MaxMembers: 4},
	}

	placements, err := Distribute(students(6), teams)
	require.NoError(t, err)

	byTeam := map[int64][]int64{}
	for _, p := range placements {
		byTeam[p.TeamID] = append(byTeam[p.TeamID], p.StudentID)
	}
	require.Equal(t, []int64{1, 3, 5}, byTeam[1])
	require.Equal(t, []int64{2, 4, 6}, byTeam[2])
}
