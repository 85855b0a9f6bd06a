// Package assignment holds the pure round-robin distribution logic used by
// the team auto-assignment service. It has no database knowledge: callers
// load the roster and team capacities, and get back a placement list.
package assignment

import "errors"

// ErrNoCapacity is returned when no team in the pool has a free slot left
// while students remain to be placed.
var ErrNoCapacity = errors.New("no team has remaining capacity")

// Student is one roster entry to place
type Student struct {
	ID   int64
	Name string
}

// TeamSlot is a candidate team with its live occupancy. Distribute mutates
// Members as it places students.
type TeamSlot struct {
	ID         int64
	Name       string
	MaxMembers int
	Members    int
}

// Full reports whether the team has no free slot left
func (t *TeamSlot) Full() bool {
	return t.Members >= t.MaxMembers
}

// Placement records one student-to-team decision
type Placement struct {
	StudentID int64
	TeamID    int64
	TeamName  string
	IsLeader  bool
}

// AvailableSlots sums the free slots over every non-full team in the pool
func AvailableSlots(teams []*TeamSlot) int {
	total := 0
	for _, t := range teams {
		if !t.Full() {
			total += t.MaxMembers - t.Members
		}
	}
	return total
}

// TeamsNeeded returns how many new teams must be provisioned so that
// studentCount students fit alongside availableSlots existing free slots,
// with at most maxPerTeam students per new team.
func TeamsNeeded(studentCount, availableSlots, maxPerTeam int) int {
	deficit := studentCount - availableSlots
	if deficit <= 0 {
		return 0
	}
	return (deficit + maxPerTeam - 1) / maxPerTeam
}

// Distribute places students into teams round-robin, skipping full teams.
// The cursor keeps advancing across students, so consecutive students land in
// consecutive teams. A student placed into a team that was empty at that
// moment becomes its leader. Team occupancy is updated in place; the caller
// sees final member counts after the call.
//
// Returns ErrNoCapacity if a full pass over the pool finds no free slot.
func Distribute(students []Student, teams []*TeamSlot) ([]Placement, error) {
	if len(students) == 0 {
		return nil, nil
	}
	if len(teams) == 0 {
		return nil, ErrNoCapacity
	}

	placements := make([]Placement, 0, len(students))
	cursor := 0

	for _, student := range students {
		placed := false
		for tries := 0; tries < len(teams); tries++ {
			team := teams[cursor%len(teams)]
			cursor++
			if team.Full() {
				continue
			}

			placements = append(placements, Placement{
				StudentID: student.ID,
				TeamID:    team.ID,
				TeamName:  team.Name,
				IsLeader:  team.Members == 0,
			})
			team.Members++
			placed = true
			break
		}
		if !placed {
			return nil, ErrNoCapacity
		}
	}

	return placements, nil
}
