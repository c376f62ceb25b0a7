package capacity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/capplan/internal/schedule"
)

func demo(t *testing.T) schedule.Schedule {
	t.Helper()
	return schedule.Demo("2025-11-24")
}

// person 1 Alice, 2 Bob, 3 Charlie; W3 has 4 working days.

func TestAvailability(t *testing.T) {
	s := demo(t)

	assert.Equal(t, 5.0, Availability(s, 2, "W1"))
	assert.Equal(t, 3.0, Availability(s, 1, "W2"))
	assert.Equal(t, 0.0, Availability(s, 1, "W5"))
	assert.Equal(t, 4.0, Availability(s, 2, "W3"))
	assert.Equal(t, 0.0, Availability(s, 2, "W42"))
	// no holiday entry reads as zero holiday
	assert.Equal(t, 5.0, Availability(s, 99, "W1"))

	s.Holidays.Set(2, "W1", 7)
	assert.Equal(t, 0.0, Availability(s, 2, "W1"))
}

func TestFirstResponderScenario(t *testing.T) {
	s := demo(t)
	s, err := schedule.SetHoliday(s, 3, "W3", 1)
	require.NoError(t, err)
	s, err = AssignFirstResponder(s, "W3", 3)
	require.NoError(t, err)
	s.Projects[0].Assignments = append(s.Projects[0].Assignments,
		schedule.Assignment{PersonID: 3, DaysPerWeek: 2, StartWeek: "W1", EndWeek: "W3"})

	assert.Equal(t, 3.0, Availability(s, 3, "W3"))
	assert.True(t, IsFirstResponder(s, 3, "W3"))
	assert.False(t, IsFirstResponder(s, 2, "W3"))
	assert.Equal(t, 0.0, Capacity(s, 3, "W3"))
	assert.Equal(t, 0.0, Allocated(s, 3, "W3"))
	assert.Equal(t, 2.0, Requested(s, 3, "W3"))
	assert.Equal(t, 2.0, Allocated(s, 3, "W2"))
}

func TestCapacityInconsistentFirstResponder(t *testing.T) {
	s := demo(t)
	s, err := schedule.SetHoliday(s, 2, "W1", 3)
	require.NoError(t, err)

	assert.False(t, CanBeFirstResponder(s, 2, "W1"))
	_, err = AssignFirstResponder(s, "W1", 2)
	assert.ErrorIs(t, err, ErrInsufficientAvailability)

	// bypass the gate the way a stale document would
	s, err = schedule.SetFirstResponder(s, "W1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, Availability(s, 2, "W1"))
	assert.Equal(t, 0.0, Capacity(s, 2, "W1"))
}

func TestAssignFirstResponderClearSkipsGate(t *testing.T) {
	s := demo(t)
	s, err := AssignFirstResponder(s, "W5", 0)
	require.NoError(t, err)
	assert.Empty(t, s.FRSchedule)
}

func TestAllocatedCapsOverlap(t *testing.T) {
	s := demo(t)
	s.Projects = []schedule.Project{
		{ID: 1, Name: "A", StartWeek: "W1", EndWeek: "W6", Assignments: []schedule.Assignment{
			{PersonID: 2, DaysPerWeek: 4, StartWeek: "W1", EndWeek: "W2"},
		}},
		{ID: 2, Name: "B", StartWeek: "W1", EndWeek: "W6", Assignments: []schedule.Assignment{
			{PersonID: 2, DaysPerWeek: 3, StartWeek: "W2", EndWeek: "W4"},
		}},
	}

	assert.Equal(t, 4.0, Allocated(s, 2, "W1"))
	assert.Equal(t, 7.0, Requested(s, 2, "W2"))
	assert.Equal(t, 5.0, Allocated(s, 2, "W2"))
	assert.Equal(t, 3.0, Allocated(s, 2, "W3"))
	assert.Equal(t, 0.0, Allocated(s, 2, "W5"))

	names := []string{}
	for _, p := range ActiveProjects(s, 2, "W2") {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"A", "B"}, names)
}

func TestAllocatedHonorsAssignmentRangeNotProject(t *testing.T) {
	s := demo(t)
	// project runs W1-W3 but the assignment extends to W5
	s.Projects[0].Assignments[1].EndWeek = "W5"

	assert.Equal(t, 4.0, Allocated(s, 2, "W5"))
	assert.Equal(t, 0.0, Allocated(s, 2, "W6"))
}

func TestAllocatedDanglingReferences(t *testing.T) {
	s := schedule.Resize(demo(t), 4)
	s.Projects[0].Assignments[1].EndWeek = "W6"

	for _, w := range s.Weeks {
		assert.Zero(t, Allocated(s, 2, w.ID), w.ID)
	}
	assert.Zero(t, Allocated(s, 1, "W6"))
}

func TestInvariantsHoldAcrossPlan(t *testing.T) {
	s := demo(t)
	s.FRSchedule["W1"] = 1
	s.FRSchedule["W2"] = 1 // Alice has 3 available here, the gate would allow it
	s.FRSchedule["W4"] = 3 // Charlie has 2, an inconsistent assignment
	s.Projects = append(s.Projects, schedule.Project{
		ID: 2, Name: "Overlap", StartWeek: "W1", EndWeek: "W6",
		Assignments: []schedule.Assignment{
			{PersonID: 1, DaysPerWeek: 4.5, StartWeek: "W1", EndWeek: "W6"},
			{PersonID: 3, DaysPerWeek: 5, StartWeek: "W2", EndWeek: "W6"},
		},
	})

	for _, p := range s.People {
		for _, w := range s.Weeks {
			avail := Availability(s, p.ID, w.ID)
			capa := Capacity(s, p.ID, w.ID)
			alloc := Allocated(s, p.ID, w.ID)

			assert.GreaterOrEqual(t, avail, 0.0)
			assert.LessOrEqual(t, avail, float64(w.WorkingDays))
			assert.GreaterOrEqual(t, capa, 0.0)
			assert.LessOrEqual(t, capa, avail)
			assert.LessOrEqual(t, alloc, avail)
			if IsFirstResponder(s, p.ID, w.ID) {
				assert.Zero(t, alloc)
			}
		}
	}
}

func TestTeamAverageAvailability(t *testing.T) {
	s := demo(t)
	assert.InDelta(t, 13.0/3, TeamAverageAvailability(s, "W2"), 1e-9)
	assert.InDelta(t, 10.0/3, TeamAverageAvailability(s, "W5"), 1e-9)

	s.People = nil
	assert.Zero(t, TeamAverageAvailability(s, "W2"))
}

func TestRangeStats(t *testing.T) {
	s := demo(t)

	st := RangeStats(s, "W1", "W3")
	// availability: W1 15, W2 13, W3 12
	assert.Equal(t, 40.0, st.TotalAvailability)
	assert.Equal(t, 40.0, st.TotalCapacity)
	// Alice 3+3+3, Bob 4+4+4
	assert.Equal(t, 21.0, st.TotalAllocated)
	assert.InDelta(t, 40.0/3, st.AvgAvailabilityPerWeek, 1e-9)
	assert.InDelta(t, 52.5, st.UtilizationPercent, 1e-9)
	require.Len(t, st.Weeks, 3)
	assert.Equal(t, WeekTotals{WeekID: "W2", Availability: 13, Capacity: 13, Allocated: 7}, st.Weeks[1])

	s.FRSchedule["W1"] = 2
	st = RangeStats(s, "W1", "W1")
	assert.Equal(t, 12.0, st.TotalCapacity)
	assert.Equal(t, 3.0, st.TotalAllocated)
}

func TestRangeStatsEmptyRanges(t *testing.T) {
	s := demo(t)
	for _, r := range [][2]string{{"W4", "W2"}, {"W1", "W9"}, {"", ""}} {
		st := RangeStats(s, r[0], r[1])
		assert.Zero(t, st.TotalAvailability)
		assert.Zero(t, st.TotalCapacity)
		assert.Zero(t, st.TotalAllocated)
		assert.Zero(t, st.AvgAvailabilityPerWeek)
		assert.Zero(t, st.AvgCapacityPerWeek)
		assert.Zero(t, st.UtilizationPercent)
		assert.False(t, math.IsNaN(st.AvgCapacityPerWeek))
		assert.Empty(t, st.Weeks)
	}

	empty := schedule.New("", "2025-01-06", 0, 3)
	assert.Zero(t, FullRangeStats(empty).TotalCapacity)
}

func TestProjectCapacity(t *testing.T) {
	s := demo(t)
	s.FRSchedule["W3"] = 2

	pc := ProjectCapacityFor(s, s.Projects[0])
	// planned: (3+4) * 3 weeks
	assert.Equal(t, 21.0, pc.Planned)
	// actual: Alice min(3,5)+min(3,3)+min(3,4); Bob 4+4+min(4,4-3)
	assert.Equal(t, 9.0+9.0, pc.Actual)
	assert.Equal(t, 3, pc.Weeks)
	assert.InDelta(t, 18.0/21*100, pc.Utilization(), 1e-9)

	none := ProjectCapacity{}
	assert.Zero(t, none.Utilization())
}

func TestProjectCapacityDanglingEnd(t *testing.T) {
	s := demo(t)
	s.Projects[0].EndWeek = "W6"
	s = schedule.Resize(s, 4)

	pcs := ProjectCapacities(s)
	require.Len(t, pcs, 1)
	assert.Zero(t, pcs[0].Weeks)
	assert.Zero(t, pcs[0].Planned)
	assert.Zero(t, pcs[0].Actual)
}

func TestProjectCapacityAfterDeletingPerson(t *testing.T) {
	s := demo(t)
	s.FRSchedule["W2"] = 1
	assert.Equal(t, 18.0, ProjectCapacityFor(s, s.Projects[0]).Actual)

	s, err := schedule.DeletePerson(s, 1)
	require.NoError(t, err)
	assert.Len(t, Team(s), 2)

	// Alice's assignment stays and now counts against full working days.
	pc := ProjectCapacityFor(s, s.Projects[0])
	assert.Equal(t, 21.0, pc.Planned)
	assert.Equal(t, 21.0, pc.Actual)
}

func TestCellAndTeam(t *testing.T) {
	s := demo(t)
	s.FRSchedule["W2"] = 2

	c := CellFor(s, 2, "W2")
	assert.True(t, c.FirstResponder)
	assert.Equal(t, 2.0, c.Capacity)
	assert.Zero(t, c.Allocated)
	assert.Equal(t, 4.0, c.Requested)
	assert.Equal(t, -2.0, c.Remaining)
	assert.True(t, c.OverAllocated)
	assert.Equal(t, []string{"API Migration"}, c.Projects)

	rows := Team(s)
	require.Len(t, rows, 3)
	bob := rows[1]
	assert.Len(t, bob.Cells, 6)
	assert.True(t, bob.OverAllocated)
	assert.Equal(t, 8.0, bob.TotalAllocated)
	assert.Equal(t, 26.0, bob.TotalCapacity)

	charlie := rows[2]
	assert.Zero(t, charlie.UtilizationPercent)
	assert.False(t, charlie.OverAllocated)
}

func TestFormatDays(t *testing.T) {
	assert.Equal(t, "2.5", FormatDays(2.5))
	assert.Equal(t, "3.0", FormatDays(3))
	assert.Equal(t, "-1.0", FormatDays(-1))
}
