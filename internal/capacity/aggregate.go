package capacity

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/christopherklint97/capplan/internal/schedule"
)

// TeamAverageAvailability is the mean availability across all people.
func TeamAverageAvailability(s schedule.Schedule, weekID string) float64 {
	if len(s.People) == 0 {
		return 0
	}
	values := make([]float64, len(s.People))
	for i, p := range s.People {
		values[i] = Availability(s, p.ID, weekID)
	}
	return stat.Mean(values, nil)
}

// WeekTotals holds the team figures for one week.
type WeekTotals struct {
	WeekID       string  `json:"weekId"`
	Availability float64 `json:"availability"`
	Capacity     float64 `json:"capacity"`
	Allocated    float64 `json:"allocated"`
}

type Stats struct {
	TotalAvailability      float64      `json:"totalAvailability"`
	TotalCapacity          float64      `json:"totalCapacity"`
	TotalAllocated         float64      `json:"totalAllocated"`
	AvgAvailabilityPerWeek float64      `json:"avgAvailabilityPerWeek"`
	AvgCapacityPerWeek     float64      `json:"avgCapacityPerWeek"`
	UtilizationPercent     float64      `json:"utilizationPercent"`
	Weeks                  []WeekTotals `json:"weeks"`
}

// RangeStats totals availability, capacity and allocation over every
// person and every week in the inclusive range. An empty, inverted or
// unresolvable range gives all zeros.
func RangeStats(s schedule.Schedule, startWeekID, endWeekID string) Stats {
	weeks := schedule.Slice(s.Weeks, startWeekID, endWeekID)
	st := Stats{Weeks: make([]WeekTotals, 0, len(weeks))}
	if len(weeks) == 0 {
		return st
	}

	avail := make([]float64, len(weeks))
	capa := make([]float64, len(weeks))
	alloc := make([]float64, len(weeks))
	for i, w := range weeks {
		for _, p := range s.People {
			avail[i] += Availability(s, p.ID, w.ID)
			capa[i] += Capacity(s, p.ID, w.ID)
			alloc[i] += Allocated(s, p.ID, w.ID)
		}
		st.Weeks = append(st.Weeks, WeekTotals{
			WeekID:       w.ID,
			Availability: avail[i],
			Capacity:     capa[i],
			Allocated:    alloc[i],
		})
	}

	st.TotalAvailability = floats.Sum(avail)
	st.TotalCapacity = floats.Sum(capa)
	st.TotalAllocated = floats.Sum(alloc)
	n := float64(len(weeks))
	st.AvgAvailabilityPerWeek = st.TotalAvailability / n
	st.AvgCapacityPerWeek = st.TotalCapacity / n
	st.UtilizationPercent = Percent(st.TotalAllocated, st.TotalCapacity)
	return st
}

// FullRangeStats covers every week of the plan.
func FullRangeStats(s schedule.Schedule) Stats {
	if len(s.Weeks) == 0 {
		return Stats{Weeks: []WeekTotals{}}
	}
	return RangeStats(s, s.Weeks[0].ID, s.Weeks[len(s.Weeks)-1].ID)
}

// Percent returns part/whole*100, or 0 when whole is not positive.
func Percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

// ProjectCapacity compares what a project asks for with what its people
// can deliver over the project's own week range.
type ProjectCapacity struct {
	ProjectID int     `json:"projectId"`
	Name      string  `json:"name"`
	Weeks     int     `json:"weeks"`
	Planned   float64 `json:"planned"`
	Actual    float64 `json:"actual"`
}

// Utilization is Actual/Planned as a percentage, 0 when nothing is planned.
func (pc ProjectCapacity) Utilization() float64 {
	return Percent(pc.Actual, pc.Planned)
}

// ProjectCapacityFor computes planned and actual days for one project.
// Planned ignores availability; actual limits each assignment to the
// person's capacity that week.
func ProjectCapacityFor(s schedule.Schedule, p schedule.Project) ProjectCapacity {
	pc := ProjectCapacity{ProjectID: p.ID, Name: p.Name}
	start, end, ok := schedule.Span(s.Weeks, p.StartWeek, p.EndWeek)
	if !ok {
		return pc
	}
	pc.Weeks = end - start + 1
	for wi := start; wi <= end; wi++ {
		weekID := s.Weeks[wi].ID
		for _, a := range p.Assignments {
			if !a.Covers(s.Weeks, wi) {
				continue
			}
			pc.Planned += a.DaysPerWeek
			pc.Actual += min(a.DaysPerWeek, Capacity(s, a.PersonID, weekID))
		}
	}
	return pc
}

// ProjectCapacities runs ProjectCapacityFor over every project.
func ProjectCapacities(s schedule.Schedule) []ProjectCapacity {
	out := make([]ProjectCapacity, 0, len(s.Projects))
	for _, p := range s.Projects {
		out = append(out, ProjectCapacityFor(s, p))
	}
	return out
}
