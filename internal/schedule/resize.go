package schedule

import (
	"fmt"
	"slices"
)

// ResizeOptions tunes Resize.
type ResizeOptions struct {
	// WorkingDays for weeks added when growing. Zero means DefaultWorkingDays.
	WorkingDays int
	// Strict also pulls project and assignment ranges back inside the
	// retained weeks when shrinking. Without it those ranges keep their
	// dangling week ids and simply stop contributing.
	Strict bool
}

// Resize changes the number of planning weeks with default options.
func Resize(s Schedule, numberOfWeeks int) Schedule {
	return ResizeWith(s, numberOfWeeks, ResizeOptions{})
}

// ResizeWith grows or shrinks the week list at its tail and keeps holiday
// and first-responder entries consistent with it. The result is a single
// new document; weeks, holidays, frSchedule and planningPeriod must be
// stored together.
func ResizeWith(s Schedule, numberOfWeeks int, opts ResizeOptions) Schedule {
	numberOfWeeks = max(numberOfWeeks, 0)
	out := s.Clone()
	out.PlanningPeriod.NumberOfWeeks = numberOfWeeks
	if out.Weeks == nil {
		out.Weeks = []Week{}
	}
	old := len(out.Weeks)

	switch {
	case numberOfWeeks > old:
		workingDays := opts.WorkingDays
		if workingDays <= 0 {
			workingDays = DefaultWorkingDays
		}
		for i := old; i < numberOfWeeks; i++ {
			w := Week{
				ID:          nextWeekID(out.Weeks, i+1),
				Name:        fmt.Sprintf("Week %d", i+1),
				WorkingDays: workingDays,
			}
			out.Weeks = append(out.Weeks, w)
			for _, p := range out.People {
				out.Holidays.Set(p.ID, w.ID, 0)
			}
		}

	case numberOfWeeks < old:
		dropped := make(map[string]bool, old-numberOfWeeks)
		for _, w := range out.Weeks[numberOfWeeks:] {
			dropped[w.ID] = true
		}
		out.Weeks = slices.Clip(out.Weeks[:numberOfWeeks])
		pruneWeeks(&out, dropped)
		if opts.Strict && numberOfWeeks > 0 {
			clampRanges(&out)
		}
	}
	return out
}

// pruneWeeks removes holiday and first-responder entries for dropped weeks.
func pruneWeeks(s *Schedule, dropped map[string]bool) {
	for k := range s.Holidays {
		if dropped[k.WeekID] {
			delete(s.Holidays, k)
		}
	}
	for week := range s.FRSchedule {
		if dropped[week] {
			delete(s.FRSchedule, week)
		}
	}
}

// clampRanges moves range ends outside the retained weeks onto the last
// one, including ends left dangling by an earlier lenient shrink.
// Assignments starting outside are removed; projects starting outside
// collapse onto the last week so their notes survive.
func clampRanges(s *Schedule) {
	retained := make(map[string]bool, len(s.Weeks))
	for _, w := range s.Weeks {
		retained[w.ID] = true
	}
	last := s.Weeks[len(s.Weeks)-1].ID
	for i := range s.Projects {
		p := &s.Projects[i]
		if !retained[p.StartWeek] {
			p.StartWeek = last
		}
		if !retained[p.EndWeek] {
			p.EndWeek = last
		}
		p.Assignments = slices.DeleteFunc(p.Assignments, func(a Assignment) bool {
			return !retained[a.StartWeek]
		})
		for j := range p.Assignments {
			if !retained[p.Assignments[j].EndWeek] {
				p.Assignments[j].EndWeek = last
			}
		}
	}
}

// nextWeekID follows the W<n> convention, skipping ids already taken.
func nextWeekID(weeks []Week, n int) string {
	for {
		id := fmt.Sprintf("W%d", n)
		if IndexOf(weeks, id) < 0 {
			return id
		}
		n++
	}
}
