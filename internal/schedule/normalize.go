package schedule

import (
	"errors"
	"fmt"
)

// Normalize brings a decoded document into the shape the calculators
// expect: nil collections become empty, numberOfWeeks follows the week
// list, assignments missing a range inherit their project's range, and
// every (person, week) pair gets an explicit holiday entry.
func Normalize(s Schedule) Schedule {
	out := s.Clone()
	if out.People == nil {
		out.People = []Person{}
	}
	if out.Weeks == nil {
		out.Weeks = []Week{}
	}
	if out.Projects == nil {
		out.Projects = []Project{}
	}
	out.PlanningPeriod.NumberOfWeeks = len(out.Weeks)
	for i := range out.Projects {
		p := &out.Projects[i]
		if p.Assignments == nil {
			p.Assignments = []Assignment{}
		}
		for j := range p.Assignments {
			a := &p.Assignments[j]
			if a.StartWeek == "" {
				a.StartWeek = p.StartWeek
			}
			if a.EndWeek == "" {
				a.EndWeek = p.EndWeek
			}
		}
	}
	for _, p := range out.People {
		for _, w := range out.Weeks {
			k := HolidayKey{PersonID: p.ID, WeekID: w.ID}
			if _, ok := out.Holidays[k]; !ok {
				out.Holidays[k] = 0
			}
		}
	}
	return out
}

// Validate reports structural problems a mutation must not introduce.
// Dangling week or person references are tolerated and not reported.
func Validate(s Schedule) error {
	var errs []error
	if s.PlanningPeriod.NumberOfWeeks != len(s.Weeks) {
		errs = append(errs, fmt.Errorf("numberOfWeeks is %d but there are %d weeks",
			s.PlanningPeriod.NumberOfWeeks, len(s.Weeks)))
	}
	if s.PlanningPeriod.StartDate != "" {
		if _, err := s.PlanningPeriod.Start(); err != nil {
			errs = append(errs, fmt.Errorf("startDate %q is not a %s date", s.PlanningPeriod.StartDate, DateLayout))
		}
	}
	if s.FRCapacityDays < 0 {
		errs = append(errs, fmt.Errorf("frCapacityDays: %w", ErrNegativeDays))
	}
	weeks := make(map[string]bool, len(s.Weeks))
	for _, w := range s.Weeks {
		if w.ID == "" {
			errs = append(errs, errors.New("week with empty id"))
		}
		if weeks[w.ID] {
			errs = append(errs, fmt.Errorf("duplicate week id %q", w.ID))
		}
		weeks[w.ID] = true
		if w.WorkingDays < 0 {
			errs = append(errs, fmt.Errorf("week %q workingDays: %w", w.ID, ErrNegativeDays))
		}
	}
	people := make(map[int]bool, len(s.People))
	for _, p := range s.People {
		if people[p.ID] {
			errs = append(errs, fmt.Errorf("duplicate person id %d", p.ID))
		}
		people[p.ID] = true
	}
	for k, v := range s.Holidays {
		if v < 0 {
			errs = append(errs, fmt.Errorf("holiday %d/%s: %w", k.PersonID, k.WeekID, ErrNegativeDays))
		}
	}
	projects := make(map[int]bool, len(s.Projects))
	for _, p := range s.Projects {
		if projects[p.ID] {
			errs = append(errs, fmt.Errorf("duplicate project id %d", p.ID))
		}
		projects[p.ID] = true
		assigned := make(map[int]bool, len(p.Assignments))
		for _, a := range p.Assignments {
			if assigned[a.PersonID] {
				errs = append(errs, fmt.Errorf("project %d: person %d: %w", p.ID, a.PersonID, ErrDuplicateAssignment))
			}
			assigned[a.PersonID] = true
			if a.DaysPerWeek < 0 {
				errs = append(errs, fmt.Errorf("project %d person %d daysPerWeek: %w", p.ID, a.PersonID, ErrNegativeDays))
			}
		}
	}
	return errors.Join(errs...)
}
