package schedule

import (
	"fmt"
	"slices"
)

// AddPerson appends a person with the next free id and provisions a zero
// holiday entry for every week. An empty name becomes "Person N".
func AddPerson(s Schedule, name string) (Schedule, Person) {
	out := s.Clone()
	id := 0
	for _, p := range out.People {
		id = max(id, p.ID)
	}
	id++
	if name == "" {
		name = fmt.Sprintf("Person %d", id)
	}
	person := Person{ID: id, Name: name}
	out.People = append(out.People, person)
	for _, w := range out.Weeks {
		out.Holidays.Set(id, w.ID, 0)
	}
	return out, person
}

func RenamePerson(s Schedule, personID int, name string) (Schedule, error) {
	i := slices.IndexFunc(s.People, func(p Person) bool { return p.ID == personID })
	if i < 0 {
		return s, fmt.Errorf("person %d: %w", personID, ErrUnknownPerson)
	}
	out := s.Clone()
	out.People[i].Name = name
	return out, nil
}

// DeletePerson removes the person together with their holiday entries and
// first-responder weeks. Assignments naming the person are left in place.
// They drop out of the team grid but still count in project planned and
// actual days, where the missing person's capacity is the week's full
// working days.
func DeletePerson(s Schedule, personID int) (Schedule, error) {
	if _, ok := s.Person(personID); !ok {
		return s, fmt.Errorf("person %d: %w", personID, ErrUnknownPerson)
	}
	out := s.Clone()
	out.People = slices.DeleteFunc(out.People, func(p Person) bool { return p.ID == personID })
	for k := range out.Holidays {
		if k.PersonID == personID {
			delete(out.Holidays, k)
		}
	}
	for week, holder := range out.FRSchedule {
		if holder == personID {
			delete(out.FRSchedule, week)
		}
	}
	return out, nil
}

func SetHoliday(s Schedule, personID int, weekID string, days float64) (Schedule, error) {
	if days < 0 {
		return s, ErrNegativeDays
	}
	if _, ok := s.Person(personID); !ok {
		return s, fmt.Errorf("person %d: %w", personID, ErrUnknownPerson)
	}
	if _, ok := s.Week(weekID); !ok {
		return s, fmt.Errorf("week %q: %w", weekID, ErrUnknownWeek)
	}
	out := s.Clone()
	out.Holidays.Set(personID, weekID, days)
	return out, nil
}

func SetWorkingDays(s Schedule, weekID string, days int) (Schedule, error) {
	if days < 0 {
		return s, ErrNegativeDays
	}
	i := IndexOf(s.Weeks, weekID)
	if i < 0 {
		return s, fmt.Errorf("week %q: %w", weekID, ErrUnknownWeek)
	}
	out := s.Clone()
	out.Weeks[i].WorkingDays = days
	return out, nil
}

// SetFirstResponder puts personID on duty for weekID. A personID of 0
// clears the week. Whether the person has enough availability is the
// caller's concern.
func SetFirstResponder(s Schedule, weekID string, personID int) (Schedule, error) {
	if _, ok := s.Week(weekID); !ok {
		return s, fmt.Errorf("week %q: %w", weekID, ErrUnknownWeek)
	}
	out := s.Clone()
	if personID == 0 {
		delete(out.FRSchedule, weekID)
		return out, nil
	}
	if _, ok := s.Person(personID); !ok {
		return s, fmt.Errorf("person %d: %w", personID, ErrUnknownPerson)
	}
	out.FRSchedule[weekID] = personID
	return out, nil
}

func SetFRCapacityDays(s Schedule, days float64) (Schedule, error) {
	if days < 0 {
		return s, ErrNegativeDays
	}
	out := s.Clone()
	out.FRCapacityDays = days
	return out, nil
}

// AddProject appends a project spanning the first three weeks (or fewer
// when the plan is shorter) with no assignments.
func AddProject(s Schedule, name string) (Schedule, Project) {
	out := s.Clone()
	id := 0
	for _, p := range out.Projects {
		id = max(id, p.ID)
	}
	id++
	if name == "" {
		name = fmt.Sprintf("Project %d", len(out.Projects)+1)
	}
	project := Project{ID: id, Name: name, Assignments: []Assignment{}}
	if n := len(out.Weeks); n > 0 {
		project.StartWeek = out.Weeks[0].ID
		project.EndWeek = out.Weeks[min(2, n-1)].ID
	}
	out.Projects = append(out.Projects, project)
	return out, project
}

// ProjectPatch carries the fields to change; nil fields are kept.
type ProjectPatch struct {
	Name      *string `json:"name,omitempty"`
	StartWeek *string `json:"startWeek,omitempty"`
	EndWeek   *string `json:"endWeek,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

func UpdateProject(s Schedule, projectID int, patch ProjectPatch) (Schedule, error) {
	i := projectIndex(s, projectID)
	if i < 0 {
		return s, fmt.Errorf("project %d: %w", projectID, ErrUnknownProject)
	}
	for _, w := range []*string{patch.StartWeek, patch.EndWeek} {
		if w != nil && IndexOf(s.Weeks, *w) < 0 {
			return s, fmt.Errorf("week %q: %w", *w, ErrUnknownWeek)
		}
	}
	out := s.Clone()
	p := &out.Projects[i]
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.StartWeek != nil {
		p.StartWeek = *patch.StartWeek
	}
	if patch.EndWeek != nil {
		p.EndWeek = *patch.EndWeek
	}
	if patch.Notes != nil {
		p.Notes = *patch.Notes
	}
	return out, nil
}

func DeleteProject(s Schedule, projectID int) (Schedule, error) {
	if projectIndex(s, projectID) < 0 {
		return s, fmt.Errorf("project %d: %w", projectID, ErrUnknownProject)
	}
	out := s.Clone()
	out.Projects = slices.DeleteFunc(out.Projects, func(p Project) bool { return p.ID == projectID })
	return out, nil
}

// DefaultDaysPerWeek is the commitment given to a new assignment.
const DefaultDaysPerWeek = 2

// AddAssignment assigns personID to the project over the project's own
// range. A person can hold at most one assignment per project.
func AddAssignment(s Schedule, projectID, personID int) (Schedule, Assignment, error) {
	i := projectIndex(s, projectID)
	if i < 0 {
		return s, Assignment{}, fmt.Errorf("project %d: %w", projectID, ErrUnknownProject)
	}
	if _, ok := s.Person(personID); !ok {
		return s, Assignment{}, fmt.Errorf("person %d: %w", personID, ErrUnknownPerson)
	}
	if _, ok := s.Projects[i].Assignment(personID); ok {
		return s, Assignment{}, ErrDuplicateAssignment
	}
	out := s.Clone()
	p := &out.Projects[i]
	a := Assignment{
		PersonID:    personID,
		DaysPerWeek: DefaultDaysPerWeek,
		StartWeek:   p.StartWeek,
		EndWeek:     p.EndWeek,
	}
	p.Assignments = append(p.Assignments, a)
	return out, a, nil
}

// AssignmentPatch carries the fields to change; nil fields are kept.
type AssignmentPatch struct {
	DaysPerWeek *float64 `json:"daysPerWeek,omitempty"`
	StartWeek   *string  `json:"startWeek,omitempty"`
	EndWeek     *string  `json:"endWeek,omitempty"`
}

func UpdateAssignment(s Schedule, projectID, personID int, patch AssignmentPatch) (Schedule, error) {
	i, j := assignmentIndex(s, projectID, personID)
	if i < 0 {
		return s, fmt.Errorf("project %d: %w", projectID, ErrUnknownProject)
	}
	if j < 0 {
		return s, fmt.Errorf("project %d person %d: %w", projectID, personID, ErrUnknownAssignment)
	}
	if patch.DaysPerWeek != nil && *patch.DaysPerWeek < 0 {
		return s, ErrNegativeDays
	}
	for _, w := range []*string{patch.StartWeek, patch.EndWeek} {
		if w != nil && IndexOf(s.Weeks, *w) < 0 {
			return s, fmt.Errorf("week %q: %w", *w, ErrUnknownWeek)
		}
	}
	out := s.Clone()
	a := &out.Projects[i].Assignments[j]
	if patch.DaysPerWeek != nil {
		a.DaysPerWeek = *patch.DaysPerWeek
	}
	if patch.StartWeek != nil {
		a.StartWeek = *patch.StartWeek
	}
	if patch.EndWeek != nil {
		a.EndWeek = *patch.EndWeek
	}
	return out, nil
}

func RemoveAssignment(s Schedule, projectID, personID int) (Schedule, error) {
	i, j := assignmentIndex(s, projectID, personID)
	if i < 0 {
		return s, fmt.Errorf("project %d: %w", projectID, ErrUnknownProject)
	}
	if j < 0 {
		return s, fmt.Errorf("project %d person %d: %w", projectID, personID, ErrUnknownAssignment)
	}
	out := s.Clone()
	out.Projects[i].Assignments = slices.Delete(out.Projects[i].Assignments, j, j+1)
	return out, nil
}

func projectIndex(s Schedule, projectID int) int {
	return slices.IndexFunc(s.Projects, func(p Project) bool { return p.ID == projectID })
}

func assignmentIndex(s Schedule, projectID, personID int) (int, int) {
	i := projectIndex(s, projectID)
	if i < 0 {
		return -1, -1
	}
	j := slices.IndexFunc(s.Projects[i].Assignments, func(a Assignment) bool { return a.PersonID == personID })
	return i, j
}
