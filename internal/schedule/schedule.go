// Package schedule holds the capacity plan document and the named
// operations that edit it. Every operation returns a new Schedule and
// leaves its input untouched.
package schedule

import (
	"slices"
	"time"
)

// DefaultWorkingDays is used for weeks minted by New and Resize.
const DefaultWorkingDays = 5

// DateLayout is the format of PlanningPeriod.StartDate.
const DateLayout = "2006-01-02"

type Person struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Week struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WorkingDays int    `json:"workingDays"`
}

type PlanningPeriod struct {
	StartDate     string `json:"startDate"`
	NumberOfWeeks int    `json:"numberOfWeeks"`
}

// Start parses StartDate. An empty or malformed date is an error.
func (p PlanningPeriod) Start() (time.Time, error) {
	return time.Parse(DateLayout, p.StartDate)
}

// Assignment is a person's commitment to a project. Its week range is its
// own and may differ from the parent project's range.
type Assignment struct {
	PersonID    int     `json:"personId"`
	DaysPerWeek float64 `json:"daysPerWeek"`
	StartWeek   string  `json:"startWeek"`
	EndWeek     string  `json:"endWeek"`
}

type Project struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	StartWeek   string       `json:"startWeek"`
	EndWeek     string       `json:"endWeek"`
	Notes       string       `json:"notes,omitempty"`
	Assignments []Assignment `json:"assignments"`
}

// Assignment returns the first assignment for personID, if any.
func (p Project) Assignment(personID int) (Assignment, bool) {
	for _, a := range p.Assignments {
		if a.PersonID == personID {
			return a, true
		}
	}
	return Assignment{}, false
}

// Schedule is the aggregate root and the unit of persistence.
type Schedule struct {
	Name           string         `json:"name,omitempty"`
	People         []Person       `json:"people"`
	Weeks          []Week         `json:"weekConfig"`
	PlanningPeriod PlanningPeriod `json:"planningPeriod"`
	Holidays       Holidays       `json:"holidays"`
	FRSchedule     FRSchedule     `json:"frSchedule"`
	FRCapacityDays float64        `json:"frCapacityDays"`
	Projects       []Project      `json:"projects"`
}

// Week looks a week up by id.
func (s Schedule) Week(weekID string) (Week, bool) {
	i := IndexOf(s.Weeks, weekID)
	if i < 0 {
		return Week{}, false
	}
	return s.Weeks[i], true
}

// Person looks a person up by id.
func (s Schedule) Person(personID int) (Person, bool) {
	for _, p := range s.People {
		if p.ID == personID {
			return p, true
		}
	}
	return Person{}, false
}

// Project looks a project up by id.
func (s Schedule) Project(projectID int) (Project, bool) {
	for _, p := range s.Projects {
		if p.ID == projectID {
			return p, true
		}
	}
	return Project{}, false
}

// Clone returns a deep copy of s.
func (s Schedule) Clone() Schedule {
	out := s
	out.People = slices.Clone(s.People)
	out.Weeks = slices.Clone(s.Weeks)
	out.Holidays = s.Holidays.Clone()
	out.FRSchedule = s.FRSchedule.Clone()
	out.Projects = slices.Clone(s.Projects)
	for i := range out.Projects {
		out.Projects[i].Assignments = slices.Clone(out.Projects[i].Assignments)
	}
	return out
}

// New builds an empty schedule with numberOfWeeks weeks W1..Wn.
func New(name, startDate string, numberOfWeeks int, frCapacityDays float64) Schedule {
	s := Schedule{
		Name:           name,
		PlanningPeriod: PlanningPeriod{StartDate: startDate},
		Holidays:       Holidays{},
		FRSchedule:     FRSchedule{},
		FRCapacityDays: frCapacityDays,
		People:         []Person{},
		Weeks:          []Week{},
		Projects:       []Project{},
	}
	return Resize(s, numberOfWeeks)
}

// Demo returns the sample plan a fresh install starts from.
func Demo(startDate string) Schedule {
	s := New("Demo plan", startDate, 6, 3)
	s.Weeks[2].WorkingDays = 4
	for _, name := range []string{"Alice", "Bob", "Charlie"} {
		s, _ = AddPerson(s, name)
	}
	s.Holidays.Set(1, "W2", 2)
	s.Holidays.Set(1, "W5", 5)
	s.Holidays.Set(3, "W4", 3)
	s.Projects = append(s.Projects, Project{
		ID:        1,
		Name:      "API Migration",
		StartWeek: "W1",
		EndWeek:   "W3",
		Assignments: []Assignment{
			{PersonID: 1, DaysPerWeek: 3, StartWeek: "W1", EndWeek: "W3"},
			{PersonID: 2, DaysPerWeek: 4, StartWeek: "W1", EndWeek: "W3"},
		},
	})
	return s
}
