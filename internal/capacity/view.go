package capacity

import "github.com/christopherklint97/capplan/internal/schedule"

// Cell is one person's figures for one week, as shown in the team grid.
type Cell struct {
	PersonID       int      `json:"personId"`
	WeekID         string   `json:"weekId"`
	Availability   float64  `json:"availability"`
	Capacity       float64  `json:"capacity"`
	Allocated      float64  `json:"allocated"`
	Requested      float64  `json:"requested"`
	Remaining      float64  `json:"remaining"`
	FirstResponder bool     `json:"firstResponder"`
	OverAllocated  bool     `json:"overAllocated"`
	Projects       []string `json:"projects"`
}

// CellFor computes a grid cell. Remaining is capacity minus the requested
// days and goes negative when the person is asked for more than they have.
func CellFor(s schedule.Schedule, personID int, weekID string) Cell {
	c := Cell{
		PersonID:       personID,
		WeekID:         weekID,
		Availability:   Availability(s, personID, weekID),
		Capacity:       Capacity(s, personID, weekID),
		Allocated:      Allocated(s, personID, weekID),
		Requested:      Requested(s, personID, weekID),
		FirstResponder: IsFirstResponder(s, personID, weekID),
		Projects:       []string{},
	}
	c.Remaining = c.Capacity - c.Requested
	c.OverAllocated = c.Remaining < 0
	for _, p := range ActiveProjects(s, personID, weekID) {
		c.Projects = append(c.Projects, p.Name)
	}
	return c
}

// PersonRow is a person's cells across the whole plan plus totals.
type PersonRow struct {
	Person             schedule.Person `json:"person"`
	Cells              []Cell          `json:"cells"`
	TotalCapacity      float64         `json:"totalCapacity"`
	TotalAllocated     float64         `json:"totalAllocated"`
	UtilizationPercent float64         `json:"utilizationPercent"`
	OverAllocated      bool            `json:"overAllocated"`
}

// Team builds one row per person covering every week.
func Team(s schedule.Schedule) []PersonRow {
	rows := make([]PersonRow, 0, len(s.People))
	for _, p := range s.People {
		row := PersonRow{Person: p, Cells: make([]Cell, 0, len(s.Weeks))}
		for _, w := range s.Weeks {
			c := CellFor(s, p.ID, w.ID)
			row.Cells = append(row.Cells, c)
			row.TotalCapacity += c.Capacity
			row.TotalAllocated += c.Allocated
			if c.OverAllocated {
				row.OverAllocated = true
			}
		}
		row.UtilizationPercent = Percent(row.TotalAllocated, row.TotalCapacity)
		rows = append(rows, row)
	}
	return rows
}
