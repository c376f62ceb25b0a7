// Package export writes a schedule and its computed figures to files other
// tools can read: CSV tables, a JSON document and an iCalendar feed.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/christopherklint97/capplan/internal/capacity"
	"github.com/christopherklint97/capplan/internal/schedule"
)

var teamHeader = []string{
	"Person", "Week", "Dates", "Working Days", "Holidays", "Availability",
	"Capacity", "Allocated", "Remaining", "First Responder", "Projects",
}

// WriteTeamCSV writes one row per person and week.
func WriteTeamCSV(w io.Writer, s schedule.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(teamHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range capacity.Team(s) {
		for i, c := range row.Cells {
			week := s.Weeks[i]
			fr := ""
			if c.FirstResponder {
				fr = "yes"
			}
			rec := []string{
				row.Person.Name,
				week.Name,
				s.WeekLabel(i),
				strconv.Itoa(week.WorkingDays),
				capacity.FormatDays(s.Holidays.Get(row.Person.ID, week.ID)),
				capacity.FormatDays(c.Availability),
				capacity.FormatDays(c.Capacity),
				capacity.FormatDays(c.Allocated),
				capacity.FormatDays(c.Remaining),
				fr,
				strings.Join(c.Projects, "; "),
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("writing row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

var projectHeader = []string{
	"Project", "Start Week", "End Week", "Weeks", "Planned Days", "Actual Days", "Utilization %", "Notes",
}

// WriteProjectsCSV writes planned against actual days per project.
func WriteProjectsCSV(w io.Writer, s schedule.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(projectHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, pc := range capacity.ProjectCapacities(s) {
		p := s.Projects[i]
		rec := []string{
			p.Name,
			p.StartWeek,
			p.EndWeek,
			strconv.Itoa(pc.Weeks),
			capacity.FormatDays(pc.Planned),
			capacity.FormatDays(pc.Actual),
			strconv.FormatFloat(pc.Utilization(), 'f', 0, 64),
			p.Notes,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
