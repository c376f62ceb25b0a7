// Package report renders a schedule for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/christopherklint97/capplan/internal/capacity"
	"github.com/christopherklint97/capplan/internal/schedule"
)

// Team renders one row per person with "allocated/capacity" per week.
// First-responder weeks are marked FR and over-requested weeks with "!".
func Team(s schedule.Schedule) string {
	headers := []string{"Person"}
	for i, w := range s.Weeks {
		headers = append(headers, w.ID+" "+dimStyle.Render(s.WeekLabel(i)))
	}
	headers = append(headers, "Total", "Util")

	rows := capacity.Team(s)
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := []string{r.Person.Name}
		for _, c := range r.Cells {
			line = append(line, cellText(c))
		}
		line = append(line,
			capacity.FormatDays(r.TotalAllocated)+"/"+capacity.FormatDays(r.TotalCapacity),
			fmt.Sprintf("%.0f%%", r.UtilizationPercent),
		)
		cells = append(cells, line)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 || col > len(s.Weeks) {
				return cellStyle
			}
			c := rows[row].Cells[col-1]
			switch {
			case c.OverAllocated:
				return overStyle
			case c.FirstResponder:
				return frStyle
			default:
				return okStyle
			}
		})
	return t.String()
}

func cellText(c capacity.Cell) string {
	text := capacity.FormatDays(c.Allocated) + "/" + capacity.FormatDays(c.Capacity)
	if c.FirstResponder {
		text += " FR"
	}
	if c.OverAllocated {
		text += " !"
	}
	return text
}

// Summary renders the range statistics as a row of cards.
func Summary(s schedule.Schedule, startWeekID, endWeekID string) string {
	st := capacity.RangeStats(s, startWeekID, endWeekID)
	weeks := len(st.Weeks)
	cards := []string{
		card("Availability", capacity.FormatDays(st.TotalAvailability)+" days",
			fmt.Sprintf("%s per week", capacity.FormatDays(st.AvgAvailabilityPerWeek))),
		card("Capacity", capacity.FormatDays(st.TotalCapacity)+" days",
			fmt.Sprintf("%s per week", capacity.FormatDays(st.AvgCapacityPerWeek))),
		card("Allocated", capacity.FormatDays(st.TotalAllocated)+" days",
			fmt.Sprintf("over %d weeks", weeks)),
		card("Utilization", fmt.Sprintf("%.0f%%", st.UtilizationPercent),
			fmt.Sprintf("%s to %s", startWeekID, endWeekID)),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func card(title, value, note string) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		subtitleStyle.Render(title),
		headerStyle.UnsetPadding().Render(value),
		dimStyle.Render(note),
	)
	return cardStyle.Render(body)
}

// Projects lists planned against actual days per project.
func Projects(s schedule.Schedule) string {
	if len(s.Projects) == 0 {
		return dimStyle.Render("No projects.")
	}
	var b strings.Builder
	for i, pc := range capacity.ProjectCapacities(s) {
		p := s.Projects[i]
		style := okStyle
		if pc.Actual < pc.Planned {
			style = overStyle
		}
		fmt.Fprintf(&b, "%s  %s-%s  planned %s  actual %s  %s\n",
			titleStyle.UnsetMarginBottom().Render(p.Name),
			p.StartWeek, p.EndWeek,
			capacity.FormatDays(pc.Planned),
			capacity.FormatDays(pc.Actual),
			style.UnsetPadding().Render(fmt.Sprintf("%.0f%%", pc.Utilization())),
		)
		if p.Notes != "" {
			fmt.Fprintf(&b, "  %s\n", dimStyle.Render(p.Notes))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Full renders the title, summary cards, team table and projects.
func Full(s schedule.Schedule) string {
	name := s.Name
	if name == "" {
		name = "Capacity plan"
	}
	parts := []string{
		titleStyle.Render(name) + "\n" + subtitleStyle.Render(
			fmt.Sprintf("Starting %s, %d weeks, FR duty %s days",
				s.PlanningPeriod.StartDate, len(s.Weeks), capacity.FormatDays(s.FRCapacityDays))),
	}
	if len(s.Weeks) > 0 {
		parts = append(parts, Summary(s, s.Weeks[0].ID, s.Weeks[len(s.Weeks)-1].ID))
	}
	parts = append(parts, Team(s), Projects(s))
	return strings.Join(parts, "\n\n")
}
