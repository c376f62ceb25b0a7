package schedule

import (
	"fmt"
	"time"
)

// WeekDates returns the first and last calendar day of the week at index i.
// Weeks run seven days from the planning period start.
func (s Schedule) WeekDates(i int) (time.Time, time.Time, error) {
	start, err := s.PlanningPeriod.Start()
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing start date: %w", err)
	}
	from := start.AddDate(0, 0, 7*i)
	return from, from.AddDate(0, 0, 6), nil
}

// WeekLabel renders the week at index i as "Nov 24 - Nov 30". It falls
// back to the week name when the start date is unusable.
func (s Schedule) WeekLabel(i int) string {
	from, to, err := s.WeekDates(i)
	if err != nil {
		if i >= 0 && i < len(s.Weeks) {
			return s.Weeks[i].Name
		}
		return ""
	}
	return from.Format("Jan 2") + " - " + to.Format("Jan 2")
}
