package calendar

import (
	"regexp"
	"time"

	"github.com/christopherklint97/capplan/internal/schedule"
)

// Absence is the number of weekdays a person is away in a week.
type Absence struct {
	PersonID int
	WeekID   string
	Days     float64
}

// Window returns the span of the planning period, end exclusive.
func Window(s schedule.Schedule) (time.Time, time.Time, error) {
	start, err := s.PlanningPeriod.Start()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 0, 7*len(s.Weeks)), nil
}

// Absences matches events to people by name appearing as a whole word in
// the summary, case-insensitively, and counts the distinct Monday to
// Friday dates each person is covered in every week. Any day an event
// touches counts in full. Counts are capped at the week's working days.
// Results follow people then week order.
func Absences(s schedule.Schedule, events []Event) []Absence {
	if len(s.Weeks) == 0 {
		return nil
	}
	planStart, err := s.PlanningPeriod.Start()
	if err != nil {
		return nil
	}

	var out []Absence
	for _, p := range s.People {
		if p.Name == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(p.Name) + `(?:$|[^\p{L}\p{N}_])`)

		days := make(map[time.Time]bool)
		for _, e := range events {
			if !re.MatchString(e.Summary) {
				continue
			}
			first, last := eventDays(e)
			for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
				if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
					days[d] = true
				}
			}
		}
		if len(days) == 0 {
			continue
		}

		perWeek := make([]int, len(s.Weeks))
		for d := range days {
			i := int(d.Sub(planStart).Hours() / 24 / 7)
			if d.Before(planStart) || i >= len(s.Weeks) {
				continue
			}
			perWeek[i]++
		}
		for i, n := range perWeek {
			if n == 0 {
				continue
			}
			w := s.Weeks[i]
			out = append(out, Absence{
				PersonID: p.ID,
				WeekID:   w.ID,
				Days:     float64(min(n, w.WorkingDays)),
			})
		}
	}
	return out
}

// eventDays returns the first and last calendar date the event touches.
// The end is exclusive, so an all-day event ending at midnight does not
// touch the following day.
func eventDays(e Event) (time.Time, time.Time) {
	first := dateOf(e.StartTime)
	if !e.EndTime.After(e.StartTime) {
		return first, first
	}
	return first, dateOf(e.EndTime.Add(-time.Nanosecond))
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Apply writes the absences as holidays. Without replace an existing
// larger entry is kept.
func Apply(s schedule.Schedule, absences []Absence, replace bool) (schedule.Schedule, error) {
	out := s
	for _, a := range absences {
		days := a.Days
		if !replace {
			days = max(days, out.Holidays.Get(a.PersonID, a.WeekID))
		}
		var err error
		if out, err = schedule.SetHoliday(out, a.PersonID, a.WeekID, days); err != nil {
			return s, err
		}
	}
	return out, nil
}
