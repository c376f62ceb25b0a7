package export

import (
	"fmt"
	"io"
	"time"

	ical "github.com/emersion/go-ical"

	"github.com/christopherklint97/capplan/internal/schedule"
)

const productID = "-//capplan//capacity plan//EN"

// WriteCalendar emits an all-day event per first-responder week and one
// spanning each project's range. Weeks or projects that cannot be placed
// on the calendar are skipped.
func WriteCalendar(w io.Writer, s schedule.Schedule, now time.Time) error {
	if _, err := s.PlanningPeriod.Start(); err != nil {
		return fmt.Errorf("planning period start date: %w", err)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	calName := s.Name
	if calName == "" {
		calName = "Capacity plan"
	}
	cal.Props.SetText("X-WR-CALNAME", calName)

	stamp := now.UTC()
	for i, week := range s.Weeks {
		holder, ok := s.FRSchedule.Holder(week.ID)
		if !ok {
			continue
		}
		name := fmt.Sprintf("person %d", holder)
		if p, ok := s.Person(holder); ok {
			name = p.Name
		}
		from, to, _ := s.WeekDates(i)
		ev := allDayEvent(fmt.Sprintf("fr-%s@capplan", week.ID), "First responder: "+name, from, to, stamp)
		cal.Children = append(cal.Children, ev.Component)
	}

	for _, p := range s.Projects {
		start, end, ok := schedule.Span(s.Weeks, p.StartWeek, p.EndWeek)
		if !ok {
			continue
		}
		from, _, _ := s.WeekDates(start)
		_, to, _ := s.WeekDates(end)
		ev := allDayEvent(fmt.Sprintf("project-%d@capplan", p.ID), p.Name, from, to, stamp)
		if p.Notes != "" {
			ev.Props.SetText(ical.PropDescription, p.Notes)
		}
		cal.Children = append(cal.Children, ev.Component)
	}

	if len(cal.Children) == 0 {
		return fmt.Errorf("nothing to export: no first-responder weeks or projects in range")
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	return nil
}

// allDayEvent covers from..to inclusive; DTEND is exclusive in iCalendar.
func allDayEvent(uid, summary string, from, to, stamp time.Time) *ical.Event {
	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, uid)
	ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	ev.Props.SetText(ical.PropSummary, summary)
	ev.Props.SetDate(ical.PropDateTimeStart, from)
	ev.Props.SetDate(ical.PropDateTimeEnd, to.AddDate(0, 0, 1))
	return ev
}
