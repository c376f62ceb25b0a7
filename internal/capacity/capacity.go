// Package capacity derives availability, capacity, allocation and summary
// figures from a schedule. Every function is total: unknown people, weeks
// and empty ranges yield zero rather than an error.
package capacity

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/christopherklint97/capplan/internal/schedule"
)

// ErrInsufficientAvailability is returned by AssignFirstResponder when the
// person cannot cover the duty in that week.
var ErrInsufficientAvailability = errors.New("not enough availability this week for first-responder duty")

// Availability is the week's working days minus the person's holidays,
// never below zero. Unknown weeks have no availability.
func Availability(s schedule.Schedule, personID int, weekID string) float64 {
	w, ok := s.Week(weekID)
	if !ok {
		return 0
	}
	return max(0, float64(w.WorkingDays)-s.Holidays.Get(personID, weekID))
}

func IsFirstResponder(s schedule.Schedule, personID int, weekID string) bool {
	holder, ok := s.FRSchedule.Holder(weekID)
	return ok && holder == personID
}

// CanBeFirstResponder is the advisory gate used before handing out duty.
// Capacity does not enforce it.
func CanBeFirstResponder(s schedule.Schedule, personID int, weekID string) bool {
	return Availability(s, personID, weekID) >= s.FRCapacityDays
}

// Capacity is availability less the first-responder block, floored at zero.
func Capacity(s schedule.Schedule, personID int, weekID string) float64 {
	avail := Availability(s, personID, weekID)
	if IsFirstResponder(s, personID, weekID) {
		return max(0, avail-s.FRCapacityDays)
	}
	return avail
}

// Requested sums daysPerWeek over the person's assignments whose own range
// covers the week, with no cap and no first-responder rule.
func Requested(s schedule.Schedule, personID int, weekID string) float64 {
	wi := schedule.IndexOf(s.Weeks, weekID)
	if wi < 0 {
		return 0
	}
	var sum float64
	for _, p := range s.Projects {
		if a, ok := p.Assignment(personID); ok && a.Covers(s.Weeks, wi) {
			sum += a.DaysPerWeek
		}
	}
	return sum
}

// Allocated is the days committed to projects in the week. A first
// responder does no project work that week; otherwise the requested total
// is capped at availability.
func Allocated(s schedule.Schedule, personID int, weekID string) float64 {
	if IsFirstResponder(s, personID, weekID) {
		return 0
	}
	return min(Requested(s, personID, weekID), Availability(s, personID, weekID))
}

// ActiveProjects lists the projects with an assignment for the person
// covering the week, in schedule order.
func ActiveProjects(s schedule.Schedule, personID int, weekID string) []schedule.Project {
	wi := schedule.IndexOf(s.Weeks, weekID)
	if wi < 0 {
		return nil
	}
	var out []schedule.Project
	for _, p := range s.Projects {
		if a, ok := p.Assignment(personID); ok && a.Covers(s.Weeks, wi) {
			out = append(out, p)
		}
	}
	return out
}

// AssignFirstResponder applies the advisory availability gate and then
// puts the person on duty. personID 0 clears the week without a check.
func AssignFirstResponder(s schedule.Schedule, weekID string, personID int) (schedule.Schedule, error) {
	if personID != 0 && !CanBeFirstResponder(s, personID, weekID) {
		return s, fmt.Errorf("person %d in week %s: %w", personID, weekID, ErrInsufficientAvailability)
	}
	return schedule.SetFirstResponder(s, weekID, personID)
}

// FormatDays renders a day count with one decimal place.
func FormatDays(d float64) string {
	return strconv.FormatFloat(d, 'f', 1, 64)
}
