package calendar

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/capplan/internal/schedule"
)

var absenceCalendar = strings.Join([]string{
	"BEGIN:VCALENDAR",
	"VERSION:2.0",
	"PRODID:-//test//absences//EN",
	"BEGIN:VEVENT",
	"UID:a1",
	"DTSTAMP:20251101T000000Z",
	"DTSTART;VALUE=DATE:20251126",
	"DTEND;VALUE=DATE:20251129",
	"SUMMARY:Alice vacation",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:b1",
	"DTSTAMP:20251101T000000Z",
	"DTSTART;VALUE=DATE:20251204",
	"DTEND;VALUE=DATE:20251209",
	"SUMMARY:bob - parental leave",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:c1",
	"DTSTAMP:20251101T000000Z",
	"DTSTART:20251201T090000Z",
	"DTEND:20251201T120000Z",
	"SUMMARY:Charlie dentist",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:x1",
	"DTSTAMP:20251101T000000Z",
	"DTSTART;VALUE=DATE:20251124",
	"DTEND;VALUE=DATE:20251125",
	"SUMMARY:Alicia offsite",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:old",
	"DTSTAMP:20251101T000000Z",
	"DTSTART;VALUE=DATE:20251103",
	"DTEND;VALUE=DATE:20251105",
	"SUMMARY:Alice old trip",
	"END:VEVENT",
	"END:VCALENDAR",
	"",
}, "\r\n")

func demoWindow(t *testing.T) (schedule.Schedule, time.Time, time.Time) {
	t.Helper()
	s := schedule.Demo("2025-11-24")
	from, to, err := Window(s)
	require.NoError(t, err)
	return s, from, to
}

func TestParseFiltersWindow(t *testing.T) {
	_, from, to := demoWindow(t)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), to)

	events, err := Parse(strings.NewReader(absenceCalendar), from, to)
	require.NoError(t, err)

	var summaries []string
	for _, e := range events {
		summaries = append(summaries, e.Summary)
	}
	assert.ElementsMatch(t, []string{"Alice vacation", "bob - parental leave", "Charlie dentist", "Alicia offsite"}, summaries)
}

func TestAbsences(t *testing.T) {
	s, from, to := demoWindow(t)
	events, err := Parse(strings.NewReader(absenceCalendar), from, to)
	require.NoError(t, err)

	got := Absences(s, events)
	assert.Equal(t, []Absence{
		{PersonID: 1, WeekID: "W1", Days: 3},
		{PersonID: 2, WeekID: "W2", Days: 2},
		{PersonID: 2, WeekID: "W3", Days: 1},
		{PersonID: 3, WeekID: "W2", Days: 1},
	}, got)
}

func TestAbsencesCappedAtWorkingDays(t *testing.T) {
	s := schedule.Demo("2025-11-24")
	// W3 has four working days.
	events := []Event{{
		Summary:   "Charlie leave",
		StartTime: time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 12, 13, 0, 0, 0, 0, time.UTC),
	}}
	assert.Equal(t, []Absence{{PersonID: 3, WeekID: "W3", Days: 4}}, Absences(s, events))
}

func TestAbsencesNonASCIINames(t *testing.T) {
	s := schedule.Demo("2025-11-24")
	s.People[0].Name = "José"
	s.People[1].Name = "Åsa"
	tuesday := time.Date(2025, 11, 25, 0, 0, 0, 0, time.UTC)
	day := func(summary string) Event {
		return Event{Summary: summary, StartTime: tuesday, EndTime: tuesday.AddDate(0, 0, 1)}
	}
	events := []Event{
		day("José vacation"),
		day("åsa off"),
		day("Joséphine offsite"),
		day("Åsal training"),
	}

	assert.Equal(t, []Absence{
		{PersonID: 1, WeekID: "W1", Days: 1},
		{PersonID: 2, WeekID: "W1", Days: 1},
	}, Absences(s, events))
}

func TestAbsencesWithoutStartDate(t *testing.T) {
	s := schedule.Demo("")
	events := []Event{{Summary: "Alice", StartTime: time.Now(), EndTime: time.Now().Add(time.Hour)}}
	assert.Empty(t, Absences(s, events))
}

func TestApply(t *testing.T) {
	s := schedule.Demo("2025-11-24")
	abs := []Absence{
		{PersonID: 1, WeekID: "W2", Days: 1},
		{PersonID: 2, WeekID: "W1", Days: 2},
	}

	merged, err := Apply(s, abs, false)
	require.NoError(t, err)
	assert.Equal(t, 2.0, merged.Holidays.Get(1, "W2"), "larger existing entry kept")
	assert.Equal(t, 2.0, merged.Holidays.Get(2, "W1"))

	replaced, err := Apply(s, abs, true)
	require.NoError(t, err)
	assert.Equal(t, 1.0, replaced.Holidays.Get(1, "W2"))

	assert.Equal(t, 2.0, s.Holidays.Get(1, "W2"), "input untouched")

	_, err = Apply(s, []Absence{{PersonID: 9, WeekID: "W1", Days: 1}}, false)
	assert.ErrorIs(t, err, schedule.ErrUnknownPerson)
}

func TestFetchFileAndURL(t *testing.T) {
	_, from, to := demoWindow(t)

	path := filepath.Join(t.TempDir(), "absences.ics")
	require.NoError(t, os.WriteFile(path, []byte(absenceCalendar), 0644))
	events, err := Fetch(t.Context(), path, from, to)
	require.NoError(t, err)
	assert.Len(t, events, 4)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/team.ics" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/calendar")
		w.Write([]byte(absenceCalendar))
	}))
	defer srv.Close()

	events, err = Fetch(t.Context(), srv.URL+"/team.ics", from, to)
	require.NoError(t, err)
	assert.Len(t, events, 4)

	_, err = Fetch(t.Context(), srv.URL+"/missing.ics", from, to)
	assert.ErrorContains(t, err, "status 404")
}
