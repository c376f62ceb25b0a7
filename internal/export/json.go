package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/christopherklint97/capplan/internal/schedule"
)

type document struct {
	schedule.Schedule
	ExportedAt time.Time `json:"exportedAt"`
}

// WriteJSON writes the full document with an export timestamp.
func WriteJSON(w io.Writer, s schedule.Schedule, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Schedule: s, ExportedAt: now.UTC()}); err != nil {
		return fmt.Errorf("encoding schedule: %w", err)
	}
	return nil
}

// ImportJSON overlays the sections present in r onto current. Sections the
// file omits are kept, so a partial export only replaces what it carries.
func ImportJSON(current schedule.Schedule, r io.Reader) (schedule.Schedule, error) {
	var sections map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&sections); err != nil {
		return current, fmt.Errorf("decoding import: %w", err)
	}

	out := current.Clone()
	err := errors.Join(
		section(sections, "name", &out.Name),
		section(sections, "planningPeriod", &out.PlanningPeriod),
		section(sections, "weekConfig", &out.Weeks),
		section(sections, "people", &out.People),
		section(sections, "holidays", &out.Holidays),
		section(sections, "frSchedule", &out.FRSchedule),
		section(sections, "frCapacityDays", &out.FRCapacityDays),
		section(sections, "projects", &out.Projects),
	)
	if err != nil {
		return current, err
	}

	out = schedule.Normalize(out)
	if err := schedule.Validate(out); err != nil {
		return current, fmt.Errorf("imported schedule is invalid: %w", err)
	}
	return out, nil
}

// section replaces *dst with the decoded key when present. Decoding goes
// through a zero value so nothing from the current document survives in it.
func section[T any](sections map[string]json.RawMessage, key string, dst *T) error {
	raw, ok := sections[key]
	if !ok || string(raw) == "null" {
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	*dst = v
	return nil
}
