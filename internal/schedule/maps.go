package schedule

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
)

// HolidayKey identifies one person's week.
type HolidayKey struct {
	PersonID int
	WeekID   string
}

// Holidays maps (person, week) to holiday days. Absent entries read as 0.
//
// On the wire the key is "<personId>-<weekId>". Person ids are integers, so
// the first '-' always ends the person part even when a week id contains one.
type Holidays map[HolidayKey]float64

// Get returns the holiday days for the pair, 0 when absent.
func (h Holidays) Get(personID int, weekID string) float64 {
	return h[HolidayKey{PersonID: personID, WeekID: weekID}]
}

func (h Holidays) Set(personID int, weekID string, days float64) {
	h[HolidayKey{PersonID: personID, WeekID: weekID}] = days
}

// Clone copies h. A nil map clones to an empty one.
func (h Holidays) Clone() Holidays {
	out := make(Holidays, len(h))
	maps.Copy(out, h)
	return out
}

func (h Holidays) MarshalJSON() ([]byte, error) {
	wire := make(map[string]float64, len(h))
	for k, v := range h {
		wire[strconv.Itoa(k.PersonID)+"-"+k.WeekID] = v
	}
	return json.Marshal(wire)
}

func (h *Holidays) UnmarshalJSON(data []byte) error {
	var wire map[string]float64
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	out := make(Holidays, len(wire))
	for key, v := range wire {
		person, week, ok := strings.Cut(key, "-")
		if !ok {
			return fmt.Errorf("holiday key %q: missing '-' separator", key)
		}
		id, err := strconv.Atoi(person)
		if err != nil {
			return fmt.Errorf("holiday key %q: bad person id: %w", key, err)
		}
		out[HolidayKey{PersonID: id, WeekID: week}] = v
	}
	*h = out
	return nil
}

func (Holidays) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "object",
		Description: `Holiday days keyed by "<personId>-<weekId>".`,
		PatternProperties: map[string]*jsonschema.Schema{
			`^[0-9]+-.+$`: {Type: "number", Minimum: json.Number("0")},
		},
	}
}

// FRSchedule maps a week id to the person on first-responder duty.
// A week with no entry is unassigned.
type FRSchedule map[string]int

// Holder returns the person on duty for weekID.
func (f FRSchedule) Holder(weekID string) (int, bool) {
	id, ok := f[weekID]
	return id, ok
}

func (f FRSchedule) Clone() FRSchedule {
	out := make(FRSchedule, len(f))
	maps.Copy(out, f)
	return out
}

// UnmarshalJSON accepts null and 0 as "unassigned" and drops them.
func (f *FRSchedule) UnmarshalJSON(data []byte) error {
	var wire map[string]*int
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	out := make(FRSchedule, len(wire))
	for week, id := range wire {
		if id == nil || *id == 0 {
			continue
		}
		out[week] = *id
	}
	*f = out
	return nil
}

func (FRSchedule) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:                 "object",
		Description:          "Person id on first-responder duty, keyed by week id.",
		AdditionalProperties: &jsonschema.Schema{Type: "integer"},
	}
}
