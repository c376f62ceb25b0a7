package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/christopherklint97/capplan/internal/schedule"
)

var (
	// ErrNotFound means no schedule with that id belongs to the owner.
	ErrNotFound = errors.New("schedule not found")
	// ErrInvalid wraps the validation failures of a rejected write.
	ErrInvalid = errors.New("invalid schedule")
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Record is a stored schedule with its metadata.
type Record struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	schedule.Schedule
}

// Patch names the sub-documents to replace. Nil fields are left alone,
// so a resize can write weeks, holidays, frSchedule and planningPeriod in
// one statement.
type Patch struct {
	Name           *string                  `json:"name,omitempty"`
	PlanningPeriod *schedule.PlanningPeriod `json:"planningPeriod,omitempty"`
	Weeks          *[]schedule.Week         `json:"weekConfig,omitempty"`
	People         *[]schedule.Person       `json:"people,omitempty"`
	Holidays       *schedule.Holidays       `json:"holidays,omitempty"`
	FRSchedule     *schedule.FRSchedule     `json:"frSchedule,omitempty"`
	FRCapacityDays *float64                 `json:"frCapacityDays,omitempty"`
	Projects       *[]schedule.Project      `json:"projects,omitempty"`
}

// Apply overlays the patch onto s.
func (p Patch) Apply(s schedule.Schedule) schedule.Schedule {
	out := s.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.PlanningPeriod != nil {
		out.PlanningPeriod = *p.PlanningPeriod
	}
	if p.Weeks != nil {
		out.Weeks = *p.Weeks
	}
	if p.People != nil {
		out.People = *p.People
	}
	if p.Holidays != nil {
		out.Holidays = *p.Holidays
	}
	if p.FRSchedule != nil {
		out.FRSchedule = *p.FRSchedule
	}
	if p.FRCapacityDays != nil {
		out.FRCapacityDays = *p.FRCapacityDays
	}
	if p.Projects != nil {
		out.Projects = *p.Projects
	}
	return out
}

// FullPatch replaces every sub-document with the ones in s.
func FullPatch(s schedule.Schedule) Patch {
	return Patch{
		Name:           &s.Name,
		PlanningPeriod: &s.PlanningPeriod,
		Weeks:          &s.Weeks,
		People:         &s.People,
		Holidays:       &s.Holidays,
		FRSchedule:     &s.FRSchedule,
		FRCapacityDays: &s.FRCapacityDays,
		Projects:       &s.Projects,
	}
}

const selectColumns = `SELECT id, owner_id, name, planning_period, week_config, people, holidays,
	fr_schedule, fr_capacity_days, projects, created_at, updated_at FROM schedules`

// List returns the owner's schedules, most recently updated first.
func (db *DB) List(ctx context.Context, ownerID string) ([]Record, error) {
	rows, err := db.QueryContext(ctx, selectColumns+` WHERE owner_id = ? ORDER BY updated_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying schedules: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

func (db *DB) Get(ctx context.Context, ownerID, id string) (*Record, error) {
	return getRecord(ctx, db.DB, ownerID, id)
}

// Create stores s as a new schedule owned by ownerID.
func (db *DB) Create(ctx context.Context, ownerID string, s schedule.Schedule) (*Record, error) {
	s = schedule.Normalize(s)
	if err := schedule.Validate(s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	cols, err := encodeColumns(s)
	if err != nil {
		return nil, err
	}

	now := db.now().UTC()
	id := uuid.NewString()
	_, err = db.ExecContext(ctx,
		`INSERT INTO schedules (id, owner_id, name, planning_period, week_config, people, holidays,
			fr_schedule, fr_capacity_days, projects, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, ownerID, s.Name, cols.period, cols.weeks, cols.people, cols.holidays,
		cols.fr, s.FRCapacityDays, cols.projects,
		now.Format(timeLayout), now.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting schedule: %w", err)
	}
	db.logger.Info().Str("schedule_id", id).Str("owner_id", ownerID).Msg("schedule created")

	return &Record{ID: id, OwnerID: ownerID, CreatedAt: now, UpdatedAt: now, Schedule: s}, nil
}

// Update replaces the whole document.
func (db *DB) Update(ctx context.Context, ownerID, id string, s schedule.Schedule) (*Record, error) {
	return db.Patch(ctx, ownerID, id, FullPatch(s))
}

// Patch applies p inside a transaction so readers never see a partly
// written document.
func (db *DB) Patch(ctx context.Context, ownerID, id string, p Patch) (*Record, error) {
	return db.modify(ctx, ownerID, id, p.Apply)
}

// Resize changes the number of weeks. The read and the write share one
// transaction, so entries added concurrently are resized rather than lost.
func (db *DB) Resize(ctx context.Context, ownerID, id string, numberOfWeeks int, opts schedule.ResizeOptions) (*Record, error) {
	return db.modify(ctx, ownerID, id, func(s schedule.Schedule) schedule.Schedule {
		return schedule.ResizeWith(s, numberOfWeeks, opts)
	})
}

// modify loads the schedule, runs fn over it and writes the result back
// within a single transaction.
func (db *DB) modify(ctx context.Context, ownerID, id string, fn func(schedule.Schedule) schedule.Schedule) (*Record, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	rec, err := getRecord(ctx, tx, ownerID, id)
	if err != nil {
		return nil, err
	}

	s := schedule.Normalize(fn(rec.Schedule))
	if err := schedule.Validate(s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	cols, err := encodeColumns(s)
	if err != nil {
		return nil, err
	}

	now := db.now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE schedules SET name = ?, planning_period = ?, week_config = ?, people = ?, holidays = ?,
			fr_schedule = ?, fr_capacity_days = ?, projects = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		s.Name, cols.period, cols.weeks, cols.people, cols.holidays,
		cols.fr, s.FRCapacityDays, cols.projects, now.Format(timeLayout),
		id, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating schedule: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing update: %w", err)
	}
	db.logger.Debug().Str("schedule_id", id).Msg("schedule updated")

	rec.Schedule = s
	rec.UpdatedAt = now
	return rec, nil
}

// Delete removes the schedule. Deleting a missing schedule is not an error.
func (db *DB) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ? AND owner_id = ?`, id, ownerID); err != nil {
		return fmt.Errorf("deleting schedule: %w", err)
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func getRecord(ctx context.Context, q queryer, ownerID, id string) (*Record, error) {
	row := q.QueryRowContext(ctx, selectColumns+` WHERE id = ? AND owner_id = ?`, id, ownerID)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("schedule %s: %w", id, ErrNotFound)
	}
	return r, err
}

func scanRecord(row scanner) (*Record, error) {
	var (
		r                                             Record
		period, weeks, people, holidays, fr, projects string
		createdStr, updatedStr                        string
	)
	if err := row.Scan(
		&r.ID, &r.OwnerID, &r.Name, &period, &weeks, &people, &holidays,
		&fr, &r.FRCapacityDays, &projects, &createdStr, &updatedStr,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning schedule: %w", err)
	}

	for _, c := range []struct {
		name string
		data string
		dst  any
	}{
		{"planning_period", period, &r.PlanningPeriod},
		{"week_config", weeks, &r.Weeks},
		{"people", people, &r.People},
		{"holidays", holidays, &r.Holidays},
		{"fr_schedule", fr, &r.FRSchedule},
		{"projects", projects, &r.Projects},
	} {
		if err := json.Unmarshal([]byte(c.data), c.dst); err != nil {
			return nil, fmt.Errorf("decoding %s of schedule %s: %w", c.name, r.ID, err)
		}
	}

	if t, err := time.Parse(timeLayout, createdStr); err == nil {
		r.CreatedAt = t
	}
	if t, err := time.Parse(timeLayout, updatedStr); err == nil {
		r.UpdatedAt = t
	}
	r.Schedule = schedule.Normalize(r.Schedule)
	return &r, nil
}

type columns struct {
	period, weeks, people, holidays, fr, projects string
}

func encodeColumns(s schedule.Schedule) (columns, error) {
	var c columns
	for _, f := range []struct {
		name string
		src  any
		dst  *string
	}{
		{"planning_period", s.PlanningPeriod, &c.period},
		{"week_config", s.Weeks, &c.weeks},
		{"people", s.People, &c.people},
		{"holidays", s.Holidays, &c.holidays},
		{"fr_schedule", s.FRSchedule, &c.fr},
		{"projects", s.Projects, &c.projects},
	} {
		data, err := json.Marshal(f.src)
		if err != nil {
			return columns{}, fmt.Errorf("encoding %s: %w", f.name, err)
		}
		*f.dst = string(data)
	}
	return c, nil
}
