package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/capplan/internal/schedule"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "capplan.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	db.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return db
}

func TestCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	s := schedule.Demo("2025-11-24")
	s.FRSchedule["W3"] = 2

	rec, err := db.Create(ctx, "user-1", s)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, rec.CreatedAt, rec.UpdatedAt)

	got, err := db.Get(ctx, "user-1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, s, got.Schedule)
	assert.Equal(t, "user-1", got.OwnerID)
	assert.Equal(t, rec.CreatedAt, got.CreatedAt)

	_, err = db.Get(ctx, "user-2", rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRejectsInvalid(t *testing.T) {
	db := openTestDB(t)
	s := schedule.Demo("2025-11-24")
	s.People = append(s.People, schedule.Person{ID: 1, Name: "Dup"})

	_, err := db.Create(context.Background(), "user-1", s)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestListOrdersByUpdate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	a, err := db.Create(ctx, "user-1", schedule.New("A", "2025-11-24", 2, 3))
	require.NoError(t, err)
	b, err := db.Create(ctx, "user-1", schedule.New("B", "2025-11-24", 2, 3))
	require.NoError(t, err)
	_, err = db.Create(ctx, "user-2", schedule.New("C", "2025-11-24", 2, 3))
	require.NoError(t, err)

	recs, err := db.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{b.ID, a.ID}, []string{recs[0].ID, recs[1].ID})

	name := "A2"
	_, err = db.Patch(ctx, "user-1", a.ID, Patch{Name: &name})
	require.NoError(t, err)

	recs, err = db.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "A2", recs[0].Name)

	empty, err := db.List(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPatchResizeWritesTogether(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	s := schedule.Demo("2025-11-24")
	s.FRSchedule["W6"] = 1
	rec, err := db.Create(ctx, "user-1", s)
	require.NoError(t, err)

	resized := schedule.Resize(rec.Schedule, 4)
	updated, err := db.Patch(ctx, "user-1", rec.ID, Patch{
		PlanningPeriod: &resized.PlanningPeriod,
		Weeks:          &resized.Weeks,
		Holidays:       &resized.Holidays,
		FRSchedule:     &resized.FRSchedule,
	})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(rec.UpdatedAt))

	got, err := db.Get(ctx, "user-1", rec.ID)
	require.NoError(t, err)
	assert.Len(t, got.Weeks, 4)
	assert.Equal(t, 4, got.PlanningPeriod.NumberOfWeeks)
	assert.Empty(t, got.FRSchedule)
	assert.Len(t, got.Holidays, 12)
	assert.Equal(t, s.Projects, got.Projects)
}

func TestResize(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	rec, err := db.Create(ctx, "user-1", schedule.Demo("2025-11-24"))
	require.NoError(t, err)

	// a person added after the caller last read the schedule survives
	withDave, dave := schedule.AddPerson(rec.Schedule, "Dave")
	withDave, err = schedule.SetHoliday(withDave, dave.ID, "W1", 2)
	require.NoError(t, err)
	_, err = db.Update(ctx, "user-1", rec.ID, withDave)
	require.NoError(t, err)

	got, err := db.Resize(ctx, "user-1", rec.ID, 8, schedule.ResizeOptions{WorkingDays: 4})
	require.NoError(t, err)
	assert.Len(t, got.Weeks, 8)
	assert.Equal(t, 4, got.Weeks[7].WorkingDays)
	assert.Len(t, got.People, 4)
	assert.Equal(t, 2.0, got.Holidays.Get(dave.ID, "W1"))
	assert.Len(t, got.Holidays, 4*8)

	got, err = db.Resize(ctx, "user-1", rec.ID, 2, schedule.ResizeOptions{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, "W2", got.Projects[0].EndWeek)

	stored, err := db.Get(ctx, "user-1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Schedule, stored.Schedule)

	_, err = db.Resize(ctx, "user-2", rec.ID, 3, schedule.ResizeOptions{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPatchNormalizesAndValidates(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	rec, err := db.Create(ctx, "user-1", schedule.Demo("2025-11-24"))
	require.NoError(t, err)

	// weeks without a period still keep numberOfWeeks in step
	weeks := rec.Weeks[:2]
	got, err := db.Patch(ctx, "user-1", rec.ID, Patch{Weeks: &weeks})
	require.NoError(t, err)
	assert.Equal(t, 2, got.PlanningPeriod.NumberOfWeeks)

	neg := -2.0
	_, err = db.Patch(ctx, "user-1", rec.ID, Patch{FRCapacityDays: &neg})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = db.Patch(ctx, "user-1", "missing", Patch{FRCapacityDays: &neg})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAndDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	rec, err := db.Create(ctx, "user-1", schedule.Demo("2025-11-24"))
	require.NoError(t, err)

	s, _ := schedule.AddPerson(rec.Schedule, "Dana")
	_, err = db.Update(ctx, "user-1", rec.ID, s)
	require.NoError(t, err)
	got, err := db.Get(ctx, "user-1", rec.ID)
	require.NoError(t, err)
	assert.Len(t, got.People, 4)

	require.NoError(t, db.Delete(ctx, "user-2", rec.ID))
	_, err = db.Get(ctx, "user-1", rec.ID)
	require.NoError(t, err, "other owners cannot delete")

	require.NoError(t, db.Delete(ctx, "user-1", rec.ID))
	_, err = db.Get(ctx, "user-1", rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, db.Delete(ctx, "user-1", rec.ID))
}

func TestState(t *testing.T) {
	db := openTestDB(t)

	v, err := db.GetState("active_schedule")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, db.SetState("active_schedule", "abc"))
	require.NoError(t, db.SetState("active_schedule", "def"))
	v, err = db.GetState("active_schedule")
	require.NoError(t, err)
	assert.Equal(t, "def", v)
}
