package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/timesheet/internal/model"
)

// EntryOption はNewTestEntryの既定値を上書きする。
type EntryOption func(*model.TimesheetEntry)

func WithDate(y int, m time.Month, d int) EntryOption {
	return func(e *model.TimesheetEntry) {
		e.Date = model.NewDate(y, m, d)
	}
}

func WithCreatedAt(t time.Time) EntryOption {
	return func(e *model.TimesheetEntry) {
		e.CreatedAt = t.UTC()
		e.UpdatedAt = t.UTC()
	}
}

func WithProject(p string) EntryOption {
	return func(e *model.TimesheetEntry) {
		e.Project = p
	}
}

func WithNotes(n string) EntryOption {
	return func(e *model.TimesheetEntry) {
		e.Notes = n
	}
}

func WithClockOut(c string) EntryOption {
	return func(e *model.TimesheetEntry) {
		e.ClockOut = c
	}
}

// NewTestEntry は保存可能な勤務記録を生成する。
func NewTestEntry(createdBy string, opts ...EntryOption) *model.TimesheetEntry {
	now := time.Now().UTC().Truncate(time.Microsecond)
	e := &model.TimesheetEntry{
		ID:        uuid.New().String(),
		Date:      model.DateOf(now),
		ClockIn:   "09:00",
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
