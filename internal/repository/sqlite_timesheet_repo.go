package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/timesheet/internal/model"
)

// sqliteTimeLayout はcreated_atの文字列比較が時刻順と一致するよう固定幅にしたレイアウト。
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteTimesheetRepo はSQLiteを使用した勤務記録リポジトリ。
type SQLiteTimesheetRepo struct {
	db *sql.DB
}

// NewSQLiteTimesheetRepo はSQLiteTimesheetRepoを生成する。
func NewSQLiteTimesheetRepo(db *sql.DB) *SQLiteTimesheetRepo {
	return &SQLiteTimesheetRepo{db: db}
}

func (r *SQLiteTimesheetRepo) List(ctx context.Context) ([]*model.TimesheetEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, clock_in, clock_out, project, notes, created_by, created_at, updated_at
		 FROM timesheets
		 ORDER BY date DESC, created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing timesheets: %w", err)
	}
	defer rows.Close()

	entries := make([]*model.TimesheetEntry, 0)
	for rows.Next() {
		e, err := scanSQLiteEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timesheets: %w", err)
	}

	return entries, nil
}

func (r *SQLiteTimesheetRepo) Create(ctx context.Context, entry *model.TimesheetEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO timesheets (id, date, clock_in, clock_out, project, notes, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Date.String(),
		entry.ClockIn,
		entry.ClockOut,
		entry.Project,
		entry.Notes,
		entry.CreatedBy,
		entry.CreatedAt.UTC().Format(sqliteTimeLayout),
		entry.UpdatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting timesheet: %w", err)
	}
	return nil
}

func (r *SQLiteTimesheetRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM timesheets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting timesheet: %w", err)
	}
	return requireAffected(result)
}

func scanSQLiteEntry(rows *sql.Rows) (*model.TimesheetEntry, error) {
	var (
		e                    model.TimesheetEntry
		date                 string
		createdAt, updatedAt string
	)
	if err := rows.Scan(
		&e.ID, &date, &e.ClockIn, &e.ClockOut, &e.Project, &e.Notes,
		&e.CreatedBy, &createdAt, &updatedAt,
	); err != nil {
		return nil, fmt.Errorf("scanning timesheet: %w", err)
	}

	var err error
	if e.Date, err = model.ParseDate(date); err != nil {
		return nil, fmt.Errorf("parsing timesheet date: %w", err)
	}
	if e.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if e.UpdatedAt, err = time.Parse(sqliteTimeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &e, nil
}
