package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/timesheet/internal/model"
)

// PostgresTimesheetRepo はPostgreSQLを使用した勤務記録リポジトリ。
type PostgresTimesheetRepo struct {
	db *sql.DB
}

// NewPostgresTimesheetRepo はPostgresTimesheetRepoを生成する。
func NewPostgresTimesheetRepo(db *sql.DB) *PostgresTimesheetRepo {
	return &PostgresTimesheetRepo{db: db}
}

// List は全勤務記録をdate降順、同日はcreated_at降順で返す。
// dateはタイムゾーンの影響を受けないようto_charで文字列として取得する。
func (r *PostgresTimesheetRepo) List(ctx context.Context) ([]*model.TimesheetEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, to_char(date, 'YYYY-MM-DD'), clock_in, clock_out, project, notes,
		        created_by, created_at, updated_at
		 FROM timesheets
		 ORDER BY date DESC, created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheets: %w", err)
	}
	defer rows.Close()

	entries := make([]*model.TimesheetEntry, 0)
	for rows.Next() {
		var (
			e    model.TimesheetEntry
			date string
		)
		if err := rows.Scan(
			&e.ID, &date, &e.ClockIn, &e.ClockOut, &e.Project, &e.Notes,
			&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan timesheet: %w", err)
		}
		if e.Date, err = model.ParseDate(date); err != nil {
			return nil, fmt.Errorf("failed to parse timesheet date: %w", err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		e.UpdatedAt = e.UpdatedAt.UTC()
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timesheets: %w", err)
	}

	return entries, nil
}

// Create は勤務記録を保存する。ID・タイムスタンプは呼び出し元で設定済みであること。
func (r *PostgresTimesheetRepo) Create(ctx context.Context, entry *model.TimesheetEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO timesheets (id, date, clock_in, clock_out, project, notes, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.Date.String(), entry.ClockIn, entry.ClockOut, entry.Project, entry.Notes,
		entry.CreatedBy, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert timesheet: %w", err)
	}
	return nil
}

// Delete は指定IDの勤務記録を削除する。該当行がない場合はErrNotFoundを返す。
func (r *PostgresTimesheetRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM timesheets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete timesheet: %w", err)
	}
	return requireAffected(result)
}
