// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/timesheet/internal/model"
)

// ErrNotFound は対象のレコードが存在しないことを示す。
var ErrNotFound = errors.New("record not found")

// TimesheetRepository は勤務記録の永続化インターフェース。
type TimesheetRepository interface {
	// List は全勤務記録をdate降順、同日はcreated_at降順で返す。
	// 0件の場合は空スライスを返す（nilではない）。
	List(ctx context.Context) ([]*model.TimesheetEntry, error)

	// Create は勤務記録を保存する。
	Create(ctx context.Context, entry *model.TimesheetEntry) error

	// Delete は指定IDの勤務記録を削除する。
	// 該当する記録がない場合はErrNotFoundを返す。
	Delete(ctx context.Context, id string) error
}
