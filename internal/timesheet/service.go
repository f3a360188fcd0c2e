// Package timesheet は勤務記録のドメインロジックを提供する。
// 入力検証、ID・タイムスタンプの採番、自由入力テキストのサニタイズを行い、
// リポジトリのエラーをAPIErrorに変換する。
package timesheet

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hitoshi/timesheet/internal/model"
	"github.com/hitoshi/timesheet/internal/repository"
	"github.com/hitoshi/timesheet/internal/security"
)

// 自由入力フィールドの最大文字数（ルーン数）。
const (
	MaxProjectLength   = 100
	MaxNotesLength     = 2000
	MaxCreatedByLength = 100
)

// 受け付ける日付の年の範囲。
const (
	minDateYear = 1
	maxDateYear = 9999
)

// clockLayouts は出勤・退勤時刻として受け付ける時刻形式。
var clockLayouts = []string{"15:04", "15:04:05"}

// EntryRecorder は勤務記録の作成・削除件数を記録する。
// metrics.Collectorが実装する。
type EntryRecorder interface {
	RecordEntryCreated()
	RecordEntryDeleted()
}

// Service は勤務記録のサービス層。
type Service struct {
	repo      repository.TimesheetRepository
	sanitizer security.TextSanitizerService
	recorder  EntryRecorder
	now       func() time.Time
	newID     func() string
}

// NewService はServiceの新しいインスタンスを生成する。
// recorderはnilでもよい。
func NewService(
	repo repository.TimesheetRepository,
	sanitizer security.TextSanitizerService,
	recorder EntryRecorder,
) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		recorder:  recorder,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// List は全勤務記録をdate降順で返す。0件の場合は空スライスを返す。
func (s *Service) List(ctx context.Context) ([]*model.TimesheetEntry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		slog.Error("勤務記録一覧の取得に失敗", "error", err)
		return nil, model.NewStorageUnavailableError()
	}
	if entries == nil {
		entries = []*model.TimesheetEntry{}
	}
	return entries, nil
}

// Create は入力を検証し、IDとタイムスタンプを採番して勤務記録を保存する。
func (s *Service) Create(ctx context.Context, input model.CreateTimesheetInput) (*model.TimesheetEntry, error) {
	entry, err := s.buildEntry(input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		slog.Error("勤務記録の保存に失敗", "timesheet_id", entry.ID, "error", err)
		return nil, model.NewStorageUnavailableError()
	}

	if s.recorder != nil {
		s.recorder.RecordEntryCreated()
	}
	slog.Info("勤務記録を作成", "timesheet_id", entry.ID, "date", entry.Date.String(), "created_by", entry.CreatedBy)

	return entry, nil
}

// Delete は指定IDの勤務記録を削除する。
// UUID形式でないIDはストアに問い合わせずTIMESHEET_NOT_FOUNDとする。
// 大文字や波括弧付きの表記は保存時と同じ小文字ハイフン区切りに正規化してから削除する。
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	parsed, err := uuid.Parse(id)
	if err != nil {
		return model.NewTimesheetNotFoundError(id)
	}
	id = parsed.String()

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewTimesheetNotFoundError(id)
		}
		slog.Error("勤務記録の削除に失敗", "timesheet_id", id, "error", err)
		return model.NewStorageUnavailableError()
	}

	if s.recorder != nil {
		s.recorder.RecordEntryDeleted()
	}
	slog.Info("勤務記録を削除", "timesheet_id", id)

	return nil
}

// buildEntry は入力を検証・正規化し、保存前の勤務記録を組み立てる。
func (s *Service) buildEntry(input model.CreateTimesheetInput) (*model.TimesheetEntry, error) {
	date, err := model.ParseDate(input.Date)
	if err != nil {
		if strings.TrimSpace(input.Date) == "" {
			return nil, model.NewValidationError("date", "必須項目です")
		}
		return nil, model.NewValidationError("date", "YYYY-MM-DD形式で指定してください")
	}
	// 0001-01-01はゼロ値と区別できず、UTC変換で4桁を外れる年は保存できない
	if date.IsZero() || date.Year() < minDateYear || date.Year() > maxDateYear {
		return nil, model.NewValidationError("date", "0001-01-02から9999-12-31の範囲で指定してください")
	}

	clockIn, err := normalizeClock("clockIn", input.ClockIn, true)
	if err != nil {
		return nil, err
	}
	clockOut, err := normalizeClock("clockOut", input.ClockOut, false)
	if err != nil {
		return nil, err
	}

	createdBy := s.sanitizer.Sanitize(input.CreatedBy)
	if createdBy == "" {
		return nil, model.NewValidationError("createdBy", "必須項目です")
	}
	if err := checkLength("createdBy", createdBy, MaxCreatedByLength); err != nil {
		return nil, err
	}

	project := s.sanitizer.Sanitize(input.Project)
	if err := checkLength("project", project, MaxProjectLength); err != nil {
		return nil, err
	}
	notes := s.sanitizer.Sanitize(input.Notes)
	if err := checkLength("notes", notes, MaxNotesLength); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	return &model.TimesheetEntry{
		ID:        s.newID(),
		Date:      date,
		ClockIn:   clockIn,
		ClockOut:  clockOut,
		Project:   project,
		Notes:     notes,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// normalizeClock はHH:MMまたはHH:MM:SS形式の時刻を検証し、前後の空白を除いて返す。
func normalizeClock(field, value string, required bool) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		if required {
			return "", model.NewValidationError(field, "必須項目です")
		}
		return "", nil
	}
	for _, layout := range clockLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return value, nil
		}
	}
	return "", model.NewValidationError(field, "HH:MM形式で指定してください")
}

func checkLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return model.NewValidationError(field, "文字数が上限を超えています")
	}
	return nil
}
