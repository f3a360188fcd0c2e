// Package session はクライアント1画面分の状態（時計・休憩タイマー・入力フォーム・
// 勤務記録一覧・削除確認）を保持する状態機械を提供する。
//
// Sessionは単一のゴルーチン（bubbleteaのUpdateループ）からのみ操作する前提で、
// 内部にロックを持たない。ネットワーク呼び出しはBegin*/Complete*の組で表し、
// 呼び出し元が非同期に実行して結果をComplete*で反映する。
package session

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/hitoshi/timesheet/internal/model"
)

// clockLayout は現在時刻の表示形式。常にUTCで表示する。
const clockLayout = "2006-01-02 15:04:05"

// API はSessionが呼び出す勤務記録APIのインターフェース。
type API interface {
	List(ctx context.Context) ([]*model.TimesheetEntry, error)
	Create(ctx context.Context, input model.CreateTimesheetInput) (*model.TimesheetEntry, error)
	Delete(ctx context.Context, id string) error
}

// Options はSessionの挙動を切り替える設定。
type Options struct {
	// User は作成する勤務記録のcreatedByに設定するユーザー名。
	User string
	// ResetBreakOnStop がtrueの場合、休憩終了時に経過秒数を0に戻す。
	ResetBreakOnStop bool
	// SkipDeleteConfirmation がtrueの場合、削除要求で確認を挟まず即座に削除する。
	SkipDeleteConfirmation bool
	// Now は現在時刻の取得関数。nilの場合はtime.Now。
	Now func() time.Time
}

// DeleteState は削除フローの状態を表す。
type DeleteState int

const (
	// DeleteIdle は削除フローが動いていない状態。
	DeleteIdle DeleteState = iota
	// DeletePending は削除対象を記録し、ユーザーの確認を待っている状態。
	DeletePending
	// DeleteInFlight は削除リクエストの完了を待っている状態。
	DeleteInFlight
)

// String は状態名を返す。
func (s DeleteState) String() string {
	switch s {
	case DeleteIdle:
		return "idle"
	case DeletePending:
		return "pending"
	case DeleteInFlight:
		return "in-flight"
	default:
		return fmt.Sprintf("DeleteState(%d)", int(s))
	}
}

// Draft は入力フォームの下書き。
type Draft struct {
	Date     string
	ClockIn  string
	ClockOut string
	Project  string
	Notes    string
}

// Session はクライアント1画面分の状態を保持する。
type Session struct {
	opts Options

	now time.Time

	breakActive  bool
	breakElapsed int
	breakGen     uint64

	draft      Draft
	entries    []*model.TimesheetEntry
	errMessage string
	loading    int
	submitting bool

	deleteState DeleteState
	pendingID   string
}

// New はSessionを生成する。下書きの日付は今日（UTC）で初期化する。
func New(opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Session{
		opts:    opts,
		entries: []*model.TimesheetEntry{},
	}
	s.now = opts.Now()
	s.resetDraft()
	return s
}

// User はcreatedByに使うユーザー名を返す。
func (s *Session) User() string {
	return s.opts.User
}

// --- 時計 ---

// Tick は1秒ごとの時計更新を反映する。
func (s *Session) Tick(t time.Time) {
	s.now = t
}

// ClockDisplay は現在時刻を "YYYY-MM-DD HH:MM:SS UTC" 形式で返す。
func (s *Session) ClockDisplay() string {
	return s.now.UTC().Format(clockLayout) + " UTC"
}

// --- 休憩タイマー ---

// ToggleBreak は休憩タイマーの開始・終了を切り替え、新しい世代番号を返す。
// 開始時は経過秒数を0に戻す。世代番号は切り替えのたびに進み、
// 古い世代のBreakTickは無視される。
func (s *Session) ToggleBreak() uint64 {
	s.breakGen++
	if s.breakActive {
		s.breakActive = false
		if s.opts.ResetBreakOnStop {
			s.breakElapsed = 0
		}
		return s.breakGen
	}
	s.breakActive = true
	s.breakElapsed = 0
	return s.breakGen
}

// BreakTick は世代genのタイマーから届いた1秒分の経過を反映する。
// 休憩中でない、または世代が古い場合は何もせずfalseを返す。
func (s *Session) BreakTick(gen uint64) bool {
	if !s.breakActive || gen != s.breakGen {
		return false
	}
	s.breakElapsed++
	return true
}

// BreakActive は休憩中かどうかを返す。
func (s *Session) BreakActive() bool {
	return s.breakActive
}

// BreakElapsed は休憩の経過秒数を返す。
func (s *Session) BreakElapsed() int {
	return s.breakElapsed
}

// BreakGeneration は現在のタイマー世代番号を返す。
func (s *Session) BreakGeneration() uint64 {
	return s.breakGen
}

// ShowBreakTimer は経過時間を表示すべきかを返す。経過が0秒の間は表示しない。
func (s *Session) ShowBreakTimer() bool {
	return s.breakElapsed > 0
}

// BreakDisplay は経過秒数を "HH:MM:SS" 形式で返す。
func (s *Session) BreakDisplay() string {
	return FormatElapsed(s.breakElapsed)
}

// FormatElapsed は秒数を "HH:MM:SS" 形式に整形する。24時間を超えても時は繰り上がらない。
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// --- 入力フォーム ---

// Draft は下書きのコピーを返す。
func (s *Session) Draft() Draft {
	return s.draft
}

// SetDraft は下書きを置き換える。
func (s *Session) SetDraft(d Draft) {
	s.draft = d
}

func (s *Session) resetDraft() {
	s.draft = Draft{Date: model.DateOf(s.opts.Now()).String()}
}

// --- 一覧 ---

// Entries は勤務記録一覧のコピーを返す。
func (s *Session) Entries() []*model.TimesheetEntry {
	return slices.Clone(s.entries)
}

// Loading は応答待ちのリクエストがあるかを返す。
func (s *Session) Loading() bool {
	return s.loading > 0
}

// ErrorMessage は表示中のエラーメッセージを返す。エラーがなければ空文字列。
func (s *Session) ErrorMessage() string {
	return s.errMessage
}

// DismissError は表示中のエラーを消す。
func (s *Session) DismissError() {
	s.errMessage = ""
}

// Submitting は作成リクエストの応答待ちかを返す。
func (s *Session) Submitting() bool {
	return s.submitting
}

func (s *Session) endLoading() {
	if s.loading > 0 {
		s.loading--
	}
}

// BeginLoad は一覧取得の開始を記録する。
func (s *Session) BeginLoad() {
	s.loading++
}

// CompleteLoad は一覧取得の結果を反映する。失敗時はエラーを記録し、一覧を空にする。
func (s *Session) CompleteLoad(entries []*model.TimesheetEntry, err error) {
	s.endLoading()
	if err != nil {
		s.errMessage = fmt.Sprintf("勤務記録の取得に失敗しました: %v", err)
		s.entries = []*model.TimesheetEntry{}
		return
	}
	s.entries = slices.Clone(entries)
	if s.entries == nil {
		s.entries = []*model.TimesheetEntry{}
	}
}

// BeginSubmit は下書きを検証し、送信する入力を返す。
// 日付と出勤時刻が空の場合はエラーを記録してfalseを返し、APIは呼ばない。
// 送信中の場合も二重送信を避けるためfalseを返す。
func (s *Session) BeginSubmit() (model.CreateTimesheetInput, bool) {
	if s.submitting {
		return model.CreateTimesheetInput{}, false
	}

	d := s.draft
	if strings.TrimSpace(d.Date) == "" || strings.TrimSpace(d.ClockIn) == "" {
		s.errMessage = "日付と出勤時刻は必須です。"
		return model.CreateTimesheetInput{}, false
	}

	s.errMessage = ""
	s.submitting = true
	s.loading++
	return model.CreateTimesheetInput{
		Date:      strings.TrimSpace(d.Date),
		ClockIn:   strings.TrimSpace(d.ClockIn),
		ClockOut:  strings.TrimSpace(d.ClockOut),
		Project:   strings.TrimSpace(d.Project),
		Notes:     d.Notes,
		CreatedBy: s.opts.User,
	}, true
}

// CompleteSubmit は作成結果を反映する。
// 成功時は返された記録を一覧の先頭に追加して下書きを初期化し、失敗時は下書きを残す。
func (s *Session) CompleteSubmit(entry *model.TimesheetEntry, err error) {
	s.endLoading()
	s.submitting = false
	if err != nil {
		s.errMessage = fmt.Sprintf("勤務記録の保存に失敗しました: %v", err)
		return
	}
	if entry != nil {
		s.entries = append([]*model.TimesheetEntry{entry}, s.entries...)
	}
	s.resetDraft()
}

// --- 削除フロー ---

// DeleteState は削除フローの現在の状態を返す。
func (s *Session) DeleteState() DeleteState {
	return s.deleteState
}

// PendingDeleteID は確認待ちまたは削除中の記録IDを返す。
func (s *Session) PendingDeleteID() string {
	return s.pendingID
}

// RequestDelete は削除要求を記録する。確認待ちの間に再度要求された場合は対象を置き換える。
// 削除中は要求を無視する。
// SkipDeleteConfirmationが有効な場合は確認を挟まずに削除を開始し、対象IDとtrueを返す。
func (s *Session) RequestDelete(id string) (string, bool) {
	if s.deleteState == DeleteInFlight || id == "" {
		return "", false
	}
	s.pendingID = id
	s.deleteState = DeletePending
	if s.opts.SkipDeleteConfirmation {
		return s.ConfirmDelete()
	}
	return "", false
}

// CancelDelete は確認待ちの削除要求を取り消す。APIは呼ばない。
func (s *Session) CancelDelete() {
	if s.deleteState != DeletePending {
		return
	}
	s.deleteState = DeleteIdle
	s.pendingID = ""
}

// ConfirmDelete は確認待ちの削除を確定し、削除するIDとtrueを返す。
// 確認待ちでない場合、または対象がすでに一覧にない場合は何もしない。
func (s *Session) ConfirmDelete() (string, bool) {
	if s.deleteState != DeletePending {
		return "", false
	}
	if !s.hasEntry(s.pendingID) {
		s.deleteState = DeleteIdle
		s.pendingID = ""
		return "", false
	}
	s.deleteState = DeleteInFlight
	s.loading++
	return s.pendingID, true
}

// CompleteDelete は削除結果を反映する。成功時はidを一覧から取り除き、失敗時は一覧を変えない。
// どちらの場合も削除フローはIdleに戻る。
func (s *Session) CompleteDelete(id string, err error) {
	if s.deleteState != DeleteInFlight || id != s.pendingID {
		return
	}
	s.endLoading()
	s.deleteState = DeleteIdle
	s.pendingID = ""
	if err != nil {
		s.errMessage = fmt.Sprintf("勤務記録の削除に失敗しました: %v", err)
		return
	}
	s.entries = slices.DeleteFunc(s.entries, func(e *model.TimesheetEntry) bool {
		return e.ID == id
	})
}

func (s *Session) hasEntry(id string) bool {
	return slices.ContainsFunc(s.entries, func(e *model.TimesheetEntry) bool {
		return e.ID == id
	})
}

// --- 同期実行 ---

// Load は一覧を取得して反映する。
func (s *Session) Load(ctx context.Context, api API) {
	s.BeginLoad()
	var (
		entries []*model.TimesheetEntry
		err     error
	)
	defer func() { s.CompleteLoad(entries, err) }()
	entries, err = api.List(ctx)
}

// Submit は下書きを検証して送信し、結果を反映する。APIを呼んだ場合にtrueを返す。
func (s *Session) Submit(ctx context.Context, api API) bool {
	input, ok := s.BeginSubmit()
	if !ok {
		return false
	}
	var (
		entry *model.TimesheetEntry
		err   error
	)
	defer func() { s.CompleteSubmit(entry, err) }()
	entry, err = api.Create(ctx, input)
	return true
}

// Confirm は確認待ちの削除を実行して結果を反映する。APIを呼んだ場合にtrueを返す。
func (s *Session) Confirm(ctx context.Context, api API) bool {
	id, ok := s.ConfirmDelete()
	if !ok {
		return false
	}
	var err error
	defer func() { s.CompleteDelete(id, err) }()
	err = api.Delete(ctx, id)
	return true
}
