// Package model はドメインモデルを定義する。
package model

import "time"

// TimesheetEntry は1件の勤務記録を表す。
// 作成後は更新されず、削除のみ可能。
type TimesheetEntry struct {
	ID        string    `json:"id"`
	Date      Date      `json:"date"`
	ClockIn   string    `json:"clockIn"`
	ClockOut  string    `json:"clockOut,omitempty"`
	Project   string    `json:"project,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateTimesheetInput は勤務記録の作成リクエストを表す。
// ID・タイムスタンプはサーバー側で採番するため含まない。
type CreateTimesheetInput struct {
	Date      string `json:"date"`
	ClockIn   string `json:"clockIn"`
	ClockOut  string `json:"clockOut,omitempty"`
	Project   string `json:"project,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedBy string `json:"createdBy"`
}

// ProjectChoices はクライアントの入力フォームで提示するプロジェクト候補。
// サーバーは任意の文字列を受け付ける。
var ProjectChoices = []string{"Development", "Design", "Meeting", "Research"}
