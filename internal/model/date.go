package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout は日付のワイヤーフォーマット（YYYY-MM-DD）。
const DateLayout = "2006-01-02"

// Date は時刻を持たない暦日を表す。内部的にはUTCの0時として保持する。
type Date struct {
	time.Time
}

// NewDate は年月日からDateを生成する。
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf は時刻tのUTC暦日を返す。
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// ParseDate は文字列をDateに変換する。
// YYYY-MM-DD形式に加え、RFC 3339形式のタイムスタンプも受け付ける（UTCの暦日に丸める）。
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("date is empty")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, fmt.Errorf("invalid date format: %q", s)
}

// String はYYYY-MM-DD形式の文字列を返す。ゼロ値の場合は空文字列を返す。
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.UTC().Format(DateLayout)
}

// Before はdがoより前の暦日であればtrueを返す。
func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

// Equal はdとoが同じ暦日であればtrueを返す。
func (d Date) Equal(o Date) bool {
	return d.Time.Equal(o.Time)
}

// MarshalJSON はYYYY-MM-DD形式の文字列としてエンコードする。
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON はYYYY-MM-DDまたはRFC 3339形式の文字列をデコードする。
// 空文字列とnullはゼロ値として扱う。
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
