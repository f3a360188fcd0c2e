package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "YYYY-MM-DD形式", input: "2024-01-02", want: "2024-01-02"},
		{name: "前後の空白は無視する", input: "  2024-01-02 ", want: "2024-01-02"},
		{name: "RFC3339形式はUTCの暦日に丸める", input: "2024-01-02T00:00:00.000Z", want: "2024-01-02"},
		{name: "タイムゾーン付きRFC3339", input: "2024-01-02T23:30:00-05:00", want: "2024-01-03"},
		{name: "空文字列はエラー", input: "", wantErr: true},
		{name: "不正な形式はエラー", input: "01/02/2024", wantErr: true},
		{name: "存在しない日付はエラー", input: "2024-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseDate(%q) = %q, want %q", tt.input, got.String(), tt.want)
			}
		})
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	entry := TimesheetEntry{
		ID:        "id-1",
		Date:      NewDate(2024, time.January, 2),
		ClockIn:   "09:00",
		CreatedBy: "alice",
	}

	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal to map failed: %v", err)
	}
	if raw["date"] != "2024-01-02" {
		t.Errorf("date = %v, want %q", raw["date"], "2024-01-02")
	}
	// 任意項目は未設定時に出力しない
	if _, ok := raw["clockOut"]; ok {
		t.Error("clockOut should be omitted when empty")
	}

	var decoded TimesheetEntry
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !decoded.Date.Equal(entry.Date) {
		t.Errorf("decoded date = %v, want %v", decoded.Date, entry.Date)
	}
}

func TestDate_UnmarshalJSON_Invalid(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`20240102`), &d); err == nil {
		t.Error("expected error for numeric date")
	}
	if err := json.Unmarshal([]byte(`"not-a-date"`), &d); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestDate_UnmarshalJSON_NullAndEmpty(t *testing.T) {
	d := NewDate(2024, time.January, 2)
	if err := json.Unmarshal([]byte(`null`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.IsZero() {
		t.Errorf("expected zero date after null, got %v", d)
	}

	d = NewDate(2024, time.January, 2)
	if err := json.Unmarshal([]byte(`""`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "" {
		t.Errorf("String() = %q, want empty", d.String())
	}
}

func TestDateOf_UsesUTC(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	got := DateOf(time.Date(2024, time.January, 2, 5, 0, 0, 0, jst))
	if got.String() != "2024-01-01" {
		t.Errorf("DateOf = %q, want %q", got.String(), "2024-01-01")
	}
}

func TestAPIError_Error(t *testing.T) {
	err := NewTimesheetNotFoundError("abc")
	if err.Code != ErrCodeTimesheetNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeTimesheetNotFound)
	}
	want := "[TIMESHEET_NOT_FOUND] 指定された勤務記録が見つかりません: abc"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
