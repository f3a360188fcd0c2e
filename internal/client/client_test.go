package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitoshi/timesheet/internal/config"
	"github.com/hitoshi/timesheet/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return New(&config.ClientConfig{APIBaseURL: srv.URL, Timeout: 2 * time.Second}, logger)
}

func TestList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/timesheets", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":"a","date":"2024-02-01","clockIn":"09:00","createdBy":"alice","createdAt":"2024-02-01T09:00:00Z","updatedAt":"2024-02-01T09:00:00Z"}]`)
	})

	entries, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "2024-02-01", entries[0].Date.String())
	assert.Equal(t, "alice", entries[0].CreatedBy)
}

func TestList_NullBodyIsEmptySlice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `null`)
	})

	entries, err := c.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestList_ServerErrorCarriesMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"code":"STORAGE_UNAVAILABLE","message":"データストアに接続できません。"}`)
	})

	_, err := c.List(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, model.ErrCodeStorageUnavailable, apiErr.Code)
	assert.Equal(t, "データストアに接続できません。", err.Error())
}

func TestList_NonJSONErrorFallsBackToStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.List(context.Background())
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "502")
}

func TestCreate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in model.CreateTimesheetInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "2024-02-01", in.Date)
		assert.Equal(t, "09:30", in.ClockIn)
		assert.Equal(t, "bob", in.CreatedBy)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(model.TimesheetEntry{
			ID: "new-id", Date: model.NewDate(2024, time.February, 1), ClockIn: in.ClockIn, CreatedBy: in.CreatedBy,
		})
	})

	entry, err := c.Create(context.Background(), model.CreateTimesheetInput{
		Date: "2024-02-01", ClockIn: "09:30", CreatedBy: "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, "new-id", entry.ID)
	assert.Equal(t, "09:30", entry.ClockIn)
}

func TestCreate_ValidationError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":"VALIDATION_ERROR","message":"clockIn: 必須項目です"}`)
	})

	_, err := c.Create(context.Background(), model.CreateTimesheetInput{Date: "2024-02-01"})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "clockIn: 必須項目です", apiErr.Message)
}

func TestDelete_EscapesID(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.EscapedPath()
		_, _ = io.WriteString(w, `{"message":"勤務記録を削除しました。"}`)
	})

	require.NoError(t, c.Delete(context.Background(), "a/b"))
	assert.Equal(t, "/api/timesheets/a%2Fb", gotPath)
}

func TestDelete_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code":"TIMESHEET_NOT_FOUND","message":"指定された勤務記録が見つかりません: x"}`)
	})

	err := c.Delete(context.Background(), "x")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, model.ErrCodeTimesheetNotFound, apiErr.Code)
}

func TestHealth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = io.WriteString(w, `{"status":"healthy"}`)
	})

	assert.NoError(t, c.Health(context.Background()))
}

func TestConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(&config.ClientConfig{APIBaseURL: url, Timeout: time.Second}, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	_, err := c.List(context.Background())
	require.Error(t, err)
	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr), "transport failures are not API errors")
}
