package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/timesheet/internal/middleware"
	"github.com/hitoshi/timesheet/internal/model"
)

// TimesheetServiceInterface は勤務記録ハンドラーが必要とするサービスインターフェース。
type TimesheetServiceInterface interface {
	// List は全勤務記録をdate降順で返す。
	List(ctx context.Context) ([]*model.TimesheetEntry, error)
	// Create は勤務記録を作成する。
	Create(ctx context.Context, input model.CreateTimesheetInput) (*model.TimesheetEntry, error)
	// Delete は勤務記録を削除する。
	Delete(ctx context.Context, id string) error
}

// TimesheetHandler は勤務記録のHTTPハンドラー。
type TimesheetHandler struct {
	service TimesheetServiceInterface
}

// NewTimesheetHandler はTimesheetHandlerを生成する。
func NewTimesheetHandler(service TimesheetServiceInterface) *TimesheetHandler {
	return &TimesheetHandler{
		service: service,
	}
}

// messageResponse はメッセージのみのAPIレスポンス。
type messageResponse struct {
	Message string `json:"message"`
}

// List は勤務記録の一覧を返す。0件の場合は空配列を返す。
// GET /api/timesheets
func (h *TimesheetHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []*model.TimesheetEntry{}
	}

	writeJSON(w, http.StatusOK, entries)
}

// Create は勤務記録を作成する。
// POST /api/timesheets
func (h *TimesheetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.CreateTimesheetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteAPIError(w, model.NewInvalidRequestError())
		return
	}

	entry, err := h.service.Create(r.Context(), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// Delete は勤務記録を削除する。
// DELETE /api/timesheets/{id}
func (h *TimesheetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "勤務記録を削除しました。"})
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("failed to encode response", slog.String("error", err.Error()))
	}
}

// handleServiceError はサービス層から返されたエラーをコードに応じたステータスで書き込む。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteAPIError(w, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}
