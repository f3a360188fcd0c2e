// Package client は勤務記録APIのHTTPクライアントを提供する。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/hitoshi/timesheet/internal/config"
	"github.com/hitoshi/timesheet/internal/model"
)

// maxErrorBodyBytes はエラーレスポンスとして読み込む最大バイト数。
const maxErrorBodyBytes = 64 << 10

// Error はAPIが2xx以外のステータスを返したことを表す。
// Messageはサーバーが返したmessageフィールドで、そのままユーザーに表示できる。
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

// Error はerrorインターフェースを実装する。
func (e *Error) Error() string {
	return e.Message
}

// errorBody はAPIの統一エラーフォーマット。
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client は勤務記録APIのクライアント。
// ベースURLとタイムアウトは起動時に組み立てたClientConfigから受け取る。
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New はClientの新しいインスタンスを生成する。loggerがnilの場合はslog.Default()を使う。
func New(cfg *config.ClientConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: cfg.APIBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// List は全勤務記録を取得する。並び順はサーバーの返した順（date降順）のまま。
func (c *Client) List(ctx context.Context) ([]*model.TimesheetEntry, error) {
	var entries []*model.TimesheetEntry
	if err := c.do(ctx, http.MethodGet, "/api/timesheets", nil, http.StatusOK, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*model.TimesheetEntry{}
	}
	return entries, nil
}

// Create は勤務記録を作成し、サーバーが採番したIDとタイムスタンプを含む記録を返す。
func (c *Client) Create(ctx context.Context, input model.CreateTimesheetInput) (*model.TimesheetEntry, error) {
	var entry model.TimesheetEntry
	if err := c.do(ctx, http.MethodPost, "/api/timesheets", input, http.StatusCreated, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete は指定IDの勤務記録を削除する。
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/timesheets/"+url.PathEscape(id), nil, http.StatusOK, nil)
}

// Health はサーバーの生存確認を行う。
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, http.StatusOK, nil)
}

// do はリクエストを送信し、wantStatusの場合のみレスポンスをoutにデコードする。
// それ以外のステータスは*Errorに変換する。
func (c *Client) do(ctx context.Context, method, path string, in any, wantStatus int, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("リクエストのエンコードに失敗しました: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("APIの呼び出しに失敗しました",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("サーバーに接続できません: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		apiErr := decodeError(resp)
		c.logger.Warn("APIがエラーステータスを返しました",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("http_status", resp.StatusCode),
			slog.String("code", apiErr.Code),
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}
	return nil
}

// decodeError はエラーレスポンスを*Errorに変換する。
// ボディが統一エラーフォーマットでない場合はステータスコードからメッセージを組み立てる。
func decodeError(resp *http.Response) *Error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	var eb errorBody
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err == nil && json.Unmarshal(data, &eb) == nil && eb.Message != "" {
		apiErr.Code = eb.Code
		apiErr.Message = eb.Message
		return apiErr
	}

	apiErr.Message = fmt.Sprintf("サーバーがステータス %d を返しました", resp.StatusCode)
	return apiErr
}
