package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/hitoshi/timesheet/internal/client"
	"github.com/hitoshi/timesheet/internal/config"
	"github.com/hitoshi/timesheet/internal/logger"
	"github.com/hitoshi/timesheet/internal/session"
	"github.com/hitoshi/timesheet/internal/tui"
)

// clientOptions はclientサブコマンドのフラグ。
type clientOptions struct {
	APIURL           string
	User             string
	ResetBreakOnStop bool
	NoConfirm        bool
}

// isInteractive は標準入力が端末かを判定する。テストで差し替える。
var isInteractive = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// errNotInteractive は端末以外からclientを起動した場合のエラー。
var errNotInteractive = errors.New("client requires an interactive terminal")

// runClient はターミナルクライアントを起動し、終了まで待つ。
func runClient(ctx context.Context, opts clientOptions) error {
	if !isInteractive() {
		return errNotInteractive
	}

	cfg, err := config.LoadClient(config.ClientOverrides{APIURL: opts.APIURL, User: opts.User})
	if err != nil {
		return fmt.Errorf("failed to load client config: %w", err)
	}

	w, closeLog, err := openClientLog()
	if err != nil {
		return err
	}
	defer closeLog()
	log := logger.Setup(w)

	log.Info("starting client",
		slog.String("api_url", cfg.APIBaseURL),
		slog.String("app_env", string(cfg.AppEnv)),
		slog.String("user", cfg.User),
	)

	model := newClientModel(ctx, cfg, log, opts)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("client exited with error: %w", err)
	}
	return nil
}

// newClientModel はAPIクライアントとSessionを組み立ててTUIのモデルを返す。
func newClientModel(ctx context.Context, cfg *config.ClientConfig, log *slog.Logger, opts clientOptions) tui.Model {
	api := client.New(cfg, log)
	sess := session.New(session.Options{
		User:                   cfg.User,
		ResetBreakOnStop:       opts.ResetBreakOnStop,
		SkipDeleteConfirmation: opts.NoConfirm,
	})
	return tui.New(ctx, api, sess)
}
