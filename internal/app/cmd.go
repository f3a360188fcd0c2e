package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hitoshi/timesheet/internal/config"
)

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はAPIサーバーモードで起動することを示す。
	CommandServe Command = "serve"
	// CommandMigrate はデータベースマイグレーションを実行することを示す。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
	// CommandClient はターミナルクライアントを起動することを示す。
	CommandClient Command = "client"
)

// NewRootCommand はtimesheetコマンドのツリーを組み立てる。
// サブコマンドを省略した場合はserveとして動作する。
// wはサーバー系コマンドのログ出力先。
func NewRootCommand(w io.Writer) *cobra.Command {
	var port string

	root := &cobra.Command{
		Use:           "timesheet",
		Short:         "勤務記録APIサーバーとターミナルクライアント",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, w, port)
		},
	}
	addServePortFlag(root.Flags(), &port)

	root.AddCommand(
		newServeCommand(w),
		newMigrateCommand(w),
		newHealthcheckCommand(),
		newClientCommand(),
	)
	return root
}

func newServeCommand(w io.Writer) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   string(CommandServe),
		Short: "APIサーバーを起動する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, w, port)
		},
	}
	addServePortFlag(cmd.Flags(), &port)
	return cmd
}

func addServePortFlag(fs *pflag.FlagSet, port *string) {
	fs.StringVar(port, "port", "", "待ち受けポート（SERVER_PORTより優先）")
}

func newMigrateCommand(w io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   string(CommandMigrate),
		Short: "データベースマイグレーションを適用する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := Init(w)
			if err != nil {
				return fmt.Errorf("initialization failed: %w", err)
			}
			return runMigrate(cfg)
		},
	}
}

// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
func newHealthcheckCommand() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   string(CommandHealthcheck),
		Short: "稼働中のサーバーの /health を確認する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = config.ServerPortFromEnv()
			}
			return runHealthcheck(cmd.Context(), port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "確認するポート（既定はSERVER_PORT、PORT、8080の順）")
	return cmd
}

func newClientCommand() *cobra.Command {
	var opts clientOptions
	cmd := &cobra.Command{
		Use:   string(CommandClient),
		Short: "ターミナルクライアントを起動する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClient(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.APIURL, "api-url", "", "APIのベースURL（API_URLより優先）")
	cmd.Flags().StringVar(&opts.User, "user", "", "登録者名（TIMESHEET_USERより優先）")
	cmd.Flags().BoolVar(&opts.ResetBreakOnStop, "reset-break-on-stop", false, "休憩終了時にタイマーを0に戻す")
	cmd.Flags().BoolVar(&opts.NoConfirm, "no-confirm", false, "削除時の確認を省略する")
	return cmd
}
