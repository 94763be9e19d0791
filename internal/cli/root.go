// Package cli 為 bankhub 的命令列介面（cobra）。
// 每個子命令只負責解析參數、驗證身分並呼叫 bank，持久化由 bank 自行提交。
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bankhub/internal/app"
	"bankhub/internal/config"
)

// options 為各子命令共用的狀態。
type options struct {
	configPath string
	dataFile   string
	color      bool

	app *app.App
}

// NewRootCmd 建立根命令及所有子命令。
func NewRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "bankhub",
		Short: "bankhub is a minimal ledger manager",
		Long:  `bankhub tracks personal and business accounts, their balances, deposits, withdrawals and transfers in a plain text record.`,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE:  o.open,
		PersistentPostRunE: o.close,
	}
	cmd.PersistentFlags().StringVar(&o.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&o.dataFile, "data", "", "path to the account record file (overrides config)")
	cmd.PersistentFlags().BoolVar(&o.color, "color", true, "colorize output")

	cmd.AddCommand(
		newOpenCmd(o),
		newBalanceCmd(o),
		newDepositCmd(o),
		newWithdrawCmd(o),
		newTransferCmd(o),
		newCloseCmd(o),
		newListCmd(o),
		newServeCmd(o),
		newShellCmd(o),
	)
	return cmd
}

// Execute 執行根命令；發生錯誤時印出訊息並以狀態碼 1 結束。
// This is called by main.main().
func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		red.Fprintln(cmd.ErrOrStderr(), Message(err))
		os.Exit(1)
	}
}

func (o *options) open(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("color") {
		color.NoColor = !o.color
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if o.dataFile != "" {
		cfg.Storage = config.StorageFile
		cfg.DataFile = o.dataFile
	}
	logger := app.NewLogger(cfg.Log, cmd.ErrOrStderr())
	o.app, err = app.Open(cfg, logger)
	return err
}

func (o *options) close(cmd *cobra.Command, args []string) error {
	if o.app == nil {
		return nil
	}
	return o.app.Close()
}
