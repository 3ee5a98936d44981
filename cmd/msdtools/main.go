package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/DavidLanz/msdtools/internal/analysis"
	"github.com/DavidLanz/msdtools/internal/config"
	"github.com/DavidLanz/msdtools/internal/logging"
	"github.com/DavidLanz/msdtools/internal/runner"
	"github.com/DavidLanz/msdtools/internal/store"
)

var version = "dev"

var (
	configPath string
	logLevel   string
	logFormat  string

	cfg     *config.AppConfig
	cfgInfo config.LoadConfigInfo
	logger  *slog.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "msdtools",
		Short:         "MSD 診所點擊排名比較工具",
		Long:          "上傳 7 天與 14 天的診所點擊報表，計算上週與本週的排名變化並輸出 Excel。",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			logger, err = logging.Setup(os.Stderr, logLevel, logFormat)
			if err != nil {
				return err
			}

			// version 与 config init 不需要加载配置
			if cmd.Name() == "version" || cmd.Name() == "init" {
				return nil
			}

			cfg, cfgInfo, err = config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			logger.Debug("config loaded", "path", cfgInfo.Path, "found", cfgInfo.Found)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "設定檔路徑 (預設為執行檔同目錄下的 config.toml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "日誌級別 (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "console", "日誌格式 (console, json)")

	root.AddCommand(serveCmd())
	root.AddCommand(compareCmd())
	root.AddCommand(configCmd())
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "顯示版本",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "msdtools", version)
		},
	}
}

// openRunLog 按配置打开运行日志；未启用时返回 nil
func openRunLog(c *config.AppConfig) (*store.Store, error) {
	if !c.Data.RunLog {
		return nil, nil
	}
	dataDir, err := config.EnsureDataDir(c)
	if err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return store.New(filepath.Join(dataDir, "msdtools.db"))
}

// newRunner 组装分析器与运行日志
func newRunner(c *config.AppConfig, st *store.Store) *runner.Runner {
	an := analysis.NewAnalyzer(c.AnalysisOptions(), logger)
	var runs runner.RunLog
	if st != nil {
		runs = st
	}
	return runner.New(an, runs, logger)
}
