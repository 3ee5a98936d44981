package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/DavidLanz/msdtools/internal/server"
	"github.com/DavidLanz/msdtools/internal/util"
)

func serveCmd() *cobra.Command {
	var (
		port      int
		devMode   bool
		dataDir   string
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "啟動網頁上傳服務",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// 命令行参数覆盖配置；config.toml 显式配置的端口优先
			if port > 0 && !cfgInfo.PortSpecified {
				cfg.Server.Port = port
			}
			if devMode {
				cfg.Server.DevMode = true
			}
			if dataDir != "" {
				cfg.Data.DataDir = dataDir
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "==========================================")
			fmt.Fprintln(out, "  MSD 診所點擊排名比較工具", version)
			fmt.Fprintln(out, "==========================================")

			st, err := openRunLog(cfg)
			if err != nil {
				logger.Warn("run log disabled", "error", err)
				st = nil
			}
			if st != nil {
				defer st.Close()
			}

			addr := fmt.Sprintf(":%d", cfg.Server.Port)
			url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

			srv := server.NewServer(server.Options{
				Addr:    addr,
				Config:  cfg,
				Runner:  newRunner(cfg, st),
				Store:   st,
				Version: version,
				Logger:  logger,
			})

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server listening", "port", cfg.Server.Port)
				errCh <- srv.Run()
			}()

			if !cfg.Server.DevMode && !noBrowser {
				fmt.Fprintf(out, "正在開啟瀏覽器: %s\n", url)
				if err := util.OpenBrowser(runtime.GOOS, url); err != nil {
					fmt.Fprintf(out, "無法自動開啟瀏覽器，請手動訪問: %s\n", url)
				}
			} else {
				fmt.Fprintf(out, "請訪問 %s\n", url)
			}
			fmt.Fprintln(out, "\n按 Ctrl+C 停止服務...")

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server: %w", err)
				}
				return nil
			case <-quit:
			}

			fmt.Fprintln(out, "\n正在關閉服務...")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "服務埠 (僅當 config.toml 未顯式設定 port 時生效)")
	cmd.Flags().BoolVar(&devMode, "dev", false, "開發模式")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "資料目錄 (覆蓋設定檔)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "不自動開啟瀏覽器")
	return cmd
}
