package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/DavidLanz/msdtools/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "設定檔相關操作",
	}
	cmd.AddCommand(configInitCmd())
	cmd.AddCommand(configShowCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "寫出預設設定檔",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := configPath
			if target == "" {
				target = config.DefaultPath()
			}
			if _, err := os.Stat(target); err == nil && !force {
				fmt.Fprintf(cmd.OutOrStdout(), "設定檔已存在: %s\n", target)
				return nil
			}
			if err := config.SaveConfig(target, config.DefaultConfig()); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已建立設定檔: %s\n", target)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "覆蓋已存在的設定檔")
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "顯示目前生效的設定",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := toml.Marshal(cfg)
			if err != nil {
				return err
			}
			if cfgInfo.Found {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", cfgInfo.Path)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "# 使用預設設定")
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
