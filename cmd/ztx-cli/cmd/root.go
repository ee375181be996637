package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"zetrix-gateway/pkg/config"
	"zetrix-gateway/pkg/logger"
)

// rootCmd 代表基础命令，没有子命令时直接调用
var rootCmd = &cobra.Command{
	Use:   "ztx-cli",
	Short: "Zetrix 交易命令行工具",
	Long: `直接连接 Zetrix 节点完成转账、合约调用与合约查询。
未指定的参数使用 config.yaml 中的默认值。`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Init()
		level, _ := cmd.Flags().GetString("log-level")
		logger.Init(config.Global.App.Env, level)
	},
}

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("node", "", "Zetrix 节点地址 (覆盖 ledger.url)")
	rootCmd.PersistentFlags().Duration("timeout", 15*time.Second, "节点请求超时")
	rootCmd.PersistentFlags().String("log-level", "warn", "日志级别: debug, info, warn, error")
	_ = viper.BindPFlag("ledger.url", rootCmd.PersistentFlags().Lookup("node"))
	_ = viper.BindPFlag("ledger.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
}
