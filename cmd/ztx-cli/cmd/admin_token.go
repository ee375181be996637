package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zetrix-gateway/internal/server/middleware"
	"zetrix-gateway/pkg/safe_random"
)

var adminTokenCmd = &cobra.Command{
	Use:   "admin-token",
	Short: "生成管理令牌及其 bcrypt 哈希",
	Long:  `令牌用于请求头 X-Admin-Token，哈希写入配置 app.admin_token_hash。`,
	// 不需要配置文件
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		token, err := safe_random.GenerateRandomHexString(24)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		hash, err := middleware.HashToken(token)
		if err != nil {
			fmt.Printf("生成哈希失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Token: %s\nHash:  %s\n", token, hash)
	},
}

func init() {
	rootCmd.AddCommand(adminTokenCmd)
}
