package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"zetrix-gateway/pkg/bip39"
	"zetrix-gateway/pkg/keyshare"
	"zetrix-gateway/pkg/ledger"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "私钥备份与恢复",
	// 不需要配置文件
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
}

var keySplitCmd = &cobra.Command{
	Use:   "split",
	Short: "将私钥切分为多份 Share (Shamir)",
	Run: func(cmd *cobra.Command, args []string) {
		parts, _ := cmd.Flags().GetInt("shares")
		threshold, _ := cmd.Flags().GetInt("threshold")

		privateKey, err := privateKeyFlag(cmd, "")
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		shares, err := keyshare.Split(privateKey, parts, threshold)
		if err != nil {
			fmt.Printf("切分失败: %v\n", err)
			os.Exit(1)
		}

		publicKey, _ := ledger.PublicKeyOf(privateKey)
		fmt.Printf("Public Key: %s\n需要任意 %d 份恢复:\n", publicKey, threshold)
		for i, s := range shares {
			fmt.Printf("  [%d] %s\n", i+1, s)
		}
	},
}

var keyCombineCmd = &cobra.Command{
	Use:   "combine <share> <share> [share...]",
	Short: "由 Share 恢复私钥",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")
		checkOutput(output)

		privateKey, err := keyshare.Combine(args)
		if err != nil {
			fmt.Printf("恢复失败: %v\n", err)
			os.Exit(1)
		}
		// 份数不足时同样会得到一把私钥，请核对公钥
		emitKey(privateKey, output)
	},
}

var keyRecoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "由 24 词助记词恢复私钥",
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")
		checkOutput(output)

		mnemonic, err := readSecret("请输入助记词: ")
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		privateKey, err := bip39.ToPrivateKey(strings.Join(strings.Fields(mnemonic), " "))
		if err != nil {
			fmt.Printf("恢复失败: %v\n", err)
			os.Exit(1)
		}
		emitKey(privateKey, output)
	},
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keySplitCmd, keyCombineCmd, keyRecoverCmd)

	addKeyFlags(keySplitCmd)
	keySplitCmd.Flags().Int("shares", 5, "切分总份数")
	keySplitCmd.Flags().Int("threshold", 3, "恢复所需份数")

	keyCombineCmd.Flags().StringP("output", "o", "", "加密保存的文件路径")
	keyRecoverCmd.Flags().StringP("output", "o", "", "加密保存的文件路径")
}
