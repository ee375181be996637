package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ed25519"

	"zetrix-gateway/pkg/bip39"
	"zetrix-gateway/pkg/keystore"
	"zetrix-gateway/pkg/ledger"
	"zetrix-gateway/pkg/safe_random"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "生成新的 Zetrix 私钥",
	Long:  `生成 Ed25519 私钥。指定 --output 时使用密码加密保存，否则直接输出私钥。--mnemonic 同时输出 24 词助记词备份。`,
	// 不需要配置文件
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")
		withMnemonic, _ := cmd.Flags().GetBool("mnemonic")
		checkOutput(output)

		// 1. 生成私钥
		seed, err := safe_random.GenerateRandomBytes(ed25519.SeedSize)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		privateKey, err := ledger.EncodePrivateKey(seed)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		if withMnemonic {
			mnemonic, err := bip39.FromPrivateKey(privateKey)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			fmt.Printf("Mnemonic: %s\n", mnemonic)
		}

		// 2. 输出或加密保存
		emitKey(privateKey, output)
	},
}

// checkOutput 拒绝覆盖已存在的文件
func checkOutput(output string) {
	if output == "" {
		return
	}
	if _, err := os.Stat(output); err == nil {
		fmt.Printf("错误: 文件 %s 已存在。请先删除或指定其他文件名。\n", output)
		os.Exit(1)
	}
}

// emitKey output 为空时直接打印私钥，否则提示输入密码并保存为 Keystore
func emitKey(privateKey, output string) {
	publicKey, err := ledger.PublicKeyOf(privateKey)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if output == "" {
		fmt.Printf("Private Key: %s\nPublic Key:  %s\n", privateKey, publicKey)
		return
	}

	password, err := readSecret("输入密码: ")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	confirm, err := readSecret("确认密码: ")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if password != confirm {
		fmt.Println("两次输入的密码不一致！")
		os.Exit(1)
	}
	if len(password) < 6 {
		fmt.Println("密码长度至少需要 6 位。")
		os.Exit(1)
	}

	keyJSON, err := keystore.Encrypt(privateKey, password)
	if err != nil {
		fmt.Printf("加密失败: %v\n", err)
		os.Exit(1)
	}
	if err := keyJSON.SaveToFile(output); err != nil {
		fmt.Printf("保存失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ 私钥已加密保存到 %s\nPublic Key: %s\n", output, publicKey)
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().StringP("output", "o", "", "加密保存的文件路径")
	keygenCmd.Flags().Bool("mnemonic", false, "同时输出助记词")
}
