package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"zetrix-gateway/internal/pipeline"
	"zetrix-gateway/internal/service"
	"zetrix-gateway/pkg/config"
	"zetrix-gateway/pkg/errno"
	"zetrix-gateway/pkg/keystore"
	"zetrix-gateway/pkg/ledger"
)

// newPipeline 连接节点并构造流水线，状态文本输出到 stderr
func newPipeline() *pipeline.Pipeline {
	cfg := config.Global
	holder := ledger.NewHolder(ledger.HTTPFactory(cfg.Ledger.Timeout))
	if err := holder.Connect(cfg.Ledger.URL); err != nil {
		fmt.Fprintf(os.Stderr, "连接节点失败: %v\n", err)
	}

	var last string
	status := pipeline.StatusFunc(func(_ context.Context, s pipeline.Status) {
		if s.Text != last {
			last = s.Text
			fmt.Fprintf(os.Stderr, "[%s] %s\n", s.Kind, s.Text)
		}
	})
	return pipeline.New(holder, service.DefaultsFromConfig(cfg), pipeline.WithReporter(status))
}

// amountFlag 仅在显式指定时覆盖配置
func amountFlag(cmd *cobra.Command) pipeline.Amount {
	if !cmd.Flags().Changed("amount") {
		return pipeline.Amount{}
	}
	v, _ := cmd.Flags().GetString("amount")
	return pipeline.AmountOf(v)
}

// privateKeyFlag 依次使用 --key、--keystore、配置默认值，都没有时提示输入
func privateKeyFlag(cmd *cobra.Command, configured string) (string, error) {
	if key, _ := cmd.Flags().GetString("key"); key != "" {
		return key, nil
	}
	if file, _ := cmd.Flags().GetString("keystore"); file != "" {
		keyJSON, err := keystore.LoadFromFile(file)
		if err != nil {
			return "", fmt.Errorf("加载 Keystore 失败: %w", err)
		}
		password, err := readSecret("请输入 Keystore 密码: ")
		if err != nil {
			return "", err
		}
		return keystore.Decrypt(keyJSON, password)
	}
	if configured != "" {
		return "", nil
	}
	return readSecret("请输入私钥: ")
}

func readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("读取输入失败: %w", err)
	}
	return string(b), nil
}

func addKeyFlags(cmd *cobra.Command) {
	cmd.Flags().String("key", "", "私钥 (不推荐，会留在 shell 历史中)")
	cmd.Flags().String("keystore", "", "加密私钥文件")
}

// printOutcome 成功时输出 JSON，失败时输出错误码并以非零状态退出
func printOutcome(out *pipeline.Outcome, err error) {
	if err != nil {
		code, msg := errno.Decode(err)
		fmt.Fprintf(os.Stderr, "❌ [%d] %s\n", code, msg)
		os.Exit(1)
	}
	data, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(data))
}
