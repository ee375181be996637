package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zetrix-gateway/internal/pipeline"
	"zetrix-gateway/pkg/config"
)

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "原生币转账",
	Example: `  ztx-cli transfer --from ZTX3... --to ZTX3... --amount 1000000 --keystore key.json`,
	Run: func(cmd *cobra.Command, args []string) {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		key, err := privateKeyFlag(cmd, config.Global.Transfer.PrivateKey)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		out, err := newPipeline().Transfer(context.Background(), pipeline.TransferRequest{
			SenderAddress:    from,
			RecipientAddress: to,
			PrivateKey:       key,
			Amount:           amountFlag(cmd),
		})
		printOutcome(out, err)
	},
}

func init() {
	rootCmd.AddCommand(transferCmd)
	transferCmd.Flags().String("from", "", "发送地址")
	transferCmd.Flags().String("to", "", "收款地址")
	transferCmd.Flags().String("amount", "", "金额 (最小单位)")
	addKeyFlags(transferCmd)
}
