package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zetrix-gateway/internal/pipeline"
	"zetrix-gateway/pkg/config"
)

var invokeCmd = &cobra.Command{
	Use:     "invoke",
	Short:   "调用合约方法 (上链)",
	Example: `  ztx-cli invoke --from ZTX3... --contract ZTX3... --method transfer --params '{"to":"ZTX3...","value":"10"}'`,
	Run: func(cmd *cobra.Command, args []string) {
		from, _ := cmd.Flags().GetString("from")
		contract, _ := cmd.Flags().GetString("contract")
		method, _ := cmd.Flags().GetString("method")
		params, _ := cmd.Flags().GetString("params")

		key, err := privateKeyFlag(cmd, config.Global.Invoke.PrivateKey)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		out, err := newPipeline().Invoke(context.Background(), pipeline.InvokeRequest{
			Address:         from,
			ContractAddress: contract,
			Method:          method,
			InputParams:     pipeline.ParamsFromText(params),
			PrivateKey:      key,
			Amount:          amountFlag(cmd),
		})
		printOutcome(out, err)
	},
}

func init() {
	rootCmd.AddCommand(invokeCmd)
	invokeCmd.Flags().String("from", "", "交易发起地址")
	invokeCmd.Flags().String("contract", "", "合约地址")
	invokeCmd.Flags().String("method", "", "合约方法")
	invokeCmd.Flags().String("params", "", "方法参数 (JSON)")
	invokeCmd.Flags().String("amount", "", "随调用转入合约的金额，可为 0")
	addKeyFlags(invokeCmd)
}
