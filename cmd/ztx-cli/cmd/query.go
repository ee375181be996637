package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"zetrix-gateway/internal/pipeline"
)

var queryCmd = &cobra.Command{
	Use:     "query",
	Short:   "只读查询合约",
	Example: `  ztx-cli query --contract ZTX3... --method balanceOf --params '{"address":"ZTX3..."}'`,
	Run: func(cmd *cobra.Command, args []string) {
		contract, _ := cmd.Flags().GetString("contract")
		method, _ := cmd.Flags().GetString("method")
		params, _ := cmd.Flags().GetString("params")

		out, err := newPipeline().Query(context.Background(), pipeline.QueryRequest{
			ContractAddress: contract,
			Method:          method,
			InputParams:     pipeline.ParamsFromText(params),
		})
		printOutcome(out, err)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().String("contract", "", "合约地址")
	queryCmd.Flags().String("method", "", "合约方法")
	queryCmd.Flags().String("params", "", "方法参数 (JSON)")
}
