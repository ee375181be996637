package pipeline

import (
	"context"

	"go.uber.org/zap"

	"zetrix-gateway/pkg/errno"
	"zetrix-gateway/pkg/ledger"
	"zetrix-gateway/pkg/logger"
)

// SignatureNumberHint 估算手续费时的签名数量上限，与实际签名者数量无关
const SignatureNumberHint = "100"

// EvaluateFee 对最终的 operation 列表估算 gas price 与 fee limit
func EvaluateFee(ctx context.Context, c ledger.Client, source, nonce string, ops []ledger.Operation) (ledger.FeeQuote, error) {
	quote, err := c.EvaluateFee(ctx, ledger.EvaluateFeeParams{
		SourceAddress:   source,
		Nonce:           nonce,
		Operations:      ops,
		SignatureNumber: SignatureNumberHint,
	})
	logger.Debug("fee data",
		zap.String("source", source),
		zap.String("nonce", nonce),
		zap.String("fee_limit", quote.FeeLimit),
		zap.String("gas_price", quote.GasPrice),
		zap.Error(err),
	)
	if err != nil {
		return ledger.FeeQuote{}, errno.ErrFeeEvaluation.Wrap(err)
	}
	return quote, nil
}
