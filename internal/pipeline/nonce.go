package pipeline

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"go.uber.org/zap"

	"zetrix-gateway/pkg/errno"
	"zetrix-gateway/pkg/ledger"
	"zetrix-gateway/pkg/logger"
)

// NextNonce 查询账户当前 nonce 并返回下一个可用值。
// nonce 可能超出 2^53，使用 big.Int 计算。
func NextNonce(ctx context.Context, c ledger.Client, address string) (string, error) {
	current, err := c.GetNonce(ctx, address)
	logger.Debug("nonce result", zap.String("address", address), zap.String("nonce", current), zap.Error(err))
	if err != nil {
		return "", errno.ErrNonceFetch.Wrap(err)
	}

	n, ok := new(big.Int).SetString(strings.TrimSpace(current), 10)
	if !ok {
		return "", errno.ErrNonceFetch.WithDetail(fmt.Sprintf("malformed nonce %q", current))
	}
	return n.Add(n, big.NewInt(1)).String(), nil
}
