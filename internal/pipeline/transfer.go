package pipeline

import (
	"context"

	"zetrix-gateway/pkg/errno"
	"zetrix-gateway/pkg/ledger"
)

// Transfer 原生币转账。金额必须大于 0。
func (p *Pipeline) Transfer(ctx context.Context, req TransferRequest) (*Outcome, error) {
	r, c, err := p.start(ctx, KindTransfer)
	if err != nil {
		return nil, err
	}

	// 1. 合并默认值并按固定顺序校验必填字段
	plan := mergeTransfer(req, p.Defaults().Transfer)
	switch {
	case plan.SenderAddress == "":
		return nil, r.fail(errno.ErrMissingField.WithMessage("Sender address is required"))
	case plan.PrivateKey == "":
		return nil, r.fail(errno.ErrMissingField.WithMessage("Private key is required"))
	case plan.RecipientAddress == "":
		return nil, r.fail(errno.ErrMissingField.WithMessage("Recipient address is required"))
	}

	// 2. 解析金额
	r.enter(StateResolvingAmount)
	amount, err := ResolveAmount(plan.Amount, plan.configuredAmount, plan.env)
	if err != nil {
		return nil, r.fail(err)
	}
	if err := requirePositive(amount); err != nil {
		return nil, r.fail(err)
	}

	// 3. 构造并提交交易
	return p.submit(r, c, submission{
		source:     plan.SenderAddress,
		privateKey: plan.PrivateKey,
		receipt:    Receipt{Target: plan.RecipientAddress, Amount: amount},
		build: func() (ledger.Operation, error) {
			return c.BuildGasSendOperation(ledger.GasSendParams{
				SourceAddress: plan.SenderAddress,
				DestAddress:   plan.RecipientAddress,
				GasAmount:     amount.String(),
			})
		},
	})
}
