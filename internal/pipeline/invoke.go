package pipeline

import (
	"context"
	"encoding/json"

	"zetrix-gateway/pkg/errno"
	"zetrix-gateway/pkg/ledger"
)

// callInput 合约调用的 input 字段
type callInput struct {
	Method string `json:"method"`
	Params any    `json:"params"`
}

func encodeCallInput(method string, params any) (string, error) {
	data, err := json.Marshal(callInput{Method: method, Params: params})
	if err != nil {
		return "", errno.ErrInvalidParamsFormat.Wrap(err)
	}
	return string(data), nil
}

// Invoke 按 gas 调用合约方法。金额允许为 0。
func (p *Pipeline) Invoke(ctx context.Context, req InvokeRequest) (*Outcome, error) {
	r, c, err := p.start(ctx, KindInvoke)
	if err != nil {
		return nil, err
	}

	// 1. 合并默认值并按固定顺序校验必填字段
	plan := mergeInvoke(req, p.Defaults().Invoke)
	switch {
	case plan.Address == "":
		return nil, r.fail(errno.ErrMissingField.WithMessage("TX initiator address is required"))
	case plan.PrivateKey == "":
		return nil, r.fail(errno.ErrMissingField.WithMessage("Private key is required"))
	case plan.ContractAddress == "":
		return nil, r.fail(errno.ErrMissingField.WithMessage("Contract address is required"))
	case plan.Method == "":
		return nil, r.fail(errno.ErrMissingField.WithMessage("Method is required"))
	}

	// 2. 解析金额
	r.enter(StateResolvingAmount)
	amount, err := ResolveAmount(plan.Amount, plan.configuredAmount, plan.env)
	if err != nil {
		return nil, r.fail(err)
	}
	if err := requireNonNegative(amount); err != nil {
		return nil, r.fail(err)
	}

	// 3. 规范化入参，生成 input
	r.enter(StateNormalizingParams)
	params, err := NormalizeParams(plan.InputParams)
	if err != nil {
		return nil, r.fail(err)
	}
	input, err := encodeCallInput(plan.Method, params)
	if err != nil {
		return nil, r.fail(err)
	}

	// 4. 构造并提交交易
	return p.submit(r, c, submission{
		source:     plan.Address,
		privateKey: plan.PrivateKey,
		receipt:    Receipt{Target: plan.ContractAddress, Method: plan.Method, Amount: amount},
		build: func() (ledger.Operation, error) {
			return c.BuildContractInvokeOperation(ledger.ContractInvokeParams{
				SourceAddress:   plan.Address,
				ContractAddress: plan.ContractAddress,
				Amount:          amount.String(),
				Input:           input,
			})
		},
	})
}
