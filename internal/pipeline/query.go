package pipeline

import (
	"context"

	"go.uber.org/zap"

	"zetrix-gateway/pkg/errno"
	"zetrix-gateway/pkg/ledger"
	"zetrix-gateway/pkg/logger"
)

// Query 合约只读调用，返回解码后的结果
func (p *Pipeline) Query(ctx context.Context, req QueryRequest) (*Outcome, error) {
	r, c, err := p.start(ctx, KindQuery)
	if err != nil {
		return nil, err
	}

	// 1. 校验
	q := mergeQuery(req, p.Defaults().Query)
	switch {
	case q.ContractAddress == "":
		return nil, r.fail(errno.ErrMissingField.WithMessage("Contract address is required"))
	case q.Method == "":
		return nil, r.fail(errno.ErrMissingField.WithMessage("Method is required"))
	}

	// 2. 规范化入参
	r.enter(StateNormalizingParams)
	params, err := NormalizeParams(q.InputParams)
	if err != nil {
		return nil, r.fail(err)
	}
	input, err := encodeCallInput(q.Method, params)
	if err != nil {
		return nil, r.fail(err)
	}

	// 3. 调用合约
	r.enter(StateCalling)
	res, err := c.ContractCall(ctx, ledger.ContractCallParams{
		OptType:         ledger.OptTypeQuery,
		ContractAddress: q.ContractAddress,
		Input:           input,
	})
	logger.Debug("query result", zap.String("contract", q.ContractAddress), zap.Any("result", res), zap.Error(err))
	if err != nil {
		return nil, r.fail(errno.ErrQueryExecution.Wrap(err))
	}

	// 4. 解码返回值
	r.enter(StateDecodingResult)
	if res == nil || len(res.QueryRets) == 0 {
		return nil, r.fail(errno.ErrInvalidResponseFormat)
	}
	ret := res.QueryRets[0]
	if msg := ret.ErrorMessage(); msg != "" {
		return nil, r.fail(errno.ErrQueryExecution.WithDetail(msg))
	}
	if ret.Result == nil {
		return nil, r.fail(errno.ErrInvalidResponseFormat)
	}

	out := DecodeResult(string(ret.Result.Value))
	r.done()
	return &Outcome{Success: true, Result: out}, nil
}
