package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"zetrix-gateway/pkg/errno"
	"zetrix-gateway/pkg/ledger"
	"zetrix-gateway/pkg/logger"
)

// Outcome 成功结果：写操作携带 hash，查询携带 result
type Outcome struct {
	Success bool   `json:"success"`
	Hash    string `json:"hash,omitempty"`
	Result  any    `json:"result,omitempty"`

	// Receipt 仅写操作有值，用于落库与指标，不对外输出
	Receipt *Receipt `json:"-"`
}

// Receipt 一次成功提交的细节
type Receipt struct {
	Kind      Kind
	Source    string
	Target    string
	Method    string
	Amount    decimal.Decimal
	Nonce     string
	FeeLimit  string
	GasPrice  string
	Hash      string
	Submitted time.Time
}

// Pipeline 无状态的交易流水线，可被多个 goroutine 同时使用。
// 每次调用开始时从 Source 取一次客户端和默认值，之后的节点切换或配置更新不影响本次调用。
type Pipeline struct {
	source   ledger.Source
	defaults atomic.Pointer[Defaults]
	reporter StatusReporter
}

type Option func(*Pipeline)

// WithReporter 设置状态通知接收方
func WithReporter(r StatusReporter) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.reporter = r
		}
	}
}

func New(source ledger.Source, defaults Defaults, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:   source,
		reporter: nopReporter{},
	}
	p.SetDefaults(defaults)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Defaults 当前使用的配置默认值
func (p *Pipeline) Defaults() Defaults {
	return *p.defaults.Load()
}

// SetDefaults 替换默认值，配置热更新时调用
func (p *Pipeline) SetDefaults(d Defaults) {
	p.defaults.Store(&d)
}

// run 一次调用的状态推进与通知
type run struct {
	ctx      context.Context
	kind     Kind
	reporter StatusReporter
	state    State
	started  time.Time
}

func (p *Pipeline) start(ctx context.Context, kind Kind) (*run, ledger.Client, error) {
	r := &run{ctx: ctx, kind: kind, reporter: p.reporter}

	var client ledger.Client
	if p.source != nil {
		client = p.source.Current()
	}
	if client == nil {
		err := errno.ErrClientUnavailable
		r.state = StateFailed
		r.reporter.Report(ctx, Status{Kind: kind, State: StateFailed, Text: TextNotInitialized, Err: err})
		return nil, nil, err
	}

	r.started = time.Now()
	r.enter(StateValidating)
	return r, client, nil
}

func (r *run) enter(s State) {
	r.state = s
	r.reporter.Report(r.ctx, Status{Kind: r.kind, State: s, Text: statusText(r.kind, s), Started: r.started})
}

func (r *run) fail(err error) error {
	logger.Debug("pipeline stage failed", zap.String("kind", string(r.kind)), zap.String("state", string(r.state)), zap.Error(err))
	r.state = StateFailed
	r.reporter.Report(r.ctx, Status{Kind: r.kind, State: StateFailed, Text: TextError, Err: err, Started: r.started})
	return err
}

func (r *run) done() {
	r.enter(StateDone)
}

// submission 写操作流水线 FetchingNonce 之后共用的输入
type submission struct {
	source     string
	privateKey string
	receipt    Receipt
	build      func() (ledger.Operation, error)
}

// submit nonce -> operation -> fee -> blob -> sign -> submit
func (p *Pipeline) submit(r *run, c ledger.Client, s submission) (*Outcome, error) {
	ctx := r.ctx

	r.enter(StateFetchingNonce)
	nonce, err := NextNonce(ctx, c, s.source)
	if err != nil {
		return nil, r.fail(err)
	}

	r.enter(StateBuildingOperation)
	op, err := s.build()
	logger.Debug("operation info", zap.String("kind", string(r.kind)), zap.Any("operation", op), zap.Error(err))
	if err != nil {
		return nil, r.fail(errno.ErrOperationBuild.Wrap(err))
	}
	ops := []ledger.Operation{op}

	r.enter(StateEvaluatingFee)
	quote, err := EvaluateFee(ctx, c, s.source, nonce, ops)
	if err != nil {
		return nil, r.fail(err)
	}

	r.enter(StateBuildingBlob)
	blob, err := c.BuildBlob(ledger.BlobParams{
		SourceAddress: s.source,
		GasPrice:      quote.GasPrice,
		FeeLimit:      quote.FeeLimit,
		Nonce:         nonce,
		Operations:    ops,
	})
	logger.Debug("blob info", zap.String("blob", blob.Hex()), zap.Error(err))
	if err != nil {
		return nil, r.fail(errno.ErrBlobBuild.Wrap(err))
	}

	r.enter(StateSigning)
	sigs, err := c.Sign([]string{s.privateKey}, blob)
	if err != nil {
		return nil, r.fail(errno.ErrSign.Wrap(err))
	}
	logger.Debug("signed", zap.Int("signatures", len(sigs)))

	r.enter(StateSubmitting)
	hash, err := c.Submit(ctx, sigs, blob)
	logger.Debug("submitted", zap.String("hash", hash), zap.Error(err))
	if err != nil {
		return nil, r.fail(errno.ErrSubmission.Wrap(err))
	}

	receipt := s.receipt
	receipt.Kind = r.kind
	receipt.Source = s.source
	receipt.Nonce = nonce
	receipt.FeeLimit = quote.FeeLimit
	receipt.GasPrice = quote.GasPrice
	receipt.Hash = hash
	receipt.Submitted = time.Now()

	r.done()
	return &Outcome{Success: true, Hash: hash, Receipt: &receipt}, nil
}
