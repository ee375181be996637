package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"zetrix-gateway/internal/model"
	"zetrix-gateway/internal/pipeline"
	"zetrix-gateway/pkg/errno"
	"zetrix-gateway/pkg/logger"
	"zetrix-gateway/pkg/monitor"
)

// TxService 交易入口：调用流水线并记录成功的提交
type TxService struct {
	pipeline *pipeline.Pipeline
	journal  Journal
}

func NewTxService(p *pipeline.Pipeline, journal Journal) *TxService {
	if journal == nil {
		journal = NopJournal{}
	}
	return &TxService{pipeline: p, journal: journal}
}

func (s *TxService) Transfer(ctx context.Context, req pipeline.TransferRequest) (*pipeline.Outcome, error) {
	out, err := s.pipeline.Transfer(ctx, req)
	if err != nil {
		return nil, err
	}
	s.record(ctx, out)
	return out, nil
}

func (s *TxService) Invoke(ctx context.Context, req pipeline.InvokeRequest) (*pipeline.Outcome, error) {
	out, err := s.pipeline.Invoke(ctx, req)
	if err != nil {
		return nil, err
	}
	s.record(ctx, out)
	return out, nil
}

func (s *TxService) Query(ctx context.Context, req pipeline.QueryRequest) (*pipeline.Outcome, error) {
	return s.pipeline.Query(ctx, req)
}

// Submission 按 hash 查询本服务提交过的交易
func (s *TxService) Submission(ctx context.Context, hash string) (*model.Submission, error) {
	sub, err := s.journal.Find(ctx, hash)
	if err != nil && !errors.Is(err, errno.ErrSubmissionNotFound) {
		return nil, errno.ErrDatabase.Wrap(err)
	}
	return sub, err
}

const maxListLimit = 100

// Submissions 最近的提交记录
func (s *TxService) Submissions(ctx context.Context, source string, limit int) ([]model.Submission, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = 20
	}
	subs, err := s.journal.List(ctx, source, limit)
	if err != nil {
		return nil, errno.ErrDatabase.Wrap(err)
	}
	return subs, nil
}

// record 交易已被节点接受，落库失败只记录日志，不改变结果
func (s *TxService) record(ctx context.Context, out *pipeline.Outcome) {
	if out == nil || out.Receipt == nil {
		return
	}
	r := *out.Receipt

	if m := monitor.Business; m != nil {
		amount, _ := r.Amount.Float64()
		m.TxAmountTotal.WithLabelValues(string(r.Kind)).Add(amount)
	}

	if err := s.journal.Record(ctx, r); err != nil {
		logger.Error("record submission failed",
			zap.String("hash", r.Hash),
			zap.String("kind", string(r.Kind)),
			zap.Error(err),
		)
	}
}
