package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"zetrix-gateway/internal/event"
	"zetrix-gateway/internal/model"
	"zetrix-gateway/internal/pipeline"
	"zetrix-gateway/pkg/cache"
	"zetrix-gateway/pkg/errno"
	"zetrix-gateway/pkg/logger"
)

// Journal 记录被节点接受的交易
type Journal interface {
	Record(ctx context.Context, r pipeline.Receipt) error
	Find(ctx context.Context, hash string) (*model.Submission, error)
	// List 按时间倒序，source 为空时不过滤
	List(ctx context.Context, source string, limit int) ([]model.Submission, error)
}

// NopJournal 未启用数据库时使用
type NopJournal struct{}

func (NopJournal) Record(context.Context, pipeline.Receipt) error { return nil }

func (NopJournal) Find(context.Context, string) (*model.Submission, error) {
	return nil, errno.ErrSubmissionNotFound
}

func (NopJournal) List(context.Context, string, int) ([]model.Submission, error) {
	return []model.Submission{}, nil
}

// SQLJournal 基于 gorm 的流水，同一事务内写入 Outbox 事件
type SQLJournal struct {
	db *gorm.DB
}

func NewSQLJournal(db *gorm.DB) *SQLJournal {
	return &SQLJournal{db: db}
}

func (j *SQLJournal) Record(ctx context.Context, r pipeline.Receipt) error {
	sub := submissionOf(r, RequestIDFrom(ctx))

	return j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 写流水
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		// 2. 写 Outbox，由 RelayService 投递
		return model.CreateOutboxMessage(tx, event.TopicTxSubmitted, sub.Source, submittedEventOf(sub))
	})
}

func (j *SQLJournal) Find(ctx context.Context, hash string) (*model.Submission, error) {
	var sub model.Submission
	err := j.db.WithContext(ctx).Where("hash = ?", hash).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (j *SQLJournal) List(ctx context.Context, source string, limit int) ([]model.Submission, error) {
	q := j.db.WithContext(ctx).Order("id DESC").Limit(limit)
	if source != "" {
		q = q.Where("source = ?", source)
	}
	subs := []model.Submission{}
	if err := q.Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func submissionOf(r pipeline.Receipt, requestID string) *model.Submission {
	return &model.Submission{
		Hash:      r.Hash,
		Kind:      string(r.Kind),
		Source:    r.Source,
		Target:    r.Target,
		Method:    r.Method,
		Amount:    r.Amount,
		Nonce:     r.Nonce,
		FeeLimit:  r.FeeLimit,
		GasPrice:  r.GasPrice,
		RequestID: requestID,
		Status:    model.SubmissionSubmitted,
		CreatedAt: r.Submitted,
	}
}

func submittedEventOf(s *model.Submission) event.TxSubmittedEvent {
	return event.TxSubmittedEvent{
		Hash:      s.Hash,
		Kind:      s.Kind,
		Source:    s.Source,
		Target:    s.Target,
		Method:    s.Method,
		Amount:    s.Amount.String(),
		Nonce:     s.Nonce,
		RequestID: s.RequestID,
	}
}

// CachedJournal 缓存按哈希查询的结果，提交记录写入后不再变化
type CachedJournal struct {
	Journal
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedJournal(inner Journal, c cache.Cache, ttl time.Duration) *CachedJournal {
	return &CachedJournal{Journal: inner, cache: c, ttl: ttl}
}

func (j *CachedJournal) Find(ctx context.Context, hash string) (*model.Submission, error) {
	key := "submission:" + hash

	var sub model.Submission
	if err := j.cache.Get(ctx, key, &sub); err == nil {
		return &sub, nil
	}

	found, err := j.Journal.Find(ctx, hash)
	if err != nil {
		return nil, err
	}
	if err := j.cache.Set(ctx, key, found, j.ttl); err != nil {
		logger.Warn("写入缓存失败", zap.String("hash", hash), zap.Error(err))
	}
	return found, nil
}
