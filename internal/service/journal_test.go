package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zetrix-gateway/internal/model"
	"zetrix-gateway/internal/pipeline"
	"zetrix-gateway/pkg/cache"
	"zetrix-gateway/pkg/errno"
)

func TestSubmissionOf(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := pipeline.Receipt{
		Kind:      pipeline.KindInvoke,
		Source:    sender,
		Target:    contract,
		Method:    "mint",
		Amount:    decimal.RequireFromString("1.5"),
		Nonce:     "12",
		FeeLimit:  "1000000",
		GasPrice:  "1000",
		Hash:      "abc",
		Submitted: at,
	}

	sub := submissionOf(r, "req-7")
	assert.Equal(t, "abc", sub.Hash)
	assert.Equal(t, "invoke", sub.Kind)
	assert.Equal(t, contract, sub.Target)
	assert.Equal(t, "mint", sub.Method)
	assert.Equal(t, "req-7", sub.RequestID)
	assert.Equal(t, model.SubmissionSubmitted, sub.Status)
	assert.Equal(t, at, sub.CreatedAt)

	ev := submittedEventOf(sub)
	assert.Equal(t, "1.5", ev.Amount)
	assert.Equal(t, "12", ev.Nonce)
	assert.Equal(t, "req-7", ev.RequestID)
}

func TestNopJournal(t *testing.T) {
	var j Journal = NopJournal{}
	assert.NoError(t, j.Record(context.Background(), pipeline.Receipt{Hash: "x"}))
	_, err := j.Find(context.Background(), "x")
	assert.True(t, errors.Is(err, errno.ErrSubmissionNotFound))
}

// countingJournal 统计 Find 调用次数
type countingJournal struct {
	*memJournal
	finds int
}

func (j *countingJournal) Find(ctx context.Context, hash string) (*model.Submission, error) {
	j.finds++
	return j.memJournal.Find(ctx, hash)
}

func TestCachedJournal(t *testing.T) {
	ctx := context.Background()
	inner := &countingJournal{memJournal: &memJournal{}}
	j := NewCachedJournal(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	require.NoError(t, j.Record(ctx, pipeline.Receipt{
		Kind:   pipeline.KindTransfer,
		Source: sender,
		Target: receiver,
		Amount: decimal.RequireFromString("2"),
		Hash:   "h1",
	}))

	for i := 0; i < 3; i++ {
		sub, err := j.Find(ctx, "h1")
		require.NoError(t, err)
		assert.Equal(t, receiver, sub.Target)
		assert.True(t, sub.Amount.Equal(decimal.RequireFromString("2")))
	}
	assert.Equal(t, 1, inner.finds, "后续查询应命中缓存")

	// 未找到的结果不缓存
	for i := 0; i < 2; i++ {
		_, err := j.Find(ctx, "missing")
		assert.True(t, errors.Is(err, errno.ErrSubmissionNotFound))
	}
	assert.Equal(t, 3, inner.finds)

	list, err := j.List(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
