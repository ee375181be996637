package service

import (
	"context"
	"errors"
	"sync"

	"zetrix-gateway/internal/model"
	"zetrix-gateway/internal/pipeline"
	"zetrix-gateway/pkg/ledger"
)

const (
	sender   = "ZTX3Ta7d4GyAXD41H2kFCTd2eXhDesM83rvC3"
	receiver = "ZTX3SsZvtHugnVqGLrHqENP2cvYAVqwPHeYdg"
	contract = "ZTX3PPMnjnZiRfFTMZNuFLz5ShD1VyJUbFFx5"
	privKey  = "privBtestkey"
)

// fakeClient 节点客户端，记录提交次数。nonceFailures > 0 时前几次取 nonce 失败
type fakeClient struct {
	mu            sync.Mutex
	submits       int
	nonceFailures int
	rets          []ledger.QueryRet
}

func (f *fakeClient) GetNonce(context.Context, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nonceFailures > 0 {
		f.nonceFailures--
		return "", errors.New("connection reset by peer")
	}
	return "7", nil
}

func (f *fakeClient) BuildGasSendOperation(p ledger.GasSendParams) (ledger.Operation, error) {
	return ledger.Operation{Type: ledger.OperationPayCoin, SourceAddress: p.SourceAddress}, nil
}

func (f *fakeClient) BuildContractInvokeOperation(p ledger.ContractInvokeParams) (ledger.Operation, error) {
	return ledger.Operation{Type: ledger.OperationPayCoin, SourceAddress: p.SourceAddress}, nil
}

func (f *fakeClient) EvaluateFee(context.Context, ledger.EvaluateFeeParams) (ledger.FeeQuote, error) {
	return ledger.FeeQuote{FeeLimit: "1000000", GasPrice: "1000"}, nil
}

func (f *fakeClient) BuildBlob(ledger.BlobParams) (ledger.Blob, error) {
	return ledger.Blob{0x0a, 0x01}, nil
}

func (f *fakeClient) Sign([]string, ledger.Blob) ([]ledger.Signature, error) {
	return []ledger.Signature{{SignData: "aa", PublicKey: "bb"}}, nil
}

func (f *fakeClient) Submit(context.Context, []ledger.Signature, ledger.Blob) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits++
	return "hash-1", nil
}

func (f *fakeClient) ContractCall(context.Context, ledger.ContractCallParams) (*ledger.CallResult, error) {
	return &ledger.CallResult{QueryRets: f.rets}, nil
}

func (f *fakeClient) Submits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submits
}

// memJournal 内存流水
type memJournal struct {
	mu      sync.Mutex
	records []pipeline.Receipt
	reqIDs  []string
	err     error
}

func (j *memJournal) Record(ctx context.Context, r pipeline.Receipt) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.records = append(j.records, r)
	j.reqIDs = append(j.reqIDs, RequestIDFrom(ctx))
	return nil
}

func (j *memJournal) Find(_ context.Context, hash string) (*model.Submission, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, r := range j.records {
		if r.Hash == hash {
			return submissionOf(r, ""), nil
		}
	}
	return NopJournal{}.Find(context.Background(), hash)
}

func (j *memJournal) List(_ context.Context, source string, limit int) ([]model.Submission, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	subs := []model.Submission{}
	for i := len(j.records) - 1; i >= 0 && len(subs) < limit; i-- {
		if source == "" || j.records[i].Source == source {
			subs = append(subs, *submissionOf(j.records[i], j.reqIDs[i]))
		}
	}
	return subs, nil
}

// recordingProducer 记录发布的消息
type recordingProducer struct {
	mu       sync.Mutex
	topics   []string
	keys     []string
	payloads [][]byte
	err      error
}

func (p *recordingProducer) Publish(_ context.Context, topic, key string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.keys = append(p.keys, key)
	p.payloads = append(p.payloads, payload)
	return nil
}

func newTestService(c ledger.Client, j Journal) *TxService {
	p := pipeline.New(ledger.Static(c), pipeline.Defaults{
		Transfer: pipeline.TransferDefaults{SenderAddress: sender, PrivateKey: privKey},
	})
	return NewTxService(p, j)
}
