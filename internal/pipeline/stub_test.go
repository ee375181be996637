package pipeline

import (
	"context"
	"sync"

	"zetrix-gateway/pkg/ledger"
)

const (
	sender   = "ZTX3Ta7d4GyAXD41H2kFCTd2eXhDesM83rvC3"
	receiver = "ZTX3SsZvtHugnVqGLrHqENP2cvYAVqwPHeYdg"
	contract = "ZTX3PPMnjnZiRfFTMZNuFLz5ShD1VyJUbFFx5"
	privKey  = "privBtestkey"
)

// stubClient 记录调用顺序与参数，每一步的返回可单独覆盖
type stubClient struct {
	mu    sync.Mutex
	calls []string

	nonce     string
	nonceErr  error
	opErr     error
	fee       ledger.FeeQuote
	feeErr    error
	blobErr   error
	signErr   error
	hash      string
	submitErr error
	callRes   *ledger.CallResult
	callErr   error

	gasSend    []ledger.GasSendParams
	invoke     []ledger.ContractInvokeParams
	feeParams  []ledger.EvaluateFeeParams
	blobParams []ledger.BlobParams
	signKeys   [][]string
	callParams []ledger.ContractCallParams
}

func newStub() *stubClient {
	return &stubClient{
		nonce: "41",
		fee:   ledger.FeeQuote{FeeLimit: "1000000", GasPrice: "1000"},
		hash:  "0f1e2d3c",
	}
}

func (s *stubClient) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, name)
}

func (s *stubClient) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubClient) GetNonce(_ context.Context, address string) (string, error) {
	s.record("getNonce")
	return s.nonce, s.nonceErr
}

func (s *stubClient) BuildGasSendOperation(p ledger.GasSendParams) (ledger.Operation, error) {
	s.record("buildGasSendOperation")
	s.gasSend = append(s.gasSend, p)
	if s.opErr != nil {
		return ledger.Operation{}, s.opErr
	}
	return ledger.Operation{Type: ledger.OperationPayCoin, SourceAddress: p.SourceAddress}, nil
}

func (s *stubClient) BuildContractInvokeOperation(p ledger.ContractInvokeParams) (ledger.Operation, error) {
	s.record("buildContractInvokeOperation")
	s.invoke = append(s.invoke, p)
	if s.opErr != nil {
		return ledger.Operation{}, s.opErr
	}
	return ledger.Operation{Type: ledger.OperationPayCoin, SourceAddress: p.SourceAddress}, nil
}

func (s *stubClient) EvaluateFee(_ context.Context, p ledger.EvaluateFeeParams) (ledger.FeeQuote, error) {
	s.record("evaluateFee")
	s.feeParams = append(s.feeParams, p)
	if s.feeErr != nil {
		return ledger.FeeQuote{}, s.feeErr
	}
	return s.fee, nil
}

func (s *stubClient) BuildBlob(p ledger.BlobParams) (ledger.Blob, error) {
	s.record("buildBlob")
	s.blobParams = append(s.blobParams, p)
	if s.blobErr != nil {
		return nil, s.blobErr
	}
	return ledger.Blob("blob:" + p.Nonce), nil
}

func (s *stubClient) Sign(keys []string, blob ledger.Blob) ([]ledger.Signature, error) {
	s.record("sign")
	s.signKeys = append(s.signKeys, keys)
	if s.signErr != nil {
		return nil, s.signErr
	}
	return []ledger.Signature{{SignData: "sig", PublicKey: "pub"}}, nil
}

func (s *stubClient) Submit(_ context.Context, sigs []ledger.Signature, blob ledger.Blob) (string, error) {
	s.record("submit")
	if s.submitErr != nil {
		return "", s.submitErr
	}
	return s.hash, nil
}

func (s *stubClient) ContractCall(_ context.Context, p ledger.ContractCallParams) (*ledger.CallResult, error) {
	s.record("contractCall")
	s.callParams = append(s.callParams, p)
	return s.callRes, s.callErr
}

// statusLog 收集状态通知
type statusLog struct {
	mu     sync.Mutex
	states []Status
}

func (l *statusLog) Report(_ context.Context, s Status) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states = append(l.states, s)
}

func (l *statusLog) Texts() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.states))
	for _, s := range l.states {
		out = append(out, s.Text)
	}
	return out
}

func (l *statusLog) Last() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.states[len(l.states)-1]
}
