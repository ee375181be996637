package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	testSource   = "ZTX3Ta7d4GyAXD41H2kFCTd2eXhDesM83rvC3"
	testDest     = "ZTX3SsZvtHugnVqGLrHqENP2cvYAVqwPHeYdg"
	testContract = "ZTX3PPMnjnZiRfFTMZNuFLz5ShD1VyJUbFFx5"
)

// decodeFields 把一层 protobuf 消息解成 字段号 -> 原始值 列表
func decodeFields(t *testing.T, b []byte) map[protowire.Number][]any {
	t.Helper()
	out := map[protowire.Number][]any{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		require.GreaterOrEqual(t, n, 0)
		b = b[n:]
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			require.GreaterOrEqual(t, n, 0)
			out[num] = append(out[num], v)
			b = b[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			require.GreaterOrEqual(t, n, 0)
			out[num] = append(out[num], v)
			b = b[n:]
		default:
			t.Fatalf("意外的字段类型 %v", typ)
		}
	}
	return out
}

func TestEncodeBlob_GasSend(t *testing.T) {
	op, err := NewGasSendOperation(GasSendParams{SourceAddress: testSource, DestAddress: testDest, GasAmount: "1500000"})
	require.NoError(t, err)

	blob, err := EncodeBlob(BlobParams{
		SourceAddress: testSource,
		Nonce:         "42",
		FeeLimit:      "1000000",
		GasPrice:      "1000",
		Operations:    []Operation{op},
	})
	require.NoError(t, err)

	tx := decodeFields(t, blob)
	assert.Equal(t, []byte(testSource), tx[fieldTxSourceAddress][0])
	assert.Equal(t, uint64(42), tx[fieldTxNonce][0])
	assert.Equal(t, uint64(1000000), tx[fieldTxFeeLimit][0])
	assert.Equal(t, uint64(1000), tx[fieldTxGasPrice][0])
	require.Len(t, tx[fieldTxOperations], 1)

	opFields := decodeFields(t, tx[fieldTxOperations][0].([]byte))
	assert.Equal(t, uint64(OperationPayCoin), opFields[fieldOpType][0])

	pay := decodeFields(t, opFields[fieldOpPayCoin][0].([]byte))
	assert.Equal(t, []byte(testDest), pay[fieldPayCoinDest][0])
	assert.Equal(t, uint64(1500000), pay[fieldPayCoinAmount][0])
	assert.Empty(t, pay[fieldPayCoinInput])

	assert.Len(t, blob.Hash(), 64)
	assert.Equal(t, len(blob)*2, len(blob.Hex()))
}

func TestEncodeBlob_ContractInvokeKeepsInput(t *testing.T) {
	input := `{"method":"mint","params":{"to":"x"}}`
	op, err := NewContractInvokeOperation(ContractInvokeParams{
		SourceAddress: testSource, ContractAddress: testContract, Amount: "0", Input: input,
	})
	require.NoError(t, err)

	blob, err := EncodeBlob(BlobParams{SourceAddress: testSource, Nonce: "1", FeeLimit: "10", GasPrice: "1", Operations: []Operation{op}})
	require.NoError(t, err)

	tx := decodeFields(t, blob)
	opFields := decodeFields(t, tx[fieldTxOperations][0].([]byte))
	pay := decodeFields(t, opFields[fieldOpPayCoin][0].([]byte))
	assert.Equal(t, []byte(testContract), pay[fieldPayCoinDest][0])
	assert.Empty(t, pay[fieldPayCoinAmount], "零金额不应写入")
	assert.Equal(t, []byte(input), pay[fieldPayCoinInput][0])
}

func TestEncodeBlob_Rejects(t *testing.T) {
	op, err := NewGasSendOperation(GasSendParams{SourceAddress: testSource, DestAddress: testDest, GasAmount: "1"})
	require.NoError(t, err)

	base := BlobParams{SourceAddress: testSource, Nonce: "1", FeeLimit: "10", GasPrice: "1", Operations: []Operation{op}}
	tests := []struct {
		name   string
		mutate func(p *BlobParams)
		code   int
	}{
		{"bad source", func(p *BlobParams) { p.SourceAddress = "abc" }, CodeInvalidSourceAddress},
		{"zero nonce", func(p *BlobParams) { p.Nonce = "0" }, CodeInvalidNonce},
		{"nonce overflows int64", func(p *BlobParams) { p.Nonce = "9223372036854775808" }, CodeInvalidNonce},
		{"bad fee limit", func(p *BlobParams) { p.FeeLimit = "1.5" }, CodeInvalidFee},
		{"negative gas price", func(p *BlobParams) { p.GasPrice = "-1" }, CodeInvalidFee},
		{"no operations", func(p *BlobParams) { p.Operations = nil }, CodeInvalidBlob},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			_, err := EncodeBlob(p)
			require.Error(t, err)
			assert.Equal(t, tt.code, CodeOf(err))
		})
	}
}

func TestNewOperation_Rejects(t *testing.T) {
	_, err := NewGasSendOperation(GasSendParams{SourceAddress: testSource, DestAddress: testSource, GasAmount: "1"})
	assert.Equal(t, CodeSourceEqualsDest, CodeOf(err))

	_, err = NewGasSendOperation(GasSendParams{SourceAddress: testSource, DestAddress: "0xabc", GasAmount: "1"})
	assert.Equal(t, CodeInvalidDestAddress, CodeOf(err))

	_, err = NewGasSendOperation(GasSendParams{SourceAddress: testSource, DestAddress: testDest, GasAmount: "1.25"})
	assert.Equal(t, CodeInvalidGasAmount, CodeOf(err))

	_, err = NewContractInvokeOperation(ContractInvokeParams{SourceAddress: testSource, ContractAddress: "ZTX", Amount: "0"})
	assert.Equal(t, CodeInvalidContractAddress, CodeOf(err))
}
