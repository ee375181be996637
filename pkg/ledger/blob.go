package ledger

import (
	"encoding/hex"
	"math/big"
	"strconv"
	"strings"

	"google.golang.org/protobuf/encoding/protowire"

	"zetrix-gateway/pkg/crypto_util"
)

// Transaction / Operation / OperationPayCoin 的 protobuf 字段号
const (
	fieldTxSourceAddress protowire.Number = 1
	fieldTxNonce         protowire.Number = 2
	fieldTxFeeLimit      protowire.Number = 3
	fieldTxGasPrice      protowire.Number = 4
	fieldTxOperations    protowire.Number = 7

	fieldOpType          protowire.Number = 1
	fieldOpSourceAddress protowire.Number = 2
	fieldOpPayCoin       protowire.Number = 10

	fieldPayCoinDest   protowire.Number = 1
	fieldPayCoinAmount protowire.Number = 2
	fieldPayCoinInput  protowire.Number = 3
)

// Blob 未签名的交易序列化字节
type Blob []byte

// Hex 提交接口使用的十六进制形式
func (b Blob) Hex() string {
	return hex.EncodeToString(b)
}

// Hash 交易哈希: sha256(blob)
func (b Blob) Hash() string {
	return crypto_util.CalculateSHA256(b)
}

// EncodeBlob 按链上 Transaction 结构序列化交易
func EncodeBlob(p BlobParams) (Blob, error) {
	if !IsAddress(p.SourceAddress) {
		return nil, &Error{Code: CodeInvalidSourceAddress, Desc: "invalid sourceAddress"}
	}
	nonce, ok := parseNonce(p.Nonce)
	if !ok {
		return nil, &Error{Code: CodeInvalidNonce, Desc: "nonce must be a positive 64-bit integer"}
	}
	feeLimit, ok := parseAmount(p.FeeLimit)
	if !ok {
		return nil, &Error{Code: CodeInvalidFee, Desc: "invalid feeLimit"}
	}
	gasPrice, ok := parseAmount(p.GasPrice)
	if !ok {
		return nil, &Error{Code: CodeInvalidFee, Desc: "invalid gasPrice"}
	}
	if len(p.Operations) == 0 {
		return nil, &Error{Code: CodeInvalidBlob, Desc: "operations cannot be empty"}
	}

	var b []byte
	b = appendString(b, fieldTxSourceAddress, p.SourceAddress)
	b = appendVarint(b, fieldTxNonce, uint64(nonce))
	b = appendVarint(b, fieldTxFeeLimit, uint64(feeLimit))
	b = appendVarint(b, fieldTxGasPrice, uint64(gasPrice))
	for _, op := range p.Operations {
		b = protowire.AppendTag(b, fieldTxOperations, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeOperation(op))
	}
	return b, nil
}

func encodeOperation(op Operation) []byte {
	var b []byte
	b = appendVarint(b, fieldOpType, uint64(op.Type))
	b = appendString(b, fieldOpSourceAddress, op.SourceAddress)
	if op.PayCoin != nil {
		var pc []byte
		pc = appendString(pc, fieldPayCoinDest, op.PayCoin.DestAddress)
		pc = appendVarint(pc, fieldPayCoinAmount, uint64(op.PayCoin.Amount))
		pc = appendString(pc, fieldPayCoinInput, op.PayCoin.Input)
		b = protowire.AppendTag(b, fieldOpPayCoin, protowire.BytesType)
		b = protowire.AppendBytes(b, pc)
	}
	return b
}

// proto3 默认值不写入
func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// parseNonce 任意精度解析后再检查 int64 范围，避免静默截断
func parseNonce(s string) (int64, bool) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok || n.Sign() <= 0 || !n.IsInt64() {
		return 0, false
	}
	return n.Int64(), true
}

// formatInt64 供 JSON 请求体使用
func formatInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}
