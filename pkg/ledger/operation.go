package ledger

import (
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// AddressPrefix Zetrix 地址前缀
const AddressPrefix = "ZTX"

// OperationType 对应链上 Operation.Type 枚举
type OperationType int32

const (
	OperationUnknown OperationType = 0
	OperationPayCoin OperationType = 7
)

// Operation 账本定义的一个操作。构造后视为不可变值。
type Operation struct {
	Type          OperationType
	SourceAddress string
	PayCoin       *PayCoin
}

// PayCoin 原生币转账；带 Input 时即为合约调用
type PayCoin struct {
	DestAddress string
	Amount      int64
	Input       string
}

// IsAddress 粗略校验 Zetrix 地址格式: "ZTX" + base58
func IsAddress(addr string) bool {
	if !strings.HasPrefix(addr, AddressPrefix) || len(addr) <= len(AddressPrefix) {
		return false
	}
	return len(base58.Decode(addr[len(AddressPrefix):])) > 0
}

// NewGasSendOperation 构造 gas 转账操作
func NewGasSendOperation(p GasSendParams) (Operation, error) {
	if !IsAddress(p.SourceAddress) {
		return Operation{}, &Error{Code: CodeInvalidSourceAddress, Desc: "invalid sourceAddress"}
	}
	if !IsAddress(p.DestAddress) {
		return Operation{}, &Error{Code: CodeInvalidDestAddress, Desc: "invalid destAddress"}
	}
	if p.SourceAddress == p.DestAddress {
		return Operation{}, &Error{Code: CodeSourceEqualsDest, Desc: "sourceAddress cannot be equal to destAddress"}
	}
	amount, ok := parseAmount(p.GasAmount)
	if !ok {
		return Operation{}, &Error{Code: CodeInvalidGasAmount, Desc: "gasAmount must be a non-negative integer"}
	}

	return Operation{
		Type:          OperationPayCoin,
		SourceAddress: p.SourceAddress,
		PayCoin:       &PayCoin{DestAddress: p.DestAddress, Amount: amount},
	}, nil
}

// NewContractInvokeOperation 构造按 gas 调用合约的操作
func NewContractInvokeOperation(p ContractInvokeParams) (Operation, error) {
	if p.SourceAddress != "" && !IsAddress(p.SourceAddress) {
		return Operation{}, &Error{Code: CodeInvalidSourceAddress, Desc: "invalid sourceAddress"}
	}
	if !IsAddress(p.ContractAddress) {
		return Operation{}, &Error{Code: CodeInvalidContractAddress, Desc: "invalid contractAddress"}
	}
	if p.SourceAddress == p.ContractAddress {
		return Operation{}, &Error{Code: CodeSourceEqualsDest, Desc: "sourceAddress cannot be equal to contractAddress"}
	}
	amount, ok := parseAmount(p.Amount)
	if !ok {
		return Operation{}, &Error{Code: CodeInvalidGasAmount, Desc: "amount must be a non-negative integer"}
	}

	return Operation{
		Type:          OperationPayCoin,
		SourceAddress: p.SourceAddress,
		PayCoin:       &PayCoin{DestAddress: p.ContractAddress, Amount: amount, Input: p.Input},
	}, nil
}

// parseAmount 金额以最小单位表示，必须是非负整数
func parseAmount(s string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
