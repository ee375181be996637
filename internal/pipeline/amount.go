package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/shopspring/decimal"

	"zetrix-gateway/pkg/errno"
)

// exprMarker 配置金额中出现该标记即按表达式求值
const exprMarker = "${"

var exprPattern = regexp.MustCompile(`\$\{([^}]*)\}`)

// Amount 请求中的金额。区分 "未提供" 与 "提供了 0"。
type Amount struct {
	set  bool
	text string
}

// AmountOf 构造一个已提供的金额
func AmountOf(v string) Amount {
	return Amount{set: true, text: v}
}

// AmountFromDecimal 构造一个已提供的金额
func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{set: true, text: d.String()}
}

func (a Amount) IsSet() bool { return a.set }

func (a Amount) String() string { return a.text }

// Decimal 按十进制解析，非数字返回 InvalidAmount
func (a Amount) Decimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(a.text))
	if err != nil {
		return decimal.Zero, errno.ErrInvalidAmount.Wrap(err)
	}
	return d, nil
}

// UnmarshalJSON null 视为未提供；字符串与数字都保留原文
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || string(raw) == "null" {
		*a = Amount{}
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*a = AmountOf(s)
		return nil
	}
	*a = AmountOf(string(raw))
	return nil
}

// MarshalJSON 合法数字按 JSON number 输出，便于表达式直接计算
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.set {
		return []byte("null"), nil
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(a.text)); err == nil {
		return []byte(d.String()), nil
	}
	return json.Marshal(a.text)
}

// ResolveAmount 决定本次调用使用的金额:
// 请求中提供的金额优先 (包括 0，不再做表达式求值)，
// 否则使用配置值；配置值含 ${...} 时以 env 为上下文求值，否则按十进制字面量解析。
// 符号约束 (转账 > 0，调用 >= 0) 由调用方检查。
func ResolveAmount(requested Amount, configured string, env map[string]any) (decimal.Decimal, error) {
	if requested.IsSet() {
		return requested.Decimal()
	}

	configured = strings.TrimSpace(configured)
	if configured == "" {
		return decimal.Zero, errno.ErrMissingField.WithMessage("Amount is required")
	}

	if !strings.Contains(configured, exprMarker) {
		return AmountOf(configured).Decimal()
	}

	v, err := evalTemplate(configured, env)
	if err != nil {
		return decimal.Zero, errno.ErrInvalidExpression.Wrap(err)
	}
	return toDecimal(v)
}

// evalTemplate 整个模板只有一个 ${expr} 时返回表达式的值，否则把每段替换为文本
func evalTemplate(tpl string, env map[string]any) (any, error) {
	matches := exprPattern.FindAllStringSubmatchIndex(tpl, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("unterminated expression in %q", tpl)
	}
	if len(matches) == 1 && matches[0][0] == 0 && matches[0][1] == len(tpl) {
		return expr.Eval(tpl[matches[0][2]:matches[0][3]], env)
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		sb.WriteString(tpl[last:m[0]])
		v, err := expr.Eval(tpl[m[2]:m[3]], env)
		if err != nil {
			return nil, err
		}
		fmt.Fprint(&sb, v)
		last = m[1]
	}
	sb.WriteString(tpl[last:])
	return sb.String(), nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case int32:
		return decimal.NewFromInt32(n), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0), nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, errno.ErrInvalidAmount
		}
		return decimal.NewFromFloat(n), nil
	case float32:
		return toDecimal(float64(n))
	case json.Number:
		return AmountOf(n.String()).Decimal()
	case string:
		return AmountOf(n).Decimal()
	case nil, bool:
		return decimal.Zero, errno.ErrInvalidAmount
	default:
		return AmountOf(fmt.Sprint(n)).Decimal()
	}
}

// requirePositive 转账金额必须大于 0
func requirePositive(d decimal.Decimal) error {
	if !d.IsPositive() {
		return errno.ErrInvalidAmount.WithMessage("Amount must be greater than 0")
	}
	return nil
}

// requireNonNegative 合约调用允许 0
func requireNonNegative(d decimal.Decimal) error {
	if d.IsNegative() {
		return errno.ErrInvalidAmount.WithMessage("Amount must be greater than or equal to 0")
	}
	return nil
}
