package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"zetrix-gateway/pkg/errno"
)

type ParamsKind int

const (
	ParamsAbsent ParamsKind = iota
	ParamsText
	ParamsStructured
)

// Params 合约入参：未提供 / JSON 文本 / 已结构化数据 三选一
type Params struct {
	kind  ParamsKind
	text  string
	value any
}

// ParamsFromText 空白文本视为未提供
func ParamsFromText(s string) Params {
	if strings.TrimSpace(s) == "" {
		return Params{}
	}
	return Params{kind: ParamsText, text: s}
}

// ParamsFromValue nil 视为未提供
func ParamsFromValue(v any) Params {
	if v == nil {
		return Params{}
	}
	return Params{kind: ParamsStructured, value: v}
}

func (p Params) Kind() ParamsKind { return p.kind }

func (p Params) IsAbsent() bool { return p.kind == ParamsAbsent }

func (p *Params) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || string(raw) == "null" {
		*p = Params{}
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*p = ParamsFromText(s)
		return nil
	}

	v, err := decodeJSON(raw)
	if err != nil {
		return err
	}
	*p = ParamsFromValue(v)
	return nil
}

func (p Params) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case ParamsText:
		return json.Marshal(p.text)
	case ParamsStructured:
		return json.Marshal(p.value)
	default:
		return []byte("null"), nil
	}
}

// NormalizeParams 得到合约调用使用的结构化入参。
// 未提供返回空对象；文本按 JSON 解析；结构化数据原样返回，不做修改。
func NormalizeParams(p Params) (any, error) {
	switch p.kind {
	case ParamsText:
		v, err := decodeJSON([]byte(p.text))
		if err != nil {
			return nil, errno.ErrInvalidParamsFormat.Wrap(err)
		}
		if v == nil {
			return map[string]any{}, nil
		}
		return v, nil
	case ParamsStructured:
		return p.value, nil
	default:
		return map[string]any{}, nil
	}
}

// DecodeResult 合约返回值是合法 JSON 时返回解析结果，否则返回原字符串
func DecodeResult(raw string) any {
	v, err := decodeJSON([]byte(raw))
	if err != nil {
		return raw
	}
	return v
}

// decodeJSON 数字保留为 json.Number，超过 2^53 的整数不丢精度
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid character after top-level value")
	}
	return v, nil
}
