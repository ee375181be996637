package pipeline

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zetrix-gateway/pkg/errno"
)

func TestResolveAmount(t *testing.T) {
	env := map[string]any{"payload": map[string]any{"quantity": 3.0, "unit": "5"}}

	tests := []struct {
		name       string
		requested  Amount
		configured string
		want       string
		wantErr    error
	}{
		{"request wins", AmountOf("12.5"), "99", "12.5", nil},
		{"request zero is present", AmountOf("0"), "99", "0", nil},
		{"request not evaluated", AmountOf("${payload.quantity}"), "", "", errno.ErrInvalidAmount},
		{"configured literal", Amount{}, "250", "250", nil},
		{"configured missing", Amount{}, "", "", errno.ErrMissingField},
		{"configured blank", Amount{}, "   ", "", errno.ErrMissingField},
		{"configured not numeric", Amount{}, "ten", "", errno.ErrInvalidAmount},
		{"whole expression", Amount{}, "${payload.quantity * 2}", "6", nil},
		{"mixed template", Amount{}, "1${payload.unit}0", "150", nil},
		{"expression returns string", Amount{}, "${payload.unit}", "5", nil},
		{"expression bad syntax", Amount{}, "${payload.quantity *}", "", errno.ErrInvalidExpression},
		{"expression unterminated", Amount{}, "${payload.quantity", "", errno.ErrInvalidExpression},
		{"expression yields non number", Amount{}, "${payload.quantity > 1}", "", errno.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveAmount(tt.requested, tt.configured, env)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestResolveAmount_MissingMessage(t *testing.T) {
	_, err := ResolveAmount(Amount{}, "", nil)
	assert.EqualError(t, err, "Amount is required")
}

func TestAmountSignChecks(t *testing.T) {
	assert.NoError(t, requirePositive(decimal.RequireFromString("0.000001")))
	assert.EqualError(t, requirePositive(decimal.Zero), "Amount must be greater than 0")
	assert.EqualError(t, requirePositive(decimal.NewFromInt(-1)), "Amount must be greater than 0")

	assert.NoError(t, requireNonNegative(decimal.Zero))
	assert.EqualError(t, requireNonNegative(decimal.NewFromInt(-1)), "Amount must be greater than or equal to 0")
}

func TestAmountJSON(t *testing.T) {
	var v struct {
		Amount Amount `json:"amount"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{}`), &v))
	assert.False(t, v.Amount.IsSet())

	require.NoError(t, json.Unmarshal([]byte(`{"amount":null}`), &v))
	assert.False(t, v.Amount.IsSet())

	require.NoError(t, json.Unmarshal([]byte(`{"amount":0}`), &v))
	assert.True(t, v.Amount.IsSet())
	assert.Equal(t, "0", v.Amount.String())

	require.NoError(t, json.Unmarshal([]byte(`{"amount":"123456789012345678901234567890"}`), &v))
	d, err := v.Amount.Decimal()
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", d.String())

	out, err := json.Marshal(AmountOf("1.50"))
	require.NoError(t, err)
	assert.Equal(t, "1.5", string(out))

	out, err = json.Marshal(Amount{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
