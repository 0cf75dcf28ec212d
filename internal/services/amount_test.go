package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "integer", input: "50", want: "50"},
		{name: "decimal point", input: "12.5", want: "12.5"},
		{name: "decimal comma", input: "12,75", want: "12.75"},
		{name: "trailing zeros", input: "10.500", want: "10.5"},
		{name: "at maximum", input: "1000", want: "1000"},
		{name: "surrounding spaces", input: "  7 ", want: "7"},
		{name: "empty", input: "", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
		{name: "sub cent", input: "0.001", wantErr: true},
		{name: "three decimal places", input: "10.005", wantErr: true},
		{name: "above maximum", input: "1000.01", wantErr: true},
		{name: "huge exponent", input: "1e400", wantErr: true},
		{name: "infinity", input: "Inf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input, decimal.NewFromInt(1000))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestMaxAmountDefault(t *testing.T) {
	assert.True(t, decimal.NewFromInt(defaultMaxAmount).Equal(maxAmount(0)))
	assert.True(t, decimal.NewFromInt(250).Equal(maxAmount(250)))
}

func TestStorableBalance(t *testing.T) {
	f, err := storableBalance(decimal.RequireFromString("35.50"))
	require.NoError(t, err)
	assert.Equal(t, 35.5, f)

	_, err = storableBalance(decimal.RequireFromString("1e400"))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = storableBalance(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestItemAmount(t *testing.T) {
	assert.Equal(t, "100.00", ItemAmount(50, 2).StringFixed(2))
	assert.Equal(t, "224.97", ItemAmount(74.99, 3).StringFixed(2))
	assert.Equal(t, "0.30", ItemAmount(0.1, 3).StringFixed(2))
}

func TestDescriptions(t *testing.T) {
	amount := decimal.NewFromInt(100)

	assert.Equal(t, "2 x Mama donation (100.00 TRY)", itemDescription(2, "Mama", amount, "TRY"))
	assert.Equal(t, "100.00 TRY cash donation", cashDescription(amount, "TRY"))
	assert.Equal(t, "100.00 TRY deposited to wallet", depositDescription(amount, "TRY"))
}
