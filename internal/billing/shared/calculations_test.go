package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLine(t *testing.T) {
	tests := []struct {
		name      string
		input     LineInput
		wantRate  float64
		wantAmt   float64
		wantTax   float64
		wantTotal float64
	}{
		{
			name:      "cgst plus sgst",
			input:     LineInput{Quantity: 2, Price: 1000, Discount: 100, CGST: 9, SGST: 9},
			wantRate:  18,
			wantAmt:   1800,
			wantTax:   324,
			wantTotal: 2124,
		},
		{
			name:      "igst only",
			input:     LineInput{Quantity: 1, Price: 500, IGST: 18},
			wantRate:  18,
			wantAmt:   500,
			wantTax:   90,
			wantTotal: 590,
		},
		{
			name:      "no tax",
			input:     LineInput{Quantity: 3, Price: 99.99},
			wantRate:  0,
			wantAmt:   299.97,
			wantTax:   0,
			wantTotal: 299.97,
		},
		{
			name:      "fractional rounding at line level",
			input:     LineInput{Quantity: 3, Price: 33.33, Discount: 0.33, CGST: 2.5, SGST: 2.5},
			wantRate:  5,
			wantAmt:   99,
			wantTax:   4.95,
			wantTotal: 103.95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := ComputeLine(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantRate, line.TaxRate, 0.001)
			assert.InDelta(t, tt.wantAmt, line.Amount, 0.001)
			assert.InDelta(t, tt.wantTax, line.TaxAmount, 0.001)
			assert.InDelta(t, tt.wantTotal, line.Total, 0.001)
		})
	}
}

func TestComputeLineRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input LineInput
		want  error
	}{
		{"zero quantity", LineInput{Quantity: 0, Price: 10}, ErrQuantityNotPositive},
		{"negative quantity", LineInput{Quantity: -1, Price: 10}, ErrQuantityNotPositive},
		{"negative price", LineInput{Quantity: 1, Price: -10}, ErrPriceNegative},
		{"negative discount", LineInput{Quantity: 1, Price: 10, Discount: -1}, ErrDiscountNegative},
		{"discount above unit price", LineInput{Quantity: 1, Price: 10, Discount: 11}, ErrDiscountExceedsUnit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeLine(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestComputeLineDeterministic(t *testing.T) {
	in := LineInput{Quantity: 7, Price: 123.45, Discount: 3.21, CGST: 6, SGST: 6, IGST: 0}
	first, err := ComputeLine(in)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := ComputeLine(in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeLinesGrandTotal(t *testing.T) {
	lines, grand, err := ComputeLines([]LineInput{
		{Quantity: 2, Price: 1000, Discount: 100, CGST: 9, SGST: 9},
		{Quantity: 1, Price: 500, IGST: 18},
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	var sum float64
	for _, l := range lines {
		sum += l.Total
	}
	assert.InDelta(t, sum, grand, 0.001)
	assert.InDelta(t, 2714, grand, 0.001)
}

func TestBalance(t *testing.T) {
	assert.InDelta(t, 1624, Balance(2124, 500), 0.001)
	assert.InDelta(t, 0, Balance(2124, 2124), 0.001)
	// Floating point sums that would drift under naive subtraction.
	assert.InDelta(t, 0.1, Balance(0.3, 0.2), 0.0000001)
}

func TestSumAmounts(t *testing.T) {
	assert.InDelta(t, 0.3, SumAmounts([]float64{0.1, 0.1, 0.1}), 0.0000001)
	assert.InDelta(t, 0, SumAmounts(nil), 0.0000001)
}
