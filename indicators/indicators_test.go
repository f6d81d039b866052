package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	out, err := SMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	require.Len(t, out, 5)

	assert.False(t, out[0].Valid)
	assert.False(t, out[1].Valid)
	assert.InDelta(t, 2.0, out[2].Float64, 1e-9)
	assert.InDelta(t, 3.0, out[3].Float64, 1e-9)
	assert.InDelta(t, 4.0, out[4].Float64, 1e-9)

	last, ok := out.Last()
	assert.True(t, ok)
	assert.InDelta(t, 4.0, last, 1e-9)
}

func TestSMAShortInput(t *testing.T) {
	out, err := SMA([]float64{1, 2}, 5)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, v := range out {
		assert.False(t, v.Valid)
	}
	_, ok := out.Last()
	assert.False(t, ok)

	out, err = SMA(nil, 3)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSMAWindowOne(t *testing.T) {
	out, err := SMA([]float64{4, 5, 6}, 1)
	require.NoError(t, err)
	for i, v := range []float64{4, 5, 6} {
		assert.True(t, out[i].Valid)
		assert.InDelta(t, v, out[i].Float64, 1e-9)
	}
}

func TestInvalidWindow(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"sma zero", func() error { _, err := SMA([]float64{1}, 0); return err }},
		{"sma negative", func() error { _, err := SMA([]float64{1}, -3); return err }},
		{"rsi zero", func() error { _, err := RSI([]float64{1}, 0); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidWindow)
		})
	}
}

func TestRSIBounds(t *testing.T) {
	closes := []float64{1, 2, 3, 2, 1, 2, 3, 4, 3, 2, 1, 2, 3, 4, 5}
	out, err := RSI(closes, 14)
	require.NoError(t, err)
	require.Len(t, out, len(closes))

	for i := 0; i < 13; i++ {
		assert.False(t, out[i].Valid, "index %d", i)
	}
	for i := 13; i < len(out); i++ {
		require.True(t, out[i].Valid)
		assert.GreaterOrEqual(t, out[i].Float64, 0.0)
		assert.LessOrEqual(t, out[i].Float64, 100.0)
	}
}

func TestRSIValues(t *testing.T) {
	// changes: +1 +1 -1 +1 => window 3 at idx 3: gains (1+1+0)/3, losses 1/3
	closes := []float64{10, 11, 12, 11, 12}
	out, err := RSI(closes, 3)
	require.NoError(t, err)

	assert.False(t, out[1].Valid)
	// idx 2: gains (0+1+1)/3, losses 0 => 100
	assert.InDelta(t, 100.0, out[2].Float64, 1e-9)
	// idx 3: gains 2/3, losses 1/3 => rs 2 => 66.67
	assert.InDelta(t, 100-100.0/3, out[3].Float64, 1e-9)
	// idx 4: gains (1+0+1)/3, losses 1/3 => same
	assert.InDelta(t, 100-100.0/3, out[4].Float64, 1e-9)
}

func TestRSIFlat(t *testing.T) {
	out, err := RSI([]float64{5, 5, 5, 5}, 2)
	require.NoError(t, err)
	assert.False(t, out[0].Valid)
	for i := 1; i < 4; i++ {
		assert.Equal(t, 50.0, out[i].Float64)
	}
}
