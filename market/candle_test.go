package market

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourly(n int) []Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]Candle, n)
	for i := range out {
		p := 100 + float64(i)
		out[i] = Candle{Time: start.Add(time.Duration(i) * time.Hour), Open: p, High: p + 1, Low: p - 1, Close: p + 0.5, Volume: 10}
	}
	return out
}

func TestValidate(t *testing.T) {
	t.Run("ordered", func(t *testing.T) {
		assert.NoError(t, Validate(hourly(5)))
	})

	t.Run("empty", func(t *testing.T) {
		assert.NoError(t, Validate(nil))
	})

	t.Run("duplicate", func(t *testing.T) {
		cs := hourly(3)
		cs[2].Time = cs[1].Time
		err := Validate(cs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate candle")
	})

	t.Run("out of order", func(t *testing.T) {
		cs := hourly(3)
		cs[1], cs[2] = cs[2], cs[1]
		err := Validate(cs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of order")
	})
}

func TestSignalCandleUsable(t *testing.T) {
	c := SignalCandle{SMAShort: Some(1), SMALong: Some(2), RSI: Some(50)}
	assert.True(t, c.Usable())

	c.RSI = NullFloat{}
	assert.False(t, c.Usable())
	assert.Equal(t, "NaN", c.RSI.String())
}

func TestCSVRoundTrip(t *testing.T) {
	cs := hourly(4)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, cs))
	assert.True(t, strings.HasPrefix(buf.String(), "time,open,high,low,close,volume\n"))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, cs, got)
}

func TestReadCSV(t *testing.T) {
	in := `2024-01-01T00:00:00Z,1,2,0.5,1.5

2024-01-01T01:00:00Z,1.5,2.5,1,2,300
`
	got, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1.5, got[0].Close)
	assert.Equal(t, 0.0, got[0].Volume)
	assert.Equal(t, 300.0, got[1].Volume)

	_, err = ReadCSV(strings.NewReader("time,open\nnot-a-time,1,2,3,4\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad time")

	_, err = ReadCSV(strings.NewReader("2024-01-01T00:00:00Z,1,2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need at least 5 cols")
}

func TestReadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candles.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteCSV(f, hourly(3)))
	require.NoError(t, f.Close())

	got, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = ReadCSVFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
