package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindGaps(t *testing.T) {
	// Wednesday
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	at := func(h int) Candle { return Candle{Time: t0.Add(time.Duration(h) * time.Hour)} }

	candles := []Candle{at(0), at(1), at(3), at(4), at(10), at(40)}
	gaps := FindGaps(candles, time.Hour)
	require.Len(t, gaps, 3)

	assert.Equal(t, Gap{Start: t0.Add(2 * time.Hour), Missing: 1, Kind: "minor"}, gaps[0])
	assert.Equal(t, 5, gaps[1].Missing)
	assert.Equal(t, "suspicious", gaps[1].Kind)
	assert.Equal(t, 29, gaps[2].Missing)
	assert.Equal(t, "suspicious", gaps[2].Kind)

	s := Stats(len(candles), gaps)
	assert.Equal(t, 6, s.Bars)
	assert.Equal(t, 35, s.MissingBars)
	assert.Equal(t, 3, s.GapCount)
	assert.Equal(t, 2, s.SuspiciousGaps)
	assert.Equal(t, 29, s.LongestGap)
}

func TestFindGapsWeekend(t *testing.T) {
	fri := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	candles := []Candle{{Time: fri.Add(-day)}, {Time: fri}, {Time: fri.Add(3 * day)}}

	gaps := FindGaps(candles, day)
	require.Len(t, gaps, 1)
	assert.Equal(t, "weekend", gaps[0].Kind)
	assert.Equal(t, 2, gaps[0].Missing)
	assert.Equal(t, 1, Stats(3, gaps).WeekendGaps)
}

func TestFindGapsNone(t *testing.T) {
	assert.Empty(t, FindGaps(nil, time.Hour))
	assert.Empty(t, FindGaps([]Candle{{}, {}}, 0))
}
