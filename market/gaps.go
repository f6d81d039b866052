package market

import "time"

// Gap is a run of missing bars between two consecutive candles.
type Gap struct {
	Start   time.Time // time of the first missing bar
	Missing int       // number of missing bars
	Kind    string    // weekend, suspicious or minor
}

type GapStats struct {
	Bars           int
	MissingBars    int
	GapCount       int
	WeekendGaps    int
	SuspiciousGaps int
	LongestGap     int
	LongestGapKind string
}

// FindGaps reports every place where consecutive candles are more than one
// step apart. candles must be in time order.
func FindGaps(candles []Candle, step time.Duration) []Gap {
	if step <= 0 {
		return nil
	}

	var gaps []Gap
	for i := 1; i < len(candles); i++ {
		delta := candles[i].Time.Sub(candles[i-1].Time)
		missing := int(delta/step) - 1
		if missing <= 0 {
			continue
		}
		start := candles[i-1].Time.Add(step)
		gaps = append(gaps, Gap{
			Start:   start,
			Missing: missing,
			Kind:    classifyGap(start, time.Duration(missing)*step, missing),
		})
	}
	return gaps
}

func classifyGap(start time.Time, length time.Duration, missing int) string {
	wd := start.UTC().Weekday()

	// Weekend-ish if gap >= 24h and starts Fri/Sat/Sun (UTC heuristic)
	if length >= 24*time.Hour {
		if wd == time.Friday || wd == time.Saturday || wd == time.Sunday {
			return "weekend"
		}
		return "suspicious"
	}

	if missing >= 3 {
		return "suspicious"
	}
	return "minor"
}

// Stats summarizes gaps found in a series of bars present candles.
func Stats(present int, gaps []Gap) GapStats {
	s := GapStats{Bars: present}
	for _, g := range gaps {
		s.GapCount++
		s.MissingBars += g.Missing
		if g.Missing > s.LongestGap {
			s.LongestGap = g.Missing
			s.LongestGapKind = g.Kind
		}
		switch g.Kind {
		case "weekend":
			s.WeekendGaps++
		case "suspicious":
			s.SuspiciousGaps++
		}
	}
	return s
}
