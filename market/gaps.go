package market

import "time"

// Gap is a run of missing intervals inside a bar sequence.
type Gap struct {
	StartIdx int    // index of the bar after which the gap opens
	Len      int    // number of missing intervals
	Kind     string // "minor", "suspicious" or "weekend"
}

// GapStats summarizes a gap scan.
type GapStats struct {
	Bars           int
	InvalidBars    int
	GapCount       int
	MissingBars    int
	WeekendGaps    int
	SuspiciousGaps int
	LongestGap     int
	LongestGapKind string
}

// FindGaps reports every place where consecutive bar times are more than
// step seconds apart. Bars are never reindexed; the report only describes
// the holes so callers can decide how to treat them. step <= 0 returns nil.
func FindGaps(bars []Bar, step int64) []Gap {
	if step <= 0 || len(bars) < 2 {
		return nil
	}

	var gaps []Gap
	for i := 1; i < len(bars); i++ {
		delta := int64(bars[i].Time - bars[i-1].Time)
		if delta <= step {
			continue
		}
		missing := int(delta/step) - 1
		if missing <= 0 {
			continue
		}
		gaps = append(gaps, Gap{
			StartIdx: i - 1,
			Len:      missing,
			Kind:     classifyGap(bars[i-1].Time, missing, step),
		})
	}
	return gaps
}

// Stats scans bars for gaps and invalid rows.
func Stats(bars []Bar, step int64) GapStats {
	s := GapStats{Bars: len(bars)}
	for _, b := range bars {
		if !b.Valid() {
			s.InvalidBars++
		}
	}
	for _, g := range FindGaps(bars, step) {
		s.GapCount++
		s.MissingBars += g.Len
		if g.Len > s.LongestGap {
			s.LongestGap = g.Len
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

func classifyGap(start Timestamp, missing int, step int64) string {
	wd := time.Unix(int64(start), 0).UTC().Weekday()
	gapMinutes := int64(missing) * step / 60

	// Weekend-ish if gap >= 24h and starts Fri/Sat/Sun (UTC heuristic)
	if gapMinutes >= 60*24 {
		if wd == time.Friday || wd == time.Saturday || wd == time.Sunday {
			return "weekend"
		}
		return "suspicious"
	}
	if missing >= 10 {
		return "suspicious"
	}
	return "minor"
}
