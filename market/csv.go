package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// ReadBarsCSV reads bar rows:
//
//	time,open,high,low,close[,volume]
//
// where time is Unix seconds, RFC3339 or RFC3339Nano.
//
// A single header row ("time,...") is allowed and empty or short rows are
// skipped. Unparseable prices become NaN so that the bar is kept in place
// and treated as missing downstream; an unparseable time is an error.
func ReadBarsCSV(r io.Reader) ([]Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var bars []Bar
	sawFirst := false
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read bars: %w", err)
		}
		line++
		if len(row) == 0 {
			continue
		}

		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		b, ok, err := parseBarRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if !ok {
			continue
		}
		bars = append(bars, b)
	}
	return bars, nil
}

// LoadBarsCSV opens path and reads it with ReadBarsCSV.
func LoadBarsCSV(path string) ([]Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars file: %w", err)
	}
	defer f.Close()
	return ReadBarsCSV(f)
}

// WriteBarsCSV writes bars in the format ReadBarsCSV accepts, with a header.
func WriteBarsCSV(w io.Writer, bars []Bar) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, b := range bars {
		err := cw.Write([]string{
			strconv.FormatInt(int64(b.Time), 10),
			FormatFloat(b.Open),
			FormatFloat(b.High),
			FormatFloat(b.Low),
			FormatFloat(b.Close),
			FormatFloat(b.Volume),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatFloat renders v with the shortest exact representation; missing
// values render as an empty string.
func FormatFloat(v float64) string {
	if IsMissing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseBarRow(row []string) (Bar, bool, error) {
	if len(row) < 5 {
		return Bar{}, false, nil
	}
	ts := strings.TrimSpace(row[0])
	if ts == "" {
		return Bar{}, false, nil
	}
	t, err := parseTime(ts)
	if err != nil {
		return Bar{}, false, err
	}

	b := Bar{
		Time:  t,
		Open:  parsePrice(row[1]),
		High:  parsePrice(row[2]),
		Low:   parsePrice(row[3]),
		Close: parsePrice(row[4]),
	}
	if len(row) > 5 {
		if v := parsePrice(row[5]); !IsMissing(v) {
			b.Volume = v
		}
	}
	return b, true, nil
}

func parseTime(s string) (Timestamp, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Timestamp(n), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, s)
		if err2 != nil {
			return 0, fmt.Errorf("bad time %q: %w", s, err)
		}
		t = t2
	}
	return Timestamp(t.UTC().Unix()), nil
}

func parsePrice(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return NaN()
	}
	return v
}
