package journal

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rustyeddy/chartcalc/market"
)

// CSVHeader is the long-format layout of a CSV journal. Bars are written as
// five rows per bar named <name>.open, <name>.high and so on.
var CSVHeader = []string{"run_id", "name", "idx", "time", "value"}

type CSVJournal struct {
	w     *csv.Writer
	f     *os.File
	runID string
}

func NewCSV(path, runID string) (*CSVJournal, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write(CSVHeader); err != nil {
		_ = f.Close()
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return nil, err
	}

	return &CSVJournal{w: w, f: f, runID: runID}, nil
}

func (j *CSVJournal) RecordSeries(name string, s market.Series) error {
	for i, p := range s {
		if err := j.row(name, i, p.Time, p.Value); err != nil {
			return err
		}
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) RecordBars(name string, bars []market.Bar) error {
	for i, b := range bars {
		fields := [...]struct {
			suffix string
			v      float64
		}{
			{".open", b.Open}, {".high", b.High}, {".low", b.Low}, {".close", b.Close}, {".volume", b.Volume},
		}
		for _, fv := range fields {
			if err := j.row(name+fv.suffix, i, b.Time, fv.v); err != nil {
				return err
			}
		}
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) row(name string, idx int, ts market.Timestamp, v float64) error {
	return j.w.Write([]string{
		j.runID,
		name,
		strconv.Itoa(idx),
		strconv.FormatInt(int64(ts), 10),
		market.FormatFloat(v),
	})
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		_ = j.f.Close()
		return err
	}
	return j.f.Close()
}
