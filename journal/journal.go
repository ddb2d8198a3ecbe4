package journal

import (
	"fmt"
	"time"

	"github.com/rustyeddy/chartcalc/market"
)

// Run describes one CLI invocation. Every point a journal records is
// tagged with the run id.
type Run struct {
	RunID     string
	Created   time.Time
	Command   string
	Dataset   string
	Timeframe string
	Mode      string
	Bars      int
	Config    []byte // effective config, as YAML
}

// Journal receives the computed outputs of a run.
type Journal interface {
	RecordSeries(name string, s market.Series) error
	RecordBars(name string, bars []market.Bar) error
	Close() error
}

// RunRecorder is implemented by journals that keep run metadata.
type RunRecorder interface {
	RecordRun(Run) error
}

// Open creates a journal of the given type ("csv" or "sqlite") at path.
func Open(kind, path, runID string) (Journal, error) {
	switch kind {
	case "csv":
		return NewCSV(path, runID)
	case "sqlite":
		return NewSQLite(path, runID)
	default:
		return nil, fmt.Errorf("unknown journal type %q", kind)
	}
}
