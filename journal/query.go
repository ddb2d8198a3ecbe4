package journal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rustyeddy/chartcalc/market"
)

// GetRun returns a single run record by ID.
func (j *SQLiteJournal) GetRun(ctx context.Context, runID string) (Run, error) {
	var r Run

	row := j.db.QueryRowContext(ctx, `
		SELECT run_id, created, command, dataset, timeframe, mode, bars, config
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(&r.RunID, &r.Created, &r.Command, &r.Dataset, &r.Timeframe, &r.Mode, &r.Bars, &r.Config)
	if err != nil {
		if err == sql.ErrNoRows {
			return Run{}, fmt.Errorf("run %q not found", runID)
		}
		return Run{}, err
	}
	return r, nil
}

// ListSeries returns the named series of a run in index order. NULL values
// come back as NaN.
func (j *SQLiteJournal) ListSeries(ctx context.Context, runID, name string) (market.Series, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT time, value
		FROM series_points
		WHERE run_id = ? AND name = ?
		ORDER BY idx ASC`, runID, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out market.Series
	for rows.Next() {
		var (
			ts int64
			v  sql.NullFloat64
		)
		if err := rows.Scan(&ts, &v); err != nil {
			return nil, err
		}
		out = append(out, market.LinePoint{Time: market.Timestamp(ts), Value: orNaN(v)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSeriesNames returns the distinct series names recorded for a run.
func (j *SQLiteJournal) ListSeriesNames(ctx context.Context, runID string) ([]string, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT DISTINCT name
		FROM series_points
		WHERE run_id = ?
		ORDER BY name ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListBars returns the named bar sequence of a run in index order.
func (j *SQLiteJournal) ListBars(ctx context.Context, runID, name string) ([]market.Bar, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT time, open, high, low, close, volume
		FROM bars
		WHERE run_id = ? AND name = ?
		ORDER BY idx ASC`, runID, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []market.Bar
	for rows.Next() {
		var (
			ts                        int64
			open, high, low, cls, vol sql.NullFloat64
		)
		if err := rows.Scan(&ts, &open, &high, &low, &cls, &vol); err != nil {
			return nil, err
		}
		out = append(out, market.Bar{
			Time:   market.Timestamp(ts),
			Open:   orNaN(open),
			High:   orNaN(high),
			Low:    orNaN(low),
			Close:  orNaN(cls),
			Volume: orNaN(vol),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
