package journal

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/rustyeddy/chartcalc/market"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db    *sql.DB
	runID string
}

func NewSQLite(path, runID string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteJournal{db: db, runID: runID}, nil
}

func (j *SQLiteJournal) RecordRun(r Run) error {
	if r.RunID == "" {
		r.RunID = j.runID
	}
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO runs
		(run_id, created, command, dataset, timeframe, mode, bars, config)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created.UTC(), r.Command, r.Dataset, r.Timeframe, r.Mode, r.Bars, r.Config,
	)
	return err
}

func (j *SQLiteJournal) RecordSeries(name string, s market.Series) error {
	return j.inTx(`
		INSERT OR REPLACE INTO series_points
		(run_id, name, idx, time, value)
		VALUES (?, ?, ?, ?, ?)`,
		len(s), func(i int) []any {
			return []any{j.runID, name, i, int64(s[i].Time), nullable(s[i].Value)}
		})
}

func (j *SQLiteJournal) RecordBars(name string, bars []market.Bar) error {
	return j.inTx(`
		INSERT OR REPLACE INTO bars
		(run_id, name, idx, time, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(bars), func(i int) []any {
			b := bars[i]
			return []any{j.runID, name, i, int64(b.Time),
				nullable(b.Open), nullable(b.High), nullable(b.Low), nullable(b.Close), nullable(b.Volume)}
		})
}

// inTx runs one prepared insert per row inside a single transaction.
func (j *SQLiteJournal) inTx(query string, n int, args func(int) []any) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.Exec(args(i)...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

func nullable(x float64) sql.NullFloat64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: x, Valid: true}
}

func orNaN(n sql.NullFloat64) float64 {
	if !n.Valid {
		return math.NaN()
	}
	return n.Float64
}
