package journal

// Missing values are stored as NULL.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	command TEXT NOT NULL,
	dataset TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	mode TEXT NOT NULL,
	bars INTEGER NOT NULL,
	config BLOB
);

CREATE TABLE IF NOT EXISTS series_points (
	run_id TEXT NOT NULL,
	name TEXT NOT NULL,
	idx INTEGER NOT NULL,
	time INTEGER NOT NULL,
	value REAL,
	PRIMARY KEY (run_id, name, idx)
);

CREATE TABLE IF NOT EXISTS bars (
	run_id TEXT NOT NULL,
	name TEXT NOT NULL,
	idx INTEGER NOT NULL,
	time INTEGER NOT NULL,
	open REAL,
	high REAL,
	low REAL,
	close REAL,
	volume REAL,
	PRIMARY KEY (run_id, name, idx)
);

CREATE INDEX IF NOT EXISTS idx_series_points_time ON series_points(run_id, time);
`
