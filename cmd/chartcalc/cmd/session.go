package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rustyeddy/chartcalc/internal/logger"
	"github.com/rustyeddy/chartcalc/internal/pipeline"
	"github.com/rustyeddy/chartcalc/journal"
	"github.com/rustyeddy/chartcalc/market"
	"github.com/rustyeddy/chartcalc/pkg/id"
	"gopkg.in/yaml.v3"
)

// session is one journaled command run.
type session struct {
	ctx       context.Context
	log       *slog.Logger
	run       journal.Run
	j         journal.Journal
	closed    bool
	summaries []journal.SeriesSummary
}

var openJournal = journal.Open

func journalPath() string {
	if cfg.Output.Type == "sqlite" {
		return cfg.Output.DBPath
	}
	return cfg.Output.CSVPath
}

func startSession(ctx context.Context, command, dataset string, bars int, mode string) (*session, error) {
	runID := id.New()
	ctx = logger.WithRunID(ctx, runID)

	j, err := openJournal(cfg.Output.Type, journalPath(), runID)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	raw, err := yaml.Marshal(cfg)
	if err != nil {
		_ = j.Close()
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	s := &session{
		ctx: ctx,
		log: logger.FromContext(ctx, log).With(slog.String("command", command)),
		run: journal.Run{
			RunID:     runID,
			Created:   time.Now().UTC(),
			Command:   command,
			Dataset:   dataset,
			Timeframe: string(cfg.Timeframe),
			Mode:      mode,
			Bars:      bars,
			Config:    raw,
		},
		j: j,
	}

	if rr, ok := j.(journal.RunRecorder); ok {
		if err := rr.RecordRun(s.run); err != nil {
			_ = j.Close()
			return nil, fmt.Errorf("record run: %w", err)
		}
	}

	s.log.Info("run started", "dataset", dataset, "bars", bars, "journal", cfg.Output.Type, "path", journalPath())
	return s, nil
}

func (s *session) series(outs []pipeline.Output) error {
	for _, o := range outs {
		if err := s.j.RecordSeries(o.Name, o.Series); err != nil {
			return fmt.Errorf("record %s: %w", o.Name, err)
		}
		sum := journal.Summarize(o.Name, o.Series)
		s.summaries = append(s.summaries, sum)
		s.log.Debug("series recorded", "name", o.Name, "points", sum.Points, "valid", sum.Valid)
	}
	return nil
}

func (s *session) bars(name string, bars []market.Bar) error {
	if err := s.j.RecordBars(name, bars); err != nil {
		return fmt.Errorf("record %s: %w", name, err)
	}
	return nil
}

// close closes the journal once; later calls are no-ops.
func (s *session) close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.j.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	return nil
}

// finish closes the journal and, when orgPath is set, writes the run report.
func (s *session) finish(orgPath string, notes ...string) error {
	if err := s.close(); err != nil {
		return err
	}

	if orgPath != "" {
		report := journal.RunReport{Run: s.run, Series: s.summaries, Notes: notes}
		if err := writeFile(orgPath, func(f *os.File) error {
			return journal.WriteRunOrg(f, report)
		}); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	s.log.Info("run complete", "series", len(s.summaries), "report", orgPath)
	return nil
}

// writeFile creates path, calls write and reports the first write or close
// error.
func writeFile(path string, write func(*os.File) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

func loadBars(path string) ([]market.Bar, error) {
	bars, err := market.LoadBarsCSV(path)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		log.Warn("no bars read", "path", path)
	}
	return bars, nil
}
