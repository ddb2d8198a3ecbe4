package journal

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"text/template"
	"time"

	"github.com/rustyeddy/chartcalc/market"
	"github.com/rustyeddy/chartcalc/series"
)

// SeriesSummary describes one recorded series for the run report.
type SeriesSummary struct {
	Name   string
	Points int
	Valid  int
	First  market.Timestamp // time of the first valid point
	Last   float64          // last valid value
	Min    float64
	Max    float64
}

// Summarize computes the report row for s.
func Summarize(name string, s market.Series) SeriesSummary {
	sum := SeriesSummary{Name: name, Points: len(s), Last: math.NaN(), Min: math.NaN(), Max: math.NaN()}
	for _, p := range s {
		if p.Missing() {
			continue
		}
		if sum.Valid == 0 {
			sum.First = p.Time
		}
		sum.Valid++
		sum.Last = p.Value
	}
	if lo, hi, ok := series.MinMax(s.Values()); ok {
		sum.Min, sum.Max = lo, hi
	}
	return sum
}

// RunReport is rendered by WriteRunOrg.
type RunReport struct {
	Run    Run
	Series []SeriesSummary
	Notes  []string
}

var runOrgFuncs = template.FuncMap{
	"num": func(x float64) string {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "-"
		}
		return fmt.Sprintf("%.4f", x)
	},
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var runOrg = template.Must(template.New("run").Funcs(runOrgFuncs).Parse(RunOrgTemplate))

// WriteRunOrg renders the report as an Org-mode block.
func WriteRunOrg(w io.Writer, r RunReport) error {
	buf := new(bytes.Buffer)
	if err := runOrg.Execute(buf, r); err != nil {
		return fmt.Errorf("render run report: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

const RunOrgTemplate = `* RUN: {{.Run.Command}} {{if .Run.Dataset}}{{.Run.Dataset}}{{else}}(dataset?){{end}}
:PROPERTIES:
:RUN_ID:      {{if .Run.RunID}}{{.Run.RunID}}{{else}}(run-id?){{end}}
:COMMAND:     {{.Run.Command}}
:TIMEFRAME:   {{if .Run.Timeframe}}{{.Run.Timeframe}}{{else}}(timeframe?){{end}}
:MODE:        {{if .Run.Mode}}{{.Run.Mode}}{{else}}candles{{end}}
:BARS:        {{.Run.Bars}}
:CREATED:     [{{(orTime .Run.Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Series
| Name | Points | Valid | Last | Min | Max |
|------+--------+-------+------+-----+-----|
{{- range .Series}}
| {{.Name}} | {{.Points}} | {{.Valid}} | {{num .Last}} | {{num .Min}} | {{num .Max}} |
{{- end}}
{{- if .Notes}}

** Notes
{{- range .Notes}}
- {{.}}
{{- end}}
{{- end}}
`
